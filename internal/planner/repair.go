package planner

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoJSON is returned when the model output contains nothing that can be
// parsed or repaired into a plan. Callers fall back to template tasks.
var ErrNoJSON = errors.New("no JSON object found in model response")

// rawPlan mirrors the JSON shape the model is asked to produce. Field types
// are deliberately loose: the model routinely emits hours as strings and
// dependencies as mixed arrays, and the validator sorts that out.
type rawPlan struct {
	Tasks []rawTask `json:"tasks"`
}

type rawTask struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	EstimatedHours any    `json:"estimated_hours"`
	Priority       string `json:"priority"`
	TaskType       string `json:"task_type"`
	Complexity     string `json:"complexity_level"`
	Dependencies   []any  `json:"dependencies"`
}

var (
	fencedBlockRe  = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	trailingComma  = regexp.MustCompile(`,(\s*[}\]])`)
	danglingStr    = regexp.MustCompile(`"[^"]*$`)
	danglingPair   = regexp.MustCompile(`,\s*"[^"]*"[^}]*$`)
	danglingObj    = regexp.MustCompile(`,\s*\{[^}]*$`)
	danglingArr    = regexp.MustCompile(`,\s*\[[^\]]*$`)
	danglingStrVal = regexp.MustCompile(`:\s*"[^"]*$`)
	danglingNumVal = regexp.MustCompile(`:\s*\d*\.?\d+$`)
	tasksArrayRe   = regexp.MustCompile(`(?s)"tasks"\s*:\s*\[(.*?)\]`)
)

// repairFix is one superficial textual repair applied to near-JSON. Fixes
// run in order and are pure string transforms so each can be tested alone.
type repairFix struct {
	name  string
	apply func(string) string
}

var repairFixes = []repairFix{
	{"normalize quotes", func(s string) string {
		return strings.ReplaceAll(s, "'", `"`)
	}},
	{"strip trailing commas", func(s string) string {
		return trailingComma.ReplaceAllString(s, "$1")
	}},
	{"close dangling string", func(s string) string {
		return danglingStr.ReplaceAllString(s, `""`)
	}},
	{"drop dangling pair", func(s string) string {
		return danglingPair.ReplaceAllString(s, "")
	}},
	{"drop dangling object", func(s string) string {
		return danglingObj.ReplaceAllString(s, "")
	}},
	{"drop dangling array", func(s string) string {
		return danglingArr.ReplaceAllString(s, "")
	}},
	{"complete string value", func(s string) string {
		return danglingStrVal.ReplaceAllString(s, `: ""`)
	}},
	{"complete number value", func(s string) string {
		return danglingNumVal.ReplaceAllString(s, ": 0")
	}},
	{"truncate after last object", func(s string) string {
		last := strings.LastIndexByte(s, '}')
		if last <= 0 {
			return s
		}
		after := strings.TrimSpace(s[last+1:])
		if after != "" && !strings.HasPrefix(after, ",") {
			return s[:last+1]
		}
		return s
	}},
}

// ExtractPlan pulls a plan out of raw model output. The model is asked for
// bare JSON but wraps it in markdown fences, surrounds it with prose, uses
// single quotes, leaves trailing commas, or truncates mid-object; each of
// those defects is repaired in turn before giving up.
func ExtractPlan(content string) (*rawPlan, error) {
	candidate, err := extractCandidate(content)
	if err != nil {
		return nil, err
	}

	var plan rawPlan
	if err := json.Unmarshal([]byte(candidate), &plan); err == nil {
		return &plan, nil
	}

	repaired := candidate
	for _, fix := range repairFixes {
		repaired = fix.apply(repaired)
		// Stop at the first fix that makes the content parse. Later
		// fixes target truncation and would mangle a now-valid document.
		if err := json.Unmarshal([]byte(repaired), &plan); err == nil {
			return &plan, nil
		}
	}

	// Last structural resort: salvage just the tasks array.
	if m := tasksArrayRe.FindStringSubmatch(repaired); m != nil {
		inner := strings.ReplaceAll(m[1], "'", `"`)
		inner = trailingComma.ReplaceAllString(inner, "$1")
		minimal := fmt.Sprintf(`{"tasks": [%s]}`, inner)
		if err := json.Unmarshal([]byte(minimal), &plan); err == nil {
			return &plan, nil
		}
	}

	return nil, fmt.Errorf("%w: unrepairable content", ErrNoJSON)
}

// jsonUnmarshalLoose unmarshals candidate into v, applying the repair
// fixes first if a strict parse fails.
func jsonUnmarshalLoose(candidate string, v any) error {
	if err := json.Unmarshal([]byte(candidate), v); err == nil {
		return nil
	}
	repaired := candidate
	var err error
	for _, fix := range repairFixes {
		repaired = fix.apply(repaired)
		if err = json.Unmarshal([]byte(repaired), v); err == nil {
			return nil
		}
	}
	return err
}

// extractCandidate locates the JSON object inside the model output: fenced
// code block first, then the first balanced brace pair, then a backward
// scan for the longest prefix that parses after superficial repairs.
func extractCandidate(content string) (string, error) {
	if m := fencedBlockRe.FindStringSubmatch(content); m != nil {
		return m[1], nil
	}

	start := strings.IndexByte(content, '{')
	if start == -1 {
		return "", ErrNoJSON
	}

	if end, ok := matchBrace(content, start); ok {
		return content[start : end+1], nil
	}

	// Unbalanced braces: walk backward from the end looking for a cut
	// point that yields valid JSON once the cheap fixes are applied.
	for i := len(content) - 1; i > start; i-- {
		if content[i] != '}' && content[i] != ']' {
			continue
		}
		test := strings.ReplaceAll(content[start:i+1], "'", `"`)
		test = trailingComma.ReplaceAllString(test, "$1")
		if json.Valid([]byte(test)) {
			return test, nil
		}
	}
	return "", fmt.Errorf("%w: unbalanced braces", ErrNoJSON)
}

// matchBrace finds the closing brace matching the opener at start,
// tracking string literals and escapes so braces inside values are skipped.
func matchBrace(s string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = true
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return i, true
				}
			}
		}
	}
	return 0, false
}
