package planner

import (
	"strings"

	"github.com/taskflow-ai/taskflow/internal/models"
)

// typeRule maps a keyword set to a task type. Rules are checked in order;
// the first rule with a keyword hit wins.
type typeRule struct {
	taskType models.TaskType
	keywords []string
}

var typeRules = []typeRule{
	{models.TaskTypeResearch, []string{"research", "analyze", "study", "investigate", "explore", "survey", "market research"}},
	{models.TaskTypeDesign, []string{"design", "architecture", "plan", "wireframe", "mockup", "prototype", "blueprint"}},
	{models.TaskTypeImplementation, []string{"implement", "build", "create", "develop", "code", "program", "construct"}},
	{models.TaskTypeTesting, []string{"test", "testing", "qa", "quality", "debug", "verify", "validate"}},
	{models.TaskTypeDeployment, []string{"deploy", "deployment", "release", "publish", "launch", "production", "host"}},
	{models.TaskTypeDocumentation, []string{"document", "documentation", "write", "manual", "guide", "tutorial", "readme"}},
}

// complexityRule maps a keyword set to a complexity class. Ordered from
// highest to lowest so the strongest signal wins.
type complexityRule struct {
	complexity models.Complexity
	keywords   []string
}

var complexityRules = []complexityRule{
	{models.ComplexityExpert, []string{"ai", "machine learning", "blockchain", "distributed", "microservices", "scalable", "enterprise", "security audit"}},
	{models.ComplexityComplex, []string{"api", "integration", "database", "authentication", "payment", "third-party", "framework", "architecture", "system"}},
	{models.ComplexitySimple, []string{"setup", "configure", "install", "basic", "simple", "update", "fix", "bug", "small"}},
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// DetectTaskType classifies a task by keyword-matching its title and
// description. Falls back to implementation when nothing matches.
func DetectTaskType(title, description string) models.TaskType {
	combined := strings.ToLower(title + " " + description)
	for _, rule := range typeRules {
		if containsAny(combined, rule.keywords) {
			return rule.taskType
		}
	}
	return models.TaskTypeImplementation
}

// DetectComplexity classifies a task's difficulty from its title and
// description. Falls back to moderate when nothing matches.
func DetectComplexity(title, description string) models.Complexity {
	combined := strings.ToLower(title + " " + description)
	for _, rule := range complexityRules {
		if containsAny(combined, rule.keywords) {
			return rule.complexity
		}
	}
	return models.ComplexityModerate
}
