package planner

import (
	"math"
	"strings"

	"github.com/taskflow-ai/taskflow/internal/models"
)

var complexityMultipliers = map[models.Complexity]float64{
	models.ComplexitySimple:   1.0,
	models.ComplexityModerate: 1.5,
	models.ComplexityComplex:  2.5,
	models.ComplexityExpert:   4.0,
}

var experienceMultipliers = map[string]float64{
	"beginner":     1.5,
	"intermediate": 1.0,
	"advanced":     0.8,
}

// taskTypeOverhead is the fixed per-type hour overhead: review and
// iteration for design, testing and code review for implementation, and
// so on.
var taskTypeOverhead = map[models.TaskType]float64{
	models.TaskTypeResearch:       0.5,
	models.TaskTypeDesign:         1.0,
	models.TaskTypeImplementation: 2.0,
	models.TaskTypeTesting:        0.5,
	models.TaskTypeDeployment:     1.0,
	models.TaskTypeDocumentation:  0.2,
}

var (
	familiarTechs = []string{"javascript", "python", "react", "node", "html", "css", "sql", "git"}
	learningTechs = []string{"rust", "go", "kubernetes", "docker", "microservices", "ai", "machine learning", "blockchain"}
)

// practicalIncrements are the hour sizes real plans are written in.
var practicalIncrements = []float64{0.5, 1.0, 1.5, 2.0, 2.5, 3.0, 4.0, 6.0, 8.0, 12.0, 16.0, 24.0}

// EstimateEffort recomputes each task's estimate from its base hours:
// complexity, experience and stack-familiarity multipliers, a per-type
// overhead with keyword-conditional additions, a 15% integration buffer
// for dependent tasks, and a coordination overhead for teams. Every
// applied adjustment is recorded in OverheadFactors. Tasks that already
// carry overhead factors are left untouched, so re-running is a no-op.
func EstimateEffort(tasks []models.Task, constraints *models.Constraints) {
	experience := "intermediate"
	teamSize := 1
	stack := ""
	if constraints != nil {
		if constraints.ExperienceLevel != "" {
			experience = strings.ToLower(constraints.ExperienceLevel)
		}
		if constraints.TeamSize > 0 {
			teamSize = constraints.TeamSize
		}
		stack = strings.ToLower(strings.Join(constraints.TechnicalStack, " "))
	}

	expMult, ok := experienceMultipliers[experience]
	if !ok {
		expMult = 1.0
	}
	stackMult := stackFamiliarityMultiplier(stack)
	coordination := 0.05 * float64(teamSize-1)

	for i := range tasks {
		t := &tasks[i]
		if len(t.OverheadFactors) > 0 {
			continue
		}

		combined := strings.ToLower(t.Title + " " + t.Description)
		factors := map[string]float64{}

		t.BaseHours = t.EstimatedHours
		hours := t.BaseHours

		complexityMult, ok := complexityMultipliers[t.Complexity]
		if !ok {
			complexityMult = 1.5
		}
		hours *= complexityMult
		factors["complexity_multiplier"] = complexityMult

		hours *= expMult
		factors["experience_multiplier"] = expMult

		hours *= stackMult
		factors["technical_stack_multiplier"] = stackMult

		overhead := typeOverhead(t.TaskType, combined)
		hours += overhead
		factors["task_type_overhead"] = overhead

		if len(t.Dependencies) > 0 {
			buffer := hours * 0.15
			hours += buffer
			factors["dependency_overhead"] = buffer
		}

		if teamSize > 1 {
			coord := hours * coordination
			hours += coord
			factors["coordination_overhead"] = coord
		}

		t.EstimatedHours = RoundToPracticalIncrement(hours)
		t.OverheadFactors = factors
	}
}

// typeOverhead is the fixed overhead for a task type plus conditional
// additions for integration, production and build work.
func typeOverhead(taskType models.TaskType, combined string) float64 {
	overhead, ok := taskTypeOverhead[taskType]
	if !ok {
		overhead = 1.0
	}
	if containsAny(combined, []string{"api", "integration", "database"}) {
		overhead += 1.0
	}
	if containsAny(combined, []string{"deploy", "production", "release"}) {
		overhead += 1.5
	}
	if containsAny(combined, []string{"implement", "build", "create"}) {
		overhead += 0.5
	}
	return overhead
}

// stackFamiliarityMultiplier prices the learning curve of a technology
// stack: 1.3 for an all-new stack, 1.1 for a mix, 0.95 when the whole
// stack is familiar, 1.0 when unstated or unknown.
func stackFamiliarityMultiplier(stack string) float64 {
	if stack == "" {
		return 1.0
	}
	hasFamiliar := containsAny(stack, familiarTechs)
	hasLearning := containsAny(stack, learningTechs)
	switch {
	case hasLearning && !hasFamiliar:
		return 1.3
	case hasLearning && hasFamiliar:
		return 1.1
	case hasFamiliar:
		return 0.95
	default:
		return 1.0
	}
}

// RoundToPracticalIncrement snaps hours onto the nearest practical
// increment when within 0.25h of it, otherwise rounds to the nearest
// half hour.
func RoundToPracticalIncrement(hours float64) float64 {
	closest := practicalIncrements[0]
	for _, inc := range practicalIncrements[1:] {
		if math.Abs(inc-hours) < math.Abs(closest-hours) {
			closest = inc
		}
	}
	if math.Abs(hours-closest) < 0.25 {
		return closest
	}
	return math.Round(hours*2) / 2
}
