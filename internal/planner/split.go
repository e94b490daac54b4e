package planner

import (
	"fmt"
	"math"

	"github.com/taskflow-ai/taskflow/internal/models"
)

const (
	splitThresholdHours = 24.0
	splitChunkHours     = 8.0
)

// SplitLongTasks breaks every task longer than the threshold into
// workday-sized parts: full chunks followed by the remainder, so 30h
// becomes 8+8+8+6. Parts form a linear chain, the first part inherits the
// original dependencies remapped to the last part of each dependency, and
// tasks that depend on a split task are pointed at its final part. IDs are
// reassigned sequentially over the new list. Runs before scheduling so
// deadlines are computed for the parts, never the oversized original.
func SplitLongTasks(tasks []models.Task) []models.Task {
	if len(tasks) == 0 {
		return nil
	}

	// Original index -> index of that task's last part in the new list.
	lastPart := make(map[int]int, len(tasks))
	out := make([]models.Task, 0, len(tasks))

	remap := func(deps []int) []int {
		remapped := []int{}
		for _, d := range deps {
			if idx, ok := lastPart[d]; ok {
				remapped = append(remapped, idx)
			}
		}
		return remapped
	}

	for origIdx, task := range tasks {
		hours := math.Max(1.0, task.EstimatedHours)

		if hours <= splitThresholdHours {
			t := task
			t.Dependencies = remap(task.Dependencies)
			t.EstimatedHours = math.Round(hours*10) / 10
			out = append(out, t)
			lastPart[origIdx] = len(out) - 1
			continue
		}

		fullChunks := int(hours / splitChunkHours)
		remainder := hours - float64(fullChunks)*splitChunkHours
		parts := make([]float64, 0, fullChunks+1)
		for i := 0; i < fullChunks; i++ {
			parts = append(parts, splitChunkHours)
		}
		if remainder > 0 {
			parts = append(parts, remainder)
		}

		firstDeps := remap(task.Dependencies)
		for partIdx, partHours := range parts {
			part := task
			part.Title = fmt.Sprintf("%s (Part %d of %d)", task.Title, partIdx+1, len(parts))
			part.EstimatedHours = math.Round(math.Max(1.0, partHours)*10) / 10
			if partIdx == 0 {
				part.Dependencies = firstDeps
			} else {
				part.Dependencies = []int{len(out) - 1}
			}
			out = append(out, part)
		}
		lastPart[origIdx] = len(out) - 1
	}

	for i := range out {
		out[i].ID = i
	}
	return out
}
