package stats

import (
	"math"
	"slices"
	"sort"

	"github.com/OussamaSlimani/tasks/internal/model"
)

// DayAll selects the unfiltered all-tasks view.
const DayAll = "all"

// Stats is the aggregate panel for a single day's filtered set.
type Stats struct {
	Pending              int `json:"pending"`
	CompletionPercentage int `json:"completionPercentage"`
	CompletedPoints      int `json:"completedPoints"`
	TotalPoints          int `json:"totalPoints"`
}

// FilterByDay narrows a snapshot to one day's tasks. For the all-tasks view
// an optional category narrows instead; for a specific day the category is
// ignored.
func FilterByDay(tasks []model.Task, day, category string) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if day == DayAll {
			if category != "" && t.Category != category {
				continue
			}
			out = append(out, t)
			continue
		}
		if slices.Contains(t.Days, day) {
			out = append(out, t)
		}
	}
	return out
}

// SortForDay orders a day view for display: pending tasks before completed
// ones, then more urgent (lower priority number) first. Stable, and a no-op
// for the all-tasks view. The input is not modified.
func SortForDay(tasks []model.Task, day string) []model.Task {
	out := append([]model.Task(nil), tasks...)
	if day == DayAll {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		ci, cj := out[i].Completed[day], out[j].Completed[day]
		if ci != cj {
			return !ci
		}
		return out[i].Priority < out[j].Priority
	})
	return out
}

// Compute derives the stats panel for one day over an already-filtered set.
// The all-tasks view has no panel, so day "all" yields nil. An empty set
// yields all zeroes.
func Compute(tasks []model.Task, day string) *Stats {
	if day == DayAll {
		return nil
	}
	s := &Stats{}
	completed := 0
	for _, t := range tasks {
		s.TotalPoints += t.Points
		if t.Completed[day] {
			completed++
			s.CompletedPoints += t.Points
		}
	}
	s.Pending = len(tasks) - completed
	s.CompletionPercentage = percentage(completed, len(tasks))
	return s
}

// percentage rounds half away from zero; 0 when the denominator is 0.
func percentage(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
