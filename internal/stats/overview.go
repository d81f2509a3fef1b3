package stats

import (
	"github.com/OussamaSlimani/tasks/internal/model"
)

// DayOverview aggregates one weekday across the whole task set.
type DayOverview struct {
	Day                  string `json:"day"`
	Scheduled            int    `json:"scheduled"`
	Completed            int    `json:"completed"`
	CompletionPercentage int    `json:"completionPercentage"`
	TotalPoints          int    `json:"totalPoints"`
	CompletedPoints      int    `json:"completedPoints"`
}

// PriorityOverview aggregates one priority level. A task counts as
// completed here if any of its days is done.
type PriorityOverview struct {
	Priority             int `json:"priority"`
	Total                int `json:"total"`
	Completed            int `json:"completed"`
	CompletionPercentage int `json:"completionPercentage"`
}

// Overview is the dashboard aggregate over the full task set: per-day
// schedule load and points, task counts per category, and completion rate
// per priority level.
type Overview struct {
	Days       []DayOverview      `json:"days"`
	ByCategory map[string]int     `json:"byCategory"`
	ByPriority []PriorityOverview `json:"byPriority"`

	// WeeklyCompletionPercentage is the completion rate over every
	// scheduled day slot in the week.
	WeeklyCompletionPercentage int `json:"weeklyCompletionPercentage"`
}

// ComputeOverview derives the dashboard aggregate from a snapshot.
func ComputeOverview(tasks []model.Task) Overview {
	o := Overview{
		Days:       make([]DayOverview, len(model.Weekdays)),
		ByCategory: map[string]int{},
		ByPriority: make([]PriorityOverview, 5),
	}
	dayIndex := make(map[string]int, len(model.Weekdays))
	for i, d := range model.Weekdays {
		o.Days[i].Day = d
		dayIndex[d] = i
	}
	for i := range o.ByPriority {
		o.ByPriority[i].Priority = i + 1
	}

	for _, t := range tasks {
		for _, d := range t.Days {
			i, ok := dayIndex[d]
			if !ok {
				continue
			}
			o.Days[i].Scheduled++
			o.Days[i].TotalPoints += t.Points
			if t.Completed[d] {
				o.Days[i].Completed++
				o.Days[i].CompletedPoints += t.Points
			}
		}

		o.ByCategory[t.Category]++

		if t.Priority >= 1 && t.Priority <= 5 {
			p := &o.ByPriority[t.Priority-1]
			p.Total++
			if anyDayDone(t) {
				p.Completed++
			}
		}
	}

	scheduled, completed := 0, 0
	for i := range o.Days {
		o.Days[i].CompletionPercentage = percentage(o.Days[i].Completed, o.Days[i].Scheduled)
		scheduled += o.Days[i].Scheduled
		completed += o.Days[i].Completed
	}
	o.WeeklyCompletionPercentage = percentage(completed, scheduled)
	for i := range o.ByPriority {
		o.ByPriority[i].CompletionPercentage = percentage(o.ByPriority[i].Completed, o.ByPriority[i].Total)
	}
	return o
}

func anyDayDone(t model.Task) bool {
	for _, done := range t.Completed {
		if done {
			return true
		}
	}
	return false
}
