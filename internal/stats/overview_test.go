package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OussamaSlimani/tasks/internal/model"
)

func TestComputeOverview(t *testing.T) {
	tasks := []model.Task{
		{
			ID: "1", Name: "report", Points: 25, Priority: 1, Category: "work",
			Days:      []string{"monday", "wednesday"},
			Completed: map[string]bool{"monday": true, "wednesday": false},
		},
		{
			ID: "2", Name: "run", Points: 10, Priority: 3, Category: "health",
			Days:      []string{"monday"},
			Completed: map[string]bool{"monday": false},
		},
	}

	o := ComputeOverview(tasks)

	require.Len(t, o.Days, 7)
	monday := o.Days[0]
	assert.Equal(t, "monday", monday.Day)
	assert.Equal(t, 2, monday.Scheduled)
	assert.Equal(t, 1, monday.Completed)
	assert.Equal(t, 50, monday.CompletionPercentage)
	assert.Equal(t, 35, monday.TotalPoints)
	assert.Equal(t, 25, monday.CompletedPoints)

	wednesday := o.Days[2]
	assert.Equal(t, 1, wednesday.Scheduled)
	assert.Equal(t, 0, wednesday.Completed)
	assert.Equal(t, 0, wednesday.CompletionPercentage)

	assert.Equal(t, map[string]int{"work": 1, "health": 1}, o.ByCategory)

	require.Len(t, o.ByPriority, 5)
	// Priority 1 task is complete on some day, priority 3 task is not.
	assert.Equal(t, 1, o.ByPriority[0].Total)
	assert.Equal(t, 1, o.ByPriority[0].Completed)
	assert.Equal(t, 100, o.ByPriority[0].CompletionPercentage)
	assert.Equal(t, 1, o.ByPriority[2].Total)
	assert.Equal(t, 0, o.ByPriority[2].Completed)

	// 1 of 3 scheduled day slots is done.
	assert.Equal(t, 33, o.WeeklyCompletionPercentage)
}

func TestComputeOverview_Empty(t *testing.T) {
	o := ComputeOverview(nil)
	require.Len(t, o.Days, 7)
	for _, d := range o.Days {
		assert.Zero(t, d.Scheduled)
		assert.Zero(t, d.CompletionPercentage)
	}
	assert.Empty(t, o.ByCategory)
}
