package model

type TaskID string

type Task struct {
	ID          TaskID          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Points      int             `json:"points"`
	Days        []string        `json:"days"`
	Priority    int             `json:"priority"`
	Category    string          `json:"category"`
	Completed   map[string]bool `json:"completed"`
}

// TaskUpsert is the caller-supplied shape for create and update.
// Zero values mean "absent": priority 0 falls back to the default,
// points 0 is recomputed from priority, category "" becomes the default.
type TaskUpsert struct {
	ID          TaskID   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Points      int      `json:"points"`
	Days        []string `json:"days"`
	Priority    int      `json:"priority"`
	Category    string   `json:"category"`
}

const (
	DefaultPriority = 3
	DefaultCategory = "other"
)

// PointsForPriority maps a priority to its point value.
// 1=Critical ... 5=Minimal; anything else earns the medium value.
func PointsForPriority(priority int) int {
	switch priority {
	case 1:
		return 25
	case 2:
		return 15
	case 3:
		return 10
	case 4:
		return 5
	case 5:
		return 2
	default:
		return 10
	}
}

func NormalizePriority(priority int) int {
	if priority < 1 || priority > 5 {
		return DefaultPriority
	}
	return priority
}

// InitCompleted builds a completion map covering exactly the given days,
// all pending.
func InitCompleted(days []string) map[string]bool {
	completed := make(map[string]bool, len(days))
	for _, d := range days {
		completed[d] = false
	}
	return completed
}

// ReconcileCompleted builds the completion map for an updated day set.
// Days kept across the update carry their value over; new days start
// pending; days dropped from the set lose their history.
func ReconcileCompleted(days []string, prev map[string]bool) map[string]bool {
	completed := make(map[string]bool, len(days))
	for _, d := range days {
		completed[d] = prev[d]
	}
	return completed
}
