package task

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/OussamaSlimani/tasks/internal/config"
	"github.com/OussamaSlimani/tasks/internal/model"
	"github.com/OussamaSlimani/tasks/internal/stats"
)

// Failure is the uniform failure envelope. Every failure mode crosses the
// API boundary as one of these; nothing panics or leaks errors past it.
type Failure struct {
	Success bool   `json:"success"`
	Message string `json:"message"`

	// Status hints the HTTP layer; direct callers ignore it.
	Status int `json:"-"`
}

func (f *Failure) Error() string {
	return f.Message
}

func failValidation(format string, args ...any) *Failure {
	return &Failure{Message: fmt.Sprintf(format, args...), Status: http.StatusBadRequest}
}

func failNotFound(msg string) *Failure {
	return &Failure{Message: msg, Status: http.StatusNotFound}
}

func failStorage(err error) *Failure {
	return &Failure{Message: err.Error(), Status: http.StatusInternalServerError}
}

type ListPayload struct {
	Success bool         `json:"success"`
	Tasks   []model.Task `json:"tasks"`
	Stats   *stats.Stats `json:"stats"`
}

type TaskPayload struct {
	Success bool       `json:"success"`
	Task    model.Task `json:"task"`
}

type OKPayload struct {
	Success bool `json:"success"`
}

type OverviewPayload struct {
	Success  bool           `json:"success"`
	Overview stats.Overview `json:"overview"`
}

// Service is the task API layer: it validates input, delegates to the
// store, and shapes every outcome as an envelope value. It is transport
// agnostic; the HTTP handler and the CLI both sit on top of it.
type Service struct {
	repo Repo
	cfg  *config.Config
}

func NewService(repo Repo, cfg *config.Config) *Service {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Service{repo: repo, cfg: cfg}
}

// Repo exposes the backing store, for consumers that need the optional
// Watcher capability.
func (s *Service) Repo() Repo {
	return s.repo
}

// Get returns the tasks for a day view plus its stats panel. Day "all"
// (the default) returns every task with a null panel, optionally narrowed
// by category.
func (s *Service) Get(day, category string) (*ListPayload, *Failure) {
	day = strings.ToLower(strings.TrimSpace(day))
	if day == "" {
		day = stats.DayAll
	}
	if day != stats.DayAll && !model.IsWeekday(day) {
		return nil, failNotFound(fmt.Sprintf("invalid day %q", day))
	}
	category = strings.ToLower(strings.TrimSpace(category))

	all, err := s.repo.List()
	if err != nil {
		return nil, failStorage(err)
	}
	filtered := stats.FilterByDay(all, day, category)
	return &ListPayload{
		Success: true,
		Tasks:   stats.SortForDay(filtered, day),
		Stats:   stats.Compute(filtered, day),
	}, nil
}

func (s *Service) GetTask(id string) (*TaskPayload, *Failure) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, failValidation("missing required field %q", "id")
	}
	t, err := s.repo.Get(model.TaskID(id))
	if errors.Is(err, ErrNotFound) {
		return nil, failNotFound("Task not found")
	}
	if err != nil {
		return nil, failStorage(err)
	}
	return &TaskPayload{Success: true, Task: t}, nil
}

func (s *Service) Create(in model.TaskUpsert) (*TaskPayload, *Failure) {
	if f := s.checkFields(&in); f != nil {
		return nil, f
	}
	t, err := s.repo.Create(in)
	if err != nil {
		return nil, failStorage(err)
	}
	return &TaskPayload{Success: true, Task: t}, nil
}

// Update replaces a task's fields. The canonical response carries the
// success flag only; callers re-fetch to re-render.
func (s *Service) Update(in model.TaskUpsert) (*OKPayload, *Failure) {
	if strings.TrimSpace(string(in.ID)) == "" {
		return nil, failValidation("missing required field %q", "id")
	}
	if f := s.checkFields(&in); f != nil {
		return nil, f
	}
	_, err := s.repo.Replace(in.ID, in)
	if errors.Is(err, ErrNotFound) {
		return nil, failNotFound("Task not found")
	}
	if err != nil {
		return nil, failStorage(err)
	}
	return &OKPayload{Success: true}, nil
}

func (s *Service) Toggle(id, day string) (*OKPayload, *Failure) {
	id = strings.TrimSpace(id)
	day = strings.ToLower(strings.TrimSpace(day))
	if id == "" {
		return nil, failValidation("missing required field %q", "id")
	}
	if day == "" {
		return nil, failValidation("missing required field %q", "day")
	}
	_, err := s.repo.ToggleDay(model.TaskID(id), day)
	if errors.Is(err, ErrNotFound) {
		return nil, failNotFound("Task not found")
	}
	if errors.Is(err, ErrInvalidDay) {
		return nil, failValidation("day %q is not configured for this task", day)
	}
	if err != nil {
		return nil, failStorage(err)
	}
	return &OKPayload{Success: true}, nil
}

func (s *Service) Delete(id string) (*OKPayload, *Failure) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, failValidation("missing required field %q", "id")
	}
	err := s.repo.Delete(model.TaskID(id))
	if errors.Is(err, ErrNotFound) {
		return nil, failNotFound("Task not found")
	}
	if err != nil {
		return nil, failStorage(err)
	}
	return &OKPayload{Success: true}, nil
}

// Overview derives the dashboard aggregate over the full task set.
func (s *Service) Overview() (*OverviewPayload, *Failure) {
	all, err := s.repo.List()
	if err != nil {
		return nil, failStorage(err)
	}
	return &OverviewPayload{Success: true, Overview: stats.ComputeOverview(all)}, nil
}

// checkFields validates the caller-editable fields shared by create and
// update, and normalizes an unknown category to the configured default.
func (s *Service) checkFields(in *model.TaskUpsert) *Failure {
	if strings.TrimSpace(in.Name) == "" {
		return failValidation("missing required field %q", "name")
	}
	days := model.NormalizeDays(in.Days)
	if len(days) == 0 {
		return failValidation("missing required field %q", "days")
	}
	for _, d := range days {
		if !model.IsWeekday(d) {
			return failValidation("invalid day %q", d)
		}
	}
	in.Days = days

	cat := strings.ToLower(strings.TrimSpace(in.Category))
	if cat == "" || !s.cfg.HasCategory(cat) {
		cat = s.cfg.Tasks.DefaultCategory
	}
	in.Category = cat
	return nil
}
