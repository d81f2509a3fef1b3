package task

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OussamaSlimani/tasks/internal/model"
)

func newTestFileRepo(t *testing.T) (*FileRepo, string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := NewFileRepo(dir)
	require.NoError(t, err)
	return repo, dir
}

func reportUpsert() model.TaskUpsert {
	return model.TaskUpsert{
		Name:     "Write report",
		Days:     []string{"monday", "wednesday"},
		Priority: 1,
		Category: "work",
	}
}

func TestFileRepo_MissingFileCreatedEmpty(t *testing.T) {
	repo, dir := newTestFileRepo(t)

	list, err := repo.List()
	require.NoError(t, err)
	assert.Empty(t, list)

	b, err := os.ReadFile(filepath.Join(dir, "tasks.json"))
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(b))
}

func TestFileRepo_CreateFillsDefaults(t *testing.T) {
	repo, _ := newTestFileRepo(t)

	created, err := repo.Create(reportUpsert())
	require.NoError(t, err)

	assert.Equal(t, model.TaskID("1"), created.ID)
	assert.Equal(t, "Write report", created.Name)
	assert.Equal(t, 25, created.Points) // derived from priority 1
	assert.Equal(t, map[string]bool{"monday": false, "wednesday": false}, created.Completed)

	second, err := repo.Create(model.TaskUpsert{Name: "Stretch", Days: []string{"friday"}})
	require.NoError(t, err)
	assert.Equal(t, model.TaskID("2"), second.ID)
	assert.Equal(t, model.DefaultPriority, second.Priority)
	assert.Equal(t, 10, second.Points)
	assert.Equal(t, model.DefaultCategory, second.Category)
}

func TestFileRepo_IDIsMaxPlusOne(t *testing.T) {
	repo, _ := newTestFileRepo(t)

	first, err := repo.Create(reportUpsert())
	require.NoError(t, err)
	second, err := repo.Create(reportUpsert())
	require.NoError(t, err)
	require.NoError(t, repo.Delete(first.ID))

	third, err := repo.Create(reportUpsert())
	require.NoError(t, err)

	assert.Equal(t, model.TaskID("1"), first.ID)
	assert.Equal(t, model.TaskID("2"), second.ID)
	assert.Equal(t, model.TaskID("3"), third.ID)
}

func TestFileRepo_RoundTrip(t *testing.T) {
	repo, dir := newTestFileRepo(t)

	_, err := repo.Create(reportUpsert())
	require.NoError(t, err)
	_, err = repo.Create(model.TaskUpsert{Name: "Read", Days: []string{"sunday"}, Priority: 4})
	require.NoError(t, err)
	before, err := repo.List()
	require.NoError(t, err)

	reopened, err := NewFileRepo(dir)
	require.NoError(t, err)
	after, err := reopened.List()
	require.NoError(t, err)

	assert.Equal(t, before, after)
}

func TestFileRepo_ReplaceReconcilesCompletion(t *testing.T) {
	repo, _ := newTestFileRepo(t)

	created, err := repo.Create(model.TaskUpsert{
		Name: "Gym", Days: []string{"monday", "tuesday"}, Priority: 2,
	})
	require.NoError(t, err)
	_, err = repo.ToggleDay(created.ID, "monday")
	require.NoError(t, err)

	updated, err := repo.Replace(created.ID, model.TaskUpsert{
		Name: "Gym", Days: []string{"tuesday", "friday"}, Priority: 2,
	})
	require.NoError(t, err)

	// monday's completion is dropped, friday starts pending.
	assert.Equal(t, []string{"tuesday", "friday"}, updated.Days)
	assert.Equal(t, map[string]bool{"tuesday": false, "friday": false}, updated.Completed)
	assert.Equal(t, created.ID, updated.ID)
}

func TestFileRepo_CompletedKeysAlwaysMatchDays(t *testing.T) {
	repo, _ := newTestFileRepo(t)

	created, err := repo.Create(reportUpsert())
	require.NoError(t, err)
	requireKeysMatchDays(t, created)

	updated, err := repo.Replace(created.ID, model.TaskUpsert{
		Name: "Write report", Days: []string{"sunday"}, Priority: 1,
	})
	require.NoError(t, err)
	requireKeysMatchDays(t, updated)
}

func requireKeysMatchDays(t *testing.T, tk model.Task) {
	t.Helper()
	require.Len(t, tk.Completed, len(tk.Days))
	for _, d := range tk.Days {
		_, ok := tk.Completed[d]
		require.True(t, ok, "day %q missing from completed", d)
	}
}

func TestFileRepo_ToggleTwiceRestores(t *testing.T) {
	repo, _ := newTestFileRepo(t)

	created, err := repo.Create(reportUpsert())
	require.NoError(t, err)

	once, err := repo.ToggleDay(created.ID, "monday")
	require.NoError(t, err)
	assert.True(t, once.Completed["monday"])

	twice, err := repo.ToggleDay(created.ID, "monday")
	require.NoError(t, err)
	assert.False(t, twice.Completed["monday"])
}

func TestFileRepo_ToggleInvalidDay(t *testing.T) {
	repo, _ := newTestFileRepo(t)

	created, err := repo.Create(reportUpsert())
	require.NoError(t, err)

	_, err = repo.ToggleDay(created.ID, "sunday")
	assert.ErrorIs(t, err, ErrInvalidDay)
}

func TestFileRepo_DeleteNotFoundLeavesStoreUnchanged(t *testing.T) {
	repo, _ := newTestFileRepo(t)

	_, err := repo.Create(reportUpsert())
	require.NoError(t, err)

	assert.ErrorIs(t, repo.Delete("999"), ErrNotFound)

	list, err := repo.List()
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestFileRepo_GetNotFound(t *testing.T) {
	repo, _ := newTestFileRepo(t)
	_, err := repo.Get("1")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.Get("not-a-number")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileRepo_CorruptFileQuarantined(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tasks.json")
	require.NoError(t, os.WriteFile(path, []byte("{this is not json"), 0o644))

	repo, err := NewFileRepo(dir)
	require.NoError(t, err)

	list, err := repo.List()
	require.NoError(t, err)
	assert.Empty(t, list)

	// Live file reset to a valid empty array.
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(b))

	// Corrupt original preserved with a timestamp suffix.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	found := false
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "tasks.json.corrupt.") {
			found = true
		}
	}
	assert.True(t, found, "expected a quarantined backup file")
}

func TestFileRepo_SkipsMalformedRecords(t *testing.T) {
	dir := t.TempDir()
	records := []map[string]any{
		{"id": 1, "name": "good", "days": []string{"monday"}, "priority": 3, "points": 10,
			"category": "other", "completed": map[string]bool{"monday": false}},
		{"name": "no id", "days": []string{"monday"}},
		{"id": 3, "name": "", "days": []string{"monday"}},
	}
	b, err := json.Marshal(records)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tasks.json"), b, 0o644))

	repo, err := NewFileRepo(dir)
	require.NoError(t, err)

	list, err := repo.List()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "good", list[0].Name)
}
