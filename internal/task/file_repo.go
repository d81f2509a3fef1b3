package task

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"

	"github.com/OussamaSlimani/tasks/internal/model"
)

const storeFile = "tasks.json"

// record is the on-disk shape: ids are integers in the file. The Repo
// surface exposes them as opaque string TaskIDs.
type record struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Points      int             `json:"points"`
	Days        []string        `json:"days"`
	Priority    int             `json:"priority"`
	Category    string          `json:"category"`
	Completed   map[string]bool `json:"completed"`
}

// FileRepo persists the whole collection as one pretty-printed JSON array.
// Every write serializes to a temp file and renames it over the canonical
// path, so readers never observe a torn write. A corrupt file is renamed
// aside with a timestamp suffix and the live file reset to an empty array.
type FileRepo struct {
	mu    sync.RWMutex
	path  string
	tasks []record // storage order
}

func NewFileRepo(dataDir string) (*FileRepo, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	r := &FileRepo{path: filepath.Join(dataDir, storeFile)}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

// Path returns the canonical store file path.
func (r *FileRepo) Path() string {
	return r.path
}

func (r *FileRepo) load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			r.tasks = nil
			return r.saveLocked()
		}
		return err
	}

	parsed := gjson.ParseBytes(b)
	if !gjson.ValidBytes(b) || !parsed.IsArray() {
		if err := r.quarantineLocked(); err != nil {
			return err
		}
		r.tasks = nil
		return r.saveLocked()
	}

	var loaded []record
	parsed.ForEach(func(_, el gjson.Result) bool {
		// Malformed records (missing id or name) are skipped rather than
		// failing the whole read.
		if !el.Get("id").Exists() || strings.TrimSpace(el.Get("name").String()) == "" {
			return true
		}
		var rec record
		if json.Unmarshal([]byte(el.Raw), &rec) != nil {
			return true
		}
		if rec.Completed == nil {
			rec.Completed = map[string]bool{}
		}
		loaded = append(loaded, rec)
		return true
	})
	r.tasks = loaded
	return nil
}

// quarantineLocked moves an unparseable store file aside for forensic
// recovery instead of blocking all future operations on it.
func (r *FileRepo) quarantineLocked() error {
	backup := fmt.Sprintf("%s.corrupt.%s", r.path, time.Now().UTC().Format("20060102T150405"))
	if err := os.Rename(r.path, backup); err != nil {
		return err
	}
	log.Printf("task store: quarantined corrupt file as %s", filepath.Base(backup))
	return nil
}

func (r *FileRepo) saveLocked() error {
	recs := r.tasks
	if recs == nil {
		recs = []record{}
	}
	b, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), storeFile+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}

func (r *FileRepo) nextIDLocked() int64 {
	var max int64
	for _, rec := range r.tasks {
		if rec.ID > max {
			max = rec.ID
		}
	}
	return max + 1
}

func (r *FileRepo) indexLocked(id model.TaskID) int {
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil {
		return -1
	}
	for i, rec := range r.tasks {
		if rec.ID == n {
			return i
		}
	}
	return -1
}

func toModel(rec record) model.Task {
	return model.Task{
		ID:          model.TaskID(strconv.FormatInt(rec.ID, 10)),
		Name:        rec.Name,
		Description: rec.Description,
		Points:      rec.Points,
		Days:        append([]string(nil), rec.Days...),
		Priority:    rec.Priority,
		Category:    rec.Category,
		Completed:   cloneCompleted(rec.Completed),
	}
}

func toRecord(id int64, t model.Task) record {
	return record{
		ID:          id,
		Name:        t.Name,
		Description: t.Description,
		Points:      t.Points,
		Days:        append([]string(nil), t.Days...),
		Priority:    t.Priority,
		Category:    t.Category,
		Completed:   cloneCompleted(t.Completed),
	}
}

func cloneCompleted(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (r *FileRepo) List() ([]model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Task, 0, len(r.tasks))
	for _, rec := range r.tasks {
		out = append(out, toModel(rec))
	}
	return out, nil
}

func (r *FileRepo) Get(id model.TaskID) (model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexLocked(id)
	if i < 0 {
		return model.Task{}, ErrNotFound
	}
	return toModel(r.tasks[i]), nil
}

func (r *FileRepo) Create(in model.TaskUpsert) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := toRecord(r.nextIDLocked(), fill(in))
	r.tasks = append(r.tasks, rec)
	if err := r.saveLocked(); err != nil {
		r.tasks = r.tasks[:len(r.tasks)-1]
		return model.Task{}, err
	}
	return toModel(rec), nil
}

func (r *FileRepo) Replace(id model.TaskID, in model.TaskUpsert) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexLocked(id)
	if i < 0 {
		return model.Task{}, ErrNotFound
	}
	prev := r.tasks[i]
	next := replaceFields(toModel(prev), in)
	r.tasks[i] = toRecord(prev.ID, next)
	if err := r.saveLocked(); err != nil {
		r.tasks[i] = prev
		return model.Task{}, err
	}
	return toModel(r.tasks[i]), nil
}

func (r *FileRepo) ToggleDay(id model.TaskID, day string) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexLocked(id)
	if i < 0 {
		return model.Task{}, ErrNotFound
	}
	was, ok := r.tasks[i].Completed[day]
	if !ok {
		return model.Task{}, ErrInvalidDay
	}
	r.tasks[i].Completed[day] = !was
	if err := r.saveLocked(); err != nil {
		r.tasks[i].Completed[day] = was
		return model.Task{}, err
	}
	return toModel(r.tasks[i]), nil
}

func (r *FileRepo) Delete(id model.TaskID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexLocked(id)
	if i < 0 {
		return ErrNotFound
	}
	prev := r.tasks
	r.tasks = append(append([]record{}, r.tasks[:i]...), r.tasks[i+1:]...)
	if err := r.saveLocked(); err != nil {
		r.tasks = prev
		return err
	}
	return nil
}
