package task

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/tidwall/buntdb"

	"github.com/OussamaSlimani/tasks/internal/model"
)

// BuntRepo keeps one JSON record per key in a buntdb file (":memory:" for
// tests). Unlike the file backend, writes are per-record: the key is
// allocated first and the full record written under it, so a concurrent
// reader never observes a record without an id. Snapshots come back in key
// order, which the Repo contract leaves unspecified.
type BuntRepo struct {
	db *buntdb.DB

	mu   sync.Mutex
	subs map[int]func([]model.Task)
	next int
}

func NewBuntRepo(path string) (*BuntRepo, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, err
	}
	return &BuntRepo{
		db:   db,
		subs: map[int]func([]model.Task){},
	}, nil
}

func (r *BuntRepo) Close() error {
	return r.db.Close()
}

// Watch registers a subscriber for full-snapshot change notifications.
func (r *BuntRepo) Watch(fn func([]model.Task)) (cancel func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.next
	r.next++
	r.subs[id] = fn
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.subs, id)
	}
}

func (r *BuntRepo) notify() {
	snapshot, err := r.List()
	if err != nil {
		return
	}
	r.mu.Lock()
	subs := make([]func([]model.Task), 0, len(r.subs))
	for _, fn := range r.subs {
		subs = append(subs, fn)
	}
	r.mu.Unlock()
	for _, fn := range subs {
		fn(snapshot)
	}
}

func newKey() model.TaskID {
	return model.TaskID("task_" + strings.ReplaceAll(uuid.NewString(), "-", ""))
}

func (r *BuntRepo) List() ([]model.Task, error) {
	out := []model.Task{}
	err := r.db.View(func(tx *buntdb.Tx) error {
		return tx.Ascend("", func(k, v string) bool {
			var t model.Task
			if json.Unmarshal([]byte(v), &t) != nil {
				return true
			}
			// Same tolerance as the file backend: records missing id or
			// name are skipped, not fatal.
			if t.ID == "" || strings.TrimSpace(t.Name) == "" {
				return true
			}
			out = append(out, t)
			return true
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *BuntRepo) Get(id model.TaskID) (model.Task, error) {
	var t model.Task
	err := r.db.View(func(tx *buntdb.Tx) error {
		v, err := tx.Get(string(id))
		if err != nil {
			return err
		}
		return json.Unmarshal([]byte(v), &t)
	})
	if err == buntdb.ErrNotFound {
		return model.Task{}, ErrNotFound
	}
	if err != nil {
		return model.Task{}, err
	}
	return t, nil
}

func (r *BuntRepo) Create(in model.TaskUpsert) (model.Task, error) {
	t := fill(in)
	t.ID = newKey()
	if err := r.put(t); err != nil {
		return model.Task{}, err
	}
	r.notify()
	return t, nil
}

func (r *BuntRepo) Replace(id model.TaskID, in model.TaskUpsert) (model.Task, error) {
	var next model.Task
	err := r.db.Update(func(tx *buntdb.Tx) error {
		v, err := tx.Get(string(id))
		if err != nil {
			return err
		}
		var cur model.Task
		if err := json.Unmarshal([]byte(v), &cur); err != nil {
			return err
		}
		next = replaceFields(cur, in)
		b, err := json.Marshal(next)
		if err != nil {
			return err
		}
		_, _, err = tx.Set(string(id), string(b), nil)
		return err
	})
	if err == buntdb.ErrNotFound {
		return model.Task{}, ErrNotFound
	}
	if err != nil {
		return model.Task{}, err
	}
	r.notify()
	return next, nil
}

func (r *BuntRepo) ToggleDay(id model.TaskID, day string) (model.Task, error) {
	var next model.Task
	err := r.db.Update(func(tx *buntdb.Tx) error {
		v, err := tx.Get(string(id))
		if err != nil {
			return err
		}
		if err := json.Unmarshal([]byte(v), &next); err != nil {
			return err
		}
		was, ok := next.Completed[day]
		if !ok {
			return ErrInvalidDay
		}
		next.Completed[day] = !was
		b, err := json.Marshal(next)
		if err != nil {
			return err
		}
		_, _, err = tx.Set(string(id), string(b), nil)
		return err
	})
	if err == buntdb.ErrNotFound {
		return model.Task{}, ErrNotFound
	}
	if err != nil {
		return model.Task{}, err
	}
	r.notify()
	return next, nil
}

func (r *BuntRepo) Delete(id model.TaskID) error {
	err := r.db.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete(string(id))
		return err
	})
	if err == buntdb.ErrNotFound {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	r.notify()
	return nil
}

func (r *BuntRepo) put(t model.Task) error {
	b, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return r.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(string(t.ID), string(b), nil)
		return err
	})
}
