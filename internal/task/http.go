package task

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/OussamaSlimani/tasks/internal/model"
)

// Handler exposes the action surface over HTTP. A single endpoint
// dispatches on the "action" parameter (query or form).
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeFailure(w http.ResponseWriter, f *Failure) {
	code := f.Status
	if code == 0 {
		code = http.StatusBadRequest
	}
	writeJSON(w, code, f)
}

func respond(w http.ResponseWriter, payload any, f *Failure) {
	if f != nil {
		writeFailure(w, f)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

// decodeUpsert reads the task fields either from a JSON-encoded "task"
// form field or from a raw JSON body.
func decodeUpsert(r *http.Request) (model.TaskUpsert, *Failure) {
	var in model.TaskUpsert
	if raw := r.FormValue("task"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &in); err != nil {
			return in, failValidation("invalid task payload")
		}
		return in, nil
	}
	if r.Body == nil {
		return in, failValidation("missing task payload")
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		return in, failValidation("invalid task payload")
	}
	return in, nil
}

// /api/tasks
func (h *Handler) Actions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, &Failure{Message: "method not allowed"})
		return
	}

	action := strings.TrimSpace(r.FormValue("action"))
	switch action {
	case "get":
		payload, f := h.svc.Get(r.FormValue("day"), r.FormValue("category"))
		respond(w, payload, f)

	case "get_task":
		payload, f := h.svc.GetTask(r.FormValue("id"))
		respond(w, payload, f)

	case "overview":
		payload, f := h.svc.Overview()
		respond(w, payload, f)

	case "create":
		if !requirePost(w, r) {
			return
		}
		in, f := decodeUpsert(r)
		if f != nil {
			writeFailure(w, f)
			return
		}
		payload, f := h.svc.Create(in)
		respond(w, payload, f)

	case "update":
		if !requirePost(w, r) {
			return
		}
		in, f := decodeUpsert(r)
		if f != nil {
			writeFailure(w, f)
			return
		}
		payload, f := h.svc.Update(in)
		respond(w, payload, f)

	case "toggle":
		if !requirePost(w, r) {
			return
		}
		payload, f := h.svc.Toggle(r.FormValue("id"), r.FormValue("day"))
		respond(w, payload, f)

	case "delete":
		if !requirePost(w, r) {
			return
		}
		payload, f := h.svc.Delete(r.FormValue("id"))
		respond(w, payload, f)

	default:
		writeJSON(w, http.StatusBadRequest, &Failure{Message: "Invalid action"})
	}
}

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, &Failure{Message: "method not allowed"})
		return false
	}
	return true
}

// /api/events — server-sent task snapshots, available when the active
// backend supports change notification.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, &Failure{Message: "method not allowed"})
		return
	}
	watcher, ok := h.svc.Repo().(Watcher)
	if !ok {
		writeJSON(w, http.StatusNotImplemented, &Failure{Message: "change feed not supported by this backend"})
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, &Failure{Message: "streaming unsupported"})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	snapshots := make(chan []model.Task, 8)
	cancel := watcher.Watch(func(tasks []model.Task) {
		select {
		case snapshots <- tasks:
		default:
			// Slow consumer: drop intermediate snapshots, the next one
			// carries the full state anyway.
		}
	})
	defer cancel()

	initial, err := h.svc.Repo().List()
	if err == nil {
		writeEvent(w, initial)
		flusher.Flush()
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case tasks := <-snapshots:
			writeEvent(w, tasks)
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, tasks []model.Task) {
	b, err := json.Marshal(map[string]any{"tasks": tasks})
	if err != nil {
		return
	}
	_, _ = w.Write([]byte("data: "))
	_, _ = w.Write(b)
	_, _ = w.Write([]byte("\n\n"))
}
