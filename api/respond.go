package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/andrebq/taskbox/auth"
	"github.com/andrebq/taskbox/internal/logutil"
	"github.com/andrebq/taskbox/store"
)

type (
	message struct {
		Message string `json:"message"`
	}

	envelope struct {
		Success bool        `json:"success"`
		Message string      `json:"message,omitempty"`
		Data    interface{} `json:"data,omitempty"`
	}

	listing struct {
		Success bool       `json:"success"`
		Data    []taskView `json:"data"`
	}

	validationFailure struct {
		Message string              `json:"message"`
		Errors  map[string][]string `json:"errors"`
	}

	// userView is the only shape in which a user leaves the server.
	userView struct {
		ID        int64     `json:"id"`
		Name      string    `json:"name"`
		Email     string    `json:"email"`
		CreatedAt time.Time `json:"created_at"`
		UpdatedAt time.Time `json:"updated_at"`
	}

	taskView struct {
		ID          int64     `json:"id"`
		Title       string    `json:"title"`
		Body        string    `json:"body"`
		IsCompleted bool      `json:"is_completed"`
		UserID      int64     `json:"user_id"`
		OwnerID     int64     `json:"owner_id"`
		CreatedAt   time.Time `json:"created_at"`
		UpdatedAt   time.Time `json:"updated_at"`
	}
)

func viewUser(u store.User) userView {
	return userView{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func viewTask(t store.Task) taskView {
	return taskView{
		ID:          t.ID,
		Title:       t.Title,
		Body:        t.Body,
		IsCompleted: t.Completed,
		UserID:      t.OwnerID,
		OwnerID:     t.OwnerID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func viewTasks(tasks []store.Task) []taskView {
	out := make([]taskView, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, viewTask(t))
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	buf, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf)
}

// fail translates domain errors into the status codes and payloads of the
// api. Anything unknown is a 500 and only reaches the logs.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		invalid    ValidationError
		taken      store.EmailTaken
		noTask     store.TaskNotFound
		badPayload malformedBody
	)
	switch {
	case errors.As(err, &invalid):
		writeJSON(w, http.StatusUnprocessableEntity, validationFailure{Message: invalid.Error(), Errors: invalid})
	case errors.As(err, &taken):
		invalid = ValidationError{"email": {"The email has already been taken."}}
		writeJSON(w, http.StatusUnprocessableEntity, validationFailure{Message: invalid.Error(), Errors: invalid})
	case errors.As(err, &badPayload):
		writeJSON(w, http.StatusBadRequest, message{Message: "Invalid request payload."})
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, message{Message: "The provided credentials are incorrect."})
	case errors.Is(err, auth.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, message{Message: "Unauthenticated."})
	case errors.Is(err, auth.ErrForbidden):
		writeJSON(w, http.StatusForbidden, envelope{Success: false, Message: "Unauthorized access."})
	case errors.As(err, &noTask):
		writeJSON(w, http.StatusNotFound, envelope{Success: false, Message: "Task not found."})
	default:
		log := logutil.GetOrDefault(r.Context())
		log.Error().Err(err).
			Str("method", r.Method).Str("path", r.URL.Path).
			Msg("Unable to complete request")
		writeJSON(w, http.StatusInternalServerError, message{Message: "Server Error"})
	}
}
