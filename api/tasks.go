package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/andrebq/taskbox/auth"
	"github.com/andrebq/taskbox/store"
	"github.com/julienschmidt/httprouter"
)

type (
	taskRequest struct {
		Title       string `json:"title" validate:"required,max=255"`
		Body        string `json:"body" validate:"required"`
		IsCompleted *bool  `json:"is_completed"`
	}
)

func (s *server) listTasks(w http.ResponseWriter, r *http.Request, _ httprouter.Params, id auth.Identity) {
	tasks, err := s.tasks.TasksByOwner(r.Context(), id.UserID)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listing{Success: true, Data: viewTasks(tasks)})
}

func (s *server) createTask(w http.ResponseWriter, r *http.Request, _ httprouter.Params, id auth.Identity) {
	var req taskRequest
	if err := s.decode(r, &req); err != nil {
		fail(w, r, err)
		return
	}
	in := store.TaskInput{Title: req.Title, Body: req.Body}
	if req.IsCompleted != nil {
		in.Completed = *req.IsCompleted
	}
	task, err := s.tasks.CreateTask(r.Context(), id.UserID, in)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{Success: true, Message: "Task created successfully.", Data: viewTask(task)})
}

func (s *server) showTask(w http.ResponseWriter, r *http.Request, ps httprouter.Params, id auth.Identity) {
	task, err := s.ownedTask(r.Context(), ps, id)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: viewTask(task)})
}

func (s *server) updateTask(w http.ResponseWriter, r *http.Request, ps httprouter.Params, id auth.Identity) {
	task, err := s.ownedTask(r.Context(), ps, id)
	if err != nil {
		fail(w, r, err)
		return
	}
	var req taskRequest
	if err := s.decode(r, &req); err != nil {
		fail(w, r, err)
		return
	}
	in := store.TaskInput{Title: req.Title, Body: req.Body, Completed: task.Completed}
	if req.IsCompleted != nil {
		in.Completed = *req.IsCompleted
	}
	task, err = s.tasks.UpdateTask(r.Context(), task.ID, in)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Task updated successfully.", Data: viewTask(task)})
}

func (s *server) deleteTask(w http.ResponseWriter, r *http.Request, ps httprouter.Params, id auth.Identity) {
	task, err := s.ownedTask(r.Context(), ps, id)
	if err != nil {
		fail(w, r, err)
		return
	}
	if err := s.tasks.DeleteTask(r.Context(), task.ID); err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Task deleted successfully."})
}

// ownedTask loads the task named in the route and applies the ownership
// check before anything about it is exposed or changed.
func (s *server) ownedTask(ctx context.Context, ps httprouter.Params, id auth.Identity) (store.Task, error) {
	taskID, err := strconv.ParseInt(ps.ByName("id"), 10, 64)
	if err != nil || taskID <= 0 {
		return store.Task{}, store.TaskNotFound{ID: taskID}
	}
	task, err := s.tasks.TaskByID(ctx, taskID)
	if err != nil {
		return store.Task{}, err
	}
	if err := auth.Authorize(id, task); err != nil {
		return store.Task{}, err
	}
	return task, nil
}
