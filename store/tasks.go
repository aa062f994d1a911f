package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type (
	Task struct {
		ID        int64
		OwnerID   int64
		Title     string
		Body      string
		Completed bool
		CreatedAt time.Time
		UpdatedAt time.Time
	}

	TaskInput struct {
		Title     string
		Body      string
		Completed bool
	}

	rowScanner interface {
		Scan(...interface{}) error
	}
)

// Owner returns the id of the user that created the task.
func (t Task) Owner() int64 {
	return t.OwnerID
}

const taskColumns = `task_id, user_id, title, body, is_completed, created_at, updated_at`

// CreateTask stores a task for ownerID. The owner is fixed from this
// point on, no other method changes it.
func (d *DB) CreateTask(ctx context.Context, ownerID int64, in TaskInput) (Task, error) {
	now, ts := d.timestamp()
	t := Task{
		OwnerID:   ownerID,
		Title:     in.Title,
		Body:      in.Body,
		Completed: in.Completed,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := d.db.QueryRowContext(ctx, `insert into tasks(user_id, title, body, is_completed, created_at, updated_at)
		values (?, ?, ?, ?, ?, ?) returning task_id`, ownerID, in.Title, in.Body, in.Completed, ts, ts).Scan(&t.ID)
	if err != nil {
		return Task{}, fmt.Errorf("unable to create task, cause %w", err)
	}
	return t, nil
}

// TasksByOwner lists the tasks of a user, newest first.
func (d *DB) TasksByOwner(ctx context.Context, ownerID int64) ([]Task, error) {
	rows, err := d.db.QueryContext(ctx, `select `+taskColumns+` from tasks
		where user_id = ? order by created_at desc, task_id desc`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("unable to list tasks, cause %w", err)
	}
	defer rows.Close()
	out := []Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("unable to scan task, cause %w", err)
		}
		out = append(out, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("unable to list tasks, cause %w", err)
	}
	return out, nil
}

func (d *DB) TaskByID(ctx context.Context, id int64) (Task, error) {
	t, err := scanTask(d.db.QueryRowContext(ctx, `select `+taskColumns+` from tasks where task_id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, TaskNotFound{ID: id}
	} else if err != nil {
		return Task{}, fmt.Errorf("unable to load task %v, cause %w", id, err)
	}
	return t, nil
}

// UpdateTask replaces title, body and completion of a task.
func (d *DB) UpdateTask(ctx context.Context, id int64, in TaskInput) (Task, error) {
	_, ts := d.timestamp()
	t, err := scanTask(d.db.QueryRowContext(ctx, `update tasks set title = ?, body = ?, is_completed = ?, updated_at = ?
		where task_id = ? returning `+taskColumns, in.Title, in.Body, in.Completed, ts, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, TaskNotFound{ID: id}
	} else if err != nil {
		return Task{}, fmt.Errorf("unable to update task %v, cause %w", id, err)
	}
	return t, nil
}

func (d *DB) DeleteTask(ctx context.Context, id int64) error {
	res, err := d.db.ExecContext(ctx, `delete from tasks where task_id = ?`, id)
	if err != nil {
		return fmt.Errorf("unable to delete task %v, cause %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to delete task %v, cause %w", id, err)
	} else if n == 0 {
		return TaskNotFound{ID: id}
	}
	return nil
}

func scanTask(row rowScanner) (Task, error) {
	var t Task
	var created, updated string
	err := row.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Body, &t.Completed, &created, &updated)
	if err != nil {
		return Task{}, err
	}
	if t.CreatedAt, err = parseTime(created); err != nil {
		return Task{}, err
	}
	if t.UpdatedAt, err = parseTime(updated); err != nil {
		return Task{}, err
	}
	return t, nil
}
