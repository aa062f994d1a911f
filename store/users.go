package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type (
	// User is a registered account. PasswordHash never leaves the server,
	// callers shaping responses must pick fields explicitly.
	User struct {
		ID           int64
		Name         string
		Email        string
		PasswordHash string
		CreatedAt    time.Time
		UpdatedAt    time.Time
	}
)

// CreateUser inserts a new user. Emails are compared case-sensitively and
// a duplicate yields EmailTaken.
func (d *DB) CreateUser(ctx context.Context, name, email, passwordHash string) (User, error) {
	now, ts := d.timestamp()
	u := User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err := d.db.QueryRowContext(ctx, `insert into users(name, email, password, created_at, updated_at)
		values (?, ?, ?, ?, ?) returning user_id`, name, email, passwordHash, ts, ts).Scan(&u.ID)
	if isUniqueViolation(err) {
		return User{}, EmailTaken{Email: email}
	} else if err != nil {
		return User{}, fmt.Errorf("unable to create user, cause %w", err)
	}
	return u, nil
}

func (d *DB) UserByEmail(ctx context.Context, email string) (User, error) {
	u, err := d.scanUser(d.db.QueryRowContext(ctx, `select user_id, name, email, password, created_at, updated_at
		from users where email = ?`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, UserNotFound{Email: email}
	} else if err != nil {
		return User{}, fmt.Errorf("unable to load user by email, cause %w", err)
	}
	return u, nil
}

func (d *DB) UserByID(ctx context.Context, id int64) (User, error) {
	u, err := d.scanUser(d.db.QueryRowContext(ctx, `select user_id, name, email, password, created_at, updated_at
		from users where user_id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, UserNotFound{ID: id}
	} else if err != nil {
		return User{}, fmt.Errorf("unable to load user %v, cause %w", id, err)
	}
	return u, nil
}

func (d *DB) scanUser(row *sql.Row) (User, error) {
	var u User
	var created, updated string
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &created, &updated)
	if err != nil {
		return User{}, err
	}
	if u.CreatedAt, err = parseTime(created); err != nil {
		return User{}, err
	}
	if u.UpdatedAt, err = parseTime(updated); err != nil {
		return User{}, err
	}
	return u, nil
}
