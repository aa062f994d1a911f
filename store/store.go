// Package store keeps users, their bearer tokens and their tasks in a
// SQLite database.
//
// Uniqueness of user emails is enforced by the database itself, so two
// concurrent registrations with the same email can never both succeed.
package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/andrebq/taskbox/internal/logutil"
	"github.com/cespare/xxhash/v2"
	"github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

type (
	DB struct {
		db  *sql.DB
		now func() time.Time
	}
)

const (
	// fixed width so that text ordering matches time ordering
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

//go:embed migrations/*.sql
var migrations embed.FS

func openDatabase(ctx context.Context, dir string) (*sql.DB, error) {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, fmt.Errorf("unable to create directory %v to store the database, cause %w", dir, err)
	}
	file := filepath.Join(dir, "taskbox.db")
	connstr := fmt.Sprintf("file:%v?_journal=wal&_foreign_keys=on&_busy_timeout=5000&_txlock=immediate&mode=rwc", file)
	conn, err := sql.Open("sqlite3", connstr)
	if err != nil {
		return nil, fmt.Errorf("unable to open %v, cause %v", file, err)
	}
	err = conn.PingContext(ctx)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to ping database %v, cause %v", file, err)
	}
	return conn, nil
}

// Open opens (or creates) the database kept under dir and migrates it
// to the latest schema.
func Open(ctx context.Context, dir string) (*DB, error) {
	conn, err := openDatabase(ctx, dir)
	if err != nil {
		return nil, err
	}
	d := &DB{db: conn, now: time.Now}
	err = d.migrate(ctx)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to migrate database at %v, cause %w", dir, err)
	}
	err = d.checkSchema(ctx)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return d, nil
}

func (d *DB) migrate(ctx context.Context) error {
	log := logutil.GetOrDefault(ctx)
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return err
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, d.db, fsys)
	if err != nil {
		return err
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return err
	}
	for _, r := range results {
		log.Debug().Int64("version", r.Source.Version).Dur("took", r.Duration).Msg("Migration applied")
	}
	return nil
}

// SetClock replaces the function used to stamp created/updated/issued times.
func (d *DB) SetClock(now func() time.Time) {
	d.now = now
}

func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) timestamp() (time.Time, string) {
	t := d.now().UTC()
	return t, formatTime(t)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q in database, cause %w", s, err)
	}
	return t, nil
}

func digestHash64(digest string) int64 {
	return int64(xxhash.Sum64String(digest))
}

func isUniqueViolation(err error) bool {
	var serr sqlite3.Error
	return errors.As(err, &serr) && serr.ExtendedCode == sqlite3.ErrConstraintUnique
}
