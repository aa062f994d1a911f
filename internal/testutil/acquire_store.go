package testutil

import (
	"context"
	"os"
	"path/filepath"

	"github.com/andrebq/taskbox/store"
)

type (
	TestLog interface {
		Fatal(...interface{})
		Log(...interface{})
	}
)

// AcquireStore opens a fresh database under a temporary directory.
func AcquireStore(ctx context.Context, t TestLog, name string) (*store.DB, func()) {
	dir, err := os.MkdirTemp("", "taskbox-tests")
	if err != nil {
		t.Fatal(err)
	}
	db, err := store.Open(ctx, filepath.Join(dir, name))
	if err != nil {
		t.Fatal(err)
	}
	return db, func() {
		err := db.Close()
		if err != nil {
			t.Log("unable to close store", err)
		}
		err = os.RemoveAll(dir)
		if err != nil {
			t.Log("unable to cleanup temp dir", dir)
		}
	}
}

// AcquirePopulatedStore opens a fresh database and runs loader against it.
func AcquirePopulatedStore(ctx context.Context, t TestLog, name string, loader func(context.Context, *store.DB) error) (*store.DB, func()) {
	db, cleanup := AcquireStore(ctx, t, name)
	if loader != nil {
		if err := loader(ctx, db); err != nil {
			cleanup()
			t.Fatal(err)
		}
	}
	return db, cleanup
}
