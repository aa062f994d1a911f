package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	db, cleanup := tempStore(ctx, t)
	defer cleanup()

	u, err := db.CreateUser(ctx, "X", "x@x.com", "digest")
	if err != nil {
		t.Fatal(err)
	} else if u.ID == 0 {
		t.Fatal("user should have an id")
	}

	_, err = db.CreateUser(ctx, "Y", "x@x.com", "other-digest")
	if !errors.Is(err, EmailTaken{Email: "x@x.com"}) {
		t.Fatalf("Error should be EmailTaken got %#v", err)
	}

	// uniqueness is case-sensitive
	_, err = db.CreateUser(ctx, "Z", "X@x.com", "digest")
	if err != nil {
		t.Fatal(err)
	}

	loaded, err := db.UserByEmail(ctx, "x@x.com")
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, u.ID, loaded.ID)
	require.Equal(t, "X", loaded.Name)
	require.Equal(t, "digest", loaded.PasswordHash)
	require.True(t, u.CreatedAt.Equal(loaded.CreatedAt), "created_at should survive a round trip")

	_, err = db.UserByEmail(ctx, "nobody@x.com")
	if !errors.Is(err, UserNotFound{Email: "nobody@x.com"}) {
		t.Fatalf("Error should be UserNotFound got %#v", err)
	}
	_, err = db.UserByID(ctx, 9999)
	if !errors.Is(err, UserNotFound{ID: 9999}) {
		t.Fatalf("Error should be UserNotFound got %#v", err)
	}
}

func TestConcurrentRegistration(t *testing.T) {
	ctx := context.Background()
	db, cleanup := tempStore(ctx, t)
	defer cleanup()

	const attempts = 8
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := db.CreateUser(ctx, "racer", "race@x.com", "digest")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, taken int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.As(err, &EmailTaken{}):
			taken++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, ok)
	require.Equal(t, attempts-1, taken)
}

func TestTokens(t *testing.T) {
	ctx := context.Background()
	db, cleanup := tempStore(ctx, t)
	defer cleanup()

	alice, err := db.CreateUser(ctx, "alice", "alice@x.com", "digest")
	require.NoError(t, err)
	bob, err := db.CreateUser(ctx, "bob", "bob@x.com", "digest")
	require.NoError(t, err)

	issued := time.Date(2024, 1, 2, 3, 4, 5, 6, time.UTC)
	require.NoError(t, db.SaveToken(ctx, "alice-1", alice.ID, issued))
	require.NoError(t, db.SaveToken(ctx, "alice-2", alice.ID, issued.Add(time.Hour)))
	require.NoError(t, db.SaveToken(ctx, "bob-1", bob.ID, issued))

	owner, at, err := db.LookupToken(ctx, "alice-1")
	require.NoError(t, err)
	require.Equal(t, alice.ID, owner)
	require.True(t, issued.Equal(at))

	_, _, err = db.LookupToken(ctx, "missing")
	require.ErrorIs(t, err, TokenNotFound{})

	n, err := db.DeleteUserTokens(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), n)

	for _, digest := range []string{"alice-1", "alice-2"} {
		_, _, err = db.LookupToken(ctx, digest)
		require.ErrorIs(t, err, TokenNotFound{}, "token %v should be gone", digest)
	}
	owner, _, err = db.LookupToken(ctx, "bob-1")
	require.NoError(t, err)
	require.Equal(t, bob.ID, owner)
}

func TestPruneTokens(t *testing.T) {
	ctx := context.Background()
	db, cleanup := tempStore(ctx, t)
	defer cleanup()

	u, err := db.CreateUser(ctx, "u", "u@x.com", "digest")
	require.NoError(t, err)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.SaveToken(ctx, "old", u.ID, base))
	require.NoError(t, db.SaveToken(ctx, "new", u.ID, base.Add(2*time.Hour)))

	n, err := db.DeleteTokensIssuedBefore(ctx, base.Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	_, _, err = db.LookupToken(ctx, "old")
	require.ErrorIs(t, err, TokenNotFound{})
	_, _, err = db.LookupToken(ctx, "new")
	require.NoError(t, err)
}

func TestTasks(t *testing.T) {
	ctx := context.Background()
	db, cleanup := tempStore(ctx, t)
	defer cleanup()

	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	db.SetClock(func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	})

	owner, err := db.CreateUser(ctx, "owner", "owner@x.com", "digest")
	require.NoError(t, err)
	other, err := db.CreateUser(ctx, "other", "other@x.com", "digest")
	require.NoError(t, err)

	first, err := db.CreateTask(ctx, owner.ID, TaskInput{Title: "first", Body: "b1"})
	require.NoError(t, err)
	second, err := db.CreateTask(ctx, owner.ID, TaskInput{Title: "second", Body: "b2", Completed: true})
	require.NoError(t, err)
	_, err = db.CreateTask(ctx, other.ID, TaskInput{Title: "not mine", Body: "b3"})
	require.NoError(t, err)

	list, err := db.TasksByOwner(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, second.ID, list[0].ID, "newest task should come first")
	require.Equal(t, first.ID, list[1].ID)
	require.True(t, list[0].Completed)

	empty, err := db.TasksByOwner(ctx, 4242)
	require.NoError(t, err)
	require.NotNil(t, empty)
	require.Empty(t, empty)

	updated, err := db.UpdateTask(ctx, first.ID, TaskInput{Title: "first!", Body: "changed", Completed: true})
	require.NoError(t, err)
	require.Equal(t, owner.ID, updated.OwnerID)
	require.Equal(t, "first!", updated.Title)
	require.True(t, updated.Completed)
	require.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	loaded, err := db.TaskByID(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, updated, loaded)

	require.NoError(t, db.DeleteTask(ctx, first.ID))
	_, err = db.TaskByID(ctx, first.ID)
	require.ErrorIs(t, err, TaskNotFound{ID: first.ID})
	require.ErrorIs(t, db.DeleteTask(ctx, first.ID), TaskNotFound{ID: first.ID})
	_, err = db.UpdateTask(ctx, first.ID, TaskInput{Title: "x", Body: "y"})
	require.ErrorIs(t, err, TaskNotFound{ID: first.ID})
}

func TestReadTableInfo(t *testing.T) {
	ctx := context.Background()
	db, cleanup := tempStore(ctx, t)
	defer cleanup()

	td, err := loadTableDef(ctx, db.db, "users")
	if err != nil {
		t.Fatal(err)
	}

	expected := TableDef{
		Name: "users",
		Columns: []ColumnDef{
			{Name: "created_at", Datatype: "TEXT"},
			{Name: "email", Datatype: "TEXT"},
			{Name: "name", Datatype: "TEXT"},
			{Name: "password", Datatype: "TEXT"},
			{Name: "updated_at", Datatype: "TEXT"},
			{Name: "user_id", Datatype: "INTEGER"},
		},
		PrimaryKey: []string{"user_id"},
		Unique: []UniqueDef{
			{Name: "uidx_users_email", Columns: []string{"email"}},
		},
	}
	require.Equal(t, expected, *td)
	require.True(t, td.HasUnique("email"))
	require.False(t, td.HasUnique("name"))
}

func TestReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	db, err := Open(ctx, filepath.Join(dir, "data"))
	require.NoError(t, err)
	_, err = db.CreateUser(ctx, "X", "x@x.com", "digest")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// migrations must be idempotent
	db, err = Open(ctx, filepath.Join(dir, "data"))
	require.NoError(t, err)
	defer db.Close()
	_, err = db.UserByEmail(ctx, "x@x.com")
	require.NoError(t, err)
}

func tempStore(ctx context.Context, t interface {
	Fatal(...interface{})
	Log(...interface{})
}) (*DB, func()) {
	dir, err := os.MkdirTemp("", "taskbox-tests")
	if err != nil {
		t.Fatal(err)
	}
	db, err := Open(ctx, filepath.Join(dir, "db"))
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
