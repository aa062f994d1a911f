package auth

import (
	"testing"

	"github.com/andrebq/taskbox/store"
	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	task := store.Task{ID: 1, OwnerID: 10}
	assert.NoError(t, Authorize(Identity{UserID: 10}, task))
	assert.ErrorIs(t, Authorize(Identity{UserID: 11}, task), ErrForbidden)
	assert.ErrorIs(t, Authorize(Identity{}, store.Task{}), ErrForbidden, "zero identity never owns anything")
}
