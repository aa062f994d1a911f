package auth

import "errors"

type (
	// Identity is produced by the authentication gate and handed to every
	// protected handler.
	Identity struct {
		UserID int64
	}

	Owned interface {
		Owner() int64
	}
)

var (
	ErrForbidden = errors.New("auth: resource belongs to another user")
)

// Authorize is the ownership check shared by every handler that reads,
// updates or deletes a single resource.
func Authorize(id Identity, res Owned) error {
	if id.UserID == 0 || res.Owner() != id.UserID {
		return ErrForbidden
	}
	return nil
}
