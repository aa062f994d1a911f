package auth

import (
	"context"
	"errors"

	"github.com/andrebq/taskbox/store"
)

var (
	// ErrInvalidCredentials is returned for an unknown email and for a wrong
	// password alike.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
)

// Login checks the credentials and issues a new token. Previously issued
// tokens stay valid.
func (a *Accounts) Login(ctx context.Context, email string, passwd PlainText) (string, store.User, error) {
	user, err := a.users.UserByEmail(ctx, email)
	if errors.As(err, &store.UserNotFound{}) {
		burnComparison(passwd, a.dummy())
		return "", store.User{}, ErrInvalidCredentials
	} else if err != nil {
		return "", store.User{}, err
	}
	if !VerifyPassword(passwd, user.PasswordHash) {
		return "", store.User{}, ErrInvalidCredentials
	}
	token, err := a.issuer.Issue(ctx, user.ID)
	if err != nil {
		return "", store.User{}, err
	}
	return token, user, nil
}

// Authenticate resolves a bearer token into the identity of its owner.
func (a *Accounts) Authenticate(ctx context.Context, token string) (Identity, error) {
	userID, err := a.issuer.Resolve(ctx, token)
	if err != nil {
		return Identity{}, err
	}
	return Identity{UserID: userID}, nil
}

// Logout revokes all tokens of the user, not only the one used for the
// current request.
func (a *Accounts) Logout(ctx context.Context, id Identity) error {
	return a.issuer.RevokeAll(ctx, id.UserID)
}

// LogoutEmail is Logout for administrative use, where only the email of
// the user is known.
func (a *Accounts) LogoutEmail(ctx context.Context, email string) (store.User, error) {
	user, err := a.users.UserByEmail(ctx, email)
	if err != nil {
		return store.User{}, err
	}
	return user, a.issuer.RevokeAll(ctx, user.ID)
}

// Current loads the user behind an identity.
func (a *Accounts) Current(ctx context.Context, id Identity) (store.User, error) {
	user, err := a.users.UserByID(ctx, id.UserID)
	if errors.As(err, &store.UserNotFound{}) {
		return store.User{}, ErrUnauthenticated
	}
	return user, err
}
