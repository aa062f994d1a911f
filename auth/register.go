package auth

import (
	"context"

	"github.com/andrebq/taskbox/store"
)

type (
	// Users is the credential store as seen by the auth layer.
	Users interface {
		CreateUser(ctx context.Context, name, email, passwordHash string) (store.User, error)
		UserByEmail(ctx context.Context, email string) (store.User, error)
		UserByID(ctx context.Context, id int64) (store.User, error)
	}

	Accounts struct {
		users  Users
		issuer *Issuer
		cost   int
		dummy  func() string
	}
)

func NewAccounts(users Users, issuer *Issuer, bcryptCost int) *Accounts {
	if bcryptCost == 0 {
		bcryptCost = DefaultCost
	}
	return &Accounts{
		users:  users,
		issuer: issuer,
		cost:   bcryptCost,
		dummy:  timingDigest(bcryptCost),
	}
}

// Register creates a user. A duplicate email surfaces as store.EmailTaken,
// raised by the store's unique index.
func (a *Accounts) Register(ctx context.Context, name, email string, passwd PlainText) (store.User, error) {
	digest, err := HashPassword(passwd, a.cost)
	if err != nil {
		return store.User{}, err
	}
	return a.users.CreateUser(ctx, name, email, digest)
}
