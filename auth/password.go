package auth

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

type (
	PlainText []byte
)

const (
	DefaultCost = bcrypt.DefaultCost
	MinCost     = bcrypt.MinCost
	MaxCost     = bcrypt.MaxCost
)

func (p PlainText) Zero() {
	for i := range p {
		p[i] = 0
	}
}

// HashPassword returns a salted bcrypt digest of passwd. bcrypt refuses
// passwords longer than 72 bytes.
func HashPassword(passwd PlainText, cost int) (string, error) {
	if cost == 0 {
		cost = DefaultCost
	}
	digest, err := bcrypt.GenerateFromPassword(passwd, cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// VerifyPassword reports whether passwd matches digest. A malformed digest
// never matches.
func VerifyPassword(passwd PlainText, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), passwd) == nil
}

// timingDigest lazily hashes a throwaway password at cost. Comparing
// against it costs as much as checking a real user hashed at the same cost.
func timingDigest(cost int) func() string {
	return sync.OnceValue(func() string {
		digest, err := HashPassword(PlainText("taskbox/no-such-user"), cost)
		if err != nil {
			panic(err)
		}
		return digest
	})
}

// burnComparison spends the same time as a real comparison, so logins for
// unknown emails cannot be told apart by latency.
func burnComparison(passwd PlainText, digest string) {
	_ = VerifyPassword(passwd, digest)
}
