package staffcommon

import (
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher turns a plaintext password into the digest that is stored.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Compare(digest, plaintext string) error
}

type bcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a bcrypt hasher. Costs outside the bcrypt range
// use bcrypt.DefaultCost.
func NewBcryptHasher(cost int) PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

func (h *bcryptHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

func (h *bcryptHasher) Compare(digest, plaintext string) error {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext))
}
