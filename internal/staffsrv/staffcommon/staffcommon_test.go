package staffcommon

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	digest, err := h.Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", digest)
	assert.NoError(t, h.Compare(digest, "s3cret"))
	assert.Error(t, h.Compare(digest, "wrong"))

	cost, err := bcrypt.Cost([]byte(digest))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)

	other, err := h.Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, digest, other)
}

func TestBcryptHasherCostOutOfRange(t *testing.T) {
	h := NewBcryptHasher(99).(*bcryptHasher)
	assert.Equal(t, bcrypt.DefaultCost, h.cost)
}

func TestCallerContext(t *testing.T) {
	assert.Nil(t, CallerFromContext(context.Background()))
	c := &Caller{ID: "7", Code: "ACME", Role: RoleEmployee}
	assert.Equal(t, c, CallerFromContext(WithCaller(context.Background(), c)))
}
