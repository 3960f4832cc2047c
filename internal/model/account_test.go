package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Kim Osei", Account{FirstName: "Kim", LastName: "Osei"}.DisplayName())
	assert.Equal(t, "Kim", Account{FirstName: "Kim"}.DisplayName())
	assert.Equal(t, "kim@example.com", Account{Email: "kim@example.com"}.DisplayName())
}

func TestLockedOut(t *testing.T) {
	now := time.Now().UTC()
	future := now.Add(5 * time.Minute)
	past := now.Add(-5 * time.Minute)

	assert.False(t, Account{}.LockedOut(now))
	assert.True(t, Account{LockedUntil: &future}.LockedOut(now))
	assert.False(t, Account{LockedUntil: &past}.LockedOut(now))
}

func TestKnownRole(t *testing.T) {
	assert.True(t, KnownRole(RoleAdmin))
	assert.True(t, KnownRole(RoleManager))
	assert.True(t, KnownRole(RoleUser))
	assert.False(t, KnownRole("OWNER"))
	assert.False(t, KnownRole("admin"))
}
