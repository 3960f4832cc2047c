package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/korzhan/resource-tracker/internal/model"
)

type fakeSecretStore struct {
	secrets map[uint64]string
	sets    int
}

func newFakeSecretStore() *fakeSecretStore {
	return &fakeSecretStore{secrets: map[uint64]string{}}
}

func (f *fakeSecretStore) GetTOTPSecret(_ context.Context, id uint64) (string, error) {
	return f.secrets[id], nil
}

func (f *fakeSecretStore) SetTOTPSecret(_ context.Context, id uint64, secret string) error {
	f.secrets[id] = secret
	f.sets++
	return nil
}

func TestEnsureSecretIdempotent(t *testing.T) {
	store := newFakeSecretStore()
	svc := &TOTPService{Issuer: "ResourceTracker", Secrets: store}
	acc := model.Account{ID: 9, Email: "kim@example.com"}

	first, err := svc.EnsureSecret(context.Background(), acc)
	require.NoError(t, err)
	require.NotEmpty(t, first)
	assert.Equal(t, 1, store.sets)

	// A second call with the stored secret on the account must not rotate.
	acc.TOTPSecret = store.secrets[acc.ID]
	second, err := svc.EnsureSecret(context.Background(), acc)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.sets)
}

func TestProvision(t *testing.T) {
	store := newFakeSecretStore()
	svc := &TOTPService{Issuer: "ResourceTracker", Secrets: store}
	acc := model.Account{ID: 3, Email: "kim@example.com"}

	secret, err := svc.EnsureSecret(context.Background(), acc)
	require.NoError(t, err)

	data, err := svc.Provision(acc, secret)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(data.URI, "otpauth://totp/"))
	assert.Contains(t, data.URI, "issuer=ResourceTracker")
	assert.Contains(t, data.URI, "secret="+secret)
	assert.True(t, strings.HasPrefix(data.QRCodeImage, "data:image/png;base64,"))
	assert.Equal(t, GroupSecret(secret), data.ManualEntryKey)
}

func TestVerifyCode(t *testing.T) {
	store := newFakeSecretStore()
	svc := &TOTPService{Issuer: "ResourceTracker", Secrets: store}

	secret, err := svc.EnsureSecret(context.Background(), model.Account{ID: 1, Email: "a@example.com"})
	require.NoError(t, err)

	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)

	assert.True(t, svc.VerifyCode(secret, code))
	assert.True(t, svc.VerifyCode(secret, "  "+code+" "), "whitespace around the code is tolerated")
	assert.False(t, svc.VerifyCode(secret, "000000"))
	assert.False(t, svc.VerifyCode(secret, "not-a-code"))
}

func TestGroupSecret(t *testing.T) {
	assert.Equal(t, "ABCD EFGH", GroupSecret("ABCDEFGH"))
	assert.Equal(t, "ABCD EF", GroupSecret("ABCDEF"))
	assert.Equal(t, "AB", GroupSecret("AB"))
	assert.Equal(t, "", GroupSecret(""))
}
