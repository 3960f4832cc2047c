package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/korzhan/resource-tracker/internal/auth"
	"github.com/korzhan/resource-tracker/internal/config"
	"github.com/korzhan/resource-tracker/internal/middleware"
	"github.com/korzhan/resource-tracker/internal/model"
	"github.com/korzhan/resource-tracker/internal/repository"
	"github.com/korzhan/resource-tracker/internal/utils"
)

// fakeAccounts is an in-memory AccountStore mirroring the SQL store's
// behavior, including the lockout bookkeeping.
type fakeAccounts struct {
	mu     sync.Mutex
	nextID uint64
	byID   map[uint64]*model.Account
	roles  map[uint64][]string
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{byID: map[uint64]*model.Account{}, roles: map[uint64][]string{}}
}

func (f *fakeAccounts) Create(_ context.Context, acc model.Account, password, role string, cost int) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byID {
		if a.Email == acc.Email {
			return 0, repository.ErrEmailExists
		}
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	f.nextID++
	acc.ID = f.nextID
	acc.PasswordHash = hash
	f.byID[acc.ID] = &acc
	f.roles[acc.ID] = []string{role}
	return acc.ID, nil
}

func (f *fakeAccounts) GetByEmail(_ context.Context, email string) (model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byID {
		if a.Email == email {
			return *a, nil
		}
	}
	return model.Account{}, repository.ErrNotFound
}

func (f *fakeAccounts) GetByID(_ context.Context, id uint64) (model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.byID[id]; ok {
		return *a, nil
	}
	return model.Account{}, repository.ErrNotFound
}

func (f *fakeAccounts) Roles(_ context.Context, id uint64) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.roles[id]...), nil
}

func (f *fakeAccounts) UpdateProfile(_ context.Context, id uint64, upd model.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.Title, a.FirstName, a.LastName = upd.Title, upd.FirstName, upd.LastName
	a.PhoneNumber, a.Address, a.ZipCode = upd.PhoneNumber, upd.Address, upd.ZipCode
	return nil
}

func (f *fakeAccounts) UpdatePasswordHash(_ context.Context, id uint64, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.PasswordHash = hash
	return nil
}

func (f *fakeAccounts) SetTwoFactorEnabled(_ context.Context, id uint64, enabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.TwoFactorEnabled = enabled
	return nil
}

func (f *fakeAccounts) RecordLoginFailure(_ context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.FailedLogins++
	if a.FailedLogins >= 5 {
		until := time.Now().UTC().Add(15 * time.Minute)
		a.LockedUntil = &until
	}
	return nil
}

func (f *fakeAccounts) ClearLoginFailures(_ context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.FailedLogins = 0
	a.LockedUntil = nil
	return nil
}

func (f *fakeAccounts) GetTOTPSecret(_ context.Context, id uint64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.byID[id]; ok {
		return a.TOTPSecret, nil
	}
	return "", repository.ErrNotFound
}

func (f *fakeAccounts) SetTOTPSecret(_ context.Context, id uint64, secret string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.TOTPSecret = secret
	return nil
}

type storedReset struct {
	accountID uint64
	expiresAt time.Time
	used      bool
}

type fakeResets struct {
	mu     sync.Mutex
	byHash map[string]*storedReset
}

func newFakeResets() *fakeResets {
	return &fakeResets{byHash: map[string]*storedReset{}}
}

func (f *fakeResets) Store(_ context.Context, accountID uint64, tokenHash string, exp time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byHash[tokenHash] = &storedReset{accountID: accountID, expiresAt: exp}
	return nil
}

func (f *fakeResets) Validate(_ context.Context, tokenHash string) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.byHash[tokenHash]
	if !ok || r.used || time.Now().UTC().After(r.expiresAt) {
		return 0, repository.ErrNotFound
	}
	return r.accountID, nil
}

func (f *fakeResets) Consume(_ context.Context, tokenHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.byHash[tokenHash]; ok {
		r.used = true
	}
	return nil
}

func newTestAuthHandler() (*AuthHandler, *fakeAccounts, *fakeResets) {
	accounts := newFakeAccounts()
	resets := newFakeResets()
	h := &AuthHandler{
		Cfg:      config.Config{BcryptCost: bcrypt.MinCost, ResetTTLMin: 30},
		Accounts: accounts,
		Resets:   resets,
		Issuer: auth.Issuer{
			Secret:   "test-secret",
			Issuer:   "resource-tracker",
			Audience: "resource-tracker-api",
			TTL:      15 * time.Minute,
		},
		TOTP: &auth.TOTPService{Issuer: "ResourceTracker", Secrets: accounts},
	}
	return h, accounts, resets
}

// call runs a handler against a JSON body and decodes the JSON response.
func call(t *testing.T, fn echo.HandlerFunc, body string, uid uint64) (int, map[string]interface{}) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if uid != 0 {
		c.Set(middleware.CtxUserID, uid)
	}
	require.NoError(t, fn(c))

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec.Code, resp
}

func register(t *testing.T, h *AuthHandler, email, password, role string) uint64 {
	t.Helper()
	body, _ := json.Marshal(map[string]string{
		"email": email, "password": password, "role": role,
		"firstName": "Kim", "lastName": "Osei",
	})
	code, resp := call(t, h.Register, string(body), 0)
	require.Equal(t, http.StatusCreated, code, "register %s: %v", email, resp)
	return uint64(resp["userId"].(float64))
}

func TestRegister(t *testing.T) {
	h, _, _ := newTestAuthHandler()

	body := `{"email":"Kim@Example.com","password":"longenough","role":"MANAGER"}`
	code, resp := call(t, h.Register, body, 0)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "MANAGER", resp["role"])
	assert.NotZero(t, resp["userId"])

	// Same address, different case: the email is normalized before storage.
	code, resp = call(t, h.Register, `{"email":"kim@example.com","password":"longenough"}`, 0)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "account already exists", resp["error"])
}

func TestRegisterUnknownRoleFallsBackToUser(t *testing.T) {
	h, _, _ := newTestAuthHandler()
	code, resp := call(t, h.Register, `{"email":"a@example.com","password":"longenough","role":"SUPERUSER"}`, 0)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "USER", resp["role"])
}

func TestRegisterShortPassword(t *testing.T) {
	h, _, _ := newTestAuthHandler()
	code, _ := call(t, h.Register, `{"email":"a@example.com","password":"short"}`, 0)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestLoginIssuesToken(t *testing.T) {
	h, _, _ := newTestAuthHandler()
	register(t, h, "kim@example.com", "longenough", "USER")

	code, resp := call(t, h.Login, `{"email":"kim@example.com","password":"longenough"}`, 0)
	require.Equal(t, http.StatusOK, code)
	assert.NotEmpty(t, resp["token"])
	assert.Equal(t, "kim@example.com", resp["email"])
	assert.Equal(t, []interface{}{"USER"}, resp["roles"])
}

func TestLoginGenericRejection(t *testing.T) {
	h, _, _ := newTestAuthHandler()
	register(t, h, "kim@example.com", "longenough", "USER")

	// Wrong password and unknown email produce the same status and message
	// so responses cannot be used to probe for registered addresses.
	code, wrongPass := call(t, h.Login, `{"email":"kim@example.com","password":"incorrect1"}`, 0)
	assert.Equal(t, http.StatusUnauthorized, code)
	code, unknown := call(t, h.Login, `{"email":"nobody@example.com","password":"incorrect1"}`, 0)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, wrongPass["error"], unknown["error"])
}

func TestLoginLockout(t *testing.T) {
	h, _, _ := newTestAuthHandler()
	register(t, h, "kim@example.com", "longenough", "USER")

	for i := 0; i < 5; i++ {
		code, _ := call(t, h.Login, `{"email":"kim@example.com","password":"incorrect1"}`, 0)
		assert.Equal(t, http.StatusUnauthorized, code)
	}
	// The lockout answers 400 even with the correct password.
	code, resp := call(t, h.Login, `{"email":"kim@example.com","password":"longenough"}`, 0)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, resp["error"], "locked")
}

func enrollTwoFactor(t *testing.T, h *AuthHandler, accounts *fakeAccounts, uid uint64) string {
	t.Helper()
	code, resp := call(t, h.TwoFactorSetup, `{}`, uid)
	require.Equal(t, http.StatusOK, code)
	require.NotEmpty(t, resp["qrCodeUri"])
	require.NotEmpty(t, resp["manualEntryKey"])

	code, _ = call(t, h.EnableTwoFactor, `{"enable":true}`, uid)
	require.Equal(t, http.StatusOK, code)

	secret, err := accounts.GetTOTPSecret(context.Background(), uid)
	require.NoError(t, err)
	return secret
}

func TestTwoFactorLoginFlow(t *testing.T) {
	h, accounts, _ := newTestAuthHandler()
	uid := register(t, h, "kim@example.com", "longenough", "USER")
	secret := enrollTwoFactor(t, h, accounts, uid)

	// Correct credentials now yield a challenge instead of a token.
	code, resp := call(t, h.Login, `{"email":"kim@example.com","password":"longenough"}`, 0)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, resp["requiresTwoFactor"])
	assert.NotContains(t, resp, "token")

	totpCode, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	body, _ := json.Marshal(map[string]string{"email": "kim@example.com", "code": totpCode})
	code, resp = call(t, h.VerifyTwoFactor, string(body), 0)
	require.Equal(t, http.StatusOK, code)
	assert.NotEmpty(t, resp["token"])
}

func TestVerifyTwoFactorRejections(t *testing.T) {
	h, accounts, _ := newTestAuthHandler()
	uid := register(t, h, "kim@example.com", "longenough", "USER")

	// No secret enrolled yet.
	code, resp := call(t, h.VerifyTwoFactor, `{"email":"kim@example.com","code":"123456"}`, 0)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "invalid request", resp["error"])

	enrollTwoFactor(t, h, accounts, uid)
	code, resp = call(t, h.VerifyTwoFactor, `{"email":"kim@example.com","code":"000000"}`, 0)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "invalid code", resp["error"])

	// Unknown email gets the same response as a missing secret.
	code, resp = call(t, h.VerifyTwoFactor, `{"email":"nobody@example.com","code":"123456"}`, 0)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "invalid request", resp["error"])
}

func TestEnableTwoFactorWithoutSetup(t *testing.T) {
	h, _, _ := newTestAuthHandler()
	uid := register(t, h, "kim@example.com", "longenough", "USER")

	code, resp := call(t, h.EnableTwoFactor, `{"enable":true}`, uid)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "two-factor setup not completed", resp["error"])

	// Disabling never needs a secret.
	code, _ = call(t, h.EnableTwoFactor, `{"enable":false}`, uid)
	assert.Equal(t, http.StatusOK, code)
}

func TestTwoFactorSetupIdempotent(t *testing.T) {
	h, _, _ := newTestAuthHandler()
	uid := register(t, h, "kim@example.com", "longenough", "USER")

	_, first := call(t, h.TwoFactorSetup, `{}`, uid)
	_, second := call(t, h.TwoFactorSetup, `{}`, uid)
	assert.Equal(t, first["qrCodeUri"], second["qrCodeUri"])
	assert.Equal(t, first["manualEntryKey"], second["manualEntryKey"])
}

func TestChangePassword(t *testing.T) {
	h, _, _ := newTestAuthHandler()
	uid := register(t, h, "kim@example.com", "oldpassword", "USER")

	code, _ := call(t, h.ChangePassword, `{"currentPassword":"wrongpass1","newPassword":"newpassword"}`, uid)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = call(t, h.ChangePassword, `{"currentPassword":"oldpassword","newPassword":"newpassword"}`, uid)
	require.Equal(t, http.StatusOK, code)

	code, _ = call(t, h.Login, `{"email":"kim@example.com","password":"oldpassword"}`, 0)
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = call(t, h.Login, `{"email":"kim@example.com","password":"newpassword"}`, 0)
	assert.Equal(t, http.StatusOK, code)
}

func TestForgotPasswordGenericMessage(t *testing.T) {
	h, _, resets := newTestAuthHandler()
	register(t, h, "kim@example.com", "longenough", "USER")

	code, known := call(t, h.ForgotPassword, `{"email":"kim@example.com"}`, 0)
	assert.Equal(t, http.StatusOK, code)
	code, unknown := call(t, h.ForgotPassword, `{"email":"nobody@example.com"}`, 0)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, known["message"], unknown["message"])

	// A token was stored only for the registered address.
	assert.Len(t, resets.byHash, 1)
}

func TestResetPasswordFlow(t *testing.T) {
	h, _, resets := newTestAuthHandler()
	uid := register(t, h, "kim@example.com", "oldpassword", "USER")

	raw, err := utils.NewResetToken()
	require.NoError(t, err)
	require.NoError(t, resets.Store(context.Background(), uid,
		utils.HashResetToken(raw), time.Now().UTC().Add(30*time.Minute)))

	body, _ := json.Marshal(map[string]string{
		"email": "kim@example.com", "resetToken": raw, "newPassword": "freshpassword",
	})
	code, _ := call(t, h.ResetPassword, string(body), 0)
	require.Equal(t, http.StatusOK, code)

	code, _ = call(t, h.Login, `{"email":"kim@example.com","password":"freshpassword"}`, 0)
	assert.Equal(t, http.StatusOK, code)

	// Tokens are single-use.
	code, resp := call(t, h.ResetPassword, string(body), 0)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid or expired reset token", resp["error"])
}

func TestResetPasswordRejectsForeignToken(t *testing.T) {
	h, _, resets := newTestAuthHandler()
	register(t, h, "kim@example.com", "longenough", "USER")
	other := register(t, h, "lee@example.com", "longenough", "USER")

	raw, err := utils.NewResetToken()
	require.NoError(t, err)
	require.NoError(t, resets.Store(context.Background(), other,
		utils.HashResetToken(raw), time.Now().UTC().Add(30*time.Minute)))

	body, _ := json.Marshal(map[string]string{
		"email": "kim@example.com", "resetToken": raw, "newPassword": "freshpassword",
	})
	code, _ := call(t, h.ResetPassword, string(body), 0)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestResetPasswordWithTwoFactor(t *testing.T) {
	h, accounts, resets := newTestAuthHandler()
	uid := register(t, h, "kim@example.com", "oldpassword", "USER")
	secret := enrollTwoFactor(t, h, accounts, uid)

	raw, err := utils.NewResetToken()
	require.NoError(t, err)
	require.NoError(t, resets.Store(context.Background(), uid,
		utils.HashResetToken(raw), time.Now().UTC().Add(30*time.Minute)))

	// Missing code.
	body, _ := json.Marshal(map[string]string{
		"email": "kim@example.com", "resetToken": raw, "newPassword": "freshpassword",
	})
	code, resp := call(t, h.ResetPassword, string(body), 0)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "two-factor code required", resp["error"])

	// Wrong code.
	body, _ = json.Marshal(map[string]string{
		"email": "kim@example.com", "resetToken": raw,
		"newPassword": "freshpassword", "twoFactorCode": "000000",
	})
	code, _ = call(t, h.ResetPassword, string(body), 0)
	assert.Equal(t, http.StatusUnauthorized, code)

	// Valid code completes the reset.
	totpCode, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	body, _ = json.Marshal(map[string]string{
		"email": "kim@example.com", "resetToken": raw,
		"newPassword": "freshpassword", "twoFactorCode": totpCode,
	})
	code, _ = call(t, h.ResetPassword, string(body), 0)
	assert.Equal(t, http.StatusOK, code)
}

func TestProfileRoundTrip(t *testing.T) {
	h, _, _ := newTestAuthHandler()
	uid := register(t, h, "kim@example.com", "longenough", "MANAGER")

	code, resp := call(t, h.UpdateProfile,
		`{"title":"Ms","firstName":"Kima","lastName":"Osei","phoneNumber":"555-0101","zipCode":"10001"}`, uid)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Kima", resp["firstName"])
	assert.Equal(t, "10001", resp["zipCode"])

	code, resp = call(t, h.GetProfile, `{}`, uid)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "kim@example.com", resp["email"])
	assert.Equal(t, "Ms", resp["title"])
	assert.Equal(t, []interface{}{"MANAGER"}, resp["roles"])
	assert.Equal(t, false, resp["twoFactorEnabled"])
}
