package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/korzhan/resource-tracker/internal/auth"
	"github.com/korzhan/resource-tracker/internal/config"
	"github.com/korzhan/resource-tracker/internal/model"
	"github.com/korzhan/resource-tracker/internal/queue"
	"github.com/korzhan/resource-tracker/internal/repository"
	"github.com/korzhan/resource-tracker/internal/utils"
)

// AccountStore is the credential-store surface the auth flow needs. It is
// an injected interface so tests run against an in-memory fake and so no
// global identity state exists anywhere in the process.
type AccountStore interface {
	Create(ctx context.Context, acc model.Account, password, role string, cost int) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.Account, error)
	GetByID(ctx context.Context, id uint64) (model.Account, error)
	Roles(ctx context.Context, accountID uint64) ([]string, error)
	UpdateProfile(ctx context.Context, id uint64, acc model.Account) error
	UpdatePasswordHash(ctx context.Context, id uint64, hash string) error
	SetTwoFactorEnabled(ctx context.Context, id uint64, enabled bool) error
	RecordLoginFailure(ctx context.Context, id uint64) error
	ClearLoginFailures(ctx context.Context, id uint64) error
}

// ResetTokenStore persists hashed single-use password reset tokens.
type ResetTokenStore interface {
	Store(ctx context.Context, accountID uint64, tokenHash string, exp time.Time) error
	Validate(ctx context.Context, tokenHash string) (uint64, error)
	Consume(ctx context.Context, tokenHash string) error
}

// AuthHandler orchestrates login, the optional second factor, registration,
// profile management and password flows. The flow is a small state machine:
// anonymous -> credentials checked -> either authenticated (token issued)
// or two-factor required -> authenticated after code verification.
type AuthHandler struct {
	Cfg      config.Config
	Accounts AccountStore
	Resets   ResetTokenStore
	Issuer   auth.Issuer
	TOTP     *auth.TOTPService
	// Publish sends best-effort audit events; failures are ignored.
	Publish func(ctx context.Context, ev queue.AuditEvent) error
}

func (h *AuthHandler) publish(ev queue.AuditEvent) {
	if h.Publish == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = h.Publish(ctx, ev)
}

// genericCredsMsg is returned for unknown email and wrong password alike so
// responses cannot be used to enumerate accounts.
const genericCredsMsg = "invalid credentials"

// genericResetMsg is returned by forgot-password whether or not the email
// exists, for the same reason.
const genericResetMsg = "if this email exists, a reset link has been sent"

// ----- DTOs -----

type registerReq struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Title       string `json:"title"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
	ZipCode     string `json:"zipCode"`
	Role        string `json:"role"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyTwoFactorReq struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type enableTwoFactorReq struct {
	Enable bool `json:"enable"`
}

type changePasswordReq struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type forgotPasswordReq struct {
	Email string `json:"email"`
}

type resetPasswordReq struct {
	Email         string `json:"email"`
	ResetToken    string `json:"resetToken"`
	NewPassword   string `json:"newPassword"`
	TwoFactorCode string `json:"twoFactorCode"`
}

type profileReq struct {
	Title       string `json:"title"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
	ZipCode     string `json:"zipCode"`
}

type sessionResp struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	UserID    uint64    `json:"userId"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Roles     []string  `json:"roles"`
}

type profileResp struct {
	Email            string   `json:"email"`
	Title            string   `json:"title"`
	FirstName        string   `json:"firstName"`
	LastName         string   `json:"lastName"`
	PhoneNumber      string   `json:"phoneNumber"`
	Address          string   `json:"address"`
	ZipCode          string   `json:"zipCode"`
	TwoFactorEnabled bool     `json:"twoFactorEnabled"`
	Roles            []string `json:"roles"`
}

// Register creates an account with a hashed password and the requested
// role; an unrecognized role silently falls back to the default USER role.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}
	if len(req.Password) < 8 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 8 characters"})
	}
	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if !model.KnownRole(role) {
		role = model.RoleUser
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	acc := model.Account{
		Email:       req.Email,
		Title:       req.Title,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		ZipCode:     req.ZipCode,
	}
	uid, err := h.Accounts.Create(ctx, acc, req.Password, role, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "account already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create account failed"})
	}

	h.publish(queue.AuditEvent{Kind: queue.EventAccountRegistered, AccountID: uid, Email: req.Email})
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "registered",
		"userId":  uid,
		"role":    role,
	})
}

// Login checks credentials and either issues a token immediately or, when
// the account has the second factor enabled, answers with a two-factor
// challenge carrying only the email and no token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	acc, err := h.Accounts.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": genericCredsMsg})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if acc.LockedOut(time.Now().UTC()) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "account locked, try again later"})
	}
	if !utils.VerifyPassword(acc.PasswordHash, req.Password) {
		_ = h.Accounts.RecordLoginFailure(ctx, acc.ID)
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": genericCredsMsg})
	}
	_ = h.Accounts.ClearLoginFailures(ctx, acc.ID)

	if acc.TwoFactorEnabled {
		return c.JSON(http.StatusOK, echo.Map{
			"message":           "two-factor code required",
			"requiresTwoFactor": true,
			"email":             acc.Email,
		})
	}
	return h.issueSession(c, ctx, acc)
}

// VerifyTwoFactor completes a pending login by checking the submitted
// 6-digit code against the account's stored secret. On success a token is
// issued exactly as on the non-2FA login path.
func (h *AuthHandler) VerifyTwoFactor(c echo.Context) error {
	var req verifyTwoFactorReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/code required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	acc, err := h.Accounts.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid request"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if acc.TOTPSecret == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid request"})
	}
	if !h.TOTP.VerifyCode(acc.TOTPSecret, req.Code) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid code"})
	}
	return h.issueSession(c, ctx, acc)
}

// issueSession loads the current role membership, signs a token and writes
// the uniform session payload. The roles in the token are a snapshot; later
// membership changes do not affect tokens already issued.
func (h *AuthHandler) issueSession(c echo.Context, ctx context.Context, acc model.Account) error {
	roles, err := h.Accounts.Roles(ctx, acc.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load roles failed"})
	}
	tok, err := h.Issuer.Issue(acc, roles)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	h.publish(queue.AuditEvent{Kind: queue.EventLoginSucceeded, AccountID: acc.ID, Email: acc.Email})
	return c.JSON(http.StatusOK, sessionResp{
		Token:     tok.Value,
		ExpiresAt: tok.ExpiresAt,
		UserID:    acc.ID,
		Email:     acc.Email,
		FirstName: acc.FirstName,
		LastName:  acc.LastName,
		Roles:     roles,
	})
}

// TwoFactorSetup enrolls the authenticated account: the first call
// generates and persists a secret, every later call derives the same
// provisioning URI, QR image and manual-entry key from it.
func (h *AuthHandler) TwoFactorSetup(c echo.Context) error {
	uid, err := currentAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	acc, err := h.Accounts.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load account failed"})
	}
	secret, err := h.TOTP.EnsureSecret(ctx, acc)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "generate secret failed"})
	}
	data, err := h.TOTP.Provision(acc, secret)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "build provisioning data failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"qrCodeUri":      data.URI,
		"qrCodeImage":    data.QRCodeImage,
		"manualEntryKey": data.ManualEntryKey,
	})
}

// EnableTwoFactor writes the caller-supplied boolean directly. NOTE: this
// endpoint does not demand a fresh TOTP code before flipping the flag on;
// clients are expected to have run a /2fa/verify round against the new
// secret first. Enabling does require that a secret exists at all.
func (h *AuthHandler) EnableTwoFactor(c echo.Context) error {
	uid, err := currentAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req enableTwoFactorReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if req.Enable {
		acc, err := h.Accounts.GetByID(ctx, uid)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load account failed"})
		}
		if acc.TOTPSecret == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "two-factor setup not completed"})
		}
	}
	if err := h.Accounts.SetTwoFactorEnabled(ctx, uid, req.Enable); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if req.Enable {
		h.publish(queue.AuditEvent{Kind: queue.EventTwoFactorEnabled, AccountID: uid})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":          "two-factor setting updated",
		"twoFactorEnabled": req.Enable,
	})
}

// GetProfile returns the authenticated account's profile fields and the
// current role membership.
func (h *AuthHandler) GetProfile(c echo.Context) error {
	uid, err := currentAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	acc, err := h.Accounts.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "account not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load account failed"})
	}
	roles, err := h.Accounts.Roles(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load roles failed"})
	}
	return c.JSON(http.StatusOK, profileResp{
		Email:            acc.Email,
		Title:            acc.Title,
		FirstName:        acc.FirstName,
		LastName:         acc.LastName,
		PhoneNumber:      acc.PhoneNumber,
		Address:          acc.Address,
		ZipCode:          acc.ZipCode,
		TwoFactorEnabled: acc.TwoFactorEnabled,
		Roles:            roles,
	})
}

// UpdateProfile overwrites the mutable profile fields, last write wins.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	uid, err := currentAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req profileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	upd := model.Account{
		Title:       req.Title,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		ZipCode:     req.ZipCode,
	}
	if err := h.Accounts.UpdateProfile(ctx, uid, upd); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return h.GetProfile(c)
}

// ChangePassword replaces the password hash after re-checking the current
// password.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	uid, err := currentAccountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req changePasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if len(req.NewPassword) < 8 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 8 characters"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	acc, err := h.Accounts.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load account failed"})
	}
	if !utils.VerifyPassword(acc.PasswordHash, req.CurrentPassword) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": genericCredsMsg})
	}
	hash, err := utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash failed"})
	}
	if err := h.Accounts.UpdatePasswordHash(ctx, uid, hash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	h.publish(queue.AuditEvent{Kind: queue.EventPasswordChanged, AccountID: uid})
	return c.JSON(http.StatusOK, echo.Map{"message": "password changed"})
}

// ForgotPassword issues a reset token when the account exists and answers
// with the same generic message either way. Mail delivery problems are
// logged and swallowed so neither errors nor timing reveal whether the
// email is registered.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	acc, err := h.Accounts.GetByEmail(ctx, req.Email)
	if err == nil {
		raw, terr := utils.NewResetToken()
		if terr == nil {
			exp := time.Now().UTC().Add(time.Duration(h.Cfg.ResetTTLMin) * time.Minute)
			if serr := h.Resets.Store(ctx, acc.ID, utils.HashResetToken(raw), exp); serr == nil {
				// Stand-in for the mailer; a failed send must not change
				// the response.
				log.Printf("mailer: password reset token issued for account %d", acc.ID)
			}
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": genericResetMsg})
}

// ResetPassword applies a token-gated password change. Accounts with the
// second factor enabled must additionally present a valid TOTP code.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.ResetToken == "" || req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/resetToken/newPassword required"})
	}
	if len(req.NewPassword) < 8 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 8 characters"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	acc, err := h.Accounts.GetByEmail(ctx, req.Email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reset request"})
	}
	if acc.TwoFactorEnabled {
		if req.TwoFactorCode == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "two-factor code required"})
		}
		if !h.TOTP.VerifyCode(acc.TOTPSecret, req.TwoFactorCode) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid code"})
		}
	}

	hash := utils.HashResetToken(req.ResetToken)
	owner, err := h.Resets.Validate(ctx, hash)
	if err != nil || owner != acc.ID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid or expired reset token"})
	}
	newHash, err := utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash failed"})
	}
	if err := h.Accounts.UpdatePasswordHash(ctx, acc.ID, newHash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	_ = h.Resets.Consume(ctx, hash)
	h.publish(queue.AuditEvent{Kind: queue.EventPasswordChanged, AccountID: acc.ID, Email: acc.Email})
	return c.JSON(http.StatusOK, echo.Map{"message": "password reset"})
}

// ----- role-gate demo endpoints -----

// AdminOnly is reachable only with the ADMIN role.
func (h *AuthHandler) AdminOnly(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "hello, admin"})
}

// ManagerAndAdmin is reachable with MANAGER or ADMIN.
func (h *AuthHandler) ManagerAndAdmin(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "hello, manager"})
}

// AnyAuthenticated is reachable with any valid token.
func (h *AuthHandler) AnyAuthenticated(c echo.Context) error {
	uid, _ := currentAccountID(c)
	return c.JSON(http.StatusOK, echo.Map{"message": "hello", "userId": uid})
}
