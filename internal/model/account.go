package model

import "time"

// Role names form a fixed set. Membership is many-to-many via the
// account_roles table and every account holds at least RoleUser.
const (
	RoleAdmin   = "ADMIN"
	RoleManager = "MANAGER"
	RoleUser    = "USER"
)

// KnownRole reports whether name is one of the recognized role names.
func KnownRole(name string) bool {
	switch name {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}

// Account mirrors the `accounts` table. The TOTP secret is opaque and only
// ever shown to the client once, at enrollment, as a provisioning URI and
// manual-entry key. Accounts are never physically deleted.
type Account struct {
	ID               uint64     // accounts.id
	Email            string     // accounts.email (stored lowercase)
	PasswordHash     string     // accounts.password_hash (bcrypt)
	Title            string     // accounts.title
	FirstName        string     // accounts.first_name
	LastName         string     // accounts.last_name
	PhoneNumber      string     // accounts.phone_number
	Address          string     // accounts.address
	ZipCode          string     // accounts.zip_code
	TwoFactorEnabled bool       // accounts.two_factor_enabled
	TOTPSecret       string     // accounts.totp_secret (empty until enrollment)
	FailedLogins     int        // accounts.failed_logins
	LockedUntil      *time.Time // accounts.locked_until (nullable)
	CreatedAt        time.Time  // accounts.created_at
	UpdatedAt        time.Time  // accounts.updated_at
}

// DisplayName assembles the name embedded in token claims.
func (a Account) DisplayName() string {
	switch {
	case a.FirstName != "" && a.LastName != "":
		return a.FirstName + " " + a.LastName
	case a.FirstName != "":
		return a.FirstName
	default:
		return a.Email
	}
}

// LockedOut is the store-side lockout predicate: an account is locked while
// locked_until lies in the future.
func (a Account) LockedOut(now time.Time) bool {
	return a.LockedUntil != nil && now.Before(*a.LockedUntil)
}

// ResetToken models a row in `reset_tokens`. The plain token is mailed to
// the account holder; only its SHA-256 hash is stored. A token is spent
// once used_at is set.
type ResetToken struct {
	ID        uint64     // reset_tokens.id
	AccountID uint64     // reset_tokens.account_id
	TokenHash string     // reset_tokens.token_hash
	ExpiresAt time.Time  // reset_tokens.expires_at
	UsedAt    *time.Time // reset_tokens.used_at (nullable)
	CreatedAt time.Time  // reset_tokens.created_at
}
