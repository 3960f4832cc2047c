package auth

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image/png"
	"net/url"
	"strings"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/korzhan/resource-tracker/internal/model"
)

// SecretStore is the slice of the credential store the TOTP service needs.
type SecretStore interface {
	GetTOTPSecret(ctx context.Context, accountID uint64) (string, error)
	SetTOTPSecret(ctx context.Context, accountID uint64, secret string) error
}

// TOTPService enrolls accounts into time-based one-time passwords and
// verifies submitted codes. Code validity is delegated entirely to the
// library's standard 30-second step with its default skew tolerance; there
// is no replay cache, codes simply roll over.
type TOTPService struct {
	Issuer  string // label shown in authenticator apps
	Secrets SecretStore
}

// ProvisioningData is returned from 2FA setup: a scannable otpauth URI, the
// same URI rendered as a PNG data URI, and the raw secret grouped for
// manual entry.
type ProvisioningData struct {
	URI            string
	QRCodeImage    string
	ManualEntryKey string
}

// EnsureSecret returns the account's TOTP secret, generating and persisting
// one on the first call. Repeated calls return the same secret until an
// explicit reset, which keeps setup idempotent.
func (s *TOTPService) EnsureSecret(ctx context.Context, acc model.Account) (string, error) {
	if acc.TOTPSecret != "" {
		return acc.TOTPSecret, nil
	}
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.Issuer,
		AccountName: acc.Email,
	})
	if err != nil {
		return "", err
	}
	secret := key.Secret()
	if err := s.Secrets.SetTOTPSecret(ctx, acc.ID, secret); err != nil {
		return "", err
	}
	return secret, nil
}

// Provision derives the enrollment payload from an existing secret. The URI
// is rebuilt deterministically so setup can be called any number of times
// after the secret exists.
func (s *TOTPService) Provision(acc model.Account, secret string) (ProvisioningData, error) {
	uri := buildOtpauthURI(s.Issuer, acc.Email, secret)
	key, err := otp.NewKeyFromURL(uri)
	if err != nil {
		return ProvisioningData{}, err
	}
	img, err := key.Image(200, 200)
	if err != nil {
		return ProvisioningData{}, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return ProvisioningData{}, err
	}
	return ProvisioningData{
		URI:            uri,
		QRCodeImage:    "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
		ManualEntryKey: GroupSecret(secret),
	}, nil
}

// VerifyCode checks a submitted 6-digit code against the account's secret.
func (s *TOTPService) VerifyCode(secret, code string) bool {
	return totp.Validate(strings.TrimSpace(code), secret)
}

// GroupSecret formats a base32 secret into 4-character blocks for manual
// entry into an authenticator app.
func GroupSecret(secret string) string {
	var b strings.Builder
	for i, r := range secret {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func buildOtpauthURI(issuer, account, secret string) string {
	q := url.Values{}
	q.Set("secret", secret)
	q.Set("issuer", issuer)
	q.Set("algorithm", "SHA1")
	q.Set("digits", "6")
	q.Set("period", "30")
	label := url.PathEscape(fmt.Sprintf("%s:%s", issuer, account))
	return fmt.Sprintf("otpauth://totp/%s?%s", label, q.Encode())
}
