package identity

import (
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/squizz-sync/backend/internal/domain/shared"
)

// DefaultPasswordCost is the bcrypt cost used for stored credentials.
const DefaultPasswordCost = 12

// bcrypt ignores everything past 72 bytes, so longer passwords are refused
// rather than silently truncated.
const maxPasswordBytes = 72

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_\-.@]+$`)

// User is a local account. Each user belongs to exactly one organization on
// the platform.
type User struct {
	ID             int64
	Username       string
	PasswordHash   string
	OrganizationID string
}

// NewUser validates the inputs and returns a user carrying a bcrypt hash of
// password.
func NewUser(username, password, organizationID string, cost int) (*User, error) {
	username = strings.TrimSpace(username)
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if strings.TrimSpace(organizationID) == "" {
		return nil, shared.NewDomainError("INVALID_ORGANIZATION", "Organization ID cannot be empty")
	}

	hash, err := HashPassword(password, cost)
	if err != nil {
		return nil, err
	}

	return &User{
		Username:       username,
		PasswordHash:   hash,
		OrganizationID: organizationID,
	}, nil
}

// VerifyPassword reports whether password matches the stored hash.
func (u *User) VerifyPassword(password string) bool {
	return VerifyPassword(u.PasswordHash, password)
}

// HashPassword returns the bcrypt hash of password. A cost outside bcrypt's
// range falls back to DefaultPasswordCost.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultPasswordCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares a bcrypt hash with a candidate password.
func VerifyPassword(hash, password string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func validateUsername(username string) error {
	if username == "" {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	}
	if len(username) > 100 {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot exceed 100 characters")
	}
	if !usernamePattern.MatchString(username) {
		return shared.NewDomainError("INVALID_USERNAME", "Username can only contain letters, numbers, underscores, hyphens, dots and @")
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	}
	if len(password) > maxPasswordBytes {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 bytes")
	}
	return nil
}
