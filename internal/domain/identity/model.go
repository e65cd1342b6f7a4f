package identity

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Max length constants for user-editable fields.
const (
	MaxEmailLength    = 254
	MaxUsernameLength = 64
)

// Role constants
const (
	RoleMember  = "member"
	RoleTrainer = "trainer"
	RoleAdmin   = "administrator"
)

// ValidRoles contains all valid role values.
var ValidRoles = []string{RoleMember, RoleTrainer, RoleAdmin}

// Domain errors
var (
	ErrEmptyEmail       = errors.New("email cannot be empty")
	ErrInvalidEmail     = errors.New("email must contain '@'")
	ErrEmptyUsername    = errors.New("username cannot be empty")
	ErrInvalidRole      = errors.New("role must be one of: member, trainer, administrator")
	ErrEmptyPassword    = errors.New("password cannot be empty")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrWrongPassword    = errors.New("incorrect password")
	ErrMalformedDigest  = errors.New("stored password hash is malformed")
)

// Identity holds state for a registered account with a role.
// Role is immutable after creation.
type Identity struct {
	ID           string
	Email        string
	Username     string
	DisplayName  string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// Snapshot is a point-in-time view of an Identity safe to hand to
// session storage and clients. It never carries the password hash.
type Snapshot struct {
	IdentityID  string
	Username    string
	DisplayName string
	Role        string
}

// Validate checks if the Identity has valid data.
// PRE: Identity struct is populated
// POST: Returns nil if valid, error otherwise
func (i *Identity) Validate() error {
	if strings.TrimSpace(i.Email) == "" {
		return ErrEmptyEmail
	}
	if len(i.Email) > MaxEmailLength {
		return errors.New("email cannot exceed 254 characters")
	}
	if !strings.Contains(i.Email, "@") {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(i.Username) == "" {
		return ErrEmptyUsername
	}
	if len(i.Username) > MaxUsernameLength {
		return errors.New("username cannot exceed 64 characters")
	}
	if !isValidRole(i.Role) {
		return ErrInvalidRole
	}
	return nil
}

// SetPassword hashes and stores a password using bcrypt with the default cost.
// Each call salts anew, so two hashes of the same plaintext differ.
// PRE: plaintext is non-empty and >= 8 characters
// POST: PasswordHash is set to bcrypt hash
func (i *Identity) SetPassword(plaintext string) error {
	if plaintext == "" {
		return ErrEmptyPassword
	}
	if len(plaintext) < 8 {
		return ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	i.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
// A mismatch returns ErrWrongPassword; a hash that is not a valid bcrypt
// digest returns ErrMalformedDigest.
// INVARIANT: Identity fields are not mutated
func (i *Identity) CheckPassword(plaintext string) error {
	if i.PasswordHash == "" {
		return ErrWrongPassword
	}
	err := bcrypt.CompareHashAndPassword([]byte(i.PasswordHash), []byte(plaintext))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrWrongPassword
	}
	return ErrMalformedDigest
}

// IsTrainer returns true if the identity has the trainer role.
// INVARIANT: Identity fields are not mutated
func (i *Identity) IsTrainer() bool {
	return i.Role == RoleTrainer
}

// IsAdmin returns true if the identity has the administrator role.
// INVARIANT: Identity fields are not mutated
func (i *Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// ToSnapshot projects the identity to its session-safe view.
// INVARIANT: Identity fields are not mutated; the snapshot has no hash
func (i *Identity) ToSnapshot() Snapshot {
	return Snapshot{
		IdentityID:  i.ID,
		Username:    i.Username,
		DisplayName: i.DisplayName,
		Role:        i.Role,
	}
}

func isValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
