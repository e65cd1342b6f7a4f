package identity_test

import (
	"errors"
	"testing"

	"studio/internal/domain/identity"
)

// TestIdentity_Validate tests validation of Identity.
func TestIdentity_Validate(t *testing.T) {
	tests := []struct {
		name     string
		identity identity.Identity
		wantErr  bool
	}{
		{
			name: "valid member",
			identity: identity.Identity{
				ID:       "1",
				Email:    "member@studio.local",
				Username: "member1",
				Role:     identity.RoleMember,
			},
			wantErr: false,
		},
		{
			name: "valid trainer",
			identity: identity.Identity{
				ID:       "2",
				Email:    "trainer@studio.local",
				Username: "trainer1",
				Role:     identity.RoleTrainer,
			},
			wantErr: false,
		},
		{
			name: "valid administrator",
			identity: identity.Identity{
				ID:       "3",
				Email:    "admin@studio.local",
				Username: "admin1",
				Role:     identity.RoleAdmin,
			},
			wantErr: false,
		},
		{
			name: "empty email",
			identity: identity.Identity{
				ID:       "4",
				Username: "u",
				Role:     identity.RoleMember,
			},
			wantErr: true,
		},
		{
			name: "email without at sign",
			identity: identity.Identity{
				ID:       "5",
				Email:    "not-an-email",
				Username: "u",
				Role:     identity.RoleMember,
			},
			wantErr: true,
		},
		{
			name: "empty username",
			identity: identity.Identity{
				ID:    "6",
				Email: "u@studio.local",
				Role:  identity.RoleMember,
			},
			wantErr: true,
		},
		{
			name: "invalid role",
			identity: identity.Identity{
				ID:       "7",
				Email:    "u@studio.local",
				Username: "u",
				Role:     "owner",
			},
			wantErr: true,
		},
		{
			name: "empty role",
			identity: identity.Identity{
				ID:       "8",
				Email:    "u@studio.local",
				Username: "u",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.identity.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Identity.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestIdentity_SetPassword tests the SetPassword method.
func TestIdentity_SetPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid password", "securepassword123", false},
		{"exactly 8 chars", "12345678", false},
		{"empty password", "", true},
		{"too short", "short", true},
		{"7 chars", "1234567", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i := identity.Identity{}
			err := i.SetPassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("SetPassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
			}
			if !tt.wantErr {
				if i.PasswordHash == "" {
					t.Error("PasswordHash not set after successful SetPassword")
				}
				if i.PasswordHash == tt.password {
					t.Error("PasswordHash must not equal plaintext")
				}
			}
		})
	}
}

// TestIdentity_CheckPassword_RoundTrip verifies hash then check succeeds,
// and that repeated hashing re-salts (distinct digests, both verify).
func TestIdentity_CheckPassword_RoundTrip(t *testing.T) {
	a := identity.Identity{}
	b := identity.Identity{}
	if err := a.SetPassword("correct horse battery"); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}
	if err := b.SetPassword("correct horse battery"); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}

	if a.PasswordHash == b.PasswordHash {
		t.Error("two hashes of the same plaintext should differ (per-call salt)")
	}
	if err := a.CheckPassword("correct horse battery"); err != nil {
		t.Errorf("CheckPassword failed against own hash: %v", err)
	}
	if err := b.CheckPassword("correct horse battery"); err != nil {
		t.Errorf("CheckPassword failed against own hash: %v", err)
	}
}

func TestIdentity_CheckPassword_Wrong(t *testing.T) {
	i := identity.Identity{}
	if err := i.SetPassword("rightpassword"); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}
	err := i.CheckPassword("wrongpassword")
	if !errors.Is(err, identity.ErrWrongPassword) {
		t.Errorf("expected ErrWrongPassword, got %v", err)
	}
}

func TestIdentity_CheckPassword_MalformedDigest(t *testing.T) {
	i := identity.Identity{PasswordHash: "not-a-bcrypt-digest"}
	err := i.CheckPassword("anything")
	if !errors.Is(err, identity.ErrMalformedDigest) {
		t.Errorf("expected ErrMalformedDigest, got %v", err)
	}
}

func TestIdentity_CheckPassword_EmptyHash(t *testing.T) {
	i := identity.Identity{}
	if err := i.CheckPassword("anything"); !errors.Is(err, identity.ErrWrongPassword) {
		t.Errorf("expected ErrWrongPassword for empty hash, got %v", err)
	}
}

// TestIdentity_ToSnapshot verifies the snapshot carries no secret material.
func TestIdentity_ToSnapshot(t *testing.T) {
	i := identity.Identity{
		ID:          "id-1",
		Email:       "t@studio.local",
		Username:    "t1",
		DisplayName: "Trainer One",
		Role:        identity.RoleTrainer,
	}
	if err := i.SetPassword("trainerpass"); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}

	snap := i.ToSnapshot()
	if snap.IdentityID != "id-1" || snap.Username != "t1" || snap.DisplayName != "Trainer One" || snap.Role != identity.RoleTrainer {
		t.Errorf("snapshot fields wrong: %+v", snap)
	}

	// Mutating the original after the fact must not affect the snapshot.
	i.DisplayName = "Renamed"
	if snap.DisplayName != "Trainer One" {
		t.Error("snapshot should be a point-in-time copy")
	}
}

func TestIdentity_RoleHelpers(t *testing.T) {
	tr := identity.Identity{Role: identity.RoleTrainer}
	ad := identity.Identity{Role: identity.RoleAdmin}
	me := identity.Identity{Role: identity.RoleMember}

	if !tr.IsTrainer() || tr.IsAdmin() {
		t.Error("trainer role helpers wrong")
	}
	if !ad.IsAdmin() || ad.IsTrainer() {
		t.Error("admin role helpers wrong")
	}
	if me.IsTrainer() || me.IsAdmin() {
		t.Error("member role helpers wrong")
	}
}
