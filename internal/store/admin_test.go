// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"testing"

	"github.com/google/uuid"
)

func TestAdminStoreEnsure(t *testing.T) {
	db := testDB(t)
	s := NewAdminStore(db)

	email := "test-ensure@store-test.local"
	t.Cleanup(func() { cleanAdmins(t, db, email) })

	admin, err := s.Ensure(email, "plat-123")
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}

	if admin.ID == uuid.Nil {
		t.Error("expected non-nil UUID")
	}
	if admin.Email != email {
		t.Errorf("email: got %q, want %q", admin.Email, email)
	}
	if admin.PlatformID != "plat-123" {
		t.Errorf("platform ID: got %q, want %q", admin.PlatformID, "plat-123")
	}
	if admin.TOTPEnabled {
		t.Error("expected totp_enabled=false for new operator")
	}
	if admin.TOTPSecret != nil {
		t.Error("expected nil totp_secret for new operator")
	}

	// A second Ensure keeps the row but refreshes the platform ID.
	again, err := s.Ensure(email, "plat-456")
	if err != nil {
		t.Fatalf("second Ensure: %v", err)
	}
	if again.ID != admin.ID {
		t.Errorf("ID changed on re-ensure: got %s, want %s", again.ID, admin.ID)
	}
	if again.PlatformID != "plat-456" {
		t.Errorf("platform ID not refreshed: got %q, want %q", again.PlatformID, "plat-456")
	}
}

func TestAdminStoreFindByEmail(t *testing.T) {
	db := testDB(t)
	s := NewAdminStore(db)

	email := "test-findbyemail@store-test.local"
	t.Cleanup(func() { cleanAdmins(t, db, email) })

	// Not found case.
	admin, err := s.FindByEmail(email)
	if err != nil {
		t.Fatalf("FindByEmail (not found): %v", err)
	}
	if admin != nil {
		t.Error("expected nil for non-existent operator")
	}

	// Create and find.
	created, err := s.Ensure(email, "plat-find")
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}

	admin, err = s.FindByEmail(email)
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if admin == nil {
		t.Fatal("expected operator, got nil")
	}
	if admin.ID != created.ID {
		t.Errorf("ID mismatch: got %s, want %s", admin.ID, created.ID)
	}
}

func TestAdminStoreFindByID(t *testing.T) {
	db := testDB(t)
	s := NewAdminStore(db)

	email := "test-findbyid@store-test.local"
	t.Cleanup(func() { cleanAdmins(t, db, email) })

	// Not found.
	admin, err := s.FindByID(uuid.New())
	if err != nil {
		t.Fatalf("FindByID (not found): %v", err)
	}
	if admin != nil {
		t.Error("expected nil for random UUID")
	}

	created, _ := s.Ensure(email, "plat-byid")
	admin, err = s.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if admin == nil {
		t.Fatal("expected operator, got nil")
	}
	if admin.Email != email {
		t.Errorf("email: got %q, want %q", admin.Email, email)
	}
}

func TestAdminStoreTOTPLifecycle(t *testing.T) {
	db := testDB(t)
	s := NewAdminStore(db)

	email := "test-totp@store-test.local"
	t.Cleanup(func() { cleanAdmins(t, db, email) })

	admin, err := s.Ensure(email, "plat-totp")
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}

	// Setup: store the secret.
	if err := s.SetTOTPSecret(admin.ID, "JBSWY3DPEHPK3PXP"); err != nil {
		t.Fatalf("SetTOTPSecret: %v", err)
	}
	admin, _ = s.FindByID(admin.ID)
	if admin.TOTPSecret == nil || *admin.TOTPSecret != "JBSWY3DPEHPK3PXP" {
		t.Fatalf("secret not stored: %v", admin.TOTPSecret)
	}
	if admin.TOTPEnabled {
		t.Error("totp must stay disabled until verification")
	}
	if !admin.Needs2FASetup() {
		t.Error("Needs2FASetup should be true before verification")
	}

	// Verification succeeded: enable.
	if err := s.EnableTOTP(admin.ID); err != nil {
		t.Fatalf("EnableTOTP: %v", err)
	}
	admin, _ = s.FindByID(admin.ID)
	if !admin.TOTPEnabled {
		t.Error("expected totp_enabled=true after EnableTOTP")
	}
	if admin.Needs2FASetup() {
		t.Error("Needs2FASetup should be false after enablement")
	}

	// Reset: back to square one.
	if err := s.ResetTOTP(admin.ID); err != nil {
		t.Fatalf("ResetTOTP: %v", err)
	}
	admin, _ = s.FindByID(admin.ID)
	if admin.TOTPEnabled {
		t.Error("expected totp_enabled=false after reset")
	}
	if admin.TOTPSecret != nil {
		t.Error("expected nil secret after reset")
	}
}
