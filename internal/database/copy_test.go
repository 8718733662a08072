package database

import (
	"testing"

	"github.com/lawnchairsociety/staminaweight/internal/profile"
)

func seedCopySource(t *testing.T) *Database {
	t.Helper()
	src := setupTestDB(t)

	account, err := src.CreateAccount("lifter", "Pass1234")
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	p, err := src.CreateProfile(account.ID, "Lifter")
	if err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}
	p.AddSkillProgress(profile.SkillStrength, 1800)
	p.AddExperience(profile.ExperienceForLevel(4))
	if err := src.SaveProgress(p); err != nil {
		t.Fatalf("SaveProgress failed: %v", err)
	}
	return src
}

func TestCopyTo(t *testing.T) {
	src := seedCopySource(t)
	dst := setupTestDB(t)

	stats, err := src.CopyTo(dst, false)
	if err != nil {
		t.Fatalf("CopyTo failed: %v", err)
	}
	if stats.AccountsRead != 1 || stats.AccountsWritten != 1 {
		t.Errorf("accounts read/written = %d/%d, want 1/1", stats.AccountsRead, stats.AccountsWritten)
	}
	if stats.ProfilesRead != 1 || stats.ProfilesWritten != 1 {
		t.Errorf("profiles read/written = %d/%d, want 1/1", stats.ProfilesRead, stats.ProfilesWritten)
	}

	// Copied password hashes still validate.
	if _, err := dst.ValidateLogin("lifter", "Pass1234", "127.0.0.1"); err != nil {
		t.Errorf("ValidateLogin on copy failed: %v", err)
	}

	p, err := dst.GetProfileByNickname("Lifter")
	if err != nil {
		t.Fatalf("GetProfileByNickname failed: %v", err)
	}
	if p.Level != 4 {
		t.Errorf("Level = %d, want 4", p.Level)
	}
	if got := p.StrengthProgress(); got != 1800 {
		t.Errorf("StrengthProgress = %v, want 1800", got)
	}
}

func TestCopyTo_Rerun(t *testing.T) {
	src := seedCopySource(t)
	dst := setupTestDB(t)

	if _, err := src.CopyTo(dst, false); err != nil {
		t.Fatalf("first CopyTo failed: %v", err)
	}

	stats, err := src.CopyTo(dst, false)
	if err != nil {
		t.Fatalf("second CopyTo failed: %v", err)
	}
	if stats.AccountsWritten != 0 || stats.ProfilesWritten != 0 {
		t.Errorf("rerun wrote %d accounts and %d profiles, want none", stats.AccountsWritten, stats.ProfilesWritten)
	}

	// New rows in the destination continue after the copied ids.
	account, err := dst.CreateAccount("second", "Pass1234")
	if err != nil {
		t.Fatalf("CreateAccount after copy failed: %v", err)
	}
	if account.ID <= 1 {
		t.Errorf("new account id = %d, want > 1", account.ID)
	}
}

func TestCopyTo_DryRun(t *testing.T) {
	src := seedCopySource(t)
	dst := setupTestDB(t)

	stats, err := src.CopyTo(dst, true)
	if err != nil {
		t.Fatalf("CopyTo dry run failed: %v", err)
	}
	if stats.AccountsRead != 1 || stats.ProfilesRead != 1 {
		t.Errorf("read %d accounts and %d profiles, want 1 and 1", stats.AccountsRead, stats.ProfilesRead)
	}
	if stats.AccountsWritten != 0 || stats.ProfilesWritten != 0 {
		t.Error("dry run should not write")
	}

	if _, err := dst.GetAccountByUsername("lifter"); err != ErrAccountNotFound {
		t.Errorf("GetAccountByUsername = %v, want ErrAccountNotFound", err)
	}
}
