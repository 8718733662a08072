package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lawnchairsociety/staminaweight/internal/profile"
)

// ErrProfileNotFound is returned when a profile lookup fails.
var ErrProfileNotFound = errors.New("profile not found")

// ErrProfileExists is returned when a nickname is already taken.
var ErrProfileExists = errors.New("nickname already taken")

const profileColumns = "id, account_id, nickname, level, experience, skills"

// CreateProfile creates a level 1 profile with an empty Strength skill.
func (d *Database) CreateProfile(accountID int64, nickname string) (*profile.Profile, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return nil, errors.New("nickname cannot be empty")
	}

	p := profile.New(nickname)
	p.AccountID = accountID

	skills, err := json.Marshal(p.Skills)
	if err != nil {
		return nil, fmt.Errorf("failed to encode skills: %w", err)
	}

	id, err := d.insertReturningID(
		"INSERT INTO profiles (account_id, nickname, level, experience, skills) VALUES (?, ?, ?, ?, ?)",
		accountID, nickname, p.Level, p.Experience, string(skills),
	)
	if err != nil {
		if d.dialect.IsDuplicateKeyError(err) {
			return nil, ErrProfileExists
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	p.ID = id

	return p, nil
}

// GetProfileByNickname retrieves a profile by nickname (case-insensitive).
func (d *Database) GetProfileByNickname(nickname string) (*profile.Profile, error) {
	row := d.db.QueryRow(
		d.qb.Build("SELECT "+profileColumns+" FROM profiles WHERE nickname = ?"),
		strings.TrimSpace(nickname),
	)
	return scanProfile(row)
}

// GetProfilesByAccount returns every profile owned by an account, oldest first.
func (d *Database) GetProfilesByAccount(accountID int64) ([]*profile.Profile, error) {
	rows, err := d.db.Query(
		d.qb.Build("SELECT "+profileColumns+" FROM profiles WHERE account_id = ? ORDER BY id"),
		accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*profile.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// SaveProgress persists level, experience and skills and stamps last_session.
func (d *Database) SaveProgress(p *profile.Profile) error {
	skills, err := json.Marshal(p.Skills)
	if err != nil {
		return fmt.Errorf("failed to encode skills: %w", err)
	}

	result, err := d.db.Exec(
		d.qb.Build("UPDATE profiles SET level = ?, experience = ?, skills = ?, last_session = ? WHERE id = ?"),
		p.Level, p.Experience, string(skills), time.Now(), p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	if n == 0 {
		return ErrProfileNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*profile.Profile, error) {
	var p profile.Profile
	var skills string

	err := row.Scan(&p.ID, &p.AccountID, &p.Nickname, &p.Level, &p.Experience, &skills)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if err := json.Unmarshal([]byte(skills), &p.Skills); err != nil {
		return nil, fmt.Errorf("failed to decode skills for %s: %w", p.Nickname, err)
	}

	return &p, nil
}
