package database

import (
	"database/sql"
	"fmt"
)

// CopyStats counts the rows read from the source and written to the destination.
type CopyStats struct {
	AccountsRead    int64
	AccountsWritten int64
	ProfilesRead    int64
	ProfilesWritten int64
}

// CopyTo copies every account and profile into dst, keeping their ids. Rows whose id
// already exists in dst are skipped, so an interrupted copy can be rerun. With dryRun
// set, rows are read and counted but nothing is written.
func (d *Database) CopyTo(dst *Database, dryRun bool) (CopyStats, error) {
	var stats CopyStats

	tx, err := dst.db.Begin()
	if err != nil {
		return stats, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := d.copyAccounts(dst, tx, dryRun, &stats); err != nil {
		return stats, err
	}
	if err := d.copyProfiles(dst, tx, dryRun, &stats); err != nil {
		return stats, err
	}

	if dryRun {
		return stats, nil
	}

	for _, table := range []string{"accounts", "profiles"} {
		if stmt := dst.dialect.SyncSequenceStatement(table); stmt != "" {
			if _, err := tx.Exec(stmt); err != nil {
				return stats, fmt.Errorf("failed to sync %s id sequence: %w", table, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return stats, fmt.Errorf("failed to commit copy: %w", err)
	}
	return stats, nil
}

func (d *Database) copyAccounts(dst *Database, tx *sql.Tx, dryRun bool, stats *CopyStats) error {
	rows, err := d.db.Query("SELECT id, username, password_hash, created_at, last_login, last_ip FROM accounts ORDER BY id")
	if err != nil {
		return fmt.Errorf("failed to read accounts: %w", err)
	}
	defer rows.Close()

	insert := dst.qb.Build(`INSERT INTO accounts (id, username, password_hash, created_at, last_login, last_ip)
		VALUES (?, ?, ?, ?, ?, ?) ON CONFLICT (id) DO NOTHING`)

	for rows.Next() {
		var id int64
		var username, hash string
		var createdAt sql.NullTime
		var lastLogin sql.NullTime
		var lastIP sql.NullString
		if err := rows.Scan(&id, &username, &hash, &createdAt, &lastLogin, &lastIP); err != nil {
			return fmt.Errorf("failed to scan account: %w", err)
		}
		stats.AccountsRead++
		if dryRun {
			continue
		}

		result, err := tx.Exec(insert, id, username, hash, createdAt, lastLogin, lastIP)
		if err != nil {
			return fmt.Errorf("failed to copy account %s: %w", username, err)
		}
		n, _ := result.RowsAffected()
		stats.AccountsWritten += n
	}
	return rows.Err()
}

func (d *Database) copyProfiles(dst *Database, tx *sql.Tx, dryRun bool, stats *CopyStats) error {
	rows, err := d.db.Query("SELECT id, account_id, nickname, level, experience, skills, created_at, last_session FROM profiles ORDER BY id")
	if err != nil {
		return fmt.Errorf("failed to read profiles: %w", err)
	}
	defer rows.Close()

	insert := dst.qb.Build(`INSERT INTO profiles (id, account_id, nickname, level, experience, skills, created_at, last_session)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?) ON CONFLICT (id) DO NOTHING`)

	for rows.Next() {
		var id, accountID int64
		var nickname, skills string
		var level, experience int
		var createdAt sql.NullTime
		var lastSession sql.NullTime
		if err := rows.Scan(&id, &accountID, &nickname, &level, &experience, &skills, &createdAt, &lastSession); err != nil {
			return fmt.Errorf("failed to scan profile: %w", err)
		}
		stats.ProfilesRead++
		if dryRun {
			continue
		}

		result, err := tx.Exec(insert, id, accountID, nickname, level, experience, skills, createdAt, lastSession)
		if err != nil {
			return fmt.Errorf("failed to copy profile %s: %w", nickname, err)
		}
		n, _ := result.RowsAffected()
		stats.ProfilesWritten += n
	}
	return rows.Err()
}
