// migrate-to-postgres copies accounts and profiles from SQLite to PostgreSQL.
//
// Usage:
//
//	go run ./cmd/migrate-to-postgres \
//	    -sqlite data/staminaweight.db \
//	    -pg-host localhost \
//	    -pg-port 5432 \
//	    -pg-user weightd \
//	    -pg-password weightd \
//	    -pg-database weightd
package main

import (
	"flag"
	"log"

	"github.com/lawnchairsociety/staminaweight/internal/database"
)

func main() {
	sqlitePath := flag.String("sqlite", "data/staminaweight.db", "Path to SQLite database")
	pgHost := flag.String("pg-host", "localhost", "PostgreSQL host")
	pgPort := flag.Int("pg-port", 5432, "PostgreSQL port")
	pgUser := flag.String("pg-user", "weightd", "PostgreSQL user")
	pgPassword := flag.String("pg-password", "weightd", "PostgreSQL password")
	pgDatabase := flag.String("pg-database", "weightd", "PostgreSQL database name")
	pgSSLMode := flag.String("pg-sslmode", "disable", "PostgreSQL SSL mode")
	dryRun := flag.Bool("dry-run", false, "Show what would be migrated without making changes")
	flag.Parse()

	log.Println("SQLite to PostgreSQL Migration Tool")
	log.Println("====================================")

	log.Printf("Opening SQLite database: %s", *sqlitePath)
	src, err := database.Open(*sqlitePath)
	if err != nil {
		log.Fatalf("Failed to open SQLite database: %v", err)
	}
	defer src.Close()

	pg := database.DefaultPostgresConfig()
	pg.Host = *pgHost
	pg.Port = *pgPort
	pg.User = *pgUser
	pg.Password = *pgPassword
	pg.Database = *pgDatabase
	pg.SSLMode = *pgSSLMode

	// Opening runs the schema migrations, so the tables exist before the copy.
	log.Printf("Opening PostgreSQL database: %s@%s:%d/%s", pg.User, pg.Host, pg.Port, pg.Database)
	dst, err := database.OpenWithConfig(database.Config{
		Driver:   string(database.DialectPostgres),
		Postgres: pg,
	})
	if err != nil {
		log.Fatalf("Failed to open PostgreSQL database: %v", err)
	}
	defer dst.Close()

	if *dryRun {
		log.Println("DRY RUN MODE - No changes will be made")
	}

	stats, err := src.CopyTo(dst, *dryRun)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("")
	log.Println("Migration Summary")
	log.Println("-----------------")
	log.Printf("  accounts: %d read, %d written", stats.AccountsRead, stats.AccountsWritten)
	log.Printf("  profiles: %d read, %d written", stats.ProfilesRead, stats.ProfilesWritten)

	if *dryRun {
		log.Println("Dry run complete. Run without -dry-run to perform the migration.")
	} else {
		log.Println("Migration complete.")
	}
}
