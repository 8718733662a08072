package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lawnchairsociety/staminaweight/internal/adjuster"
	"github.com/lawnchairsociety/staminaweight/internal/config"
	"github.com/lawnchairsociety/staminaweight/internal/database"
	"github.com/lawnchairsociety/staminaweight/internal/host"
	"github.com/lawnchairsociety/staminaweight/internal/logger"
	"github.com/lawnchairsociety/staminaweight/internal/namefilter"
	"github.com/lawnchairsociety/staminaweight/internal/server"
	"github.com/lawnchairsociety/staminaweight/internal/stamina"
)

func main() {
	wsPort := flag.Int("wsport", 4443, "WebSocket server port")
	loggingConfig := flag.String("logging", "data/logging.yaml", "Path to logging config YAML file")
	serverConfigFile := flag.String("config", "data/server.yaml", "Path to server config YAML file")
	adjusterConfigFile := flag.String("adjuster", "data/weight_adjuster.yaml", "Path to weight adjuster config YAML file")
	globalsFile := flag.String("globals", "data/globals.yaml", "Path to host globals YAML file (stamina limits)")
	dbFile := flag.String("db", "data/staminaweight.db", "Path to SQLite database file")
	dbDriver := flag.String("db-driver", "sqlite", "Database driver: sqlite or postgres")
	pgHost := flag.String("pg-host", "localhost", "PostgreSQL host")
	pgPort := flag.Int("pg-port", 5432, "PostgreSQL port")
	pgUser := flag.String("pg-user", "staminaweight", "PostgreSQL user")
	pgPassword := flag.String("pg-password", "", "PostgreSQL password")
	pgDatabase := flag.String("pg-database", "staminaweight", "PostgreSQL database name")
	pgSSLMode := flag.String("pg-sslmode", "disable", "PostgreSQL SSL mode")
	createAccount := flag.String("create-account", "", "Create an account with -password and -nickname, then exit")
	password := flag.String("password", "", "Password for -create-account")
	nickname := flag.String("nickname", "", "Profile nickname for -create-account")
	flag.Parse()

	dbCfg := database.DefaultConfig(*dbFile)
	if *dbDriver == string(database.DialectPostgres) {
		dbCfg.Driver = *dbDriver
		dbCfg.Postgres = database.DefaultPostgresConfig()
		dbCfg.Postgres.Host = *pgHost
		dbCfg.Postgres.Port = *pgPort
		dbCfg.Postgres.User = *pgUser
		dbCfg.Postgres.Password = *pgPassword
		dbCfg.Postgres.Database = *pgDatabase
		dbCfg.Postgres.SSLMode = *pgSSLMode
	}

	// Handle --create-account flag (creates account + profile and exits)
	if *createAccount != "" {
		handleCreateAccount(dbCfg, *serverConfigFile, *createAccount, *password, *nickname)
		return
	}

	// Initialize logger first (before any logging)
	logConfig, err := logger.LoadConfig(*loggingConfig)
	if err := logger.Initialize(logConfig); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	if err != nil {
		logger.Warning("Failed to load logging config, using defaults", "path", *loggingConfig, "error", err)
	}

	logger.Info("Starting stamina weight server")

	table := loadTable(*globalsFile)

	adjCfg, err := config.LoadAdjusterConfig(*adjusterConfigFile)
	if err != nil {
		logger.Warning("Failed to load adjuster config, using defaults", "path", *adjusterConfigFile, "error", err)
	}
	adj := adjuster.New(adjCfg, logger.ForModule(adjuster.ModuleName, adjCfg.Verbose))

	h := host.New(table)
	host.Register(h, adj)
	h.Load()

	db, err := database.OpenWithConfig(dbCfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	logger.Info("Profile database initialized", "driver", dbCfg.Driver)

	serverCfg, err := config.LoadConfig(*serverConfigFile)
	if err != nil {
		logger.Warning("Failed to load server config, using defaults", "path", *serverConfigFile, "error", err)
		serverCfg = config.DefaultConfig()
	}
	if len(serverCfg.WebSocket.AllowedOrigins) == 0 {
		logger.Info("WebSocket CORS policy", "mode", "same-origin")
	} else if len(serverCfg.WebSocket.AllowedOrigins) == 1 && serverCfg.WebSocket.AllowedOrigins[0] == "*" {
		logger.Warning("WebSocket CORS allows all origins (not recommended for production)")
	} else {
		logger.Info("WebSocket CORS policy", "allowed_origins", serverCfg.WebSocket.AllowedOrigins)
	}

	srv := server.NewServer(h, adj, db, serverCfg)

	wsAddr := fmt.Sprintf(":%d", *wsPort)
	go func() {
		if err := srv.Start(wsAddr); err != nil {
			log.Fatalf("WebSocket server error: %v", err)
		}
	}()

	logger.Info("Server running", "websocket_port", *wsPort, "mode", adj.Mode().String(), "state", adj.State().String())
	logger.Info("Press Ctrl+C to shutdown")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Shutdown did not complete cleanly", "error", err)
	}
	logger.Info("Server stopped")
}

// loadTable reads the stamina limits from the globals file, falling back to the
// stock values when the file is missing or invalid.
func loadTable(path string) *stamina.ThresholdTable {
	table, err := stamina.LoadTableFromYAML(path)
	if err != nil {
		logger.Warning("Failed to load globals, using stock stamina limits", "path", path, "error", err)
		return stamina.NewThresholdTableFrom(stamina.DefaultLimits())
	}
	logger.Info("Stamina limits loaded", "path", path, "categories", table.Len())
	return table
}

// handleCreateAccount creates an account with one profile and exits.
func handleCreateAccount(dbCfg database.Config, serverConfigFile, username, password, nickname string) {
	if password == "" || nickname == "" {
		fmt.Fprintln(os.Stderr, "Error: -create-account requires -password and -nickname")
		os.Exit(1)
	}

	serverCfg, err := config.LoadConfig(serverConfigFile)
	if err != nil {
		serverCfg = config.DefaultConfig()
	}
	if problem := serverCfg.Password.ValidatePassword(password); problem != "" {
		fmt.Fprintf(os.Stderr, "Error: %s\n", problem)
		os.Exit(1)
	}
	if err := namefilter.New(serverCfg.Names).Check(nickname); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", namefilter.Reason(err))
		os.Exit(1)
	}

	db, err := database.OpenWithConfig(dbCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	account, err := db.CreateAccount(username, password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to create account '%s': %v\n", username, err)
		os.Exit(1)
	}

	p, err := db.CreateProfile(account.ID, nickname)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to create profile '%s': %v\n", nickname, err)
		os.Exit(1)
	}

	fmt.Printf("Account '%s' created with profile '%s' (level %d).\n", account.Username, p.Nickname, p.Level)
}
