// Command setup prepares the PostgreSQL ledger database: it creates the database when
// it is missing (or drops and recreates it with -reset) and applies the migrations.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/osse101/LunaBet_Go/internal/config"
	"github.com/osse101/LunaBet_Go/internal/database"
)

const setupTimeout = time.Minute

func main() {
	reset := flag.Bool("reset", false, "drop the database before recreating it")
	flag.Parse()

	cfg, err := config.LoadForOperator()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel()

	// 1. Connect to the maintenance database to manage the ledger database
	serverConnString := database.ConnString(cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, "postgres")
	conn, err := pgx.Connect(ctx, serverConnString)
	if err != nil {
		log.Fatalf("Unable to connect to postgres database: %v", err)
	}
	defer conn.Close(context.Background())

	dbIdent := pgx.Identifier{cfg.DBName}.Sanitize()

	if *reset {
		fmt.Printf("Terminating connections to %s...\n", cfg.DBName)
		if _, err := conn.Exec(ctx,
			"SELECT pg_terminate_backend(pid) FROM pg_stat_activity WHERE datname = $1 AND pid <> pg_backend_pid()",
			cfg.DBName); err != nil {
			log.Printf("Warning: failed to terminate connections: %v", err)
		}
		if _, err := conn.Exec(ctx, "DROP DATABASE IF EXISTS "+dbIdent); err != nil {
			log.Fatalf("Failed to drop database: %v", err)
		}
		fmt.Printf("Database %s dropped.\n", cfg.DBName)
	}

	// 2. Create the database if it does not exist
	var exists bool
	err = conn.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", cfg.DBName).Scan(&exists)
	if err != nil {
		log.Fatalf("Failed to check if database exists: %v", err)
	}

	if !exists {
		fmt.Printf("Creating database %s...\n", cfg.DBName)
		if _, err := conn.Exec(ctx, "CREATE DATABASE "+dbIdent); err != nil {
			log.Fatalf("Failed to create database: %v", err)
		}
	} else {
		fmt.Printf("Database %s already exists.\n", cfg.DBName)
	}

	// 3. Apply the embedded migrations
	pool, err := database.NewPool(cfg.GetDBConnString(), cfg.DBMaxConns, 5*time.Minute, time.Hour)
	if err != nil {
		log.Fatalf("Unable to connect to %s database: %v", cfg.DBName, err)
	}
	defer pool.Close()

	if err := database.MigratePool(ctx, pool); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	fmt.Println("✅ Ledger database ready.")
}
