package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"time"

	"hrms_lite/internal/config"
	"hrms_lite/pkg/utils"

	_ "github.com/lib/pq" // PostgreSQL driver
)

//go:embed schema.sql
var embeddedSchema string

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxOpenConns)
	}
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	utils.LogInfo("Successfully connected to the database", map[string]interface{}{"host": cfg.Host, "db": cfg.Name})

	if cfg.ApplySchema {
		if err := ApplySchema(ctx, db, cfg.SchemaPath); err != nil {
			db.Close()
			return nil, err
		}
	}
	return db, nil
}

// Schema returns the DDL at schemaPath, or the embedded schema when the path is empty.
func Schema(schemaPath string) (string, error) {
	if schemaPath == "" {
		return embeddedSchema, nil
	}
	content, err := os.ReadFile(schemaPath)
	if err != nil {
		return "", fmt.Errorf("could not read schema file %s: %w", schemaPath, err)
	}
	return string(content), nil
}

// ApplySchema executes the schema script. Statements are idempotent.
func ApplySchema(ctx context.Context, db *sql.DB, schemaPath string) error {
	script, err := Schema(schemaPath)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, script); err != nil {
		return fmt.Errorf("could not execute schema script: %w", err)
	}
	utils.LogInfo("Database schema applied successfully", map[string]interface{}{"schema_path": schemaPath})
	return nil
}
