// Package main provides a CLI tool for creating the schema and seeding
// the database with demo data.
package main

import (
	"context"
	"fmt"
	"os"

	appctx "bookstock/internal/core/context"
	"bookstock/internal/infrastructure/storage/postgres"
	"bookstock/pkg/logger"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS cat_items (
		id            UUID PRIMARY KEY,
		deletion_mark BOOLEAN NOT NULL DEFAULT FALSE,
		version       INTEGER NOT NULL DEFAULT 1,
		name          TEXT NOT NULL,
		item_key      TEXT NOT NULL,
		unit          TEXT NOT NULL DEFAULT 'pcs',
		category      TEXT NOT NULL DEFAULT 'book',
		description   TEXT
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_cat_items_key ON cat_items (item_key)`,

	`CREATE TABLE IF NOT EXISTS cat_students (
		id            UUID PRIMARY KEY,
		deletion_mark BOOLEAN NOT NULL DEFAULT FALSE,
		version       INTEGER NOT NULL DEFAULT 1,
		admission_no  TEXT NOT NULL,
		first_name    TEXT NOT NULL,
		last_name     TEXT,
		standard      TEXT NOT NULL,
		section       TEXT,
		academic_year TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_cat_students_admission
		ON cat_students (admission_no, academic_year)`,

	`CREATE TABLE IF NOT EXISTS reg_setup_items (
		id            UUID PRIMARY KEY,
		deletion_mark BOOLEAN NOT NULL DEFAULT FALSE,
		version       INTEGER NOT NULL DEFAULT 1,
		standard      TEXT NOT NULL,
		academic_year TEXT NOT NULL,
		item_id       UUID NOT NULL REFERENCES cat_items (id),
		item_name     TEXT NOT NULL,
		item_key      TEXT NOT NULL,
		required_qty  INTEGER NOT NULL,
		amount        NUMERIC(15, 2) NOT NULL DEFAULT 0,
		position      INTEGER NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_reg_setup_items_line
		ON reg_setup_items (standard, academic_year, item_key)`,

	`CREATE TABLE IF NOT EXISTS doc_purchases (
		id             UUID PRIMARY KEY,
		deletion_mark  BOOLEAN NOT NULL DEFAULT FALSE,
		version        INTEGER NOT NULL DEFAULT 1,
		created_at     TIMESTAMPTZ NOT NULL,
		updated_at     TIMESTAMPTZ NOT NULL,
		created_by     TEXT,
		updated_by     TEXT,
		number         TEXT NOT NULL UNIQUE,
		date           TIMESTAMPTZ NOT NULL,
		posted         BOOLEAN NOT NULL DEFAULT FALSE,
		posted_version INTEGER NOT NULL DEFAULT 0,
		academic_year  TEXT NOT NULL,
		comment        TEXT,
		vendor_name    TEXT NOT NULL,
		invoice_no     TEXT,
		total_quantity INTEGER NOT NULL DEFAULT 0,
		total_amount   NUMERIC(15, 2) NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS doc_purchase_lines (
		doc_id     UUID NOT NULL REFERENCES doc_purchases (id) ON DELETE CASCADE,
		line_id    UUID NOT NULL,
		line_no    INTEGER NOT NULL,
		item_id    UUID NOT NULL REFERENCES cat_items (id),
		item_name  TEXT NOT NULL,
		item_key   TEXT NOT NULL,
		quantity   INTEGER NOT NULL,
		unit_price NUMERIC(15, 2) NOT NULL DEFAULT 0,
		amount     NUMERIC(15, 2) NOT NULL DEFAULT 0,
		PRIMARY KEY (doc_id, line_id)
	)`,

	`CREATE TABLE IF NOT EXISTS doc_distribution_bills (
		id             UUID PRIMARY KEY,
		deletion_mark  BOOLEAN NOT NULL DEFAULT FALSE,
		version        INTEGER NOT NULL DEFAULT 1,
		created_at     TIMESTAMPTZ NOT NULL,
		updated_at     TIMESTAMPTZ NOT NULL,
		created_by     TEXT,
		updated_by     TEXT,
		number         TEXT NOT NULL UNIQUE,
		date           TIMESTAMPTZ NOT NULL,
		posted         BOOLEAN NOT NULL DEFAULT FALSE,
		posted_version INTEGER NOT NULL DEFAULT 0,
		academic_year  TEXT NOT NULL,
		comment        TEXT,
		student_id     UUID NOT NULL REFERENCES cat_students (id),
		admission_no   TEXT NOT NULL,
		student_name   TEXT NOT NULL,
		standard       TEXT NOT NULL,
		track_pricing  BOOLEAN NOT NULL DEFAULT FALSE,
		pay_mode       TEXT NOT NULL DEFAULT 'none',
		pay_reference  TEXT,
		total_amount   NUMERIC(15, 2) NOT NULL DEFAULT 0,
		client_tx_id   TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_doc_distribution_bills_client_tx
		ON doc_distribution_bills (client_tx_id)`,
	`CREATE INDEX IF NOT EXISTS ix_doc_distribution_bills_student
		ON doc_distribution_bills (admission_no, academic_year)`,

	`CREATE TABLE IF NOT EXISTS doc_distribution_lines (
		doc_id     UUID NOT NULL REFERENCES doc_distribution_bills (id) ON DELETE CASCADE,
		line_id    UUID NOT NULL,
		line_no    INTEGER NOT NULL,
		item_id    UUID NOT NULL REFERENCES cat_items (id),
		item_name  TEXT NOT NULL,
		item_key   TEXT NOT NULL,
		quantity   INTEGER NOT NULL,
		unit_price NUMERIC(15, 2) NOT NULL DEFAULT 0,
		amount     NUMERIC(15, 2) NOT NULL DEFAULT 0,
		PRIMARY KEY (doc_id, line_id)
	)`,

	`CREATE TABLE IF NOT EXISTS reg_stock_movements (
		line_id          UUID PRIMARY KEY,
		recorder_id      UUID NOT NULL,
		recorder_type    TEXT NOT NULL,
		recorder_version INTEGER NOT NULL,
		period           TIMESTAMPTZ NOT NULL,
		record_type      TEXT NOT NULL,
		item_id          UUID NOT NULL REFERENCES cat_items (id),
		quantity         INTEGER NOT NULL,
		created_at       TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS ix_reg_stock_movements_recorder
		ON reg_stock_movements (recorder_id)`,
	`CREATE INDEX IF NOT EXISTS ix_reg_stock_movements_item
		ON reg_stock_movements (item_id, period)`,

	`CREATE TABLE IF NOT EXISTS reg_stock_balances (
		item_id          UUID PRIMARY KEY REFERENCES cat_items (id),
		quantity         INTEGER NOT NULL DEFAULT 0,
		last_movement_at TIMESTAMPTZ,
		updated_at       TIMESTAMPTZ NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS sys_sequences (
		key         TEXT PRIMARY KEY,
		current_val BIGINT NOT NULL DEFAULT 0
	)`,
}

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := appctx.WithTrace(context.Background(), appctx.NewTraceContext())

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	poolCfg := postgres.DefaultPoolConfig(dbURL)
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			log.Fatalw("failed to apply schema", "error", err)
		}
	}
	log.Info("schema applied")

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, pool, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}
