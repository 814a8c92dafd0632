package postgres

import (
	"context"
	"fmt"
)

// schemaStatements crea las tablas si no existen. Es idempotente.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		email         VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		name          VARCHAR(255) NOT NULL,
		role          VARCHAR(20)  NOT NULL DEFAULT 'user' CHECK (role IN ('admin', 'user')),
		active        BOOLEAN      NOT NULL DEFAULT TRUE,
		created_at    TIMESTAMPTZ  NOT NULL DEFAULT now(),
		updated_at    TIMESTAMPTZ  NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (email)`,
	`CREATE TABLE IF NOT EXISTS products (
		id          BIGSERIAL PRIMARY KEY,
		name        VARCHAR(255)  NOT NULL,
		category    VARCHAR(20)   NOT NULL CHECK (category IN ('fruit', 'vegetable', 'legume')),
		price       NUMERIC(10,2) NOT NULL CHECK (price >= 0),
		stock       INTEGER       NOT NULL DEFAULT 0 CHECK (stock >= 0),
		image_url   VARCHAR(500),
		description TEXT,
		active      BOOLEAN       NOT NULL DEFAULT TRUE,
		created_at  TIMESTAMPTZ   NOT NULL DEFAULT now(),
		updated_at  TIMESTAMPTZ   NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS products_active_category_idx ON products (active, category)`,
	`CREATE INDEX IF NOT EXISTS products_created_at_idx ON products (created_at)`,
}

// Migrate aplica el esquema dentro de una transacción.
func Migrate(ctx context.Context, db TxBeginner) error {
	return RunInTx(ctx, db, func(q Querier) error {
		for i, stmt := range schemaStatements {
			if _, err := q.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("migrate: sentencia %d: %w", i+1, err)
			}
		}
		return nil
	})
}
