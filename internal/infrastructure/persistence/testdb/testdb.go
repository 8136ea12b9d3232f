// Package testdb opens throwaway in-memory SQLite databases that carry the
// same tables as the migrations, for package tests that need a real store.
package testdb

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const schema = `
CREATE TABLE products (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	key_product_id TEXT NOT NULL UNIQUE,
	barcode TEXT,
	barcode_inner TEXT,
	description1 TEXT,
	description2 TEXT,
	description3 TEXT,
	description4 TEXT,
	internal_id TEXT,
	brand TEXT,
	height NUMERIC,
	depth NUMERIC,
	width NUMERIC,
	weight NUMERIC,
	volume NUMERIC,
	product_condition TEXT,
	is_price_tax_inclusive BOOLEAN NOT NULL DEFAULT 0,
	is_kitted BOOLEAN NOT NULL DEFAULT 0,
	key_taxcode_id TEXT,
	stock_quantity NUMERIC,
	product_name TEXT,
	kit_products_set_price NUMERIC,
	product_code TEXT,
	product_search_code TEXT,
	stock_low_quantity NUMERIC,
	average_cost NUMERIC,
	product_drop TEXT,
	pack_quantity NUMERIC,
	supplier_organization_id TEXT,
	key_sell_unit_id TEXT
);
CREATE TABLE prices (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	key_product_id TEXT NOT NULL,
	key_sell_unit_id TEXT,
	price NUMERIC NOT NULL DEFAULT 0,
	reference_id TEXT NOT NULL DEFAULT '',
	reference_type TEXT NOT NULL DEFAULT '',
	product_id INTEGER NOT NULL,
	UNIQUE (key_product_id, reference_id, reference_type)
);
CREATE TABLE users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	organization_id TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE sessions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_key TEXT NOT NULL UNIQUE,
	user_id INTEGER,
	organization_id TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Open returns a fresh database with every table created. The pool is pinned
// to a single connection because each SQLite :memory: connection is its own
// database.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Exec(schema).Error)
	return db
}
