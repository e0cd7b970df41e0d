package database

import (
	"database/sql"
	"fmt"
)

// TableCreator handles the creation of the database schema.
type TableCreator struct{}

// NewTableCreator creates a new TableCreator.
func NewTableCreator() *TableCreator {
	return &TableCreator{}
}

// CreateSchema executes all necessary queries to build the tables and indexes.
func (tc *TableCreator) CreateSchema(db *sql.DB) error {
	for _, tableSQL := range tables {
		if _, err := db.Exec(tableSQL); err != nil {
			return fmt.Errorf("failed to create table for query [%s]: %w", tableSQL, err)
		}
	}

	for _, indexSQL := range indexes {
		if _, err := db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index for query [%s]: %w", indexSQL, err)
		}
	}
	return nil
}

var tables = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		sku TEXT NOT NULL DEFAULT '',
		brand_name TEXT NOT NULL DEFAULT '',
		package_info TEXT NOT NULL DEFAULT '',
		category_id TEXT REFERENCES categories(id),
		image_url TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS stores (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		location_link TEXT NOT NULL DEFAULT '',
		location_lat REAL,
		location_lng REAL
	)`,
	`CREATE TABLE IF NOT EXISTS offers (
		id TEXT PRIMARY KEY,
		product_id TEXT NOT NULL REFERENCES products(id),
		store_id TEXT NOT NULL REFERENCES stores(id),
		price_cents INTEGER NOT NULL,
		currency TEXT NOT NULL DEFAULT 'RUB',
		quantity INTEGER NOT NULL DEFAULT 0,
		is_available BOOLEAN NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS customer_sessions (
		id TEXT PRIMARY KEY,
		device_id TEXT,
		user_agent TEXT,
		last_seen_at TIMESTAMP NOT NULL,
		created_at TIMESTAMP NOT NULL,
		expires_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS search_conversations (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL REFERENCES customer_sessions(id),
		state TEXT NOT NULL,
		intent_id TEXT,
		request_id TEXT,
		result_id TEXT,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		expires_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS search_messages (
		id TEXT PRIMARY KEY,
		conversation_id TEXT NOT NULL REFERENCES search_conversations(id),
		sender TEXT NOT NULL,
		text TEXT NOT NULL DEFAULT '',
		attachment_ids TEXT NOT NULL DEFAULT '[]',
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS search_intents (
		id TEXT PRIMARY KEY,
		conversation_id TEXT NOT NULL REFERENCES search_conversations(id),
		raw_text TEXT NOT NULL DEFAULT '',
		brand TEXT,
		brand_set BOOLEAN NOT NULL DEFAULT 0,
		type TEXT,
		type_set BOOLEAN NOT NULL DEFAULT 0,
		package_info TEXT,
		package_set BOOLEAN NOT NULL DEFAULT 0,
		candidate_ids TEXT,
		confidence REAL
	)`,
	`CREATE TABLE IF NOT EXISTS search_requests (
		id TEXT PRIMARY KEY,
		conversation_id TEXT NOT NULL REFERENCES search_conversations(id),
		intent_id TEXT NOT NULL,
		lat REAL NOT NULL,
		lng REAL NOT NULL,
		radius_meters REAL NOT NULL,
		created_at TIMESTAMP NOT NULL,
		expires_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS search_results (
		id TEXT PRIMARY KEY,
		request_id TEXT NOT NULL REFERENCES search_requests(id),
		items TEXT NOT NULL DEFAULT '[]',
		created_at TIMESTAMP NOT NULL,
		expires_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS attachments (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL REFERENCES customer_sessions(id),
		conversation_id TEXT NOT NULL REFERENCES search_conversations(id),
		kind TEXT NOT NULL,
		url TEXT NOT NULL,
		storage_key TEXT NOT NULL,
		size_bytes INTEGER NOT NULL DEFAULT 0,
		content_type TEXT NOT NULL DEFAULT '',
		width INTEGER,
		height INTEGER,
		created_at TIMESTAMP NOT NULL,
		expires_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS voice_inputs (
		id TEXT PRIMARY KEY,
		attachment_id TEXT NOT NULL UNIQUE REFERENCES attachments(id),
		transcript TEXT NOT NULL,
		confidence REAL,
		language TEXT
	)`,
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_products_brand ON products(brand_name)`,
	`CREATE INDEX IF NOT EXISTS idx_offers_product ON offers(product_id)`,
	`CREATE INDEX IF NOT EXISTS idx_offers_store ON offers(store_id)`,
	`CREATE INDEX IF NOT EXISTS idx_conversations_session ON search_conversations(session_id)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_conversation ON search_messages(conversation_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_intents_conversation ON search_intents(conversation_id)`,
	`CREATE INDEX IF NOT EXISTS idx_results_request ON search_results(request_id)`,
	`CREATE INDEX IF NOT EXISTS idx_attachments_session ON attachments(session_id)`,
}
