package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
)

// LoadCollection decodes the JSON array stored under key into dst.
// It reports false, leaving dst untouched, when nothing is stored yet.
func (db *DB) LoadCollection(key string, dst any) (bool, error) {
	var raw string
	err := db.QueryRow("SELECT value FROM collections WHERE key = ?", key).Scan(&raw)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read collection %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("decode collection %s: %w", key, err)
	}
	return true, nil
}

// SaveCollections rewrites every given collection in full, in one
// transaction. Either all keys are written or none are.
func (db *DB) SaveCollections(collections map[string]any) error {
	// Encode everything before touching the database
	keys := make([]string, 0, len(collections))
	encoded := make(map[string]string, len(collections))
	for key, items := range collections {
		data, err := json.Marshal(items)
		if err != nil {
			return fmt.Errorf("encode collection %s: %w", key, err)
		}
		keys = append(keys, key)
		encoded[key] = string(data)
	}
	sort.Strings(keys)

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}

	for _, key := range keys {
		_, err := tx.Exec(`
			INSERT INTO collections (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
		`, key, encoded[key])
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("write collection %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// CollectionKeys lists the stored collection keys in order
func (db *DB) CollectionKeys() ([]string, error) {
	rows, err := db.Query("SELECT key FROM collections ORDER BY key")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}
