package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"
)

// Store is the Postgres-backed single-use claim on exchange codes, for
// gateways running more than one instance. Codes are bearer secrets, so
// only their hash is persisted.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func codeHash(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

// Claim inserts the code hash; exactly one inserting instance wins.
func (s *Store) Claim(ctx context.Context, code string) (bool, error) {
	query := `
		INSERT INTO exchange_codes (code_hash, claimed_at)
		VALUES ($1, NOW())
		ON CONFLICT (code_hash) DO NOTHING
	`

	res, err := s.db.ExecContext(ctx, query, codeHash(code))
	if err != nil {
		return false, fmt.Errorf("claiming exchange code: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading claim result: %w", err)
	}

	return rows > 0, nil
}

// PurgeExpired drops claims older than the retention window. Codes stop
// mattering minutes after the redirect; the window only needs to outlive
// the slowest double-invocation.
func (s *Store) PurgeExpired(ctx context.Context, retention time.Duration) error {
	query := `DELETE FROM exchange_codes WHERE claimed_at < NOW() - ($1 * INTERVAL '1 second')`

	_, err := s.db.ExecContext(ctx, query, retention.Seconds())
	if err != nil {
		return fmt.Errorf("purging exchange codes: %w", err)
	}

	return nil
}
