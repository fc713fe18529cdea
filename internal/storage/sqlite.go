package storage

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/kyori/internal/stats"
)

// SQLiteStore implements StatStore on a SQLite database. Floats are
// stored as little-endian IEEE-754 blobs, so round-trips are exact.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at dbPath and initializes
// the schema. Parent directories are created if they do not exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS background_stats (
		key TEXT PRIMARY KEY,
		dim INTEGER NOT NULL,
		mean BLOB NOT NULL,
		cov BLOB NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Exists reports whether statistics are persisted under key.
func (s *SQLiteStore) Exists(ctx context.Context, key string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM background_stats WHERE key = ?", key).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Load reads the statistics persisted under key.
func (s *SQLiteStore) Load(ctx context.Context, key string) (*stats.Gaussian, error) {
	var dim int
	var meanBlob, covBlob []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT dim, mean, cov FROM background_stats WHERE key = ?", key,
	).Scan(&dim, &meanBlob, &covBlob)
	if err != nil {
		return nil, fmt.Errorf("failed to load statistics: %w", err)
	}
	r := record{Dim: dim, Mean: blobToFloats(meanBlob), Cov: blobToFloats(covBlob)}
	return r.gaussian()
}

// Save persists the statistics under key, replacing any existing record.
func (s *SQLiteStore) Save(ctx context.Context, key string, g *stats.Gaussian) error {
	r := toRecord(g)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO background_stats (key, dim, mean, cov) VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET dim=excluded.dim, mean=excluded.mean, cov=excluded.cov
	`, key, r.Dim, floatsToBlob(r.Mean), floatsToBlob(r.Cov))
	if err != nil {
		return fmt.Errorf("failed to save statistics: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func floatsToBlob(xs []float64) []byte {
	b := make([]byte, 8*len(xs))
	for i, x := range xs {
		binary.LittleEndian.PutUint64(b[i*8:], math.Float64bits(x))
	}
	return b
}

func blobToFloats(b []byte) []float64 {
	xs := make([]float64, len(b)/8)
	for i := range xs {
		xs[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[i*8:]))
	}
	return xs
}
