package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/misinfo-detector/backend/internal/evidence"
	"github.com/misinfo-detector/backend/internal/storage/models"
	"github.com/misinfo-detector/backend/pkg/logger"
)

var ErrNotFound = errors.New("record not found")

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

type Client struct {
	db *sql.DB
}

func NewClient(dbPath string) (*Client, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec("PRAGMA journal_mode = WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	logger.Info("SQLite client initialized", zap.String("path", dbPath))

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		text TEXT NOT NULL,
		verdict TEXT,
		confidence INTEGER,
		explanation TEXT,
		sources TEXT,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_history_created ON history(created_at);
	`

	_, err := c.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("SQLite schema initialized")
	return nil
}

// InsertVerification persists one record and returns its assigned ID.
// created_at is server-assigned in UTC.
func (c *Client) InsertVerification(rec *models.VerificationRecord) (int64, error) {
	sourcesJSON, err := json.Marshal(rec.Sources)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal sources: %w", err)
	}

	createdAt := time.Now().UTC()

	query := `
		INSERT INTO history (text, verdict, confidence, explanation, sources, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	res, err := c.db.Exec(
		query,
		rec.Text,
		rec.Verdict,
		rec.Confidence,
		rec.Explanation,
		string(sourcesJSON),
		createdAt.Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert verification: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted id: %w", err)
	}

	rec.ID = id
	rec.CreatedAt = createdAt

	logger.Info("Verification recorded",
		zap.Int64("record_id", id),
		zap.String("verdict", rec.Verdict),
		zap.Int("confidence", rec.Confidence),
	)

	return id, nil
}

// GetHistory returns the most recent records. The limit is clamped to
// [1, 500]; zero or negative falls back to the default of 50.
func (c *Client) GetHistory(limit int) ([]models.VerificationRecord, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	query := `
		SELECT id, text, verdict, confidence, explanation, sources, created_at
		FROM history
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	rows, err := c.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	records := make([]models.VerificationRecord, 0, limit)
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}

	return records, nil
}

// GetVerification fetches one record by ID, or ErrNotFound.
func (c *Client) GetVerification(id int64) (*models.VerificationRecord, error) {
	query := `
		SELECT id, text, verdict, confidence, explanation, sources, created_at
		FROM history
		WHERE id = ?
	`

	rec, err := scanRecord(c.db.QueryRow(query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return rec, nil
}

// DeleteVerification removes one record by ID and reports whether a
// row was actually deleted.
func (c *Client) DeleteVerification(id int64) (bool, error) {
	res, err := c.db.Exec(`DELETE FROM history WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete verification: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	if affected > 0 {
		logger.Info("Verification deleted", zap.Int64("record_id", id))
	}

	return affected > 0, nil
}

func scanRecord(scan func(dest ...interface{}) error) (*models.VerificationRecord, error) {
	var rec models.VerificationRecord
	var sourcesJSON string
	var createdAt int64

	err := scan(
		&rec.ID,
		&rec.Text,
		&rec.Verdict,
		&rec.Confidence,
		&rec.Explanation,
		&sourcesJSON,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan row: %w", err)
	}

	rec.Sources = evidence.Bundle{
		Reference: []evidence.Item{},
		News:      []evidence.Item{},
		FactCheck: []evidence.Item{},
	}
	if sourcesJSON != "" {
		if err := json.Unmarshal([]byte(sourcesJSON), &rec.Sources); err != nil {
			logger.Warn("Failed to decode stored sources", zap.Int64("record_id", rec.ID), zap.Error(err))
		}
	}
	if rec.Sources.Reference == nil {
		rec.Sources.Reference = []evidence.Item{}
	}
	if rec.Sources.News == nil {
		rec.Sources.News = []evidence.Item{}
	}
	if rec.Sources.FactCheck == nil {
		rec.Sources.FactCheck = []evidence.Item{}
	}

	rec.CreatedAt = time.Unix(createdAt, 0).UTC()

	return &rec, nil
}
