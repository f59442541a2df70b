// Package versions persists brochure snapshots in SQLite so that edits can
// be undone by restoring an earlier state. History is append-only: a
// restore records a new version rather than rewinding the log.
package versions

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/flyerforge/flyerforge-server/internal/domain"
	domainerrors "github.com/flyerforge/flyerforge-server/internal/errors"
	"github.com/flyerforge/flyerforge-server/internal/logger"

	_ "modernc.org/sqlite"
)

// DefaultRetention is the number of versions kept per brochure.
const DefaultRetention = 10

// Store provides SQLite-backed version history.
type Store struct {
	db        *sql.DB
	logger    *logger.Logger
	retention int

	mu    sync.Mutex
	locks map[string]*sync.Mutex // per (brochure, tenant) write serialization
}

// Open creates the version store at path. It configures WAL mode, sets
// pragmas, and applies pending migrations.
func Open(path string, retention int, log *logger.Logger) (*Store, error) {
	if retention < 1 {
		retention = DefaultRetention
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Single writer; SQLite serializes writes anyway.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", pragma, err)
		}
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:        db,
		logger:    log,
		retention: retention,
		locks:     make(map[string]*sync.Mutex),
	}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// lockFor returns the write mutex for one (brochure, tenant) history.
func (s *Store) lockFor(brochureID, tenantID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := brochureID + "\x00" + tenantID
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

// Save appends a snapshot as the next version and prunes history beyond the
// retention window. Returns the assigned version number.
func (s *Store) Save(ctx context.Context, brochureID, tenantID string, snapshot []byte, action string) (int, error) {
	if brochureID == "" || tenantID == "" {
		return 0, domainerrors.Validation("brochure id and tenant id are required")
	}
	if len(snapshot) == 0 {
		return 0, domainerrors.Validation("snapshot cannot be empty")
	}
	if action == "" {
		action = "save"
	}

	l := s.lockFor(brochureID, tenantID)
	l.Lock()
	defer l.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, domainerrors.IO("begin version transaction", err)
	}
	defer tx.Rollback()

	var next int
	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(version_number), 0) + 1
		FROM brochure_versions
		WHERE brochure_id = ? AND tenant_id = ?`,
		brochureID, tenantID).Scan(&next)
	if err != nil {
		return 0, domainerrors.IO("compute next version", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO brochure_versions (brochure_id, tenant_id, version_number, action, data, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		brochureID, tenantID, next, action, string(snapshot), formatTime(time.Now()))
	if err != nil {
		return 0, domainerrors.IO("insert version", err)
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM brochure_versions
		WHERE brochure_id = ? AND tenant_id = ? AND version_number <= ? - ?`,
		brochureID, tenantID, next, s.retention)
	if err != nil {
		return 0, domainerrors.IO("prune versions", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, domainerrors.IO("commit version", err)
	}

	if s.logger != nil {
		s.logger.Debug("version saved",
			"brochure_id", brochureID, "tenant_id", tenantID,
			"version", next, "action", action)
	}
	return next, nil
}

// Get returns the exact snapshot stored as version n.
func (s *Store) Get(ctx context.Context, brochureID, tenantID string, n int) (*domain.Version, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT brochure_id, tenant_id, version_number, action, data, created_at
		FROM brochure_versions
		WHERE brochure_id = ? AND tenant_id = ? AND version_number = ?`,
		brochureID, tenantID, n)

	v, err := scanVersion(row)
	if err == sql.ErrNoRows {
		return nil, domainerrors.NotFoundf("version %d not found for brochure %s", n, brochureID)
	}
	if err != nil {
		return nil, domainerrors.IO("get version", err)
	}
	return v, nil
}

// List returns version summaries, newest first, at most limit entries.
// A limit of 0 means no limit beyond the retention window.
func (s *Store) List(ctx context.Context, brochureID, tenantID string, limit int) ([]domain.VersionSummary, error) {
	if limit <= 0 {
		limit = s.retention
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT version_number, action, created_at
		FROM brochure_versions
		WHERE brochure_id = ? AND tenant_id = ?
		ORDER BY version_number DESC
		LIMIT ?`,
		brochureID, tenantID, limit)
	if err != nil {
		return nil, domainerrors.IO("list versions", err)
	}
	defer rows.Close()

	var out []domain.VersionSummary
	for rows.Next() {
		var (
			sum       domain.VersionSummary
			createdAt string
		)
		if err := rows.Scan(&sum.Number, &sum.Action, &createdAt); err != nil {
			return nil, domainerrors.IO("scan version summary", err)
		}
		sum.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, domainerrors.IO("parse version timestamp", err)
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, domainerrors.IO("iterate versions", err)
	}
	return out, nil
}

// Restore reads version n and appends its snapshot as a new version with
// action "restore_from_v{n}". Returns the restored snapshot and its new
// version number.
func (s *Store) Restore(ctx context.Context, brochureID, tenantID string, n int) ([]byte, int, error) {
	v, err := s.Get(ctx, brochureID, tenantID, n)
	if err != nil {
		return nil, 0, err
	}

	next, err := s.Save(ctx, brochureID, tenantID, v.Data, fmt.Sprintf("restore_from_v%d", n))
	if err != nil {
		return nil, 0, err
	}
	return v.Data, next, nil
}

// DeleteAll removes every version of one brochure. Used when the brochure
// itself is deleted.
func (s *Store) DeleteAll(ctx context.Context, brochureID, tenantID string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM brochure_versions
		WHERE brochure_id = ? AND tenant_id = ?`,
		brochureID, tenantID)
	if err != nil {
		return domainerrors.IO("delete versions", err)
	}

	s.mu.Lock()
	delete(s.locks, brochureID+"\x00"+tenantID)
	s.mu.Unlock()
	return nil
}

func scanVersion(scanner interface{ Scan(dest ...any) error }) (*domain.Version, error) {
	var (
		v         domain.Version
		data      string
		createdAt string
	)
	err := scanner.Scan(&v.BrochureID, &v.TenantID, &v.Number, &v.Action, &data, &createdAt)
	if err != nil {
		return nil, err
	}

	v.Data = []byte(data)
	v.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// formatTime formats a time.Time to RFC3339Nano for storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime parses a RFC3339Nano string back to time.Time.
func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
