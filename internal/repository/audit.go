package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"beemine-admin/internal/models"
)

const auditSchema = `
	CREATE TABLE IF NOT EXISTS moderation_audit (
		id         UUID PRIMARY KEY,
		admin_name TEXT NOT NULL,
		queue      TEXT NOT NULL,
		item_id    TEXT NOT NULL,
		action     TEXT NOT NULL,
		remarks    TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS moderation_audit_created_at_idx ON moderation_audit (created_at DESC);
`

// AuditRepository handles database operations for the moderation audit log
type AuditRepository struct {
	db *pgxpool.Pool
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{db: db}
}

// Open connects to PostgreSQL and pings it
func Open(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// Migrate creates the audit table when it does not exist
func (r *AuditRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, auditSchema); err != nil {
		return fmt.Errorf("failed to migrate audit table: %w", err)
	}
	return nil
}

// Record inserts one audit entry. ID and CreatedAt are filled in when empty.
func (r *AuditRepository) Record(ctx context.Context, entry models.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO moderation_audit (id, admin_name, queue, item_id, action, remarks, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		entry.ID, entry.AdminName, entry.Queue, entry.ItemID, entry.Action, entry.Remarks, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

// Recent returns the newest audit entries first
func (r *AuditRepository) Recent(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `
		SELECT id, admin_name, queue, item_id, action, remarks, created_at
		FROM moderation_audit
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit entries: %w", err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.AuditEntry, error) {
		var e models.AuditEntry
		err := row.Scan(&e.ID, &e.AdminName, &e.Queue, &e.ItemID, &e.Action, &e.Remarks, &e.CreatedAt)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan audit entries: %w", err)
	}
	return entries, nil
}

// Ping checks the database connection
func (r *AuditRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
