package alerts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// PostgresStore persists alerts in PostgreSQL. Indicators are stored as a
// native text array via pq.Array.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects, verifies the connection, and ensures the alerts
// table exists.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	store := &PostgresStore{db: db}
	if err := store.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return store, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS alerts (
		id UUID PRIMARY KEY,
		alert_type VARCHAR(100) NOT NULL,
		severity VARCHAR(20) NOT NULL,
		confidence DECIMAL(4,3) CHECK (confidence >= 0 AND confidence <= 1),
		source_ip VARCHAR(45),
		destination_ip VARCHAR(45),
		protocol VARCHAR(20),
		description TEXT,
		indicators TEXT[],
		recommendation TEXT,
		acknowledged BOOLEAN NOT NULL DEFAULT FALSE,
		false_positive BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_alerts_severity ON alerts(severity);
	CREATE INDEX IF NOT EXISTS idx_alerts_type ON alerts(alert_type);
	CREATE INDEX IF NOT EXISTS idx_alerts_created ON alerts(created_at DESC);`

	_, err := s.db.ExecContext(ctx, query)
	return err
}

func (s *PostgresStore) Insert(ctx context.Context, alert *Alert) error {
	query := `
	INSERT INTO alerts (id, alert_type, severity, confidence, source_ip,
		destination_ip, protocol, description, indicators, recommendation, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := s.db.ExecContext(ctx, query,
		alert.ID, alert.AlertType, alert.Severity, alert.Confidence,
		alert.SourceIP, alert.DestinationIP, alert.Protocol,
		alert.Description, pq.Array(alert.Indicators), alert.Recommendation,
		alert.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, limit int) ([]*Alert, error) {
	query := `
	SELECT id, alert_type, severity, confidence, source_ip, destination_ip,
		   protocol, description, indicators, recommendation,
		   acknowledged, false_positive, created_at
	FROM alerts
	ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var out []*Alert
	for rows.Next() {
		a := &Alert{}
		if err := rows.Scan(&a.ID, &a.AlertType, &a.Severity, &a.Confidence,
			&a.SourceIP, &a.DestinationIP, &a.Protocol, &a.Description,
			pq.Array(&a.Indicators), &a.Recommendation,
			&a.Acknowledged, &a.FalsePositive, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Acknowledge(ctx context.Context, id string) error {
	return s.setFlag(ctx, id, "acknowledged")
}

func (s *PostgresStore) MarkFalsePositive(ctx context.Context, id string) error {
	return s.setFlag(ctx, id, "false_positive")
}

func (s *PostgresStore) setFlag(ctx context.Context, id, column string) error {
	// column comes from a fixed internal call site, never user input
	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE alerts SET %s = TRUE WHERE id = $1", column), id)
	if err != nil {
		return fmt.Errorf("update alert: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		BySeverity:   make(map[string]int),
		ByAttackType: make(map[string]int),
	}

	row := s.db.QueryRowContext(ctx, `
	SELECT COUNT(*),
		   COUNT(*) FILTER (WHERE acknowledged),
		   COUNT(*) FILTER (WHERE false_positive)
	FROM alerts`)
	if err := row.Scan(&stats.Total, &stats.Acknowledged, &stats.FalsePositives); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return stats, nil
		}
		return nil, fmt.Errorf("alert totals: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT severity, alert_type, COUNT(*) FROM alerts GROUP BY severity, alert_type`)
	if err != nil {
		return nil, fmt.Errorf("alert breakdown: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var severity, attackType string
		var count int
		if err := rows.Scan(&severity, &attackType, &count); err != nil {
			return nil, fmt.Errorf("scan breakdown: %w", err)
		}
		stats.BySeverity[severity] += count
		stats.ByAttackType[attackType] += count
	}
	return stats, rows.Err()
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() error { return s.db.Close() }
