package broadcast

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository handles data access for broadcast alerts.
type Repository interface {
	Create(ctx context.Context, params CreateAlertParams) (Alert, error)
	List(ctx context.Context) ([]Alert, error)
}

// CreateAlertParams contains write parameters for new alerts.
type CreateAlertParams struct {
	Type        string
	Severity    Severity
	Location    string
	Message     string
	IsAuthority bool
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a PostgreSQL-backed broadcast repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const alertColumns = "id, type, severity, location, message, is_authority, created_at"

// Create inserts a new alert.
func (r *PGRepository) Create(ctx context.Context, params CreateAlertParams) (Alert, error) {
	const insertSQL = `
		INSERT INTO broadcasts (type, severity, location, message, is_authority)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + alertColumns

	alert, err := scanAlert(r.pool.QueryRow(ctx, insertSQL,
		params.Type,
		params.Severity,
		params.Location,
		params.Message,
		params.IsAuthority,
	))
	if err != nil {
		return Alert{}, fmt.Errorf("broadcast: create: %w", err)
	}

	return alert, nil
}

// List returns all alerts, newest first.
func (r *PGRepository) List(ctx context.Context) ([]Alert, error) {
	const query = `
		SELECT ` + alertColumns + `
		FROM broadcasts
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("broadcast: list: %w", err)
	}
	defer rows.Close()

	alerts := make([]Alert, 0, 16)
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("broadcast: scan: %w", err)
		}
		alerts = append(alerts, alert)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("broadcast: iterate: %w", err)
	}

	return alerts, nil
}

func scanAlert(row pgx.Row) (Alert, error) {
	var alert Alert
	err := row.Scan(
		&alert.ID,
		&alert.Type,
		&alert.Severity,
		&alert.Location,
		&alert.Message,
		&alert.IsAuthority,
		&alert.CreatedAt,
	)
	if err != nil {
		return Alert{}, err
	}
	return alert, nil
}
