package incident

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound signals the referenced incident does not exist.
var ErrNotFound = errors.New("incident: not found")

// Repository handles data access for incident reports.
type Repository interface {
	Create(ctx context.Context, params CreateReportParams) (Report, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Report, error)
	GetByID(ctx context.Context, id string) (Report, error)
	Update(ctx context.Context, id string, params UpdateReportParams) (Report, error)
	Delete(ctx context.Context, id string) error
	CountByOwner(ctx context.Context, ownerID string) (total, resolved int, err error)
}

// CreateReportParams contains write parameters for new reports.
type CreateReportParams struct {
	OwnerID     string
	Title       string
	Description string
	Category    string
	Location    *string
	Image       *string
	Status      Status
}

// UpdateReportParams carries partial fields; nil fields keep the stored value.
type UpdateReportParams struct {
	Title       *string
	Description *string
	Category    *string
	Location    *string
	Image       *string
	Status      *Status
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a PostgreSQL-backed incident repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const reportColumns = "id, user_id, title, description, category, location, image, status, created_at"

// Create inserts a new report.
func (r *PGRepository) Create(ctx context.Context, params CreateReportParams) (Report, error) {
	const insertSQL = `
		INSERT INTO incidents (user_id, title, description, category, location, image, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + reportColumns

	report, err := scanReport(r.pool.QueryRow(ctx, insertSQL,
		params.OwnerID,
		params.Title,
		params.Description,
		params.Category,
		params.Location,
		params.Image,
		params.Status,
	))
	if err != nil {
		return Report{}, fmt.Errorf("incident: create: %w", err)
	}

	return report, nil
}

// ListByOwner returns the caller's reports, newest first.
func (r *PGRepository) ListByOwner(ctx context.Context, ownerID string) ([]Report, error) {
	const query = `
		SELECT ` + reportColumns + `
		FROM incidents
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("incident: list: %w", err)
	}
	defer rows.Close()

	reports := make([]Report, 0, 8)
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("incident: scan: %w", err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("incident: iterate: %w", err)
	}

	return reports, nil
}

// GetByID fetches a single report regardless of ownership.
func (r *PGRepository) GetByID(ctx context.Context, id string) (Report, error) {
	const query = `
		SELECT ` + reportColumns + `
		FROM incidents
		WHERE id = $1
	`

	report, err := scanReport(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Report{}, ErrNotFound
		}
		return Report{}, fmt.Errorf("incident: get by id: %w", err)
	}

	return report, nil
}

// Update applies the supplied fields and returns the stored row. Nil fields
// are left untouched via COALESCE.
func (r *PGRepository) Update(ctx context.Context, id string, params UpdateReportParams) (Report, error) {
	const updateSQL = `
		UPDATE incidents
		SET title = COALESCE($2, title),
		    description = COALESCE($3, description),
		    category = COALESCE($4, category),
		    location = COALESCE($5, location),
		    image = COALESCE($6, image),
		    status = COALESCE($7, status)
		WHERE id = $1
		RETURNING ` + reportColumns

	report, err := scanReport(r.pool.QueryRow(ctx, updateSQL,
		id,
		params.Title,
		params.Description,
		params.Category,
		params.Location,
		params.Image,
		params.Status,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Report{}, ErrNotFound
		}
		return Report{}, fmt.Errorf("incident: update: %w", err)
	}

	return report, nil
}

// Delete removes a report unconditionally.
func (r *PGRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM incidents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("incident: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByOwner returns the total and resolved report counts for an owner.
func (r *PGRepository) CountByOwner(ctx context.Context, ownerID string) (int, int, error) {
	const query = `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE status = $2)
		FROM incidents
		WHERE user_id = $1
	`

	var total, resolved int
	if err := r.pool.QueryRow(ctx, query, ownerID, StatusResolved).Scan(&total, &resolved); err != nil {
		return 0, 0, fmt.Errorf("incident: count by owner: %w", err)
	}

	return total, resolved, nil
}

func scanReport(row pgx.Row) (Report, error) {
	var (
		report   Report
		location *string
		image    *string
	)
	err := row.Scan(
		&report.ID,
		&report.OwnerID,
		&report.Title,
		&report.Description,
		&report.Category,
		&location,
		&image,
		&report.Status,
		&report.CreatedAt,
	)
	if err != nil {
		return Report{}, err
	}

	report.Location = location
	report.Image = image
	return report, nil
}
