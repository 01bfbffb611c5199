package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/carnet/internal/common"
	"github.com/dmitrijs2005/carnet/internal/dbx"
	"github.com/dmitrijs2005/carnet/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

const pgSelectColumns = `position, id, national_id, first_name, last_name, role, department, status, photo_url, created_at`

// PostgresRepository implements record storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanPostgresRecord(row interface{ Scan(dest ...any) error }) (*models.Record, error) {
	var r models.Record
	var status string
	if err := row.Scan(&r.Position, &r.ID, &r.NationalID, &r.FirstName, &r.LastName,
		&r.Role, &r.Department, &status, &r.PhotoURL, &r.CreatedAt); err != nil {
		return nil, err
	}
	r.Status = models.Status(status)
	return &r, nil
}

// List returns all records in insertion order.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Record, error) {
	query := `SELECT ` + pgSelectColumns + ` FROM records ORDER BY position`
	result, err := dbx.QueryAll(ctx, r.db, func(rows *sql.Rows) (*models.Record, error) {
		return scanPostgresRecord(rows)
	}, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select records: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Record, error) {
	query := `SELECT ` + pgSelectColumns + ` FROM records WHERE id=$1`
	rec, err := scanPostgresRecord(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("record %s: %w", id, common.ErrorNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select record: %w", err)
	}
	return rec, nil
}

// GetByNationalID returns the earliest record carrying nationalID.
func (r *PostgresRepository) GetByNationalID(ctx context.Context, nationalID string) (*models.Record, error) {
	query := `SELECT ` + pgSelectColumns + ` FROM records WHERE national_id=$1 ORDER BY position LIMIT 1`
	rec, err := scanPostgresRecord(r.db.QueryRowContext(ctx, query, nationalID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("national id %s: %w", nationalID, common.ErrorNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select record: %w", err)
	}
	return rec, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, rec *models.Record) error {
	query := `
		INSERT INTO records (id, national_id, first_name, last_name, role, department, status, photo_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING position
	`
	err := r.db.QueryRowContext(ctx, query,
		rec.ID, rec.NationalID, rec.FirstName, rec.LastName, rec.Role, rec.Department,
		string(rec.Status), rec.PhotoURL, rec.CreatedAt,
	).Scan(&rec.Position)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("record %s: %w", rec.ID, common.ErrorConflict)
	}
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status models.Status) error {
	res, err := r.db.ExecContext(ctx, `UPDATE records SET status=$2 WHERE id=$1`, id, string(status))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res, id)
}

func (r *PostgresRepository) UpdateDetails(ctx context.Context, rec *models.Record) error {
	query := `
		UPDATE records SET
			first_name = $2,
			last_name = $3,
			role = $4,
			department = $5,
			photo_url = $6,
			status = $7
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.FirstName, rec.LastName, rec.Role, rec.Department, rec.PhotoURL, string(rec.Status))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res, rec.ID)
}

func (r *PostgresRepository) MarkPendingVerified(ctx context.Context) ([]string, error) {
	query := `UPDATE records SET status='verified' WHERE status='pending' RETURNING id`
	ids, err := dbx.QueryAll(ctx, r.db, func(rows *sql.Rows) (string, error) {
		var id string
		err := rows.Scan(&id)
		return id, err
	}, query)
	if err != nil {
		return nil, fmt.Errorf("failed to verify pending records: %w", err)
	}
	return ids, nil
}

func expectOneRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return fmt.Errorf("record %s: %w", id, common.ErrorNotFound)
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
