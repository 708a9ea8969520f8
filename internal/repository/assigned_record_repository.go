package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AssignedRecord is one row of calling data handed from an admin to a
// user. Assigner and assignee never change after creation; only the
// status label is mutable.
type AssignedRecord struct {
	ID         string
	AssignerID string
	AssigneeID string
	Name       string
	Phone      string
	Email      string
	Status     string
	CreatedAt  time.Time
}

// AssignedRecordFilter narrows record queries. Zero value matches all rows.
type AssignedRecordFilter struct {
	AssignerID string
	AssigneeID string
	From       *time.Time
	To         *time.Time
}

type AssignedRecordRepository interface {
	// BulkCreate inserts all records in one round trip and returns the
	// number of rows written.
	BulkCreate(ctx context.Context, records []*AssignedRecord) (int, error)
	FindByID(ctx context.Context, id string) (*AssignedRecord, error)
	UpdateStatus(ctx context.Context, id, status string) error
	// FindAll returns every matching row ordered by created_at descending.
	FindAll(ctx context.Context, filter AssignedRecordFilter) ([]*AssignedRecord, error)
}

type pgAssignedRecordRepository struct {
	pool *pgxpool.Pool
}

func NewAssignedRecordRepository(pool *pgxpool.Pool) AssignedRecordRepository {
	return &pgAssignedRecordRepository{pool: pool}
}

const recordColumns = `id, assigner_id, assignee_id, name, phone, email, status, created_at`

func (r *pgAssignedRecordRepository) BulkCreate(ctx context.Context, records []*AssignedRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	now := time.Now()
	source := pgx.CopyFromSlice(len(records), func(i int) ([]interface{}, error) {
		rec := records[i]
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = now
		}
		return []interface{}{
			rec.AssignerID, rec.AssigneeID, rec.Name, rec.Phone, rec.Email, rec.Status, rec.CreatedAt,
		}, nil
	})
	n, err := r.pool.CopyFrom(ctx,
		pgx.Identifier{"assigned_records"},
		[]string{"assigner_id", "assignee_id", "name", "phone", "email", "status", "created_at"},
		source,
	)
	return int(n), err
}

func (r *pgAssignedRecordRepository) FindByID(ctx context.Context, id string) (*AssignedRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM assigned_records WHERE id = $1`
	rec := &AssignedRecord{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&rec.ID, &rec.AssignerID, &rec.AssigneeID, &rec.Name, &rec.Phone,
		&rec.Email, &rec.Status, &rec.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *pgAssignedRecordRepository) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.pool.Exec(ctx, `UPDATE assigned_records SET status = $2 WHERE id = $1`, id, status)
	return err
}

func (r *pgAssignedRecordRepository) FindAll(ctx context.Context, filter AssignedRecordFilter) ([]*AssignedRecord, error) {
	var conds []string
	var args []interface{}
	add := func(cond string, val interface{}) {
		args = append(args, val)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.AssignerID != "" {
		add("assigner_id = $%d", filter.AssignerID)
	}
	if filter.AssigneeID != "" {
		add("assignee_id = $%d", filter.AssigneeID)
	}
	if filter.From != nil {
		add("created_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("created_at < $%d", *filter.To)
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	query := `SELECT ` + recordColumns + ` FROM assigned_records` + where + ` ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*AssignedRecord
	for rows.Next() {
		rec := &AssignedRecord{}
		if err := rows.Scan(
			&rec.ID, &rec.AssignerID, &rec.AssigneeID, &rec.Name, &rec.Phone,
			&rec.Email, &rec.Status, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
