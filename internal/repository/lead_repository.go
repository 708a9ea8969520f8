package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Lead struct {
	ID           string
	OwnerID      string
	Name         string
	Email        string
	Phone        string
	Company      string
	Notes        string
	Status       string
	FollowUpDate *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LeadFilter narrows lead queries. The zero value matches every row;
// MatchNone forces an empty result set regardless of the other fields.
type LeadFilter struct {
	MatchNone bool
	OwnerID   string
	OwnerIDs  []string
	Search    string
	Status    string
	DateFrom  *time.Time
	DateTo    *time.Time
}

type LeadSort struct {
	Field string
	Order string
}

// OwnerLeadCount is one leaderboard row: lead count per owning user.
type OwnerLeadCount struct {
	OwnerID string
	Name    string
	Email   string
	Count   int
}

// LeadStamp is the minimal projection the time-series aggregator needs.
type LeadStamp struct {
	OwnerID   string
	CreatedAt time.Time
}

type LeadRepository interface {
	Create(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, id string) (*Lead, error)
	List(ctx context.Context, filter LeadFilter, sort LeadSort, page, pageSize int) ([]*Lead, int, error)
	Update(ctx context.Context, lead *Lead) error
	Delete(ctx context.Context, id string) error
	ListStampsSince(ctx context.Context, filter LeadFilter, since time.Time) ([]LeadStamp, error)
	CountByOwner(ctx context.Context, filter LeadFilter) ([]OwnerLeadCount, error)
	FindDueFollowUps(ctx context.Context, day time.Time) ([]*Lead, error)
}

type pgLeadRepository struct {
	pool *pgxpool.Pool
}

func NewLeadRepository(pool *pgxpool.Pool) LeadRepository {
	return &pgLeadRepository{pool: pool}
}

const leadColumns = `id, owner_id, name, email, phone, company, notes, status, follow_up_date, created_at, updated_at`

// sortColumns is the allowlist of sortable fields; anything else falls
// back to created_at.
var sortColumns = map[string]string{
	"createdAt":    "created_at",
	"name":         "name",
	"company":      "company",
	"status":       "status",
	"followUpDate": "follow_up_date",
}

func buildLeadWhere(f LeadFilter) (string, []interface{}) {
	if f.MatchNone {
		return " WHERE FALSE", nil
	}
	var conds []string
	var args []interface{}
	add := func(cond string, val interface{}) {
		args = append(args, val)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.OwnerID != "" {
		add("owner_id = $%d", f.OwnerID)
	}
	if len(f.OwnerIDs) > 0 {
		add("owner_id = ANY($%d)", f.OwnerIDs)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(name ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d OR company ILIKE $%d)", n, n, n, n))
	}
	if f.DateFrom != nil {
		add("created_at >= $%d", *f.DateFrom)
	}
	if f.DateTo != nil {
		add("created_at <= $%d", *f.DateTo)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *pgLeadRepository) Create(ctx context.Context, lead *Lead) error {
	query := `
		INSERT INTO leads (owner_id, name, email, phone, company, notes, status, follow_up_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	if lead.Status == "" {
		lead.Status = "new"
	}
	return r.pool.QueryRow(ctx, query,
		lead.OwnerID, lead.Name, lead.Email, lead.Phone, lead.Company,
		lead.Notes, lead.Status, lead.FollowUpDate,
	).Scan(&lead.ID, &lead.CreatedAt, &lead.UpdatedAt)
}

func (r *pgLeadRepository) FindByID(ctx context.Context, id string) (*Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`
	lead := &Lead{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&lead.ID, &lead.OwnerID, &lead.Name, &lead.Email, &lead.Phone,
		&lead.Company, &lead.Notes, &lead.Status, &lead.FollowUpDate,
		&lead.CreatedAt, &lead.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return lead, nil
}

func (r *pgLeadRepository) List(ctx context.Context, filter LeadFilter, sort LeadSort, page, pageSize int) ([]*Lead, int, error) {
	where, args := buildLeadWhere(filter)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM leads`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	column, ok := sortColumns[sort.Field]
	if !ok {
		column = "created_at"
	}
	order := "DESC"
	if strings.EqualFold(sort.Order, "asc") {
		order = "ASC"
	}

	query := fmt.Sprintf(
		`SELECT %s FROM leads%s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		leadColumns, where, column, order, len(args)+1, len(args)+2,
	)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	leads, err := collectLeads(rows)
	if err != nil {
		return nil, 0, err
	}
	return leads, total, nil
}

func collectLeads(rows pgx.Rows) ([]*Lead, error) {
	var leads []*Lead
	for rows.Next() {
		lead := &Lead{}
		if err := rows.Scan(
			&lead.ID, &lead.OwnerID, &lead.Name, &lead.Email, &lead.Phone,
			&lead.Company, &lead.Notes, &lead.Status, &lead.FollowUpDate,
			&lead.CreatedAt, &lead.UpdatedAt,
		); err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

func (r *pgLeadRepository) Update(ctx context.Context, lead *Lead) error {
	// owner_id is deliberately absent: ownership is fixed at creation.
	query := `
		UPDATE leads
		SET name = $2, email = $3, phone = $4, company = $5, notes = $6,
		    status = $7, follow_up_date = $8, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query,
		lead.ID, lead.Name, lead.Email, lead.Phone, lead.Company,
		lead.Notes, lead.Status, lead.FollowUpDate,
	)
	return err
}

func (r *pgLeadRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	return err
}

func (r *pgLeadRepository) ListStampsSince(ctx context.Context, filter LeadFilter, since time.Time) ([]LeadStamp, error) {
	filter.DateFrom = &since
	where, args := buildLeadWhere(filter)
	query := `SELECT owner_id, created_at FROM leads` + where
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stamps []LeadStamp
	for rows.Next() {
		var s LeadStamp
		if err := rows.Scan(&s.OwnerID, &s.CreatedAt); err != nil {
			return nil, err
		}
		stamps = append(stamps, s)
	}
	return stamps, rows.Err()
}

func (r *pgLeadRepository) CountByOwner(ctx context.Context, filter LeadFilter) ([]OwnerLeadCount, error) {
	// Only the visibility scope applies here; the leaderboard never
	// carries search or date narrowing.
	var where string
	var args []interface{}
	switch {
	case filter.MatchNone:
		where = " WHERE FALSE"
	case filter.OwnerID != "":
		where = " WHERE l.owner_id = $1"
		args = append(args, filter.OwnerID)
	case len(filter.OwnerIDs) > 0:
		where = " WHERE l.owner_id = ANY($1)"
		args = append(args, filter.OwnerIDs)
	}

	// Ordered by count only; ties stay in whatever order the planner
	// produces them.
	query := `
		SELECT l.owner_id, u.name, u.email, COUNT(*) AS lead_count
		FROM leads l
		JOIN users u ON u.id = l.owner_id` + where + `
		GROUP BY l.owner_id, u.name, u.email
		ORDER BY lead_count DESC
	`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []OwnerLeadCount
	for rows.Next() {
		var c OwnerLeadCount
		if err := rows.Scan(&c.OwnerID, &c.Name, &c.Email, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (r *pgLeadRepository) FindDueFollowUps(ctx context.Context, day time.Time) ([]*Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE follow_up_date = $1`
	rows, err := r.pool.Query(ctx, query, day.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectLeads(rows)
}
