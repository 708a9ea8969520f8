package service

import (
	"context"
	"time"

	"github.com/zenithcrm/crm-backend/internal/repository"
	"github.com/zenithcrm/crm-backend/internal/types"
)

// Fakes embed the repository interfaces so each test only implements
// the calls it exercises; anything unexpected panics with a nil method.

type fakeUserRepo struct {
	repository.UserRepository
	users map[string]*repository.User
}

func newFakeUserRepo(users ...*repository.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*repository.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*repository.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) FindByIDs(_ context.Context, ids []string) ([]*repository.User, error) {
	var out []*repository.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeLeadRepo struct {
	repository.LeadRepository

	leads map[string]*repository.Lead

	stamps      []repository.LeadStamp
	stampFilter repository.LeadFilter

	counts      []repository.OwnerLeadCount
	countFilter repository.LeadFilter

	listFilter repository.LeadFilter
	listItems  []*repository.Lead
	listTotal  int

	created []*repository.Lead
	deleted []string
}

func newFakeLeadRepo() *fakeLeadRepo {
	return &fakeLeadRepo{leads: make(map[string]*repository.Lead)}
}

func (r *fakeLeadRepo) FindByID(_ context.Context, id string) (*repository.Lead, error) {
	return r.leads[id], nil
}

func (r *fakeLeadRepo) Create(_ context.Context, lead *repository.Lead) error {
	lead.ID = "lead-" + lead.Name
	r.created = append(r.created, lead)
	r.leads[lead.ID] = lead
	return nil
}

func (r *fakeLeadRepo) Update(_ context.Context, lead *repository.Lead) error {
	r.leads[lead.ID] = lead
	return nil
}

func (r *fakeLeadRepo) Delete(_ context.Context, id string) error {
	r.deleted = append(r.deleted, id)
	delete(r.leads, id)
	return nil
}

func (r *fakeLeadRepo) List(_ context.Context, filter repository.LeadFilter, _ repository.LeadSort, _, _ int) ([]*repository.Lead, int, error) {
	r.listFilter = filter
	return r.listItems, r.listTotal, nil
}

func (r *fakeLeadRepo) ListStampsSince(_ context.Context, filter repository.LeadFilter, _ time.Time) ([]repository.LeadStamp, error) {
	r.stampFilter = filter
	return r.stamps, nil
}

func (r *fakeLeadRepo) CountByOwner(_ context.Context, filter repository.LeadFilter) ([]repository.OwnerLeadCount, error) {
	r.countFilter = filter
	return r.counts, nil
}

type fakeRecordRepo struct {
	repository.AssignedRecordRepository

	records []*repository.AssignedRecord

	bulkCreated [][]*repository.AssignedRecord

	statusUpdates map[string]string
}

func newFakeRecordRepo(records ...*repository.AssignedRecord) *fakeRecordRepo {
	return &fakeRecordRepo{records: records, statusUpdates: make(map[string]string)}
}

func (r *fakeRecordRepo) BulkCreate(_ context.Context, records []*repository.AssignedRecord) (int, error) {
	r.bulkCreated = append(r.bulkCreated, records)
	return len(records), nil
}

func (r *fakeRecordRepo) FindByID(_ context.Context, id string) (*repository.AssignedRecord, error) {
	for _, rec := range r.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, nil
}

func (r *fakeRecordRepo) UpdateStatus(_ context.Context, id, status string) error {
	r.statusUpdates[id] = status
	return nil
}

// FindAll applies the filter the way the SQL layer would: matching rows
// ordered by creation time descending.
func (r *fakeRecordRepo) FindAll(_ context.Context, filter repository.AssignedRecordFilter) ([]*repository.AssignedRecord, error) {
	var out []*repository.AssignedRecord
	for _, rec := range r.records {
		if filter.AssignerID != "" && rec.AssignerID != filter.AssignerID {
			continue
		}
		if filter.AssigneeID != "" && rec.AssigneeID != filter.AssigneeID {
			continue
		}
		if filter.From != nil && rec.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !rec.CreatedAt.Before(*filter.To) {
			continue
		}
		out = append(out, rec)
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].CreatedAt.After(out[i].CreatedAt) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

type fakeLimiter struct {
	limit int
	calls []string
	deny  bool
}

func (l *fakeLimiter) Allow(_ context.Context, actorID string) error {
	l.calls = append(l.calls, actorID)
	if l.deny {
		return ErrRateLimited
	}
	return nil
}

func (l *fakeLimiter) Limit() int { return l.limit }

// Actor fixtures shared across the service tests.

func superadmin() *repository.User {
	return &repository.User{ID: "sa-1", Name: "Root", Role: types.RoleSuperAdmin, Status: types.StatusActive}
}

func admin(assigned ...string) *repository.User {
	return &repository.User{ID: "adm-1", Name: "Admin", Role: types.RoleAdmin, Status: types.StatusActive, AssignedUserIDs: assigned}
}

func user(id string) *repository.User {
	return &repository.User{ID: id, Name: "User " + id, Role: types.RoleUser, Status: types.StatusActive}
}
