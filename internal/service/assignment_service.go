package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/zenithcrm/crm-backend/internal/repository"
	"github.com/zenithcrm/crm-backend/internal/types"
)

// ============================================
// Assignment Service
// ============================================
//
// Campaigns have no stored identity. They are rebuilt on every read by
// re-keying the flat assigned_records rows on (assigner, assignee,
// calendar day). Two assignment batches by the same pair on the same
// day therefore merge into one group; consumers depend on exactly that
// granularity, so it stays.

// CampaignGroup is a read-time aggregate of assigned records. Its ID is
// the synthesized group key, not a stored identifier.
type CampaignGroup struct {
	Key           string
	AssignerID    string
	AssignerName  string
	AssignerEmail string
	AssigneeID    string
	AssigneeName  string
	AssigneeEmail string
	RecordCount   int
	CreatedAt     time.Time
	MemberIDs     []string
	// Records is populated for the assignment-history view only.
	Records []*repository.AssignedRecord
}

type CampaignPage struct {
	Groups     []*CampaignGroup
	Page       int
	PageSize   int
	Total      int
	TotalPages int
}

type AssignRow struct {
	Name   string
	Phone  string
	Email  string
	Status string
}

type AssignmentService interface {
	// BulkAssign hands a batch of calling data to a USER account.
	// Rows lacking both a name and a phone number are silently dropped.
	// Returns the number of rows inserted.
	BulkAssign(ctx context.Context, actor *repository.User, assigneeID string, rows []AssignRow) (int, error)
	UpdateStatus(ctx context.Context, actor *repository.User, recordID, status string) (*repository.AssignedRecord, error)
	// MyCampaigns groups the actor's received records by (assigner, day).
	MyCampaigns(ctx context.Context, actor *repository.User, page, pageSize int) (*CampaignPage, error)
	// AssignmentHistory groups records by (assigner, assignee, day) for
	// admins and superadmins.
	AssignmentHistory(ctx context.Context, actor *repository.User, page, pageSize int, personalOnly bool) (*CampaignPage, error)
}

type assignmentService struct {
	recordRepo repository.AssignedRecordRepository
	userRepo   repository.UserRepository
}

func NewAssignmentService(recordRepo repository.AssignedRecordRepository, userRepo repository.UserRepository) AssignmentService {
	return &assignmentService{recordRepo: recordRepo, userRepo: userRepo}
}

func (s *assignmentService) BulkAssign(ctx context.Context, actor *repository.User, assigneeID string, rows []AssignRow) (int, error) {
	if err := checkActor(actor); err != nil {
		return 0, err
	}
	if actor.Role != types.RoleAdmin && actor.Role != types.RoleSuperAdmin {
		return 0, ErrForbidden
	}
	if len(rows) == 0 {
		return 0, newValidationError("rows", "at least one row is required")
	}

	assignee, err := s.userRepo.FindByID(ctx, assigneeID)
	if err != nil {
		return 0, err
	}
	if assignee == nil {
		return 0, ErrNotFound
	}
	if assignee.Role != types.RoleUser {
		return 0, newValidationError("assigneeId", "records can only be assigned to USER accounts")
	}

	records := make([]*repository.AssignedRecord, 0, len(rows))
	for _, row := range rows {
		name := strings.TrimSpace(row.Name)
		phone := strings.TrimSpace(row.Phone)
		if name == "" && phone == "" {
			continue
		}
		records = append(records, &repository.AssignedRecord{
			AssignerID: actor.ID,
			AssigneeID: assignee.ID,
			Name:       name,
			Phone:      phone,
			Email:      strings.TrimSpace(row.Email),
			Status:     row.Status,
		})
	}
	if len(records) == 0 {
		return 0, nil
	}

	return s.recordRepo.BulkCreate(ctx, records)
}

func (s *assignmentService) UpdateStatus(ctx context.Context, actor *repository.User, recordID, status string) (*repository.AssignedRecord, error) {
	if err := checkActor(actor); err != nil {
		return nil, err
	}
	rec, err := s.recordRepo.FindByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	if err := CanUpdateRecordStatus(actor, rec); err != nil {
		return nil, err
	}

	// Free text; an empty status clears the label.
	if err := s.recordRepo.UpdateStatus(ctx, recordID, status); err != nil {
		return nil, err
	}
	rec.Status = status
	return rec, nil
}

func (s *assignmentService) MyCampaigns(ctx context.Context, actor *repository.User, page, pageSize int) (*CampaignPage, error) {
	filter, err := BuildRecordFilter(actor, ViewpointAssignee, false)
	if err != nil {
		return nil, err
	}

	rows, err := s.recordRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	groups := groupRecords(rows, false)
	result := paginateGroups(groups, page, pageSize)
	if err := s.resolveIdentities(ctx, result.Groups); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *assignmentService) AssignmentHistory(ctx context.Context, actor *repository.User, page, pageSize int, personalOnly bool) (*CampaignPage, error) {
	filter, err := BuildRecordFilter(actor, ViewpointHistory, personalOnly)
	if err != nil {
		return nil, err
	}

	rows, err := s.recordRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	groups := groupRecords(rows, true)
	result := paginateGroups(groups, page, pageSize)
	if err := s.resolveIdentities(ctx, result.Groups); err != nil {
		return nil, err
	}

	// Member rows are re-fetched bounded to the group's calendar day
	// with the same pair filter, so a different counterpart sharing the
	// day boundary can never leak in.
	for _, g := range result.Groups {
		dayStart := dayOf(g.CreatedAt)
		dayEnd := dayStart.AddDate(0, 0, 1)
		members, err := s.recordRepo.FindAll(ctx, repository.AssignedRecordFilter{
			AssignerID: g.AssignerID,
			AssigneeID: g.AssigneeID,
			From:       &dayStart,
			To:         &dayEnd,
		})
		if err != nil {
			return nil, err
		}
		g.Records = members
	}
	return result, nil
}

// groupRecords folds a creation-time-descending row set into campaign
// groups in a single pass. The first row seen per key (the newest) sets
// the group's representative timestamp.
func groupRecords(rows []*repository.AssignedRecord, byPair bool) []*CampaignGroup {
	groups := make(map[string]*CampaignGroup)
	var order []string

	for _, rec := range rows {
		day := rec.CreatedAt.Local().Format("2006-01-02")
		key := rec.AssignerID + "-" + day
		if byPair {
			key = rec.AssignerID + "-" + rec.AssigneeID + "-" + day
		}

		g, ok := groups[key]
		if !ok {
			g = &CampaignGroup{
				Key:        key,
				AssignerID: rec.AssignerID,
				AssigneeID: rec.AssigneeID,
				CreatedAt:  rec.CreatedAt,
			}
			groups[key] = g
			order = append(order, key)
		}
		g.RecordCount++
		g.MemberIDs = append(g.MemberIDs, rec.ID)
	}

	out := make([]*CampaignGroup, 0, len(order))
	for _, key := range order {
		out = append(out, groups[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// paginateGroups slices the group list, not the underlying rows; totals
// count groups.
func paginateGroups(groups []*CampaignGroup, page, pageSize int) *CampaignPage {
	page, pageSize = normalizePage(page, pageSize)
	total := len(groups)
	totalPages := (total + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return &CampaignPage{
		Groups:     groups[start:end],
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}

// resolveIdentities joins display names onto the current page of
// groups. A missing account becomes "Unknown" rather than an error.
func (s *assignmentService) resolveIdentities(ctx context.Context, groups []*CampaignGroup) error {
	if len(groups) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	var ids []string
	for _, g := range groups {
		for _, id := range []string{g.AssignerID, g.AssigneeID} {
			if id != "" && !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	byID := make(map[string]*repository.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	for _, g := range groups {
		if u, ok := byID[g.AssignerID]; ok {
			g.AssignerName, g.AssignerEmail = u.Name, u.Email
		} else {
			g.AssignerName = "Unknown"
		}
		if u, ok := byID[g.AssigneeID]; ok {
			g.AssigneeName, g.AssigneeEmail = u.Name, u.Email
		} else {
			g.AssigneeName = "Unknown"
		}
	}
	return nil
}
