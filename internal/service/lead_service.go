package service

import (
	"context"
	"strings"
	"time"

	"github.com/zenithcrm/crm-backend/internal/ratelimit"
	"github.com/zenithcrm/crm-backend/internal/repository"
	"github.com/zenithcrm/crm-backend/internal/types"
)

// ============================================
// Lead Service
// ============================================

type LeadListQuery struct {
	Page      int
	PageSize  int
	Search    string
	SortField string
	SortOrder string
	// Scope is "all" (role-scoped everyone view) or "self".
	Scope       string
	OwnerFilter string
	DateFrom    *time.Time
	DateTo      *time.Time
	Status      string
}

type LeadPage struct {
	Items      []*repository.Lead
	Page       int
	PageSize   int
	Total      int
	TotalPages int
	HasNext    bool
	HasPrev    bool
}

type LeadInput struct {
	Name         string
	Email        string
	Phone        string
	Company      string
	Notes        string
	Status       string
	FollowUpDate *time.Time
}

type LeadService interface {
	List(ctx context.Context, actor *repository.User, q LeadListQuery) (*LeadPage, error)
	Get(ctx context.Context, actor *repository.User, id string) (*repository.Lead, error)
	Create(ctx context.Context, actor *repository.User, in LeadInput) (*repository.Lead, error)
	Update(ctx context.Context, actor *repository.User, id string, in LeadInput) (*repository.Lead, error)
	Delete(ctx context.Context, actor *repository.User, id string) error
}

type leadService struct {
	leadRepo repository.LeadRepository
	userRepo repository.UserRepository
	limiter  ratelimit.Limiter
}

func NewLeadService(leadRepo repository.LeadRepository, userRepo repository.UserRepository, limiter ratelimit.Limiter) LeadService {
	return &leadService{leadRepo: leadRepo, userRepo: userRepo, limiter: limiter}
}

func (s *leadService) List(ctx context.Context, actor *repository.User, q LeadListQuery) (*LeadPage, error) {
	filter, err := BuildLeadFilter(actor, q.Scope)
	if err != nil {
		return nil, err
	}

	// An explicit owner filter may only narrow the visibility scope,
	// never widen it.
	if q.OwnerFilter != "" && !filter.MatchNone {
		switch {
		case filter.OwnerID != "" && filter.OwnerID != q.OwnerFilter:
			filter.MatchNone = true
		case len(filter.OwnerIDs) > 0 && !containsString(filter.OwnerIDs, q.OwnerFilter):
			filter.MatchNone = true
		default:
			filter.OwnerID = q.OwnerFilter
			filter.OwnerIDs = nil
		}
	}

	filter.Search = strings.TrimSpace(q.Search)
	filter.Status = q.Status
	filter.DateFrom = q.DateFrom
	filter.DateTo = q.DateTo

	page, pageSize := normalizePage(q.Page, q.PageSize)
	items, total, err := s.leadRepo.List(ctx, filter, repository.LeadSort{Field: q.SortField, Order: q.SortOrder}, page, pageSize)
	if err != nil {
		return nil, err
	}

	totalPages := (total + pageSize - 1) / pageSize
	return &LeadPage{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}, nil
}

func (s *leadService) Get(ctx context.Context, actor *repository.User, id string) (*repository.Lead, error) {
	if err := checkActor(actor); err != nil {
		return nil, err
	}
	lead, err := s.leadRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, ErrNotFound
	}
	if !CanViewLead(actor, lead) {
		return nil, ErrForbidden
	}
	return lead, nil
}

func (s *leadService) Create(ctx context.Context, actor *repository.User, in LeadInput) (*repository.Lead, error) {
	if err := checkActor(actor); err != nil {
		return nil, err
	}
	if err := validateLeadInput(in); err != nil {
		return nil, err
	}
	if err := s.limiter.Allow(ctx, actor.ID); err != nil {
		return nil, ErrRateLimited
	}

	lead := &repository.Lead{
		OwnerID:      actor.ID,
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		Company:      in.Company,
		Notes:        in.Notes,
		Status:       in.Status,
		FollowUpDate: in.FollowUpDate,
	}
	if err := s.leadRepo.Create(ctx, lead); err != nil {
		return nil, err
	}
	return lead, nil
}

func (s *leadService) Update(ctx context.Context, actor *repository.User, id string, in LeadInput) (*repository.Lead, error) {
	if err := checkActor(actor); err != nil {
		return nil, err
	}
	lead, err := s.leadRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, ErrNotFound
	}
	if err := CanMutateLead(actor, lead); err != nil {
		return nil, err
	}
	if err := validateLeadInput(in); err != nil {
		return nil, err
	}

	lead.Name = in.Name
	lead.Email = in.Email
	lead.Phone = in.Phone
	lead.Company = in.Company
	lead.Notes = in.Notes
	lead.Status = in.Status
	lead.FollowUpDate = in.FollowUpDate
	if err := s.leadRepo.Update(ctx, lead); err != nil {
		return nil, err
	}
	return lead, nil
}

func (s *leadService) Delete(ctx context.Context, actor *repository.User, id string) error {
	if err := checkActor(actor); err != nil {
		return err
	}
	lead, err := s.leadRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if lead == nil {
		return ErrNotFound
	}
	if err := CanMutateLead(actor, lead); err != nil {
		return err
	}
	return s.leadRepo.Delete(ctx, id)
}

func validateLeadInput(in LeadInput) error {
	fields := map[string]string{}
	if strings.TrimSpace(in.Name) == "" {
		fields["name"] = "name is required"
	}
	if in.Status != "" && !types.IsValidLeadStatus(in.Status) {
		fields["status"] = "unknown status"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
