package service

import (
	"context"
	"log"
	"math"
	"time"

	"github.com/zenithcrm/crm-backend/internal/db"
	"github.com/zenithcrm/crm-backend/internal/repository"
)

// ============================================
// Analytics Service
// ============================================

// TimeBucket is one period of the dashboard time series. Submitters is
// the number of distinct owners who created leads in the period, within
// the caller's visibility scope.
type TimeBucket struct {
	Label      string `json:"label"`
	Leads      int    `json:"leads"`
	Submitters int    `json:"submitters"`
}

type TopSubmitter struct {
	OwnerID    string `json:"ownerId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	LeadsCount int    `json:"leadsCount"`
	Percentage int    `json:"percentage"`
}

type AnalyticsService interface {
	// DayWise covers the last 7 calendar days including today,
	// oldest first.
	DayWise(ctx context.Context, actor *repository.User, userOnly bool) ([]TimeBucket, error)
	// MonthWise covers the last 12 calendar months including the
	// current partial month, oldest first.
	MonthWise(ctx context.Context, actor *repository.User, userOnly bool) ([]TimeBucket, error)
	TopSubmitters(ctx context.Context, actor *repository.User, userOnly bool) ([]TopSubmitter, error)
}

type analyticsService struct {
	leadRepo repository.LeadRepository
	cache    *db.RedisDB

	now func() time.Time
}

func NewAnalyticsService(leadRepo repository.LeadRepository, cache *db.RedisDB) AnalyticsService {
	return &analyticsService{leadRepo: leadRepo, cache: cache, now: time.Now}
}

func scopeFor(userOnly bool) string {
	if userOnly {
		return ScopeSelf
	}
	return ScopeAll
}

type bucket struct {
	label  string
	count  int
	owners map[string]struct{}
}

func (s *analyticsService) DayWise(ctx context.Context, actor *repository.User, userOnly bool) ([]TimeBucket, error) {
	filter, err := BuildLeadFilter(actor, scopeFor(userOnly))
	if err != nil {
		return nil, err
	}

	now := s.now()
	start := dayOf(now.AddDate(0, 0, -6))

	index := make(map[string]*bucket, 7)
	order := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i)
		key := day.Format("2006-01-02")
		index[key] = &bucket{label: day.Format("Mon"), owners: make(map[string]struct{})}
		order = append(order, key)
	}

	stamps, err := s.leadRepo.ListStampsSince(ctx, filter, start)
	if err != nil {
		return nil, err
	}
	for _, stamp := range stamps {
		key := stamp.CreatedAt.Local().Format("2006-01-02")
		if b, ok := index[key]; ok {
			b.count++
			b.owners[stamp.OwnerID] = struct{}{}
		}
	}

	return materializeBuckets(index, order), nil
}

func (s *analyticsService) MonthWise(ctx context.Context, actor *repository.User, userOnly bool) ([]TimeBucket, error) {
	cacheKey := "analytics:monthwise:" + actor.ID + ":" + scopeFor(userOnly)
	if s.cache != nil {
		var cached []TimeBucket
		if err := s.cache.GetCache(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	filter, err := BuildLeadFilter(actor, scopeFor(userOnly))
	if err != nil {
		return nil, err
	}

	now := s.now().Local()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	start := firstOfMonth.AddDate(0, -11, 0)

	index := make(map[string]*bucket, 12)
	order := make([]string, 0, 12)
	for i := 0; i < 12; i++ {
		month := start.AddDate(0, i, 0)
		key := month.Format("2006-01")
		index[key] = &bucket{label: month.Format("Jan"), owners: make(map[string]struct{})}
		order = append(order, key)
	}

	stamps, err := s.leadRepo.ListStampsSince(ctx, filter, start)
	if err != nil {
		return nil, err
	}
	for _, stamp := range stamps {
		key := stamp.CreatedAt.Local().Format("2006-01")
		if b, ok := index[key]; ok {
			b.count++
			b.owners[stamp.OwnerID] = struct{}{}
		}
	}

	result := materializeBuckets(index, order)
	if s.cache != nil {
		if err := s.cache.SetCache(ctx, cacheKey, result, time.Minute); err != nil {
			log.Printf("[Analytics] cache write failed: %v", err)
		}
	}
	return result, nil
}

func (s *analyticsService) TopSubmitters(ctx context.Context, actor *repository.User, userOnly bool) ([]TopSubmitter, error) {
	filter, err := BuildLeadFilter(actor, scopeFor(userOnly))
	if err != nil {
		return nil, err
	}

	counts, err := s.leadRepo.CountByOwner(ctx, filter)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, c := range counts {
		total += c.Count
	}
	if total == 0 {
		return []TopSubmitter{}, nil
	}

	// Order is preserved from the store: count descending, ties in
	// natural order.
	result := make([]TopSubmitter, 0, len(counts))
	for _, c := range counts {
		result = append(result, TopSubmitter{
			OwnerID:    c.OwnerID,
			Name:       c.Name,
			Email:      c.Email,
			LeadsCount: c.Count,
			Percentage: int(math.Round(float64(c.Count) / float64(total) * 100)),
		})
	}
	return result, nil
}

func materializeBuckets(index map[string]*bucket, order []string) []TimeBucket {
	result := make([]TimeBucket, 0, len(order))
	for _, key := range order {
		b := index[key]
		result = append(result, TimeBucket{
			Label:      b.label,
			Leads:      b.count,
			Submitters: len(b.owners),
		})
	}
	return result
}
