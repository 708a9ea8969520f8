package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/zenithcrm/crm-backend/internal/config"
	"github.com/zenithcrm/crm-backend/internal/db"
	"github.com/zenithcrm/crm-backend/internal/ratelimit"
	"github.com/zenithcrm/crm-backend/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("resource not found")
	ErrConflict           = errors.New("resource already exists")
	ErrRateLimited        = errors.New("rate limit exceeded")
	ErrInvalidInput       = errors.New("invalid input")
)

// ValidationError carries per-field detail so clients can render inline
// errors.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	sort.Strings(parts)
	return "validation failed: " + strings.Join(parts, "; ")
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// dayOf truncates a timestamp to local midnight.
func dayOf(t time.Time) time.Time {
	t = t.Local()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ============================================
// Services Container
// ============================================

type Services struct {
	Auth       AuthService
	User       UserService
	Lead       LeadService
	Assignment AssignmentService
	Analytics  AnalyticsService
}

// ServiceDeps contains all dependencies needed to create services
type ServiceDeps struct {
	Config  *config.Config
	Repos   *repository.Repositories
	Limiter ratelimit.Limiter
	Cache   *db.RedisDB
}

func NewServices(deps *ServiceDeps) *Services {
	return &Services{
		Auth:       NewAuthService(deps.Config, deps.Repos.UserRepo),
		User:       NewUserService(deps.Repos.UserRepo),
		Lead:       NewLeadService(deps.Repos.LeadRepo, deps.Repos.UserRepo, deps.Limiter),
		Assignment: NewAssignmentService(deps.Repos.AssignedRecordRepo, deps.Repos.UserRepo),
		Analytics:  NewAnalyticsService(deps.Repos.LeadRepo, deps.Cache),
	}
}
