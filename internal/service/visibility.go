package service

import (
	"github.com/zenithcrm/crm-backend/internal/repository"
	"github.com/zenithcrm/crm-backend/internal/types"
)

// ============================================
// Visibility Filter Builder
// ============================================
//
// Every read path derives its row scope here; aggregation code never
// re-derives role rules. Mutations additionally go through the guard
// (guard.go) — visibility alone never authorizes a write.

// Lead view scopes
const (
	ScopeAll  = "all"
	ScopeSelf = "self"
)

// AssignedRecord viewpoints
const (
	ViewpointAssignee = "assignee"
	ViewpointHistory  = "history"
)

// checkActor rejects missing identities, inactive accounts and roles
// the role model does not know. Fails closed.
func checkActor(actor *repository.User) error {
	if actor == nil || actor.ID == "" {
		return ErrUnauthorized
	}
	if actor.Status != types.StatusActive {
		return ErrUnauthorized
	}
	if !types.IsValidRole(actor.Role) {
		return ErrUnauthorized
	}
	return nil
}

// BuildLeadFilter returns the row scope an actor gets over the leads
// collection for the requested view.
//
// SUPERADMIN sees everything; ADMIN's "all" view is pinned to its
// assigned-user allowlist and an empty allowlist matches nothing rather
// than falling back to all; USER is always pinned to its own rows.
func BuildLeadFilter(actor *repository.User, scope string) (repository.LeadFilter, error) {
	if err := checkActor(actor); err != nil {
		return repository.LeadFilter{}, err
	}

	switch actor.Role {
	case types.RoleSuperAdmin:
		if scope == ScopeSelf {
			return repository.LeadFilter{OwnerID: actor.ID}, nil
		}
		return repository.LeadFilter{}, nil

	case types.RoleAdmin:
		if scope == ScopeSelf {
			return repository.LeadFilter{OwnerID: actor.ID}, nil
		}
		if len(actor.AssignedUserIDs) == 0 {
			return repository.LeadFilter{MatchNone: true}, nil
		}
		return repository.LeadFilter{OwnerIDs: actor.AssignedUserIDs}, nil

	case types.RoleUser:
		return repository.LeadFilter{OwnerID: actor.ID}, nil
	}

	return repository.LeadFilter{}, ErrUnauthorized
}

// BuildRecordFilter returns the row scope an actor gets over assigned
// records for the requested viewpoint.
//
// The assignee viewpoint belongs to USER accounts and is always pinned
// to assignee = actor. The history viewpoint belongs to ADMIN and
// SUPERADMIN; admins see the organization-wide assignment history (the
// allowlist does not apply here), narrowed to their own created
// assignments when personalOnly is set.
func BuildRecordFilter(actor *repository.User, viewpoint string, personalOnly bool) (repository.AssignedRecordFilter, error) {
	if err := checkActor(actor); err != nil {
		return repository.AssignedRecordFilter{}, err
	}

	switch viewpoint {
	case ViewpointAssignee:
		switch actor.Role {
		case types.RoleUser:
			return repository.AssignedRecordFilter{AssigneeID: actor.ID}, nil
		case types.RoleSuperAdmin:
			return repository.AssignedRecordFilter{AssigneeID: actor.ID}, nil
		}
		return repository.AssignedRecordFilter{}, ErrForbidden

	case ViewpointHistory:
		switch actor.Role {
		case types.RoleSuperAdmin:
			if personalOnly {
				return repository.AssignedRecordFilter{AssignerID: actor.ID}, nil
			}
			return repository.AssignedRecordFilter{}, nil
		case types.RoleAdmin:
			if personalOnly {
				return repository.AssignedRecordFilter{AssignerID: actor.ID}, nil
			}
			return repository.AssignedRecordFilter{}, nil
		}
		return repository.AssignedRecordFilter{}, ErrForbidden
	}

	return repository.AssignedRecordFilter{}, ErrInvalidInput
}

// CanViewLead reports whether a single lead falls inside the actor's
// visibility scope.
func CanViewLead(actor *repository.User, lead *repository.Lead) bool {
	if checkActor(actor) != nil || lead == nil {
		return false
	}
	switch actor.Role {
	case types.RoleSuperAdmin:
		return true
	case types.RoleAdmin:
		if lead.OwnerID == actor.ID {
			return true
		}
		for _, id := range actor.AssignedUserIDs {
			if id == lead.OwnerID {
				return true
			}
		}
		return false
	case types.RoleUser:
		return lead.OwnerID == actor.ID
	}
	return false
}
