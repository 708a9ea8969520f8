package service

import (
	"github.com/zenithcrm/crm-backend/internal/repository"
	"github.com/zenithcrm/crm-backend/internal/types"
)

// ============================================
// Mutation Guard
// ============================================
//
// Callers fetch the target first (NotFound before anything else), run
// the guard on the fetched entity, then mutate. Passing visibility is
// never enough to authorize a write.

// CanMutateLead authorizes edit and delete of a lead: the owner or a
// superadmin. Unknown roles fail closed.
func CanMutateLead(actor *repository.User, lead *repository.Lead) error {
	if actor == nil || lead == nil {
		return ErrForbidden
	}
	switch actor.Role {
	case types.RoleSuperAdmin:
		return nil
	case types.RoleAdmin, types.RoleUser:
		if actor.ID == lead.OwnerID {
			return nil
		}
	}
	return ErrForbidden
}

// CanUpdateRecordStatus authorizes a status change on an assigned
// record: the assignee, or a superadmin as override. Admins manage
// assignment creation, not status.
func CanUpdateRecordStatus(actor *repository.User, rec *repository.AssignedRecord) error {
	if actor == nil || rec == nil {
		return ErrForbidden
	}
	switch actor.Role {
	case types.RoleSuperAdmin:
		return nil
	case types.RoleUser:
		if actor.ID == rec.AssigneeID {
			return nil
		}
	}
	return ErrForbidden
}
