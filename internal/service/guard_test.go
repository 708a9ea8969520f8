package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zenithcrm/crm-backend/internal/repository"
)

func TestCanMutateLead(t *testing.T) {
	lead := &repository.Lead{ID: "l-1", OwnerID: "u-1"}

	assert.NoError(t, CanMutateLead(superadmin(), lead))
	assert.NoError(t, CanMutateLead(user("u-1"), lead))

	// Visibility is not mutation authority: an admin allowlisted to the
	// owner can see the lead but not edit it.
	assert.ErrorIs(t, CanMutateLead(admin("u-1"), lead), ErrForbidden)
	assert.ErrorIs(t, CanMutateLead(user("u-2"), lead), ErrForbidden)

	own := &repository.Lead{ID: "l-2", OwnerID: "adm-1"}
	assert.NoError(t, CanMutateLead(admin(), own))

	assert.ErrorIs(t, CanMutateLead(nil, lead), ErrForbidden)
	assert.ErrorIs(t, CanMutateLead(user("u-1"), nil), ErrForbidden)

	weird := user("u-1")
	weird.Role = "AUDITOR"
	assert.ErrorIs(t, CanMutateLead(weird, lead), ErrForbidden, "unknown roles fail closed")
}

func TestCanUpdateRecordStatus(t *testing.T) {
	rec := &repository.AssignedRecord{ID: "r-1", AssignerID: "adm-1", AssigneeID: "u-1"}

	assert.NoError(t, CanUpdateRecordStatus(user("u-1"), rec))
	assert.NoError(t, CanUpdateRecordStatus(superadmin(), rec))

	// Not even the assigner: admins hand records out, assignees work them.
	assert.ErrorIs(t, CanUpdateRecordStatus(admin("u-1"), rec), ErrForbidden)
	assert.ErrorIs(t, CanUpdateRecordStatus(user("u-2"), rec), ErrForbidden)

	assert.ErrorIs(t, CanUpdateRecordStatus(nil, rec), ErrForbidden)
	assert.ErrorIs(t, CanUpdateRecordStatus(user("u-1"), nil), ErrForbidden)
}
