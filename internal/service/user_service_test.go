package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zenithcrm/crm-backend/internal/repository"
	"github.com/zenithcrm/crm-backend/internal/types"
)

type userAdminRepo struct {
	*fakeUserRepo
	byEmail       map[string]*repository.User
	created       []*repository.User
	allowlists    map[string][]string
	roleUpdates   map[string]string
	statusUpdates map[string]string
	purgedTokens  []string
}

func newUserAdminRepo(users ...*repository.User) *userAdminRepo {
	r := &userAdminRepo{
		fakeUserRepo:  newFakeUserRepo(users...),
		byEmail:       make(map[string]*repository.User),
		allowlists:    make(map[string][]string),
		roleUpdates:   make(map[string]string),
		statusUpdates: make(map[string]string),
	}
	for _, u := range users {
		r.byEmail[u.Email] = u
	}
	return r
}

func (r *userAdminRepo) FindByEmail(_ context.Context, email string) (*repository.User, error) {
	return r.byEmail[email], nil
}

func (r *userAdminRepo) Create(_ context.Context, u *repository.User) error {
	u.ID = "new-" + u.Email
	r.created = append(r.created, u)
	return nil
}

func (r *userAdminRepo) UpdateRole(_ context.Context, id, role string) error {
	r.roleUpdates[id] = role
	return nil
}

func (r *userAdminRepo) UpdateStatus(_ context.Context, id, status string) error {
	r.statusUpdates[id] = status
	return nil
}

func (r *userAdminRepo) UpdateAssignedUsers(_ context.Context, id string, userIDs []string) error {
	r.allowlists[id] = userIDs
	return nil
}

func (r *userAdminRepo) DeleteUserRefreshTokens(_ context.Context, userID string) error {
	r.purgedTokens = append(r.purgedTokens, userID)
	return nil
}

func TestUserCreate_RoleCeilings(t *testing.T) {
	ctx := context.Background()
	repo := newUserAdminRepo()
	svc := NewUserService(repo)

	created, err := svc.Create(ctx, superadmin(), CreateUserInput{Name: "A", Email: "a@x.io", Password: "secret123", Role: types.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, types.RoleAdmin, created.Role)
	assert.Equal(t, types.StatusActive, created.Status)
	assert.NotEqual(t, "secret123", created.Password, "password is stored hashed")

	_, err = svc.Create(ctx, admin(), CreateUserInput{Name: "B", Email: "b@x.io", Password: "secret123", Role: types.RoleUser})
	require.NoError(t, err, "admins may create USER accounts")

	_, err = svc.Create(ctx, admin(), CreateUserInput{Name: "C", Email: "c@x.io", Password: "secret123", Role: types.RoleAdmin})
	assert.ErrorIs(t, err, ErrForbidden, "admins may not mint admins")

	_, err = svc.Create(ctx, user("u-1"), CreateUserInput{Name: "D", Email: "d@x.io", Password: "secret123", Role: types.RoleUser})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUserCreate_EmailConflict(t *testing.T) {
	repo := newUserAdminRepo(&repository.User{ID: "u-1", Email: "taken@x.io"})
	svc := NewUserService(repo)

	_, err := svc.Create(context.Background(), superadmin(), CreateUserInput{Name: "X", Email: "taken@x.io", Password: "secret123", Role: types.RoleUser})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUpdateRoleAndStatus_SuperadminOnly(t *testing.T) {
	ctx := context.Background()
	target := user("u-1")
	repo := newUserAdminRepo(target)
	svc := NewUserService(repo)

	assert.ErrorIs(t, svc.UpdateRole(ctx, admin(), "u-1", types.RoleAdmin), ErrForbidden)
	assert.ErrorIs(t, svc.UpdateStatus(ctx, admin(), "u-1", types.StatusInactive), ErrForbidden)

	require.NoError(t, svc.UpdateRole(ctx, superadmin(), "u-1", types.RoleAdmin))
	assert.Equal(t, types.RoleAdmin, repo.roleUpdates["u-1"])

	assert.ErrorIs(t, svc.UpdateRole(ctx, superadmin(), "ghost", types.RoleAdmin), ErrNotFound)

	var vErr *ValidationError
	assert.ErrorAs(t, svc.UpdateRole(ctx, superadmin(), "u-1", "OVERLORD"), &vErr)
}

func TestUpdateStatus_InactivePurgesSessions(t *testing.T) {
	ctx := context.Background()
	repo := newUserAdminRepo(user("u-1"))
	svc := NewUserService(repo)

	require.NoError(t, svc.UpdateStatus(ctx, superadmin(), "u-1", types.StatusInactive))
	assert.Equal(t, []string{"u-1"}, repo.purgedTokens)

	repo.purgedTokens = nil
	require.NoError(t, svc.UpdateStatus(ctx, superadmin(), "u-1", types.StatusActive))
	assert.Empty(t, repo.purgedTokens, "reactivation does not touch sessions")
}

func TestSetAssignedUsers(t *testing.T) {
	ctx := context.Background()
	target := admin()
	repo := newUserAdminRepo(target, user("u-1"), user("u-2"), superadmin())
	svc := NewUserService(repo)

	require.NoError(t, svc.SetAssignedUsers(ctx, superadmin(), "adm-1", []string{"u-1", "u-2"}))
	assert.Equal(t, []string{"u-1", "u-2"}, repo.allowlists["adm-1"])

	assert.ErrorIs(t, svc.SetAssignedUsers(ctx, admin(), "adm-1", []string{"u-1"}), ErrForbidden)

	var vErr *ValidationError
	assert.ErrorAs(t, svc.SetAssignedUsers(ctx, superadmin(), "u-1", []string{"u-2"}), &vErr, "target must be an admin")
	assert.ErrorAs(t, svc.SetAssignedUsers(ctx, superadmin(), "adm-1", []string{"ghost"}), &vErr)
	assert.ErrorAs(t, svc.SetAssignedUsers(ctx, superadmin(), "adm-1", []string{"sa-1"}), &vErr, "allowlist members must be USER accounts")

	// Clearing the allowlist is allowed.
	require.NoError(t, svc.SetAssignedUsers(ctx, superadmin(), "adm-1", nil))
	assert.Empty(t, repo.allowlists["adm-1"])
}

func TestListVisible(t *testing.T) {
	ctx := context.Background()
	u1, u2 := user("u-1"), user("u-2")
	repo := newUserAdminRepo(u1, u2)
	svc := NewUserService(repo)

	visible, err := svc.ListVisible(ctx, admin("u-1"))
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "u-1", visible[0].ID)

	self := user("u-1")
	visible, err = svc.ListVisible(ctx, self)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Same(t, self, visible[0])
}
