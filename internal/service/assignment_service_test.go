package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zenithcrm/crm-backend/internal/repository"
)

func stamp(day string, hour int) time.Time {
	d, _ := time.ParseInLocation("2006-01-02", day, time.Local)
	return d.Add(time.Duration(hour) * time.Hour)
}

func rec(id, assigner, assignee string, at time.Time) *repository.AssignedRecord {
	return &repository.AssignedRecord{ID: id, AssignerID: assigner, AssigneeID: assignee, Name: "Contact " + id, CreatedAt: at}
}

func TestBulkAssign(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo(user("u-1"), admin())
	records := newFakeRecordRepo()
	svc := NewAssignmentService(records, users)

	rows := []AssignRow{
		{Name: "Grace Obi", Phone: "555-0201"},
		{Name: "  ", Phone: "555-0202"},
		{Name: "", Phone: ""},
		{Phone: "  "},
	}

	n, err := svc.BulkAssign(ctx, admin(), "u-1", rows)
	require.NoError(t, err)
	assert.Equal(t, 2, n, "rows with neither name nor phone are dropped")

	require.Len(t, records.bulkCreated, 1)
	batch := records.bulkCreated[0]
	require.Len(t, batch, 2)
	assert.Equal(t, "adm-1", batch[0].AssignerID)
	assert.Equal(t, "u-1", batch[0].AssigneeID)
	assert.Equal(t, "Grace Obi", batch[0].Name)
	assert.Equal(t, "555-0202", batch[1].Phone)
	assert.Empty(t, batch[1].Name, "whitespace-only name is stored empty")
}

func TestBulkAssign_Rejections(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo(user("u-1"), admin(), superadmin())
	svc := NewAssignmentService(newFakeRecordRepo(), users)

	_, err := svc.BulkAssign(ctx, user("u-1"), "u-1", []AssignRow{{Name: "x"}})
	assert.ErrorIs(t, err, ErrForbidden, "users cannot assign")

	_, err = svc.BulkAssign(ctx, admin(), "u-1", nil)
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)

	_, err = svc.BulkAssign(ctx, admin(), "ghost", []AssignRow{{Name: "x"}})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.BulkAssign(ctx, admin(), "sa-1", []AssignRow{{Name: "x"}})
	assert.ErrorAs(t, err, &vErr, "only USER accounts receive records")
}

func TestBulkAssign_AllRowsDropped(t *testing.T) {
	records := newFakeRecordRepo()
	svc := NewAssignmentService(records, newFakeUserRepo(user("u-1")))

	n, err := svc.BulkAssign(context.Background(), admin(), "u-1", []AssignRow{{Email: "only@example.com"}})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, records.bulkCreated, "nothing reaches the store")
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	records := newFakeRecordRepo(rec("r-1", "adm-1", "u-1", stamp("2026-03-09", 10)))
	svc := NewAssignmentService(records, newFakeUserRepo())

	updated, err := svc.UpdateStatus(ctx, user("u-1"), "r-1", "contacted")
	require.NoError(t, err)
	assert.Equal(t, "contacted", updated.Status)
	assert.Equal(t, "contacted", records.statusUpdates["r-1"])

	_, err = svc.UpdateStatus(ctx, user("u-2"), "r-1", "contacted")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.UpdateStatus(ctx, user("u-1"), "ghost", "contacted")
	assert.ErrorIs(t, err, ErrNotFound)

	// An empty status clears the label.
	updated, err = svc.UpdateStatus(ctx, superadmin(), "r-1", "")
	require.NoError(t, err)
	assert.Empty(t, updated.Status)
}

func TestMyCampaigns_GroupsByAssignerAndDay(t *testing.T) {
	ctx := context.Background()
	records := newFakeRecordRepo(
		// Two batches from adm-1 on the same day merge into one group.
		rec("r-1", "adm-1", "u-1", stamp("2026-03-09", 9)),
		rec("r-2", "adm-1", "u-1", stamp("2026-03-09", 9)),
		rec("r-3", "adm-1", "u-1", stamp("2026-03-09", 15)),
		rec("r-4", "adm-1", "u-1", stamp("2026-03-09", 15)),
		rec("r-5", "adm-1", "u-1", stamp("2026-03-09", 15)),
		// Same assigner, next day: separate group.
		rec("r-6", "adm-1", "u-1", stamp("2026-03-10", 9)),
		// Different assigner, same first day: separate group.
		rec("r-7", "adm-2", "u-1", stamp("2026-03-09", 11)),
		// Another user's record stays out of scope.
		rec("r-8", "adm-1", "u-2", stamp("2026-03-09", 9)),
	)
	users := newFakeUserRepo(
		&repository.User{ID: "adm-1", Name: "Lena Vogel", Email: "lena@x.io"},
		user("u-1"),
	)
	svc := NewAssignmentService(records, users)

	page, err := svc.MyCampaigns(ctx, user("u-1"), 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Groups, 3)
	assert.Equal(t, 3, page.Total)

	// Newest representative timestamp first.
	assert.Equal(t, "adm-1-2026-03-10", page.Groups[0].Key)
	assert.Equal(t, 1, page.Groups[0].RecordCount)

	merged := page.Groups[1]
	assert.Equal(t, "adm-1-2026-03-09", merged.Key)
	assert.Equal(t, 5, merged.RecordCount, "same assigner, same day merges")
	assert.ElementsMatch(t, []string{"r-1", "r-2", "r-3", "r-4", "r-5"}, merged.MemberIDs)
	assert.Equal(t, stamp("2026-03-09", 15), merged.CreatedAt, "newest member sets the group timestamp")

	assert.Equal(t, "adm-2-2026-03-09", page.Groups[2].Key)

	// Identity join, with the unknown assigner degraded not failed.
	assert.Equal(t, "Lena Vogel", merged.AssignerName)
	assert.Equal(t, "lena@x.io", merged.AssignerEmail)
	assert.Equal(t, "Unknown", page.Groups[2].AssignerName)
}

func TestMyCampaigns_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	records := newFakeRecordRepo(
		rec("r-1", "adm-1", "u-1", stamp("2026-03-09", 9)),
		rec("r-2", "adm-1", "u-1", stamp("2026-03-09", 12)),
	)
	svc := NewAssignmentService(records, newFakeUserRepo())

	first, err := svc.MyCampaigns(ctx, user("u-1"), 1, 10)
	require.NoError(t, err)
	second, err := svc.MyCampaigns(ctx, user("u-1"), 1, 10)
	require.NoError(t, err)

	require.Len(t, first.Groups, 1)
	require.Len(t, second.Groups, 1)
	assert.Equal(t, first.Groups[0].Key, second.Groups[0].Key)
	assert.Equal(t, first.Groups[0].MemberIDs, second.Groups[0].MemberIDs)
}

func TestCampaignPagination_CountsGroupsNotRows(t *testing.T) {
	ctx := context.Background()
	var rows []*repository.AssignedRecord
	// 5 days, 10 records each: 5 groups of 10 rows.
	for d := 0; d < 5; d++ {
		day := stamp("2026-03-01", 9).AddDate(0, 0, d)
		for i := 0; i < 10; i++ {
			rows = append(rows, rec(day.Format("01-02")+"-"+string(rune('a'+i)), "adm-1", "u-1", day))
		}
	}
	svc := NewAssignmentService(newFakeRecordRepo(rows...), newFakeUserRepo())

	page, err := svc.MyCampaigns(ctx, user("u-1"), 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total, "total counts groups")
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Groups, 2)
	assert.Equal(t, "adm-1-2026-03-03", page.Groups[0].Key)
	assert.Equal(t, "adm-1-2026-03-02", page.Groups[1].Key)

	// Past the end: empty page, totals intact.
	page, err = svc.MyCampaigns(ctx, user("u-1"), 9, 2)
	require.NoError(t, err)
	assert.Empty(t, page.Groups)
	assert.Equal(t, 5, page.Total)
}

func TestAssignmentHistory_GroupsByPairAndFetchesMembers(t *testing.T) {
	ctx := context.Background()
	records := newFakeRecordRepo(
		rec("r-1", "adm-1", "u-1", stamp("2026-03-09", 9)),
		rec("r-2", "adm-1", "u-1", stamp("2026-03-09", 16)),
		// Same assigner and day, different assignee: separate group in
		// the history view.
		rec("r-3", "adm-1", "u-2", stamp("2026-03-09", 10)),
		rec("r-4", "adm-2", "u-1", stamp("2026-03-08", 10)),
	)
	svc := NewAssignmentService(records, newFakeUserRepo(user("u-1"), user("u-2")))

	page, err := svc.AssignmentHistory(ctx, superadmin(), 1, 10, false)
	require.NoError(t, err)
	require.Len(t, page.Groups, 3)

	top := page.Groups[0]
	assert.Equal(t, "adm-1-u-1-2026-03-09", top.Key)
	assert.Equal(t, 2, top.RecordCount)
	// Full member rows come back, bounded to the calendar day and pair.
	require.Len(t, top.Records, 2)
	assert.Equal(t, "r-2", top.Records[0].ID)
	assert.Equal(t, "r-1", top.Records[1].ID)

	pair := page.Groups[1]
	assert.Equal(t, "adm-1-u-2-2026-03-09", pair.Key)
	require.Len(t, pair.Records, 1)
	assert.Equal(t, "r-3", pair.Records[0].ID)
}

func TestAssignmentHistory_PersonalOnly(t *testing.T) {
	ctx := context.Background()
	records := newFakeRecordRepo(
		rec("r-1", "adm-1", "u-1", stamp("2026-03-09", 9)),
		rec("r-2", "adm-2", "u-1", stamp("2026-03-09", 10)),
	)
	svc := NewAssignmentService(records, newFakeUserRepo(user("u-1")))

	page, err := svc.AssignmentHistory(ctx, admin(), 1, 10, true)
	require.NoError(t, err)
	require.Len(t, page.Groups, 1)
	assert.Equal(t, "adm-1", page.Groups[0].AssignerID)
}

func TestAssignmentHistory_ForbiddenForUsers(t *testing.T) {
	svc := NewAssignmentService(newFakeRecordRepo(), newFakeUserRepo())
	_, err := svc.AssignmentHistory(context.Background(), user("u-1"), 1, 10, false)
	assert.ErrorIs(t, err, ErrForbidden)
}
