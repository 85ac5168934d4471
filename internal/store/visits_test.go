package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dawat-dev/dawat/internal/models"
)

func TestListVisitsPaginationWalk(t *testing.T) {
	s, conn := newTestStore(t)
	ctx := context.Background()

	user := seedUser(t, conn)
	block := seedBlock(t, conn, "Gulberg")
	contact := seedContact(t, conn, block, user, "Ahmad")

	for i := 0; i < 5; i++ {
		seedVisit(t, conn, contact, user, time.Now().AddDate(0, 0, -i))
	}

	var seen []uint
	var cursor *uint

	for {
		page, err := s.ListVisits(ctx, ListVisitsParams{Limit: 2, Cursor: cursor})
		require.NoError(t, err)

		for _, visit := range page.Visits {
			seen = append(seen, visit.ID)
		}

		if page.NextCursor == nil {
			break
		}

		cursor = page.NextCursor
	}

	require.Len(t, seen, 5)

	// Newest visit date first; seed order makes that descending ids.
	for i := 1; i < len(seen); i++ {
		assert.Greater(t, seen[i-1], seen[i])
	}
}

func TestListVisitsFilters(t *testing.T) {
	s, conn := newTestStore(t)
	ctx := context.Background()

	user := seedUser(t, conn)
	gulberg := seedBlock(t, conn, "Gulberg")
	anarkali := seedBlock(t, conn, "Anarkali")

	ahmad := seedContact(t, conn, gulberg, user, "Ahmad")
	bilal := seedContact(t, conn, anarkali, user, "Bilal")

	seedVisit(t, conn, ahmad, user, time.Now())
	seedVisit(t, conn, ahmad, user, time.Now(), func(v *models.Visit) {
		v.Purpose = "Follow-up"
	})
	seedVisit(t, conn, bilal, user, time.Now())

	page, err := s.ListVisits(ctx, ListVisitsParams{ContactID: &ahmad.ID})
	require.NoError(t, err)
	assert.Len(t, page.Visits, 2)

	page, err = s.ListVisits(ctx, ListVisitsParams{BlockID: &anarkali.ID})
	require.NoError(t, err)
	require.Len(t, page.Visits, 1)
	assert.Equal(t, "Bilal", page.Visits[0].Contact.Name)

	page, err = s.ListVisits(ctx, ListVisitsParams{Purpose: "Follow-up"})
	require.NoError(t, err)
	require.Len(t, page.Visits, 1)
	assert.Equal(t, "Follow-up", page.Visits[0].Purpose)

	page, err = s.ListVisits(ctx, ListVisitsParams{ContactID: &bilal.ID, Purpose: "Follow-up"})
	require.NoError(t, err)
	assert.Empty(t, page.Visits)
}

func TestListVisitsDeletedCursor(t *testing.T) {
	s, conn := newTestStore(t)
	ctx := context.Background()

	user := seedUser(t, conn)
	block := seedBlock(t, conn, "Gulberg")
	contact := seedContact(t, conn, block, user, "Ahmad")

	for i := 0; i < 3; i++ {
		seedVisit(t, conn, contact, user, time.Now().AddDate(0, 0, -i))
	}

	page, err := s.ListVisits(ctx, ListVisitsParams{Limit: 1})
	require.NoError(t, err)
	require.NotNil(t, page.NextCursor)

	require.NoError(t, s.DeleteVisit(ctx, *page.NextCursor))

	next, err := s.ListVisits(ctx, ListVisitsParams{Limit: 1, Cursor: page.NextCursor})
	require.NoError(t, err)

	assert.Empty(t, next.Visits)
	assert.Nil(t, next.NextCursor)
}

func TestCreateVisitDefaultsDate(t *testing.T) {
	s, conn := newTestStore(t)
	ctx := context.Background()

	user := seedUser(t, conn)
	block := seedBlock(t, conn, "Gulberg")
	contact := seedContact(t, conn, block, user, "Ahmad")

	before := time.Now().Add(-time.Minute)

	visit, err := s.CreateVisit(ctx, CreateVisitParams{
		ContactID:   contact.ID,
		BlockID:     block.ID,
		Purpose:     "Dawat",
		CreatedByID: user.ID,
	})
	require.NoError(t, err)

	assert.True(t, visit.VisitDate.After(before))
	assert.Equal(t, "Ahmad", visit.Contact.Name)
	assert.Equal(t, "Gulberg", visit.Block.Name)
	assert.Equal(t, user.Name, visit.CreatedBy.Name)
}

func TestCreateVisitUnknownContact(t *testing.T) {
	s, conn := newTestStore(t)
	ctx := context.Background()

	user := seedUser(t, conn)
	block := seedBlock(t, conn, "Gulberg")

	_, err := s.CreateVisit(ctx, CreateVisitParams{
		ContactID:   999,
		BlockID:     block.ID,
		Purpose:     "Dawat",
		CreatedByID: user.ID,
	})
	assert.True(t, errors.Is(err, gorm.ErrForeignKeyViolated))
}

func TestUpdateVisitPartial(t *testing.T) {
	s, conn := newTestStore(t)
	ctx := context.Background()

	user := seedUser(t, conn)
	block := seedBlock(t, conn, "Gulberg")
	contact := seedContact(t, conn, block, user, "Ahmad")
	visit := seedVisit(t, conn, contact, user, time.Now(), func(v *models.Visit) {
		v.Response = "Interested"
		v.Duration = 20
	})

	updated, err := s.UpdateVisit(ctx, visit.ID, UpdateVisitParams{
		Duration: intPtr(45),
		Notes:    strPtr("Left a pamphlet"),
	})
	require.NoError(t, err)
	require.NotNil(t, updated)

	assert.Equal(t, "Interested", updated.Response)
	assert.Equal(t, 45, updated.Duration)
	assert.Equal(t, "Left a pamphlet", updated.Notes)
	assert.Equal(t, "Dawat", updated.Purpose)
}

func TestUpdateVisitMissing(t *testing.T) {
	s, _ := newTestStore(t)

	updated, err := s.UpdateVisit(context.Background(), 999, UpdateVisitParams{Purpose: strPtr("X")})
	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestGetVisitMissing(t *testing.T) {
	s, _ := newTestStore(t)

	visit, err := s.GetVisit(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, visit)
}

func TestDeleteVisitMissing(t *testing.T) {
	s, _ := newTestStore(t)

	err := s.DeleteVisit(context.Background(), 999)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestRecentActivityWindow(t *testing.T) {
	s, conn := newTestStore(t)
	ctx := context.Background()

	user := seedUser(t, conn)
	block := seedBlock(t, conn, "Gulberg")
	contact := seedContact(t, conn, block, user, "Ahmad")

	recent := seedVisit(t, conn, contact, user, time.Now().AddDate(0, 0, -1))
	midRange := seedVisit(t, conn, contact, user, time.Now().AddDate(0, 0, -10))
	seedVisit(t, conn, contact, user, time.Now().AddDate(0, 0, -40))

	visits, err := s.RecentActivity(ctx, 7)
	require.NoError(t, err)
	require.Len(t, visits, 1)
	assert.Equal(t, recent.ID, visits[0].ID)

	visits, err = s.RecentActivity(ctx, 30)
	require.NoError(t, err)
	require.Len(t, visits, 2)
	assert.Equal(t, recent.ID, visits[0].ID)
	assert.Equal(t, midRange.ID, visits[1].ID)

	// Out-of-range day values clamp to the bounds.
	visits, err = s.RecentActivity(ctx, 500)
	require.NoError(t, err)
	assert.Len(t, visits, 2)

	visits, err = s.RecentActivity(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, visits, 1)
}

func TestRecentActivityCap(t *testing.T) {
	s, conn := newTestStore(t)
	ctx := context.Background()

	user := seedUser(t, conn)
	block := seedBlock(t, conn, "Gulberg")
	contact := seedContact(t, conn, block, user, "Ahmad")

	for i := 0; i < activityFeedCap+5; i++ {
		seedVisit(t, conn, contact, user, time.Now().Add(-time.Duration(i)*time.Minute))
	}

	visits, err := s.RecentActivity(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, visits, activityFeedCap)
}

func TestUpcomingFollowUps(t *testing.T) {
	s, conn := newTestStore(t)
	ctx := context.Background()

	user := seedUser(t, conn)
	block := seedBlock(t, conn, "Gulberg")
	contact := seedContact(t, conn, block, user, "Ahmad")

	overdue := seedVisit(t, conn, contact, user, time.Now().AddDate(0, 0, -5), func(v *models.Visit) {
		v.FollowUpNeeded = true
		v.FollowUpDate = timePtr(time.Now().AddDate(0, 0, -3))
	})
	dueSoon := seedVisit(t, conn, contact, user, time.Now(), func(v *models.Visit) {
		v.FollowUpNeeded = true
		v.FollowUpDate = timePtr(time.Now().AddDate(0, 0, 2))
	})

	// Beyond the horizon.
	seedVisit(t, conn, contact, user, time.Now(), func(v *models.Visit) {
		v.FollowUpNeeded = true
		v.FollowUpDate = timePtr(time.Now().AddDate(0, 0, 30))
	})

	// Flag cleared, date alone does not qualify.
	seedVisit(t, conn, contact, user, time.Now(), func(v *models.Visit) {
		v.FollowUpDate = timePtr(time.Now().AddDate(0, 0, 1))
	})

	// Flag without a date never fires.
	seedVisit(t, conn, contact, user, time.Now(), func(v *models.Visit) {
		v.FollowUpNeeded = true
	})

	visits, err := s.UpcomingFollowUps(ctx)
	require.NoError(t, err)
	require.Len(t, visits, 2)

	// Most overdue first.
	assert.Equal(t, overdue.ID, visits[0].ID)
	assert.Equal(t, dueSoon.ID, visits[1].ID)
}
