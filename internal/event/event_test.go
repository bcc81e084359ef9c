package event

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PlanifyOrg/planify/internal/database/dbtest"
	"github.com/PlanifyOrg/planify/internal/notification"
	"github.com/PlanifyOrg/planify/internal/notification/notificationtest"
)

func newTestService(t *testing.T) (*Service, *notificationtest.Recorder) {
	t.Helper()
	db := dbtest.OpenSqlite(t)
	rec := &notificationtest.Recorder{}
	return NewService(db, NewRepository(db), rec, nil), rec
}

func newEventRequest() *CreateEventRequest {
	start := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	return &CreateEventRequest{
		Title:     "Spring offsite",
		StartDate: start,
		EndDate:   start.Add(8 * time.Hour),
		Location:  "Berlin",
	}
}

func TestCreateAddsOrganizerAsParticipant(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	e, err := svc.Create(ctx, 10, newEventRequest())
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, e.Status)

	got, err := svc.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{10}, got.Participants)
	assert.Nil(t, got.OrganizationID)
	assert.True(t, got.StartDate.Equal(e.StartDate))
}

func TestCreateRejectsInvalidEvent(t *testing.T) {
	svc, _ := newTestService(t)

	req := newEventRequest()
	req.EndDate = req.StartDate.Add(-time.Hour)
	_, err := svc.Create(context.Background(), 10, req)
	assert.ErrorIs(t, err, ErrInvalidEvent)
}

func TestAddParticipantNotifiesUser(t *testing.T) {
	ctx := context.Background()
	svc, rec := newTestService(t)

	e, err := svc.Create(ctx, 10, newEventRequest())
	require.NoError(t, err)

	require.NoError(t, svc.AddParticipant(ctx, e.ID, 20, 10))
	assert.Equal(t, []int64{20}, rec.Recipients(notification.TypeEventInvitation))

	err = svc.AddParticipant(ctx, e.ID, 20, 10)
	assert.ErrorIs(t, err, ErrAlreadyParticipant)
	assert.Len(t, rec.Notices(), 1)

	err = svc.AddParticipant(ctx, 999, 20, 10)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestRemoveParticipant(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	e, err := svc.Create(ctx, 10, newEventRequest())
	require.NoError(t, err)
	require.NoError(t, svc.AddParticipant(ctx, e.ID, 20, 10))

	require.NoError(t, svc.RemoveParticipant(ctx, e.ID, 20))
	assert.ErrorIs(t, svc.RemoveParticipant(ctx, e.ID, 20), ErrParticipantNotFound)
}

func TestUpdateOnlyByOrganizer(t *testing.T) {
	ctx := context.Background()
	svc, rec := newTestService(t)

	e, err := svc.Create(ctx, 10, newEventRequest())
	require.NoError(t, err)
	require.NoError(t, svc.AddParticipant(ctx, e.ID, 20, 10))
	rec.Reset()

	title := "Summer offsite"
	_, err = svc.Update(ctx, e.ID, 20, &UpdateEventRequest{Title: &title})
	assert.ErrorIs(t, err, ErrNotOrganizer)

	bogus := Status("archived")
	_, err = svc.Update(ctx, e.ID, 10, &UpdateEventRequest{Status: &bogus})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	published := StatusPublished
	updated, err := svc.Update(ctx, e.ID, 10, &UpdateEventRequest{Title: &title, Status: &published})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, StatusPublished, updated.Status)
	assert.Equal(t, []int64{20}, rec.Recipients(notification.TypeEventUpdate))
}

func TestListByUserAndOrganization(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	orgID := int64(77)
	req := newEventRequest()
	req.OrganizationID = &orgID
	owned, err := svc.Create(ctx, 10, req)
	require.NoError(t, err)

	other, err := svc.Create(ctx, 30, newEventRequest())
	require.NoError(t, err)
	require.NoError(t, svc.AddParticipant(ctx, other.ID, 10, 30))

	mine, err := svc.ListByUserID(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	byOrg, err := svc.ListByOrganizationID(ctx, orgID)
	require.NoError(t, err)
	require.Len(t, byOrg, 1)
	assert.Equal(t, owned.ID, byOrg[0].ID)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	e, err := svc.Create(ctx, 10, newEventRequest())
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, e.ID, 20), ErrNotOrganizer)
	require.NoError(t, svc.Delete(ctx, e.ID, 10))

	_, err = svc.GetByID(ctx, e.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)
}
