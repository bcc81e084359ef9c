package meeting

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PlanifyOrg/planify/internal/authz"
	"github.com/PlanifyOrg/planify/internal/database"
	"github.com/PlanifyOrg/planify/internal/database/dbtest"
	"github.com/PlanifyOrg/planify/internal/event"
	"github.com/PlanifyOrg/planify/internal/notification"
	"github.com/PlanifyOrg/planify/internal/notification/notificationtest"
	"github.com/PlanifyOrg/planify/internal/organization"
	"github.com/PlanifyOrg/planify/pkg/apperror"
	"github.com/PlanifyOrg/planify/pkg/middleware"
)

const (
	u1 = int64(1) // org admin, meeting creator
	u2 = int64(2) // member
	u3 = int64(3) // second admin
	u4 = int64(4) // outsider
)

type fixture struct {
	db       *database.DB
	svc      *Service
	rec      *notificationtest.Recorder
	orgs     *organization.Service
	org      *organization.Organization
	orgEvent *event.Event
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db := dbtest.OpenSqlite(t)
	rec := &notificationtest.Recorder{}

	orgRepo := organization.NewRepository(db)
	orgs := organization.NewService(db, orgRepo, nil)
	events := event.NewService(db, event.NewRepository(db), rec, nil)

	org, err := orgs.Create(ctx, u1, &organization.CreateOrganizationRequest{Name: "O1"})
	require.NoError(t, err)
	require.NoError(t, orgs.AddMember(ctx, org.ID, u2))
	require.NoError(t, orgs.AddAdmin(ctx, org.ID, u3))

	start := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	e, err := events.Create(ctx, u1, &event.CreateEventRequest{
		Title:          "Planning week",
		OrganizationID: &org.ID,
		StartDate:      start,
		EndDate:        start.Add(48 * time.Hour),
	})
	require.NoError(t, err)

	gate := authz.NewGate(orgRepo, events)
	rec.Reset()

	return &fixture{
		db:       db,
		svc:      NewService(db, NewRepository(db), gate, rec, nil),
		rec:      rec,
		orgs:     orgs,
		org:      org,
		orgEvent: e,
	}
}

func (f *fixture) createMeeting(t *testing.T, eventID *int64, participants ...int64) *Meeting {
	t.Helper()
	m, err := f.svc.Create(context.Background(), u1, &CreateMeetingRequest{
		EventID:       eventID,
		Title:         "Kickoff",
		ScheduledTime: time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC),
		Duration:      30,
		Participants:  participants,
	})
	require.NoError(t, err)
	f.rec.Reset()
	return m
}

func participantIDs(m *Meeting) []int64 {
	ids := make([]int64, len(m.Participants))
	for i, p := range m.Participants {
		ids[i] = p.UserID
	}
	return ids
}

func TestCreateAddsCreatorAndNotifiesOthers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	m, err := f.svc.Create(ctx, u1, &CreateMeetingRequest{
		EventID:       &f.orgEvent.ID,
		Title:         "  Kickoff ",
		ScheduledTime: time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC),
		Duration:      45,
		Participants:  []int64{u2, u1, u2, u4},
		AgendaItems: []AgendaItemRequest{
			{Title: "Intro"},
			{Title: "Budget"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Kickoff", m.Title)
	assert.Equal(t, StatusProposed, m.Status)
	assert.False(t, m.FlaggedForDeletion)

	got, err := f.svc.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{u1, u2, u4}, participantIDs(got))
	require.Len(t, got.AgendaItems, 2)
	assert.Equal(t, "Intro", got.AgendaItems[0].Title)
	assert.Equal(t, 1, got.AgendaItems[1].OrderIndex)

	assert.ElementsMatch(t, []int64{u2, u4}, f.rec.Recipients(notification.TypeMeetingScheduled))
}

func TestCreateValidates(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), u1, &CreateMeetingRequest{Title: " ", Duration: 30})
	assert.ErrorIs(t, err, ErrInvalidMeeting)

	_, err = f.svc.Create(context.Background(), u1, &CreateMeetingRequest{Title: "x", Duration: 0})
	assert.ErrorIs(t, err, apperror.ErrInvalid)
}

func TestFlagAndUnflag(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	m := f.createMeeting(t, &f.orgEvent.ID, u2)

	require.NoError(t, f.svc.Flag(ctx, m.ID, u2))
	got, err := f.svc.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, got.FlaggedForDeletion)
	require.NotNil(t, got.FlaggedBy)
	assert.Equal(t, u2, *got.FlaggedBy)
	assert.NotNil(t, got.FlaggedAt)

	// Re-flagging replaces the flagger.
	require.NoError(t, f.svc.Flag(ctx, m.ID, u4))
	got, err = f.svc.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, u4, *got.FlaggedBy)

	require.NoError(t, f.svc.Unflag(ctx, m.ID))
	got, err = f.svc.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.False(t, got.FlaggedForDeletion)
	assert.Nil(t, got.FlaggedBy)
	assert.Nil(t, got.FlaggedAt)

	assert.ErrorIs(t, f.svc.Flag(ctx, 999, u2), ErrMeetingNotFound)
	assert.ErrorIs(t, f.svc.Unflag(ctx, 999), ErrMeetingNotFound)
}

func TestFlagIndependentMeetingNotifiesNobody(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	m := f.createMeeting(t, nil, u2)

	require.NoError(t, f.svc.Flag(ctx, m.ID, u2))
	assert.Empty(t, f.rec.Notices())
}

func TestDeleteRequiresAdmin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tests := []struct {
		name      string
		requester int64
		wantErr   error
	}{
		{"member", u2, ErrNotAdmin},
		{"outsider", u4, ErrNotAdmin},
		{"creator and admin", u1, nil},
		{"other admin", u3, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := f.createMeeting(t, &f.orgEvent.ID, u2)

			err := f.svc.Delete(ctx, m.ID, tt.requester)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, apperror.ErrForbidden)
				_, err := f.svc.GetByID(ctx, m.ID)
				assert.NoError(t, err)
				return
			}
			require.NoError(t, err)
			_, err = f.svc.GetByID(ctx, m.ID)
			assert.ErrorIs(t, err, ErrMeetingNotFound)
		})
	}
}

func TestDeleteWithoutOrganization(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	independent := f.createMeeting(t, nil)
	err := f.svc.Delete(ctx, independent.ID, u1)
	assert.ErrorIs(t, err, authz.ErrNoOrganization)
	assert.ErrorIs(t, err, apperror.ErrDependencyUnresolved)

	missingEvent := int64(424242)
	dangling := f.createMeeting(t, &missingEvent)
	assert.ErrorIs(t, f.svc.Delete(ctx, dangling.ID, u1), authz.ErrNoOrganization)

	assert.ErrorIs(t, f.svc.Delete(ctx, 999, u1), ErrMeetingNotFound)
}

func TestDeleteRemovesChildren(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	m := f.createMeeting(t, &f.orgEvent.ID, u2)

	_, err := f.svc.AddAgendaItem(ctx, m.ID, u1, &AgendaItemRequest{Title: "Review"})
	require.NoError(t, err)
	_, err = f.svc.AddDocument(ctx, m.ID, u2, &DocumentRequest{Title: "Notes", Type: DocumentNotes})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, m.ID, u1))

	for _, table := range []string{"meeting_participants", "meeting_agenda_items", "meeting_documents"} {
		var n int
		require.NoError(t, f.db.GetContext(ctx, &n, f.db.Rebind(`SELECT COUNT(*) FROM `+table+` WHERE meeting_id = ?`), m.ID))
		assert.Zero(t, n, table)
	}
}

func TestAddParticipant(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	m := f.createMeeting(t, &f.orgEvent.ID)

	// Non-admin members cannot add people.
	err := f.svc.AddParticipant(ctx, m.ID, u4, u2)
	assert.ErrorIs(t, err, ErrCannotManage)

	// An admin other than the creator can.
	require.NoError(t, f.svc.AddParticipant(ctx, m.ID, u2, u3))
	assert.Equal(t, []int64{u2}, f.rec.Recipients(notification.TypeMeetingScheduled))

	err = f.svc.AddParticipant(ctx, m.ID, u2, u1)
	assert.ErrorIs(t, err, ErrAlreadyParticipant)
	assert.Len(t, f.rec.Notices(), 1)

	got, err := f.svc.GetByID(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, got.Participants, 2)
	assert.False(t, got.Participants[1].CheckedIn)
}

func TestAddParticipantIndependentMeeting(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	m := f.createMeeting(t, nil)

	assert.NoError(t, f.svc.AddParticipant(ctx, m.ID, u2, u1), "creator")
	assert.ErrorIs(t, f.svc.AddParticipant(ctx, m.ID, u4, u3), ErrCannotManage, "admin without org link")
}

func TestRemoveParticipant(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	m := f.createMeeting(t, &f.orgEvent.ID, u2, u4)

	assert.ErrorIs(t, f.svc.RemoveParticipant(ctx, m.ID, u4, u2), ErrCannotManage)
	assert.NoError(t, f.svc.RemoveParticipant(ctx, m.ID, u4, u4), "self")
	assert.NoError(t, f.svc.RemoveParticipant(ctx, m.ID, u2, u1))
	assert.ErrorIs(t, f.svc.RemoveParticipant(ctx, m.ID, u2, u1), ErrParticipantNotFound)
}

func TestCheckIn(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	m := f.createMeeting(t, &f.orgEvent.ID, u2)

	require.NoError(t, f.svc.CheckIn(ctx, m.ID, u2))
	assert.ErrorIs(t, f.svc.CheckIn(ctx, m.ID, u2), ErrAlreadyCheckedIn)
	assert.ErrorIs(t, f.svc.CheckIn(ctx, m.ID, u4), ErrParticipantNotFound)
	assert.ErrorIs(t, f.svc.CheckIn(ctx, 999, u2), ErrParticipantNotFound)

	got, err := f.svc.GetByID(ctx, m.ID)
	require.NoError(t, err)
	for _, p := range got.Participants {
		if p.UserID == u2 {
			assert.True(t, p.CheckedIn)
			assert.NotNil(t, p.CheckedInAt)
		} else {
			assert.False(t, p.CheckedIn)
			assert.Nil(t, p.CheckedInAt)
		}
	}
}

func TestConcurrentCheckInHasOneWinner(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	m := f.createMeeting(t, &f.orgEvent.ID, u2)

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = f.svc.CheckIn(ctx, m.ID, u2)
		}(i)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrAlreadyCheckedIn):
			conflicts++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, callers-1, conflicts)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	m := f.createMeeting(t, &f.orgEvent.ID, u2)

	title := "Retro"
	status := StatusConfirmed
	got, err := f.svc.Update(ctx, m.ID, u3, &UpdateMeetingRequest{Title: &title, Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "Retro", got.Title)
	assert.Equal(t, StatusConfirmed, got.Status)
	assert.Equal(t, 30, got.Duration)

	_, err = f.svc.Update(ctx, m.ID, u2, &UpdateMeetingRequest{Title: &title})
	assert.ErrorIs(t, err, ErrCannotManage)

	bad := Status("paused")
	_, err = f.svc.Update(ctx, m.ID, u1, &UpdateMeetingRequest{Status: &bad})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestAgendaAndDocuments(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	m := f.createMeeting(t, &f.orgEvent.ID, u2)

	_, err := f.svc.AddAgendaItem(ctx, m.ID, u2, &AgendaItemRequest{Title: "Sneaky"})
	assert.ErrorIs(t, err, ErrCannotManage)

	first, err := f.svc.AddAgendaItem(ctx, m.ID, u1, &AgendaItemRequest{Title: "Welcome"})
	require.NoError(t, err)
	second, err := f.svc.AddAgendaItem(ctx, m.ID, u1, &AgendaItemRequest{Title: "Wrap up"})
	require.NoError(t, err)
	assert.Equal(t, 0, first.OrderIndex)
	assert.Equal(t, 1, second.OrderIndex)

	require.NoError(t, f.svc.CompleteAgendaItem(ctx, m.ID, first.ID, u2))
	assert.ErrorIs(t, f.svc.CompleteAgendaItem(ctx, m.ID, first.ID, u4), ErrNotParticipant)
	assert.ErrorIs(t, f.svc.CompleteAgendaItem(ctx, m.ID, 999, u1), ErrAgendaItemNotFound)

	_, err = f.svc.AddDocument(ctx, m.ID, u2, &DocumentRequest{Title: "Notes", Type: "memo"})
	assert.ErrorIs(t, err, ErrInvalidDocument)
	_, err = f.svc.AddDocument(ctx, m.ID, u4, &DocumentRequest{Title: "Notes", Type: DocumentNotes})
	assert.ErrorIs(t, err, ErrNotParticipant)

	doc, err := f.svc.AddDocument(ctx, m.ID, u2, &DocumentRequest{Title: "Notes", Content: "draft", Type: DocumentNotes})
	require.NoError(t, err)

	content := "final"
	updated, err := f.svc.UpdateDocument(ctx, m.ID, doc.ID, u2, &UpdateDocumentRequest{Content: &content})
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Content)
	assert.Equal(t, "Notes", updated.Title)

	_, err = f.svc.UpdateDocument(ctx, m.ID, doc.ID, u4, &UpdateDocumentRequest{Content: &content})
	assert.ErrorIs(t, err, ErrCannotManage)
	_, err = f.svc.UpdateDocument(ctx, m.ID, 999, u1, &UpdateDocumentRequest{Content: &content})
	assert.ErrorIs(t, err, ErrDocumentNotFound)

	got, err := f.svc.GetByID(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, got.AgendaItems, 2)
	assert.True(t, got.AgendaItems[0].IsCompleted)
	assert.False(t, got.AgendaItems[1].IsCompleted)
	require.Len(t, got.Documents, 1)
}

func TestFlagReviewDeleteScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	m1 := f.createMeeting(t, &f.orgEvent.ID, u1, u2)
	got, err := f.svc.GetByID(ctx, m1.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{u1, u2}, participantIDs(got))

	require.NoError(t, f.svc.Flag(ctx, m1.ID, u2))
	got, err = f.svc.GetByID(ctx, m1.ID)
	require.NoError(t, err)
	assert.True(t, got.FlaggedForDeletion)

	assert.ElementsMatch(t, []int64{u1, u3}, f.rec.Recipients(notification.TypeMeetingFlagged))
	for _, n := range f.rec.Notices() {
		require.NotNil(t, n.SenderID)
		assert.Equal(t, u2, *n.SenderID)
		assert.Equal(t, m1.ID, *n.RelatedEntityID)
	}

	err = f.svc.Delete(ctx, m1.ID, u2)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	_, err = f.svc.GetByID(ctx, m1.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, m1.ID, u1))
	_, err = f.svc.GetByID(ctx, m1.ID)
	assert.ErrorIs(t, err, ErrMeetingNotFound)

	participants, err := f.svc.repo.GetParticipants(ctx, m1.ID)
	require.NoError(t, err)
	assert.Empty(t, participants)
}

func TestFlagByAdminSkipsFlagger(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	m := f.createMeeting(t, &f.orgEvent.ID)

	require.NoError(t, f.svc.Flag(ctx, m.ID, u3))
	assert.Equal(t, []int64{u1}, f.rec.Recipients(notification.TypeMeetingFlagged))
}

func serve(f *fixture, method, path string, asUser int64, body interface{}) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Use(middleware.TestUserMiddleware)
	r.Mount("/meetings", NewHandler(f.svc).Routes())

	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(middleware.TestUserHeader, strconv.FormatInt(asUser, 10))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandlerStatusCodes(t *testing.T) {
	f := newFixture(t)
	m := f.createMeeting(t, &f.orgEvent.ID, u2)
	independent := f.createMeeting(t, nil)

	path := "/meetings/" + strconv.FormatInt(m.ID, 10)
	independentPath := "/meetings/" + strconv.FormatInt(independent.ID, 10)

	tests := []struct {
		name   string
		method string
		path   string
		asUser int64
		body   interface{}
		want   int
	}{
		{"flag", http.MethodPost, path + "/flag", u2, FlagRequest{UserID: u2}, http.StatusOK},
		{"flag missing", http.MethodPost, "/meetings/999/flag", u2, nil, http.StatusNotFound},
		{"unflag", http.MethodPost, path + "/unflag", u2, nil, http.StatusOK},
		{"unflag missing", http.MethodPost, "/meetings/999/unflag", u2, nil, http.StatusNotFound},
		{"add participant as another user", http.MethodPost, path + "/participants", u4, ParticipantRequest{UserID: u4, RequesterID: u1}, http.StatusForbidden},
		{"add participant forbidden", http.MethodPost, path + "/participants", u2, ParticipantRequest{UserID: u4, RequesterID: u2}, http.StatusForbidden},
		{"add participant", http.MethodPost, path + "/participants", u1, ParticipantRequest{UserID: u4, RequesterID: u1}, http.StatusOK},
		{"add participant again", http.MethodPost, path + "/participants", u1, ParticipantRequest{UserID: u4}, http.StatusBadRequest},
		{"check in other user", http.MethodPost, path + "/checkin", u1, CheckInRequest{UserID: u2}, http.StatusForbidden},
		{"check in", http.MethodPost, path + "/checkin", u2, CheckInRequest{UserID: u2}, http.StatusOK},
		{"check in twice", http.MethodPost, path + "/checkin", u2, nil, http.StatusNotFound},
		{"check in non participant", http.MethodPost, path + "/checkin", u3, nil, http.StatusNotFound},
		{"delete as another user", http.MethodDelete, path, u4, DeleteRequest{RequesterID: u1}, http.StatusForbidden},
		{"delete by member", http.MethodDelete, path, u2, DeleteRequest{RequesterID: u2}, http.StatusForbidden},
		{"delete without organization", http.MethodDelete, independentPath, u1, nil, http.StatusNotFound},
		{"delete missing", http.MethodDelete, "/meetings/999", u1, nil, http.StatusNotFound},
		{"delete by admin", http.MethodDelete, path, u1, DeleteRequest{RequesterID: u1}, http.StatusOK},
		{"get deleted", http.MethodGet, path, u1, nil, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(f, tt.method, tt.path, tt.asUser, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestHandlerCreateAndGet(t *testing.T) {
	f := newFixture(t)

	rec := serve(f, http.MethodPost, "/meetings", u1, CreateMeetingRequest{
		EventID:       &f.orgEvent.ID,
		Title:         "Standup",
		ScheduledTime: time.Date(2026, 6, 2, 9, 0, 0, 0, time.UTC),
		Duration:      15,
		Participants:  []int64{u2},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Data MeetingResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Standup", created.Data.Title)
	assert.Equal(t, "2026-06-02T09:00:00Z", created.Data.ScheduledTime)

	rec = serve(f, http.MethodGet, "/meetings/"+strconv.FormatInt(created.Data.ID, 10), u2, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(f, http.MethodGet, "/meetings?event_id="+strconv.FormatInt(f.orgEvent.ID, 10), u2, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed struct {
		Data []MeetingResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Len(t, listed.Data, 1)

	rec = serve(f, http.MethodPost, "/meetings", u1, CreateMeetingRequest{Title: "No duration"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerEncodesIDsAsStrings(t *testing.T) {
	f := newFixture(t)
	eventID := strconv.FormatInt(f.orgEvent.ID, 10)

	body := json.RawMessage(`{"event_id":"` + eventID + `","title":"Sync",` +
		`"scheduled_time":"2026-06-02T09:00:00Z","duration":30,"participants":["2"]}`)
	rec := serve(f, http.MethodPost, "/meetings", u1, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var raw struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	meetingID, ok := raw.Data["id"].(string)
	require.True(t, ok, "id must be a JSON string: %v", raw.Data["id"])
	assert.Equal(t, eventID, raw.Data["event_id"])
	assert.Equal(t, "1", raw.Data["created_by"])

	participants, ok := raw.Data["participants"].([]interface{})
	require.True(t, ok)
	require.Len(t, participants, 2)
	assert.Equal(t, "1", participants[0].(map[string]interface{})["user_id"])
	assert.Equal(t, "2", participants[1].(map[string]interface{})["user_id"])

	parsed, err := strconv.ParseInt(meetingID, 10, 64)
	require.NoError(t, err)
	assert.Greater(t, parsed, int64(1<<53), "snowflake ids exceed the float64 integer range")

	rec = serve(f, http.MethodGet, "/meetings/"+meetingID, u2, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(f, http.MethodDelete, "/meetings/"+meetingID, u1, json.RawMessage(`{"requesterId":"1"}`))
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = serve(f, http.MethodPost, "/meetings", u1, json.RawMessage(`{"event_id":`+eventID+`,"title":"Bare","scheduled_time":"2026-06-02T09:00:00Z","duration":30}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code, "bare numeric ids are rejected")
}
