package joinrequest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PlanifyOrg/planify/internal/database"
	"github.com/PlanifyOrg/planify/internal/database/dbtest"
	"github.com/PlanifyOrg/planify/internal/organization"
	"github.com/PlanifyOrg/planify/pkg/apperror"
	"github.com/PlanifyOrg/planify/pkg/middleware"
)

type fixture struct {
	svc  *Service
	orgs *organization.Service
	org  *organization.Organization
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.OpenSqlite(t)
	orgRepo := organization.NewRepository(db)
	orgs := organization.NewService(db, orgRepo, nil)

	org, err := orgs.Create(context.Background(), 1, &organization.CreateOrganizationRequest{Name: "O1"})
	require.NoError(t, err)

	return &fixture{
		svc:  NewService(db, NewRepository(db), orgRepo, nil),
		orgs: orgs,
		org:  org,
	}
}

func (f *fixture) isMember(t *testing.T, userID int64) bool {
	t.Helper()
	ok, err := f.orgs.IsMember(context.Background(), f.org.ID, userID)
	require.NoError(t, err)
	return ok
}

func (f *fixture) isAdmin(t *testing.T, userID int64) bool {
	t.Helper()
	ok, err := f.orgs.IsAdmin(context.Background(), f.org.ID, userID)
	require.NoError(t, err)
	return ok
}

func TestCreatePending(t *testing.T) {
	f := newFixture(t)

	j, err := f.svc.Create(context.Background(), f.org.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, j.Status)
	assert.Nil(t, j.ReviewedAt)
	assert.Nil(t, j.ReviewedBy)

	got, err := f.svc.GetByID(context.Background(), j.ID)
	require.NoError(t, err)
	assert.Equal(t, j.UserID, got.UserID)
	assert.Equal(t, StatusPending, got.Status)
}

func TestCreateRejectsDuplicatePending(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Create(ctx, f.org.ID, 2)
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, f.org.ID, 2)
	assert.ErrorIs(t, err, ErrDuplicatePending)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	pending, err := f.svc.ListPending(ctx, f.org.ID)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestCreateRejectsMembers(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), f.org.ID, 1)
	assert.ErrorIs(t, err, ErrAlreadyMember)
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestCreateForMissingOrganization(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), 999, 2)
	assert.ErrorIs(t, err, organization.ErrOrganizationNotFound)
}

func TestApprove(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	j, err := f.svc.Create(ctx, f.org.ID, 2)
	require.NoError(t, err)

	require.NoError(t, f.svc.Approve(ctx, j.ID, 1))
	assert.True(t, f.isMember(t, 2))
	assert.False(t, f.isAdmin(t, 2))

	got, err := f.svc.GetByID(ctx, j.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, got.Status)
	require.NotNil(t, got.ReviewedAt)
	require.NotNil(t, got.ReviewedBy)
	assert.Equal(t, int64(1), *got.ReviewedBy)

	assert.ErrorIs(t, f.svc.Approve(ctx, j.ID, 1), ErrAlreadyReviewed)
	assert.ErrorIs(t, f.svc.Reject(ctx, j.ID, 1), ErrAlreadyReviewed)
}

func TestApproveMissingRequest(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.svc.Approve(context.Background(), 404, 1), ErrJoinRequestNotFound)
	assert.ErrorIs(t, f.svc.Reject(context.Background(), 404, 1), ErrJoinRequestNotFound)
}

func TestRejectLeavesMembershipUntouched(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	j, err := f.svc.Create(ctx, f.org.ID, 2)
	require.NoError(t, err)

	require.NoError(t, f.svc.Reject(ctx, j.ID, 1))
	assert.False(t, f.isMember(t, 2))

	got, err := f.svc.GetByID(ctx, j.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, got.Status)
	assert.NotNil(t, got.ReviewedAt)

	// A rejected user may ask again.
	_, err = f.svc.Create(ctx, f.org.ID, 2)
	assert.NoError(t, err)
}

type failingAdder struct{ err error }

func (f failingAdder) AddMember(context.Context, int64, int64) error { return f.err }

func TestApproveIsAtomic(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	j, err := f.svc.Create(ctx, f.org.ID, 2)
	require.NoError(t, err)

	boom := errors.New("membership insert failed")
	f.svc.members = func(database.Handler) MemberAdder { return failingAdder{err: boom} }

	err = f.svc.Approve(ctx, j.ID, 1)
	require.ErrorIs(t, err, boom)

	got, err := f.svc.GetByID(ctx, j.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, got.Status)
	assert.Nil(t, got.ReviewedAt)
	assert.Nil(t, got.ReviewedBy)
	assert.False(t, f.isMember(t, 2))
}

func TestConcurrentApprovalsHaveOneWinner(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	j, err := f.svc.Create(ctx, f.org.ID, 2)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = f.svc.Approve(ctx, j.ID, 1)
		}(i)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrAlreadyReviewed):
			conflicts++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, conflicts)
}

func TestMembershipLifecycleScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	const u1, u2 = int64(1), int64(2)

	assert.True(t, f.isMember(t, u1))
	assert.True(t, f.isAdmin(t, u1))

	r1, err := f.svc.Create(ctx, f.org.ID, u2)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, r1.Status)

	require.NoError(t, f.svc.Approve(ctx, r1.ID, u1))
	assert.True(t, f.isMember(t, u2))
	r1, err = f.svc.GetByID(ctx, r1.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, r1.Status)

	require.NoError(t, f.orgs.AddAdmin(ctx, f.org.ID, u2))
	assert.True(t, f.isAdmin(t, u2))

	require.NoError(t, f.orgs.RemoveMember(ctx, f.org.ID, u2))
	assert.False(t, f.isAdmin(t, u2))
	assert.False(t, f.isMember(t, u2))
}

func newRouter(f *fixture) chi.Router {
	h := NewHandler(f.svc)
	r := chi.NewRouter()
	r.Use(middleware.TestUserMiddleware)
	r.Mount("/organizations/{id}/join-requests", h.OrganizationRoutes())
	r.Mount("/join-requests", h.Routes())
	return r
}

func do(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, &buf))
	return rec
}

func TestHandlerStatusCodes(t *testing.T) {
	f := newFixture(t)
	r := newRouter(f)
	orgPath := "/organizations/" + strconv.FormatInt(f.org.ID, 10) + "/join-requests"

	rec := do(r, http.MethodPost, orgPath, CreateRequest{UserID: 2})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Data JoinRequestResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	reqPath := "/join-requests/" + strconv.FormatInt(created.Data.ID, 10)

	rec = do(r, http.MethodPost, orgPath, CreateRequest{UserID: 2})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "duplicate pending")

	rec = do(r, http.MethodPost, orgPath, CreateRequest{UserID: 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "already member")

	rec = do(r, http.MethodGet, orgPath, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(r, http.MethodGet, reqPath, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(r, http.MethodPost, reqPath+"/approve", ReviewRequest{ReviewerID: 1})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(r, http.MethodPost, reqPath+"/reject", ReviewRequest{ReviewerID: 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "already reviewed")

	rec = do(r, http.MethodPost, "/join-requests/999/approve", ReviewRequest{ReviewerID: 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "missing request")

	rec = do(r, http.MethodGet, "/join-requests/999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerDefaultsToCaller(t *testing.T) {
	f := newFixture(t)
	r := newRouter(f)
	orgPath := "/organizations/" + strconv.FormatInt(f.org.ID, 10) + "/join-requests"

	req := httptest.NewRequest(http.MethodPost, orgPath, nil)
	req.Header.Set(middleware.TestUserHeader, "5")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	pending, err := f.svc.ListPending(context.Background(), f.org.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, int64(5), pending[0].UserID)
}

func TestHandlerReviewAsAnotherUserForbidden(t *testing.T) {
	f := newFixture(t)
	r := newRouter(f)
	ctx := context.Background()

	j, err := f.svc.Create(ctx, f.org.ID, 5)
	require.NoError(t, err)
	reqPath := "/join-requests/" + strconv.FormatInt(j.ID, 10)

	review := func(action string, asUser int64, body string) int {
		req := httptest.NewRequest(http.MethodPost, reqPath+"/"+action, strings.NewReader(body))
		req.Header.Set(middleware.TestUserHeader, strconv.FormatInt(asUser, 10))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusForbidden, review("approve", 5, `{"reviewerId":"1"}`))
	assert.Equal(t, http.StatusForbidden, review("reject", 5, `{"reviewerId":"1"}`))

	pending, err := f.svc.ListPending(ctx, f.org.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	assert.Equal(t, http.StatusOK, review("approve", 1, `{"reviewerId":"1"}`))
}
