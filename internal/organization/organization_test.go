package organization

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PlanifyOrg/planify/internal/database/dbtest"
	"github.com/PlanifyOrg/planify/pkg/middleware"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db := dbtest.OpenSqlite(t)
	return NewService(db, NewRepository(db), nil)
}

func createOrg(t *testing.T, svc *Service, creatorID int64) *Organization {
	t.Helper()
	o, err := svc.Create(context.Background(), creatorID, &CreateOrganizationRequest{Name: "Acme"})
	require.NoError(t, err)
	return o
}

func assertRole(t *testing.T, svc *Service, orgID, userID int64, member, admin bool) {
	t.Helper()
	ctx := context.Background()

	isMember, err := svc.IsMember(ctx, orgID, userID)
	require.NoError(t, err)
	assert.Equal(t, member, isMember, "member")

	isAdmin, err := svc.IsAdmin(ctx, orgID, userID)
	require.NoError(t, err)
	assert.Equal(t, admin, isAdmin, "admin")
}

func TestCreateMakesCreatorAdmin(t *testing.T) {
	svc := newTestService(t)
	o := createOrg(t, svc, 1)

	assert.Equal(t, DefaultSettings(), o.Settings)
	assertRole(t, svc, o.ID, 1, true, true)

	_, members, err := svc.GetByIDWithMembers(context.Background(), o.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, int64(1), members[0].UserID)
}

func TestCreateAppliesSettings(t *testing.T) {
	svc := newTestService(t)
	tz := "Europe/Berlin"
	invite := true

	o, err := svc.Create(context.Background(), 1, &CreateOrganizationRequest{
		Name:     "Acme",
		Settings: &SettingsPatch{Timezone: &tz, AllowMemberInviteUsers: &invite},
	})
	require.NoError(t, err)

	got, err := svc.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", got.Settings.Timezone)
	assert.True(t, got.Settings.AllowMemberInviteUsers)
	assert.True(t, got.Settings.AllowMemberCreateEvents)
}

func TestCreateRequiresName(t *testing.T) {
	_, err := newTestService(t).Create(context.Background(), 1, &CreateOrganizationRequest{Name: "  "})
	assert.ErrorIs(t, err, ErrInvalidOrganization)
}

func TestAddMemberIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	o := createOrg(t, svc, 1)

	require.NoError(t, svc.AddMember(ctx, o.ID, 2))
	require.NoError(t, svc.AddMember(ctx, o.ID, 2))

	members, err := svc.GetMembers(ctx, o.ID)
	require.NoError(t, err)
	assert.Len(t, members, 2)
	assertRole(t, svc, o.ID, 2, true, false)
}

func TestAddMemberKeepsAdmin(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	o := createOrg(t, svc, 1)

	require.NoError(t, svc.AddMember(ctx, o.ID, 1))
	assertRole(t, svc, o.ID, 1, true, true)
}

func TestRemoveMemberDropsAdmin(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	o := createOrg(t, svc, 1)

	require.NoError(t, svc.AddAdmin(ctx, o.ID, 2))
	assertRole(t, svc, o.ID, 2, true, true)

	require.NoError(t, svc.RemoveMember(ctx, o.ID, 2))
	assertRole(t, svc, o.ID, 2, false, false)
}

func TestAddAdminImpliesMember(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	o := createOrg(t, svc, 1)

	assertRole(t, svc, o.ID, 3, false, false)
	require.NoError(t, svc.AddAdmin(ctx, o.ID, 3))
	assertRole(t, svc, o.ID, 3, true, true)
}

func TestRemoveAdminKeepsMembership(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	o := createOrg(t, svc, 1)

	require.NoError(t, svc.AddAdmin(ctx, o.ID, 2))
	require.NoError(t, svc.RemoveAdmin(ctx, o.ID, 2))
	assertRole(t, svc, o.ID, 2, true, false)

	// The last admin may be removed.
	require.NoError(t, svc.RemoveAdmin(ctx, o.ID, 1))
	admins, err := svc.GetAdminIDs(ctx, o.ID)
	require.NoError(t, err)
	assert.Empty(t, admins)
}

func TestMembershipOnMissingOrganization(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	assert.ErrorIs(t, svc.AddMember(ctx, 42, 1), ErrOrganizationNotFound)
	assert.ErrorIs(t, svc.RemoveMember(ctx, 42, 1), ErrOrganizationNotFound)
	assert.ErrorIs(t, svc.AddAdmin(ctx, 42, 1), ErrOrganizationNotFound)
	assert.ErrorIs(t, svc.RemoveAdmin(ctx, 42, 1), ErrOrganizationNotFound)

	isAdmin, err := svc.IsAdmin(ctx, 42, 1)
	require.NoError(t, err)
	assert.False(t, isAdmin)
}

func TestAdminsAlwaysSubsetOfMembers(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	o := createOrg(t, svc, 1)

	rnd := rand.New(rand.NewSource(7))
	ops := []func(context.Context, int64, int64) error{
		svc.AddMember, svc.RemoveMember, svc.AddAdmin, svc.RemoveAdmin,
	}

	for i := 0; i < 200; i++ {
		userID := int64(rnd.Intn(5) + 1)
		require.NoError(t, ops[rnd.Intn(len(ops))](ctx, o.ID, userID))

		members, err := svc.GetMembers(ctx, o.ID)
		require.NoError(t, err)
		memberSet := map[int64]bool{}
		for _, m := range members {
			memberSet[m.UserID] = true
		}

		admins, err := svc.GetAdminIDs(ctx, o.ID)
		require.NoError(t, err)
		for _, a := range admins {
			require.True(t, memberSet[a], "admin %d is not a member after step %d", a, i)
		}
	}
}

func TestUpdateMergesSettings(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	o := createOrg(t, svc, 1)

	name := "Acme Corp"
	approval := true
	updated, err := svc.Update(ctx, o.ID, &UpdateOrganizationRequest{
		Name:     &name,
		Settings: &SettingsPatch{RequireEventApproval: &approval},
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", updated.Name)
	assert.True(t, updated.Settings.RequireEventApproval)
	assert.Equal(t, "UTC", updated.Settings.Timezone)

	_, err = svc.Update(ctx, 999, &UpdateOrganizationRequest{Name: &name})
	assert.ErrorIs(t, err, ErrOrganizationNotFound)
}

func TestDeleteCascadesMembers(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	o := createOrg(t, svc, 1)

	require.NoError(t, svc.Delete(ctx, o.ID))
	assertRole(t, svc, o.ID, 1, false, false)
	assert.ErrorIs(t, svc.Delete(ctx, o.ID), ErrOrganizationNotFound)
}

func TestListByUserID(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	a := createOrg(t, svc, 1)
	createOrg(t, svc, 2)

	orgs, err := svc.ListByUserID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, orgs, 1)
	assert.Equal(t, a.ID, orgs[0].ID)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestAdminEndpoints(t *testing.T) {
	svc := newTestService(t)
	o := createOrg(t, svc, 1)

	r := chi.NewRouter()
	r.Use(middleware.TestUserMiddleware)
	r.Mount("/organizations", NewHandler(svc).Routes())

	orgPath := "/organizations/" + strconv.FormatInt(o.ID, 10)
	body := func(userID int64) *bytes.Reader {
		b, _ := json.Marshal(MemberRequest{UserID: userID})
		return bytes.NewReader(b)
	}

	tests := []struct {
		name   string
		method string
		path   string
		body   *bytes.Reader
		status int
	}{
		{"add admin", http.MethodPost, orgPath + "/admins", body(2), http.StatusOK},
		{"add admin to missing org", http.MethodPost, "/organizations/999/admins", body(2), http.StatusNotFound},
		{"add admin without user", http.MethodPost, orgPath + "/admins", body(0), http.StatusBadRequest},
		{"remove admin", http.MethodDelete, orgPath + "/admins/2", nil, http.StatusOK},
		{"remove admin from missing org", http.MethodDelete, "/organizations/999/admins/2", nil, http.StatusNotFound},
		{"add member", http.MethodPost, orgPath + "/members", body(3), http.StatusOK},
		{"remove member", http.MethodDelete, orgPath + "/members/3", nil, http.StatusOK},
		{"get missing org", http.MethodGet, "/organizations/999", nil, http.StatusNotFound},
		{"get org", http.MethodGet, orgPath, nil, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if tt.body != nil {
				req = httptest.NewRequest(tt.method, tt.path, tt.body)
			} else {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}

	// user 2 was promoted then demoted, so is still a member
	assertRole(t, svc, o.ID, 2, true, false)
	assertRole(t, svc, o.ID, 3, false, false)
}
