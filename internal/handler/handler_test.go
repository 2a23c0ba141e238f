package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realty-dashboard/internal/app"
	"realty-dashboard/internal/config"
	"realty-dashboard/internal/handler"
	"realty-dashboard/internal/model"
	"realty-dashboard/internal/ws"
	"realty-dashboard/pkg/database"
)

type stubRenderer struct {
	err error
}

func (s *stubRenderer) Render(ctx context.Context, html []byte) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []byte("%PDF-1.7 stub"), nil
}

type testServer struct {
	t        *testing.T
	app      *app.App
	fiber    *fiber.App
	renderer *stubRenderer
	token    string // platform admin
}

func newServer(t *testing.T) *testServer {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)

	log := logrus.New()
	log.SetOutput(io.Discard)

	cfg := &config.Config{}
	cfg.Stats.Period = "12m"
	cfg.Report.MaxWidgets = 20
	cfg.Report.TopLimit = 5

	renderer := &stubRenderer{}
	a, err := app.New(cfg, db, log, ws.Discard{}, renderer)
	require.NoError(t, err)
	require.NoError(t, a.Seeder().Seed("root@example.com", "secret123"))

	f := fiber.New()
	handler.Register(f, a.Handlers(nil))

	s := &testServer{t: t, app: a, fiber: f, renderer: renderer}
	s.token = s.login("root@example.com", "secret123")
	return s
}

func (s *testServer) do(method, path, token, agency string, body interface{}) (int, map[string]interface{}, []byte) {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if agency != "" {
		req.Header.Set("X-Agency-ID", agency)
	}

	resp, err := s.fiber.Test(req, -1)
	require.NoError(s.t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)

	var out map[string]interface{}
	_ = json.Unmarshal(raw, &out)
	return resp.StatusCode, out, raw
}

func (s *testServer) login(email, password string) string {
	s.t.Helper()
	status, out, _ := s.do(http.MethodPost, "/api/v1/auth/login", "", "", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(s.t, 200, status)
	return out["token"].(string)
}

func (s *testServer) createAgency(name string) string {
	s.t.Helper()
	status, out, _ := s.do(http.MethodPost, "/api/v1/agencies", s.token, "", map[string]interface{}{
		"name": name, "rla_number": "RLA-" + name,
	})
	require.Equal(s.t, 201, status)
	return out["data"].(map[string]interface{})["id"].(string)
}

// agencyUser creates and logs in a user of the given role inside agency.
func (s *testServer) agencyUser(agency, email, roleCode string) string {
	s.t.Helper()
	role, err := s.app.Roles.FindByCode(roleCode)
	require.NoError(s.t, err)
	status, _, raw := s.do(http.MethodPost, "/api/v1/users", s.token, "", map[string]interface{}{
		"email": email, "password": "secret123", "full_name": "Staff",
		"role_id": role.ID, "agency_id": agency,
	})
	require.Equal(s.t, 201, status, string(raw))
	return s.login(email, "secret123")
}

func TestAuth(t *testing.T) {
	s := newServer(t)

	status, _, _ := s.do(http.MethodPost, "/api/v1/auth/login", "", "", map[string]string{
		"email": "root@example.com", "password": "wrong",
	})
	assert.Equal(t, 401, status)

	status, out, _ := s.do(http.MethodGet, "/api/v1/agencies", "", "", nil)
	assert.Equal(t, 401, status)
	assert.Equal(t, "Missing authorization token", out["error"])

	status, out, _ = s.do(http.MethodPost, "/api/v1/auth/login", "", "", map[string]string{
		"email": "not-an-email", "password": "x",
	})
	assert.Equal(t, 400, status)
	assert.Contains(t, out["error"], "email")

	status, _, _ = s.do(http.MethodPost, "/api/v1/auth/heartbeat", s.token, "", nil)
	assert.Equal(t, 200, status)

	status, _, _ = s.do(http.MethodPost, "/api/v1/auth/validate-token", s.token, "", nil)
	assert.Equal(t, 200, status)

	// A second login replaces the first session.
	old := s.token
	s.token = s.login("root@example.com", "secret123")
	status, _, _ = s.do(http.MethodGet, "/api/v1/agencies", old, "", nil)
	assert.Equal(t, 401, status)
}

func TestTenantHeader(t *testing.T) {
	s := newServer(t)
	agency := s.createAgency("Harbour")

	status, out, _ := s.do(http.MethodGet, "/api/v1/transactions", s.token, "", nil)
	assert.Equal(t, 400, status)
	assert.Equal(t, "Missing X-Agency-ID header", out["error"])

	status, _, _ = s.do(http.MethodGet, "/api/v1/transactions", s.token, "not-a-uuid", nil)
	assert.Equal(t, 400, status)

	status, out, _ = s.do(http.MethodGet, "/api/v1/transactions", s.token, agency, nil)
	assert.Equal(t, 200, status)
	assert.Equal(t, float64(0), out["total"])
}

func TestTransactions(t *testing.T) {
	s := newServer(t)
	agency := s.createAgency("Harbour")

	status, out, _ := s.do(http.MethodPost, "/api/v1/agents", s.token, agency, map[string]interface{}{
		"name": "Jane Citizen", "email": "jane@harbour.test",
	})
	require.Equal(t, 201, status)
	agentID := out["data"].(map[string]interface{})["id"].(string)

	for _, price := range []string{"650000", "1200000", "480000"} {
		status, _, raw := s.do(http.MethodPost, "/api/v1/transactions", s.token, agency, map[string]interface{}{
			"agent_id": agentID, "address": "1 Jetty Rd", "suburb": "Glenelg",
			"property_type": "House", "price": price, "status": "listed",
		})
		require.Equal(t, 201, status, string(raw))
	}

	status, out, _ = s.do(http.MethodGet, "/api/v1/transactions?sortBy=price&sortDirection=desc&pageSize=2&search=jane", s.token, agency, nil)
	require.Equal(t, 200, status)
	assert.Equal(t, float64(3), out["total"])
	assert.Equal(t, float64(2), out["totalPages"])
	assert.Equal(t, float64(2), out["pageSize"])
	data := out["data"].([]interface{})
	require.Len(t, data, 2)
	first := data[0].(map[string]interface{})
	assert.Equal(t, "1200000", first["price"])

	// Direction is case-insensitive; anything else falls back to the default.
	status, out, _ = s.do(http.MethodGet, "/api/v1/transactions?sortBy=price&sortDirection=DESC", s.token, agency, nil)
	require.Equal(t, 200, status)
	assert.Equal(t, "1200000", out["data"].([]interface{})[0].(map[string]interface{})["price"])
	assert.Equal(t, "desc", out["sort"].(map[string]interface{})["direction"])

	status, out, _ = s.do(http.MethodGet, "/api/v1/transactions?sortBy=price&sortDirection=sideways", s.token, agency, nil)
	require.Equal(t, 200, status)
	assert.Equal(t, "480000", out["data"].([]interface{})[0].(map[string]interface{})["price"])

	id := first["id"].(string)
	status, out, _ = s.do(http.MethodPatch, "/api/v1/transactions/"+id+"/status", s.token, agency, map[string]interface{}{
		"status": "sold",
	})
	require.Equal(t, 200, status)
	assert.NotNil(t, out["data"].(map[string]interface{})["transaction_date"])

	status, _, _ = s.do(http.MethodGet, "/api/v1/transactions?status=sold", s.token, agency, nil)
	assert.Equal(t, 200, status)

	status, out, _ = s.do(http.MethodPost, "/api/v1/transactions", s.token, agency, map[string]interface{}{
		"address": "2 Jetty Rd", "property_type": "House", "price": "1", "status": "listed",
		"listed_date": "2025-05-01", "transaction_date": "2025-04-01",
	})
	assert.Equal(t, 400, status)
	assert.Contains(t, out["error"], "transaction_date")

	status, _, _ = s.do(http.MethodGet, "/api/v1/transactions/"+agentID, s.token, agency, nil)
	assert.Equal(t, 404, status)

	// Another agency does not see the rows.
	other := s.createAgency("Other")
	status, out, _ = s.do(http.MethodGet, "/api/v1/transactions", s.token, other, nil)
	require.Equal(t, 200, status)
	assert.Equal(t, float64(0), out["total"])
	status, _, _ = s.do(http.MethodDelete, "/api/v1/transactions/"+id, s.token, other, nil)
	assert.Equal(t, 404, status)
}

func TestAgencyUserIsPinnedToTenant(t *testing.T) {
	s := newServer(t)
	agency := s.createAgency("Harbour")
	other := s.createAgency("Other")
	viewer := s.agencyUser(agency, "viewer@harbour.test", model.RoleAgencyViewer)

	// No header needed, and a foreign header is refused.
	status, _, _ := s.do(http.MethodGet, "/api/v1/transactions", viewer, "", nil)
	assert.Equal(t, 200, status)
	status, _, _ = s.do(http.MethodGet, "/api/v1/transactions", viewer, other, nil)
	assert.Equal(t, 403, status)

	// Viewers read but do not write.
	status, out, _ := s.do(http.MethodPost, "/api/v1/transactions", viewer, "", map[string]interface{}{
		"address": "1 A St", "property_type": "House", "price": "1", "status": "listed",
	})
	assert.Equal(t, 403, status)
	assert.Contains(t, out["error"], "transaction:manage")

	status, _, _ = s.do(http.MethodGet, "/api/v1/agencies", viewer, "", nil)
	assert.Equal(t, 403, status)
}

func TestSettings(t *testing.T) {
	s := newServer(t)
	agency := s.createAgency("Harbour")

	status, _, raw := s.do(http.MethodPut, "/api/v1/settings/primary_color", s.token, agency, map[string]string{
		"category": "branding", "value": "#0a2540",
	})
	require.Equal(t, 200, status, string(raw))

	status, _, _ = s.do(http.MethodPut, "/api/v1/settings", s.token, agency, map[string]interface{}{
		"settings": []map[string]string{
			{"category": "general", "key": "timezone", "value": "Australia/Adelaide"},
			{"category": "nope", "key": "x", "value": "y"},
		},
	})
	assert.Equal(t, 400, status)

	status, out, _ := s.do(http.MethodGet, "/api/v1/settings/primary_color", s.token, agency, nil)
	require.Equal(t, 200, status)
	assert.Equal(t, "#0a2540", out["value"])

	status, _, _ = s.do(http.MethodGet, "/api/v1/settings/timezone", s.token, agency, nil)
	assert.Equal(t, 404, status)

	status, _, _ = s.do(http.MethodGet, "/api/v1/settings?category=nope", s.token, agency, nil)
	assert.Equal(t, 400, status)
}

func TestStatsEndpoints(t *testing.T) {
	s := newServer(t)
	agency := s.createAgency("Harbour")

	status, out, _ := s.do(http.MethodGet, "/api/v1/stats", s.token, agency, nil)
	require.Equal(t, 200, status)
	assert.Equal(t, "0", out["total_revenue"])

	status, _, _ = s.do(http.MethodPost, "/api/v1/stats/update", s.token, agency, nil)
	assert.Equal(t, 200, status)

	status, _, _ = s.do(http.MethodGet, "/api/v1/stats/monthly?period=6m", s.token, agency, nil)
	assert.Equal(t, 200, status)
	status, _, _ = s.do(http.MethodGet, "/api/v1/stats/monthly?period=fortnight", s.token, agency, nil)
	assert.Equal(t, 400, status)

	status, _, _ = s.do(http.MethodGet, "/api/v1/agents/performance", s.token, agency, nil)
	assert.Equal(t, 200, status)

	status, out, _ = s.do(http.MethodGet, "/api/v1/dashboard/overview", s.token, agency, nil)
	assert.Equal(t, 200, status)
	assert.Contains(t, out, "status_counts")
}

func reportBody() map[string]interface{} {
	return map[string]interface{}{
		"title":  "Monthly review",
		"period": "30d",
		"widgets": []map[string]interface{}{
			{"id": "a", "type": "total_sold"},
			{"id": "b", "type": "avg_price"},
			{"id": "c", "type": "page_break"},
			{"id": "d", "type": "section_title", "text": "Team"},
			{"id": "e", "type": "sparkline"},
		},
	}
}

func TestReports(t *testing.T) {
	s := newServer(t)
	agency := s.createAgency("Harbour")

	status, out, _ := s.do(http.MethodGet, "/api/v1/reports/widgets", s.token, agency, nil)
	require.Equal(t, 200, status)
	assert.NotEmpty(t, out["data"])

	status, out, raw := s.do(http.MethodPost, "/api/v1/reports/compose", s.token, agency, reportBody())
	require.Equal(t, 200, status, string(raw))
	rows := out["rows"].([]interface{})
	require.NotEmpty(t, rows)

	status, _, raw = s.do(http.MethodPost, "/api/v1/reports/export", s.token, agency, reportBody())
	require.Equal(t, 200, status)
	assert.Equal(t, "%PDF-1.7 stub", string(raw))

	s.renderer.err = errors.New("chrome exited")
	status, out, _ = s.do(http.MethodPost, "/api/v1/reports/export", s.token, agency, reportBody())
	assert.Equal(t, 502, status)
	assert.Equal(t, "export failed", out["error"])

	bad := reportBody()
	bad["widgets"] = []map[string]interface{}{}
	status, _, _ = s.do(http.MethodPost, "/api/v1/reports/compose", s.token, agency, bad)
	assert.Equal(t, 400, status)
}

func TestUsersAndRoles(t *testing.T) {
	s := newServer(t)
	agency := s.createAgency("Harbour")
	admin := s.agencyUser(agency, "boss@harbour.test", model.RoleAgencyAdmin)

	status, _, raw := s.do(http.MethodGet, "/api/v1/users", admin, "", nil)
	require.Equal(t, 200, status)
	var users []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &users))
	assert.Len(t, users, 1)

	status, _, raw = s.do(http.MethodGet, "/api/v1/privileges", admin, "", nil)
	require.Equal(t, 200, status)
	assert.NotContains(t, string(raw), model.PrivAgencySwitch)

	status, _, raw = s.do(http.MethodGet, "/api/v1/roles", admin, "", nil)
	require.Equal(t, 200, status)
	assert.NotContains(t, string(raw), model.RolePlatformAdmin)
}
