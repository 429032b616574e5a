package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cuongbtq/accessflow-be/internal/api/auth"
	"github.com/cuongbtq/accessflow-be/internal/api/handler"
	"github.com/cuongbtq/accessflow-be/internal/domain"
	"github.com/cuongbtq/accessflow-be/internal/events"
	"github.com/cuongbtq/accessflow-be/internal/service"
	"github.com/cuongbtq/accessflow-be/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	t      *testing.T
	engine *gin.Engine
	store  *storage.MemoryStore
	token  string
	loc    *time.Location
}

type serverOption func(deps *handler.Dependencies, opts *Options)

func withWebhookToken(token string) serverOption {
	return func(deps *handler.Dependencies, _ *Options) { deps.WebhookToken = token }
}

func withHealth(h handler.HealthChecker) serverOption {
	return func(deps *handler.Dependencies, _ *Options) { deps.Health = h }
}

func withOrigins(origins ...string) serverOption {
	return func(_ *handler.Dependencies, opts *Options) { opts.AllowedOrigins = origins }
}

func newTestServer(t *testing.T, options ...serverOption) *testServer {
	t.Helper()

	loc, err := service.LoadLocation(service.DefaultLocation)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := storage.NewMemoryStore()
	publisher := events.Nop{}

	repo := service.NewJobRepository(store, publisher, loc, logger)
	deps := &handler.Dependencies{
		Logger:      logger,
		ServiceName: "accessflow-api",
		Jobs:        repo,
		Transitions: service.NewStatusEngine(store, publisher, logger),
		Lifecycle:   service.NewLifecycle(store, publisher, logger),
		Lister:      service.NewLister(store, loc),
		Updater:     service.NewStatusUpdater(store, repo, service.MatchFirst, logger),
		Prefs:       service.NewPrefsService(store, service.DefaultHeartbeatThrottle, logger),
		Health:      store,
	}

	verifier := auth.NewJWT("test-secret", "accessflow")
	opts := Options{Verifier: verifier}
	for _, o := range options {
		o(deps, &opts)
	}

	token, err := verifier.Sign("user-1", time.Hour)
	require.NoError(t, err)

	return &testServer{
		t:      t,
		engine: SetupRouter(deps, opts),
		store:  store,
		token:  token,
		loc:    loc,
	}
}

func (s *testServer) do(method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (s *testServer) today() string {
	return time.Now().In(s.loc).Format(time.DateOnly)
}

func (s *testServer) createJob(name, deliveryDate string) *domain.Job {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/v1/jobs", map[string]any{
		"clockNumberMediaName": name,
		"deliveryDate":         deliveryDate,
		"services": []map[string]string{
			{"name": "Closed Captions", "subService": "Original"},
		},
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[*domain.Job](s.t, w)
}

func (s *testServer) setStatus(id string, status domain.Status) {
	s.t.Helper()
	w := s.do(http.MethodPut, "/api/v1/jobs/"+id+"/status", map[string]string{"status": string(status)})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
}

func (s *testServer) getJob(id string) *domain.Job {
	s.t.Helper()
	w := s.do(http.MethodGet, "/api/v1/jobs/"+id, nil)
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	return decode[*domain.Job](s.t, w)
}

func TestHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		s := newTestServer(t)
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		s.engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "healthy")
		assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	})

	t.Run("store down", func(t *testing.T) {
		s := newTestServer(t, withHealth(failingPinger{}))
		w := s.do(http.MethodGet, "/health", nil)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "unhealthy")
	})
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("connection refused") }

func TestAuthMiddleware(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/v1/jobs", nil, "Authorization", "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/v1/jobs", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateJob(t *testing.T) {
	s := newTestServer(t)

	t.Run("new jobs start Booked", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/v1/jobs", map[string]any{
			"clockNumberMediaName": "ABC123/Trailer",
			"deliveryDate":         "2026-11-01",
			"status":               "Finished",
			"creator":              "JD",
			"services": []map[string]string{
				{"name": "Other", "customName": "Sign review"},
			},
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		job := decode[*domain.Job](t, w)
		assert.Equal(t, domain.StatusBooked, job.Status)
		assert.Equal(t, "JD", job.Creator)
		assert.NoError(t, uuid.Validate(job.ID))
		assert.Equal(t, job.CreatedAt, job.UpdatedAt)
	})

	tests := []struct {
		name      string
		body      any
		wantField string
	}{
		{
			name:      "missing services",
			body:      map[string]any{"clockNumberMediaName": "A/1", "deliveryDate": "2026-11-01"},
			wantField: "services",
		},
		{
			name: "lowercase creator",
			body: map[string]any{
				"clockNumberMediaName": "A/1", "deliveryDate": "2026-11-01", "creator": "jd",
				"services": []map[string]string{{"name": "BSL"}},
			},
			wantField: "creator",
		},
		{
			name:      "missing name",
			body:      map[string]any{"deliveryDate": "2026-11-01", "services": []map[string]string{{"name": "BSL"}}},
			wantField: "clockNumberMediaName",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(http.MethodPost, "/api/v1/jobs", tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code)

			body := decode[struct {
				Fields map[string]string `json:"fields"`
			}](t, w)
			assert.Contains(t, body.Fields, tt.wantField)
		})
	}

	t.Run("domain validation", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/v1/jobs", map[string]any{
			"clockNumberMediaName": "A/1", "deliveryDate": "next tuesday",
			"services": []map[string]string{{"name": "BSL"}},
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "deliveryDate", decode[map[string]any](t, w)["field"])
	})

	t.Run("malformed json", func(t *testing.T) {
		w := s.do(http.MethodPost, "/api/v1/jobs", `{"clockNumberMediaName":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetJob(t *testing.T) {
	s := newTestServer(t)
	job := s.createJob("ABC123/Trailer", "2026-11-01")

	assert.Equal(t, job.ID, s.getJob(job.ID).ID)

	w := s.do(http.MethodGet, "/api/v1/jobs/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/v1/jobs/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateJob(t *testing.T) {
	s := newTestServer(t)
	job := s.createJob("ABC123/Trailer", "2026-11-01")

	w := s.do(http.MethodPatch, "/api/v1/jobs/"+job.ID, map[string]any{"client": "Acme", "priority": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[*domain.Job](t, w)
	assert.Equal(t, "Acme", updated.Client)
	assert.True(t, updated.Priority)
	assert.Equal(t, "ABC123/Trailer", updated.ClockNumberMediaName)

	w = s.do(http.MethodPatch, "/api/v1/jobs/"+job.ID, map[string]any{"services": []any{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPatch, "/api/v1/jobs/"+job.ID, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateJob_BillingAmounts(t *testing.T) {
	s := newTestServer(t)
	job := s.createJob("ABC123/Trailer", "2026-11-01")

	tests := []struct {
		name     string
		body     string
		wantRate *float64
		wantAdj  *float64
	}{
		{name: "sets amounts", body: `{"rate": 120.5, "adjusted": 99}`, wantRate: ptr(120.5), wantAdj: ptr(99.0)},
		{name: "absent keeps amounts", body: `{"billingnotes": "net 30"}`, wantRate: ptr(120.5), wantAdj: ptr(99.0)},
		{name: "null clears only rate", body: `{"rate": null}`, wantAdj: ptr(99.0)},
		{name: "null clears adjusted", body: `{"adjusted": null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(http.MethodPatch, "/api/v1/jobs/"+job.ID, tt.body)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			var raw map[string]json.RawMessage
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
			assert.Contains(t, raw, "rate")
			assert.Contains(t, raw, "adjusted")

			got := s.getJob(job.ID)
			assert.Equal(t, tt.wantRate, got.Rate)
			assert.Equal(t, tt.wantAdj, got.Adjusted)
		})
	}

	w := s.do(http.MethodPatch, "/api/v1/jobs/"+job.ID, `{"rate": "free"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func ptr[T any](v T) *T { return &v }

func TestWebhook_StatusUpdate(t *testing.T) {
	s := newTestServer(t)
	job := s.createJob("ABC123/Trailer", "2026-11-01")
	s.setStatus(job.ID, domain.StatusEncoded)

	w := s.do(http.MethodPost, "/api/v1/webhooks/status-update", map[string]string{"clockNumber": "ABC123", "newStatus": "Shipped"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Bad Request")
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Equal(t, domain.StatusEncoded, s.getJob(job.ID).Status)

	w = s.do(http.MethodPost, "/api/v1/webhooks/status-update", map[string]string{"clockNumber": "ABC123", "newStatus": "Delivered"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), job.ID)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")

	stored := s.getJob(job.ID)
	assert.Equal(t, domain.StatusDelivered, stored.Status)
	assert.True(t, stored.UpdatedAt.After(job.UpdatedAt) || stored.UpdatedAt.Equal(job.UpdatedAt))

	tests := []struct {
		name string
		body any
		want int
	}{
		{"missing clock number", map[string]string{"newStatus": "Delivered"}, http.StatusBadRequest},
		{"missing status", map[string]string{"clockNumber": "ABC123"}, http.StatusBadRequest},
		{"not json", "clockNumber=ABC123", http.StatusBadRequest},
		{"no such clock number", map[string]string{"clockNumber": "ZZZ999", "newStatus": "Delivered"}, http.StatusNotFound},
		{"prefix without slash boundary", map[string]string{"clockNumber": "ABC12", "newStatus": "Delivered"}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(http.MethodPost, "/api/v1/webhooks/status-update", tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestWebhook_DoesNotNeedUserToken(t *testing.T) {
	s := newTestServer(t)
	s.createJob("ABC123/Trailer", "2026-11-01")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/status-update",
		bytes.NewBufferString(`{"clockNumber":"ABC123","newStatus":"Received"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestWebhook_Token(t *testing.T) {
	s := newTestServer(t, withWebhookToken("hook-secret"))
	s.createJob("ABC123/Trailer", "2026-11-01")
	body := map[string]string{"clockNumber": "ABC123", "newStatus": "Received"}

	w := s.do(http.MethodPost, "/api/v1/webhooks/status-update", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/v1/webhooks/status-update", body, handler.WebhookTokenHeader, "wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/v1/webhooks/status-update", body, handler.WebhookTokenHeader, "hook-secret")
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestAdvance_GuardAndEnds(t *testing.T) {
	s := newTestServer(t)
	job := s.createJob("ABC123/Trailer", "2026-11-01")

	w := s.do(http.MethodPost, "/api/v1/jobs/"+job.ID+"/retreat", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/api/v1/jobs/"+job.ID+"/advance", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.StatusReceived, decode[*domain.Job](t, w).Status)

	s.setStatus(job.ID, domain.StatusDelivered)

	w = s.do(http.MethodPost, "/api/v1/jobs/"+job.ID+"/advance", nil)
	require.Equal(t, http.StatusPreconditionFailed, w.Code)
	body := decode[struct {
		Unmet []string `json:"unmet"`
	}](t, w)
	assert.Len(t, body.Unmet, 2)
	assert.Equal(t, domain.StatusDelivered, s.getJob(job.ID).Status)

	w = s.do(http.MethodPatch, "/api/v1/jobs/"+job.ID, map[string]any{"inSAP": true, "commercialDescription": "30s TV spot"})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/api/v1/jobs/"+job.ID+"/advance", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.StatusFinished, decode[*domain.Job](t, w).Status)

	w = s.do(http.MethodPost, "/api/v1/jobs/"+job.ID+"/advance", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPut, "/api/v1/jobs/"+job.ID+"/status", map[string]string{"status": "Shipped"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBoard(t *testing.T) {
	s := newTestServer(t)
	yesterday := time.Now().In(s.loc).AddDate(0, 0, -1).Format(time.DateOnly)
	s.createJob("A-Media", s.today())
	s.createJob("Z-Media", yesterday)

	w := s.do(http.MethodGet, "/api/v1/jobs/board/open", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	type card struct {
		ClockNumberMediaName string `json:"clockNumberMediaName"`
		Bucket               string `json:"bucket"`
		Overdue              bool   `json:"overdue"`
	}
	board := decode[struct {
		Group   string `json:"group"`
		Today   string `json:"today"`
		Columns []struct {
			Status string `json:"status"`
			Count  int    `json:"count"`
			Cards  []card `json:"cards"`
		} `json:"columns"`
	}](t, w)

	assert.Equal(t, "open", board.Group)
	assert.Equal(t, s.today(), board.Today)
	require.Len(t, board.Columns, 4)
	assert.Equal(t, "Booked", board.Columns[0].Status)
	assert.Equal(t, []card{
		{ClockNumberMediaName: "Z-Media", Bucket: "overdue", Overdue: true},
		{ClockNumberMediaName: "A-Media", Bucket: "today", Overdue: false},
	}, board.Columns[0].Cards)
	assert.NotNil(t, board.Columns[3].Cards)

	w = s.do(http.MethodGet, "/api/v1/jobs/board/archived", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListJobs(t *testing.T) {
	s := newTestServer(t)
	a := s.createJob("ABC123/Trailer", "2026-11-01")
	b := s.createJob("XYZ789/Cutdown", "2026-11-05")
	s.setStatus(b.ID, domain.StatusFinished)

	type listResponse struct {
		Jobs  []*domain.Job `json:"jobs"`
		Count int           `json:"count"`
		Sort  struct {
			Field     string `json:"field"`
			Direction string `json:"direction"`
		} `json:"sort"`
	}

	w := s.do(http.MethodGet, "/api/v1/jobs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	all := decode[listResponse](t, w)
	assert.Equal(t, 2, all.Count)
	assert.Equal(t, "updatedAt", all.Sort.Field)
	assert.Equal(t, "desc", all.Sort.Direction)
	assert.Equal(t, b.ID, all.Jobs[0].ID)

	w = s.do(http.MethodGet, "/api/v1/jobs?status=Booked,Received&sort_by=clockNumberMediaName", nil)
	require.Equal(t, http.StatusOK, w.Code)
	open := decode[listResponse](t, w)
	require.Equal(t, 1, open.Count)
	assert.Equal(t, a.ID, open.Jobs[0].ID)
	assert.Equal(t, "asc", open.Sort.Direction)

	w = s.do(http.MethodGet, "/api/v1/jobs?q=cutdown&delivery_start=2026-11-02&delivery_end=2026-11-05", nil)
	require.Equal(t, http.StatusOK, w.Code)
	found := decode[listResponse](t, w)
	require.Equal(t, 1, found.Count)
	assert.Equal(t, b.ID, found.Jobs[0].ID)

	for _, q := range []string{"status=Shipped", "sort_by=services", "sort_by=client&sort_direction=up", "delivery_start=soon"} {
		w = s.do(http.MethodGet, "/api/v1/jobs?"+q, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func TestSoftDeleteRestorePurge(t *testing.T) {
	s := newTestServer(t)
	job := s.createJob("ABC123/Trailer", "2026-11-01")
	s.setStatus(job.ID, domain.StatusEncoded)

	w := s.do(http.MethodDelete, "/api/v1/jobs/"+job.ID, map[string]string{"reason": "booked twice"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	tombstone := decode[struct {
		ID              string    `json:"id"`
		OriginalJobID   string    `json:"originalJobId"`
		DeletedBy       string    `json:"deletedBy"`
		DeletionReason  string    `json:"deletionReason"`
		DeletedAt       time.Time `json:"deletedAt"`
		PurgeEligibleAt time.Time `json:"purgeEligibleAt"`
	}](t, w)
	assert.Equal(t, job.ID, tombstone.OriginalJobID)
	assert.Equal(t, "user-1", tombstone.DeletedBy)
	assert.Equal(t, "booked twice", tombstone.DeletionReason)
	assert.True(t, tombstone.PurgeEligibleAt.Equal(tombstone.DeletedAt.Add(domain.TombstoneRetention)))

	w = s.do(http.MethodGet, "/api/v1/jobs/"+job.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/v1/deleted-jobs?original_job_id="+job.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode[map[string]any](t, w)["count"])

	w = s.do(http.MethodGet, "/api/v1/deleted-jobs?original_job_id=nope", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/v1/deleted-jobs/"+tombstone.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/v1/deleted-jobs/reconcile", nil)
	require.Equal(t, http.StatusOK, w.Code)
	report := decode[service.ReconcileReport](t, w)
	assert.Equal(t, 1, report.Tombstones)
	assert.Empty(t, report.OrphanedTombstones)

	w = s.do(http.MethodPost, "/api/v1/deleted-jobs/"+tombstone.ID+"/restore", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	restoredID := decode[map[string]string](t, w)["jobId"]
	assert.NotEqual(t, job.ID, restoredID)

	restored := s.getJob(restoredID)
	assert.Equal(t, domain.StatusEncoded, restored.Status)
	assert.Equal(t, "ABC123/Trailer", restored.ClockNumberMediaName)

	w = s.do(http.MethodGet, "/api/v1/deleted-jobs/"+tombstone.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// delete without a body, then purge
	w = s.do(http.MethodDelete, "/api/v1/jobs/"+restoredID, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	second := decode[map[string]any](t, w)["id"].(string)

	w = s.do(http.MethodDelete, "/api/v1/deleted-jobs/"+second, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(http.MethodDelete, "/api/v1/deleted-jobs/"+second, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/v1/deleted-jobs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decode[map[string]any](t, w)["count"])
}

func TestDuplicateJob(t *testing.T) {
	s := newTestServer(t)
	job := s.createJob("ABC123/Trailer", "2026-11-01")
	s.setStatus(job.ID, domain.StatusDelivered)

	w := s.do(http.MethodPost, "/api/v1/jobs/"+job.ID+"/duplicate", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	dup := decode[*domain.Job](t, w)
	assert.NotEqual(t, job.ID, dup.ID)
	assert.Equal(t, domain.StatusBooked, dup.Status)
	assert.Equal(t, job.ClockNumberMediaName, dup.ClockNumberMediaName)
}

func TestPrefs(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/v1/me/prefs", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPut, "/api/v1/me/prefs", map[string]any{"initials": "jd"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "initials")

	w = s.do(http.MethodPut, "/api/v1/me/prefs", map[string]any{"initials": "JD", "jobFormServiceHeight": 320})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	prefs := decode[domain.UserPrefs](t, w)
	assert.Equal(t, "user-1", prefs.UserID)
	assert.Equal(t, "JD", prefs.Initials)

	// new jobs pick up the creator initials
	job := s.createJob("ABC123/Trailer", "2026-11-01")
	assert.Equal(t, "JD", job.Creator)

	w = s.do(http.MethodPost, "/api/v1/me/heartbeat", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode[map[string]bool](t, w)["recorded"])

	w = s.do(http.MethodPost, "/api/v1/me/heartbeat", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode[map[string]bool](t, w)["recorded"])
}

func TestCORSMiddleware(t *testing.T) {
	t.Run("any origin when none configured", func(t *testing.T) {
		s := newTestServer(t)
		w := s.do(http.MethodOptions, "/api/v1/jobs", nil, "Origin", "http://example.com")
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("allow list", func(t *testing.T) {
		s := newTestServer(t, withOrigins("http://localhost:5173"))

		w := s.do(http.MethodOptions, "/api/v1/jobs", nil, "Origin", "http://localhost:5173")
		assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

		w = s.do(http.MethodOptions, "/api/v1/jobs", nil, "Origin", "http://evil.example")
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRequestIDMiddleware_KeepsCallerID(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/health", nil, RequestIDHeader, "req-42")
	assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
}
