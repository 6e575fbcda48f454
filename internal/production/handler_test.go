package production

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/plastline/plastline-ops/internal/platform/httpx"
	"github.com/plastline/plastline-ops/internal/shared"
	_ "github.com/plastline/plastline-ops/testing"
)

func newAPIRouter(repo *fakeRunRepo) chi.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(repo, newTestRefs(), nil, logger)
	h := NewHandler(logger, svc, nil, nil, nil)
	r := chi.NewRouter()
	h.MountAPI(r)
	return r
}

func doCreate(t *testing.T, r chi.Router, body string, userID string) (*httptest.ResponseRecorder, httpx.Envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/production-runs", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		sess := &shared.Session{}
		sess.SetUser(userID)
		req = req.WithContext(shared.ContextWithSession(req.Context(), sess))
	}
	res := httptest.NewRecorder()
	r.ServeHTTP(res, req)

	var envelope httpx.Envelope
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &envelope))
	return res, envelope
}

func TestCreateRunUnauthenticated(t *testing.T) {
	r := newAPIRouter(&fakeRunRepo{})
	res, envelope := doCreate(t, r, `{}`, "")
	require.Equal(t, http.StatusUnauthorized, res.Code)
	require.False(t, envelope.Success)
	require.Equal(t, "Unauthorized", envelope.Error)
}

func TestCreateRunInvalidJSON(t *testing.T) {
	r := newAPIRouter(&fakeRunRepo{})
	res, envelope := doCreate(t, r, `{not json`, "user-1")
	require.Equal(t, http.StatusBadRequest, res.Code)
	require.Equal(t, "Invalid JSON body", envelope.Error)
}

func TestCreateRunValidationMessage(t *testing.T) {
	r := newAPIRouter(&fakeRunRepo{})
	res, envelope := doCreate(t, r, `{"product_id":"prod-fg","machine_id":"mach-active","shift":"WEEKEND"}`, "user-1")
	require.Equal(t, http.StatusBadRequest, res.Code)
	require.Equal(t, "shift must be DAY or NIGHT", envelope.Error)
}

func TestCreateRunSuccess(t *testing.T) {
	repo := &fakeRunRepo{}
	r := newAPIRouter(repo)

	body := `{
		"product_id": "prod-fg",
		"machine_id": "mach-active",
		"shift": "NIGHT",
		"target_quantity": 1000,
		"actual_pieces_produced": 980,
		"waste_quantity": 4,
		"raw_material_bags_used": 2,
		"master_batch_bags_used": 1
	}`
	res, envelope := doCreate(t, r, body, "user-1")
	require.Equal(t, http.StatusCreated, res.Code)
	require.True(t, envelope.Success)

	data, ok := envelope.Data.(map[string]any)
	require.True(t, ok)
	require.Equal(t, "run-1", data["id"])

	require.Len(t, repo.inserted, 1)
	require.Equal(t, "user-1", repo.inserted[0].CreatedBy)
}

func TestCreateRunOmittedCounterRejected(t *testing.T) {
	// An absent counter must not default to zero and slip through as a
	// zero-piece run.
	repo := &fakeRunRepo{}
	r := newAPIRouter(repo)
	body := `{"product_id":"prod-fg","machine_id":"mach-active","shift":"DAY","raw_material_bags_used":2,"master_batch_bags_used":1}`
	res, envelope := doCreate(t, r, body, "user-1")
	require.Equal(t, http.StatusBadRequest, res.Code)
	require.Equal(t, "actual_pieces_produced must be a non-negative number", envelope.Error)
	require.Empty(t, repo.inserted)
}

func TestCreateRunPersistenceFailure(t *testing.T) {
	r := newAPIRouter(&fakeRunRepo{insertErr: errors.New("connection refused")})
	body := `{"product_id":"prod-fg","machine_id":"mach-active","shift":"DAY","actual_pieces_produced":10,"raw_material_bags_used":0,"master_batch_bags_used":0}`
	res, envelope := doCreate(t, r, body, "user-1")
	require.Equal(t, http.StatusInternalServerError, res.Code)
	require.Equal(t, "Failed to create production run", envelope.Error)
}
