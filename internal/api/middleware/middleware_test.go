package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/metrics"
)

const secret = "test-secret"

func echoActor() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := GetActor(r.Context())
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		w.Header().Set("X-Role", string(actor.Role))
		w.WriteHeader(http.StatusNoContent)
	})
}

func serveWithToken(t *testing.T, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	Auth(secret, logger.NewNop())(echoActor()).ServeHTTP(rec, req)
	return rec
}

func TestAuth_ValidToken(t *testing.T) {
	token, err := NewAccessToken(secret, domain.Actor{UserID: 42, Role: domain.RoleOwner}, time.Hour)
	require.NoError(t, err)

	rec := serveWithToken(t, token)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "owner", rec.Header().Get("X-Role"))

	actor, err := ParseToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), actor.UserID)
}

func TestAuth_Rejects(t *testing.T) {
	good := domain.Actor{UserID: 42, Role: domain.RoleCustomer}

	wrongSecret, err := NewAccessToken("other", good, time.Hour)
	require.NoError(t, err)
	expired, err := NewAccessToken(secret, good, -time.Minute)
	require.NoError(t, err)
	badRole, err := NewAccessToken(secret, domain.Actor{UserID: 42, Role: "waiter"}, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "missing", token: ""},
		{name: "garbage", token: "not-a-jwt"},
		{name: "wrong secret", token: wrongSecret},
		{name: "expired", token: expired},
		{name: "unknown role", token: badRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serveWithToken(t, tt.token)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestSubjectID(t *testing.T) {
	id, err := subjectID(float64(7))
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	id, err = subjectID("15")
	require.NoError(t, err)
	assert.Equal(t, int64(15), id)

	_, err = subjectID("-1")
	assert.Error(t, err)
	_, err = subjectID(nil)
	assert.Error(t, err)
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	const given = "8f14e45f-ceea-467f-a0e6-7e2f5c6a9b10"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, given)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, given, seen)
}

func TestMetricsMiddleware(t *testing.T) {
	m := metrics.NewWithRegisterer("middleware_test", prometheus.NewRegistry())

	r := mux.NewRouter()
	r.Use(MetricsMiddleware(m))
	r.HandleFunc("/items/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/1", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/2", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/items/{id}", "404")))
}
