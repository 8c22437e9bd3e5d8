package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"purefood/internal/config"
	"purefood/internal/kvstore"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: "0", Env: "test"},
		JWT:    config.JWTConfig{Secret: "test-secret", AccessExpiry: 60},
		RateLimit: config.RateLimitConfig{
			Requests: 2,
			Window:   time.Minute,
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://shop.example"}},
	}
}

func TestHealthReportsVolatileStorage(t *testing.T) {
	router := NewRouter(testConfig(), zap.NewNop(), kvstore.NewVolatile(zap.NewNop()), nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "volatile", body["storage"])
}

func TestHealthReportsDurableStorage(t *testing.T) {
	logger := zap.NewNop()
	store := kvstore.New(t.Context(), kvstore.NewMemoryMedium(), logger)
	router := NewRouter(testConfig(), logger, store, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Contains(t, w.Body.String(), `"durable"`)
}

func TestRoutesAreRegistered(t *testing.T) {
	router := NewRouter(testConfig(), zap.NewNop(), kvstore.NewVolatile(zap.NewNop()), nil)

	cases := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/api/products", http.StatusOK},
		{http.MethodGet, "/api/products/categories", http.StatusOK},
		{http.MethodGet, "/api/products/missing", http.StatusNotFound},
		{http.MethodPost, "/api/products", http.StatusUnauthorized},
		{http.MethodGet, "/api/orders", http.StatusUnauthorized},
		{http.MethodGet, "/api/orders/stats", http.StatusUnauthorized},
		{http.MethodGet, "/api/orders/track", http.StatusBadRequest},
		{http.MethodGet, "/api/orders/missing", http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
			assert.Equal(t, tc.status, w.Code, w.Body.String())
		})
	}
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	router := NewRouter(testConfig(), zap.NewNop(), kvstore.NewVolatile(zap.NewNop()), nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
	req.Header.Set("Origin", "http://shop.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "http://shop.example", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimitingIsWiredWhenLimiterGiven(t *testing.T) {
	mr := miniredis.RunT(t)
	limiter := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer limiter.Close()

	router := NewRouter(testConfig(), zap.NewNop(), kvstore.NewVolatile(zap.NewNop()), limiter)

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		statuses = append(statuses, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)
}

func TestNewServerClosesStorage(t *testing.T) {
	cfg := testConfig()
	closer := &recordingCloser{}
	srv := NewServer(cfg, zap.NewNop(), kvstore.NewVolatile(zap.NewNop()), closer)

	assert.Equal(t, ":0", srv.Addr)
	require.NoError(t, srv.Close())
	assert.True(t, closer.closed)
}

type recordingCloser struct {
	closed bool
}

func (c *recordingCloser) Close() error {
	c.closed = true
	return nil
}
