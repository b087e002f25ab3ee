package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/alicebob/miniredis"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/picalc/internal/cache"
	"github.com/agbru/picalc/internal/chudnovsky"
	"github.com/agbru/picalc/internal/config"
	"github.com/agbru/picalc/internal/logging"
	"github.com/agbru/picalc/internal/service"
	"github.com/agbru/picalc/internal/service/mocks"
)

const pi20 = "3.14159265358979323846"

func testConfig() config.AppConfig {
	return config.AppConfig{
		Port:      "0",
		Threads:   2,
		Engine:    "split",
		MaxDigits: 10_000,
	}
}

func newTestServer(t *testing.T, cfg config.AppConfig, opts ...Option) *Server {
	t.Helper()
	opts = append([]Option{WithLogger(logging.Discard())}, opts...)
	s := NewServer(chudnovsky.NewDefaultFactory(), cfg, opts...)
	t.Cleanup(s.rateLimiter.Stop)
	return s
}

func do(t *testing.T, s *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, http.NoBody)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v), "body: %s", w.Body.String())
	return v
}

func TestHandlePi(t *testing.T) {
	calcErr := errors.New("calc error")
	tests := []struct {
		name       string
		query      string
		setup      func(m *mocks.MockService)
		wantStatus int
		check      func(t *testing.T, w *httptest.ResponseRecorder)
	}{
		{
			name:  "success with defaults",
			query: "?digits=20",
			setup: func(m *mocks.MockService) {
				m.EXPECT().Compute(gomock.Any(), "split", 20, 2).
					Return(service.Result{Digits: 20, Workers: 2, Engine: "split", Value: pi20, Duration: time.Millisecond}, nil)
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				resp := decode[PiResponse](t, w)
				assert.Equal(t, pi20, resp.Value)
				assert.Equal(t, 20, resp.Digits)
				assert.Equal(t, 2, resp.Threads)
				assert.Equal(t, "split", resp.Engine)
				assert.Equal(t, "1ms", resp.Duration)
				assert.Empty(t, resp.Error)
			},
		},
		{
			name:  "explicit threads and engine",
			query: "?digits=5&threads=8&engine=forkjoin",
			setup: func(m *mocks.MockService) {
				m.EXPECT().Compute(gomock.Any(), "forkjoin", 5, 8).
					Return(service.Result{Engine: "forkjoin", Value: "3.14159", Cached: true}, nil)
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				resp := decode[PiResponse](t, w)
				assert.True(t, resp.Cached)
				assert.Equal(t, "forkjoin", resp.Engine)
			},
		},
		{
			name:  "engine all falls back to the default engine",
			query: "?digits=5&engine=all",
			setup: func(m *mocks.MockService) {
				m.EXPECT().Compute(gomock.Any(), config.DefaultEngine, 5, 2).Return(service.Result{Value: "3.14159"}, nil)
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert.Equal(t, config.DefaultEngine, decode[PiResponse](t, w).Engine)
			},
		},
		{
			name:       "unknown engine",
			query:      "?digits=10&engine=nope",
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert.Contains(t, decode[ErrorResponse](t, w).Message, "Invalid 'engine' parameter: must be one of [forkjoin, split]")
			},
		},
		{
			name:       "missing digits",
			query:      "",
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert.Contains(t, decode[ErrorResponse](t, w).Message, "Missing 'digits'")
			},
		},
		{name: "invalid digits", query: "?digits=abc", wantStatus: http.StatusBadRequest},
		{name: "negative digits", query: "?digits=-1", wantStatus: http.StatusBadRequest},
		{name: "zero threads", query: "?digits=10&threads=0", wantStatus: http.StatusBadRequest},
		{name: "too many threads", query: "?digits=10&threads=1025", wantStatus: http.StatusBadRequest},
		{
			name:  "over the limit",
			query: "?digits=20000",
			setup: func(m *mocks.MockService) {
				m.EXPECT().Compute(gomock.Any(), "split", 20000, 2).Return(service.Result{}, service.ErrMaxDigitsExceeded)
			},
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				assert.Contains(t, decode[ErrorResponse](t, w).Message, "exceeds maximum allowed (10000)")
			},
		},
		{
			name:  "calculation error",
			query: "?digits=10",
			setup: func(m *mocks.MockService) {
				m.EXPECT().Compute(gomock.Any(), "split", 10, 2).Return(service.Result{}, calcErr)
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				resp := decode[PiResponse](t, w)
				assert.Equal(t, "calc error", resp.Error)
				assert.Empty(t, resp.Value)
				assert.Equal(t, "split", resp.Engine)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := mocks.NewMockService(ctrl)
			if tt.setup != nil {
				tt.setup(svc)
			}
			s := newTestServer(t, testConfig(), WithService(svc))

			w := do(t, s, http.MethodGet, "/pi"+tt.query)
			assert.Equal(t, tt.wantStatus, w.Code, "body: %s", w.Body.String())
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			if tt.check != nil {
				tt.check(t, w)
			}
		})
	}
}

func TestHandlePi_Timeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	release := make(chan struct{})
	defer close(release)
	svc.EXPECT().Compute(gomock.Any(), "split", 10, 2).DoAndReturn(
		func(context.Context, string, int, int) (service.Result, error) {
			<-release
			return service.Result{Value: "3.1415926535"}, nil
		})

	timeouts := DefaultServerTimeouts()
	timeouts.RequestTimeout = 20 * time.Millisecond
	s := newTestServer(t, testConfig(), WithService(svc), WithTimeouts(timeouts))

	w := do(t, s, http.MethodGet, "/pi?digits=10")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[PiResponse](t, w)
	assert.Contains(t, resp.Error, "did not finish in time")
}

func TestHandlePi_EndToEndWithRedis(t *testing.T) {
	mock, err := miniredis.Run()
	require.NoError(t, err)
	defer mock.Close()
	rc := cache.NewRedisCache(mock.Addr())
	defer rc.Close()

	s := newTestServer(t, testConfig(), WithCache(rc))

	first := decode[PiResponse](t, do(t, s, http.MethodGet, "/pi?digits=20&threads=3"))
	assert.Equal(t, pi20, first.Value)
	assert.Equal(t, "split", first.Engine)
	assert.False(t, first.Cached)

	second := decode[PiResponse](t, do(t, s, http.MethodGet, "/pi?digits=20&engine=forkjoin"))
	assert.Equal(t, pi20, second.Value)
	assert.Equal(t, "forkjoin", second.Engine)
	assert.True(t, second.Cached)

	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/pi?digits=20&engine=nope").Code)
}

func TestHandlePi_MaxDigitsOption(t *testing.T) {
	s := newTestServer(t, testConfig(), WithMaxDigits(10))
	w := do(t, s, http.MethodGet, "/pi?digits=11")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/pi?digits=10").Code)
}

func TestHandleEngines(t *testing.T) {
	s := newTestServer(t, testConfig())
	w := do(t, s, http.MethodGet, "/engines")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string][]string](t, w)
	assert.Equal(t, []string{"forkjoin", "split"}, body["engines"])
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t, testConfig())
	w := do(t, s, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]any](t, w)
	assert.Equal(t, "healthy", body["status"])
	assert.NotZero(t, body["timestamp"])
}

func TestHandleMetrics(t *testing.T) {
	s := newTestServer(t, testConfig())
	do(t, s, http.MethodGet, "/health")
	w := do(t, s, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `picalc_requests_total{code="200",route="/health"}`)
	assert.Contains(t, body, "picalc_active_requests")
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, testConfig())
	for _, path := range []string{"/pi?digits=1", "/engines", "/health", "/metrics"} {
		w := do(t, s, http.MethodPost, path)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, path)
	}
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	s := newTestServer(t, testConfig(), WithLogger(logging.NewLogger(&buf, "server")))
	do(t, s, http.MethodGet, "/health")

	var event map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &event), buf.String())
	assert.Equal(t, "request completed", event["message"])
	assert.Equal(t, "/health", event["path"])
	assert.Equal(t, "server", event["component"])
}

func TestWriteJSONResponse_EncodingError(t *testing.T) {
	s := newTestServer(t, testConfig())
	w := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		s.writeJSONResponse(w, http.StatusOK, map[string]any{"bad": make(chan int)})
	})
}

func TestServer_Start_ContextCancel(t *testing.T) {
	s := newTestServer(t, testConfig())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_Start_Signal(t *testing.T) {
	s := newTestServer(t, testConfig())
	done := make(chan error, 1)
	go func() { done <- s.Start(context.Background()) }()

	time.Sleep(100 * time.Millisecond)
	s.shutdownSignal <- syscall.SIGTERM

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_Start_BadPort(t *testing.T) {
	cfg := testConfig()
	cfg.Port = "-1"
	s := newTestServer(t, cfg)
	err := s.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server failed to start")
}

func TestServe_RealListener(t *testing.T) {
	s := newTestServer(t, testConfig())
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/pi?digits=20")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), pi20)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
}
