package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jimyag/jfm/pkg/apierror"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	api     *API
	node    *MockNodeService
	storage *MockStorageService
	pod     *MockPodService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	s := &testServer{
		node:    new(MockNodeService),
		storage: new(MockStorageService),
		pod:     new(MockPodService),
	}
	api, err := New(s.node, s.storage, s.pod, "127.0.0.1:0", zerolog.Nop())
	require.NoError(t, err)
	s.api = api

	t.Cleanup(func() {
		s.node.AssertExpectations(t)
		s.storage.AssertExpectations(t)
		s.pod.AssertExpectations(t)
	})
	return s
}

// post 发送 JSON 请求，body 为 nil 时不带请求体
func (s *testServer) post(t *testing.T, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(http.MethodPost, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.api.engine.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apierror.Error {
	t.Helper()

	var resp apierror.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Errors, 1)
	assert.NotEmpty(t, resp.RequestID)
	return resp.Errors[0]
}

func TestNew(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	assert.NotNil(t, s.api.engine)
	assert.NotNil(t, s.api.server)
	assert.Equal(t, "127.0.0.1:0", s.api.server.Addr)

	routes := make(map[string]string)
	for _, route := range s.api.engine.Routes() {
		routes[route.Path] = route.Method
	}

	for _, path := range []string{
		"/api/list-nodes", "/api/describe-node", "/api/sync-nodes",
		"/api/describe-node-storage", "/api/describe-storage-bulk-actions",
		"/api/select-all-storage", "/api/describe-next-storage-name",
		"/api/create-partition", "/api/create-volume-group", "/api/create-raid",
		"/api/create-cache-set", "/api/create-bcache", "/api/create-logical-volume",
		"/api/create-datastore", "/api/update-datastore", "/api/set-boot-disk",
		"/api/update-disk", "/api/delete-disk", "/api/delete-partition",
		"/api/delete-volume-group", "/api/describe-storage-requests", "/api/reset-storage-request-status",
		"/api/register-pod", "/api/list-pods", "/api/delete-pod",
		"/api/describe-pod-storage-pools",
	} {
		assert.Equal(t, http.MethodPost, routes[path], "route %s", path)
	}
}

func TestAPI_Name(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	assert.Equal(t, "API Server", s.api.Name())
}

func TestAPI_RunAndShutdown(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.api.Run(context.Background())
	}()

	// 等待服务器启动
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.api.Shutdown(ctx))

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Shutdown")
	}
}

func TestAPI_RunStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.api.Run(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}

func TestAPI_RequestIDHeader(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	s.pod.On("ListPods", mockCtx).Return(nil, nil)

	w := s.post(t, "/api/list-pods", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.JSONEq(t, `{"pods":[]}`, w.Body.String())
}
