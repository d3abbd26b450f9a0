package ginx_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jimyag/jfm/pkg/apierror"
	"github.com/jimyag/jfm/pkg/ginx"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validationError struct {
	Message string
}

func (e *validationError) Error() string {
	return e.Message
}

// ValidatedArgs 用于测试 IsValid 方法
type ValidatedArgs struct {
	SystemID string `json:"system_id" form:"system_id"`
}

func (args *ValidatedArgs) IsValid() error {
	if args.SystemID == "" {
		return &validationError{Message: "system_id is required"}
	}
	return nil
}

type requiredArgs struct {
	Name string `json:"name" binding:"required"`
	Size int64  `json:"size"`
}

type result struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ginx.RequestID())
	return router
}

func post(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(http.MethodPost, path, nil)
	} else {
		req = httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) *apierror.ErrorResponse {
	t.Helper()
	var resp apierror.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Errors)
	return &resp
}

func TestAdapt5(t *testing.T) {
	t.Parallel()

	handler := func(c *gin.Context, args *requiredArgs) (*result, error) {
		switch args.Name {
		case "missing":
			return nil, apierror.WrapError(apierror.ErrNodeNotFound, "node missing not found", nil)
		case "busy":
			return nil, fmt.Errorf("dispatch: %w", apierror.ErrStorageActionNotAllowed)
		case "fields":
			return nil, apierror.ErrBackendRequestFailed.WithFields(map[string][]string{"name": {"This field is required."}})
		case "boom":
			return nil, errors.New("boom")
		case "empty":
			return nil, nil
		}
		return &result{Name: args.Name, Size: args.Size}, nil
	}

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
		wantResult *result
		wantFields map[string][]string
	}{
		{
			name:       "success",
			body:       `{"name":"sda","size":1024}`,
			wantStatus: http.StatusOK,
			wantResult: &result{Name: "sda", Size: 1024},
		},
		{
			name:       "missing required field",
			body:       `{"size":1024}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "InvalidParameter",
		},
		{
			name:       "malformed json",
			body:       `{"name":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "InvalidParameter",
		},
		{
			name:       "api error uses its status",
			body:       `{"name":"missing"}`,
			wantStatus: http.StatusNotFound,
			wantCode:   "InvalidNodeID.NotFound",
		},
		{
			name:       "wrapped api error",
			body:       `{"name":"busy"}`,
			wantStatus: http.StatusConflict,
			wantCode:   "StorageActionNotAllowed",
		},
		{
			name:       "field errors are rendered",
			body:       `{"name":"fields"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "BackendRequestFailed",
			wantFields: map[string][]string{"name": {"This field is required."}},
		},
		{
			name:       "plain error is internal",
			body:       `{"name":"boom"}`,
			wantStatus: http.StatusInternalServerError,
			wantCode:   "InternalError",
		},
		{
			name:       "nil result is no content",
			body:       `{"name":"empty"}`,
			wantStatus: http.StatusNoContent,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			router := newRouter()
			router.POST("/api/test", ginx.Adapt5(handler))

			w := post(router, "/api/test", tc.body)
			assert.Equal(t, tc.wantStatus, w.Code)

			if tc.wantResult != nil {
				var got result
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
				assert.Equal(t, *tc.wantResult, got)
			}
			if tc.wantCode != "" {
				resp := decodeError(t, w)
				assert.Equal(t, tc.wantCode, resp.Errors[0].Code)
				assert.NotEmpty(t, resp.RequestID)
				assert.Equal(t, tc.wantFields, resp.Errors[0].Fields)
			}
		})
	}
}

func TestAdapt5_IsValid(t *testing.T) {
	t.Parallel()

	router := newRouter()
	router.POST("/api/test", ginx.Adapt5(func(c *gin.Context, args *ValidatedArgs) (*ValidatedArgs, error) {
		return args, nil
	}))

	w := post(router, "/api/test", `{"system_id":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "system_id is required", resp.Errors[0].Message)

	w = post(router, "/api/test", `{"system_id":"abc123"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"system_id":"abc123"}`, w.Body.String())
}

func TestAdapt5_EmptyBodyUsesQuery(t *testing.T) {
	t.Parallel()

	router := newRouter()
	router.POST("/api/test", ginx.Adapt5(func(c *gin.Context, args *ValidatedArgs) (*ValidatedArgs, error) {
		return args, nil
	}))

	w := post(router, "/api/test?system_id=abc123", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"system_id":"abc123"}`, w.Body.String())
}

func TestAdapt3(t *testing.T) {
	t.Parallel()

	router := newRouter()
	router.POST("/api/list", ginx.Adapt3(func(c *gin.Context) ([]string, error) {
		return []string{"sda", "sdb"}, nil
	}))
	router.POST("/api/fail", ginx.Adapt3(func(c *gin.Context) ([]string, error) {
		return nil, apierror.ErrBackendUnavailable
	}))

	w := post(router, "/api/list", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["sda","sdb"]`, w.Body.String())

	w = post(router, "/api/fail", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	router := newRouter()
	router.POST("/api/test", ginx.Adapt3(func(c *gin.Context) (string, error) {
		return ginx.GetRequestID(c), nil
	}))

	w := post(router, "/api/test", "")
	generated := w.Header().Get(ginx.HeaderRequestID)
	assert.NotEmpty(t, generated)
	assert.JSONEq(t, fmt.Sprintf("%q", generated), w.Body.String())

	req := httptest.NewRequest(http.MethodPost, "/api/test", nil)
	req.Header.Set(ginx.HeaderRequestID, "caller-id")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "caller-id", w.Header().Get(ginx.HeaderRequestID))
}

func TestLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := zerolog.New(&buf)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ginx.RequestID(), ginx.Logger(base))
	router.POST("/api/test", ginx.Adapt3(func(c *gin.Context) (string, error) {
		zerolog.Ctx(c.Request.Context()).Info().Msg("inside handler")
		return "ok", nil
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/test", nil)
	req.Header.Set(ginx.HeaderRequestID, "req-42")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var handlerLine, accessLine map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &handlerLine))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &accessLine))

	assert.Equal(t, "inside handler", handlerLine["message"])
	assert.Equal(t, "req-42", handlerLine["requestID"])
	assert.Equal(t, "Request handled", accessLine["message"])
	assert.Equal(t, float64(http.StatusOK), accessLine["status"])
	assert.Equal(t, "/api/test", accessLine["path"])
}
