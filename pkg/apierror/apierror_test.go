package apierror_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jimyag/jfm/pkg/apierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		testFunc func(*testing.T)
	}{
		{
			name: "Error_Error",
			testFunc: func(t *testing.T) {
				t.Parallel()
				err := apierror.NewError("TestError", "test message")
				assert.Equal(t, "[TestError] test message", err.Error())
				assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus)
			},
		},
		{
			name: "Error_Error_WithRawError",
			testFunc: func(t *testing.T) {
				t.Parallel()
				err := apierror.WrapError(apierror.ErrNodeNotFound, "node abc not found", fmt.Errorf("raw error"))
				assert.Equal(t, "[InvalidNodeID.NotFound] node abc not found (RawError: raw error)", err.Error())
				assert.Equal(t, http.StatusNotFound, err.HTTPStatus)
			},
		},
		{
			name: "Error_Is_SameCode",
			testFunc: func(t *testing.T) {
				t.Parallel()
				err := apierror.WrapError(apierror.ErrStorageActionNotAllowed, "disk 1 cannot be partitioned", nil)
				assert.True(t, errors.Is(err, apierror.ErrStorageActionNotAllowed))
				assert.False(t, errors.Is(err, apierror.ErrNodeNotFound))
			},
		},
		{
			name: "Error_Is_WrappedByFmt",
			testFunc: func(t *testing.T) {
				t.Parallel()
				err := fmt.Errorf("dispatch: %w", apierror.WrapError(apierror.ErrBackendUnavailable, "not connected", nil))
				assert.True(t, errors.Is(err, apierror.ErrBackendUnavailable))

				var apiErr *apierror.Error
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, http.StatusServiceUnavailable, apiErr.HTTPStatus)
			},
		},
		{
			name: "Error_Unwrap",
			testFunc: func(t *testing.T) {
				t.Parallel()
				rawErr := errors.New("raw")
				err := apierror.WrapError(apierror.ErrInternalError, "boom", rawErr)
				assert.Equal(t, rawErr, errors.Unwrap(err))
				assert.Nil(t, errors.Unwrap(apierror.NewError("A", "b")))
			},
		},
		{
			name: "Error_WithFields_DoesNotMutateBase",
			testFunc: func(t *testing.T) {
				t.Parallel()
				fields := map[string][]string{"name": {"This field is required."}}
				err := apierror.WrapError(apierror.ErrBackendRequestFailed, "create raid failed", nil).WithFields(fields)
				assert.Equal(t, fields, err.Fields)
				assert.Nil(t, apierror.ErrBackendRequestFailed.Fields)
			},
		},
		{
			name: "Error_JSON_Marshal",
			testFunc: func(t *testing.T) {
				t.Parallel()
				err := apierror.WrapError(apierror.ErrBackendRequestFailed, "failed", errors.New("secret")).
					WithFields(map[string][]string{"size": {"Too big."}})
				data, marshalErr := json.Marshal(err)
				require.NoError(t, marshalErr)
				assert.JSONEq(t, `{"code":"BackendRequestFailed","message":"failed","fields":{"size":["Too big."]}}`, string(data))
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, tt.testFunc)
	}
}

func TestErrorResponse(t *testing.T) {
	t.Parallel()

	resp := apierror.NewErrorResponse("req-1", apierror.NewError("A", "first"))
	resp.AddError(apierror.NewError("B", "second"))
	assert.Equal(t, "RequestID: req-1; [A] first; [B] second", resp.Error())

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"errors":[{"code":"A","message":"first"},{"code":"B","message":"second"}],"requestID":"req-1"}`, string(data))
}
