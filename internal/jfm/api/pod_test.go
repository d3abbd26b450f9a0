package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/jimyag/jfm/internal/jfm/entity"
	"github.com/jimyag/jfm/pkg/apierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPodAPI_RegisterPod(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		name         string
		body         any
		mockSetup    func(*MockPodService)
		expectStatus int
		expectCode   string
	}{
		{
			name: "register pod",
			body: &entity.RegisterPodRequest{Name: "kvm01", URI: "qemu+ssh://kvm01/system"},
			mockSetup: func(m *MockPodService) {
				m.On("RegisterPod", mockCtx, &entity.RegisterPodRequest{Name: "kvm01", URI: "qemu+ssh://kvm01/system"}).
					Return(&entity.Pod{ID: "pod-1", Name: "kvm01", URI: "qemu+ssh://kvm01/system"}, nil)
			},
			expectStatus: http.StatusOK,
		},
		{
			name: "duplicate name",
			body: &entity.RegisterPodRequest{Name: "kvm01"},
			mockSetup: func(m *MockPodService) {
				m.On("RegisterPod", mockCtx, &entity.RegisterPodRequest{Name: "kvm01"}).
					Return(nil, apierror.WrapError(apierror.ErrPodAlreadyExists, "pod kvm01 already exists", nil))
			},
			expectStatus: http.StatusConflict,
			expectCode:   apierror.ErrPodAlreadyExists.Code,
		},
		{
			name:         "missing name",
			body:         map[string]any{"uri": "qemu:///system"},
			mockSetup:    func(*MockPodService) {},
			expectStatus: http.StatusBadRequest,
			expectCode:   "InvalidParameter",
		},
	}

	for _, tc := range testcases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s := newTestServer(t)
			tc.mockSetup(s.pod)

			w := s.post(t, "/api/register-pod", tc.body)
			assert.Equal(t, tc.expectStatus, w.Code)
			if tc.expectCode != "" {
				assert.Equal(t, tc.expectCode, decodeError(t, w).Code)
				return
			}

			var resp entity.RegisterPodResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "pod-1", resp.Pod.ID)
		})
	}
}

func TestPodAPI_DeletePod(t *testing.T) {
	t.Parallel()

	t.Run("delete existing pod", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		s.pod.On("DeletePod", mockCtx, "pod-1").Return(nil)

		w := s.post(t, "/api/delete-pod", entity.DeletePodRequest{PodID: "pod-1"})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"return":true}`, w.Body.String())
	})

	t.Run("delete missing pod", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		s.pod.On("DeletePod", mockCtx, "pod-404").
			Return(apierror.WrapError(apierror.ErrPodNotFound, "pod pod-404 not found", nil))

		w := s.post(t, "/api/delete-pod", entity.DeletePodRequest{PodID: "pod-404"})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, apierror.ErrPodNotFound.Code, decodeError(t, w).Code)
	})
}

func TestPodAPI_ListPods(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	s.pod.On("ListPods", mockCtx).Return([]*entity.Pod{{ID: "pod-1", Name: "kvm01"}}, nil)

	w := s.post(t, "/api/list-pods", map[string]any{})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp entity.ListPodsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Pods, 1)
	assert.Equal(t, "kvm01", resp.Pods[0].Name)
}

func TestPodAPI_DescribePodStoragePools(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	disks := []entity.ComposeDisk{{Size: 5_000_000_000, Location: "default"}}
	s.pod.On("DescribePodStoragePools", mockCtx, "pod-1", disks).Return([]entity.PoolUsage{
		{
			Pool:      entity.PodStoragePool{Name: "default"},
			Allocated: 10_000_000_000,
			Requested: 5_000_000_000,
			Free:      5_000_000_000,
			Total:     20_000_000_000,
		},
	}, nil)

	w := s.post(t, "/api/describe-pod-storage-pools", entity.DescribePodStoragePoolsRequest{PodID: "pod-1", Disks: disks})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp entity.DescribePodStoragePoolsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Pools, 1)
	assert.Equal(t, uint64(5_000_000_000), resp.Pools[0].Free)
	assert.False(t, resp.Pools[0].Disabled)
}
