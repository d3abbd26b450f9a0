// Package service 提供业务逻辑层的服务实现
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jimyag/jfm/internal/jfm/action"
	"github.com/jimyag/jfm/internal/jfm/entity"
	"github.com/jimyag/jfm/internal/jfm/repository"
	"github.com/jimyag/jfm/internal/jfm/store"
	"github.com/jimyag/jfm/pkg/apierror"
	"github.com/jimyag/jfm/pkg/idgen"
	"github.com/jimyag/jfm/pkg/wsrpc"
	"github.com/rs/zerolog"
)

// Backend region controller 的请求通道，*wsrpc.Client 实现了该接口
type Backend interface {
	Call(ctx context.Context, method string, params any) (json.RawMessage, error)
}

var _ Backend = (*wsrpc.Client)(nil)

// Dispatcher 把动作派发到后端，并维护请求状态与请求日志
// 后端连接断开重连时通过 SetBackend 替换，失败的请求不会重试
type Dispatcher struct {
	mu      sync.RWMutex
	backend Backend

	store       *store.Store
	requestRepo repository.StorageRequestRepository
	idGen       *idgen.Generator
	callTimeout time.Duration
}

// NewDispatcher 创建 Dispatcher，backend 可以为 nil，连接建立后再设置
func NewDispatcher(
	st *store.Store,
	repo *repository.Repository,
	callTimeout time.Duration,
) *Dispatcher {
	return &Dispatcher{
		store:       st,
		requestRepo: repository.NewStorageRequestRepository(repo.DB()),
		idGen:       idgen.New(),
		callTimeout: callTimeout,
	}
}

// SetBackend 替换后端连接，传 nil 表示连接不可用
func (d *Dispatcher) SetBackend(b Backend) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.backend = b
}

// Connected 后端连接是否可用
func (d *Dispatcher) Connected() bool {
	return d.getBackend() != nil
}

func (d *Dispatcher) getBackend() Backend {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.backend
}

// Call 发送只读请求（list/get），不记录状态与日志
func (d *Dispatcher) Call(ctx context.Context, env action.Envelope, result any) error {
	backend := d.getBackend()
	if backend == nil {
		return apierror.ErrBackendUnavailable
	}

	params, err := env.MarshalParams()
	if err != nil {
		return apierror.WrapError(apierror.ErrInternalError, err.Error(), err)
	}

	callCtx, cancel := d.withTimeout(ctx)
	defer cancel()

	raw, err := backend.Call(callCtx, env.FullMethod(), params)
	if err != nil {
		return backendError(env, err)
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(raw, result); err != nil {
		return apierror.WrapError(apierror.ErrInternalError, fmt.Sprintf("decode %s result", env.FullMethod()), err)
	}
	return nil
}

// Dispatch 发送修改请求
// 1. 标记节点上该动作为 pending 并写入请求日志
// 2. 调用后端
// 3. 按结果更新状态与日志，后端的字段级错误会一并保存
func (d *Dispatcher) Dispatch(ctx context.Context, env action.Envelope) (*entity.StorageRequest, error) {
	logger := zerolog.Ctx(ctx)

	params, err := env.MarshalParams()
	if err != nil {
		return nil, apierror.WrapError(apierror.ErrInternalError, err.Error(), err)
	}

	requestID, err := d.idGen.GenerateRequestID()
	if err != nil {
		return nil, apierror.WrapError(apierror.ErrInternalError, "generate request id", err)
	}

	now := time.Now()
	request := &entity.StorageRequest{
		ID:        requestID,
		SystemID:  env.SystemID,
		Action:    string(env.Name),
		Method:    env.FullMethod(),
		Params:    string(params),
		State:     entity.RequestStatePending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	d.store.StartRequest(env.SystemID, string(env.Name))
	if err := d.saveRequest(ctx, request, true); err != nil {
		logger.Warn().Err(err).Str("requestID", requestID).Msg("Failed to record storage request")
	}

	logger.Info().
		Str("requestID", requestID).
		Str("method", request.Method).
		Str("systemID", env.SystemID).
		Msg("Dispatching storage request")

	var callErr error
	if backend := d.getBackend(); backend == nil {
		callErr = apierror.ErrBackendUnavailable
	} else {
		callCtx, cancel := d.withTimeout(ctx)
		_, err := backend.Call(callCtx, request.Method, params)
		cancel()
		if err != nil {
			callErr = backendError(env, err)
		}
	}

	request.UpdatedAt = time.Now()
	if callErr != nil {
		var apiErr *apierror.Error
		if errors.As(callErr, &apiErr) {
			request.Error = apiErr.Message
			request.Fields = apiErr.Fields
		} else {
			request.Error = callErr.Error()
		}
		request.State = entity.RequestStateFailed
		d.store.FailRequest(env.SystemID, string(env.Name), request.Error, request.Fields)

		logger.Error().
			Err(callErr).
			Str("requestID", requestID).
			Str("method", request.Method).
			Msg("Storage request failed")
	} else {
		request.State = entity.RequestStateSucceeded
		d.store.SucceedRequest(env.SystemID, string(env.Name))

		logger.Info().
			Str("requestID", requestID).
			Str("method", request.Method).
			Msg("Storage request succeeded")
	}

	if err := d.saveRequest(ctx, request, false); err != nil {
		logger.Warn().Err(err).Str("requestID", requestID).Msg("Failed to update storage request")
	}

	return request, callErr
}

// RequestStatuses 节点上各操作最近一次请求的状态，键为动作名称
func (d *Dispatcher) RequestStatuses(systemID string) map[string]entity.ActionStatus {
	return d.store.Statuses(systemID)
}

// ResetRequestStatus 清除节点上某个动作的状态，表单重新打开时调用
func (d *Dispatcher) ResetRequestStatus(systemID string, name action.Name) {
	d.store.ClearStatus(systemID, string(name))
}

func (d *Dispatcher) saveRequest(ctx context.Context, request *entity.StorageRequest, create bool) error {
	m, err := storageRequestEntityToModel(request)
	if err != nil {
		return err
	}
	if create {
		return d.requestRepo.Create(ctx, m)
	}
	return d.requestRepo.Update(ctx, m)
}

func (d *Dispatcher) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d.callTimeout)
}

// backendError 把后端调用错误转换为 API 错误
func backendError(env action.Envelope, err error) error {
	var serverErr *wsrpc.ServerError
	if errors.As(err, &serverErr) {
		fields := serverErr.Fields()
		message := fmt.Sprintf("%s rejected", env.FullMethod())
		if msgs := fields[wsrpc.NonFieldErrors]; len(msgs) > 0 {
			message = msgs[0]
		}
		apiErr := apierror.WrapError(apierror.ErrBackendRequestFailed, message, err)
		if len(fields) > 0 {
			apiErr = apiErr.WithFields(fields)
		}
		return apiErr
	}
	if errors.Is(err, wsrpc.ErrClosed) {
		return apierror.WrapError(apierror.ErrBackendUnavailable, err.Error(), err)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apierror.WrapError(apierror.ErrBackendUnavailable, fmt.Sprintf("%s timed out", env.FullMethod()), err)
	}
	return apierror.WrapError(apierror.ErrBackendRequestFailed, err.Error(), err)
}
