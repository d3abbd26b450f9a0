package service

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/jimyag/jfm/pkg/wsrpc"
	"github.com/rs/zerolog"
)

const (
	defaultReconnectDelay = 5 * time.Second
	defaultSyncInterval   = 5 * time.Minute
)

// Conn 一条后端连接
type Conn interface {
	Backend
	Done() <-chan struct{}
	Err() error
	Close() error
}

// DialFunc 建立后端连接，onNotify 接收后端推送
type DialFunc func(ctx context.Context, onNotify func(wsrpc.Notification)) (Conn, error)

// WebsocketDialer 返回通过 websocket 连接 region controller 的 DialFunc
func WebsocketDialer(url, token string) DialFunc {
	return func(ctx context.Context, onNotify func(wsrpc.Notification)) (Conn, error) {
		header := http.Header{}
		if token != "" {
			header.Set("Authorization", "Bearer "+token)
		}
		client, err := wsrpc.Dial(ctx, url, wsrpc.WithHeader(header), wsrpc.WithNotifyHandler(onNotify))
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

// Syncer 维护后端连接
// 连接建立后立即全量同步一次，之后按 interval 定期同步；
// 推送的节点变更实时写入 store；连接断开后等待一段时间重连
type Syncer struct {
	dial           DialFunc
	dispatcher     *Dispatcher
	nodes          *NodeService
	interval       time.Duration
	reconnectDelay time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSyncer 创建 Syncer，dial 为 nil 时不连接后端
func NewSyncer(dial DialFunc, dispatcher *Dispatcher, nodes *NodeService, interval time.Duration) *Syncer {
	if interval <= 0 {
		interval = defaultSyncInterval
	}
	return &Syncer{
		dial:           dial,
		dispatcher:     dispatcher,
		nodes:          nodes,
		interval:       interval,
		reconnectDelay: defaultReconnectDelay,
		done:           make(chan struct{}),
	}
}

// Name 实现 grace.Grace 接口
func (s *Syncer) Name() string {
	return "Backend Syncer"
}

// Run 阻塞运行直到 ctx 取消或 Shutdown
func (s *Syncer) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()
	defer close(s.done)
	defer cancel()

	logger := zerolog.Ctx(ctx)
	ctx = logger.With().Str("component", "syncer").Logger().WithContext(ctx)
	logger = zerolog.Ctx(ctx)

	if s.dial == nil {
		logger.Warn().Msg("Backend URL not configured, serving local snapshots only")
		<-ctx.Done()
		return nil
	}

	for {
		err := s.session(ctx)
		if ctx.Err() != nil {
			return nil
		}
		logger.Warn().Err(err).Dur("retryIn", s.reconnectDelay).Msg("Backend connection lost")

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(s.reconnectDelay):
		}
	}
}

// Shutdown 停止同步并断开连接
func (s *Syncer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// session 处理一条连接的完整生命周期，返回断开原因
func (s *Syncer) session(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	conn, err := s.dial(ctx, func(n wsrpc.Notification) {
		if err := s.nodes.HandleNotification(ctx, n); err != nil {
			logger.Warn().Err(err).Str("name", n.Name).Str("action", n.Action).Msg("Failed to apply notification")
		}
	})
	if err != nil {
		return err
	}
	defer conn.Close()

	s.dispatcher.SetBackend(conn)
	defer s.dispatcher.SetBackend(nil)
	logger.Info().Msg("Backend connected")

	s.sync(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-conn.Done():
			if err := conn.Err(); err != nil {
				return err
			}
			return errors.New("backend connection closed")
		case <-ticker.C:
			s.sync(ctx)
		}
	}
}

func (s *Syncer) sync(ctx context.Context) {
	if _, err := s.nodes.SyncNodes(ctx); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to sync nodes")
	}
}
