// Package jfm 提供 JFM 服务器的主入口和初始化逻辑
package jfm

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jimmicro/grace"
	"github.com/jimyag/jfm/internal/jfm/api"
	"github.com/jimyag/jfm/internal/jfm/config"
	"github.com/jimyag/jfm/internal/jfm/repository"
	"github.com/jimyag/jfm/internal/jfm/service"
	"github.com/jimyag/jfm/internal/jfm/store"
	"github.com/jimyag/jfm/pkg/libvirt"
	"github.com/rs/zerolog"
)

type Server struct {
	cfg    *config.Config
	api    *api.API
	syncer *service.Syncer
	repo   *repository.Repository
}

func New(cfg *config.Config) (*Server, error) {
	logger := zerolog.New(os.Stdout).Level(cfg.Level()).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
	ctx := logger.WithContext(context.Background())

	// 1. 打开本地数据库（节点快照、请求日志、Pod）
	repo, err := repository.New(cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	logger.Info().Str("path", cfg.DatabasePath()).Msg("Repository opened")

	// 2. 内存中的节点记录与请求派发
	st := store.New()
	dispatcher := service.NewDispatcher(st, repo, cfg.Backend.CallTimeout)

	// 3. 创建 Service
	nodeService := service.NewNodeService(st, dispatcher, repo)
	storageService := service.NewStorageService(nodeService, dispatcher, repo)
	podService := service.NewPodService(repo, libvirt.ConnectStorage, cfg.LibvirtURI)

	// 3.1. 用本地快照预热，后端连上之前也能查看存储
	restored, err := nodeService.WarmStart(ctx)
	if err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("warm start: %w", err)
	}
	logger.Info().Int("nodes", restored).Msg("Node snapshots restored")

	// 4. 后端同步
	var dial service.DialFunc
	if cfg.Backend.URL != "" {
		dial = service.WebsocketDialer(cfg.Backend.URL, cfg.Backend.Token)
	}
	syncer := service.NewSyncer(dial, dispatcher, nodeService, cfg.Backend.SyncInterval)

	// 5. 创建 API
	apiInstance, err := api.New(nodeService, storageService, podService, cfg.Address, logger)
	if err != nil {
		_ = repo.Close()
		return nil, err
	}

	return &Server{
		cfg:    cfg,
		api:    apiInstance,
		syncer: syncer,
		repo:   repo,
	}, nil
}

func (s *Server) Run(ctx context.Context) error {
	// 使用 grace.Shepherd 管理服务生命周期
	services := []grace.Grace{
		s.api,
		s.syncer,
	}

	shepherd := grace.NewShepherd(
		services,
		grace.WithTimeout(30*time.Second),
		grace.WithLogger(&zerologLogger{}),
	)

	zerolog.DefaultContextLogger.Info().Str("address", s.cfg.Address).Msg("JFM server starting")
	shepherd.Start(ctx)
	return s.repo.Close()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.syncer.Shutdown(ctx); err != nil {
		return err
	}
	if err := s.api.Shutdown(ctx); err != nil {
		return err
	}
	return s.repo.Close()
}

// Name 实现 grace.Grace 接口
func (s *Server) Name() string {
	return "JFM Server"
}

// zerologLogger 实现 grace.Logger 接口
type zerologLogger struct{}

func (l *zerologLogger) Info(msg string, args ...interface{}) {
	logf(zerolog.DefaultContextLogger.Info(), msg, args...)
}

func (l *zerologLogger) Error(msg string, args ...interface{}) {
	logf(zerolog.DefaultContextLogger.Error(), msg, args...)
}

// logf 有参数时按格式化输出
func logf(event *zerolog.Event, msg string, args ...interface{}) {
	if len(args) > 0 {
		event.Msgf(msg, args...)
		return
	}
	event.Msg(msg)
}
