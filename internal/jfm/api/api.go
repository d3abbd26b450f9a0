package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jimyag/jfm/internal/jfm/service"
	"github.com/jimyag/jfm/pkg/ginx"
	"github.com/rs/zerolog"
)

var (
	_ NodeServiceInterface    = (*service.NodeService)(nil)
	_ StorageServiceInterface = (*service.StorageService)(nil)
	_ PodServiceInterface     = (*service.PodService)(nil)
)

type API struct {
	engine *gin.Engine
	server *http.Server

	node    *NodeAPI
	storage *StorageAPI
	pod     *PodAPI
}

func New(
	nodeService NodeServiceInterface,
	storageService StorageServiceInterface,
	podService PodServiceInterface,
	addr string,
	logger zerolog.Logger,
) (*API, error) {
	engine := gin.New()
	// handler 直接把 *gin.Context 当作 context.Context 传给 service，需要能取到请求上的 logger
	engine.ContextWithFallback = true
	engine.Use(gin.Recovery(), ginx.RequestID(), ginx.Logger(logger))

	api := &API{
		engine:  engine,
		node:    NewNodeAPI(nodeService),
		storage: NewStorageAPI(storageService),
		pod:     NewPodAPI(podService),
	}

	apiGroup := engine.Group("/api")
	api.node.RegisterRoutes(apiGroup)
	api.storage.RegisterRoutes(apiGroup)
	api.pod.RegisterRoutes(apiGroup)

	api.server = &http.Server{
		Addr:    addr,
		Handler: engine,
	}
	return api, nil
}

// Name 实现 grace.Grace 接口
func (a *API) Name() string {
	return "API Server"
}

// Run 启动 HTTP 服务，ctx 取消时关闭
func (a *API) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		return a.server.Shutdown(context.Background())
	}
}

func (a *API) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}
