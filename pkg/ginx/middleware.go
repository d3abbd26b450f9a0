package ginx

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jimyag/jfm/pkg/idgen"
	"github.com/rs/zerolog"
)

// HeaderRequestID 请求 ID 的 HTTP 头
const HeaderRequestID = "X-Request-ID"

const requestIDKey = "ginx.requestID"

// RequestID 为每个请求分配 ID，优先沿用调用方传入的 X-Request-ID
func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		requestID := ctx.GetHeader(HeaderRequestID)
		if requestID == "" {
			if id, err := idgen.GenerateID(); err == nil {
				requestID = strconv.FormatUint(id, 10)
			}
		}
		ctx.Set(requestIDKey, requestID)
		ctx.Header(HeaderRequestID, requestID)
		ctx.Next()
	}
}

// GetRequestID 返回当前请求的 ID，没有经过 RequestID 中间件时为空
func GetRequestID(ctx *gin.Context) string {
	return ctx.GetString(requestIDKey)
}

// Logger 把带请求 ID 的 logger 放入请求 context，并在请求结束后记录访问日志
// handler 中通过 zerolog.Ctx(ctx) 获取
func Logger(base zerolog.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		logger := base.With().
			Str("requestID", GetRequestID(ctx)).
			Str("path", ctx.Request.URL.Path).
			Logger()
		ctx.Request = ctx.Request.WithContext(logger.WithContext(ctx.Request.Context()))

		ctx.Next()

		event := logger.Info()
		if ctx.Writer.Status() >= 500 {
			event = logger.Error()
		}
		event.
			Str("method", ctx.Request.Method).
			Int("status", ctx.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("Request handled")
	}
}
