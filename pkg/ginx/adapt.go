package ginx

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Adapt3 适配无参数、有返回值和 error 的 handler
func Adapt3[T any](fn func(*gin.Context) (T, error)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		result, err := fn(ctx)
		if err != nil {
			renderError(ctx, http.StatusInternalServerError, err)
			return
		}
		renderResponse(ctx, result)
	}
}

// Adapt5 适配有参数、有返回值和 error 的 handler
func Adapt5[TArgs any, TResp any](fn func(*gin.Context, *TArgs) (TResp, error)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		args, ok := bindArgs[TArgs](ctx)
		if !ok {
			return
		}
		result, err := fn(ctx, args)
		if err != nil {
			renderError(ctx, http.StatusInternalServerError, err)
			return
		}
		renderResponse(ctx, result)
	}
}

// bindArgs 绑定 JSON body 并执行校验，失败时已经写好响应
// 空 body 视为空对象，方便无必填字段的请求
func bindArgs[T any](ctx *gin.Context) (*T, bool) {
	args := new(T)

	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(args); err != nil {
			renderError(ctx, http.StatusBadRequest, err)
			return nil, false
		}
	} else if err := ctx.ShouldBindQuery(args); err != nil {
		renderError(ctx, http.StatusBadRequest, err)
		return nil, false
	}

	if validator, ok := any(args).(interface{ IsValid() error }); ok {
		if err := validator.IsValid(); err != nil {
			renderError(ctx, http.StatusBadRequest, err)
			return nil, false
		}
	}
	return args, true
}
