// Package ginx 提供 gin 框架的 handler 适配器与请求中间件
//
// 适配器负责 JSON 参数绑定、参数校验与响应渲染，handler 只需关心业务：
//
//	// 有参数，有返回值，有 error
//	func(c *gin.Context, args *Args) (resp, error)
//
//	// 无参数，有返回值，有 error
//	func(c *gin.Context) (resp, error)
//
// 参数结构体可以使用 binding tag，也可以实现 IsValid() error 做更复杂的校验。
// handler 返回 *apierror.Error 时使用其中的 HTTP 状态码，其他错误一律按 500 处理。
//
// 使用示例：
//
//	router := gin.New()
//	router.Use(ginx.RequestID(), ginx.Logger(logger))
//	router.POST("/api/describe-node", ginx.Adapt5(func(c *gin.Context, args *DescribeNodeArgs) (*Node, error) {
//	    return &Node{...}, nil
//	}))
package ginx
