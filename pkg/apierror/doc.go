// Package apierror 提供统一的 API 错误类型
//
// 错误响应格式：
//
//	{
//	    "errors": [
//	        {
//	            "code": "StorageActionNotAllowed",
//	            "message": "Disk 3 cannot be partitioned",
//	            "fields": {"partition_size": ["Ensure this value is less than or equal to 10000."]}
//	        }
//	    ],
//	    "requestID": "7b3f..."
//	}
//
// 使用示例：
//
//	// 使用预定义的错误，附带具体信息
//	return apierror.WrapError(apierror.ErrNodeNotFound, "node abc123 not found", err)
//
//	// 把后端校验错误带给调用方
//	return apierror.WrapError(apierror.ErrBackendRequestFailed, "create partition failed", err).
//	    WithFields(serverErr.Fields())
package apierror
