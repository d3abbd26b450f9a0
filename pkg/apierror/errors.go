package apierror

import "net/http"

// 预定义错误，使用 WrapError 附带具体信息
var (
	// ErrInvalidParameter 请求参数不合法
	ErrInvalidParameter = NewErrorWithStatus("InvalidParameter", "A parameter specified in a request is not valid.", http.StatusBadRequest)

	// ErrNodeNotFound 节点不存在
	ErrNodeNotFound = NewErrorWithStatus("InvalidNodeID.NotFound", "The specified node does not exist.", http.StatusNotFound)

	// ErrStorageDeviceNotFound 磁盘或分区不存在
	ErrStorageDeviceNotFound = NewErrorWithStatus("InvalidStorageDeviceID.NotFound", "The specified disk or partition does not exist.", http.StatusNotFound)

	// ErrStorageNotEditable 节点当前状态不允许修改存储
	ErrStorageNotEditable = NewErrorWithStatus("IncorrectNodeState", "Storage can only be edited on a ready machine you have permission to edit.", http.StatusConflict)

	// ErrStorageActionNotAllowed 设备当前状态不允许该操作
	ErrStorageActionNotAllowed = NewErrorWithStatus("StorageActionNotAllowed", "The requested action is not allowed for the selected storage devices.", http.StatusConflict)

	// ErrBackendUnavailable 后端连接不可用
	ErrBackendUnavailable = NewErrorWithStatus("BackendUnavailable", "The region controller connection is not available.", http.StatusServiceUnavailable)

	// ErrBackendRequestFailed 后端拒绝了请求
	ErrBackendRequestFailed = NewErrorWithStatus("BackendRequestFailed", "The region controller rejected the request.", http.StatusUnprocessableEntity)

	// ErrPodNotFound Pod 不存在
	ErrPodNotFound = NewErrorWithStatus("InvalidPodID.NotFound", "The specified pod does not exist.", http.StatusNotFound)

	// ErrPodAlreadyExists Pod 名称已被占用
	ErrPodAlreadyExists = NewErrorWithStatus("InvalidPod.Duplicate", "A pod with the specified name already exists.", http.StatusConflict)

	// ErrRequestNotFound 请求记录不存在
	ErrRequestNotFound = NewErrorWithStatus("InvalidRequestID.NotFound", "The specified request does not exist.", http.StatusNotFound)

	// ErrInternalError 内部错误
	ErrInternalError = NewErrorWithStatus("InternalError", "An internal error has occurred.", http.StatusInternalServerError)
)
