// Package idgen 提供递增 ID 生成器
//
// 使用 Sonyflake 算法生成全局唯一且时间有序的 64 位 ID，
// 既用作 websocket 请求的 request_id，也用作本地记录的主键。
//
// 生成的 ID 格式：
//   - 请求记录 ID: req-{递增数字}
//   - Pod ID: pod-{递增数字}
//
// 使用方式：
//
//	// 包级别函数，使用默认生成器
//	requestID, err := idgen.GenerateRequestID()
//	// requestID: "req-1234567890"
//
//	// websocket 调用 ID
//	callID, err := idgen.GenerateID()
package idgen
