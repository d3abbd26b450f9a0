// Package wsrpc 提供基于 websocket 的请求/响应 + 推送通知客户端
//
// 线上消息格式：
//
//	请求：{"type":0,"request_id":1,"method":"machine.get","params":{...}}
//	响应：{"type":1,"request_id":1,"rtype":0,"result":{...}}
//	      {"type":1,"request_id":1,"rtype":1,"error":{...}}
//	通知：{"type":2,"name":"machine","action":"update","data":{...}}
//
// 使用示例：
//
//	client, err := wsrpc.Dial(ctx, "ws://backend/ws", wsrpc.WithNotifyHandler(func(n wsrpc.Notification) {
//	    // 处理推送
//	}))
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	result, err := client.Call(ctx, "machine.get", map[string]any{"system_id": "abc123"})
package wsrpc
