package wsrpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jimyag/jfm/pkg/idgen"
)

// ErrClosed 连接已关闭
var ErrClosed = errors.New("wsrpc: connection closed")

// Option 客户端选项
type Option func(*options)

type options struct {
	header       http.Header
	dialer       *websocket.Dialer
	onNotify     func(Notification)
	nextID       func() (uint64, error)
	writeTimeout time.Duration
}

// WithHeader 设置握手请求头（认证 cookie、token 等）
func WithHeader(header http.Header) Option {
	return func(o *options) { o.header = header }
}

// WithDialer 使用自定义 Dialer
func WithDialer(dialer *websocket.Dialer) Option {
	return func(o *options) { o.dialer = dialer }
}

// WithNotifyHandler 设置推送通知的处理函数，在读循环中同步调用
func WithNotifyHandler(fn func(Notification)) Option {
	return func(o *options) { o.onNotify = fn }
}

// WithIDGenerator 设置请求 ID 生成函数
func WithIDGenerator(fn func() (uint64, error)) Option {
	return func(o *options) { o.nextID = fn }
}

// WithWriteTimeout 设置单次写入超时
func WithWriteTimeout(d time.Duration) Option {
	return func(o *options) { o.writeTimeout = d }
}

// Client websocket 请求/响应客户端，可并发调用 Call
type Client struct {
	conn *websocket.Conn
	opts options

	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[uint64]chan *message
	err     error

	done      chan struct{}
	closeOnce sync.Once
}

// Dial 建立连接并启动读循环
func Dial(ctx context.Context, url string, opts ...Option) (*Client, error) {
	o := options{
		dialer:       websocket.DefaultDialer,
		nextID:       idgen.GenerateID,
		writeTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(&o)
	}

	conn, resp, err := o.dialer.DialContext(ctx, url, o.header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %w (status %d)", url, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	c := &Client{
		conn:    conn,
		opts:    o,
		pending: make(map[uint64]chan *message),
		done:    make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// Call 发送请求并等待对应的响应
// 后端返回错误时得到 *ServerError
func (c *Client) Call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	id, err := c.opts.nextID()
	if err != nil {
		return nil, fmt.Errorf("generate request id: %w", err)
	}

	raw, err := encodeParams(params)
	if err != nil {
		return nil, fmt.Errorf("encode params of %s: %w", method, err)
	}

	ch := make(chan *message, 1)
	if err := c.register(id, ch); err != nil {
		return nil, err
	}
	defer c.unregister(id)

	if err := c.write(request{Type: TypeRequest, RequestID: id, Method: method, Params: raw}); err != nil {
		return nil, fmt.Errorf("send %s: %w", method, err)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.done:
		// 读循环先投递响应再关闭 done，断开前到达的响应仍然有效
		select {
		case msg := <-ch:
			return reply(method, msg)
		default:
			return nil, c.Err()
		}
	case msg := <-ch:
		return reply(method, msg)
	}
}

func reply(method string, msg *message) (json.RawMessage, error) {
	if msg.RType == ResponseError {
		return nil, &ServerError{Method: method, Payload: msg.Error}
	}
	return msg.Result, nil
}

// Done 连接断开后关闭
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Err 返回导致连接断开的错误
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err == nil {
		return ErrClosed
	}
	return c.err
}

// Close 关闭连接，所有等待中的调用返回错误
func (c *Client) Close() error {
	c.writeMu.Lock()
	_ = c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	c.writeMu.Unlock()
	c.shutdown(ErrClosed)
	return nil
}

func (c *Client) register(id uint64, ch chan *message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.pending[id] = ch
	return nil
}

func (c *Client) unregister(id uint64) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

func (c *Client) write(req request) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.opts.writeTimeout > 0 {
		_ = c.conn.SetWriteDeadline(time.Now().Add(c.opts.writeTimeout))
	}
	return c.conn.WriteJSON(req)
}

func (c *Client) readLoop() {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.shutdown(fmt.Errorf("wsrpc: read: %w", err))
			return
		}

		var msg message
		if err := json.Unmarshal(data, &msg); err != nil {
			// 无法解析的消息直接丢弃
			continue
		}

		switch msg.Type {
		case TypeResponse:
			c.mu.Lock()
			ch, ok := c.pending[msg.RequestID]
			c.mu.Unlock()
			if ok {
				select {
				case ch <- &msg:
				default:
				}
			}
		case TypeNotify:
			if c.opts.onNotify != nil {
				c.opts.onNotify(Notification{Name: msg.Name, Action: msg.Action, Data: msg.Data})
			}
		}
	}
}

func (c *Client) shutdown(err error) {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.err = err
		c.mu.Unlock()
		_ = c.conn.Close()
		close(c.done)
	})
}

func encodeParams(params any) (json.RawMessage, error) {
	switch p := params.(type) {
	case nil:
		return json.RawMessage("{}"), nil
	case json.RawMessage:
		return p, nil
	default:
		return json.Marshal(p)
	}
}
