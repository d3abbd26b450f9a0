// Package libvirt 通过 libvirt RPC 读取 KVM 主机上的存储池与存储卷
package libvirt

import (
	"fmt"
	"net/url"

	"github.com/digitalocean/go-libvirt"
)

// Client libvirt 连接
type Client struct {
	uri  string
	conn *libvirt.Libvirt
}

// Connect 连接到 uri 指定的 libvirt 守护进程
// 支持 qemu:///system、qemu+ssh://user@host/system、qemu+tcp://host/system
func Connect(uri string) (*Client, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("parse libvirt uri %q: %w", uri, err)
	}
	conn, err := libvirt.ConnectToURI(u)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", uri, err)
	}
	return &Client{uri: uri, conn: conn}, nil
}

// ConnectStorage 与 Connect 相同，返回接口类型，便于作为 Connector 注入
func ConnectStorage(uri string) (StorageClient, error) {
	return Connect(uri)
}

// URI 连接地址
func (c *Client) URI() string {
	return c.uri
}

// GetHostname 获取 KVM 主机名
func (c *Client) GetHostname() (string, error) {
	hostname, err := c.conn.ConnectGetHostname()
	if err != nil {
		return "", fmt.Errorf("get hostname: %w", err)
	}
	return hostname, nil
}

// Close 断开连接
func (c *Client) Close() error {
	return c.conn.Disconnect()
}

// formatUUID 把 libvirt 的 16 字节 UUID 格式化为 RFC 4122 字符串
func formatUUID(u libvirt.UUID) string {
	return fmt.Sprintf("%x-%x-%x-%x-%x", u[0:4], u[4:6], u[6:8], u[8:10], u[10:16])
}
