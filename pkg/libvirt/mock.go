package libvirt

import (
	"github.com/stretchr/testify/mock"
)

// MockClient 是 StorageClient 的 mock 实现
// 用于测试，不需要真实的 libvirt 连接
type MockClient struct {
	mock.Mock
}

func (m *MockClient) GetHostname() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockClient) ListStoragePools() ([]*StoragePoolInfo, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*StoragePoolInfo), args.Error(1)
}

func (m *MockClient) ListVolumes(poolName string) ([]*VolumeInfo, error) {
	args := m.Called(poolName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*VolumeInfo), args.Error(1)
}

func (m *MockClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockConnector 返回固定 client 的 Connector，记录被请求的 URI
func MockConnector(client StorageClient, err error) (Connector, *[]string) {
	var uris []string
	return func(uri string) (StorageClient, error) {
		uris = append(uris, uri)
		if err != nil {
			return nil, err
		}
		return client, nil
	}, &uris
}

var _ StorageClient = (*MockClient)(nil)
