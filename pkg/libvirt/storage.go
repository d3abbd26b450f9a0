package libvirt

import (
	"encoding/xml"
	"fmt"

	"github.com/digitalocean/go-libvirt"
)

// StoragePoolInfo 存储池信息
type StoragePoolInfo struct {
	Name        string
	UUID        string
	Type        string // dir, logical, zfs ...
	Path        string
	State       string
	CapacityB   uint64
	AllocationB uint64
	AvailableB  uint64
}

// VolumeInfo 存储卷信息
type VolumeInfo struct {
	Name        string
	Path        string
	CapacityB   uint64
	AllocationB uint64
}

// StoragePoolXML 存储池 XML 中用到的字段
// Reference: https://libvirt.org/formatstorage.html
type StoragePoolXML struct {
	XMLName xml.Name   `xml:"pool"`
	Type    string     `xml:"type,attr"`
	Name    string     `xml:"name"`
	Target  PoolTarget `xml:"target"`
}

// PoolTarget 存储池目标配置
type PoolTarget struct {
	Path string `xml:"path"`
}

// mapStoragePoolState 将 libvirt 的 pool 状态转换为字符串
func mapStoragePoolState(s uint8) string {
	switch libvirt.StoragePoolState(s) {
	case libvirt.StoragePoolInactive:
		return "Inactive"
	case libvirt.StoragePoolBuilding:
		return "Building"
	case libvirt.StoragePoolRunning:
		return "Active"
	case libvirt.StoragePoolDegraded:
		return "Degraded"
	case libvirt.StoragePoolInaccessible:
		return "Inaccessible"
	default:
		return "Unknown"
	}
}

// ListStoragePools 列出所有存储池
func (c *Client) ListStoragePools() ([]*StoragePoolInfo, error) {
	// NeedResults 设置为足够大的数字以获取所有 pools
	pools, _, err := c.conn.ConnectListAllStoragePools(1000, 0)
	if err != nil {
		return nil, fmt.Errorf("list storage pools: %w", err)
	}

	result := make([]*StoragePoolInfo, 0, len(pools))
	for _, p := range pools {
		info, err := c.poolInfo(p)
		if err != nil {
			return nil, err
		}
		result = append(result, info)
	}
	return result, nil
}

func (c *Client) poolInfo(p libvirt.StoragePool) (*StoragePoolInfo, error) {
	state, capacity, allocation, available, err := c.conn.StoragePoolGetInfo(p)
	if err != nil {
		return nil, fmt.Errorf("get pool %s info: %w", p.Name, err)
	}

	xmlDesc, err := c.conn.StoragePoolGetXMLDesc(p, 0)
	if err != nil {
		return nil, fmt.Errorf("get pool %s XML: %w", p.Name, err)
	}
	desc, err := parsePoolXML(xmlDesc)
	if err != nil {
		return nil, fmt.Errorf("parse pool %s XML: %w", p.Name, err)
	}

	return &StoragePoolInfo{
		Name:        p.Name,
		UUID:        formatUUID(p.UUID),
		Type:        desc.Type,
		Path:        desc.Target.Path,
		State:       mapStoragePoolState(state),
		CapacityB:   capacity,
		AllocationB: allocation,
		AvailableB:  available,
	}, nil
}

// ListVolumes 列出存储池中的所有卷
func (c *Client) ListVolumes(poolName string) ([]*VolumeInfo, error) {
	pool, err := c.conn.StoragePoolLookupByName(poolName)
	if err != nil {
		return nil, fmt.Errorf("lookup storage pool %s: %w", poolName, err)
	}

	vols, _, err := c.conn.StoragePoolListAllVolumes(pool, 1000, 0)
	if err != nil {
		return nil, fmt.Errorf("list volumes of %s: %w", poolName, err)
	}

	result := make([]*VolumeInfo, 0, len(vols))
	for _, v := range vols {
		_, capacity, allocation, err := c.conn.StorageVolGetInfo(v)
		if err != nil {
			return nil, fmt.Errorf("get volume %s info: %w", v.Name, err)
		}
		path, err := c.conn.StorageVolGetPath(v)
		if err != nil {
			return nil, fmt.Errorf("get volume %s path: %w", v.Name, err)
		}
		result = append(result, &VolumeInfo{
			Name:        v.Name,
			Path:        path,
			CapacityB:   capacity,
			AllocationB: allocation,
		})
	}
	return result, nil
}

func parsePoolXML(xmlDesc string) (*StoragePoolXML, error) {
	var desc StoragePoolXML
	if err := xml.Unmarshal([]byte(xmlDesc), &desc); err != nil {
		return nil, err
	}
	return &desc, nil
}
