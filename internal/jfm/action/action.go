// Package action 定义派发到后端的请求动作
//
// 每个动作由 model、method 与 params 组成，线上的方法名为 "<model>.<method>"，
// params 的字段名与后端保持一致（snake_case）
package action

import (
	"encoding/json"
	"fmt"
)

// Model 后端资源类型
type Model string

const (
	ModelMachine    Model = "machine"
	ModelController Model = "controller"
)

// Name 动作名称，用于跟踪请求状态
type Name string

const (
	NameList                Name = "list"
	NameGet                 Name = "get"
	NameCreatePartition     Name = "createPartition"
	NameCreateVolumeGroup   Name = "createVolumeGroup"
	NameCreateRaid          Name = "createRaid"
	NameCreateCacheSet      Name = "createCacheSet"
	NameCreateBcache        Name = "createBcache"
	NameCreateLogicalVolume Name = "createLogicalVolume"
	NameCreateVmfsDatastore Name = "createVmfsDatastore"
	NameUpdateVmfsDatastore Name = "updateVmfsDatastore"
	NameDeleteDisk          Name = "deleteDisk"
	NameDeletePartition     Name = "deletePartition"
	NameDeleteVolumeGroup   Name = "deleteVolumeGroup"
	NameDeleteCacheSet      Name = "deleteCacheSet"
	NameSetBootDisk         Name = "setBootDisk"
	NameUpdateDisk          Name = "updateDisk"
)

// Mutations 修改节点存储的动作，这些动作的请求状态会被记录
var Mutations = []Name{
	NameCreatePartition,
	NameCreateVolumeGroup,
	NameCreateRaid,
	NameCreateCacheSet,
	NameCreateBcache,
	NameCreateLogicalVolume,
	NameCreateVmfsDatastore,
	NameUpdateVmfsDatastore,
	NameDeleteDisk,
	NameDeletePartition,
	NameDeleteVolumeGroup,
	NameDeleteCacheSet,
	NameSetBootDisk,
	NameUpdateDisk,
}

// Envelope 一个待派发的请求动作
type Envelope struct {
	Name     Name   `json:"name"`
	Model    Model  `json:"model"`
	Method   string `json:"method"`
	SystemID string `json:"system_id,omitempty"` // 目标节点，列表请求为空
	Params   any    `json:"params"`
}

// FullMethod 返回线上方法名，例如 "machine.create_partition"
func (e Envelope) FullMethod() string {
	return fmt.Sprintf("%s.%s", e.Model, e.Method)
}

// MarshalParams 把 params 编码为 JSON
func (e Envelope) MarshalParams() (json.RawMessage, error) {
	if e.Params == nil {
		return json.RawMessage("{}"), nil
	}
	data, err := json.Marshal(e.Params)
	if err != nil {
		return nil, fmt.Errorf("marshal params of %s: %w", e.FullMethod(), err)
	}
	return data, nil
}

// machine 构造机器模型上的动作
func machine(name Name, method, systemID string, params any) Envelope {
	return Envelope{Name: name, Model: ModelMachine, Method: method, SystemID: systemID, Params: params}
}
