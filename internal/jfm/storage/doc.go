// Package storage 实现节点存储表的全部纯逻辑：
// 设备资格判定、可用存储行投影、列与行操作菜单、批量操作按钮
//
// 包内函数均无副作用，输入为后端下发的节点记录，输出为可直接渲染的结构，
// 所有写操作都交给 action 包构造请求，由后端执行
package storage
