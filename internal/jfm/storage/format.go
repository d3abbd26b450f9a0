package storage

import (
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jimyag/jfm/internal/jfm/entity"
)

// EmptyValue 缺失值的占位符
const EmptyValue = "—"

// FormatSize 按十进制单位格式化字节数，保留两位小数并向下取整
// 例如 100 -> "100 B"，10000 -> "10 KB"，0 -> "—"
func FormatSize(size int64) string {
	if size <= 0 {
		return EmptyValue
	}
	value, prefix := humanize.ComputeSI(float64(size))
	// 加上极小量避免 4.99*100 = 498.999... 之类的浮点误差
	value = math.Floor(value*100+1e-9) / 100
	return strconv.FormatFloat(value, 'f', -1, 64) + " " + strings.ToUpper(prefix) + "B"
}

// FormatType 返回设备类型的展示名称
// sentence 为 true 时返回适合嵌入句子的小写形式，例如 "Remove physical disk..."
func FormatType(dev entity.StorageDevice, sentence bool) string {
	if isNil(dev) {
		return "Unknown"
	}
	disk, ok := dev.(*entity.Disk)
	if !ok {
		return pick(sentence, "partition", "Partition")
	}

	typeToFormat := string(disk.Type)
	if IsVirtual(disk) {
		switch {
		case IsLogicalVolume(disk):
			return pick(sentence, "logical volume", "Logical volume")
		case IsRaid(disk):
			if _, level, found := strings.Cut(string(disk.Parent.Type), "-"); found && level != "" {
				return "RAID " + level
			}
			return "RAID"
		case disk.Parent.Type != "":
			typeToFormat = string(disk.Parent.Type)
		default:
			typeToFormat = "Unknown"
		}
	}

	switch entity.DiskType(typeToFormat) {
	case entity.DiskTypeCacheSet:
		return pick(sentence, "cache set", "Cache set")
	case entity.DiskTypeISCSI:
		return "ISCSI"
	case entity.DiskTypeVolumeGroup:
		return pick(sentence, "volume group", "Volume group")
	case entity.DiskTypePhysical:
		return pick(sentence, "physical disk", "Physical")
	case entity.DiskTypeVirtual:
		return pick(sentence, "virtual disk", "Virtual")
	case entity.DiskTypeVMFS6:
		return "VMFS6"
	case entity.DiskTypeVMFS7:
		return "VMFS7"
	default:
		return typeToFormat
	}
}

func pick(sentence bool, sentenceForm, titleForm string) string {
	if sentence {
		return sentenceForm
	}
	return titleForm
}
