package storage

import (
	"testing"

	"github.com/jimyag/jfm/internal/jfm/entity"
	"github.com/stretchr/testify/assert"
)

func TestFormatSize(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		name string
		size int64
		want string
	}{
		{name: "zero", size: 0, want: "—"},
		{name: "bytes", size: 100, want: "100 B"},
		{name: "kilobytes", size: 10000, want: "10 KB"},
		{name: "fractional megabytes", size: 1500000, want: "1.5 MB"},
		{name: "rounds down", size: 4999999999, want: "4.99 GB"},
		{name: "terabytes", size: 2000000000000, want: "2 TB"},
	}

	for _, tc := range testcases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, FormatSize(tc.size))
		})
	}
}

func TestFormatType(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		name         string
		dev          entity.StorageDevice
		wantTitle    string
		wantSentence string
	}{
		{name: "nil", dev: nil, wantTitle: "Unknown", wantSentence: "Unknown"},
		{name: "partition", dev: newPartition(1, "sda-part1"), wantTitle: "Partition", wantSentence: "partition"},
		{name: "logical volume", dev: newVirtualDisk(2, "lv0", entity.DiskTypeVolumeGroup), wantTitle: "Logical volume", wantSentence: "logical volume"},
		{name: "raid", dev: newVirtualDisk(3, "md0", entity.DiskTypeRAID10), wantTitle: "RAID 10", wantSentence: "RAID 10"},
		{name: "bcache", dev: newVirtualDisk(4, "bcache0", entity.DiskTypeBcache), wantTitle: "bcache", wantSentence: "bcache"},
		{name: "virtual without parent", dev: newDisk(5, "vda", entity.DiskTypeVirtual), wantTitle: "Virtual", wantSentence: "virtual disk"},
		{name: "cache set", dev: newDisk(6, "cache0", entity.DiskTypeCacheSet), wantTitle: "Cache set", wantSentence: "cache set"},
		{name: "iscsi", dev: newDisk(7, "sdi", entity.DiskTypeISCSI), wantTitle: "ISCSI", wantSentence: "ISCSI"},
		{name: "volume group", dev: newDisk(8, "vg0", entity.DiskTypeVolumeGroup), wantTitle: "Volume group", wantSentence: "volume group"},
		{name: "physical", dev: newDisk(9, "sda", entity.DiskTypePhysical), wantTitle: "Physical", wantSentence: "physical disk"},
		{name: "vmfs6", dev: newDisk(10, "vmfs", entity.DiskTypeVMFS6), wantTitle: "VMFS6", wantSentence: "VMFS6"},
		{name: "vmfs7", dev: newDisk(11, "vmfs", entity.DiskTypeVMFS7), wantTitle: "VMFS7", wantSentence: "VMFS7"},
		{name: "unrecognised type", dev: newDisk(12, "nvme", entity.DiskType("nvme")), wantTitle: "nvme", wantSentence: "nvme"},
	}

	for _, tc := range testcases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.wantTitle, FormatType(tc.dev, false))
			assert.Equal(t, tc.wantSentence, FormatType(tc.dev, true))
		})
	}
}
