package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 环境变量是进程级别的，这里的用例不能并行

func TestNew_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("JFM_DATA_DIR", dir)

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, defaultAddress, cfg.Address)
	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, filepath.Join(dir, "jfm.db"), cfg.DatabasePath())
	assert.Equal(t, defaultSyncInterval, cfg.Backend.SyncInterval)
	assert.Equal(t, defaultCallTimeout, cfg.Backend.CallTimeout)
	assert.Equal(t, defaultLibvirtURI, cfg.LibvirtURI)
	assert.Equal(t, zerolog.InfoLevel, cfg.Level())
	assert.Empty(t, cfg.Backend.URL)
}

func TestNew_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	content := `
address: 127.0.0.1:8080
backend:
  url: ws://region:5240/MAAS/ws
  token: secret
  sync_interval: 90s
  call_timeout: 5s
libvirt_uri: qemu+ssh://root@kvm/system
log_level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))
	t.Setenv("JFM_DATA_DIR", dir)
	t.Setenv("JFM_LOG_LEVEL", "warn")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.Address)
	assert.Equal(t, "ws://region:5240/MAAS/ws", cfg.Backend.URL)
	assert.Equal(t, "secret", cfg.Backend.Token)
	assert.Equal(t, 90*time.Second, cfg.Backend.SyncInterval)
	assert.Equal(t, 5*time.Second, cfg.Backend.CallTimeout)
	assert.Equal(t, "qemu+ssh://root@kvm/system", cfg.LibvirtURI)
	assert.Equal(t, zerolog.WarnLevel, cfg.Level())
}

func TestNew_ExplicitConfigMissing(t *testing.T) {
	t.Setenv("JFM_DATA_DIR", t.TempDir())
	t.Setenv("JFM_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := New()
	assert.Error(t, err)
}

func TestNew_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad duration", env: map[string]string{"JFM_SYNC_INTERVAL": "soon"}},
		{name: "negative duration", env: map[string]string{"JFM_SYNC_INTERVAL": "-1m"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("JFM_DATA_DIR", t.TempDir())
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := New()
			assert.Error(t, err)
		})
	}
}

func TestLevel_Unknown(t *testing.T) {
	t.Parallel()

	cfg := &Config{LogLevel: "loud"}
	assert.Equal(t, zerolog.InfoLevel, cfg.Level())
}
