package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, "0.0.0.0:8081", cfg.AdminServer.Addr())
	assert.Equal(t, time.Hour, cfg.Cache.ListingTTL)
	assert.Equal(t, 60*time.Second, cfg.Cache.ScopedTTL)
	assert.Equal(t, 2*time.Hour, cfg.JWT.TTL)
}

func TestLoadWithoutConfigFile(t *testing.T) {
	// 没有配置文件时只用默认值
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().MySQL.DSN, cfg.MySQL.DSN)
	assert.True(t, cfg.Redis.Enabled)
}

func TestServerAddrDefaultHost(t *testing.T) {
	s := ServerConfig{Port: 9000}
	assert.Equal(t, "0.0.0.0:9000", s.Addr())
}
