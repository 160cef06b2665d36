package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 512, cfg.SendQueueDepth)
	assert.Equal(t, 50*time.Millisecond, cfg.MinUpdateInterval)
	assert.Equal(t, 30*time.Second, cfg.PingInterval)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("RELAY_ADDR", ":9090")
	t.Setenv("RELAY_SEND_QUEUE", "128")
	t.Setenv("RELAY_MIN_UPDATE_INTERVAL_MS", "25")
	t.Setenv("RELAY_PING_INTERVAL", "15")

	cfg := FromEnv()
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, 128, cfg.SendQueueDepth)
	assert.Equal(t, 25*time.Millisecond, cfg.MinUpdateInterval)
	assert.Equal(t, 15*time.Second, cfg.PingInterval)
}

func TestFromEnvInvalidValuesFallBack(t *testing.T) {
	t.Setenv("RELAY_SEND_QUEUE", "not-a-number")
	t.Setenv("RELAY_MIN_UPDATE_INTERVAL_MS", "-5")

	cfg := FromEnv()
	assert.Equal(t, 512, cfg.SendQueueDepth)
	assert.Equal(t, 50*time.Millisecond, cfg.MinUpdateInterval)
}
