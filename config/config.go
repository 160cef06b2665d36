package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds relay server settings.
type Config struct {
	ListenAddr        string        // HTTP/WebSocket listen address
	ReadBufferSize    int           // WebSocket read buffer, bytes
	WriteBufferSize   int           // WebSocket write buffer, bytes
	SendQueueDepth    int           // per-connection outbound queue length
	MinUpdateInterval time.Duration // rate-gate floor for content/drawing updates
	PingInterval      time.Duration // keepalive probe interval
	WriteTimeout      time.Duration // per-frame write deadline
}

// Default returns the default relay configuration.
func Default() *Config {
	return &Config{
		ListenAddr:        ":8080",
		ReadBufferSize:    1024,
		WriteBufferSize:   1024,
		SendQueueDepth:    512,
		MinUpdateInterval: 50 * time.Millisecond,
		PingInterval:      30 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}

// FromEnv loads configuration from environment variables, falling back
// to defaults for any missing or unparseable values.
func FromEnv() *Config {
	cfg := Default()

	if addr := os.Getenv("RELAY_ADDR"); addr != "" {
		cfg.ListenAddr = addr
	}
	if v, ok := envInt("RELAY_READ_BUFFER"); ok {
		cfg.ReadBufferSize = v
	}
	if v, ok := envInt("RELAY_WRITE_BUFFER"); ok {
		cfg.WriteBufferSize = v
	}
	if v, ok := envInt("RELAY_SEND_QUEUE"); ok {
		cfg.SendQueueDepth = v
	}
	if v, ok := envInt("RELAY_MIN_UPDATE_INTERVAL_MS"); ok {
		cfg.MinUpdateInterval = time.Duration(v) * time.Millisecond
	}
	if v, ok := envInt("RELAY_PING_INTERVAL"); ok {
		cfg.PingInterval = time.Duration(v) * time.Second
	}
	if v, ok := envInt("RELAY_WRITE_TIMEOUT"); ok {
		cfg.WriteTimeout = time.Duration(v) * time.Second
	}
	return cfg
}

func envInt(key string) (int, bool) {
	s := os.Getenv(key)
	if s == "" {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}
