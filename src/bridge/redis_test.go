package bridge

import (
	"encoding/json"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockBroadcastTarget records frames forwarded from the bridge.
type mockBroadcastTarget struct {
	sessions []string
	origins  []string
	frames   [][]byte
}

func (m *mockBroadcastTarget) BroadcastToLocal(sessionID, originUserID string, data []byte) {
	m.sessions = append(m.sessions, sessionID)
	m.origins = append(m.origins, originUserID)
	m.frames = append(m.frames, data)
}

func TestRedisEnvelopeRoundTrip(t *testing.T) {
	frame := []byte(`{"type":"content","data":{"content":"hi","position":{"x":1,"y":2},"userData":{"userId":"0xabc"}}}`)
	env := redisEnvelope{
		InstanceID:   "node-1",
		SessionID:    "room-7",
		OriginUserID: "0xabc",
		Frame:        frame,
	}

	data, err := json.Marshal(env)
	require.NoError(t, err)

	var out redisEnvelope
	require.NoError(t, json.Unmarshal(data, &out))

	assert.Equal(t, "node-1", out.InstanceID)
	assert.Equal(t, "room-7", out.SessionID)
	assert.Equal(t, "0xabc", out.OriginUserID)
	assert.JSONEq(t, string(frame), string(out.Frame))
}

func TestHandleRedisMessageSkipsSelf(t *testing.T) {
	target := &mockBroadcastTarget{}
	rb := NewRedisBridge(DefaultRedisConfig(), target, testLogger())

	env := redisEnvelope{
		InstanceID: rb.instanceID,
		SessionID:  "room-1",
		Frame:      []byte(`{"type":"content"}`),
	}
	payload, err := json.Marshal(env)
	require.NoError(t, err)

	rb.handleRedisMessage(redisTestMessage(string(payload)))
	assert.Empty(t, target.frames)
}

func TestHandleRedisMessageForwardsRemote(t *testing.T) {
	target := &mockBroadcastTarget{}
	rb := NewRedisBridge(DefaultRedisConfig(), target, testLogger())

	env := redisEnvelope{
		InstanceID:   "other-node",
		SessionID:    "room-1",
		OriginUserID: "0xdef",
		Frame:        []byte(`{"type":"drawing-update"}`),
	}
	payload, err := json.Marshal(env)
	require.NoError(t, err)

	rb.handleRedisMessage(redisTestMessage(string(payload)))
	require.Len(t, target.frames, 1)
	assert.Equal(t, "room-1", target.sessions[0])
	assert.Equal(t, "0xdef", target.origins[0])
}

func TestHandleRedisMessageIgnoresGarbage(t *testing.T) {
	target := &mockBroadcastTarget{}
	rb := NewRedisBridge(DefaultRedisConfig(), target, testLogger())

	rb.handleRedisMessage(redisTestMessage("not json"))
	assert.Empty(t, target.frames)
}

func TestDefaultRedisConfig(t *testing.T) {
	cfg := DefaultRedisConfig()
	assert.Equal(t, "localhost:6379", cfg.Addr)
	assert.Empty(t, cfg.Password)
	assert.Equal(t, 0, cfg.DB)
	assert.Equal(t, "relay:ws:", cfg.Prefix)
}

func TestRedisConfigFromEnv(t *testing.T) {
	t.Setenv("REDIS_ADDR", "redis.example.com:6380")
	t.Setenv("REDIS_PASSWORD", "secret")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("REDIS_WS_PREFIX", "test:ws:")

	cfg := RedisConfigFromEnv()
	assert.Equal(t, "redis.example.com:6380", cfg.Addr)
	assert.Equal(t, "secret", cfg.Password)
	assert.Equal(t, 3, cfg.DB)
	assert.Equal(t, "test:ws:", cfg.Prefix)
}

func TestRedisConfigFromEnvInvalidDB(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := RedisConfigFromEnv()
	assert.Equal(t, 0, cfg.DB)
}

func TestRedisBridgeAvailableFalseBeforeStart(t *testing.T) {
	rb := NewRedisBridge(DefaultRedisConfig(), &mockBroadcastTarget{}, testLogger())
	assert.False(t, rb.Available())
}

func TestRedisBridgeInstanceIDUnique(t *testing.T) {
	target := &mockBroadcastTarget{}
	b1 := NewRedisBridge(DefaultRedisConfig(), target, testLogger())
	b2 := NewRedisBridge(DefaultRedisConfig(), target, testLogger())
	assert.NotEqual(t, b1.instanceID, b2.instanceID)
}

func redisTestMessage(payload string) *redis.Message {
	return &redis.Message{Payload: payload}
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}
