package hub

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIdentity(t *testing.T) {
	wallet := "0x1234567890abcdef1234567890abcdef12345678"
	id := NewIdentity(wallet)

	assert.Equal(t, wallet, id.UserID)
	assert.True(t, strings.HasPrefix(id.UserName, wallet+" "), "display name keeps the wallet prefix")
	assert.Greater(t, len(id.UserName), len(wallet)+1, "display name carries an emoji suffix")
	assert.Regexp(t, regexp.MustCompile(`^hsl\(\d{1,3}, 100%, 50%\)$`), id.UserColor)
}

func TestShortLabel(t *testing.T) {
	assert.Equal(t, "0x1234...5678", ShortLabel("0x1234567890abcdef1234567890abcdef12345678"))
	assert.Equal(t, "alice", ShortLabel("alice"))
	assert.Equal(t, "", ShortLabel(""))
}
