package middleware

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCode(t *testing.T) {
	assert.NoError(t, ValidateCode("print('hi')"))
	assert.Error(t, ValidateCode(""))
	assert.Error(t, ValidateCode("   \n\t"))
	assert.Error(t, ValidateCode(strings.Repeat("a", MaxCodeBytes+1)))
}

func TestValidateLanguage(t *testing.T) {
	for _, lang := range []string{"", "python", "c++", "c#", "objective-c", "Go 1.24"} {
		assert.NoError(t, ValidateLanguage(lang), lang)
	}
	assert.Error(t, ValidateLanguage("python; rm -rf /"))
	assert.Error(t, ValidateLanguage(strings.Repeat("x", 33)))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "python", SanitizeString("  python\x00 "))
	assert.Equal(t, "ab", SanitizeString("a\x01\x02b"))
}

func TestPaginationClamps(t *testing.T) {
	assert.Equal(t, 1, ValidatePage(0))
	assert.Equal(t, 3, ValidatePage(3))
	assert.Equal(t, 20, ValidatePageSize(0))
	assert.Equal(t, 100, ValidatePageSize(500))
	assert.Equal(t, 7, ValidateDays(0))
	assert.Equal(t, 365, ValidateDays(1000))
}

func TestTokenBucket(t *testing.T) {
	tb := NewTokenBucket(2, 1)
	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow(), "bucket exhausted")
}

func TestRateLimiterPerKey(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"), "separate clients get separate buckets")
}

func TestClientIP(t *testing.T) {
	assert.Equal(t, "10.0.0.1", clientIP("10.0.0.1:54321"))
	assert.Equal(t, "::1", clientIP("[::1]:54321"))
	assert.Equal(t, "unparsable", clientIP("unparsable"))
}
