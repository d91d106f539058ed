package spotify

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestTokenCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	cache := newTokenCache(path)

	token, err := cache.load()
	require.NoError(t, err)
	assert.Nil(t, token, "empty cache should load as nil")

	want := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour),
	}
	require.NoError(t, cache.save(want))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := cache.load()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.AccessToken, got.AccessToken)
	assert.Equal(t, want.RefreshToken, got.RefreshToken)

	cache.clear()
	got, err = cache.load()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTokenCacheIgnoresGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	got, err := newTokenCache(path).load()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTokenCacheRejectsExpiredWithoutRefresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	cache := newTokenCache(path)
	require.NoError(t, cache.save(&oauth2.Token{
		AccessToken: "access",
		Expiry:      time.Now().Add(-time.Hour),
	}))

	got, err := cache.load()
	require.NoError(t, err)
	assert.Nil(t, got, "expired token with no refresh token is useless")
}

func TestTokenCacheDisabled(t *testing.T) {
	cache := newTokenCache("")
	require.NoError(t, cache.save(&oauth2.Token{AccessToken: "access"}))
	got, err := cache.load()
	require.NoError(t, err)
	assert.Nil(t, got)
}
