package spotify

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
)

// tokenCache persists the OAuth token between runs so repeat invocations
// skip the browser flow. Refresh tokens keep working after the access token
// expires, so a cached token is tried first and discarded only when the
// refreshed session fails.
type tokenCache struct {
	path string
}

func newTokenCache(path string) tokenCache {
	return tokenCache{path: path}
}

// load returns the cached token, or nil when none is stored.
func (c tokenCache) load() (*oauth2.Token, error) {
	if c.path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		// unreadable cache is treated as absent
		return nil, nil
	}
	if token.RefreshToken == "" && !token.Valid() {
		return nil, nil
	}
	return &token, nil
}

func (c tokenCache) save(token *oauth2.Token) error {
	if c.path == "" || token == nil {
		return nil
	}
	data, err := json.Marshal(token)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0o600)
}

func (c tokenCache) clear() {
	if c.path != "" {
		_ = os.Remove(c.path)
	}
}
