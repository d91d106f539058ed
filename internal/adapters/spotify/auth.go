package spotify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
)

// Credentials configures the authorization-code flow.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// TokenPath, when set, caches the OAuth token so repeat runs skip the
	// browser flow.
	TokenPath string
}

// Authenticate runs the authorization-code flow: it starts a local callback
// server on the redirect URL, prints the login URL for the user to open, and
// blocks until the token arrives or ctx is done. The returned Client is
// bound to the logged-in user.
func Authenticate(ctx context.Context, creds Credentials) (*Client, error) {
	redirect, err := url.Parse(creds.RedirectURL)
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: invalid redirect url: %w", err)
	}

	auth := spotifyauth.New(
		spotifyauth.WithClientID(creds.ClientID),
		spotifyauth.WithClientSecret(creds.ClientSecret),
		spotifyauth.WithRedirectURL(creds.RedirectURL),
		spotifyauth.WithScopes(
			spotifyauth.ScopeUserLibraryRead,
			spotifyauth.ScopePlaylistModifyPrivate,
			spotifyauth.ScopePlaylistModifyPublic,
		),
	)

	cache := newTokenCache(creds.TokenPath)
	if token, err := cache.load(); err == nil && token != nil {
		api := spotify.New(auth.Client(ctx, token))
		user, err := api.CurrentUser(ctx)
		if err == nil {
			logrus.Infof("logged in as %s (cached token)", user.ID)
			return &Client{api: api, userID: user.ID, batchDelay: addBatchDelay}, nil
		}
		logrus.Debugf("spotify adapter: cached token rejected: %v", err)
		cache.clear()
	}

	state := uuid.NewString()
	clientCh := make(chan *spotify.Client, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc(redirect.Path, func(w http.ResponseWriter, r *http.Request) {
		token, err := auth.Token(r.Context(), state, r)
		if err != nil {
			http.Error(w, "authentication failed", http.StatusForbidden)
			errCh <- fmt.Errorf("spotify adapter: token exchange: %w", err)
			return
		}
		fmt.Fprintln(w, "Login complete, you can close this tab.")
		if err := cache.save(token); err != nil {
			logrus.Warnf("spotify adapter: failed to cache token: %v", err)
		}
		clientCh <- spotify.New(auth.Client(ctx, token))
	})

	srv := &http.Server{
		Addr:              redirect.Host,
		Handler:           mux,
		ReadHeaderTimeout: 15 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("spotify adapter: callback server: %w", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logrus.Warnf("spotify adapter: callback server shutdown: %v", err)
		}
	}()

	fmt.Println("Please log in to Spotify by visiting the following page in your browser:")
	fmt.Println(auth.AuthURL(state))

	var api *spotify.Client
	select {
	case api = <-clientCh:
	case err := <-errCh:
		return nil, err
	case <-ctx.Done():
		return nil, fmt.Errorf("spotify adapter: login canceled: %w", ctx.Err())
	}

	user, err := api.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: current user: %w", err)
	}
	logrus.Infof("logged in as %s", user.ID)

	return &Client{api: api, userID: user.ID, batchDelay: addBatchDelay}, nil
}
