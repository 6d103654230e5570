// Package auth obtains short-lived Bing Ads access tokens from the
// configured OAuth refresh token.
package auth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"

	"github.com/dbsmedya/tap-bingads/internal/config"
)

// Microsoft identity platform endpoints for the Bing Ads scope.
const (
	tokenURL = "https://login.microsoftonline.com/common/oauth2/v2.0/token"
	authURL  = "https://login.microsoftonline.com/common/oauth2/v2.0/authorize"
	adsScope = "https://ads.microsoft.com/msads.manage"
)

// TokenSource returns an oauth2 token source seeded with the configured
// refresh token. No redirect URL is involved: the tap only ever performs
// the refresh grant.
func TokenSource(ctx context.Context, cfg *config.Config) oauth2.TokenSource {
	oc := &oauth2.Config{
		ClientID:     cfg.OAuthClientID,
		ClientSecret: cfg.OAuthClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  authURL,
			TokenURL: tokenURL,
		},
		Scopes: []string{adsScope, "offline_access"},
	}
	return oc.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})
}

// AccessToken performs a token refresh and returns the bearer token.
// Every service client is constructed with a freshly authorized token.
func AccessToken(ctx context.Context, cfg *config.Config) (string, error) {
	tok, err := TokenSource(ctx, cfg).Token()
	if err != nil {
		return "", fmt.Errorf("failed to refresh access token: %w", err)
	}
	return tok.AccessToken, nil
}
