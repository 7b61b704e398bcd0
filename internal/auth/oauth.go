package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"galaxy-server/internal/shared/config"
	"galaxy-server/internal/shared/errors"

	"golang.org/x/oauth2"
)

// Provider is a single OpenID-Connect-style identity provider. All
// endpoints come from the environment, so any compliant server (Google,
// Keycloak, Dex, ...) works without code changes.
type Provider struct {
	config      *oauth2.Config
	userInfoURL string
	configured  bool
}

func InitOAuth() *Provider {
	cfg := config.GlobalConfig
	logger := slog.With("component", "oauth", "operation", "init")
	logger.Debug("Initializing OAuth configuration")

	oauthConfig := &oauth2.Config{
		ClientID:     cfg.OAuth.ClientID,
		ClientSecret: cfg.OAuth.ClientSecret,
		RedirectURL:  cfg.OAuth.RedirectURL,
		Scopes:       cfg.OAuth.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  cfg.OAuth.AuthURL,
			TokenURL: cfg.OAuth.TokenURL,
		},
	}

	configured := cfg.OAuthConfigured()

	logger.Info("OAuth configuration completed",
		"configured", configured,
		"redirect_url", oauthConfig.RedirectURL,
	)
	if !configured {
		logger.Warn("OAuth not configured - missing client credentials or endpoints")
	}

	return &Provider{
		config:      oauthConfig,
		userInfoURL: cfg.OAuth.UserInfoURL,
		configured:  configured,
	}
}

func (p *Provider) Configured() bool {
	return p.configured
}

func (p *Provider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state)
}

func (p *Provider) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, errors.WrapExternal("failed to exchange authorization code", err)
	}
	return token, nil
}

// FetchUserInfo retrieves the identity document for the token's owner
// from the provider's userinfo endpoint.
func (p *Provider) FetchUserInfo(ctx context.Context, token *oauth2.Token) (*UserInfo, error) {
	if p.userInfoURL == "" {
		return nil, errors.External("OAUTH_USERINFO_URL is not configured")
	}

	client := p.config.Client(ctx, token)
	resp, err := client.Get(p.userInfoURL)
	if err != nil {
		return nil, errors.WrapExternal("failed to fetch user info", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.External(fmt.Sprintf("userinfo endpoint returned status %d", resp.StatusCode))
	}

	var info UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, errors.WrapExternal("failed to decode user info", err)
	}

	if info.Subject == "" {
		return nil, errors.External("userinfo response missing subject")
	}

	return &info, nil
}
