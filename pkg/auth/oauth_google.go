package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// OAuthProviderGoogle is the Google provider identifier.
const OAuthProviderGoogle = "google"

// GoogleOAuthConfig holds the Google provider settings loaded from the
// environment.
type GoogleOAuthConfig struct {
	ClientID     string   `env:"GOOGLE_OAUTH_CLIENT_ID,required"`
	ClientSecret string   `env:"GOOGLE_OAUTH_CLIENT_SECRET,required"`
	RedirectURL  string   `env:"GOOGLE_OAUTH_REDIRECT_URL,required"`
	Scopes       []string `env:"GOOGLE_OAUTH_SCOPES" envSeparator:"," envDefault:"https://www.googleapis.com/auth/userinfo.email"`
	VerifiedOnly bool     `env:"GOOGLE_OAUTH_VERIFIED_ONLY" envDefault:"true"`
}

type googleAdapter struct {
	conf         *oauth2.Config
	httpClient   *http.Client
	userinfoURL  string
	verifiedOnly bool
}

// NewGoogleAdapter creates a Google OAuth provider adapter.
func NewGoogleAdapter(cfg GoogleOAuthConfig) ProviderAdapter {
	return &googleAdapter{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     google.Endpoint,
		},
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		userinfoURL:  "https://www.googleapis.com/oauth2/v2/userinfo",
		verifiedOnly: cfg.VerifiedOnly,
	}
}

func (a *googleAdapter) ProviderID() string {
	return OAuthProviderGoogle
}

func (a *googleAdapter) AuthURL(state string) (string, error) {
	return a.conf.AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

// ResolveEmail exchanges the code and reads the account email from the
// Google userinfo API.
func (a *googleAdapter) ResolveEmail(ctx context.Context, code string) (string, error) {
	tok, err := a.conf.Exchange(ctx, code)
	if err != nil {
		// An exchange failure means the code is bogus or already used.
		return "", ErrInvalidCode
	}

	user, err := a.fetchGoogleUser(ctx, tok.AccessToken)
	if err != nil {
		return "", fmt.Errorf("failed to fetch google user: %w", err)
	}
	if user.Email == "" {
		return "", ErrNoProviderEmail
	}
	if a.verifiedOnly && !user.VerifiedEmail {
		return "", ErrProviderEmailUnverified
	}
	return user.Email, nil
}

func (a *googleAdapter) fetchGoogleUser(ctx context.Context, accessToken string) (*googleUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.userinfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google api returned status %d", resp.StatusCode)
	}

	var user googleUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

type googleUser struct {
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
}

var _ ProviderAdapter = (*googleAdapter)(nil)
