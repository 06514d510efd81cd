package security

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/taskpilot/taskpilot/internal/ports"
	"golang.org/x/oauth2"
)

const googleIssuer = "https://accounts.google.com"

// calendarScope is requested alongside identity scopes so the delegated token
// pair obtained at login can later drive calendar calls.
const calendarScope = "https://www.googleapis.com/auth/calendar.events"

// GoogleProvider completes the authorization-code flow against Google and
// mints refresh-capable token sources from stored pairs.
type GoogleProvider struct {
	oauthConfig *oauth2.Config
	verifier    *oidc.IDTokenVerifier
	httpClient  *http.Client
}

// NewGoogleProvider builds the provider from client credentials. All three of
// client id, client secret, and redirect URL must be present; the caller
// treats a missing subset as "not configured" and never constructs one.
func NewGoogleProvider(ctx context.Context, clientID, clientSecret, redirectURL string, timeout time.Duration) (*GoogleProvider, error) {
	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil, errors.New("google oauth config missing required fields")
	}
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	httpClient := &http.Client{Timeout: timeout}

	oidcProvider, err := oidc.NewProvider(oidc.ClientContext(ctx, httpClient), googleIssuer)
	if err != nil {
		return nil, fmt.Errorf("init google oidc provider: %w", err)
	}

	return &GoogleProvider{
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     oidcProvider.Endpoint(),
			Scopes: []string{
				oidc.ScopeOpenID,
				"profile",
				"email",
				calendarScope,
			},
		},
		verifier:   oidcProvider.Verifier(&oidc.Config{ClientID: clientID}),
		httpClient: httpClient,
	}, nil
}

// AuthCodeURL builds the consent URL. Offline access with forced consent makes
// Google return a refresh token on every grant, not only the first one.
func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.oauthConfig.AuthCodeURL(
		state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// Exchange redeems the authorization code and verifies the id_token before
// trusting any claim in it.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (ports.FederatedProfile, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	token, err := p.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return ports.FederatedProfile{}, fmt.Errorf("google token exchange failed: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return ports.FederatedProfile{}, errors.New("google did not return id_token")
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return ports.FederatedProfile{}, fmt.Errorf("google id_token verification failed: %w", err)
	}

	var claims struct {
		Email      string `json:"email"`
		GivenName  string `json:"given_name"`
		FamilyName string `json:"family_name"`
		Name       string `json:"name"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return ports.FederatedProfile{}, fmt.Errorf("google id_token claims parse failed: %w", err)
	}
	if claims.Email == "" {
		return ports.FederatedProfile{}, errors.New("google id_token missing email claim")
	}

	name := claims.Name
	if name == "" {
		name = strings.TrimSpace(claims.GivenName + " " + claims.FamilyName)
	}

	return ports.FederatedProfile{
		Email:        claims.Email,
		Name:         name,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}, nil
}

// TokenSource seeds a refreshing source from a stored pair. The seed expiry is
// already elapsed, so the first use goes through the provider's refresh path;
// after that the source caches the provider-reported expiry in memory. The
// source outlives the triggering request, so it is detached from the request's
// cancellation while keeping the bounded HTTP client.
func (p *GoogleProvider) TokenSource(ctx context.Context, accessToken, refreshToken string) oauth2.TokenSource {
	ctx = context.WithValue(context.WithoutCancel(ctx), oauth2.HTTPClient, p.httpClient)
	return p.oauthConfig.TokenSource(ctx, &oauth2.Token{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Expiry:       time.Now().Add(-time.Minute),
	})
}
