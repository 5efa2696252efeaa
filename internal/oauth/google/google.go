// Package google configures the Google OAuth 2.0 provider. Google exposes an
// OIDC userinfo endpoint, so the profile comes back already flattened
// (sub/email/name) and no extra API call is needed.
package google

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dropDatabas3/centavo/internal/oauth"
)

const (
	authEndpoint     = "https://accounts.google.com/o/oauth2/auth"
	tokenEndpoint    = "https://oauth2.googleapis.com/token"
	userInfoEndpoint = "https://openidconnect.googleapis.com/v1/userinfo"
)

// New crea el proveedor Google.
func New(clientID, clientSecret string, scopes []string) *oauth.Provider {
	if len(scopes) == 0 {
		scopes = []string{"openid", "email", "profile"}
	}
	return &oauth.Provider{
		Name:         "google",
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Scopes:       scopes,
		URLs: oauth.Endpoints{
			Auth:     authEndpoint,
			Token:    tokenEndpoint,
			UserInfo: userInfoEndpoint,
		},
		Normalize: normalize,
	}
}

type userInfo struct {
	Sub       string  `json:"sub"`
	Email     string  `json:"email"`
	Name      *string `json:"name"`
	GivenName *string `json:"given_name"`
}

func normalize(raw []byte) (oauth.Profile, error) {
	var u userInfo
	if err := json.Unmarshal(raw, &u); err != nil {
		return oauth.Profile{}, fmt.Errorf("google: decode userinfo: %w", err)
	}
	if u.Sub == "" {
		return oauth.Profile{}, fmt.Errorf("google: userinfo missing sub")
	}
	if u.Email == "" || !strings.Contains(u.Email, "@") {
		return oauth.Profile{}, fmt.Errorf("google: userinfo missing email")
	}
	name := "Unknown"
	if u.Name != nil && *u.Name != "" {
		name = *u.Name
	}
	return oauth.Profile{ID: u.Sub, Email: u.Email, Name: name}, nil
}
