// Package github configures the GitHub OAuth 2.0 provider. Unlike Google,
// GitHub can return a null email for users with private emails, requiring a
// separate call to /user/emails to pick a usable address.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/dropDatabas3/centavo/internal/oauth"
)

const (
	authEndpoint     = "https://github.com/login/oauth/authorize"
	tokenEndpoint    = "https://github.com/login/oauth/access_token"
	userInfoEndpoint = "https://api.github.com/user"
	emailEndpoint    = "https://api.github.com/user/emails"
)

// New crea el proveedor GitHub.
func New(clientID, clientSecret string, scopes []string) *oauth.Provider {
	if len(scopes) == 0 {
		scopes = []string{"read:user", "user:email"}
	}
	return &oauth.Provider{
		Name:         "github",
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Scopes:       scopes,
		URLs: oauth.Endpoints{
			Auth:     authEndpoint,
			Token:    tokenEndpoint,
			UserInfo: userInfoEndpoint,
		},
		Normalize:  normalize,
		FetchEmail: fetchPrimaryEmail,
	}
}

type userInfo struct {
	ID    int64   `json:"id"`
	Login string  `json:"login"`
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

func normalize(raw []byte) (oauth.Profile, error) {
	var u userInfo
	if err := json.Unmarshal(raw, &u); err != nil {
		return oauth.Profile{}, fmt.Errorf("github: decode userinfo: %w", err)
	}
	if u.ID == 0 || u.Login == "" {
		return oauth.Profile{}, fmt.Errorf("github: userinfo missing id/login")
	}
	name := "Unknown"
	if u.Name != nil && *u.Name != "" {
		name = *u.Name
	}
	email := ""
	if u.Email != nil {
		email = *u.Email
	}
	// Email vacío se resuelve después vía FetchEmail.
	return oauth.Profile{
		ID:    strconv.FormatInt(u.ID, 10),
		Email: email,
		Name:  name,
	}, nil
}

type emailInfo struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// fetchPrimaryEmail busca el email del usuario cuando /user lo devuelve null.
func fetchPrimaryEmail(ctx context.Context, hc *http.Client, tokenType, accessToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, emailEndpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", tokenType+" "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("github: emails api http %d", resp.StatusCode)
	}

	var emails []emailInfo
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&emails); err != nil {
		return "", fmt.Errorf("github: decode emails: %w", err)
	}
	return pickEmail(emails)
}

// pickEmail prioriza: primary+verified, luego cualquier verified, luego el primero.
func pickEmail(emails []emailInfo) (string, error) {
	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, nil
		}
	}
	for _, e := range emails {
		if e.Verified {
			return e.Email, nil
		}
	}
	if len(emails) > 0 {
		return emails[0].Email, nil
	}
	return "", fmt.Errorf("github: no email found")
}
