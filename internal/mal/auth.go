package mal

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "hianime-api"
	keyringUser    = "mal-token"

	authEndpoint  = "https://myanimelist.net/v1/oauth2/authorize"
	tokenEndpoint = "https://myanimelist.net/v1/oauth2/token"
	redirectURI   = "http://localhost:8080/callback"
)

// Token holds the OAuth2 tokens returned by MyAnimeList.
type Token struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
}

// GenerateCodeVerifier generates a cryptographically secure random string
// for the PKCE challenge.
func GenerateCodeVerifier() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// AuthURL constructs the authorization URL for the OAuth2 PKCE flow.
// MAL only supports the "plain" challenge method, so the challenge equals
// the verifier.
func AuthURL(codeVerifier, clientID string) string {
	v := url.Values{}
	v.Set("response_type", "code")
	v.Set("client_id", clientID)
	v.Set("code_challenge", codeVerifier)
	v.Set("code_challenge_method", "plain")
	v.Set("redirect_uri", redirectURI)
	return authEndpoint + "?" + v.Encode()
}

// ExchangeCode trades the authorization code for OAuth2 tokens.
func ExchangeCode(code, codeVerifier, clientID string) (*Token, error) {
	values := url.Values{}
	values.Set("client_id", clientID)
	values.Set("code", code)
	values.Set("code_verifier", codeVerifier)
	values.Set("grant_type", "authorization_code")
	values.Set("redirect_uri", redirectURI)

	return postTokenForm(values)
}

// Refresh renews an expired access token using the stored refresh token
// and persists the result.
func Refresh(clientID string) (*Token, error) {
	token, err := LoadToken()
	if err != nil {
		return nil, fmt.Errorf("no stored token: %w", err)
	}

	values := url.Values{}
	values.Set("client_id", clientID)
	values.Set("grant_type", "refresh_token")
	values.Set("refresh_token", token.RefreshToken)

	fresh, err := postTokenForm(values)
	if err != nil {
		return nil, err
	}
	if err := SaveToken(fresh); err != nil {
		return nil, fmt.Errorf("persisting refreshed token: %w", err)
	}
	return fresh, nil
}

func postTokenForm(values url.Values) (*Token, error) {
	req, err := http.NewRequest(http.MethodPost, tokenEndpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("mal authentication failed: %s", string(body))
	}

	var token Token
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, err
	}
	return &token, nil
}

// SaveToken serializes and persists the OAuth2 token to the system
// keyring.
func SaveToken(token *Token) error {
	b, err := json.Marshal(token)
	if err != nil {
		return err
	}
	return keyring.Set(keyringService, keyringUser, string(b))
}

// LoadToken retrieves the OAuth2 token from the system keyring.
func LoadToken() (*Token, error) {
	s, err := keyring.Get(keyringService, keyringUser)
	if err != nil {
		return nil, err
	}

	var token Token
	if err := json.Unmarshal([]byte(s), &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// DeleteToken removes the stored token from the system keyring.
func DeleteToken() error {
	return keyring.Delete(keyringService, keyringUser)
}
