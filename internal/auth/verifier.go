package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Identity is a verified external identity, as reported by the token
// verifier. Subject is the provider's stable user id.
type Identity struct {
	Subject string
	Name    string
	Email   string
}

// Verifier checks an ID token issued by the identity provider and returns
// the identity it asserts. Verification is a black box from the server's
// perspective.
type Verifier interface {
	Verify(ctx context.Context, idToken string) (*Identity, error)
}

const googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// GoogleVerifier validates Google ID tokens against the tokeninfo endpoint
// and checks the token was issued for our client id.
type GoogleVerifier struct {
	ClientID string
	Endpoint string
	Client   *http.Client
}

func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{
		ClientID: clientID,
		Endpoint: googleTokenInfoURL,
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type tokenInfoResponse struct {
	Sub   string `json:"sub"`
	Aud   string `json:"aud"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (v *GoogleVerifier) Verify(ctx context.Context, idToken string) (*Identity, error) {
	endpoint := v.Endpoint
	if endpoint == "" {
		endpoint = googleTokenInfoURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?id_token="+url.QueryEscape(idToken), nil)
	if err != nil {
		return nil, err
	}

	client := v.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token verification request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("invalid token")
	}

	var info tokenInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("invalid token info response: %w", err)
	}

	if v.ClientID != "" && info.Aud != v.ClientID {
		return nil, fmt.Errorf("token audience mismatch")
	}

	if info.Sub == "" {
		return nil, fmt.Errorf("token has no subject")
	}

	return &Identity{
		Subject: info.Sub,
		Name:    info.Name,
		Email:   info.Email,
	}, nil
}

// DevVerifier accepts any token and reports a fixed identity. It exists for
// local development and CI only; main wires it up solely when DEV_AUTH=true
// is set in the environment.
type DevVerifier struct{}

func (DevVerifier) Verify(ctx context.Context, idToken string) (*Identity, error) {
	return &Identity{
		Subject: "dev",
		Name:    "Dev User",
		Email:   "dev@example.com",
	}, nil
}
