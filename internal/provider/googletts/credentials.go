package googletts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Environment variable names for the service account pieces. The deployment
// keeps the key material in the environment (or a .env file) rather than a
// credentials file on disk.
const (
	envProjectID    = "GOOGLE_PROJECT_ID"
	envPrivateKeyID = "GOOGLE_PRIVATE_KEY_ID"
	envPrivateKey   = "GOOGLE_PRIVATE_KEY"
	envClientEmail  = "GOOGLE_CLIENT_EMAIL"
	envClientID     = "GOOGLE_CLIENT_ID"
	envTokenURI     = "GOOGLE_TOKEN_URI"
)

const (
	defaultTokenURI = "https://oauth2.googleapis.com/token" //nolint:gosec // URL, not a credential
	synthesisScope  = "https://www.googleapis.com/auth/cloud-platform"
)

// ErrMissingCredentials indicates required GOOGLE_* environment variables are
// unset.
var ErrMissingCredentials = errors.New("missing google cloud credentials")

// serviceAccount is the subset of the service-account JSON needed to mint
// access tokens.
type serviceAccount struct {
	Type         string `json:"type"`
	ProjectID    string `json:"project_id"`
	PrivateKeyID string `json:"private_key_id"`
	PrivateKey   string `json:"private_key"`
	ClientEmail  string `json:"client_email"`
	ClientID     string `json:"client_id"`
	TokenURI     string `json:"token_uri"`
}

// TokenSourceFromEnv assembles service-account credentials from GOOGLE_*
// environment variables and returns an OAuth2 token source scoped for
// synthesis calls.
func TokenSourceFromEnv(ctx context.Context) (oauth2.TokenSource, error) {
	account := serviceAccount{
		Type:         "service_account",
		ProjectID:    os.Getenv(envProjectID),
		PrivateKeyID: os.Getenv(envPrivateKeyID),
		PrivateKey:   os.Getenv(envPrivateKey),
		ClientEmail:  os.Getenv(envClientEmail),
		ClientID:     os.Getenv(envClientID),
		TokenURI:     os.Getenv(envTokenURI),
	}

	var missing []string

	if account.ProjectID == "" {
		missing = append(missing, envProjectID)
	}

	if account.PrivateKey == "" {
		missing = append(missing, envPrivateKey)
	}

	if account.ClientEmail == "" {
		missing = append(missing, envClientEmail)
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}

	if account.TokenURI == "" {
		account.TokenURI = defaultTokenURI
	}

	credentialsJSON, err := json.Marshal(account)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal credentials: %w", err)
	}

	jwtConfig, err := google.JWTConfigFromJSON(credentialsJSON, synthesisScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
	}

	return jwtConfig.TokenSource(ctx), nil
}
