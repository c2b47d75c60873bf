package identity

import (
	"encoding/json"
	"fmt"
	"os"
)

// Credentials holds the identity-provider verification material.
// The file layout follows the provider's service credentials export:
//
//	{
//	  "issuer": "https://id.example.com",
//	  "algorithm": "RS256",
//	  "public_key": "-----BEGIN PUBLIC KEY-----..."
//	}
//
// HS256 credentials carry a "secret" field instead of "public_key".
type Credentials struct {
	Issuer    string `json:"issuer"`
	Algorithm string `json:"algorithm"`
	Secret    string `json:"secret,omitempty"`
	PublicKey string `json:"public_key,omitempty"`
}

// LoadCredentials reads and parses a credentials file.
func LoadCredentials(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("parse credentials file: %w", err)
	}

	if creds.Algorithm == "" {
		creds.Algorithm = "RS256"
	}

	return &creds, nil
}
