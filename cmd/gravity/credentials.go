package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const credentialsFile = "credentials.json"

// credentials is the locally stored login state
type credentials struct {
	Email        string `json:"email"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func credentialsPath(dataDir string) string {
	return filepath.Join(dataDir, credentialsFile)
}

func loadCredentials(dataDir string) (credentials, error) {
	var creds credentials
	data, err := os.ReadFile(credentialsPath(dataDir))
	if err != nil {
		if os.IsNotExist(err) {
			return creds, nil
		}
		return creds, fmt.Errorf("reading credentials: %w", err)
	}
	if err := json.Unmarshal(data, &creds); err != nil {
		return credentials{}, fmt.Errorf("parsing credentials: %w", err)
	}
	return creds, nil
}

func saveCredentials(dataDir string, creds credentials) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}
	// Tokens only readable by the owner
	if err := os.WriteFile(credentialsPath(dataDir), data, 0o600); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}
	return nil
}

func clearCredentials(dataDir string) error {
	if err := os.Remove(credentialsPath(dataDir)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing credentials: %w", err)
	}
	return nil
}
