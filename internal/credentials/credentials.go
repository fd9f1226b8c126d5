// Package credentials reads and writes the JSON file the auth command stores
// the WriteFreely domain and access token in.
package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrInvalid is returned for a credential file that parses but lacks a field.
var ErrInvalid = errors.New("invalid credentials file")

type Credentials struct {
	Domain      string `json:"writefreely_domain"`
	AccessToken string `json:"writefreely_access_token"`
}

// Load reads the credential file at path. Both fields must be present.
func Load(path string) (Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Credentials{}, fmt.Errorf("read credentials %s: %w", path, err)
	}

	var c Credentials
	if err := json.Unmarshal(data, &c); err != nil {
		return Credentials{}, fmt.Errorf("parse credentials %s: %w", path, err)
	}

	switch {
	case c.Domain == "":
		return Credentials{}, fmt.Errorf("%w %s: missing writefreely_domain", ErrInvalid, path)
	case c.AccessToken == "":
		return Credentials{}, fmt.Errorf("%w %s: missing writefreely_access_token", ErrInvalid, path)
	}
	return c, nil
}

// Save writes c to path, replacing any existing file. The file holds a
// bearer token so it is only readable by its owner.
func Save(path string, c Credentials) error {
	data, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write credentials %s: %w", path, err)
	}
	// WriteFile keeps the mode of a file that already exists.
	if err := os.Chmod(path, 0o600); err != nil {
		return fmt.Errorf("write credentials %s: %w", path, err)
	}
	return nil
}
