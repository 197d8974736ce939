package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// ErrNoAPIKey is returned when no credential can be found anywhere.
var ErrNoAPIKey = errors.New("no API key configured, run `subauto set-api-key YOUR_API_KEY`")

const (
	appDirName      = ".subauto"
	credentialsFile = "config.toml"

	// APIKeyEnv overrides the stored credential when set.
	APIKeyEnv = "GEMINI_API_KEY"
)

type credentials struct {
	Client clientCredentials `toml:"client"`
}

type clientCredentials struct {
	GeminiAPIKey string `toml:"gemini_api_key"`
}

// KeyStore reads and writes the translation API key under the user's
// application directory.
type KeyStore struct {
	configDir string
}

// NewKeyStore returns a store rooted at ~/.subauto.
func NewKeyStore() (*KeyStore, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return &KeyStore{configDir: filepath.Join(home, appDirName)}, nil
}

// NewKeyStoreAt returns a store rooted at dir, used by tests.
func NewKeyStoreAt(dir string) *KeyStore {
	return &KeyStore{configDir: dir}
}

// APIKey returns the credential from the environment if set, otherwise
// from the config file.
func (s *KeyStore) APIKey() (string, error) {
	if key := strings.TrimSpace(os.Getenv(APIKeyEnv)); key != "" {
		return key, nil
	}

	data, err := os.ReadFile(filepath.Join(s.configDir, credentialsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoAPIKey
		}
		return "", fmt.Errorf("failed to read credentials file: %w", err)
	}

	var creds credentials
	if err := toml.Unmarshal(data, &creds); err != nil {
		return "", fmt.Errorf("failed to parse credentials file: %w", err)
	}

	key := strings.TrimSpace(creds.Client.GeminiAPIKey)
	if key == "" {
		return "", ErrNoAPIKey
	}
	return key, nil
}

// SaveAPIKey writes the credential to the config file with owner-only
// permissions.
func (s *KeyStore) SaveAPIKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("API key cannot be empty")
	}

	if err := os.MkdirAll(s.configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(credentials{
		Client: clientCredentials{GeminiAPIKey: key},
	})
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	path := filepath.Join(s.configDir, credentialsFile)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}
	return nil
}

// MaskAPIKey hides all but the last 4 characters of a key for logging.
func MaskAPIKey(key string) string {
	if len(key) <= 4 {
		return key
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
