package cryptox

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadOrGenerateSecret reads a secret from file, generating and persisting a
// new random one of size bytes if the file does not exist yet. Surrounding
// whitespace in the file is ignored so hand-edited secrets keep working.
func LoadOrGenerateSecret(file string, size int) (string, error) {
	file = filepath.Clean(file)

	data, err := os.ReadFile(file)
	if err == nil {
		secret := strings.TrimSpace(string(data))
		if secret == "" {
			return "", fmt.Errorf("cryptox: secret file %q is empty", file)
		}
		return secret, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(file), 0750); err != nil {
		return "", err
	}

	secret, err := GenerateToken(size)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(file, []byte(secret), 0600); err != nil {
		return "", err
	}
	return secret, nil
}
