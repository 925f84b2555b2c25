package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Source describes where a secret value comes from. File takes precedence
// over the inline Value.
type Source struct {
	// Name gives error messages context about which secret failed to load.
	Name  string
	Value string
	File  string
}

// Load resolves and trims the secret. An error names the secret when neither
// File nor Value yield a usable value.
func (s Source) Load() (string, error) {
	name := strings.TrimSpace(s.Name)
	if name == "" {
		name = "secret"
	}

	file := strings.TrimSpace(s.File)
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		s.Value = string(data)
	}

	secret := strings.TrimSpace(s.Value)
	if secret == "" {
		if file != "" {
			return "", fmt.Errorf("%s file %q is empty", name, file)
		}
		return "", fmt.Errorf("%s is not configured", name)
	}

	return secret, nil
}
