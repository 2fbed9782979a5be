package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Source describes where a credential comes from. File takes precedence over
// Value when both are set; Name only appears in error messages.
type Source struct {
	Name  string
	Value string
	File  string
}

// Load resolves and trims the credential. A missing credential is an error:
// required secrets are a deployment concern, never defaulted.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	if file := strings.TrimSpace(src.File); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}

		secret := strings.TrimSpace(string(data))
		if secret == "" {
			return "", fmt.Errorf("%s file %q is empty", name, file)
		}
		return secret, nil
	}

	secret := strings.TrimSpace(src.Value)
	if secret == "" {
		return "", fmt.Errorf("%s is not configured", name)
	}

	return secret, nil
}
