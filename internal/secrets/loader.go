// Package secrets resolves credential values from configuration,
// preferring files over inline values so keys stay out of config files
// and process listings.
package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Source describes where a secret may come from. File wins over Value
// when both are set.
type Source struct {
	// Name appears in error messages so a failed lookup names the
	// secret, not just the path.
	Name  string
	Value string
	File  string
}

// Load resolves the source to a trimmed secret value. It fails when
// the file cannot be read, the file is empty, or neither File nor
// Value is set.
func (s Source) Load() (string, error) {
	name := strings.TrimSpace(s.Name)
	if name == "" {
		name = "secret"
	}

	if file := strings.TrimSpace(s.File); file != "" {
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

	if secret := strings.TrimSpace(s.Value); secret != "" {
		return secret, nil
	}

	return "", fmt.Errorf("%s is not configured", name)
}
