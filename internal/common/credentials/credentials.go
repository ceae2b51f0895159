// internal/common/credentials/credentials.go
package credentials

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"betabot/internal/common/config"
)

// googleCredentialsEnv is the variable Google client libraries read to locate
// a service-account key file.
const googleCredentialsEnv = "GOOGLE_APPLICATION_CREDENTIALS"

// Materialize decodes the base64 credential blob to a local file and exports
// its path for client libraries. When no blob is supplied it leaves the
// environment as-is and returns an empty path; the engine then relies on
// ambient credentials.
func Materialize(cfg config.CredentialsConfig) (string, error) {
	if cfg.Base64 == "" {
		return "", nil
	}

	decoded, err := base64.StdEncoding.DecodeString(cfg.Base64)
	if err != nil {
		return "", fmt.Errorf("decode credential blob: %w", err)
	}

	path, err := filepath.Abs(cfg.File)
	if err != nil {
		return "", fmt.Errorf("resolve credential path: %w", err)
	}

	if err := os.WriteFile(path, decoded, 0o600); err != nil {
		return "", fmt.Errorf("write credential file: %w", err)
	}

	if err := os.Setenv(googleCredentialsEnv, path); err != nil {
		return "", fmt.Errorf("export credential path: %w", err)
	}

	return path, nil
}
