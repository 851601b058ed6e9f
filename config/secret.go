package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/TechHelpSeniors/techhelp-proxy/errors"
)

// MissingAPIKeyMessage is returned to the caller when the secret file is absent.
const MissingAPIKeyMessage = "API key not found. Create apikey.txt in the project root with your API key. " +
	"On Render: use Dashboard → Secret Files to add apikey.txt."

// ErrAPIKeyEmpty is reported by CheckAPIKey when the file holds only whitespace.
var ErrAPIKeyEmpty = stderrors.New("api key file is empty")

// SecretLoader reads the upstream API key from a local file.
// The file is read on every call; nothing is cached.
type SecretLoader struct {
	path string
}

// NewSecretLoader creates a loader for the file at path.
func NewSecretLoader(path string) *SecretLoader {
	return &SecretLoader{path: path}
}

// Path returns the secret file location.
func (l *SecretLoader) Path() string {
	return l.path
}

// LoadAPIKey returns the trimmed contents of the secret file, or a
// configuration error when the file cannot be read.
func (l *SecretLoader) LoadAPIKey() (string, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return "", errors.MissingConfiguration(MissingAPIKeyMessage, err)
		}
		return "", errors.MissingConfiguration(
			fmt.Sprintf("API key file %s could not be read", l.path), err)
	}
	return strings.TrimSpace(string(data)), nil
}

// CheckAPIKey reports whether a non-empty key can be read. Unlike LoadAPIKey
// it returns plain errors and logs nothing, so health probes stay quiet.
func (l *SecretLoader) CheckAPIKey() error {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return err
	}
	if strings.TrimSpace(string(data)) == "" {
		return ErrAPIKeyEmpty
	}
	return nil
}
