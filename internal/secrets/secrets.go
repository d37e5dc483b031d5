// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API credentials from a directory of plain-text files.
// Each file in the directory represents one credential: the filename is the
// key name and the file contents (trimmed) are the value.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Credential file names the CLI looks for.
const (
	AnthropicAPIKey = "anthropic-api-key"
	NCBIAPIKey      = "ncbi-api-key"
)

// Store holds loaded credentials keyed by file name.
type Store map[string]string

// Load reads all files in dir and returns a Store of filename to trimmed
// contents. A missing directory or missing files are not errors; Load returns
// an empty Store. Unreadable files produce a warning on stderr but do not
// abort.
func Load(dir string) (Store, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Store{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	store := make(Store)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			store[name] = value
		}
	}

	return store, nil
}

// Resolve returns explicit when non-empty, then the stored credential for
// key, then the environment variable env. An empty string means the
// credential is unset everywhere.
func (s Store) Resolve(key, env, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if v, ok := s[key]; ok {
		return v
	}
	return os.Getenv(env)
}
