// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Supported key files: anthropic-api-key, openai-api-key, gemini-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/papersynth/pkg/types"
)

// Key file names, one per analysis backend.
const (
	AnthropicKey = "anthropic-api-key"
	OpenAIKey    = "openai-api-key"
	GeminiKey    = "gemini-api-key"
)

// envFallbacks lists, per backend, the environment variables consulted
// when the secrets directory has no key file. The first non-empty one wins.
var envFallbacks = map[types.AIBackend][]string{
	types.BackendAnthropic: {"ANTHROPIC_API_KEY"},
	types.BackendOpenAI:    {"OPENAI_API_KEY"},
	types.BackendGemini:    {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
}

var keyFiles = map[types.AIBackend]string{
	types.BackendAnthropic: AnthropicKey,
	types.BackendOpenAI:    OpenAIKey,
	types.BackendGemini:    GeminiKey,
}

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		name := entry.Name()

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// APIKey returns the key for backend: the key file from secrets first,
// then the backend's environment variables. It returns "" when none is set.
func APIKey(secrets map[string]string, backend types.AIBackend) string {
	if v := secrets[keyFiles[backend]]; v != "" {
		return v
	}
	for _, name := range envFallbacks[backend] {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v
		}
	}
	return ""
}
