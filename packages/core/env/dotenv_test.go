package env

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDotEnv(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected map[string]string
	}{
		{
			name:    "simple key-value",
			content: "HITBASE_BASE_URL=https://api.example.com",
			expected: map[string]string{
				"HITBASE_BASE_URL": "https://api.example.com",
			},
		},
		{
			name:    "multiple keys",
			content: "KEY1=value1\nKEY2=value2\nKEY3=value3",
			expected: map[string]string{
				"KEY1": "value1",
				"KEY2": "value2",
				"KEY3": "value3",
			},
		},
		{
			name:    "double quoted value",
			content: `API_KEY="secret with spaces"`,
			expected: map[string]string{
				"API_KEY": "secret with spaces",
			},
		},
		{
			name:    "single quoted value",
			content: `API_KEY='secret with spaces'`,
			expected: map[string]string{
				"API_KEY": "secret with spaces",
			},
		},
		{
			name:    "comments are skipped",
			content: "# This is a comment\nAPI_KEY=secret",
			expected: map[string]string{
				"API_KEY": "secret",
			},
		},
		{
			name:    "empty lines are skipped",
			content: "KEY1=value1\n\n\nKEY2=value2",
			expected: map[string]string{
				"KEY1": "value1",
				"KEY2": "value2",
			},
		},
		{
			name:    "whitespace trimmed",
			content: "  API_KEY  =  secret  ",
			expected: map[string]string{
				"API_KEY": "secret",
			},
		},
		{
			name:    "value with equals sign",
			content: "HITBASE_BASE_URL=https://api.example.com/v1?ssl=true",
			expected: map[string]string{
				"HITBASE_BASE_URL": "https://api.example.com/v1?ssl=true",
			},
		},
		{
			name:    "export prefix",
			content: "export HITBASE_SERVER_PORT=9090",
			expected: map[string]string{
				"HITBASE_SERVER_PORT": "9090",
			},
		},
		{
			name:    "mismatched quotes kept",
			content: `HITBASE_BASE_URL="http://localhost:8080'`,
			expected: map[string]string{
				"HITBASE_BASE_URL": `"http://localhost:8080'`,
			},
		},
		{
			name:    "line without equals skipped",
			content: "NOT_A_PAIR\nbaseUrl=http://localhost:3000",
			expected: map[string]string{
				"baseUrl": "http://localhost:3000",
			},
		},
		{
			name:     "empty file",
			content:  "",
			expected: map[string]string{},
		},
		{
			name:     "only comments",
			content:  "# comment 1\n# comment 2",
			expected: map[string]string{},
		},
		{
			name:    "inline comment not supported",
			content: "API_KEY=secret # this is included",
			expected: map[string]string{
				"API_KEY": "secret # this is included",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create temp file
			tmpDir := t.TempDir()
			envFile := filepath.Join(tmpDir, ".env")
			if err := os.WriteFile(envFile, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write temp file: %v", err)
			}

			result, err := LoadDotEnv(envFile)
			if err != nil {
				t.Fatalf("LoadDotEnv() error = %v", err)
			}

			if len(result) != len(tt.expected) {
				t.Errorf("LoadDotEnv() returned %d keys, want %d", len(result), len(tt.expected))
			}

			for k, v := range tt.expected {
				if got, ok := result[k]; !ok {
					t.Errorf("LoadDotEnv() missing key %q", k)
				} else if got != v {
					t.Errorf("LoadDotEnv()[%q] = %q, want %q", k, got, v)
				}
			}
		})
	}
}

func TestLoadDotEnvFileNotFound(t *testing.T) {
	_, err := LoadDotEnv("/nonexistent/path/.env")
	if err == nil {
		t.Error("LoadDotEnv() expected error for non-existent file")
	}
}
