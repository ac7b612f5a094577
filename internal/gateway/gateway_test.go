package gateway

import (
	"testing"
)

func TestResolveExplicit(t *testing.T) {
	t.Setenv(EnvHost, "from-env")

	if got := Resolve("explicit-host"); got != "explicit-host" {
		t.Errorf("expected explicit host to win, got '%s'", got)
	}
}

func TestResolveEnv(t *testing.T) {
	t.Setenv(EnvHost, "kv-gateway.internal")

	if got := Resolve(""); got != "kv-gateway.internal" {
		t.Errorf("expected host from environment, got '%s'", got)
	}
}

func TestBaseURL(t *testing.T) {
	tests := []struct {
		host     string
		port     int
		expected string
	}{
		{"localhost", 0, "http://localhost:11000"},
		{"10.0.0.5", 11000, "http://10.0.0.5:11000"},
		{"kv.example.com", 8080, "http://kv.example.com:8080"},
		{"::1", 11000, "http://[::1]:11000"},
	}

	for _, tt := range tests {
		if got := BaseURL(tt.host, tt.port); got != tt.expected {
			t.Errorf("BaseURL(%s, %d) = %s, want %s", tt.host, tt.port, got, tt.expected)
		}
	}
}
