package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig returned nil")
	}

	if len(cfg.WebSocket.AllowedOrigins) != 0 {
		t.Errorf("expected empty allowed origins by default, got %v", cfg.WebSocket.AllowedOrigins)
	}

	if cfg.WebSocket.MaxMessageSize != 4096 {
		t.Errorf("expected max message size 4096, got %d", cfg.WebSocket.MaxMessageSize)
	}

	if cfg.Connections.MaxPerIP != 3 {
		t.Errorf("expected 3 connections per IP, got %d", cfg.Connections.MaxPerIP)
	}

	if cfg.RateLimit.MaxAttempts != 5 || cfg.RateLimit.LockoutSeconds != 30 || cfg.RateLimit.MaxLockoutSeconds != 300 {
		t.Errorf("unexpected rate limit defaults: %+v", cfg.RateLimit)
	}
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for missing file, got %v", err)
	}
	if cfg == nil {
		t.Fatal("expected default config for missing file, got nil")
	}
	if cfg.Password.MinLength != 8 {
		t.Errorf("expected default min length 8, got %d", cfg.Password.MinLength)
	}
}

func TestLoadConfig_ValidFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "server.yaml")

	content := `
websocket:
  allowed_origins:
    - "https://example.com"
    - "http://localhost:3000"
  max_message_size: 8192
connections:
  max_per_ip: 1
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cfg.WebSocket.AllowedOrigins) != 2 {
		t.Errorf("expected 2 allowed origins, got %d", len(cfg.WebSocket.AllowedOrigins))
	}
	if cfg.WebSocket.MaxMessageSize != 8192 {
		t.Errorf("expected max message size 8192, got %d", cfg.WebSocket.MaxMessageSize)
	}
	if cfg.Connections.MaxPerIP != 1 {
		t.Errorf("expected max per IP 1, got %d", cfg.Connections.MaxPerIP)
	}
	// Untouched sections keep their defaults
	if cfg.Connections.MaxTotal != 100 {
		t.Errorf("expected default max total 100, got %d", cfg.Connections.MaxTotal)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "server.yaml")
	if err := os.WriteFile(configPath, []byte("websocket: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(configPath)
	if err == nil {
		t.Error("expected parse error")
	}
	if cfg == nil || cfg.WebSocket.MaxMessageSize != 4096 {
		t.Error("expected defaults returned alongside parse error")
	}
}

func TestIsOriginAllowed(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{"same origin empty header", nil, "", true},
		{"same origin matching host", nil, "http://localhost:4000", true},
		{"same origin different host", nil, "http://evil.com", false},
		{"wildcard", []string{"*"}, "http://anything.com", true},
		{"exact match", []string{"https://example.com"}, "https://example.com", true},
		{"partial match rejected", []string{"https://example.com"}, "https://example.com:8080", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := WebSocketConfig{AllowedOrigins: tt.allowed}
			if got := cfg.IsOriginAllowed(tt.origin, "localhost:4000"); got != tt.want {
				t.Errorf("IsOriginAllowed(%q) = %v, want %v", tt.origin, got, tt.want)
			}
		})
	}
}

func TestIsSameOrigin(t *testing.T) {
	tests := []struct {
		origin      string
		requestHost string
		expected    bool
	}{
		{"", "localhost:4000", true},
		{"http://localhost:4000", "localhost:4000", true},
		{"https://localhost:4000", "localhost:4000", true},
		{"http://localhost:4000/", "localhost:4000", true},
		{"http://example.com", "localhost:4000", false},
		{"http://localhost:3000", "localhost:4000", false},
		{"ws://localhost:4000", "localhost:4000", true},
	}

	for _, tt := range tests {
		result := isSameOrigin(tt.origin, tt.requestHost)
		if result != tt.expected {
			t.Errorf("isSameOrigin(%q, %q) = %v, want %v",
				tt.origin, tt.requestHost, result, tt.expected)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		config   PasswordConfig
		password string
		wantErr  bool
	}{
		{"too short", PasswordConfig{MinLength: 8}, "short", true},
		{"zero min length defaults to 8", PasswordConfig{}, "seven77", true},
		{"missing uppercase", PasswordConfig{MinLength: 8, RequireUppercase: true}, "password1", true},
		{"missing lowercase", PasswordConfig{MinLength: 8, RequireLowercase: true}, "PASSWORD1", true},
		{"missing digit", PasswordConfig{MinLength: 8, RequireDigit: true}, "Password", true},
		{"valid", DefaultConfig().Password, "Password1", false},
		{"minimal requirements only", PasswordConfig{MinLength: 4}, "test", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.config.ValidatePassword(tt.password)
			gotErr := result != ""
			if gotErr != tt.wantErr {
				t.Errorf("ValidatePassword(%q) error = %v, wantErr %v (msg: %s)",
					tt.password, gotErr, tt.wantErr, result)
			}
			if gotErr && !strings.HasPrefix(result, "Password must") {
				t.Errorf("unexpected message %q", result)
			}
		})
	}
}

func TestShippedServerConfigMatchesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("..", "..", "data", "server.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	def := DefaultConfig()
	if cfg.Connections != def.Connections || cfg.RateLimit != def.RateLimit || cfg.Password != def.Password ||
		cfg.Throttle != def.Throttle {
		t.Errorf("shipped server.yaml drifted from defaults: %+v", cfg)
	}
	if cfg.Names.MinLength != def.Names.MinLength || cfg.Names.MaxLength != def.Names.MaxLength ||
		len(cfg.Names.ReservedNames) != len(def.Names.ReservedNames) {
		t.Errorf("shipped names section drifted from defaults: %+v", cfg.Names)
	}
}
