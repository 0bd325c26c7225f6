package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	pkgconfig "github.com/starford/blinko-mcp/pkg/config"
)

func validConfig() *Config {
	cfg := NewDefaultConfig()
	cfg.Blinko.Domain = "blinko.example.com"
	cfg.Blinko.APIKey = "secret"
	return cfg
}

func TestConfig_DefaultsNeedBlinkoCredentials(t *testing.T) {
	cfg := NewDefaultConfig()
	err := cfg.Validate()
	if err == nil {
		t.Fatal("defaults without blinko credentials should fail")
	}
	for _, want := range []string{"BLINKO_DOMAIN", "BLINKO_API_KEY"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should mention %s", err, want)
		}
	}
}

func TestConfig_MissingAPIKey(t *testing.T) {
	cfg := validConfig()
	cfg.Blinko.APIKey = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("missing api key should fail")
	}
	if strings.Contains(err.Error(), "BLINKO_DOMAIN") {
		t.Errorf("domain is set, error should not mention it: %v", err)
	}
}

func TestConfig_Valid(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config: %v", err)
	}
}

func TestApplicationConfig_Transport(t *testing.T) {
	tests := []struct {
		transport string
		wantErr   bool
	}{
		{TransportStdio, false},
		{TransportHTTP, false},
		{"websocket", true},
		{"", true},
	}
	for _, tt := range tests {
		t.Run(tt.transport, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Transport = tt.transport
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("transport %q: err = %v, wantErr %v", tt.transport, err, tt.wantErr)
			}
		})
	}
}

func TestApplicationConfig_HTTPPortOnlyCheckedForHTTP(t *testing.T) {
	cfg := validConfig()
	cfg.App.HTTP.Port = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("stdio transport should ignore the http port: %v", err)
	}

	cfg.App.Transport = TransportHTTP
	if err := cfg.Validate(); err == nil {
		t.Fatal("http transport with port 0 should fail")
	}

	cfg.App.HTTP.Port = 9090
	if err := cfg.Validate(); err != nil {
		t.Fatalf("http transport with port: %v", err)
	}
	if got := cfg.App.HTTP.Address(); got != ":9090" {
		t.Errorf("Address() = %q, want :9090", got)
	}
}

func TestApplicationConfig_Timezone(t *testing.T) {
	cfg := validConfig()
	loc, err := cfg.App.Location()
	if err != nil {
		t.Fatalf("empty timezone: %v", err)
	}
	if loc != time.Local {
		t.Errorf("empty timezone should resolve to the local zone, got %v", loc)
	}

	cfg.App.Timezone = "UTC"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("UTC: %v", err)
	}

	cfg.App.Timezone = "Mars/Olympus_Mons"
	err = cfg.Validate()
	if err == nil {
		t.Fatal("unknown timezone should fail")
	}
	if !strings.Contains(err.Error(), "unknown timezone") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestOverrides_Apply(t *testing.T) {
	cfg := validConfig()
	Overrides{
		BlinkoDomain: "https://other.example.com",
		Transport:    TransportHTTP,
		HTTPPort:     7000,
	}.Apply(cfg)

	if cfg.Blinko.Domain != "https://other.example.com" {
		t.Errorf("domain = %q", cfg.Blinko.Domain)
	}
	if cfg.Blinko.APIKey != "secret" {
		t.Errorf("empty override should keep the api key, got %q", cfg.Blinko.APIKey)
	}
	if cfg.App.Transport != TransportHTTP || cfg.App.HTTP.Port != 7000 {
		t.Errorf("transport/port = %q/%d", cfg.App.Transport, cfg.App.HTTP.Port)
	}
}

func TestConfig_FileThenOverrides(t *testing.T) {
	t.Setenv("TEST_BLINKO_KEY", "from-env")
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "app:\n  timezone: UTC\nblinko:\n  domain: file.example.com\n  api_key: ${TEST_BLINKO_KEY}\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	found, err := pkgconfig.DecodeOptional(path, cfg)
	if err != nil || !found {
		t.Fatalf("DecodeOptional: found=%v err=%v", found, err)
	}
	Overrides{BlinkoDomain: "flag.example.com"}.Apply(cfg)

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Blinko.Domain != "flag.example.com" {
		t.Errorf("override should win over file, got %q", cfg.Blinko.Domain)
	}
	if cfg.Blinko.APIKey != "from-env" {
		t.Errorf("api key = %q, want from-env", cfg.Blinko.APIKey)
	}
	if cfg.App.Transport != TransportStdio {
		t.Errorf("default transport should survive a partial file, got %q", cfg.App.Transport)
	}
}

func TestApplication_ReloadCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("blinko:\n  domain: file.example.com\n  api_key: k1\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	app := &application{}
	WithConfigFile(path, Overrides{BlinkoAPIKey: "flag-key"})(app)

	creds, err := app.reloadCredentials()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if creds.Domain != "file.example.com" || creds.APIKey != "flag-key" {
		t.Errorf("creds = %+v", creds)
	}

	if err := os.WriteFile(path, []byte("blinko:\n  api_key: k2\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := app.reloadCredentials(); err == nil {
		t.Fatal("reload without a domain should fail")
	}
}

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}
