package config

import "testing"

func TestMaskKeyShort(t *testing.T) {
	// Keys with 8 or fewer characters should be fully masked
	tests := []struct {
		input string
		want  string
	}{
		{"", "***"},
		{"a", "***"},
		{"12345678", "***"},
	}
	for _, tc := range tests {
		if got := maskKey(tc.input); got != tc.want {
			t.Errorf("maskKey(%q): got %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestMaskKeyLong(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"123456789", "123...789"},
		{"AC0123456789abcdef", "AC0...def"},
	}
	for _, tc := range tests {
		if got := maskKey(tc.input); got != tc.want {
			t.Errorf("maskKey(%q): got %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestCheckAPIKeysAllEmpty(t *testing.T) {
	clearCredentialEnv(t)

	statuses := CheckAPIKeys(&Config{})
	if len(statuses) != 4 {
		t.Fatalf("CheckAPIKeys: got %d statuses, want 4", len(statuses))
	}
	for _, s := range statuses {
		if s.IsSet {
			t.Errorf("Key %q should not be set", s.Name)
		}
		if s.Source != KeySourceNone {
			t.Errorf("Key %q source: got %q, want %q", s.Name, s.Source, KeySourceNone)
		}
	}
	if got := Missing(statuses); len(got) != 4 {
		t.Errorf("Missing: got %v", got)
	}
}

func TestCheckAPIKeysSources(t *testing.T) {
	clearCredentialEnv(t)
	t.Setenv("TWILIO_AUTH_TOKEN", "token-from-legacy-env")

	cfg := &Config{
		Stock: StockConfig{APIKey: "stock-key-from-file"},
		SMS:   SMSConfig{AuthToken: "token-from-legacy-env"},
	}
	byName := map[string]KeyStatus{}
	for _, s := range CheckAPIKeys(cfg) {
		byName[s.Name] = s
	}

	stock := byName["Stock API Key"]
	if !stock.IsSet || stock.Source != KeySourceConfig {
		t.Errorf("Stock API Key: got %+v", stock)
	}
	if stock.Masked != "sto...ile" {
		t.Errorf("Stock API Key masked: got %q", stock.Masked)
	}

	token := byName["Twilio Auth Token"]
	if token.Source != KeySourceEnv {
		t.Errorf("Twilio Auth Token source: got %q, want %q", token.Source, KeySourceEnv)
	}

	missing := Missing(CheckAPIKeys(cfg))
	if len(missing) != 2 {
		t.Errorf("Missing: got %v, want 2 entries", missing)
	}
}

func TestAPIKeySourceConstants(t *testing.T) {
	if string(KeySourceEnv) != "env" || string(KeySourceConfig) != "config" || string(KeySourceNone) != "none" {
		t.Errorf("unexpected source constants: %q %q %q", KeySourceEnv, KeySourceConfig, KeySourceNone)
	}
}
