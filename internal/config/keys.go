package config

import "os"

// APIKeySource represents where an API key comes from.
type APIKeySource string

const (
	KeySourceEnv    APIKeySource = "env"
	KeySourceConfig APIKeySource = "config"
	KeySourceNone   APIKeySource = "none"
)

// KeyStatus represents the status of an API key.
type KeyStatus struct {
	Name   string       `json:"name"`
	Source APIKeySource `json:"source"`
	IsSet  bool         `json:"is_set"`
	Masked string       `json:"masked,omitempty"` // e.g., "AC1...f0e"
}

// CheckAPIKeys returns the status of all credentials a run needs.
func CheckAPIKeys(cfg *Config) []KeyStatus {
	return []KeyStatus{
		checkKey("Stock API Key", cfg.Stock.APIKey, "STOCKALERT_STOCK_API_KEY", "Stock_API"),
		checkKey("News API Key", cfg.News.APIKey, "STOCKALERT_NEWS_API_KEY", "News_API"),
		checkKey("Twilio Account SID", cfg.SMS.AccountSID, "STOCKALERT_SMS_ACCOUNT_SID", "TWILIO_ACCOUNT_SID"),
		checkKey("Twilio Auth Token", cfg.SMS.AuthToken, "STOCKALERT_SMS_AUTH_TOKEN", "TWILIO_AUTH_TOKEN"),
	}
}

// checkKey checks if a key is set and where it came from.
func checkKey(name, value string, envVars ...string) KeyStatus {
	status := KeyStatus{
		Name:   name,
		IsSet:  value != "",
		Source: KeySourceNone,
	}
	if value == "" {
		return status
	}

	status.Source = KeySourceConfig
	for _, env := range envVars {
		if os.Getenv(env) != "" {
			status.Source = KeySourceEnv
			break
		}
	}
	status.Masked = maskKey(value)
	return status
}

// maskKey masks an API key for display, showing only first 3 and last 3 chars.
func maskKey(key string) string {
	if len(key) <= 8 {
		return "***"
	}
	return key[:3] + "..." + key[len(key)-3:]
}

// Missing returns the names of credentials that are not set.
func Missing(statuses []KeyStatus) []string {
	var names []string
	for _, s := range statuses {
		if !s.IsSet {
			names = append(names, s.Name)
		}
	}
	return names
}
