package cli

import "os"

// Config holds CLI configuration
type Config struct {
	ServerURL string
	UserID    string
	UserName  string
	Output    string
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("GOMOKU_SERVER", "ws://localhost:8080/ws"),
		UserID:    os.Getenv("GOMOKU_USER_ID"),
		UserName:  os.Getenv("GOMOKU_USER_NAME"),
		Output:    "text",
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
