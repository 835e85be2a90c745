package config

import "os"

// Config is everything the panel reads from the environment. The backend URL
// is fixed at deploy time; there is no runtime switching.
type Config struct {
	Port          string
	BackendURL    string
	SessionSecret []byte
	TemplateGlob  string
}

// Load reads the configuration with development defaults.
func Load() *Config {
	return &Config{
		Port:          getenv("PORT", "8080"),
		BackendURL:    getenv("BACKEND_URL", "https://backend-c4ud.onrender.com"),
		SessionSecret: sessionSecret(),
		TemplateGlob:  getenv("TEMPLATE_GLOB", "web/templates/*.html"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func sessionSecret() []byte {
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			panic("FATAL: SESSION_SECRET environment variable is required in production mode")
		}
		secret = "default_super_secret_key" // Development fallback only, DO NOT use in production
	}
	return []byte(secret)
}
