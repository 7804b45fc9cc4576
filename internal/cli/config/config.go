// Package config loads cellform configuration from file, environment, and
// CLI flags.
package config

// Default configuration values.
const (
	DefaultColumnsFile = "columns.yaml"
	DefaultBackendURL  = "http://localhost:9090"
	DefaultPort        = 8080
	DefaultOutput      = "auto"
)

// Config is the resolved cellform configuration.
type Config struct {
	ProjectRoot   string `koanf:"-"`
	ColumnsFile   string `koanf:"columns_file"`
	BackendURL    string `koanf:"backend_url"`
	Port          int    `koanf:"port"`
	SessionSecret string `koanf:"session_secret"`
	OutputFormat  string `koanf:"output"`
	Verbose       bool   `koanf:"verbose"`
}
