// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Server      ServerConfig      `mapstructure:"server"`
	Search      SearchConfig      `mapstructure:"search"`
	Warehouse   WarehouseConfig   `mapstructure:"warehouse"`
	Redis       RedisConfig       `mapstructure:"redis"`
	GenAI       GenAIConfig       `mapstructure:"genai"`
	Credentials CredentialsConfig `mapstructure:"credentials"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port            int      `mapstructure:"port"`
	ReadTimeout     int      `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int      `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int      `mapstructure:"shutdown_timeout"` // milliseconds
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
}

// SearchConfig holds settings for the document-search collaborator.
type SearchConfig struct {
	Addresses  []string `mapstructure:"addresses"`
	Username   string   `mapstructure:"username"`
	Password   string   `mapstructure:"password"`
	Index      string   `mapstructure:"index"`
	MaxResults int      `mapstructure:"max_results"`
	Timeout    int      `mapstructure:"timeout"` // milliseconds
	URL        string   `mapstructure:"url"`     // Single URL for backwards compatibility
}

// GetURL returns the first address or the URL field.
func (s SearchConfig) GetURL() string {
	if s.URL != "" {
		return s.URL
	}
	if len(s.Addresses) > 0 {
		return s.Addresses[0]
	}
	return ""
}

// WarehouseConfig holds settings for the analytics warehouse collaborator.
type WarehouseConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
	Timeout        int    `mapstructure:"timeout"` // milliseconds
}

// GetDSN returns the PostgreSQL connection string.
func (w WarehouseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		w.Host, w.Port, w.User, w.Password, w.Database, w.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// GenAIConfig holds settings for the generation collaborator. Either APIKey
// (Gemini API) or Project+Location (Vertex) selects the backend.
type GenAIConfig struct {
	APIKey   string `mapstructure:"api_key"`
	Project  string `mapstructure:"project"`
	Location string `mapstructure:"location"`
	Model    string `mapstructure:"model"`
	Timeout  int    `mapstructure:"timeout"` // milliseconds
}

// CredentialsConfig holds externally supplied credential material. Base64 is
// decoded to File at startup and the path exported for client libraries.
type CredentialsConfig struct {
	Base64 string `mapstructure:"base64"`
	File   string `mapstructure:"file"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
