package config

// Config represents the application configuration
type Config struct {
	VK       VKConfig
	Database DatabaseConfig
	Search   SearchConfig
	State    StateConfig
	LogLevel string
}

// VKConfig holds the VK API credentials and settings
type VKConfig struct {
	GroupToken string
	UserToken  string
	APIVersion string
	ClientID   string
}

// DatabaseConfig holds the PostgreSQL connection settings
type DatabaseConfig struct {
	Name     string
	User     string
	Password string
	Host     string
	Port     string
}

// SearchConfig holds the directory search settings
type SearchConfig struct {
	Count int // candidates requested per search
	RPS   int // directory requests per second, shared by all users
}

// StateConfig holds the conversation-state cache policy
type StateConfig struct {
	TTLMinutes int
}
