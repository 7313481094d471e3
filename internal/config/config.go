package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig   `toml:"server"`
	Search    SearchConfig   `toml:"search"`
	Logging   LoggingConfig  `toml:"logging"`
	Logs      []LogSource    `toml:"logs"`
	Theme     ThemeConfig    `toml:"theme"`
	LogLevels LogLevelConfig `toml:"log_levels"`
	Display   DisplayConfig  `toml:"display"`

	// path the config was read from, empty when defaults were used
	path string
}

// LogSource registers a log file under a stable id
type LogSource struct {
	ID   string `toml:"id"`
	Path string `toml:"path"`
}

// ServerConfig holds HTTP listener options
type ServerConfig struct {
	Addr         string   `toml:"addr"`
	CORSOrigins  []string `toml:"cors_origins"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
}

// SearchConfig bounds paging and search work
type SearchConfig struct {
	MaxResults int `toml:"max_results"`
	PageSize   int `toml:"page_size"`
}

// LoggingConfig selects the slog handler
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// ThemeConfig defines color schemes
type ThemeConfig struct {
	LineNumbers   string         `toml:"line_numbers"`
	StatusBar     string         `toml:"status_bar"`
	StatusBarText string         `toml:"status_bar_text"`
	SearchMatch   string         `toml:"search_match"`
	Levels        LogLevelColors `toml:"levels"`
}

// LogLevelColors defines colors for each log level
type LogLevelColors struct {
	Trace string `toml:"trace"`
	Debug string `toml:"debug"`
	Info  string `toml:"info"`
	Warn  string `toml:"warn"`
	Error string `toml:"error"`
	Fatal string `toml:"fatal"`
}

// LogLevelConfig defines log level detection patterns
type LogLevelConfig struct {
	TracePatterns []string `toml:"trace_patterns"`
	DebugPatterns []string `toml:"debug_patterns"`
	InfoPatterns  []string `toml:"info_patterns"`
	WarnPatterns  []string `toml:"warn_patterns"`
	ErrorPatterns []string `toml:"error_patterns"`
	FatalPatterns []string `toml:"fatal_patterns"`
}

// DisplayConfig holds display options
type DisplayConfig struct {
	ShowLineNumbers bool `toml:"show_line_numbers"`
	SyntaxHighlight bool `toml:"syntax_highlight"`
}

// Duration is a time.Duration that reads from TOML strings like "30s"
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":5000",
			CORSOrigins:  []string{"http://localhost:5173"},
			ReadTimeout:  Duration{30 * time.Second},
			WriteTimeout: Duration{120 * time.Second},
		},
		Search: SearchConfig{
			MaxResults: 100,
			PageSize:   100,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Theme: ThemeConfig{
			LineNumbers:   "240", // Dark gray
			StatusBar:     "236",
			StatusBarText: "252",
			SearchMatch:   "226", // Yellow
			Levels: LogLevelColors{
				Trace: "240",
				Debug: "244",
				Info:  "250",
				Warn:  "214", // Orange
				Error: "167", // Soft red
				Fatal: "196", // Bright red
			},
		},
		LogLevels: LogLevelConfig{
			TracePatterns: []string{"[TRC]", "[TRACE]", "TRACE"},
			DebugPatterns: []string{"[DBG]", "[DEBUG]", "DEBUG"},
			InfoPatterns:  []string{"[INF]", "[INFO]", "INFO"},
			WarnPatterns:  []string{"[WRN]", "[WARN]", "[WARNING]", "WARN", "WARNING"},
			ErrorPatterns: []string{"[ERR]", "[ERROR]", "ERROR", "FAILED"},
			FatalPatterns: []string{"[FTL]", "[FATAL]", "FATAL", "[CRIT]", "CRITICAL"},
		},
		Display: DisplayConfig{
			ShowLineNumbers: true,
			SyntaxHighlight: true,
		},
	}
}

// Load loads config from path, or from the default location when path is
// empty. A missing default file yields defaults; a missing explicit file is
// an error. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = getConfigPath()
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
			cfg.path = path
			cfg.resolvePaths(filepath.Dir(path))
		case os.IsNotExist(err) && !explicit:
		default:
			return nil, err
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// Path returns the file the config was loaded from, if any
func (c *Config) Path() string {
	return c.path
}

// AddSource appends a log source to the registry
func (c *Config) AddSource(id, path string) {
	c.Logs = append(c.Logs, LogSource{ID: id, Path: path})
}

// ParseSource parses an "id=path" pair
func ParseSource(s string) (LogSource, error) {
	id, path, ok := strings.Cut(s, "=")
	id = strings.TrimSpace(id)
	path = strings.TrimSpace(path)
	if !ok || id == "" || path == "" {
		return LogSource{}, fmt.Errorf("log source %q: want id=path", s)
	}
	return LogSource{ID: id, Path: path}, nil
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	if c.Search.MaxResults <= 0 {
		return fmt.Errorf("search.max_results must be positive, got %d", c.Search.MaxResults)
	}
	if c.Search.PageSize <= 0 {
		return fmt.Errorf("search.page_size must be positive, got %d", c.Search.PageSize)
	}

	seen := make(map[string]bool, len(c.Logs))
	for i, src := range c.Logs {
		if src.ID == "" {
			return fmt.Errorf("logs[%d]: id is required", i)
		}
		if src.Path == "" {
			return fmt.Errorf("logs[%d] %q: path is required", i, src.ID)
		}
		if seen[src.ID] {
			return fmt.Errorf("logs[%d]: duplicate id %q", i, src.ID)
		}
		seen[src.ID] = true
	}
	return nil
}

// resolvePaths makes relative log paths relative to the config directory
func (c *Config) resolvePaths(dir string) {
	for i := range c.Logs {
		if c.Logs[i].Path != "" && !filepath.IsAbs(c.Logs[i].Path) {
			c.Logs[i].Path = filepath.Join(dir, c.Logs[i].Path)
		}
	}
}

func (c *Config) applyEnv() {
	c.Server.Addr = envOr("LOGPAGE_ADDR", c.Server.Addr)
	c.Logging.Level = envOr("LOGPAGE_LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = envOr("LOGPAGE_LOG_FORMAT", c.Logging.Format)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getConfigPath returns the config file path
func getConfigPath() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "logpage", "config.toml")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".config", "logpage", "config.toml")
}

// GetConfigPath exports the config path for user reference
func GetConfigPath() string {
	return getConfigPath()
}
