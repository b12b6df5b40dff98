package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// Version is reported in the User-Agent and by the version command.
const Version = "0.3.0"

var configDir string
var configFilePath string
var credentialsPath string

// getConfigDir returns platform-specific config directory
func getConfigDir() (string, error) {
	if runtime.GOOS == "windows" {
		// Windows: %LOCALAPPDATA%\tlprogress
		appData := os.Getenv("LOCALAPPDATA")
		if appData == "" {
			appData = os.Getenv("APPDATA")
		}
		if appData == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			appData = home
		}
		return filepath.Join(appData, "tlprogress"), nil
	}

	// Unix-like (macOS, Linux): ~/.config/tlprogress
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "tlprogress"), nil
}

// getSystemConfigPaths returns platform-specific system config paths
func getSystemConfigPaths() []string {
	if runtime.GOOS == "windows" {
		return []string{filepath.Join(os.Getenv("ProgramFiles"), "tlprogress", "config.toml")}
	}

	return []string{
		"/etc/tlprogress/config.toml",
		"/usr/local/etc/tlprogress/config.toml",
	}
}

// Init initializes the configuration. An empty configPath selects the
// per-user default location.
func Init(configPath string) error {
	var err error
	if configPath != "" {
		configDir = filepath.Dir(configPath)
		configFilePath = configPath
	} else {
		configDir, err = getConfigDir()
		if err != nil {
			return err
		}
		configFilePath = filepath.Join(configDir, "config.toml")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}

	credentialsPath = filepath.Join(configDir, "session.json")

	viper.Reset()
	viper.SetConfigType("toml")
	viper.SetEnvPrefix("TLPROGRESS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	// System config first, user config overrides it
	for _, sysConfigPath := range getSystemConfigPaths() {
		if _, err := os.Stat(sysConfigPath); err == nil {
			viper.SetConfigFile(sysConfigPath)
			_ = viper.MergeInConfig()
			break
		}
	}

	viper.SetConfigFile(configFilePath)
	if _, err := os.Stat(configFilePath); err == nil {
		if err := viper.MergeInConfig(); err != nil {
			return fmt.Errorf("read %s: %w", configFilePath, err)
		}
	}

	return nil
}

func setDefaults() {
	viper.SetDefault("forum.base_url", "")
	viper.SetDefault("forum.username", "")

	viper.SetDefault("api.timeout", 30)
	viper.SetDefault("api.user_agent", "tlprogress/"+Version)

	viper.SetDefault("directory.period", "quarterly")
	viper.SetDefault("directory.order", "days_visited")

	viper.SetDefault("requirements.include_replies", false)

	viper.SetDefault("output.format", "text")
	viper.SetDefault("watch.interval", 300)
	viper.SetDefault("metrics.addr", "")

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.file", filepath.Join(configDir, "tlprogress.log"))
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetString returns a string configuration value
func GetString(key string) string {
	value := viper.GetString(key)
	if key == "log.file" {
		return expandPath(value)
	}
	return value
}

// GetInt returns an int configuration value
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool configuration value
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetFloat returns a float configuration value
func GetFloat(key string) float64 {
	return viper.GetFloat64(key)
}

// IsSet reports whether key has a value from any source
func IsSet(key string) bool {
	return viper.IsSet(key)
}

// Sub returns the keys below prefix, e.g. Sub("requirements.tl1")
func Sub(prefix string) map[string]interface{} {
	return viper.GetStringMap(prefix)
}

// Set overrides a value for the current process only
func Set(key string, value interface{}) {
	viper.Set(key, value)
}

// SetString sets a string configuration value and persists it.
// Only the user config file is rewritten, so defaults and process-only
// overrides from Set stay out of it.
func SetString(key string, value string) error {
	file := viper.New()
	file.SetConfigType("toml")
	file.SetConfigFile(configFilePath)
	if _, err := os.Stat(configFilePath); err == nil {
		if err := file.ReadInConfig(); err != nil {
			return fmt.Errorf("read %s: %w", configFilePath, err)
		}
	}

	file.Set(key, value)
	if err := file.WriteConfigAs(configFilePath); err != nil {
		return err
	}

	viper.Set(key, value)
	return nil
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() string {
	return configDir
}

// GetConfigFile returns the user config file path
func GetConfigFile() string {
	return configFilePath
}

// GetCredentialsPath returns the path to the stored session file
func GetCredentialsPath() string {
	return credentialsPath
}
