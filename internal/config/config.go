package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig is the single application configuration, read from
// config.toml next to the executable.
type AppConfig struct {
	Server ServerConfig `toml:"server"`
	Data   DataConfig   `toml:"data"`
	Import ImportConfig `toml:"import"`
}

// ServerConfig configures the embedded web server.
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig configures where data files live.
type DataConfig struct {
	DataDir string `toml:"data_dir"`
	DBFile  string `toml:"db_file"`
}

// ImportConfig tunes the import pipeline.
type ImportConfig struct {
	BatchSize       int      `toml:"batch_size"`
	KnownCategories []string `toml:"known_categories"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    8764,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
			DBFile:  "recount.db",
		},
		Import: ImportConfig{
			BatchSize: 500,
			KnownCategories: []string{
				"BOISSONS", "ALIMENTAIRE", "HYGIENE", "PAPETERIE", "DIVERS",
			},
		},
	}
}

// GetExeDir returns the directory of the running executable.
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

func configPath() string {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, "config.toml")
}

// LoadConfig loads config.toml, falling back to defaults when the file
// does not exist. Environment variables override the file.
func LoadConfig() (*AppConfig, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(configPath())
	if err == nil {
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if v := os.Getenv("RECOUNT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			config.Server.Port = port
		}
	}
	if v := os.Getenv("RECOUNT_DATA_DIR"); v != "" {
		config.Data.DataDir = v
	}

	return config, nil
}

// SaveConfig writes the configuration back to config.toml.
func SaveConfig(config *AppConfig) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(configPath(), data, 0644)
}

// EnsureDataDir creates the data directory next to the executable and
// returns its absolute path.
func EnsureDataDir(config *AppConfig) (string, error) {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	dataDir := config.Data.DataDir
	if !filepath.IsAbs(dataDir) {
		dataDir = filepath.Join(exeDir, dataDir)
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	for _, subdir := range []string{"uploads", "exports"} {
		if err := os.MkdirAll(filepath.Join(dataDir, subdir), 0755); err != nil {
			return "", err
		}
	}

	return dataDir, nil
}

// DBPath is the full path of the SQLite database file.
func DBPath(config *AppConfig, dataDir string) string {
	return filepath.Join(dataDir, config.Data.DBFile)
}
