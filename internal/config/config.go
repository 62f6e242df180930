package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/limaJavier/uctp/pkg/model"
)

const (
	EnvPrefix      = "UCTP"
	ConfigName     = "config"
	ConfigType     = "toml"
	DefaultEnvFile = ".env"
)

// Config holds the tunable run parameters. Keys match config.toml and, upper-cased with the UCTP_ prefix, the
// environment variables overriding it.
type Config struct {
	StartTemp     float64 `mapstructure:"start_temp" validate:"gt=0"`
	CoolingRate   float64 `mapstructure:"cooling_rate" validate:"gt=0,lt=1"`
	MaxIterations int     `mapstructure:"max_iterations"`
	FileName      string  `mapstructure:"file_name"`
	Strategy      string  `mapstructure:"strategy" validate:"oneof=pure restarts repaired"`
	Restarts      int     `mapstructure:"restarts" validate:"gte=1,lte=1024"`
	Seed          uint64  `mapstructure:"seed"` // Zero draws a random seed
	LogLevel      string  `mapstructure:"log_level" validate:"oneof=info debug trace warn error"`
	MetricsAddr   string  `mapstructure:"metrics_addr"`
	ListenAddr    string  `mapstructure:"listen_addr" validate:"required"`
}

var defaults = map[string]any{
	"start_temp":     1000.0,
	"cooling_rate":   0.9995,
	"max_iterations": 100000,
	"file_name":      "dataset.json",
	"strategy":       "pure",
	"restarts":       4,
	"seed":           0,
	"log_level":      "info",
	"metrics_addr":   "",
	"listen_addr":    ":8080",
}

// Flags bound to configuration keys when present in the flag set given to Load
var flagKeys = map[string]string{
	"start-temp":     "start_temp",
	"cooling-rate":   "cooling_rate",
	"max-iterations": "max_iterations",
	"file":           "file_name",
	"strategy":       "strategy",
	"restarts":       "restarts",
	"seed":           "seed",
	"log-level":      "log_level",
	"metrics-addr":   "metrics_addr",
	"listen":         "listen_addr",
}

// Load resolves the configuration with the following precedence: flags, environment (including a .env file),
// config file and defaults. An empty path looks for config.toml in the working directory and next to the executable;
// a missing file is only an error when the path is given explicitly.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	if err := godotenv.Load(DefaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("cannot load %v: %w", DefaultEnvFile, err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigType(ConfigType)
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigName)
		v.AddConfigPath(".")
		if executable, err := os.Executable(); err == nil {
			v.AddConfigPath(filepath.Dir(executable))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("cannot read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if flag := flags.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return Config{}, fmt.Errorf("cannot bind flag %v: %w", name, err)
				}
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("cannot decode config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (config Config) Validate() error {
	if err := validator.New().Struct(config); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ResolveSeed returns a copy of the configuration whose seed is non-zero
func (config Config) ResolveSeed() Config {
	for config.Seed == 0 {
		config.Seed = rand.Uint64()
	}
	return config
}

func (config Config) Parameters() model.AnnealingParameters {
	return model.AnnealingParameters{
		StartTemperature: config.StartTemp,
		CoolingRate:      config.CoolingRate,
		MaxIterations:    config.MaxIterations,
		Seed:             config.Seed,
	}
}
