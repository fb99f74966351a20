package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ResetMode controls what the monthly reset clears.
type ResetMode string

const (
	ResetOff       ResetMode = "off"       // no reset
	ResetStandings ResetMode = "standings" // zero win/loss counters
	ResetFull      ResetMode = "full"      // counters plus ratings back to default
)

type Config struct {
	Environment string `json:"environment"`
	Server      struct {
		Host string `json:"host"`
		Port int    `json:"port"`
	} `json:"server"`
	MongoDB struct {
		URI      string `json:"uri"`
		Database string `json:"database"`
	} `json:"mongodb"`
	Gateway struct {
		URL   string `json:"url"`
		Token string `json:"token"`
	} `json:"gateway"`
	HTTP struct {
		AllowedOrigin string `json:"allowedOrigin"`
	} `json:"http"`
	Arena struct {
		TeamSize      int  `json:"teamSize"`
		RatingDelta   int  `json:"ratingDelta"`
		DefaultRating int  `json:"defaultRating"`
		SubmitMin     int  `json:"submitMin"`
		SubmitMax     int  `json:"submitMax"`
		ScaledDeltas  bool `json:"scaledDeltas"`
	} `json:"arena"`
	Panel struct {
		Image string `json:"image"`
		Color string `json:"color"`
	} `json:"panel"`
	Reset struct {
		Mode ResetMode `json:"mode"`
	} `json:"reset"`
}

func Load(env string) (*Config, error) {
	configDir := os.Getenv("CONFIG_DIR")
	if configDir == "" {
		// Default to configs directory relative to working directory
		configDir = "configs"
	}

	filename := fmt.Sprintf("config.%s.json", env)
	configPath := filepath.Join(configDir, filename)

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	// Replace environment variables in the config
	configStr := expandEnvVars(string(data))

	var cfg Config
	if err := json.Unmarshal([]byte(configStr), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Environment = env
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Arena.TeamSize <= 0 {
		c.Arena.TeamSize = 5
	}
	if c.Arena.RatingDelta <= 0 {
		c.Arena.RatingDelta = 20
	}
	if c.Arena.DefaultRating == 0 {
		c.Arena.DefaultRating = 1000
	}
	if c.Arena.SubmitMax <= c.Arena.SubmitMin {
		c.Arena.SubmitMin = 0
		c.Arena.SubmitMax = 5000
	}
	if c.Panel.Color == "" {
		c.Panel.Color = "#ff0000"
	}
	if c.Reset.Mode == "" {
		c.Reset.Mode = ResetOff
	}
}

// expandEnvVars replaces ${VAR_NAME} with environment variable values
func expandEnvVars(s string) string {
	return os.Expand(s, func(key string) string {
		return os.Getenv(key)
	})
}

func GetEnv() string {
	env := os.Getenv("ARENA_ENV")
	if env == "" {
		return "dev"
	}
	return env
}
