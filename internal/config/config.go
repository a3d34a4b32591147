package config

import (
	"fmt"
	"os"
	"strconv"

	"draft-assistant/internal/constants"
	"draft-assistant/internal/domain"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type Config struct {
	DBPath       string
	SnapshotPath string
	ServerPort   string
	LogLevel     string

	SleeperBaseURL string
	ADPBaseURL     string
	ESPNBaseURL    string

	// ESPN cookies, only needed for private leagues.
	ESPNS2   string
	ESPNSWID string

	// Recommendation tunables. League-specific scoring can override the
	// defaults per deployment.
	YouthAgeMax        int
	YouthExperienceMax int
	ValueTierGap       float64

	// PriorityWeights drives team-needs ordering: higher weight means the
	// position matters more when rostered counts are equal.
	PriorityWeights map[domain.Position]int
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		DBPath:             getEnv("DB_PATH", "draft.db"),
		SnapshotPath:       getEnv("SNAPSHOT_PATH", "pool_snapshot.json"),
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		SleeperBaseURL:     getEnv("SLEEPER_BASE_URL", "https://api.sleeper.app/v1"),
		ADPBaseURL:         getEnv("ADP_BASE_URL", "https://fantasyfootballcalculator.com/api/v1/adp"),
		ESPNBaseURL:        getEnv("ESPN_BASE_URL", "https://fantasy.espn.com/apis/v3/games/ffl"),
		ESPNS2:             getEnv("ESPN_S2", ""),
		ESPNSWID:           getEnv("SWID", ""),
		YouthAgeMax:        getEnvInt("YOUTH_AGE_MAX", constants.DefaultYouthAgeMax),
		YouthExperienceMax: getEnvInt("YOUTH_EXPERIENCE_MAX", constants.DefaultYouthExperienceMax),
		ValueTierGap:       getEnvFloat("VALUE_TIER_GAP", constants.DefaultValueTierGap),
		PriorityWeights: map[domain.Position]int{
			domain.PositionRB:  3,
			domain.PositionWR:  3,
			domain.PositionQB:  2,
			domain.PositionTE:  2,
			domain.PositionK:   1,
			domain.PositionDEF: 1,
		},
	}

	if cfg.YouthAgeMax <= 0 || cfg.YouthExperienceMax <= 0 {
		return nil, fmt.Errorf("youth thresholds must be positive")
	}
	if cfg.ValueTierGap <= 0 {
		return nil, fmt.Errorf("VALUE_TIER_GAP must be positive")
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("snapshot_path", cfg.SnapshotPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Int("youth_age_max", cfg.YouthAgeMax).
		Int("youth_experience_max", cfg.YouthExperienceMax).
		Float64("value_tier_gap", cfg.ValueTierGap).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
