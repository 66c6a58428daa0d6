package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// DetectionMode selects a preset of gap-detection thresholds.
type DetectionMode string

const (
	ModeStandard       DetectionMode = "standard"
	ModeEarlyDetection DetectionMode = "early_detection"
	ModeConservative   DetectionMode = "conservative"
)

// DetectionConfig holds the heuristic cutoffs for the gap detector. These
// are fixed tuning knobs, not learned parameters.
type DetectionConfig struct {
	// MinAttemptsThreshold is the minimum attempts per topic before the
	// concept-gap detector will evaluate that topic.
	MinAttemptsThreshold int
	// ConceptGapThreshold is the topic accuracy below which a concept gap
	// is emitted.
	ConceptGapThreshold float64
	// ConfidenceTimeMultiplier selects slow attempts (> avg * multiplier)
	// for the hesitation detector.
	ConfidenceTimeMultiplier float64
	// SpeedTimeMultiplier selects fast attempts (< avg * multiplier) for
	// the rushing detector.
	SpeedTimeMultiplier float64
}

// DefaultDetection returns the standard detection thresholds.
func DefaultDetection() DetectionConfig {
	return DetectionConfig{
		MinAttemptsThreshold:     3,
		ConceptGapThreshold:      0.60,
		ConfidenceTimeMultiplier: 1.5,
		SpeedTimeMultiplier:      0.5,
	}
}

// DetectionForMode returns thresholds for a named mode. Early detection
// catches gaps sooner with fewer attempts; conservative only flags clear
// gaps. Unknown modes fall back to standard.
func DetectionForMode(mode DetectionMode) DetectionConfig {
	cfg := DefaultDetection()
	switch mode {
	case ModeEarlyDetection:
		cfg.ConceptGapThreshold = 0.70
		cfg.MinAttemptsThreshold = 2
	case ModeConservative:
		cfg.ConceptGapThreshold = 0.50
		cfg.MinAttemptsThreshold = 5
	}
	return cfg
}

type Config struct {
	Port        string
	RedisURL    string
	Environment string

	// Resource link files consumed by the recommendation resolver.
	WebsiteLinksFile string
	YouTubeLinksFile string

	Detection DetectionConfig
	Events    EventConfig
}

func LoadConfig() (*Config, error) {
	// Missing .env is fine; environment variables still apply.
	_ = godotenv.Load()

	return &Config{
		Port:             getEnv("PORT", "8080"),
		RedisURL:         getEnv("REDIS_URL", "redis://localhost:6379"),
		Environment:      getEnv("ENVIRONMENT", "development"),
		WebsiteLinksFile: getEnv("WEBSITE_LINKS_FILE", "resources/website_links.txt"),
		YouTubeLinksFile: getEnv("YOUTUBE_LINKS_FILE", "resources/youtube_links.txt"),
		Detection:        DetectionForMode(DetectionMode(getEnv("DETECTION_MODE", string(ModeStandard)))),
		Events: EventConfig{
			Enabled:       getEnvBool("EVENTS_ENABLED", false),
			Publisher:     getEnv("EVENTS_PUBLISHER", "kafka"),
			KafkaBrokers:  getEnv("KAFKA_BROKERS", "localhost:9092"),
			AnalysisTopic: getEnv("ANALYSIS_TOPIC", "learning-gap-analysis"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
