package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the recommendation service
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Market under analysis: "KS" (KOSPI) or "KQ" (KOSDAQ)
	Market string

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Naver (뉴스 검색 open API)
	Naver NaverConfig

	// Scoring
	Feature   FeatureConfig
	Sentiment SentimentConfig
	RSI       RSIThresholds

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL      string
	MaxConns int
	MinConns int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// NaverConfig holds Naver open API credentials
type NaverConfig struct {
	ClientID     string
	ClientSecret string
}

// FeatureConfig holds indicator windows and the liquidity floor
// 모멘텀 윈도우는 거래일 기준
type FeatureConfig struct {
	MomShort       int
	MomMed         int
	MomLong        int
	MinTurnoverWon float64
}

// MinRows returns the minimum series length required for scoring
func (f FeatureConfig) MinRows() int {
	return f.MomLong + 2
}

// SentimentConfig holds thresholds for the external headline classifier
type SentimentConfig struct {
	ModelURL          string // 분류 모델 서빙 엔드포인트, 빈 값이면 감성 분석 비활성
	NewsMax           int
	ConfidenceNeutral float64 // 이 값 미만의 신뢰도는 중립 처리
	ConfidenceStrong  float64 // 이 값 이상이면 "강력한" 신호
	DecayRate         float64 // 최신 뉴스 가중 감쇠율
}

// RSIThresholds holds the RSI bands used by strategies and star ratings
type RSIThresholds struct {
	Oversold          float64
	Overbought        float64
	StrongOverbought  float64
	ExtremeOverbought float64
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port:   getEnv("PORT", "8089"),
		Env:    getEnv("ENV", "development"),
		Market: getEnv("MARKET", "KS"),

		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns: getEnvAsInt("DB_MIN_CONNS", 2),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},

		Naver: NaverConfig{
			ClientID:     getEnv("NAVER_CLIENT_ID", ""),
			ClientSecret: getEnv("NAVER_CLIENT_SECRET", ""),
		},

		Feature: FeatureConfig{
			MomShort:       getEnvAsInt("MOM_SHORT", 5),
			MomMed:         getEnvAsInt("MOM_MED", 20),
			MomLong:        getEnvAsInt("MOM_LONG", 60),
			MinTurnoverWon: getEnvAsFloat("UNIVERSE_MIN_TURNOVER_WON", 5e9),
		},

		Sentiment: SentimentConfig{
			ModelURL:          getEnv("SENTIMENT_MODEL_URL", ""),
			NewsMax:           getEnvAsInt("NEWS_MAX", 3),
			ConfidenceNeutral: getEnvAsFloat("SENTIMENT_CONFIDENCE_THRESHOLD_NEUTRAL", 0.55),
			ConfidenceStrong:  getEnvAsFloat("SENTIMENT_CONFIDENCE_THRESHOLD_STRONG", 0.99),
			DecayRate:         getEnvAsFloat("SENTIMENT_NEWS_WEIGHT_DECAY_RATE", 0.2),
		},

		RSI: RSIThresholds{
			Oversold:          getEnvAsFloat("RSI_OVERSOLD", 30),
			Overbought:        getEnvAsFloat("RSI_OVERBOUGHT", 70),
			StrongOverbought:  getEnvAsFloat("RSI_STRONG_OVERBOUGHT", 80),
			ExtremeOverbought: getEnvAsFloat("RSI_EXTREME_OVERBOUGHT", 90),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if configuration values are consistent
func (c *Config) validate() error {
	if c.Market != "KS" && c.Market != "KQ" {
		return fmt.Errorf("MARKET must be KS or KQ, got %q", c.Market)
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	f := c.Feature
	if !(f.MomShort < f.MomMed && f.MomMed < f.MomLong) {
		return fmt.Errorf("momentum windows must be increasing: %d/%d/%d",
			f.MomShort, f.MomMed, f.MomLong)
	}

	if f.MinTurnoverWon < 0 {
		return fmt.Errorf("UNIVERSE_MIN_TURNOVER_WON must be non-negative")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
