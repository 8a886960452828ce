package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Logger     LoggerConfig
	LLM        LLMConfig
	Generation GenerationConfig
	Salience   SalienceConfig
	Session    SessionConfig
	JWT        JWTConfig
	Upload     UploadConfig
	Redis      RedisConfig
	DB         DBConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LoggerConfig struct {
	Level string
	Env   string
}

// LLMConfig selects the generation provider. Provider is one of gemini, ollama, openai.
type LLMConfig struct {
	Provider    string
	APIKey      string
	Model       string
	ServerURL   string
	Temperature float64
	Timeout     time.Duration
}

type GenerationConfig struct {
	SentenceCount     int
	QuizSize          int
	EnforceQuizSize   bool
	DefaultDifficulty string
}

// SalienceConfig tunes the LexRank power iteration.
type SalienceConfig struct {
	SentenceCount int
	Damping       float64
	Threshold     float64
	Tolerance     float64
	MaxIterations int
}

type SessionConfig struct {
	TTL             time.Duration
	RetainOnFailure bool
}

type JWTConfig struct {
	SecretKey       string
	SessionTokenTTL time.Duration
}

type UploadConfig struct {
	MaxFiles     int
	MaxFileBytes int64
}

type RedisConfig struct {
	Enabled  bool
	Address  string
	Password string
	DB       int
}

type DBConfig struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", 60*time.Second)
	v.SetDefault("server.write_timeout", 120*time.Second)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")

	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.model", "gemini-1.5-flash")
	v.SetDefault("llm.server_url", "http://localhost:11434")
	v.SetDefault("llm.temperature", 0.2)
	v.SetDefault("llm.timeout", 90*time.Second)

	v.SetDefault("generation.sentence_count", 12)
	v.SetDefault("generation.quiz_size", 10)
	v.SetDefault("generation.enforce_quiz_size", false)
	v.SetDefault("generation.default_difficulty", "")

	v.SetDefault("salience.damping", 0.85)
	v.SetDefault("salience.threshold", 0.1)
	v.SetDefault("salience.tolerance", 1e-6)
	v.SetDefault("salience.max_iterations", 100)

	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("session.retain_on_failure", false)

	v.SetDefault("jwt.session_token_ttl", 24*time.Hour)

	v.SetDefault("upload.max_files", 10)
	v.SetDefault("upload.max_file_bytes", 20*1024*1024)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("db.enabled", false)
	v.SetDefault("db.port", 1521)
}

// LoadConfig reads config.yaml from the working directory (or ./config) and applies
// environment overrides such as LLM_API_KEY or REDIS_ADDRESS. A missing file is not an error.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../config")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	sentenceCount := v.GetInt("generation.sentence_count")
	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
		},
		Logger: LoggerConfig{
			Level: v.GetString("logger.level"),
			Env:   v.GetString("logger.env"),
		},
		LLM: LLMConfig{
			Provider:    strings.ToLower(v.GetString("llm.provider")),
			APIKey:      v.GetString("llm.api_key"),
			Model:       v.GetString("llm.model"),
			ServerURL:   v.GetString("llm.server_url"),
			Temperature: v.GetFloat64("llm.temperature"),
			Timeout:     v.GetDuration("llm.timeout"),
		},
		Generation: GenerationConfig{
			SentenceCount:     sentenceCount,
			QuizSize:          v.GetInt("generation.quiz_size"),
			EnforceQuizSize:   v.GetBool("generation.enforce_quiz_size"),
			DefaultDifficulty: v.GetString("generation.default_difficulty"),
		},
		Salience: SalienceConfig{
			SentenceCount: sentenceCount,
			Damping:       v.GetFloat64("salience.damping"),
			Threshold:     v.GetFloat64("salience.threshold"),
			Tolerance:     v.GetFloat64("salience.tolerance"),
			MaxIterations: v.GetInt("salience.max_iterations"),
		},
		Session: SessionConfig{
			TTL:             v.GetDuration("session.ttl"),
			RetainOnFailure: v.GetBool("session.retain_on_failure"),
		},
		JWT: JWTConfig{
			SecretKey:       v.GetString("jwt.secret_key"),
			SessionTokenTTL: v.GetDuration("jwt.session_token_ttl"),
		},
		Upload: UploadConfig{
			MaxFiles:     v.GetInt("upload.max_files"),
			MaxFileBytes: v.GetInt64("upload.max_file_bytes"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		DB: DBConfig{
			Enabled:  v.GetBool("db.enabled"),
			Host:     v.GetString("db.host"),
			Port:     v.GetInt("db.port"),
			User:     v.GetString("db.user"),
			Password: v.GetString("db.password"),
			DBName:   v.GetString("db.name"),
		},
	}

	// Fall back to the provider's conventional key variable.
	if cfg.LLM.APIKey == "" {
		switch cfg.LLM.Provider {
		case "gemini":
			cfg.LLM.APIKey = os.Getenv("GOOGLE_API_KEY")
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	}
	return cfg
}

// Default returns the configuration with every default applied and no file or env lookup.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	return fromViper(v)
}

func (c *Config) GetDSN() string {
	// Oracle DSN format: user/password@host:port/service
	return fmt.Sprintf("oracle://%s:%s@%s:%d/%s",
		c.DB.User,
		c.DB.Password,
		c.DB.Host,
		c.DB.Port,
		c.DB.DBName,
	)
}
