package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	API        APIConfig        `mapstructure:"api"`
	Autosave   AutosaveConfig   `mapstructure:"autosave"`
	Typewriter TypewriterConfig `mapstructure:"typewriter"`
	Toast      ToastConfig      `mapstructure:"toast"`
	OTP        OTPConfig        `mapstructure:"otp"`
	Session    SessionConfig    `mapstructure:"session"`
	Log        LogConfig        `mapstructure:"log"`

	// Stub backend sections.
	Server  ServerConfig  `mapstructure:"server"`
	CORS    CORSConfig    `mapstructure:"cors"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Model   ModelConfig   `mapstructure:"model"`
	OpenAI  OpenAIConfig  `mapstructure:"openai"`
	Doubao  DoubaoConfig  `mapstructure:"doubao"`
	Qwen    QwenConfig    `mapstructure:"qwen"`
	Storage StorageConfig `mapstructure:"storage"`
	Prompts PromptsConfig `mapstructure:"prompts"`
}

type APIConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	DebugRequest bool          `mapstructure:"debug_request"`
}

type AutosaveConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

type TypewriterConfig struct {
	Target   time.Duration `mapstructure:"target"`
	MinDelay time.Duration `mapstructure:"min_delay"`
	MaxDelay time.Duration `mapstructure:"max_delay"`
}

type ToastConfig struct {
	Duration time.Duration `mapstructure:"duration"`
}

type OTPConfig struct {
	ResendAfter time.Duration `mapstructure:"resend_after"`
}

type SessionConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	MaxHeaderBytes int           `mapstructure:"max_header_bytes"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type AuthConfig struct {
	Secret   string        `mapstructure:"secret"`
	Issuer   string        `mapstructure:"issuer"`
	TokenTTL time.Duration `mapstructure:"token_ttl"`
	ResetTTL time.Duration `mapstructure:"reset_ttl"`
	OTPTTL   time.Duration `mapstructure:"otp_ttl"`
}

type ModelConfig struct {
	Provider string `mapstructure:"provider"`
}

type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

type DoubaoConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type QwenConfig struct {
	APIKey       string        `mapstructure:"api_key"`
	BaseURL      string        `mapstructure:"base_url"`
	Model        string        `mapstructure:"model"`
	MaxTokens    int           `mapstructure:"max_tokens"`
	Temperature  float32       `mapstructure:"temperature"`
	TopP         float32       `mapstructure:"top_p"`
	Timeout      time.Duration `mapstructure:"timeout"`
	DebugRequest bool          `mapstructure:"debug_request"`
}

type StorageConfig struct {
	Type    string `mapstructure:"type"`
	DataDir string `mapstructure:"data_dir"`
}

// PromptsConfig overrides the built-in system prompts; empty keeps the default.
type PromptsConfig struct {
	Narrative string `mapstructure:"narrative"`
	SMF       string `mapstructure:"smf"`
	Nexus     string `mapstructure:"nexus"`
}

var cfg *Config

func setDefaults(v *viper.Viper) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	v.SetDefault("api.base_url", "http://localhost:4000/api")
	v.SetDefault("api.timeout", 2*time.Minute)
	v.SetDefault("api.debug_request", false)
	v.SetDefault("autosave.interval", 2*time.Second)
	v.SetDefault("typewriter.target", 8*time.Second)
	v.SetDefault("typewriter.min_delay", 10*time.Millisecond)
	v.SetDefault("typewriter.max_delay", 50*time.Millisecond)
	v.SetDefault("toast.duration", 3*time.Second)
	v.SetDefault("otp.resend_after", 30*time.Second)
	v.SetDefault("session.path", filepath.Join(home, ".nexus-assist", "session.json"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")

	v.SetDefault("server.port", 4000)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 5*time.Minute)
	v.SetDefault("server.max_header_bytes", 1<<20)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Origin", "Content-Type", "Authorization", "x-user-id"})
	v.SetDefault("cors.exposed_headers", []string{"Content-Disposition"})
	v.SetDefault("cors.allow_credentials", false)
	v.SetDefault("cors.max_age", 43200)
	v.SetDefault("auth.secret", "dev-secret-change-me")
	v.SetDefault("auth.issuer", "nexus-assist-stub")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("auth.reset_ttl", 30*time.Minute)
	v.SetDefault("auth.otp_ttl", 10*time.Minute)
	v.SetDefault("model.provider", "template")
	// empty defaults register the keys so NEXUS_* variables reach Unmarshal
	for _, key := range []string{
		"openai.api_key", "openai.base_url", "openai.model",
		"doubao.api_key", "doubao.model",
		"qwen.api_key", "qwen.base_url", "qwen.model",
		"prompts.narrative", "prompts.smf", "prompts.nexus",
	} {
		v.SetDefault(key, "")
	}
	v.SetDefault("qwen.debug_request", false)
	v.SetDefault("qwen.max_tokens", 2048)
	v.SetDefault("qwen.temperature", 0.3)
	v.SetDefault("qwen.top_p", 0.9)
	v.SetDefault("qwen.timeout", 2*time.Minute)
	v.SetDefault("storage.type", "memory")
	v.SetDefault("storage.data_dir", "./data")
}

// Load reads configPath (YAML) on top of the defaults. An empty path loads
// defaults and environment only.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("NEXUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, err
	}

	// Provider keys follow the conventional env names when the file leaves them empty.
	if c.OpenAI.APIKey == "" {
		c.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if c.Doubao.APIKey == "" {
		if apiKey := os.Getenv("ARK_API_KEY"); apiKey != "" {
			c.Doubao.APIKey = apiKey
		}
	}
	if c.Qwen.APIKey == "" {
		c.Qwen.APIKey = os.Getenv("DASHSCOPE_API_KEY")
	}

	cfg = c
	return c, nil
}

func Get() *Config {
	return cfg
}
