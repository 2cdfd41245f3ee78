package configs

import (
	"log"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config struct
type Config struct {
	App         `mapstructure:"app"`
	Log         `mapstructure:"log"`
	Session     `mapstructure:"session"`
	Interview   `mapstructure:"interview"`
	Agent       `mapstructure:"agent"`
	Translator  `mapstructure:"translator"`
	Transcriber `mapstructure:"transcriber"`
	Speech      `mapstructure:"speech"`
	Archive     `mapstructure:"archive"`
	Postgres    `mapstructure:"postgres"`
	Line        `mapstructure:"line"`
	Telemetry   `mapstructure:"telemetry"`
}

// App struct
type App struct {
	Name  string `mapstructure:"name"`
	Debug bool   `mapstructure:"debug"`
	Env   string `mapstructure:"env"`
	Port  string `mapstructure:"port"`
}

// Log struct
type Log struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"` // text | json
	File       string `mapstructure:"file"`   // empty: stdout only
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// Session struct - in-memory session store
type Session struct {
	Timeout       int `mapstructure:"timeout"`        // idle minutes, 0 means default
	SweepInterval int `mapstructure:"sweep_interval"` // seconds, 0 means default
}

// Interview struct - controller and section catalog
type Interview struct {
	MaxAgentCalls   int             `mapstructure:"max_agent_calls"`
	AgentTimeout    int             `mapstructure:"agent_timeout"` // seconds per agent call
	BaseInstruction string          `mapstructure:"base_instruction"`
	Sections        []SectionConfig `mapstructure:"sections"`
}

// SectionConfig struct - one catalog entry, in interview order
type SectionConfig struct {
	ID       string `mapstructure:"id"`
	Guidance string `mapstructure:"guidance"`
}

// Agent struct - conversational agent
type Agent struct {
	Provider    string  `mapstructure:"provider"` // openai | compatible | offline
	BaseURL     string  `mapstructure:"base_url"`
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Timeout     int     `mapstructure:"timeout"` // HTTP timeout in seconds
	Temperature float64 `mapstructure:"temperature"`
}

// Translator struct - doctor view translation
type Translator struct {
	Provider string `mapstructure:"provider"` // eino | offline
	BaseURL  string `mapstructure:"base_url"`
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
	Timeout  int    `mapstructure:"timeout"`
}

// Transcriber struct - Whisper over an OpenAI-compatible endpoint
type Transcriber struct {
	Enabled  bool   `mapstructure:"enabled"`
	BaseURL  string `mapstructure:"base_url"`
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
	Language string `mapstructure:"language"`
}

// Speech struct - text to speech
type Speech struct {
	Enabled      bool   `mapstructure:"enabled"`
	BaseURL      string `mapstructure:"base_url"`
	APIKey       string `mapstructure:"api_key"`
	VoiceID      string `mapstructure:"voice_id"`
	OutputFormat string `mapstructure:"output_format"`
	Timeout      int    `mapstructure:"timeout"`
}

// Archive struct - storage of finished interviews
type Archive struct {
	Enabled    bool   `mapstructure:"enabled"`
	Driver     string `mapstructure:"driver"` // postgres | sqlite
	SQLitePath string `mapstructure:"sqlite_path"`
}

// Postgres struct
type Postgres struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DbName   string `mapstructure:"database"`
	SSLMode  bool   `mapstructure:"sslmode"`
}

// Line struct
type Line struct {
	Enabled       bool   `mapstructure:"enabled"`
	ChannelSecret string `mapstructure:"channel_secret"`
	ChannelToken  string `mapstructure:"channel_token"`
}

// Telemetry struct
type Telemetry struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	TraceFile      string `mapstructure:"trace_file"`
	MetricFile     string `mapstructure:"metric_file"`
	MetricInterval int    `mapstructure:"metric_interval"` // seconds
}

var config Config

// InitViper func
func InitViper(path, env string) {
	getConfig(path, env)
}

// GetViper func
func GetViper() *Config {
	return &config
}

func getConfig(path, env string) {
	viper.SetConfigName("config")
	viper.AddConfigPath(path)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}
	viper.WatchConfig()
	viper.OnConfigChange(func(e fsnotify.Event) {
		logrus.Infof("Config file has changed: %s (env=%s), restart to apply", e.Name, env)
	})
	err = viper.Unmarshal(&config)
	if err != nil {
		log.Fatalln(err)
	}
}
