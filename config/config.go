package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/angas/chartdef-go/logging"
	"github.com/spf13/viper"
)

type AppConfigApi struct {
	Address string
	Port    int16
	// Key used to sign the session cookie holding the preferred library.
	// If not assigned, a random key is generated at startup and sessions
	// do not survive a restart.
	SessionKey *string `mapstructure:"session_key"`
}

type AppConfigDatabase struct {
	Path string
	// How many days a rendered definition is cached before it gets purged
	DefinitionRetentionDays *int `mapstructure:"definition_retention_days"`
	// How many days daily backup files should be stored before they gets deleted
	BackupRetentionDays *int `mapstructure:"backup_retention_days"`
}

func (d AppConfigDatabase) GetDefinitionRetentionDays() int {
	if d.DefinitionRetentionDays == nil {
		return 30
	}
	return *d.DefinitionRetentionDays
}

func (d AppConfigDatabase) GetBackupRetentionDays() int {
	if d.BackupRetentionDays == nil {
		return 90
	}
	return *d.BackupRetentionDays
}

type AppConfigCatalog struct {
	// Directory holding the chart documents, default: "charts"
	Dir *string `mapstructure:"dir"`
	// Reload documents when they change on disk, default: true
	Watch *bool `mapstructure:"watch"`
}

func (c AppConfigCatalog) GetDir() string {
	if c.Dir == nil {
		return "charts"
	}
	return *c.Dir
}

func (c AppConfigCatalog) GetWatch() bool {
	if c.Watch == nil {
		return true
	}
	return *c.Watch
}

type AppConfigCharts struct {
	// Library used when neither the request nor the document names one, default: "billboard"
	DefaultLibrary *string `mapstructure:"default_library"`
	// Palette for documents without colors of their own
	Colors []string `mapstructure:"colors"`
	// Fail on raw options whose shape conflicts with the generated definition
	StrictMerge bool `mapstructure:"strict_merge"`
}

func (c AppConfigCharts) GetDefaultLibrary() string {
	if c.DefaultLibrary == nil {
		return "billboard"
	}
	return *c.DefaultLibrary
}

type AppConfigMqtt struct {
	// Broker host, publishing is disabled when empty
	Host     string
	Port     int16
	Username string
	Password string
	ClientId *string `mapstructure:"client_id"`
	// Definitions are published to <topic_prefix>/<chart>/<library>, default: "chartdef"
	TopicPrefix *string `mapstructure:"topic_prefix"`
	Retain      bool    `mapstructure:"retain"`
}

func (m AppConfigMqtt) Enabled() bool {
	return m.Host != ""
}

func (m AppConfigMqtt) GetPort() int16 {
	if m.Port == 0 {
		return 1883
	}
	return m.Port
}

func (m AppConfigMqtt) GetClientId() string {
	if m.ClientId == nil {
		return "chartdef"
	}
	return *m.ClientId
}

func (m AppConfigMqtt) GetTopicPrefix() string {
	if m.TopicPrefix == nil {
		return "chartdef"
	}
	return strings.TrimSuffix(*m.TopicPrefix, "/")
}

type AppConfigMaintenance struct {
	// Cron spec for backups and purging, default: "0 3 * * *"
	RunAt *string `mapstructure:"run_at"`
	// Cron spec for rendering and publishing every chart, publishing is
	// scheduled only when assigned
	PublishAt *string `mapstructure:"publish_at"`
}

func (m AppConfigMaintenance) GetRunAt() string {
	if m.RunAt == nil {
		return "0 3 * * *"
	}
	return *m.RunAt
}

type AppConfigLogging struct {
	// Min log level for database : "DEBUG", "INFO", "WARN", "ERROR", default: "INFO"
	DbLevel *string `mapstructure:"db_level"`
	// Log attributes format: "TEXT", "JSON", default: "JSON"
	DbAttrsFormat *string `mapstructure:"db_attrs_format"`
	// Maximum number of log entries in the database, default: 10000
	DbMaxEntries *int `mapstructure:"db_max_entries"`
	// Min log level for database console: "DEBUG", "INFO", "WARN", "ERROR", default: "INFO"
	ConsoleLevel *string `mapstructure:"console_level"`
}

func (l AppConfigLogging) GetDbLevel() slog.Level {
	return logging.LevelFromString(l.DbLevel)
}

func (l AppConfigLogging) GetDbAttrsFormat() logging.LogAttrFormat {
	if l.DbAttrsFormat == nil {
		return logging.LogAttrFormatJSON
	}
	if strings.EqualFold(*l.DbAttrsFormat, "text") {
		return logging.LogAttrFormatText
	}
	return logging.LogAttrFormatJSON
}

func (l AppConfigLogging) GetDbMaxEntries() int {
	if l.DbMaxEntries == nil {
		return 10000
	}
	return *l.DbMaxEntries
}

func (l AppConfigLogging) GetConsoleLevel() slog.Level {
	return logging.LevelFromString(l.ConsoleLevel)
}

type AppConfig struct {
	Api         AppConfigApi
	Database    AppConfigDatabase
	Catalog     AppConfigCatalog     `mapstructure:"catalog"`
	Charts      AppConfigCharts      `mapstructure:"charts"`
	Mqtt        AppConfigMqtt        `mapstructure:"mqtt"`
	Maintenance AppConfigMaintenance `mapstructure:"maintenance"`
	Logging     AppConfigLogging     `mapstructure:"logging"`
}

func Load(path string) (*AppConfig, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("config")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var c AppConfig

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}

	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config file: %w", err)
	}

	return &c, nil
}
