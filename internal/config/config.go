package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// ConfigFileName is the name of the JSON config file looked up in the
// config directory.
const ConfigFileName = "csvmap.cfg.json"

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Address        string `json:"address" mapstructure:"address"`
	Mode           string `json:"mode" mapstructure:"mode"`
	MaxUploadBytes int64  `json:"maxUploadBytes" mapstructure:"maxUploadBytes"`
}

// TileLayer is one base layer offered by the map page.
type TileLayer struct {
	Name        string `json:"name" mapstructure:"name"`
	URL         string `json:"url" mapstructure:"url"`
	Attribution string `json:"attribution" mapstructure:"attribution"`
}

// MapConfig holds map page settings
type MapConfig struct {
	CenterLat  float64     `json:"centerLat" mapstructure:"centerLat"`
	CenterLng  float64     `json:"centerLng" mapstructure:"centerLng"`
	Zoom       int         `json:"zoom" mapstructure:"zoom"`
	FocusZoom  int         `json:"focusZoom" mapstructure:"focusZoom"`
	Palette    string      `json:"palette" mapstructure:"palette"`
	BaseLayers []TileLayer `json:"baseLayers" mapstructure:"baseLayers"`
}

// MemoryConfig holds in-memory archive settings
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	ExportGeoJSON  bool   `json:"exportGeoJSON" mapstructure:"exportGeoJSON"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// SQLiteConfig holds SQLite archive settings
type SQLiteConfig struct {
	DumpInterval time.Duration `json:"dumpInterval" mapstructure:"dumpInterval"`
	DumpPath     string        `json:"dumpPath" mapstructure:"dumpPath"`
}

// StorageConfig selects and configures the import archive
type StorageConfig struct {
	Type   string       `json:"type" mapstructure:"type"`
	Memory MemoryConfig `json:"memory" mapstructure:"memory"`
	SQLite SQLiteConfig `json:"sqlite" mapstructure:"sqlite"`
}

// DBConfig holds Postgres connection settings
type DBConfig struct {
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	Database string `json:"database" mapstructure:"database"`
}

// GeocoderConfig holds geocoding proxy settings
type GeocoderConfig struct {
	Enabled   bool          `json:"enabled" mapstructure:"enabled"`
	URL       string        `json:"url" mapstructure:"url"`
	UserAgent string        `json:"userAgent" mapstructure:"userAgent"`
	Timeout   time.Duration `json:"timeout" mapstructure:"timeout"`
	Limit     int           `json:"limit" mapstructure:"limit"`
}

// OTelConfig holds OpenTelemetry settings
type OTelConfig struct {
	Enabled        bool          `json:"enabled" mapstructure:"enabled"`
	ServiceName    string        `json:"serviceName" mapstructure:"serviceName"`
	ExportInterval time.Duration `json:"exportInterval" mapstructure:"exportInterval"`
}

// InfluxConfig holds InfluxDB settings
type InfluxConfig struct {
	Enabled  bool   `json:"enabled" mapstructure:"enabled"`
	Protocol string `json:"protocol" mapstructure:"protocol"`
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Token    string `json:"token" mapstructure:"token"`
	Org      string `json:"org" mapstructure:"org"`
	Bucket   string `json:"bucket" mapstructure:"bucket"`
}

// DefaultBaseLayers are the tile layers offered when none are configured.
var DefaultBaseLayers = []TileLayer{
	{
		Name:        "OpenStreetMap",
		URL:         "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
		Attribution: "© OpenStreetMap contributors",
	},
	{
		Name:        "Satellite",
		URL:         "https://server.arcgisonline.com/ArcGIS/rest/services/World_Imagery/MapServer/tile/{z}/{y}/{x}",
		Attribution: "Esri, DigitalGlobe, GeoEye, Earthstar Geographics, CNES/Airbus DS, USDA, USGS, AeroGRID, IGN, and the GIS User Community",
	},
}

// SetDefaults registers every default value. Load calls it; tests and
// commands that run without a config file call it directly.
func SetDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./csvmaplogs")

	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("server.mode", "release")
	viper.SetDefault("server.maxUploadBytes", 32<<20)

	viper.SetDefault("map.centerLat", 15.87)
	viper.SetDefault("map.centerLng", 100.9925)
	viper.SetDefault("map.zoom", 6)
	viper.SetDefault("map.focusZoom", 14)
	viper.SetDefault("map.palette", "categorical")

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.memory.outputDir", "./imports")
	viper.SetDefault("storage.memory.exportGeoJSON", false)
	viper.SetDefault("storage.memory.compressOutput", true)
	viper.SetDefault("storage.sqlite.dumpInterval", "3m")
	viper.SetDefault("storage.sqlite.dumpPath", "./csvmap.db")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "csvmap")

	viper.SetDefault("geocoder.enabled", true)
	viper.SetDefault("geocoder.url", "https://nominatim.openstreetmap.org")
	viper.SetDefault("geocoder.userAgent", "csvmap/1.0")
	viper.SetDefault("geocoder.timeout", "10s")
	viper.SetDefault("geocoder.limit", 5)

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "supersecrettoken")
	viper.SetDefault("influx.org", "csvmap")
	viper.SetDefault("influx.bucket", "csvmap_imports")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "csvmap")
	viper.SetDefault("otel.exportInterval", "30s")

	viper.SetDefault("monitor.interval", "1m")
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	SetDefaults()

	viper.SetConfigName(ConfigFileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration returns a duration config value.
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// GetServerConfig returns the HTTP server settings.
func GetServerConfig() ServerConfig {
	return ServerConfig{
		Address:        viper.GetString("server.address"),
		Mode:           viper.GetString("server.mode"),
		MaxUploadBytes: viper.GetInt64("server.maxUploadBytes"),
	}
}

// GetMapConfig returns the map page settings.
func GetMapConfig() MapConfig {
	cfg := MapConfig{
		CenterLat: viper.GetFloat64("map.centerLat"),
		CenterLng: viper.GetFloat64("map.centerLng"),
		Zoom:      viper.GetInt("map.zoom"),
		FocusZoom: viper.GetInt("map.focusZoom"),
		Palette:   viper.GetString("map.palette"),
	}
	if err := viper.UnmarshalKey("map.baseLayers", &cfg.BaseLayers); err != nil || len(cfg.BaseLayers) == 0 {
		cfg.BaseLayers = DefaultBaseLayers
	}
	return cfg
}

// GetStorageConfig returns the import archive settings.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		Memory: MemoryConfig{
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			ExportGeoJSON:  viper.GetBool("storage.memory.exportGeoJSON"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
		SQLite: SQLiteConfig{
			DumpInterval: viper.GetDuration("storage.sqlite.dumpInterval"),
			DumpPath:     viper.GetString("storage.sqlite.dumpPath"),
		},
	}
}

// GetDBConfig returns the Postgres connection settings.
func GetDBConfig() DBConfig {
	return DBConfig{
		Host:     viper.GetString("db.host"),
		Port:     viper.GetString("db.port"),
		Username: viper.GetString("db.username"),
		Password: viper.GetString("db.password"),
		Database: viper.GetString("db.database"),
	}
}

// GetGeocoderConfig returns the geocoding proxy settings.
func GetGeocoderConfig() GeocoderConfig {
	return GeocoderConfig{
		Enabled:   viper.GetBool("geocoder.enabled"),
		URL:       viper.GetString("geocoder.url"),
		UserAgent: viper.GetString("geocoder.userAgent"),
		Timeout:   viper.GetDuration("geocoder.timeout"),
		Limit:     viper.GetInt("geocoder.limit"),
	}
}

// GetOTelConfig returns the OpenTelemetry settings.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:        viper.GetBool("otel.enabled"),
		ServiceName:    viper.GetString("otel.serviceName"),
		ExportInterval: viper.GetDuration("otel.exportInterval"),
	}
}

// GetInfluxConfig returns the InfluxDB settings.
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled:  viper.GetBool("influx.enabled"),
		Protocol: viper.GetString("influx.protocol"),
		Host:     viper.GetString("influx.host"),
		Port:     viper.GetString("influx.port"),
		Token:    viper.GetString("influx.token"),
		Org:      viper.GetString("influx.org"),
		Bucket:   viper.GetString("influx.bucket"),
	}
}
