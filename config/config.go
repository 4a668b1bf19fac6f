package config

import (
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// DBConfig Database configuration
type DBConfig struct {
	Type     string `yaml:"type"` // postgres
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Passwd   string `yaml:"passwd"`
	MaxConn  int    `yaml:"max_conn"`
	IdleConn int    `yaml:"idle_conn"`
	Debug    bool   `yaml:"debug"`
}

// SysConfig System configuration
type SysConfig struct {
	Appid    string `yaml:"appid"`
	Location string `yaml:"location"`
	Workdir  string `yaml:"workdir"`
	Debug    bool   `yaml:"debug"`
	NodeID   int64  `yaml:"node_id"` // snowflake node used for request ids
}

// WebConfig Web server configuration
type WebConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Secret          string        `yaml:"secret"`
	AccessTTL       time.Duration `yaml:"access_ttl"`
	RefreshTTL      time.Duration `yaml:"refresh_ttl"`
	MediaURL        string        `yaml:"media_url"`
	CorsOrigins     []string      `yaml:"cors_origins"`
	Metrics         bool          `yaml:"metrics"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LogConfig Log configuration
type LogConfig struct {
	Mode       string `yaml:"mode"` // development | production
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

// AdminConfig describes the staff account ensured at startup
type AdminConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Email    string `yaml:"email"`
}

type AppConfig struct {
	System   SysConfig   `yaml:"system"`
	Web      WebConfig   `yaml:"web"`
	Database DBConfig    `yaml:"database"`
	Logger   LogConfig   `yaml:"logger"`
	Admin    AdminConfig `yaml:"admin"`
}

func (c *AppConfig) GetLogDir() string {
	return path.Join(c.System.Workdir, "logs")
}

func (c *AppConfig) GetDataDir() string {
	return path.Join(c.System.Workdir, "data")
}

// InitDirs makes sure the working directories exist
func (c *AppConfig) InitDirs() error {
	for _, dir := range []string{c.GetLogDir(), c.GetDataDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

func setEnvValue(name string, val *string) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		*val = evalue
	}
}

func setEnvBoolValue(name string, val *bool) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		*val = cast.ToBool(evalue)
	}
}

func setEnvInt64Value(name string, val *int64) {
	var evalue = os.Getenv(name)
	if evalue == "" {
		return
	}
	if p, err := cast.ToInt64E(evalue); err == nil {
		*val = p
	}
}

func setEnvIntValue(name string, val *int) {
	var evalue = os.Getenv(name)
	if evalue == "" {
		return
	}
	if p, err := cast.ToIntE(evalue); err == nil {
		*val = p
	}
}

func setEnvDurationValue(name string, val *time.Duration) {
	var evalue = os.Getenv(name)
	if evalue == "" {
		return
	}
	if d, err := cast.ToDurationE(evalue); err == nil {
		*val = d
	}
}

func setEnvSliceValue(name string, val *[]string) {
	var evalue = os.Getenv(name)
	if evalue == "" {
		return
	}
	var items []string
	for _, s := range strings.Split(evalue, ",") {
		if s = strings.TrimSpace(s); s != "" {
			items = append(items, s)
		}
	}
	*val = items
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "Storefront",
		Location: "America/Lima",
		Workdir:  "/var/storefront",
		Debug:    true,
		NodeID:   1,
	},
	Web: WebConfig{
		Host:            "0.0.0.0",
		Port:            8000,
		Secret:          "9b6de5cc-0731-4bf1-storefront-b8f6f5b1e2a7",
		AccessTTL:       60 * time.Minute,
		RefreshTTL:      24 * time.Hour,
		MediaURL:        "http://localhost:8000/media/",
		CorsOrigins:     []string{"http://localhost:5173"},
		Metrics:         false,
		ShutdownTimeout: 10 * time.Second,
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "storefront",
		User:     "postgres",
		Passwd:   "postgres",
		MaxConn:  100,
		IdleConn: 10,
		Debug:    false,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/storefront/logs/storefront.log",
	},
	Admin: AdminConfig{
		Username: "admin",
		Password: "storefront",
		Email:    "admin@localhost",
	},
}

// LoadConfig reads the yaml file at cfile (if any), falling back to the
// defaults, and applies STOREFRONT_* environment overrides on top.
func LoadConfig(cfile string) (*AppConfig, error) {
	cfg := *DefaultAppConfig
	cfg.Web.CorsOrigins = append([]string(nil), DefaultAppConfig.Web.CorsOrigins...)
	if cfile == "" {
		cfile = "storefront.yml"
	}
	if _, err := os.Stat(cfile); err == nil {
		data, err := os.ReadFile(filepath.Clean(cfile))
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	}

	setEnvValue("STOREFRONT_SYSTEM_WORKER_DIR", &cfg.System.Workdir)
	setEnvValue("STOREFRONT_SYSTEM_LOCATION", &cfg.System.Location)
	setEnvBoolValue("STOREFRONT_SYSTEM_DEBUG", &cfg.System.Debug)
	setEnvInt64Value("STOREFRONT_SYSTEM_NODE_ID", &cfg.System.NodeID)

	setEnvValue("STOREFRONT_WEB_HOST", &cfg.Web.Host)
	setEnvIntValue("STOREFRONT_WEB_PORT", &cfg.Web.Port)
	setEnvValue("STOREFRONT_WEB_SECRET", &cfg.Web.Secret)
	setEnvDurationValue("STOREFRONT_WEB_ACCESS_TTL", &cfg.Web.AccessTTL)
	setEnvDurationValue("STOREFRONT_WEB_REFRESH_TTL", &cfg.Web.RefreshTTL)
	setEnvValue("STOREFRONT_WEB_MEDIA_URL", &cfg.Web.MediaURL)
	setEnvSliceValue("STOREFRONT_WEB_CORS_ORIGINS", &cfg.Web.CorsOrigins)
	setEnvBoolValue("STOREFRONT_WEB_METRICS", &cfg.Web.Metrics)
	setEnvDurationValue("STOREFRONT_WEB_SHUTDOWN_TIMEOUT", &cfg.Web.ShutdownTimeout)

	setEnvValue("STOREFRONT_DB_TYPE", &cfg.Database.Type)
	setEnvValue("STOREFRONT_DB_HOST", &cfg.Database.Host)
	setEnvIntValue("STOREFRONT_DB_PORT", &cfg.Database.Port)
	setEnvValue("STOREFRONT_DB_NAME", &cfg.Database.Name)
	setEnvValue("STOREFRONT_DB_USER", &cfg.Database.User)
	setEnvValue("STOREFRONT_DB_PWD", &cfg.Database.Passwd)
	setEnvIntValue("STOREFRONT_DB_MAX_CONN", &cfg.Database.MaxConn)
	setEnvIntValue("STOREFRONT_DB_IDLE_CONN", &cfg.Database.IdleConn)
	setEnvBoolValue("STOREFRONT_DB_DEBUG", &cfg.Database.Debug)

	setEnvValue("STOREFRONT_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvBoolValue("STOREFRONT_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)
	setEnvValue("STOREFRONT_LOGGER_FILENAME", &cfg.Logger.Filename)

	setEnvValue("STOREFRONT_ADMIN_USERNAME", &cfg.Admin.Username)
	setEnvValue("STOREFRONT_ADMIN_PASSWORD", &cfg.Admin.Password)
	setEnvValue("STOREFRONT_ADMIN_EMAIL", &cfg.Admin.Email)

	return &cfg, nil
}
