package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

var singleConfig *Config = nil

type Config struct {
	Database *dbConfig
	Service  *svcConfig
}

type dbConfig struct {
	Type     string `envconfig:"DB_TYPE" default:"pgsql"`
	Hostname string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"cleanmatch"`
	User     string `envconfig:"DB_USER" default:"admin"`
	Password string `envconfig:"DB_PASS" default:"adminpass"`
}

type svcConfig struct {
	Address         string        `envconfig:"CLEANMATCH_ADDRESS" default:":3443"`
	MetricsAddress  string        `envconfig:"CLEANMATCH_METRICS_ADDRESS" default:":8080"`
	BaseUrl         string        `envconfig:"CLEANMATCH_BASE_URL" default:"https://localhost:3443"`
	LogLevel        string        `envconfig:"CLEANMATCH_LOG_LEVEL" default:"info"`
	SweepInterval   time.Duration `envconfig:"CLEANMATCH_SWEEP_INTERVAL" default:"5m"`
	MigrationFolder string        `envconfig:"CLEANMATCH_MIGRATIONS_FOLDER" default:""`
	Auth            Auth
}

type Auth struct {
	AuthenticationType string `envconfig:"CLEANMATCH_AUTH" default:""`
	JwtSigningKey      string `envconfig:"CLEANMATCH_JWT_KEY" default:""`
}

func New() (*Config, error) {
	if singleConfig == nil {
		singleConfig = new(Config)
		if err := envconfig.Process("", singleConfig); err != nil {
			return nil, err
		}
	}
	return singleConfig, nil
}

// NewDefault returns a config backed by an in-memory sqlite database.
// Used by tests.
func NewDefault() *Config {
	return &Config{
		Database: &dbConfig{
			Type: "sqlite",
			Name: ":memory:",
		},
		Service: &svcConfig{
			Address:       ":3443",
			LogLevel:      "info",
			SweepInterval: 5 * time.Minute,
		},
	}
}
