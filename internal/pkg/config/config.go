package config

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server   ServerConfig
	DB       DBConfig
	Store    StoreConfig
	CORS     CORSConfig
	Log      LogConfig
	Workflow WorkflowConfig
	SLA      SLAConfig
	EventBus EventBusConfig
	Delivery DeliveryConfig
	Tracing  TracingConfig
}

type ServerConfig struct {
	Port              string        `envconfig:"PORT" required:"true"`
	ReadHeaderTimeout time.Duration `envconfig:"SERVER_READ_HEADER_TIMEOUT" default:"5s"`
	// bounds the whole stop sequence: HTTP drain, event bus flush, scheduler stop
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"20s"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:""`
	DBName   string `envconfig:"DB_NAME" default:"autoservice"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"20"`
}

type StoreConfig struct {
	// postgres | memory
	Driver string `envconfig:"STORE_DRIVER" default:"postgres"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

type WorkflowConfig struct {
	TxTimeout time.Duration `envconfig:"WORKFLOW_TX_TIMEOUT" default:"5s"`
	// status at which the priority decision (triage) is recorded: APPROVED | IN_SERVICE
	TriageTrigger string        `envconfig:"WORKFLOW_TRIAGE_TRIGGER" default:"APPROVED"`
	InvoiceDueIn  time.Duration `envconfig:"WORKFLOW_INVOICE_DUE_IN" default:"168h"`
}

type SLAConfig struct {
	Enabled            bool          `envconfig:"SLA_ENABLED" default:"true"`
	SweepInterval      time.Duration `envconfig:"SLA_SWEEP_INTERVAL" default:"24h"`
	StaleDecisionAfter time.Duration `envconfig:"SLA_STALE_DECISION_AFTER" default:"48h"`
	TimeZone           string        `envconfig:"SLA_TIMEZONE" default:"UTC"`
}

type EventBusConfig struct {
	Buffer  int `envconfig:"EVENTBUS_BUFFER" default:"256"`
	Workers int `envconfig:"EVENTBUS_WORKERS" default:"4"`
}

type DeliveryConfig struct {
	// websocket | kafka | log
	Driver       string   `envconfig:"DELIVERY_DRIVER" default:"websocket"`
	Secret       string   `envconfig:"DELIVERY_SECRET" default:""`
	KafkaBrokers []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	KafkaTopic   string   `envconfig:"KAFKA_TOPIC" default:"workflow-notifications"`
	// browser origins allowed to open the /ws endpoint
	AllowOrigins []string `envconfig:"DELIVERY_WS_ALLOW_ORIGINS" default:"http://localhost:3000"`
}

type TracingConfig struct {
	// empty disables export; spans still flow through the global no-op provider
	Endpoint    string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:""`
	ServiceName string `envconfig:"OTEL_SERVICE_NAME" default:"autoservice-workflow"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func (c *SLAConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

// Validate reports every setting the workflow cannot start with.
func (c Config) Validate() error {
	var problems []error
	if !slices.Contains([]string{"postgres", "memory"}, c.Store.Driver) {
		problems = append(problems, fmt.Errorf("STORE_DRIVER %q is not postgres or memory", c.Store.Driver))
	}
	if !slices.Contains([]string{"websocket", "kafka", "log"}, c.Delivery.Driver) {
		problems = append(problems, fmt.Errorf("DELIVERY_DRIVER %q is not websocket, kafka or log", c.Delivery.Driver))
	}
	if c.Workflow.TxTimeout <= 0 {
		problems = append(problems, errors.New("WORKFLOW_TX_TIMEOUT must be positive"))
	}
	if c.Workflow.InvoiceDueIn <= 0 {
		problems = append(problems, errors.New("WORKFLOW_INVOICE_DUE_IN must be positive"))
	}
	if c.EventBus.Buffer <= 0 || c.EventBus.Workers <= 0 {
		problems = append(problems, errors.New("EVENTBUS_BUFFER and EVENTBUS_WORKERS must be positive"))
	}
	if c.SLA.Enabled && c.SLA.SweepInterval <= 0 {
		problems = append(problems, errors.New("SLA_SWEEP_INTERVAL must be positive when SLA_ENABLED"))
	}
	if _, err := time.LoadLocation(c.SLA.TimeZone); err != nil {
		problems = append(problems, fmt.Errorf("SLA_TIMEZONE: %w", err))
	}
	return errors.Join(problems...)
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:              "8889",
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   5 * time.Second,
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433",
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
			MaxConns: 5,
		},
		Store: StoreConfig{Driver: "memory"},
		Log: LogConfig{
			Level:      "error",
			TimeZone:   "UTC",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		Workflow: WorkflowConfig{
			TxTimeout:     5 * time.Second,
			TriageTrigger: "APPROVED",
			InvoiceDueIn:  7 * 24 * time.Hour,
		},
		SLA: SLAConfig{
			Enabled:            true,
			SweepInterval:      24 * time.Hour,
			StaleDecisionAfter: 48 * time.Hour,
			TimeZone:           "UTC",
		},
		EventBus: EventBusConfig{Buffer: 64, Workers: 1},
		Delivery: DeliveryConfig{Driver: "log"},
	}
}
