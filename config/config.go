package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultMaxImportBytes = int64(100 << 20)
	defaultSessionTTL     = 7 * 24 * time.Hour
)

type (
	APP struct {
		Name        string
		Host        string
		Port        string
		Env         string
		SecretKey   string
		FrontendURL string
		StaticDir   string
	}
	DB struct {
		URL      string
		User     string
		Password string
		Name     string
		Host     string
		Port     string
	}
	Google struct {
		ClientID     string
		ClientSecret string
		RedirectURI  string
		APIKey       string
	}
	Storage struct {
		UploadFolder   string
		MaxImportBytes int64
	}
	Session struct {
		TTL time.Duration
	}
	AWS struct {
		SecretSource  string
		SSMPrefix     string
		TokenKMSKeyID string
	}
	MQ struct {
		User         string
		Password     string
		Vhost        string
		Host         string
		AmqpPort     string
		Exchange     string
		ExchangeType string
		QueueName    string
	}

	Config struct {
		App     APP
		DB      DB
		Google  Google
		Storage Storage
		Session Session
		AWS     AWS
		MQ      MQ
	}
)

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getInt64(key string, def int64) int64 {
	v, err := strconv.ParseInt(getEnv(key, ""), 10, 64)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func getDuration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func Load() Config {
	app := APP{
		Name:        getEnv("SERVICE_NAME", "dataroom-api"),
		Host:        getEnv("SERVICE_HOST", ""),
		Port:        getEnv("SERVICE_PORT", "5000"),
		Env:         getEnv("SERVICE_ENV", "dev"),
		SecretKey:   getEnv("SECRET_KEY", ""),
		FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:5173"), "/"),
		StaticDir:   getEnv("STATIC_DIR", ""),
	}
	db := DB{
		URL:      getEnv("DATABASE_URL", ""),
		User:     getEnv("POSTGRES_USER", ""),
		Password: getEnv("POSTGRES_PASSWORD", ""),
		Name:     getEnv("POSTGRES_DB", ""),
		Host:     getEnv("POSTGRES_HOST", ""),
		Port:     getEnv("POSTGRES_PORT", ""),
	}
	google := Google{
		ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		RedirectURI:  getEnv("GOOGLE_REDIRECT_URI", "http://localhost:5000/api/auth/callback"),
		APIKey:       getEnv("GOOGLE_API_KEY", ""),
	}
	storage := Storage{
		UploadFolder:   getEnv("UPLOAD_FOLDER", "uploads"),
		MaxImportBytes: getInt64("MAX_IMPORT_BYTES", defaultMaxImportBytes),
	}
	session := Session{
		TTL: getDuration("SESSION_TTL", defaultSessionTTL),
	}
	aws := AWS{
		SecretSource:  getEnv("SECRET_SOURCE", "env"),
		SSMPrefix:     getEnv("SSM_PREFIX", "/dataroom"),
		TokenKMSKeyID: getEnv("TOKEN_KMS_KEY_ID", ""),
	}
	mq := MQ{
		User:         getEnv("RABBITMQ_USER", ""),
		Password:     getEnv("RABBITMQ_PASSWORD", ""),
		Vhost:        getEnv("RABBITMQ_VHOST", ""),
		Host:         getEnv("RABBITMQ_HOST", ""),
		AmqpPort:     getEnv("RABBITMQ_AMQP_PORT", "5672"),
		Exchange:     getEnv("RABBITMQ_EXCHANGE", "dataroom.events"),
		ExchangeType: getEnv("RABBITMQ_EXCHANGE_TYPE", "topic"),
		QueueName:    getEnv("RABBITMQ_QUEUE_NAME", "dataroom.audit"),
	}

	return Config{
		App:     app,
		DB:      db,
		Google:  google,
		Storage: storage,
		Session: session,
		AWS:     aws,
		MQ:      mq,
	}
}

// IsDev reports whether cookies may travel over plain HTTP.
func (c Config) IsDev() bool {
	switch c.App.Env {
	case "dev", "development", "local", "test":
		return true
	}
	return false
}

func (c Config) DBDSN() (string, error) {
	if c.DB.URL != "" {
		return c.DB.URL, nil
	}
	if c.DB.User == "" || c.DB.Name == "" || c.DB.Host == "" || c.DB.Port == "" {
		return "", fmt.Errorf("incomplete DB config: set DATABASE_URL or POSTGRES_* variables")
	}
	return fmt.Sprintf(
		"postgres://%s@%s:%s/%s",
		url.UserPassword(c.DB.User, c.DB.Password).String(),
		c.DB.Host,
		c.DB.Port,
		c.DB.Name,
	), nil
}

// MQEnabled reports whether audit events should be shipped to RabbitMQ.
func (c Config) MQEnabled() bool { return c.MQ.Host != "" }

func (c Config) AMQPDSN() (string, error) {
	if c.MQ.User == "" || c.MQ.Host == "" || c.MQ.AmqpPort == "" {
		return "", fmt.Errorf("invalid MQ config: user, host and amqp port are required")
	}

	return fmt.Sprintf(
		"%s://%s@%s:%s/%s",
		"amqp",
		url.UserPassword(c.MQ.User, c.MQ.Password).String(),
		c.MQ.Host,
		c.MQ.AmqpPort,
		url.PathEscape(c.MQ.Vhost),
	), nil
}

func (c Config) Validate() error {
	var missing []string
	if c.App.SecretKey == "" {
		missing = append(missing, "SECRET_KEY")
	}
	if c.Google.ClientID == "" {
		missing = append(missing, "GOOGLE_CLIENT_ID")
	}
	if c.Google.ClientSecret == "" {
		missing = append(missing, "GOOGLE_CLIENT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}
	return nil
}
