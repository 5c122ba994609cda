package common

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	BusDriverMemory = "memory"
	BusDriverRedis  = "redis"
)

type Config struct {
	Viper *viper.Viper
}

// Settings is the validated view over the raw configuration.
type Settings struct {
	AppName     string `validate:"required"`
	AppPort     string `validate:"required"`
	CorsOrigins string
	JwtSecret   string `validate:"required,min=8"`
	MediaURL    string `validate:"required"`

	DBHost     string `validate:"required"`
	DBUser     string `validate:"required"`
	DBPassword string
	DBName     string `validate:"required"`
	DBPort     string `validate:"required,numeric"`

	LogLevel string `validate:"oneof=trace debug info warn warning error"`
	LogDir   string `validate:"required"`

	BusDriver string `validate:"oneof=memory redis"`
	RedisURL  string `validate:"required_if=BusDriver redis"`

	MinioEndpoint  string
	MinioAccessKey string `validate:"required_with=MinioEndpoint"`
	MinioSecretKey string `validate:"required_with=MinioEndpoint"`
	MinioBucket    string `validate:"required_with=MinioEndpoint"`
	MinioUseSSL    bool

	KafkaBrokers string
	KafkaTopic   string `validate:"required_with=KafkaBrokers"`

	OperationTimeout time.Duration `validate:"gt=0"`
	SendBuffer       int           `validate:"gt=0"`
}

func NewViper() *Config {
	return NewViperFromFile(".env")
}

// NewViperFromFile reads the given env file when it exists and falls back to the
// process environment for every key.
func NewViperFromFile(path string) *Config {
	config := viper.New()
	config.SetConfigFile(path)
	config.SetConfigType("env")
	config.AutomaticEnv()
	setDefaults(config)

	if err := config.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		var pathErr *fs.PathError
		if !errors.As(err, &notFound) && !errors.As(err, &pathErr) {
			panic(fmt.Sprintf("failed read config: %v", err))
		}
	}
	return &Config{Viper: config}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "college-chat")
	v.SetDefault("APP_PORT", ":7720")
	v.SetDefault("CORS_ORIGINS", "http://localhost:8080")
	v.SetDefault("MEDIA_URL", "http://localhost:7720/media/")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "logs")
	v.SetDefault("BUS_DRIVER", BusDriverMemory)
	v.SetDefault("KAFKA_TOPIC", "chat.messages")
	v.SetDefault("WS_OPERATION_TIMEOUT", "10s")
	v.SetDefault("WS_SEND_BUFFER", 128)
}

func (c *Config) GetAppConfig() (appName string) {
	return c.Viper.GetString("APP_NAME")
}

func (c *Config) GetDatabaseConfig() (dbHost, dbUser, dbPassword, dbName, dbPort string) {
	dbHost = c.Viper.GetString("DB_HOSTNAME")
	dbUser = c.Viper.GetString("DB_USER")
	dbPassword = c.Viper.GetString("DB_PASSWORD")
	dbName = c.Viper.GetString("DB_NAME")
	dbPort = c.Viper.GetString("DB_PORT")

	return dbHost, dbUser, dbPassword, dbName, dbPort
}

func (c *Config) GetJwtConfig() []byte {
	jwtSecret := c.Viper.GetString("JWT_SECRET")
	return []byte(jwtSecret)
}

// Settings assembles and validates every key the service reads.
func (c *Config) Settings(validate *validator.Validate) (*Settings, error) {
	dbHost, dbUser, dbPassword, dbName, dbPort := c.GetDatabaseConfig()
	s := &Settings{
		AppName:     c.GetAppConfig(),
		AppPort:     c.Viper.GetString("APP_PORT"),
		CorsOrigins: c.Viper.GetString("CORS_ORIGINS"),
		JwtSecret:   string(c.GetJwtConfig()),
		MediaURL:    c.Viper.GetString("MEDIA_URL"),

		DBHost:     dbHost,
		DBUser:     dbUser,
		DBPassword: dbPassword,
		DBName:     dbName,
		DBPort:     dbPort,

		LogLevel: strings.ToLower(c.Viper.GetString("LOG_LEVEL")),
		LogDir:   c.Viper.GetString("LOG_DIR"),

		BusDriver: strings.ToLower(c.Viper.GetString("BUS_DRIVER")),
		RedisURL:  c.Viper.GetString("REDIS_URL"),

		MinioEndpoint:  c.Viper.GetString("MINIO_ENDPOINT"),
		MinioAccessKey: c.Viper.GetString("MINIO_ACCESS_KEY"),
		MinioSecretKey: c.Viper.GetString("MINIO_SECRET_KEY"),
		MinioBucket:    c.Viper.GetString("MINIO_BUCKET"),
		MinioUseSSL:    c.Viper.GetBool("MINIO_USE_SSL"),

		KafkaBrokers: c.Viper.GetString("KAFKA_BROKERS"),
		KafkaTopic:   c.Viper.GetString("KAFKA_TOPIC"),

		OperationTimeout: c.Viper.GetDuration("WS_OPERATION_TIMEOUT"),
		SendBuffer:       c.Viper.GetInt("WS_SEND_BUFFER"),
	}

	if err := validate.Struct(s); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return s, nil
}
