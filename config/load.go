package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const envPrefix = "HARMONY_"

func Default() Configs {
	return Configs{
		Env:           "development",
		LogLevel:      "info",
		SnowflakeNode: 1,
		Database: DatabaseConfigs{
			Driver:   "mysql",
			Host:     "localhost",
			Port:     "3306",
			Database: "harmony",
			User:     "root",
			Path:     "harmony.db",
		},
		ApiServer: ServerConfigs{
			Port:           "8080",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		PrometheusServer: ServerConfigs{Port: "9090"},
		Auth: AuthConfigs{
			AccessToken: TokenConfigs{
				Name:       "access_token",
				Expiration: Duration{24 * time.Hour},
			},
			OIDC: OIDCConfigs{IDField: "sub"},
		},
		Chat: ChatConfigs{
			ChannelMessageBatch: 20,
			DirectMessageBatch:  10,
			DeletedPlaceholder:  "This message has been deleted.",
			MessageRateLimit:    RateLimitConfigs{PerSecond: 5, Burst: 10},
		},
		Realtime: RealtimeConfigs{
			Transport:     "local",
			ChannelPrefix: "harmony:",
			SessionBuffer: 64,
			PingInterval:  Duration{30 * time.Second},
		},
		Storage: S3Configs{Region: "us-east-1", Bucket: "harmony"},
		File:    FileConfigs{MaxSize: 4 * 1024 * 1024},
		Redis:   RedisConfigs{Addr: "localhost:6379"},
		Kafka: KafkaConfigs{
			Addrs:       []string{"localhost:9092"},
			Topic:       "harmony-realtime",
			GroupPrefix: "harmony-realtime",
		},
	}
}

// Load builds the configurations from the defaults, the toml file at path (optional) and the
// environment. A .env file in the working directory is loaded into the environment first.
func Load(path string) (Configs, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Configs{}, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Configs{}, err
	}

	if err := applyEnv(&cfg); err != nil {
		return Configs{}, err
	}

	return cfg, nil
}

func applyEnv(cfg *Configs) error {
	setString(&cfg.Env, "ENV")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.Database.Driver, "DB_DRIVER")
	setString(&cfg.Database.Host, "DB_HOST")
	setString(&cfg.Database.Port, "DB_PORT")
	setString(&cfg.Database.Database, "DB_NAME")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Database.Path, "DB_PATH")
	setString(&cfg.ApiServer.Host, "API_HOST")
	setString(&cfg.ApiServer.Port, "API_PORT")
	setList(&cfg.ApiServer.AllowedOrigins, "ALLOWED_ORIGINS")
	setString(&cfg.PrometheusServer.Port, "PROMETHEUS_PORT")
	setString(&cfg.Auth.AccessToken.Secret, "TOKEN_SECRET")
	setString(&cfg.Auth.OIDC.Issuer, "OIDC_ISSUER")
	setString(&cfg.Auth.OIDC.ClientID, "OIDC_CLIENT_ID")
	setString(&cfg.Realtime.Transport, "REALTIME_TRANSPORT")
	setString(&cfg.Storage.Endpoint, "S3_ENDPOINT")
	setString(&cfg.Storage.AccessKey, "S3_ACCESS_KEY")
	setString(&cfg.Storage.SecretKey, "S3_SECRET_KEY")
	setString(&cfg.Storage.Bucket, "S3_BUCKET")
	setString(&cfg.Storage.PublicURL, "S3_PUBLIC_URL")
	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setList(&cfg.Kafka.Addrs, "KAFKA_ADDRS")

	if err := setInt64(&cfg.SnowflakeNode, "SNOWFLAKE_NODE"); err != nil {
		return err
	}

	if v, ok := lookup("TOKEN_EXPIRATION"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		cfg.Auth.AccessToken.Expiration = Duration{d}
	}

	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + key)
	if !ok || v == "" {
		return "", false
	}

	return v, true
}

func setString(field *string, key string) {
	if v, ok := lookup(key); ok {
		*field = v
	}
}

func setList(field *[]string, key string) {
	v, ok := lookup(key)
	if !ok {
		return
	}

	items := strings.Split(v, ",")
	for i := range items {
		items[i] = strings.TrimSpace(items[i])
	}
	*field = items
}

func setInt64(field *int64, key string) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}

	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return err
	}

	*field = n
	return nil
}
