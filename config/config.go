package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env      string `toml:"env"`
	LogLevel string `toml:"log_level"`
	LogJSON  bool   `toml:"log_json"`

	// SnowflakeNode identifies this process when generating message ids. It must be unique
	// across processes sharing the same database.
	SnowflakeNode int64 `toml:"snowflake_node"`

	Database         DatabaseConfigs `toml:"database"`
	ApiServer        ServerConfigs   `toml:"api_server"`
	PrometheusServer ServerConfigs   `toml:"prometheus_server"`
	Auth             AuthConfigs     `toml:"auth"`
	Chat             ChatConfigs     `toml:"chat"`
	Realtime         RealtimeConfigs `toml:"realtime"`
	Storage          S3Configs       `toml:"storage"`
	File             FileConfigs     `toml:"file"`
	Redis            RedisConfigs    `toml:"redis"`
	Kafka            KafkaConfigs    `toml:"kafka"`
}

type DatabaseConfigs struct {
	// Driver is either "mysql" or "sqlite".
	Driver   string `toml:"driver"`
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	Database string `toml:"database"`
	User     string `toml:"user"`
	Password string `toml:"password"`

	// Path is the sqlite database file, used only with the sqlite driver.
	Path string `toml:"path"`
}

func (d *DatabaseConfigs) ConnectionString() string {
	if d.Driver == "sqlite" {
		return d.Path
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host           string   `toml:"host"`
	Port           string   `toml:"port"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

func (s ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type AuthConfigs struct {
	AccessToken TokenConfigs `toml:"access_token"`
	OIDC        OIDCConfigs  `toml:"oidc"`
}

type TokenConfigs struct {
	// Name is the cookie carrying the token when no Authorization header is present.
	Name       string   `toml:"name"`
	Secret     string   `toml:"secret"`
	Expiration Duration `toml:"expiration"`
}

type OIDCConfigs struct {
	// Issuer enables ID token verification when it is not empty.
	Issuer   string `toml:"issuer"`
	ClientID string `toml:"client_id"`
	IDField  string `toml:"id_field"`
}

type ChatConfigs struct {
	ChannelMessageBatch int              `toml:"channel_message_batch"`
	DirectMessageBatch  int              `toml:"direct_message_batch"`
	DeletedPlaceholder  string           `toml:"deleted_placeholder"`
	MessageRateLimit    RateLimitConfigs `toml:"message_rate_limit"`
}

type RateLimitConfigs struct {
	// Zero disables the limiter.
	PerSecond float64 `toml:"per_second"`
	Burst     int     `toml:"burst"`
}

type RealtimeConfigs struct {
	// Transport is one of "local", "redis" or "kafka".
	Transport     string   `toml:"transport"`
	ChannelPrefix string   `toml:"channel_prefix"`
	SessionBuffer int      `toml:"session_buffer"`
	PingInterval  Duration `toml:"ping_interval"`
}

type S3Configs struct {
	Region    string `toml:"region"`
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	Bucket    string `toml:"bucket"`
	PublicURL string `toml:"public_url"`

	ForcePathStyle bool `toml:"force_path_style"`
}

type FileConfigs struct {
	MaxSize int64 `toml:"max_size"`
}

type RedisConfigs struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type KafkaConfigs struct {
	Addrs       []string `toml:"addrs"`
	Topic       string   `toml:"topic"`
	GroupPrefix string   `toml:"group_prefix"`
}

// Duration is a time.Duration that can be decoded from strings like "24h".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}

	d.Duration = v
	return nil
}
