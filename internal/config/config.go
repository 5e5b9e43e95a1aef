package config

import (
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env           string `yaml:"env" env-default:"local"`
	Tokens        `yaml:"tokens"`
	RabbitMQ      `yaml:"rabbitmq"`
	Postgres      `yaml:"postgres"`
	HTTPServer    `yaml:"http_server"`
	Pushy         `yaml:"pushy"`
	OpenWeather   `yaml:"open_weather"`
	SystemAccount `yaml:"system_account"`
	Email         `yaml:"email"`
}

// Email is the SMTP account the mailer binary sends from.
type Email struct {
	Host     string `yaml:"host" env-default:"smtp.gmail.com"`
	Port     int    `yaml:"port" env-default:"587"`
	Username string `yaml:"username" env:"SMTP_USERNAME"`
	Password string `yaml:"password" env:"SMTP_PASSWORD"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
	PublicURL   string        `yaml:"public_url" env-default:"http://localhost:8080"`
}

type Postgres struct {
	Host     string `yaml:"host" env-default:"postgres"`
	Port     int    `yaml:"port" env-default:"5432"`
	User     string `yaml:"user" env-required:"true"`
	Password string `yaml:"password" env-required:"true"`
	DBName   string `yaml:"dbname" env-required:"true"`
	SSLMode  string `yaml:"sslmode" env-default:"disabled"`
}

type Tokens struct {
	SessionTokenTTL time.Duration `yaml:"session_token_ttl" env-default:"336h"`
	EmailTokenTTL   time.Duration `yaml:"email_token_ttl" env-default:"10m"`
	Secret          string        `yaml:"secret" env:"TOKEN_SECRET" env-required:"true"`
}

type RabbitMQ struct {
	URL       string `yaml:"url" env-required:"true"`
	QueueName string `yaml:"queue_name" env-default:"emails"`
}

type Pushy struct {
	APIKey string `yaml:"api_key" env:"PUSHY_API_KEY"`
	URL    string `yaml:"url" env-default:"https://api.pushy.me"`
}

type OpenWeather struct {
	APIKey     string `yaml:"api_key" env:"OPEN_WEATHER_API_KEY"`
	GeoURL     string `yaml:"geo_url" env-default:"http://api.openweathermap.org/geo/1.0"`
	OneCallURL string `yaml:"one_call_url" env-default:"https://api.openweathermap.org/data/2.5/onecall"`
}

// SystemAccount is the member that posts the welcome message in every chat.
type SystemAccount struct {
	Email string `yaml:"email" env-default:"system@messaging.local"`
}

func MustLoad(configPath string) *Config {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("Config file does not exist" + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("Failed to read config" + err.Error())
	}

	return &cfg
}
