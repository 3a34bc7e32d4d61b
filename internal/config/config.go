package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type ShortlinkConfig struct {
	Env        string `yaml:"env"`
	SiteURL    string `yaml:"site_url"`
	HTTPServer `yaml:"http_server"`
	LinkDB     `yaml:"link_db"`
	Redis      `yaml:"redis"`
	KafkaService `yaml:"kafka-service"`
	Shortener  `yaml:"shortener"`
	Admin      `yaml:"admin"`
	LogConfig  `yaml:"log_config"`
}

type HTTPServer struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type LinkDB struct {
	Dsn            string `yaml:"dsn"`
	MigrationsPath string `yaml:"migrations_path"`
}

type Redis struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	LinkTTL  time.Duration `yaml:"link_ttl" env-default:"10m"`
}

type KafkaService struct {
	Host  string `yaml:"host"`
	Port  string `yaml:"port"`
	Topic string `yaml:"topic" env-default:"monetization-events"`
}

type Shortener struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout" env-default:"15s"`
}

type Admin struct {
	Username     string        `yaml:"username" env:"ADMIN_USERNAME"`
	PasswordHash string        `yaml:"password_hash" env:"ADMIN_PASSWORD_HASH"`
	JWTSecret    string        `yaml:"jwt_secret" env:"ADMIN_JWT_SECRET"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"12h"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogOutput string `yaml:"log_output"`
}

func MustLoad() *ShortlinkConfig {

	// Processing env config variable and file
	configPath := os.Getenv("SHORTLINK_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("SHORTLINK_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	// YAML to struct object
	var cfg ShortlinkConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
