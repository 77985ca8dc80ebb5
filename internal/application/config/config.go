package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	Debug      bool   `env:"DEBUG" envDefault:"false"`
	Port       string `env:"PORT" envDefault:"3000"`
	MetricPort string `env:"METRIC_PORT" envDefault:"9090"`
	Domain     string `env:"DOMAIN" envDefault:"http://localhost:3000"`

	// Пользовательские и админские токены подписываются разными секретами
	UserJWTSecret  string `env:"USER_JWT_SECRET,required,notEmpty"`
	AdminJWTSecret string `env:"ADMIN_JWT_SECRET,required,notEmpty"`

	// ReminderLead - за сколько до начала встречи отправлять напоминание
	ReminderLead time.Duration `env:"REMINDER_LEAD" envDefault:"1m"`

	// WriteTimeout - дедлайн записи в одно WebSocket соединение
	WriteTimeout time.Duration `env:"WS_WRITE_TIMEOUT" envDefault:"10s"`

	Storage string `env:"STORAGE" envDefault:"postgres"`

	Log      LogConfig
	Postgres PostgresConfig
	SMTP     SMTPConfig
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
	// File - если задан, логи пишутся в файл с ротацией
	File string `env:"LOG_FILE"`
}

type PostgresConfig struct {
	URL string `env:"POSTGRES_URL"`

	Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	User     string `env:"POSTGRES_USER" envDefault:"postgres"`
	Password string `env:"POSTGRES_PASSWORD" envDefault:"postgres"`
	Name     string `env:"POSTGRES_NAME" envDefault:"meetplanner"`
	SSL      string `env:"POSTGRES_SSL" envDefault:"disable"`
}

func (p *PostgresConfig) DSN() string {
	if p.URL != "" {
		return p.URL
	}

	return fmt.Sprintf("postgresql://%s:%s@%s:%d/%s?sslmode=%s",
		p.User,
		p.Password,
		p.Host,
		p.Port,
		p.Name,
		p.SSL,
	)
}

type SMTPConfig struct {
	// Host - пустой хост включает логирующий нотификатор вместо почты
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM" envDefault:"MeetPlanner <no-reply@meetplanner.local>"`
}

func (s *SMTPConfig) Enabled() bool {
	return s.Host != ""
}

func New() (*Config, error) {
	c, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	switch c.Storage {
	case StoragePostgres, StorageMemory:
	default:
		return nil, fmt.Errorf("unknown storage %q", c.Storage)
	}

	if c.ReminderLead < 0 {
		return nil, fmt.Errorf("reminder lead must not be negative: %s", c.ReminderLead)
	}

	if c.WriteTimeout <= 0 {
		return nil, fmt.Errorf("websocket write timeout must be positive: %s", c.WriteTimeout)
	}

	return &c, nil
}
