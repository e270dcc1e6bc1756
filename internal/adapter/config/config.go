package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	Database   *Database
	HTTP       *HTTP
	Broker     *Broker
	App        *App
	Commission *Commission
}

const AppModeProduction = "PROD"
const AppModeDevelop = "DEV"

type App struct {
	LogLevel string `env:"LOG_LEVEL"`
	Mode     string
}

type Database struct {
	DSN string `env:"DATABASE_URI"`
}

type HTTP struct {
	HostString string `env:"RUN_ADDRESS"`
}

type Broker struct {
	URL   string `env:"BROKER_URL"`
	Queue string `env:"BROKER_QUEUE" envDefault:"zishop.orders"`
}

// Commission holds the revenue split and refund policy. Rates are decimal
// strings parsed by the domain layer, so a bad value fails at startup
// instead of on the first confirmed order.
type Commission struct {
	MerchantRate     string `env:"COMMISSION_MERCHANT_RATE" envDefault:"0.75"`
	ZishopRate       string `env:"COMMISSION_ZISHOP_RATE" envDefault:"0.20"`
	HotelRate        string `env:"COMMISSION_HOTEL_RATE" envDefault:"0.05"`
	RefundWindowDays int    `env:"REFUND_WINDOW_DAYS" envDefault:"7"`
}

func NewConfig() (*Config, error) {
	var db Database
	var http HTTP
	var broker Broker
	var app App
	var commission Commission

	flag.StringVar(&db.DSN, "d", "", "Database string")
	flag.StringVar(&http.HostString, "a", `localhost:8080`, "HTTP server endpoint")
	flag.StringVar(&broker.URL, "b", "", "Message broker address")
	flag.StringVar(&app.LogLevel, "l", `error`, "Log level")
	flag.StringVar(&app.Mode, "m", `DEV`, "PROD / DEV")
	flag.Parse()

	err := env.Parse(&db)
	if err != nil {
		return nil, fmt.Errorf("error parsing env database config: %w", err)
	}
	err = env.Parse(&http)
	if err != nil {
		return nil, fmt.Errorf("error parsing http config: %w", err)
	}
	err = env.Parse(&broker)
	if err != nil {
		return nil, fmt.Errorf("error parsing broker config: %w", err)
	}
	err = env.Parse(&app)
	if err != nil {
		return nil, fmt.Errorf("error parsing app config: %w", err)
	}
	err = env.Parse(&commission)
	if err != nil {
		return nil, fmt.Errorf("error parsing commission config: %w", err)
	}

	config := Config{
		Database:   &db,
		HTTP:       &http,
		Broker:     &broker,
		App:        &app,
		Commission: &commission,
	}

	return &config, nil
}
