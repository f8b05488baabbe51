package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Env struct {
	AppAddr string `envconfig:"APP_ADDR" default:":8080"`
	GinMode string `envconfig:"GIN_MODE"`

	DBUser string `envconfig:"DB_USER" default:"root"`
	DBPass string `envconfig:"DB_PASS"`
	DBHost string `envconfig:"DB_HOST" default:"127.0.0.1:3306"`
	DBName string `envconfig:"DB_NAME" default:"home_service"`

	JWTSecret string `envconfig:"JWT_SECRET" default:"super-secret-key-change-me"`

	// DelaySweepSpec is a robfig/cron spec; the sweep itself re-derives
	// eligibility from the store, so the schedule only bounds staleness.
	DelaySweepSpec string `envconfig:"DELAY_SWEEP_SPEC" default:"@every 15m"`

	// ReferenceTZ anchors time-slot parsing for the delay sweep.
	ReferenceTZ string `envconfig:"REFERENCE_TZ" default:"Asia/Kolkata"`

	// NotifyBaseDelay is the first retry delay for failed deliveries;
	// subsequent attempts double it.
	NotifyBaseDelay time.Duration `envconfig:"NOTIFY_BASE_DELAY" default:"60s"`
}

func LoadEnv() Env {
	var env Env
	envconfig.MustProcess("", &env)
	return env
}

// Location resolves the reference time zone, falling back to UTC when the
// zone database lacks the configured name.
func (e Env) Location() *time.Location {
	loc, err := time.LoadLocation(e.ReferenceTZ)
	if err != nil {
		return time.UTC
	}
	return loc
}
