// Package config reads server settings from the environment, after loading
// an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"
)

type Config struct {
	Addr         string
	TLSCert      string
	TLSKey       string
	Rate         float64
	Burst        int
	TokenKey     string
	LogLevel     string
	MaxBody      int64
	BatchWorkers int
}

func Default() Config {
	return Config{
		Addr:         ":8080",
		Rate:         5,
		Burst:        10,
		LogLevel:     "info",
		MaxBody:      1 << 20,
		BatchWorkers: 4,
	}
}

// TLS reports whether both certificate and key are configured.
func (c Config) TLS() bool {
	return c.TLSCert != "" && c.TLSKey != ""
}

// Load reads the given .env files (".env" when none are named) and then the
// WHEELCALC_* variables. Missing files are not an error.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from a lookup function such as os.LookupEnv.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	c := Default()
	var errs error

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *float64) {
		if v, ok := lookup(key); ok && v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil || f <= 0 {
				errs = multierr.Append(errs, fmt.Errorf("%s: must be a positive number, got %q", key, v))
				return
			}
			*dst = f
		}
	}
	integer := func(key string, dst *int64) {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil || n <= 0 {
				errs = multierr.Append(errs, fmt.Errorf("%s: must be a positive integer, got %q", key, v))
				return
			}
			*dst = n
		}
	}

	str("WHEELCALC_ADDR", &c.Addr)
	str("WHEELCALC_TLS_CERT", &c.TLSCert)
	str("WHEELCALC_TLS_KEY", &c.TLSKey)
	str("WHEELCALC_TOKEN_KEY", &c.TokenKey)
	str("WHEELCALC_LOG_LEVEL", &c.LogLevel)
	num("WHEELCALC_RATE", &c.Rate)
	integer("WHEELCALC_MAX_BODY", &c.MaxBody)

	burst, workers := int64(c.Burst), int64(c.BatchWorkers)
	integer("WHEELCALC_BURST", &burst)
	integer("WHEELCALC_BATCH_WORKERS", &workers)
	c.Burst, c.BatchWorkers = int(burst), int(workers)

	if (c.TLSCert == "") != (c.TLSKey == "") {
		errs = multierr.Append(errs, errors.New("WHEELCALC_TLS_CERT and WHEELCALC_TLS_KEY must be set together"))
	}
	if errs != nil {
		return Config{}, errs
	}
	return c, nil
}
