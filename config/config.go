package config

import (
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var loadOnce sync.Once

func load() {
	loadOnce.Do(func() {
		// .env is optional; real deployments inject the environment directly
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			log.Printf("config: could not load .env: %v", err)
		}
	})
}

// Config returns the value of an environment variable, loading .env on first use.
func Config(key string) string {
	load()
	return os.Getenv(key)
}

func ConfigOr(key, fallback string) string {
	if v := Config(key); v != "" {
		return v
	}
	return fallback
}

func Int(key string, fallback int) int {
	v := Config(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("config: %s=%q is not a number, using %d", key, v, fallback)
		return fallback
	}
	return n
}

// Duration accepts Go duration strings such as "90m" or "2h".
func Duration(key string, fallback time.Duration) time.Duration {
	v := Config(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("config: %s=%q is not a duration, using %s", key, v, fallback)
		return fallback
	}
	return d
}

// Location resolves APP_TIMEZONE, defaulting to the server's local zone.
func Location() *time.Location {
	name := Config("APP_TIMEZONE")
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("config: unknown APP_TIMEZONE %q, using local", name)
		return time.Local
	}
	return loc
}
