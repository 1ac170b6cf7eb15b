package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr    string
	DatabaseURL string
	StoreName   string
	Env         string

	// KafkaBrokers empty disables both the catalog consumer and the sale
	// event publisher; a till must ring up sales without the feed.
	KafkaBrokers       []string
	KafkaSalesTopic    string
	KafkaCatalogTopic  string
	KafkaConsumerGroup string
	KafkaMinBytes      int
	KafkaMaxBytes      int

	CacheWarmLimit int
	SessionTTL     time.Duration
	SessionSweep   time.Duration

	ShutdownTimeout time.Duration
}

func Load() (Config, error) {
	var c Config

	c.HTTPAddr = getenv("APP_HTTP_ADDR", ":8081")
	c.DatabaseURL = os.Getenv("DATABASE_URL")
	if c.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required")
	}

	c.StoreName = getenv("STORE_NAME", "Safiri Store")
	c.Env = getenv("APP_ENV", "dev")

	c.KafkaBrokers = splitCSV(os.Getenv("KAFKA_BROKERS"))
	c.KafkaSalesTopic = getenv("KAFKA_SALES_TOPIC", "pos-sales")
	c.KafkaCatalogTopic = getenv("KAFKA_CATALOG_TOPIC", "catalog-updates")
	c.KafkaConsumerGroup = getenv("KAFKA_CONSUMER_GROUP", "pos-service")
	c.KafkaMinBytes = getenvInt("KAFKA_MIN_BYTES", 1e3)
	c.KafkaMaxBytes = getenvInt("KAFKA_MAX_BYTES", 10e6)

	c.CacheWarmLimit = getenvInt("CACHE_WARM_LIMIT", 500)
	c.SessionTTL = getenvDuration("SESSION_TTL", 10*time.Hour)
	c.SessionSweep = getenvDuration("SESSION_SWEEP_INTERVAL", 5*time.Minute)

	c.ShutdownTimeout = getenvDuration("SHUTDOWN_TIMEOUT", 10*time.Second)

	return c, nil
}

// KafkaEnabled reports whether the store is wired to a broker at all.
func (c Config) KafkaEnabled() bool { return len(c.KafkaBrokers) > 0 }

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
