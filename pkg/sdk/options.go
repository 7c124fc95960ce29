package crmfilter

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs    []string
	username string
	password string
	db       int

	keyPrefix        string
	skipEnsure       bool
	savedQueriesFile string
	clock            func() time.Time

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithRedis configures the client to connect to a Redis instance with the search module.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithCluster configures several seed addresses and ACL credentials.
func WithCluster(addrs []string, username, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = addrs
		c.username = username
		c.password = password
	})
}

// WithDB selects the logical database.
func WithDB(db int) Option {
	return optionFunc(func(c *clientConfig) {
		c.db = db
	})
}

// WithKeyPrefix sets the prefix of record keys and index names.
// Default: "crm:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithoutIndexCreation skips creating missing entity indexes on connect.
func WithoutIndexCreation() Option {
	return optionFunc(func(c *clientConfig) {
		c.skipEnsure = true
	})
}

// WithSavedQueries loads extra saved queries from a YAML file.
func WithSavedQueries(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.savedQueriesFile = path
	})
}

// WithClock sets the clock used to resolve "today" and week ranges.
func WithClock(now func() time.Time) Option {
	return optionFunc(func(c *clientConfig) {
		c.clock = now
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
