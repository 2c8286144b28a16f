package common

import (
	"fmt"
	"strings"
	"time"

	"github.com/ValentinKolb/dStruct/lib/ckv"
	"github.com/ValentinKolb/dStruct/lib/lockmgr"
)

// Config holds the settings of the data-structure layer
type Config struct {
	// LockLease is the lease of a collection lock in store writes (0 = no lease)
	LockLease uint64
	// LockWait bounds how long an operation waits for its collection lock
	LockWait time.Duration
	// RetryMin and RetryMax bound the backoff between two lock attempts
	RetryMin time.Duration
	RetryMax time.Duration
	// Codec is the name of the record codec (json, gob, binary)
	Codec string
	// LogLevel is the level of all loggers (debug, info, warn, error)
	LogLevel string
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	opts := ckv.DefaultOptions()
	return Config{
		LockLease: opts.LockLease,
		LockWait:  opts.LockWait,
		RetryMin:  opts.Backoff.Min,
		RetryMax:  opts.Backoff.Max,
		Codec:     "binary",
		LogLevel:  "info",
	}
}

// TableOptions converts the configuration into the options of a ckv.Table
func (c *Config) TableOptions() ckv.Options {
	return ckv.Options{
		LockLease: c.LockLease,
		LockWait:  c.LockWait,
		Backoff:   lockmgr.Backoff{Min: c.RetryMin, Max: c.RetryMax},
	}
}

// String returns a formatted string representation of the configuration
func (c *Config) String() string {
	var sb strings.Builder

	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Locking")
	addField("Lock Lease", fmt.Sprintf("%d writes", c.LockLease))
	addField("Lock Wait", c.LockWait.String())
	addField("Retry Backoff", fmt.Sprintf("%s - %s", c.RetryMin, c.RetryMax))

	addSection("Storage")
	addField("Codec", c.Codec)

	addSection("Logging")
	addField("Log Level", c.LogLevel)

	return sb.String()
}
