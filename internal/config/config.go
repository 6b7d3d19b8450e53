// Package config holds the functional-options configuration record
// shared by the tunnel-port registry constructor.
package config

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Config collects the registry's tunable knobs. Zero value is not
// meant to be used directly; call Default and apply options over it.
type Config struct {
	Logger     *logrus.Entry
	WarnEvery  time.Duration
	DebugEvery time.Duration
	DebugBurst int
}

// Default returns the baseline configuration: spec §7's suggested
// warning/debug rate-limit policy and an entry on logrus's standard
// (process-wide) logger.
func Default() Config {
	return Config{
		Logger:     logrus.NewEntry(logrus.StandardLogger()),
		WarnEvery:  5 * time.Second,
		DebugEvery: time.Second,
		DebugBurst: 60,
	}
}
