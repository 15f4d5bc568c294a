/*
© 2024–present Harald Rudell <harald.rudell@gmail.com> (https://haraldrudell.github.io/haraldrudell/)
ISC License
*/

// Package evconfig loads the event loop's and executor pool's tunable
// constants: clock resolution, kept-executor count, retention
// interval/multiplier, and accept-loop backoff. Values come from
// environment variables (optionally loaded from a .env file) with an
// optional YAML override file, the way dmitrymomot-foundation's
// core/config layers caarlos0/env over godotenv.
package evconfig

import (
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Config holds every tunable the runtime's components expose, with
// defaults matching the concrete values the loop and executor use when
// nothing overrides them.
type Config struct {
	// ClockResolution bounds how early the runner's timer-heap drain
	// may fire relative to a handle's `when`.
	ClockResolution time.Duration `env:"EVRT_CLOCK_RESOLUTION" yaml:"clock_resolution" envDefault:"1ms"`
	// KeptExecutorCount is the default retained-thread floor before
	// idle release kicks in; evsys.DefaultExecutorCount overrides this
	// when unset.
	KeptExecutorCount int `env:"EVRT_KEPT_EXECUTORS" yaml:"kept_executor_count" envDefault:"0"`
	// ExecutorReleaseInterval is the first idle-release delay.
	ExecutorReleaseInterval time.Duration `env:"EVRT_EXECUTOR_RELEASE_INTERVAL" yaml:"executor_release_interval" envDefault:"600ms"`
	// ExecutorReleaseMultiplier scales the delay on successive releases.
	ExecutorReleaseMultiplier float64 `env:"EVRT_EXECUTOR_RELEASE_MULTIPLIER" yaml:"executor_release_multiplier" envDefault:"2.5"`
	// AcceptBackoff caps the delay evnet.Listen's accept loop waits after
	// a failed Accept. The delay starts at 1ms and doubles on each
	// consecutive failure, whatever the error; EMFILE/ENFILE/ENOBUFS/
	// ENOMEM get no separate fixed suspension.
	AcceptBackoff time.Duration `env:"EVRT_ACCEPT_BACKOFF" yaml:"accept_backoff" envDefault:"1s"`
	// DefaultBacklog is loaded and defaulted like the other tunables;
	// no server builder in this module reads it.
	DefaultBacklog int `env:"EVRT_DEFAULT_BACKLOG" yaml:"default_backlog" envDefault:"100"`
}

// Default returns a Config populated with its struct-tag defaults, as
// if no environment or file overrides existed.
func Default() (cfg *Config) {
	cfg = &Config{}
	_ = env.Parse(cfg)
	return
}

// Load builds a Config from, in increasing priority: built-in
// defaults, a .env file at dotenvPath (if non-empty and present),
// process environment variables, and a YAML override file at
// yamlPath (if non-empty and present).
func Load(dotenvPath string, yamlPath string) (cfg *Config, err error) {
	if dotenvPath != "" {
		if _, statErr := os.Stat(dotenvPath); statErr == nil {
			if err = godotenv.Load(dotenvPath); err != nil {
				return
			}
		}
	}
	cfg = &Config{}
	if err = env.Parse(cfg); err != nil {
		return
	}
	if yamlPath == "" {
		return
	}
	var data []byte
	if data, err = os.ReadFile(yamlPath); err != nil {
		if os.IsNotExist(err) {
			err = nil
		}
		return
	}
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return
	}
	return
}
