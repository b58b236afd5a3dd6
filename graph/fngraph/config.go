package fngraph

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/dshills/fngraph/graph"
	"github.com/dshills/fngraph/graph/emit"
)

// Config is the declarative form of the executor options, for callers that
// keep settings in TOML:
//
//	error_policy = "continue"
//	order = "dfs"
//	max_steps = 100
//	operation_timeout = "5s"
//
//	[log]
//	format = "json"
//	level = "info"
//
// Empty fields keep the defaults. Use Options to apply a Config.
type Config struct {
	ErrorPolicy      string    `toml:"error_policy"`
	Order            string    `toml:"order"`
	MaxSteps         int       `toml:"max_steps"`
	OperationTimeout Duration  `toml:"operation_timeout"`
	RunTimeout       Duration  `toml:"run_timeout"`
	Log              LogConfig `toml:"log"`
}

// LogConfig selects a LogEmitter. No emitter is configured while Format is
// empty.
type LogConfig struct {
	// Format is "text", "json" or "logfmt".
	Format string `toml:"format"`

	// Level is "debug", "info", "warn" or "error". Default: info.
	Level string `toml:"level"`
}

// Duration is a time.Duration written as a string such as "250ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// DecodeConfig reads a Config from TOML. Unknown keys are an error.
func DecodeConfig(r io.Reader) (Config, error) {
	var cfg Config
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("decode config: unknown key %q", undecoded[0].String())
	}
	return cfg, nil
}

// Options converts the config to executor options. Log lines go to
// stderr; pass WithEmitter after these to override.
func (c Config) Options() ([]Option, error) {
	policy, err := graph.ParseErrorPolicy(c.ErrorPolicy)
	if err != nil {
		return nil, err
	}
	order, err := graph.ParseOrder(c.Order)
	if err != nil {
		return nil, err
	}
	opts := []Option{
		WithErrorPolicy(policy),
		WithOrder(order),
		WithMaxSteps(c.MaxSteps),
		WithOperationTimeout(c.OperationTimeout.Duration),
		WithRunTimeout(c.RunTimeout.Duration),
	}

	if c.Log.Format != "" {
		le, err := c.Log.emitter()
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithEmitter(le))
	}
	return opts, nil
}

func (l LogConfig) emitter() (*emit.LogEmitter, error) {
	var format emit.Format
	switch emit.Format(l.Format) {
	case emit.FormatText, emit.FormatJSON, emit.FormatLogfmt:
		format = emit.Format(l.Format)
	default:
		return nil, fmt.Errorf("unknown log format %q", l.Format)
	}
	le := emit.NewLogEmitter(os.Stderr, format)
	if l.Level != "" {
		if err := le.SetLevel(l.Level); err != nil {
			return nil, err
		}
	}
	return le, nil
}
