package htmlflow

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/itsatony/go-cuserr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config is the file form of a view configuration.
//
//	name: playlist
//	indented: false
//	thread_safe: true
//	log_level: debug
//	cache:
//	  ttl: 1m
//	  max_entries: 100
type Config struct {
	Name       string             `yaml:"name"`
	Indented   *bool              `yaml:"indented,omitempty"`
	ThreadSafe bool               `yaml:"thread_safe"`
	Stream     bool               `yaml:"stream"`
	LogLevel   string             `yaml:"log_level,omitempty"`
	Cache      *RenderCacheConfig `yaml:"cache,omitempty"`
}

// LoadConfig decodes a YAML configuration from r and validates it. An empty
// document yields the zero configuration.
func LoadConfig(r io.Reader) (*Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, newConfigError(ErrMsgConfigDecode, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfigFile reads and decodes the YAML configuration at path.
func LoadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newConfigError(ErrMsgConfigRead, err).WithMetadata(MetaKeyPath, path)
	}
	defer f.Close()
	return LoadConfig(f)
}

// Validate rejects configurations no view can honor.
func (c *Config) Validate() error {
	if c.ThreadSafe && c.Stream {
		return NewInvalidConfigError(ErrMsgThreadSafeStream, OpLoadConfig)
	}
	if c.LogLevel != "" {
		if _, err := zap.ParseAtomicLevel(c.LogLevel); err != nil {
			return newConfigError(ErrMsgInvalidLogLevel, err).WithMetadata(MetaKeyReason, c.LogLevel)
		}
	}
	if c.Cache != nil {
		return c.Cache.Validate()
	}
	return nil
}

// Options converts the configuration to view options. out is the stream
// used when the configuration asks for streaming output.
func (c *Config) Options(out io.Writer) []Option {
	var opts []Option
	if c.Name != "" {
		opts = append(opts, WithName(c.Name))
	}
	if c.Indented != nil {
		opts = append(opts, WithIndented(*c.Indented))
	}
	if c.ThreadSafe {
		opts = append(opts, WithThreadSafe())
	}
	if c.Stream && out != nil {
		opts = append(opts, WithOutput(out))
	}
	return opts
}

// Logger builds a production zap logger at the configured level, or a no-op
// logger when no level is set.
func (c *Config) Logger() (*zap.Logger, error) {
	if c.LogLevel == "" {
		return zap.NewNop(), nil
	}
	level, err := zap.ParseAtomicLevel(c.LogLevel)
	if err != nil {
		return nil, newConfigError(ErrMsgInvalidLogLevel, err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = level
	return zc.Build()
}

// NewCache returns the configured render cache, or nil when caching is off.
func (c *Config) NewCache() *RenderCache {
	if c.Cache == nil {
		return nil
	}
	return NewRenderCache(*c.Cache)
}

func newConfigError(msg string, cause error) *cuserr.CustomError {
	return cuserr.WrapStdError(fmt.Errorf("%w: %w", ErrInvalidConfig, cause), ErrCodeConfig, msg)
}
