package logger

// Config controls how the zap logger is built.
type Config struct {
	// Level is the minimum level: debug, info, warn, error or fatal.
	Level string `env:"LOG_LEVEL" yaml:"level"`
	// Development disables sampling so every entry is written.
	Development bool `env:"LOG_DEVELOPMENT" yaml:"development"`
	// OutputPaths are zap sink URLs or file paths.
	OutputPaths []string `env:"LOG_OUTPUT_PATHS" yaml:"output_paths"`
}

const defaultLevel = "info"

func (c *Config) setDefaults() {
	if c.Level == "" {
		c.Level = defaultLevel
	}
	if len(c.OutputPaths) == 0 {
		c.OutputPaths = []string{"stdout"}
	}
}
