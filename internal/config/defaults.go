package config

const (
	defaultConfigPath = "~/.config/romsel/config.toml"
	defaultStateDir   = "~/.local/state/romsel"
	defaultLogDir     = "~/.local/state/romsel/logs"
	defaultLogFormat  = "console"
	defaultLogLevel   = "info"
)

// Default returns a Config populated with repository defaults. Romset and
// selection directories have no default and must come from the config file,
// the environment, or command flags.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
