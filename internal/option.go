package internal

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config     *Config
	configPath string
	overrides  Overrides
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithConfigFile enables credential reloading from path. overrides are
// re-applied on every reload so flags and environment keep precedence.
func WithConfigFile(path string, overrides Overrides) Option {
	return func(a *application) {
		a.configPath = path
		a.overrides = overrides
	}
}
