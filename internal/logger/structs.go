package logger

// Console implements a console based logger.
type Console struct {
	Enabled bool `mapstructure:"enabled"`
	// Pretty switches from JSON lines to the human readable zerolog.ConsoleWriter.
	Pretty bool `mapstructure:"pretty"`
}

// RotatedFile configures one lumberjack rotated log file. Sizes are megabytes, ages days.
type RotatedFile struct {
	Name       string `mapstructure:"name"`
	MaxSize    int    `mapstructure:"maxSize"`
	MaxBackups int    `mapstructure:"maxBackups"`
	MaxAge     int    `mapstructure:"maxAge"`
	Compress   bool   `mapstructure:"compress"`
}

// LogFile implements a file based logger with one file per level group.
type LogFile struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`

	Access RotatedFile `mapstructure:"access"`
	Error  RotatedFile `mapstructure:"error"`
	Warn   RotatedFile `mapstructure:"warn"`
	Info   RotatedFile `mapstructure:"info"`
	Trace  RotatedFile `mapstructure:"trace"`
}

// Log implements the logger config.
type Log struct {
	LogLevel string // trace, debug, info, warn, error.
	LogEnv   string

	// EnableAccessLogToConsole writes the access log to the console too.
	// It has no effect while Console.Enabled is false.
	EnableAccessLogToConsole bool
	ReportCaller             bool
	DisableCheckAlive        bool // do not log /checkalive calls

	AppName     string
	ServiceName string

	Console Console
	File    LogFile `mapstructure:"file"`
}

// Validate checks the fields Init depends on.
func (l Log) Validate() error {
	if l.ServiceName == "" {
		return ErrServiceNameIsEmpty
	}

	if l.AppName == "" {
		return ErrAppNameIsEmpty
	}

	return nil
}
