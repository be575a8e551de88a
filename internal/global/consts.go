package global

import "time"

const (
	// Descriptive Names for available verbosity levels
	VerbosityNone int = iota
	VerbosityStandard
	VerbosityProgress
	VerbosityData
	VerbosityFullData
	VerbosityDebug

	// Descriptive names for available severity levels
	ErrorLog string = "Error"
	WarnLog  string = "Warn"
	InfoLog  string = "Info"
)

const (
	ProgBaseName string = "perfdatad"
	ProgVersion  string = "v0.3.1"

	// Context keys
	LoggerKey  CtxKey = "logger"  // Event queue (mostly for variable log verbosity handling)
	LogTagsKey CtxKey = "logtags" // List of tags in order of broad->specific appended/popped at various parts of the program

	DefaultConfigDir  string = "/etc/perfdatad"
	DefaultConfigPath string = "/etc/perfdatad/config.json"

	// Writer defaults
	DefaultGraphitePort int           = 2003
	DefaultOpenTsdbPort int           = 4242
	ReconnectInterval   time.Duration = 10 * time.Second
	WorkQueueRateWindow time.Duration = 60 * time.Second
	DefaultHostTemplate string        = "icinga2.$host.name$.host.$host.check_command$"
	DefaultServTemplate string        = "icinga2.$host.name$.services.$service.name$.$service.check_command$"

	// Timeout values
	DaemonShutdownTimeout time.Duration = 20 * time.Second

	// Stats HTTP server (queries only exposed to local machine)
	StatsListenAddr   string        = "localhost"
	StatsListenPort   int           = 18001
	StatsReadTimeout  time.Duration = 30 * time.Second
	StatsWriteTimeout time.Duration = 10 * time.Second
	StatsIdleTimeout  time.Duration = 180 * time.Second

	// Log Tag Name Components
	TagDaemon   string = "Daemon"
	TagGraphite string = "GraphiteWriter"
	TagOpenTsdb string = "OpenTsdbWriter"
	TagBeats    string = "BeatsWriter"
	TagQueue    string = "WorkQueue"
	TagStats    string = "Stats"
	TagTest     string = "Test"
)
