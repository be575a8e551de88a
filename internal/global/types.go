package global

type CtxKey string

// Daemon Configuration

type Config struct {
	Graphite []GraphiteWriterConf `json:"graphite,omitempty"`
	OpenTsdb []OpenTsdbWriterConf `json:"opentsdb,omitempty"`
	Beats    []BeatsWriterConf    `json:"beats,omitempty"`
	Stats    StatsConf            `json:"stats"`
	Logging  Logging              `json:"logging"`
}

type GraphiteWriterConf struct {
	Name                 string `json:"name"`
	Host                 string `json:"host"`
	Port                 int    `json:"port"`
	HostNameTemplate     string `json:"host_name_template,omitempty"`
	ServiceNameTemplate  string `json:"service_name_template,omitempty"`
	EnableHa             bool   `json:"enable_ha"`
	EnableSendThresholds bool   `json:"enable_send_thresholds"`
	EnableSendMetadata   bool   `json:"enable_send_metadata"`
}

type OpenTsdbWriterConf struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	EnableHa bool   `json:"enable_ha"`
}

type BeatsWriterConf struct {
	Name     string `json:"name"`
	Endpoint string `json:"endpoint"` // host:port of lumberjack v2 listener
	EnableHa bool   `json:"enable_ha"`
}

type StatsConf struct {
	Enabled bool `json:"enabled"`
	Port    int  `json:"port,omitempty"`
}

type Logging struct {
	Level   int    `json:"logLevel"`
	LogFile string `json:"logFile,omitempty"`
}
