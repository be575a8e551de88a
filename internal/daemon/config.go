package daemon

import (
	"encoding/json"
	"fmt"
	"os"

	"perfdatad/internal/global"
	"perfdatad/internal/macros"
)

// Config option rejected at load time
type ValidationError struct {
	Writer string
	Option string
	Reason string
}

func (err *ValidationError) Error() string {
	return fmt.Sprintf("writer '%s': option '%s': %s", err.Writer, err.Option, err.Reason)
}

// Reads and validates the daemon config file
func LoadConfig(path string) (cfg global.Config, err error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("failed reading config file: %v", err)
		return
	}

	err = json.Unmarshal(raw, &cfg)
	if err != nil {
		err = fmt.Errorf("failed parsing config file: %v", err)
		return
	}

	err = ValidateConfig(cfg)
	return
}

// Rejects endpointless writers and unbalanced name templates
func ValidateConfig(cfg global.Config) (err error) {
	for _, conf := range cfg.Graphite {
		if conf.Host == "" {
			err = &ValidationError{Writer: conf.Name, Option: "host", Reason: "must not be empty"}
			return
		}
		if templateErr := macros.Validate(conf.HostNameTemplate); templateErr != nil {
			err = &ValidationError{Writer: conf.Name, Option: "host_name_template", Reason: templateErr.Error()}
			return
		}
		if templateErr := macros.Validate(conf.ServiceNameTemplate); templateErr != nil {
			err = &ValidationError{Writer: conf.Name, Option: "service_name_template", Reason: templateErr.Error()}
			return
		}
	}

	for _, conf := range cfg.OpenTsdb {
		if conf.Host == "" {
			err = &ValidationError{Writer: conf.Name, Option: "host", Reason: "must not be empty"}
			return
		}
	}

	for _, conf := range cfg.Beats {
		if conf.Endpoint == "" {
			err = &ValidationError{Writer: conf.Name, Option: "endpoint", Reason: "must not be empty"}
			return
		}
	}
	return
}
