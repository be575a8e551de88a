// Writes template configuration for first-time setup
package setup

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"perfdatad/internal/global"
)

// Creates the config directory and a template config file. An existing file
// is only overwritten after an interactive confirmation; without a terminal
// it is left alone.
func InstallConfig(configFilePath string) (err error) {
	if configFilePath == "" {
		configFilePath = global.DefaultConfigPath
	}

	err = os.Mkdir(global.DefaultConfigDir, 0755)
	if err != nil {
		if strings.HasSuffix(err.Error(), "file exists") {
			err = nil
		} else {
			err = fmt.Errorf("failed to create configuration directory: %v", err)
			return
		}
	}

	// Don't overwrite existing
	_, err = os.Stat(configFilePath)
	if err == nil {
		// No terminal - no overwrite
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Printf("Existing configuration file present, not overwriting\n")
			return
		}

		// File exists, prompt user for confirmation to overwrite
		fmt.Printf("Configuration file already exists at '%s'. Are you SURE you want to overwrite it? (yes/no): ", configFilePath)
		reader := bufio.NewReader(os.Stdin)
		input, _ := reader.ReadString('\n')
		input = strings.TrimSpace(input)

		if strings.ToLower(input) != "yes" {
			fmt.Printf("Not overwriting configuration file\n")
			return
		}
	}
	err = nil

	err = CreateTemplateConfig(configFilePath)
	if err != nil {
		return
	}

	fmt.Printf("Successfully wrote template configuration file to '%s'\n", configFilePath)
	return
}

func CreateTemplateConfig(filepath string) (err error) {
	newConfFile, err := os.OpenFile(filepath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer newConfFile.Close()

	var newCfg global.Config
	newCfg.Graphite = []global.GraphiteWriterConf{
		{
			Name:                 "graphite",
			Host:                 "127.0.0.1",
			Port:                 global.DefaultGraphitePort,
			HostNameTemplate:     global.DefaultHostTemplate,
			ServiceNameTemplate:  global.DefaultServTemplate,
			EnableSendThresholds: true,
		},
	}
	newCfg.OpenTsdb = []global.OpenTsdbWriterConf{
		{
			Name: "opentsdb",
			Host: "127.0.0.1",
			Port: global.DefaultOpenTsdbPort,
		},
	}
	newCfg.Stats.Enabled = true
	newCfg.Stats.Port = global.StatsListenPort
	newCfg.Logging.Level = global.VerbosityStandard

	confBytes, err := json.MarshalIndent(newCfg, "", "  ")
	if err != nil {
		err = fmt.Errorf("error marshaling new config: %v", err)
		return
	}
	confBytes = append(confBytes, []byte("\n")...)

	_, err = newConfFile.Write(confBytes)
	if err != nil {
		err = fmt.Errorf("failed to write config to file: %v", err)
		return
	}
	return
}
