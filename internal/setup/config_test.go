package setup

import (
	"os"
	"path/filepath"
	"testing"

	"perfdatad/internal/daemon"
	"perfdatad/internal/global"
)

func TestCreateTemplateConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	if err := CreateTemplateConfig(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("config file mode: got %v", info.Mode().Perm())
	}

	// Template must load and validate through the daemon config path
	cfg, err := daemon.LoadConfig(path)
	if err != nil {
		t.Fatalf("template config does not validate: %v", err)
	}
	if len(cfg.Graphite) != 1 || cfg.Graphite[0].HostNameTemplate != global.DefaultHostTemplate {
		t.Fatalf("graphite template section wrong: %+v", cfg.Graphite)
	}
	if len(cfg.OpenTsdb) != 1 || cfg.OpenTsdb[0].Port != global.DefaultOpenTsdbPort {
		t.Fatalf("opentsdb template section wrong: %+v", cfg.OpenTsdb)
	}
}
