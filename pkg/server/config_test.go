package server

import "testing"

func TestParseConfigOverridesBase(t *testing.T) {
	base := DefaultConfig()
	data := []byte("addr: \":6000\"\nlog_level: debug\n")

	cfg, err := ParseConfig(data, base)
	if err != nil {
		t.Fatalf("ParseConfig: unexpected error: %v", err)
	}
	if cfg.Addr != ":6000" {
		t.Fatalf("Addr: want=:6000 got=%q", cfg.Addr)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel: want=debug got=%q", cfg.LogLevel)
	}
	// Keys absent from the file keep their base values.
	if cfg.MetricsAddr != base.MetricsAddr {
		t.Fatalf("MetricsAddr: want=%q got=%q", base.MetricsAddr, cfg.MetricsAddr)
	}
}

func TestParseConfigRejectsMalformedYAML(t *testing.T) {
	if _, err := ParseConfig([]byte("addr: [oops"), DefaultConfig()); err == nil {
		t.Fatalf("ParseConfig: expected error for malformed YAML")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig("/nonexistent/teamchat.yaml", DefaultConfig()); err == nil {
		t.Fatalf("LoadConfig: expected error for missing file")
	}
}
