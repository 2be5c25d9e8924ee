package config

import "testing"

func TestDefaultConfigValues(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Session.DefaultWidth != 80 {
		t.Errorf("DefaultWidth = %d, want 80", cfg.Session.DefaultWidth)
	}
	if cfg.Session.DefaultHeight != 24 {
		t.Errorf("DefaultHeight = %d, want 24", cfg.Session.DefaultHeight)
	}
	if cfg.Appearance.Theme != "" {
		t.Errorf("Theme = %q, want empty", cfg.Appearance.Theme)
	}
}

func TestFillMissingKeepsExplicitValues(t *testing.T) {
	cfg := &Config{Session: SessionConfig{DefaultWidth: 120}}
	fillMissing(cfg, DefaultConfig())
	if cfg.Session.DefaultWidth != 120 {
		t.Errorf("DefaultWidth = %d, want 120 (explicit value clobbered)", cfg.Session.DefaultWidth)
	}
	if cfg.Session.DefaultHeight != 24 {
		t.Errorf("DefaultHeight = %d, want 24 (default fill-in)", cfg.Session.DefaultHeight)
	}
}

func TestApplyOverridesOnlyTouchesSetFields(t *testing.T) {
	cfg := DefaultConfig()
	ApplyOverrides(Overrides{Width: 100}, cfg)
	if cfg.Session.DefaultWidth != 100 {
		t.Errorf("DefaultWidth = %d, want 100", cfg.Session.DefaultWidth)
	}
	if cfg.Session.DefaultHeight != 24 {
		t.Errorf("DefaultHeight = %d, want unchanged default 24", cfg.Session.DefaultHeight)
	}
}
