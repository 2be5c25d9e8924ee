package config

// Overrides holds CLI flag values that take precedence over the config
// file. A zero value means the flag was not set.
type Overrides struct {
	Width, Height int
	ThemeName     string
	SocketDir     string
	RecordingDir  string
}

// ApplyOverrides merges non-zero Overrides fields into cfg in place.
func ApplyOverrides(o Overrides, cfg *Config) {
	if o.Width > 0 {
		cfg.Session.DefaultWidth = o.Width
	}
	if o.Height > 0 {
		cfg.Session.DefaultHeight = o.Height
	}
	if o.ThemeName != "" {
		cfg.Appearance.Theme = o.ThemeName
	}
	if o.SocketDir != "" {
		cfg.Diagnostics.SocketDir = o.SocketDir
	}
	if o.RecordingDir != "" {
		cfg.Recording.Directory = o.RecordingDir
	}
}
