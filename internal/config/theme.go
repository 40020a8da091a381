package config

// Theme defines the colors used for human-readable CLI output
type Theme struct {
	// Preset name ("default" or "monochrome")
	Preset string `yaml:"preset"`

	Accent  string `yaml:"accent"`
	Title   string `yaml:"title"`
	Subtle  string `yaml:"subtle"`
	Success string `yaml:"success"`
	Warning string `yaml:"warning"`
	Error   string `yaml:"error"`
}

// DefaultTheme returns the default color scheme (purple theme)
func DefaultTheme() Theme {
	return Theme{
		Preset:  "default",
		Accent:  "#874BFD",
		Title:   "#D75FD7",
		Subtle:  "#585858",
		Success: "#5FD75F",
		Warning: "#FFD700",
		Error:   "#FF0000",
	}
}

// MonochromeTheme returns a black and white color scheme
func MonochromeTheme() Theme {
	return Theme{
		Preset:  "monochrome",
		Accent:  "#FFFFFF",
		Title:   "#FFFFFF",
		Subtle:  "#808080",
		Success: "#FFFFFF",
		Warning: "#C0C0C0",
		Error:   "#FFFFFF",
	}
}

// presetTheme returns a preset theme by name
func presetTheme(name string) Theme {
	switch name {
	case "monochrome":
		return MonochromeTheme()
	default:
		return DefaultTheme()
	}
}

// ApplyDefaults fills in missing color values using the preset as base
func (t *Theme) ApplyDefaults() {
	preset := presetTheme(t.Preset)

	if t.Preset == "" {
		t.Preset = preset.Preset
	}
	if t.Accent == "" {
		t.Accent = preset.Accent
	}
	if t.Title == "" {
		t.Title = preset.Title
	}
	if t.Subtle == "" {
		t.Subtle = preset.Subtle
	}
	if t.Success == "" {
		t.Success = preset.Success
	}
	if t.Warning == "" {
		t.Warning = preset.Warning
	}
	if t.Error == "" {
		t.Error = preset.Error
	}
}
