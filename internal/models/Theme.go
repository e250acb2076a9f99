package models

type ThemeFont struct {
	Family string `json:"family"`
	Size   int    `json:"size"`
}

type Theme struct {
	Font   ThemeFont         `json:"font"`
	Colors map[string]string `json:"colors"`
}

func DefaultTheme() Theme {
	return Theme{
		Font: ThemeFont{Family: "Tahoma", Size: 12},
		Colors: map[string]string{
			"background": "#ffffff",
			"text":       "#2c3e50",
			"highlight":  "#007bff",
		},
	}
}

// ApplyDefaults fills every zero field from DefaultTheme.
func (t *Theme) ApplyDefaults() {
	def := DefaultTheme()
	if t.Font.Family == "" {
		t.Font.Family = def.Font.Family
	}
	if t.Font.Size <= 0 {
		t.Font.Size = def.Font.Size
	}
	if len(t.Colors) == 0 {
		t.Colors = def.Colors
	}
}
