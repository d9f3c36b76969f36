package forecast

// Palette is the color scheme for a forecast card.
type Palette struct {
	Background string
	Card       string
	CardBorder string
	Text       string
	TextMuted  string
	// Accent marks the high temperature, AccentAlt the low.
	Accent    string
	AccentAlt string
}

// DefaultPalette is the fallback dark theme.
var DefaultPalette = Palette{
	Background: "#0f0f1a",
	Card:       "#1a1a2e",
	CardBorder: "#2a2a4e",
	Text:       "#eeeeee",
	TextMuted:  "#666666",
	Accent:     "#ff7043",
	AccentAlt:  "#4fc3f7",
}

var palettes = map[ConditionGroup]Palette{
	GroupClear: {
		Background: "#f5f0e8", // warm cream
		Card:       "#ffffff",
		CardBorder: "#e0d8c8",
		Text:       "#2a2520",
		TextMuted:  "#706050",
		Accent:     "#d07020",
		AccentAlt:  "#3a78b0",
	},
	GroupCloudy: {
		Background: "#e4e7eb",
		Card:       "#f4f5f7",
		CardBorder: "#cdd2d8",
		Text:       "#23272e",
		TextMuted:  "#6a717b",
		Accent:     "#c0602a",
		AccentAlt:  "#4a6f92",
	},
	GroupDrizzle: {
		Background: "#d9e2ea",
		Card:       "#eef3f7",
		CardBorder: "#b9c8d4",
		Text:       "#1f2a33",
		TextMuted:  "#5d6d7a",
		Accent:     "#b8602e",
		AccentAlt:  "#2f6a9a",
	},
	GroupRain: {
		Background: "#1c2530", // slate
		Card:       "#26313e",
		CardBorder: "#35475a",
		Text:       "#e6edf3",
		TextMuted:  "#8a9aab",
		Accent:     "#ff9a66",
		AccentAlt:  "#66b3ff",
	},
	GroupStorm: {
		Background: "#15121f",
		Card:       "#221c33",
		CardBorder: "#3a2f55",
		Text:       "#ece8f5",
		TextMuted:  "#8c84a3",
		Accent:     "#ffb347",
		AccentAlt:  "#9f8cff",
	},
	GroupSnow: {
		Background: "#f2f6fa",
		Card:       "#ffffff",
		CardBorder: "#d6e2ec",
		Text:       "#1d2935",
		TextMuted:  "#6b7c8c",
		Accent:     "#c2553a",
		AccentAlt:  "#3583c8",
	},
	GroupFog: {
		Background: "#cfd2d4",
		Card:       "#e3e5e6",
		CardBorder: "#b5b9bc",
		Text:       "#2b2e30",
		TextMuted:  "#6f7477",
		Accent:     "#a65a34",
		AccentAlt:  "#52708a",
	},
	GroupExtreme: {
		Background: "#2a1010",
		Card:       "#3a1818",
		CardBorder: "#5c2626",
		Text:       "#fff0ec",
		TextMuted:  "#b08a84",
		Accent:     "#ff5a36",
		AccentAlt:  "#ffc04d",
	},
}

// PaletteFor returns the palette for a condition code.
func PaletteFor(code int) Palette {
	if p, ok := palettes[Group(code)]; ok {
		return p
	}
	return DefaultPalette
}
