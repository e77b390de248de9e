package store

const settingsKey = "coda-dyslexia-settings"

// Settings holds the reading-accessibility preferences. Every field is
// optional in the stored blob; missing or unreadable values fall back to
// the defaults below.
type Settings struct {
	LineSpacing      int    `json:"lineSpacing"`
	LetterSpacing    int    `json:"letterSpacing"`
	WordSpacing      int    `json:"wordSpacing"`
	FontFamily       string `json:"fontFamily"`
	TextSize         int    `json:"textSize"`
	ColorOverlay     string `json:"colorOverlay"`
	ParagraphSpacing int    `json:"paragraphSpacing"`
	ColorTheme       string `json:"colorTheme"`
}

func DefaultSettings() Settings {
	return Settings{
		LineSpacing:      150,
		LetterSpacing:    0,
		WordSpacing:      0,
		FontFamily:       "default",
		TextSize:         100,
		ColorOverlay:     "none",
		ParagraphSpacing: 150,
		ColorTheme:       "cream",
	}
}

// LoadSettings reads the stored settings blob. A miss or a corrupt blob
// yields the defaults.
func LoadSettings(kv *KV) Settings {
	s := DefaultSettings()
	kv.GetJSON(settingsKey, &s)
	return s
}

func SaveSettings(kv *KV, s Settings) {
	kv.SetJSON(settingsKey, s)
}
