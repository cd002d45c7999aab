package app

// supportedLanguages is the fixed set of UI languages translations exist for.
var supportedLanguages = []string{
	"de", "en", "es", "fi", "fr", "it", "nl", "pt", "ru", "zh",
}

// DefaultLanguage is used when nothing else is configured.
const DefaultLanguage = "en"

// SupportedLanguages returns the selectable UI language codes.
func SupportedLanguages() []string {
	return supportedLanguages
}

// IsSupportedLanguage reports whether a language code can be forced from the
// command line. Unsupported values are a warning, never a fatal error.
func IsSupportedLanguage(code string) bool {
	for _, l := range supportedLanguages {
		if l == code {
			return true
		}
	}
	return false
}
