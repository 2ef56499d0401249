package channels

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// Locale holds the translated strings for one language
type Locale struct {
	Language       string            `yaml:"language"`
	AlertBanner    string            `yaml:"alert_banner"`
	SubjectPrefix  string            `yaml:"subject_prefix"`
	Greeting       string            `yaml:"greeting"`
	AnimalLabel    string            `yaml:"animal_label"`
	TagLabel       string            `yaml:"tag_label"`
	AdviceLabel    string            `yaml:"advice_label"`
	Footer         string            `yaml:"footer"`
	CategoryLabels map[string]string `yaml:"category_labels"`
	SeverityLabels map[string]string `yaml:"severity_labels"`
}

// CategoryLabel returns the translated label for a category, falling back to
// the raw category name
func (l *Locale) CategoryLabel(category string) string {
	if label, ok := l.CategoryLabels[category]; ok {
		return label
	}
	return category
}

// SeverityLabel returns the translated label for a severity, falling back to
// the raw severity name
func (l *Locale) SeverityLabel(severity string) string {
	if label, ok := l.SeverityLabels[severity]; ok {
		return label
	}
	return severity
}

// Bundle holds every loaded locale and resolves language lookups
type Bundle struct {
	locales     map[string]*Locale
	defaultLang string
}

// LoadBundle parses all embedded locale files. defaultLang is used when a
// caretaker's language has no bundle; English is the final fallback.
func LoadBundle(defaultLang string) (*Bundle, error) {
	entries, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		return nil, fmt.Errorf("failed to read locales: %w", err)
	}

	locales := make(map[string]*Locale, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		data, err := localeFS.ReadFile("locales/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read locale %s: %w", entry.Name(), err)
		}
		var loc Locale
		if err := yaml.Unmarshal(data, &loc); err != nil {
			return nil, fmt.Errorf("failed to parse locale %s: %w", entry.Name(), err)
		}
		if loc.Language == "" {
			return nil, fmt.Errorf("locale %s has no language code", entry.Name())
		}
		locales[loc.Language] = &loc
	}

	if _, ok := locales["en"]; !ok {
		return nil, fmt.Errorf("english locale is required as the final fallback")
	}
	if defaultLang == "" {
		defaultLang = "en"
	}

	return &Bundle{locales: locales, defaultLang: defaultLang}, nil
}

// Locale resolves a language code to a loaded locale.
// Unknown languages fall back to the bundle default, then to English.
func (b *Bundle) Locale(lang string) *Locale {
	if loc, ok := b.locales[lang]; ok {
		return loc
	}
	if loc, ok := b.locales[b.defaultLang]; ok {
		return loc
	}
	return b.locales["en"]
}

// Languages lists the loaded language codes
func (b *Bundle) Languages() []string {
	langs := make([]string, 0, len(b.locales))
	for lang := range b.locales {
		langs = append(langs, lang)
	}
	return langs
}
