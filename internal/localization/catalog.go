// Package localization translates classifier labels and remedy advice into
// the languages supported by the mobile app.
package localization

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"arogyakrishi/internal/model"
)

// DefaultLanguage is used for blank language codes and as the fallback for
// missing translations.
const DefaultLanguage = "en"

// SupportedLanguages lists the accepted language codes.
var SupportedLanguages = []string{"en", "hi", "te", "kn", "ml"}

//go:embed data/catalog.yaml
var catalogYAML []byte

type diseaseEntry struct {
	Names      map[string]string   `yaml:"names"`
	Treatments []string            `yaml:"treatments"`
	Remedies   map[string][]string `yaml:"remedies"`
}

type feedbackTemplates struct {
	WillCure    string `yaml:"will_cure"`
	WillNotCure string `yaml:"will_not_cure"`
	NoItem      string `yaml:"no_item"`
	Healthy     string `yaml:"healthy"`
}

type catalogFile struct {
	Languages       []string                     `yaml:"languages"`
	Crops           map[string]map[string]string `yaml:"crops"`
	Diseases        map[string]diseaseEntry      `yaml:"diseases"`
	GenericRemedies map[string][]string          `yaml:"generic_remedies"`
	Feedback        map[string]feedbackTemplates `yaml:"feedback"`
}

// Catalog is an immutable, concurrency-safe translation table.
type Catalog struct {
	file    catalogFile
	aliases map[string]string // folded localized or English name -> canonical label
}

// Load parses the catalog compiled into the binary.
func Load() (*Catalog, error) {
	return Parse(catalogYAML)
}

// MustLoad is Load for package-level initialization and tests.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse builds a Catalog from YAML.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(f.Diseases) == 0 {
		return nil, fmt.Errorf("parse catalog: no diseases defined")
	}

	c := &Catalog{file: f, aliases: make(map[string]string)}
	for label, entry := range f.Diseases {
		c.aliases[fold(label)] = label
		for _, name := range entry.Names {
			c.aliases[fold(name)] = label
		}
	}
	return c, nil
}

// ValidateLanguage normalizes a language code and rejects unsupported ones.
// A blank code means DefaultLanguage.
func ValidateLanguage(lang string) (string, error) {
	code := strings.ToLower(strings.TrimSpace(lang))
	if code == "" {
		return DefaultLanguage, nil
	}
	for _, s := range SupportedLanguages {
		if code == s {
			return code, nil
		}
	}
	return "", fmt.Errorf("%w: %q (supported: %s)", model.ErrUnsupportedLanguage, lang, strings.Join(SupportedLanguages, ", "))
}

// CropName translates a canonical crop label. Unknown labels are returned
// unchanged.
func (c *Catalog) CropName(label, lang string) string {
	return pick(c.file.Crops[label], lang, label)
}

// DiseaseName translates a canonical disease label. Unknown labels are
// returned unchanged.
func (c *Catalog) DiseaseName(label, lang string) string {
	entry, ok := c.file.Diseases[label]
	if !ok {
		return label
	}
	return pick(entry.Names, lang, label)
}

// NormalizeDisease maps a disease name in any supported language, in any
// letter case, to its canonical label. Unknown names are returned trimmed.
func (c *Catalog) NormalizeDisease(name string) string {
	if label, ok := c.aliases[fold(name)]; ok {
		return label
	}
	return strings.TrimSpace(name)
}

// Remedies returns remedy advice for a canonical disease label, falling back
// to English and then to generic advice.
func (c *Catalog) Remedies(label, lang string) []string {
	if entry, ok := c.file.Diseases[label]; ok {
		if r := pickList(entry.Remedies, lang); len(r) > 0 {
			return r
		}
	}
	return pickList(c.file.GenericRemedies, lang)
}

// IsHealthy reports whether label denotes a disease-free prediction.
func (c *Catalog) IsHealthy(label string) bool {
	return strings.EqualFold(label, "Healthy")
}

func pick(names map[string]string, lang, fallback string) string {
	if v := names[lang]; v != "" {
		return v
	}
	if v := names[DefaultLanguage]; v != "" {
		return v
	}
	return fallback
}

func pickList(lists map[string][]string, lang string) []string {
	if v := lists[lang]; len(v) > 0 {
		return append([]string(nil), v...)
	}
	return append([]string(nil), lists[DefaultLanguage]...)
}

func fold(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
