package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed locales
var LocalesFS embed.FS

// Translator resolves message keys for one language. API error responses
// carry these strings so front-desk tablets can show them directly.
type Translator struct {
	translations map[string]string
}

// NewTranslator loads locales/<langCode>.yaml from any fs.FS, which keeps
// tests free of real files.
func NewTranslator(fsys fs.FS, langCode string) (*Translator, error) {
	filePath := filepath.Join("locales", fmt.Sprintf("%s.yaml", langCode))

	data, err := fs.ReadFile(fsys, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read translation file %s: %w", filePath, err)
	}

	var translations map[string]string
	if err := yaml.Unmarshal(data, &translations); err != nil {
		return nil, fmt.Errorf("failed to parse translation file: %w", err)
	}

	return &Translator{translations: translations}, nil
}

// Bundle holds one Translator per supported language and resolves the
// request's Accept-Language header to a catalog.
type Bundle struct {
	def         string
	translators map[string]*Translator
}

func NewBundle(fsys fs.FS, defaultLang string, langs ...string) (*Bundle, error) {
	b := &Bundle{def: defaultLang, translators: map[string]*Translator{}}
	for _, lang := range append([]string{defaultLang}, langs...) {
		if _, ok := b.translators[lang]; ok {
			continue
		}
		tr, err := NewTranslator(fsys, lang)
		if err != nil {
			return nil, err
		}
		b.translators[lang] = tr
	}
	return b, nil
}

// Pick returns the catalog for the first recognized tag in an
// Accept-Language header, falling back to the default language. Quality
// weights are ignored; tags are taken in written order and reduced to
// their primary subtag ("ar-SA" matches "ar").
func (b *Bundle) Pick(acceptLanguage string) *Translator {
	for _, part := range strings.Split(acceptLanguage, ",") {
		tag := strings.TrimSpace(part)
		if i := strings.IndexByte(tag, ';'); i >= 0 {
			tag = tag[:i]
		}
		if i := strings.IndexByte(tag, '-'); i >= 0 {
			tag = tag[:i]
		}
		if tr, ok := b.translators[strings.ToLower(strings.TrimSpace(tag))]; ok {
			return tr
		}
	}
	return b.translators[b.def]
}

// T returns the message for key, formatted with args. Unknown keys come
// back verbatim so a missing translation never hides the error code.
func (t *Translator) T(key string, args ...interface{}) string {
	format, ok := t.translations[key]
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(format, args...)
	}
	return format
}
