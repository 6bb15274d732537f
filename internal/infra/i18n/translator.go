package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"telegram-subscription-admin/internal/domain/model"
	"telegram-subscription-admin/internal/domain/ports/adapter"
)

//go:embed locales
var LocalesFS embed.FS

var supportedLocales = []model.Language{model.LangEN, model.LangFA}

// actionKeys are the translation keys whose labels double as menu buttons.
// Inbound button text in any locale resolves back to the canonical action.
var actionKeys = []model.Action{
	model.ActionMenuBackup,
	model.ActionMenuBroadcast,
	model.ActionMenuPlans,
	model.ActionMenuClose,
	model.ActionBackupCreate,
	model.ActionBackupRestore,
	model.ActionAudienceActive,
	model.ActionAudienceExpired,
	model.ActionAudienceTest,
	model.ActionAudienceAll,
	model.ActionPlansList,
	model.ActionPlansAdd,
	model.ActionPlansEdit,
	model.ActionBack,
	model.ActionCancel,
}

var _ adapter.Translator = (*Translator)(nil)

// Translator loads every supported locale and keeps a reverse index from
// button label text to canonical action, so workflow logic never matches
// locale strings itself.
type Translator struct {
	translations map[model.Language]map[string]string
	actions      map[string]model.Action
	fallback     model.Language
}

// NewTranslator reads all locale files from fsys (usually LocalesFS).
func NewTranslator(fsys fs.FS) (*Translator, error) {
	t := &Translator{
		translations: make(map[model.Language]map[string]string),
		actions:      make(map[string]model.Action),
		fallback:     model.LangEN,
	}
	for _, lang := range supportedLocales {
		filePath := path.Join("locales", fmt.Sprintf("%s.yaml", lang))
		data, err := fs.ReadFile(fsys, filePath)
		if err != nil {
			return nil, fmt.Errorf("read translation file %s: %w", filePath, err)
		}
		var translations map[string]string
		if err := yaml.Unmarshal(data, &translations); err != nil {
			return nil, fmt.Errorf("parse translation file %s: %w", filePath, err)
		}
		t.translations[lang] = translations
	}

	for _, lang := range supportedLocales {
		for _, action := range actionKeys {
			label, ok := t.translations[lang][string(action)]
			if !ok {
				return nil, fmt.Errorf("locale %s: missing label for action %q", lang, action)
			}
			t.actions[label] = action
		}
	}
	return t, nil
}

// T translates key in the given language, falling back to English and then
// to the key itself.
func (t *Translator) T(lang model.Language, key string, args ...any) string {
	m, ok := t.translations[lang]
	if !ok {
		m = t.translations[t.fallback]
	}
	format, ok := m[key]
	if !ok {
		format, ok = t.translations[t.fallback][key]
		if !ok {
			return key
		}
	}
	if len(args) > 0 {
		return fmt.Sprintf(format, args...)
	}
	return format
}

// ResolveAction maps label text in any supported locale onto its action.
func (t *Translator) ResolveAction(text string) (model.Action, bool) {
	action, ok := t.actions[strings.TrimSpace(text)]
	return action, ok
}
