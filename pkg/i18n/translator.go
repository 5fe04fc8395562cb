package i18n

// Translator is an I18n fixed to one language and namespace, as stored in
// the request context by the I18n middleware.
type Translator struct {
	svc       *I18n
	language  string
	namespace string
}

// NewTranslator binds svc to language, or to its default when language is
// empty. It panics on a nil svc.
func NewTranslator(svc *I18n, language, namespace string) *Translator {
	if svc == nil {
		panic("i18n: nil service")
	}
	if language == "" {
		language = svc.DefaultLanguage()
	}
	return &Translator{svc: svc, language: language, namespace: namespace}
}

func (t *Translator) T(key string, placeholders ...M) string {
	return t.svc.T(t.language, t.namespace, key, placeholders...)
}

// TranslateMessage fits validator.ValidationErrors.Translate.
func (t *Translator) TranslateMessage(key string, values map[string]any) string {
	return t.svc.T(t.language, t.namespace, key, values)
}

func (t *Translator) Language() string  { return t.language }
func (t *Translator) Namespace() string { return t.namespace }
