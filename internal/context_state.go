package internal

import "github.com/dmitrymomot/contactsite/pkg/i18n"

func (c *requestContext) Cookie(name string) (string, error) {
	return c.app.cookieManager.Get(c.r, name)
}

func (c *requestContext) SetCookie(name, value string, maxAge int) {
	c.app.cookieManager.Set(c.w, name, value, maxAge)
}

func (c *requestContext) DeleteCookie(name string) {
	c.app.cookieManager.Delete(c.w, name)
}

func (c *requestContext) CookieSigned(name string) (string, error) {
	return c.app.cookieManager.GetSigned(c.r, name)
}

func (c *requestContext) SetCookieSigned(name, value string, maxAge int) error {
	return c.app.cookieManager.SetSigned(c.w, name, value, maxAge)
}

func (c *requestContext) Flash(key string, dest any) error {
	return c.app.cookieManager.Flash(c.w, c.r, key, dest)
}

func (c *requestContext) SetFlash(key string, value any) error {
	return c.app.cookieManager.SetFlash(c.w, key, value)
}

func (c *requestContext) T(key string, placeholders ...i18n.M) string {
	if tr := ContextValue[*i18n.Translator](c, TranslatorKey{}); tr != nil {
		return tr.T(key, placeholders...)
	}
	return key
}

func (c *requestContext) TranslateErrors(errs ValidationErrors) ValidationErrors {
	if tr := ContextValue[*i18n.Translator](c, TranslatorKey{}); tr != nil {
		errs.Translate(tr.TranslateMessage)
	}
	return errs
}

func (c *requestContext) Language() string {
	if tr := ContextValue[*i18n.Translator](c, TranslatorKey{}); tr != nil {
		return tr.Language()
	}
	return ""
}
