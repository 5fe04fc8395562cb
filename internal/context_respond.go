package internal

import "github.com/dmitrymomot/contactsite/pkg/htmx"

func (c *requestContext) String(code int, s string) error {
	c.w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.w.WriteHeader(code)
	_, err := c.w.Write([]byte(s))
	return err
}

func (c *requestContext) NoContent(code int) error {
	c.w.WriteHeader(code)
	return nil
}

func (c *requestContext) Redirect(code int, url string) error {
	htmx.RedirectWithStatus(c.w, c.r, url, code)
	return nil
}

func (c *requestContext) Error(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(code, message, opts...)
}

func (c *requestContext) Render(code int, component Component, opts ...htmx.RenderOption) error {
	var swap *htmx.Config
	if len(opts) > 0 && c.IsHTMX() {
		swap = htmx.NewConfig(opts...)
		swap.ApplyHeaders(c.w)
	}

	c.w.Header().Set("Content-Type", "text/html; charset=utf-8")
	c.w.WriteHeader(code)

	ctx := c.r.Context()
	if err := component.Render(ctx, c.w); err != nil {
		return err
	}
	if swap == nil {
		return nil
	}
	for _, oob := range swap.OOBComponents {
		if err := oob.Render(ctx, c.w); err != nil {
			return err
		}
	}
	return nil
}

func (c *requestContext) RenderPartial(code int, fullPage, partial Component, opts ...htmx.RenderOption) error {
	if c.IsHTMX() {
		return c.Render(code, partial, opts...)
	}
	return c.Render(code, fullPage)
}
