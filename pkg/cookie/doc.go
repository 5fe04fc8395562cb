// Package cookie reads and writes HTTP cookies with shared attributes.
//
// A [Manager] built with [WithSecret] (32 bytes or more) can also write
// HMAC-signed cookies and one-shot flash values sealed with AES-GCM:
//
//	m := cookie.New(cookie.WithSecret(cfg.SecretKey), cookie.WithSecure(true))
//	_ = m.SetSigned(w, "csrf_token", token, 0)
//	token, err := m.GetSigned(r, "csrf_token")
//
//	_ = m.SetFlash(w, "notice", Notice{Key: "flash.sent"})
//	var n Notice
//	err = m.Flash(w, r, "notice", &n) // cookie is cleared
//
// Without a secret the signed and flash methods return [ErrNoSecret].
package cookie
