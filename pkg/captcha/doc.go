// Package captcha verifies CAPTCHA tokens with reCAPTCHA, hCaptcha and
// Cloudflare Turnstile. All three expose the same siteverify protocol: a
// form POST of secret, response and remoteip answered with a JSON verdict.
//
//	v, err := captcha.New(captcha.ReCAPTCHA, cfg.SecretKey, captcha.WithMinScore(0.5))
//	if err != nil {
//		return err
//	}
//	if _, err := v.Verify(ctx, r.PostFormValue(v.Provider().FormField), ip); err != nil {
//		// rejected
//	}
//
// Transport failures, non-2xx statuses, malformed bodies, negative verdicts
// and low v3 scores are all errors; callers treat any error as a rejection.
package captcha
