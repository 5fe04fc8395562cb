// Package health runs dependency checks for readiness endpoints.
//
//	checker := health.New(health.Checks{"redis": redis.Healthcheck(client)},
//	    health.WithTimeout(3*time.Second), health.WithLogger(log))
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(checker))
//
// Responses are "OK" or "Service Unavailable" in plain text, or a JSON
// [Report] when the client asks for application/json or ?format=json.
package health
