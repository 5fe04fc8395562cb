// Package contact implements the contact form submission pipeline:
// validation, abuse checks, notification and duplicate suppression.
package contact

import (
	"time"
)

// Form keys.
const (
	FieldName         = "name"
	FieldEmail        = "email"
	FieldPhone        = "phone"
	FieldAddress      = "address"
	FieldPostalCode   = "postal_code"
	FieldCity         = "city"
	FieldJoin         = "join"
	FieldMessage      = "message"
	FieldAcceptPolicy = "accept_policy"
)

// Join choices after normalization.
const (
	JoinYes = "yes"
	JoinNo  = "no"
)

// Submission is one validated contact request. It is never stored.
type Submission struct {
	SubmittedAt    time.Time
	Name           string
	Email          string
	Phone          string
	Address        string
	PostalCode     string
	City           string
	Join           string
	Message        string
	CaptchaToken   string
	Reference      string
	RemoteIP       string
	Language       string
	PolicyAccepted bool
}

// Accepted is the policy flag rendered for the email.
func (s Submission) Accepted() string {
	if s.PolicyAccepted {
		return JoinYes
	}
	return JoinNo
}
