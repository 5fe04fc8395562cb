// Package mailer renders markdown email templates and hands the result to a
// pluggable transport.
//
// A [Renderer] reads templates with YAML front matter from an fs.FS:
//
//	---
//	Subject: New message from {{.Name}}
//	---
//	**Name:** {{md .Name}}
//
// The body is executed twice. The text part keeps values as they are; the
// HTML part escapes them with [EscapeMarkdown] before goldmark converts the
// markdown and the result is wrapped in a layout from the layouts directory.
// Parsed templates are cached through pkg/cache.
//
// A [Mailer] resolves subject and sender defaults from [Config] and calls a
// [Sender] once per message:
//
//	sender, err := smtp.New(cfg.SMTP)
//	m := mailer.New(sender, mailer.NewRenderer(emails.FS), cfg.Mail)
//	err = m.Send(ctx, mailer.SendParams{
//		To:       cfg.Recipients,
//		ReplyTo:  submission.Email,
//		Template: "submission.md",
//		Data:     submission,
//	})
//
// Transports live in subpackages: smtp (go-mail), resend and ses. A
// [LogSender] is available for development.
package mailer
