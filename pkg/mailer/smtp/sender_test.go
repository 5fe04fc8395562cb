package smtp_test

import (
	"bufio"
	"context"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/contactsite/pkg/mailer"
	"github.com/dmitrymomot/contactsite/pkg/mailer/smtp"
)

// fakeRelay is a minimal plaintext SMTP server that records envelopes.
type fakeRelay struct {
	ln      net.Listener
	mu      sync.Mutex
	rcpts   []string
	data    []string
	rejectR bool
}

func startRelay(t *testing.T, rejectRcpt bool) *fakeRelay {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	r := &fakeRelay{ln: ln, rejectR: rejectRcpt}
	t.Cleanup(func() { _ = ln.Close() })
	go r.serve()
	return r
}

func (r *fakeRelay) port() int {
	return r.ln.Addr().(*net.TCPAddr).Port
}

func (r *fakeRelay) serve() {
	for {
		conn, err := r.ln.Accept()
		if err != nil {
			return
		}
		go r.handle(conn)
	}
}

func (r *fakeRelay) handle(conn net.Conn) {
	defer conn.Close()
	rd := bufio.NewReader(conn)
	reply := func(s string) { _, _ = conn.Write([]byte(s + "\r\n")) }

	reply("220 fake ESMTP")
	for {
		line, err := rd.ReadString('\n')
		if err != nil {
			return
		}
		cmd := strings.ToUpper(strings.TrimSpace(line))
		switch {
		case strings.HasPrefix(cmd, "EHLO"), strings.HasPrefix(cmd, "HELO"):
			reply("250-fake")
			reply("250 8BITMIME")
		case strings.HasPrefix(cmd, "RCPT TO:"):
			if r.rejectR {
				reply("550 mailbox unavailable")
				continue
			}
			r.mu.Lock()
			r.rcpts = append(r.rcpts, strings.TrimSpace(line[len("RCPT TO:"):]))
			r.mu.Unlock()
			reply("250 ok")
		case cmd == "DATA":
			reply("354 go ahead")
			var b strings.Builder
			for {
				l, err := rd.ReadString('\n')
				if err != nil {
					return
				}
				if l == ".\r\n" {
					break
				}
				b.WriteString(l)
			}
			r.mu.Lock()
			r.data = append(r.data, b.String())
			r.mu.Unlock()
			reply("250 queued")
		case cmd == "QUIT":
			reply("221 bye")
			return
		default:
			reply("250 ok")
		}
	}
}

func (r *fakeRelay) snapshot() ([]string, []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.rcpts...), append([]string(nil), r.data...)
}

func newSender(t *testing.T, port int) *smtp.Sender {
	t.Helper()
	s, err := smtp.New(smtp.Config{
		Host:     "127.0.0.1",
		Port:     port,
		Security: smtp.SecurityNone,
		Timeout:  2 * time.Second,
	})
	require.NoError(t, err)
	return s
}

func TestSender_Send(t *testing.T) {
	t.Parallel()

	relay := startRelay(t, false)
	s := newSender(t, relay.port())

	err := s.Send(context.Background(), &mailer.Email{
		From:    `"Website" <noreply@example.com>`,
		To:      []string{"office@example.com"},
		CC:      []string{"board@example.com"},
		BCC:     []string{"archive@example.com"},
		ReplyTo: "ada@example.com",
		Subject: "New message from Ada",
		Text:    "Name: Ada",
		HTML:    "<p>Name: Ada</p>",
	})
	require.NoError(t, err)

	rcpts, data := relay.snapshot()
	require.Len(t, data, 1)
	assert.Len(t, rcpts, 3, "to, cc and bcc are all envelope recipients")

	msg := data[0]
	assert.Contains(t, msg, "Subject: New message from Ada")
	assert.Contains(t, msg, "Reply-To: <ada@example.com>")
	assert.Contains(t, msg, "multipart/alternative")
	assert.Contains(t, msg, "Name: Ada")
	assert.NotContains(t, msg, "archive@example.com", "bcc is not written to headers")
}

func TestSender_Rejected(t *testing.T) {
	t.Parallel()

	relay := startRelay(t, true)
	s := newSender(t, relay.port())

	err := s.Send(context.Background(), &mailer.Email{
		From: "noreply@example.com", To: []string{"office@example.com"}, Subject: "s", Text: "t",
	})
	require.ErrorIs(t, err, smtp.ErrDeliver)
}

func TestSender_ConnectionRefused(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	s := newSender(t, port)
	err = s.Send(context.Background(), &mailer.Email{
		From: "noreply@example.com", To: []string{"office@example.com"}, Subject: "s", Text: "t",
	})
	require.ErrorIs(t, err, smtp.ErrDeliver)
}

func TestSender_BuildErrors(t *testing.T) {
	t.Parallel()

	s := newSender(t, 2525)

	err := s.Send(context.Background(), &mailer.Email{To: []string{"a@example.com"}, Subject: "s", Text: "t"})
	require.ErrorIs(t, err, smtp.ErrBuildMessage)
	require.ErrorIs(t, err, mailer.ErrNoSender)

	err = s.Send(context.Background(), &mailer.Email{From: "noreply@example.com", To: []string{"not an address"}, Subject: "s", Text: "t"})
	require.ErrorIs(t, err, smtp.ErrBuildMessage)
}

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := smtp.New(smtp.Config{})
	require.ErrorIs(t, err, smtp.ErrMissingHost)

	_, err = smtp.New(smtp.Config{Host: "mail.example.com", Security: "tls1.0"})
	require.ErrorIs(t, err, smtp.ErrInvalidSecurity)

	for _, sec := range []smtp.Security{smtp.SecuritySSL, smtp.SecurityStartTLS, smtp.SecurityNone} {
		_, err := smtp.New(smtp.Config{Host: "mail.example.com", Security: sec, Username: "u", Password: "p"})
		assert.NoError(t, err, strconv.Quote(string(sec)))
	}
}

func TestConfig_EffectivePort(t *testing.T) {
	t.Parallel()

	tests := []struct {
		security smtp.Security
		port     int
		want     int
	}{
		{smtp.SecuritySSL, 0, 465},
		{"", 0, 465},
		{smtp.SecurityStartTLS, 0, 587},
		{smtp.SecurityNone, 0, 25},
		{smtp.SecurityStartTLS, 2525, 2525},
	}

	for _, tt := range tests {
		t.Run(string(tt.security)+"/"+strconv.Itoa(tt.port), func(t *testing.T) {
			t.Parallel()
			cfg := smtp.Config{Security: tt.security, Port: tt.port}
			assert.Equal(t, tt.want, cfg.EffectivePort())
		})
	}
}
