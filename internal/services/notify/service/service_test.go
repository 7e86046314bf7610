package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"testing"

	kit "datapulse/internal/platform/testkit"
	dom "datapulse/internal/services/notify/domain"
	projects "datapulse/internal/services/projects/domain"
)

type captureMailer struct {
	sent []dom.Message
	err  error
}

func (c *captureMailer) Send(_ context.Context, m dom.Message) error {
	c.sent = append(c.sent, m)
	return c.err
}

var payload = json.RawMessage(`{"name":"<b>Ann</b>","msg":"hi"}`)

func TestComposeSubmission(t *testing.T) {
	m := ComposeSubmission("o@example.com", "Landing", payload)
	if m.Subject != "New Submission: Landing" || m.To != "o@example.com" {
		t.Fatalf("header = %+v", m)
	}
	kit.MustContain(t, m.Text, "new submission for your project: Landing.")
	kit.MustContain(t, m.Text, "{\n  \"name\": \"<b>Ann</b>\",\n  \"msg\": \"hi\"\n}")

	kit.MustContain(t, m.HTML, "<br")
	kit.MustContain(t, m.HTML, "&lt;b&gt;Ann&lt;/b&gt;")
	if strings.Contains(m.HTML, "<b>") || strings.Contains(m.HTML, "\n") {
		t.Fatalf("html not escaped: %s", m.HTML)
	}
}

func TestComposeKeepsInvalidJSONVerbatim(t *testing.T) {
	m := ComposeSubmission("o@example.com", "P", json.RawMessage(`not json`))
	kit.MustContain(t, m.Text, "Data:\nnot json\n")
}

func TestSubmissionReceivedHonorsPreferences(t *testing.T) {
	cm := &captureMailer{}
	s := New(cm, nil)
	ctx := context.Background()

	opted := projects.Owner{Email: "o@example.com", NotifyNewSubmissions: true}
	if err := s.SubmissionReceived(ctx, opted, "P", payload); err != nil {
		t.Fatalf("send: %v", err)
	}
	off := projects.Owner{Email: "o@example.com", NotifyNewSubmissions: false}
	unsub := projects.Owner{Email: "o@example.com", NotifyNewSubmissions: true, UnsubscribeAll: true}
	for _, o := range []projects.Owner{off, unsub} {
		if err := s.SubmissionReceived(ctx, o, "P", payload); err != nil {
			t.Fatalf("opted out send: %v", err)
		}
	}
	if len(cm.sent) != 1 {
		t.Fatalf("sent = %d, want 1", len(cm.sent))
	}
}

func TestSubmissionReceivedReturnsTransportError(t *testing.T) {
	cm := &captureMailer{err: errors.New("421 try later")}
	err := New(cm, nil).SubmissionReceived(context.Background(),
		projects.Owner{Email: "o@example.com", NotifyNewSubmissions: true}, "P", payload)
	if err == nil {
		t.Fatalf("expected transport error")
	}
}

func TestNilMailerLogsOnly(t *testing.T) {
	s := New(nil, nil)
	err := s.SubmissionReceived(context.Background(),
		projects.Owner{Email: "o@example.com", NotifyNewSubmissions: true}, "P", payload)
	if err != nil {
		t.Fatalf("log mailer: %v", err)
	}
}

func TestSMTPURL(t *testing.T) {
	s := NewSMTPMailer(SMTPConfig{Host: "smtp.example.com", User: "u@x", Pass: "p:w", From: "n@datapulse.io", FromName: "DataPulse", HTML: true})
	raw := s.URL(dom.Message{To: "o@example.com", Subject: "New Submission: A&B"})

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if u.Scheme != "smtp" || u.Host != "smtp.example.com:587" {
		t.Fatalf("url = %s", raw)
	}
	if pw, _ := u.User.Password(); u.User.Username() != "u@x" || pw != "p:w" {
		t.Fatalf("userinfo = %v", u.User)
	}
	q := u.Query()
	if q.Get("toaddresses") != "o@example.com" || q.Get("subject") != "New Submission: A&B" || q.Get("usehtml") != "yes" {
		t.Fatalf("query = %v", q)
	}
	if !(SMTPConfig{Host: "h", User: "u", Pass: "p"}).Configured() || (SMTPConfig{Host: "h"}).Configured() {
		t.Fatalf("Configured mismatch")
	}
}
