package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"
	"strconv"
	"time"

	"github.com/nicholas-fedor/shoutrrr"
	stypes "github.com/nicholas-fedor/shoutrrr/pkg/types"

	dom "datapulse/internal/services/notify/domain"
)

// SMTPConfig configures the shoutrrr smtp transport
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Pass     string
	From     string
	FromName string
	HTML     bool
	Timeout  time.Duration
}

// Configured reports whether enough is set to send real mail
func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.User != "" && c.Pass != ""
}

// SMTPMailer sends through shoutrrr, one sender per recipient
type SMTPMailer struct {
	cfg SMTPConfig
}

// NewSMTPMailer constructs the mailer
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &SMTPMailer{cfg: cfg}
}

// URL renders the shoutrrr service url for one message
func (s *SMTPMailer) URL(m dom.Message) string {
	q := url.Values{}
	q.Set("fromaddress", s.cfg.From)
	if s.cfg.FromName != "" {
		q.Set("fromname", s.cfg.FromName)
	}
	q.Set("toaddresses", m.To)
	q.Set("subject", m.Subject)
	if s.cfg.HTML {
		q.Set("usehtml", "yes")
	}
	u := url.URL{
		Scheme:   "smtp",
		User:     url.UserPassword(s.cfg.User, s.cfg.Pass),
		Host:     s.cfg.Host + ":" + strconv.Itoa(s.cfg.Port),
		Path:     "/",
		RawQuery: q.Encode(),
	}
	return u.String()
}

// Send delivers m; the sender enforces its own timeout
func (s *SMTPMailer) Send(_ context.Context, m dom.Message) error {
	sender, err := shoutrrr.CreateSender(s.URL(m))
	if err != nil {
		// the url carries credentials, keep it out of the error
		return errors.New("smtp: invalid transport configuration")
	}
	sender.Timeout = s.cfg.Timeout
	sender.SetLogger(log.New(io.Discard, "", 0))

	body := m.Text
	if s.cfg.HTML {
		body = m.HTML
	}
	for _, e := range sender.Send(body, &stypes.Params{}) {
		if e != nil {
			return fmt.Errorf("smtp: send to %s: %w", m.To, e)
		}
	}
	return nil
}
