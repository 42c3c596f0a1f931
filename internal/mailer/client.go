package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"time"
)

// Client delivers login codes by email.
type Client interface {
	SendLoginCode(ctx context.Context, toEmail, code string, ttl time.Duration) error
	IsConfigured() bool
}

type smtpClient struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewClient creates an SMTP mail client. With incomplete credentials the
// client reports unconfigured and callers fall back to the dev echo path.
func NewClient(host string, port int, username, password, from string) Client {
	return &smtpClient{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (c *smtpClient) IsConfigured() bool {
	return c.host != "" && c.username != "" && c.password != ""
}

func (c *smtpClient) SendLoginCode(ctx context.Context, toEmail, code string, ttl time.Duration) error {
	if !c.IsConfigured() {
		return fmt.Errorf("smtp client not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body := fmt.Sprintf("Your Homework Helper login code is: %s\nThis code expires in %d minutes.", code, int(ttl.Minutes()))
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Your login code\r\n\r\n%s\r\n", c.from, toEmail, body)

	addr := fmt.Sprintf("%s:%d", c.host, c.port)
	auth := smtp.PlainAuth("", c.username, c.password, c.host)
	if err := smtp.SendMail(addr, auth, c.from, []string{toEmail}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send login code email: %w", err)
	}
	return nil
}
