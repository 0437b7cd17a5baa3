package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

type Config struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	FromName string `mapstructure:"from_name"`
}

type Message struct {
	To      []string
	Subject string
	Body    string
	HTML    bool
}

type Mailer interface {
	Send(ctx context.Context, message Message) error
}

type smtpMailer struct {
	client *mail.Client
	cfg    Config
}

func NewMailer(cfg Config) (Mailer, error) {
	if !cfg.Enabled {
		return noopMailer{}, nil
	}

	port := cfg.Port
	if port == 0 {
		port = 587
	}

	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password))
	if err != nil {
		return nil, fmt.Errorf("could not initialize smtp client: %w", err)
	}

	return &smtpMailer{client: client, cfg: cfg}, nil
}

func (m *smtpMailer) Send(ctx context.Context, message Message) error {
	msg, err := BuildMsg(m.cfg, message)
	if err != nil {
		return err
	}

	return m.client.DialAndSendWithContext(ctx, msg)
}

func BuildMsg(cfg Config, message Message) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.FromFormat(cfg.FromName, cfg.From); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}

	if err := msg.To(message.To...); err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}

	msg.Subject(message.Subject)
	if message.HTML {
		msg.SetBodyString(mail.TypeTextHTML, message.Body)
	} else {
		msg.SetBodyString(mail.TypeTextPlain, message.Body)
	}

	return msg, nil
}

type noopMailer struct{}

func (noopMailer) Send(context.Context, Message) error { return nil }
