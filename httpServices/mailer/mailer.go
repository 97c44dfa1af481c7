package mailer

import (
	"fmt"
	"strings"
	"time"

	"github.com/wneessen/go-mail"

	"event-guard/config"
	otpModel "event-guard/models/otp"
)

// SMTPMailer delivers OTP emails over SMTP.
type SMTPMailer struct {
	cfg    config.SMTPConfig
	expiry time.Duration
}

// New builds the SMTP dispatcher. Host and From are validated again here so
// the mailer can be constructed independently of config.Load.
func New(cfg *config.Config) (*SMTPMailer, error) {
	if cfg.SMTP.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if cfg.SMTP.From == "" {
		return nil, fmt.Errorf("SMTP from address is required")
	}

	return &SMTPMailer{cfg: cfg.SMTP, expiry: cfg.OTPExpiry}, nil
}

// SendOTP emails the plaintext code to the recipient. The plaintext never
// touches storage; this is its only path out of the process.
func (m *SMTPMailer) SendOTP(to, code string, purpose otpModel.Purpose) error {
	subject := fmt.Sprintf("[%s] Your %s OTP", m.cfg.FromName, purposeLabel(purpose))
	body := fmt.Sprintf("Your OTP is: %s\nIt expires in %d minutes.\n\nIf you did not request this, you can ignore the email.",
		code, int(m.expiry.Minutes()))

	msg := mail.NewMsg()
	if m.cfg.FromName != "" {
		if err := msg.FromFormat(m.cfg.FromName, m.cfg.From); err != nil {
			return fmt.Errorf("setting from address: %w", err)
		}
	} else {
		if err := msg.From(m.cfg.From); err != nil {
			return fmt.Errorf("setting from address: %w", err)
		}
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("setting to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
	}
	if m.cfg.Port == 465 {
		opts = append(opts, mail.WithSSL())
	}
	if m.cfg.Username != "" && m.cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("creating mail client: %w", err)
	}

	if err := client.DialAndSend(msg); err != nil {
		return fmt.Errorf("sending mail: %w", err)
	}
	return nil
}

func purposeLabel(purpose otpModel.Purpose) string {
	if purpose == otpModel.PurposeReset {
		return "password reset"
	}
	return strings.ToLower(string(purpose))
}
