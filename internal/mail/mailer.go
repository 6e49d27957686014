package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/url"

	"gopkg.in/gomail.v2"

	"sownmark/internal/config"
)

type Mailer interface {
	SendApplicationConfirmation(ctx context.Context, to, name, referralCode string) error
	SendSubscriptionWelcome(ctx context.Context, to string) error
	SendUnsubscriptionConfirmation(ctx context.Context, to string) error
}

// sender is satisfied by *gomail.Dialer.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

var templates = template.Must(template.New("mail").Parse(`
{{define "application"}}
<h2>Thank You for Your Application!</h2>
<p>Hello {{.Name}},</p>
<p>Your application for the digital marketing course has been received!</p>
<p>Your unique referral code is: <strong>{{.ReferralCode}}</strong></p>
<p>Share this code with friends to refer them.</p>
<p>Best regards,<br>Sownmark Team</p>
{{end}}
{{define "subscribed"}}
<h2>Thank You for Subscribing!</h2>
<p>You've successfully subscribed to the Sownmark Newsletter. Get ready for the latest insights delivered to your inbox!</p>
<p>If you wish to unsubscribe, click <a href="{{.UnsubscribeURL}}">here</a>.</p>
<p>Best regards,<br>Sownmark Team</p>
{{end}}
{{define "unsubscribed"}}
<h2>Unsubscription Confirmed</h2>
<p>You've successfully unsubscribed from the Sownmark Newsletter. We're sorry to see you go!</p>
<p>If this was a mistake, you can <a href="{{.ResubscribeURL}}">re-subscribe here</a>.</p>
<p>Best regards,<br>Sownmark Team</p>
{{end}}
`))

type templateData struct {
	Name           string
	ReferralCode   string
	UnsubscribeURL string
	ResubscribeURL string
}

type SMTPMailer struct {
	sender sender
	cfg    config.SMTP
}

func NewSMTPMailer(cfg config.SMTP) *SMTPMailer {
	return &SMTPMailer{
		sender: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		cfg:    cfg,
	}
}

func (m *SMTPMailer) SendApplicationConfirmation(ctx context.Context, to, name, referralCode string) error {
	return m.send(ctx, m.cfg.FromTeam, to, "Application Confirmation", "application", templateData{
		Name:         name,
		ReferralCode: referralCode,
	})
}

func (m *SMTPMailer) SendSubscriptionWelcome(ctx context.Context, to string) error {
	return m.send(ctx, m.cfg.FromNewsletter, to, "Welcome to Sownmark Newsletter!", "subscribed", templateData{
		UnsubscribeURL: m.cfg.FrontendURL + "/unsubscribe?email=" + url.QueryEscape(to),
	})
}

func (m *SMTPMailer) SendUnsubscriptionConfirmation(ctx context.Context, to string) error {
	return m.send(ctx, m.cfg.FromNewsletter, to, "You've Unsubscribed from Sownmark Newsletter", "unsubscribed", templateData{
		ResubscribeURL: m.cfg.FrontendURL + "/newsletter",
	})
}

func (m *SMTPMailer) send(ctx context.Context, from, to, subject, tmpl string, data templateData) error {
	// gomail has no context support, so only an already expired context is honoured
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := render(tmpl, data)
	if err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	if err := m.sender.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send %s email to %s: %w", tmpl, to, err)
	}
	return nil
}

func render(tmpl string, data templateData) (string, error) {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, tmpl, data); err != nil {
		return "", fmt.Errorf("failed to render %s email: %w", tmpl, err)
	}
	return body.String(), nil
}
