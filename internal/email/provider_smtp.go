package email

import (
	"bytes"
	"context"

	"github.com/cenkalti/backoff/v4"
	"github.com/wneessen/go-mail"

	"github.com/example/notification-gateway/internal/common"
	"github.com/example/notification-gateway/internal/notification"
)

type SMTPProvider struct {
	Config common.SMTPConfig
}

func (p *SMTPProvider) Name() string { return "smtp" }

func (p *SMTPProvider) Send(ctx context.Context, item notification.Item) notification.Outcome {
	em, ok := item.(*notification.EmailItem)
	if !ok {
		return notification.Failed("smtp adapter received a non-email item")
	}

	attachments, err := decodeAttachments(em.Attachments)
	if err != nil {
		return notification.Failed(err.Error())
	}

	msg, err := p.buildMessage(em, attachments)
	if err != nil {
		return notification.Failed(err.Error())
	}

	err = notification.SendWithRetry(ctx, func(attemptCtx context.Context) error {
		client, err := mail.NewClient(p.Config.Host,
			mail.WithPort(p.Config.Port),
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(p.Config.Username),
			mail.WithPassword(p.Config.Password),
			mail.WithTLSPolicy(tlsPolicy(p.Config.Encryption)),
		)
		if err != nil {
			return backoff.Permanent(err)
		}
		return client.DialAndSendWithContext(attemptCtx, msg)
	})
	if err != nil {
		return notification.Failed("smtp send failed: " + err.Error())
	}
	return notification.Sent("Email sent successfully via SMTP", nil)
}

func (p *SMTPProvider) buildMessage(em *notification.EmailItem, attachments []decodedAttachment) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(p.Config.From); err != nil {
		return nil, err
	}
	if err := msg.To(em.To...); err != nil {
		return nil, err
	}
	if len(em.CC) > 0 {
		if err := msg.Cc(em.CC...); err != nil {
			return nil, err
		}
	}
	if len(em.BCC) > 0 {
		if err := msg.Bcc(em.BCC...); err != nil {
			return nil, err
		}
	}
	msg.Subject(em.Subject)
	msg.SetBodyString(mail.TypeTextHTML, em.Message)

	for _, att := range attachments {
		if err := msg.AttachReader(att.FileName, bytes.NewReader(att.Content),
			mail.WithFileContentType(mail.ContentType(att.ContentType))); err != nil {
			return nil, err
		}
	}
	return msg, nil
}

func tlsPolicy(encryption string) mail.TLSPolicy {
	switch encryption {
	case "ssl_tls":
		return mail.TLSMandatory
	case "none":
		return mail.NoTLS
	default:
		return mail.TLSOpportunistic
	}
}
