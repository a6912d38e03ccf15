package channels

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/gomailer"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/models"
)

const EmailChannelName = "email"

type EmailChannel struct {
	mailer    gomailer.Mailer
	directory Directory
	from      string
	log       *zap.Logger
}

func NewEmailChannel(mailer gomailer.Mailer, directory Directory, from string, log *zap.Logger) *EmailChannel {
	return &EmailChannel{
		mailer:    mailer,
		directory: directory,
		from:      from,
		log:       log,
	}
}

func (c *EmailChannel) Name() string { return EmailChannelName }

func (c *EmailChannel) CanHandle(n *models.Notification) bool {
	return n.Channels.Contains(EmailChannelName)
}

func (c *EmailChannel) Send(ctx context.Context, n *models.Notification) DeliveryOutcome {
	recipient, err := c.directory.FindByID(ctx, n.RecipientID)
	if err != nil {
		c.log.Warn("recipient lookup failed",
			zap.String("recipient_id", n.RecipientID),
			zap.String("correlation_id", n.CorrelationID.String()),
			zap.Error(err),
		)
		return Failed(err, map[string]interface{}{"reason": "recipient lookup failed"})
	}
	if recipient.Email == "" {
		c.log.Warn("recipient has no email address",
			zap.String("recipient_id", n.RecipientID),
			zap.String("correlation_id", n.CorrelationID.String()),
		)
		return Failed(errors.New("recipient has no email address"),
			map[string]interface{}{"reason": "missing email"})
	}

	email := gomailer.NewEmail(c.from, []string{recipient.Email},
		gomailer.WithSubject(subjectFor(n)),
		gomailer.WithHTML(n.Content),
	)
	if err := c.mailer.Send(email); err != nil {
		return Failed(err, nil)
	}
	return Delivered("", map[string]interface{}{"to": recipient.Email})
}

func subjectFor(n *models.Notification) string {
	if n.Metadata != nil {
		if subject, ok := n.Metadata["subject"].(string); ok && subject != "" {
			return subject
		}
	}
	return fmt.Sprintf("Notification: %s", n.Type)
}
