package channels

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/gosms"
	"github.com/Burhankhalid/hr-pipeline-notifications/pkg/models"
)

const SMSChannelName = "sms"

type SMSChannel struct {
	sender    gosms.Sender
	directory Directory
	log       *zap.Logger
}

func NewSMSChannel(sender gosms.Sender, directory Directory, log *zap.Logger) *SMSChannel {
	return &SMSChannel{sender: sender, directory: directory, log: log}
}

func (c *SMSChannel) Name() string { return SMSChannelName }

func (c *SMSChannel) CanHandle(n *models.Notification) bool {
	return n.Channels.Contains(SMSChannelName)
}

func (c *SMSChannel) Send(ctx context.Context, n *models.Notification) DeliveryOutcome {
	recipient, err := c.directory.FindByID(ctx, n.RecipientID)
	if err != nil {
		return Failed(err, map[string]interface{}{"reason": "recipient lookup failed"})
	}
	if recipient.Phone == "" {
		return Failed(errors.New("recipient has no phone number"),
			map[string]interface{}{"reason": "missing phone"})
	}

	to, err := gosms.NormalizeSMS(recipient.Phone)
	if err != nil {
		return Failed(err, map[string]interface{}{"reason": "invalid phone number"})
	}

	if err := c.sender.Send(gosms.SMS{To: to, Text: n.Content}); err != nil {
		return Failed(err, nil)
	}
	return Delivered("", map[string]interface{}{"to": to})
}
