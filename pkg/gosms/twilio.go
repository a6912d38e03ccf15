package gosms

import (
	"errors"

	"github.com/twilio/twilio-go"
	api "github.com/twilio/twilio-go/rest/api/v2010"
)

type TwilioSender struct {
	FromNumber string `yaml:"fromNumber"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	Client     *twilio.RestClient
}

func NewTwilioSender(accountSid, authToken, fromNumber string) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSid,
		Password: authToken,
	})
	return &TwilioSender{
		FromNumber: fromNumber,
		Username:   accountSid,
		Password:   authToken,
		Client:     client,
	}
}

func (t *TwilioSender) client() *twilio.RestClient {
	if t.Client == nil {
		t.Client = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: t.Username,
			Password: t.Password,
		})
	}
	return t.Client
}

func (t *TwilioSender) Send(s SMS) error {
	params := &api.CreateMessageParams{}
	params.SetBody(s.Text)
	params.SetFrom(t.FromNumber)
	params.SetTo(s.To)

	resp, err := t.client().Api.CreateMessage(params)
	if err != nil {
		return err
	}
	if resp.Sid == nil {
		return errors.New("twilio accepted the message but returned no sid")
	}
	return nil
}
