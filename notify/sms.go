package notify

import (
	"fmt"

	"github.com/twilio/twilio-go"
	v2010 "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"

	"github.com/safereport/safereport-api/config"
)

// SMSSender delivers text messages. Implemented by the Twilio client below
// and mocked in tests.
type SMSSender interface {
	Send(to, body string) error
}

// TwilioSender sends SMS through the Twilio messaging API
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

// NewTwilioSender builds a sender from the configured Twilio credentials
func NewTwilioSender(conf *config.Config) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: conf.TwilioAccountSID,
		Password: conf.TwilioAuthToken,
	})
	return &TwilioSender{client: client, from: conf.TwilioFromNumber}
}

// Send delivers one SMS. Bodies over 1600 chars are rejected by Twilio, so
// long messages get truncated here first.
func (t *TwilioSender) Send(to, body string) error {
	if len(body) > 1600 {
		body = body[:1600]
	}

	params := &v2010.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.from)
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send SMS to %s: %w", to, err)
	}

	if resp.Sid != nil {
		zap.S().Infow("SMS sent", "to", to, "sid", *resp.Sid)
	}
	return nil
}
