package dispatch

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/jwalitptl/notification-api/internal/model"
)

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	From       string
}

// SMSDispatcher delivers sms-channel results through Twilio.
type SMSDispatcher struct {
	client *twilio.RestClient
	from   string
}

func NewSMSDispatcher(cfg TwilioConfig) *SMSDispatcher {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &SMSDispatcher{client: client, from: cfg.From}
}

func (d *SMSDispatcher) Dispatch(_ context.Context, result *model.RenderResult, recipient model.Recipient) error {
	if recipient.Phone == "" {
		return fmt.Errorf("sms dispatch requires a recipient phone number")
	}

	params := &twilioapi.CreateMessageParams{}
	params.SetTo(recipient.Phone)
	params.SetFrom(d.from)
	params.SetBody(result.Body)

	if _, err := d.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("failed to send sms: %w", err)
	}
	return nil
}
