package notify

import (
	"context"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/seenimoa/stockalert/internal/logger"
)

// MessageCreator is the part of the Twilio REST API used to send a message.
// *twilioApi.ApiService satisfies it.
type MessageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// SendReport counts the outcome of SendAll.
type SendReport struct {
	Sent    int
	Failed  int
	Skipped int // not attempted because the context was cancelled
}

// SMS sends each message from a fixed number to a fixed recipient.
type SMS struct {
	api    MessageCreator
	from   string
	to     string
	dryRun bool
	log    *logger.Entry
}

// NewTwilioSMS creates a sender backed by the Twilio REST client.
func NewTwilioSMS(accountSID, authToken, from, to string) *SMS {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return NewSMS(client.Api, from, to)
}

// NewSMS creates a sender over any MessageCreator.
func NewSMS(api MessageCreator, from, to string) *SMS {
	return &SMS{
		api:  api,
		from: from,
		to:   to,
		log:  logger.For("notify").WithField("to", to),
	}
}

// DryRun makes SendAll log messages instead of sending them.
func (s *SMS) DryRun(enabled bool) *SMS {
	s.dryRun = enabled
	return s
}

// SendAll sends every message in order. A failed send is logged and counted;
// it does not stop the remaining sends.
func (s *SMS) SendAll(ctx context.Context, messages []string) SendReport {
	var report SendReport
	for i, body := range messages {
		if err := ctx.Err(); err != nil {
			report.Skipped = len(messages) - i
			s.log.Warnf("send cancelled, %d message(s) not sent: %v", report.Skipped, err)
			break
		}

		log := s.log.WithField("index", i)
		if s.dryRun {
			log.WithField("body", body).Info("dry run: message not sent")
			report.Sent++
			continue
		}

		params := &twilioApi.CreateMessageParams{}
		params.SetFrom(s.from)
		params.SetTo(s.to)
		params.SetBody(body)

		msg, err := s.api.CreateMessage(params)
		if err != nil {
			log.Errorf("Error sending SMS: %v", err)
			report.Failed++
			continue
		}

		if msg != nil && msg.Sid != nil {
			log = log.WithField("sid", *msg.Sid)
		}
		log.Info("SMS sent")
		report.Sent++
	}
	return report
}
