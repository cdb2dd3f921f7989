package dispatch

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sns"
	"github.com/function61/gokit/stringutils"
)

// SnsNotifier publishes the routed notification to an SNS topic, so email
// and SMS subscribers can stand in for a chat room.
type SnsNotifier struct {
	topic  string
	snsSvc *sns.SNS
}

func NewSnsNotifier(topic string) (*SnsNotifier, error) {
	awsSession, err := session.NewSession()
	if err != nil {
		return nil, err
	}

	return &SnsNotifier{
		topic:  topic,
		snsSvc: sns.New(awsSession),
	}, nil
}

func (s *SnsNotifier) Notify(ctx context.Context, room string, message string) error {
	messagePerProtocol := struct {
		Default string `json:"default"` // email etc.
		Sms     string `json:"sms"`
	}{
		Default: message,
		Sms:     stringutils.Truncate(message, 160-7), // -7 for "ALERT >" prefix in SMS messages
	}

	messagePerProtocolJson, err := json.Marshal(&messagePerProtocol)
	if err != nil {
		return err
	}

	_, err = s.snsSvc.PublishWithContext(ctx, &sns.PublishInput{
		TopicArn:         aws.String(s.topic),
		Subject:          aws.String(room),
		Message:          aws.String(string(messagePerProtocolJson)),
		MessageStructure: aws.String("json"),
	})
	return err
}
