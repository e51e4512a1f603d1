package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// SESAPI is the subset of the SES client used for booking emails.
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SNSAPI is the subset of the SNS client used for booking SMS.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Notifier struct {
	ses       SESAPI
	sns       SNSAPI
	fromEmail string
	senderID  string
}

func NewNotifier(sesClient SESAPI, snsClient SNSAPI, fromEmail, senderID string) *Notifier {
	return &Notifier{ses: sesClient, sns: snsClient, fromEmail: fromEmail, senderID: senderID}
}

// NewNotifierFromRegion builds SES and SNS clients from the default credential
// chain. A disabled channel gets no client.
func NewNotifierFromRegion(ctx context.Context, region, fromEmail, senderID string, email, sms bool) (*Notifier, error) {
	n := &Notifier{fromEmail: fromEmail, senderID: senderID}
	if !email && !sms {
		return n, nil
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	if email {
		n.ses = ses.NewFromConfig(cfg)
	}
	if sms {
		n.sns = sns.NewFromConfig(cfg)
	}
	return n, nil
}

func (n *Notifier) EmailEnabled() bool { return n != nil && n.ses != nil && n.fromEmail != "" }
func (n *Notifier) SMSEnabled() bool   { return n != nil && n.sns != nil }

// SendEmail sends a plain text email and returns the SES message ID.
func (n *Notifier) SendEmail(ctx context.Context, to, subject, body string) (string, error) {
	if !n.EmailEnabled() {
		return "", fmt.Errorf("email channel is not configured")
	}
	out, err := n.ses.SendEmail(ctx, &ses.SendEmailInput{
		Source:      aws.String(n.fromEmail),
		Destination: &sestypes.Destination{ToAddresses: []string{to}},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body), Charset: aws.String("UTF-8")},
			},
		},
	})
	if err != nil {
		return "", err
	}
	return aws.ToString(out.MessageId), nil
}

// SendSMS publishes a transactional SMS and returns the SNS message ID.
func (n *Notifier) SendSMS(ctx context.Context, phone, message string) (string, error) {
	if !n.SMSEnabled() {
		return "", fmt.Errorf("sms channel is not configured")
	}
	attrs := map[string]snstypes.MessageAttributeValue{
		"AWS.SNS.SMS.SMSType": {DataType: aws.String("String"), StringValue: aws.String("Transactional")},
	}
	if n.senderID != "" {
		attrs["AWS.SNS.SMS.SenderID"] = snstypes.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(n.senderID),
		}
	}
	out, err := n.sns.Publish(ctx, &sns.PublishInput{
		PhoneNumber:       aws.String(phone),
		Message:           aws.String(message),
		MessageAttributes: attrs,
	})
	if err != nil {
		return "", err
	}
	return aws.ToString(out.MessageId), nil
}
