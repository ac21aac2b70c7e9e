package sns

import (
	"context"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/readysetcloud/newsletter-service-sub010/internal/config"
)

// AlertSender notifies operators out-of-band when the pipeline escalates.
type AlertSender interface {
	SendAlert(ctx context.Context, subject, message string) error
}

type sender struct {
	client   *sns.Client
	topicARN string
}

// NewSender returns a sender publishing to cfg.SNSAlertTopicARN, or a nil
// sender when no topic ARN is configured so alerting stays disabled.
func NewSender(cfg *config.Config) (AlertSender, error) {
	if cfg.SNSAlertTopicARN == "" {
		return nil, nil
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return nil, err
	}
	return &sender{client: sns.NewFromConfig(awsCfg), topicARN: cfg.SNSAlertTopicARN}, nil
}

func (s *sender) SendAlert(ctx context.Context, subject, message string) error {
	_, err := s.client.Publish(ctx, &sns.PublishInput{
		TopicArn: &s.topicARN,
		Subject:  &subject,
		Message:  &message,
	})
	return err
}
