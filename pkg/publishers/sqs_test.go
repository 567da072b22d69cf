package publishers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/samvad-hq/roli/internal/domain"
)

type fakeSQSClient struct {
	input *sqs.SendMessageInput
	err   error
}

func (f *fakeSQSClient) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("msg-123")}, nil
}

func sampleEvent() Event {
	return NewEvent("sales", "Limited sales", domain.Activity{ID: "sale:1", FeedID: "sales", Kind: domain.KindSale, ItemID: 42, Value: 4692})
}

func TestSQSPublisherSendsEvent(t *testing.T) {
	client := &fakeSQSClient{}
	pub := &sqsPublisher{id: "queue", queueURL: "https://example.com/queue", client: client, log: orNop(nil)}
	evt := sampleEvent()

	if err := pub.Publish(context.Background(), evt); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if client.input == nil {
		t.Fatalf("client was not called")
	}
	if got := aws.ToString(client.input.QueueUrl); got != "https://example.com/queue" {
		t.Fatalf("QueueUrl = %s", got)
	}
	for key, want := range map[string]string{"feed_id": "sales", "activity_kind": "sale", "event_id": evt.EventID} {
		attr, ok := client.input.MessageAttributes[key]
		if !ok || aws.ToString(attr.StringValue) != want || aws.ToString(attr.DataType) != "String" {
			t.Fatalf("attribute %s missing or wrong: %#v", key, attr)
		}
	}

	var body Event
	if err := json.Unmarshal([]byte(aws.ToString(client.input.MessageBody)), &body); err != nil {
		t.Fatalf("body is not an event: %v", err)
	}
	if body.Activity.ID != "sale:1" || body.FeedName != "Limited sales" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestSQSPublisherSendError(t *testing.T) {
	boom := errors.New("boom")
	pub := &sqsPublisher{id: "queue", queueURL: "q", client: &fakeSQSClient{err: boom}, log: orNop(nil)}

	if err := pub.Publish(context.Background(), sampleEvent()); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestNewSQSPublisherUsesStaticCredentials(t *testing.T) {
	pub, err := newSQSPublisher(context.Background(), PublisherConfig{
		ID:   "queue",
		Type: TypeSQS,
		SQS: &SQSPublisherConfig{
			QueueURL:    "http://localhost:4566/000000000000/events",
			Region:      "us-east-1",
			Endpoint:    "http://localhost:4566",
			Credentials: &AWSCredentials{AccessKeyID: "AKID", SecretAccessKey: "SECRET"},
		},
	}, nil)
	if err != nil {
		t.Fatalf("newSQSPublisher: %v", err)
	}
	if pub.ID() != "queue" || pub.Type() != TypeSQS {
		t.Fatalf("unexpected publisher %s/%s", pub.Type(), pub.ID())
	}

	awsCfg, err := loadAWSConfig(context.Background(), "us-east-1", &AWSCredentials{AccessKeyID: "AKID", SecretAccessKey: "SECRET"})
	if err != nil {
		t.Fatalf("loadAWSConfig: %v", err)
	}
	creds, err := awsCfg.Credentials.Retrieve(context.Background())
	if err != nil {
		t.Fatalf("retrieve credentials: %v", err)
	}
	if creds.AccessKeyID != "AKID" || creds.SecretAccessKey != "SECRET" {
		t.Fatalf("static credentials not applied: %+v", creds)
	}
}
