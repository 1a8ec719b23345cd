package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeEmailClient struct {
	to, subject, body string
	err               error
}

func (f *fakeEmailClient) SendHTMLEmail(to, subject, htmlBody string) error {
	f.to, f.subject, f.body = to, subject, htmlBody
	return f.err
}

func TestGmailSender(t *testing.T) {
	client := &fakeEmailClient{}
	sender := GmailSender{Client: client}

	err := sender.Send(context.Background(), Message{
		Recipient: "vol@example.com",
		Template:  TemplateEmailVerification,
		Data:      map[string]string{"link": "https://voluntarios.example/verify-email?token=abc"},
	})
	require.NoError(t, err)
	assert.Equal(t, "vol@example.com", client.to)
	assert.Equal(t, "Verify Your Email for Voluntarios", client.subject)
	assert.Contains(t, client.body, "token=abc")

	client.err = errors.New("quota exceeded")
	err = sender.Send(context.Background(), Message{Recipient: "vol@example.com", Template: TemplateEmailVerification})
	assert.ErrorContains(t, err, "quota exceeded")
}

type fakeWriter struct {
	msgs []kafka.Message
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func TestEventSender(t *testing.T) {
	fw := &fakeWriter{}
	sender := NewEventSenderWithWriter(fw)

	err := sender.Send(context.Background(), Message{Recipient: "org@example.com", Template: TemplateOrganizationNewSignup})
	require.NoError(t, err)
	require.Len(t, fw.msgs, 1)
	assert.Equal(t, "organization_new_signup", string(fw.msgs[0].Key))

	var decoded Message
	require.NoError(t, json.Unmarshal(fw.msgs[0].Value, &decoded))
	assert.Equal(t, "org@example.com", decoded.Recipient)
	assert.NoError(t, sender.Close())
}

type fakePublisher struct {
	queue string
	body  []byte
}

func (f *fakePublisher) Publish(ctx context.Context, queue string, body []byte) error {
	f.queue, f.body = queue, body
	return nil
}

func TestQueueSender(t *testing.T) {
	pub := &fakePublisher{}
	sender := QueueSender{Publisher: pub, Queue: "notifications"}

	msg := Message{Recipient: "vol@example.com", Template: TemplateSignupCancelled, Data: map[string]string{"title": "Beds"}}
	require.NoError(t, sender.Send(context.Background(), msg))

	assert.Equal(t, "notifications", pub.queue)
	var decoded Message
	require.NoError(t, json.Unmarshal(pub.body, &decoded))
	assert.Equal(t, msg, decoded)
}

type fakeAcknowledger struct {
	acked    int
	nacked   int
	requeued bool
	rejected int
}

func (f *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	f.acked++
	return nil
}

func (f *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	f.nacked++
	f.requeued = requeue
	return nil
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	f.rejected++
	return nil
}

func runWorker(t *testing.T, sender Sender, deliveries ...amqp.Delivery) {
	t.Helper()
	ch := make(chan amqp.Delivery, len(deliveries))
	for _, d := range deliveries {
		ch <- d
	}
	close(ch)

	w := &Worker{Sender: sender, Logger: zap.NewNop()}
	w.Run(context.Background(), ch)
}

func TestWorker_AcksDelivered(t *testing.T) {
	ack := &fakeAcknowledger{}
	body, _ := json.Marshal(Message{Recipient: "vol@example.com", Template: TemplateSignupConfirmation})
	sender := &recordingSender{}

	runWorker(t, sender, amqp.Delivery{Acknowledger: ack, Body: body})

	assert.Equal(t, 1, ack.acked)
	require.Len(t, sender.sent(), 1)
	assert.Equal(t, "vol@example.com", sender.sent()[0].Recipient)
}

func TestWorker_RequeuesFirstFailureOnly(t *testing.T) {
	body, _ := json.Marshal(Message{Recipient: "vol@example.com", Template: TemplateSignupConfirmation})
	sender := &recordingSender{err: errors.New("smtp down")}

	first := &fakeAcknowledger{}
	runWorker(t, sender, amqp.Delivery{Acknowledger: first, Body: body})
	assert.Equal(t, 1, first.nacked)
	assert.True(t, first.requeued)

	again := &fakeAcknowledger{}
	runWorker(t, sender, amqp.Delivery{Acknowledger: again, Body: body, Redelivered: true})
	assert.Equal(t, 1, again.nacked)
	assert.False(t, again.requeued)
}

func TestWorker_RejectsMalformed(t *testing.T) {
	ack := &fakeAcknowledger{}
	runWorker(t, &recordingSender{}, amqp.Delivery{Acknowledger: ack, Body: []byte("not json")})

	assert.Equal(t, 1, ack.rejected)
	assert.Zero(t, ack.acked)
}
