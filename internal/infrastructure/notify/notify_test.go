package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/smtp"
	"testing"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/papyrus/bookstore-api/internal/core/domain"
)

var resetMsg = domain.Notification{
	Purpose:   domain.PurposeResetPassword,
	Recipient: "ada@example.com",
	Token:     "reset-token",
	Link:      "http://localhost:8080/api/v1/auth/reset?token=reset-token",
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(zerolog.New(&buf))

	require.NoError(t, n.Send(context.Background(), resetMsg))
	assert.Contains(t, buf.String(), `"purpose":"reset_password"`)
	assert.Contains(t, buf.String(), `"recipient":"ada@example.com"`)
}

func TestSMTPNotifier(t *testing.T) {
	var (
		gotAddr string
		gotTo   []string
		gotBody string
	)
	n := NewSMTPNotifier(SMTPConfig{Server: "mail.local", Port: 2525, From: "noreply@papyrus.dev"})
	n.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotBody = addr, to, string(msg)
		return nil
	}

	require.NoError(t, n.Send(context.Background(), resetMsg))
	assert.Equal(t, "mail.local:2525", gotAddr)
	assert.Equal(t, []string{"ada@example.com"}, gotTo)
	assert.Contains(t, gotBody, "Subject: Reset your password")
	assert.Contains(t, gotBody, resetMsg.Link)
}

func TestSMTPNotifier_Failure(t *testing.T) {
	n := NewSMTPNotifier(SMTPConfig{Server: "mail.local", Port: 25, From: "noreply@papyrus.dev"})
	n.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("connection refused") }

	err := n.Send(context.Background(), resetMsg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ada@example.com")
}

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func (w *fakeWriter) Close() error { return nil }

func TestKafkaNotifier(t *testing.T) {
	w := &fakeWriter{}
	n := &KafkaNotifier{writer: w}

	require.NoError(t, n.Send(context.Background(), resetMsg))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "ada@example.com", string(w.msgs[0].Key))

	var got domain.Notification
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, resetMsg, got)

	w.err = errors.New("leader not available")
	assert.Error(t, n.Send(context.Background(), resetMsg))
}
