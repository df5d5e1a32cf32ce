package queue

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/papyrus/bookstore-api/internal/core/domain"
)

type recordingSink struct {
	mu   sync.Mutex
	sent []domain.Notification
	err  error
}

func (s *recordingSink) Send(_ context.Context, n domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, n)
	return s.err
}

func TestDispatcher_DeliversInOrderPerRecipient(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(3, sink, zerolog.Nop())
	d.Start(context.Background())

	first := domain.Notification{Purpose: domain.PurposeVerifyEmail, Recipient: "ada@example.com", Token: "1"}
	second := domain.Notification{Purpose: domain.PurposeResetPassword, Recipient: "ada@example.com", Token: "2"}
	if err := d.Send(context.Background(), first); err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := d.Send(context.Background(), second); err != nil {
		t.Fatalf("send: %v", err)
	}
	d.Close()

	if len(sink.sent) != 2 {
		t.Fatalf("expected 2 deliveries, got %d", len(sink.sent))
	}
	if sink.sent[0].Token != "1" || sink.sent[1].Token != "2" {
		t.Fatalf("expected in-order delivery, got %+v", sink.sent)
	}
}

func TestDispatcher_SinkErrorDoesNotStopWorker(t *testing.T) {
	sink := &recordingSink{err: errors.New("smtp down")}
	d := NewDispatcher(1, sink, zerolog.Nop())
	d.Start(context.Background())

	for _, tok := range []string{"a", "b"} {
		if err := d.Send(context.Background(), domain.Notification{Recipient: "x@example.com", Token: tok}); err != nil {
			t.Fatalf("send: %v", err)
		}
	}
	d.Close()

	if len(sink.sent) != 2 {
		t.Fatalf("expected both attempts, got %d", len(sink.sent))
	}
}

func TestDispatcher_SendAfterClose(t *testing.T) {
	d := NewDispatcher(1, &recordingSink{}, zerolog.Nop())
	d.Start(context.Background())
	d.Close()
	d.Close()

	if err := d.Send(context.Background(), domain.Notification{Recipient: "x@example.com"}); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestDispatcher_QueueFull(t *testing.T) {
	d := NewDispatcher(1, &recordingSink{}, zerolog.Nop())
	// not started: nothing drains the channel
	for i := 0; i < channelBuffer; i++ {
		if err := d.Send(context.Background(), domain.Notification{Recipient: "x@example.com"}); err != nil {
			t.Fatalf("send %d: %v", i, err)
		}
	}
	if err := d.Send(context.Background(), domain.Notification{Recipient: "x@example.com"}); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
}

func TestShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, &recordingSink{}, zerolog.Nop())
	a := d.shardIndex("ada@example.com")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("ada@example.com"); got != a {
			t.Fatalf("shard changed: %d != %d", got, a)
		}
	}
}

func TestDispatcher_CountsDeliveryResults(t *testing.T) {
	const purpose = domain.NotificationPurpose("counting")
	counter := func(result string) float64 {
		return testutil.ToFloat64(notificationsTotal.WithLabelValues(string(purpose), result))
	}
	sent, failed, dropped := counter(resultSent), counter(resultFailed), counter(resultDropped)

	ok := NewDispatcher(1, &recordingSink{}, zerolog.Nop())
	ok.Start(context.Background())
	if err := ok.Send(context.Background(), domain.Notification{Purpose: purpose, Recipient: "a@example.com"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	ok.Close()

	bad := NewDispatcher(1, &recordingSink{err: errors.New("smtp down")}, zerolog.Nop())
	bad.Start(context.Background())
	if err := bad.Send(context.Background(), domain.Notification{Purpose: purpose, Recipient: "b@example.com"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	bad.Close()
	_ = bad.Send(context.Background(), domain.Notification{Purpose: purpose, Recipient: "b@example.com"})

	if got := counter(resultSent) - sent; got != 1 {
		t.Fatalf("expected 1 sent, got %v", got)
	}
	if got := counter(resultFailed) - failed; got != 1 {
		t.Fatalf("expected 1 failed, got %v", got)
	}
	if got := counter(resultDropped) - dropped; got != 1 {
		t.Fatalf("expected 1 dropped, got %v", got)
	}
}
