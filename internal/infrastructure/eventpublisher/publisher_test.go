package eventpublisher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/usecase"
)

func TestProcessEventsPublishesAndMarks(t *testing.T) {
	repo := &stubOutboxRepo{
		events: []*domain.OutboxEvent{{ID: "evt-1", EventType: domain.EventTypeEntryCreated}},
	}
	pub := &stubPublisher{}
	rec := &countingRecorder{}
	ep := newTestPublisher(repo, pub)
	ep.recorder = rec

	if err := ep.processEvents(context.Background()); err != nil {
		t.Fatalf("processEvents failed: %v", err)
	}

	if len(pub.published) != 1 {
		t.Fatalf("expected one published event, got %d", len(pub.published))
	}
	if len(repo.marked) != 1 || repo.marked[0] != "evt-1" {
		t.Fatalf("expected event to be marked published, got %#v", repo.marked)
	}
	if rec.published[domain.EventTypeEntryCreated] != 1 {
		t.Fatalf("expected published event to be recorded, got %#v", rec.published)
	}
}

func TestProcessEventsContinuesOnPublishError(t *testing.T) {
	repo := &stubOutboxRepo{
		events: []*domain.OutboxEvent{
			{ID: "evt-1", EventType: domain.EventTypeEntryUpdated},
			{ID: "evt-2", EventType: domain.EventTypeEntryDeleted},
		},
	}
	pub := &stubPublisher{
		errorsByID: map[string]error{"evt-1": errors.New("fail")},
	}
	rec := &countingRecorder{}
	ep := newTestPublisher(repo, pub)
	ep.recorder = rec

	if err := ep.processEvents(context.Background()); err != nil {
		t.Fatalf("processEvents returned error: %v", err)
	}

	if len(pub.published) != 1 || pub.published[0].ID != "evt-2" {
		t.Fatalf("expected only evt-2 to be published, got %#v", pub.published)
	}
	if len(repo.marked) != 1 || repo.marked[0] != "evt-2" {
		t.Fatalf("expected only evt-2 to be marked, got %#v", repo.marked)
	}
	if rec.failed[domain.EventTypeEntryUpdated] != 1 {
		t.Fatalf("expected failure to be recorded, got %#v", rec.failed)
	}
}

func TestProcessEventsReturnsFetchError(t *testing.T) {
	repo := &stubOutboxRepo{fetchErr: errors.New("db down")}
	ep := newTestPublisher(repo, &stubPublisher{})

	if err := ep.processEvents(context.Background()); err == nil {
		t.Fatal("expected fetch error")
	}
}

func TestPurgeUsesRetention(t *testing.T) {
	repo := &stubOutboxRepo{}
	ep := newTestPublisher(repo, &stubPublisher{})
	now := time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)
	ep.now = func() time.Time { return now }

	if err := ep.purge(context.Background()); err != nil {
		t.Fatalf("purge failed: %v", err)
	}
	if repo.purgedBefore != nil {
		t.Fatal("expected no purge without retention")
	}

	ep.retention = 24 * time.Hour
	if err := ep.purge(context.Background()); err != nil {
		t.Fatalf("purge failed: %v", err)
	}
	if repo.purgedBefore == nil || !repo.purgedBefore.Equal(now.Add(-24*time.Hour)) {
		t.Fatalf("unexpected purge cutoff %v", repo.purgedBefore)
	}
}

func TestStartStopsOnContextCancellation(t *testing.T) {
	repo := &stubOutboxRepo{}
	pub := &stubPublisher{}
	ep := newTestPublisher(repo, pub)
	ep.interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- ep.Start(ctx)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("publisher did not stop after cancel")
	}
}

func TestLogPublisherWritesPayload(t *testing.T) {
	var buf bytes.Buffer
	p := NewLogPublisher(zerolog.New(&buf))

	err := p.Publish(context.Background(), &domain.OutboxEvent{
		ID:        "evt-1",
		EventType: domain.EventTypeUserRegistered,
		Payload:   map[string]any{"email": "ana@example.com"},
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if !strings.Contains(buf.String(), `"payload":{"email":"ana@example.com"}`) {
		t.Fatalf("expected raw payload in log line, got %s", buf.String())
	}
}

func TestAMQPPublisherPublish(t *testing.T) {
	ch := &stubChannel{}
	p := &AMQPPublisher{channel: ch, exchange: "fintrack.events"}

	created := time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)
	err := p.Publish(context.Background(), &domain.OutboxEvent{
		ID:            "evt-1",
		AggregateID:   "entry-1",
		AggregateType: domain.AggregateTypeEntry,
		EventType:     domain.EventTypeEntryStatusChanged,
		Payload:       map[string]any{"status": "CONFIRMED"},
		CreatedAt:     created,
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if ch.exchange != "fintrack.events" || ch.key != domain.EventTypeEntryStatusChanged {
		t.Fatalf("unexpected routing %s/%s", ch.exchange, ch.key)
	}
	if ch.msg.DeliveryMode != amqp091.Persistent || ch.msg.ContentType != "application/json" {
		t.Fatalf("expected persistent JSON message, got %+v", ch.msg)
	}

	var msg Message
	if err := json.Unmarshal(ch.msg.Body, &msg); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if msg.AggregateID != "entry-1" || msg.Payload["status"] != "CONFIRMED" || !msg.OccurredAt.Equal(created) {
		t.Fatalf("unexpected message %+v", msg)
	}
}

func TestAMQPPublisherPublishError(t *testing.T) {
	p := &AMQPPublisher{channel: &stubChannel{err: amqp091.ErrClosed}, exchange: "x"}

	err := p.Publish(context.Background(), &domain.OutboxEvent{ID: "evt-1", EventType: domain.EventTypeEntryCreated})
	if !errors.Is(err, amqp091.ErrClosed) {
		t.Fatalf("expected wrapped channel error, got %v", err)
	}
}

func newTestPublisher(repo *stubOutboxRepo, pub *stubPublisher) *EventPublisher {
	return NewEventPublisher(Config{
		OutboxRepo: repo,
		Publisher:  pub,
		Logger:     zerolog.Nop(),
		BatchSize:  10,
		Interval:   5 * time.Millisecond,
	})
}

type stubOutboxRepo struct {
	events       []*domain.OutboxEvent
	marked       []string
	fetchErr     error
	purgedBefore *time.Time
}

func (s *stubOutboxRepo) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	return nil
}

func (s *stubOutboxRepo) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	if len(s.events) <= limit {
		return append([]*domain.OutboxEvent(nil), s.events...), nil
	}
	return append([]*domain.OutboxEvent(nil), s.events[:limit]...), nil
}

func (s *stubOutboxRepo) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	s.marked = append(s.marked, id)
	return nil
}

func (s *stubOutboxRepo) DeletePublished(ctx context.Context, before time.Time) error {
	s.purgedBefore = &before
	return nil
}

type stubPublisher struct {
	published  []*domain.OutboxEvent
	errorsByID map[string]error
}

func (s *stubPublisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	if err := s.errorsByID[event.ID]; err != nil {
		return err
	}
	s.published = append(s.published, event)
	return nil
}

type countingRecorder struct {
	published map[string]int
	failed    map[string]int
}

func (r *countingRecorder) EventPublished(eventType string) {
	if r.published == nil {
		r.published = map[string]int{}
	}
	r.published[eventType]++
}

func (r *countingRecorder) EventFailed(eventType string) {
	if r.failed == nil {
		r.failed = map[string]int{}
	}
	r.failed[eventType]++
}

type stubChannel struct {
	exchange string
	key      string
	msg      amqp091.Publishing
	err      error
}

func (c *stubChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error {
	if c.err != nil {
		return c.err
	}
	c.exchange = exchange
	c.key = key
	c.msg = msg
	return nil
}

func (c *stubChannel) Close() error { return nil }
