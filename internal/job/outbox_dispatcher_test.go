package job

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/BillyHamid/backendGlobal/internal/domain"
)

type fakeOutboxRepo struct {
	pending     []domain.OutboxMessage
	sent        []string
	incremented []string
	failed      []string
}

func (f *fakeOutboxRepo) GetPending(_ context.Context, limit int) ([]domain.OutboxMessage, error) {
	if limit > 0 && len(f.pending) > limit {
		return f.pending[:limit], nil
	}
	return f.pending, nil
}

func (f *fakeOutboxRepo) MarkSent(_ context.Context, id string) error {
	f.sent = append(f.sent, id)
	return nil
}

func (f *fakeOutboxRepo) IncrementRetryCount(_ context.Context, id string) error {
	f.incremented = append(f.incremented, id)
	return nil
}

func (f *fakeOutboxRepo) MarkFailed(_ context.Context, id string) error {
	f.failed = append(f.failed, id)
	return nil
}

type fakePublisher struct {
	published []string
	failTopic string
}

func (f *fakePublisher) Publish(_ context.Context, topic, key string, _ []byte) error {
	if topic == f.failTopic {
		return errors.New("broker unavailable")
	}
	f.published = append(f.published, key)
	return nil
}

func message(id, topic string, retryCount int) domain.OutboxMessage {
	return domain.OutboxMessage{
		ID:         id,
		MessageKey: "transfer-" + id,
		Topic:      topic,
		Payload:    `{"reference":"GX-2026-000001"}`,
		Status:     domain.OutboxStatusPending,
		RetryCount: retryCount,
	}
}

func TestOutboxDispatcher_MarksSentOnSuccess(t *testing.T) {
	repo := &fakeOutboxRepo{pending: []domain.OutboxMessage{
		message("m1", "transfer.created", 0),
		message("m2", "transfer.paid", 0),
	}}
	publisher := &fakePublisher{}

	dispatcher := NewOutboxDispatcher(repo, publisher, time.Second, 50, 5)
	dispatcher.DispatchBatch(context.Background())

	if len(publisher.published) != 2 {
		t.Fatalf("published %d messages, want 2", len(publisher.published))
	}
	if len(repo.sent) != 2 {
		t.Fatalf("marked %d messages sent, want 2", len(repo.sent))
	}
	if len(repo.incremented) != 0 || len(repo.failed) != 0 {
		t.Fatalf("successful dispatch must not touch retry state")
	}
}

func TestOutboxDispatcher_IncrementsRetryOnFailure(t *testing.T) {
	repo := &fakeOutboxRepo{pending: []domain.OutboxMessage{
		message("m1", "transfer.created", 0),
	}}
	publisher := &fakePublisher{failTopic: "transfer.created"}

	dispatcher := NewOutboxDispatcher(repo, publisher, time.Second, 50, 5)
	dispatcher.DispatchBatch(context.Background())

	if len(repo.incremented) != 1 || repo.incremented[0] != "m1" {
		t.Fatalf("expected retry count increment for m1, got %v", repo.incremented)
	}
	if len(repo.sent) != 0 || len(repo.failed) != 0 {
		t.Fatalf("failed publish must only increment the retry count")
	}
}

func TestOutboxDispatcher_MarksFailedAtMaxRetries(t *testing.T) {
	repo := &fakeOutboxRepo{pending: []domain.OutboxMessage{
		message("m1", "transfer.created", 4),
	}}
	publisher := &fakePublisher{failTopic: "transfer.created"}

	dispatcher := NewOutboxDispatcher(repo, publisher, time.Second, 50, 5)
	dispatcher.DispatchBatch(context.Background())

	if len(repo.failed) != 1 || repo.failed[0] != "m1" {
		t.Fatalf("expected m1 to be marked failed, got %v", repo.failed)
	}
	if len(repo.incremented) != 0 {
		t.Fatalf("message at the retry ceiling must not be re-queued")
	}
}

func TestOutboxDispatcher_PartialBatch(t *testing.T) {
	repo := &fakeOutboxRepo{pending: []domain.OutboxMessage{
		message("m1", "transfer.created", 0),
		message("m2", "transfer.paid", 0),
	}}
	publisher := &fakePublisher{failTopic: "transfer.paid"}

	dispatcher := NewOutboxDispatcher(repo, publisher, time.Second, 50, 5)
	dispatcher.DispatchBatch(context.Background())

	if len(repo.sent) != 1 || repo.sent[0] != "m1" {
		t.Fatalf("expected only m1 marked sent, got %v", repo.sent)
	}
	if len(repo.incremented) != 1 || repo.incremented[0] != "m2" {
		t.Fatalf("expected only m2 retried, got %v", repo.incremented)
	}
}
