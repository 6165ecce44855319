package etl

import (
	"context"
	"errors"
	"log/slog"

	"quizhub-backend/queue"
	"quizhub-backend/store"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrDeliveriesClosed is returned by Run when the broker closes the
// delivery channel, usually because the connection dropped.
var ErrDeliveriesClosed = errors.New("delivery channel closed")

// Worker drains the durable queue into the store. Delivery is
// at-least-once: a message is acked only after its insert succeeded, and the
// submission-id unique index makes a redelivered copy a no-op.
type Worker struct {
	questions *store.QuestionStore
	log       *slog.Logger
}

func NewWorker(questions *store.QuestionStore, log *slog.Logger) *Worker {
	return &Worker{questions: questions, log: log}
}

// Run processes deliveries until ctx is cancelled or the channel closes.
func (w *Worker) Run(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return ErrDeliveriesClosed
			}
			w.Handle(ctx, d)
		}
	}
}

// Handle processes one delivery. Malformed payloads are rejected without
// requeue; store failures leave the message unacked for redelivery.
func (w *Worker) Handle(ctx context.Context, d amqp.Delivery) {
	msg, err := queue.DecodeQuestionMessage(d.Body)
	if err != nil {
		w.log.Error("dropping malformed message", "message_id", d.MessageId, "error", err)
		if nackErr := d.Nack(false, false); nackErr != nil {
			w.log.Error("reject failed", "error", nackErr)
		}
		return
	}

	question := msg.Question()
	inserted, err := w.questions.CreateFromSubmission(ctx, &question)
	if err != nil {
		w.log.Error("question insert failed, leaving message for redelivery",
			"submission_id", msg.SubmissionId, "category_id", msg.CategoryId, "error", err)
		if nackErr := d.Nack(false, true); nackErr != nil {
			w.log.Error("requeue failed", "error", nackErr)
		}
		return
	}

	if inserted {
		w.log.Info("question stored",
			"submission_id", msg.SubmissionId, "question_id", question.Id, "category_id", question.CategoryId)
	} else {
		w.log.Warn("duplicate delivery skipped", "submission_id", msg.SubmissionId)
	}

	if ackErr := d.Ack(false); ackErr != nil {
		w.log.Error("ack failed", "submission_id", msg.SubmissionId, "error", ackErr)
	}
}
