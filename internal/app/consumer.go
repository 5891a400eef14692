package app

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerline/instruction-service/internal/domain"
	"github.com/ledgerline/instruction-service/pkg/rabbitmq"
)

// InstructionConsumer evaluates instruction requests arriving over the
// queue and publishes their outcomes. It runs the same pipeline as the
// HTTP handler, so a queued instruction and a posted one always produce
// byte-identical outcomes for the same inputs.
type InstructionConsumer struct {
	service    *Service
	publisher  rabbitmq.Publisher
	exchange   string
	routingKey string
}

func NewInstructionConsumer(service *Service, publisher rabbitmq.Publisher, exchange, routingKey string) *InstructionConsumer {
	return &InstructionConsumer{
		service:    service,
		publisher:  publisher,
		exchange:   exchange,
		routingKey: routingKey,
	}
}

// HandleMessage processes one queue delivery. Returning true acknowledges
// the message; returning false requeues it. Unparseable bodies are
// acknowledged and dropped so a poison message cannot wedge the queue.
func (c *InstructionConsumer) HandleMessage(body []byte) bool {
	var req domain.QueuedEvaluationRequest
	if err := json.Unmarshal(body, &req); err != nil {
		log.Printf("level=warn component=instruction_consumer msg=\"dropping unparseable message\" err=%v", err)
		return true
	}

	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}

	result := c.service.Evaluate(domain.EvaluationRequest{
		Instruction: req.Instruction,
		Accounts:    req.Accounts,
	})

	event := domain.OutcomeEvent{
		RequestID:   req.RequestID,
		HTTPCode:    result.HTTPCode,
		Outcome:     result.Outcome,
		EvaluatedAt: time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := c.publisher.Publish(ctx, c.exchange, c.routingKey, event); err != nil {
		log.Printf("level=error component=instruction_consumer msg=\"outcome publish failed\" request_id=%s err=%v", req.RequestID, err)
		return false
	}

	log.Printf("level=info component=instruction_consumer msg=\"instruction evaluated\" request_id=%s status_code=%s", req.RequestID, result.Outcome.StatusCode)
	return true
}
