package bm

import (
	"context"

	messagebrokerdto "user-auth/internal/auth-service/core/domain/message_broker_dto"
	"user-auth/internal/auth-service/core/ports/driven"
)

// Publisher sends user events to a topic exchange keyed by event type.
type Publisher struct {
	broker   driven.IUserBroker
	exchange string
}

func NewPublisher(broker driven.IUserBroker, exchange string) *Publisher {
	return &Publisher{
		broker:   broker,
		exchange: exchange,
	}
}

func (p *Publisher) Publish(ctx context.Context, event messagebrokerdto.UserEvent) error {
	return p.broker.PublishJSON(ctx, p.exchange, event.Type, event)
}
