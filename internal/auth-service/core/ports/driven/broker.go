package driven

import (
	"context"

	messagebrokerdto "user-auth/internal/auth-service/core/domain/message_broker_dto"
)

type IUserBroker interface {
	PublishJSON(ctx context.Context, exchange, routingKey string, msg any) error
	IsAlive() bool
	Close() error
}

// IUserEventPublisher receives committed user lifecycle events.
type IUserEventPublisher interface {
	Publish(ctx context.Context, event messagebrokerdto.UserEvent) error
}
