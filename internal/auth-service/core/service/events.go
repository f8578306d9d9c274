package service

import (
	"context"
	"time"

	messagebrokerdto "user-auth/internal/auth-service/core/domain/message_broker_dto"
	"user-auth/internal/auth-service/core/domain/models"
	"user-auth/internal/auth-service/core/ports/driven"
	"user-auth/internal/mylogger"

	"github.com/google/uuid"
)

// emit reports a committed change. Publishing is best-effort: the store write
// already happened, so a failure is logged and swallowed here. The event
// outlives the request, so the caller's cancellation is dropped.
func emit(ctx context.Context, publisher driven.IUserEventPublisher, mylog mylogger.Logger, eventType string, user models.User) {
	if publisher == nil {
		return
	}

	event := messagebrokerdto.UserEvent{
		EventId:    uuid.NewString(),
		Type:       eventType,
		UserId:     user.UserId,
		Username:   user.Username,
		Email:      user.Email,
		OccurredAt: time.Now().UTC(),
	}

	if err := publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		mylog.Error("failed to publish user event", err, "event_type", eventType, "user_id", user.UserId)
	}
}
