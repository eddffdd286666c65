package worker

import (
	"context"

	"github.com/spec-kit/ticket-board/internal/service"
)

// StartNotificationWorker subscribes the notification service to board events
// and delivers its webhooks in the background until ctx is done.
func StartNotificationWorker(ctx context.Context, notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
	go notificationService.Run(ctx)
}
