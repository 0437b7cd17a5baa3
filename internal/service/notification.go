package service

import (
	"context"

	"github.com/Behyna/paygw/pkg/mailer"
)

type mailNotifier struct {
	mailer mailer.Mailer
}

func NewNotificationSender(m mailer.Mailer) NotificationSender {
	return &mailNotifier{mailer: m}
}

func (n *mailNotifier) Notify(ctx context.Context, notification Notification) error {
	return n.mailer.Send(ctx, mailer.Message{
		To:      []string{notification.Email},
		Subject: notification.Subject,
		Body:    notification.Body,
	})
}
