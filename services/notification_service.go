package services

import (
	"context"
	"time"

	"firebase.google.com/go/v4/messaging"

	"github.com/HSouheill/webinar_backend/logging"
	"github.com/HSouheill/webinar_backend/models"
	"github.com/HSouheill/webinar_backend/websocket"
)

// PushSender delivers FCM messages
type PushSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// LiveFeed delivers dashboard events to connected users
type LiveFeed interface {
	SendToUser(uid string, notification websocket.Notification) error
}

// NotificationService tells sponsors about new registrations over the
// dashboard websocket and FCM. Both channels are best effort.
type NotificationService struct {
	profiles ProfileStore
	feed     LiveFeed
	push     PushSender
}

func NewNotificationService(profiles ProfileStore, feed LiveFeed, push PushSender) *NotificationService {
	return &NotificationService{profiles: profiles, feed: feed, push: push}
}

// NotifySponsor looks up the sponsor of reg and notifies them
func (s *NotificationService) NotifySponsor(ctx context.Context, reg *models.Registration) {
	if reg.SponsorUsername == "" {
		return
	}

	sponsor, err := s.profiles.FindByUsername(ctx, reg.SponsorUsername)
	if err != nil {
		logging.Warn("Sponsor lookup failed, skipping notification", "sponsor", reg.SponsorUsername, "error", err)
		return
	}

	if s.feed != nil {
		err := s.feed.SendToUser(sponsor.UID, websocket.Notification{
			Type:    websocket.NotificationTypeRegistration,
			Message: reg.FullName + " se registró con tu enlace",
			Data:    reg,
		})
		if err != nil {
			logging.Debug("Sponsor not connected to live feed", "uid", sponsor.UID)
		}
	}

	if s.push != nil && sponsor.FCMToken != "" {
		_, err := s.push.Send(ctx, &messaging.Message{
			Token: sponsor.FCMToken,
			Notification: &messaging.Notification{
				Title: "Nuevo registro",
				Body:  reg.FullName + " se registró con tu enlace",
			},
			Data: map[string]string{
				"type":           websocket.NotificationTypeRegistration,
				"registrationId": reg.ID.Hex(),
				"kind":           reg.Kind,
				"timestamp":      reg.CreatedAt.Format(time.RFC3339),
			},
		})
		if err != nil {
			logging.Warn("FCM notification failed", "uid", sponsor.UID, "error", err)
		}
	}
}
