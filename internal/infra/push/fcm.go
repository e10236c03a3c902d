package push

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"gorm.io/gorm"

	"github.com/GHanamaAhmed/cancer-detection/internal/models"
)

// FCMSender delivers notifications to every registered device of a user.
type FCMSender struct {
	client *messaging.Client
	db     *gorm.DB
	log    *zap.Logger
}

func NewFCMSender(
	ctx context.Context,
	credentialsFile string,
	db *gorm.DB,
	log *zap.Logger,
) (*FCMSender, error) {

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase messaging: %w", err)
	}

	return &FCMSender{client: client, db: db, log: log}, nil
}

func (s *FCMSender) Push(
	ctx context.Context,
	userID uint,
	title string,
	body string,
	data map[string]string,
) error {

	var devices []models.Device
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&devices).Error; err != nil {
		return err
	}

	var lastErr error
	for _, d := range devices {
		msg := &messaging.Message{
			Token: d.Token,
			Notification: &messaging.Notification{
				Title: title,
				Body:  body,
			},
			Data: data,
			Android: &messaging.AndroidConfig{
				Priority: "high",
			},
			APNS: &messaging.APNSConfig{
				Payload: &messaging.APNSPayload{
					Aps: &messaging.Aps{Sound: "default"},
				},
			},
		}

		if _, err := s.client.Send(ctx, msg); err != nil {
			if messaging.IsUnregistered(err) {
				s.log.Info("dropping unregistered device", zap.Uint("user_id", userID), zap.Uint("device_id", d.ID))
				s.db.WithContext(ctx).Delete(&models.Device{}, d.ID)
				continue
			}
			lastErr = err
		}
	}

	return lastErr
}
