package services

import (
	"schooladmin/database"
	"schooladmin/models"
	"schooladmin/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// NotificationSink receives notification payloads for live delivery.
// The websocket hub satisfies this; tests can plug in anything else.
type NotificationSink interface {
	BroadcastToUser(userID uint, message interface{})
}

var notificationSink NotificationSink

// SetNotificationSink installs the live delivery channel. Pass nil to
// disable push delivery; persisted notifications are unaffected.
func SetNotificationSink(sink NotificationSink) {
	notificationSink = sink
}

// BroadcastNotification pushes an already-persisted notification to the
// owner's live connections, if any.
func BroadcastNotification(n models.Notification) {
	if notificationSink == nil {
		return
	}
	notificationSink.BroadcastToUser(n.UserID, wsEnvelope{
		Type: "notification",
		Data: utils.ToNotificationDTO(n),
	})
}

type wsEnvelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// NotificationService persists notifications and fans them out.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService() *NotificationService {
	return &NotificationService{db: database.GetDB()}
}

// Notify stores a notification for one user and pushes it live.
func (ns *NotificationService) Notify(userID uint, title, message, notifType string) (*models.Notification, error) {
	n := models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    notifType,
	}
	if err := ns.db.Create(&n).Error; err != nil {
		return nil, err
	}
	BroadcastNotification(n)
	return &n, nil
}

// NotifyRole stores the same notification for every active user holding
// role. Failures on individual rows are logged and skipped.
func (ns *NotificationService) NotifyRole(role, title, message, notifType string) (int, error) {
	var users []models.User
	if err := ns.db.Where("role = ? AND active = ?", role, true).Find(&users).Error; err != nil {
		return 0, err
	}

	sent := 0
	for _, u := range users {
		if _, err := ns.Notify(u.ID, title, message, notifType); err != nil {
			logrus.WithError(err).WithField("user_id", u.ID).Error("Failed to create notification")
			continue
		}
		sent++
	}
	return sent, nil
}
