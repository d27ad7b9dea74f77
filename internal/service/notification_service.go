package service

import (
	"github.com/himalbox/internal/models"
	"github.com/himalbox/internal/repository"
)

// NotificationService 站内通知服务
type NotificationService struct {
	notificationRepo repository.NotificationRepository
}

// NewNotificationService 创建站内通知服务
func NewNotificationService(notificationRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

// Notify 写入站内通知
func (s *NotificationService) Notify(userID uint, notificationType, title, body string, payload models.JSON) error {
	if userID == 0 {
		// 游客没有站内信箱，直接丢弃
		return nil
	}
	return s.notificationRepo.Create(&models.Notification{
		UserID:  userID,
		Type:    notificationType,
		Title:   title,
		Body:    body,
		Payload: payload,
	})
}

// ListNotifications 通知列表
func (s *NotificationService) ListNotifications(filter repository.NotificationListFilter) ([]models.Notification, int64, error) {
	return s.notificationRepo.List(filter)
}

// MarkRead 标记通知已读
func (s *NotificationService) MarkRead(id uint, userID uint) error {
	notification, err := s.notificationRepo.GetByID(id)
	if err != nil {
		return err
	}
	if notification == nil || notification.UserID != userID {
		return ErrNotificationNotFound
	}
	return s.notificationRepo.MarkRead(id, userID)
}

// CountUnread 未读通知数
func (s *NotificationService) CountUnread(userID uint) (int64, error) {
	return s.notificationRepo.CountUnread(userID)
}
