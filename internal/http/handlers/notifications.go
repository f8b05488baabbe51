package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"homeservice/internal/repositories"
)

// ListNotifications returns the caller's notifications, newest first.
func ListNotifications(c *gin.Context) {
	actor, ok := MustActor(c)
	if !ok {
		return
	}
	notifications, err := repositories.NotificationRepository{}.ListByUser(actor.UserID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// MarkNotificationRead flips the read flag on one of the caller's own
// notifications.
func MarkNotificationRead(c *gin.Context) {
	actor, ok := MustActor(c)
	if !ok {
		return
	}
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	if err := (repositories.NotificationRepository{}).MarkRead(id, actor.UserID); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "notification marked as read"})
}
