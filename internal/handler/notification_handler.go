package handler

import (
	"io"
	"net/http"
	"time"

	"immo/backend/internal/auth"
	"immo/backend/internal/hub"
	"immo/backend/internal/models"
	"immo/backend/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// region --- DTOs ---

// SendMessageInput starts a conversation with a profile.
type SendMessageInput struct {
	RecipientID uuid.UUID `json:"recipientId" binding:"required"`
	Content     string    `json:"content" binding:"required" example:"Bonjour, le bien est-il disponible ?"`
	Title       string    `json:"title" example:"Nouveau message"`
	Link        string    `json:"link" example:"/notifications"`
}

// ContentInput carries a message body for replies and edits.
type ContentInput struct {
	Content string `json:"content" binding:"required" example:"Oui, visite possible samedi."`
}

// UnreadCountResponse is the badge count.
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

// endregion

const streamHeartbeat = 25 * time.Second

// SendMessage godoc
// @Summary      Send a message
// @Description  Stores the message and its linked notification atomically.
// @Tags         messages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body SendMessageInput true "Message"
// @Success      201 {object} store.Sent
// @Failure      404 {object} ErrorResponse "Recipient not found"
// @Router       /messages [post]
func SendMessage(c *gin.Context) {
	var input SendMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	st := stores()
	if _, err := st.Profiles.Get(c.Request.Context(), input.RecipientID); err != nil {
		respondError(c, err)
		return
	}
	sent, err := st.Messages.Send(c.Request.Context(), store.SendMessageInput{
		RecipientID: input.RecipientID,
		Content:     input.Content,
		Title:       input.Title,
		Link:        input.Link,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sent)
}

// ListNotifications godoc
// @Summary      My notifications
// @Description  Newest first, with sender and linked message. Admins only see sign-up notices unless a type is given.
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        type   query string false "message, follow, annonce or new_user"
// @Param        unread query bool   false "Only unread"
// @Success      200 {array} store.NotificationView
// @Router       /notifications [get]
func ListNotifications(c *gin.Context) {
	s, ok := auth.CurrentSession(c)
	if !ok {
		respondError(c, auth.ErrNotAuthenticated)
		return
	}
	f := store.NotificationFilter{
		Type:       models.NotificationType(c.Query("type")),
		UnreadOnly: c.Query("unread") == "true",
	}
	if f.Type == "" && s.IsAdmin() {
		f.Type = models.NotificationNewUser
	}
	list, err := stores().Notifications.List(c.Request.Context(), s.UserID, f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// ListSentNotifications godoc
// @Summary      Notifications I sent
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} store.NotificationView
// @Router       /notifications/sent [get]
func ListSentNotifications(c *gin.Context) {
	list, err := stores().Notifications.Sent(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetUnreadCount godoc
// @Summary      Unread notification count
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} UnreadCountResponse
// @Router       /notifications/unread-count [get]
func GetUnreadCount(c *gin.Context) {
	s, ok := auth.CurrentSession(c)
	if !ok {
		respondError(c, auth.ErrNotAuthenticated)
		return
	}
	count, err := stores().Notifications.UnreadCount(c.Request.Context(), s.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, UnreadCountResponse{Count: count})
}

// StreamNotifications godoc
// @Summary      Live unread count
// @Description  Server-sent events. An "unread" event carries a freshly queried count, sent on connect and after every change.
// @Tags         notifications
// @Produce      text/event-stream
// @Security     BearerAuth
// @Success      200 {object} UnreadCountResponse
// @Router       /notifications/stream [get]
func StreamNotifications(c *gin.Context) {
	s, ok := auth.CurrentSession(c)
	if !ok {
		respondError(c, auth.ErrNotAuthenticated)
		return
	}
	ctx := c.Request.Context()
	notifications := stores().Notifications

	client := make(hub.Client, 8)
	hub.GlobalHub.Subscribe(s.UserID, client)
	defer hub.GlobalHub.Unsubscribe(s.UserID, client)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	pushCount := func() bool {
		count, err := notifications.UnreadCount(ctx, s.UserID)
		if err != nil {
			return false
		}
		c.SSEvent("unread", UnreadCountResponse{Count: count})
		return true
	}

	if !pushCount() {
		return
	}
	c.Writer.Flush()

	heartbeat := time.NewTicker(streamHeartbeat)
	defer heartbeat.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case _, open := <-client:
			if !open {
				return false
			}
			return pushCount()
		case <-heartbeat.C:
			_, err := io.WriteString(w, ": ping\n\n")
			return err == nil
		}
	})
}

// MarkNotificationRead godoc
// @Summary      Mark a notification as read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Notification ID"
// @Success      200 {object} MessageResponse
// @Router       /notifications/{id}/read [post]
func MarkNotificationRead(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := stores().Notifications.MarkAsRead(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification read"})
}

// ReplyNotification godoc
// @Summary      Reply to the sender of a notification
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path string       true "Notification ID"
// @Param        input body ContentInput true "Reply"
// @Success      201 {object} store.Sent
// @Router       /notifications/{id}/reply [post]
func ReplyNotification(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input ContentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sent, err := stores().Messages.Reply(c.Request.Context(), id, input.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sent)
}

// EditNotification godoc
// @Summary      Edit a sent message
// @Description  Only the sender may edit. The linked message and the notification body change together.
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path string       true "Notification ID"
// @Param        input body ContentInput true "New content"
// @Success      200 {object} store.NotificationView
// @Failure      403 {object} ErrorResponse
// @Router       /notifications/{id} [put]
func EditNotification(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input ContentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	n, err := stores().Notifications.EditBody(c.Request.Context(), id, input.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

// DeleteNotification godoc
// @Summary      Delete a notification
// @Description  The linked message is kept.
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Notification ID"
// @Success      204
// @Router       /notifications/{id} [delete]
func DeleteNotification(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := stores().Notifications.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
