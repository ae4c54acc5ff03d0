package store

import (
	"context"
	"testing"

	"immo/backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSendMessageCreatesLinkedNotification(t *testing.T) {
	db, s, rec := newTestStores(t)
	client := seedProfile(t, db, "Client", models.RoleClient)
	courtier := seedProfile(t, db, "Courtier", models.RoleCourtier)
	ctx := context.Background()

	sent, err := s.Messages.Send(as(client), SendMessageInput{RecipientID: courtier.ID, Content: "  Bonjour, est-ce disponible ?  "})
	require.NoError(t, err)

	var messages []models.Message
	require.NoError(t, db.Find(&messages).Error)
	require.Len(t, messages, 1)
	var notifications []models.Notification
	require.NoError(t, db.Find(&notifications).Error)
	require.Len(t, notifications, 1)

	n := notifications[0]
	require.NotNil(t, n.MessageID)
	assert.Equal(t, messages[0].ID, *n.MessageID)
	assert.Equal(t, messages[0].Content, n.Body)
	assert.Equal(t, "Bonjour, est-ce disponible ?", n.Body)
	assert.Equal(t, models.NotificationMessage, n.Type)
	assert.Equal(t, "Nouveau message", n.Title)
	assert.Equal(t, "/notifications", n.Link)
	assert.Equal(t, sent.Message.ID, messages[0].ID)
	assert.Equal(t, 1, rec.count(courtier.ID))

	before, err := s.Notifications.UnreadCount(ctx, courtier.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, before)

	require.NoError(t, s.Notifications.MarkAsRead(as(courtier), n.ID))

	after, err := s.Notifications.UnreadCount(ctx, courtier.ID)
	require.NoError(t, err)
	assert.Equal(t, before-1, after)

	var stored models.Notification
	require.NoError(t, db.First(&stored, "id = ?", n.ID).Error)
	assert.True(t, stored.Read)
}

func TestSendMessageValidation(t *testing.T) {
	db, s, _ := newTestStores(t)
	client := seedProfile(t, db, "Client", models.RoleClient)

	_, err := s.Messages.Send(context.Background(), SendMessageInput{RecipientID: uuid.New(), Content: "hi"})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = s.Messages.Send(as(client), SendMessageInput{Content: "hi"})
	assert.ErrorIs(t, err, ErrRecipientRequired)
	_, err = s.Messages.Send(as(client), SendMessageInput{RecipientID: uuid.New(), Content: " "})
	assert.ErrorIs(t, err, ErrContentRequired)
}

func TestSendMessageRollsBackWhenNotificationFails(t *testing.T) {
	db, s, rec := newTestStores(t)
	client := seedProfile(t, db, "Client", models.RoleClient)
	courtier := seedProfile(t, db, "Courtier", models.RoleCourtier)

	require.NoError(t, db.Migrator().DropTable(&models.Notification{}))

	_, err := s.Messages.Send(as(client), SendMessageInput{RecipientID: courtier.ID, Content: "Bonjour"})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Message{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
	assert.Equal(t, 0, rec.count(courtier.ID))
}

func TestMarkAsReadIsIdempotentAndRecipientOnly(t *testing.T) {
	db, s, _ := newTestStores(t)
	client := seedProfile(t, db, "Client", models.RoleClient)
	courtier := seedProfile(t, db, "Courtier", models.RoleCourtier)
	sent, err := s.Messages.Send(as(client), SendMessageInput{RecipientID: courtier.ID, Content: "Salut"})
	require.NoError(t, err)
	id := sent.Notification.ID

	assert.ErrorIs(t, s.Notifications.MarkAsRead(as(client), id), ErrPermissionDenied)
	require.NoError(t, s.Notifications.MarkAsRead(as(courtier), id))
	require.NoError(t, s.Notifications.MarkAsRead(as(courtier), id))
	assert.ErrorIs(t, s.Notifications.MarkAsRead(as(courtier), uuid.New()), ErrNotFound)
	_, err = s.Messages.Reply(as(courtier), uuid.New(), "Bonjour")
	assert.ErrorIs(t, err, ErrNotFound)

	count, err := s.Notifications.UnreadCount(context.Background(), courtier.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestDeleteNotificationKeepsMessage(t *testing.T) {
	db, s, _ := newTestStores(t)
	client := seedProfile(t, db, "Client", models.RoleClient)
	courtier := seedProfile(t, db, "Courtier", models.RoleCourtier)
	stranger := seedProfile(t, db, "Stranger", models.RoleClient)
	sent, err := s.Messages.Send(as(client), SendMessageInput{RecipientID: courtier.ID, Content: "Salut"})
	require.NoError(t, err)

	assert.ErrorIs(t, s.Notifications.Delete(as(stranger), sent.Notification.ID), ErrPermissionDenied)
	require.NoError(t, s.Notifications.Delete(as(courtier), sent.Notification.ID))

	err = db.First(&models.Notification{}, "id = ?", sent.Notification.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	var msg models.Message
	require.NoError(t, db.First(&msg, "id = ?", sent.Message.ID).Error)
	assert.Equal(t, "Salut", msg.Content)
}

func TestEditBodyUpdatesMessageAndNotification(t *testing.T) {
	db, s, rec := newTestStores(t)
	client := seedProfile(t, db, "Client", models.RoleClient)
	courtier := seedProfile(t, db, "Courtier", models.RoleCourtier)
	sent, err := s.Messages.Send(as(client), SendMessageInput{RecipientID: courtier.ID, Content: "Premier jet"})
	require.NoError(t, err)

	_, err = s.Notifications.EditBody(as(courtier), sent.Notification.ID, "pirate")
	assert.ErrorIs(t, err, ErrPermissionDenied)
	_, err = s.Notifications.EditBody(as(client), sent.Notification.ID, "  ")
	assert.ErrorIs(t, err, ErrContentRequired)

	edited, err := s.Notifications.EditBody(as(client), sent.Notification.ID, "Version corrigée")
	require.NoError(t, err)
	assert.Equal(t, "Version corrigée", edited.Body)
	require.NotNil(t, edited.Message)
	assert.Equal(t, "Version corrigée", edited.Message.Content)

	var msg models.Message
	require.NoError(t, db.First(&msg, "id = ?", sent.Message.ID).Error)
	assert.Equal(t, "Version corrigée", msg.Content)
	assert.Equal(t, 2, rec.count(courtier.ID))
}

func TestReplyTitleFollowsRole(t *testing.T) {
	db, s, _ := newTestStores(t)
	client := seedProfile(t, db, "Client", models.RoleClient)
	courtier := seedProfile(t, db, "Courtier", models.RoleCourtier)
	ctx := context.Background()

	first, err := s.Messages.Send(as(client), SendMessageInput{RecipientID: courtier.ID, Content: "Question"})
	require.NoError(t, err)

	reply, err := s.Messages.Reply(as(courtier), first.Notification.ID, "Réponse")
	require.NoError(t, err)
	assert.Equal(t, client.ID, reply.Notification.RecipientID)
	assert.Equal(t, "Réponse du courtier", reply.Notification.Title)
	assert.Equal(t, "/notifications-client", reply.Notification.Link)

	back, err := s.Messages.Reply(as(client), reply.Notification.ID, "Merci")
	require.NoError(t, err)
	assert.Equal(t, "Réponse du client", back.Notification.Title)
	assert.Equal(t, "/notifications", back.Notification.Link)

	_, err = s.Messages.Reply(as(client), first.Notification.ID, "pas à moi")
	assert.ErrorIs(t, err, ErrPermissionDenied)

	list, err := s.Notifications.List(ctx, courtier.ID, NotificationFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.NotNil(t, list[0].Message)
	assert.Equal(t, "Merci", list[0].Message.Content)

	sentByClient, err := s.Notifications.Sent(as(client))
	require.NoError(t, err)
	assert.Len(t, sentByClient, 2)
}

func TestNotifyAdmins(t *testing.T) {
	db, s, rec := newTestStores(t)
	admin1 := seedProfile(t, db, "Admin1", models.RoleAdmin)
	admin2 := seedProfile(t, db, "Admin2", models.RoleAdmin)
	newcomer := seedProfile(t, db, "Newcomer", models.RoleCourtier)

	require.NoError(t, s.Notifications.NotifyAdmins(context.Background(), newcomer))

	for _, admin := range []models.Profile{admin1, admin2} {
		list, err := s.Notifications.List(context.Background(), admin.ID, NotificationFilter{Type: models.NotificationNewUser})
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.NotNil(t, list[0].SenderID)
		assert.Equal(t, newcomer.ID, *list[0].SenderID)
		assert.Equal(t, 1, rec.count(admin.ID))
	}

	list, err := s.Notifications.List(context.Background(), newcomer.ID, NotificationFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}
