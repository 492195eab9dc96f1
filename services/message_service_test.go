package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"portfolio-http-service/config"
	"portfolio-http-service/models"
)

func newTestMessageService(t *testing.T) (*MessageService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewMessageService(db, &config.Config{}, nil), db
}

func TestCreateMessageDefaults(t *testing.T) {
	svc, _ := newTestMessageService(t)

	msg, err := svc.CreateMessage(&models.Message{
		SenderName:  "Jamie",
		SenderEmail: "jamie@example.com",
		Body:        "Hello, I'd like to talk about a project.",
	})
	require.NoError(t, err)
	assert.Equal(t, "General Inquiry", msg.Subject)
	assert.Equal(t, "General", msg.RelatedProject)
	assert.False(t, msg.IsRead)
}

func TestCreateMessageKeepsProvidedFields(t *testing.T) {
	svc, _ := newTestMessageService(t)

	msg, err := svc.CreateMessage(&models.Message{
		SenderName:     "Jamie",
		SenderEmail:    "jamie@example.com",
		Subject:        "Collaboration",
		Body:           "About the dashboard project.",
		RelatedProject: "Nebula Finance Dashboard",
	})
	require.NoError(t, err)
	assert.Equal(t, "Collaboration", msg.Subject)
	assert.Equal(t, "Nebula Finance Dashboard", msg.RelatedProject)
}

func TestGetAllMessagesNewestFirst(t *testing.T) {
	svc, _ := newTestMessageService(t)

	for _, body := range []string{"first", "second", "third"} {
		_, err := svc.CreateMessage(&models.Message{
			SenderName:  "Jamie",
			SenderEmail: "jamie@example.com",
			Body:        body,
		})
		require.NoError(t, err)
	}

	messages, err := svc.GetAllMessages()
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "third", messages[0].Body)
	assert.Equal(t, "first", messages[2].Body)
}

func TestMarkAsRead(t *testing.T) {
	svc, db := newTestMessageService(t)

	msg, err := svc.CreateMessage(&models.Message{
		SenderName:  "Jamie",
		SenderEmail: "jamie@example.com",
		Body:        "original body",
	})
	require.NoError(t, err)

	updated, err := svc.MarkAsRead(msg.ID)
	require.NoError(t, err)
	assert.True(t, updated.IsRead)

	// 只翻转已读标记，内容不变
	var stored models.Message
	require.NoError(t, db.First(&stored, msg.ID).Error)
	assert.True(t, stored.IsRead)
	assert.Equal(t, "original body", stored.Body)

	_, err = svc.MarkAsRead(999)
	assert.ErrorIs(t, err, ErrMessageNotFound)
}

func TestDeleteMessage(t *testing.T) {
	svc, _ := newTestMessageService(t)

	msg, err := svc.CreateMessage(&models.Message{
		SenderName:  "Jamie",
		SenderEmail: "jamie@example.com",
		Body:        "to be deleted",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteMessage(msg.ID))

	err = svc.DeleteMessage(msg.ID)
	assert.ErrorIs(t, err, ErrMessageNotFound)
}
