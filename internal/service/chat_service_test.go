package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/friendscore/backend/internal/domain"
	"github.com/friendscore/backend/internal/presence"
	"github.com/friendscore/backend/internal/realtime"
)

func newChatFixture() (*ChatService, *memMessageRepo, *memNotificationRepo, *presence.Registry, *fakeRouter) {
	msgRepo := &memMessageRepo{}
	notifRepo := &memNotificationRepo{}
	registry := presence.NewRegistry()
	router := newFakeRouter()
	logger := zap.NewNop()

	notifications := NewNotificationService(notifRepo, router, logger)
	chat := NewChatService(msgRepo, notifications, registry, router, logger)
	return chat, msgRepo, notifRepo, registry, router
}

func TestChatService_Send_ReceiverOffline(t *testing.T) {
	req := require.New(t)
	chat, msgRepo, notifRepo, _, router := newChatFixture()
	sender := uuid.New()
	receiver := uuid.New()

	// When the receiver holds no chat connection
	msg, err := chat.Send(context.Background(), sender, SendMessageInput{
		ReceiverID: receiver,
		Text:       "hello",
		SenderName: "Alice",
	})
	req.NoError(err)

	// Then the message stays Sent
	req.Equal(domain.MessageSent, msg.Status)
	stored, err := msgRepo.GetByID(context.Background(), msg.ID)
	req.NoError(err)
	req.Equal(domain.MessageSent, stored.Status)

	// And the sender is told it was only sent, not delivered
	req.Equal([]string{realtime.EventTypeMessageSent}, router.directTypes(realtime.TopicChat, sender))
	req.Empty(router.directTypes(realtime.TopicChat, receiver))

	// And a notification was persisted for the receiver regardless
	count, err := notifRepo.CountUnread(context.Background(), receiver)
	req.NoError(err)
	req.Equal(1, count)
}

func TestChatService_Send_ReceiverOnline(t *testing.T) {
	req := require.New(t)
	chat, msgRepo, _, registry, router := newChatFixture()
	sender := uuid.New()
	receiver := uuid.New()

	// Given the receiver holds a live chat connection
	registry.Register(receiver, realtime.TopicChat, "conn-1")
	router.setReachable(realtime.TopicChat, receiver)

	msg, err := chat.Send(context.Background(), sender, SendMessageInput{
		ReceiverID: receiver,
		Text:       "hello",
		SenderName: "Alice",
	})
	req.NoError(err)

	// Then the message advances to Delivered in one call
	req.Equal(domain.MessageDelivered, msg.Status)
	stored, err := msgRepo.GetByID(context.Background(), msg.ID)
	req.NoError(err)
	req.Equal(domain.MessageDelivered, stored.Status)

	// And both parties hear about it
	req.Equal([]string{realtime.EventTypeReceiveMessage}, router.directTypes(realtime.TopicChat, receiver))
	req.Equal([]string{realtime.EventTypeMessageDelivered}, router.directTypes(realtime.TopicChat, sender))
}

func TestChatService_Send_Validation(t *testing.T) {
	req := require.New(t)
	chat, _, _, _, _ := newChatFixture()
	sender := uuid.New()

	_, err := chat.Send(context.Background(), sender, SendMessageInput{Text: "hi"})
	req.ErrorIs(err, ErrInvalidReceiver)

	_, err = chat.Send(context.Background(), sender, SendMessageInput{ReceiverID: uuid.New()})
	req.ErrorIs(err, ErrEmptyMessage)

	// Media-only messages are allowed
	mediaURL := "https://cdn.example.com/pic.png"
	_, err = chat.Send(context.Background(), sender, SendMessageInput{
		ReceiverID: uuid.New(),
		MediaURL:   &mediaURL,
	})
	req.NoError(err)
}

func TestChatService_MarkDelivered(t *testing.T) {
	req := require.New(t)
	chat, msgRepo, _, _, router := newChatFixture()
	sender := uuid.New()
	receiver := uuid.New()

	msg, err := chat.Send(context.Background(), sender, SendMessageInput{
		ReceiverID: receiver,
		Text:       "hello",
		SenderName: "Alice",
	})
	req.NoError(err)
	req.Equal(domain.MessageSent, msg.Status)

	// When the receiver acknowledges the message
	req.NoError(chat.MarkDelivered(context.Background(), msg.ID))

	stored, err := msgRepo.GetByID(context.Background(), msg.ID)
	req.NoError(err)
	req.Equal(domain.MessageDelivered, stored.Status)

	senderEvents := router.directTypes(realtime.TopicChat, sender)
	req.Equal([]string{realtime.EventTypeMessageSent, realtime.EventTypeMessageDelivered}, senderEvents)

	// A second acknowledgement is a no-op: no extra event, no status change
	req.NoError(chat.MarkDelivered(context.Background(), msg.ID))
	req.Equal(senderEvents, router.directTypes(realtime.TopicChat, sender))
}

func TestChatService_MarkDelivered_UnknownMessage(t *testing.T) {
	req := require.New(t)
	chat, _, _, _, _ := newChatFixture()

	err := chat.MarkDelivered(context.Background(), uuid.New())
	req.ErrorIs(err, ErrMessageNotFound)
}

func TestChatService_History(t *testing.T) {
	req := require.New(t)
	chat, _, _, _, _ := newChatFixture()
	alice := uuid.New()
	bob := uuid.New()
	carol := uuid.New()

	_, err := chat.Send(context.Background(), alice, SendMessageInput{ReceiverID: bob, Text: "1", SenderName: "Alice"})
	req.NoError(err)
	_, err = chat.Send(context.Background(), bob, SendMessageInput{ReceiverID: alice, Text: "2", SenderName: "Bob"})
	req.NoError(err)
	_, err = chat.Send(context.Background(), alice, SendMessageInput{ReceiverID: carol, Text: "3", SenderName: "Alice"})
	req.NoError(err)

	// Both directions of the pair, in order, other conversations excluded
	msgs, err := chat.History(context.Background(), alice, bob)
	req.NoError(err)
	req.Len(msgs, 2)
	req.Equal("1", msgs[0].Text)
	req.Equal("2", msgs[1].Text)

	// Empty conversation yields an empty slice, not nil
	msgs, err = chat.History(context.Background(), bob, carol)
	req.NoError(err)
	req.NotNil(msgs)
	req.Empty(msgs)

	_, err = chat.History(context.Background(), uuid.Nil, bob)
	req.ErrorIs(err, ErrInvalidReceiver)
}

func TestChatService_Typing(t *testing.T) {
	req := require.New(t)
	chat, _, _, _, router := newChatFixture()
	receiver := uuid.New()

	chat.Typing(receiver, "Alice")

	req.Equal([]string{realtime.EventTypeUserTyping}, router.directTypes(realtime.TopicChat, receiver))
}
