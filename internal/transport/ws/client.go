package ws

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/friendscore/backend/internal/realtime"
	"github.com/friendscore/backend/internal/service"
)

const (
	writeWait    = 10 * time.Second
	pingInterval = 30 * time.Second
	sendBufSize  = 256
)

// Client represents a single WebSocket connection bound to one topic and one
// authenticated user for its whole lifetime.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	id     string
	userID uuid.UUID
	topic  realtime.Topic

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID, topic realtime.Topic) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		id:     uuid.NewString(),
		userID: userID,
		topic:  topic,
		send:   make(chan []byte, sendBufSize),
		done:   make(chan struct{}),
	}
}

// trySend queues data without blocking. A full buffer drops the event.
func (c *Client) trySend(data []byte) bool {
	select {
	case <-c.done:
		return false
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// ReadPump reads events from the WebSocket and dispatches them. It always
// runs the unregister path on exit, abnormal termination included.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		var event realtime.Event
		err := wsjson.Read(context.Background(), c.conn, &event)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				c.hub.logger.Debug("client closed connection",
					zap.String("user_id", c.userID.String()),
					zap.String("topic", string(c.topic)))
			} else {
				c.hub.logger.Warn("client read error",
					zap.String("user_id", c.userID.String()),
					zap.Error(err))
			}
			return
		}

		c.handleEvent(&event)
	}
}

// WritePump writes queued events to the WebSocket and keeps the connection
// alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message := <-c.send:
			ctx, cancel := context.WithTimeout(context.Background(), writeWait)
			err := c.conn.Write(ctx, websocket.MessageText, message)
			cancel()
			if err != nil {
				c.hub.logger.Warn("client write error",
					zap.String("user_id", c.userID.String()),
					zap.Error(err))
				return
			}

		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), writeWait)
			err := c.conn.Ping(ctx)
			cancel()
			if err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}

// handleEvent routes an incoming client event to the owning service.
func (c *Client) handleEvent(event *realtime.Event) {
	switch event.Type {
	case realtime.EventTypeChatSend:
		if c.topic != realtime.TopicChat {
			c.sendError("WRONG_TOPIC", "chat.send is only valid on the chat topic")
			return
		}
		var p realtime.ChatSendPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			c.sendError("INVALID_PAYLOAD", "invalid chat.send payload")
			return
		}
		input := service.SendMessageInput{
			ReceiverID: p.ReceiverID,
			Text:       p.Text,
			MediaURL:   p.MediaURL,
			MediaType:  p.MediaType,
			SenderName: p.SenderName,
		}
		if _, err := c.hub.services.Chat.Send(context.Background(), c.userID, input); err != nil {
			c.replyServiceError("chat.send", err)
		}

	case realtime.EventTypeChatMarkDelivered:
		if c.topic != realtime.TopicChat {
			c.sendError("WRONG_TOPIC", "chat.mark_delivered is only valid on the chat topic")
			return
		}
		var p realtime.MarkDeliveredPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			c.sendError("INVALID_PAYLOAD", "invalid chat.mark_delivered payload")
			return
		}
		if err := c.hub.services.Chat.MarkDelivered(context.Background(), p.MessageID); err != nil {
			c.replyServiceError("chat.mark_delivered", err)
		}

	case realtime.EventTypeChatTyping:
		var p realtime.TypingPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			c.sendError("INVALID_PAYLOAD", "invalid chat.typing payload")
			return
		}
		c.hub.services.Chat.Typing(p.ReceiverID, p.SenderName)

	case realtime.EventTypeMarkAllRead:
		if c.topic != realtime.TopicNotifications {
			c.sendError("WRONG_TOPIC", "notifications.mark_all_read is only valid on the notifications topic")
			return
		}
		if err := c.hub.services.Notifications.MarkAllRead(context.Background(), c.userID); err != nil {
			c.replyServiceError("notifications.mark_all_read", err)
		}

	case realtime.EventTypePing:
		c.sendPong()

	default:
		c.sendError("UNKNOWN_EVENT", "unknown event type: "+event.Type)
	}
}

func (c *Client) replyServiceError(op string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidReceiver),
		errors.Is(err, service.ErrEmptyMessage):
		c.sendError("VALIDATION_ERROR", err.Error())
	case errors.Is(err, service.ErrMessageNotFound):
		c.sendError("NOT_FOUND", err.Error())
	default:
		c.hub.logger.Error("ws operation failed",
			zap.String("op", op),
			zap.String("user_id", c.userID.String()),
			zap.Error(err))
		c.sendError("INTERNAL", "something went wrong")
	}
}

func (c *Client) sendPong() {
	data, _ := json.Marshal(realtime.Event{Type: realtime.EventTypePong})
	c.trySend(data)
}

func (c *Client) sendError(code, message string) {
	evt, err := realtime.NewEvent(realtime.EventTypeError, realtime.ErrorPayload{Code: code, Message: message})
	if err != nil {
		return
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return
	}
	c.trySend(data)
}
