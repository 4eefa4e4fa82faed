package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/friendscore/backend/internal/domain"
	"github.com/friendscore/backend/internal/realtime"
)

// --- Router fake ---

type routeKey struct {
	topic  realtime.Topic
	userID uuid.UUID
}

type fakeRouter struct {
	mu         sync.Mutex
	broadcasts map[realtime.Topic][]*realtime.Event
	directs    map[routeKey][]*realtime.Event
	reachable  map[routeKey]bool
}

func newFakeRouter() *fakeRouter {
	return &fakeRouter{
		broadcasts: make(map[realtime.Topic][]*realtime.Event),
		directs:    make(map[routeKey][]*realtime.Event),
		reachable:  make(map[routeKey]bool),
	}
}

func (r *fakeRouter) setReachable(topic realtime.Topic, userID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reachable[routeKey{topic, userID}] = true
}

func (r *fakeRouter) Publish(topic realtime.Topic, event *realtime.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.broadcasts[topic] = append(r.broadcasts[topic], event)
}

func (r *fakeRouter) PublishToUser(topic realtime.Topic, userID uuid.UUID, event *realtime.Event) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := routeKey{topic, userID}
	r.directs[k] = append(r.directs[k], event)
	return r.reachable[k]
}

func (r *fakeRouter) broadcastTypes(topic realtime.Topic) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := []string{}
	for _, e := range r.broadcasts[topic] {
		types = append(types, e.Type)
	}
	return types
}

func (r *fakeRouter) directTypes(topic realtime.Topic, userID uuid.UUID) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := []string{}
	for _, e := range r.directs[routeKey{topic, userID}] {
		types = append(types, e.Type)
	}
	return types
}

// --- Repository fakes ---

type memUserRepo struct {
	users []*domain.User
}

func (m *memUserRepo) Create(_ context.Context, user *domain.User) error {
	m.users = append(m.users, user)
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) List(_ context.Context) ([]domain.User, error) {
	users := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, *u)
	}
	return users, nil
}

func (m *memUserRepo) UpdateProfile(_ context.Context, user *domain.User) error {
	for i, u := range m.users {
		if u.ID == user.ID {
			m.users[i] = user
			return nil
		}
	}
	return nil
}

type memMessageRepo struct {
	msgs []*domain.ChatMessage
}

func (m *memMessageRepo) Create(_ context.Context, msg *domain.ChatMessage) error {
	clone := *msg
	m.msgs = append(m.msgs, &clone)
	return nil
}

func (m *memMessageRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.ChatMessage, error) {
	for _, msg := range m.msgs {
		if msg.ID == id {
			clone := *msg
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *memMessageRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.MessageStatus) error {
	for _, msg := range m.msgs {
		if msg.ID == id {
			msg.Status = status
		}
	}
	return nil
}

func (m *memMessageRepo) ListBetween(_ context.Context, userA, userB uuid.UUID) ([]domain.ChatMessage, error) {
	var out []domain.ChatMessage
	for _, msg := range m.msgs {
		if (msg.SenderID == userA && msg.ReceiverID == userB) ||
			(msg.SenderID == userB && msg.ReceiverID == userA) {
			out = append(out, *msg)
		}
	}
	return out, nil
}

type memNotificationRepo struct {
	notifications []*domain.Notification
}

func (m *memNotificationRepo) Create(_ context.Context, n *domain.Notification) error {
	clone := *n
	m.notifications = append(m.notifications, &clone)
	return nil
}

func (m *memNotificationRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Notification, error) {
	for _, n := range m.notifications {
		if n.ID == id {
			clone := *n
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *memNotificationRepo) MarkRead(_ context.Context, id uuid.UUID) error {
	for _, n := range m.notifications {
		if n.ID == id {
			n.IsRead = true
		}
	}
	return nil
}

func (m *memNotificationRepo) MarkAllRead(_ context.Context, userID uuid.UUID) error {
	for _, n := range m.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (m *memNotificationRepo) CountUnread(_ context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, n := range m.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (m *memNotificationRepo) ListUnread(_ context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	var out []domain.Notification
	for _, n := range m.notifications {
		if n.UserID == userID && !n.IsRead {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (m *memNotificationRepo) ListAll(_ context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	var out []domain.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, nil
}

type memFriendRepo struct {
	requests []*domain.FriendRequest
}

func (m *memFriendRepo) CreateRequest(_ context.Context, req *domain.FriendRequest) error {
	clone := *req
	m.requests = append(m.requests, &clone)
	return nil
}

func (m *memFriendRepo) GetRequestByID(_ context.Context, id uuid.UUID) (*domain.FriendRequest, error) {
	for _, req := range m.requests {
		if req.ID == id {
			clone := *req
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *memFriendRepo) PendingRequestExists(_ context.Context, fromUserID, toUserID uuid.UUID) (bool, error) {
	for _, req := range m.requests {
		if req.FromUserID == fromUserID && req.ToUserID == toUserID && !req.IsAccepted {
			return true, nil
		}
	}
	return false, nil
}

func (m *memFriendRepo) AcceptRequest(_ context.Context, id uuid.UUID) error {
	for _, req := range m.requests {
		if req.ID == id {
			req.IsAccepted = true
		}
	}
	return nil
}

func (m *memFriendRepo) DeleteRequest(_ context.Context, id uuid.UUID) error {
	for i, req := range m.requests {
		if req.ID == id {
			m.requests = append(m.requests[:i], m.requests[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memFriendRepo) ListPending(_ context.Context, toUserID uuid.UUID) ([]domain.FriendRequest, error) {
	var out []domain.FriendRequest
	for _, req := range m.requests {
		if req.ToUserID == toUserID && !req.IsAccepted {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (m *memFriendRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.FriendRequest, error) {
	var out []domain.FriendRequest
	for _, req := range m.requests {
		if req.FromUserID == userID || req.ToUserID == userID {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (m *memFriendRepo) ListFriends(_ context.Context, userID uuid.UUID) ([]domain.UserSummary, error) {
	var out []domain.UserSummary
	for _, req := range m.requests {
		if !req.IsAccepted {
			continue
		}
		switch userID {
		case req.FromUserID:
			out = append(out, domain.UserSummary{ID: req.ToUserID})
		case req.ToUserID:
			out = append(out, domain.UserSummary{ID: req.FromUserID})
		}
	}
	return out, nil
}

func (m *memFriendRepo) CountPending(_ context.Context) (int, error) {
	count := 0
	for _, req := range m.requests {
		if !req.IsAccepted {
			count++
		}
	}
	return count, nil
}

type memPostRepo struct {
	posts    []*domain.Post
	likes    []*domain.Like
	comments []*domain.Comment
}

func (m *memPostRepo) Create(_ context.Context, post *domain.Post) error {
	clone := *post
	m.posts = append(m.posts, &clone)
	return nil
}

func (m *memPostRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Post, error) {
	for _, p := range m.posts {
		if p.ID == id {
			clone := *p
			m.attach(&clone)
			return &clone, nil
		}
	}
	return nil, nil
}

func (m *memPostRepo) ListAll(_ context.Context) ([]domain.Post, error) {
	var out []domain.Post
	for _, p := range m.posts {
		clone := *p
		m.attach(&clone)
		out = append(out, clone)
	}
	return out, nil
}

func (m *memPostRepo) ListByAuthor(_ context.Context, authorID uuid.UUID) ([]domain.Post, error) {
	var out []domain.Post
	for _, p := range m.posts {
		if p.AuthorID == authorID {
			clone := *p
			m.attach(&clone)
			out = append(out, clone)
		}
	}
	return out, nil
}

func (m *memPostRepo) Count(_ context.Context) (int, error) {
	return len(m.posts), nil
}

func (m *memPostRepo) HasLike(_ context.Context, postID, userID uuid.UUID) (bool, error) {
	for _, l := range m.likes {
		if l.PostID == postID && l.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memPostRepo) CreateLike(_ context.Context, like *domain.Like) error {
	clone := *like
	m.likes = append(m.likes, &clone)
	return nil
}

func (m *memPostRepo) CreateComment(_ context.Context, comment *domain.Comment) error {
	clone := *comment
	m.comments = append(m.comments, &clone)
	return nil
}

func (m *memPostRepo) attach(post *domain.Post) {
	for _, l := range m.likes {
		if l.PostID == post.ID {
			post.Likes = append(post.Likes, *l)
		}
	}
	for _, c := range m.comments {
		if c.PostID == post.ID {
			post.Comments = append(post.Comments, *c)
		}
	}
}
