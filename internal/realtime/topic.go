package realtime

// Topic is an independent realtime channel namespace. A user holds at most
// one live connection per topic.
type Topic string

const (
	TopicPresence      Topic = "presence"
	TopicChat          Topic = "chat"
	TopicNotifications Topic = "notifications"
	TopicPosts         Topic = "posts"
	TopicFriends       Topic = "friends"
	TopicProfile       Topic = "profile"
	TopicStats         Topic = "stats"
)

var topics = map[Topic]struct{}{
	TopicPresence:      {},
	TopicChat:          {},
	TopicNotifications: {},
	TopicPosts:         {},
	TopicFriends:       {},
	TopicProfile:       {},
	TopicStats:         {},
}

// ParseTopic validates a topic name from a connection URL.
func ParseTopic(s string) (Topic, bool) {
	t := Topic(s)
	_, ok := topics[t]
	return t, ok
}
