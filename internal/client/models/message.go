package models

import (
	"encoding/json"
	"time"
)

// Message is one entry in a conversation thread.
//
// Server-assigned ids are positive and unique within a thread. A message
// created locally and not yet confirmed carries a negative placeholder id,
// which can never collide with anything the server assigns.
type Message struct {
	ID             int64
	AuthorName     string
	SentAt         *time.Time // nil until the server stamps it
	Body           string
	Urgent         bool
	AttachmentPath string // empty when there is no attachment
	Unread         bool
}

// Pending reports whether the message is a local placeholder awaiting
// server confirmation.
func (m Message) Pending() bool { return m.ID < 0 }

// messageWire lists every field name the backend has been seen to use.
// Aliases are resolved in declaration order: author_name before author,
// sent_at before timestamp, body before text.
type messageWire struct {
	ID         FlexID     `json:"id"`
	AuthorName string     `json:"author_name"`
	Author     string     `json:"author"`
	SentAt     *time.Time `json:"sent_at"`
	Timestamp  *time.Time `json:"timestamp"`
	Body       string     `json:"body"`
	Text       string     `json:"text"`
	Urgent     bool       `json:"urgent"`
	Attachment string     `json:"attachment_path"`
	Unread     bool       `json:"unread"`
}

func (m *Message) UnmarshalJSON(data []byte) error {
	var w messageWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	m.ID = w.ID.Int64()
	m.AuthorName = firstNonEmpty(w.AuthorName, w.Author)
	m.SentAt = w.SentAt
	if m.SentAt == nil {
		m.SentAt = w.Timestamp
	}
	m.Body = firstNonEmpty(w.Body, w.Text)
	m.Urgent = w.Urgent
	m.AttachmentPath = w.Attachment
	m.Unread = w.Unread
	return nil
}

func (m Message) MarshalJSON() ([]byte, error) {
	return json.Marshal(messageWire{
		ID:         FlexID(m.ID),
		AuthorName: m.AuthorName,
		SentAt:     m.SentAt,
		Body:       m.Body,
		Urgent:     m.Urgent,
		Attachment: m.AttachmentPath,
		Unread:     m.Unread,
	})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// SortBySentAt orders messages by send time ascending, with unstamped
// placeholders kept at the end in their append order.
func SortBySentAt(msgs []Message) {
	// insertion sort keeps the cost trivial for thread-sized lists and is
	// stable, which the placeholder ordering relies on
	for i := 1; i < len(msgs); i++ {
		for j := i; j > 0 && earlier(msgs[j], msgs[j-1]); j-- {
			msgs[j], msgs[j-1] = msgs[j-1], msgs[j]
		}
	}
}

func earlier(a, b Message) bool {
	if a.SentAt == nil || b.SentAt == nil {
		return false
	}
	return a.SentAt.Before(*b.SentAt)
}
