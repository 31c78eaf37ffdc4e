package domain

import (
	"context"
	"time"
)

// Reaction is a single emoji reaction with its tally.
type Reaction struct {
	Name  string
	Count int
}

// Message is a raw channel message as delivered by the message source.
// ThreadID is empty when the message has no thread. Replies share the same
// shape; a reply always carries its parent's ThreadID and never opens a
// nested thread.
type Message struct {
	Text      string
	Timestamp time.Time
	Reactions []Reaction
	ThreadID  string
}

// HasThread reports whether replies can be fetched for this message.
func (m Message) HasThread() bool {
	return m.ThreadID != ""
}

// Candidate is a message that passed classification, pending deduplication.
// When is the message timestamp converted to the reference timezone, Date its
// YYYY-MM-DD rendering. Candidates are never mutated after creation; the
// deduplicator replaces one candidate with another, it never edits in place.
type Candidate struct {
	Message  Message
	When     time.Time
	Date     string
	Priority int
}

// LunchRecord is one analyzed lunch day, the final output unit.
type LunchRecord struct {
	Date            time.Time
	Weekday         string
	Vendor          string
	Menu            string
	SentimentRating int
	ReplyCount      int
	Rank            int
	Excerpt         string
}

// MessageSource is the paginated message-fetch capability the pipeline
// consumes. FetchMessages returns channel messages newest first, back to the
// since instant. FetchReplies returns a thread's replies excluding the thread
// root, oldest first.
type MessageSource interface {
	FetchMessages(ctx context.Context, since time.Time) ([]Message, error)
	FetchReplies(ctx context.Context, threadID string) ([]Message, error)
}
