package ingestion

import (
	"time"

	"graphmem-backend/domain/extraction"
)

// Speaker roles in a conversation export. Only user messages are routed
// through extraction.
const (
	SpeakerUser      = "user"
	SpeakerAssistant = "assistant"
)

// ConversationMessage is one turn of an imported conversation, with enough
// provenance to trace a proposition back to its source text.
type ConversationMessage struct {
	Text            string
	Speaker         string
	Timestamp       time.Time
	SessionID       string
	MessageIndex    int
	SourceCharStart int
	SourceCharEnd   int
	SourceFile      string
}

// SessionMetadata carries the provenance of a single ingested message.
type SessionMetadata struct {
	SessionID    string
	MessageIndex int
	SourceFile   string

	// Source labels the origin channel, e.g. "conversation" or "user".
	// Defaults to "conversation" when empty.
	Source string
}

// MessageResult reports the outcome of ingesting one message.
type MessageResult struct {
	NodeIDs         []string
	Propositions    []extraction.Proposition
	Extracted       int
	Stored          int
	DuplicatesFound int
	SessionID       string
}

// BatchResult aggregates the outcomes of a conversation or directory
// ingest. Errors holds one entry per failed message or file, labeled with
// its origin; failures never abort the remaining batch.
type BatchResult struct {
	TotalMessages     int
	TotalExtracted    int
	TotalStored       int
	TotalDuplicates   int
	SessionsProcessed int
	Errors            []string
}
