package ingestion

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	pkgerrors "graphmem-backend/pkg/errors"
)

// Conversation export format: a link line carrying the session UUID,
// US-locale timestamp lines, and "Prompt:"/"Response:" markers opening
// user and assistant turns.
const timestampLayout = "1/2/2006, 3:04:05 PM"

const (
	promptMarker   = "Prompt:"
	responseMarker = "Response:"
)

var sessionIDPattern = regexp.MustCompile(
	`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)

// globExports resolves the conversation export files under dir matching
// pattern (doublestar syntax, default "**/*.md"), in stable order.
func globExports(dir, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "**/*.md"
	}
	matches, err := doublestar.Glob(os.DirFS(dir), pattern)
	if err != nil {
		return nil, pkgerrors.NewValidationError(fmt.Sprintf("invalid glob pattern %q", pattern))
	}
	sort.Strings(matches)

	files := make([]string, len(matches))
	for i, m := range matches {
		files[i] = filepath.Join(dir, m)
	}
	return files, nil
}

// ParseFile parses one conversation export file into ordered messages.
func ParseFile(path string) ([]ConversationMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pkgerrors.NewValidationError(fmt.Sprintf("cannot read export file: %v", err))
	}
	return ParseExport(string(data), filepath.Base(path))
}

// ParseExport parses export content into messages carrying session id,
// speaker, timestamp and char-offset provenance.
func ParseExport(content, sourceFile string) ([]ConversationMessage, error) {
	var (
		messages  []ConversationMessage
		sessionID string
		current   *ConversationMessage
		lastTS    time.Time
	)

	flush := func(end int) {
		if current == nil {
			return
		}
		current.Text = strings.TrimSpace(current.Text)
		current.SourceCharEnd = end
		if current.Text != "" {
			messages = append(messages, *current)
		}
		current = nil
	}

	offset := 0
	for _, line := range strings.Split(content, "\n") {
		lineStart := offset
		offset += len(line) + 1
		if offset > len(content) {
			offset = len(content)
		}
		trimmed := strings.TrimSpace(line)

		if sessionID == "" && strings.Contains(trimmed, "://") {
			if id := sessionIDPattern.FindString(trimmed); id != "" {
				sessionID = strings.ToLower(id)
				continue
			}
		}

		if ts, err := time.Parse(timestampLayout, trimmed); err == nil {
			lastTS = ts
			continue
		}

		switch trimmed {
		case promptMarker, responseMarker:
			flush(lineStart)
			speaker := SpeakerUser
			if trimmed == responseMarker {
				speaker = SpeakerAssistant
			}
			current = &ConversationMessage{
				Speaker:         speaker,
				Timestamp:       lastTS,
				SourceCharStart: lineStart,
				SourceFile:      sourceFile,
			}
		default:
			if current != nil {
				current.Text += line + "\n"
			}
		}
	}
	flush(offset)

	if len(messages) == 0 {
		return nil, pkgerrors.NewValidationError(
			fmt.Sprintf("no conversation messages found in %s", sourceFile))
	}

	for i := range messages {
		messages[i].MessageIndex = i
		messages[i].SessionID = sessionID
	}
	return messages, nil
}
