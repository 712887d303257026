package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"graphmem-backend/application/ingestion"
	"graphmem-backend/pkg/utils"
)

// IngestHandler handles ingestion HTTP requests
type IngestHandler struct {
	service *ingestion.Service
	logger  *zap.Logger
}

// NewIngestHandler creates a new ingest handler
func NewIngestHandler(service *ingestion.Service, logger *zap.Logger) *IngestHandler {
	return &IngestHandler{
		service: service,
		logger:  logger,
	}
}

// IngestMessageRequest represents the request body for ingesting one message
type IngestMessageRequest struct {
	Text         string `json:"text" validate:"required"`
	SessionID    string `json:"sessionId,omitempty"`
	MessageIndex int    `json:"messageIndex,omitempty"`
	Source       string `json:"source,omitempty"`
}

// IngestMessageResponse reports what one message produced
type IngestMessageResponse struct {
	NodeIDs         []string `json:"nodeIds"`
	Extracted       int      `json:"extracted"`
	Stored          int      `json:"stored"`
	DuplicatesFound int      `json:"duplicatesFound"`
	SessionID       string   `json:"sessionId,omitempty"`
}

// conversationMessage is one turn in a conversation ingest request
type conversationMessage struct {
	Text         string    `json:"text" validate:"required"`
	Speaker      string    `json:"speaker" validate:"required,oneof=user assistant"`
	Timestamp    time.Time `json:"timestamp,omitempty"`
	SessionID    string    `json:"sessionId,omitempty"`
	MessageIndex int       `json:"messageIndex,omitempty"`
}

// IngestConversationRequest represents the request body for a batch ingest
type IngestConversationRequest struct {
	Messages []conversationMessage `json:"messages" validate:"required,min=1,dive"`
}

// IngestConversationResponse aggregates a batch outcome
type IngestConversationResponse struct {
	TotalMessages     int      `json:"totalMessages"`
	TotalExtracted    int      `json:"totalExtracted"`
	TotalStored       int      `json:"totalStored"`
	TotalDuplicates   int      `json:"totalDuplicates"`
	SessionsProcessed int      `json:"sessionsProcessed"`
	Errors            []string `json:"errors,omitempty"`
}

// IngestMessage handles POST /ingest/message
func (h *IngestHandler) IngestMessage(w http.ResponseWriter, r *http.Request) {
	var req IngestMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	result, err := h.service.IngestMessage(r.Context(), req.Text, ingestion.SessionMetadata{
		SessionID:    req.SessionID,
		MessageIndex: req.MessageIndex,
		Source:       req.Source,
	})
	if err != nil {
		h.logger.Error("Failed to ingest message",
			zap.String("sessionID", req.SessionID),
			zap.Error(err),
		)
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, IngestMessageResponse{
		NodeIDs:         result.NodeIDs,
		Extracted:       result.Extracted,
		Stored:          result.Stored,
		DuplicatesFound: result.DuplicatesFound,
		SessionID:       result.SessionID,
	})
}

// IngestConversation handles POST /ingest/conversation
func (h *IngestHandler) IngestConversation(w http.ResponseWriter, r *http.Request) {
	var req IngestConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	messages := make([]ingestion.ConversationMessage, 0, len(req.Messages))
	for i, m := range req.Messages {
		index := m.MessageIndex
		if index == 0 {
			index = i
		}
		messages = append(messages, ingestion.ConversationMessage{
			Text:         m.Text,
			Speaker:      m.Speaker,
			Timestamp:    m.Timestamp,
			SessionID:    m.SessionID,
			MessageIndex: index,
		})
	}

	batch, err := h.service.IngestConversation(r.Context(), messages)
	if err != nil {
		h.logger.Error("Failed to ingest conversation", zap.Error(err))
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, IngestConversationResponse{
		TotalMessages:     batch.TotalMessages,
		TotalExtracted:    batch.TotalExtracted,
		TotalStored:       batch.TotalStored,
		TotalDuplicates:   batch.TotalDuplicates,
		SessionsProcessed: batch.SessionsProcessed,
		Errors:            batch.Errors,
	})
}
