// Package extraction defines the proposition schema produced by the
// extraction collaborator.
package extraction

import (
	"strings"

	"graphmem-backend/domain/graph"
	pkgerrors "graphmem-backend/pkg/errors"
)

// Proposition is one atomic, self-contained claim extracted from free
// text. The schema is the rich one: purpose + source type + optional
// structured data.
type Proposition struct {
	Text           string                 `json:"proposition"`
	Purpose        graph.Purpose          `json:"node_purpose"`
	Confidence     float64                `json:"confidence"`
	SourceType     graph.SourceType       `json:"source_type"`
	StructuredData map[string]interface{} `json:"structured_data,omitempty"`
}

// Validate normalizes and checks a proposition as it comes off the wire.
// Purpose is coerced leniently (unknown values become "observation");
// text and confidence are strict.
func (p *Proposition) Validate() error {
	if strings.TrimSpace(p.Text) == "" {
		return pkgerrors.NewValidationError("proposition text cannot be empty")
	}
	if p.Confidence < 0.0 || p.Confidence > 1.0 {
		return pkgerrors.NewValidationError("proposition confidence must be between 0.0 and 1.0")
	}

	p.Purpose = graph.NormalizePurpose(string(p.Purpose))

	switch p.SourceType {
	case graph.SourceExplicit, graph.SourceInferred:
	case "":
		p.SourceType = graph.SourceExplicit
	default:
		return pkgerrors.NewValidationError("proposition source_type must be explicit or inferred")
	}

	return nil
}
