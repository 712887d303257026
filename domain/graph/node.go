package graph

import (
	"strings"
	"time"

	"github.com/google/uuid"

	pkgerrors "graphmem-backend/pkg/errors"
)

// NodeKind discriminates the node variants stored in the graph.
type NodeKind string

const (
	// KindModule is a user-declared focus area.
	KindModule NodeKind = "module"

	// KindInternal is a confirmed abstraction over a cluster of beliefs.
	KindInternal NodeKind = "internal"

	// KindLeaf is an atomic fact or belief extracted from text.
	KindLeaf NodeKind = "leaf"

	// KindOrganization is system-internal bookkeeping, invisible to normal
	// traversal unless explicitly dereferenced.
	KindOrganization NodeKind = "organization"
)

// IsValid checks if the node kind is one of the known variants
func (k NodeKind) IsValid() bool {
	switch k {
	case KindModule, KindInternal, KindLeaf, KindOrganization:
		return true
	default:
		return false
	}
}

// String returns the string representation of the node kind
func (k NodeKind) String() string {
	return string(k)
}

// NodeStatus tracks the lifecycle of a belief-carrying node. Nodes are
// never hard-deleted; transitions happen through status and SUPERSEDES
// edges.
type NodeStatus string

const (
	StatusConfirmed NodeStatus = "confirmed"
	StatusSuggested NodeStatus = "suggested"
	StatusFaded     NodeStatus = "faded"
	StatusRejected  NodeStatus = "rejected"
)

// Purpose classifies what role a proposition plays for the user.
type Purpose string

const (
	PurposeObservation Purpose = "observation"
	PurposeBelief      Purpose = "belief"
	PurposePattern     Purpose = "pattern"
	PurposeIntention   Purpose = "intention"
	PurposeDecision    Purpose = "decision"
)

// NormalizePurpose coerces unrecognized purpose values to "observation".
// This is deliberately lenient: extraction output varies, and an odd
// purpose label is not worth losing the proposition over.
func NormalizePurpose(p string) Purpose {
	switch Purpose(strings.ToLower(strings.TrimSpace(p))) {
	case PurposeObservation, PurposeBelief, PurposePattern, PurposeIntention, PurposeDecision:
		return Purpose(strings.ToLower(strings.TrimSpace(p)))
	default:
		return PurposeObservation
	}
}

// SourceType records whether the user stated the proposition or the system
// inferred it.
type SourceType string

const (
	SourceExplicit SourceType = "explicit"
	SourceInferred SourceType = "inferred"
)

// Valence marks a signal as positive, negative or neutral relative to a
// module's intention. Empty means unknown.
type Valence string

const (
	ValencePositive Valence = "positive"
	ValenceNegative Valence = "negative"
	ValenceNeutral  Valence = "neutral"
)

// OrgKind tags an organization node with its bookkeeping role.
type OrgKind string

const (
	OrgCompression OrgKind = "compression"
	OrgPriority    OrgKind = "priority"
	OrgPattern     OrgKind = "pattern"
	OrgHypothesis  OrgKind = "hypothesis"
	OrgKeyword     OrgKind = "keyword"
	OrgBridge      OrgKind = "bridge"
)

// Intentions captures what the user wants out of a module.
type Intentions struct {
	Primary          string   `json:"primary"`
	Secondary        []string `json:"secondary,omitempty"`
	DefinitionOfDone string   `json:"definition_of_done,omitempty"`
	DeclaredPriority int      `json:"declared_priority,omitempty"`
}

// ModuleProps is the variant payload for module nodes.
type ModuleProps struct {
	Intentions    Intentions
	Priority      int
	ResearchDepth int
	Active        bool
	DeclaredAt    time.Time
}

// BeliefProps is the variant payload shared by internal and leaf nodes.
// ValidFrom/ValidTo track when the fact was believed; RecordedAt tracks
// when the system learned it (bi-temporal).
type BeliefProps struct {
	Status      NodeStatus
	Source      string
	Confidence  float64
	Purpose     Purpose
	SourceType  SourceType
	Valence     Valence
	ValidFrom   *time.Time
	ValidTo     *time.Time
	RecordedAt  time.Time
	SuggestedAt *time.Time
}

// OrgProps is the variant payload for organization nodes.
type OrgProps struct {
	Kind       OrgKind
	Confidence float64
}

// Node is a tagged union over the four variants. The base fields are
// shared; exactly one of the payload pointers is non-nil, matching Kind.
type Node struct {
	ID        string
	Kind      NodeKind
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time

	Module *ModuleProps
	Belief *BeliefProps
	Org    *OrgProps
}

// IsContainer reports whether the node variant may be the source of a
// CONTAINS edge.
func (n *Node) IsContainer() bool {
	return n.Kind == KindModule || n.Kind == KindInternal
}

func newBase(kind NodeKind, title, content string) Node {
	now := time.Now().UTC()
	return Node{
		ID:        uuid.New().String(),
		Kind:      kind,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func validateConfidence(confidence float64) error {
	if confidence < 0.0 || confidence > 1.0 {
		return pkgerrors.NewValidationError("confidence must be between 0.0 and 1.0")
	}
	return nil
}

// NewModuleNode creates a user-declared focus area.
func NewModuleNode(title, content string, intentions Intentions, priority, researchDepth int) (*Node, error) {
	if strings.TrimSpace(title) == "" {
		return nil, pkgerrors.NewValidationError("module title cannot be empty")
	}

	node := newBase(KindModule, title, content)
	node.Module = &ModuleProps{
		Intentions:    intentions,
		Priority:      priority,
		ResearchDepth: researchDepth,
		Active:        true,
		DeclaredAt:    node.CreatedAt,
	}
	return &node, nil
}

// NewLeafNode creates an atomic belief/fact node. Unknown purpose values
// are coerced rather than rejected; an out-of-range confidence is a
// validation error.
func NewLeafNode(title, content, source string, purpose string, sourceType SourceType, valence Valence, confidence float64) (*Node, error) {
	return newBeliefNode(KindLeaf, title, content, source, purpose, sourceType, valence, confidence)
}

// NewInternalNode creates an abstraction node with the same payload as a
// leaf.
func NewInternalNode(title, content, source string, purpose string, sourceType SourceType, valence Valence, confidence float64) (*Node, error) {
	return newBeliefNode(KindInternal, title, content, source, purpose, sourceType, valence, confidence)
}

func newBeliefNode(kind NodeKind, title, content, source string, purpose string, sourceType SourceType, valence Valence, confidence float64) (*Node, error) {
	if strings.TrimSpace(content) == "" {
		return nil, pkgerrors.NewValidationError("node content cannot be empty")
	}
	if err := validateConfidence(confidence); err != nil {
		return nil, err
	}
	if sourceType != SourceExplicit && sourceType != SourceInferred {
		return nil, pkgerrors.NewValidationError("source type must be explicit or inferred")
	}

	node := newBase(kind, title, content)
	node.Belief = &BeliefProps{
		Status:     StatusConfirmed,
		Source:     source,
		Confidence: confidence,
		Purpose:    NormalizePurpose(purpose),
		SourceType: sourceType,
		Valence:    valence,
		RecordedAt: node.CreatedAt,
	}
	return &node, nil
}

// NewOrganizationNode creates a bookkeeping node for the system's own use.
func NewOrganizationNode(title, content string, kind OrgKind, confidence float64) (*Node, error) {
	if err := validateConfidence(confidence); err != nil {
		return nil, err
	}

	node := newBase(KindOrganization, title, content)
	node.Org = &OrgProps{
		Kind:       kind,
		Confidence: confidence,
	}
	return &node, nil
}
