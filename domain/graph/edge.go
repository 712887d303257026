package graph

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	pkgerrors "graphmem-backend/pkg/errors"
)

// EdgeType represents the type of relationship between nodes
type EdgeType string

const (
	// EdgeContains is the hierarchy edge from containers to members.
	EdgeContains EdgeType = "CONTAINS"

	// EdgeSupports marks evidence for a belief.
	EdgeSupports EdgeType = "SUPPORTS"

	// EdgeContradicts marks conflicting beliefs.
	EdgeContradicts EdgeType = "CONTRADICTS"

	// EdgeEnables marks a prerequisite relationship.
	EdgeEnables EdgeType = "ENABLES"

	// EdgeSupersedes records belief evolution: the new node replaces the old.
	EdgeSupersedes EdgeType = "SUPERSEDES"

	// EdgeReferences links organization-space bookkeeping to user nodes.
	EdgeReferences EdgeType = "REFERENCES"

	// EdgeSimilarTo connects semantically related nodes discovered during
	// ingestion, with the cosine similarity as confidence.
	EdgeSimilarTo EdgeType = "SIMILAR_TO"
)

// IsValid checks if the edge type is valid
func (t EdgeType) IsValid() bool {
	_, ok := edgeConstraints[t]
	return ok
}

// String returns the string representation of the edge type
func (t EdgeType) String() string {
	return string(t)
}

// IsRelationship reports whether the edge type belongs to the semantic
// relationship set queried by GetRelated, as opposed to the CONTAINS
// hierarchy and REFERENCES bookkeeping links.
func (t EdgeType) IsRelationship() bool {
	switch t {
	case EdgeSupports, EdgeContradicts, EdgeEnables, EdgeSupersedes, EdgeSimilarTo:
		return true
	default:
		return false
	}
}

// RelationshipEdgeTypes lists the semantic relationship edge types in a
// stable order.
func RelationshipEdgeTypes() []EdgeType {
	return []EdgeType{EdgeSupports, EdgeContradicts, EdgeEnables, EdgeSupersedes, EdgeSimilarTo}
}

// kindPair is one permitted (from-variant, to-variant) combination.
type kindPair struct {
	From NodeKind
	To   NodeKind
}

// beliefPairs covers the {leaf,internal} x {leaf,internal} product shared
// by the semantic relationship edges.
var beliefPairs = []kindPair{
	{KindLeaf, KindLeaf},
	{KindLeaf, KindInternal},
	{KindInternal, KindLeaf},
	{KindInternal, KindInternal},
}

// edgeConstraints is the static legality table: edge type to permitted
// (from, to) kind pairs. Edge creation consults this table, never string
// assembly against the storage layer.
var edgeConstraints = map[EdgeType][]kindPair{
	EdgeContains: {
		{KindModule, KindInternal},
		{KindModule, KindLeaf},
		{KindInternal, KindInternal},
		{KindInternal, KindLeaf},
	},
	EdgeSupports:    beliefPairs,
	EdgeContradicts: beliefPairs,
	EdgeEnables:     beliefPairs,
	EdgeSupersedes:  beliefPairs,
	EdgeSimilarTo:   beliefPairs,
	EdgeReferences: {
		{KindOrganization, KindModule},
		{KindOrganization, KindInternal},
		{KindOrganization, KindLeaf},
	},
}

// ValidateEdgeKinds checks edge legality in two steps: the type must be
// known, then the (from, to) kind pair must be permitted for that type.
func ValidateEdgeKinds(t EdgeType, from, to NodeKind) error {
	pairs, ok := edgeConstraints[t]
	if !ok {
		return pkgerrors.NewValidationError(fmt.Sprintf("unknown edge type %q", t))
	}
	for _, p := range pairs {
		if p.From == from && p.To == to {
			return nil
		}
	}
	return pkgerrors.NewValidationError(
		fmt.Sprintf("%s edge from %s to %s cannot be created", t, from, to))
}

// Direction tags a related node relative to the queried node.
type Direction string

const (
	DirectionOutgoing Direction = "outgoing"
	DirectionIncoming Direction = "incoming"
)

// Edge is a typed relationship between two nodes. Rationale is only
// meaningful for SUPPORTS/CONTRADICTS; SUPERSEDES and REFERENCES carry
// timestamps only.
type Edge struct {
	ID         string
	FromID     string
	ToID       string
	Type       EdgeType
	Status     NodeStatus
	Confidence float64
	Rationale  string
	CreatedAt  time.Time
}

// EdgeProps carries the optional per-edge properties supplied at creation.
type EdgeProps struct {
	Confidence float64
	Rationale  string
}

// NewEdge validates and builds an edge between two already-resolved nodes.
func NewEdge(from, to *Node, t EdgeType, props EdgeProps) (*Edge, error) {
	if from == nil || to == nil {
		return nil, pkgerrors.NewNotFoundError("edge endpoint")
	}
	if err := ValidateEdgeKinds(t, from.Kind, to.Kind); err != nil {
		return nil, err
	}
	if err := validateConfidence(props.Confidence); err != nil {
		return nil, err
	}

	return &Edge{
		ID:         uuid.New().String(),
		FromID:     from.ID,
		ToID:       to.ID,
		Type:       t,
		Status:     StatusConfirmed,
		Confidence: props.Confidence,
		Rationale:  props.Rationale,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// Related pairs a node with its direction relative to the queried node.
type Related struct {
	Node      *Node
	Direction Direction
	EdgeType  EdgeType
}
