package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "graphmem-backend/pkg/errors"
)

func TestValidateEdgeKinds(t *testing.T) {
	tests := []struct {
		name     string
		edgeType EdgeType
		from     NodeKind
		to       NodeKind
		wantErr  bool
	}{
		{"module contains leaf", EdgeContains, KindModule, KindLeaf, false},
		{"module contains internal", EdgeContains, KindModule, KindInternal, false},
		{"internal contains leaf", EdgeContains, KindInternal, KindLeaf, false},
		{"leaf cannot contain", EdgeContains, KindLeaf, KindLeaf, true},
		{"nothing contains a module", EdgeContains, KindInternal, KindModule, true},
		{"leaf supports leaf", EdgeSupports, KindLeaf, KindLeaf, false},
		{"internal contradicts leaf", EdgeContradicts, KindInternal, KindLeaf, false},
		{"module cannot support", EdgeSupports, KindModule, KindLeaf, true},
		{"leaf supersedes internal", EdgeSupersedes, KindLeaf, KindInternal, false},
		{"similar-to between leaves", EdgeSimilarTo, KindLeaf, KindLeaf, false},
		{"similar-to cannot touch modules", EdgeSimilarTo, KindLeaf, KindModule, true},
		{"org references leaf", EdgeReferences, KindOrganization, KindLeaf, false},
		{"leaf cannot reference", EdgeReferences, KindLeaf, KindOrganization, true},
		{"unknown edge type", EdgeType("FRIENDS_WITH"), KindLeaf, KindLeaf, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEdgeKinds(tt.edgeType, tt.from, tt.to)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, pkgerrors.IsValidation(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEdgeType_IsRelationship(t *testing.T) {
	for _, rel := range RelationshipEdgeTypes() {
		assert.True(t, rel.IsRelationship(), string(rel))
	}
	assert.False(t, EdgeContains.IsRelationship())
	assert.False(t, EdgeReferences.IsRelationship())
}

func TestNewEdge(t *testing.T) {
	from, err := NewLeafNode("a", "claim a", "conversation", "observation", SourceExplicit, "", 0.9)
	require.NoError(t, err)
	to, err := NewLeafNode("b", "claim b", "conversation", "observation", SourceExplicit, "", 0.9)
	require.NoError(t, err)

	edge, err := NewEdge(from, to, EdgeSupports, EdgeProps{Confidence: 0.8, Rationale: "same topic"})
	require.NoError(t, err)
	assert.NotEmpty(t, edge.ID)
	assert.Equal(t, from.ID, edge.FromID)
	assert.Equal(t, to.ID, edge.ToID)
	assert.Equal(t, StatusConfirmed, edge.Status)
	assert.Equal(t, 0.8, edge.Confidence)
}

func TestNewEdge_Invalid(t *testing.T) {
	leaf, err := NewLeafNode("a", "claim a", "conversation", "observation", SourceExplicit, "", 0.9)
	require.NoError(t, err)
	module, err := NewModuleNode("m", "module", Intentions{Primary: "p"}, 5, 1)
	require.NoError(t, err)

	_, err = NewEdge(nil, leaf, EdgeSupports, EdgeProps{})
	assert.True(t, pkgerrors.IsNotFound(err))

	_, err = NewEdge(leaf, module, EdgeSupports, EdgeProps{})
	assert.True(t, pkgerrors.IsValidation(err))

	_, err = NewEdge(leaf, leaf, EdgeSupports, EdgeProps{Confidence: 1.2})
	assert.True(t, pkgerrors.IsValidation(err))
}
