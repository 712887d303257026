package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "graphmem-backend/pkg/errors"
)

func TestNewModuleNode(t *testing.T) {
	node, err := NewModuleNode("Marathon training", "Sub-3:30 marathon in spring", Intentions{
		Primary:          "run a sub-3:30 marathon",
		Secondary:        []string{"stay injury free"},
		DefinitionOfDone: "official race result under 3:30",
	}, 8, 2)

	require.NoError(t, err)
	assert.Equal(t, KindModule, node.Kind)
	assert.NotEmpty(t, node.ID)
	require.NotNil(t, node.Module)
	assert.True(t, node.Module.Active)
	assert.Equal(t, 8, node.Module.Priority)
	assert.Equal(t, node.CreatedAt, node.Module.DeclaredAt)
	assert.Nil(t, node.Belief)
	assert.Nil(t, node.Org)
	assert.True(t, node.IsContainer())
}

func TestNewModuleNode_EmptyTitle(t *testing.T) {
	_, err := NewModuleNode("  ", "content", Intentions{Primary: "p"}, 0, 0)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestNewLeafNode(t *testing.T) {
	node, err := NewLeafNode("user-runs-5k", "User ran a 5K in 35 minutes", "conversation",
		"observation", SourceExplicit, "", 0.9)

	require.NoError(t, err)
	assert.Equal(t, KindLeaf, node.Kind)
	require.NotNil(t, node.Belief)
	assert.Equal(t, StatusConfirmed, node.Belief.Status)
	assert.Equal(t, PurposeObservation, node.Belief.Purpose)
	assert.Equal(t, SourceExplicit, node.Belief.SourceType)
	assert.Equal(t, 0.9, node.Belief.Confidence)
	assert.Equal(t, node.CreatedAt, node.Belief.RecordedAt)
	assert.False(t, node.IsContainer())
}

func TestNewLeafNode_PurposeCoercion(t *testing.T) {
	tests := []struct {
		name    string
		purpose string
		want    Purpose
	}{
		{"known purpose kept", "decision", PurposeDecision},
		{"case and whitespace normalized", "  BELIEF ", PurposeBelief},
		{"unknown coerced to observation", "musing", PurposeObservation},
		{"empty coerced to observation", "", PurposeObservation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := NewLeafNode("t", "content", "conversation", tt.purpose, SourceExplicit, "", 0.5)
			require.NoError(t, err)
			assert.Equal(t, tt.want, node.Belief.Purpose)
		})
	}
}

func TestNewLeafNode_Invalid(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		sourceType SourceType
		confidence float64
	}{
		{"empty content", "  ", SourceExplicit, 0.5},
		{"confidence above one", "content", SourceExplicit, 1.5},
		{"negative confidence", "content", SourceExplicit, -0.1},
		{"bad source type", "content", "guessed", 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLeafNode("t", tt.content, "conversation", "observation", tt.sourceType, "", tt.confidence)
			require.Error(t, err)
			assert.True(t, pkgerrors.IsValidation(err))
		})
	}
}

func TestNewInternalNode(t *testing.T) {
	node, err := NewInternalNode("training-consistency", "User trains consistently", "system",
		"pattern", SourceInferred, ValencePositive, 0.7)

	require.NoError(t, err)
	assert.Equal(t, KindInternal, node.Kind)
	assert.Equal(t, PurposePattern, node.Belief.Purpose)
	assert.Equal(t, ValencePositive, node.Belief.Valence)
	assert.True(t, node.IsContainer())
}

func TestNewOrganizationNode(t *testing.T) {
	node, err := NewOrganizationNode("cluster-7", "compression of running facts", OrgCompression, 0.6)
	require.NoError(t, err)
	assert.Equal(t, KindOrganization, node.Kind)
	require.NotNil(t, node.Org)
	assert.Equal(t, OrgCompression, node.Org.Kind)
	assert.False(t, node.IsContainer())

	_, err = NewOrganizationNode("c", "c", OrgCompression, 2.0)
	assert.True(t, pkgerrors.IsValidation(err))
}
