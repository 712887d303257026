package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graphmem-backend/domain/graph"
	pkgerrors "graphmem-backend/pkg/errors"
)

func TestProposition_Validate(t *testing.T) {
	p := Proposition{
		Text:       "User ran a 5K in 35 minutes",
		Purpose:    "observation",
		Confidence: 0.95,
		SourceType: graph.SourceExplicit,
		StructuredData: map[string]interface{}{
			"distance_km": 5.0,
			"duration":    "35:00",
		},
	}
	require.NoError(t, p.Validate())
	assert.Equal(t, graph.PurposeObservation, p.Purpose)
}

func TestProposition_Validate_LenientPurpose(t *testing.T) {
	p := Proposition{Text: "some claim", Purpose: "hunch", Confidence: 0.5}
	require.NoError(t, p.Validate())
	assert.Equal(t, graph.PurposeObservation, p.Purpose)
}

func TestProposition_Validate_DefaultSourceType(t *testing.T) {
	p := Proposition{Text: "some claim", Confidence: 0.5}
	require.NoError(t, p.Validate())
	assert.Equal(t, graph.SourceExplicit, p.SourceType)
}

func TestProposition_Validate_Invalid(t *testing.T) {
	tests := []struct {
		name string
		prop Proposition
	}{
		{"empty text", Proposition{Text: "  ", Confidence: 0.5}},
		{"confidence out of range", Proposition{Text: "claim", Confidence: 1.1}},
		{"bad source type", Proposition{Text: "claim", Confidence: 0.5, SourceType: "guessed"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.prop.Validate()
			require.Error(t, err)
			assert.True(t, pkgerrors.IsValidation(err))
		})
	}
}
