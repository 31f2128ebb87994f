package valueobjects

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNodeIDFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain ID", input: "k-123", want: "k-123"},
		{name: "whitespace trimmed", input: "  k-123  ", want: "k-123"},
		{name: "empty", input: "", wantErr: true},
		{name: "whitespace only", input: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := NewNodeIDFromString(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, id.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id.String())
			assert.False(t, id.IsZero())
		})
	}
}

func TestNodeID_Equals(t *testing.T) {
	a, err := NewNodeIDFromString("k1")
	require.NoError(t, err)
	b, err := NewNodeIDFromString("k1")
	require.NoError(t, err)
	c, err := NewNodeIDFromString("k2")
	require.NoError(t, err)

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
	assert.False(t, a.Equals(NodeID{}))
}

func TestNewRelationshipID(t *testing.T) {
	id := NewRelationshipID()

	assert.False(t, id.IsZero())
	_, err := uuid.Parse(id.String())
	assert.NoError(t, err)

	other := NewRelationshipID()
	assert.False(t, id.Equals(other))
}

func TestNewRelationshipIDFromString(t *testing.T) {
	id, err := NewRelationshipIDFromString("rel-1")
	require.NoError(t, err)
	assert.Equal(t, "rel-1", id.String())

	_, err = NewRelationshipIDFromString("")
	assert.Error(t, err)
}
