package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupIndex_FirstSeenOrder(t *testing.T) {
	g := NewGroupIndex()
	g.Add(MarkerDescriptor{Index: 0, Group: "B", Color: "#111111"})
	g.Add(MarkerDescriptor{Index: 1, Group: "A", Color: "#222222"})
	g.Add(MarkerDescriptor{Index: 2, Group: "B", Color: "#333333"})

	assert.Equal(t, []string{"B", "A"}, g.Labels())
	assert.Equal(t, 2, g.Len())
	assert.Equal(t, 3, g.Size())

	b := g.Members("B")
	require.Len(t, b, 2)
	assert.Equal(t, 0, b[0].Index)
	assert.Equal(t, 2, b[1].Index)
}

func TestGroupIndex_LabelsIsACopy(t *testing.T) {
	g := NewGroupIndex()
	g.Add(MarkerDescriptor{Group: "A"})

	labels := g.Labels()
	labels[0] = "mutated"

	assert.Equal(t, []string{"A"}, g.Labels())
}

func TestGroupIndex_Summaries(t *testing.T) {
	g := NewGroupIndex()
	g.Add(MarkerDescriptor{Group: "Parks", Color: "#2ecc71"})
	g.Add(MarkerDescriptor{Group: "Parks", Color: "#e74c3c"})
	g.Add(MarkerDescriptor{Group: "Cafes", Color: "#3498db"})

	got := g.Summaries("#e74c3c")
	assert.Equal(t, []GroupSummary{
		{Name: "Parks", Count: 2, Color: "#2ecc71"},
		{Name: "Cafes", Count: 1, Color: "#3498db"},
	}, got)
}

func TestMapState_Counts(t *testing.T) {
	s := NewMapState("points.csv")
	assert.True(t, s.Empty())
	assert.NotNil(t, s.Groups)
	assert.Empty(t, s.Bounds)

	s.TotalCount = 5
	s.AcceptedCount = 3
	assert.Equal(t, 2, s.RejectedCount())
	assert.False(t, s.Empty())

	var nilState *MapState
	assert.True(t, nilState.Empty())
}
