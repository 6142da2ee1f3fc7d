// pkg/core/state.go
package core

import "time"

// GroupIndex maps group labels to their markers, keeping the order in
// which labels were first seen.
type GroupIndex struct {
	labels  []string
	members map[string][]MarkerDescriptor
}

// NewGroupIndex returns an empty index.
func NewGroupIndex() *GroupIndex {
	return &GroupIndex{members: make(map[string][]MarkerDescriptor)}
}

// Add appends m to its group, creating the group on first sight.
func (g *GroupIndex) Add(m MarkerDescriptor) {
	if _, ok := g.members[m.Group]; !ok {
		g.labels = append(g.labels, m.Group)
	}
	g.members[m.Group] = append(g.members[m.Group], m)
}

// Labels returns the group labels in first-seen order.
func (g *GroupIndex) Labels() []string {
	out := make([]string, len(g.labels))
	copy(out, g.labels)
	return out
}

// Members returns the markers of one group in input order.
func (g *GroupIndex) Members(label string) []MarkerDescriptor {
	return g.members[label]
}

// Len returns the number of groups.
func (g *GroupIndex) Len() int {
	return len(g.labels)
}

// Size returns the total number of markers across all groups.
func (g *GroupIndex) Size() int {
	n := 0
	for _, members := range g.members {
		n += len(members)
	}
	return n
}

// Summaries returns one legend entry per group. The legend color is the
// color of the first member, or fallback for an empty group.
func (g *GroupIndex) Summaries(fallback string) []GroupSummary {
	out := make([]GroupSummary, 0, len(g.labels))
	for _, label := range g.labels {
		members := g.members[label]
		color := fallback
		if len(members) > 0 {
			color = members[0].Color
		}
		out = append(out, GroupSummary{Name: label, Count: len(members), Color: color})
	}
	return out
}

// BoundingSet holds the [lat, lng] pair of every accepted marker.
type BoundingSet [][2]float64

// MapState is everything one import produces. It is built from scratch on
// every import and replaced as a whole.
type MapState struct {
	Source        string
	ImportedAt    time.Time
	Accepted      []MarkerDescriptor
	Groups        *GroupIndex
	Bounds        BoundingSet
	AcceptedCount int
	TotalCount    int
}

// NewMapState returns an empty state for source.
func NewMapState(source string) *MapState {
	return &MapState{
		Source:     source,
		ImportedAt: time.Now().UTC(),
		Accepted:   []MarkerDescriptor{},
		Groups:     NewGroupIndex(),
		Bounds:     BoundingSet{},
	}
}

// RejectedCount returns how many input records were skipped.
func (s *MapState) RejectedCount() int {
	return s.TotalCount - s.AcceptedCount
}

// Empty reports whether no marker was accepted.
func (s *MapState) Empty() bool {
	return s == nil || s.AcceptedCount == 0
}
