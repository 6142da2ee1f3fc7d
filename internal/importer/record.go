package importer

import (
	"github.com/OCAP2/csvmap/internal/normalize"
	"github.com/OCAP2/csvmap/pkg/core"
)

// RecordOf converts a state into its archive form.
func RecordOf(state *core.MapState) *core.ImportRecord {
	markers := make([]core.MarkerDescriptor, len(state.Accepted))
	copy(markers, state.Accepted)
	return &core.ImportRecord{
		ImportSummary: core.ImportSummary{
			Source:        state.Source,
			ImportedAt:    state.ImportedAt,
			AcceptedCount: state.AcceptedCount,
			TotalCount:    state.TotalCount,
			Groups:        state.Groups.Summaries(normalize.Categorical.First()),
		},
		Markers: markers,
	}
}
