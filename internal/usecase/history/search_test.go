package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravity-notes/gravity/internal/domain/entities"
)

func searchRecord(title, transcript string, keywords ...string) entities.AnalysisRecord {
	return entities.AnalysisRecord{
		ExecutiveSummary: entities.ExecutiveSummary{Title: title},
		Transcript:       transcript,
		Metadata:         entities.Metadata{Keywords: keywords},
	}
}

func TestMatchesSearch(t *testing.T) {
	record := searchRecord("Planificación Q3", "Hay que enviar el presupuesto antes del viernes", "presupuesto", "entrega")

	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{"empty query matches", "", true},
		{"whitespace-only query matches", "   ", true},
		{"term in title", "planificación", true},
		{"term in transcript", "viernes", true},
		{"term in keywords", "entrega", true},
		{"case insensitive", "PRESUPUESTO", true},
		{"every term must match", "presupuesto viernes", true},
		{"one missing term fails", "presupuesto sábado", false},
		{"no match anywhere", "vacaciones", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesSearch(record, tt.query))
		})
	}
}

func TestFilterRecordsPreservesOrder(t *testing.T) {
	records := []entities.AnalysisRecord{
		searchRecord("Compra semanal", "pan y leche"),
		searchRecord("Reunión legal", "revisar contrato"),
		searchRecord("Compra mensual", "pan integral"),
	}

	filtered := FilterRecords(records, "pan")
	require.Len(t, filtered, 2)
	assert.Equal(t, "Compra semanal", filtered[0].ExecutiveSummary.Title)
	assert.Equal(t, "Compra mensual", filtered[1].ExecutiveSummary.Title)

	assert.Len(t, FilterRecords(records, ""), 3)
	assert.Empty(t, FilterRecords(records, "inexistente"))
}
