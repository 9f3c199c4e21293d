package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsExpired(t *testing.T) {
	asOf := time.Date(2024, time.June, 10, 23, 59, 0, 0, time.UTC)
	date := func(y int, m time.Month, d, h int) *time.Time {
		v := time.Date(y, m, d, h, 0, 0, 0, time.UTC)
		return &v
	}

	cases := []struct {
		name     string
		validity *time.Time
		want     bool
	}{
		{"sem validade nunca vence", nil, false},
		{"mesmo dia conta como vencido", date(2024, time.June, 10, 0), true},
		{"mesmo dia com hora posterior", date(2024, time.June, 10, 23), true},
		{"dia anterior", date(2024, time.June, 9, 12), true},
		{"dia seguinte", date(2024, time.June, 11, 0), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsExpired(tc.validity, asOf))
		})
	}
}

func TestIsExpired_UsesCalendarDateOfAsOfLocation(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	// 01:00 UTC de 11/06 ainda é 22:00 de 10/06 em BRT
	asOf := time.Date(2024, time.June, 11, 1, 0, 0, 0, time.UTC).In(loc)
	validity := time.Date(2024, time.June, 11, 0, 0, 0, 0, time.UTC)

	assert.False(t, IsExpired(&validity, asOf))
}

func TestClassifyStock(t *testing.T) {
	minOf := func(v int) *int { return &v }

	cases := []struct {
		name  string
		stock *StockRecord
		want  StockSeverity
	}{
		{"sem registro", nil, SeverityNone},
		{"zero é crítico", &StockRecord{Current: 0}, SeverityCritical},
		{"piso é crítico", &StockRecord{Current: 5, Minimum: minOf(10)}, SeverityCritical},
		{"crítico vence mínimo menor que o piso", &StockRecord{Current: 4, Minimum: minOf(2)}, SeverityCritical},
		{"baixo com mínimo padrão", &StockRecord{Current: 10}, SeverityLow},
		{"normal com mínimo padrão", &StockRecord{Current: 11}, SeverityNormal},
		{"baixo com mínimo configurado", &StockRecord{Current: 20, Minimum: minOf(20)}, SeverityLow},
		{"mínimo zero", &StockRecord{Current: 6, Minimum: minOf(0)}, SeverityNormal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyStock(tc.stock))
		})
	}
}

func TestClassifyStock_CriticalRegardlessOfMinimum(t *testing.T) {
	for current := 0; current <= CriticalStockFloor; current++ {
		for minimum := 0; minimum <= 20; minimum++ {
			m := minimum
			got := ClassifyStock(&StockRecord{Current: current, Minimum: &m})
			assert.Equal(t, SeverityCritical, got, "atual=%d minimo=%d", current, minimum)
		}
	}
}

func TestProductIDFromLink(t *testing.T) {
	id, err := ProductIDFromLink(ProductLink(123))
	require.NoError(t, err)
	assert.Equal(t, int64(123), id)

	id, err = ProductIDFromLink("/estoquista/produtos/77/")
	require.NoError(t, err)
	assert.Equal(t, int64(77), id)

	_, err = ProductIDFromLink("/estoquista/produtos/abc")
	assert.Error(t, err)

	_, err = ProductIDFromLink("sem-barra")
	assert.Error(t, err)
}

func TestParseReportMode(t *testing.T) {
	mode, ok := ParseReportMode(" mensal ")
	assert.True(t, ok)
	assert.Equal(t, ReportMonthly, mode)

	mode, ok = ParseReportMode("ANUAL")
	assert.True(t, ok)
	assert.Equal(t, ReportYearly, mode)

	_, ok = ParseReportMode("semanal")
	assert.False(t, ok)
}

func TestProductFilter_Matches(t *testing.T) {
	p := Product{Name: "Alface Crespa", Category: "Folhosas", IsActive: false}

	assert.True(t, ProductFilter{}.Matches(p))
	assert.False(t, ProductFilter{ActiveOnly: true}.Matches(p))
	assert.True(t, ProductFilter{Name: "alface"}.Matches(p))
	assert.True(t, ProductFilter{Category: "folhosas"}.Matches(p))
	assert.False(t, ProductFilter{Category: "Frutas"}.Matches(p))
}
