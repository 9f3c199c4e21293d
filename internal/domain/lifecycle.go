package domain

import (
	"strings"
	"time"
)

const (
	// CriticalStockFloor é o piso fixo do sistema: com estoque <= 5 o produto é desativado,
	// independente do mínimo configurado.
	CriticalStockFloor = 5
	// DefaultMinimumStock é usado quando o produto não tem quantidadeMinima.
	DefaultMinimumStock = 10
)

// StockSeverity classifica o nível de estoque de um produto.
type StockSeverity string

const (
	SeverityNone     StockSeverity = "NONE"
	SeverityNormal   StockSeverity = "NORMAL"
	SeverityLow      StockSeverity = "LOW"
	SeverityCritical StockSeverity = "CRITICAL"
)

// CivilDate reduz um instante à sua data de calendário (meia-noite UTC do mesmo
// ano/mês/dia no fuso do próprio valor).
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsExpired informa se a validade já chegou em asOf. Só datas de calendário são
// comparadas; o próprio dia da validade já conta como vencido.
func IsExpired(validity *time.Time, asOf time.Time) bool {
	if validity == nil {
		return false
	}
	return !CivilDate(*validity).After(CivilDate(asOf))
}

// ClassifyStock devolve a severidade do estoque. CRITICAL tem precedência sobre LOW.
func ClassifyStock(stock *StockRecord) StockSeverity {
	if stock == nil {
		return SeverityNone
	}
	if stock.Current <= CriticalStockFloor {
		return SeverityCritical
	}
	if stock.Current <= stock.MinimumOrDefault() {
		return SeverityLow
	}
	return SeverityNormal
}

// IsLowOrCritical agrupa as severidades que geram alerta de estoque.
func (s StockSeverity) IsLowOrCritical() bool {
	return s == SeverityLow || s == SeverityCritical
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
