package lossservice_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrostock/internal/domain"
	"agrostock/internal/service/lossservice"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func TestBuildHistory_MergesManualAndSynthetic(t *testing.T) {
	manual := []domain.LossRecord{
		{Origin: domain.LossManual, ID: 1, ProductID: 7, Quantity: 5, Reason: domain.ReasonDamage, LossDate: date(2024, time.May, 1)},
	}
	snapshot := []domain.Product{
		{ID: 3, IsActive: true, ExpiryDate: datePtr(2024, time.June, 1), Stock: &domain.StockRecord{Current: 2}},
	}

	history := lossservice.BuildHistory(manual, snapshot, date(2024, time.June, 15))

	require.Len(t, history, 2)

	first := history[0]
	assert.True(t, first.IsSynthetic())
	assert.Equal(t, 1, first.Sequence)
	assert.Equal(t, int64(3), first.ProductID)
	assert.Equal(t, 2, first.Quantity)
	assert.Equal(t, domain.ExpiryLossReason, first.Reason)
	assert.Equal(t, date(2024, time.June, 1), first.LossDate)
	assert.Equal(t, int64(0), first.ID)

	assert.Equal(t, int64(1), history[1].ID)
	assert.False(t, history[1].IsSynthetic())
}

func TestBuildHistory_OnlyExpiredAndActiveProductsGenerateLosses(t *testing.T) {
	asOf := date(2024, time.June, 15)
	snapshot := []domain.Product{
		{ID: 1, IsActive: true, ExpiryDate: datePtr(2024, time.June, 20), Stock: &domain.StockRecord{Current: 9}}, // ainda válido
		{ID: 2, IsActive: false, ExpiryDate: datePtr(2024, time.June, 1), Stock: &domain.StockRecord{Current: 9}}, // inativo
		{ID: 3, IsActive: true, Stock: &domain.StockRecord{Current: 9}},                                          // sem validade
		{ID: 4, IsActive: true, ExpiryDate: datePtr(2024, time.June, 15)},                                         // vence hoje, sem estoque
		{ID: 5, IsActive: true, ExpiryDate: datePtr(2024, time.June, 2), Stock: &domain.StockRecord{Current: 1}},
	}

	history := lossservice.BuildHistory(nil, snapshot, asOf)

	require.Len(t, history, 2)
	assert.Equal(t, int64(4), history[0].ProductID)
	assert.Equal(t, 0, history[0].Quantity)
	assert.Equal(t, 1, history[0].Sequence)
	assert.Equal(t, int64(5), history[1].ProductID)
	assert.Equal(t, 2, history[1].Sequence)
	assert.NotEqual(t, history[0].Key(), history[1].Key())
}

func TestBuildHistory_StableOnEqualDates(t *testing.T) {
	same := date(2024, time.March, 3)
	manual := []domain.LossRecord{
		{ID: 10, Quantity: 1, LossDate: same},
		{ID: 11, Quantity: 1, LossDate: same},
		{ID: 12, Quantity: 1, LossDate: date(2024, time.March, 4)},
	}

	history := lossservice.BuildHistory(manual, nil, date(2024, time.March, 5))

	require.Len(t, history, 3)
	assert.Equal(t, int64(12), history[0].ID)
	assert.Equal(t, int64(10), history[1].ID)
	assert.Equal(t, int64(11), history[2].ID)
	assert.Equal(t, domain.LossManual, history[1].Origin)
}

func TestBuildHistory_SyntheticDisappearsWhenProductIsInactive(t *testing.T) {
	p := domain.Product{ID: 1, IsActive: true, ExpiryDate: datePtr(2024, time.January, 1), Stock: &domain.StockRecord{Current: 4}}
	asOf := date(2024, time.February, 1)

	assert.Len(t, lossservice.BuildHistory(nil, []domain.Product{p}, asOf), 1)

	p.IsActive = false
	assert.Empty(t, lossservice.BuildHistory(nil, []domain.Product{p}, asOf))
}

func TestBuildHistory_SyntheticDateFollowsAsOfLocation(t *testing.T) {
	saoPaulo := time.FixedZone("BRT", -3*60*60)
	asOf := time.Date(2024, time.June, 10, 9, 0, 0, 0, saoPaulo)

	// 22h de 31/05 em BRT já é 01/06 em UTC
	manual := []domain.LossRecord{
		{ID: 1, Quantity: 4, Reason: domain.ReasonDamage, LossDate: time.Date(2024, time.May, 31, 22, 0, 0, 0, saoPaulo)},
	}
	// DATE do Postgres chega como meia-noite UTC
	snapshot := []domain.Product{
		{ID: 9, IsActive: true, ExpiryDate: datePtr(2024, time.June, 1), Stock: &domain.StockRecord{Current: 3}},
	}

	history := lossservice.BuildHistory(manual, snapshot, asOf)

	require.Len(t, history, 2)
	assert.True(t, history[0].IsSynthetic())
	assert.Equal(t, int64(1), history[1].ID)

	synthetic := history[0].LossDate
	assert.True(t, synthetic.Equal(time.Date(2024, time.June, 1, 0, 0, 0, 0, saoPaulo)))
	assert.Equal(t, saoPaulo, synthetic.Location())
	assert.Equal(t, "2024-06-01", synthetic.Format("2006-01-02"))
	assert.Equal(t, "2024-05-31", history[1].LossDate.Format("2006-01-02"))
}
