// Package lossservice concentra o histórico de perdas (manuais e por vencimento),
// a agregação por período e o recorte dos relatórios.
package lossservice

import (
	"sort"
	"time"

	"agrostock/internal/domain"
)

// BuildHistory junta as perdas manuais com as perdas sintéticas derivadas dos produtos
// vencidos e ativos do snapshot (visão anterior a qualquer desativação).
// As sintéticas são recalculadas a cada leitura e numeradas pela posição na lista de
// vencidos; a dataPerda delas é a meia-noite da validade no fuso de asOf. O resultado vem ordenado por dataPerda decrescente; empates mantêm a
// ordem de entrada (manuais primeiro).
func BuildHistory(manual []domain.LossRecord, snapshot []domain.Product, asOf time.Time) []domain.LossRecord {
	history := make([]domain.LossRecord, 0, len(manual))
	for _, l := range manual {
		if l.Origin == "" {
			l.Origin = domain.LossManual
		}
		history = append(history, l)
	}

	loc := asOf.Location()
	seq := 0
	for _, p := range snapshot {
		if !p.IsActive || !domain.IsExpired(p.ExpiryDate, asOf) {
			continue
		}
		seq++
		quantity := 0
		if p.Stock != nil {
			quantity = p.Stock.Current
		}
		history = append(history, domain.LossRecord{
			Origin:    domain.LossSynthetic,
			Sequence:  seq,
			ProductID: p.ID,
			Quantity:  quantity,
			Reason:    domain.ExpiryLossReason,
			LossDate:  expiryMidnight(*p.ExpiryDate, loc),
		})
	}

	sort.SliceStable(history, func(i, j int) bool {
		return history[i].LossDate.After(history[j].LossDate)
	})
	return history
}

// expiryMidnight leva a data de calendário da validade para a meia-noite em loc.
func expiryMidnight(expiry time.Time, loc *time.Location) time.Time {
	y, m, d := expiry.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
