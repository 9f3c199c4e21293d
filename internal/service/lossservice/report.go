package lossservice

import (
	"fmt"

	"agrostock/internal/domain"
	apperror "agrostock/internal/errors"
)

// SelectForPeriod filtra o histórico para o relatório do período pedido.
// MENSAL usa mês (1-12) e ano; ANUAL usa só o ano. Período sem registros
// retorna EmptyDatasetError, que deve chegar ao usuário em vez de um relatório vazio.
func SelectForPeriod(history []domain.LossRecord, mode domain.ReportMode, month, year int) ([]domain.LossRecord, error) {
	if year < 1 {
		return nil, apperror.NewValidationError("O ano do relatório deve ser informado.")
	}

	var match func(domain.LossRecord) bool
	var period string

	switch mode {
	case domain.ReportMonthly:
		if month < 1 || month > 12 {
			return nil, apperror.NewValidationError("O mês do relatório deve estar entre 1 e 12.")
		}
		period = fmt.Sprintf("%02d/%d", month, year)
		match = func(l domain.LossRecord) bool {
			d := domain.CivilDate(l.LossDate)
			return d.Year() == year && int(d.Month()) == month
		}
	case domain.ReportYearly:
		period = fmt.Sprintf("%d", year)
		match = func(l domain.LossRecord) bool {
			return domain.CivilDate(l.LossDate).Year() == year
		}
	default:
		return nil, apperror.NewValidationError(fmt.Sprintf("Modo de relatório desconhecido: %q.", mode))
	}

	selected := make([]domain.LossRecord, 0)
	for _, l := range history {
		if match(l) {
			selected = append(selected, l)
		}
	}

	if len(selected) == 0 {
		return nil, apperror.NewEmptyDatasetError(fmt.Sprintf("Nenhuma perda registrada em %s.", period))
	}
	return selected, nil
}
