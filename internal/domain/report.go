package domain

import "strings"

// ReportMode define o recorte de período do relatório de perdas.
type ReportMode string

const (
	ReportMonthly ReportMode = "MENSAL"
	ReportYearly  ReportMode = "ANUAL"
)

// ParseReportMode aceita o modo sem diferenciar maiúsculas.
func ParseReportMode(s string) (ReportMode, bool) {
	switch ReportMode(strings.ToUpper(strings.TrimSpace(s))) {
	case ReportMonthly:
		return ReportMonthly, true
	case ReportYearly:
		return ReportYearly, true
	}
	return "", false
}
