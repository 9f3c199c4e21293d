package lossservice

import (
	"sort"
	"time"

	"agrostock/internal/domain"
)

// DailyWindowDays é o tamanho da janela diária: [hoje-30, hoje], 31 dias.
const DailyWindowDays = 30

const dateLayout = "2006-01-02"

// AnnualTotal é o total de perdas de um ano.
type AnnualTotal struct {
	Year  int `json:"ano"`
	Total int `json:"total"`
}

// DailyTotal é o total de perdas de um dia da janela.
type DailyTotal struct {
	Date  string `json:"data"`
	Total int    `json:"total"`
}

// Aggregates reúne as três projeções do painel de perdas.
type Aggregates struct {
	Year    int           `json:"ano"`
	Monthly [12]int       `json:"mensal"` // índice 0 = janeiro do ano corrente
	Annual  []AnnualTotal `json:"anual"`  // ordem crescente de ano
	Daily   []DailyTotal  `json:"diario"` // sempre DailyWindowDays+1 dias, do mais antigo ao atual
}

// Aggregate percorre o histórico uma única vez e monta as séries mensal (ano de now),
// anual (todos os anos) e diária (últimos 31 dias, zerados quando não há perda).
func Aggregate(history []domain.LossRecord, now time.Time) Aggregates {
	today := domain.CivilDate(now)
	start := today.AddDate(0, 0, -DailyWindowDays)

	agg := Aggregates{
		Year:   today.Year(),
		Annual: make([]AnnualTotal, 0),
		Daily:  make([]DailyTotal, DailyWindowDays+1),
	}
	for i := range agg.Daily {
		agg.Daily[i].Date = start.AddDate(0, 0, i).Format(dateLayout)
	}

	annual := make(map[int]int)
	for _, l := range history {
		d := domain.CivilDate(l.LossDate)

		annual[d.Year()] += l.Quantity

		if d.Year() == today.Year() {
			agg.Monthly[d.Month()-1] += l.Quantity
		}

		if !d.Before(start) && !d.After(today) {
			idx := int(d.Sub(start).Hours() / 24)
			agg.Daily[idx].Total += l.Quantity
		}
	}

	for year, total := range annual {
		agg.Annual = append(agg.Annual, AnnualTotal{Year: year, Total: total})
	}
	sort.Slice(agg.Annual, func(i, j int) bool { return agg.Annual[i].Year < agg.Annual[j].Year })

	return agg
}
