package lifecycleservice

import (
	"fmt"

	"agrostock/internal/domain"
)

// BuildNotifications projeta os conjuntos da avaliação em notificações para o painel.
func BuildNotifications(ev Evaluation) []domain.Notification {
	out := make([]domain.Notification, 0, len(ev.Expired)+len(ev.LowStock))

	for _, p := range ev.Expired {
		msg := fmt.Sprintf("O produto %s está vencido.", p.Name)
		if p.ExpiryDate != nil {
			msg = fmt.Sprintf("O produto %s venceu em %s.", p.Name, p.ExpiryDate.Format("02/01/2006"))
		}
		out = append(out, domain.Notification{
			ID:      fmt.Sprintf("vencido-%d", p.ID),
			Type:    domain.NotificationExpired,
			Title:   "Produto vencido",
			Message: msg,
			Link:    domain.ProductLink(p.ID),
		})
	}

	for _, p := range ev.LowStock {
		n := domain.Notification{
			ID:    fmt.Sprintf("estoque-%d", p.ID),
			Type:  domain.NotificationLowStock,
			Title: "Estoque baixo",
			Link:  domain.ProductLink(p.ID),
		}
		current, minimum := 0, domain.DefaultMinimumStock
		if p.Stock != nil {
			current, minimum = p.Stock.Current, p.Stock.MinimumOrDefault()
		}
		if domain.ClassifyStock(p.Stock) == domain.SeverityCritical {
			n.Type = domain.NotificationCriticalStock
			n.Title = "Estoque crítico"
		}
		n.Message = fmt.Sprintf("O produto %s tem %d unidade(s) em estoque (mínimo %d).", p.Name, current, minimum)
		out = append(out, n)
	}

	return out
}
