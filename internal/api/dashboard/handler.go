package dashboard

import (
	"context"
	"net/http"
	"time"

	"agrostock/internal/api/respond"
	"agrostock/internal/pkg/logger"
	"agrostock/internal/service/dashboardservice"
	"agrostock/internal/service/lifecycleservice"
)

// DashboardService define as leituras e a passagem explícita de avaliação.
type DashboardService interface {
	GetNotifications(ctx context.Context, asOf time.Time) (dashboardservice.NotificationView, error)
	RunEvaluation(ctx context.Context, asOf time.Time) (lifecycleservice.PassResult, error)
}

// Handler agrupa os Handlers do painel.
type Handler struct {
	Service  DashboardService
	Logger   logger.Logger
	Location *time.Location
}

// NewHandler cria o Handler do painel.
func NewHandler(svc DashboardService, log logger.Logger, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{Service: svc, Logger: log, Location: loc}
}

// NotificationsHandler lida com a requisição GET /v1/notificacoes.
// Só leitura: nenhuma desativação é emitida.
// @Summary Produtos vencidos, estoque baixo e notificações
// @Tags painel
// @Produce json
// @Param asOf query string false "Data de referência (AAAA-MM-DD)"
// @Success 200 {object} dashboardservice.NotificationView
// @Failure 503 {object} domain.ErrorResponse "Armazenamento indisponível"
// @Router /notificacoes [get]
func (h *Handler) NotificationsHandler(w http.ResponseWriter, r *http.Request) {
	asOf, err := respond.ParseAsOf(r, h.Location)
	if err != nil {
		respond.JSON(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	view, err := h.Service.GetNotifications(r.Context(), asOf)
	respond.JSON(w, r, h.Logger, view, err, http.StatusOK)
}

// RunEvaluationHandler lida com a requisição POST /v1/avaliacoes.
// Falhas de desativação vêm no corpo, por produto; a resposta continua 200.
// @Summary Executa uma passagem de avaliação
// @Tags painel
// @Produce json
// @Param asOf query string false "Data de referência (AAAA-MM-DD)"
// @Success 200 {object} lifecycleservice.PassResult
// @Failure 503 {object} domain.ErrorResponse "Armazenamento indisponível"
// @Router /avaliacoes [post]
func (h *Handler) RunEvaluationHandler(w http.ResponseWriter, r *http.Request) {
	asOf, err := respond.ParseAsOf(r, h.Location)
	if err != nil {
		respond.JSON(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	result, err := h.Service.RunEvaluation(r.Context(), asOf)
	if err == nil && len(result.Failures()) > 0 {
		h.Logger.Warn("Passagem concluída com falhas de desativação.", map[string]interface{}{
			"passagem_id": result.Evaluation.PassID,
			"falhas":      len(result.Failures()),
		})
	}
	respond.JSON(w, r, h.Logger, result, err, http.StatusOK)
}
