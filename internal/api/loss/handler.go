package loss

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"agrostock/internal/api/respond"
	"agrostock/internal/domain"
	apperror "agrostock/internal/errors"
	"agrostock/internal/pkg/logger"
	"agrostock/internal/service/dashboardservice"
	"agrostock/internal/service/lossservice"
)

// LossService define o contrato que o Handler espera da camada de Serviço.
type LossService interface {
	GetLossHistory(ctx context.Context, asOf time.Time) ([]domain.LossRecord, error)
	GetAggregates(ctx context.Context, asOf time.Time) (lossservice.Aggregates, error)
	GetReportData(ctx context.Context, mode domain.ReportMode, month, year int) (dashboardservice.ReportData, error)
	RegisterManualLoss(ctx context.Context, req domain.LossRegistration) (domain.LossRecord, error)
}

// Handler agrupa os Handlers de perdas.
type Handler struct {
	Service  LossService
	Logger   logger.Logger
	Location *time.Location
}

// NewHandler cria o Handler. loc define como asOf (AAAA-MM-DD) é interpretado.
func NewHandler(svc LossService, log logger.Logger, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{Service: svc, Logger: log, Location: loc}
}

// HistoryHandler lida com a requisição GET /v1/perdas/historico.
// @Summary Histórico de perdas (manuais e automáticas)
// @Tags perdas
// @Produce json
// @Param asOf query string false "Data de referência (AAAA-MM-DD)"
// @Success 200 {array} domain.LossRecord
// @Failure 503 {object} domain.ErrorResponse "Armazenamento indisponível"
// @Router /perdas/historico [get]
func (h *Handler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	asOf, err := respond.ParseAsOf(r, h.Location)
	if err != nil {
		respond.JSON(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	history, err := h.Service.GetLossHistory(r.Context(), asOf)
	respond.JSON(w, r, h.Logger, history, err, http.StatusOK)
}

// AggregatesHandler lida com a requisição GET /v1/perdas/agregados.
// @Summary Séries mensal, anual e diária das perdas
// @Tags perdas
// @Produce json
// @Param asOf query string false "Data de referência (AAAA-MM-DD)"
// @Success 200 {object} lossservice.Aggregates
// @Failure 503 {object} domain.ErrorResponse "Armazenamento indisponível"
// @Router /perdas/agregados [get]
func (h *Handler) AggregatesHandler(w http.ResponseWriter, r *http.Request) {
	asOf, err := respond.ParseAsOf(r, h.Location)
	if err != nil {
		respond.JSON(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	agg, err := h.Service.GetAggregates(r.Context(), asOf)
	respond.JSON(w, r, h.Logger, agg, err, http.StatusOK)
}

// ReportHandler lida com a requisição GET /v1/perdas/relatorio?modo=MENSAL&mes=5&ano=2024.
// @Summary Perdas do período para o relatório
// @Tags perdas
// @Produce json
// @Param modo query string true "MENSAL ou ANUAL"
// @Param mes query int false "Mês (1-12), obrigatório no modo MENSAL"
// @Param ano query int true "Ano"
// @Success 200 {object} dashboardservice.ReportData
// @Failure 400 {object} domain.ErrorResponse "Período inválido"
// @Failure 422 {object} domain.ErrorResponse "Período sem registros"
// @Router /perdas/relatorio [get]
func (h *Handler) ReportHandler(w http.ResponseWriter, r *http.Request) {
	rawMode := r.URL.Query().Get("modo")
	mode, ok := domain.ParseReportMode(rawMode)
	if !ok {
		respond.JSON(w, r, h.Logger, nil, apperror.NewValidationError(fmt.Sprintf("Modo de relatório inválido: %q (use MENSAL ou ANUAL).", rawMode)), http.StatusOK)
		return
	}
	month, err := respond.QueryInt(r, "mes")
	if err != nil {
		respond.JSON(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}
	year, err := respond.QueryInt(r, "ano")
	if err != nil {
		respond.JSON(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	data, err := h.Service.GetReportData(r.Context(), mode, month, year)
	respond.JSON(w, r, h.Logger, data, err, http.StatusOK)
}

// RegisterHandler lida com a requisição POST /v1/perdas.
// @Summary Registra uma perda manual
// @Tags perdas
// @Accept json
// @Produce json
// @Param perda body domain.LossRegistration true "Perda"
// @Success 201 {object} domain.LossRecord
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 404 {object} domain.ErrorResponse "Produto não encontrado"
// @Router /perdas [post]
func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.LossRegistration
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.JSON(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	saved, err := h.Service.RegisterManualLoss(r.Context(), req)
	respond.JSON(w, r, h.Logger, saved, err, http.StatusCreated)
}
