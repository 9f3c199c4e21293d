package stock

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"agrostock/internal/api/respond"
	"agrostock/internal/domain"
	"agrostock/internal/pkg/logger"
)

// StockService define o contrato que o Handler espera da camada de Serviço.
type StockService interface {
	AddStock(ctx context.Context, entry domain.StockEntryRequest) (domain.StockRecord, error)
	GetStock(ctx context.Context, productID int64) (domain.StockRecord, error)
}

// Handler agrupa todos os métodos de Handler de estoque.
type Handler struct {
	Service StockService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc StockService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// AddStockHandler lida com a requisição POST /v1/estoque/entradas.
// @Summary Registra entrada de estoque
// @Tags estoque
// @Accept json
// @Produce json
// @Param entrada body domain.StockEntryRequest true "Entrada de estoque"
// @Success 200 {object} domain.StockRecord
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 404 {object} domain.ErrorResponse "Produto não encontrado"
// @Failure 409 {object} domain.ErrorResponse "Conflito de concorrência"
// @Router /estoque/entradas [post]
func (h *Handler) AddStockHandler(w http.ResponseWriter, r *http.Request) {
	var entry domain.StockEntryRequest
	if err := respond.DecodeJSON(r, &entry); err != nil {
		respond.JSON(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	record, err := h.Service.AddStock(r.Context(), entry)
	respond.JSON(w, r, h.Logger, record, err, http.StatusOK)
}

// GetStockHandler lida com a requisição GET /v1/estoque/{produtoId}.
// @Summary Obtém o estoque de um produto
// @Tags estoque
// @Produce json
// @Param produtoId path int true "ID do produto"
// @Success 200 {object} domain.StockRecord
// @Failure 404 {object} domain.ErrorResponse "Estoque não encontrado"
// @Router /estoque/{produtoId} [get]
func (h *Handler) GetStockHandler(w http.ResponseWriter, r *http.Request) {
	productID, err := respond.ParseID(chi.URLParam(r, "produtoId"))
	if err != nil {
		respond.JSON(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	record, err := h.Service.GetStock(r.Context(), productID)
	respond.JSON(w, r, h.Logger, record, err, http.StatusOK)
}
