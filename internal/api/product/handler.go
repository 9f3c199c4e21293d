package product

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"agrostock/internal/api/respond"
	"agrostock/internal/domain"
	apperror "agrostock/internal/errors"
	"agrostock/internal/pkg/logger"
	"agrostock/internal/service/dashboardservice"
)

// ProductService define o contrato que o Handler espera da camada de Serviço.
type ProductService interface {
	CreateProduct(ctx context.Context, req domain.ProductCreateRequest) (domain.Product, error)
	GetProductByID(ctx context.Context, id int64) (domain.Product, error)
	SetActive(ctx context.Context, id int64, active bool) error
}

// ProductLister lista o catálogo depois de uma passagem de avaliação.
type ProductLister interface {
	ListProducts(ctx context.Context, filter domain.ProductFilter) (dashboardservice.ProductListing, error)
}

// Handler agrupa todos os métodos de Handler do produto.
type Handler struct {
	Service ProductService
	Lister  ProductLister
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando os Serviços e o Logger.
func NewHandler(svc ProductService, lister ProductLister, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Lister:  lister,
		Logger:  log,
	}
}

// CreateProductHandler lida com a requisição POST /v1/produtos.
// @Summary Cadastra um produto
// @Tags produtos
// @Accept json
// @Produce json
// @Param produto body domain.ProductCreateRequest true "Dados do produto"
// @Success 201 {object} domain.Product
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /produtos [post]
func (h *Handler) CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.ProductCreateRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.JSON(w, r, h.Logger, nil, err, http.StatusBadRequest)
		return
	}

	created, err := h.Service.CreateProduct(r.Context(), req)
	respond.JSON(w, r, h.Logger, created, err, http.StatusCreated)
}

// GetProductByIDHandler lida com a requisição GET /v1/produtos/{id}.
// @Summary Obtém um produto por ID
// @Tags produtos
// @Produce json
// @Param id path int true "ID do produto"
// @Success 200 {object} domain.Product
// @Failure 404 {object} domain.ErrorResponse "Produto não encontrado"
// @Router /produtos/{id} [get]
func (h *Handler) GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		respond.JSON(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	product, err := h.Service.GetProductByID(r.Context(), id)
	respond.JSON(w, r, h.Logger, product, err, http.StatusOK)
}

// ListProductsHandler lida com a requisição GET /v1/produtos.
// Cada listagem roda uma passagem de avaliação (e as desativações que ela indicar).
// @Summary Lista produtos
// @Tags produtos
// @Produce json
// @Param todos query bool false "Inclui produtos inativos"
// @Param nome query string false "Filtro por nome"
// @Param categoria query string false "Filtro por categoria"
// @Success 200 {object} dashboardservice.ProductListing
// @Failure 503 {object} domain.ErrorResponse "Armazenamento indisponível"
// @Router /produtos [get]
func (h *Handler) ListProductsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.ProductFilter{
		ActiveOnly: !strings.EqualFold(q.Get("todos"), "true"),
		Name:       strings.TrimSpace(q.Get("nome")),
		Category:   strings.TrimSpace(q.Get("categoria")),
	}

	listing, err := h.Lister.ListProducts(r.Context(), filter)
	respond.JSON(w, r, h.Logger, listing, err, http.StatusOK)
}

type setActiveRequest struct {
	Active *bool `json:"ativo"`
}

// SetActiveHandler lida com a requisição PATCH /v1/produtos/{id}/ativo.
// @Summary Ativa ou desativa um produto manualmente
// @Tags produtos
// @Accept json
// @Param id path int true "ID do produto"
// @Success 204
// @Failure 404 {object} domain.ErrorResponse "Produto não encontrado"
// @Router /produtos/{id}/ativo [patch]
func (h *Handler) SetActiveHandler(w http.ResponseWriter, r *http.Request) {
	id, err := respond.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		respond.JSON(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	var req setActiveRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.JSON(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}
	if req.Active == nil {
		respond.JSON(w, r, h.Logger, nil, apperror.NewValidationError("O campo ativo é obrigatório."), http.StatusOK)
		return
	}

	err = h.Service.SetActive(r.Context(), id, *req.Active)
	respond.JSON(w, r, h.Logger, nil, err, http.StatusNoContent)
}
