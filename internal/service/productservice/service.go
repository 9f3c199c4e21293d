package productservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"agrostock/internal/domain"
	apperror "agrostock/internal/errors"
	"agrostock/internal/pkg/cache"
	"agrostock/internal/pkg/logger"
)

// ProductRepository define o contrato (interface) que este Serviço espera
// da camada de Persistência (DB, Cache).
type ProductRepository interface {
	Save(ctx context.Context, product domain.Product, stock *domain.StockRecord) (domain.Product, error)
	FindByID(ctx context.Context, id int64) (domain.Product, error)
	SetActive(ctx context.Context, id int64, active bool) error
}

// Service implementa o cadastro de produtos.
type Service struct {
	repo   ProductRepository
	cache  cache.Client // pode ser nil
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Produto.
// cacheClient é usado para invalidar os agregados de perdas após um cadastro.
func NewService(repo ProductRepository, cacheClient cache.Client, log logger.Logger) *Service {
	return &Service{repo: repo, cache: cacheClient, logger: log}
}

// CreateProduct valida e cadastra um produto ativo, com estoque inicial opcional.
func (s *Service) CreateProduct(ctx context.Context, req domain.ProductCreateRequest) (domain.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Product{}, apperror.NewValidationError("O nome do produto é obrigatório.")
	}
	if req.HarvestDate != nil && req.ExpiryDate != nil && req.ExpiryDate.Before(req.HarvestDate.Time) {
		return domain.Product{}, apperror.NewValidationError("A data de validade não pode ser anterior à data de colheita.")
	}
	if req.InitialStock < 0 {
		return domain.Product{}, apperror.NewValidationError("A quantidade inicial não pode ser negativa.")
	}
	if req.Minimum != nil && *req.Minimum < 0 {
		return domain.Product{}, apperror.NewValidationError("A quantidade mínima não pode ser negativa.")
	}

	product := domain.Product{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Category:    strings.TrimSpace(req.Category),
		IsActive:    true,
		HarvestDate: req.HarvestDate.TimePtr(),
		ExpiryDate:  req.ExpiryDate.TimePtr(),
	}

	// Sem quantidade nem mínimo, o produto nasce sem registro de estoque
	var stock *domain.StockRecord
	if req.InitialStock > 0 || req.Minimum != nil {
		stock = &domain.StockRecord{Current: req.InitialStock, Minimum: req.Minimum}
	}

	created, err := s.repo.Save(ctx, product, stock)
	if err != nil {
		s.logger.Error("Falha ao salvar produto no repositório.", err)
		return domain.Product{}, fmt.Errorf("falha ao salvar produto no repositório: %w", err)
	}

	// Um produto já vencido entra no histórico como perda automática
	if s.cache != nil {
		if _, err := s.cache.Incr(ctx, cache.AggregatesVersionKey); err != nil {
			s.logger.Warn("Falha ao invalidar agregados de perdas.", map[string]interface{}{"produto_id": created.ID, "erro": err.Error()})
		}
	}
	return created, nil
}

// GetProductByID busca um produto (com estoque) pelo ID.
func (s *Service) GetProductByID(ctx context.Context, id int64) (domain.Product, error) {
	if id <= 0 {
		return domain.Product{}, apperror.NewValidationError("O ID do produto deve ser um inteiro positivo.")
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		var notFound *apperror.NotFoundError
		if errors.As(err, &notFound) {
			return domain.Product{}, apperror.NewNotFoundError(fmt.Sprintf("Produto com ID %d não foi encontrado.", id))
		}
		return domain.Product{}, err
	}
	return product, nil
}

// SetActive ativa ou desativa manualmente um produto (ação do administrador).
func (s *Service) SetActive(ctx context.Context, id int64, active bool) error {
	if id <= 0 {
		return apperror.NewValidationError("O ID do produto deve ser um inteiro positivo.")
	}
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return err
	}
	s.logger.Info("Status do produto alterado manualmente.", map[string]interface{}{"produto_id": id, "ativo": active})
	return nil
}
