package stockservice

import (
	"context"
	"errors"
	"fmt"

	"agrostock/internal/domain"
	apperror "agrostock/internal/errors"
	"agrostock/internal/pkg/logger"
)

// StockRepository define o contrato que o Serviço de Estoque espera da camada de Persistência.
type StockRepository interface {
	GetByProduct(ctx context.Context, productID int64) (domain.StockRecord, error)
	AddStock(ctx context.Context, entry domain.StockEntryRequest) (domain.StockRecord, error)
}

// Service implementa as operações de estoque.
type Service struct {
	repo   StockRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Estoque.
func NewService(repo StockRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// AddStock registra a entrada (reposição) de estoque de um produto.
// A quantidade atual só cresce por aqui; o motor de ciclo de vida nunca a altera.
func (s *Service) AddStock(ctx context.Context, entry domain.StockEntryRequest) (domain.StockRecord, error) {
	s.logger.Debug("Iniciando entrada de estoque no serviço.", map[string]interface{}{
		"produto_id": entry.ProductID,
		"quantidade": entry.Quantity,
	})

	if entry.ProductID <= 0 {
		return domain.StockRecord{}, apperror.NewValidationError("O produto da entrada deve ser informado.")
	}
	if entry.Quantity <= 0 {
		return domain.StockRecord{}, apperror.NewValidationError("A quantidade da entrada deve ser positiva.")
	}
	if entry.Minimum != nil && *entry.Minimum < 0 {
		return domain.StockRecord{}, apperror.NewValidationError("A quantidade mínima não pode ser negativa.")
	}

	record, err := s.repo.AddStock(ctx, entry)
	if err != nil {
		s.logger.Error("Falha ao registrar entrada no repositório.", err)
		var conflictErr *apperror.ConflictError
		if errors.As(err, &conflictErr) {
			return domain.StockRecord{}, apperror.NewConflictError(fmt.Sprintf("Falha de concorrência: %s", conflictErr.Msg))
		}
		var notFound *apperror.NotFoundError
		if errors.As(err, &notFound) {
			return domain.StockRecord{}, err
		}
		return domain.StockRecord{}, apperror.NewInternalError("Falha interna ao registrar entrada de estoque.", err)
	}

	s.logger.Info("Entrada de estoque registrada.", map[string]interface{}{
		"produto_id":      record.ProductID,
		"nova_quantidade": record.Current,
		"nova_versao":     record.Version,
	})
	return record, nil
}

// GetStock devolve o registro de estoque de um produto.
func (s *Service) GetStock(ctx context.Context, productID int64) (domain.StockRecord, error) {
	if productID <= 0 {
		return domain.StockRecord{}, apperror.NewValidationError("O ID do produto deve ser um inteiro positivo.")
	}
	return s.repo.GetByProduct(ctx, productID)
}
