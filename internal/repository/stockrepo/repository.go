package stockrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"agrostock/internal/domain"
	"agrostock/internal/errors"
	"agrostock/internal/pkg/cache"
	"agrostock/internal/pkg/logger"
)

// StockRepository acessa a tabela de estoques (um registro por produto).
type StockRepository struct {
	DB        *sql.DB
	Cache     cache.Client // usado só para invalidações; pode ser nil
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewStockRepository cria e retorna uma nova instância do Repositório de Estoque.
func NewStockRepository(db *sql.DB, cacheClient cache.Client, dbTimeout time.Duration, logger logger.Logger) *StockRepository {
	return &StockRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// GetByProduct busca o registro de estoque de um produto.
func (r *StockRepository) GetByProduct(ctx context.Context, productID int64) (domain.StockRecord, error) {
	r.logger.Debug("Buscando estoque no repositório.", map[string]interface{}{"produto_id": productID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT produto_id, quantidade_atual, quantidade_minima, versao, atualizado_em
        FROM estoques
        WHERE produto_id = $1`

	sr, err := scanStock(r.DB.QueryRowContext(ctxTimeout, query, productID))
	if err == sql.ErrNoRows {
		return domain.StockRecord{}, errors.NewNotFoundError(fmt.Sprintf("Estoque do produto %d não encontrado.", productID))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar estoque no DB.", err)
		return domain.StockRecord{}, errors.NewStoreUnavailableError("Falha ao buscar estoque", err)
	}
	return sr, nil
}

func scanStock(row interface{ Scan(dest ...interface{}) error }) (domain.StockRecord, error) {
	var (
		sr      domain.StockRecord
		minimum sql.NullInt64
	)
	if err := row.Scan(&sr.ProductID, &sr.Current, &minimum, &sr.Version, &sr.UpdatedAt); err != nil {
		return domain.StockRecord{}, err
	}
	if minimum.Valid {
		m := int(minimum.Int64)
		sr.Minimum = &m
	}
	return sr, nil
}

// AddStock registra uma entrada de estoque, utilizando transação e controle de
// concorrência otimista (OCC). Cria o registro quando o produto ainda não tem estoque.
// Entradas não reativam o produto.
func (r *StockRepository) AddStock(ctx context.Context, entry domain.StockEntryRequest) (domain.StockRecord, error) {
	r.logger.Debug("Iniciando entrada de estoque no repositório.", map[string]interface{}{
		"produto_id": entry.ProductID,
		"quantidade": entry.Quantity,
	})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		r.logger.Error("Falha ao iniciar transação para entrada de estoque.", err)
		return domain.StockRecord{}, errors.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback()

	// 1. Obter o registro atual com FOR UPDATE, incluindo a versão
	querySelect := `
        SELECT produto_id, quantidade_atual, quantidade_minima, versao, atualizado_em
        FROM estoques
        WHERE produto_id = $1 FOR UPDATE`

	current, err := scanStock(tx.QueryRowContext(ctxTimeout, querySelect, entry.ProductID))
	if err == sql.ErrNoRows {
		var exists bool
		if err = tx.QueryRowContext(ctxTimeout, `SELECT EXISTS (SELECT 1 FROM produtos WHERE id = $1)`, entry.ProductID).Scan(&exists); err != nil {
			return domain.StockRecord{}, errors.NewDBError("Falha ao verificar produto", err)
		}
		if !exists {
			return domain.StockRecord{}, errors.NewNotFoundError(fmt.Sprintf("Produto com ID %d não existe na base de dados.", entry.ProductID))
		}

		queryInsert := `
            INSERT INTO estoques (produto_id, quantidade_atual, quantidade_minima, versao)
            VALUES ($1, $2, $3, 1)
            RETURNING produto_id, quantidade_atual, quantidade_minima, versao, atualizado_em`

		created, insertErr := scanStock(tx.QueryRowContext(ctxTimeout, queryInsert, entry.ProductID, entry.Quantity, entry.Minimum))
		if insertErr != nil {
			r.logger.Error("Falha ao inserir registro de estoque.", insertErr)
			return domain.StockRecord{}, errors.NewDBError("Falha ao inserir registro de estoque", insertErr)
		}
		if commitErr := tx.Commit(); commitErr != nil {
			return domain.StockRecord{}, errors.NewDBError("Falha ao commitar transação", commitErr)
		}

		r.invalidate(ctx, entry.ProductID)
		r.logger.Info("Registro de estoque criado.", map[string]interface{}{"produto_id": entry.ProductID, "quantidade": created.Current})
		return created, nil
	} else if err != nil {
		r.logger.Error("Falha ao selecionar estoque para atualização.", err)
		return domain.StockRecord{}, errors.NewDBError("Falha ao buscar estoque para atualização", err)
	}

	// 2. Aplicar a entrada
	newQuantity := current.Current + entry.Quantity
	minimum := current.Minimum
	if entry.Minimum != nil {
		minimum = entry.Minimum
	}

	// 3. Atualizar com OCC
	queryUpdate := `
        UPDATE estoques
        SET quantidade_atual = $1, quantidade_minima = $2, versao = $3, atualizado_em = now()
        WHERE produto_id = $4 AND versao = $5
        RETURNING atualizado_em`

	var updatedAt time.Time
	err = tx.QueryRowContext(ctxTimeout, queryUpdate,
		newQuantity,
		minimum,
		current.Version+1,
		entry.ProductID,
		current.Version,
	).Scan(&updatedAt)
	if err == sql.ErrNoRows {
		r.logger.Warn("Falha no controle de concorrência otimista (OCC). Versão do registro desatualizada.", map[string]interface{}{
			"produto_id":      entry.ProductID,
			"versao_esperada": current.Version,
		})
		return domain.StockRecord{}, errors.NewConflictError("O estoque foi modificado por outra operação. Tente novamente.")
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar estoque.", err)
		return domain.StockRecord{}, errors.NewDBError("Falha ao atualizar estoque", err)
	}

	// 4. Commitar a transação
	if commitErr := tx.Commit(); commitErr != nil {
		r.logger.Error("Falha ao commitar transação de entrada de estoque.", commitErr)
		return domain.StockRecord{}, errors.NewDBError("Falha ao commitar transação", commitErr)
	}

	current.Current = newQuantity
	current.Minimum = minimum
	current.Version++
	current.UpdatedAt = updatedAt

	r.invalidate(ctx, entry.ProductID)
	r.logger.Info("Estoque atualizado com sucesso.", map[string]interface{}{
		"produto_id":      entry.ProductID,
		"nova_quantidade": newQuantity,
		"nova_versao":     current.Version,
	})
	return current, nil
}

func (r *StockRepository) invalidate(ctx context.Context, productID int64) {
	if r.Cache == nil {
		return
	}
	if err := r.Cache.Delete(ctx, cache.ProductKey(productID)); err != nil {
		r.logger.Warn("Falha ao invalidar cache do produto.", map[string]interface{}{"produto_id": productID, "erro": err.Error()})
	}
	// Status e estoque entram nas perdas automáticas
	if _, err := r.Cache.Incr(ctx, cache.AggregatesVersionKey); err != nil {
		r.logger.Warn("Falha ao invalidar agregados de perdas.", map[string]interface{}{"erro": err.Error()})
	}
}
