package lossrepo

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"agrostock/internal/domain"
	"agrostock/internal/errors"
	"agrostock/internal/pkg/logger"
)

// Código SQLSTATE de violação de chave estrangeira.
const foreignKeyViolation = "23503"

// LossRepository acessa as perdas registradas manualmente.
type LossRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewLossRepository cria e retorna uma nova instância do Repositório de Perdas.
func NewLossRepository(db *sql.DB, dbTimeout time.Duration, log logger.Logger) *LossRepository {
	return &LossRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    log,
	}
}

// FindAll lê as perdas manuais, mais recentes primeiro.
func (r *LossRepository) FindAll(ctx context.Context, filter domain.LossFilter) ([]domain.LossRecord, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT id, produto_id, quantidade, motivo, data_perda, criado_em
        FROM perdas
        WHERE ($1::BIGINT = 0 OR produto_id = $1)
          AND ($2::TIMESTAMPTZ IS NULL OR data_perda >= $2)
          AND ($3::TIMESTAMPTZ IS NULL OR data_perda <= $3)
        ORDER BY data_perda DESC, id DESC`

	rows, err := r.DB.QueryContext(ctxTimeout, query, filter.ProductID, filter.From, filter.To)
	if err != nil {
		r.logger.Error("Falha ao listar perdas no DB.", err)
		return nil, errors.NewStoreUnavailableError("Falha ao listar perdas", err)
	}
	defer rows.Close()

	losses := make([]domain.LossRecord, 0)
	for rows.Next() {
		var (
			l         domain.LossRecord
			createdAt time.Time
		)
		if err := rows.Scan(&l.ID, &l.ProductID, &l.Quantity, &l.Reason, &l.LossDate, &createdAt); err != nil {
			r.logger.Error("Falha ao mapear perda.", err)
			return nil, errors.NewStoreUnavailableError("Falha ao ler perda", err)
		}
		l.Origin = domain.LossManual
		l.CreatedAt = &createdAt
		losses = append(losses, l)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStoreUnavailableError("Falha ao listar perdas", err)
	}

	r.logger.Debug("Perdas manuais carregadas.", map[string]interface{}{"total": len(losses)})
	return losses, nil
}

// Save persiste uma perda manual e devolve o registro com ID e data de criação.
func (r *LossRepository) Save(ctx context.Context, loss domain.LossRecord) (domain.LossRecord, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `
        INSERT INTO perdas (produto_id, quantidade, motivo, data_perda)
        VALUES ($1, $2, $3, $4)
        RETURNING id, criado_em`

	var createdAt time.Time
	err := r.DB.QueryRowContext(ctxTimeout, query, loss.ProductID, loss.Quantity, loss.Reason, loss.LossDate).
		Scan(&loss.ID, &createdAt)
	if err != nil {
		var pqErr *pq.Error
		if stderrors.As(err, &pqErr) && string(pqErr.Code) == foreignKeyViolation {
			return domain.LossRecord{}, errors.NewNotFoundError(fmt.Sprintf("Produto com ID %d não existe na base de dados.", loss.ProductID))
		}
		r.logger.Error("Falha ao inserir perda.", err)
		return domain.LossRecord{}, errors.NewDBError("Falha ao registrar perda", err)
	}

	loss.Origin = domain.LossManual
	loss.CreatedAt = &createdAt
	r.logger.Info("Perda manual registrada.", map[string]interface{}{
		"perda_id":   loss.ID,
		"produto_id": loss.ProductID,
		"quantidade": loss.Quantity,
		"motivo":     loss.Reason,
	})
	return loss, nil
}
