package productrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"agrostock/internal/domain"
	"agrostock/internal/errors"
	"agrostock/internal/pkg/cache"
	"agrostock/internal/pkg/logger"
)

// ProductRepository acessa a tabela de produtos e o estoque embutido.
// Ela contém as conexões necessárias para acessar dados.
type ProductRepository struct {
	DB        *sql.DB      // Conexão principal com o banco de dados (PostgreSQL)
	Cache     cache.Client // Cliente para operações de cache (Redis); pode ser nil
	DBTimeout time.Duration
	CacheTTL  time.Duration
	logger    logger.Logger
}

// NewProductRepository cria e retorna uma nova instância do Repositório.
func NewProductRepository(db *sql.DB, cacheClient cache.Client, dbTimeout, cacheTTL time.Duration, log logger.Logger) *ProductRepository {
	return &ProductRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		CacheTTL:  cacheTTL,
		logger:    log,
	}
}

const selectProductSQL = `
	SELECT p.id, p.nome, p.descricao, p.categoria, p.ativo, p.data_colheita, p.data_validade,
	       p.criado_em, p.atualizado_em,
	       e.produto_id, e.quantidade_atual, e.quantidade_minima, e.versao, e.atualizado_em
	FROM produtos p
	LEFT JOIN estoques e ON e.produto_id = p.id`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanProduct mapeia uma linha do JOIN produtos/estoques para domain.Product.
func scanProduct(row rowScanner) (domain.Product, error) {
	var (
		p                domain.Product
		harvest, expiry  sql.NullTime
		stockProductID   sql.NullInt64
		current, version sql.NullInt64
		minimum          sql.NullInt64
		stockUpdatedAt   sql.NullTime
	)

	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Category, &p.IsActive, &harvest, &expiry,
		&p.CreatedAt, &p.UpdatedAt,
		&stockProductID, &current, &minimum, &version, &stockUpdatedAt,
	)
	if err != nil {
		return domain.Product{}, err
	}

	if harvest.Valid {
		h := harvest.Time
		p.HarvestDate = &h
	}
	if expiry.Valid {
		e := expiry.Time
		p.ExpiryDate = &e
	}
	if stockProductID.Valid {
		stock := &domain.StockRecord{
			ProductID: stockProductID.Int64,
			Current:   int(current.Int64),
			Version:   int(version.Int64),
			UpdatedAt: stockUpdatedAt.Time,
		}
		if minimum.Valid {
			m := int(minimum.Int64)
			stock.Minimum = &m
		}
		p.Stock = stock
	}
	return p, nil
}

// FindAll lê o snapshot completo (ou filtrado) de produtos com estoque.
// Qualquer falha de leitura é reportada como armazenamento indisponível.
func (r *ProductRepository) FindAll(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var (
		conditions []string
		args       []interface{}
	)
	if filter.ActiveOnly {
		conditions = append(conditions, "p.ativo = TRUE")
	}
	if filter.Name != "" {
		args = append(args, "%"+filter.Name+"%")
		conditions = append(conditions, fmt.Sprintf("p.nome ILIKE $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("LOWER(p.categoria) = LOWER($%d)", len(args)))
	}

	query := selectProductSQL
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY p.id"

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao listar produtos no DB.", err)
		return nil, errors.NewStoreUnavailableError("Falha ao listar produtos", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.logger.Error("Falha ao mapear produto.", err)
			return nil, errors.NewStoreUnavailableError("Falha ao ler produto", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Falha ao iterar produtos.", err)
		return nil, errors.NewStoreUnavailableError("Falha ao listar produtos", err)
	}

	r.logger.Debug("Snapshot de produtos carregado.", map[string]interface{}{"total": len(products)})
	return products, nil
}

// FindByID busca um produto pelo ID, utilizando a estratégia Cache-Aside.
func (r *ProductRepository) FindByID(ctx context.Context, id int64) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	key := cache.ProductKey(id)

	// --- Cache-Aside (READ) ---
	if r.Cache != nil {
		cachedData, err := r.Cache.Get(ctxTimeout, key)
		if err == nil {
			var product domain.Product
			if json.Unmarshal([]byte(cachedData), &product) == nil {
				return product, nil
			}
			r.logger.Warn("Falha ao desserializar produto do cache.", map[string]interface{}{"produto_id": id})
		} else if err != cache.ErrCacheMiss {
			// Falha real de cache: seguimos para o DB
			r.logger.Warn("Falha ao ler do cache Redis.", map[string]interface{}{"produto_id": id, "erro": err.Error()})
		}
	}

	row := r.DB.QueryRowContext(ctxTimeout, selectProductSQL+" WHERE p.id = $1", id)
	product, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return domain.Product{}, errors.NewNotFoundError(fmt.Sprintf("Produto com ID %d não existe na base de dados.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar produto no DB.", err)
		return domain.Product{}, errors.NewStoreUnavailableError("Falha ao buscar produto", err)
	}

	// --- Cache-Aside (WRITE) ---
	if r.Cache != nil {
		if productJSON, marshalErr := json.Marshal(product); marshalErr == nil {
			if setErr := r.Cache.Set(ctxTimeout, key, productJSON, r.CacheTTL); setErr != nil {
				r.logger.Warn("Falha ao gravar produto no cache.", map[string]interface{}{"produto_id": id, "erro": setErr.Error()})
			}
		}
	}

	return product, nil
}

// Save persiste um novo produto e, quando informado, o registro de estoque inicial
// na mesma transação.
func (r *ProductRepository) Save(ctx context.Context, product domain.Product, stock *domain.StockRecord) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return domain.Product{}, errors.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback()

	const productSQL = `
		INSERT INTO produtos (nome, descricao, categoria, ativo, data_colheita, data_validade)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, criado_em, atualizado_em`

	err = tx.QueryRowContext(ctxTimeout, productSQL,
		product.Name,
		product.Description,
		product.Category,
		product.IsActive,
		product.HarvestDate,
		product.ExpiryDate,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		r.logger.Error("Falha ao inserir produto.", err)
		return domain.Product{}, errors.NewDBError("Falha ao inserir produto", err)
	}

	if stock != nil {
		const stockSQL = `
			INSERT INTO estoques (produto_id, quantidade_atual, quantidade_minima, versao)
			VALUES ($1, $2, $3, 1)
			RETURNING versao, atualizado_em`

		s := *stock
		s.ProductID = product.ID
		if err = tx.QueryRowContext(ctxTimeout, stockSQL, s.ProductID, s.Current, s.Minimum).Scan(&s.Version, &s.UpdatedAt); err != nil {
			r.logger.Error("Falha ao inserir estoque inicial.", err)
			return domain.Product{}, errors.NewDBError("Falha ao inserir estoque inicial", err)
		}
		product.Stock = &s
	}

	if err = tx.Commit(); err != nil {
		return domain.Product{}, errors.NewDBError("Falha ao commitar transação", err)
	}

	r.logger.Info("Produto cadastrado.", map[string]interface{}{"produto_id": product.ID, "nome": product.Name})
	return product, nil
}

// Deactivate marca o produto como inativo. Repetir o comando é inofensivo:
// o UPDATE não depende do estado anterior.
func (r *ProductRepository) Deactivate(ctx context.Context, productID int64) error {
	return r.SetActive(ctx, productID, false)
}

// SetActive altera o status do produto e invalida a entrada de cache.
func (r *ProductRepository) SetActive(ctx context.Context, productID int64, active bool) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `UPDATE produtos SET ativo = $1, atualizado_em = now() WHERE id = $2`

	result, err := r.DB.ExecContext(ctxTimeout, query, active, productID)
	if err != nil {
		r.logger.Error("Falha ao atualizar status do produto.", err)
		return errors.NewDBError("Falha ao atualizar status do produto", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Produto com ID %d não existe na base de dados.", productID))
	}

	r.invalidate(ctxTimeout, productID)
	r.logger.Info("Status do produto atualizado.", map[string]interface{}{"produto_id": productID, "ativo": active})
	return nil
}

func (r *ProductRepository) invalidate(ctx context.Context, productID int64) {
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
