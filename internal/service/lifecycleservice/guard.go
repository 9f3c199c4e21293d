package lifecycleservice

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"agrostock/internal/domain"
	apperror "agrostock/internal/errors"
	"agrostock/internal/pkg/logger"
)

// Evaluation é o resultado de uma passagem de avaliação sobre um snapshot.
// Snapshot é a cópia local da passagem; nenhuma outra passagem a enxerga.
type Evaluation struct {
	PassID       string           `json:"passagemId,omitempty"`
	AsOf         time.Time        `json:"referencia"`
	Snapshot     []domain.Product `json:"-"`
	Expired      []domain.Product `json:"vencidos"`
	LowStock     []domain.Product `json:"estoqueBaixo"`
	ToDeactivate []domain.Product `json:"paraDesativar"`
}

// Evaluate classifica o snapshot em asOf sem efeitos colaterais.
// As desativações são apenas indicadas em ToDeactivate (uma por ID de produto);
// quem chama decide aplicá-las com Guard.Apply.
func Evaluate(snapshot []domain.Product, asOf time.Time) Evaluation {
	snap := domain.CloneProducts(snapshot)

	ev := Evaluation{
		AsOf:         asOf,
		Snapshot:     snap,
		ToDeactivate: make([]domain.Product, 0),
	}
	ev.Expired, ev.LowStock = notificationSets(snap, asOf)

	seen := make(map[int64]struct{}, len(snap))
	for _, p := range snap {
		if !p.IsActive || domain.ClassifyStock(p.Stock) != domain.SeverityCritical {
			continue
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		ev.ToDeactivate = append(ev.ToDeactivate, p)
	}

	return ev
}

// notificationSets separa os produtos ativos vencidos e os ativos com estoque baixo/crítico.
// Um produto vencido nunca entra em estoque baixo.
func notificationSets(snapshot []domain.Product, asOf time.Time) (expired, lowStock []domain.Product) {
	expired = make([]domain.Product, 0)
	lowStock = make([]domain.Product, 0)

	for _, p := range snapshot {
		if !p.IsActive {
			continue
		}
		if domain.IsExpired(p.ExpiryDate, asOf) {
			expired = append(expired, p)
			continue
		}
		if domain.ClassifyStock(p.Stock).IsLowOrCritical() {
			lowStock = append(lowStock, p)
		}
	}
	return expired, lowStock
}

// Deactivator é o comando externo de desativação. Deve ser idempotente.
type Deactivator interface {
	Deactivate(ctx context.Context, productID int64) error
}

// DeactivationResult é o desfecho de um único comando de desativação.
type DeactivationResult struct {
	ProductID   int64  `json:"produtoId"`
	Name        string `json:"nome"`
	Deactivated bool   `json:"desativado"`
	Message     string `json:"erro,omitempty"`
	Err         error  `json:"-"`
}

// PassResult reúne a visão pós-desativação e o desfecho de cada comando.
type PassResult struct {
	Evaluation Evaluation           `json:"avaliacao"`
	Results    []DeactivationResult `json:"desativacoes"`
}

// Failures devolve as falhas de desativação (DeactivationFailedError) da passagem.
func (r PassResult) Failures() []error {
	var out []error
	for _, res := range r.Results {
		if res.Err != nil {
			out = append(out, res.Err)
		}
	}
	return out
}

// Options ajusta a execução dos comandos de desativação.
type Options struct {
	Concurrency int           // <= 0 = todos ao mesmo tempo
	Timeout     time.Duration // tempo máximo de cada comando; 0 = sem limite próprio
}

// Guard aplica as desativações indicadas por uma Evaluation.
type Guard struct {
	deactivator Deactivator
	logger      logger.Logger
	opts        Options
}

// NewGuard cria o Guard com o comando de desativação injetado.
func NewGuard(deactivator Deactivator, log logger.Logger, opts Options) *Guard {
	return &Guard{deactivator: deactivator, logger: log, opts: opts}
}

// Apply emite, em paralelo, um comando de desativação por produto de ToDeactivate e
// espera todos terminarem. Só os sucessos confirmados viram ativo=false na cópia local,
// e os conjuntos de vencidos e estoque baixo são recalculados sobre ela.
// Uma falha não impede as demais. Se ctx for cancelado, Apply retorna ctx.Err(), mas
// os comandos já emitidos seguem até o fim.
func (g *Guard) Apply(ctx context.Context, ev Evaluation) (PassResult, error) {
	if ev.PassID == "" {
		ev.PassID = uuid.New().String()
	}
	if err := ctx.Err(); err != nil {
		return PassResult{}, err
	}

	results := make([]DeactivationResult, len(ev.ToDeactivate))
	if len(ev.ToDeactivate) == 0 {
		return PassResult{Evaluation: ev, Results: results}, nil
	}

	detached := context.WithoutCancel(ctx)
	var grp errgroup.Group
	if g.opts.Concurrency > 0 {
		grp.SetLimit(g.opts.Concurrency)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i, p := range ev.ToDeactivate {
			i, p := i, p
			grp.Go(func() error {
				results[i] = g.deactivate(detached, p)
				return nil
			})
		}
		_ = grp.Wait()
	}()

	select {
	case <-done:
	case <-ctx.Done():
		g.logger.Warn("Passagem de avaliação abandonada; desativações emitidas seguem em andamento.", map[string]interface{}{
			"passagem_id": ev.PassID,
		})
		return PassResult{}, ctx.Err()
	}

	deactivated := make(map[int64]struct{}, len(results))
	failures := 0
	for _, res := range results {
		if res.Deactivated {
			deactivated[res.ProductID] = struct{}{}
			continue
		}
		failures++
		g.logger.Warn("Falha ao desativar produto com estoque crítico.", map[string]interface{}{
			"passagem_id": ev.PassID,
			"produto_id":  res.ProductID,
			"erro":        res.Message,
		})
	}

	post := domain.CloneProducts(ev.Snapshot)
	for i := range post {
		if _, ok := deactivated[post[i].ID]; ok {
			post[i].IsActive = false
		}
	}
	ev.Snapshot = post
	ev.Expired, ev.LowStock = notificationSets(post, ev.AsOf)

	g.logger.Info("Desativações por estoque crítico aplicadas.", map[string]interface{}{
		"passagem_id": ev.PassID,
		"referencia":  ev.AsOf.Format(time.RFC3339),
		"emitidas":    len(results),
		"sucesso":     len(deactivated),
		"falhas":      failures,
	})

	return PassResult{Evaluation: ev, Results: results}, nil
}

// deactivate executa um comando com timeout próprio e traduz a falha.
func (g *Guard) deactivate(ctx context.Context, p domain.Product) DeactivationResult {
	cmdCtx := ctx
	if g.opts.Timeout > 0 {
		var cancel context.CancelFunc
		cmdCtx, cancel = context.WithTimeout(ctx, g.opts.Timeout)
		defer cancel()
	}

	res := DeactivationResult{ProductID: p.ID, Name: p.Name}
	if err := g.deactivator.Deactivate(cmdCtx, p.ID); err != nil {
		res.Err = apperror.NewDeactivationFailedError(p.ID, err)
		res.Message = res.Err.Error()
		return res
	}
	res.Deactivated = true
	return res
}
