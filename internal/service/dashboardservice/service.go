// Package dashboardservice conecta o motor de ciclo de vida e de perdas aos
// repositórios: carrega o snapshot, roda as passagens de avaliação e serve as
// leituras do painel (notificações, histórico, agregados e relatório).
package dashboardservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"agrostock/internal/domain"
	apperror "agrostock/internal/errors"
	"agrostock/internal/pkg/cache"
	"agrostock/internal/pkg/logger"
	"agrostock/internal/service/lifecycleservice"
	"agrostock/internal/service/lossservice"
)

// ProductStore é o acesso ao catálogo que o motor precisa: leitura do snapshot e o
// comando de desativação (idempotente).
type ProductStore interface {
	FindAll(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	Deactivate(ctx context.Context, productID int64) error
}

// LossStore é o acesso às perdas registradas manualmente.
type LossStore interface {
	FindAll(ctx context.Context, filter domain.LossFilter) ([]domain.LossRecord, error)
	Save(ctx context.Context, loss domain.LossRecord) (domain.LossRecord, error)
}

// Options agrupa as configurações do serviço.
type Options struct {
	Location      *time.Location   // fuso que define o "hoje"; nil = UTC
	Clock         func() time.Time // nil = time.Now
	AggregatesTTL time.Duration    // 0 desliga o cache de agregados
	Deactivation  lifecycleservice.Options
}

// Service implementa as operações do painel.
type Service struct {
	products ProductStore
	losses   LossStore
	cache    cache.Client
	guard    *lifecycleservice.Guard
	logger   logger.Logger
	loc      *time.Location
	clock    func() time.Time
	ttl      time.Duration
}

// NewService cria o serviço. cacheClient pode ser nil.
func NewService(products ProductStore, losses LossStore, cacheClient cache.Client, log logger.Logger, opts Options) *Service {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		products: products,
		losses:   losses,
		cache:    cacheClient,
		guard:    lifecycleservice.NewGuard(products, log, opts.Deactivation),
		logger:   log,
		loc:      loc,
		clock:    clock,
		ttl:      opts.AggregatesTTL,
	}
}

// Now devolve o instante atual no fuso configurado.
func (s *Service) Now() time.Time {
	return s.clock().In(s.loc)
}

// Location devolve o fuso usado para datas de calendário.
func (s *Service) Location() *time.Location {
	return s.loc
}

func (s *Service) resolveAsOf(asOf time.Time) time.Time {
	if asOf.IsZero() {
		return s.Now()
	}
	return asOf.In(s.loc)
}

// loadSnapshot lê o catálogo completo. Falha aqui aborta a passagem inteira.
func (s *Service) loadSnapshot(ctx context.Context) ([]domain.Product, error) {
	snapshot, err := s.products.FindAll(ctx, domain.ProductFilter{})
	if err != nil {
		return nil, storeUnavailable("Falha ao carregar o catálogo de produtos.", err)
	}
	return snapshot, nil
}

// loadManualLosses lê as perdas manuais e converte a data para o fuso configurado.
func (s *Service) loadManualLosses(ctx context.Context) ([]domain.LossRecord, error) {
	manual, err := s.losses.FindAll(ctx, domain.LossFilter{})
	if err != nil {
		return nil, storeUnavailable("Falha ao carregar as perdas registradas.", err)
	}
	for i := range manual {
		manual[i].LossDate = manual[i].LossDate.In(s.loc)
	}
	return manual, nil
}

func storeUnavailable(msg string, err error) error {
	var unavailable *apperror.StoreUnavailableError
	if errors.As(err, &unavailable) {
		return err
	}
	return apperror.NewStoreUnavailableError(msg, err)
}

// ProductListing é a resposta da listagem: o catálogo depois da passagem de avaliação
// e o desfecho de cada desativação emitida.
type ProductListing struct {
	PassID        string                                `json:"passagemId"`
	Products      []domain.Product                      `json:"produtos"`
	Deactivations []lifecycleservice.DeactivationResult `json:"desativacoes"`
}

// ListProducts roda uma passagem de avaliação completa e devolve o catálogo filtrado.
// Falhas de desativação não impedem a resposta; aparecem em Deactivations.
func (s *Service) ListProducts(ctx context.Context, filter domain.ProductFilter) (ProductListing, error) {
	result, err := s.RunEvaluation(ctx, time.Time{})
	if err != nil {
		return ProductListing{}, err
	}

	listing := ProductListing{
		PassID:        result.Evaluation.PassID,
		Products:      make([]domain.Product, 0, len(result.Evaluation.Snapshot)),
		Deactivations: result.Results,
	}
	for _, p := range result.Evaluation.Snapshot {
		if filter.Matches(p) {
			listing.Products = append(listing.Products, p)
		}
	}
	return listing, nil
}

// RunEvaluation carrega o snapshot, avalia em asOf (zero = agora) e aplica as desativações.
func (s *Service) RunEvaluation(ctx context.Context, asOf time.Time) (lifecycleservice.PassResult, error) {
	snapshot, err := s.loadSnapshot(ctx)
	if err != nil {
		return lifecycleservice.PassResult{}, err
	}

	ev := lifecycleservice.Evaluate(snapshot, s.resolveAsOf(asOf))
	result, err := s.guard.Apply(ctx, ev)
	if err != nil {
		return lifecycleservice.PassResult{}, fmt.Errorf("passagem de avaliação interrompida: %w", err)
	}
	return result, nil
}

// NotificationView é a leitura das notificações. ToDeactivate lista as desativações
// pendentes que a próxima passagem vai emitir.
type NotificationView struct {
	AsOf          time.Time             `json:"referencia"`
	Expired       []domain.Product      `json:"vencidos"`
	LowStock      []domain.Product      `json:"estoqueBaixo"`
	ToDeactivate  []domain.Product      `json:"paraDesativar"`
	Notifications []domain.Notification `json:"notificacoes"`
}

// GetNotifications avalia o snapshot sem emitir nenhum comando.
func (s *Service) GetNotifications(ctx context.Context, asOf time.Time) (NotificationView, error) {
	snapshot, err := s.loadSnapshot(ctx)
	if err != nil {
		return NotificationView{}, err
	}

	ev := lifecycleservice.Evaluate(snapshot, s.resolveAsOf(asOf))
	return NotificationView{
		AsOf:          ev.AsOf,
		Expired:       ev.Expired,
		LowStock:      ev.LowStock,
		ToDeactivate:  ev.ToDeactivate,
		Notifications: lifecycleservice.BuildNotifications(ev),
	}, nil
}

// GetLossHistory junta as perdas manuais com as perdas automáticas dos produtos
// vencidos em asOf (zero = agora).
func (s *Service) GetLossHistory(ctx context.Context, asOf time.Time) ([]domain.LossRecord, error) {
	return s.history(ctx, s.resolveAsOf(asOf))
}

func (s *Service) history(ctx context.Context, asOf time.Time) ([]domain.LossRecord, error) {
	var (
		snapshot []domain.Product
		manual   []domain.LossRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snapshot, err = s.loadSnapshot(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		manual, err = s.loadManualLosses(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return lossservice.BuildHistory(manual, snapshot, asOf), nil
}

// GetAggregates devolve as séries mensal, anual e diária das perdas em asOf.
// O resultado fica em cache por versão do histórico e data de referência.
func (s *Service) GetAggregates(ctx context.Context, asOf time.Time) (lossservice.Aggregates, error) {
	ref := s.resolveAsOf(asOf)

	key, cacheable := s.aggregatesKey(ctx, ref)
	if cacheable {
		if cached, err := s.cache.Get(ctx, key); err == nil {
			var agg lossservice.Aggregates
			if json.Unmarshal([]byte(cached), &agg) == nil {
				return agg, nil
			}
		} else if err != cache.ErrCacheMiss {
			s.logger.Warn("Falha ao ler agregados do cache.", map[string]interface{}{"chave": key, "erro": err.Error()})
		}
	}

	history, err := s.history(ctx, ref)
	if err != nil {
		return lossservice.Aggregates{}, err
	}
	agg := lossservice.Aggregate(history, ref)

	if cacheable {
		if data, err := json.Marshal(agg); err == nil {
			if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
				s.logger.Warn("Falha ao gravar agregados no cache.", map[string]interface{}{"chave": key, "erro": err.Error()})
			}
		}
	}
	return agg, nil
}

// aggregatesKey monta a chave versionada. Sem cache ou sem versão legível, não há cache.
func (s *Service) aggregatesKey(ctx context.Context, ref time.Time) (string, bool) {
	if s.cache == nil || s.ttl <= 0 {
		return "", false
	}
	version, err := s.cache.GetInt(ctx, cache.AggregatesVersionKey)
	if err != nil && err != cache.ErrCacheMiss {
		s.logger.Warn("Falha ao ler versão dos agregados.", map[string]interface{}{"erro": err.Error()})
		return "", false
	}
	return fmt.Sprintf("perdas:agregados:v%d:%s", version, domain.CivilDate(ref).Format("2006-01-02")), true
}

// ReportData é o conjunto de perdas entregue à geração do relatório.
type ReportData struct {
	Mode    domain.ReportMode   `json:"modo"`
	Month   int                 `json:"mes,omitempty"`
	Year    int                 `json:"ano"`
	Total   int                 `json:"total"`
	Records []domain.LossRecord `json:"perdas"`
}

// GetReportData seleciona as perdas do período pedido sobre o histórico atual.
func (s *Service) GetReportData(ctx context.Context, mode domain.ReportMode, month, year int) (ReportData, error) {
	history, err := s.history(ctx, s.Now())
	if err != nil {
		return ReportData{}, err
	}

	records, err := lossservice.SelectForPeriod(history, mode, month, year)
	if err != nil {
		return ReportData{}, err
	}

	data := ReportData{Mode: mode, Year: year, Records: records}
	if mode == domain.ReportMonthly {
		data.Month = month
	}
	for _, r := range records {
		data.Total += r.Quantity
	}
	return data, nil
}

// RegisterManualLoss valida e persiste uma perda manual com a data de agora.
func (s *Service) RegisterManualLoss(ctx context.Context, req domain.LossRegistration) (domain.LossRecord, error) {
	reason := strings.TrimSpace(req.Reason)
	if req.ProductID <= 0 {
		return domain.LossRecord{}, apperror.NewValidationError("O produto da perda deve ser informado.")
	}
	if req.Quantity <= 0 {
		return domain.LossRecord{}, apperror.NewValidationError("A quantidade perdida deve ser positiva.")
	}
	if reason == "" {
		return domain.LossRecord{}, apperror.NewValidationError("O motivo da perda é obrigatório.")
	}

	saved, err := s.losses.Save(ctx, domain.LossRecord{
		Origin:    domain.LossManual,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Reason:    reason,
		LossDate:  s.Now(),
	})
	if err != nil {
		return domain.LossRecord{}, err
	}

	if s.cache != nil {
		if _, err := s.cache.Incr(ctx, cache.AggregatesVersionKey); err != nil {
			s.logger.Warn("Falha ao invalidar agregados de perdas.", map[string]interface{}{"erro": err.Error()})
		}
	}
	return saved, nil
}
