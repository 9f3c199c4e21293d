package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	// Registra a especificação Swagger
	_ "agrostock/docs"

	"agrostock/internal/api/dashboard"
	"agrostock/internal/api/loss"
	"agrostock/internal/api/product"
	"agrostock/internal/api/stock"
	"agrostock/internal/pkg/cache"
	"agrostock/internal/pkg/logger"
	"agrostock/internal/pkg/middleware"
)

// Handlers reúne os Handlers já inicializados por injeção de dependências.
type Handlers struct {
	Product   *product.Handler
	Stock     *stock.Handler
	Loss      *loss.Handler
	Dashboard *dashboard.Handler
}

// RateLimit configura o limitador por IP. Sem cache, o limitador fica desligado.
type RateLimit struct {
	Cache       cache.Client
	MaxRequests int
	Window      time.Duration
}

// NewRouter configura e retorna o roteador HTTP principal.
func NewRouter(h Handlers, rl RateLimit, log logger.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(log))

	// --- Health Check e documentação ---
	r.Get("/ping", PingHandler)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// --- API v1 ---
	r.Route("/v1", func(v1 chi.Router) {
		if rl.Cache != nil && rl.MaxRequests > 0 {
			v1.Use(middleware.RateLimiter(rl.Cache, rl.MaxRequests, rl.Window, log))
		}

		v1.Route("/produtos", func(pr chi.Router) {
			pr.Get("/", h.Product.ListProductsHandler)
			pr.Post("/", h.Product.CreateProductHandler)
			pr.Get("/{id}", h.Product.GetProductByIDHandler)
			pr.Patch("/{id}/ativo", h.Product.SetActiveHandler)
		})

		v1.Post("/estoque/entradas", h.Stock.AddStockHandler)
		v1.Get("/estoque/{produtoId}", h.Stock.GetStockHandler)

		v1.Route("/perdas", func(pe chi.Router) {
			pe.Post("/", h.Loss.RegisterHandler)
			pe.Get("/historico", h.Loss.HistoryHandler)
			pe.Get("/agregados", h.Loss.AggregatesHandler)
			pe.Get("/relatorio", h.Loss.ReportHandler)
		})

		v1.Get("/notificacoes", h.Dashboard.NotificationsHandler)
		v1.Post("/avaliacoes", h.Dashboard.RunEvaluationHandler)
	})

	return r
}

// PingHandler é uma função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
