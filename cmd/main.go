package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Nossos pacotes de infraestrutura e utilitários
	"agrostock/config"
	"agrostock/internal/pkg/cache"
	"agrostock/internal/pkg/database"
	"agrostock/internal/pkg/logger"

	// Camadas para Injeção de Dependências
	"agrostock/internal/api/dashboard"
	"agrostock/internal/api/loss"
	"agrostock/internal/api/product"
	"agrostock/internal/api/router"
	"agrostock/internal/api/stock"
	"agrostock/internal/repository/lossrepo"
	"agrostock/internal/repository/productrepo"
	"agrostock/internal/repository/stockrepo"
	"agrostock/internal/service/dashboardservice"
	"agrostock/internal/service/lifecycleservice"
	"agrostock/internal/service/productservice"
	"agrostock/internal/service/stockservice"
)

func main() {
	// 1. Configuração e Inicialização
	log.Println("⚡ Inicializando serviço AgroStock...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Falha ao carregar configurações: %v", err)
	}
	appLog := logger.NewLogger(cfg.LogLevel)
	defer appLog.Sync()
	appLog.Info("Configurações carregadas.", map[string]interface{}{
		"env":      cfg.Environment,
		"timezone": cfg.Location.String(),
	})

	// 2. Conexão com Recursos de Infraestrutura

	// A. Banco de Dados (PostgreSQL)
	db, err := database.NewPostgresDB(cfg.DatabaseURL, database.PoolConfig{
		MaxOpenConns: cfg.MaxOpenConns,
		MaxIdleConns: cfg.MaxIdleConns,
		PingTimeout:  cfg.DBTimeout,
	})
	if err != nil {
		appLog.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	appLog.Info("Conexão PostgreSQL estabelecida.", nil)

	// B. Cache (Redis). Opcional: sem ele o serviço segue sem cache e sem rate limit.
	var cacheClient cache.Client
	redisClient, err := cache.NewRedisClient(cfg.RedisAddr, cfg.CacheTimeout)
	if err != nil {
		appLog.Warn("Redis indisponível; cache e rate limit desligados.", map[string]interface{}{"erro": err.Error()})
		redisClient.Close()
	} else {
		cacheClient = redisClient
		defer cacheClient.Close()
		appLog.Info("Conexão Redis estabelecida.", nil)
	}

	// 3. INJEÇÃO DE DEPENDÊNCIAS
	// Ordem: Repository -> Service -> Handler
	productRepo := productrepo.NewProductRepository(db, cacheClient, cfg.DBTimeout, cfg.ProductCacheTTL, appLog)
	stockRepo := stockrepo.NewStockRepository(db, cacheClient, cfg.DBTimeout, appLog)
	lossRepo := lossrepo.NewLossRepository(db, cfg.DBTimeout, appLog)

	productSvc := productservice.NewService(productRepo, cacheClient, appLog)
	stockSvc := stockservice.NewService(stockRepo, appLog)
	dashboardSvc := dashboardservice.NewService(productRepo, lossRepo, cacheClient, appLog, dashboardservice.Options{
		Location:      cfg.Location,
		AggregatesTTL: cfg.AggregatesTTL,
		Deactivation: lifecycleservice.Options{
			Concurrency: cfg.DeactivationConcurrency,
			Timeout:     cfg.DeactivationTimeout,
		},
	})
	appLog.Debug("Serviços inicializados.", nil)

	handlers := router.Handlers{
		Product:   product.NewHandler(productSvc, dashboardSvc, appLog),
		Stock:     stock.NewHandler(stockSvc, appLog),
		Loss:      loss.NewHandler(dashboardSvc, appLog, cfg.Location),
		Dashboard: dashboard.NewHandler(dashboardSvc, appLog, cfg.Location),
	}

	// 4. Configuração e Início do Roteador/Servidor
	r := router.NewRouter(handlers, router.RateLimit{
		Cache:       cacheClient,
		MaxRequests: cfg.RateLimitMaxRequests,
		Window:      cfg.RateLimitPeriod,
	}, appLog)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Avaliação periódica (desligada com EVALUATION_INTERVAL=0)
	scheduler := lifecycleservice.NewScheduler(dashboardSvc, cfg.EvaluationInterval, dashboardSvc.Now, appLog)
	schedulerDone := make(chan struct{})
	go func() {
		defer close(schedulerDone)
		scheduler.Run(ctx)
	}()

	// 6. Execução e Graceful Shutdown
	go func() {
		appLog.Info("Servidor AgroStock ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal("Servidor falhou.", err)
		}
	}()

	<-ctx.Done()
	appLog.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLog.Error("Desligamento do servidor forçado.", err)
	}
	<-schedulerDone

	appLog.Info("Servidor encerrado com sucesso.", nil)
}
