package config

import (
	"fmt"
	"log"
	"time"
	_ "time/tzdata" // fusos embutidos para imagens sem zoneinfo

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config armazena todas as configurações do serviço.
type Config struct {
	// Geral
	Port        string
	Environment string
	LogLevel    string
	Location    *time.Location // Fuso usado para definir "hoje" nas avaliações

	// Banco de Dados (PostgreSQL)
	DatabaseURL  string
	DBTimeout    time.Duration
	MaxOpenConns int
	MaxIdleConns int

	// Cache (Redis)
	RedisAddr       string
	CacheTimeout    time.Duration
	ProductCacheTTL time.Duration
	AggregatesTTL   time.Duration

	// Rate Limiting
	RateLimitMaxRequests int
	RateLimitPeriod      time.Duration

	// Ciclo de vida
	EvaluationInterval      time.Duration // 0 desliga a avaliação periódica
	DeactivationTimeout     time.Duration
	DeactivationConcurrency int // <= 0 = sem limite
}

// LoadConfig carrega o .env (quando existir) e lê as configurações das variáveis de ambiente.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// As variáveis essenciais podem estar no ambiente do sistema (ex: Docker).
		log.Println("⚠️ Aviso: Arquivo .env não encontrado. Carregando configs apenas do ambiente do sistema.")
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	databaseURL := v.GetString("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("❌ Erro de Configuração: a variável de ambiente DATABASE_URL deve ser definida")
	}

	loc, err := time.LoadLocation(v.GetString("TIMEZONE"))
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE inválido: %w", err)
	}

	evaluationInterval, err := time.ParseDuration(v.GetString("EVALUATION_INTERVAL"))
	if err != nil {
		return nil, fmt.Errorf("EVALUATION_INTERVAL inválido: %w", err)
	}
	deactivationTimeout, err := time.ParseDuration(v.GetString("DEACTIVATION_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("DEACTIVATION_TIMEOUT inválido: %w", err)
	}

	cfg := &Config{
		Port:        v.GetString("PORT"),
		Environment: v.GetString("ENV"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		Location:    loc,

		DatabaseURL:  databaseURL,
		DBTimeout:    time.Duration(v.GetInt("DB_TIMEOUT_SEC")) * time.Second,
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),

		RedisAddr:       v.GetString("REDIS_ADDR"),
		CacheTimeout:    time.Duration(v.GetInt("CACHE_TIMEOUT_SEC")) * time.Second,
		ProductCacheTTL: time.Duration(v.GetInt("PRODUCT_CACHE_TTL_SEC")) * time.Second,
		AggregatesTTL:   time.Duration(v.GetInt("AGGREGATES_TTL_SEC")) * time.Second,

		RateLimitMaxRequests: v.GetInt("RATE_LIMIT_MAX_REQUESTS"),
		RateLimitPeriod:      time.Duration(v.GetInt("RATE_LIMIT_PERIOD_MIN")) * time.Minute,

		EvaluationInterval:      evaluationInterval,
		DeactivationTimeout:     deactivationTimeout,
		DeactivationConcurrency: v.GetInt("DEACTIVATION_CONCURRENCY"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("TIMEZONE", "America/Sao_Paulo")

	v.SetDefault("DB_TIMEOUT_SEC", 5)
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("CACHE_TIMEOUT_SEC", 10)
	v.SetDefault("PRODUCT_CACHE_TTL_SEC", 300)
	v.SetDefault("AGGREGATES_TTL_SEC", 300)

	v.SetDefault("RATE_LIMIT_MAX_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_PERIOD_MIN", 1)

	v.SetDefault("EVALUATION_INTERVAL", "0s")
	v.SetDefault("DEACTIVATION_TIMEOUT", "5s")
	v.SetDefault("DEACTIVATION_CONCURRENCY", 0)
}
