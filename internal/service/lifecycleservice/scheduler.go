package lifecycleservice

import (
	"context"
	"time"

	"agrostock/internal/pkg/logger"
)

// Runner executa uma passagem completa (carregar, avaliar, desativar).
type Runner interface {
	RunEvaluation(ctx context.Context, asOf time.Time) (PassResult, error)
}

// Scheduler dispara passagens de avaliação em intervalo fixo, além das disparadas por leitura.
type Scheduler struct {
	runner   Runner
	interval time.Duration
	clock    func() time.Time
	logger   logger.Logger
}

// NewScheduler cria o agendador. Com interval <= 0, Run retorna imediatamente.
func NewScheduler(runner Runner, interval time.Duration, clock func() time.Time, log logger.Logger) *Scheduler {
	return &Scheduler{runner: runner, interval: interval, clock: clock, logger: log}
}

// Run bloqueia até ctx ser cancelado.
func (s *Scheduler) Run(ctx context.Context) {
	if s.interval <= 0 {
		s.logger.Debug("Avaliação periódica desligada.", nil)
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("Avaliação periódica iniciada.", map[string]interface{}{"intervalo": s.interval.String()})
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Avaliação periódica encerrada.", nil)
			return
		case <-ticker.C:
			result, err := s.runner.RunEvaluation(ctx, s.clock())
			if err != nil {
				s.logger.Error("Falha na passagem de avaliação agendada.", err)
				continue
			}
			s.logger.Debug("Passagem de avaliação agendada concluída.", map[string]interface{}{
				"passagem_id": result.Evaluation.PassID,
				"falhas":      len(result.Failures()),
			})
		}
	}
}
