package lifecycleservice_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"agrostock/internal/domain"
	apperror "agrostock/internal/errors"
	"agrostock/internal/pkg/logger"
	"agrostock/internal/service/lifecycleservice"
)

// MockDeactivator é uma implementação mock do comando de desativação.
type MockDeactivator struct {
	mock.Mock
}

func (m *MockDeactivator) Deactivate(ctx context.Context, productID int64) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

var asOf = time.Date(2024, time.June, 10, 15, 30, 0, 0, time.UTC)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func intPtr(v int) *int { return &v }

func product(id int64, active bool, current int, minimum *int, expiry *time.Time) domain.Product {
	return domain.Product{
		ID:         id,
		Name:       "Produto",
		IsActive:   active,
		ExpiryDate: expiry,
		Stock:      &domain.StockRecord{ProductID: id, Current: current, Minimum: minimum},
	}
}

func ids(products []domain.Product) []int64 {
	out := make([]int64, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestEvaluate_ClassifiesSnapshot(t *testing.T) {
	snapshot := []domain.Product{
		product(1, true, 50, intPtr(10), day(2024, time.June, 10)), // vence hoje
		product(2, false, 50, nil, day(2024, time.May, 1)),        // vencido mas inativo
		product(3, true, 8, nil, nil),                             // baixo (mínimo padrão 10)
		product(4, true, 3, intPtr(10), nil),                      // crítico
		product(5, true, 100, nil, day(2024, time.June, 11)),      // normal, vence amanhã
		{ID: 6, Name: "Sem estoque", IsActive: true},              // sem registro de estoque
		product(7, false, 2, nil, nil),                            // crítico mas inativo
	}

	ev := lifecycleservice.Evaluate(snapshot, asOf)

	assert.Equal(t, []int64{1}, ids(ev.Expired))
	assert.Equal(t, []int64{3, 4}, ids(ev.LowStock))
	assert.Equal(t, []int64{4}, ids(ev.ToDeactivate))
}

func TestEvaluate_ExpiredCriticalProductIsOnlyInExpiredSet(t *testing.T) {
	snapshot := []domain.Product{product(1, true, 2, nil, day(2024, time.June, 1))}

	ev := lifecycleservice.Evaluate(snapshot, asOf)

	assert.Equal(t, []int64{1}, ids(ev.Expired))
	assert.Empty(t, ev.LowStock)
	assert.Equal(t, []int64{1}, ids(ev.ToDeactivate))
}

func TestEvaluate_DeduplicatesDeactivationByID(t *testing.T) {
	snapshot := []domain.Product{
		product(9, true, 1, nil, nil),
		product(9, true, 1, nil, nil),
	}

	ev := lifecycleservice.Evaluate(snapshot, asOf)

	assert.Equal(t, []int64{9}, ids(ev.ToDeactivate))
}

func TestEvaluate_DoesNotMutateInput(t *testing.T) {
	snapshot := []domain.Product{product(1, true, 3, nil, nil)}

	ev := lifecycleservice.Evaluate(snapshot, asOf)
	ev.Snapshot[0].IsActive = false
	ev.Snapshot[0].Stock.Current = 99

	assert.True(t, snapshot[0].IsActive)
	assert.Equal(t, 3, snapshot[0].Stock.Current)
}

func TestApply_SuccessRemovesProductFromLowStock(t *testing.T) {
	mockDeactivator := new(MockDeactivator)
	guard := lifecycleservice.NewGuard(mockDeactivator, logger.NewNop(), lifecycleservice.Options{})

	snapshot := []domain.Product{product(1, true, 3, intPtr(10), nil)}
	mockDeactivator.On("Deactivate", mock.Anything, int64(1)).Return(nil).Once()

	ev := lifecycleservice.Evaluate(snapshot, asOf)
	require.Equal(t, []int64{1}, ids(ev.LowStock))

	result, err := guard.Apply(context.Background(), ev)

	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids(result.Evaluation.ToDeactivate))
	assert.Empty(t, result.Evaluation.LowStock)
	assert.False(t, result.Evaluation.Snapshot[0].IsActive)
	assert.Empty(t, result.Failures())
	assert.NotEmpty(t, result.Evaluation.PassID)
	mockDeactivator.AssertExpectations(t)
}

func TestApply_PartialFailureIsReportedPerProduct(t *testing.T) {
	mockDeactivator := new(MockDeactivator)
	guard := lifecycleservice.NewGuard(mockDeactivator, logger.NewNop(), lifecycleservice.Options{})

	snapshot := []domain.Product{
		product(1, true, 3, nil, nil),
		product(2, true, 3, nil, nil),
	}
	mockDeactivator.On("Deactivate", mock.Anything, int64(1)).Return(errors.New("store timeout")).Once()
	mockDeactivator.On("Deactivate", mock.Anything, int64(2)).Return(nil).Once()

	result, err := guard.Apply(context.Background(), lifecycleservice.Evaluate(snapshot, asOf))

	require.NoError(t, err)
	require.Len(t, result.Results, 2)

	assert.False(t, result.Results[0].Deactivated)
	assert.Contains(t, result.Results[0].Message, "store timeout")
	var failed *apperror.DeactivationFailedError
	require.True(t, errors.As(result.Results[0].Err, &failed))
	assert.Equal(t, int64(1), failed.ProductID)

	assert.True(t, result.Results[1].Deactivated)
	assert.NoError(t, result.Results[1].Err)

	assert.True(t, result.Evaluation.Snapshot[0].IsActive)
	assert.False(t, result.Evaluation.Snapshot[1].IsActive)
	assert.Equal(t, []int64{1}, ids(result.Evaluation.LowStock))
	assert.Len(t, result.Failures(), 1)
	mockDeactivator.AssertExpectations(t)
}

func TestApply_DuplicateProductIsDeactivatedOnce(t *testing.T) {
	mockDeactivator := new(MockDeactivator)
	guard := lifecycleservice.NewGuard(mockDeactivator, logger.NewNop(), lifecycleservice.Options{})

	snapshot := []domain.Product{
		product(5, true, 0, nil, nil),
		product(5, true, 0, nil, nil),
	}
	mockDeactivator.On("Deactivate", mock.Anything, int64(5)).Return(nil).Once()

	result, err := guard.Apply(context.Background(), lifecycleservice.Evaluate(snapshot, asOf))

	require.NoError(t, err)
	assert.Len(t, result.Results, 1)
	mockDeactivator.AssertNumberOfCalls(t, "Deactivate", 1)
}

func TestApply_NothingToDeactivate(t *testing.T) {
	mockDeactivator := new(MockDeactivator)
	guard := lifecycleservice.NewGuard(mockDeactivator, logger.NewNop(), lifecycleservice.Options{})

	snapshot := []domain.Product{product(1, true, 40, nil, nil)}

	result, err := guard.Apply(context.Background(), lifecycleservice.Evaluate(snapshot, asOf))

	require.NoError(t, err)
	assert.Empty(t, result.Results)
	mockDeactivator.AssertNotCalled(t, "Deactivate", mock.Anything, mock.Anything)
}

// barrierDeactivator só libera os comandos quando todos estiverem em andamento ao mesmo tempo.
type barrierDeactivator struct {
	wg sync.WaitGroup
}

func (b *barrierDeactivator) Deactivate(ctx context.Context, productID int64) error {
	b.wg.Done()
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-time.After(2 * time.Second):
		return errors.New("comandos executados em série")
	}
}

func TestApply_IssuesCommandsConcurrently(t *testing.T) {
	barrier := &barrierDeactivator{}
	barrier.wg.Add(3)
	guard := lifecycleservice.NewGuard(barrier, logger.NewNop(), lifecycleservice.Options{})

	snapshot := []domain.Product{
		product(1, true, 1, nil, nil),
		product(2, true, 2, nil, nil),
		product(3, true, 3, nil, nil),
	}

	result, err := guard.Apply(context.Background(), lifecycleservice.Evaluate(snapshot, asOf))

	require.NoError(t, err)
	assert.Empty(t, result.Failures())
}

// blockingDeactivator segura o comando até release ser fechado e registra o erro do contexto.
type blockingDeactivator struct {
	started chan struct{}
	release chan struct{}
	ctxErr  chan error
}

func (b *blockingDeactivator) Deactivate(ctx context.Context, productID int64) error {
	close(b.started)
	<-b.release
	b.ctxErr <- ctx.Err()
	return nil
}

func TestApply_CallerCancellationDoesNotRetractCommands(t *testing.T) {
	blocking := &blockingDeactivator{
		started: make(chan struct{}),
		release: make(chan struct{}),
		ctxErr:  make(chan error, 1),
	}
	guard := lifecycleservice.NewGuard(blocking, logger.NewNop(), lifecycleservice.Options{Timeout: 5 * time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := guard.Apply(ctx, lifecycleservice.Evaluate([]domain.Product{product(1, true, 1, nil, nil)}, asOf))
		errCh <- err
	}()

	<-blocking.started
	cancel()

	assert.ErrorIs(t, <-errCh, context.Canceled)

	close(blocking.release)
	assert.NoError(t, <-blocking.ctxErr)
}

func TestApply_RespectsConcurrencyLimit(t *testing.T) {
	mockDeactivator := new(MockDeactivator)
	guard := lifecycleservice.NewGuard(mockDeactivator, logger.NewNop(), lifecycleservice.Options{Concurrency: 1})

	snapshot := []domain.Product{
		product(1, true, 1, nil, nil),
		product(2, true, 1, nil, nil),
	}
	mockDeactivator.On("Deactivate", mock.Anything, mock.AnythingOfType("int64")).Return(nil).Twice()

	result, err := guard.Apply(context.Background(), lifecycleservice.Evaluate(snapshot, asOf))

	require.NoError(t, err)
	assert.Len(t, result.Results, 2)
	assert.Empty(t, result.Evaluation.LowStock)
	mockDeactivator.AssertExpectations(t)
}
