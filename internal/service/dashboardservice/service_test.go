package dashboardservice_test

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"agrostock/internal/domain"
	apperror "agrostock/internal/errors"
	"agrostock/internal/pkg/cache"
	"agrostock/internal/pkg/logger"
	"agrostock/internal/service/dashboardservice"
)

// MockProductStore é uma implementação mock da interface ProductStore
type MockProductStore struct {
	mock.Mock
}

func (m *MockProductStore) FindAll(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductStore) Deactivate(ctx context.Context, productID int64) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

// MockLossStore é uma implementação mock da interface LossStore
type MockLossStore struct {
	mock.Mock
}

func (m *MockLossStore) FindAll(ctx context.Context, filter domain.LossFilter) ([]domain.LossRecord, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.LossRecord), args.Error(1)
}

func (m *MockLossStore) Save(ctx context.Context, loss domain.LossRecord) (domain.LossRecord, error) {
	args := m.Called(ctx, loss)
	return args.Get(0).(domain.LossRecord), args.Error(1)
}

// memoryCache é um cache.Client em memória para os testes.
type memoryCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string]string)}
}

func (c *memoryCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return "", cache.ErrCacheMiss
	}
	return v, nil
}

func (c *memoryCache) GetInt(ctx context.Context, key string) (int, error) {
	v, err := c.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(v)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		c.data[key] = string(v)
	default:
		c.data[key] = fmt.Sprint(v)
	}
	return nil
}

func (c *memoryCache) Incr(ctx context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, _ := strconv.ParseInt(c.data[key], 10, 64)
	n++
	c.data[key] = strconv.FormatInt(n, 10)
	return n, nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memoryCache) Close() error { return nil }

var (
	brt      = time.FixedZone("BRT", -3*60*60)
	fixedNow = time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func product(id int64, active bool, current int, expiry *time.Time) domain.Product {
	return domain.Product{
		ID:         id,
		Name:       fmt.Sprintf("Produto %d", id),
		IsActive:   active,
		ExpiryDate: expiry,
		Stock:      &domain.StockRecord{ProductID: id, Current: current},
	}
}

func newService(products *MockProductStore, losses *MockLossStore, c cache.Client) *dashboardservice.Service {
	return dashboardservice.NewService(products, losses, c, logger.NewNop(), dashboardservice.Options{
		Location:      brt,
		Clock:         func() time.Time { return fixedNow },
		AggregatesTTL: time.Minute,
	})
}

func TestGetNotifications_IsPureRead(t *testing.T) {
	products := new(MockProductStore)
	svc := newService(products, new(MockLossStore), nil)

	snapshot := []domain.Product{
		product(1, true, 40, day(2024, time.June, 10)),
		product(2, true, 3, nil),
		product(3, true, 8, nil),
	}
	products.On("FindAll", mock.Anything, domain.ProductFilter{}).Return(snapshot, nil).Once()

	view, err := svc.GetNotifications(context.Background(), time.Time{})

	require.NoError(t, err)
	assert.Len(t, view.Expired, 1)
	assert.Len(t, view.LowStock, 2)
	require.Len(t, view.ToDeactivate, 1)
	assert.Equal(t, int64(2), view.ToDeactivate[0].ID)
	assert.Len(t, view.Notifications, 3)
	assert.Equal(t, fixedNow.In(brt), view.AsOf)
	products.AssertNotCalled(t, "Deactivate", mock.Anything, mock.Anything)
	products.AssertExpectations(t)
}

func TestGetNotifications_StoreFailure(t *testing.T) {
	products := new(MockProductStore)
	svc := newService(products, new(MockLossStore), nil)

	products.On("FindAll", mock.Anything, mock.Anything).Return([]domain.Product(nil), errors.New("connection refused")).Once()

	_, err := svc.GetNotifications(context.Background(), time.Time{})

	require.Error(t, err)
	var unavailable *apperror.StoreUnavailableError
	assert.True(t, errors.As(err, &unavailable))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestListProducts_DeactivatesCriticalAndFilters(t *testing.T) {
	products := new(MockProductStore)
	svc := newService(products, new(MockLossStore), nil)

	snapshot := []domain.Product{
		product(1, true, 3, nil),
		product(2, true, 50, nil),
		product(3, false, 50, nil),
	}
	products.On("FindAll", mock.Anything, domain.ProductFilter{}).Return(snapshot, nil).Once()
	products.On("Deactivate", mock.Anything, int64(1)).Return(nil).Once()

	listing, err := svc.ListProducts(context.Background(), domain.ProductFilter{ActiveOnly: true})

	require.NoError(t, err)
	require.Len(t, listing.Products, 1)
	assert.Equal(t, int64(2), listing.Products[0].ID)
	require.Len(t, listing.Deactivations, 1)
	assert.True(t, listing.Deactivations[0].Deactivated)
	assert.NotEmpty(t, listing.PassID)
	products.AssertExpectations(t)
}

func TestListProducts_DeactivationFailureKeepsProductActive(t *testing.T) {
	products := new(MockProductStore)
	svc := newService(products, new(MockLossStore), nil)

	snapshot := []domain.Product{product(1, true, 3, nil), product(2, true, 50, nil)}
	products.On("FindAll", mock.Anything, domain.ProductFilter{}).Return(snapshot, nil).Once()
	products.On("Deactivate", mock.Anything, int64(1)).Return(errors.New("timeout")).Once()

	listing, err := svc.ListProducts(context.Background(), domain.ProductFilter{ActiveOnly: true})

	require.NoError(t, err)
	assert.Len(t, listing.Products, 2)
	require.Len(t, listing.Deactivations, 1)
	assert.False(t, listing.Deactivations[0].Deactivated)
	assert.Contains(t, listing.Deactivations[0].Message, "timeout")
}

func TestGetLossHistory_MergesManualAndExpired(t *testing.T) {
	products := new(MockProductStore)
	losses := new(MockLossStore)
	svc := newService(products, losses, nil)

	manual := []domain.LossRecord{{
		Origin: domain.LossManual, ID: 1, ProductID: 9, Quantity: 5, Reason: "AVARIA",
		LossDate: time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC),
	}}
	snapshot := []domain.Product{product(7, true, 2, day(2024, time.June, 1))}
	products.On("FindAll", mock.Anything, domain.ProductFilter{}).Return(snapshot, nil).Once()
	losses.On("FindAll", mock.Anything, domain.LossFilter{}).Return(manual, nil).Once()

	history, err := svc.GetLossHistory(context.Background(), time.Time{})

	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.True(t, history[0].IsSynthetic())
	assert.Equal(t, 2, history[0].Quantity)
	assert.Equal(t, int64(1), history[1].ID)
	assert.Equal(t, brt, history[0].LossDate.Location())
	assert.Equal(t, brt, history[1].LossDate.Location())
	products.AssertNotCalled(t, "Deactivate", mock.Anything, mock.Anything)
}

func TestGetLossHistory_LossStoreFailure(t *testing.T) {
	products := new(MockProductStore)
	losses := new(MockLossStore)
	svc := newService(products, losses, nil)

	products.On("FindAll", mock.Anything, mock.Anything).Return([]domain.Product{}, nil).Maybe()
	losses.On("FindAll", mock.Anything, mock.Anything).Return([]domain.LossRecord(nil), errors.New("read timeout")).Once()

	_, err := svc.GetLossHistory(context.Background(), time.Time{})

	var unavailable *apperror.StoreUnavailableError
	require.True(t, errors.As(err, &unavailable))
}

func TestGetAggregates_UsesConfiguredLocationAndCache(t *testing.T) {
	products := new(MockProductStore)
	losses := new(MockLossStore)
	memory := newMemoryCache()
	svc := newService(products, losses, memory)

	// 01:00 UTC de 10/06 ainda é 09/06 em BRT
	manual := []domain.LossRecord{{
		Origin: domain.LossManual, ID: 1, ProductID: 9, Quantity: 5, Reason: "AVARIA",
		LossDate: time.Date(2024, time.June, 10, 1, 0, 0, 0, time.UTC),
	}}
	snapshot := []domain.Product{product(7, true, 2, day(2024, time.June, 1))}
	products.On("FindAll", mock.Anything, domain.ProductFilter{}).Return(snapshot, nil).Once()
	losses.On("FindAll", mock.Anything, domain.LossFilter{}).Return(manual, nil).Once()

	agg, err := svc.GetAggregates(context.Background(), time.Time{})

	require.NoError(t, err)
	assert.Equal(t, 2024, agg.Year)
	assert.Equal(t, 7, agg.Monthly[5])
	assert.Equal(t, 7, agg.Annual[0].Total)
	require.Len(t, agg.Daily, 31)
	assert.Equal(t, "2024-06-10", agg.Daily[30].Date)
	assert.Equal(t, 0, agg.Daily[30].Total)
	assert.Equal(t, 5, agg.Daily[29].Total)
	assert.Equal(t, 2, agg.Daily[21].Total)

	// Segunda leitura vem do cache (os mocks só aceitam uma chamada)
	cached, err := svc.GetAggregates(context.Background(), time.Time{})
	require.NoError(t, err)
	assert.Equal(t, agg, cached)
	products.AssertExpectations(t)
	losses.AssertExpectations(t)
}

func TestRegisterManualLoss_InvalidatesAggregates(t *testing.T) {
	products := new(MockProductStore)
	losses := new(MockLossStore)
	memory := newMemoryCache()
	svc := newService(products, losses, memory)

	products.On("FindAll", mock.Anything, domain.ProductFilter{}).Return([]domain.Product{}, nil).Once()
	losses.On("FindAll", mock.Anything, domain.LossFilter{}).Return([]domain.LossRecord{}, nil).Once()

	before, err := svc.GetAggregates(context.Background(), time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 0, before.Monthly[5])

	saved := domain.LossRecord{Origin: domain.LossManual, ID: 3, ProductID: 4, Quantity: 6, Reason: "ROUBO", LossDate: fixedNow.In(brt)}
	losses.On("Save", mock.Anything, mock.MatchedBy(func(l domain.LossRecord) bool {
		return l.Reason == "ROUBO" && l.Origin == domain.LossManual && l.LossDate.Equal(fixedNow)
	})).Return(saved, nil).Once()

	_, err = svc.RegisterManualLoss(context.Background(), domain.LossRegistration{ProductID: 4, Quantity: 6, Reason: "  ROUBO "})
	require.NoError(t, err)

	products.On("FindAll", mock.Anything, domain.ProductFilter{}).Return([]domain.Product{}, nil).Once()
	losses.On("FindAll", mock.Anything, domain.LossFilter{}).Return([]domain.LossRecord{saved}, nil).Once()

	after, err := svc.GetAggregates(context.Background(), time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 6, after.Monthly[5])
	losses.AssertExpectations(t)
}

func TestRegisterManualLoss_Validation(t *testing.T) {
	svc := newService(new(MockProductStore), new(MockLossStore), nil)

	cases := []struct {
		name string
		req  domain.LossRegistration
	}{
		{"sem produto", domain.LossRegistration{Quantity: 1, Reason: "AVARIA"}},
		{"quantidade zero", domain.LossRegistration{ProductID: 1, Reason: "AVARIA"}},
		{"quantidade negativa", domain.LossRegistration{ProductID: 1, Quantity: -2, Reason: "AVARIA"}},
		{"motivo vazio", domain.LossRegistration{ProductID: 1, Quantity: 1, Reason: "   "}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.RegisterManualLoss(context.Background(), tc.req)
			assert.IsType(t, &apperror.ValidationError{}, err)
		})
	}
}

func TestGetReportData(t *testing.T) {
	products := new(MockProductStore)
	losses := new(MockLossStore)
	svc := newService(products, losses, nil)

	manual := []domain.LossRecord{
		{Origin: domain.LossManual, ID: 1, Quantity: 5, Reason: "AVARIA", LossDate: time.Date(2024, time.April, 3, 12, 0, 0, 0, time.UTC)},
		{Origin: domain.LossManual, ID: 2, Quantity: 4, Reason: "ROUBO", LossDate: time.Date(2024, time.April, 20, 12, 0, 0, 0, time.UTC)},
	}
	products.On("FindAll", mock.Anything, domain.ProductFilter{}).Return([]domain.Product{}, nil)
	losses.On("FindAll", mock.Anything, domain.LossFilter{}).Return(manual, nil)

	report, err := svc.GetReportData(context.Background(), domain.ReportMonthly, 4, 2024)
	require.NoError(t, err)
	assert.Equal(t, 9, report.Total)
	assert.Len(t, report.Records, 2)
	assert.Equal(t, 4, report.Month)

	_, err = svc.GetReportData(context.Background(), domain.ReportMonthly, 5, 2024)
	var empty *apperror.EmptyDatasetError
	assert.True(t, errors.As(err, &empty))
}
