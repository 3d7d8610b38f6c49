package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/santoshkumarshah266-jpg/storeadmin/internal/models"
	"github.com/santoshkumarshah266-jpg/storeadmin/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) Analytics(ctx context.Context) (*models.Analytics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Analytics), args.Error(1)
}

func TestLoad(t *testing.T) {
	api := new(MockAPI)
	api.On("Analytics", mock.Anything).Return(&models.Analytics{
		Today:        models.PeriodSummary{Orders: 1, Revenue: 1800},
		Week:         models.PeriodSummary{Orders: 3, Revenue: 6300.5},
		Month:        models.PeriodSummary{Orders: 4, Revenue: 0.1 + 0.2},
		RecentOrders: []models.Order{{OrderID: "o1"}},
	}, nil)

	v, err := Load(context.Background(), api, nil)

	require.NoError(t, err)
	assert.Equal(t, []Period{
		{Label: "Today", Orders: 1, Revenue: "1800.00"},
		{Label: "This Week", Orders: 3, Revenue: "6300.50"},
		{Label: "This Month", Orders: 4, Revenue: "0.30"},
	}, v.Periods)
	assert.Len(t, v.RecentOrders, 1)
}

func TestLoad_Failure(t *testing.T) {
	api := new(MockAPI)
	rec := &notify.Recorder{}
	api.On("Analytics", mock.Anything).Return(nil, errors.New("down"))

	v, err := Load(context.Background(), api, rec)

	assert.Error(t, err)
	assert.Nil(t, v)
	assert.Equal(t, []string{"Failed to load analytics"}, rec.Errors())
}
