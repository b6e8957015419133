package navigation

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"co2dash/pkg/contracts/domain"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) BroadcastContext(ctx context.Context, messageType string, data interface{}) {
	m.Called(ctx, messageType, data)
}

func TestNewStateDefaultsToChoropleth(t *testing.T) {
	s := NewState(nil, nil, nil)
	assert.Equal(t, domain.TabChoropleth, s.Snapshot().Active)

	snap := s.Snapshot()
	assert.Equal(t, domain.TabChoropleth, snap.Active)
	assert.Equal(t, "Choropleth Map", snap.Title)
	assert.Len(t, snap.Tabs, 6)
}

func TestSelectPublishesChange(t *testing.T) {
	pub := new(MockPublisher)
	pub.On("BroadcastContext", mock.Anything, EventChanged, mock.MatchedBy(func(s Snapshot) bool {
		return s.Active == domain.TabForecast
	})).Once()

	s := NewState(pub, nil, nil)
	snap, err := s.Select(context.Background(), "Forecast")
	require.NoError(t, err)
	assert.Equal(t, domain.TabForecast, snap.Active)
	assert.Equal(t, domain.TabForecast, s.Snapshot().Active)

	// Same tab again publishes nothing
	_, err = s.Select(context.Background(), "forecast")
	require.NoError(t, err)

	pub.AssertExpectations(t)
}

func TestSelectUnknownTab(t *testing.T) {
	pub := new(MockPublisher)
	s := NewState(pub, nil, nil)

	_, err := s.Select(context.Background(), "settings")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownTab))
	assert.Equal(t, domain.DefaultTab, s.Snapshot().Active)
	pub.AssertNotCalled(t, "BroadcastContext", mock.Anything, mock.Anything, mock.Anything)
}

func TestSelectConcurrent(t *testing.T) {
	s := NewState(nil, nil, nil)
	tabs := domain.AllTabs()

	var wg sync.WaitGroup
	for i := 0; i < 60; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.Select(context.Background(), string(tabs[i%len(tabs)]))
			assert.NoError(t, err)
			_ = s.Snapshot()
		}(i)
	}
	wg.Wait()
	assert.True(t, s.Snapshot().Active.Valid())
}
