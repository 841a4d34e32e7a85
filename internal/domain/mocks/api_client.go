package mocks

import (
	"context"
	"net/url"

	"github.com/UniversityPortal/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockAPIClient struct {
	mock.Mock
}

func (m *MockAPIClient) Call(ctx context.Context, path string, query url.Values) domain.Envelope {
	args := m.Called(ctx, path, query)
	return args.Get(0).(domain.Envelope)
}

type MockEventSink struct {
	mock.Mock
}

func (m *MockEventSink) Publish(ctx context.Context, event *domain.DegradationEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventSink) Close() error {
	args := m.Called()
	return args.Error(0)
}
