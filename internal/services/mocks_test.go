package services_test

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"
)

// MockShopware is a mock implementation of services.Shopware. Data answers
// are configured as JSON strings; Decode is served from Data.
type MockShopware struct {
	mock.Mock
}

func (m *MockShopware) Get(ctx context.Context, resource string) ([]byte, error) {
	args := m.Called(resource)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return []byte(args.String(0)), args.Error(1)
}

func (m *MockShopware) Data(ctx context.Context, resource string) (json.RawMessage, error) {
	args := m.Called(resource)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return json.RawMessage(args.String(0)), nil
}

func (m *MockShopware) Decode(ctx context.Context, resource string, out any) error {
	raw, err := m.Data(ctx, resource)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// MockZalando is a mock implementation of services.Zalando.
type MockZalando struct {
	mock.Mock
}

func (m *MockZalando) Outlines(ctx context.Context) (json.RawMessage, error) {
	args := m.Called()
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return json.RawMessage(args.String(0)), nil
}

func (m *MockZalando) Attributes(ctx context.Context, name string) (json.RawMessage, error) {
	args := m.Called(name)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return json.RawMessage(args.String(0)), nil
}

func (m *MockZalando) SubmitProduct(ctx context.Context, payload any) (int, error) {
	args := m.Called(payload)
	return args.Int(0), args.Error(1)
}

// MockPublisher is a mock implementation of services.EventPublisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(routingKey string, payload any) error {
	args := m.Called(routingKey, payload)
	return args.Error(0)
}

// countingObserver records submission outcomes and session changes.
type countingObserver struct {
	outcomes []string
	open     int
}

func (o *countingObserver) ObserveSubmission(outcome string) { o.outcomes = append(o.outcomes, outcome) }
func (o *countingObserver) SessionOpened()                   { o.open++ }
func (o *countingObserver) SessionClosed()                   { o.open-- }
