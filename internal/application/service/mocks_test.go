package service

import (
	"context"
	"sync"

	"github.com/TintinDu/BilledApp/internal/application/port"
	"github.com/TintinDu/BilledApp/internal/domain/entity"
)

// Mock store
type mockBillStore struct {
	mu sync.Mutex

	createArtifactFunc func(ctx context.Context, upload *port.ArtifactUpload) (*port.ArtifactRef, error)
	upsertBillFunc     func(ctx context.Context, bill *entity.Bill, selector string) (*entity.Bill, error)
	listBillsFunc      func(ctx context.Context) ([]*entity.Bill, error)

	createCalls []*port.ArtifactUpload
	upsertCalls []upsertCall
}

type upsertCall struct {
	bill     *entity.Bill
	selector string
}

func (m *mockBillStore) CreateArtifact(ctx context.Context, upload *port.ArtifactUpload) (*port.ArtifactRef, error) {
	m.mu.Lock()
	m.createCalls = append(m.createCalls, upload)
	m.mu.Unlock()
	if m.createArtifactFunc != nil {
		return m.createArtifactFunc(ctx, upload)
	}
	return &port.ArtifactRef{ID: "artifact-1", FileURL: "/uploads/" + upload.FileName}, nil
}

func (m *mockBillStore) UpsertBill(ctx context.Context, bill *entity.Bill, selector string) (*entity.Bill, error) {
	m.mu.Lock()
	m.upsertCalls = append(m.upsertCalls, upsertCall{bill: bill, selector: selector})
	m.mu.Unlock()
	if m.upsertBillFunc != nil {
		return m.upsertBillFunc(ctx, bill, selector)
	}
	return bill, nil
}

func (m *mockBillStore) ListBills(ctx context.Context) ([]*entity.Bill, error) {
	if m.listBillsFunc != nil {
		return m.listBillsFunc(ctx)
	}
	return []*entity.Bill{}, nil
}

func (m *mockBillStore) createCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.createCalls)
}

func (m *mockBillStore) upserts() []upsertCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]upsertCall{}, m.upsertCalls...)
}

// Recording navigator
type recordingNavigator struct {
	mu     sync.Mutex
	routes []port.Route
}

func (n *recordingNavigator) Navigate(route port.Route) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.routes = append(n.routes, route)
}

func (n *recordingNavigator) requested() []port.Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]port.Route{}, n.routes...)
}

type mockLogger struct{}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}

func staticSession(email, userType string) port.Session {
	return port.SessionFunc(func() (*entity.User, error) {
		return &entity.User{Email: email, Type: userType}, nil
	})
}
