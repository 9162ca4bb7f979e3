package cmd

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"os"
	"testing"

	"github.com/restohub/resto-cli/internal/di"
	iface "github.com/restohub/resto-cli/internal/service/interface"
)

// MockAuthService is a mock implementation of iface.AuthService
type MockAuthService struct {
	LoginFunc  func(ctx context.Context, email, password string) (*iface.User, error)
	LogoutFunc func(ctx context.Context) error
	StatusFunc func(ctx context.Context) (*iface.SessionStatus, error)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*iface.User, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return &iface.User{Email: email}, nil
}

func (m *MockAuthService) Logout(ctx context.Context) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx)
	}
	return nil
}

func (m *MockAuthService) Status(ctx context.Context) (*iface.SessionStatus, error) {
	if m.StatusFunc != nil {
		return m.StatusFunc(ctx)
	}
	return &iface.SessionStatus{}, nil
}

// MockResourceService is a mock implementation of iface.ResourceService
type MockResourceService struct {
	ListFunc        func(ctx context.Context, resource iface.Resource, query url.Values) ([]iface.Record, error)
	GetFunc         func(ctx context.Context, resource iface.Resource, id string) (iface.Record, error)
	CreateFunc      func(ctx context.Context, resource iface.Resource, data iface.Record) (iface.Record, error)
	UpdateFunc      func(ctx context.Context, resource iface.Resource, id string, data iface.Record) (iface.Record, error)
	PatchFunc       func(ctx context.Context, resource iface.Resource, id string, data iface.Record) (iface.Record, error)
	DeleteFunc      func(ctx context.Context, resource iface.Resource, id string) error
	UploadImageFunc func(ctx context.Context, resource iface.Resource, id, path string) (iface.Record, error)
}

func (m *MockResourceService) List(ctx context.Context, resource iface.Resource, query url.Values) ([]iface.Record, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, resource, query)
	}
	return nil, nil
}

func (m *MockResourceService) Get(ctx context.Context, resource iface.Resource, id string) (iface.Record, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, resource, id)
	}
	return iface.Record{"id": id}, nil
}

func (m *MockResourceService) Create(ctx context.Context, resource iface.Resource, data iface.Record) (iface.Record, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, resource, data)
	}
	return data, nil
}

func (m *MockResourceService) Update(ctx context.Context, resource iface.Resource, id string, data iface.Record) (iface.Record, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, resource, id, data)
	}
	return data, nil
}

func (m *MockResourceService) Patch(ctx context.Context, resource iface.Resource, id string, data iface.Record) (iface.Record, error) {
	if m.PatchFunc != nil {
		return m.PatchFunc(ctx, resource, id, data)
	}
	return data, nil
}

func (m *MockResourceService) Delete(ctx context.Context, resource iface.Resource, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, resource, id)
	}
	return nil
}

func (m *MockResourceService) UploadImage(ctx context.Context, resource iface.Resource, id, path string) (iface.Record, error) {
	if m.UploadImageFunc != nil {
		return m.UploadImageFunc(ctx, resource, id, path)
	}
	return iface.Record{"id": id}, nil
}

// MockRestaurantService is a mock implementation of iface.RestaurantService
type MockRestaurantService struct {
	GetScheduleFunc        func(ctx context.Context, restaurantID string) ([]iface.ScheduleSlot, error)
	SetScheduleFunc        func(ctx context.Context, restaurantID string, schedule []iface.ScheduleSlot) ([]iface.ScheduleSlot, error)
	SetManagerFunc         func(ctx context.Context, restaurantID string, managerID int) (iface.Record, error)
	SetUserRestaurantsFunc func(ctx context.Context, userID string, restaurantIDs []int) (iface.Record, error)
}

func (m *MockRestaurantService) GetSchedule(ctx context.Context, restaurantID string) ([]iface.ScheduleSlot, error) {
	if m.GetScheduleFunc != nil {
		return m.GetScheduleFunc(ctx, restaurantID)
	}
	return nil, nil
}

func (m *MockRestaurantService) SetSchedule(ctx context.Context, restaurantID string, schedule []iface.ScheduleSlot) ([]iface.ScheduleSlot, error) {
	if m.SetScheduleFunc != nil {
		return m.SetScheduleFunc(ctx, restaurantID, schedule)
	}
	return schedule, nil
}

func (m *MockRestaurantService) SetManager(ctx context.Context, restaurantID string, managerID int) (iface.Record, error) {
	if m.SetManagerFunc != nil {
		return m.SetManagerFunc(ctx, restaurantID, managerID)
	}
	return iface.Record{"id": restaurantID}, nil
}

func (m *MockRestaurantService) SetUserRestaurants(ctx context.Context, userID string, restaurantIDs []int) (iface.Record, error) {
	if m.SetUserRestaurantsFunc != nil {
		return m.SetUserRestaurantsFunc(ctx, userID, restaurantIDs)
	}
	return iface.Record{"id": userID}, nil
}

// MockNotificationService is a mock implementation of iface.NotificationService
type MockNotificationService struct {
	UnreadFunc   func(ctx context.Context) ([]iface.Record, error)
	MarkReadFunc func(ctx context.Context, id string) error
}

func (m *MockNotificationService) Unread(ctx context.Context) ([]iface.Record, error) {
	if m.UnreadFunc != nil {
		return m.UnreadFunc(ctx)
	}
	return nil, nil
}

func (m *MockNotificationService) MarkRead(ctx context.Context, id string) error {
	if m.MarkReadFunc != nil {
		return m.MarkReadFunc(ctx, id)
	}
	return nil
}

type mocks struct {
	auth         *MockAuthService
	resource     *MockResourceService
	restaurant   *MockRestaurantService
	notification *MockNotificationService
}

func newMocks() *mocks {
	return &mocks{
		auth:         &MockAuthService{},
		resource:     &MockResourceService{},
		restaurant:   &MockRestaurantService{},
		notification: &MockNotificationService{},
	}
}

// execute runs the CLI with mock services and returns what it printed on stdout
func (m *mocks) execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	container := di.NewContainerWithServices(m.auth, m.resource, m.restaurant, m.notification)

	root := NewRootCommand()
	root.SetContainer(container)

	// Capture stdout
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	root.Command().SetArgs(args)
	err := root.Command().Execute()

	// Restore stdout and read output
	w.Close()
	os.Stdout = oldStdout
	var buf bytes.Buffer
	io.Copy(&buf, r)

	return buf.String(), err
}
