// Package mocks provides test doubles for the fetcher package.
package mocks

import (
	"context"

	fetcher "github.com/sells-group/bivariate-map/internal/fetcher"
	mock "github.com/stretchr/testify/mock"
)

// MockTableLoader is a mock type for the TableLoader interface.
type MockTableLoader struct {
	mock.Mock
}

// LoadTable provides a mock function with given fields: ctx, locator
func (_m *MockTableLoader) LoadTable(ctx context.Context, locator string) (*fetcher.Table, error) {
	ret := _m.Called(ctx, locator)

	if len(ret) == 0 {
		panic("no return value specified for LoadTable")
	}

	var r0 *fetcher.Table
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (*fetcher.Table, error)); ok {
		return rf(ctx, locator)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) *fetcher.Table); ok {
		r0 = rf(ctx, locator)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*fetcher.Table)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, locator)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockTableLoader creates a new instance of MockTableLoader. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockTableLoader(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTableLoader {
	mock := &MockTableLoader{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
