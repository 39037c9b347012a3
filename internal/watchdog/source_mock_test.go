package watchdog

import (
	"context"
	"github.com/heartmarshall/altar-backend/internal/domain"
	"sync"
)

var _ source = &sourceMock{}

type sourceMock struct {
	ActiveFunc  func(ctx context.Context) (*domain.ActiveInvocation, error)
	RefreshFunc func(ctx context.Context) error

	calls struct {
		Active []struct {
			Ctx context.Context
		}
		Refresh []struct {
			Ctx context.Context
		}
	}
	lockActive  sync.RWMutex
	lockRefresh sync.RWMutex
}

func (mock *sourceMock) Active(ctx context.Context) (*domain.ActiveInvocation, error) {
	if mock.ActiveFunc == nil {
		panic("sourceMock.ActiveFunc: method is nil but source.Active was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{
		Ctx: ctx,
	}
	mock.lockActive.Lock()
	mock.calls.Active = append(mock.calls.Active, callInfo)
	mock.lockActive.Unlock()
	return mock.ActiveFunc(ctx)
}

func (mock *sourceMock) ActiveCalls() []struct {
	Ctx context.Context
} {
	var calls []struct {
		Ctx context.Context
	}
	mock.lockActive.RLock()
	calls = mock.calls.Active
	mock.lockActive.RUnlock()
	return calls
}

func (mock *sourceMock) Refresh(ctx context.Context) error {
	if mock.RefreshFunc == nil {
		panic("sourceMock.RefreshFunc: method is nil but source.Refresh was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{
		Ctx: ctx,
	}
	mock.lockRefresh.Lock()
	mock.calls.Refresh = append(mock.calls.Refresh, callInfo)
	mock.lockRefresh.Unlock()
	return mock.RefreshFunc(ctx)
}

func (mock *sourceMock) RefreshCalls() []struct {
	Ctx context.Context
} {
	var calls []struct {
		Ctx context.Context
	}
	mock.lockRefresh.RLock()
	calls = mock.calls.Refresh
	mock.lockRefresh.RUnlock()
	return calls
}
