package rest

import (
	"context"
	"github.com/heartmarshall/altar-backend/internal/domain"
	"github.com/heartmarshall/altar-backend/internal/service/projection"
	"sync"
)

var _ projectionService = &projectionServiceMock{}

type projectionServiceMock struct {
	ActiveFunc   func(ctx context.Context) (*domain.ActiveInvocation, error)
	RosterFunc   func(ctx context.Context) ([]domain.SubjectState, error)
	HistoryFunc  func(ctx context.Context, input projection.HistoryInput) ([]domain.JournalEntry, error)
	OverviewFunc func(ctx context.Context) (*domain.Overview, error)

	calls struct {
		Active []struct {
			Ctx context.Context
		}
		Roster []struct {
			Ctx context.Context
		}
		History []struct {
			Ctx   context.Context
			Input projection.HistoryInput
		}
		Overview []struct {
			Ctx context.Context
		}
	}
	lockActive   sync.RWMutex
	lockRoster   sync.RWMutex
	lockHistory  sync.RWMutex
	lockOverview sync.RWMutex
}

func (mock *projectionServiceMock) Active(ctx context.Context) (*domain.ActiveInvocation, error) {
	if mock.ActiveFunc == nil {
		panic("projectionServiceMock.ActiveFunc: method is nil but projectionService.Active was just called")
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

func (mock *projectionServiceMock) ActiveCalls() []struct {
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

func (mock *projectionServiceMock) Roster(ctx context.Context) ([]domain.SubjectState, error) {
	if mock.RosterFunc == nil {
		panic("projectionServiceMock.RosterFunc: method is nil but projectionService.Roster was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{
		Ctx: ctx,
	}
	mock.lockRoster.Lock()
	mock.calls.Roster = append(mock.calls.Roster, callInfo)
	mock.lockRoster.Unlock()
	return mock.RosterFunc(ctx)
}

func (mock *projectionServiceMock) RosterCalls() []struct {
	Ctx context.Context
} {
	var calls []struct {
		Ctx context.Context
	}
	mock.lockRoster.RLock()
	calls = mock.calls.Roster
	mock.lockRoster.RUnlock()
	return calls
}

func (mock *projectionServiceMock) History(ctx context.Context, input projection.HistoryInput) ([]domain.JournalEntry, error) {
	if mock.HistoryFunc == nil {
		panic("projectionServiceMock.HistoryFunc: method is nil but projectionService.History was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input projection.HistoryInput
	}{
		Ctx:   ctx,
		Input: input,
	}
	mock.lockHistory.Lock()
	mock.calls.History = append(mock.calls.History, callInfo)
	mock.lockHistory.Unlock()
	return mock.HistoryFunc(ctx, input)
}

func (mock *projectionServiceMock) HistoryCalls() []struct {
	Ctx   context.Context
	Input projection.HistoryInput
} {
	var calls []struct {
		Ctx   context.Context
		Input projection.HistoryInput
	}
	mock.lockHistory.RLock()
	calls = mock.calls.History
	mock.lockHistory.RUnlock()
	return calls
}

func (mock *projectionServiceMock) Overview(ctx context.Context) (*domain.Overview, error) {
	if mock.OverviewFunc == nil {
		panic("projectionServiceMock.OverviewFunc: method is nil but projectionService.Overview was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{
		Ctx: ctx,
	}
	mock.lockOverview.Lock()
	mock.calls.Overview = append(mock.calls.Overview, callInfo)
	mock.lockOverview.Unlock()
	return mock.OverviewFunc(ctx)
}

func (mock *projectionServiceMock) OverviewCalls() []struct {
	Ctx context.Context
} {
	var calls []struct {
		Ctx context.Context
	}
	mock.lockOverview.RLock()
	calls = mock.calls.Overview
	mock.lockOverview.RUnlock()
	return calls
}
