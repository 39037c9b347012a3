package projection

import (
	"context"
	"github.com/google/uuid"
	"github.com/heartmarshall/altar-backend/internal/domain"
	"sync"
)

var _ stateReader = &stateReaderMock{}

type stateReaderMock struct {
	GetActiveFunc  func(ctx context.Context, userID uuid.UUID) (*domain.SubjectState, error)
	ListRosterFunc func(ctx context.Context, userID uuid.UUID) ([]domain.SubjectState, error)

	calls struct {
		GetActive []struct {
			Ctx    context.Context
			UserID uuid.UUID
		}
		ListRoster []struct {
			Ctx    context.Context
			UserID uuid.UUID
		}
	}
	lockGetActive  sync.RWMutex
	lockListRoster sync.RWMutex
}

func (mock *stateReaderMock) GetActive(ctx context.Context, userID uuid.UUID) (*domain.SubjectState, error) {
	if mock.GetActiveFunc == nil {
		panic("stateReaderMock.GetActiveFunc: method is nil but stateReader.GetActive was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID uuid.UUID
	}{
		Ctx:    ctx,
		UserID: userID,
	}
	mock.lockGetActive.Lock()
	mock.calls.GetActive = append(mock.calls.GetActive, callInfo)
	mock.lockGetActive.Unlock()
	return mock.GetActiveFunc(ctx, userID)
}

func (mock *stateReaderMock) GetActiveCalls() []struct {
	Ctx    context.Context
	UserID uuid.UUID
} {
	var calls []struct {
		Ctx    context.Context
		UserID uuid.UUID
	}
	mock.lockGetActive.RLock()
	calls = mock.calls.GetActive
	mock.lockGetActive.RUnlock()
	return calls
}

func (mock *stateReaderMock) ListRoster(ctx context.Context, userID uuid.UUID) ([]domain.SubjectState, error) {
	if mock.ListRosterFunc == nil {
		panic("stateReaderMock.ListRosterFunc: method is nil but stateReader.ListRoster was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID uuid.UUID
	}{
		Ctx:    ctx,
		UserID: userID,
	}
	mock.lockListRoster.Lock()
	mock.calls.ListRoster = append(mock.calls.ListRoster, callInfo)
	mock.lockListRoster.Unlock()
	return mock.ListRosterFunc(ctx, userID)
}

func (mock *stateReaderMock) ListRosterCalls() []struct {
	Ctx    context.Context
	UserID uuid.UUID
} {
	var calls []struct {
		Ctx    context.Context
		UserID uuid.UUID
	}
	mock.lockListRoster.RLock()
	calls = mock.calls.ListRoster
	mock.lockListRoster.RUnlock()
	return calls
}
