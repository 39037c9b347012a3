package invocation

import (
	"context"
	"github.com/google/uuid"
	"github.com/heartmarshall/altar-backend/internal/domain"
	"sync"
	"time"
)

var _ journalRepo = &journalRepoMock{}

type journalRepoMock struct {
	OpenFunc            func(ctx context.Context, userID uuid.UUID, subjectID string, startedAt time.Time) (*domain.JournalEntry, error)
	CloseOpenFunc       func(ctx context.Context, userID uuid.UUID, subjectID string, endedAt time.Time) (int64, error)
	CloseLatestOpenFunc func(ctx context.Context, userID uuid.UUID, subjectID string, endedAt time.Time) (bool, error)

	calls struct {
		Open []struct {
			Ctx       context.Context
			UserID    uuid.UUID
			SubjectID string
			StartedAt time.Time
		}
		CloseOpen []struct {
			Ctx       context.Context
			UserID    uuid.UUID
			SubjectID string
			EndedAt   time.Time
		}
		CloseLatestOpen []struct {
			Ctx       context.Context
			UserID    uuid.UUID
			SubjectID string
			EndedAt   time.Time
		}
	}
	lockOpen            sync.RWMutex
	lockCloseOpen       sync.RWMutex
	lockCloseLatestOpen sync.RWMutex
}

func (mock *journalRepoMock) Open(ctx context.Context, userID uuid.UUID, subjectID string, startedAt time.Time) (*domain.JournalEntry, error) {
	if mock.OpenFunc == nil {
		panic("journalRepoMock.OpenFunc: method is nil but journalRepo.Open was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		UserID    uuid.UUID
		SubjectID string
		StartedAt time.Time
	}{
		Ctx:       ctx,
		UserID:    userID,
		SubjectID: subjectID,
		StartedAt: startedAt,
	}
	mock.lockOpen.Lock()
	mock.calls.Open = append(mock.calls.Open, callInfo)
	mock.lockOpen.Unlock()
	return mock.OpenFunc(ctx, userID, subjectID, startedAt)
}

func (mock *journalRepoMock) OpenCalls() []struct {
	Ctx       context.Context
	UserID    uuid.UUID
	SubjectID string
	StartedAt time.Time
} {
	var calls []struct {
		Ctx       context.Context
		UserID    uuid.UUID
		SubjectID string
		StartedAt time.Time
	}
	mock.lockOpen.RLock()
	calls = mock.calls.Open
	mock.lockOpen.RUnlock()
	return calls
}

func (mock *journalRepoMock) CloseOpen(ctx context.Context, userID uuid.UUID, subjectID string, endedAt time.Time) (int64, error) {
	if mock.CloseOpenFunc == nil {
		panic("journalRepoMock.CloseOpenFunc: method is nil but journalRepo.CloseOpen was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		UserID    uuid.UUID
		SubjectID string
		EndedAt   time.Time
	}{
		Ctx:       ctx,
		UserID:    userID,
		SubjectID: subjectID,
		EndedAt:   endedAt,
	}
	mock.lockCloseOpen.Lock()
	mock.calls.CloseOpen = append(mock.calls.CloseOpen, callInfo)
	mock.lockCloseOpen.Unlock()
	return mock.CloseOpenFunc(ctx, userID, subjectID, endedAt)
}

func (mock *journalRepoMock) CloseOpenCalls() []struct {
	Ctx       context.Context
	UserID    uuid.UUID
	SubjectID string
	EndedAt   time.Time
} {
	var calls []struct {
		Ctx       context.Context
		UserID    uuid.UUID
		SubjectID string
		EndedAt   time.Time
	}
	mock.lockCloseOpen.RLock()
	calls = mock.calls.CloseOpen
	mock.lockCloseOpen.RUnlock()
	return calls
}

func (mock *journalRepoMock) CloseLatestOpen(ctx context.Context, userID uuid.UUID, subjectID string, endedAt time.Time) (bool, error) {
	if mock.CloseLatestOpenFunc == nil {
		panic("journalRepoMock.CloseLatestOpenFunc: method is nil but journalRepo.CloseLatestOpen was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		UserID    uuid.UUID
		SubjectID string
		EndedAt   time.Time
	}{
		Ctx:       ctx,
		UserID:    userID,
		SubjectID: subjectID,
		EndedAt:   endedAt,
	}
	mock.lockCloseLatestOpen.Lock()
	mock.calls.CloseLatestOpen = append(mock.calls.CloseLatestOpen, callInfo)
	mock.lockCloseLatestOpen.Unlock()
	return mock.CloseLatestOpenFunc(ctx, userID, subjectID, endedAt)
}

func (mock *journalRepoMock) CloseLatestOpenCalls() []struct {
	Ctx       context.Context
	UserID    uuid.UUID
	SubjectID string
	EndedAt   time.Time
} {
	var calls []struct {
		Ctx       context.Context
		UserID    uuid.UUID
		SubjectID string
		EndedAt   time.Time
	}
	mock.lockCloseLatestOpen.RLock()
	calls = mock.calls.CloseLatestOpen
	mock.lockCloseLatestOpen.RUnlock()
	return calls
}
