package projection

import (
	"context"
	"github.com/google/uuid"
	"github.com/heartmarshall/altar-backend/internal/domain"
	"sync"
)

var _ journalReader = &journalReaderMock{}

type journalReaderMock struct {
	ListBySubjectFunc func(ctx context.Context, userID uuid.UUID, subjectID string, limit int) ([]domain.JournalEntry, error)

	calls struct {
		ListBySubject []struct {
			Ctx       context.Context
			UserID    uuid.UUID
			SubjectID string
			Limit     int
		}
	}
	lockListBySubject sync.RWMutex
}

func (mock *journalReaderMock) ListBySubject(ctx context.Context, userID uuid.UUID, subjectID string, limit int) ([]domain.JournalEntry, error) {
	if mock.ListBySubjectFunc == nil {
		panic("journalReaderMock.ListBySubjectFunc: method is nil but journalReader.ListBySubject was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		UserID    uuid.UUID
		SubjectID string
		Limit     int
	}{
		Ctx:       ctx,
		UserID:    userID,
		SubjectID: subjectID,
		Limit:     limit,
	}
	mock.lockListBySubject.Lock()
	mock.calls.ListBySubject = append(mock.calls.ListBySubject, callInfo)
	mock.lockListBySubject.Unlock()
	return mock.ListBySubjectFunc(ctx, userID, subjectID, limit)
}

func (mock *journalReaderMock) ListBySubjectCalls() []struct {
	Ctx       context.Context
	UserID    uuid.UUID
	SubjectID string
	Limit     int
} {
	var calls []struct {
		Ctx       context.Context
		UserID    uuid.UUID
		SubjectID string
		Limit     int
	}
	mock.lockListBySubject.RLock()
	calls = mock.calls.ListBySubject
	mock.lockListBySubject.RUnlock()
	return calls
}
