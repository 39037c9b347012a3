package watchdog

import (
	"context"
	"github.com/heartmarshall/altar-backend/internal/domain"
	"sync"
)

var _ banisher = &banisherMock{}

type banisherMock struct {
	BanishFunc func(ctx context.Context, subjectID string, reason domain.BanishReason) error

	calls struct {
		Banish []struct {
			Ctx       context.Context
			SubjectID string
			Reason    domain.BanishReason
		}
	}
	lockBanish sync.RWMutex
}

func (mock *banisherMock) Banish(ctx context.Context, subjectID string, reason domain.BanishReason) error {
	if mock.BanishFunc == nil {
		panic("banisherMock.BanishFunc: method is nil but banisher.Banish was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		SubjectID string
		Reason    domain.BanishReason
	}{
		Ctx:       ctx,
		SubjectID: subjectID,
		Reason:    reason,
	}
	mock.lockBanish.Lock()
	mock.calls.Banish = append(mock.calls.Banish, callInfo)
	mock.lockBanish.Unlock()
	return mock.BanishFunc(ctx, subjectID, reason)
}

func (mock *banisherMock) BanishCalls() []struct {
	Ctx       context.Context
	SubjectID string
	Reason    domain.BanishReason
} {
	var calls []struct {
		Ctx       context.Context
		SubjectID string
		Reason    domain.BanishReason
	}
	mock.lockBanish.RLock()
	calls = mock.calls.Banish
	mock.lockBanish.RUnlock()
	return calls
}
