package invocation

import (
	"context"
	"github.com/heartmarshall/altar-backend/internal/notify"
	"sync"
)

var _ notifier = &notifierMock{}

type notifierMock struct {
	PublishFunc func(ctx context.Context, c notify.Change)

	calls struct {
		Publish []struct {
			Ctx context.Context
			C   notify.Change
		}
	}
	lockPublish sync.RWMutex
}

func (mock *notifierMock) Publish(ctx context.Context, c notify.Change) {
	if mock.PublishFunc == nil {
		panic("notifierMock.PublishFunc: method is nil but notifier.Publish was just called")
	}
	callInfo := struct {
		Ctx context.Context
		C   notify.Change
	}{
		Ctx: ctx,
		C:   c,
	}
	mock.lockPublish.Lock()
	mock.calls.Publish = append(mock.calls.Publish, callInfo)
	mock.lockPublish.Unlock()
	mock.PublishFunc(ctx, c)
}

func (mock *notifierMock) PublishCalls() []struct {
	Ctx context.Context
	C   notify.Change
} {
	var calls []struct {
		Ctx context.Context
		C   notify.Change
	}
	mock.lockPublish.RLock()
	calls = mock.calls.Publish
	mock.lockPublish.RUnlock()
	return calls
}
