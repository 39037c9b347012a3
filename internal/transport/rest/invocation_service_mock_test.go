package rest

import (
	"context"
	"github.com/heartmarshall/altar-backend/internal/service/invocation"
	"sync"
)

var _ invocationService = &invocationServiceMock{}

type invocationServiceMock struct {
	InvokeFunc        func(ctx context.Context, input invocation.SubjectInput) error
	BanishFunc        func(ctx context.Context, input invocation.BanishInput) error
	ExtendFunc        func(ctx context.Context, input invocation.SubjectInput) error
	SetWishlistedFunc func(ctx context.Context, input invocation.WishlistInput) error

	calls struct {
		Invoke []struct {
			Ctx   context.Context
			Input invocation.SubjectInput
		}
		Banish []struct {
			Ctx   context.Context
			Input invocation.BanishInput
		}
		Extend []struct {
			Ctx   context.Context
			Input invocation.SubjectInput
		}
		SetWishlisted []struct {
			Ctx   context.Context
			Input invocation.WishlistInput
		}
	}
	lockInvoke        sync.RWMutex
	lockBanish        sync.RWMutex
	lockExtend        sync.RWMutex
	lockSetWishlisted sync.RWMutex
}

func (mock *invocationServiceMock) Invoke(ctx context.Context, input invocation.SubjectInput) error {
	if mock.InvokeFunc == nil {
		panic("invocationServiceMock.InvokeFunc: method is nil but invocationService.Invoke was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input invocation.SubjectInput
	}{
		Ctx:   ctx,
		Input: input,
	}
	mock.lockInvoke.Lock()
	mock.calls.Invoke = append(mock.calls.Invoke, callInfo)
	mock.lockInvoke.Unlock()
	return mock.InvokeFunc(ctx, input)
}

func (mock *invocationServiceMock) InvokeCalls() []struct {
	Ctx   context.Context
	Input invocation.SubjectInput
} {
	var calls []struct {
		Ctx   context.Context
		Input invocation.SubjectInput
	}
	mock.lockInvoke.RLock()
	calls = mock.calls.Invoke
	mock.lockInvoke.RUnlock()
	return calls
}

func (mock *invocationServiceMock) Banish(ctx context.Context, input invocation.BanishInput) error {
	if mock.BanishFunc == nil {
		panic("invocationServiceMock.BanishFunc: method is nil but invocationService.Banish was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input invocation.BanishInput
	}{
		Ctx:   ctx,
		Input: input,
	}
	mock.lockBanish.Lock()
	mock.calls.Banish = append(mock.calls.Banish, callInfo)
	mock.lockBanish.Unlock()
	return mock.BanishFunc(ctx, input)
}

func (mock *invocationServiceMock) BanishCalls() []struct {
	Ctx   context.Context
	Input invocation.BanishInput
} {
	var calls []struct {
		Ctx   context.Context
		Input invocation.BanishInput
	}
	mock.lockBanish.RLock()
	calls = mock.calls.Banish
	mock.lockBanish.RUnlock()
	return calls
}

func (mock *invocationServiceMock) Extend(ctx context.Context, input invocation.SubjectInput) error {
	if mock.ExtendFunc == nil {
		panic("invocationServiceMock.ExtendFunc: method is nil but invocationService.Extend was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input invocation.SubjectInput
	}{
		Ctx:   ctx,
		Input: input,
	}
	mock.lockExtend.Lock()
	mock.calls.Extend = append(mock.calls.Extend, callInfo)
	mock.lockExtend.Unlock()
	return mock.ExtendFunc(ctx, input)
}

func (mock *invocationServiceMock) ExtendCalls() []struct {
	Ctx   context.Context
	Input invocation.SubjectInput
} {
	var calls []struct {
		Ctx   context.Context
		Input invocation.SubjectInput
	}
	mock.lockExtend.RLock()
	calls = mock.calls.Extend
	mock.lockExtend.RUnlock()
	return calls
}

func (mock *invocationServiceMock) SetWishlisted(ctx context.Context, input invocation.WishlistInput) error {
	if mock.SetWishlistedFunc == nil {
		panic("invocationServiceMock.SetWishlistedFunc: method is nil but invocationService.SetWishlisted was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input invocation.WishlistInput
	}{
		Ctx:   ctx,
		Input: input,
	}
	mock.lockSetWishlisted.Lock()
	mock.calls.SetWishlisted = append(mock.calls.SetWishlisted, callInfo)
	mock.lockSetWishlisted.Unlock()
	return mock.SetWishlistedFunc(ctx, input)
}

func (mock *invocationServiceMock) SetWishlistedCalls() []struct {
	Ctx   context.Context
	Input invocation.WishlistInput
} {
	var calls []struct {
		Ctx   context.Context
		Input invocation.WishlistInput
	}
	mock.lockSetWishlisted.RLock()
	calls = mock.calls.SetWishlisted
	mock.lockSetWishlisted.RUnlock()
	return calls
}
