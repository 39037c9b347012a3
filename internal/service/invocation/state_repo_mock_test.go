package invocation

import (
	"context"
	"github.com/google/uuid"
	"github.com/heartmarshall/altar-backend/internal/domain"
	"sync"
	"time"
)

var _ stateRepo = &stateRepoMock{}

type stateRepoMock struct {
	LockUserFunc         func(ctx context.Context, userID uuid.UUID) error
	GetForUpdateFunc     func(ctx context.Context, userID uuid.UUID, subjectID string) (*domain.InvocationState, error)
	DeactivateOthersFunc func(ctx context.Context, userID uuid.UUID, keepSubjectID string, now time.Time) ([]string, error)
	ActivateFunc         func(ctx context.Context, userID uuid.UUID, subjectID string, now time.Time) (*domain.InvocationState, error)
	DeactivateFunc       func(ctx context.Context, userID uuid.UUID, subjectID string, now time.Time) (bool, error)
	ApplyOfferingFunc    func(ctx context.Context, userID uuid.UUID, subjectID string, invokedAt time.Time, now time.Time) error
	SetWishlistedFunc    func(ctx context.Context, userID uuid.UUID, subjectID string, wishlisted bool, now time.Time) error

	calls struct {
		LockUser []struct {
			Ctx    context.Context
			UserID uuid.UUID
		}
		GetForUpdate []struct {
			Ctx       context.Context
			UserID    uuid.UUID
			SubjectID string
		}
		DeactivateOthers []struct {
			Ctx           context.Context
			UserID        uuid.UUID
			KeepSubjectID string
			Now           time.Time
		}
		Activate []struct {
			Ctx       context.Context
			UserID    uuid.UUID
			SubjectID string
			Now       time.Time
		}
		Deactivate []struct {
			Ctx       context.Context
			UserID    uuid.UUID
			SubjectID string
			Now       time.Time
		}
		ApplyOffering []struct {
			Ctx       context.Context
			UserID    uuid.UUID
			SubjectID string
			InvokedAt time.Time
			Now       time.Time
		}
		SetWishlisted []struct {
			Ctx        context.Context
			UserID     uuid.UUID
			SubjectID  string
			Wishlisted bool
			Now        time.Time
		}
	}
	lockLockUser         sync.RWMutex
	lockGetForUpdate     sync.RWMutex
	lockDeactivateOthers sync.RWMutex
	lockActivate         sync.RWMutex
	lockDeactivate       sync.RWMutex
	lockApplyOffering    sync.RWMutex
	lockSetWishlisted    sync.RWMutex
}

func (mock *stateRepoMock) LockUser(ctx context.Context, userID uuid.UUID) error {
	if mock.LockUserFunc == nil {
		panic("stateRepoMock.LockUserFunc: method is nil but stateRepo.LockUser was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID uuid.UUID
	}{
		Ctx:    ctx,
		UserID: userID,
	}
	mock.lockLockUser.Lock()
	mock.calls.LockUser = append(mock.calls.LockUser, callInfo)
	mock.lockLockUser.Unlock()
	return mock.LockUserFunc(ctx, userID)
}

func (mock *stateRepoMock) LockUserCalls() []struct {
	Ctx    context.Context
	UserID uuid.UUID
} {
	var calls []struct {
		Ctx    context.Context
		UserID uuid.UUID
	}
	mock.lockLockUser.RLock()
	calls = mock.calls.LockUser
	mock.lockLockUser.RUnlock()
	return calls
}

func (mock *stateRepoMock) GetForUpdate(ctx context.Context, userID uuid.UUID, subjectID string) (*domain.InvocationState, error) {
	if mock.GetForUpdateFunc == nil {
		panic("stateRepoMock.GetForUpdateFunc: method is nil but stateRepo.GetForUpdate was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		UserID    uuid.UUID
		SubjectID string
	}{
		Ctx:       ctx,
		UserID:    userID,
		SubjectID: subjectID,
	}
	mock.lockGetForUpdate.Lock()
	mock.calls.GetForUpdate = append(mock.calls.GetForUpdate, callInfo)
	mock.lockGetForUpdate.Unlock()
	return mock.GetForUpdateFunc(ctx, userID, subjectID)
}

func (mock *stateRepoMock) GetForUpdateCalls() []struct {
	Ctx       context.Context
	UserID    uuid.UUID
	SubjectID string
} {
	var calls []struct {
		Ctx       context.Context
		UserID    uuid.UUID
		SubjectID string
	}
	mock.lockGetForUpdate.RLock()
	calls = mock.calls.GetForUpdate
	mock.lockGetForUpdate.RUnlock()
	return calls
}

func (mock *stateRepoMock) DeactivateOthers(ctx context.Context, userID uuid.UUID, keepSubjectID string, now time.Time) ([]string, error) {
	if mock.DeactivateOthersFunc == nil {
		panic("stateRepoMock.DeactivateOthersFunc: method is nil but stateRepo.DeactivateOthers was just called")
	}
	callInfo := struct {
		Ctx           context.Context
		UserID        uuid.UUID
		KeepSubjectID string
		Now           time.Time
	}{
		Ctx:           ctx,
		UserID:        userID,
		KeepSubjectID: keepSubjectID,
		Now:           now,
	}
	mock.lockDeactivateOthers.Lock()
	mock.calls.DeactivateOthers = append(mock.calls.DeactivateOthers, callInfo)
	mock.lockDeactivateOthers.Unlock()
	return mock.DeactivateOthersFunc(ctx, userID, keepSubjectID, now)
}

func (mock *stateRepoMock) DeactivateOthersCalls() []struct {
	Ctx           context.Context
	UserID        uuid.UUID
	KeepSubjectID string
	Now           time.Time
} {
	var calls []struct {
		Ctx           context.Context
		UserID        uuid.UUID
		KeepSubjectID string
		Now           time.Time
	}
	mock.lockDeactivateOthers.RLock()
	calls = mock.calls.DeactivateOthers
	mock.lockDeactivateOthers.RUnlock()
	return calls
}

func (mock *stateRepoMock) Activate(ctx context.Context, userID uuid.UUID, subjectID string, now time.Time) (*domain.InvocationState, error) {
	if mock.ActivateFunc == nil {
		panic("stateRepoMock.ActivateFunc: method is nil but stateRepo.Activate was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		UserID    uuid.UUID
		SubjectID string
		Now       time.Time
	}{
		Ctx:       ctx,
		UserID:    userID,
		SubjectID: subjectID,
		Now:       now,
	}
	mock.lockActivate.Lock()
	mock.calls.Activate = append(mock.calls.Activate, callInfo)
	mock.lockActivate.Unlock()
	return mock.ActivateFunc(ctx, userID, subjectID, now)
}

func (mock *stateRepoMock) ActivateCalls() []struct {
	Ctx       context.Context
	UserID    uuid.UUID
	SubjectID string
	Now       time.Time
} {
	var calls []struct {
		Ctx       context.Context
		UserID    uuid.UUID
		SubjectID string
		Now       time.Time
	}
	mock.lockActivate.RLock()
	calls = mock.calls.Activate
	mock.lockActivate.RUnlock()
	return calls
}

func (mock *stateRepoMock) Deactivate(ctx context.Context, userID uuid.UUID, subjectID string, now time.Time) (bool, error) {
	if mock.DeactivateFunc == nil {
		panic("stateRepoMock.DeactivateFunc: method is nil but stateRepo.Deactivate was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		UserID    uuid.UUID
		SubjectID string
		Now       time.Time
	}{
		Ctx:       ctx,
		UserID:    userID,
		SubjectID: subjectID,
		Now:       now,
	}
	mock.lockDeactivate.Lock()
	mock.calls.Deactivate = append(mock.calls.Deactivate, callInfo)
	mock.lockDeactivate.Unlock()
	return mock.DeactivateFunc(ctx, userID, subjectID, now)
}

func (mock *stateRepoMock) DeactivateCalls() []struct {
	Ctx       context.Context
	UserID    uuid.UUID
	SubjectID string
	Now       time.Time
} {
	var calls []struct {
		Ctx       context.Context
		UserID    uuid.UUID
		SubjectID string
		Now       time.Time
	}
	mock.lockDeactivate.RLock()
	calls = mock.calls.Deactivate
	mock.lockDeactivate.RUnlock()
	return calls
}

func (mock *stateRepoMock) ApplyOffering(ctx context.Context, userID uuid.UUID, subjectID string, invokedAt time.Time, now time.Time) error {
	if mock.ApplyOfferingFunc == nil {
		panic("stateRepoMock.ApplyOfferingFunc: method is nil but stateRepo.ApplyOffering was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		UserID    uuid.UUID
		SubjectID string
		InvokedAt time.Time
		Now       time.Time
	}{
		Ctx:       ctx,
		UserID:    userID,
		SubjectID: subjectID,
		InvokedAt: invokedAt,
		Now:       now,
	}
	mock.lockApplyOffering.Lock()
	mock.calls.ApplyOffering = append(mock.calls.ApplyOffering, callInfo)
	mock.lockApplyOffering.Unlock()
	return mock.ApplyOfferingFunc(ctx, userID, subjectID, invokedAt, now)
}

func (mock *stateRepoMock) ApplyOfferingCalls() []struct {
	Ctx       context.Context
	UserID    uuid.UUID
	SubjectID string
	InvokedAt time.Time
	Now       time.Time
} {
	var calls []struct {
		Ctx       context.Context
		UserID    uuid.UUID
		SubjectID string
		InvokedAt time.Time
		Now       time.Time
	}
	mock.lockApplyOffering.RLock()
	calls = mock.calls.ApplyOffering
	mock.lockApplyOffering.RUnlock()
	return calls
}

func (mock *stateRepoMock) SetWishlisted(ctx context.Context, userID uuid.UUID, subjectID string, wishlisted bool, now time.Time) error {
	if mock.SetWishlistedFunc == nil {
		panic("stateRepoMock.SetWishlistedFunc: method is nil but stateRepo.SetWishlisted was just called")
	}
	callInfo := struct {
		Ctx        context.Context
		UserID     uuid.UUID
		SubjectID  string
		Wishlisted bool
		Now        time.Time
	}{
		Ctx:        ctx,
		UserID:     userID,
		SubjectID:  subjectID,
		Wishlisted: wishlisted,
		Now:        now,
	}
	mock.lockSetWishlisted.Lock()
	mock.calls.SetWishlisted = append(mock.calls.SetWishlisted, callInfo)
	mock.lockSetWishlisted.Unlock()
	return mock.SetWishlistedFunc(ctx, userID, subjectID, wishlisted, now)
}

func (mock *stateRepoMock) SetWishlistedCalls() []struct {
	Ctx        context.Context
	UserID     uuid.UUID
	SubjectID  string
	Wishlisted bool
	Now        time.Time
} {
	var calls []struct {
		Ctx        context.Context
		UserID     uuid.UUID
		SubjectID  string
		Wishlisted bool
		Now        time.Time
	}
	mock.lockSetWishlisted.RLock()
	calls = mock.calls.SetWishlisted
	mock.lockSetWishlisted.RUnlock()
	return calls
}
