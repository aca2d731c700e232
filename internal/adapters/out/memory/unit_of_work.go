package memory

import (
	"context"

	"labflow/internal/core/ports"
)

func (u *unitOfWork) Begin(_ context.Context) error {
	if u.inTx {
		return ErrTransactionAlreadyStarted
	}
	u.store.mu.Lock()
	u.backup = u.store.state.clone()
	u.inTx = true
	return nil
}

func (u *unitOfWork) Commit(_ context.Context) error {
	if !u.inTx {
		return ErrNoActiveTransaction
	}
	u.inTx = false
	u.backup = state{}
	u.store.mu.Unlock()
	return nil
}

func (u *unitOfWork) Rollback(_ context.Context) error {
	if !u.inTx {
		return ErrNoActiveTransaction
	}
	u.store.state = u.backup
	u.inTx = false
	u.backup = state{}
	u.store.mu.Unlock()
	return nil
}

// do runs fn against the store state, taking the lock unless a transaction
// already holds it.
func (u *unitOfWork) do(fn func(st *state) error) error {
	if !u.inTx {
		u.store.mu.Lock()
		defer u.store.mu.Unlock()
	}
	return fn(&u.store.state)
}

func (u *unitOfWork) OrderRepository() ports.OrderRepository {
	return orderRepository{uow: u}
}

func (u *unitOfWork) WorkflowRepository() ports.WorkflowRepository {
	return workflowRepository{uow: u}
}

func (u *unitOfWork) ResultRepository() ports.ResultRepository {
	return resultRepository{uow: u}
}

func (u *unitOfWork) OrderNumberSequence() ports.OrderNumberSequence {
	return sequence{uow: u}
}
