// Package memory is an in-process implementation of the persistence ports,
// used with STORE=memory and by scenario tests. A transaction holds the store
// lock until Commit or Rollback; Rollback restores the state captured by Begin.
package memory

import (
	"errors"
	"maps"
	"sync"

	"labflow/internal/core/domain/model/order"
	"labflow/internal/core/domain/model/result"
	"labflow/internal/core/domain/model/workflow"
	"labflow/internal/core/ports"

	"github.com/google/uuid"
)

var (
	ErrTransactionAlreadyStarted = errors.New("transaction already started")
	ErrNoActiveTransaction       = errors.New("no active transaction")
)

type state struct {
	orders    map[uuid.UUID]order.Snapshot
	numbers   map[string]uuid.UUID
	steps     map[uuid.UUID]workflow.StepSnapshot
	results   map[uuid.UUID]result.Snapshot
	sequences map[string]int64
}

func newState() state {
	return state{
		orders:    make(map[uuid.UUID]order.Snapshot),
		numbers:   make(map[string]uuid.UUID),
		steps:     make(map[uuid.UUID]workflow.StepSnapshot),
		results:   make(map[uuid.UUID]result.Snapshot),
		sequences: make(map[string]int64),
	}
}

// clone copies the maps. Stored snapshots are replaced, never mutated in place.
func (s state) clone() state {
	return state{
		orders:    maps.Clone(s.orders),
		numbers:   maps.Clone(s.numbers),
		steps:     maps.Clone(s.steps),
		results:   maps.Clone(s.results),
		sequences: maps.Clone(s.sequences),
	}
}

// Store holds all in-memory data.
type Store struct {
	mu    sync.Mutex
	state state
}

func NewStore() *Store {
	return &Store{state: newState()}
}

// UnitOfWorkFactory creates units of work over a Store.
type UnitOfWorkFactory struct {
	store *Store
}

func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &unitOfWork{store: f.store}
}

type unitOfWork struct {
	store  *Store
	inTx   bool
	backup state
}

var _ ports.UnitOfWork = (*unitOfWork)(nil)
