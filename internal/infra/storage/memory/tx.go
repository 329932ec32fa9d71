package memory

import (
	"context"
	"sync"
)

type scopeKey struct{}

// scope накапливает блокировки слотов и undo-операции одной "транзакции"
type scope struct {
	mu      sync.Mutex
	held    map[string]struct{}
	unlocks []func()
	undo    []func()
}

func scopeFromContext(ctx context.Context) (*scope, bool) {
	s, ok := ctx.Value(scopeKey{}).(*scope)
	return s, ok
}

func (s *scope) addUndo(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.undo = append(s.undo, fn)
}

// TxManager эмулирует транзакции для in-memory хранилища: блокировки слотов,
// взятые внутри fn, удерживаются до ее завершения, а изменения откатываются при ошибке
type TxManager struct {
	store *Store
}

// NewTxManager создает менеджер транзакций поверх хранилища
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := scopeFromContext(ctx); ok {
		return fn(ctx)
	}

	sc := &scope{held: make(map[string]struct{})}

	defer func() {
		p := recover()
		if err != nil || p != nil {
			m.store.mu.Lock()
			for i := len(sc.undo) - 1; i >= 0; i-- {
				sc.undo[i]()
			}
			m.store.mu.Unlock()
		}
		for i := len(sc.unlocks) - 1; i >= 0; i-- {
			sc.unlocks[i]()
		}
		if p != nil {
			panic(p)
		}
	}()

	return fn(context.WithValue(ctx, scopeKey{}, sc))
}
