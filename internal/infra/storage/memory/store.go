// Package memory is an embedded storage backend. It keeps restaurants, tables
// and reservations in maps and serializes bookings per (table, date) with a
// keyed mutex held for the duration of the enclosing transaction scope.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	restaurantRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/restaurant"
	"github.com/m04kA/SMC-ReservationService/pkg/keymutex"
)

// Store in-memory хранилище
type Store struct {
	mu           sync.RWMutex
	restaurants  map[int64]*domain.Restaurant
	tables       map[int64]*domain.Table
	reservations map[int64]*domain.Reservation
	lastID       int64
	locks        *keymutex.KeyMutex
	now          func() time.Time
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		restaurants:  make(map[int64]*domain.Restaurant),
		tables:       make(map[int64]*domain.Table),
		reservations: make(map[int64]*domain.Reservation),
		locks:        keymutex.New(),
		now:          time.Now,
	}
}

// AddRestaurant добавляет ресторан (наполнение справочника)
func (s *Store) AddRestaurant(r domain.Restaurant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restaurants[r.ID] = &r
}

// AddTable добавляет стол (наполнение справочника)
func (s *Store) AddTable(t domain.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[t.ID] = &t
}

// GetRestaurant получает ресторан по ID
func (s *Store) GetRestaurant(_ context.Context, id int64) (*domain.Restaurant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.restaurants[id]
	if !ok {
		return nil, restaurantRepo.ErrRestaurantNotFound
	}
	cp := *r
	return &cp, nil
}

// GetTable получает стол по ID
func (s *Store) GetTable(_ context.Context, id int64) (*domain.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tables[id]
	if !ok {
		return nil, restaurantRepo.ErrTableNotFound
	}
	cp := *t
	return &cp, nil
}

// LockSlot держит мьютекс (table_id, date) до конца текущей транзакции
func (s *Store) LockSlot(ctx context.Context, tableID int64, date time.Time) error {
	sc, ok := scopeFromContext(ctx)
	if !ok {
		return reservationRepo.ErrNoTransaction
	}

	key := domain.SlotLockKey(tableID, date)

	sc.mu.Lock()
	_, already := sc.held[key]
	sc.mu.Unlock()
	if already {
		return nil
	}

	unlock := s.locks.Lock(key)

	sc.mu.Lock()
	sc.held[key] = struct{}{}
	sc.unlocks = append(sc.unlocks, unlock)
	sc.mu.Unlock()

	return nil
}

// Create сохраняет бронирование; повтор активного (table, date, time) запрещен
func (s *Store) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.reservations {
		if existing.IsActive() && sameSlot(existing, res) {
			return nil, reservationRepo.ErrSlotTaken
		}
	}

	s.lastID++
	now := s.now()
	res.ID = s.lastID
	res.CreatedAt = now
	res.UpdatedAt = now

	cp := *res
	s.reservations[cp.ID] = &cp

	if sc, ok := scopeFromContext(ctx); ok {
		id := cp.ID
		sc.addUndo(func() { delete(s.reservations, id) })
	}

	return res, nil
}

// GetByID получает бронирование по ID
func (s *Store) GetByID(_ context.Context, id int64) (*domain.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res, ok := s.reservations[id]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	cp := *res
	return &cp, nil
}

// ListActiveByTableAndDate получает активные бронирования стола на дату
func (s *Store) ListActiveByTableAndDate(_ context.Context, tableID int64, date time.Time, excludeID *int64) ([]*domain.Reservation, error) {
	return s.list(func(r *domain.Reservation) bool {
		if excludeID != nil && r.ID == *excludeID {
			return false
		}
		return r.TableID == tableID && sameDate(r.Date, date) && r.IsActive()
	}), nil
}

// ListByCustomer получает бронирования клиента
func (s *Store) ListByCustomer(_ context.Context, customerID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error) {
	return s.list(func(r *domain.Reservation) bool {
		if status != nil && r.Status != *status {
			return false
		}
		return r.CustomerID == customerID
	}), nil
}

// ListByRestaurant получает бронирования ресторана с фильтрацией
func (s *Store) ListByRestaurant(_ context.Context, filter domain.RestaurantReservationsFilter) ([]*domain.Reservation, error) {
	s.mu.RLock()
	tableIDs := make(map[int64]struct{})
	for _, t := range s.tables {
		if t.RestaurantID == filter.RestaurantID {
			tableIDs[t.ID] = struct{}{}
		}
	}
	s.mu.RUnlock()

	return s.list(func(r *domain.Reservation) bool {
		if _, ok := tableIDs[r.TableID]; !ok {
			return false
		}
		if filter.StartDate != nil && dateOnly(r.Date).Before(dateOnly(*filter.StartDate)) {
			return false
		}
		if filter.EndDate != nil && dateOnly(r.Date).After(dateOnly(*filter.EndDate)) {
			return false
		}
		if filter.Status != nil {
			return r.Status == *filter.Status
		}
		return filter.IncludeInactive || r.IsActive()
	}), nil
}

// UpdateStatus меняет статус, если текущий равен from
func (s *Store) UpdateStatus(ctx context.Context, id int64, from, to domain.ReservationStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, ok := s.reservations[id]
	if !ok {
		return reservationRepo.ErrReservationNotFound
	}
	if res.Status != from {
		return reservationRepo.ErrStatusChanged
	}

	prev := *res
	res.Status = to
	res.UpdatedAt = s.now()
	s.remember(ctx, prev)

	return nil
}

// UpdateSlot переносит активное бронирование
func (s *Store) UpdateSlot(ctx context.Context, upd *domain.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, ok := s.reservations[upd.ID]
	if !ok {
		return reservationRepo.ErrReservationNotFound
	}
	if !res.IsActive() {
		return reservationRepo.ErrStatusChanged
	}

	for _, existing := range s.reservations {
		if existing.ID != upd.ID && existing.IsActive() && sameSlot(existing, upd) {
			return reservationRepo.ErrSlotTaken
		}
	}

	prev := *res
	res.Date = upd.Date
	res.Time = upd.Time
	res.GuestCount = upd.GuestCount
	res.SpecialRequests = upd.SpecialRequests
	res.DepositAmount = upd.DepositAmount
	res.UpdatedAt = s.now()
	s.remember(ctx, prev)

	return nil
}

// SetArrivalConfirmed отмечает прибытие гостей
func (s *Store) SetArrivalConfirmed(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, ok := s.reservations[id]
	if !ok {
		return reservationRepo.ErrReservationNotFound
	}
	if res.Status != domain.StatusConfirmed {
		return reservationRepo.ErrStatusChanged
	}

	prev := *res
	res.ArrivalConfirmed = true
	res.UpdatedAt = s.now()
	s.remember(ctx, prev)

	return nil
}

// remember регистрирует восстановление прежней версии записи при откате (вызывается под s.mu)
func (s *Store) remember(ctx context.Context, prev domain.Reservation) {
	sc, ok := scopeFromContext(ctx)
	if !ok {
		return
	}
	sc.addUndo(func() {
		cp := prev
		s.reservations[prev.ID] = &cp
	})
}

func (s *Store) list(match func(r *domain.Reservation) bool) []*domain.Reservation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Reservation, 0)
	for _, r := range s.reservations {
		if match(r) {
			cp := *r
			out = append(out, &cp)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !sameDate(out[i].Date, out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		if out[i].Time != out[j].Time {
			return out[i].Time.IsAfter(out[j].Time)
		}
		return out[i].ID > out[j].ID
	})

	return out
}

func sameSlot(a, b *domain.Reservation) bool {
	return a.TableID == b.TableID && sameDate(a.Date, b.Date) && a.Time == b.Time
}

func sameDate(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
