package lifecycle

import "github.com/m04kA/SMC-ReservationService/internal/domain"

// party роль актора по отношению к конкретному бронированию
type party string

const (
	partyCustomer party = "customer"
	partyOwner    party = "owner"
)

// transition допустимый переход и сторона, которая может его выполнить
type transition struct {
	From  domain.ReservationStatus
	To    domain.ReservationStatus
	Party party
}

var transitions = []transition{
	{From: domain.StatusPending, To: domain.StatusConfirmed, Party: partyOwner},

	{From: domain.StatusPending, To: domain.StatusCancelled, Party: partyCustomer},
	{From: domain.StatusPending, To: domain.StatusCancelled, Party: partyOwner},
	{From: domain.StatusConfirmed, To: domain.StatusCancelled, Party: partyCustomer},
	{From: domain.StatusConfirmed, To: domain.StatusCancelled, Party: partyOwner},

	{From: domain.StatusConfirmed, To: domain.StatusCompleted, Party: partyOwner},
	{From: domain.StatusConfirmed, To: domain.StatusNoShow, Party: partyOwner},
}

type edge struct {
	From domain.ReservationStatus
	To   domain.ReservationStatus
}

var allowed = func() map[edge]map[party]bool {
	m := make(map[edge]map[party]bool)
	for _, t := range transitions {
		e := edge{From: t.From, To: t.To}
		if m[e] == nil {
			m[e] = make(map[party]bool)
		}
		m[e][t.Party] = true
	}
	return m
}()

// NextStatuses возвращает статусы, в которые можно перейти из from
func NextStatuses(from domain.ReservationStatus) []domain.ReservationStatus {
	var next []domain.ReservationStatus
	seen := make(map[domain.ReservationStatus]bool)
	for _, t := range transitions {
		if t.From == from && !seen[t.To] {
			next = append(next, t.To)
			seen[t.To] = true
		}
	}
	return next
}

// parties определяет, кем актор является для бронирования
func parties(actor domain.Actor, res *domain.Reservation, restaurant *domain.Restaurant) map[party]bool {
	p := make(map[party]bool, 2)
	if actor.IsCustomerOf(res) {
		p[partyCustomer] = true
	}
	if restaurant != nil && actor.IsOwnerOf(restaurant) {
		p[partyOwner] = true
	}
	return p
}

// authorize returns ErrUnauthorized when the actor has no stake in the reservation
// or the edge is reserved for another party, and ErrInvalidTransition for unknown edges.
func authorize(from, to domain.ReservationStatus, actorParties map[party]bool) error {
	if len(actorParties) == 0 {
		return ErrUnauthorized
	}

	byParty, ok := allowed[edge{From: from, To: to}]
	if !ok {
		return ErrInvalidTransition
	}

	for p := range actorParties {
		if byParty[p] {
			return nil
		}
	}
	return ErrUnauthorized
}
