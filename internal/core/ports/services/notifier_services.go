package services

import (
	"github.com/SscSPs/bank_app/internal/core/domain"
)

// ChangeNotifierSvc fans ledger change events out to in-process subscribers.
type ChangeNotifierSvc interface {
	// Subscribe registers interest in one user's ledger. cancel must be called to release it.
	Subscribe(username string) (events <-chan domain.LedgerChanged, cancel func())
	// Publish never blocks; slow subscribers miss events.
	Publish(evt domain.LedgerChanged)
}
