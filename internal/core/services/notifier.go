package services

import (
	"sync"

	"github.com/SscSPs/bank_app/internal/core/domain"
	portssvc "github.com/SscSPs/bank_app/internal/core/ports/services"
)

// subscriberBuffer is how many events a subscriber may lag behind before it starts missing them.
const subscriberBuffer = 8

// changeNotifier fans ledger changes out to per-user subscriber channels.
type changeNotifier struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]chan domain.LedgerChanged
}

// NewChangeNotifier creates an in-process notifier.
func NewChangeNotifier() portssvc.ChangeNotifierSvc {
	return &changeNotifier{subs: make(map[string]map[int]chan domain.LedgerChanged)}
}

var _ portssvc.ChangeNotifierSvc = (*changeNotifier)(nil)

func (n *changeNotifier) Subscribe(username string) (<-chan domain.LedgerChanged, func()) {
	username = normalizeUsername(username)
	ch := make(chan domain.LedgerChanged, subscriberBuffer)

	n.mu.Lock()
	id := n.nextID
	n.nextID++
	if n.subs[username] == nil {
		n.subs[username] = make(map[int]chan domain.LedgerChanged)
	}
	n.subs[username][id] = ch
	n.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			delete(n.subs[username], id)
			if len(n.subs[username]) == 0 {
				delete(n.subs, username)
			}
			close(ch)
		})
	}
	return ch, cancel
}

func (n *changeNotifier) Publish(evt domain.LedgerChanged) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	seen := make(map[string]bool, len(evt.Usernames))
	for _, u := range evt.Usernames {
		u = normalizeUsername(u)
		if seen[u] {
			continue
		}
		seen[u] = true
		for _, ch := range n.subs[u] {
			select {
			case ch <- evt:
			default:
			}
		}
	}
}
