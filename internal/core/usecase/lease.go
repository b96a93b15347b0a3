package usecase

import (
	"errors"
	"sync"

	"github.com/bizdocs-ai/bizdocs/internal/core/domain"
)

// leaseTable guards against two in-flight processing runs for the same
// document id within one worker process. Multi-instance deployments
// would move this to a conditional-write lease in shared storage; the
// queue group already keeps each event on a single worker.
type leaseTable struct {
	mu    sync.Mutex
	inUse map[string]struct{}
}

func newLeaseTable() *leaseTable {
	return &leaseTable{inUse: make(map[string]struct{})}
}

// acquire returns a release func, or ErrAlreadyProcessing while another
// run holds the lease for documentID.
func (l *leaseTable) acquire(documentID string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, held := l.inUse[documentID]; held {
		return nil, domain.WrapError(domain.ErrAlreadyProcessing, "acquire processing lease", errors.New("lease held for document "+documentID))
	}
	l.inUse[documentID] = struct{}{}

	var once sync.Once
	release := func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.inUse, documentID)
			l.mu.Unlock()
		})
	}
	return release, nil
}
