package completion

import (
	"errors"
	"sync/atomic"
)

// ErrNoCredentials is returned when the pool was built without any keys.
var ErrNoCredentials = errors.New("no completion credentials configured")

// CredentialPool rotates API keys round-robin. Selection is a pure function
// of a starting offset and an attempt number, so failover order is
// deterministic and testable apart from the HTTP call.
type CredentialPool struct {
	keys    []string
	counter uint64
}

func NewCredentialPool(keys []string) (*CredentialPool, error) {
	if len(keys) == 0 {
		return nil, ErrNoCredentials
	}
	owned := make([]string, len(keys))
	copy(owned, keys)
	return &CredentialPool{keys: owned}, nil
}

// Size is the number of configured credentials, which bounds failover
// attempts.
func (p *CredentialPool) Size() int {
	return len(p.keys)
}

// Next reserves a starting offset for one request, advancing round-robin so
// consecutive requests start from successive keys.
func (p *CredentialPool) Next() uint64 {
	return atomic.AddUint64(&p.counter, 1) - 1
}

// Key returns the credential for the given attempt from a starting offset.
func (p *CredentialPool) Key(start uint64, attempt int) string {
	return p.keys[(start+uint64(attempt))%uint64(len(p.keys))]
}
