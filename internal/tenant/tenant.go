// Package tenant holds the immutable directory of stores served by the
// gateway. A tenant is one WooCommerce store with its own REST credentials;
// the directory is built once at startup and is read-only afterwards.
package tenant

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Resolve for an unknown client ID.
var ErrNotFound = errors.New("tenant not found")

// Record is one store's connection details. Records are value types and are
// never mutated after the directory is built.
type Record struct {
	ClientID       string
	StoreURL       string
	ConsumerKey    string
	ConsumerSecret string
}

// Directory maps client IDs to tenant records. Lookups are exact and
// case-sensitive. The zero value is not usable; construct with NewDirectory.
type Directory struct {
	byID  map[string]Record
	order []string
}

// NewDirectory indexes the given records. Every record must carry a unique,
// non-empty client ID and complete credentials; a violation is a configuration
// error the caller should treat as fatal.
func NewDirectory(records []Record) (*Directory, error) {
	d := &Directory{byID: make(map[string]Record, len(records))}
	for _, r := range records {
		if r.ClientID == "" {
			return nil, errors.New("tenant record missing client ID")
		}
		if r.StoreURL == "" {
			return nil, fmt.Errorf("tenant %q missing store URL", r.ClientID)
		}
		if r.ConsumerKey == "" || r.ConsumerSecret == "" {
			return nil, fmt.Errorf("tenant %q missing consumer credentials", r.ClientID)
		}
		if _, dup := d.byID[r.ClientID]; dup {
			return nil, fmt.Errorf("duplicate tenant client ID %q", r.ClientID)
		}
		d.byID[r.ClientID] = r
		d.order = append(d.order, r.ClientID)
	}
	return d, nil
}

// Resolve returns the record for clientID, or ErrNotFound. It never fabricates
// a default tenant.
func (d *Directory) Resolve(clientID string) (Record, error) {
	r, ok := d.byID[clientID]
	if !ok {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, clientID)
	}
	return r, nil
}

// Len reports the number of registered tenants.
func (d *Directory) Len() int { return len(d.byID) }

// ClientIDs returns the client IDs in registration order.
func (d *Directory) ClientIDs() []string {
	ids := make([]string, len(d.order))
	copy(ids, d.order)
	return ids
}
