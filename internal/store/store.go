// Package store defines the document-store contract the word lifecycle
// coordinates through: get-by-key plus atomic create-if-absent. The store
// never overwrites; "already exists" is a first-class outcome, not a
// failure, because it is the race signal the lifecycle relies on.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/hongarc/mintle/internal/cipher"
)

// Record is the persisted shape of an hourly word, one per bucket key.
// Field names are part of the stored contract and must not change.
type Record struct {
	Word              string `json:"word"` // obfuscated payload
	CreatedAt         string `json:"createdAt"`
	Source            string `json:"source"`
	DictionaryVersion string `json:"dictionaryVersion"`
	Hash              string `json:"hash,omitempty"`
}

// Validate checks the structural rules a well-formed record must satisfy:
// a payload in the encoding alphabet and a parseable creation timestamp.
func (r *Record) Validate() error {
	if r.Word == "" || !cipher.ValidPayload(r.Word) {
		return fmt.Errorf("record payload is not a valid encoded word")
	}
	if _, err := time.Parse(time.RFC3339, r.CreatedAt); err != nil {
		return fmt.Errorf("record createdAt %q does not parse: %w", r.CreatedAt, err)
	}
	return nil
}

// Store is the minimal capability the lifecycle needs. Get returns
// (nil, nil) when no record exists for the key; absence is the expected
// first-client case, not an error. Create is atomic and exclusive per key
// and reports a conflict via an *Error with KindAlreadyExists.
type Store interface {
	Get(ctx context.Context, key string) (*Record, error)
	Create(ctx context.Context, key string, rec *Record) error
}
