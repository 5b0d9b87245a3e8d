// Package lifecycle guarantees a single canonical word per hour bucket
// across any number of independent clients. There is no lock: derivation
// is a pure function of the bucket id, the store's create-if-absent is
// atomic per key, and an already-exists conflict just means someone else
// published the same decision first.
package lifecycle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hongarc/mintle/internal/cipher"
	"github.com/hongarc/mintle/internal/hourkey"
	"github.com/hongarc/mintle/internal/lexicon"
	"github.com/hongarc/mintle/internal/store"
)

// DefaultSource is the provenance tag written into created records.
const DefaultSource = "client"

// Manager resolves the hourly word through a document store.
type Manager struct {
	Store   store.Store
	Lexicon *lexicon.Lexicon
	Source  string
}

// NewManager wires a manager. source may be empty, defaulting to "client";
// lex may be nil, in which case the shared lexicon is loaded on first use.
func NewManager(s store.Store, lex *lexicon.Lexicon, source string) *Manager {
	if source == "" {
		source = DefaultSource
	}
	return &Manager{Store: s, Lexicon: lex, Source: source}
}

// lex returns the manager's lexicon, loading the shared one if none was
// injected. Derivation must never run against an unloaded word list.
func (m *Manager) lex() (*lexicon.Lexicon, error) {
	if m.Lexicon != nil {
		return m.Lexicon, nil
	}
	return lexicon.Load()
}

// IntegrityError reports a stored record that cannot be trusted: a payload
// that fails decoding, a record failing structural validation, or a
// fingerprint mismatch. Corrupted records are surfaced, never repaired.
type IntegrityError struct {
	Bucket string
	Err    error
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("lifecycle: integrity failure for bucket %s: %v", e.Bucket, e.Err)
}

func (e *IntegrityError) Unwrap() error { return e.Err }

// CoordinationError reports that creation failed for a non-race reason and
// the fallback read found nothing either. The caller decides whether to
// retry the whole lifecycle call.
type CoordinationError struct {
	Bucket string
	Err    error
}

func (e *CoordinationError) Error() string {
	return fmt.Sprintf("lifecycle: could not establish word for bucket %s: %v", e.Bucket, e.Err)
}

func (e *CoordinationError) Unwrap() error { return e.Err }

// CurrentWord resolves the word for the bucket containing time.Now.
func (m *Manager) CurrentWord(ctx context.Context) (string, error) {
	return m.WordFor(ctx, time.Now())
}

// WordFor resolves the word for the bucket containing the given instant.
func (m *Manager) WordFor(ctx context.Context, instant time.Time) (string, error) {
	return m.wordForBucket(ctx, hourkey.BucketID(instant))
}

// wordForBucket runs the lookup, derive, create, re-read state machine.
// Every client that completes it observes the same plaintext.
func (m *Manager) wordForBucket(ctx context.Context, bucket string) (string, error) {
	rec, err := m.Store.Get(ctx, bucket)
	if err != nil {
		return "", &CoordinationError{Bucket: bucket, Err: err}
	}
	if rec != nil {
		return m.openRecord(bucket, rec)
	}

	// Absent: derive the canonical word and race to publish it.
	lex, err := m.lex()
	if err != nil {
		return "", &CoordinationError{Bucket: bucket, Err: err}
	}
	word := lex.DeterministicSolution(bucket)
	rec = &store.Record{
		Word:              cipher.Encode(word, bucket),
		CreatedAt:         time.Now().UTC().Format(time.RFC3339),
		Source:            m.Source,
		DictionaryVersion: lex.Version(),
		Hash:              cipher.Fingerprint(word, bucket),
	}

	err = m.Store.Create(ctx, bucket, rec)
	if err == nil {
		// We won the race; the plaintext is already in hand.
		return strings.ToUpper(word), nil
	}

	if store.IsAlreadyExists(err) {
		// Another client won. Their record is authoritative.
		winner, getErr := m.Store.Get(ctx, bucket)
		if getErr != nil {
			return "", &CoordinationError{Bucket: bucket, Err: getErr}
		}
		if winner == nil {
			return "", &CoordinationError{Bucket: bucket, Err: fmt.Errorf("record absent after already-exists conflict")}
		}
		return m.openRecord(bucket, winner)
	}

	// Some writes fail after taking effect; check before giving up.
	if rec, getErr := m.Store.Get(ctx, bucket); getErr == nil && rec != nil {
		return m.openRecord(bucket, rec)
	}
	return "", &CoordinationError{Bucket: bucket, Err: err}
}

// openRecord validates a stored record and recovers its plaintext,
// normalized to uppercase for callers.
func (m *Manager) openRecord(bucket string, rec *store.Record) (string, error) {
	if err := rec.Validate(); err != nil {
		return "", &IntegrityError{Bucket: bucket, Err: err}
	}
	word, err := cipher.Decode(rec.Word, bucket)
	if err != nil {
		return "", &IntegrityError{Bucket: bucket, Err: err}
	}
	if rec.Hash != "" && !cipher.VerifyFingerprint(word, rec.Hash, bucket) {
		return "", &IntegrityError{Bucket: bucket, Err: fmt.Errorf("fingerprint mismatch")}
	}
	return strings.ToUpper(word), nil
}

// BucketResult is one bucket's outcome from a PreGenerate batch.
type BucketResult struct {
	Bucket string `json:"bucket"`
	Word   string `json:"-"` // not serialized: pre-generated words stay secret
	Err    error  `json:"-"`
	OK     bool   `json:"ok"`
}

// PreGenerate warms the records for the next n hourly buckets, strictly
// after the current one (the current bucket is established by the first
// CurrentWord call). Individual failures are collected, not fatal.
func (m *Manager) PreGenerate(ctx context.Context, n int) []BucketResult {
	now := time.Now()
	results := make([]BucketResult, 0, n)
	for i := 1; i <= n; i++ {
		bucket := hourkey.BucketID(now.Add(time.Duration(i) * time.Hour))
		word, err := m.wordForBucket(ctx, bucket)
		results = append(results, BucketResult{
			Bucket: bucket,
			Word:   word,
			Err:    err,
			OK:     err == nil,
		})
	}
	return results
}
