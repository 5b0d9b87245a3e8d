// Package lexicon owns the word list: the allowed guess set, the solution
// subset eligible as secret words, and both random and seed-deterministic
// selection. The list is embedded so its ordering is pinned at build time;
// deterministic selection depends on that ordering never changing at runtime.
package lexicon

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"math/big"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	_ "embed"

	"github.com/samber/lo"
)

//go:embed data/words.json
var rawWordList []byte

// WordLength is the only word size the game plays.
const WordLength = 5

// ErrNotLoaded is returned when the lexicon is queried before Load has run.
var ErrNotLoaded = errors.New("lexicon: not loaded, call Load first")

// wordListFile mirrors data/words.json: the full ordered list of allowed
// guesses, of which the first solutionCount entries are eligible solutions.
type wordListFile struct {
	Version       string   `json:"version"`
	SolutionCount int      `json:"solutionCount"`
	Words         []string `json:"words"`
}

// Lexicon is an immutable index over the loaded word list.
type Lexicon struct {
	version   string
	checksum  string
	solutions []string // original file order, pinned
	solSet    map[string]struct{}
	allowed   map[string]struct{}
}

var (
	loadOnce sync.Once
	loaded   atomic.Pointer[Lexicon]
	loadErr  error
)

// Load parses and indexes the embedded word list. It is safe to call from
// any number of goroutines; every caller gets the same instance.
func Load() (*Lexicon, error) {
	loadOnce.Do(func() {
		lex, err := build(rawWordList)
		if err != nil {
			loadErr = err
			return
		}
		loaded.Store(lex)
	})
	if loadErr != nil {
		return nil, loadErr
	}
	return loaded.Load(), nil
}

// Active returns the already-loaded lexicon, or ErrNotLoaded. Use this in
// paths that must fail loudly rather than trigger a load themselves.
func Active() (*Lexicon, error) {
	lex := loaded.Load()
	if lex == nil {
		return nil, ErrNotLoaded
	}
	return lex, nil
}

func build(raw []byte) (*Lexicon, error) {
	var file wordListFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("lexicon: parsing word list: %w", err)
	}
	if file.SolutionCount <= 0 || file.SolutionCount > len(file.Words) {
		return nil, fmt.Errorf("lexicon: solutionCount %d out of range for %d words", file.SolutionCount, len(file.Words))
	}

	words := lo.FilterMap(file.Words, func(w string, _ int) (string, bool) {
		w = strings.ToLower(strings.TrimSpace(w))
		return w, len(w) == WordLength
	})
	if len(words) != len(file.Words) {
		return nil, fmt.Errorf("lexicon: word list contains non-%d-letter entries", WordLength)
	}

	lex := &Lexicon{
		version:   file.Version,
		solutions: words[:file.SolutionCount],
		solSet:    make(map[string]struct{}, file.SolutionCount),
		allowed:   make(map[string]struct{}, len(words)),
	}
	lo.ForEach(words, func(w string, _ int) {
		lex.allowed[w] = struct{}{}
	})
	lo.ForEach(lex.solutions, func(w string, _ int) {
		lex.solSet[w] = struct{}{}
	})
	lex.checksum = checksum(words)
	return lex, nil
}

// checksum digests the sorted allowed set, for tamper and version detection.
func checksum(words []string) string {
	sorted := make([]string, len(words))
	copy(sorted, words)
	sort.Strings(sorted)
	h := fnv.New64a()
	for _, w := range sorted {
		h.Write([]byte(w))
	}
	return strconv.FormatUint(h.Sum64(), 36)
}

// Version returns the word list's version tag.
func (l *Lexicon) Version() string { return l.version }

// Checksum returns the integrity digest over the sorted allowed set.
func (l *Lexicon) Checksum() string { return l.checksum }

// Size returns the number of allowed guesses.
func (l *Lexicon) Size() int { return len(l.allowed) }

// SolutionCount returns the number of solution-eligible words.
func (l *Lexicon) SolutionCount() int { return len(l.solutions) }

// Solutions returns the solution words in their pinned order. The caller
// must not mutate the returned slice.
func (l *Lexicon) Solutions() []string { return l.solutions }

// IsAllowedGuess reports whether the word may be submitted as a guess.
func (l *Lexicon) IsAllowedGuess(word string) bool {
	_, ok := l.allowed[strings.ToLower(word)]
	return ok
}

// IsEligibleSolution reports whether the word may be chosen as a secret.
func (l *Lexicon) IsEligibleSolution(word string) bool {
	_, ok := l.solSet[strings.ToLower(word)]
	return ok
}

// RandomSolution picks a solution word uniformly at random.
func (l *Lexicon) RandomSolution() string {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(l.solutions))))
	if err != nil {
		// crypto/rand failing is effectively unreachable; fall back like
		// the selection path always has.
		return l.solutions[0]
	}
	return l.solutions[n.Int64()]
}

// DeterministicSolution maps a seed string to a solution word. The same
// seed always yields the same word for a given loaded word list, because
// the hash is fixed and the solution ordering is pinned by the data file.
func (l *Lexicon) DeterministicSolution(seed string) string {
	return l.solutions[hashSeed(seed)%uint32(len(l.solutions))]
}

// hashSeed is a djb2-style non-cryptographic string hash.
func hashSeed(seed string) uint32 {
	var h uint32 = 5381
	for i := 0; i < len(seed); i++ {
		h = h*33 + uint32(seed[i])
	}
	return h
}
