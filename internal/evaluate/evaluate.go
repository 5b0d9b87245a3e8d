// Package evaluate scores guesses against the secret word, aggregates
// keyboard letter statuses, and infers hint candidates from accumulated
// feedback. Everything here is pure and synchronous.
package evaluate

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/samber/lo"

	"github.com/hongarc/mintle/internal/lexicon"
)

// Status is the per-letter verdict of a guess evaluation.
type Status string

const (
	StatusCorrect Status = "correct"
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
)

// statusRank orders statuses for keyboard aggregation; higher wins.
var statusRank = map[Status]int{StatusAbsent: 1, StatusPresent: 2, StatusCorrect: 3}

// LetterFeedback pairs a guessed letter, case preserved as typed, with its
// verdict against the secret.
type LetterFeedback struct {
	Letter string `json:"letter"`
	Status Status `json:"status"`
}

// InputError reports a malformed guess or secret.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return "evaluate: " + e.Reason
}

// Evaluate scores guess against secret with the two-pass duplicate-aware
// algorithm. Pass 1 claims exact positional matches and blanks them out of
// a working copy of the secret; pass 2 scans the remaining letters of the
// copy so each secret letter is consumed at most once. The ordering is what
// makes repeated letters come out right: a letter guessed twice but present
// once yields one correct/present and one absent.
func Evaluate(guess, secret string) ([]LetterFeedback, error) {
	g := strings.ToLower(guess)
	s := strings.ToLower(secret)
	if len(g) != lexicon.WordLength {
		return nil, &InputError{Reason: fmt.Sprintf("guess must be %d letters, got %d", lexicon.WordLength, len(g))}
	}
	if len(s) != lexicon.WordLength {
		return nil, &InputError{Reason: fmt.Sprintf("secret must be %d letters, got %d", lexicon.WordLength, len(s))}
	}

	result := make([]LetterFeedback, lexicon.WordLength)
	remaining := []byte(s)

	for i := 0; i < lexicon.WordLength; i++ {
		if g[i] == s[i] {
			result[i] = LetterFeedback{Letter: string(guess[i]), Status: StatusCorrect}
			remaining[i] = ' '
		}
	}

	for i := 0; i < lexicon.WordLength; i++ {
		if result[i].Status != "" {
			continue
		}
		result[i].Letter = string(guess[i])
		result[i].Status = StatusAbsent
		for j := 0; j < lexicon.WordLength; j++ {
			if remaining[j] == g[i] {
				result[i].Status = StatusPresent
				remaining[j] = ' '
				break
			}
		}
	}

	return result, nil
}

// IsExactMatch reports case-insensitive equality of guess and secret.
func IsExactMatch(guess, secret string) bool {
	return strings.EqualFold(guess, secret)
}

// AggregateLetterStatus folds all feedback rows into the best-known status
// per letter (keyed by uppercase letter). Priority is correct > present >
// absent; a letter's status only ever upgrades.
func AggregateLetterStatus(rows [][]LetterFeedback) map[string]Status {
	best := make(map[string]Status)
	for _, row := range rows {
		for _, fb := range row {
			letter := strings.ToUpper(fb.Letter)
			if statusRank[fb.Status] > statusRank[best[letter]] {
				best[letter] = fb.Status
			}
		}
	}
	return best
}

// constraints is the accumulated knowledge a hint must satisfy.
type constraints struct {
	fixed       [lexicon.WordLength]byte          // 0 = unknown
	excludedAt  [lexicon.WordLength]map[byte]bool // letter tried here, not here
	mustInclude map[byte]bool
	mustExclude map[byte]bool
}

// SuggestHint infers a solution word consistent with every feedback row so
// far, excluding words already guessed. It returns ("", false) when no
// candidate survives, the single candidate when one does, and a uniformly
// random one among several, so hints stay unpredictable.
func SuggestHint(guesses []string, rows [][]LetterFeedback, lex *lexicon.Lexicon) (string, bool) {
	cons := buildConstraints(rows)

	guessed := make(map[string]bool, len(guesses))
	for _, g := range guesses {
		guessed[strings.ToLower(g)] = true
	}

	candidates := lo.Filter(lex.Solutions(), func(word string, _ int) bool {
		return !guessed[word] && cons.match(word)
	})

	switch len(candidates) {
	case 0:
		return "", false
	case 1:
		return strings.ToUpper(candidates[0]), true
	default:
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(candidates))))
		if err != nil {
			return strings.ToUpper(candidates[0]), true
		}
		return strings.ToUpper(candidates[n.Int64()]), true
	}
}

func buildConstraints(rows [][]LetterFeedback) *constraints {
	cons := &constraints{
		mustInclude: make(map[byte]bool),
		mustExclude: make(map[byte]bool),
	}
	for i := range cons.excludedAt {
		cons.excludedAt[i] = make(map[byte]bool)
	}

	for _, row := range rows {
		if len(row) != lexicon.WordLength {
			continue
		}

		// Per-row letter disambiguation: an absent mark only means "not in
		// the word at all" when no occurrence of that letter in the same
		// row scored correct or present.
		rowHasHit := make(map[byte]bool)
		for _, fb := range row {
			if fb.Status == StatusCorrect || fb.Status == StatusPresent {
				rowHasHit[letterByte(fb.Letter)] = true
			}
		}

		for pos, fb := range row {
			letter := letterByte(fb.Letter)
			switch fb.Status {
			case StatusCorrect:
				cons.fixed[pos] = letter
				cons.mustInclude[letter] = true
			case StatusPresent:
				cons.mustInclude[letter] = true
				cons.excludedAt[pos][letter] = true
			case StatusAbsent:
				if rowHasHit[letter] {
					cons.excludedAt[pos][letter] = true
				} else {
					cons.mustExclude[letter] = true
				}
			}
		}
	}
	return cons
}

func (c *constraints) match(word string) bool {
	if len(word) != lexicon.WordLength {
		return false
	}
	for i := 0; i < lexicon.WordLength; i++ {
		if c.fixed[i] != 0 && word[i] != c.fixed[i] {
			return false
		}
		if c.excludedAt[i][word[i]] {
			return false
		}
		if c.mustExclude[word[i]] {
			return false
		}
	}
	for letter := range c.mustInclude {
		if !strings.ContainsRune(word, rune(letter)) {
			return false
		}
	}
	return true
}

func letterByte(letter string) byte {
	if letter == "" {
		return 0
	}
	return strings.ToLower(letter)[0]
}
