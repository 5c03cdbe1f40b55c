// Package seq issues citizen-facing ticket identifiers of the form
// CITYCODE-DEPTCODE-SEQ, backed by a durable per-key counter.
package seq

import (
	"context"
	"fmt"
	"strings"
	"unicode"
)

// CounterStore is the durable increment-and-fetch. Implementations must be
// atomic per key across process instances.
type CounterStore interface {
	Incr(ctx context.Context, key string) (int64, error)
}

type Sequencer struct {
	Counters CounterStore
}

func New(counters CounterStore) *Sequencer {
	return &Sequencer{Counters: counters}
}

// CityCode strips non-alphabetic runes, takes the first three, uppercases,
// and right-pads with 'X' to exactly three characters.
func CityCode(city string) string {
	letters := make([]rune, 0, 3)
	for _, r := range city {
		if unicode.IsLetter(r) {
			letters = append(letters, unicode.ToUpper(r))
			if len(letters) == 3 {
				break
			}
		}
	}
	for len(letters) < 3 {
		letters = append(letters, 'X')
	}
	return string(letters)
}

// DeptCode strips whitespace from the department name and takes the first
// two characters, uppercased. Stable per department name.
func DeptCode(department string) string {
	stripped := strings.Join(strings.Fields(department), "")
	if len(stripped) > 2 {
		stripped = stripped[:2]
	}
	return strings.ToUpper(stripped)
}

// Next atomically allocates the next sequence number for (city, deptCode)
// and returns the composed ticket id, e.g. "BHO-WA-007". On counter failure
// no ticket is issued and the caller must not persist a record.
func (s *Sequencer) Next(ctx context.Context, city, deptCode string) (string, error) {
	key := CityCode(city) + "-" + deptCode
	n, err := s.Counters.Incr(ctx, key)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%03d", key, n), nil
}
