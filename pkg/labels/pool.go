package labels

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"
)

// ErrPoolExhausted is returned by Take once every label has been handed out.
var ErrPoolExhausted = errors.New("label pool exhausted")

// Pool hands out labels without replacement, in random order.
type Pool struct {
	words []string
	rng   *rand.Rand
}

// NewPool creates a pool over words. Blank entries are dropped and the
// remaining ones are trimmed. The slice is copied.
func NewPool(words []string, rng *rand.Rand) *Pool {
	kept := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			kept = append(kept, w)
		}
	}
	return &Pool{words: kept, rng: rng}
}

// Read builds a pool from r, one label per line.
func Read(r io.Reader, rng *rand.Rand) (*Pool, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		words = append(words, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read labels: %w", err)
	}
	return NewPool(words, rng), nil
}

// LoadFile builds a pool from a word list file, one label per line.
func LoadFile(path string, rng *rand.Rand) (*Pool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open label file: %w", err)
	}
	defer f.Close()

	p, err := Read(f, rng)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Len returns the number of labels left.
func (p *Pool) Len() int {
	return len(p.words)
}

// Take removes and returns a random label.
func (p *Pool) Take() (string, error) {
	if len(p.words) == 0 {
		return "", ErrPoolExhausted
	}
	i := 0
	if p.rng != nil {
		i = p.rng.IntN(len(p.words))
	}
	w := p.words[i]
	p.words = append(p.words[:i], p.words[i+1:]...)
	return w, nil
}
