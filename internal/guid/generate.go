// Package guid generates random identifiers and decides the literal form
// they take when written into a document.
package guid

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrEntropy is returned when the random source cannot produce an identifier.
// There is no fallback source, so callers should treat it as fatal.
var ErrEntropy = errors.New("random source unavailable")

// Generator produces canonical UUID v4 strings.
// The zero value uses uuid.NewRandom.
type Generator struct {
	// Source overrides the random UUID source. Tests use it to inject failures.
	Source func() (uuid.UUID, error)
}

// Generate returns a new identifier in canonical 8-4-4-4-12 form.
// Letters are lowercase unless uppercase is set; hyphens are left alone.
func (g Generator) Generate(uppercase bool) (string, error) {
	src := g.Source
	if src == nil {
		src = uuid.NewRandom
	}

	id, err := src()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEntropy, err)
	}

	s := id.String()
	if uppercase {
		s = strings.ToUpper(s)
	}
	return s, nil
}

// Generate uses the default random source.
func Generate(uppercase bool) (string, error) {
	return Generator{}.Generate(uppercase)
}
