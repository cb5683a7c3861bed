package shortener

import (
	"fmt"

	"github.com/jaevor/go-nanoid"
)

const (
	// DefaultCodeLength is the length of generated short codes.
	DefaultCodeLength = 6

	codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
)

// CodeGenerator generates candidate short codes. Uniqueness is checked by the Registry.
type CodeGenerator func() string

// NewCodeGenerator returns a generator of alphanumeric codes of the given length.
// The length must lie within MinCodeLength and MaxCodeLength so that every
// generated code is also a valid requested code.
func NewCodeGenerator(length int) (CodeGenerator, error) {
	if length < MinCodeLength || length > MaxCodeLength {
		return nil, fmt.Errorf("code length %d outside %d-%d", length, MinCodeLength, MaxCodeLength)
	}

	gen, err := nanoid.CustomASCII(codeAlphabet, length)
	if err != nil {
		return nil, err
	}

	return CodeGenerator(gen), nil
}
