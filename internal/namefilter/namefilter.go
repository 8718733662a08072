// Package namefilter validates profile nicknames before they are stored.
package namefilter

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrRejected is wrapped around every rejection so callers can tell a bad
// nickname apart from other failures.
var ErrRejected = errors.New("nickname rejected")

// Config holds nickname rules.
type Config struct {
	MinLength int `yaml:"min_length"`
	MaxLength int `yaml:"max_length"`

	// BannedWords reject any nickname containing them.
	BannedWords []string `yaml:"banned_words"`

	// ReservedNames reject exact matches only.
	ReservedNames []string `yaml:"reserved_names"`
}

// DefaultConfig returns the rules used when no names section is configured.
func DefaultConfig() Config {
	return Config{
		MinLength:     3,
		MaxLength:     20,
		ReservedNames: []string{"admin", "server", "system"},
	}
}

// Filter checks nicknames case-insensitively.
type Filter struct {
	minLength int
	maxLength int
	words     []string
	reserved  map[string]struct{}
}

// New builds a Filter. Zero lengths fall back to the defaults.
func New(cfg Config) *Filter {
	def := DefaultConfig()
	f := &Filter{
		minLength: cfg.MinLength,
		maxLength: cfg.MaxLength,
		reserved:  make(map[string]struct{}, len(cfg.ReservedNames)),
	}
	if f.minLength <= 0 {
		f.minLength = def.MinLength
	}
	if f.maxLength <= 0 {
		f.maxLength = def.MaxLength
	}

	for _, w := range cfg.BannedWords {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			f.words = append(f.words, w)
		}
	}
	for _, n := range cfg.ReservedNames {
		if n = strings.ToLower(strings.TrimSpace(n)); n != "" {
			f.reserved[n] = struct{}{}
		}
	}
	return f
}

// Check returns nil for an acceptable nickname. The error text is safe to show
// to the player.
func (f *Filter) Check(nickname string) error {
	n := len([]rune(nickname))
	if n < f.minLength || n > f.maxLength {
		return fmt.Errorf("%w: Nickname must be %d to %d characters.", ErrRejected, f.minLength, f.maxLength)
	}

	for _, r := range nickname {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return fmt.Errorf("%w: Nickname may only contain letters and digits.", ErrRejected)
		}
	}

	lower := strings.ToLower(nickname)
	if _, ok := f.reserved[lower]; ok {
		return fmt.Errorf("%w: That name is not allowed.", ErrRejected)
	}
	for _, w := range f.words {
		if strings.Contains(lower, w) {
			return fmt.Errorf("%w: That name contains a word that is not allowed.", ErrRejected)
		}
	}
	return nil
}

// Reason strips the ErrRejected prefix from a Check error.
func Reason(err error) string {
	return strings.TrimPrefix(err.Error(), ErrRejected.Error()+": ")
}
