// Package preferences persists the UI language choice in the key-value store.
package preferences

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/language"

	"github.com/iseven/vnu-connect-x/internal/cache"
	"github.com/iseven/vnu-connect-x/internal/metrics"
	"github.com/iseven/vnu-connect-x/pkg/logger"
)

// LanguageKey is the storage key holding the current language code.
const LanguageKey = "vnu-connect-x-lang"

// Language is a supported UI language code.
type Language string

// Supported languages.
const (
	English    Language = "en"
	Vietnamese Language = "vi"
)

// DefaultLanguage applies when nothing valid is stored.
const DefaultLanguage = English

// ErrUnsupportedLanguage is returned for codes other than en and vi.
var ErrUnsupportedLanguage = errors.New("unsupported language")

var supported = language.NewMatcher([]language.Tag{language.English, language.Vietnamese})

// Valid reports whether l is a supported code.
func (l Language) Valid() bool {
	return l == English || l == Vietnamese
}

// ParseLanguage accepts a BCP 47 tag and returns its supported base language.
// Regional variants collapse to the base ("vi-VN" is vi, "en-GB" is en).
func ParseLanguage(code string) (Language, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", fmt.Errorf("%w: empty code", ErrUnsupportedLanguage)
	}

	tag, err := language.Parse(code)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, code)
	}

	base, _ := tag.Base()
	lang := Language(base.String())
	if !lang.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, code)
	}
	return lang, nil
}

// Negotiate picks the best supported language for an Accept-Language header.
// It returns fallback when the header is empty or unparsable.
func Negotiate(acceptLanguage string, fallback Language) Language {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, idx, conf := supported.Match(tags...)
	if conf == language.No {
		return fallback
	}
	if idx == 1 {
		return Vietnamese
	}
	return English
}

// Store reads and writes the language preference. A nil cache keeps the value
// in process only. Store failures never surface to callers.
type Store struct {
	cache    cache.Cache
	log      *logger.Logger
	fallback Language

	mu      sync.RWMutex
	current Language
}

// NewStore creates a store. An invalid fallback is replaced by DefaultLanguage.
func NewStore(c cache.Cache, fallback Language, log *logger.Logger) *Store {
	if !fallback.Valid() {
		fallback = DefaultLanguage
	}
	return &Store{
		cache:    c,
		log:      log.Component("preferences"),
		fallback: fallback,
		current:  fallback,
	}
}

// Get returns the stored language. An absent or invalid value yields the
// fallback; an unreachable store yields the last value known in process.
func (s *Store) Get(ctx context.Context) Language {
	if s.cache == nil {
		return s.inProcess()
	}

	raw, err := s.cache.Get(ctx, LanguageKey)
	if err != nil {
		metrics.RecordPreferenceFailure("read")
		s.log.Warn().Err(err).Str("key", LanguageKey).Msg("Failed to read language preference, using in-process value")
		return s.inProcess()
	}
	if raw == "" {
		return s.fallback
	}

	lang := Language(raw)
	if !lang.Valid() {
		s.log.Warn().Str("key", LanguageKey).Str("value", raw).Msg("Ignoring invalid stored language")
		return s.fallback
	}

	s.mu.Lock()
	s.current = lang
	s.mu.Unlock()
	return lang
}

// Set records lang. The in-process value is updated even when the store is
// unreachable. Only an unsupported code is reported as an error.
func (s *Store) Set(ctx context.Context, lang Language) error {
	if !lang.Valid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedLanguage, string(lang))
	}

	s.mu.Lock()
	s.current = lang
	s.mu.Unlock()

	if s.cache == nil {
		return nil
	}
	if err := s.cache.Set(ctx, LanguageKey, string(lang), 0); err != nil {
		metrics.RecordPreferenceFailure("write")
		s.log.Warn().Err(err).Str("key", LanguageKey).Str("language", string(lang)).Msg("Failed to persist language preference")
		return nil
	}

	s.log.Debug().Str("language", string(lang)).Msg("Language preference saved")
	return nil
}

func (s *Store) inProcess() Language {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}
