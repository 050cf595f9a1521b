package account

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Supported message locales.
const (
	LocaleEnglish    = "en"
	LocaleVietnamese = "vi"
)

// Messages is a catalog of rule messages per locale, with {field} and
// {param} placeholders.
type Messages struct {
	mu       sync.RWMutex
	messages map[string]map[string]string // locale -> rule -> message
	fallback string
}

// NewMessages creates an empty catalog that falls back to English.
func NewMessages() *Messages {
	return &Messages{
		messages: make(map[string]map[string]string),
		fallback: LocaleEnglish,
	}
}

// DefaultMessages returns a catalog with the built-in English and
// Vietnamese messages.
func DefaultMessages() *Messages {
	m := NewMessages()
	m.RegisterLocale(LocaleEnglish, englishMessages)
	m.RegisterLocale(LocaleVietnamese, vietnameseMessages)
	return m
}

var defaultMessages = DefaultMessages()

// SetFallback sets the locale used when a message is missing.
func (m *Messages) SetFallback(locale string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallback = locale
}

// RegisterLocale registers (or replaces) the messages for a locale.
func (m *Messages) RegisterLocale(locale string, messages map[string]string) {
	cp := make(map[string]string, len(messages))
	for k, v := range messages {
		cp[k] = v
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages[locale] = cp
}

// Locales returns the registered locales, sorted, with the fallback first.
func (m *Messages) Locales() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.messages))
	for l := range m.messages {
		if l != m.fallback {
			out = append(out, l)
		}
	}
	sort.Strings(out)
	if _, ok := m.messages[m.fallback]; ok {
		out = append([]string{m.fallback}, out...)
	}
	return out
}

// Get returns the message for rule in locale, falling back to the fallback
// locale and then to a generic message.
func (m *Messages) Get(locale, rule, field, param string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if msgs, ok := m.messages[locale]; ok {
		if msg, ok := msgs[rule]; ok {
			return format(msg, field, param)
		}
	}
	if msgs, ok := m.messages[m.fallback]; ok {
		if msg, ok := msgs[rule]; ok {
			return format(msg, field, param)
		}
	}
	return fmt.Sprintf("%s validation failed for %s", rule, field)
}

// Localize returns a copy of errs with messages rewritten for locale.
func (m *Messages) Localize(errs Errors, locale string) Errors {
	if errs == nil {
		return nil
	}
	out := make(Errors, len(errs))
	for i, e := range errs {
		param := ""
		if e.Rule == RulePasswordMinLength {
			param = fmt.Sprint(MinPasswordLength)
		}
		e.Message = m.Get(locale, e.Rule, e.Field, param)
		out[i] = e
	}
	return out
}

func format(msg, field, param string) string {
	msg = strings.ReplaceAll(msg, "{field}", field)
	return strings.ReplaceAll(msg, "{param}", param)
}

var englishMessages = map[string]string{
	RuleUsernameRequired:  "{field} is required",
	RulePasswordMinLength: "{field} must be at least {param} characters",
	RuleEmailRequired:     "{field} is required",
	RuleEmailFormat:       "{field} must be a valid email address",
}

var vietnameseMessages = map[string]string{
	RuleUsernameRequired:  "{field} không được để trống",
	RulePasswordMinLength: "{field} phải có ít nhất {param} ký tự",
	RuleEmailRequired:     "{field} không được để trống",
	RuleEmailFormat:       "{field} không phải là địa chỉ email hợp lệ",
}
