// Package api serves the registration validator over JSON HTTP.
package api

import (
	"fmt"
	"net/http"

	"github.com/dalemusser/regcheck/account"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// MaxBatchSize bounds the number of registrations in one batch request.
const MaxBatchSize = 1000

// Recorder observes every registration the handlers check.
type Recorder interface {
	ObserveRegistration(valid bool, errs account.Errors)
}

// Handler holds what the endpoints need to answer.
type Handler struct {
	Messages *account.Messages
	Recorder Recorder
	Logger   *zap.Logger
}

// NewHandler returns a Handler using the default message catalog. rec may be
// nil.
func NewHandler(rec Recorder, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Messages: account.DefaultMessages(),
		Recorder: rec,
		Logger:   logger,
	}
}

// Result is the response for one registration.
type Result struct {
	Valid  bool           `json:"valid"`
	Errors account.Errors `json:"errors"`
}

// RuleInfo describes one validation rule.
type RuleInfo struct {
	Rule        string `json:"rule"`
	Field       string `json:"field"`
	Description string `json:"description"`
}

// RulesResponse is the body of GET /api/rules.
type RulesResponse struct {
	MinPasswordLength int        `json:"min_password_length"`
	EmailPattern      string     `json:"email_pattern"`
	Rules             []RuleInfo `json:"rules"`
	Locales           []string   `json:"locales"`
}

// Routes mounts the API endpoints on r, which is expected to be the /api
// subrouter. Health is mounted separately so it stays outside API guards.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/rules", h.Rules)
	r.Post("/registrations/validate", h.Validate)
	r.Post("/registrations/validate/batch", h.ValidateBatch)
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.write(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Rules describes the validation rules and supported locales.
func (h *Handler) Rules(w http.ResponseWriter, r *http.Request) {
	locale := Locale(r)
	describe := func(field, rule, param string) RuleInfo {
		return RuleInfo{Rule: rule, Field: field, Description: h.Messages.Get(locale, rule, field, param)}
	}
	minLen := fmt.Sprint(account.MinPasswordLength)

	h.write(w, http.StatusOK, RulesResponse{
		MinPasswordLength: account.MinPasswordLength,
		EmailPattern:      account.EmailPattern,
		Rules: []RuleInfo{
			describe(account.FieldUsername, account.RuleUsernameRequired, ""),
			describe(account.FieldPassword, account.RulePasswordMinLength, minLen),
			describe(account.FieldEmail, account.RuleEmailRequired, ""),
			describe(account.FieldEmail, account.RuleEmailFormat, ""),
		},
		Locales: h.Messages.Locales(),
	})
}

// Validate checks one registration.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	var reg account.Registration
	if err := bindJSON(r, &reg); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	h.write(w, http.StatusOK, h.check(reg, Locale(r)))
}

// ValidateBatch checks a JSON array of registrations, answering with one
// result per item in request order.
func (h *Handler) ValidateBatch(w http.ResponseWriter, r *http.Request) {
	var regs []account.Registration
	if err := bindJSON(r, &regs); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if len(regs) > MaxBatchSize {
		WriteError(w, http.StatusBadRequest, "invalid_request",
			fmt.Sprintf("batch has %d registrations; the maximum is %d", len(regs), MaxBatchSize))
		return
	}

	locale := Locale(r)
	results := make([]Result, 0, len(regs))
	for _, reg := range regs {
		results = append(results, h.check(reg, locale))
	}
	h.Logger.Debug("batch validated", zap.Int("count", len(results)), zap.String("locale", locale))
	h.write(w, http.StatusOK, results)
}

func (h *Handler) check(reg account.Registration, locale string) Result {
	username, password, email := reg.Fields()
	errs := account.CheckLocale(h.Messages, locale, username, password, email)
	if errs == nil {
		errs = account.Errors{}
	}
	res := Result{Valid: reg.Valid(), Errors: errs}
	if h.Recorder != nil {
		h.Recorder.ObserveRegistration(res.Valid, res.Errors)
	}
	return res
}

func (h *Handler) write(w http.ResponseWriter, status int, v any) {
	if err := writeJSON(w, status, v); err != nil {
		h.Logger.Error("json encoding failed after headers sent", zap.Error(err))
	}
}
