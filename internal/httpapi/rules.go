package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rowguard/rowguard/internal/domain"
	"github.com/rowguard/rowguard/internal/repository"
)

// rulePayload is the write shape for rules. Active defaults to true when the
// field is absent.
type rulePayload struct {
	ColumnName string          `json:"column_name"`
	Kind       domain.RuleKind `json:"rule_type"`
	Definition string          `json:"rule_value"`
	Active     *bool           `json:"is_active"`
}

func (p rulePayload) toRule() domain.Rule {
	rule := domain.Rule{
		ColumnName: p.ColumnName,
		Kind:       p.Kind,
		Definition: p.Definition,
		Active:     true,
	}
	if p.Active != nil {
		rule.Active = *p.Active
	}
	return rule
}

func (p rulePayload) validate() error {
	if p.ColumnName == "" {
		return fmt.Errorf("column_name is required")
	}
	if p.Kind == "" {
		return fmt.Errorf("rule_type is required")
	}
	if p.Definition == "" {
		return fmt.Errorf("rule_value is required")
	}
	return nil
}

func (h *Handler) listRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.store.Rules().List(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rules)
}

func (h *Handler) createRule(w http.ResponseWriter, r *http.Request) {
	var payload rulePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if err := payload.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rule, err := h.store.Rules().Create(r.Context(), payload.toRule())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rule)
}

func (h *Handler) updateRule(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "ruleID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid rule id")
		return
	}

	var payload rulePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if err := payload.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rule := payload.toRule()
	rule.ID = id
	updated, err := h.store.Rules().Update(r.Context(), rule)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// seedRules resets the rule table to the sample pair used for demos: letters
// and spaces for name, 0-120 for age.
func (h *Handler) seedRules(w http.ResponseWriter, r *http.Request) {
	seed := []domain.Rule{
		{ColumnName: "name", Kind: domain.RuleKindRegex, Definition: "^[A-Za-z ]+$", Active: true},
		{ColumnName: "age", Kind: domain.RuleKindRange, Definition: "0-120", Active: true},
	}

	var rules []domain.Rule
	err := h.store.WithinTx(r.Context(), func(st repository.Store) error {
		if replaceErr := st.Rules().ReplaceAll(r.Context(), seed); replaceErr != nil {
			return replaceErr
		}
		var listErr error
		rules, listErr = st.Rules().List(r.Context())
		return listErr
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rules)
}
