// Package schema implements the dynamic question engine shared by
// category authoring and demand answer collection: question definitions,
// save-time normalization, answer coercion, in-memory form state and the
// wire codec for the JSON columns both resources persist.
package schema

import (
	"strings"

	"github.com/google/uuid"
)

// QuestionType is the closed set of input types a question can declare.
// Values outside the set are tolerated everywhere and render as text.
type QuestionType string

const (
	TypeText        QuestionType = "text"
	TypeNumber      QuestionType = "number"
	TypeSelect      QuestionType = "select"
	TypeMultiSelect QuestionType = "multiselect"
	TypeDate        QuestionType = "date"
	TypeBoolean     QuestionType = "boolean"
)

// Option is one selectable choice of a select/multiselect question.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Question is a single schema entry of a category's question list.
// Placeholder is only meaningful for text/number, Unit only for number,
// Options only for option-bearing types; stray values are not rejected
// while editing, they are cleaned up by NormalizeForSave.
type Question struct {
	ID          string       `json:"id"`
	Text        string       `json:"text"`
	Type        QuestionType `json:"type"`
	Required    bool         `json:"required,omitempty"`
	Placeholder string       `json:"placeholder,omitempty"`
	Unit        string       `json:"unit,omitempty"`
	Options     []Option     `json:"options,omitempty"`
}

// IsOptionBearing reports whether the type carries an options list.
func IsOptionBearing(t QuestionType) bool {
	return t == TypeSelect || t == TypeMultiSelect
}

// IsNumericOnly reports whether the type accepts a unit decoration.
func IsNumericOnly(t QuestionType) bool {
	return t == TypeNumber
}

// NormalizeForSave returns the cleaned copy of q that goes to the wire:
// trimmed text, blank placeholder/unit dropped, options dropped entirely
// for non option-bearing types, blank options filtered out. A question
// whose text is blank after trimming is not saved at all (ok == false).
// An existing id is never regenerated; a missing one is assigned here so
// recorded answers stay keyed to it across later edits.
func (q Question) NormalizeForSave() (norm Question, ok bool) {
	norm = q
	norm.Text = strings.TrimSpace(q.Text)
	if norm.Text == "" {
		return Question{}, false
	}

	if norm.ID == "" {
		norm.ID = newQuestionID()
	}
	if strings.TrimSpace(norm.Placeholder) == "" {
		norm.Placeholder = ""
	}
	if !IsNumericOnly(norm.Type) || strings.TrimSpace(norm.Unit) == "" {
		norm.Unit = ""
	}

	if !IsOptionBearing(norm.Type) {
		norm.Options = nil
		return norm, true
	}

	opts := make([]Option, 0, len(norm.Options))
	for _, o := range norm.Options {
		label := strings.TrimSpace(o.Label)
		value := strings.TrimSpace(o.Value)
		if label == "" || value == "" {
			continue
		}
		opts = append(opts, Option{Label: label, Value: value})
	}
	if len(opts) == 0 {
		// the question survives with no options; the form layer renders
		// a "no options configured" placeholder for it
		norm.Options = nil
		return norm, true
	}
	norm.Options = opts
	return norm, true
}

// newQuestionID mints the opaque stable identifier answers get keyed by.
func newQuestionID() string {
	return uuid.NewString()
}

// NormalizeList applies NormalizeForSave to every question, dropping the
// ones that normalize to nothing. A list that ends up empty comes back
// nil, which the codec writes as JSON null ("no schema"). Order is kept.
func NormalizeList(questions []Question) []Question {
	var out []Question
	for _, q := range questions {
		norm, ok := q.NormalizeForSave()
		if !ok {
			continue
		}
		out = append(out, norm)
	}
	return out
}
