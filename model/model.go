package model

import (
	"github.com/mbolis/demand-console/schema"
)

// Category classifies demands and optionally owns an ordered question
// schema. Questions is nil when the category has no schema (wire null).
// QuestionsRaw carries the stored payload verbatim when it failed to
// parse, as a read-only diagnostic.
type Category struct {
	ID           int               `json:"id,omitempty"`
	Version      int               `json:"version,omitempty"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Questions    []schema.Question `json:"questions"`
	QuestionsRaw string            `json:"questionsRaw,omitempty"`
}

// Demand is a request created against exactly one category. Its
// QuestionResponses are keyed by the category's question ids; Form is the
// computed render plan and is only populated on single-demand reads.
// QuestionResponsesRaw carries the stored payload verbatim when it failed
// to parse, as a read-only diagnostic.
type Demand struct {
	ID                   int              `json:"id,omitempty"`
	Version              int              `json:"version,omitempty"`
	CategoryID           int              `json:"categoryId"`
	Title                string           `json:"title"`
	Details              string           `json:"details"`
	Status               string           `json:"status,omitempty"`
	QuestionResponses    schema.AnswerMap `json:"questionResponses,omitempty"`
	QuestionResponsesRaw string           `json:"questionResponsesRaw,omitempty"`
	Form                 []schema.Row     `json:"form,omitempty"`
}

// Demand lifecycle states. New demands default to StatusOpen.
const (
	StatusOpen     = "open"
	StatusMatched  = "matched"
	StatusResolved = "resolved"
	StatusArchived = "archived"
)
