package schema

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// This file is the only place wire JSON is produced or consumed. Both the
// questions column of a category and the questionResponses column of a
// demand may arrive as a JSON value or as a JSON-encoded string of one
// (older rows were double-encoded), so decoding unwraps defensively.

// EncodeQuestions normalizes and marshals a question list. A list that is
// empty after normalization encodes as nil, which callers persist as NULL
// ("no schema") — deliberately distinct from an empty array.
func EncodeQuestions(questions []Question) ([]byte, error) {
	norm := NormalizeList(questions)
	if len(norm) == 0 {
		return nil, nil
	}
	out, err := json.Marshal(norm)
	if err != nil {
		return nil, errors.Wrap(err, "encode questions")
	}
	return out, nil
}

// DecodeQuestions parses a stored questions payload. On success raw comes
// back empty. On a malformed payload the original text is returned as a
// read-only diagnostic together with the parse error; callers surface it
// instead of failing the whole page.
func DecodeQuestions(payload string) (questions []Question, raw string, err error) {
	if payload == "" || payload == "null" {
		return nil, "", nil
	}

	body := []byte(payload)
	// unwrap a double-encoded payload
	var inner string
	if json.Unmarshal(body, &inner) == nil {
		if inner == "" || inner == "null" {
			return nil, "", nil
		}
		body = []byte(inner)
	}

	if err := json.Unmarshal(body, &questions); err != nil {
		return nil, payload, errors.Wrap(err, "decode questions")
	}
	return questions, "", nil
}

// EncodeAnswers marshals an answer map against its schema snapshot: one
// key per schema question that has a recorded value, coerced to the
// canonical shape, in no particular key order. Blank optional text
// answers are kept as empty strings, never omitted, so a load/save cycle
// with no edits is a no-op. Orphaned keys are dropped. A map with nothing
// to say encodes as nil (persisted NULL).
func EncodeAnswers(questions []Question, answers AnswerMap) ([]byte, error) {
	if len(answers) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(answers))
	for _, q := range questions {
		v, ok := answers[q.ID]
		if !ok {
			continue
		}
		value := Coerce(q.Type, v)
		if q.Type == TypeMultiSelect {
			// stored order is option authoring order, never selection order
			value = reorderSelected(q.Options, value)
		}
		out[q.ID] = value
	}
	if len(out) == 0 {
		return nil, nil
	}
	body, err := json.Marshal(out)
	if err != nil {
		return nil, errors.Wrap(err, "encode answers")
	}
	return body, nil
}

// DecodeAnswers parses a stored questionResponses payload into the flat
// question-id-keyed map. Values keep their raw decoded shapes; coercion
// happens when a FormState hydrates them. Malformed payloads return an
// error and no map; callers degrade to an empty form rather than failing.
func DecodeAnswers(payload string) (AnswerMap, error) {
	if payload == "" || payload == "null" {
		return nil, nil
	}

	body := []byte(payload)
	var inner string
	if json.Unmarshal(body, &inner) == nil {
		if inner == "" || inner == "null" {
			return nil, nil
		}
		body = []byte(inner)
	}

	answers := AnswerMap{}
	if err := json.Unmarshal(body, &answers); err != nil {
		return nil, errors.Wrap(err, "decode answers")
	}
	return answers, nil
}
