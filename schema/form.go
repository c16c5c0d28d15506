package schema

import "fmt"

// Widget names the control a console client should render for one row.
type Widget string

const (
	WidgetText      Widget = "text"
	WidgetNumber    Widget = "number"
	WidgetSelect    Widget = "select"
	WidgetChecklist Widget = "checklist"
	WidgetToggle    Widget = "toggle"
	WidgetDate      Widget = "date"
	// WidgetNoOptions replaces an option-bearing control whose question
	// has no options configured.
	WidgetNoOptions Widget = "no_options"
)

// Row is one renderable form line: the question, the control to draw and
// the hydrated current value.
type Row struct {
	Question Question `json:"question"`
	Widget   Widget   `json:"widget"`
	Value    any      `json:"value"`
}

// FieldError reports one failed validation at submit time.
type FieldError struct {
	QuestionID string `json:"questionId"`
	Message    string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.QuestionID, e.Message)
}

// FormState is the in-memory model behind both the schema authoring form
// and the demand answer form. All operations mutate local state only;
// nothing touches storage until the surrounding handler saves. Index
// arguments out of range are no-ops, never errors.
type FormState struct {
	Questions []Question
	Answers   AnswerMap
}

// NewFormState hydrates a form for the given schema snapshot. Answer
// values are coerced up front so widgets always see canonical shapes.
func NewFormState(questions []Question, answers AnswerMap) *FormState {
	f := &FormState{
		Questions: append([]Question(nil), questions...),
		Answers:   AnswerMap{},
	}
	byID := f.questionsByID()
	for id, v := range answers {
		q, ok := byID[id]
		if !ok {
			// orphaned answer: keep it raw, the form never shows it
			f.Answers[id] = v
			continue
		}
		f.Answers[id] = Coerce(q.Type, v)
	}
	return f
}

func (f *FormState) questionsByID() map[string]Question {
	byID := make(map[string]Question, len(f.Questions))
	for _, q := range f.Questions {
		// duplicate ids across a schema revision: the later entry wins
		byID[q.ID] = q
	}
	return byID
}

// AddQuestion appends a fresh text question at the end of the list.
func (f *FormState) AddQuestion() {
	f.Questions = append(f.Questions, Question{
		ID:      newQuestionID(),
		Type:    TypeText,
		Options: []Option{},
	})
}

// RemoveQuestion deletes the question at index, keeping the rest in order.
func (f *FormState) RemoveQuestion(index int) {
	if index < 0 || index >= len(f.Questions) {
		return
	}
	f.Questions = append(f.Questions[:index], f.Questions[index+1:]...)
}

// UpdateQuestion applies a single-field edit to the question at index.
// No cross-field cleanup happens here: switching the type away from
// select keeps the options around until NormalizeForSave drops them.
func (f *FormState) UpdateQuestion(index int, apply func(*Question)) {
	if index < 0 || index >= len(f.Questions) {
		return
	}
	apply(&f.Questions[index])
}

// AddOption appends an empty option to the question at questionIndex.
func (f *FormState) AddOption(questionIndex int) {
	f.UpdateQuestion(questionIndex, func(q *Question) {
		q.Options = append(q.Options, Option{})
	})
}

// RemoveOption deletes one option of one question.
func (f *FormState) RemoveOption(questionIndex, optionIndex int) {
	f.UpdateQuestion(questionIndex, func(q *Question) {
		if optionIndex < 0 || optionIndex >= len(q.Options) {
			return
		}
		q.Options = append(q.Options[:optionIndex], q.Options[optionIndex+1:]...)
	})
}

// UpdateOption applies a single-field edit to one option of one question.
func (f *FormState) UpdateOption(questionIndex, optionIndex int, apply func(*Option)) {
	f.UpdateQuestion(questionIndex, func(q *Question) {
		if optionIndex < 0 || optionIndex >= len(q.Options) {
			return
		}
		apply(&q.Options[optionIndex])
	})
}

// SetAnswer records a value for the question with the given id, coercing
// it to the question type's canonical shape. Multiselect values are
// stored in option authoring order, not selection order, with selections
// that match no option dropped. Writes are keyed strictly by id; a write
// for an id absent from the schema is dropped.
func (f *FormState) SetAnswer(questionID string, value any) {
	q, ok := f.questionsByID()[questionID]
	if !ok {
		return
	}
	v := Coerce(q.Type, value)
	if q.Type == TypeMultiSelect {
		v = reorderSelected(q.Options, v)
	}
	f.Answers[questionID] = v
}

// Rows produces the render plan, one row per schema question in authoring
// order. Dispatch is exhaustive over the known types; anything else falls
// through to a plain text input on purpose (unknown type means text).
// Orphaned answers contribute no rows.
func (f *FormState) Rows() []Row {
	rows := make([]Row, 0, len(f.Questions))
	for _, q := range f.Questions {
		rows = append(rows, f.row(q))
	}
	return rows
}

func (f *FormState) row(q Question) Row {
	value := Coerce(q.Type, f.Answers[q.ID])

	var w Widget
	switch q.Type {
	case TypeNumber:
		w = WidgetNumber
	case TypeBoolean:
		w = WidgetToggle
	case TypeDate:
		w = WidgetDate
	case TypeSelect:
		w = WidgetSelect
	case TypeMultiSelect:
		w = WidgetChecklist
	case TypeText:
		w = WidgetText
	default:
		w = WidgetText
	}

	if IsOptionBearing(q.Type) {
		if len(q.Options) == 0 {
			w = WidgetNoOptions
		} else if q.Type == TypeMultiSelect {
			value = reorderSelected(q.Options, value)
		} else if !optionValueExists(q.Options, value) {
			// no default selection unless the stored answer matches
			value = nil
		}
	}

	return Row{Question: q, Widget: w, Value: value}
}

// reorderSelected rewrites a multiselect value into option authoring
// order, dropping selections that no longer match an option.
func reorderSelected(options []Option, value any) []string {
	selected, _ := value.([]string)
	chosen := make(map[string]bool, len(selected))
	for _, v := range selected {
		chosen[v] = true
	}
	out := []string{}
	for _, o := range options {
		if chosen[o.Value] {
			out = append(out, o.Value)
		}
	}
	return out
}

func optionValueExists(options []Option, value any) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	for _, o := range options {
		if o.Value == s {
			return true
		}
	}
	return false
}

// Validate runs the submit-time required checks. Editing never blocks on
// a missing answer; only a save does. Multiselect counts as answered when
// at least one value is selected.
func (f *FormState) Validate() []FieldError {
	var errs []FieldError
	for _, q := range f.Questions {
		if !q.Required {
			continue
		}
		value := Coerce(q.Type, f.Answers[q.ID])
		if q.Type == TypeMultiSelect {
			value = reorderSelected(q.Options, value)
		}
		if IsBlank(q.Type, value) {
			errs = append(errs, FieldError{
				QuestionID: q.ID,
				Message:    "an answer is required",
			})
		}
	}
	return errs
}
