package schema_test

import (
	"reflect"
	"testing"

	"github.com/mbolis/demand-console/schema"
)

func colorQuestion() schema.Question {
	return schema.Question{
		ID:   "q2",
		Text: "Renk",
		Type: schema.TypeSelect,
		Options: []schema.Option{
			{Label: "Kırmızı", Value: "red"},
			{Label: "Mavi", Value: "blue"},
		},
	}
}

func TestAddQuestionAppendsFreshText(t *testing.T) {
	form := schema.NewFormState([]schema.Question{{ID: "q1", Text: "One", Type: schema.TypeNumber}}, nil)
	form.AddQuestion()
	form.AddQuestion()

	if len(form.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(form.Questions))
	}
	if form.Questions[0].ID != "q1" {
		t.Fatal("existing questions keep their position")
	}
	q1, q2 := form.Questions[1], form.Questions[2]
	if q1.Type != schema.TypeText || q1.Required {
		t.Fatalf("new question defaults to optional text, got %+v", q1)
	}
	if q1.ID == "" || q1.ID == q2.ID {
		t.Fatalf("new questions need unique ids, got %q and %q", q1.ID, q2.ID)
	}
}

func TestRemoveQuestionOutOfRangeIsNoop(t *testing.T) {
	form := schema.NewFormState([]schema.Question{{ID: "q1", Text: "One", Type: schema.TypeText}}, nil)
	form.RemoveQuestion(-1)
	form.RemoveQuestion(5)
	if len(form.Questions) != 1 {
		t.Fatalf("expected untouched list, got %v", form.Questions)
	}
	form.RemoveQuestion(0)
	if len(form.Questions) != 0 {
		t.Fatalf("expected empty list, got %v", form.Questions)
	}
}

func TestUpdateQuestionDoesNotEagerlyCleanOptions(t *testing.T) {
	form := schema.NewFormState([]schema.Question{colorQuestion()}, nil)
	form.UpdateQuestion(0, func(q *schema.Question) { q.Type = schema.TypeText })

	// cleanup is NormalizeForSave's job, not the editor's
	if len(form.Questions[0].Options) != 2 {
		t.Fatalf("options must survive a type switch while editing, got %v", form.Questions[0].Options)
	}
	norm, _ := form.Questions[0].NormalizeForSave()
	if norm.Options != nil {
		t.Fatalf("normalization drops the stale options, got %v", norm.Options)
	}
}

func TestOptionEditing(t *testing.T) {
	form := schema.NewFormState([]schema.Question{colorQuestion()}, nil)

	form.AddOption(0)
	if len(form.Questions[0].Options) != 3 {
		t.Fatalf("expected 3 options, got %v", form.Questions[0].Options)
	}
	form.UpdateOption(0, 2, func(o *schema.Option) { o.Label, o.Value = "Yeşil", "green" })
	if form.Questions[0].Options[2] != (schema.Option{Label: "Yeşil", Value: "green"}) {
		t.Fatalf("expected updated option, got %+v", form.Questions[0].Options[2])
	}
	form.RemoveOption(0, 0)
	if form.Questions[0].Options[0].Value != "blue" {
		t.Fatalf("expected blue first after removal, got %v", form.Questions[0].Options)
	}

	// out of range edits touch nothing
	form.AddOption(7)
	form.RemoveOption(0, 9)
	form.UpdateOption(3, 0, func(o *schema.Option) { o.Value = "x" })
	if len(form.Questions[0].Options) != 2 {
		t.Fatalf("expected 2 options, got %v", form.Questions[0].Options)
	}
}

func TestSelectNoPreselectionUntilChosen(t *testing.T) {
	form := schema.NewFormState([]schema.Question{colorQuestion()}, nil)

	rows := form.Rows()
	if len(rows) != 1 || rows[0].Widget != schema.WidgetSelect {
		t.Fatalf("expected one select row, got %+v", rows)
	}
	if rows[0].Value != nil {
		t.Fatalf("no option may be pre-selected, got %#v", rows[0].Value)
	}

	form.SetAnswer("q2", "blue")
	if !reflect.DeepEqual(form.Answers, schema.AnswerMap{"q2": "blue"}) {
		t.Fatalf("expected {q2: blue}, got %v", form.Answers)
	}
	if got := form.Rows()[0].Value; got != "blue" {
		t.Fatalf("expected blue selected, got %#v", got)
	}
}

func TestSelectAnswerNotMatchingAnyOptionShowsNothing(t *testing.T) {
	form := schema.NewFormState([]schema.Question{colorQuestion()}, schema.AnswerMap{"q2": "purple"})
	if got := form.Rows()[0].Value; got != nil {
		t.Fatalf("a stored value outside the options selects nothing, got %#v", got)
	}
}

func TestOrphanedAnswersProduceNoRows(t *testing.T) {
	form := schema.NewFormState(nil, schema.AnswerMap{"q9": 42.0})
	if rows := form.Rows(); len(rows) != 0 {
		t.Fatalf("expected zero rows, got %+v", rows)
	}
	if errs := form.Validate(); len(errs) != 0 {
		t.Fatalf("orphans are not errors, got %v", errs)
	}
}

func TestUnknownTypeRendersAsText(t *testing.T) {
	form := schema.NewFormState([]schema.Question{
		{ID: "q1", Text: "???", Type: "unknown-future-type"},
	}, schema.AnswerMap{"q1": "whatever"})

	rows := form.Rows()
	if rows[0].Widget != schema.WidgetText {
		t.Fatalf("unknown type must fall back to text, got %s", rows[0].Widget)
	}
	if rows[0].Value != "whatever" {
		t.Fatalf("expected text value passthrough, got %#v", rows[0].Value)
	}
}

func TestOptionBearingWithoutOptionsRendersPlaceholder(t *testing.T) {
	form := schema.NewFormState([]schema.Question{
		{ID: "q1", Text: "Renk", Type: schema.TypeSelect},
		{ID: "q2", Text: "Renkler", Type: schema.TypeMultiSelect},
	}, nil)

	for _, row := range form.Rows() {
		if row.Widget != schema.WidgetNoOptions {
			t.Fatalf("%s: expected no_options placeholder, got %s", row.Question.ID, row.Widget)
		}
	}
}

func TestMultiselectValueFollowsAuthoringOrder(t *testing.T) {
	form := schema.NewFormState([]schema.Question{{
		ID:   "q1",
		Text: "Renkler",
		Type: schema.TypeMultiSelect,
		Options: []schema.Option{
			{Label: "Kırmızı", Value: "red"},
			{Label: "Mavi", Value: "blue"},
			{Label: "Yeşil", Value: "green"},
		},
	}}, schema.AnswerMap{"q1": []any{"green", "red", "gone"}})

	got := form.Rows()[0].Value
	if !reflect.DeepEqual(got, []string{"red", "green"}) {
		t.Fatalf("expected [red green], got %#v", got)
	}
}

func TestSetAnswerStoresMultiselectInAuthoringOrder(t *testing.T) {
	form := schema.NewFormState([]schema.Question{{
		ID:   "q1",
		Text: "Renkler",
		Type: schema.TypeMultiSelect,
		Options: []schema.Option{
			{Label: "Kırmızı", Value: "red"},
			{Label: "Mavi", Value: "blue"},
			{Label: "Yeşil", Value: "green"},
		},
	}}, nil)

	// selection order and stale values must not reach the stored map
	form.SetAnswer("q1", []any{"green", "red", "gone"})
	if !reflect.DeepEqual(form.Answers["q1"], []string{"red", "green"}) {
		t.Fatalf("expected [red green] stored, got %#v", form.Answers["q1"])
	}
}

func TestBooleanLegacyStringRendersOn(t *testing.T) {
	questions := []schema.Question{{ID: "q1", Text: "Acil mi?", Type: schema.TypeBoolean}}

	on := schema.NewFormState(questions, schema.AnswerMap{"q1": "true"})
	if got := on.Rows()[0].Value; got != true {
		t.Fatalf(`"true" must hydrate the toggle ON, got %#v`, got)
	}

	off := schema.NewFormState(questions, schema.AnswerMap{"q1": "false"})
	if got := off.Rows()[0].Value; got != false {
		t.Fatalf(`"false" must hydrate the toggle OFF, got %#v`, got)
	}
}

func TestValidateRequiredNumberBlocksSubmit(t *testing.T) {
	form := schema.NewFormState([]schema.Question{
		{ID: "q1", Text: "Kaç kişi?", Type: schema.TypeNumber, Unit: "kişi", Required: true},
	}, nil)

	errs := form.Validate()
	if len(errs) != 1 || errs[0].QuestionID != "q1" {
		t.Fatalf("expected one required error for q1, got %v", errs)
	}

	form.SetAnswer("q1", 4.0)
	if errs := form.Validate(); len(errs) != 0 {
		t.Fatalf("expected no errors after answering, got %v", errs)
	}

	// blank input commits nil, distinct from zero
	form.SetAnswer("q1", "")
	if errs := form.Validate(); len(errs) != 1 {
		t.Fatalf("blanking the input re-blocks submit, got %v", errs)
	}
	form.SetAnswer("q1", 0.0)
	if errs := form.Validate(); len(errs) != 0 {
		t.Fatalf("zero is a valid answer, got %v", errs)
	}
}

func TestValidateRequiredMultiselectNeedsASelection(t *testing.T) {
	form := schema.NewFormState([]schema.Question{{
		ID:       "q1",
		Text:     "Renkler",
		Type:     schema.TypeMultiSelect,
		Required: true,
		Options:  []schema.Option{{Label: "Kırmızı", Value: "red"}},
	}}, schema.AnswerMap{"q1": []any{}})

	if errs := form.Validate(); len(errs) != 1 {
		t.Fatalf("touched but empty multiselect still fails, got %v", errs)
	}

	form.SetAnswer("q1", []any{"red"})
	if errs := form.Validate(); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestValidateOptionalBlankIsFine(t *testing.T) {
	form := schema.NewFormState([]schema.Question{
		{ID: "q1", Text: "Not", Type: schema.TypeText},
		{ID: "q2", Text: "Tarih", Type: schema.TypeDate},
	}, schema.AnswerMap{"q1": ""})

	if errs := form.Validate(); len(errs) != 0 {
		t.Fatalf("optional blanks never block, got %v", errs)
	}
}

func TestSetAnswerLastWritePerIDWins(t *testing.T) {
	form := schema.NewFormState([]schema.Question{colorQuestion()}, nil)
	form.SetAnswer("q2", "red")
	form.SetAnswer("q2", "blue")
	if form.Answers["q2"] != "blue" {
		t.Fatalf("expected blue, got %#v", form.Answers["q2"])
	}

	form.SetAnswer("nope", "x")
	if _, ok := form.Answers["nope"]; ok {
		t.Fatal("a write for an id outside the schema is dropped")
	}
}
