package routes

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/mbolis/demand-console/app"
	"github.com/mbolis/demand-console/httpx"
	"github.com/mbolis/demand-console/log"
	"github.com/mbolis/demand-console/model"
	"github.com/mbolis/demand-console/schema"
)

func CreateDemand(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		demand := model.Demand{}
		err := render.DecodeJSON(r.Body, &demand)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		if strings.TrimSpace(demand.Title) == "" {
			httpx.LogStatusMsg(w, http.StatusUnprocessableEntity, log.DebugLevel,
				"demand.validate", "title is required")
			return
		}
		if demand.Status == "" {
			demand.Status = model.StatusOpen
		}

		tx, err := app.BeginTx(r.Context(), nil)
		if err != nil {
			httpx.LogInternalError(w, "db.begin_tx", err)
			return
		}
		defer tx.Rollback()

		questions, ok := loadCategoryQuestions(w, r, tx, demand.CategoryID)
		if !ok {
			return
		}

		answers, ok := validateAnswers(w, r, questions, demand.QuestionResponses)
		if !ok {
			return
		}

		var demandId int
		err = tx.QueryRowContext(r.Context(), `
			INSERT INTO demand (category_id, title, details, status, question_responses)
			VALUES (?, ?, ?, ?, ?)
			RETURNING id`,
			demand.CategoryID,
			strings.TrimSpace(demand.Title),
			demand.Details,
			demand.Status,
			answers,
		).Scan(&demandId)
		if err != nil {
			httpx.LogInternalError(w, "db.insert_demand", err)
			return
		}

		err = tx.Commit()
		if err != nil {
			httpx.LogInternalError(w, "db.insert_demand.commit", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"id": demandId,
		})
	}
}

func ListDemands(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := `
			SELECT d.id, d.version, d.category_id, d.title, d.details, d.status
			FROM demand d`
		args := []any{}
		if category := r.URL.Query().Get("category"); category != "" {
			categoryId, err := strconv.Atoi(category)
			if err != nil {
				httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_query_param.category")
				return
			}
			query += ` WHERE d.category_id = ?`
			args = append(args, categoryId)
		}

		rows, err := app.QueryContext(r.Context(), query, args...)
		if err != nil {
			httpx.LogInternalError(w, "db.get_demands", err)
			return
		}
		defer rows.Close()

		demands := []model.Demand{}
		for rows.Next() {
			d := model.Demand{}
			var categoryId sql.NullInt64
			err = rows.Scan(&d.ID, &d.Version, &categoryId, &d.Title, &d.Details, &d.Status)
			if err != nil {
				httpx.LogInternalError(w, "db.get_demands.scan", err)
				return
			}
			d.CategoryID = int(categoryId.Int64)

			demands = append(demands, d)
		}

		render.JSON(w, r, map[string]any{
			"demands": demands,
		})
	}
}

func GetDemandById(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		demandId, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		demand := model.Demand{}
		var categoryId sql.NullInt64
		var responses, questions sql.NullString
		err = app.QueryRowContext(r.Context(), `
			SELECT
				d.id, d.version, d.category_id, d.title, d.details, d.status,
				d.question_responses,
				c.questions
			FROM demand d
			LEFT OUTER JOIN category c ON (d.category_id = c.id)
			WHERE d.id = ?`,
			demandId,
		).Scan(
			&demand.ID, &demand.Version, &categoryId, &demand.Title, &demand.Details, &demand.Status,
			&responses,
			&questions,
		)
		if errors.Is(err, sql.ErrNoRows) {
			httpx.LogNotFound(w, "get_demand", demandId)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_demand", err)
			return
		}
		demand.CategoryID = int(categoryId.Int64)

		answers, err := schema.DecodeAnswers(responses.String)
		if err != nil {
			// malformed recorded answers degrade to an empty form, with
			// the stored payload shipped raw as a diagnostic
			log.Debugf("get_demand.parse_responses: %s", err)
			demand.QuestionResponsesRaw = responses.String
		}
		demand.QuestionResponses = answers

		// schema questions drive the form; answers for questions that no
		// longer exist contribute no rows
		questionList, _, err := schema.DecodeQuestions(questions.String)
		if err != nil {
			log.Debugf("get_demand.parse_questions: %s", err)
		}
		demand.Form = schema.NewFormState(questionList, answers).Rows()

		render.JSON(w, r, demand)
	}
}

func UpdateDemand(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		demandId, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		demand := model.Demand{}
		err = render.DecodeJSON(r.Body, &demand)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		if strings.TrimSpace(demand.Title) == "" {
			httpx.LogStatusMsg(w, http.StatusUnprocessableEntity, log.DebugLevel,
				"demand.validate", "title is required")
			return
		}
		if demand.Status == "" {
			demand.Status = model.StatusOpen
		}

		tx, err := app.BeginTx(r.Context(), nil)
		if err != nil {
			httpx.LogInternalError(w, "db.begin_tx", err)
			return
		}
		defer tx.Rollback()

		questions, ok := loadCategoryQuestions(w, r, tx, demand.CategoryID)
		if !ok {
			return
		}

		answers, ok := validateAnswers(w, r, questions, demand.QuestionResponses)
		if !ok {
			return
		}

		res, err := tx.ExecContext(r.Context(), `
			UPDATE demand
			SET
				category_id = ?,
				title = ?,
				details = ?,
				status = ?,
				question_responses = ?,
				version = version+1
			WHERE	id = ?
				AND version = ?`,
			demand.CategoryID,
			strings.TrimSpace(demand.Title),
			demand.Details,
			demand.Status,
			answers,
			demandId,
			demand.Version,
		)
		if err != nil {
			httpx.LogInternalError(w, "db.update_demand", err)
			return
		}
		// optimistic lock
		n, err := res.RowsAffected()
		if err != nil {
			httpx.LogInternalError(w, "db.update_demand.verify", err)
			return
		}
		if n < 1 {
			httpx.LogStatus(w, http.StatusConflict, log.DebugLevel, "db.update_demand.verify.conflict")
			return
		}

		err = tx.Commit()
		if err != nil {
			httpx.LogInternalError(w, "db.update_demand.commit", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func DeleteDemand(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		demandId, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		res, err := app.ExecContext(r.Context(), `
			DELETE FROM demand WHERE id = ?`,
			demandId,
		)
		if err != nil {
			httpx.LogInternalError(w, "db.delete_demand", err)
			return
		}
		n, err := res.RowsAffected()
		if err != nil {
			httpx.LogInternalError(w, "db.delete_demand.verify", err)
			return
		}
		if n < 1 {
			httpx.LogNotFound(w, "delete_demand", demandId)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// loadCategoryQuestions fetches the current question schema of a category
// inside the save transaction. A category whose stored schema does not
// parse behaves as having none: the save proceeds, validation has nothing
// to check against.
func loadCategoryQuestions(w http.ResponseWriter, r *http.Request, tx *sql.Tx, categoryId int) ([]schema.Question, bool) {
	var questions sql.NullString
	err := tx.QueryRowContext(r.Context(), `
		SELECT c.questions FROM category c WHERE c.id = ?`,
		categoryId,
	).Scan(&questions)
	if errors.Is(err, sql.ErrNoRows) {
		httpx.LogStatusMsg(w, http.StatusUnprocessableEntity, log.DebugLevel,
			"demand.validate", "category %d does not exist", categoryId)
		return nil, false
	}
	if err != nil {
		httpx.LogInternalError(w, "db.get_category_questions", err)
		return nil, false
	}

	questionList, _, err := schema.DecodeQuestions(questions.String)
	if err != nil {
		log.Warnf("demand.category_questions.parse: %s", err)
	}
	return questionList, true
}

// validateAnswers runs the submit-time checks and returns the encoded
// question_responses column value. A required question with a blank
// answer aborts the save with the full error list; nothing is written.
func validateAnswers(w http.ResponseWriter, r *http.Request, questions []schema.Question, answers schema.AnswerMap) (any, bool) {
	form := schema.NewFormState(questions, answers)
	if errs := form.Validate(); len(errs) > 0 {
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, map[string]any{
			"errors": errs,
		})
		return nil, false
	}

	body, err := schema.EncodeAnswers(questions, form.Answers)
	if err != nil {
		httpx.LogInternalError(w, "demand.encode_responses", err)
		return nil, false
	}
	if body == nil {
		return nil, true
	}
	return string(body), true
}
