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

func CreateCategory(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := model.Category{}
		err := render.DecodeJSON(r.Body, &category)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		if strings.TrimSpace(category.Name) == "" {
			httpx.LogStatusMsg(w, http.StatusUnprocessableEntity, log.DebugLevel,
				"category.validate", "name is required")
			return
		}

		questions, err := encodeQuestionsColumn(category.Questions)
		if err != nil {
			httpx.LogInternalError(w, "db.insert_category.encode_questions", err)
			return
		}

		var categoryId int
		err = app.QueryRowContext(r.Context(), `
			INSERT INTO category (name, description, questions) VALUES (?, ?, ?)
			RETURNING id`,
			strings.TrimSpace(category.Name),
			category.Description,
			questions,
		).Scan(&categoryId)
		if err != nil {
			httpx.LogInternalError(w, "db.insert_category", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"id": categoryId,
		})
	}
}

func ListCategories(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := app.QueryContext(r.Context(), `
			SELECT c.id, c.version, c.name, c.description
			FROM category c`)
		if err != nil {
			httpx.LogInternalError(w, "db.get_categories", err)
			return
		}
		defer rows.Close()

		categories := []model.Category{}
		for rows.Next() {
			c := model.Category{}
			err = rows.Scan(&c.ID, &c.Version, &c.Name, &c.Description)
			if err != nil {
				httpx.LogInternalError(w, "db.get_categories.scan", err)
				return
			}

			categories = append(categories, c)
		}

		render.JSON(w, r, map[string]any{
			"categories": categories,
		})
	}
}

func GetCategoryById(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryId, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		category := model.Category{}
		var questions sql.NullString
		err = app.QueryRowContext(r.Context(), `
			SELECT c.id, c.version, c.name, c.description, c.questions
			FROM category c
			WHERE c.id = ?`,
			categoryId,
		).Scan(&category.ID, &category.Version, &category.Name, &category.Description, &questions)
		if errors.Is(err, sql.ErrNoRows) {
			httpx.LogNotFound(w, "get_category", categoryId)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_category", err)
			return
		}

		category.Questions, category.QuestionsRaw, err = schema.DecodeQuestions(questions.String)
		if err != nil {
			// stored payload does not parse: ship it raw as a diagnostic
			log.Debugf("get_category.parse_questions: %s", err)
		}

		render.JSON(w, r, category)
	}
}

func UpdateCategory(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryId, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		category := model.Category{}
		err = render.DecodeJSON(r.Body, &category)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		if strings.TrimSpace(category.Name) == "" {
			httpx.LogStatusMsg(w, http.StatusUnprocessableEntity, log.DebugLevel,
				"category.validate", "name is required")
			return
		}

		// the question list is replaced wholesale, there is no partial patch
		questions, err := encodeQuestionsColumn(category.Questions)
		if err != nil {
			httpx.LogInternalError(w, "db.update_category.encode_questions", err)
			return
		}

		res, err := app.ExecContext(r.Context(), `
			UPDATE category
			SET
				name = ?,
				description = ?,
				questions = ?,
				version = version+1
			WHERE	id = ?
				AND version = ?`,
			strings.TrimSpace(category.Name),
			category.Description,
			questions,
			categoryId,
			category.Version,
		)
		if err != nil {
			httpx.LogInternalError(w, "db.update_category", err)
			return
		}
		// optimistic lock
		n, err := res.RowsAffected()
		if err != nil {
			httpx.LogInternalError(w, "db.update_category.verify", err)
			return
		}
		if n < 1 {
			httpx.LogStatus(w, http.StatusConflict, log.DebugLevel, "db.update_category.verify.conflict")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func DeleteCategory(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryId, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		// demands of the category survive with their recorded answers;
		// their category link is cleared by the FK
		res, err := app.ExecContext(r.Context(), `
			DELETE FROM category WHERE id = ?`,
			categoryId,
		)
		if err != nil {
			httpx.LogInternalError(w, "db.delete_category", err)
			return
		}
		n, err := res.RowsAffected()
		if err != nil {
			httpx.LogInternalError(w, "db.delete_category.verify", err)
			return
		}
		if n < 1 {
			httpx.LogNotFound(w, "delete_category", categoryId)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// encodeQuestionsColumn maps a question list onto the nullable questions
// column: NULL for "no schema", normalized JSON otherwise.
func encodeQuestionsColumn(questions []schema.Question) (any, error) {
	body, err := schema.EncodeQuestions(questions)
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, nil
	}
	return string(body), nil
}
