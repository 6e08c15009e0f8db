package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/osgb-lab/riskcatalog/pkg/domain/model"
	"github.com/osgb-lab/riskcatalog/pkg/domain/types"
	"github.com/osgb-lab/riskcatalog/pkg/service/nace"
	"github.com/osgb-lab/riskcatalog/pkg/usecase"
	"github.com/osgb-lab/riskcatalog/pkg/utils/errutil"
	"github.com/osgb-lab/riskcatalog/pkg/utils/safe"
)

// statusOf maps use case errors onto HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, usecase.ErrQueryTooShort),
		errors.Is(err, nace.ErrInvalidCode):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrModeratorRequired):
		return http.StatusForbidden
	case errors.Is(err, usecase.ErrSubmissionNotFound),
		errors.Is(err, nace.ErrCodeNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrInvalidTransition),
		errors.Is(err, usecase.ErrSyncAlreadyRunning):
		return http.StatusConflict
	case errors.Is(err, usecase.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(ctx context.Context, w http.ResponseWriter, statusCode int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	// The header is already committed, so a short write can only be logged.
	safe.Write(ctx, w, data)
}

func classificationHandler(uc *usecase.UseCases) http.HandlerFunc {
	type response struct {
		Classification *model.NaceClassification `json:"classification,omitempty"`
		Error          string                    `json:"error,omitempty"`
		Code           string                    `json:"code,omitempty"`
		Suggestions    []model.NaceSuggestion    `json:"suggestions,omitempty"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			errutil.HandleHTTP(r.Context(), w,
				goerr.New("code query parameter is required"), http.StatusBadRequest)
			return
		}

		classification, suggestions, err := uc.Classification.Resolve(r.Context(), code)
		if errors.Is(err, nace.ErrCodeNotFound) {
			// The miss body still reports the normalized code the lookup
			// actually ran against.
			normalized, _ := nace.FormatCode(code)
			writeJSON(r.Context(), w, http.StatusNotFound, response{
				Error:       nace.ErrCodeNotFound.Error(),
				Code:        normalized,
				Suggestions: suggestions,
			})
			return
		}
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, response{Classification: classification})
	}
}

func searchHandler(uc *usecase.UseCases) http.HandlerFunc {
	type request struct {
		Query string `json:"query"`
		Limit int    `json:"limit"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(r.Context(), w,
				goerr.Wrap(err, "invalid search request body"), http.StatusBadRequest)
			return
		}

		result, err := uc.Search.Search(r.Context(), req.Query, req.Limit)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, result)
	}
}

func submitHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID := r.Header.Get("X-User-ID")
		if ownerID == "" {
			errutil.HandleHTTP(r.Context(), w,
				goerr.New("X-User-ID header is required"), http.StatusBadRequest)
			return
		}

		var sub model.UserRiskSubmission
		if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
			errutil.HandleHTTP(r.Context(), w,
				goerr.Wrap(err, "invalid submission body"), http.StatusBadRequest)
			return
		}

		created, err := uc.Moderation.Submit(r.Context(), ownerID, sub)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}

		writeJSON(r.Context(), w, http.StatusCreated, created)
	}
}

func getSubmissionHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, err := uc.Moderation.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusNotFound)
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, sub)
	}
}

func listSubmissionsHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var status types.SubmissionStatus
		if raw := r.URL.Query().Get("status"); raw != "" {
			parsed, err := types.ParseSubmissionStatus(raw)
			if err != nil {
				errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
				return
			}
			status = parsed
		}

		subs, err := uc.Moderation.List(r.Context(), status)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
			return
		}
		if subs == nil {
			subs = []*model.UserRiskSubmission{}
		}

		writeJSON(r.Context(), w, http.StatusOK, subs)
	}
}

func transitionHandler(uc *usecase.UseCases) http.HandlerFunc {
	type request struct {
		Status string `json:"status"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		moderatorID := r.Header.Get("X-Moderator-ID")

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			errutil.HandleHTTP(r.Context(), w,
				goerr.Wrap(err, "invalid transition body"), http.StatusBadRequest)
			return
		}

		target, err := types.ParseSubmissionStatus(req.Status)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}

		updated, err := uc.Moderation.Transition(r.Context(), moderatorID, chi.URLParam(r, "id"), target)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
			return
		}

		writeJSON(r.Context(), w, http.StatusOK, updated)
	}
}

func reconcileHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := uc.Sync.Reconcile(r.Context())
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
			return
		}

		statusCode := http.StatusOK
		if !report.Success {
			// Partial failure: the report carries the batch errors.
			statusCode = http.StatusMultiStatus
		}
		writeJSON(r.Context(), w, statusCode, report)
	}
}
