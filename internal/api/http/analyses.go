package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/surajktr/scoresight/internal/analysis"
	"github.com/surajktr/scoresight/internal/auth"
	"github.com/surajktr/scoresight/internal/examcfg"
	"github.com/surajktr/scoresight/internal/rbac"
	"github.com/surajktr/scoresight/internal/sheet"
	"github.com/surajktr/scoresight/internal/store"
)

// POST /analyses  { "exam_type": "...", "pages": ["<html>..."], "base_url": "..." }
// The caller supplies raw document HTML, one entry per page.
func AnalyzeHandler(reg *examcfg.Registry, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ExamType string   `json:"exam_type"`
			Pages    []string `json:"pages"`
			BaseURL  string   `json:"base_url"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		cfg, err := reg.Get(req.ExamType)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		res, err := analysis.Analyze(req.Pages, req.BaseURL, cfg)
		if err != nil {
			http.Error(w, err.Error(), analysisStatus(err))
			return
		}
		rec := newRecord(r, req.ExamType, res)
		if err := st.Put(r.Context(), rec); err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, rec)
	}
}

// PageFetcher pulls documents by URL; satisfied by fetch.Client.
type PageFetcher interface {
	Pages(ctx context.Context, urls []string) ([]string, error)
}

// POST /analyses/fetch  { "exam_type": "...", "urls": ["https://..."] }
// The server fetches the response-sheet pages itself, then analyzes.
func FetchAnalyzeHandler(reg *examcfg.Registry, st store.Store, fc PageFetcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ExamType string   `json:"exam_type"`
			URLs     []string `json:"urls"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		cfg, err := reg.Get(req.ExamType)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if len(req.URLs) == 0 {
			http.Error(w, "no urls", http.StatusBadRequest)
			return
		}
		pages, err := fc.Pages(r.Context(), req.URLs)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		res, err := analysis.Analyze(pages, baseDirOf(req.URLs[0]), cfg)
		if err != nil {
			http.Error(w, err.Error(), analysisStatus(err))
			return
		}
		rec := newRecord(r, req.ExamType, res)
		if err := st.Put(r.Context(), rec); err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		writeJSON(w, rec)
	}
}

// GET /analyses/{analysisID}
func GetAnalysisHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := st.Get(r.Context(), chi.URLParam(r, "analysisID"))
		if err != nil {
			http.Error(w, err.Error(), storeStatus(err))
			return
		}
		if !mayAccess(r, rec.UserID, "analysis:view-all") {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		writeJSON(w, rec)
	}
}

// GET /analyses
func ListAnalysesHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := st.List(r.Context(), auth.SubjectFromContext(r.Context()))
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		if list == nil {
			list = []store.ListEntry{}
		}
		writeJSON(w, list)
	}
}

// DELETE /analyses/{analysisID}
func DeleteAnalysisHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "analysisID")
		rec, err := st.Get(r.Context(), id)
		if err != nil {
			http.Error(w, err.Error(), storeStatus(err))
			return
		}
		if !mayAccess(r, rec.UserID, "analysis:delete-all") {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		if err := st.Delete(r.Context(), id); err != nil {
			http.Error(w, err.Error(), storeStatus(err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GET /exams
func ListExamsHandler(reg *examcfg.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, reg.List())
	}
}

func newRecord(r *http.Request, examType string, res analysis.Result) store.Record {
	return store.Record{
		ID:            uuid.NewString(),
		UserID:        auth.SubjectFromContext(r.Context()),
		ExamType:      strings.ToLower(strings.TrimSpace(examType)),
		RollNumber:    res.Candidate.RollNumber,
		CandidateName: res.Candidate.Name,
		TotalScore:    res.TotalScore,
		MaxScore:      res.MaxScore,
		Result:        res,
		CreatedAt:     time.Now().Unix(),
	}
}

func mayAccess(r *http.Request, ownerID, perm string) bool {
	if auth.SubjectFromContext(r.Context()) == ownerID {
		return true
	}
	return rbac.NewChecker(nil).Has(rbac.RoleFromContext(r.Context()), perm)
}

// analysisStatus maps extraction failures to 422: the request was
// well-formed but the document is not something we can score.
func analysisStatus(err error) int {
	if errors.Is(err, analysis.ErrNoQuestions) || errors.Is(err, sheet.ErrUnknownFormat) {
		return http.StatusUnprocessableEntity
	}
	return 500
}

func storeStatus(err error) int {
	if errors.Is(err, store.ErrNotFound) {
		return http.StatusNotFound
	}
	return 500
}

func baseDirOf(rawURL string) string {
	if i := strings.LastIndex(rawURL, "/"); i >= 0 {
		return rawURL[:i+1]
	}
	return rawURL
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
