package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/wctc-net-database/gradedash/core"
	"github.com/wctc-net-database/gradedash/internal/contract"
	"github.com/wctc-net-database/gradedash/internal/snapshot"
	"github.com/wctc-net-database/gradedash/schema"
)

// LoadIDHeader carries the id of the dataset a response was computed from.
const LoadIDHeader = "X-Load-ID"

// DatasetProvider loads datasets and remembers the last committed one.
type DatasetProvider interface {
	contract.DatasetLoader
	Latest() *schema.Dataset
}

// Handlers holds the HTTP handlers of the dashboard API.
// Reads are served from the last committed dataset; POST /api/reload starts a new load.
type Handlers struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
	data    DatasetProvider

	mu      sync.Mutex
	session *core.Session
}

// NewHandlers creates the handler set.
func NewHandlers(baseCfg *contract.Config, mgr contract.StoreManager, data DatasetProvider) *Handlers {
	return &Handlers{baseCfg: baseCfg, mgr: mgr, data: data}
}

// currentSession returns the session of the latest dataset, loading one on first use.
func (h *Handlers) currentSession(ctx context.Context) (*core.Session, error) {
	ds := h.data.Latest()
	if ds == nil {
		loaded, err := h.data.Load(ctx)
		switch {
		case err == nil:
			ds = loaded
		case errors.Is(err, snapshot.ErrStaleLoad) && h.data.Latest() != nil:
			ds = h.data.Latest()
		default:
			return nil, err
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.session != nil && h.session.Dataset == ds {
		return h.session, nil
	}
	session, err := core.NewSessionFromDataset(ds, h.baseCfg, h.mgr)
	if err != nil {
		return nil, err
	}
	h.session = session
	return session, nil
}

// requestConfig clones the base config with the filter from the query string.
func (h *Handlers) requestConfig(r *http.Request) (*contract.Config, error) {
	q := r.URL.Query()
	days := 0
	if raw := q.Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, badRequest(fmt.Errorf("invalid days '%s'", raw))
		}
		days = n
	}

	cfg := h.baseCfg.Clone()
	err := contract.RevalidateFilters(cfg, contract.FilterInput{
		Assignment: q.Get("assignment"),
		Status:     q.Get("status"),
		Start:      q.Get("start"),
		End:        q.Get("end"),
		Days:       days,
	})
	if err != nil {
		return nil, badRequest(err)
	}
	return cfg, nil
}

// prepare resolves the request config and session in one step.
func (h *Handlers) prepare(w http.ResponseWriter, r *http.Request) (*contract.Config, *core.Session, bool) {
	cfg, err := h.requestConfig(r)
	if err != nil {
		WriteError(w, err)
		return nil, nil, false
	}
	session, err := h.currentSession(r.Context())
	if err != nil {
		WriteError(w, err)
		return nil, nil, false
	}
	w.Header().Set(LoadIDHeader, session.Dataset.LoadID)
	return cfg, session, true
}

// pathParam returns the unescaped value of a route parameter.
func pathParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if v, err := url.PathUnescape(raw); err == nil {
		return strings.TrimSpace(v)
	}
	return strings.TrimSpace(raw)
}

type healthResponse struct {
	Status     string `json:"status"`
	LoadID     string `json:"load_id,omitempty"`
	Generation uint64 `json:"generation,omitempty"`
}

// Health reports liveness and the committed dataset, if any.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	resp := healthResponse{Status: "ok"}
	if ds := h.data.Latest(); ds != nil {
		resp.LoadID = ds.LoadID
		resp.Generation = ds.Generation
	}
	writeJSON(w, resp)
}

// GetDashboard returns the dashboard cards for the query filter.
func (h *Handlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	cfg, session, ok := h.prepare(w, r)
	if !ok {
		return
	}
	writeJSON(w, session.Dashboard(cfg))
}

// ListStudents returns the student list with statistics.
func (h *Handlers) ListStudents(w http.ResponseWriter, r *http.Request) {
	cfg, session, ok := h.prepare(w, r)
	if !ok {
		return
	}
	students, err := session.Students(r.Context(), cfg)
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, students)
}

// GetStudentHistory returns the history view of one student.
func (h *Handlers) GetStudentHistory(w http.ResponseWriter, r *http.Request) {
	cfg, session, ok := h.prepare(w, r)
	if !ok {
		return
	}
	result, err := session.StudentHistory(r.Context(), cfg, pathParam(r, "key"))
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, result)
}

// GetFeedback returns the generated review text of one student.
func (h *Handlers) GetFeedback(w http.ResponseWriter, r *http.Request) {
	cfg, session, ok := h.prepare(w, r)
	if !ok {
		return
	}
	result, err := session.Feedback(r.Context(), cfg, pathParam(r, "key"))
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, result)
}

type creditResponse struct {
	Student  string `json:"student"`
	GoalID   string `json:"goal_id"`
	Credited bool   `json:"credited"`
}

func (h *Handlers) creditStore() (contract.CreditStore, error) {
	if h.mgr == nil || !h.baseCfg.CreditsEnabled() {
		return nil, errCreditsDisabled
	}
	store := h.mgr.GetCreditStore()
	if store == nil {
		return nil, errCreditsDisabled
	}
	return store, nil
}

// ListCredits returns every credited stretch goal.
func (h *Handlers) ListCredits(w http.ResponseWriter, r *http.Request) {
	store, err := h.creditStore()
	if err != nil {
		WriteError(w, err)
		return
	}
	flags, err := store.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, flags)
}

// SetCredit marks the goal as credited.
func (h *Handlers) SetCredit(w http.ResponseWriter, r *http.Request) {
	h.writeCredit(w, r, true)
}

// UnsetCredit removes the credit.
func (h *Handlers) UnsetCredit(w http.ResponseWriter, r *http.Request) {
	h.writeCredit(w, r, false)
}

func (h *Handlers) writeCredit(w http.ResponseWriter, r *http.Request, credited bool) {
	store, err := h.creditStore()
	if err != nil {
		WriteError(w, err)
		return
	}
	student, goal := pathParam(r, "student"), pathParam(r, "goal")
	if student == "" || goal == "" {
		WriteError(w, badRequest(errors.New("student and goal are required")))
		return
	}
	if err := store.Set(r.Context(), student, goal, credited); err != nil {
		WriteError(w, err)
		return
	}
	writeJSON(w, creditResponse{Student: student, GoalID: goal, Credited: credited})
}

type reloadResponse struct {
	LoadID     string   `json:"load_id"`
	Generation uint64   `json:"generation"`
	Source     string   `json:"source"`
	Legacy     bool     `json:"legacy"`
	Warnings   []string `json:"warnings"`
}

// Reload fetches the documents again. A reload overtaken by a newer one returns STALE_LOAD.
func (h *Handlers) Reload(w http.ResponseWriter, r *http.Request) {
	ds, err := h.data.Load(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	w.Header().Set(LoadIDHeader, ds.LoadID)
	warnings := ds.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	writeJSON(w, reloadResponse{
		LoadID:     ds.LoadID,
		Generation: ds.Generation,
		Source:     ds.Source,
		Legacy:     ds.Legacy,
		Warnings:   warnings,
	})
}
