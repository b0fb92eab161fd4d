package http

import (
	"errors"
	"net/http"
	"strings"

	"saldo/internal/core"
	"saldo/internal/ledger"
	"saldo/internal/log"
)

type recordsResponse struct {
	Records []core.Record `json:"records"`
	Count   int           `json:"count"`
}

type mutationResponse struct {
	Record    *core.Record `json:"record,omitempty"`
	Removed   string       `json:"removed,omitempty"`
	Persisted bool         `json:"persisted"`
}

func (s *Server) handleAPISummary(w http.ResponseWriter, r *http.Request) {
	NewHTMXResponse().BodyJSON(s.tracker.Summary()).Write(w)
}

func (s *Server) handleAPIRecords(w http.ResponseWriter, r *http.Request) {
	records := s.tracker.Store().Records()
	NewHTMXResponse().BodyJSON(recordsResponse{Records: records, Count: len(records)}).Write(w)
}

// handleAPICreateRecord submits a one-off form built from the request body.
// The shared page forms are left untouched.
func (s *Server) handleAPIRecord(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.tracker.Store().Get(r.PathValue("id"))
	if !ok {
		JSONError(http.StatusNotFound, "record not found").Write(w)
		return
	}
	NewHTMXResponse().BodyJSON(rec).Write(w)
}

func (s *Server) handleAPICreateRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx)

	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		JSONError(http.StatusBadRequest, "malformed request body").Write(w)
		return
	}

	var (
		rec core.Record
		err error
	)
	switch core.Kind(strings.ToLower(p.Get("kind"))) {
	case core.KindIncome:
		var f ledger.IncomeForm
		if err = ledger.ApplyEdits(f.Set, p.Edits(incomeFields...)); err == nil {
			rec, err = f.Submit(ctx, s.tracker.Store())
		}
	case core.KindExpense:
		f := ledger.NewExpenseForm()
		if err = ledger.ApplyEdits(f.Set, p.Edits(expenseFields...)); err == nil {
			rec, err = f.Submit(ctx, s.tracker.Store())
		}
	default:
		JSONError(http.StatusUnprocessableEntity, "kind must be income or expense").Write(w)
		return
	}

	switch {
	case errors.Is(err, ledger.ErrIncomplete):
		JSONError(http.StatusUnprocessableEntity, "description, amount and date are required").Write(w)
		return
	case isValidationError(err):
		JSONError(http.StatusUnprocessableEntity, validationMessage(err)).Write(w)
		return
	case err != nil && !errors.Is(err, ledger.ErrPersistFailed):
		logger.ErrorContext(ctx, "API create failed", log.FieldError, err)
		JSONError(http.StatusInternalServerError, "could not create record").Write(w)
		return
	}
	if err != nil {
		logger.ErrorContext(ctx, "Record kept in memory only", log.FieldRecordID, rec.ID, log.FieldError, err)
	}

	NewHTMXResponse().
		Status(http.StatusCreated).
		Header("Location", "/api/records/"+rec.ID).
		BodyJSON(mutationResponse{Record: &rec, Persisted: err == nil}).
		Write(w)
}

func (s *Server) handleAPIDeleteRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	removed, err := s.tracker.Remove(ctx, id)
	if err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Removal not persisted", log.FieldRecordID, id, log.FieldError, err)
	}
	if !removed {
		JSONError(http.StatusNotFound, "record not found").Write(w)
		return
	}
	NewHTMXResponse().BodyJSON(mutationResponse{Removed: id, Persisted: err == nil}).Write(w)
}
