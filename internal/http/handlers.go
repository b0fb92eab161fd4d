package http

import (
	"context"
	"errors"
	"net/http"

	"saldo/internal/core"
	"saldo/internal/ledger"
	"saldo/internal/log"
)

const (
	formIncome  = "income"
	formExpense = "expense"
)

var (
	incomeFields  = []string{ledger.FieldDescription, ledger.FieldAmount, ledger.FieldDate}
	expenseFields = []string{ledger.FieldDescription, ledger.FieldAmount, ledger.FieldCategory, ledger.FieldDate}
)

type submitFunc func(ctx context.Context, edits ...ledger.Edit) (core.Record, error)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK, nil)
}

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	s.submitForm(w, r, formIncome, s.tracker.SubmitIncome, incomeFields)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	s.submitForm(w, r, formExpense, s.tracker.SubmitExpense, expenseFields)
}

// submitForm applies the posted fields to the shared form and submits it.
// Incomplete forms are rejected silently; invalid values re-render the page
// with the form still filled in.
func (s *Server) submitForm(w http.ResponseWriter, r *http.Request, form string, submit submitFunc, fields []string) {
	ctx := r.Context()
	logger := log.FromContext(ctx)

	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		logger.WarnContext(ctx, "Parse form error", log.FieldError, err)
		BadRequestError("Malformed request").Write(w)
		return
	}

	rec, err := submit(ctx, p.Edits(fields...)...)
	switch {
	case errors.Is(err, ledger.ErrIncomplete):
		logger.DebugContext(ctx, "Incomplete form ignored", "form", form)
		if isHTMX(r) {
			NewHTMXResponse().Status(http.StatusNoContent).Write(w)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return

	case isValidationError(err):
		logger.InfoContext(ctx, "Form rejected", "form", form, log.FieldError, err)
		msg := validationMessage(err)
		if isHTMX(r) {
			UnprocessableEntityError(msg).TriggerErrorNotification(msg).Write(w)
			return
		}
		s.renderPage(w, r, http.StatusUnprocessableEntity, &formError{Form: form, Message: msg})
		return

	case err != nil && !errors.Is(err, ledger.ErrPersistFailed):
		logger.ErrorContext(ctx, "Form submit failed", "form", form, log.FieldError, err)
		InternalServerError("Could not save the entry").Write(w)
		return
	}

	persisted := err == nil
	if !persisted {
		logger.ErrorContext(ctx, "Entry kept in memory only", log.FieldRecordID, rec.ID, log.FieldError, err)
	}

	if isHTMX(r) {
		b := NewHTMXResponse().
			TriggerRecordCreated(string(rec.Kind), rec.ID).
			TriggerFormReset(form).
			TriggerSummaryRefresh()
		if persisted {
			b.TriggerSuccessNotification(rec.Description + " added")
		} else {
			b.TriggerNotification(NotificationWarning, "Entry added but could not be saved", 5000)
		}
		b.BodyHTML(`<div class="success">Entry added</div>`).Write(w)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	removed, err := s.tracker.Remove(ctx, id)
	if err != nil {
		log.FromContext(ctx).ErrorContext(ctx, "Removal not persisted", log.FieldRecordID, id, log.FieldError, err)
	}

	if isHTMX(r) {
		b := NewHTMXResponse().TriggerSummaryRefresh()
		if removed {
			b.TriggerRecordDeleted(id)
		}
		b.Write(w)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrInvalidDate) ||
		errors.Is(err, core.ErrInvalidCategory) ||
		errors.Is(err, core.ErrEmptyDescription)
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		return "Amount must be a positive number"
	case errors.Is(err, core.ErrInvalidDate):
		return "Date must be a valid day in YYYY-MM-DD format"
	case errors.Is(err, core.ErrInvalidCategory):
		return "Unknown category"
	default:
		return "Invalid entry"
	}
}
