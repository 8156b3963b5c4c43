package http

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"exptracker/internal/app"
	"exptracker/internal/expenses"
	applog "exptracker/internal/log"
)

// Flash keys carried across the post/redirect/get cycle.
const (
	flashAdded    = "added"
	flashReset    = "reset"
	flashNotReset = "not_reset"
)

var flashMessages = map[string]string{
	flashAdded:    app.MsgAdded,
	flashReset:    app.MsgReset,
	flashNotReset: app.MsgNotReset,
}

type indexData struct {
	Form    app.Form
	Message string
	Error   string
	Warning string
	Listing string
	Total   string
	Count   int
}

type confirmData struct {
	Prompt string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	data := indexData{
		Message: flashMessages[q.Get("flash")],
		Count:   s.app.Store.Len(),
	}
	if q.Get("warn") == "1" {
		data.Warning = app.MsgSaveWarn
	}
	if q.Has("view") {
		data.Listing = s.app.ViewExpenses()
	}
	if q.Has("total") {
		data.Total = s.app.TotalExpense()
	}
	s.render(w, r, http.StatusOK, "index.html", data)
}

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		writeText(w, http.StatusOK, s.app.ViewExpenses())
		return
	}

	if err := r.ParseForm(); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Parse form error",
			applog.FieldError, err,
			applog.FieldPath, r.URL.Path)
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	form := app.Form{
		Description: sanitizeInput(r.PostForm.Get("description")),
		Amount:      sanitizeInput(r.PostForm.Get("amount")),
		Category:    sanitizeInput(r.PostForm.Get("category")),
	}
	fb := s.app.AddExpense(r.Context(), form)
	if !fb.OK {
		s.render(w, r, http.StatusUnprocessableEntity, "index.html", indexData{
			Form:  fb.Form,
			Error: fb.Message,
			Count: s.app.Store.Len(),
		})
		return
	}

	redirect(w, r, flashAdded, fb.Warning != "", false)
}

func (s *Server) handleTotal(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, s.app.TotalExpense())
}

// handleReset asks for confirmation first: without a confirm value it
// renders the yes/no prompt, "yes" clears the store, anything else declines.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	answer := strings.ToLower(strings.TrimSpace(r.PostForm.Get("confirm")))
	if answer == "" {
		s.render(w, r, http.StatusOK, "confirm.html", confirmData{Prompt: expenses.ResetPrompt})
		return
	}

	fb := s.app.Reset(r.Context(), formConfirmer(answer))
	if !fb.OK {
		http.Error(w, fb.Message, http.StatusInternalServerError)
		return
	}
	if fb.Message == app.MsgNotReset {
		redirect(w, r, flashNotReset, false, false)
		return
	}
	redirect(w, r, flashReset, fb.Warning != "", true)
}

// formConfirmer answers the reset prompt with the value the user submitted.
type formConfirmer string

func (f formConfirmer) Confirm(context.Context, string) (bool, error) {
	return f == "yes", nil
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	if s.templates == nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Templates not loaded", applog.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution failed",
			applog.FieldError, err,
			"template", name)
	}
}

func redirect(w http.ResponseWriter, r *http.Request, flash string, warn, view bool) {
	q := url.Values{}
	q.Set("flash", flash)
	if warn {
		q.Set("warn", "1")
	}
	if view {
		q.Set("view", "1")
	}
	http.Redirect(w, r, "/?"+q.Encode(), http.StatusSeeOther)
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// sanitizeInput strips control characters except tab and newlines.
// Surrounding whitespace is left alone; validation decides what is blank.
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
