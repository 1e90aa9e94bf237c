package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	contactapp "github.com/aradsms/contactbook/internal/contact_service/app"
	"github.com/aradsms/contactbook/internal/contact_service/domain"
)

// ContactService is the part of the contact application the handler drives.
type ContactService interface {
	Add(ctx context.Context, name, phone, email string) (*domain.Contact, error)
	List(ctx context.Context, f domain.Filter) ([]*domain.Contact, error)
	Get(ctx context.Context, id int64) (*domain.Contact, error)
	Update(ctx context.Context, id int64, name, phone, email string) (*domain.Contact, error)
	Delete(ctx context.Context, id int64) error
	ExportContacts(ctx context.Context, w io.Writer, format contactapp.ExportFormat, filter domain.Filter) (int, error)
}

// ContactHandler handles HTTP requests for the contact book.
type ContactHandler struct {
	contacts ContactService
	logger   *slog.Logger
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(contacts ContactService, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{
		contacts: contacts,
		logger:   logger.With("handler", "contact"),
	}
}

// RegisterRoutes mounts the contact routes on r. The caller decides which middleware applies.
func (h *ContactHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.ListContacts)
	r.Post("/", h.CreateContact)
	r.Get("/export", h.ExportContacts)
	r.Get("/{contactID}", h.GetContact)
	r.Put("/{contactID}", h.UpdateContact)
	r.Delete("/{contactID}", h.DeleteContact)
}

func (h *ContactHandler) CreateContact(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	c, err := h.contacts.Add(r.Context(), req.Name, req.Phone, req.Email)
	if err != nil {
		if respondWithValidationError(w, http.StatusUnprocessableEntity, err) {
			return
		}
		respondWithStorageError(w, r, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, toContactResponse(c))
}

func (h *ContactHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	filter, ok := h.parseFilter(w, r)
	if !ok {
		return
	}
	contacts, err := h.contacts.List(r.Context(), filter)
	if err != nil {
		respondWithStorageError(w, r, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, toListContactsResponse(contacts))
}

func (h *ContactHandler) GetContact(w http.ResponseWriter, r *http.Request) {
	id, ok := parseContactID(w, r)
	if !ok {
		return
	}
	c, err := h.contacts.Get(r.Context(), id)
	if err != nil {
		h.respondWithLookupError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, toContactResponse(c))
}

// UpdateContact replaces all fields of an existing contact. Field values are stored as sent.
func (h *ContactHandler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	id, ok := parseContactID(w, r)
	if !ok {
		return
	}
	var req ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	c, err := h.contacts.Update(r.Context(), id, req.Name, req.Phone, req.Email)
	if err != nil {
		h.respondWithLookupError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, toContactResponse(c))
}

// DeleteContact answers 204 whether or not the contact existed.
func (h *ContactHandler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	id, ok := parseContactID(w, r)
	if !ok {
		return
	}
	if err := h.contacts.Delete(r.Context(), id); err != nil {
		respondWithStorageError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportContacts streams the filtered contacts as a csv or xlsx attachment.
func (h *ContactHandler) ExportContacts(w http.ResponseWriter, r *http.Request) {
	format, err := contactapp.ParseExportFormat(r.URL.Query().Get("format"))
	if err != nil {
		if !respondWithValidationError(w, http.StatusBadRequest, err) {
			respondWithError(w, http.StatusBadRequest, err.Error())
		}
		return
	}
	filter, ok := h.parseFilter(w, r)
	if !ok {
		return
	}

	filename := fmt.Sprintf("contacts_%s.%s", time.Now().UTC().Format("20060102_150405"), format)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	// Headers are committed on the first write; an export that fails before writing still
	// gets a proper error response.
	bw := &lazyWriter{w: w}
	n, err := h.contacts.ExportContacts(r.Context(), bw, format, filter)
	if err != nil {
		if bw.written {
			h.logger.ErrorContext(r.Context(), "Export failed mid-stream", "error", err, "format", format)
			return
		}
		w.Header().Del("Content-Disposition")
		respondWithStorageError(w, r, h.logger, err)
		return
	}
	h.logger.InfoContext(r.Context(), "Contacts exported", "count", n, "format", format)
}

func (h *ContactHandler) parseFilter(w http.ResponseWriter, r *http.Request) (domain.Filter, bool) {
	q := r.URL.Query()
	scope, err := domain.ParseScope(q.Get("scope"))
	if err != nil {
		respondWithValidationError(w, http.StatusUnprocessableEntity, err)
		return domain.Filter{}, false
	}
	filter := domain.Filter{Search: q.Get("search"), Scope: scope}
	if raw := q.Get("case_sensitive"); raw != "" {
		cs, err := strconv.ParseBool(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "case_sensitive must be a boolean")
			return domain.Filter{}, false
		}
		filter.CaseSensitive = cs
	}
	return filter, true
}

func (h *ContactHandler) respondWithLookupError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		respondWithError(w, http.StatusNotFound, "Contact not found")
		return
	}
	respondWithStorageError(w, r, h.logger, err)
}

func parseContactID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "contactID"), 10, 64)
	if err != nil || id <= 0 {
		respondWithError(w, http.StatusBadRequest, "Invalid contact ID")
		return 0, false
	}
	return id, true
}

type lazyWriter struct {
	w       http.ResponseWriter
	written bool
}

func (l *lazyWriter) Write(p []byte) (int, error) {
	if !l.written {
		l.written = true
		l.w.WriteHeader(http.StatusOK)
	}
	return l.w.Write(p)
}
