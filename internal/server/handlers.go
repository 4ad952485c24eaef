package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/Takheer/mstroy-test/pkg/errors"
	"github.com/Takheer/mstroy-test/pkg/tree"
)

type errorBody struct {
	Code  apperrors.Code `json:"code"`
	Error string         `json:"error"`
}

type healthBody struct {
	Status  string `json:"status"`
	Records int    `json:"records"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthBody{Status: "ok", Records: s.Len()})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	writeRecords(w, s.store.All())
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	s.mu.RLock()
	rec, ok := s.store.Get(id)
	s.mu.RUnlock()
	if !ok {
		writeError(w, notFound("no record with id %v", id))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// relation serves one of the list lookups. Unknown ids are a 404 here even
// though the store answers them with an empty list, so clients can tell a
// leaf from a typo.
func (s *Server) relation(lookup func(*tree.Store, tree.ID) []tree.Record) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, err)
			return
		}

		s.mu.RLock()
		defer s.mu.RUnlock()
		if !s.store.Has(id) {
			writeError(w, notFound("no record with id %v", id))
			return
		}
		writeRecords(w, lookup(s.store, id))
	}
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	fields, err := s.decodeFields(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	if v, ok := fields[tree.KeyID]; !ok || v == nil || v == "" {
		fields[tree.KeyID] = s.cfg.NewID().Value()
	}
	rec, err := tree.RecordFromMap(fields)
	if err != nil {
		writeError(w, apperrors.FromTree(err))
		return
	}

	s.mu.Lock()
	err = s.store.Add(rec)
	s.mu.Unlock()
	if err != nil {
		writeError(w, apperrors.FromTree(err))
		return
	}

	w.Header().Set("Location", "/items/"+rec.ID.String())
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	fields, err := s.decodeFields(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	if v, ok := fields[tree.KeyID]; ok && v != nil {
		bodyID, err := tree.IDFrom(v)
		if err != nil {
			writeError(w, apperrors.FromTree(err))
			return
		}
		if bodyID != id {
			writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "body id %v does not match path id %v", bodyID, id))
			return
		}
	}
	fields[tree.KeyID] = id.Value()

	rec, err := tree.RecordFromMap(fields)
	if err != nil {
		writeError(w, apperrors.FromTree(err))
		return
	}

	s.mu.Lock()
	err = s.store.Update(rec)
	s.mu.Unlock()
	if err != nil {
		writeError(w, apperrors.FromTree(err))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// handleDelete answers 204 for unknown ids too, since removal of an absent
// record is a no-op.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	s.store.Remove(id)
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

// pathID reads the {id} URL parameter. Text that looks like an integer is an
// integer id unless the request asks for ?id_type=string.
func pathID(r *http.Request) (tree.ID, error) {
	raw := chi.URLParam(r, "id")
	if err := apperrors.ValidateID(raw); err != nil {
		return tree.ID{}, err
	}
	switch r.URL.Query().Get("id_type") {
	case "", "auto":
		return tree.ParseID(raw), nil
	case "string":
		return tree.StrID(raw), nil
	default:
		return tree.ID{}, apperrors.New(apperrors.ErrCodeInvalidInput, "id_type must be auto or string")
	}
}

// decodeFields reads a flat JSON object. Numbers stay json.Number so ids
// keep their integer type.
func (s *Server) decodeFields(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	var fields map[string]any
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "request body must be a JSON object")
	}
	if fields == nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "request body must be a JSON object")
	}
	return fields, nil
}

func notFound(format string, args ...any) error {
	return apperrors.New(apperrors.ErrCodeNotFound, format, args...)
}

func writeRecords(w http.ResponseWriter, records []tree.Record) {
	if records == nil {
		records = []tree.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

func writeError(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)
	if code == "" {
		code = apperrors.ErrCodeInternal
	}
	writeJSON(w, apperrors.HTTPStatus(code), errorBody{Code: code, Error: apperrors.UserMessage(err)})
}

// writeJSON encodes v before writing the header so an encoding failure can
// still become a 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, fmt.Sprintf(`{"code":%q,"error":%q}`, apperrors.ErrCodeInternal, err.Error()), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
