package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/darkclainer/vndic/pkg/autofill"
	"github.com/darkclainer/vndic/pkg/notes"
	"github.com/darkclainer/vndic/pkg/parser"
	"github.com/darkclainer/vndic/pkg/querier"
)

type ResponseStatus int

const (
	ResponseOK ResponseStatus = iota
	ResponseNoData
	ResponseBadRequest
	ResponseNotFound
	ResponseHTTPError
	ResponseNetworkError
	ResponseError
)

type ResponseLookup struct {
	Entry  *parser.DictionaryEntry `json:"entry,omitempty"`
	Error  string                  `json:"error,omitempty"`
	Status ResponseStatus          `json:"status"`
}

type ResponseNote struct {
	Note   *notes.Note    `json:"note,omitempty"`
	Error  string         `json:"error,omitempty"`
	Status ResponseStatus `json:"status"`
}

type ResponseFill struct {
	Reports []*autofill.Report `json:"reports,omitempty"`
	Error   string             `json:"error,omitempty"`
	Status  ResponseStatus     `json:"status"`
}

func lookupStatus(err error) ResponseStatus {
	var statusErr *querier.StatusError
	var networkErr *querier.NetworkError
	switch {
	case errors.As(err, &statusErr):
		return ResponseHTTPError
	case errors.As(err, &networkErr):
		return ResponseNetworkError
	default:
		return ResponseError
	}
}

func (s *Server) handleLookup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		word := r.URL.Query().Get("q")
		if word == "" {
			s.respondJSON(w, &ResponseLookup{
				Error:  "empty q query",
				Status: ResponseBadRequest,
			}, http.StatusBadRequest)
			return
		}
		entry, err := s.q.Lookup(r.Context(), word)
		if err != nil {
			s.logger.Error("Querier lookup returned error",
				zap.Error(err),
				zap.String("word", word),
			)
			s.respondJSON(w, &ResponseLookup{
				Error:  err.Error(),
				Status: lookupStatus(err),
			}, http.StatusOK)
			return
		}
		response := ResponseLookup{Entry: entry}
		if entry.IsEmpty() {
			response.Status = ResponseNoData
		}
		s.respondJSON(w, &response, http.StatusOK)
	}
}

func (s *Server) handleNotes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			id := r.URL.Query().Get("id")
			note, err := s.storage.GetNote(id)
			switch {
			case errors.Is(err, notes.ErrNoteNotFound):
				s.respondJSON(w, &ResponseNote{Error: err.Error(), Status: ResponseNotFound}, http.StatusNotFound)
			case err != nil:
				s.logger.Error("Can not get note", zap.Error(err), zap.String("note_id", id))
				s.respondJSON(w, &ResponseNote{Error: err.Error(), Status: ResponseError}, http.StatusInternalServerError)
			default:
				s.respondJSON(w, &ResponseNote{Note: note}, http.StatusOK)
			}
		case http.MethodPost:
			var note notes.Note
			if err := json.NewDecoder(r.Body).Decode(&note); err != nil {
				s.respondJSON(w, &ResponseNote{Error: err.Error(), Status: ResponseBadRequest}, http.StatusBadRequest)
				return
			}
			if err := s.storage.PutNote(&note); err != nil {
				status, code := ResponseError, http.StatusInternalServerError
				if errors.Is(err, notes.ErrEmptyID) {
					status, code = ResponseBadRequest, http.StatusBadRequest
				}
				s.respondJSON(w, &ResponseNote{Error: err.Error(), Status: status}, code)
				return
			}
			s.respondJSON(w, &ResponseNote{Note: &note}, http.StatusOK)
		default:
			http.NotFound(w, r)
		}
	}
}

// handleFill fills notes listed in id query, or every stored note
func (s *Server) handleFill() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		ids := r.URL.Query()["id"]
		if len(ids) == 0 {
			var err error
			if ids, err = s.storage.NoteIDs(); err != nil {
				s.logger.Error("Can not list notes", zap.Error(err))
				s.respondJSON(w, &ResponseFill{Error: err.Error(), Status: ResponseError}, http.StatusInternalServerError)
				return
			}
		}
		s.respondJSON(w, &ResponseFill{Reports: s.filler.FillAll(r.Context(), ids)}, http.StatusOK)
	}
}

func (s *Server) handleMedia() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		data, err := s.storage.Media(r.URL.Query().Get("name"))
		switch {
		case errors.Is(err, notes.ErrMediaNotFound):
			http.NotFound(w, r)
		case err != nil:
			s.logger.Error("Can not get media", zap.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
		default:
			w.Header().Set("Content-Type", "audio/mpeg")
			_, _ = w.Write(data)
		}
	}
}
