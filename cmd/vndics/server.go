package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/darkclainer/vndic/pkg/autofill"
	"github.com/darkclainer/vndic/pkg/notes"
	"github.com/darkclainer/vndic/pkg/querier"
)

type Server struct {
	http.Server
	mux     http.ServeMux
	conf    *Config
	logger  *zap.Logger
	q       querier.Querier
	storage *notes.Storage
	filler  *autofill.Filler
}

func New(logger *zap.Logger, conf *Config) (*Server, error) {
	storage, err := notes.Open(&conf.Storage)
	if err != nil {
		return nil, err
	}
	q := querier.NewRemote(nil, nil, &conf.Remote, logger.Named("querier"))
	s, err := newServer(logger, conf, q, storage)
	if err != nil {
		_ = q.Close(context.Background())
		_ = storage.Close()
		return nil, err
	}
	return s, nil
}

func newServer(logger *zap.Logger, conf *Config, q querier.Querier, storage *notes.Storage) (*Server, error) {
	filler, err := autofill.New(q, storage, storage, &conf.Fill, logger.Named("filler"))
	if err != nil {
		return nil, err
	}
	s := Server{
		conf:    conf,
		logger:  logger,
		q:       q,
		storage: storage,
		filler:  filler,
	}
	s.mux.HandleFunc("/lookup", s.middleLogging(s.handleLookup()))
	s.mux.HandleFunc("/notes", s.middleLogging(s.handleNotes()))
	s.mux.HandleFunc("/fill", s.middleLogging(s.handleFill()))
	s.mux.HandleFunc("/media", s.middleLogging(s.handleMedia()))
	s.Addr = conf.Host
	s.Server.Handler = &s.mux
	return &s, nil
}

func (s *Server) Close(ctx context.Context) error {
	var reasons []string
	if serverErr := s.Server.Shutdown(ctx); serverErr != nil {
		reasons = append(reasons, "server shutdown failed: "+serverErr.Error())
	}
	if querierErr := s.q.Close(ctx); querierErr != nil {
		reasons = append(reasons, "querier close failed: "+querierErr.Error())
	}
	if storageErr := s.storage.Close(); storageErr != nil {
		reasons = append(reasons, "storage close failed: "+storageErr.Error())
	}
	if len(reasons) > 0 {
		return fmt.Errorf("close failed because: %s", strings.Join(reasons, " AND "))
	}
	return nil
}

func (s *Server) respondJSON(w http.ResponseWriter, vPtr interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	buffer := new(bytes.Buffer)
	if err := json.NewEncoder(buffer).Encode(vPtr); err != nil {
		s.logger.Error("encoding failed", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"encoding error"}`))
		return
	}
	w.WriteHeader(status)
	_, _ = w.Write(buffer.Bytes())
}

func (s *Server) middleLogging(handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.logger.Info("request",
			zap.String("path", r.URL.Path),
			zap.String("query", r.URL.RawQuery),
			zap.String("client", r.RemoteAddr),
			zap.String("method", r.Method),
		)
		handler(w, r)
	}
}
