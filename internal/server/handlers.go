package server

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ziadkadry99/docchat/internal/chat"
)

// DefaultAskApproach and DefaultChatApproach are used when a request
// does not name one.
const (
	DefaultAskApproach  = "rtr"
	DefaultChatApproach = "rrr"
)

type askRequest struct {
	Question  string         `json:"question"`
	Approach  string         `json:"approach,omitempty"`
	Overrides chat.Overrides `json:"overrides,omitempty"`
}

type chatRequest struct {
	History   []chat.Turn    `json:"history"`
	Approach  string         `json:"approach,omitempty"`
	Overrides chat.Overrides `json:"overrides,omitempty"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validOverrides(w, req.Overrides) {
		return
	}

	name := req.Approach
	if name == "" {
		name = DefaultAskApproach
	}
	approach, err := s.registry.Ask(name)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	answer, err := approach.Run(r.Context(), req.Question, req.Overrides)
	if err != nil {
		s.log.Error("ask failed", zap.String("approach", name), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	s.logConversation(r, name, []chat.Turn{{User: req.Question}}, answer.Answer)
	writeJSON(w, http.StatusOK, answer)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validOverrides(w, req.Overrides) {
		return
	}

	name := req.Approach
	if name == "" {
		name = DefaultChatApproach
	}
	approach, err := s.registry.Chat(name)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	answer, err := approach.Run(r.Context(), req.History, req.Overrides)
	if err != nil {
		s.log.Error("chat failed", zap.String("approach", name), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	s.logConversation(r, name, req.History, answer.Answer)
	writeJSON(w, http.StatusOK, answer)
}

// handleChatStream answers as newline-delimited JSON events, flushed as
// they are produced.
func (s *Server) handleChatStream(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validOverrides(w, req.Overrides) {
		return
	}

	name := req.Approach
	if name == "" {
		name = DefaultChatApproach
	}
	approach, err := s.registry.Chat(name)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)

	enc := json.NewEncoder(w)
	var answer strings.Builder
	for ev := range approach.RunStream(r.Context(), req.History, req.Overrides) {
		if err := enc.Encode(ev); err != nil {
			// Client went away; the request context cancellation stops
			// the approach goroutine.
			s.log.Debug("stream write failed", zap.Error(err))
			break
		}
		if flusher != nil {
			flusher.Flush()
		}
		answer.WriteString(ev.Content)
	}

	s.logConversation(r, name, req.History, answer.String())
}

// logConversation appends to the history store, best effort. It runs on
// a fresh context so a client disconnect does not lose the entry.
func (s *Server) logConversation(r *http.Request, approach string, turns []chat.Turn, answer string) {
	if s.store == nil || answer == "" {
		return
	}
	if err := s.store.Append(context.Background(), approach, turns, answer); err != nil {
		s.log.Warn("conversation log write failed", zap.Error(err))
	}
}

// validOverrides rejects a request naming an unrecognized retrieval mode
// with 400 before it reaches the retriever. It reports whether the
// overrides are usable.
func validOverrides(w http.ResponseWriter, o chat.Overrides) bool {
	if !o.RetrievalMode.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "unknown retrieval_mode " + strconv.Quote(string(o.RetrievalMode)),
		})
		return false
	}
	return true
}

// decodeJSON rejects non-JSON payloads with 415 and malformed bodies
// with 400. It reports whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	ct := r.Header.Get("Content-Type")
	if mt, _, err := mime.ParseMediaType(ct); err != nil || mt != "application/json" {
		writeJSON(w, http.StatusUnsupportedMediaType, map[string]string{"error": "request must be JSON"})
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body: " + err.Error()})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
