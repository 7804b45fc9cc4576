package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gridleaf-labs/cellform/pkg/formula"
)

type validateRequest struct {
	Expression string `json:"expression"`
	Live       bool   `json:"live,omitempty"`
}

type completeRequest struct {
	Text   string `json:"text"`
	Cursor int    `json:"cursor"`
}

type completeResponse struct {
	Suggestions []formula.SuggestionItem `json:"suggestions"`
}

type applyRequest struct {
	Expression string `json:"expression"`
	Target     string `json:"target"`
}

type functionInfo struct {
	Key         string                     `json:"key"`
	Name        string                     `json:"name"`
	Syntax      string                     `json:"syntax"`
	Description string                     `json:"description"`
	Example     string                     `json:"example"`
	Category    formula.Category           `json:"category"`
	Arguments   []formula.FunctionArgument `json:"arguments,omitempty"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if !decode(w, r, &req) {
		return
	}

	var result formula.ValidationResult
	if req.Live {
		result = formula.Live(req.Expression, s.catalog)
	} else {
		result = formula.Submit(req.Expression, s.columns(), s.catalog)
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	var req completeRequest
	if !decode(w, r, &req) {
		return
	}
	items := formula.Suggest(req.Text, req.Cursor, s.columns(), s.catalog)
	writeJSON(w, http.StatusOK, completeResponse{Suggestions: items})
}

func (s *Server) handleSignature(w http.ResponseWriter, r *http.Request) {
	var req completeRequest
	if !decode(w, r, &req) {
		return
	}
	ctx := formula.ActiveFunction(req.Text, req.Cursor, s.catalog)
	writeJSON(w, http.StatusOK, ctx)
}

func (s *Server) handleFunctions(w http.ResponseWriter, r *http.Request) {
	defs := s.catalog.Definitions()
	out := make([]functionInfo, 0, len(defs))
	for _, def := range defs {
		out = append(out, functionInfo{
			Key:         def.Key,
			Name:        def.Name,
			Syntax:      def.Syntax,
			Description: def.Description,
			Example:     def.Example,
			Category:    def.Category,
			Arguments:   def.Arguments,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.columns())
}

// handleApply runs the full submit gate for the client's pinned editor
// session and forwards the formula to the execution service. A second apply
// for the same session while one is outstanding gets 409.
func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	var req applyRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Target == "" {
		writeJSON(w, http.StatusBadRequest, formula.BackendFailure("target column is required"))
		return
	}

	e, err := s.registry.acquire(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if e.sess.Applying() {
		e.release()
		writeJSON(w, http.StatusConflict, formula.BackendFailure("an apply is already in progress for this session"))
		return
	}

	e.sess.SetTarget(req.Target)
	e.sess.SetText(req.Expression)
	result, ok := e.sess.BeginApply()
	if !ok {
		e.release()
		writeJSON(w, http.StatusUnprocessableEntity, result)
		return
	}
	// Release the session lock during the backend call so the client can
	// keep validating; the applying flag guards against a second apply.
	e.release()

	applyErr := s.applier.Apply(r.Context(), req.Expression, req.Target)

	e.mu.Lock()
	result = e.sess.FinishApply(applyErr)
	e.mu.Unlock()

	if applyErr != nil {
		slog.Warn("apply rejected", "target", req.Target, "error", applyErr)
		writeJSON(w, http.StatusBadGateway, result)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
