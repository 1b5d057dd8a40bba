package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/schemapad/schemapad"
	"github.com/schemapad/schemapad/store"
)

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleGetDocument returns the stored document.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, ok, err := s.store.Load(r.Context(), s.docID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "STORE_ERROR", err.Error())
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("document %q not found", s.docID))
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// handleSaveDocument upserts the document. A "baseline" query parameter
// (RFC 3339) enables the advisory conflict check: when the store holds a
// document newer than the baseline the write is refused with 409 and the
// client decides between overwrite (retry without baseline) and reload.
func (s *Server) handleSaveDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if s.tracer != nil {
		var span trace.Span
		ctx, span = s.tracer.Start(ctx, "schemapad.document.save",
			trace.WithAttributes(attribute.String("schemapad.document_id", s.docID)))
		defer span.End()
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		if isMaxBytesError(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE", "request body exceeds size limit")
			return
		}
		writeError(w, http.StatusBadRequest, "READ_ERROR", err.Error())
		return
	}

	var data schemapad.ExportData
	if err := json.Unmarshal(body, &data); err != nil {
		writeError(w, http.StatusBadRequest, "PARSE_ERROR", err.Error())
		return
	}

	diags := data.Validate()
	if schemapad.HasErrors(diags) {
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "document validation failed", diagMessages(diags)...)
		return
	}

	if raw := r.URL.Query().Get("baseline"); raw != "" {
		baseline, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "PARSE_ERROR", fmt.Sprintf("invalid baseline timestamp: %v", err))
			return
		}
		remote, ok, err := s.store.Load(ctx, s.docID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "STORE_ERROR", err.Error())
			return
		}
		if ok && remote.UpdatedAt.After(baseline) {
			writeError(w, http.StatusConflict, "CONFLICT",
				fmt.Sprintf("document was modified at %s, after baseline %s",
					remote.UpdatedAt.Format(time.RFC3339Nano), baseline.Format(time.RFC3339Nano)))
			return
		}
	}

	saved, err := s.store.Save(ctx, s.docID, store.FromData(data))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "STORE_ERROR", err.Error())
		return
	}
	s.logger.Debug("document saved", "document", s.docID, "nodes", len(saved.Nodes), "edges", len(saved.Edges))
	writeJSON(w, http.StatusOK, saved)
}

// handleExportDocument wraps the stored document in a versioned envelope.
func (s *Server) handleExportDocument(w http.ResponseWriter, r *http.Request) {
	doc, ok, err := s.store.Load(r.Context(), s.docID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "STORE_ERROR", err.Error())
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("document %q not found", s.docID))
		return
	}
	env := schemapad.NewEnvelope(doc.Data(), time.Now().UTC())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.docID+".json"))
	writeJSON(w, http.StatusOK, env)
}

// handleImportDocument validates an export envelope and replaces the stored
// document with its data. Validation happens before any write, so a failed
// import never touches stored state.
func (s *Server) handleImportDocument(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		if isMaxBytesError(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE", "request body exceeds size limit")
			return
		}
		writeError(w, http.StatusBadRequest, "READ_ERROR", err.Error())
		return
	}

	env, err := schemapad.ParseEnvelope(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "PARSE_ERROR", err.Error())
		return
	}

	diags := env.Data.Validate()
	if schemapad.HasErrors(diags) {
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "import validation failed", diagMessages(diags)...)
		return
	}

	saved, err := s.store.Save(r.Context(), s.docID, store.FromData(env.Data))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "STORE_ERROR", err.Error())
		return
	}
	s.logger.Info("document imported", "document", s.docID, "nodes", len(saved.Nodes))
	writeJSON(w, http.StatusOK, saved)
}

// resolveFlowRequest is the body of POST /api/flow/resolve.
type resolveFlowRequest struct {
	Nodes    []schemapad.Node `json:"nodes"`
	Edges    []schemapad.Edge `json:"edges"`
	Selected string           `json:"selected,omitempty"`
}

// handleResolveFlow computes a flow view for a client-supplied graph. Thin
// clients post their canvas state instead of running the resolver locally.
func (s *Server) handleResolveFlow(w http.ResponseWriter, r *http.Request) {
	if s.tracer != nil {
		_, span := s.tracer.Start(r.Context(), "schemapad.flow.resolve")
		defer span.End()
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		if isMaxBytesError(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE", "request body exceeds size limit")
			return
		}
		writeError(w, http.StatusBadRequest, "READ_ERROR", err.Error())
		return
	}

	var req resolveFlowRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "PARSE_ERROR", err.Error())
		return
	}

	diags := (schemapad.ExportData{Nodes: req.Nodes, Edges: req.Edges}).Validate()
	if schemapad.HasErrors(diags) {
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "flow graph validation failed", diagMessages(diags)...)
		return
	}

	g := schemapad.NewGraph()
	g.Replace(req.Nodes, req.Edges, nil, nil)
	view := schemapad.ResolveFlow(g, req.Selected)
	writeJSON(w, http.StatusOK, view)
}

// diagMessages extracts the messages of error-severity diagnostics.
func diagMessages(diags []schemapad.Diagnostic) []string {
	var msgs []string
	for _, d := range diags {
		if d.Severity == schemapad.SeverityError {
			msgs = append(msgs, d.Message)
		}
	}
	return msgs
}

// isMaxBytesError checks if the error is from http.MaxBytesReader.
func isMaxBytesError(err error) bool {
	var maxBytesErr *http.MaxBytesError
	return errors.As(err, &maxBytesErr)
}
