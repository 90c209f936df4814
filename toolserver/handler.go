package toolserver

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Routes served by Handler.
const (
	SchemaRoute  = "GET /tools-schema"
	ExecuteRoute = "POST /tools/{name}"
)

// maxArgsBytes bounds the request body of an execute call.
const maxArgsBytes = 1 << 20

type schemaEntry struct {
	Output json.RawMessage `json:"output,omitempty"`
}

type schemaDocument struct {
	Tools *orderedmap.OrderedMap[string, schemaEntry] `json:"tools"`
}

// SchemaDocument returns the tools schema document: every registered tool in
// registration order, with its output schema when it declares one.
func (r *Registry) SchemaDocument() ([]byte, error) {
	doc := schemaDocument{Tools: orderedmap.New[string, schemaEntry]()}
	for _, t := range r.Tools() {
		doc.Tools.Set(t.Name(), schemaEntry{Output: t.Output()})
	}
	return json.Marshal(doc)
}

// Handler returns an http.Handler serving SchemaRoute and ExecuteRoute for reg.
// Responses allow any origin so browser clients can fetch the schema.
func Handler(reg *Registry, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &handler{reg: reg, logger: logger}
	mux := http.NewServeMux()
	mux.HandleFunc(SchemaRoute, h.schema)
	mux.HandleFunc(ExecuteRoute, h.execute)
	return allowAnyOrigin(mux)
}

type handler struct {
	reg    *Registry
	logger *slog.Logger
}

func (h *handler) schema(w http.ResponseWriter, req *http.Request) {
	body, err := h.reg.SchemaDocument()
	if err != nil {
		h.logger.ErrorContext(req.Context(), "encode tools schema", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

func (h *handler) execute(w http.ResponseWriter, req *http.Request) {
	name := req.PathValue("name")
	args, err := io.ReadAll(http.MaxBytesReader(w, req.Body, maxArgsBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}
	call := ToolCall{ID: uuid.NewString(), ToolName: name, Args: args}
	out, err := h.reg.Execute(req.Context(), call)
	if err != nil {
		status, msg := StatusOf(err)
		level := slog.LevelWarn
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		h.logger.Log(req.Context(), level, "tool call failed", "tool", name, "call_id", call.ID, "status", status, "error", err)
		writeError(w, status, msg)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(out)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func allowAnyOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, req)
	})
}
