package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/ayusman/airdraw/internal/paint"
	"github.com/ayusman/airdraw/internal/painter"
)

// SessionsPrefix is the path the handler is mounted at.
const SessionsPrefix = "/api/sessions"

// SessionHandler handles HTTP requests for drawing sessions.
type SessionHandler struct {
	registry *painter.Registry
	log      logrus.FieldLogger
}

// NewSessionHandler creates a new SessionHandler backed by registry.
func NewSessionHandler(registry *painter.Registry, logger logrus.FieldLogger) *SessionHandler {
	return &SessionHandler{
		registry: registry,
		log:      logger,
	}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/sessions, /api/sessions/{id} and
	// /api/sessions/{id}/{frames,tool,clear}
	path := strings.TrimPrefix(r.URL.Path, SessionsPrefix)
	path = strings.Trim(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	id, action, _ := strings.Cut(path, "/")
	session, err := h.registry.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	switch action {
	case "":
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, session.State())
		case http.MethodDelete:
			h.delete(w, r, id)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	case "frames":
		h.onlyPost(w, r, func() { h.frame(w, r, session) })
	case "tool":
		h.onlyPost(w, r, func() { h.tool(w, r, session) })
	case "clear":
		h.onlyPost(w, r, func() {
			session.Clear()
			writeJSON(w, http.StatusOK, session.State())
		})
	default:
		http.NotFound(w, r)
	}
}

func (h *SessionHandler) onlyPost(w http.ResponseWriter, r *http.Request, fn func()) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	fn()
}

type listSessionsResponse struct {
	Sessions []painter.State `json:"sessions"`
}

// list handles GET /api/sessions.
func (h *SessionHandler) list(w http.ResponseWriter, r *http.Request) {
	resp := listSessionsResponse{Sessions: make([]painter.State, 0, h.registry.Len())}
	h.registry.Each(func(s *painter.Session) {
		resp.Sessions = append(resp.Sessions, s.State())
	})
	writeJSON(w, http.StatusOK, resp)
}

// create handles POST /api/sessions.
func (h *SessionHandler) create(w http.ResponseWriter, r *http.Request) {
	s := h.registry.Create()
	writeJSON(w, http.StatusCreated, s.State())
}

// delete handles DELETE /api/sessions/{id}.
func (h *SessionHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.registry.Delete(id); err != nil {
		if errors.Is(err, painter.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		h.log.WithError(err).Warn("Failed to release session")
	}
	w.WriteHeader(http.StatusNoContent)
}

// ErrInvalidTool is returned by ToolRequest.Apply for requests that name no
// setting or ask for a color and the eraser at once.
var ErrInvalidTool = errors.New("invalid tool request")

var validate = validator.New()

// ToolRequest changes one or more tool settings. Thickness values outside
// their range are clamped rather than rejected.
type ToolRequest struct {
	Color           *string `json:"color,omitempty" validate:"required_without_all=Eraser BrushThickness EraserThickness"`
	Eraser          *bool   `json:"eraser,omitempty"`
	BrushThickness  *int    `json:"brush_thickness,omitempty"`
	EraserThickness *int    `json:"eraser_thickness,omitempty"`
}

// Apply validates the request and applies it to s.
func (req ToolRequest) Apply(s *painter.Session) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: one of color, eraser, brush_thickness or eraser_thickness is required", ErrInvalidTool)
	}
	if req.Color != nil && req.Eraser != nil && *req.Eraser {
		return fmt.Errorf("%w: color and eraser are mutually exclusive", ErrInvalidTool)
	}

	if req.Color != nil {
		c, err := paint.ParseColor(*req.Color)
		if err != nil {
			return fmt.Errorf("%w: %q", err, *req.Color)
		}
		s.SelectColor(c)
	}
	if req.Eraser != nil && *req.Eraser {
		s.SelectEraser()
	}
	if req.BrushThickness != nil {
		s.SetBrushThickness(*req.BrushThickness)
	}
	if req.EraserThickness != nil {
		s.SetEraserThickness(*req.EraserThickness)
	}
	return nil
}

// tool handles POST /api/sessions/{id}/tool.
func (h *SessionHandler) tool(w http.ResponseWriter, r *http.Request, s *painter.Session) {
	var req ToolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := req.Apply(s); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.State())
}
