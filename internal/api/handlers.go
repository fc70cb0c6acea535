package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/boardkit/gridboard/pkg/board"
	"github.com/boardkit/gridboard/pkg/errors"
	"github.com/boardkit/gridboard/pkg/sink"
)

// panelResponse is the wire shape of one panel: its logical placement plus
// settings. Dropped marks panels that lost their slot in the current pass.
type panelResponse struct {
	ID         int    `json:"id"`
	Title      string `json:"title,omitempty"`
	Color      string `json:"color,omitempty"`
	Script     string `json:"script,omitempty"`
	ShowTitle  bool   `json:"show_title"`
	GridX      int    `json:"grid_x"`
	GridY      int    `json:"grid_y"`
	WidthUnits int    `json:"width_units"`
	Dropped    bool   `json:"dropped,omitempty"`
}

type createPanelRequest struct {
	Title      string `json:"title"`
	GridX      int    `json:"grid_x"`
	GridY      int    `json:"grid_y"`
	WidthUnits int    `json:"width_units"`
	Color      string `json:"color,omitempty"`
	Script     string `json:"script,omitempty"`
	ShowTitle  *bool  `json:"show_title,omitempty"`
}

type patchPanelRequest struct {
	Title      *string `json:"title,omitempty"`
	Color      *string `json:"color,omitempty"`
	Script     *string `json:"script,omitempty"`
	ShowTitle  *bool   `json:"show_title,omitempty"`
	GridX      *int    `json:"grid_x,omitempty"`
	GridY      *int    `json:"grid_y,omitempty"`
	WidthUnits *int    `json:"width_units,omitempty"`
	ApplyToAll bool    `json:"apply_to_all,omitempty"`
}

type spacingRequest struct {
	// SpacingPx is the gutter measured in viewport pixels. The mapper
	// converts it to world units before it reaches the board.
	SpacingPx *float64 `json:"spacing_px"`
}

type spacingResponse struct {
	Spacing   float64 `json:"spacing"`
	SpacingPx float64 `json:"spacing_px"`
}

type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

// handleGetBoard serves the full board document. The body is the JSON sink
// artifact, so API consumers and CLI artifacts share one schema.
func (s *Server) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	data, err := sink.RenderJSON(s.mgr.Layout(),
		sink.WithJSONPanels(s.mgr.Panels()),
		sink.WithJSONBoard(s.mgr.Name(), s.mgr.ID().String()))
	s.mu.Unlock()

	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "render board"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handlePutSpacing(w http.ResponseWriter, r *http.Request) {
	var req spacingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.SpacingPx == nil {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "spacing_px is required"))
		return
	}

	spacing := s.mapper.PixelsToWorld(*req.SpacingPx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.mgr.SetSpacing(spacing); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, spacingResponse{Spacing: spacing, SpacingPx: *req.SpacingPx})
}

func (s *Server) handleListPanels(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.mgr.Layout()
	panels := s.mgr.Panels()
	out := make([]panelResponse, len(panels))
	for i, p := range panels {
		out[i] = toPanelResponse(p, res.Dropped(p.ID))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreatePanel(w http.ResponseWriter, r *http.Request) {
	var req createPanelRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.WidthUnits == 0 {
		req.WidthUnits = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.mgr.AddPanel(req.GridX, req.GridY, req.WidthUnits, req.Title)
	if err != nil {
		writeError(w, err)
		return
	}
	if req.Color != "" || req.Script != "" || req.ShowTitle != nil {
		patch := board.Patch{ShowTitle: req.ShowTitle}
		if req.Color != "" {
			patch.Color = &req.Color
		}
		if req.Script != "" {
			patch.Script = &req.Script
		}
		if err := s.mgr.ApplySettings(id, patch, false); err != nil {
			writeError(w, err)
			return
		}
	}

	p, _ := s.mgr.PanelByID(id)
	writeJSON(w, http.StatusCreated, toPanelResponse(p, s.mgr.Layout().Dropped(id)))
}

func (s *Server) handleGetPanel(w http.ResponseWriter, r *http.Request) {
	id, err := panelID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.mgr.PanelByID(id)
	if !ok {
		writeError(w, errors.New(errors.ErrCodePanelNotFound, "panel %d not found", id))
		return
	}
	writeJSON(w, http.StatusOK, toPanelResponse(p, s.mgr.Layout().Dropped(id)))
}

func (s *Server) handlePatchPanel(w http.ResponseWriter, r *http.Request) {
	id, err := panelID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req patchPanelRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	patch := board.Patch{
		Title:      req.Title,
		Color:      req.Color,
		Script:     req.Script,
		ShowTitle:  req.ShowTitle,
		GridX:      req.GridX,
		GridY:      req.GridY,
		WidthUnits: req.WidthUnits,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.mgr.ApplySettings(id, patch, req.ApplyToAll); err != nil {
		writeError(w, err)
		return
	}
	p, _ := s.mgr.PanelByID(id)
	writeJSON(w, http.StatusOK, toPanelResponse(p, s.mgr.Layout().Dropped(id)))
}

func (s *Server) handleDeletePanel(w http.ResponseWriter, r *http.Request) {
	id, err := panelID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.mgr.RemovePanel(id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toPanelResponse(p board.Panel, dropped bool) panelResponse {
	return panelResponse{
		ID:         p.ID,
		Title:      p.Settings.Title,
		Color:      p.Settings.Color,
		Script:     p.Settings.Script,
		ShowTitle:  p.Settings.ShowTitle,
		GridX:      p.GridX,
		GridY:      p.GridY,
		WidthUnits: p.WidthUnits,
		Dropped:    dropped,
	}
}

// panelID parses the {id} route parameter.
func panelID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "panel id must be an integer, got %q", raw)
	}
	return id, nil
}

// decodeJSON decodes a request body strictly; unknown fields are rejected so
// misspelled keys fail loudly instead of silently doing nothing.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

// writeJSON writes a JSON body with normalized headers and status.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps the error code onto an HTTP status and emits the envelope.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResponse{
		Error: errors.UserMessage(err),
		Code:  errors.GetCode(err),
	})
}

func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound, errors.ErrCodePanelNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidGrid, errors.ErrCodeInvalidPlacement,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidManifest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
