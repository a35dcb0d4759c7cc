// Package server exposes the single analysis session over HTTP.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/iwvelando/turbine-invest/internal/analysis"
	"github.com/iwvelando/turbine-invest/internal/config"
	"github.com/iwvelando/turbine-invest/internal/report"
	"github.com/iwvelando/turbine-invest/internal/session"
	"github.com/iwvelando/turbine-invest/pkg/chart"
	"github.com/iwvelando/turbine-invest/pkg/constants"
	"github.com/iwvelando/turbine-invest/pkg/maintenance"
	"github.com/iwvelando/turbine-invest/pkg/output"
	"github.com/iwvelando/turbine-invest/pkg/units"
	"go.uber.org/zap"
)

// handler serves the API over one session. mu serializes every access so
// that each request is a single atomic transition of the session.
type handler struct {
	logger      *zap.Logger
	maxBodySize int64
	version     string

	mu      sync.Mutex
	session *session.Session
}

// NewHandler constructs the HTTP handler serving the session API. A nil
// session starts from default parameters.
func NewHandler(logger *zap.Logger, s *session.Session, maxBodySize int64, version string) (http.Handler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	if s == nil {
		var err error
		s, err = session.Default(units.ExchangeRate{USDToCNY: constants.DefaultExchangeRate})
		if err != nil {
			return nil, err
		}
	}

	h := &handler{logger: logger, maxBodySize: maxBodySize, version: trimmedVersion, session: s}

	mux := http.NewServeMux()

	// Session state and editing
	mux.HandleFunc("GET /api/session", h.handleGetSession)
	mux.HandleFunc("PUT /api/session/parameters", h.handleSetParameters)
	mux.HandleFunc("PUT /api/session/exchange-rate", h.handleSetExchangeRate)
	mux.HandleFunc("GET /api/session/export", h.handleSessionExport)

	// Live maintenance list
	mux.HandleFunc("POST /api/maintenance", h.handleAppendItem)
	mux.HandleFunc("PATCH /api/maintenance/{id}", h.handleUpdateItem)
	mux.HandleFunc("DELETE /api/maintenance/{id}", h.handleRemoveItem)

	// Analysis outputs
	mux.HandleFunc("POST /api/compute", h.handleCompute)
	mux.HandleFunc("POST /api/export", h.handleExport)
	mux.HandleFunc("POST /api/chart", h.handleChart)

	mux.HandleFunc("GET /api/methodology", h.handleMethodology)
	mux.HandleFunc("GET /api/version", h.handleVersion)

	return mux, nil
}

type sessionResponse struct {
	Parameters   session.Parameters `json:"parameters"`
	ExchangeRate units.ExchangeRate `json:"exchangeRate"`
	Maintenance  []maintenance.Item `json:"maintenance"`
	CanRemove    bool               `json:"canRemove"`
	Units        []units.Unit       `json:"units"`
	Warnings     []string           `json:"warnings,omitempty"`
}

type mutationResponse struct {
	Applied bool              `json:"applied"`
	Item    *maintenance.Item `json:"item,omitempty"`
	Session sessionResponse   `json:"session"`
}

type itemRequest struct {
	Name *string  `json:"name"`
	Cost *float64 `json:"cost"`
	Unit *string  `json:"unit"`
}

type computeResponse struct {
	Report   *report.Report   `json:"report"`
	Result   *analysis.Result `json:"result"`
	CSV      string           `json:"csv"`
	Duration string           `json:"duration"`
}

// sessionState must be called with h.mu held.
func (h *handler) sessionState() sessionResponse {
	snap := h.session.Snapshot()
	return sessionResponse{
		Parameters:   snap.Parameters,
		ExchangeRate: snap.ExchangeRate,
		Maintenance:  snap.Maintenance,
		CanRemove:    h.session.Maintenance().CanRemove(),
		Units:        units.Units(),
		Warnings:     snap.Parameters.Warnings(snap.Maintenance),
	}
}

func (h *handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	state := h.sessionState()
	h.mu.Unlock()

	h.writeJSON(w, http.StatusOK, state)
}

func (h *handler) handleSetParameters(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSetParameters"

	var params session.Parameters
	if err := h.decodeBody(w, r, &params); err != nil {
		h.respondErrorWithOp(w, statusForDecode(err), fmt.Sprintf("failed to decode parameters: %v", err), op)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.session.SetParameters(params); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	h.logger.Debug("session parameters replaced", zap.String("op", op))
	h.writeJSON(w, http.StatusOK, h.sessionState())
}

func (h *handler) handleSetExchangeRate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSetExchangeRate"

	var rate units.ExchangeRate
	if err := h.decodeBody(w, r, &rate); err != nil {
		h.respondErrorWithOp(w, statusForDecode(err), fmt.Sprintf("failed to decode exchange rate: %v", err), op)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.session.SetExchangeRate(rate); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	h.writeJSON(w, http.StatusOK, h.sessionState())
}

func (h *handler) handleSessionExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSessionExport"

	h.mu.Lock()
	snap := h.session.Snapshot()
	h.mu.Unlock()

	data, err := (&config.Configuration{}).FromSnapshot(snap).Marshal()
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		return
	}

	w.Header().Set("Content-Type", "application/x-yaml")
	w.Header().Set("Content-Disposition", `attachment; filename="`+constants.DefaultConfigFile+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Error("failed to write session export", zap.String("op", op), zap.Error(err))
	}
}

func (h *handler) handleAppendItem(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAppendItem"

	var req itemRequest
	if err := h.decodeBody(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.respondErrorWithOp(w, statusForDecode(err), fmt.Sprintf("failed to decode item: %v", err), op)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	list := h.session.Maintenance()
	var item maintenance.Item
	if req.Name == nil && req.Cost == nil && req.Unit == nil {
		item = list.Append()
	} else {
		cost := units.MonetaryAmount{Unit: list.DefaultUnit()}
		name := constants.DefaultMaintenanceItemName
		if req.Name != nil {
			name = *req.Name
		}
		if req.Cost != nil {
			cost.Amount = *req.Cost
		}
		if req.Unit != nil {
			u, err := units.ParseUnit(*req.Unit)
			if err != nil {
				h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
				return
			}
			cost.Unit = u
		}
		item = list.AppendItem(name, cost)
	}

	h.logger.Debug("maintenance item appended",
		zap.String("op", op),
		zap.String("id", item.ID),
		zap.Int("items", list.Len()),
	)
	h.writeJSON(w, http.StatusCreated, mutationResponse{Applied: true, Item: &item, Session: h.sessionState()})
}

func (h *handler) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleUpdateItem"
	id := r.PathValue("id")

	var req itemRequest
	if err := h.decodeBody(w, r, &req); err != nil {
		h.respondErrorWithOp(w, statusForDecode(err), fmt.Sprintf("failed to decode patch: %v", err), op)
		return
	}

	patch := maintenance.Patch{Name: req.Name, Cost: req.Cost}
	validUnit := true
	if req.Unit != nil {
		u, err := units.ParseUnit(*req.Unit)
		if err != nil {
			validUnit = false
		}
		patch.Unit = &u
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	applied := validUnit && h.session.Maintenance().UpdateByID(id, patch)
	if !applied {
		h.logger.Debug("maintenance update ignored", zap.String("op", op), zap.String("id", id))
	}
	h.writeJSON(w, http.StatusOK, mutationResponse{Applied: applied, Session: h.sessionState()})
}

func (h *handler) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleRemoveItem"
	id := r.PathValue("id")

	h.mu.Lock()
	defer h.mu.Unlock()

	applied := h.session.Maintenance().RemoveByID(id)
	h.logger.Debug("maintenance remove requested",
		zap.String("op", op),
		zap.String("id", id),
		zap.Bool("applied", applied),
	)
	h.writeJSON(w, http.StatusOK, mutationResponse{Applied: applied, Session: h.sessionState()})
}

// compute runs the analysis on a snapshot taken under the session lock.
func (h *handler) compute(op string) (*analysis.Result, *report.Report, int, error) {
	h.mu.Lock()
	snap := h.session.Snapshot()
	h.mu.Unlock()

	result, err := analysis.Run(h.logger, snap)
	if err != nil {
		return nil, nil, http.StatusUnprocessableEntity, err
	}
	rep, err := report.Assemble(result)
	if err != nil {
		return nil, nil, http.StatusInternalServerError, err
	}
	for _, warning := range result.Warnings {
		h.logger.Warn("analysis warning: "+warning, zap.String("op", op), zap.String("run", result.RunID))
	}
	return result, rep, http.StatusOK, nil
}

func (h *handler) handleCompute(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCompute"
	start := time.Now()

	result, rep, status, err := h.compute(op)
	if err != nil {
		h.respondErrorWithOp(w, status, err.Error(), op)
		return
	}

	csvData, err := output.CsvString(rep)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to render CSV: %v", err), op)
		return
	}

	duration := time.Since(start)
	h.logger.Info("analysis request completed",
		zap.String("op", op),
		zap.String("run", result.RunID),
		zap.Duration("duration", duration),
	)
	h.writeJSON(w, http.StatusOK, computeResponse{
		Report:   rep,
		Result:   result,
		CSV:      csvData,
		Duration: duration.String(),
	})
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleExport"

	_, rep, status, err := h.compute(op)
	if err != nil {
		h.respondErrorWithOp(w, status, err.Error(), op)
		return
	}

	var buf bytes.Buffer
	if err := rep.WriteWorkbook(&buf); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		return
	}

	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+constants.ReportFileName+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Error("failed to write workbook", zap.String("op", op), zap.Error(err))
	}
}

func (h *handler) handleChart(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleChart"

	result, _, status, err := h.compute(op)
	if err != nil {
		h.respondErrorWithOp(w, status, err.Error(), op)
		return
	}

	var buf bytes.Buffer
	if err := chart.WritePNG(&buf, result.Projection); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Error("failed to write chart", zap.String("op", op), zap.Error(err))
	}
}

func (h *handler) handleMethodology(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleMethodology"

	html, err := report.MethodologyHTML()
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(html); err != nil {
		h.logger.Error("failed to write methodology", zap.String("op", op), zap.Error(err))
	}
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"version": h.version})
}

// decodeBody decodes a JSON body limited to maxBodySize. An empty body
// returns io.EOF.
func (h *handler) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func statusForDecode(err error) int {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

// writeJSON encodes payload before the status line is sent, so an encoding
// failure still yields a well-formed 500 response.
func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		h.logger.Error("failed to encode JSON response",
			zap.String("op", "server.writeJSON"),
			zap.Error(err),
		)
		status = http.StatusInternalServerError
		buf.Reset()
		fmt.Fprintf(&buf, "{\"error\":%q}\n", "failed to encode response")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Error("failed to write JSON response", zap.String("op", "server.writeJSON"), zap.Error(err))
	}
}
