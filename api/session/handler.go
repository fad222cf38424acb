// Package session exposes the dashboard sessions over HTTP.
//
// Routes:
//
//	GET    /api/presets
//	POST   /api/evaluate
//	GET    /api/sessions
//	POST   /api/sessions
//	GET    /api/sessions/{id}
//	PUT    /api/sessions/{id}
//	DELETE /api/sessions/{id}
//	POST   /api/sessions/{id}/devices
//	PATCH  /api/sessions/{id}/devices/{index}
//	GET    /api/sessions/{id}/report?format=text|json|csv
package session

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/kilianp07/alfred/core/logger"
	"github.com/kilianp07/alfred/core/model"
	"github.com/kilianp07/alfred/core/resolver"
	coresession "github.com/kilianp07/alfred/core/session"
	"github.com/kilianp07/alfred/pkg/export"
)

// maxBody bounds request payloads.
const maxBody = 1 << 20

// Handler serves the session API.
type Handler struct {
	mgr *coresession.Manager
	log logger.Logger
	// CreateLimit wraps session creation, nil disables it.
	CreateLimit func(http.Handler) http.Handler
}

// NewHandler returns a Handler backed by the manager.
func NewHandler(mgr *coresession.Manager, log logger.Logger) *Handler {
	return &Handler{mgr: mgr, log: log}
}

// Register mounts the routes under /api on r.
func (h *Handler) Register(r *mux.Router) {
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/presets", h.presets).Methods(http.MethodGet)
	api.HandleFunc("/evaluate", h.evaluate).Methods(http.MethodPost)
	api.HandleFunc("/sessions", h.list).Methods(http.MethodGet)
	var create http.Handler = http.HandlerFunc(h.create)
	if h.CreateLimit != nil {
		create = h.CreateLimit(create)
	}
	api.Handle("/sessions", create).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}", h.get).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}", h.replace).Methods(http.MethodPut)
	api.HandleFunc("/sessions/{id}", h.delete).Methods(http.MethodDelete)
	api.HandleFunc("/sessions/{id}/devices", h.addDevice).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/devices/{index:[0-9]+}", h.patchDevice).Methods(http.MethodPatch)
	api.HandleFunc("/sessions/{id}/report", h.report).Methods(http.MethodGet)
}

type presetsResponse struct {
	BatteryBanks   []int             `json:"battery_banks"`
	BatteryUnitWh  float64           `json:"battery_unit_wh"`
	AuxPackWh      float64           `json:"aux_pack_wh"`
	AlternatorW    float64           `json:"alternator_watts"`
	MaxDriveHours  float64           `json:"max_custom_drive_hours"`
	SunlightTiers  []resolver.Preset `json:"sunlight_tiers"`
	DriveTimes     []resolver.Preset `json:"drive_times"`
	DeviceSchedule []resolver.Preset `json:"device_schedules"`
}

func (h *Handler) presets(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, presetsResponse{
		BatteryBanks:   resolver.BatteryBankOptions,
		BatteryUnitWh:  resolver.BatteryUnitWh,
		AuxPackWh:      resolver.AuxPackWh,
		AlternatorW:    resolver.AlternatorWatts,
		MaxDriveHours:  resolver.MaxCustomDriveH,
		SunlightTiers:  resolver.SunlightPresets(),
		DriveTimes:     resolver.DrivePresets(),
		DeviceSchedule: resolver.DeviceHourPresets(),
	})
}

func (h *Handler) evaluate(w http.ResponseWriter, r *http.Request) {
	var sel resolver.Selection
	if !h.decode(w, r, &sel) {
		return
	}
	ev, err := coresession.Evaluate(sel)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

func (h *Handler) list(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.mgr.List())
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var sel resolver.Selection
	if !h.decode(w, r, &sel) {
		return
	}
	s, err := h.mgr.Create(sel)
	if err != nil {
		h.fail(w, err)
		return
	}
	w.Header().Set("Location", "/api/sessions/"+s.ID)
	writeJSON(w, http.StatusCreated, s)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	s, err := h.mgr.Get(mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *Handler) replace(w http.ResponseWriter, r *http.Request) {
	var sel resolver.Selection
	if !h.decode(w, r, &sel) {
		return
	}
	s, err := h.mgr.Replace(mux.Vars(r)["id"], sel)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.mgr.Delete(mux.Vars(r)["id"]); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) addDevice(w http.ResponseWriter, r *http.Request) {
	var dev resolver.DeviceSelection
	if !h.decode(w, r, &dev) {
		return
	}
	s, err := h.mgr.AddDevice(mux.Vars(r)["id"], dev)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *Handler) patchDevice(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	index, err := strconv.Atoi(vars["index"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid device index")
		return
	}
	var p coresession.DevicePatch
	if !h.decode(w, r, &p) {
		return
	}
	s, err := h.mgr.PatchDevice(vars["id"], index, p)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	s, err := h.mgr.Get(mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, err)
		return
	}
	if s.Result == nil {
		writeError(w, http.StatusUnprocessableEntity, s.Error)
		return
	}
	format := r.URL.Query().Get("format")
	switch format {
	case export.FormatJSON:
		w.Header().Set("Content-Type", "application/json")
	case export.FormatCSV:
		w.Header().Set("Content-Type", "text/csv")
	case export.FormatText, "":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	default:
		writeError(w, http.StatusBadRequest, "unsupported format "+strconv.Quote(format))
		return
	}
	if err := export.Write(w, format, export.Report{Result: *s.Result, Devices: s.Devices}); err != nil {
		h.log.Errorf("write report for %s: %v", s.ID, err)
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, out any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return false
	}
	return true
}

// fail maps domain errors to HTTP status codes.
func (h *Handler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, coresession.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, model.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, model.ErrInvalidConfiguration):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.log.Errorf("request failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
