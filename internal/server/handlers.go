package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Geun-Oh/uxlog/internal/logging"
	"github.com/Geun-Oh/uxlog/internal/pipeline"
	"github.com/Geun-Oh/uxlog/internal/sink"
	"github.com/Geun-Oh/uxlog/internal/source"
	"github.com/Geun-Oh/uxlog/internal/subtitle"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
)

// Error codes returned in {"error": code} bodies.
const (
	CodeNoData         = "no_data"
	CodeEmptyData      = "empty_data"
	CodeNotLoaded      = "not_loaded"
	CodeTooLarge       = "too_large"
	CodeStale          = "stale"
	CodeUnknownMission = "unknown_mission"
	CodeInternal       = "internal"

	CodeUnsupportedEncoding = "unsupported_encoding"
	CodeBadEncoding         = "bad_encoding"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMissions(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.opts.Registry.All())
}

// handleAnalyze analyzes the CSV request body and publishes the report.
// ?missions=a,b narrows the analysis to those missions.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	reg := s.opts.Registry
	if q := r.URL.Query().Get("missions"); q != "" {
		sub, err := reg.Subset(splitList(q)...)
		if err != nil {
			respondError(w, http.StatusBadRequest, CodeUnknownMission)
			return
		}
		reg = sub
	}

	body := http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	report, err := pipeline.Run(r.Context(), &pipeline.Config{
		Source:   source.NewReaderSource("upload", body),
		Registry: reg,
		Filters:  s.opts.Filters,
		Slot:     s.opts.Slot,
		History:  s.opts.History,
		Stats:    s.opts.Stats,
	})

	var tooLarge *http.MaxBytesError
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, sink.NewView(report))
	case errors.Is(err, pipeline.ErrNoData):
		respondError(w, http.StatusUnprocessableEntity, CodeNoData)
	case errors.Is(err, pipeline.ErrEmptyData):
		respondError(w, http.StatusUnprocessableEntity, CodeEmptyData)
	case errors.Is(err, pipeline.ErrStale):
		respondError(w, http.StatusConflict, CodeStale)
	case errors.As(err, &tooLarge):
		respondError(w, http.StatusRequestEntityTooLarge, CodeTooLarge)
	default:
		logging.Error().Err(err).Msg("analyze failed")
		respondError(w, http.StatusInternalServerError, CodeInternal)
	}
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	report, ok := s.opts.Slot.Current()
	if !ok {
		respondError(w, http.StatusNotFound, CodeNotLoaded)
		return
	}
	respondJSON(w, http.StatusOK, sink.NewView(report))
}

func (s *Server) handleFunnelCSV(w http.ResponseWriter, r *http.Request) {
	report, ok := s.opts.Slot.Current()
	if !ok {
		respondError(w, http.StatusNotFound, CodeNotLoaded)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="funnel.csv"`)
	if err := sink.NewFunnelCSVSink(w).Write(report); err != nil {
		logging.Error().Err(err).Msg("write funnel csv")
	}
}

func (s *Server) handleMission(w http.ResponseWriter, r *http.Request) {
	report, ok := s.opts.Slot.Current()
	if !ok {
		respondError(w, http.StatusNotFound, CodeNotLoaded)
		return
	}
	st, ok := report.Mission(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusNotFound, CodeUnknownMission)
		return
	}
	respondJSON(w, http.StatusOK, sink.NewMissionView(st))
}

func (s *Server) handleLoads(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.opts.History.Snapshot())
}

type status struct {
	Uptime          string `json:"uptime"`
	Loads           uint64 `json:"loads"`
	RowsRead        uint64 `json:"rowsRead"`
	Generation      uint64 `json:"generation"`
	Missions        int    `json:"missions"`
	SubtitleBreaker string `json:"subtitleBreaker"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st := status{
		Uptime:          time.Since(s.started).Round(time.Second).String(),
		Loads:           s.opts.Stats.Loads(),
		RowsRead:        s.opts.Stats.Total(),
		Missions:        s.opts.Registry.Len(),
		SubtitleBreaker: s.opts.Subtitles.State(),
	}
	if report, ok := s.opts.Slot.Current(); ok {
		st.Generation = report.Generation
	}
	respondJSON(w, http.StatusOK, st)
}

// handleSubtitles always answers 200; undecodable requests get the defaults.
func (s *Server) handleSubtitles(w http.ResponseWriter, r *http.Request) {
	var req subtitle.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)).Decode(&req); err != nil {
		respondJSON(w, http.StatusOK, subtitle.Result{Subtitles: subtitle.DefaultSubtitles(), Fallback: true})
		return
	}
	respondJSON(w, http.StatusOK, s.opts.Subtitles.Suggest(r.Context(), req))
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// respondJSON writes a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Error().Err(err).Msg("encode response")
	}
}

// respondError writes an error JSON response.
func respondError(w http.ResponseWriter, status int, code string) {
	respondJSON(w, status, map[string]string{"error": code})
}

