package main

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"printquote/internal/mesh"
	"printquote/internal/quote"
)

// Request parameter bounds, mirrored by the loader's own checks as defense
// in depth.
const (
	minLayerMM = 0.05
	maxLayerMM = 0.6
)

var allowedExts = map[string]bool{"stl": true, "obj": true}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleQuote(w http.ResponseWriter, r *http.Request) {
	up, err := s.readQuoteUpload(w, r)
	if err != nil {
		s.writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	defer up.cleanup()

	result, err := s.runQuote(up)
	if err != nil {
		s.writeQuoteError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

func (s *server) handleBatchQuote(w http.ResponseWriter, r *http.Request) {
	up, err := s.readQuoteUpload(w, r)
	if err != nil {
		s.writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	defer up.cleanup()

	single, err := s.runQuote(up)
	if err != nil {
		s.writeQuoteError(w, r, err)
		return
	}

	out := struct {
		Single quote.Result    `json:"single"`
		Tiers  []quote.TierRow `json:"tiers"`
	}{
		Single: single,
		Tiers:  quote.Tier(single.PriceUSD, s.cfg.BatchTiers, s.cfg.Discounts),
	}
	s.writeJSON(w, http.StatusOK, out)
}

// runQuote reads the spooled upload back and runs the engine.
func (s *server) runQuote(up *quoteUpload) (quote.Result, error) {
	data, err := os.ReadFile(up.tmpPath)
	if err != nil {
		return quote.Result{}, fmt.Errorf("read upload: %w", err)
	}

	m, err := mesh.Load(data, up.format)
	if err != nil {
		return quote.Result{}, err
	}

	return s.engine.Estimate(m, up.filename, up.params), nil
}

// writeQuoteError maps loader/engine failures onto the 400 responses the
// API promises. Nothing here is treated as a server fault: a mesh that does
// not parse is the caller's file to fix.
func (s *server) writeQuoteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case mesh.IsUnsupportedFormat(err):
		s.writeDetail(w, http.StatusBadRequest, "Unsupported file type. Upload STL or OBJ.")
	case mesh.IsInvalidGeometry(err):
		s.writeDetail(w, http.StatusBadRequest, "Mesh appears empty or invalid.")
	default:
		s.log.Info("mesh parse failed",
			zap.String("request_id", requestIDFrom(r.Context())),
			zap.Error(err),
		)
		s.writeDetail(w, http.StatusBadRequest, fmt.Sprintf("Failed to parse mesh: %v", err))
	}
}

// quoteUpload is a validated multipart quote request with its payload
// spooled to a temp file.
type quoteUpload struct {
	params   quote.Params
	filename string
	format   string
	tmpPath  string
	form     *multipart.Form
}

// cleanup removes every transient artifact of the request. Runs on all exit
// paths, success and failure alike.
func (u *quoteUpload) cleanup() {
	if u.tmpPath != "" {
		_ = os.Remove(u.tmpPath)
	}
	if u.form != nil {
		_ = u.form.RemoveAll()
	}
}

// readQuoteUpload validates the multipart request and streams the uploaded
// file to a temp file so large meshes never sit fully in form memory. Any
// returned error is a client error.
func (s *server) readQuoteUpload(w http.ResponseWriter, r *http.Request) (*quoteUpload, error) {
	// Hard cap on the whole request body; 1MB of slack for the form fields.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes()+1<<20)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return nil, fmt.Errorf("invalid multipart form: %v", err)
	}

	up := &quoteUpload{form: r.MultipartForm}
	ok := false
	defer func() {
		if !ok {
			up.cleanup()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("file is required")
	}
	defer file.Close()

	up.filename = filepath.Base(header.Filename)
	up.format = strings.ToLower(strings.TrimPrefix(filepath.Ext(header.Filename), "."))
	if !allowedExts[up.format] {
		return nil, fmt.Errorf("Unsupported file type. Upload STL or OBJ.")
	}
	if header.Size > s.cfg.MaxUploadBytes() {
		return nil, fmt.Errorf("File too large (max %dMB).", s.cfg.MaxUploadMB)
	}

	// Content-type is a soft hint only; browsers routinely send
	// octet-stream, so it is logged and never enforced.
	if ct := header.Header.Get("Content-Type"); ct != "" {
		if !strings.Contains(ct, "stl") && !strings.Contains(ct, "obj") && !strings.Contains(ct, "octet-stream") {
			s.log.Debug("upload content-type outside expected set",
				zap.String("request_id", requestIDFrom(r.Context())),
				zap.String("content_type", ct),
			)
		}
	}

	params, err := parseQuoteParams(r, s.engine.Tables())
	if err != nil {
		return nil, err
	}
	up.params = params

	tmp, err := os.CreateTemp("", "quote-*."+up.format)
	if err != nil {
		return nil, fmt.Errorf("spool upload: %v", err)
	}
	up.tmpPath = tmp.Name()
	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("spool upload: %v", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("spool upload: %v", err)
	}

	ok = true
	return up, nil
}

// parseQuoteParams applies defaults and bounds to the optional form fields.
func parseQuoteParams(r *http.Request, tables *quote.Tables) (quote.Params, error) {
	p := quote.Params{
		Material:      quote.DefaultMaterial,
		LayerHeightMM: quote.DefaultLayerMM,
		InfillPct:     quote.DefaultInfillPct,
		Machine:       quote.DefaultMachine,
	}

	if v := r.FormValue("material"); v != "" {
		if !tables.HasMaterial(v) {
			return p, fmt.Errorf("material must be one of the configured materials")
		}
		p.Material = v
	}

	if v := r.FormValue("layer_height_mm"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return p, fmt.Errorf("layer_height_mm must be a number")
		}
		if f < minLayerMM || f > maxLayerMM {
			return p, fmt.Errorf("layer_height_mm must be between %v and %v", minLayerMM, maxLayerMM)
		}
		p.LayerHeightMM = f
	}

	if v := r.FormValue("infill_pct"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, fmt.Errorf("infill_pct must be an integer")
		}
		if n < 0 || n > 100 {
			return p, fmt.Errorf("infill_pct must be between 0 and 100")
		}
		p.InfillPct = n
	}

	// Machine is free-form; unknown keys fall back to the blended profile
	// inside the engine.
	if v := r.FormValue("machine"); v != "" {
		p.Machine = v
	}

	return p, nil
}

func (s *server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encode response", zap.Error(err))
	}
}

func (s *server) writeDetail(w http.ResponseWriter, code int, msg string) {
	s.writeJSON(w, code, map[string]string{"detail": msg})
}
