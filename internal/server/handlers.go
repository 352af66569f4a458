package server

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/searchlab/pkg/buildinfo"
	"github.com/matzehuels/searchlab/pkg/errors"
	"github.com/matzehuels/searchlab/pkg/pipeline"
	"github.com/matzehuels/searchlab/pkg/search"
)

type handlerFunc func(w http.ResponseWriter, r *http.Request) error

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

// compareRequest is a solve request plus the strategies to run. An empty
// list runs all four.
type compareRequest struct {
	pipeline.Options
	Strategies []string `json:"strategies,omitempty"`
}

type compareResponse struct {
	Results []pipeline.Comparison `json:"results"`
	Best    string                `json:"best,omitempty"`
}

// wrap turns a handlerFunc into an http.HandlerFunc, rendering returned
// errors as JSON.
func (s *Server) wrap(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			s.handleError(w, r, err)
		}
	}
}

func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	logger := log.FromContext(r.Context())
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	msg := errors.UserMessage(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "err", err)
		if code == errors.ErrCodeInternal {
			msg = "internal server error"
		}
	} else {
		logger.Debug("request rejected", "status", status, "code", code, "err", err)
	}
	writeJSON(w, status, errorResponse{Code: string(code), Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// decode reads a single JSON value from the request body, rejecting unknown
// fields, trailing data and bodies over the configured limit.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	defer body.Close()

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return errors.New(errors.ErrCodeLimitExceeded, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request")
	}
	if err := dec.Decode(&json.RawMessage{}); err != io.EOF {
		return errors.New(errors.ErrCodeInvalidInput, "unexpected data after request body")
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) error {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
	return nil
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) error {
	var opts pipeline.Options
	if err := s.decode(w, r, &opts); err != nil {
		return err
	}
	if err := s.prepare(r, &opts); err != nil {
		return err
	}
	sol, err := s.cfg.Runner.Execute(r.Context(), opts)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, sol)
	return nil
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) error {
	var req compareRequest
	if err := s.decode(w, r, &req); err != nil {
		return err
	}
	strategies := make([]search.Strategy, 0, len(req.Strategies))
	for _, name := range req.Strategies {
		st, err := search.ParseStrategy(name)
		if err != nil {
			return err
		}
		strategies = append(strategies, st)
	}
	if err := s.prepare(r, &req.Options); err != nil {
		return err
	}

	results, err := s.cfg.Runner.Compare(r.Context(), req.Options, strategies)
	if err != nil {
		return err
	}
	resp := compareResponse{Results: results}
	if best := pipeline.Best(results); best != nil {
		resp.Best = best.Strategy
	}
	writeJSON(w, http.StatusOK, resp)
	return nil
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) error {
	var opts pipeline.RenderOptions
	if err := s.decode(w, r, &opts); err != nil {
		return err
	}
	opts.Domain = pipeline.DomainGraph
	if err := s.prepare(r, &opts.Options); err != nil {
		return err
	}

	out, sol, err := s.cfg.Runner.Render(r.Context(), opts)
	if err != nil {
		return err
	}
	if sol != nil {
		w.Header().Set("X-Run-ID", sol.RunID)
	}
	if opts.Format == pipeline.FormatDOT {
		w.Header().Set("Content-Type", "text/vnd.graphviz")
	} else {
		w.Header().Set("Content-Type", "image/svg+xml")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
	return nil
}

// prepare applies server limits, resolves graph files and attaches the
// request logger.
func (s *Server) prepare(r *http.Request, o *pipeline.Options) error {
	if err := s.resolveGraphFile(o); err != nil {
		return err
	}
	s.applyLimits(o)
	o.Logger = log.FromContext(r.Context())
	return nil
}
