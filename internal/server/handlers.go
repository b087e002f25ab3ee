package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/agbru/picalc/internal/config"
	apperrors "github.com/agbru/picalc/internal/errors"
	"github.com/agbru/picalc/internal/logging"
	"github.com/agbru/picalc/internal/service"
)

// MaxThreads bounds the threads parameter of /pi.
const MaxThreads = 1024

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.writeJSONResponse(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	})
}

func (s *Server) handleEngines(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.writeJSONResponse(w, http.StatusOK, map[string]any{
		"engines": s.factory.List(),
	})
}

// piParams is the parsed query of a /pi request.
type piParams struct {
	digits  int
	threads int
	engine  string
}

// handlePi computes π for GET /pi?digits=N[&threads=K][&engine=E]. Invalid
// parameters and oversized requests get 400; a failed or timed out
// computation gets 200 with the error field set.
func (s *Server) handlePi(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	params, err := s.parsePiParams(r)
	if err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, span := otel.Tracer("picalc/server").Start(r.Context(), "GET /pi")
	span.SetAttributes(
		attribute.Int("digits", params.digits),
		attribute.Int("threads", params.threads),
		attribute.String("engine", params.engine),
	)
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, s.timeouts.RequestTimeout)
	defer cancel()

	start := time.Now()
	res, err := s.compute(ctx, params)
	if errors.Is(err, service.ErrMaxDigitsExceeded) {
		s.writeErrorResponse(w, http.StatusBadRequest,
			fmt.Sprintf("Value of 'digits' exceeds maximum allowed (%d).", s.cfg.MaxDigits))
		return
	}

	resp := PiResponse{
		Digits:  params.digits,
		Threads: params.threads,
		Engine:  params.engine,
	}
	if err != nil {
		span.RecordError(err)
		s.logComputeError(params, err)
		resp.Error = err.Error()
		resp.Duration = time.Since(start).String()
	} else {
		resp.Value = res.Value
		resp.Cached = res.Cached
		resp.Duration = res.Duration.String()
	}
	s.writeJSONResponse(w, http.StatusOK, resp)
}

// logComputeError logs a failed /pi computation. Timeouts are expected
// under load and only warrant a warning.
func (s *Server) logComputeError(params piParams, err error) {
	fields := []logging.Field{
		logging.String("engine", params.engine),
		logging.Int("digits", params.digits),
		logging.Int("threads", params.threads),
	}
	if apperrors.IsContextError(err) {
		s.logger.Warn("calculation did not finish in time", append(fields, logging.Err(err))...)
		return
	}
	s.logger.Error("calculation failed", err, fields...)
}

// compute runs the service on its own goroutine so that the request timeout
// bounds the response even though the arithmetic cannot be interrupted.
func (s *Server) compute(ctx context.Context, params piParams) (service.Result, error) {
	type outcome struct {
		res service.Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := s.service.Compute(ctx, params.engine, params.digits, params.threads)
		done <- outcome{res, err}
	}()

	select {
	case o := <-done:
		return o.res, o.err
	case <-ctx.Done():
		return service.Result{}, fmt.Errorf("calculation did not finish in time: %w", ctx.Err())
	}
}

func (s *Server) parsePiParams(r *http.Request) (piParams, error) {
	q := r.URL.Query()

	digitsStr := q.Get("digits")
	if digitsStr == "" {
		return piParams{}, paramError{"Missing 'digits' parameter"}
	}
	digits, err := strconv.Atoi(digitsStr)
	if err != nil || digits < 0 {
		return piParams{}, paramError{"Invalid 'digits' parameter: must be a non-negative integer"}
	}

	threads := max(s.cfg.Threads, 1)
	if v := q.Get("threads"); v != "" {
		threads, err = strconv.Atoi(v)
		if err != nil || threads < 1 || threads > MaxThreads {
			return piParams{}, paramError{fmt.Sprintf("Invalid 'threads' parameter: must be between 1 and %d", MaxThreads)}
		}
	}

	engine := q.Get("engine")
	if engine == "" {
		engine = s.cfg.Engine
	}
	if engine == "" || engine == config.AllEngines {
		engine = config.DefaultEngine
	}
	if !s.factory.Has(engine) {
		return piParams{}, paramError{fmt.Sprintf("Invalid 'engine' parameter: must be one of [%s]", strings.Join(s.factory.List(), ", "))}
	}
	return piParams{digits: digits, threads: threads, engine: engine}, nil
}

func (s *Server) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", err)
	}
}

func (s *Server) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	s.writeJSONResponse(w, statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}
