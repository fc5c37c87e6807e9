package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dhannywi/surfwax-iss/internal/domain"
)

// handleReload re-fetches the ephemeris feed and returns the freshly
// installed dataset. Serves both GET / and POST /post-data.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	ds, err := s.reload.Reload(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ds)
}

func (s *Server) handleDeleteData(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Clear(); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.metrics.DatasetStateVectors.Set(0)
	s.logger.Info("ephemeris dataset deleted")
	writeJSON(w, http.StatusOK, map[string]string{"message": "all data has been removed"})
}

func (s *Server) handleEpochs(w http.ResponseWriter, r *http.Request) {
	ds, err := s.store.Snapshot()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	offset, err := intParam(r, "offset")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	limit, err := intParam(r, "limit")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	epochs, err := domain.WindowEpochs(ds.Epochs(), offset, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, epochs)
}

func (s *Server) handleEpoch(w http.ResponseWriter, r *http.Request) {
	ds, err := s.store.Snapshot()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	vec, err := ds.FindByEpoch(r.PathValue("epoch"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vec)
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	vec, err := s.derivedVector(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	speed, err := domain.Speed(vec)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, speed)
}

func (s *Server) handleLocation(w http.ResponseWriter, r *http.Request) {
	vec, err := s.derivedVector(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	loc, err := domain.LocationOf(vec)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	loc = domain.ResolvePlace(r.Context(), loc, s.geocoder, s.logger)
	writeJSON(w, http.StatusOK, loc)
}

func (s *Server) handleNow(w http.ResponseWriter, r *http.Request) {
	ds, err := s.store.Snapshot()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	state, err := ds.CurrentSnapshot()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	state.Location = domain.ResolvePlace(r.Context(), state.Location, s.geocoder, s.logger)
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleComment(w http.ResponseWriter, r *http.Request) {
	ds, err := s.store.Snapshot()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ds.Comments)
}

func (s *Server) handleHeader(w http.ResponseWriter, r *http.Request) {
	ds, err := s.store.Snapshot()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ds.Header)
}

func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	ds, err := s.store.Snapshot()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ds.Metadata)
}

// derivedVector looks up the state vector for a derived-quantity route.
// An unknown epoch is reported as invalid here: the caller asked for a
// quantity of a record that does not exist.
func (s *Server) derivedVector(r *http.Request) (domain.StateVector, error) {
	ds, err := s.store.Snapshot()
	if err != nil {
		return domain.StateVector{}, err
	}
	epoch := r.PathValue("epoch")
	vec, err := ds.FindByEpoch(epoch)
	if err != nil {
		return domain.StateVector{}, fmt.Errorf("%w: %q", domain.ErrInvalidEpoch, epoch)
	}
	return vec, nil
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = "internal error"
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusFor maps domain errors onto HTTP status codes. Deadline errors are
// checked before upstream errors: a fetch that timed out matches both, and
// 504 is the more precise answer.
func statusFor(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, domain.ErrInvalidParameter),
		errors.Is(err, domain.ErrEmptyRange),
		errors.Is(err, domain.ErrInvalidEpoch):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNoData),
		errors.Is(err, domain.ErrUnknownEpoch):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUpstream),
		errors.Is(err, domain.ErrParse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// intParam reads an optional integer query parameter. A nil result with a
// nil error means the parameter was absent.
func intParam(r *http.Request, name string) (*int, error) {
	values, ok := r.URL.Query()[name]
	if !ok || len(values) == 0 {
		return nil, nil
	}
	n, err := strconv.Atoi(values[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q is not an integer", domain.ErrInvalidParameter, name, values[0])
	}
	return &n, nil
}
