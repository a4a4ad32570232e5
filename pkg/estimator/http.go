package estimator

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

// HTTPEntry provides the mountpoint for this service into the shared
// webserver routing tree.
func (e *Estimator) HTTPEntry() chi.Router {
	r := chi.NewRouter()

	r.Get("/census", e.httpCensus)
	r.Get("/jobs/{id}/delay", e.httpDelay)
	r.Get("/jobs/{id}/builder-wait", e.httpBuilderWait)

	return r
}

type censusEntry struct {
	Class string
	Total int
	Free  int
}

func (e *Estimator) httpCensus(w http.ResponseWriter, r *http.Request) {
	if e.src == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	snap := e.src.Snapshot()

	counts := e.Census(snap)
	out := make([]censusEntry, 0, len(counts))
	for class, total := range counts {
		out = append(out, censusEntry{
			Class: class.String(),
			Total: total,
			Free:  e.FreeCount(snap, class),
		})
	}
	e.observeCensus(snap, counts)

	enc := json.NewEncoder(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	enc.Encode(out)
}

func (e *Estimator) httpDelay(w http.ResponseWriter, r *http.Request) {
	if e.src == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	snap := e.src.Snapshot()

	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		jsonError(w, err, http.StatusBadRequest)
		return
	}
	job, ok := snap.JobByID(id)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	delay, err := e.EstimateDelay(snap, job, time.Now())
	if err != nil {
		jsonError(w, err, http.StatusConflict)
		return
	}

	out := struct {
		Job          uint64
		DelaySeconds float64
	}{
		Job:          job.ID,
		DelaySeconds: delay.Seconds(),
	}

	enc := json.NewEncoder(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	enc.Encode(out)
}

func (e *Estimator) httpBuilderWait(w http.ResponseWriter, r *http.Request) {
	if e.src == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	snap := e.src.Snapshot()

	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		jsonError(w, err, http.StatusBadRequest)
		return
	}
	job, ok := snap.JobByID(id)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	out := struct {
		Job         uint64
		WaitSeconds float64
	}{
		Job:         job.ID,
		WaitSeconds: e.MinTimeToBuilder(snap, job, time.Now()).Seconds(),
	}

	enc := json.NewEncoder(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	enc.Encode(out)
}

func jsonError(w http.ResponseWriter, err error, code int) {
	enc := json.NewEncoder(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	out := struct {
		Error string
	}{
		Error: err.Error(),
	}
	enc.Encode(out)
}
