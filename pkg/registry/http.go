package registry

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/the-maldridge/buildq/pkg/types"
)

// HTTPEntry provides the mountpoint for this service into the shared
// webserver routing tree.  The POST handlers are the callbacks the
// surrounding orchestration uses to keep the farm record truthful;
// dispatch decisions themselves are made elsewhere.
func (r *Registry) HTTPEntry() chi.Router {
	rt := chi.NewRouter()

	rt.Get("/builders", r.httpBuilders)
	rt.Post("/builders/{name}", r.httpRegisterBuilder)
	rt.Post("/builders/{name}/ok", r.httpBuilderOK)
	rt.Post("/builders/{name}/manual", r.httpBuilderManual)

	rt.Get("/jobs", r.httpJobs)
	rt.Post("/jobs", r.httpEnqueue)
	rt.Post("/jobs/{id}/start", r.httpStart)
	rt.Post("/jobs/{id}/done", r.httpDone)
	rt.Post("/jobs/{id}/reset", r.httpReset)

	return rt
}

func (r *Registry) httpBuilders(w http.ResponseWriter, req *http.Request) {
	snap := r.Snapshot()
	enc := json.NewEncoder(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	enc.Encode(snap.Builders)
}

func (r *Registry) httpJobs(w http.ResponseWriter, req *http.Request) {
	snap := r.Snapshot()
	enc := json.NewEncoder(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	enc.Encode(snap.Jobs)
}

func (r *Registry) httpRegisterBuilder(w http.ResponseWriter, req *http.Request) {
	in := struct {
		Arch        string
		Virtualized bool
		OK          bool
		Manual      bool
	}{}
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		jsonError(w, err, http.StatusBadRequest)
		return
	}

	cap := types.NewCapability(in.Arch, in.Virtualized)
	if err := r.RegisterBuilder(chi.URLParam(req, "name"), cap, in.OK, in.Manual); err != nil {
		jsonError(w, err, http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (r *Registry) httpBuilderOK(w http.ResponseWriter, req *http.Request) {
	in := struct{ OK bool }{}
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		jsonError(w, err, http.StatusBadRequest)
		return
	}
	if err := r.SetBuilderOK(chi.URLParam(req, "name"), in.OK); err != nil {
		httpRegistryError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (r *Registry) httpBuilderManual(w http.ResponseWriter, req *http.Request) {
	in := struct{ Manual bool }{}
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		jsonError(w, err, http.StatusBadRequest)
		return
	}
	if err := r.SetBuilderManual(chi.URLParam(req, "name"), in.Manual); err != nil {
		httpRegistryError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (r *Registry) httpEnqueue(w http.ResponseWriter, req *http.Request) {
	in := struct {
		Kind             string
		Arch             string
		Virtualized      bool
		Score            int
		EstimatedSeconds int
	}{}
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		jsonError(w, err, http.StatusBadRequest)
		return
	}

	id, err := r.Enqueue(
		types.JobKind(in.Kind),
		types.NewCapability(in.Arch, in.Virtualized),
		in.Score,
		time.Duration(in.EstimatedSeconds)*time.Second,
	)
	if err != nil {
		jsonError(w, err, http.StatusInternalServerError)
		return
	}

	out := struct{ ID uint64 }{ID: id}
	enc := json.NewEncoder(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	enc.Encode(out)
}

func (r *Registry) httpStart(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(req, "id"), 10, 64)
	if err != nil {
		jsonError(w, err, http.StatusBadRequest)
		return
	}
	in := struct{ Builder string }{}
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		jsonError(w, err, http.StatusBadRequest)
		return
	}
	if err := r.MarkBuilding(id, in.Builder, time.Now()); err != nil {
		httpRegistryError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (r *Registry) httpDone(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(req, "id"), 10, 64)
	if err != nil {
		jsonError(w, err, http.StatusBadRequest)
		return
	}
	if err := r.Complete(id); err != nil {
		httpRegistryError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (r *Registry) httpReset(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(req, "id"), 10, 64)
	if err != nil {
		jsonError(w, err, http.StatusBadRequest)
		return
	}
	if err := r.Reset(id); err != nil {
		httpRegistryError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// httpRegistryError maps the package's error types onto status
// codes.
func httpRegistryError(w http.ResponseWriter, err error) {
	switch {
	case errors.As(err, &ErrNoSuchBuilder{}), errors.As(err, &ErrNoSuchJob{}):
		jsonError(w, err, http.StatusNotFound)
	case errors.As(err, &ErrBuilderBusy{}), errors.As(err, &ErrWrongState{}), errors.As(err, &ErrCapabilityMismatch{}):
		jsonError(w, err, http.StatusConflict)
	default:
		jsonError(w, err, http.StatusInternalServerError)
	}
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
