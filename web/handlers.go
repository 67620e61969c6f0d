package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/bmizerany/pat"

	"github.com/roljohntorralba/imgopt/config"
	"github.com/roljohntorralba/imgopt/optimize"
)

// Handler ...
func Handler() http.Handler {
	mux := pat.New()
	mux.Get("/api/status", http.HandlerFunc(statusHandler))

	mux.Get("/api/jobs", http.HandlerFunc(jobListHandler))
	mux.Post("/api/jobs", secure(jobCreateHandler))
	mux.Get("/api/jobs/:id/events", http.HandlerFunc(jobEventsHandler))
	mux.Get("/api/jobs/:id", http.HandlerFunc(jobGetHandler))
	mux.Del("/api/jobs/:id", secure(jobCancelHandler))

	mux.Get("/", http.HandlerFunc(indexHandler))

	return mux
}

func statusHandler(w http.ResponseWriter, r *http.Request) {
	m := newApiMeta(true)
	m["version"] = config.Version
	data := map[string]interface{}{
		"name":         config.Current.Name,
		"formats":      []string{optimize.FmtWEBP.String(), optimize.FmtAVIF.String()},
		"webp_quality": config.Current.WebpQuality,
		"avif_quality": config.Current.AvifQuality,
	}
	writeJsonQuiet(w, r, newApiRes(m, data))
}

func jobListHandler(w http.ResponseWriter, r *http.Request) {
	m := newApiMeta(true)
	m["version"] = config.Version
	writeJsonQuiet(w, r, newApiRes(m, listJobs()))
}

func jobCreateHandler(w http.ResponseWriter, r *http.Request) {
	var js jobSchema
	if err := Bind(r, &js); err != nil {
		writeJsonError(w, r, http.StatusBadRequest, err)
		return
	}

	job, err := js.job()
	if err != nil {
		writeJsonError(w, r, http.StatusBadRequest, err)
		return
	}
	if err = job.Validate(); err != nil {
		writeJsonError(w, r, http.StatusBadRequest, err)
		return
	}

	st := launchJob(job)
	logger().Infow("job accepted", "id", job.ID, "src", job.SrcDir, "outputs", len(job.Outputs))

	m := newApiMeta(true)
	m["version"] = config.Version
	writeJsonQuiet(w, r, newApiRes(m, st))
}

func jobGetHandler(w http.ResponseWriter, r *http.Request) {
	st, ok := getJob(r.URL.Query().Get(":id"))
	if !ok {
		writeJsonError(w, r, http.StatusNotFound, ErrJobNotFound)
		return
	}
	writeJsonQuiet(w, r, newApiRes(newApiMeta(true), st))
}

func jobCancelHandler(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get(":id")
	if cancelJob(id) {
		writeJsonQuiet(w, r, newApiRes(newApiMeta(true), nil))
		return
	}
	if _, ok := getJob(id); ok {
		writeJsonError(w, r, http.StatusConflict, errors.New("job already finished"))
		return
	}
	writeJsonError(w, r, http.StatusNotFound, ErrJobNotFound)
}

func jobEventsHandler(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get(":id")
	st, ok := getJob(id)
	if !ok {
		writeJsonError(w, r, http.StatusNotFound, ErrJobNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger().Warnw("ws upgrade fail", "id", id, "err", err)
		return
	}

	// stored state first, live events after
	if err = conn.WriteJSON(snapshotEvent(st)); err != nil {
		conn.Close()
		return
	}
	subscribe(id, conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	unsubscribe(id, conn)
	conn.Close()
}

// snapshotEvent renders a stored job state as the opening message of
// its event stream.
func snapshotEvent(st *JobState) optimize.Event {
	ev := optimize.Event{Kind: optimize.EvProgress, Done: st.Done, Total: st.Total}
	switch st.Status {
	case StatusCompleted:
		ev.Kind = optimize.EvDone
		if st.Summary != nil {
			ev.Message = fmt.Sprintf("Processing complete! %d images processed", st.Summary.Converted)
		}
	case StatusFailed:
		ev.Kind = optimize.EvError
		ev.Message = st.Error
	}
	return ev
}
