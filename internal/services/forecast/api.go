package forecast

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/LeonardoBeccarini/coffee_forecast/internal/model/entities"
	"github.com/LeonardoBeccarini/coffee_forecast/internal/services/exporter"
)

// SessionView is the JSON shape of a session.
type SessionView struct {
	ID            string            `json:"id"`
	Category      entities.Category `json:"category"`
	CategoryLabel string            `json:"category_label"`
	Fields        entities.FieldSet `json:"fields"`
	Complete      bool              `json:"complete"`
	Busy          bool              `json:"busy"`
	Prediction    []DisplayMetric   `json:"prediction"`
	SubmittedAt   *time.Time        `json:"submitted_at,omitempty"`
}

func viewOf(snap Snapshot) SessionView {
	v := SessionView{
		ID:            snap.ID,
		Category:      snap.Category,
		CategoryLabel: snap.Category.Label(),
		Fields:        snap.Fields,
		Complete:      snap.Complete,
		Busy:          snap.Busy,
		Prediction:    FormattedPrediction(snap.Prediction),
	}
	if !snap.SubmittedAt.IsZero() {
		t := snap.SubmittedAt.UTC()
		v.SubmittedAt = &t
	}
	return v
}

type valueBody struct {
	Value string `json:"value"`
}

type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// API serves the prediction sessions over HTTP.
type API struct {
	svc    *Service
	logger *zap.Logger
}

func NewAPI(svc *Service, logger *zap.Logger) *API {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{svc: svc, logger: logger.With(zap.String("component", "api"))}
}

// Register mounts the session and export routes on mux.
func (a *API) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /sessions", a.createSession)
	mux.HandleFunc("GET /sessions/{id}", a.withSession(a.getSession))
	mux.HandleFunc("DELETE /sessions/{id}", a.deleteSession)
	mux.HandleFunc("PUT /sessions/{id}/fields/{name}", a.withSession(a.updateField))
	mux.HandleFunc("PUT /sessions/{id}/category", a.withSession(a.setCategory))
	mux.HandleFunc("POST /sessions/{id}/submit", a.withSession(a.submit))
	mux.HandleFunc("POST /sessions/{id}/reset", a.withSession(a.reset))
	mux.HandleFunc("POST /sessions/{id}/export", a.withSession(a.export))

	mux.HandleFunc("GET /exports", a.listExports)
	mux.HandleFunc("GET /exports/{name}", a.downloadExport)
	mux.HandleFunc("GET /exports/{name}/rows", a.exportRows)

	mux.HandleFunc("GET /fields", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, entities.Variables)
	})
}

func (a *API) withSession(h func(http.ResponseWriter, *http.Request, *Session)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := a.svc.Session(r.PathValue("id"))
		if err != nil {
			a.fail(w, r, err)
			return
		}
		h(w, r, sess)
	}
}

func (a *API) createSession(w http.ResponseWriter, _ *http.Request) {
	sess := a.svc.NewSession()
	writeJSON(w, http.StatusCreated, viewOf(sess.Snapshot()))
}

func (a *API) getSession(w http.ResponseWriter, _ *http.Request, sess *Session) {
	writeJSON(w, http.StatusOK, viewOf(sess.Snapshot()))
}

func (a *API) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := a.svc.CloseSession(r.PathValue("id")); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) updateField(w http.ResponseWriter, r *http.Request, sess *Session) {
	var body valueBody
	if !decodeBody(w, r, &body) {
		return
	}
	accepted, complete, err := sess.Update(r.PathValue("name"), body.Value)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"accepted": accepted, "complete": complete})
}

func (a *API) setCategory(w http.ResponseWriter, r *http.Request, sess *Session) {
	var body valueBody
	if !decodeBody(w, r, &body) {
		return
	}
	if err := sess.SetCategory(body.Value); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Tipo de café no válido.", Detail: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess.Snapshot()))
}

func (a *API) submit(w http.ResponseWriter, r *http.Request, sess *Session) {
	result, err := a.svc.Submit(r.Context(), sess)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"prediction": FormattedPrediction(result)})
}

func (a *API) reset(w http.ResponseWriter, _ *http.Request, sess *Session) {
	sess.Reset()
	writeJSON(w, http.StatusOK, viewOf(sess.Snapshot()))
}

func (a *API) export(w http.ResponseWriter, r *http.Request, sess *Session) {
	h, err := a.svc.Export(r.Context(), sess)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"file":    h.Name,
		"bytes":   h.Bytes,
		"message": "Archivo guardado como " + h.Name,
	})
}

func (a *API) listExports(w http.ResponseWriter, r *http.Request) {
	entries, err := a.svc.ListExports()
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if entries == nil {
		entries = []exporter.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (a *API) downloadExport(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	data, err := a.svc.DownloadExport(name)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	_, _ = w.Write(data)
}

func (a *API) exportRows(w http.ResponseWriter, r *http.Request) {
	rec, err := a.svc.ReadExport(r.PathValue("name"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (a *API) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusCode(err)
	if status >= http.StatusInternalServerError {
		a.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	writeJSON(w, status, errorBody{Error: UserMessage(err), Detail: err.Error()})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<16))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Solicitud no válida.", Detail: err.Error()})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
