// Author: DoItWithASmile (2025). Apache 2.0 License

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/DoItWithASmile/git-it-write/app/config"
	"github.com/DoItWithASmile/git-it-write/app/errs"
	"github.com/DoItWithASmile/git-it-write/app/logging"
	"github.com/DoItWithASmile/git-it-write/app/publish"
	"github.com/DoItWithASmile/git-it-write/app/settings"
	"github.com/DoItWithASmile/git-it-write/app/webhook"
)

// Start registers the routes and serves until ctx is cancelled.
func Start(ctx context.Context) error {
	orchestrator, err := publish.NewOrchestrator(ctx)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:    config.Address(),
		Handler: Routes(orchestrator),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.Logger.Println("server shutdown:", err)
		}
	}()

	logging.Logger.Println("listening on", srv.Addr)
	err = srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Routes builds the request multiplexer for the webhook endpoint and the
// administrative settings api.
func Routes(orchestrator *publish.Orchestrator) http.Handler {
	hook := &webhook.Handler{Publisher: orchestrator}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/webhook/publish", hook.Publish)

	mux.HandleFunc("GET /api/settings/general", getGeneralSettings)
	mux.HandleFunc("POST /api/settings/general", saveGeneralSettings)
	mux.HandleFunc("GET /api/settings/repositories", listRepositories)
	mux.HandleFunc("POST /api/settings/repositories", saveRepository)
	mux.HandleFunc("DELETE /api/settings/repositories/{id}", deleteRepository)

	mux.HandleFunc("POST /api/publish/{id}", publishRepository(orchestrator))
	return mux
}

func getGeneralSettings(w http.ResponseWriter, r *http.Request) {
	res, err := settings.General(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func saveGeneralSettings(w http.ResponseWriter, r *http.Request) {
	req := settings.GeneralSettings{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errs.Wrap(errs.ValidationFailed, "invalid_data", err))
		return
	}
	if err := settings.SaveGeneral(r.Context(), req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func listRepositories(w http.ResponseWriter, r *http.Request) {
	res, err := settings.Repositories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func saveRepository(w http.ResponseWriter, r *http.Request) {
	req := settings.RepositoryConfig{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errs.Wrap(errs.ValidationFailed, "invalid_data", err))
		return
	}
	if req.Owner == "" || req.Repo == "" {
		writeError(w, errs.New(errs.ValidationFailed, "repository_name_invalid", "owner and repository are required"))
		return
	}
	saved, err := settings.SaveRepository(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func deleteRepository(w http.ResponseWriter, r *http.Request) {
	if err := settings.DeleteRepository(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"result": "deleted"})
}

func publishRepository(orchestrator *publish.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := orchestrator.PublishByID(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, errs.HTTPStatus(err), map[string]string{"error": errs.CodeOf(err), "message": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Logger.Println("failed to write response:", err)
	}
}
