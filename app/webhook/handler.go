// Author: DoItWithASmile (2025). Apache 2.0 License

package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/DoItWithASmile/git-it-write/app/errs"
	"github.com/DoItWithASmile/git-it-write/app/logging"
	"github.com/DoItWithASmile/git-it-write/app/publish"
	"github.com/DoItWithASmile/git-it-write/app/settings"
)

// Publisher dispatches a push notification to every matching repository
// configuration.
type Publisher interface {
	PublishByFullName(ctx context.Context, fullName string) ([]publish.Summary, error)
}

// Handler answers webhook deliveries from the hosting platform.
type Handler struct {
	Publisher Publisher
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type publishResponse struct {
	Result    string            `json:"result"`
	Summaries []publish.Summary `json:"summaries,omitempty"`
}

func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, errs.Wrap(errs.ValidationFailed, "invalid_data", err))
		return
	}

	delivery := r.Header.Get("X-GitHub-Delivery")
	if delivery != "" {
		logging.Logger.Printf("[webhook] delivery %v received\n", delivery)
	}

	general, err := settings.General(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	event, payload, err := Validate(r.Header, body, general.WebhookSecret)
	if err != nil {
		logging.Logger.Printf("[webhook] delivery rejected: %v\n", err)
		writeError(w, err)
		return
	}

	if event == EventPing {
		writeJSON(w, http.StatusOK, publishResponse{Result: "pong"})
		return
	}

	logging.Logger.Printf("[webhook] push to %v (%v): %v -> %v by %v\n",
		payload.Repository.FullName, payload.Ref, payload.Before, payload.After, payload.Pusher.Username)

	summaries, err := h.Publisher.PublishByFullName(r.Context(), payload.Repository.FullName)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, publishResponse{Result: "published", Summaries: summaries})
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, errs.HTTPStatus(err), errorResponse{Error: errs.CodeOf(err), Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Logger.Printf("failed to write response: %v\n", err)
	}
}
