// Author: DoItWithASmile (2025). Apache 2.0 License

package webhook

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/DoItWithASmile/git-it-write/app/errs"
)

const (
	EventPing = "ping"
	EventPush = "push"
)

// Pusher identifies who triggered the push on the hosting side.
type Pusher struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Date     string `json:"date"`
}

// PushPayload is the subset of the push notification body this service
// acts on. Everything else in the delivery is ignored.
type PushPayload struct {
	Before     string `json:"before"`
	After      string `json:"after"`
	Ref        string `json:"ref"`
	Pusher     Pusher `json:"pusher"`
	Repository struct {
		FullName string `json:"full_name"`
	} `json:"repository"`
}

// Validate runs the admission checks on an incoming delivery, strictly in
// order, and returns the event name and the decoded payload when all of
// them pass. The raw body is authenticated with HMAC-SHA1 against the
// shared secret; the signature covers the bytes as delivered, before any
// decoding.
func Validate(headers http.Header, body []byte, secret string) (string, PushPayload, error) {
	payload := PushPayload{}

	userAgent := headers.Get("User-Agent")
	if userAgent == "" {
		return "", payload, errs.WithStatus(http.StatusForbidden, errs.AuthenticationFailed, "no_user_agent", "missing user agent")
	}
	if !strings.Contains(userAgent, "GitHub-Hookshot") {
		return "", payload, errs.WithStatus(http.StatusForbidden, errs.AuthenticationFailed, "who_are_you", "request does not originate from a known sender")
	}
	event := headers.Get("X-GitHub-Event")
	if event == "" {
		return "", payload, errs.New(errs.ValidationFailed, "no_github_event", "missing event header")
	}
	signature := headers.Get("X-Hub-Signature")
	if signature == "" {
		return "", payload, errs.New(errs.AuthenticationFailed, "no_signature", "missing payload signature")
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Repository.FullName == "" {
		return "", payload, errs.WithStatus(http.StatusInternalServerError, errs.ValidationFailed, "invalid_data", "payload does not identify a repository")
	}
	if event != EventPing && event != EventPush {
		return "", payload, errs.Newf(errs.UnsupportedEvent, "unsupported_event", "event %q is not supported", event)
	}
	if secret == "" {
		return "", payload, errs.WithStatus(http.StatusInternalServerError, errs.NotConfigured, "no_server_secret", "webhook secret is not configured on server")
	}
	if !hmac.Equal([]byte(sign(secret, body)), []byte(signature)) {
		return "", payload, errs.New(errs.AuthenticationFailed, "signature_mismatch", "payload signature does not match")
	}
	return event, payload, nil
}

func sign(secret string, body []byte) string {
	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write(body)
	return "sha1=" + hex.EncodeToString(mac.Sum(nil))
}
