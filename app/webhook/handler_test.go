// Author: DoItWithASmile (2025). Apache 2.0 License

package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DoItWithASmile/git-it-write/app/config"
	"github.com/DoItWithASmile/git-it-write/app/errs"
	"github.com/DoItWithASmile/git-it-write/app/publish"
	"github.com/DoItWithASmile/git-it-write/app/settings"
	"github.com/DoItWithASmile/git-it-write/app/testutil"
)

const testSecret = "hook-secret"

type fakePublisher struct {
	fullNames []string
	summaries []publish.Summary
	err       error
}

func (f *fakePublisher) PublishByFullName(ctx context.Context, fullName string) ([]publish.Summary, error) {
	f.fullNames = append(f.fullNames, fullName)
	return f.summaries, f.err
}

func pushBody(t *testing.T) []byte {
	t.Helper()
	payload := PushPayload{Before: "aaa", After: "bbb", Ref: "refs/heads/main"}
	payload.Pusher = Pusher{Name: "Jo", Username: "jo"}
	payload.Repository.FullName = "acme/docs"
	b, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func signedRequest(event string, body []byte, secret string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/api/webhook/publish", bytes.NewReader(body))
	r.Header.Set("User-Agent", "GitHub-Hookshot/abc123")
	r.Header.Set("X-GitHub-Event", event)
	r.Header.Set("X-GitHub-Delivery", "delivery-1")
	r.Header.Set("X-Hub-Signature", sign(secret, body))
	return r
}

func seedSecret(t *testing.T, secret string) {
	t.Helper()
	config.SetRedis(testutil.NewFakeRedis())
	err := settings.SaveGeneral(context.Background(), settings.GeneralSettings{WebhookSecret: secret})
	if err != nil {
		t.Fatalf("failed to store settings: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	body := pushBody(t)
	tests := []struct {
		name    string
		mutate  func(r *http.Request)
		secret  string
		reqBody []byte
		status  int
		code    string
	}{
		{
			name:    "no user agent",
			mutate:  func(r *http.Request) { r.Header.Del("User-Agent") },
			secret:  testSecret,
			reqBody: body,
			status:  http.StatusForbidden,
			code:    "no_user_agent",
		},
		{
			name:    "unknown sender",
			mutate:  func(r *http.Request) { r.Header.Set("User-Agent", "curl/8.0") },
			secret:  testSecret,
			reqBody: body,
			status:  http.StatusForbidden,
			code:    "who_are_you",
		},
		{
			name:    "missing event",
			mutate:  func(r *http.Request) { r.Header.Del("X-GitHub-Event") },
			secret:  testSecret,
			reqBody: body,
			status:  http.StatusBadRequest,
			code:    "no_github_event",
		},
		{
			name:    "missing signature",
			mutate:  func(r *http.Request) { r.Header.Del("X-Hub-Signature") },
			secret:  testSecret,
			reqBody: body,
			status:  http.StatusUnauthorized,
			code:    "no_signature",
		},
		{
			name:    "no repository in payload",
			mutate:  func(r *http.Request) {},
			secret:  testSecret,
			reqBody: []byte(`{"ref":"refs/heads/main"}`),
			status:  http.StatusInternalServerError,
			code:    "invalid_data",
		},
		{
			name:    "unsupported event",
			mutate:  func(r *http.Request) { r.Header.Set("X-GitHub-Event", "issues") },
			secret:  testSecret,
			reqBody: body,
			status:  http.StatusNotImplemented,
			code:    "unsupported_event",
		},
		{
			name:    "no server secret",
			mutate:  func(r *http.Request) {},
			secret:  "",
			reqBody: body,
			status:  http.StatusInternalServerError,
			code:    "no_server_secret",
		},
		{
			name:    "signature mismatch",
			mutate:  func(r *http.Request) { r.Header.Set("X-Hub-Signature", sign("other-secret", body)) },
			secret:  testSecret,
			reqBody: body,
			status:  http.StatusUnauthorized,
			code:    "signature_mismatch",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := signedRequest(EventPush, test.reqBody, testSecret)
			test.mutate(r)
			_, _, err := Validate(r.Header, test.reqBody, test.secret)
			if err == nil {
				t.Fatal("expected rejection")
			}
			if got := errs.HTTPStatus(err); got != test.status {
				t.Errorf("expected status %v, got %v", test.status, got)
			}
			if got := errs.CodeOf(err); got != test.code {
				t.Errorf("expected code %v, got %v", test.code, got)
			}
		})
	}
}

func TestValidateRejectsTamperedBody(t *testing.T) {
	body := pushBody(t)
	r := signedRequest(EventPush, body, testSecret)

	tampered := bytes.Replace(body, []byte("acme"), []byte("evil"), 1)
	_, _, err := Validate(r.Header, tampered, testSecret)
	if errs.CodeOf(err) != "signature_mismatch" {
		t.Errorf("expected signature mismatch on tampered body, got %v", err)
	}
}

func TestValidateAcceptsSignedPush(t *testing.T) {
	body := pushBody(t)
	r := signedRequest(EventPush, body, testSecret)

	event, payload, err := Validate(r.Header, body, testSecret)
	if err != nil {
		t.Fatalf("unexpected rejection: %v", err)
	}
	if event != EventPush {
		t.Errorf("unexpected event %v", event)
	}
	if payload.Repository.FullName != "acme/docs" || payload.Pusher.Username != "jo" {
		t.Errorf("unexpected payload %+v", payload)
	}
}

func TestHandlerPingPong(t *testing.T) {
	seedSecret(t, testSecret)
	publisher := &fakePublisher{}
	handler := &Handler{Publisher: publisher}

	body := pushBody(t)
	w := httptest.NewRecorder()
	handler.Publish(w, signedRequest(EventPing, body, testSecret))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %v: %v", w.Code, w.Body.String())
	}
	res := publishResponse{}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.Result != "pong" {
		t.Errorf("expected pong, got %v", res.Result)
	}
	if len(publisher.fullNames) != 0 {
		t.Error("ping must not trigger publishing")
	}
}

func TestHandlerPushDispatches(t *testing.T) {
	seedSecret(t, testSecret)
	publisher := &fakePublisher{summaries: []publish.Summary{{Owner: "acme", Repo: "docs", Created: 2}}}
	handler := &Handler{Publisher: publisher}

	w := httptest.NewRecorder()
	handler.Publish(w, signedRequest(EventPush, pushBody(t), testSecret))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %v: %v", w.Code, w.Body.String())
	}
	if len(publisher.fullNames) != 1 || publisher.fullNames[0] != "acme/docs" {
		t.Errorf("unexpected dispatch %v", publisher.fullNames)
	}
	res := publishResponse{}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if len(res.Summaries) != 1 || res.Summaries[0].Created != 2 {
		t.Errorf("unexpected summaries %+v", res.Summaries)
	}
}

func TestHandlerRejectionLeavesPublisherUntouched(t *testing.T) {
	seedSecret(t, testSecret)
	publisher := &fakePublisher{}
	handler := &Handler{Publisher: publisher}

	body := pushBody(t)
	r := signedRequest(EventPush, body, "wrong-secret")
	w := httptest.NewRecorder()
	handler.Publish(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", w.Code)
	}
	if len(publisher.fullNames) != 0 {
		t.Error("rejected delivery must not trigger publishing")
	}
}

func TestHandlerPublisherErrorStatus(t *testing.T) {
	seedSecret(t, testSecret)
	publisher := &fakePublisher{err: errs.New(errs.NotConfigured, "repository_unknown", "repository \"acme/docs\" is not configured on server")}
	handler := &Handler{Publisher: publisher}

	w := httptest.NewRecorder()
	handler.Publish(w, signedRequest(EventPush, pushBody(t), testSecret))

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", w.Code)
	}
	res := errorResponse{}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.Error != "repository_unknown" {
		t.Errorf("unexpected error code %v", res.Error)
	}
}
