package twitter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/edgard/gubot/internal/config"
	boterrors "github.com/edgard/gubot/internal/errors"
)

const rateLimitBody = `{"title":"Too Many Requests","detail":"Too Many Requests","type":"about:blank","status":429}`

type seen struct {
	repliedTo   string
	repliedText string
	mentionAuth string
	meAuth      string
	maxResults  string
}

type fakeAPI struct {
	t           *testing.T
	rateLimited bool
	serverError bool

	mu   sync.Mutex
	seen seen
}

func (f *fakeAPI) record(fn func(*seen)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(&f.seen)
}

func (f *fakeAPI) snapshot() seen {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/2/users/me", func(w http.ResponseWriter, r *http.Request) {
		f.record(func(s *seen) { s.meAuth = r.Header.Get("Authorization") })
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"id":"42","name":"GU Factory","username":"gubot"}}`))
	})

	mux.HandleFunc("/2/users/42/mentions", func(w http.ResponseWriter, r *http.Request) {
		f.record(func(s *seen) {
			s.mentionAuth = r.Header.Get("Authorization")
			s.maxResults = r.URL.Query().Get("max_results")
		})
		w.Header().Set("Content-Type", "application/json")
		switch {
		case f.rateLimited:
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(rateLimitBody))
		case f.serverError:
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"title":"Service Unavailable","detail":"try later","type":"about:blank","status":503}`))
		default:
			_, _ = w.Write([]byte(`{
				"data":[
					{"id":"101","text":"@gubot gm","author_id":"7"},
					{"id":"100","text":"@gubot deploy token 'Luna' with ticker 'LUN' and description 'lunar coin'","author_id":"8"}
				],
				"meta":{"result_count":2,"newest_id":"101","oldest_id":"100"}
			}`))
		}
	})

	mux.HandleFunc("/2/tweets", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var body struct {
			Text  string `json:"text"`
			Reply struct {
				InReplyToTweetID string `json:"in_reply_to_tweet_id"`
			} `json:"reply"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			f.t.Errorf("decode create tweet body: %v", err)
		}
		f.record(func(s *seen) {
			s.repliedTo = body.Reply.InReplyToTweetID
			s.repliedText = body.Text
		})

		w.Header().Set("Content-Type", "application/json")
		if f.rateLimited {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(rateLimitBody))
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"555","text":"ok"}}`))
	})

	return mux
}

func newTestClient(t *testing.T, api *fakeAPI, cfg config.TwitterConfig) *Client {
	t.Helper()
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)

	cfg.APIHost = srv.URL
	c, err := NewClient(cfg, nil)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c
}

func fullCredentials() config.TwitterConfig {
	return config.TwitterConfig{
		BearerToken:       "app-token",
		APIKey:            "consumer",
		APISecret:         "consumer-secret",
		AccessToken:       "access",
		AccessTokenSecret: "access-secret",
	}
}

func TestMeUsesUserContext(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{t: t}
	c := newTestClient(t, api, fullCredentials())

	id, err := c.Me(context.Background())
	if err != nil {
		t.Fatalf("Me() error = %v", err)
	}
	if id != "42" {
		t.Errorf("Me() = %q, want 42", id)
	}
	if !strings.HasPrefix(api.snapshot().meAuth, "OAuth ") {
		t.Errorf("own account lookup Authorization = %q, want OAuth 1.0a signature", api.snapshot().meAuth)
	}
}

func TestMentionsUsesBearerToken(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{t: t}
	c := newTestClient(t, api, fullCredentials())

	got, err := c.Mentions(context.Background(), "42", 5)
	if err != nil {
		t.Fatalf("Mentions() error = %v", err)
	}

	want := []Mention{
		{ID: "101", Text: "@gubot gm", AuthorID: "7"},
		{ID: "100", Text: "@gubot deploy token 'Luna' with ticker 'LUN' and description 'lunar coin'", AuthorID: "8"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Mentions() mismatch (-want +got):\n%s", diff)
	}
	if api.snapshot().mentionAuth != "Bearer app-token" {
		t.Errorf("mentions Authorization = %q", api.snapshot().mentionAuth)
	}
	if api.snapshot().maxResults != "5" {
		t.Errorf("max_results = %q, want 5", api.snapshot().maxResults)
	}
}

func TestMentionsFallsBackToUserContext(t *testing.T) {
	t.Parallel()

	cfg := fullCredentials()
	cfg.BearerToken = ""
	api := &fakeAPI{t: t}
	c := newTestClient(t, api, cfg)

	if _, err := c.Mentions(context.Background(), "42", 5); err != nil {
		t.Fatalf("Mentions() error = %v", err)
	}
	if !strings.HasPrefix(api.snapshot().mentionAuth, "OAuth ") {
		t.Errorf("mentions Authorization = %q, want OAuth 1.0a signature", api.snapshot().mentionAuth)
	}
}

func TestReply(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{t: t}
	c := newTestClient(t, api, fullCredentials())

	id, err := c.Reply(context.Background(), "100", "Your token 'Luna' has been deployed!")
	if err != nil {
		t.Fatalf("Reply() error = %v", err)
	}
	if id != "555" {
		t.Errorf("Reply() = %q, want 555", id)
	}
	if api.snapshot().repliedTo != "100" {
		t.Errorf("in_reply_to_tweet_id = %q, want 100", api.snapshot().repliedTo)
	}
	if api.snapshot().repliedText != "Your token 'Luna' has been deployed!" {
		t.Errorf("text = %q", api.snapshot().repliedText)
	}
}

func TestErrorClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		api      *fakeAPI
		call     func(*Client) error
		wantCode string
	}{
		{
			name: "mentions rate limited",
			api:  &fakeAPI{rateLimited: true},
			call: func(c *Client) error {
				_, err := c.Mentions(context.Background(), "42", 5)
				return err
			},
			wantCode: boterrors.CodeRateLimit,
		},
		{
			name: "reply rate limited",
			api:  &fakeAPI{rateLimited: true},
			call: func(c *Client) error {
				_, err := c.Reply(context.Background(), "100", "hi")
				return err
			},
			wantCode: boterrors.CodeRateLimit,
		},
		{
			name: "mentions unavailable",
			api:  &fakeAPI{serverError: true},
			call: func(c *Client) error {
				_, err := c.Mentions(context.Background(), "42", 5)
				return err
			},
			wantCode: boterrors.CodeAPI,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tt.api.t = t
			c := newTestClient(t, tt.api, fullCredentials())

			err := tt.call(c)
			if err == nil {
				t.Fatal("call succeeded, want error")
			}
			if got := boterrors.Code(err); got != tt.wantCode {
				t.Errorf("Code() = %s, want %s (err: %v)", got, tt.wantCode, err)
			}
		})
	}
}

func TestNewClientCredentials(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(config.TwitterConfig{APIHost: "https://api.twitter.com"}, nil); boterrors.Code(err) != boterrors.CodeConfig {
		t.Errorf("NewClient(no credentials) error = %v, want ConfigError", err)
	}

	bearerOnly, err := NewClient(config.TwitterConfig{APIHost: "https://api.twitter.com", BearerToken: "t"}, nil)
	if err != nil {
		t.Fatalf("NewClient(bearer only) error = %v", err)
	}
	if _, err := bearerOnly.Reply(context.Background(), "1", "x"); boterrors.Code(err) != boterrors.CodeConfig {
		t.Errorf("Reply() without user context error = %v, want ConfigError", err)
	}
	if _, err := bearerOnly.Me(context.Background()); boterrors.Code(err) != boterrors.CodeConfig {
		t.Errorf("Me() without user context error = %v, want ConfigError", err)
	}
}
