// Package twitter wraps the X API v2 calls the bot makes: looking up its own account,
// reading its mentions and replying to them.
package twitter

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dghubble/oauth1"
	gotwitter "github.com/g8rswimmer/go-twitter/v2"

	"github.com/edgard/gubot/internal/config"
	boterrors "github.com/edgard/gubot/internal/errors"
	"github.com/edgard/gubot/internal/logger"
)

// Mention is a post that references the bot account.
type Mention struct {
	ID       string
	Text     string
	AuthorID string
}

// bearerAuthorizer adds an app-only bearer token to each request.
type bearerAuthorizer struct {
	token string
}

func (a bearerAuthorizer) Add(req *http.Request) {
	req.Header.Add("Authorization", "Bearer "+a.token)
}

// signedAuthorizer leaves requests alone; the OAuth 1.0a transport signs them.
type signedAuthorizer struct{}

func (signedAuthorizer) Add(*http.Request) {}

// Client talks to the X API. Reads go through the bearer token when one is
// configured; anything acting as the bot account goes through OAuth 1.0a user context.
type Client struct {
	reader *gotwitter.Client
	writer *gotwitter.Client
	log    *slog.Logger
}

// NewClient builds the reader and writer API clients from configuration.
func NewClient(cfg config.TwitterConfig, log *slog.Logger) (*Client, error) {
	if log == nil {
		log = logger.Discard()
	}
	log = log.With("component", "twitter_client")

	if !cfg.HasUserContext() && cfg.BearerToken == "" {
		return nil, boterrors.NewConfigError("no X API credentials configured", nil)
	}

	var writer *gotwitter.Client
	if cfg.HasUserContext() {
		oauthCfg := oauth1.NewConfig(cfg.APIKey, cfg.APISecret)
		httpClient := oauthCfg.Client(oauth1.NoContext, oauth1.NewToken(cfg.AccessToken, cfg.AccessTokenSecret))
		httpClient.Transport = logger.Transport(log, httpClient.Transport)
		writer = &gotwitter.Client{
			Authorizer: signedAuthorizer{},
			Client:     httpClient,
			Host:       cfg.APIHost,
		}
	} else {
		log.Warn("OAuth 1.0a credentials missing; own account lookup and replies will fail")
	}

	reader := writer
	if cfg.BearerToken != "" {
		reader = &gotwitter.Client{
			Authorizer: bearerAuthorizer{token: cfg.BearerToken},
			Client:     &http.Client{Transport: logger.Transport(log, nil)},
			Host:       cfg.APIHost,
		}
	}

	log.Info("X API client initialized",
		"host", cfg.APIHost,
		"bearer_reads", cfg.BearerToken != "",
		"user_context", cfg.HasUserContext())

	return &Client{reader: reader, writer: writer, log: log}, nil
}

// Me returns the id of the authenticated bot account.
func (c *Client) Me(ctx context.Context) (string, error) {
	if c.writer == nil {
		return "", boterrors.NewConfigError("own account lookup needs OAuth 1.0a credentials", nil)
	}

	resp, err := c.writer.AuthUserLookup(ctx, gotwitter.UserLookupOpts{})
	if err != nil {
		return "", classify("failed to look up own account", err)
	}
	if resp.Raw == nil || len(resp.Raw.Users) == 0 || resp.Raw.Users[0] == nil {
		return "", boterrors.NewAPIError("own account lookup returned no user", nil)
	}

	return resp.Raw.Users[0].ID, nil
}

// Mentions returns up to maxResults of the most recent mentions of userID, in API order
// (newest first).
func (c *Client) Mentions(ctx context.Context, userID string, maxResults int) ([]Mention, error) {
	if c.reader == nil {
		return nil, boterrors.NewConfigError("reading mentions needs a bearer token or OAuth 1.0a credentials", nil)
	}

	resp, err := c.reader.UserMentionTimeline(ctx, userID, gotwitter.UserMentionTimelineOpts{
		MaxResults:  maxResults,
		TweetFields: []gotwitter.TweetField{gotwitter.TweetFieldAuthorID},
	})
	if err != nil {
		return nil, classify("failed to fetch mentions", err)
	}
	if resp.Raw == nil {
		return nil, nil
	}

	mentions := make([]Mention, 0, len(resp.Raw.Tweets))
	for _, t := range resp.Raw.Tweets {
		if t == nil {
			continue
		}
		mentions = append(mentions, Mention{ID: t.ID, Text: t.Text, AuthorID: t.AuthorID})
	}
	return mentions, nil
}

// Reply posts text as a reply to the post with id inReplyTo and returns the new post id.
func (c *Client) Reply(ctx context.Context, inReplyTo, text string) (string, error) {
	if c.writer == nil {
		return "", boterrors.NewConfigError("replying needs OAuth 1.0a credentials", nil)
	}

	resp, err := c.writer.CreateTweet(ctx, gotwitter.CreateTweetRequest{
		Text: text,
		Reply: &gotwitter.CreateTweetReply{
			InReplyToTweetID: inReplyTo,
		},
	})
	if err != nil {
		return "", classify("failed to post reply", err)
	}
	if resp.Tweet == nil {
		return "", nil
	}
	return resp.Tweet.ID, nil
}

// classify maps HTTP 429 to a RateLimitError and everything else to an APIError.
func classify(message string, err error) error {
	if StatusCode(err) == http.StatusTooManyRequests {
		return boterrors.NewRateLimitError(message, err)
	}
	return boterrors.NewAPIError(message, err)
}

// StatusCode extracts the HTTP status from a go-twitter error, or 0 if there is none.
func StatusCode(err error) int {
	var errResp *gotwitter.ErrorResponse
	if errors.As(err, &errResp) {
		return errResp.StatusCode
	}
	var httpErr *gotwitter.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}
