package fix

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/yamlviz/pkg/errors"
	"github.com/matzehuels/yamlviz/pkg/httputil"
)

// Defaults for the Messages API.
const (
	DefaultEndpoint   = "https://api.anthropic.com/v1/messages"
	DefaultModel      = "claude-sonnet-4-5"
	DefaultMaxTokens  = 2048
	DefaultAPIVersion = "2023-06-01"
	DefaultTimeout    = 60 * time.Second
	DefaultAttempts   = 3
)

// RemoteOptions configures a Remote fixer.
type RemoteOptions struct {
	Endpoint   string
	APIKey     string
	Model      string
	MaxTokens  int
	APIVersion string
	Timeout    time.Duration
	Attempts   int
	Backoff    time.Duration // initial retry delay, doubled per attempt
	HTTPClient *http.Client
	Logger     *log.Logger
}

// Remote asks a language model to correct the document. The prompt carries
// the parser message and the faulty text and asks for the corrected YAML
// only; the reply's text blocks are joined and any code fence is removed.
type Remote struct {
	opts   RemoteOptions
	client *httputil.Client
}

// NewRemote creates a Remote fixer. An empty API key is rejected.
func NewRemote(opts RemoteOptions) (*Remote, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New(errors.ErrCodeUnauthorized, "fix API key is not set (YAMLVIZ_FIX_API_KEY or ANTHROPIC_API_KEY)")
	}
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if err := errors.ValidateURL(opts.Endpoint); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "fix endpoint")
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	if opts.APIVersion == "" {
		opts.APIVersion = DefaultAPIVersion
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Attempts <= 0 {
		opts.Attempts = DefaultAttempts
	}
	if opts.Backoff <= 0 {
		opts.Backoff = time.Second
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	headers := map[string]string{
		"x-api-key":         opts.APIKey,
		"anthropic-version": opts.APIVersion,
	}
	return &Remote{opts: opts, client: httputil.NewClient(hc, headers)}, nil
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type messagesResponse struct {
	ID         string         `json:"id"`
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
	Error      *apiError      `json:"error,omitempty"`
}

type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Prompt builds the user message sent for req.
func Prompt(req Request) string {
	return fmt.Sprintf("The following YAML document has an error. Error message: %s\n"+
		"Please fix the YAML and reply with only the corrected YAML.\n\n"+
		"Faulty YAML:\n%s", req.ErrorMessage, req.DocumentText)
}

// Fix implements Fixer.
func (r *Remote) Fix(ctx context.Context, req Request) (Result, error) {
	return observe(ctx, SourceRemote, func() (Result, error) { return r.fix(ctx, req) })
}

func (r *Remote) fix(ctx context.Context, req Request) (Result, error) {
	id := uuid.NewString()
	body := messagesRequest{
		Model:     r.opts.Model,
		MaxTokens: r.opts.MaxTokens,
		Messages:  []message{{Role: "user", Content: Prompt(req)}},
	}
	r.opts.Logger.Debug("requesting fix", "request_id", id, "model", r.opts.Model, "bytes", len(req.DocumentText))

	var resp messagesResponse
	err := httputil.Retry(ctx, r.opts.Attempts, r.opts.Backoff, func() error {
		resp = messagesResponse{}
		return r.client.PostJSON(ctx, r.opts.Endpoint, map[string]string{"X-Request-Id": id}, body, &resp)
	})
	if err != nil {
		return Result{}, r.wrap(ctx, err)
	}
	if resp.Error != nil {
		return Result{}, errors.New(errors.ErrCodeExternalService, "fix service: %s", resp.Error.Message)
	}

	var parts []string
	for _, b := range resp.Content {
		if b.Type == "text" {
			parts = append(parts, b.Text)
		}
	}
	text := StripCodeFence(strings.Join(parts, ""))
	if strings.TrimSpace(text) == "" {
		return Result{}, errors.New(errors.ErrCodeExternalService, "fix service returned no text (stop reason %q)", resp.StopReason)
	}

	r.opts.Logger.Debug("received fix", "request_id", id, "message_id", resp.ID, "bytes", len(text))
	return Result{Text: text, Source: SourceRemote, Parses: parses(text)}, nil
}

func (r *Remote) wrap(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return errors.Wrap(errors.ErrCodeTimeout, err, "fix request")
	}
	var se *httputil.StatusError
	if stderrors.As(err, &se) {
		if se.StatusCode == http.StatusUnauthorized || se.StatusCode == http.StatusForbidden {
			return errors.Wrap(errors.ErrCodeUnauthorized, err, "fix service rejected the API key")
		}
	}
	return errors.Wrap(errors.ErrCodeExternalService, err, "fix request failed")
}

var fenceRe = regexp.MustCompile("(?s)^\\s*```[A-Za-z0-9_-]*[ \\t]*\\r?\\n(.*?)\\r?\\n?```\\s*$")

// StripCodeFence removes a Markdown code fence wrapping the whole reply.
func StripCodeFence(s string) string {
	if m := fenceRe.FindStringSubmatch(s); m != nil {
		return m[1] + "\n"
	}
	return s
}
