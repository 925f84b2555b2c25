package skillgate

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	defaultAPIURL = "http://localhost:5000"
	userAgent     = "skillgate-cli (github.com/skillgate/skillgate)"
)

// Client talks to the skillgate backend. It is the only component that
// attaches credentials to requests and the only one allowed to react to
// credential expiry.
type Client struct {
	// ctx used only for http requests right now
	ctx        context.Context
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string

	onUnauthorized func()
}

func New(ctx context.Context, logger *zap.Logger, token string) *Client {
	return &Client{
		ctx:    ctx,
		token:  token,
		APIURL: defaultAPIURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:    logger,
		UserAgent: userAgent,
	}
}

// SetToken replaces the bearer token used for subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// OnUnauthorized registers the hook fired once per 401 response, before
// ErrUnauthorized is returned to the caller. The hook is expected to clear
// stored credentials; nothing else may do that.
func (c *Client) OnUnauthorized(fn func()) {
	c.onUnauthorized = fn
}
