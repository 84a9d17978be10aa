package httpx

import (
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	DefaultConnectTimeout = time.Minute
	DefaultReadTimeout    = 20 * time.Second
	DefaultWriteTimeout   = 30 * time.Second
)

// Options configures a client built by NewClient
type Options struct {
	// Token is sent as "Authorization: Bearer <token>" when set
	Token          string
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	// RetryMax is the number of retries on transport errors, not counting the first attempt
	RetryMax int
}

// NewClient builds the client shared by the remote services. The transport chain is
// headers -> logging -> retry -> base, so every attempt is logged with redacted headers.
func NewClient(log zerolog.Logger, opts Options) *http.Client {
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = DefaultConnectTimeout
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = DefaultReadTimeout
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = DefaultWriteTimeout
	}

	base := http.DefaultTransport.(*http.Transport).Clone()
	base.DialContext = (&net.Dialer{
		Timeout:   opts.ConnectTimeout,
		KeepAlive: 30 * time.Second,
	}).DialContext
	base.ResponseHeaderTimeout = opts.ReadTimeout

	var rt http.RoundTripper = &RetryTransport{Base: base, RetryMax: opts.RetryMax}
	rt = &LoggingTransport{Base: rt, Log: log.With().Str("module", "http").Logger()}
	rt = &HeaderTransport{Base: rt, Token: opts.Token}

	return &http.Client{
		Transport: rt,
		Timeout:   opts.ConnectTimeout + opts.WriteTimeout + opts.ReadTimeout,
	}
}

// HeaderTransport adds JSON and authorization headers to every request
type HeaderTransport struct {
	Base  http.RoundTripper
	Token string
}

func (t *HeaderTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	r := req.Clone(req.Context())
	if r.Header.Get("Accept") == "" {
		r.Header.Set("Accept", "application/json")
	}
	if r.Header.Get("Content-Type") == "" {
		r.Header.Set("Content-Type", "application/json")
	}
	if t.Token != "" && r.Header.Get("Authorization") == "" {
		r.Header.Set("Authorization", "Bearer "+t.Token)
	}
	return base.RoundTrip(r)
}

// RetryTransport retries replayable requests (GET/HEAD without body) on transport errors
type RetryTransport struct {
	Base     http.RoundTripper
	RetryMax int
}

func (t *RetryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	canRetry := (req.Method == http.MethodGet || req.Method == http.MethodHead) && req.Body == nil
	max := t.RetryMax
	if max < 0 || !canRetry {
		max = 0
	}

	var lastErr error
	for attempt := 0; attempt <= max; attempt++ {
		resp, err := base.RoundTrip(req.Clone(req.Context()))
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if req.Context().Err() != nil {
			return nil, lastErr
		}
	}
	return nil, lastErr
}

var redactedHeaders = []string{"Authorization", "Cookie", "Set-Cookie"}

// LoggingTransport logs each request at debug level with sensitive headers redacted
type LoggingTransport struct {
	Base http.RoundTripper
	Log  zerolog.Logger
}

func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	start := time.Now()
	resp, err := base.RoundTrip(req)

	ev := t.Log.Debug().
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Interface("headers", Redact(req.Header)).
		Dur("elapsed", time.Since(start))
	if err != nil {
		ev.Err(err).Msg("request failed")
		return nil, err
	}
	ev.Int("status", resp.StatusCode).Msg("request")
	return resp, nil
}

// Redact returns a copy of h with sensitive values replaced
func Redact(h http.Header) http.Header {
	out := h.Clone()
	for _, k := range redactedHeaders {
		if out.Get(k) != "" {
			out.Set(k, "██")
		}
	}
	return out
}
