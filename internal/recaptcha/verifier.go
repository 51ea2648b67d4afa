package recaptcha

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/karbadigital/leads-api/pkg/logging"
)

// DefaultEndpoint is Google's siteverify API.
const DefaultEndpoint = "https://www.google.com/recaptcha/api/siteverify"

// DefaultThreshold is the minimum v3 score accepted when the verifier
// returns one. The boundary is inclusive.
const DefaultThreshold = 0.3

// Verdict is the internal admit/deny outcome of a verification attempt.
// Detail is diagnostic only and must never be echoed to the caller.
type Verdict struct {
	Allowed bool
	Score   *float64
	Detail  string
}

// Checker decides whether a client-supplied token passes bot verification.
type Checker interface {
	Check(ctx context.Context, token string) Verdict
}

// Config holds verifier configuration.
type Config struct {
	Secret    string
	Threshold float64
	Timeout   time.Duration
	Endpoint  string
}

// New builds a Checker from configuration. An empty secret disables the
// gate entirely: every submission is admitted. This fails open on purpose
// so a deployment without a reCAPTCHA key keeps accepting leads; the
// tradeoff is logged at startup so the operator knows the gate is off.
func New(cfg Config, logger *logging.Logger) Checker {
	if logger == nil {
		logger = logging.Default()
	}
	if strings.TrimSpace(cfg.Secret) == "" {
		logger.Warn("recaptcha secret not configured, bot verification disabled")
		return disabled{}
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	return &Verifier{
		secret:    cfg.Secret,
		threshold: cfg.Threshold,
		endpoint:  cfg.Endpoint,
		client:    &http.Client{Timeout: cfg.Timeout},
		logger:    logger,
	}
}

type disabled struct{}

func (disabled) Check(context.Context, string) Verdict {
	return Verdict{Allowed: true, Detail: "verification disabled"}
}

// Verifier checks tokens against the siteverify API and applies a score
// threshold to the response.
type Verifier struct {
	secret    string
	threshold float64
	endpoint  string
	client    *http.Client
	logger    *logging.Logger
}

// siteverifyResponse mirrors the third-party JSON shape at the boundary so
// nothing outside this package depends on Google's field names.
type siteverifyResponse struct {
	Success    bool     `json:"success"`
	Score      *float64 `json:"score"`
	Action     string   `json:"action"`
	Hostname   string   `json:"hostname"`
	ErrorCodes []string `json:"error-codes"`
}

// Check verifies one token. A missing token is rejected immediately without
// a network call. A verifier outage is treated as a rejection, never as an
// automatic accept. The token and secret are not logged.
func (v *Verifier) Check(ctx context.Context, token string) Verdict {
	if strings.TrimSpace(token) == "" {
		return Verdict{Allowed: false, Detail: "missing-token"}
	}

	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return Verdict{Allowed: false, Detail: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		v.logger.Error("recaptcha verifier unreachable", "error", err)
		return Verdict{Allowed: false, Detail: "verifier-unreachable"}
	}
	defer resp.Body.Close()

	var body siteverifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		v.logger.Error("recaptcha response decode failed", "error", err)
		return Verdict{Allowed: false, Detail: "verifier-bad-response"}
	}

	if !body.Success {
		v.logger.Info("recaptcha rejected token", "error_codes", body.ErrorCodes)
		return Verdict{Allowed: false, Detail: strings.Join(body.ErrorCodes, ",")}
	}

	// A response without a score (e.g. v2 keys) passes on the success flag
	// alone; we do not invent one.
	if body.Score != nil && *body.Score < v.threshold {
		v.logger.Info("recaptcha score below threshold", "score", *body.Score, "threshold", v.threshold)
		return Verdict{Allowed: false, Score: body.Score, Detail: "score-below-threshold"}
	}

	return Verdict{Allowed: true, Score: body.Score}
}
