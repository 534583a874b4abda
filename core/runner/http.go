package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// HTTPRunner starts runs through the platform API and polls them until they finish.
type HTTPRunner struct {
	cfg Config
	log *zap.Logger

	// pollDelay is the pause between poll requests on top of the server side wait.
	pollDelay time.Duration
}

// NewHTTPRunner creates a runner for the configured API.
func NewHTTPRunner(cfg Config, log *zap.Logger) *HTTPRunner {
	if log == nil {
		log = zap.NewNop()
	}
	return &HTTPRunner{cfg: cfg, log: log, pollDelay: time.Second}
}

// Run starts the actor or task and blocks until the run reaches a terminal
// status, the configured timeout elapses or ctx is cancelled.
func (r *HTTPRunner) Run(ctx context.Context, req Request) (*Run, error) {
	if req.ID == "" {
		return nil, errors.New("missing actor or task id")
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout())
	defer cancel()

	start, err := r.startURL(req)
	if err != nil {
		return nil, err
	}

	input := []byte(req.Input)
	if len(input) == 0 {
		input = []byte("{}")
	}

	r.log.Info("Starting run", zap.String("type", string(req.Type)), zap.String("id", req.ID), zap.String("build", req.Build))
	run, err := r.call(ctx, fiber.Post(start).ContentType(fiber.MIMEApplicationJSON).Body(input))
	if err != nil {
		return nil, fmt.Errorf("failed to start %s %s: %w", strings.ToLower(string(req.Type)), req.ID, err)
	}

	for !IsTerminal(run.Status) {
		r.log.Debug("Waiting for run", zap.String("run_id", run.ID), zap.String("status", run.Status))

		select {
		case <-ctx.Done():
			return run, fmt.Errorf("run %s did not finish: %w", run.ID, ctx.Err())
		case <-time.After(r.pollDelay):
		}

		next, err := r.call(ctx, fiber.Get(r.pollURL(run.ID)))
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return run, fmt.Errorf("run %s did not finish: %w", run.ID, ctxErr)
			}
			return run, fmt.Errorf("failed to poll run %s: %w", run.ID, err)
		}
		run = next
	}

	r.log.Info("Run finished", zap.String("run_id", run.ID), zap.String("status", run.Status))
	return run, nil
}

func (r *HTTPRunner) startURL(req Request) (string, error) {
	var resource string
	switch req.Type {
	case TypeActor, "":
		resource = "acts"
	case TypeTask:
		resource = "actor-tasks"
	default:
		return "", fmt.Errorf("invalid run type %q", req.Type)
	}

	q := url.Values{}
	q.Set("waitForFinish", strconv.Itoa(r.cfg.pollSeconds()))
	if req.Build != "" {
		q.Set("build", req.Build)
	}

	// "user/name" ids use "~" as separator in API paths
	id := url.PathEscape(strings.ReplaceAll(req.ID, "/", "~"))
	return fmt.Sprintf("%s/v2/%s/%s/runs?%s", strings.TrimRight(r.cfg.BaseURL, "/"), resource, id, q.Encode()), nil
}

func (r *HTTPRunner) pollURL(runID string) string {
	q := url.Values{}
	q.Set("waitForFinish", strconv.Itoa(r.cfg.pollSeconds()))
	return fmt.Sprintf("%s/v2/actor-runs/%s?%s", strings.TrimRight(r.cfg.BaseURL, "/"), url.PathEscape(runID), q.Encode())
}

// call sends the request and decodes the {"data": Run} envelope.
func (r *HTTPRunner) call(ctx context.Context, a *fiber.Agent) (*Run, error) {
	deadline, ok := ctx.Deadline()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ok {
		a.Timeout(time.Until(deadline))
	}
	if r.cfg.Token != "" {
		a.Set(fiber.HeaderAuthorization, "Bearer "+r.cfg.Token)
	}

	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if code < fiber.StatusOK || code >= fiber.StatusMultipleChoices {
		return nil, fmt.Errorf("unexpected status %d: %s", code, snippet(body))
	}

	var envelope struct {
		Data Run `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode run: %w", err)
	}
	if envelope.Data.Status == "" {
		return nil, fmt.Errorf("response has no run status: %s", snippet(body))
	}
	return &envelope.Data, nil
}

func snippet(body []byte) string {
	const limit = 200
	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
