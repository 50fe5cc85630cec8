package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/sanket-telunagi/pyautos/internal/config"
	"github.com/sanket-telunagi/pyautos/internal/env"
	"github.com/sanket-telunagi/pyautos/internal/httpclient"
	"github.com/sanket-telunagi/pyautos/internal/logging"
	"github.com/sanket-telunagi/pyautos/internal/payload"
	"github.com/sanket-telunagi/pyautos/internal/template"
	"github.com/sanket-telunagi/pyautos/internal/util"
)

// --- Interfaces for Dependencies ---

// Doer executes a prepared HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// PayloadLoader reads JSON payload documents for body-bearing steps.
type PayloadLoader interface {
	Load(dir, name string) []byte
}

// StepLogger appends raw request/response text to the diagnostic log.
type StepLogger interface {
	LogStep(name, requestLine, responseText string)
}

// nopStepLogger discards diagnostic entries, used when no log is available.
type nopStepLogger struct{}

func (nopStepLogger) LogStep(string, string, string) {}

// --- Runner ---

// Runner executes the ordered list of API checks against one environment
// store, producing exactly one Result per step.
type Runner struct {
	client  Doer
	loader  PayloadLoader
	stepLog StepLogger
	runID   string
}

// Opts allows replacing the Runner's dependencies, primarily for testing.
type Opts struct {
	Client     Doer
	Loader     PayloadLoader
	StepLogger StepLogger
	RunID      string
}

// New creates a runner with default dependencies: a client with the default
// timeout, the filesystem payload loader, no diagnostic log, and a fresh
// run identifier.
func New() *Runner {
	return NewWithOpts(Opts{})
}

// NewWithOpts creates a runner with injected dependencies. Nil fields fall
// back to the defaults.
func NewWithOpts(opts Opts) *Runner {
	client := opts.Client
	if client == nil {
		client = httpclient.New(httpclient.DefaultTimeout)
	}
	loader := opts.Loader
	if loader == nil {
		loader = payload.NewLoader()
	}
	stepLog := opts.StepLogger
	if stepLog == nil {
		stepLog = nopStepLogger{}
	}
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	return &Runner{
		client:  client,
		loader:  loader,
		stepLog: stepLog,
		runID:   runID,
	}
}

// RunID returns the identifier assigned to this run.
func (r *Runner) RunID() string {
	return r.runID
}

// Run executes every step strictly in declaration order, mutating the store
// in place and returning one Result per step in matching order. A failing or
// erroring step never halts the run: later steps execute against whatever
// store state exists. A cancelled context surfaces as ERROR results for the
// remaining steps rather than cutting the result list short.
func (r *Runner) Run(ctx context.Context, steps []config.Step, store *env.Store) []Result {
	logging.Logf(logging.Info, "Run %s: executing %d API checks", r.runID, len(steps))
	results := make([]Result, 0, len(steps))
	for i, step := range steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("check_%d", i+1)
		}
		logging.Logf(logging.Info, "Executing check: %s", name)
		res := r.executeStep(ctx, name, step, store)
		logging.Logf(logging.Info, "Check '%s' finished: %s (code %d) in %s", name, res.Status, res.Code, res.Duration.Round(time.Millisecond))
		results = append(results, res)
	}
	return results
}

// executeStep performs one HTTP check: placeholder substitution, optional
// payload loading, the call itself, status classification, and set_env
// extraction. Every failure is caught and downgraded to an ERROR Result so
// the run can continue.
func (r *Runner) executeStep(ctx context.Context, name string, step config.Step, store *env.Store) Result {
	start := time.Now()
	result := Result{Name: name}

	vars := store.GetAll()
	rawURL := template.Substitute(step.URL, vars)
	params := template.SubstituteMap(step.Params, vars)

	method := strings.ToUpper(strings.TrimSpace(step.Method))
	if method == "" {
		method = http.MethodGet
	}

	body := r.loadBody(name, method, step, store, vars)

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, bodyReader)
	if err != nil {
		return r.errorResult(result, start, fmt.Errorf("failed to build request: %w", err))
	}
	if len(params) > 0 {
		query := req.URL.Query()
		for key, value := range params {
			query.Set(key, value)
		}
		req.URL.RawQuery = query.Encode()
	}
	for key, value := range step.Headers {
		req.Header.Set(key, value)
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	requestLine := fmt.Sprintf("%s %s", method, req.URL.String())
	logging.Logf(logging.Debug, "Check '%s': sending %s", name, requestLine)

	resp, err := r.client.Do(req)
	if err != nil {
		r.stepLog.LogStep(name, requestLine, fmt.Sprintf("request error: %v", err))
		return r.errorResult(result, start, err)
	}
	bodyBytes, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		r.stepLog.LogStep(name, requestLine, fmt.Sprintf("body read error: %v", readErr))
		return r.errorResult(result, start, fmt.Errorf("failed to read response body (status %d): %w", resp.StatusCode, readErr))
	}

	bodyText := string(bodyBytes)
	r.stepLog.LogStep(name, requestLine, bodyText)
	logging.Logf(logging.Debug, "Check '%s': status %d, body snippet: %s", name, resp.StatusCode, util.Snippet(bodyBytes))

	result.Code = resp.StatusCode
	result.Body = bodyText
	if resp.StatusCode == http.StatusOK {
		result.Status = StatusPass
	} else {
		result.Status = StatusFail
	}

	// Extraction also runs for FAIL responses: an error body can still carry
	// fields a later step wants.
	if len(step.SetEnv) > 0 {
		if err := applySetEnv(name, step.SetEnv, bodyBytes, store); err != nil {
			return r.errorResult(result, start, err)
		}
	}

	result.Duration = time.Since(start)
	return result
}

// loadBody resolves and loads the JSON payload for body-bearing steps.
// A step without a payload_file, or a run whose store has no payload_dir,
// sends no body at all; an unreadable payload soft-fails inside the loader
// to an empty JSON object.
func (r *Runner) loadBody(name, method string, step config.Step, store *env.Store, vars map[string]string) []byte {
	if !isBodyBearing(method) || step.PayloadFile == "" {
		return nil
	}
	dir := util.ExpandEnvUniversal(template.Substitute(store.Get("payload_dir"), vars))
	if dir == "" {
		logging.Logf(logging.Warning, "Check '%s': payload_dir is not set, sending no request body", name)
		return nil
	}
	file := util.ExpandEnvUniversal(template.Substitute(step.PayloadFile, vars))
	return r.loader.Load(dir, file)
}

// errorResult downgrades any step failure to an ERROR Result. The code is
// always the sentinel 0, even when an HTTP response existed, so reporting
// can rely on code 0 meaning "the step itself broke".
func (r *Runner) errorResult(res Result, start time.Time, err error) Result {
	logging.Logf(logging.Error, "Check '%s' errored: %v", res.Name, err)
	res.Status = StatusError
	res.Code = 0
	res.Body = err.Error()
	res.Duration = time.Since(start)
	return res
}

// applySetEnv writes one store variable per extraction rule. The response
// must hold valid JSON. Each rule's dotted path is reduced to its final
// segment and looked up as a top-level key of the document; an absent key,
// a non-object document, or an empty segment stores an empty string.
// Nested traversal is deliberately not performed: existing configs depend
// on the final-segment lookup exactly as written.
func applySetEnv(name string, rules map[string]string, body []byte, store *env.Store) error {
	if !gjson.ValidBytes(body) {
		return fmt.Errorf("set_env requires a JSON response body, got: %s", util.Snippet(body))
	}
	doc := gjson.ParseBytes(body)
	for target, path := range rules {
		segments := strings.Split(path, ".")
		field := segments[len(segments)-1]
		value := ""
		if field != "" && doc.IsObject() {
			if v := doc.Get(field); v.Exists() {
				value = v.String()
			}
		}
		logging.Logf(logging.Debug, "Check '%s': set_env %s = '%s' (field '%s')", name, target, util.Snippet([]byte(value)), field)
		store.Set(target, value)
	}
	return nil
}

// isBodyBearing reports whether the verb carries a JSON payload in this tool.
func isBodyBearing(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}
