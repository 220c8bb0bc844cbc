package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/khatapp/khata/internal/query"
)

const remoteMaxRetries = 3

// Remote executes requests against a khatad server. Each attempt carries a
// fixed timeout; transport-level failures are retried with exponential
// backoff, while HTTP error statuses are final and passed through as-is.
type Remote struct {
	baseURL string
	http    *http.Client
}

func NewRemote(baseURL string, timeout time.Duration) *Remote {
	return &Remote{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (r *Remote) Do(ctx context.Context, req query.Request) query.Response {
	var resp query.Response
	operation := func() error {
		var err error
		resp, err = r.attempt(ctx, req)
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), remoteMaxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return query.Response{Status: http.StatusInternalServerError, Err: fmt.Sprintf("request failed: %v", err)}
	}
	return resp
}

func (r *Remote) attempt(ctx context.Context, req query.Request) (query.Response, error) {
	url := r.baseURL + "/" + strings.Trim(req.Path, "/")
	if len(req.Params) > 0 {
		url += "?" + req.Params.Encode()
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, strings.ToUpper(req.Method), url, body)
	if err != nil {
		return query.Response{}, backoff.Permanent(err)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	httpResp, err := r.http.Do(httpReq)
	if err != nil {
		return query.Response{}, err
	}
	defer httpResp.Body.Close()

	payload, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return query.Response{}, err
	}

	if httpResp.StatusCode >= 400 {
		var errBody struct {
			Err string `json:"error"`
		}
		msg := strings.TrimSpace(string(payload))
		if json.Unmarshal(payload, &errBody) == nil && errBody.Err != "" {
			msg = errBody.Err
		}
		return query.Response{Status: httpResp.StatusCode, Err: msg}, nil
	}
	return query.Response{Status: httpResp.StatusCode, Data: payload}, nil
}
