// Package query emulates a resource-oriented REST API on top of the record
// store: filtering, sorting, pagination and CRUD with id generation and
// timestamping. Callers address it exactly as they would a remote service.
package query

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
)

// Request is one resource-oriented call: Path is /<resource> or
// /<resource>/<id>, Method is an HTTP verb, Params carries the query string
// and Body the partial entity for mutations.
type Request struct {
	Path   string
	Method string
	Params url.Values
	Body   json.RawMessage
}

// Response is the engine's only way out: either Data with a 2xx status, or
// Err with an error status. The engine never lets an error escape as a Go
// panic or returned error past its boundary.
type Response struct {
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data,omitempty"`
	Err    string          `json:"error,omitempty"`
}

// OK reports whether the response carries data rather than an error.
func (r Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Decode unmarshals the response data into out.
func (r Response) Decode(out any) error {
	return json.Unmarshal(r.Data, out)
}

func success(status int, payload any) Response {
	data, err := json.Marshal(payload)
	if err != nil {
		return failure(http.StatusInternalServerError, "encode response: "+err.Error())
	}
	return Response{Status: status, Data: data}
}

func failure(status int, msg string) Response {
	return Response{Status: status, Err: msg}
}

func failureErr(status int, err error) Response {
	return Response{Status: status, Err: err.Error()}
}

// splitPath turns /<resource> or /<resource>/<id> into its segments. Anything
// deeper is not addressable.
func splitPath(path string) (resource, id string, ok bool) {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return "", "", false
	}
	parts := strings.Split(trimmed, "/")
	switch len(parts) {
	case 1:
		return parts[0], "", true
	case 2:
		return parts[0], parts[1], true
	default:
		return "", "", false
	}
}
