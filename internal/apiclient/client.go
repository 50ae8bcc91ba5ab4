// Package apiclient talks to the documentation assistant backend. Every call
// returns a model.Result; transport problems and malformed responses become
// failed results instead of errors.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"nexus-assist/internal/model"
	"nexus-assist/internal/session"
	"nexus-assist/pkg/logger"
)

const (
	defaultFailure    = "An error occurred"
	defaultSuccess    = "Success"
	networkFailure    = "Network error occurred"
	malformedResponse = "Unexpected response from server"
	userIDHeader      = "x-user-id"
)

type Client struct {
	baseURL string
	http    *http.Client
	session *session.Store
}

// New builds a client for baseURL (e.g. http://localhost:4000/api). store
// supplies the signed-in identity and receives login results.
func New(baseURL string, httpClient *http.Client, store *session.Store) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if store == nil {
		store = session.NewStore("")
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		session: store,
	}
}

func (c *Client) Session() *session.Store {
	return c.session
}

type request struct {
	method  string
	path    string
	query   url.Values
	body    any
	asUser  bool
	success string
	failure string
}

// call performs req and decodes a successful body into T.
func call[T any](ctx context.Context, c *Client, req request) model.Result[T] {
	resp, res, ok := send[T](ctx, c, req)
	if !ok {
		return res
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Fail[T](networkFailure)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return failure[T](data, req.failure)
	}

	out := model.Result[T]{Success: true, Message: req.success}
	if out.Message == "" {
		out.Message = defaultSuccess
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return out
	}
	if err := json.Unmarshal(data, &out.Data); err != nil {
		logger.Warnf("malformed response from %s %s: %v", req.method, req.path, err)
		return model.Fail[T](malformedResponse)
	}
	var body model.ErrorBody
	if json.Unmarshal(data, &body) == nil && body.Message != "" && req.success == "" {
		out.Message = body.Message
	}
	return out
}

// download performs req and returns the raw body.
func download(ctx context.Context, c *Client, req request) model.Result[model.Export] {
	resp, res, ok := send[model.Export](ctx, c, req)
	if !ok {
		return res
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Fail[model.Export](networkFailure)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return failure[model.Export](data, req.failure)
	}

	export := model.Export{
		ContentType: resp.Header.Get("Content-Type"),
		Body:        data,
	}
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			export.Filename = params["filename"]
		}
	}
	return model.OK(export, req.success)
}

func send[T any](ctx context.Context, c *Client, req request) (*http.Response, model.Result[T], bool) {
	headers := http.Header{}
	headers.Set("Accept", "application/json")

	sess, signedIn := c.session.Get()
	if req.asUser {
		if !signedIn {
			return nil, model.Fail[T](session.ErrNotAuthenticated.Error()), false
		}
		headers.Set(userIDHeader, sess.User.UserID)
	}
	if signedIn && sess.Token != "" {
		headers.Set("Authorization", "Bearer "+sess.Token)
	}

	var body io.Reader
	if req.body != nil {
		b, err := json.Marshal(req.body)
		if err != nil {
			return nil, model.Fail[T](fmt.Sprintf("encode request: %v", err)), false
		}
		body = bytes.NewReader(b)
		headers.Set("Content-Type", "application/json")
	}

	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return nil, model.Fail[T](err.Error()), false
	}
	httpReq.Header = headers

	resp, err := c.http.Do(httpReq)
	if err != nil {
		logger.Warnf("%s %s failed: %v", req.method, req.path, err)
		msg := err.Error()
		if msg == "" {
			msg = networkFailure
		}
		return nil, model.Fail[T](msg), false
	}
	return resp, model.Result[T]{}, true
}

func failure[T any](data []byte, fallback string) model.Result[T] {
	if fallback == "" {
		fallback = defaultFailure
	}
	res := model.Fail[T](fallback)

	var body model.ErrorBody
	if err := json.Unmarshal(data, &body); err != nil {
		return res
	}
	switch {
	case body.Message != "":
		res.Message = body.Message
	case body.Error != "":
		res.Message = body.Error
	}
	res.Errors = body.Errors
	res.MissingFields = body.MissingFields
	return res
}

func pathEscape(s string) string {
	return url.PathEscape(s)
}
