package utils

import (
	"bytes"
	"io"
	"net/http"
	"regexp"
	"strings"

	"nexus-assist/pkg/logger"

	"github.com/sirupsen/logrus"
)

var sensitiveHeaders = []string{
	"authorization",
	"x-api-key",
	"x-auth-token",
	"cookie",
	"set-cookie",
}

var sensitiveFields = regexp.MustCompile(`"(password|newPassword|currentPassword|token|otp|api_key|apiKey|secret)"\s*:\s*"[^"]*"`)

// DebugTransport logs outgoing requests at debug level with credentials
// redacted.
type DebugTransport struct {
	base    http.RoundTripper
	enabled bool
}

func NewDebugTransport(base http.RoundTripper, enabled bool) *DebugTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &DebugTransport{base: base, enabled: enabled}
}

// RoundTrip implements http.RoundTripper.
func (t *DebugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.enabled {
		t.logRequest(req)
	}

	resp, err := t.base.RoundTrip(req)
	if t.enabled {
		if err != nil {
			logger.Errorf("request %s %s failed: %v", req.Method, req.URL.Path, err)
		} else {
			logger.Debugf("request %s %s -> %d", req.Method, req.URL.Path, resp.StatusCode)
		}
	}
	return resp, err
}

func (t *DebugTransport) logRequest(req *http.Request) {
	fields := logrus.Fields{
		"method": req.Method,
		"url":    req.URL.String(),
	}
	for name, values := range req.Header {
		if IsSensitiveHeader(name) {
			fields["header."+name] = "[REDACTED]"
		} else {
			fields["header."+name] = strings.Join(values, ", ")
		}
	}

	if req.Body != nil && req.GetBody == nil {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			logger.Errorf("failed to read request body: %v", err)
			return
		}
		// restore the body so the actual request still carries it
		req.Body = io.NopCloser(bytes.NewReader(body))
		fields["body"] = SanitizeJSON(string(body))
	} else if req.GetBody != nil {
		if rc, err := req.GetBody(); err == nil {
			body, _ := io.ReadAll(rc)
			rc.Close()
			fields["body"] = SanitizeJSON(string(body))
		}
	}

	logger.WithFields(fields).Debug("outgoing request")
}

func IsSensitiveHeader(name string) bool {
	for _, sensitive := range sensitiveHeaders {
		if strings.EqualFold(name, sensitive) {
			return true
		}
	}
	return false
}

// SanitizeJSON replaces the values of credential-bearing JSON string fields.
func SanitizeJSON(body string) string {
	return sensitiveFields.ReplaceAllString(body, `"$1": "[REDACTED]"`)
}
