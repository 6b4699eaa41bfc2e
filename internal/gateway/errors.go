// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// maxPlainMessage bounds how much of a non-JSON error body is shown to an operator.
const maxPlainMessage = 200

// RemoteOperationError is returned when the content service answers with a non-2xx status.
type RemoteOperationError struct {
	Op      string // Operation name, e.g. "approve review"
	Status  int    // HTTP status code
	Message string // Server-supplied message or a status-derived fallback

	// Supplied reports whether Message came from the response body.
	Supplied bool
}

func (e *RemoteOperationError) Error() string {
	return fmt.Sprintf("%s: remote returned %d: %s", e.Op, e.Status, e.Message)
}

// TransportError is returned when a request never reached the content service
// or its response never arrived.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: request failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsRemote reports whether err is (or wraps) a RemoteOperationError.
func IsRemote(err error) bool {
	var remote *RemoteOperationError
	return errors.As(err, &remote)
}

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var transport *TransportError
	return errors.As(err, &transport)
}

// StatusOf returns the HTTP status carried by a RemoteOperationError, or 0.
func StatusOf(err error) int {
	var remote *RemoteOperationError
	if errors.As(err, &remote) {
		return remote.Status
	}
	return 0
}

// MessageOf returns the server-supplied message of a RemoteOperationError, or "".
func MessageOf(err error) string {
	var remote *RemoteOperationError
	if errors.As(err, &remote) {
		return remote.Message
	}
	return ""
}

// ServerMessage returns the message the content service put in its error
// response, or "" when there was none.
func ServerMessage(err error) string {
	var remote *RemoteOperationError
	if errors.As(err, &remote) && remote.Supplied {
		return remote.Message
	}
	return ""
}

// newRemoteError builds the error for a non-2xx answer.
func newRemoteError(op string, status int, body []byte) *RemoteOperationError {
	msg := bodyErrorMessage(body)
	supplied := msg != ""
	if !supplied {
		msg = statusMessage(op, status)
	}
	return &RemoteOperationError{Op: op, Status: status, Message: msg, Supplied: supplied}
}

// remoteMessage extracts a human-readable message from an error response body,
// falling back to the status text.
func remoteMessage(op string, status int, body []byte) string {
	return newRemoteError(op, status, body).Message
}

// bodyErrorMessage returns the "message" (or "error") string of a JSON body,
// or a short plain-text body verbatim.
func bodyErrorMessage(body []byte) string {
	if gjson.ValidBytes(body) {
		res := gjson.ParseBytes(body)
		for _, key := range []string{"message", "error"} {
			v := res.Get(key)
			if v.Type == gjson.String {
				if msg := strings.TrimSpace(v.String()); msg != "" {
					return msg
				}
			}
		}
		return ""
	}

	text := strings.TrimSpace(string(body))
	if text != "" && len(text) <= maxPlainMessage && !strings.HasPrefix(text, "<") {
		return text
	}
	return ""
}

func statusMessage(op string, status int) string {
	text := http.StatusText(status)
	if text == "" {
		return fmt.Sprintf("%s failed with status %d", op, status)
	}
	return fmt.Sprintf("%s failed: %s", op, text)
}
