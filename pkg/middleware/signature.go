package middleware

import (
	"bytes"
	"io"
	"net/http"

	apperrors "mentorbook/pkg/errors"
	"mentorbook/pkg/logger"
	"mentorbook/pkg/sealer"
)

// SignatureVerification admits a request only when header carries the
// hex HMAC-SHA256 of its body under secret. Used for gateway webhooks.
func SignatureVerification(secret, header string, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			signature := r.Header.Get(header)

			if signature == "" {
				logAndReject(w, log, r, "Missing "+header+" header")
				return
			}

			body, err := readAndRestoreBody(r)
			if err != nil {
				logAndReject(w, log, r, "Failed to read request body")
				return
			}

			if !sealer.Verify(body, signature, secret) {
				logAndReject(w, log, r, "Invalid webhook signature")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func readAndRestoreBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}

	r.Body.Close()
	r.Body = io.NopCloser(bytes.NewBuffer(body))

	return body, nil
}

func logAndReject(w http.ResponseWriter, log *logger.Logger, r *http.Request, reason string) {
	log.Warn("Webhook verification failed",
		"request_id", RequestID(r.Context()),
		"reason", reason,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr,
	)

	writeJSONError(w, http.StatusUnauthorized, apperrors.CodeUnauthorized, "Unauthorized")
}
