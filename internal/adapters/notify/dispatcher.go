// Package notify hands stored notifications to the external delivery service.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/SscSPs/casa_ledger/internal/apperrors"
	portssvc "github.com/SscSPs/casa_ledger/internal/core/ports/services"
)

const (
	tokenSubject  = "casa-ledger"
	tokenLifetime = time.Minute
)

// HTTPDispatcher POSTs {"notificationId": id} to the delivery endpoint.
type HTTPDispatcher struct {
	url         string
	staticToken string
	jwtSecret   []byte
	client      *http.Client
	now         func() time.Time
}

// NewHTTPDispatcher builds a dispatcher. When staticToken is empty every call is signed with a
// short-lived HS256 token over jwtSecret.
func NewHTTPDispatcher(url, staticToken, jwtSecret string, client *http.Client) *HTTPDispatcher {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPDispatcher{
		url:         url,
		staticToken: staticToken,
		jwtSecret:   []byte(jwtSecret),
		client:      client,
		now:         time.Now,
	}
}

var _ portssvc.Dispatcher = (*HTTPDispatcher)(nil)

func (d *HTTPDispatcher) Dispatch(ctx context.Context, notificationID string) error {
	body, err := json.Marshal(map[string]string{"notificationId": notificationID})
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInternal, err)
	}
	token, err := d.bearer()
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: building dispatch request: %v", apperrors.ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: dispatching %s: %v", apperrors.ErrTransport, notificationID, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: dispatching %s: status %d", apperrors.ErrTransport, notificationID, resp.StatusCode)
	}
	return nil
}

func (d *HTTPDispatcher) bearer() (string, error) {
	if d.staticToken != "" {
		return d.staticToken, nil
	}
	now := d.now()
	claims := jwt.RegisteredClaims{
		Subject:   tokenSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(d.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("%w: signing dispatch token: %v", apperrors.ErrInternal, err)
	}
	return signed, nil
}

// NoopDispatcher is used when no delivery endpoint is configured.
type NoopDispatcher struct{}

func (NoopDispatcher) Dispatch(context.Context, string) error { return nil }
