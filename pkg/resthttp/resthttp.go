package resthttp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	headerKeyRequestID = "X-Request-Id"
)

var runOnce sync.Once
var restyClient *resty.Client

// Client resty client
func Client() *resty.Client {
	runOnce.Do(func() {
		restyClient = resty.New().
			SetHeader("Content-Type", "application/json").
			SetHeader("Charset", "utf-8").
			SetTimeout(10 * time.Second)
	})

	return restyClient
}

// Request new resty request
func Request(ctx context.Context) *resty.Request {
	return Client().R().SetContext(ctx)
}

// WithRequestID resty request with request id
func WithRequestID(ctx context.Context, requestID string) *resty.Request {
	return Request(ctx).SetHeader(headerKeyRequestID, requestID)
}

// Error non 2xx response
type Error struct {
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Body)
}

// ParseResponse decode the body of a successful response into obj
func ParseResponse(r *resty.Response, obj interface{}) error {
	if !r.IsSuccess() {
		return &Error{StatusCode: r.StatusCode(), Body: string(r.Body())}
	}

	if obj == nil {
		return nil
	}

	return json.Unmarshal(r.Body(), obj)
}
