package httputil

import (
	"net/http"
	"time"
)

const DefaultTimeout = 30 * time.Second

const UserAgent = "Sunshine/1.0 (forecast sync)"

// NewClient returns an HTTP client with standard timeout configuration.
func NewClient() *http.Client {
	return &http.Client{
		Timeout: DefaultTimeout,
	}
}
