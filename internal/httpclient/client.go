package httpclient

import (
	"net"
	"net/http"
	"time"

	"github.com/sanket-telunagi/pyautos/internal/logging"
)

// DefaultTimeout bounds each health-check request so a hanging endpoint
// cannot stall the whole run.
const DefaultTimeout = 30 * time.Second

// New creates an *http.Client with an explicit transport and an overall
// request deadline. A zero or negative timeout disables the deadline (the
// reference behavior of blocking until the server answers); dial and TLS
// handshake timeouts still apply so dead hosts fail eventually.
func New(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	client := &http.Client{Transport: transport}
	if timeout > 0 {
		client.Timeout = timeout
	} else {
		logging.Logf(logging.Debug, "HTTP client created without an overall request timeout")
	}
	return client
}
