package tool

import (
	"net"
	"net/http"
	"time"
)

var (
	DefaultDialTimeout = 30 * time.Second
	// ProbeTimeout bounds the reachability check, uploads themselves have no deadline.
	ProbeTimeout     = 5 * time.Second
	UploadHttpClient *http.Client
)

func init() {
	UploadHttpClient = NewUploadHTTPClient()
}

// NewUploadHTTPClient creates the client used for file transfers. It sets no
// overall timeout: a stalled upload stays in progress until it is cancelled
// or the connection fails.
func NewUploadHTTPClient() *http.Client {
	dialer := &net.Dialer{
		Timeout:   DefaultDialTimeout,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         dialer.DialContext,
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &http.Client{
		Transport: transport,
	}
}

func GetHttpClient() *http.Client {
	return UploadHttpClient
}
