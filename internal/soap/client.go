package soap

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vvka-141/countrysync/internal/logging"
	"github.com/vvka-141/countrysync/pkg/countrysync"
)

const (
	// DefaultHTTPTimeout bounds a single HTTP exchange when the caller does
	// not supply its own http.Client.
	DefaultHTTPTimeout = 60 * time.Second

	// MaxResponseSize caps how much of a response body is read.
	MaxResponseSize = 8 * 1024 * 1024
)

// Client calls the CountryInfoService. It implements countrysync.CountryFetcher.
type Client struct {
	wsdlURL    string
	httpClient *http.Client
	logger     countrysync.Logger
}

// ClientOption is a functional option for configuring Client.
type ClientOption func(*Client)

// WithHTTPClient sets the http.Client used for the WSDL and SOAP requests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for verbose request tracing.
func WithLogger(l countrysync.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a client that locates the service through wsdlURL.
func NewClient(wsdlURL string, opts ...ClientOption) *Client {
	c := &Client{
		wsdlURL:    wsdlURL,
		httpClient: &http.Client{Timeout: DefaultHTTPTimeout},
		logger:     logging.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ResolveEndpoint downloads the WSDL and returns the SOAP 1.1 service address.
func (c *Client) ResolveEndpoint(ctx context.Context) (string, error) {
	c.logger.Verbose("Fetching WSDL from %s", c.wsdlURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.wsdlURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: invalid WSDL URL %q: %w", countrysync.ErrRemoteFetch, c.wsdlURL, err)
	}

	status, body, err := c.do(req)
	if err != nil {
		return "", fmt.Errorf("%w: fetching WSDL: %w", countrysync.ErrRemoteFetch, err)
	}
	if status < 200 || status > 299 {
		return "", fmt.Errorf("%w: fetching WSDL: unexpected HTTP status %d", countrysync.ErrRemoteFetch, status)
	}

	endpoint, err := parseWSDL(body, OperationListOfCountryNamesByCode)
	if err != nil {
		return "", fmt.Errorf("%w: %w", countrysync.ErrRemoteFetch, err)
	}

	c.logger.Verbose("Resolved SOAP endpoint %s", endpoint)
	return endpoint, nil
}

// FetchCountries calls ListOfCountryNamesByCode and returns the normalized
// (code, name) records in the order the service sent them.
func (c *Client) FetchCountries(ctx context.Context) ([]countrysync.CountryRecord, error) {
	endpoint, err := c.ResolveEndpoint(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := buildRequest()
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %w", countrysync.ErrRemoteFetch, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid endpoint %q: %w", countrysync.ErrRemoteFetch, endpoint, err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", `""`)

	c.logger.Verbose("Calling %s", OperationListOfCountryNamesByCode)
	status, body, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: calling %s: %w", countrysync.ErrRemoteFetch, OperationListOfCountryNamesByCode, err)
	}

	records, decodeErr := decodeResponse(body)
	if status < 200 || status > 299 {
		// Servers report faults with HTTP 500; prefer the fault text when present.
		if fault, ok := decodeErr.(*Fault); ok {
			return nil, fmt.Errorf("%w: %w", countrysync.ErrRemoteFetch, fault)
		}
		return nil, fmt.Errorf("%w: unexpected HTTP status %d", countrysync.ErrRemoteFetch, status)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: %w", countrysync.ErrRemoteFetch, decodeErr)
	}

	c.logger.Verbose("Received %d countries", len(records))
	return records, nil
}

func (c *Client) do(req *http.Request) (int, []byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("reading response body: %w", err)
	}
	return resp.StatusCode, body, nil
}

var _ countrysync.CountryFetcher = (*Client)(nil)
