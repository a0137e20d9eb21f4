package request

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"

	"github.com/pkg/errors"

	"github.com/evgeny-myasishchev/ledger.accounts-service/pkg/lib-core-golang/diag"
)

var defaultLogger = diag.CreateLogger()

type sendCfg struct {
	logger diag.Logger
}

// SendOpt is a send specific option
type SendOpt func(cfg *sendCfg)

func withLogger(logger diag.Logger) SendOpt {
	return func(cfg *sendCfg) {
		cfg.logger = logger
	}
}

// HTTPError is an error that holds details of a failed response
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("Request failed with status: %v", e.Status)
}

// NewHTTPErrorFromResponse builds an error from a non 2xx response.
// Consumes the response body
func NewHTTPErrorFromResponse(res *http.Response) *HTTPError {
	defer res.Body.Close()
	var body string
	if buffer, err := ioutil.ReadAll(res.Body); err == nil {
		body = string(buffer)
	}
	return &HTTPError{
		StatusCode: res.StatusCode,
		Status:     res.Status,
		Body:       body,
	}
}

// ReqFactory is a function that creates an instance of a request
type ReqFactory func() (*http.Request, error)

// WithHeader returns a factory that will add given header to the request
func (f ReqFactory) WithHeader(name string, value string) ReqFactory {
	return func() (*http.Request, error) {
		req, err := f()
		if err != nil {
			return nil, err
		}
		req.Header.Set(name, value)
		return req, nil
	}
}

// Get creates a new req factory that creates a get request for given url
func Get(url string) ReqFactory {
	return func() (*http.Request, error) {
		return http.NewRequest("GET", url, nil)
	}
}

// Post creates a new req factory that creates a post request for given url
func Post(url string, contentType string, body io.Reader) ReqFactory {
	return func() (*http.Request, error) {
		req, err := http.NewRequest("POST", url, body)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", contentType)
		return req, nil
	}
}

// ResFactory is a function that holds a request result with a response or error
type ResFactory func() (*http.Response, error)

// ReadAll will read entire body as a byte array
func (f ResFactory) ReadAll() ([]byte, error) {
	res, err := f()
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	return ioutil.ReadAll(res.Body)
}

// DecodeJSON will decode the response body into a given target
func (f ResFactory) DecodeJSON(target interface{}) error {
	res, err := f()
	if err != nil {
		return err
	}
	defer res.Body.Close()
	return json.NewDecoder(res.Body).Decode(target)
}

func newResFactory(res *http.Response, err error) ResFactory {
	var resErr error
	if err != nil {
		resErr = err
	} else if res.StatusCode >= 300 {
		resErr = NewHTTPErrorFromResponse(res)
	}
	return func() (*http.Response, error) {
		if resErr != nil {
			return nil, resErr
		}
		return res, nil
	}
}

// Do will send the request. Will fail if response status is other than 2xx
func Do(ctx context.Context, factory ReqFactory, opts ...SendOpt) ResFactory {
	cfg := sendCfg{logger: defaultLogger}
	for _, opt := range opts {
		opt(&cfg)
	}
	req, err := factory()
	if err != nil {
		return newResFactory(nil, errors.Wrap(err, "Failed to create request"))
	}
	req = req.WithContext(ctx)
	cfg.logger.Debug(ctx, "Sending request: %v %v", req.Method, req.URL)
	httpClient := &http.Client{
		Transport: http.DefaultTransport,
	}
	res, err := httpClient.Do(req)
	if err != nil {
		return newResFactory(nil, errors.Wrapf(err, "Failed to send request: %v %v", req.Method, req.URL))
	}
	cfg.logger.Debug(ctx, "Got response: %v", res.Status)
	return newResFactory(res, nil)
}
