package proxypool

import (
	"errors"
	"fmt"
)

var (
	// ErrInitInFlight is returned by Manager.Start while a previous
	// initialization has not settled yet.
	ErrInitInFlight = errors.New("proxy initialization already in flight")
	// ErrInvalidProtocol is returned for a scrape protocol outside http/socks4/socks5.
	ErrInvalidProtocol = errors.New("invalid proxy protocol")
)

// ReadError means the persisted proxy list could not be opened or read.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// NetworkError means the scrape request failed, timed out or returned a
// non-200 status. Status is zero when no response was received.
type NetworkError struct {
	URL    string
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("scrape %s: unexpected status code: %d", e.URL, e.Status)
	}
	return fmt.Sprintf("scrape %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// EmptyResultError means a source answered well but yielded no valid proxy.
type EmptyResultError struct {
	Source string
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("%s: no valid proxies", e.Source)
}

// WriteError means the diagnostic snapshot could not be written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
