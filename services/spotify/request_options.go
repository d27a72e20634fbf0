package spotify

import (
	"net/url"
	"strconv"
)

type RequestOption func(*requestOptions)

type requestOptions struct {
	urlParams url.Values
}

// Limit sets the page size.
func Limit(n int) RequestOption {
	return func(ro *requestOptions) {
		ro.urlParams.Set("limit", strconv.Itoa(n))
	}
}

func Offset(n int) RequestOption {
	return func(ro *requestOptions) {
		ro.urlParams.Set("offset", strconv.Itoa(n))
	}
}

// Market restricts results to the given ISO 3166-1 country code, or
// "from_token" for the user's own market.
func Market(code string) RequestOption {
	return func(ro *requestOptions) {
		ro.urlParams.Set("market", code)
	}
}

// Fields filters the response down to the given field selector.
func Fields(f string) RequestOption {
	return func(ro *requestOptions) {
		ro.urlParams.Set("fields", f)
	}
}

func buildRequestOptions(options ...RequestOption) requestOptions {
	op := requestOptions{
		urlParams: url.Values{},
	}
	for _, opt := range options {
		opt(&op)
	}
	return op
}
