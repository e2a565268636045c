package client

import (
	"fmt"
	"io"
)

// StreamGet fetches the resource at url as a raw byte stream. url is
// absolute (clip addresses are resolved against BaseURL by the caller).
// The returned body must be closed by the caller.
func (b *Blink) StreamGet(url string) (io.ReadCloser, error) {
	// Raw-body mode is a client-level switch in resty; flip it back once
	// the request has gone out. The client is not used concurrently.
	b.HTTP.SetDoNotParseResponse(true)
	defer b.HTTP.SetDoNotParseResponse(false)

	resp, err := b.HTTP.R().Get(url)

	if err != nil {
		return nil, err
	}
	if resp.StatusCode() >= 400 {
		body := resp.RawBody()
		if body != nil {
			body.Close()
		}
		return nil, fmt.Errorf("failed to stream %s: status %d", url, resp.StatusCode())
	}
	return resp.RawBody(), nil
}
