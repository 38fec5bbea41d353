package publisher

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"regexp"
	"sync"
	"time"
)

// fakeService is a stub round tripper standing in for the asset service.
type fakeService struct {
	mu sync.Mutex

	// RespondFunc answers a request; nil answers every POST with a canned entry.
	RespondFunc func(req *http.Request, body []byte, n int) (int, string)

	// State
	Posts  []recordedRequest
	Gets   int
	Closed int
}

type recordedRequest struct {
	URL         string
	ContentType string
	Body        string
}

func (f *fakeService) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
		_ = req.Body.Close()
	}

	f.mu.Lock()
	var n int
	if req.Method == http.MethodGet {
		f.Gets++
	} else {
		f.Posts = append(f.Posts, recordedRequest{
			URL:         req.URL.String(),
			ContentType: req.Header.Get("Content-Type"),
			Body:        string(body),
		})
		n = len(f.Posts) - 1
	}
	respond := f.RespondFunc
	f.mu.Unlock()

	code, respBody := http.StatusOK, ""
	switch {
	case respond != nil:
		code, respBody = respond(req, body, n)
	case req.Method == http.MethodPost:
		code, respBody = http.StatusCreated, echoEntry(body)
	}

	return &http.Response{
		StatusCode: code,
		Status:     http.StatusText(code),
		Header:     make(http.Header),
		Body:       io.NopCloser(bytes.NewReader([]byte(respBody))),
		Request:    req,
	}, nil
}

func (f *fakeService) CloseIdleConnections() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed++
}

func (f *fakeService) postCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Posts)
}

var propRe = regexp.MustCompile(`<d:(\w+)>([^<]*)</d:\w+>`)

// echoEntry answers like the service: the posted properties with a real AssetID.
func echoEntry(req []byte) string {
	var b bytes.Buffer
	b.WriteString(`<?xml version="1.0" encoding="utf-8" standalone="yes"?>
<entry xmlns:d="http://schemas.microsoft.com/ado/2007/08/dataservices" xmlns:m="http://schemas.microsoft.com/ado/2007/08/dataservices/metadata" xmlns="http://www.w3.org/2005/Atom">
  <content type="application/xml">
    <m:properties>
`)
	for _, m := range propRe.FindAllSubmatch(req, -1) {
		value := m[2]
		if string(m[1]) == "AssetID" {
			value = []byte("9a24c8e2-1066-42fb-be1c-697c5ead476d")
		}
		b.WriteString("      <d:" + string(m[1]) + ">" + string(value) + "</d:" + string(m[1]) + ">\n")
	}
	b.WriteString(`    </m:properties>
  </content>
</entry>`)
	return b.String()
}

// okProber accepts every URL.
type okProber struct{}

func (okProber) Probe(context.Context, string) (int, error) {
	return http.StatusOK, nil
}

// mockClock implements Clock with a fixed time (tests only)
type mockClock struct {
	current time.Time
}

func (m mockClock) Now() time.Time {
	return m.current
}
