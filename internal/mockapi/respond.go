package mockapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// apiError is the JSON body of every fabricated error response.
type apiError struct {
	Message string `json:"message"`
}

// result is the outcome of a handled request before it is rendered as an
// *http.Response or written to a ResponseWriter.
type result struct {
	status int
	body   any
	delay  time.Duration
}

func ok(status int, body any) *result {
	return &result{status: status, body: body}
}

func fail(status int, message string) *result {
	return &result{status: status, body: apiError{Message: message}}
}

// encodeBody renders the result body as JSON. 204s carry no body.
func (res *result) encodeBody() []byte {
	if res.status == http.StatusNoContent || res.body == nil {
		return nil
	}
	data, err := json.Marshal(res.body)
	if err != nil {
		// Handler bodies are plain records; a marshal failure is a bug.
		return []byte(`{"message":"Internal Server Error"}`)
	}
	return data
}

// httpResponse fabricates a client-side *http.Response for the result.
func (res *result) httpResponse(req *http.Request) *http.Response {
	data := res.encodeBody()
	header := make(http.Header)
	if data != nil {
		header.Set("Content-Type", "application/json")
	}
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", res.status, http.StatusText(res.status)),
		StatusCode:    res.status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(data)),
		ContentLength: int64(len(data)),
		Request:       req,
	}
}

// write renders the result onto a server-side ResponseWriter.
func (res *result) write(w http.ResponseWriter) {
	data := res.encodeBody()
	if data != nil {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(res.status)
	if data != nil {
		_, _ = w.Write(data)
	}
}
