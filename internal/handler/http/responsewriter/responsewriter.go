// Package responsewriter records what a handler sent so middleware can log
// and measure it afterwards.
package responsewriter

import "net/http"

// Recorder remembers the status and body size written through it. The first
// status wins; a body written without one implies 200.
type Recorder struct {
	http.ResponseWriter
	status int
	size   int
}

func Wrap(w http.ResponseWriter) *Recorder {
	return &Recorder{ResponseWriter: w}
}

func (r *Recorder) WriteHeader(code int) {
	if r.status != 0 {
		return
	}
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *Recorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.WriteHeader(http.StatusOK)
	}
	n, err := r.ResponseWriter.Write(b)
	r.size += n
	return n, err
}

// Status is the status sent, or 200 when the handler wrote nothing.
func (r *Recorder) Status() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

// Size is the number of body bytes written.
func (r *Recorder) Size() int { return r.size }

// Written reports whether headers were sent.
func (r *Recorder) Written() bool { return r.status != 0 }

// Unwrap lets http.ResponseController reach the underlying writer.
func (r *Recorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }
