package ndjson_test

import (
	"errors"
	"io"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/spool/pkg/ndjson"
)

// scriptedReader yields each script entry from a single Read call, which lets
// tests control exactly how frames are split across reads.
type scriptedReader struct {
	script []string
}

func (r *scriptedReader) Read(p []byte) (int, error) {
	if len(r.script) == 0 {
		return 0, io.EOF
	}
	n := copy(p, r.script[0])
	if n < len(r.script[0]) {
		r.script[0] = r.script[0][n:]
	} else {
		r.script = r.script[1:]
	}
	return n, nil
}

// errReader fails with the given error after its payload is consumed.
type errReader struct {
	payload string
	err     error
	drained bool
}

func (r *errReader) Read(p []byte) (int, error) {
	if !r.drained {
		r.drained = true
		return copy(p, r.payload), nil
	}
	return 0, r.err
}

func drain(f *ndjson.Framer) ([]string, error) {
	var frames []string
	for {
		frame, err := f.Next()
		if err != nil {
			return frames, err
		}
		frames = append(frames, string(frame))
	}
}

var _ = Describe("Framer", func() {
	It("splits multiple frames arriving in a single read", func() {
		f := ndjson.NewFramer(strings.NewReader("{\"a\":1}\n{\"b\":2}\n{\"c\":3}\n"))

		frames, err := drain(f)
		Expect(err).To(MatchError(io.EOF))
		Expect(frames).To(Equal([]string{`{"a":1}`, `{"b":2}`, `{"c":3}`}))
	})

	It("reassembles a frame split across several reads", func() {
		f := ndjson.NewFramer(&scriptedReader{script: []string{
			`{"resp`, `onse":`, `"hi"}`, "\n",
		}})

		frames, err := drain(f)
		Expect(err).To(MatchError(io.EOF))
		Expect(frames).To(Equal([]string{`{"response":"hi"}`}))
	})

	It("handles a read carrying the tail of one frame and the head of the next", func() {
		f := ndjson.NewFramer(&scriptedReader{script: []string{
			`{"a":1}` + "\n" + `{"b"`, `:2}` + "\n",
		}})

		frames, err := drain(f)
		Expect(err).To(MatchError(io.EOF))
		Expect(frames).To(Equal([]string{`{"a":1}`, `{"b":2}`}))
	})

	It("skips empty keep-alive lines", func() {
		f := ndjson.NewFramer(strings.NewReader("\n\n{\"a\":1}\n\n{\"b\":2}\n"))

		frames, err := drain(f)
		Expect(err).To(MatchError(io.EOF))
		Expect(frames).To(Equal([]string{`{"a":1}`, `{"b":2}`}))
	})

	It("strips carriage returns from CRLF-delimited frames", func() {
		f := ndjson.NewFramer(strings.NewReader("{\"a\":1}\r\n{\"b\":2}\r\n"))

		frames, err := drain(f)
		Expect(err).To(MatchError(io.EOF))
		Expect(frames).To(Equal([]string{`{"a":1}`, `{"b":2}`}))
	})

	It("yields a trailing unterminated frame before EOF", func() {
		f := ndjson.NewFramer(strings.NewReader("{\"a\":1}\n{\"b\":2}"))

		frames, err := drain(f)
		Expect(err).To(MatchError(io.EOF))
		Expect(frames).To(Equal([]string{`{"a":1}`, `{"b":2}`}))
	})

	It("propagates read errors after surfacing complete frames", func() {
		cause := errors.New("connection reset")
		f := ndjson.NewFramer(&errReader{payload: "{\"a\":1}\n", err: cause})

		frame, err := f.Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(string(frame)).To(Equal(`{"a":1}`))

		_, err = f.Next()
		Expect(err).To(MatchError(cause))
	})

	It("fails when a frame exceeds the maximum length", func() {
		f := ndjson.NewFramer(&scriptedReader{script: []string{
			strings.Repeat("x", 2*1024*1024),
		}})

		_, err := f.Next()
		Expect(err).To(MatchError(ndjson.ErrFrameTooLong))
	})

	It("keeps returning the same error once failed", func() {
		f := ndjson.NewFramer(strings.NewReader(""))

		_, err := f.Next()
		Expect(err).To(MatchError(io.EOF))

		_, err = f.Next()
		Expect(err).To(MatchError(io.EOF))
	})
})
