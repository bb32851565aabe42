package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/proto"

	"github.com/papercomputeco/spool/llmpb"
	"github.com/papercomputeco/spool/pkg/backend"
	"github.com/papercomputeco/spool/server"
)

// fakeBackend stands in for an Ollama-compatible upstream. The generate
// handler drives /api/generate; /api/tags always advertises the test model.
func fakeBackend(generate http.HandlerFunc) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tags", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"models":[{"name":"llama3.2:latest"}]}`))
	})
	mux.HandleFunc("/api/generate", generate)
	return httptest.NewServer(mux)
}

// startGateway runs a gateway over an in-memory listener and returns a
// connected client.
func startGateway(upstream string, maxConcurrent int, readTimeout time.Duration) (llmpb.LLMServiceClient, func()) {
	srv, err := server.New(server.Config{
		ListenAddr: "unused",
		Backend: backend.Config{
			Upstream:    upstream,
			Model:       "llama3.2",
			ReadTimeout: readTimeout,
		},
		MaxConcurrent: maxConcurrent,
	}, zap.NewNop())
	Expect(err).NotTo(HaveOccurred())

	lis := bufconn.Listen(1 << 20)
	go srv.RunWithListener(lis)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	Expect(err).NotTo(HaveOccurred())

	return llmpb.NewLLMServiceClient(conn), func() {
		conn.Close()
		srv.Close()
	}
}

// recvAll drains a server stream, returning the chunks received and the
// terminal error (nil after a clean io.EOF).
func recvAll(stream grpc.ServerStreamingClient[llmpb.GenerateChunk]) ([]*llmpb.GenerateChunk, error) {
	var chunks []*llmpb.GenerateChunk
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return chunks, nil
		}
		if err != nil {
			return chunks, err
		}
		chunks = append(chunks, chunk)
	}
}

var _ = Describe("Generate", func() {
	It("returns the aggregate text from a buffered backend call", func(ctx SpecContext) {
		var gotStream *bool
		upstream := fakeBackend(func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Stream *bool `json:"stream"`
			}
			Expect(json.NewDecoder(r.Body).Decode(&req)).To(Succeed())
			gotStream = req.Stream
			w.Write([]byte(`{"response":"factorial is the product of integers up to n","done":true}`))
		})
		defer upstream.Close()

		client, cleanup := startGateway(upstream.URL, 4, time.Second)
		defer cleanup()

		resp, err := client.Generate(ctx, &llmpb.GenerateRequest{Prompt: "explain factorial"})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.GetSuccess()).To(BeTrue())
		Expect(resp.GetText()).To(Equal("factorial is the product of integers up to n"))
		Expect(gotStream).To(HaveValue(BeFalse()))
	})

	It("rejects an empty prompt without touching the backend", func(ctx SpecContext) {
		touched := false
		upstream := fakeBackend(func(w http.ResponseWriter, r *http.Request) {
			touched = true
		})
		defer upstream.Close()

		client, cleanup := startGateway(upstream.URL, 4, time.Second)
		defer cleanup()

		_, err := client.Generate(ctx, &llmpb.GenerateRequest{})
		Expect(status.Code(err)).To(Equal(codes.InvalidArgument))
		Expect(touched).To(BeFalse())
	})

	It("rejects out-of-range parameters with the field named", func(ctx SpecContext) {
		upstream := fakeBackend(func(w http.ResponseWriter, r *http.Request) {})
		defer upstream.Close()

		client, cleanup := startGateway(upstream.URL, 4, time.Second)
		defer cleanup()

		_, err := client.Generate(ctx, &llmpb.GenerateRequest{
			Prompt: "hello",
			Parameters: &llmpb.GenerateParameters{
				Temperature: proto.Float64(9.5),
			},
		})
		Expect(status.Code(err)).To(Equal(codes.InvalidArgument))
		Expect(err.Error()).To(ContainSubstring("temperature"))
	})

	It("fails with unavailable and zero partial text when the backend is unreachable", func(ctx SpecContext) {
		upstream := fakeBackend(func(w http.ResponseWriter, r *http.Request) {})
		upstream.Close()

		client, cleanup := startGateway(upstream.URL, 4, time.Second)
		defer cleanup()

		resp, err := client.Generate(ctx, &llmpb.GenerateRequest{Prompt: "hello"})
		Expect(status.Code(err)).To(Equal(codes.Unavailable))
		Expect(resp).To(BeNil())
	})

	It("maps a backend 5xx to internal", func(ctx SpecContext) {
		upstream := fakeBackend(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
		})
		defer upstream.Close()

		client, cleanup := startGateway(upstream.URL, 4, time.Second)
		defer cleanup()

		_, err := client.Generate(ctx, &llmpb.GenerateRequest{Prompt: "hello"})
		Expect(status.Code(err)).To(Equal(codes.Internal))
	})

	It("maps a backend 4xx to invalid argument", func(ctx SpecContext) {
		upstream := fakeBackend(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"model not found"}`, http.StatusNotFound)
		})
		defer upstream.Close()

		client, cleanup := startGateway(upstream.URL, 4, time.Second)
		defer cleanup()

		_, err := client.Generate(ctx, &llmpb.GenerateRequest{Prompt: "hello"})
		Expect(status.Code(err)).To(Equal(codes.InvalidArgument))
	})
})

var _ = Describe("GenerateStream", func() {
	It("forwards chunks in order with the completion marker last", func(ctx SpecContext) {
		upstream := fakeBackend(func(w http.ResponseWriter, r *http.Request) {
			flusher := w.(http.Flusher)
			for _, line := range []string{
				`{"response":"func factorial","done":false}`,
				`{"response":"(n int) int {","done":false}`,
				`{"response":"","done":true}`,
			} {
				w.Write([]byte(line + "\n"))
				flusher.Flush()
			}
		})
		defer upstream.Close()

		client, cleanup := startGateway(upstream.URL, 4, time.Second)
		defer cleanup()

		stream, err := client.GenerateStream(ctx, &llmpb.GenerateRequest{Prompt: "write factorial"})
		Expect(err).NotTo(HaveOccurred())

		chunks, err := recvAll(stream)
		Expect(err).NotTo(HaveOccurred())
		Expect(chunks).To(HaveLen(3))
		Expect(chunks[0].GetText()).To(Equal("func factorial"))
		Expect(chunks[1].GetText()).To(Equal("(n int) int {"))
		Expect(chunks[0].GetIsComplete()).To(BeFalse())
		Expect(chunks[1].GetIsComplete()).To(BeFalse())
		Expect(chunks[2].GetIsComplete()).To(BeTrue())
	})

	It("delivers a prefix of chunks then an unavailable status on mid-stream drop", func(ctx SpecContext) {
		upstream := fakeBackend(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"response":"partial","done":false}` + "\n"))
			w.(http.Flusher).Flush()
			// Drop without a done marker.
		})
		defer upstream.Close()

		client, cleanup := startGateway(upstream.URL, 4, time.Second)
		defer cleanup()

		stream, err := client.GenerateStream(ctx, &llmpb.GenerateRequest{Prompt: "hello"})
		Expect(err).NotTo(HaveOccurred())

		chunks, err := recvAll(stream)
		Expect(status.Code(err)).To(Equal(codes.Unavailable))
		Expect(chunks).To(HaveLen(1))
		Expect(chunks[0].GetText()).To(Equal("partial"))
	})

	It("surfaces validation errors on the first receive", func(ctx SpecContext) {
		upstream := fakeBackend(func(w http.ResponseWriter, r *http.Request) {})
		defer upstream.Close()

		client, cleanup := startGateway(upstream.URL, 4, time.Second)
		defer cleanup()

		stream, err := client.GenerateStream(ctx, &llmpb.GenerateRequest{
			Prompt:     "hello",
			Parameters: &llmpb.GenerateParameters{TopP: proto.Float64(3)},
		})
		Expect(err).NotTo(HaveOccurred())

		_, err = stream.Recv()
		Expect(status.Code(err)).To(Equal(codes.InvalidArgument))
	})

	It("tears down the backend call when the caller cancels", func(ctx SpecContext) {
		backendDone := make(chan struct{})
		upstream := fakeBackend(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"response":"one","done":false}` + "\n"))
			w.(http.Flusher).Flush()
			<-r.Context().Done()
			close(backendDone)
		})
		defer upstream.Close()

		client, cleanup := startGateway(upstream.URL, 4, 30*time.Second)
		defer cleanup()

		callCtx, cancel := context.WithCancel(ctx)
		stream, err := client.GenerateStream(callCtx, &llmpb.GenerateRequest{Prompt: "hello"})
		Expect(err).NotTo(HaveOccurred())

		chunk, err := stream.Recv()
		Expect(err).NotTo(HaveOccurred())
		Expect(chunk.GetText()).To(Equal("one"))

		cancel()
		Eventually(backendDone).Within(5 * time.Second).Should(BeClosed())

		_, err = stream.Recv()
		Expect(status.Code(err)).To(Equal(codes.Canceled))
	})
})

var _ = Describe("slow consumers", func() {
	It("frees the permit when a connected caller stops receiving", func(ctx SpecContext) {
		// Produce chunks faster than anyone reads them so the outbound
		// flow-control window fills and Send blocks.
		upstream := fakeBackend(func(w http.ResponseWriter, r *http.Request) {
			flusher := w.(http.Flusher)
			for {
				if _, err := w.Write([]byte(`{"response":"xxxxxxxxxxxxxxxx","done":false}` + "\n")); err != nil {
					return
				}
				flusher.Flush()
				select {
				case <-r.Context().Done():
					return
				default:
				}
			}
		})
		defer upstream.Close()

		client, cleanup := startGateway(upstream.URL, 1, 300*time.Millisecond)
		defer cleanup()

		stream, err := client.GenerateStream(ctx, &llmpb.GenerateRequest{Prompt: "flood"})
		Expect(err).NotTo(HaveOccurred())

		_, err = stream.Recv()
		Expect(err).NotTo(HaveOccurred())
		// Stay connected but stop receiving. No cancellation reaches the
		// server; only the send bound can end the session.

		Eventually(func() codes.Code {
			_, err := client.Generate(ctx, &llmpb.GenerateRequest{Prompt: "after the stall"})
			return status.Code(err)
		}).Within(5 * time.Second).ProbeEvery(200 * time.Millisecond).ShouldNot(Equal(codes.ResourceExhausted))
	})
})

var _ = Describe("concurrency ceiling", func() {
	It("rejects the call past the ceiling with resource exhausted, without blocking", func(ctx SpecContext) {
		release := make(chan struct{})
		upstream := fakeBackend(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"response":"held","done":false}` + "\n"))
			w.(http.Flusher).Flush()
			select {
			case <-release:
			case <-r.Context().Done():
			}
			w.Write([]byte(`{"response":"","done":true}` + "\n"))
		})
		defer upstream.Close()

		client, cleanup := startGateway(upstream.URL, 1, 30*time.Second)
		defer cleanup()

		stream, err := client.GenerateStream(ctx, &llmpb.GenerateRequest{Prompt: "hold the permit"})
		Expect(err).NotTo(HaveOccurred())
		_, err = stream.Recv()
		Expect(err).NotTo(HaveOccurred())

		_, err = client.Generate(ctx, &llmpb.GenerateRequest{Prompt: "one too many"})
		Expect(status.Code(err)).To(Equal(codes.ResourceExhausted))

		close(release)
		_, err = recvAll(stream)
		Expect(err).NotTo(HaveOccurred())

		// The permit is back; the next call is admitted.
		Eventually(func() codes.Code {
			_, err := client.Generate(ctx, &llmpb.GenerateRequest{Prompt: "try again"})
			return status.Code(err)
		}).Within(5 * time.Second).ShouldNot(Equal(codes.ResourceExhausted))
	})
})
