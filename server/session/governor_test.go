package session_test

import (
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/papercomputeco/spool/server/session"
)

var _ = Describe("Governor", func() {
	It("admits sessions up to the ceiling and rejects the next one", func() {
		g := session.NewGovernor(2, zap.NewNop())

		first, err := g.Acquire(true)
		Expect(err).NotTo(HaveOccurred())
		second, err := g.Acquire(false)
		Expect(err).NotTo(HaveOccurred())

		_, err = g.Acquire(true)
		Expect(err).To(MatchError(session.ErrLimitReached))

		first.End()
		second.End()
	})

	It("frees capacity when a session ends", func() {
		g := session.NewGovernor(1, zap.NewNop())

		s, err := g.Acquire(true)
		Expect(err).NotTo(HaveOccurred())
		s.End()

		next, err := g.Acquire(true)
		Expect(err).NotTo(HaveOccurred())
		next.End()
	})

	It("never blocks when rejecting", func(ctx SpecContext) {
		g := session.NewGovernor(1, zap.NewNop())
		s, err := g.Acquire(true)
		Expect(err).NotTo(HaveOccurred())
		defer s.End()

		done := make(chan struct{})
		go func() {
			defer close(done)
			_, err := g.Acquire(true)
			Expect(err).To(MatchError(session.ErrLimitReached))
		}()
		Eventually(done).Should(BeClosed())
	})

	It("tracks in-flight count atomically under contention", func() {
		g := session.NewGovernor(4, zap.NewNop())

		var wg sync.WaitGroup
		admitted := make(chan *session.Session, 64)
		for i := 0; i < 64; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if s, err := g.Acquire(true); err == nil {
					admitted <- s
				}
			}()
		}
		wg.Wait()
		close(admitted)

		Expect(g.InFlight()).To(BeNumerically("<=", g.Capacity()))
		for s := range admitted {
			s.End()
		}
		Expect(g.InFlight()).To(BeZero())
	})
})

var _ = Describe("Session", func() {
	It("releases its permit exactly once even if ended twice", func() {
		g := session.NewGovernor(1, zap.NewNop())

		s, err := g.Acquire(true)
		Expect(err).NotTo(HaveOccurred())
		s.End()
		s.End()

		Expect(g.InFlight()).To(BeZero())
	})

	It("numbers chunks from zero, strictly increasing", func() {
		g := session.NewGovernor(1, zap.NewNop())
		s, err := g.Acquire(true)
		Expect(err).NotTo(HaveOccurred())
		defer s.End()

		Expect(s.NextSeq()).To(Equal(int64(0)))
		Expect(s.NextSeq()).To(Equal(int64(1)))
		Expect(s.NextSeq()).To(Equal(int64(2)))
	})
})
