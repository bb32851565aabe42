package servecmder_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	servecmder "github.com/papercomputeco/spool/cmd/spool/serve"
)

var _ = Describe("NewServeCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := servecmder.NewServeCmd()
		Expect(cmd.Use).To(Equal("serve"))
	})

	It("has --listen flag with the default listen address", func() {
		cmd := servecmder.NewServeCmd()
		flag := cmd.Flags().Lookup("listen")
		Expect(flag).NotTo(BeNil())
		Expect(flag.Shorthand).To(Equal("l"))
		Expect(flag.DefValue).To(Equal(":50051"))
	})

	It("has --upstream flag with the default backend URL", func() {
		cmd := servecmder.NewServeCmd()
		flag := cmd.Flags().Lookup("upstream")
		Expect(flag).NotTo(BeNil())
		Expect(flag.Shorthand).To(Equal("u"))
		Expect(flag.DefValue).To(Equal("http://localhost:11434"))
	})

	It("has --model flag with the default model", func() {
		cmd := servecmder.NewServeCmd()
		flag := cmd.Flags().Lookup("model")
		Expect(flag).NotTo(BeNil())
		Expect(flag.DefValue).To(Equal("llama3.2"))
	})

	It("has --max-concurrent flag with the default ceiling", func() {
		cmd := servecmder.NewServeCmd()
		flag := cmd.Flags().Lookup("max-concurrent")
		Expect(flag).NotTo(BeNil())
		Expect(flag.DefValue).To(Equal("8"))
	})

	It("has --timeout flag with the default read timeout", func() {
		cmd := servecmder.NewServeCmd()
		flag := cmd.Flags().Lookup("timeout")
		Expect(flag).NotTo(BeNil())
		Expect(flag.DefValue).To(Equal("30"))
	})
})
