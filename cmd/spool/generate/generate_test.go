package generatecmder_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	generatecmder "github.com/papercomputeco/spool/cmd/spool/generate"
)

var _ = Describe("NewGenerateCmd", func() {
	It("creates a command requiring a prompt argument", func() {
		cmd := generatecmder.NewGenerateCmd()
		Expect(cmd.Use).To(Equal("generate <prompt>"))

		cmd.SetArgs([]string{})
		Expect(cmd.Execute()).NotTo(Succeed())
	})

	It("has --target flag with the default gateway target", func() {
		cmd := generatecmder.NewGenerateCmd()
		flag := cmd.Flags().Lookup("target")
		Expect(flag).NotTo(BeNil())
		Expect(flag.DefValue).To(Equal("localhost:50051"))
	})

	It("has sampling parameter flags", func() {
		cmd := generatecmder.NewGenerateCmd()
		Expect(cmd.Flags().Lookup("temperature")).NotTo(BeNil())
		Expect(cmd.Flags().Lookup("max-tokens")).NotTo(BeNil())
		Expect(cmd.Flags().Lookup("top-p")).NotTo(BeNil())
	})
})
