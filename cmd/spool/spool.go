// Package spoolcmder
package spoolcmder

import (
	"github.com/spf13/cobra"

	chatcmder "github.com/papercomputeco/spool/cmd/spool/chat"
	configcmder "github.com/papercomputeco/spool/cmd/spool/config"
	generatecmder "github.com/papercomputeco/spool/cmd/spool/generate"
	servecmder "github.com/papercomputeco/spool/cmd/spool/serve"
	versioncmder "github.com/papercomputeco/spool/cmd/version"
)

const spoolLongDesc string = `Spool is a gRPC gateway for local LLM text generation.

Run the gateway:
  spool serve              Run the gRPC gateway server

Talk to a running gateway:
  spool generate "..."     One-shot text generation
  spool chat               Interactive streaming chat`

const spoolShortDesc string = "Spool - gRPC text generation gateway"

func NewSpoolCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spool",
		Short: spoolShortDesc,
		Long:  spoolLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Directory holding config.toml (default: ./.spool or ~/.spool)")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(generatecmder.NewGenerateCmd())
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
