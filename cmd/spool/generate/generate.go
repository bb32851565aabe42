// Package generatecmder provides the generate command for one-shot text
// generation against a running spool gateway.
package generatecmder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/proto"

	"github.com/papercomputeco/spool/llmpb"
	"github.com/papercomputeco/spool/pkg/config"
	"github.com/papercomputeco/spool/pkg/logger"
)

type generateCommander struct {
	target string
	debug  bool

	prompt     string
	parameters *llmpb.GenerateParameters
	logger     *zap.Logger
}

const generateLongDesc string = `Generate text from a prompt using a running spool gateway.

The prompt is sent as one unary generation request; the complete response
prints to stdout once the backend finishes. Use "spool chat" for incremental
streaming output.

Examples:
  spool generate "Write a function to calculate factorial"
  spool generate --max-tokens 256 "Summarize the plot of Hamlet"`

const generateShortDesc string = "One-shot text generation against a spool gateway"

func NewGenerateCmd() *cobra.Command {
	cmder := &generateCommander{}

	var (
		temperature float64
		maxTokens   int
		topP        float64
	)

	cmd := &cobra.Command{
		Use:   "generate <prompt>",
		Short: generateShortDesc,
		Long:  generateLongDesc,
		Args:  cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			cfger, err := config.NewConfiger(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			cfg, err := cfger.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			if !cmd.Flags().Changed("target") {
				cmder.target = cfg.Client.Target
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			cmder.prompt = strings.Join(args, " ")

			cmder.parameters = &llmpb.GenerateParameters{}
			if cmd.Flags().Changed("temperature") {
				cmder.parameters.Temperature = proto.Float64(temperature)
			}
			if cmd.Flags().Changed("max-tokens") {
				cmder.parameters.MaxTokens = proto.Int32(int32(maxTokens))
			}
			if cmd.Flags().Changed("top-p") {
				cmder.parameters.TopP = proto.Float64(topP)
			}

			return cmder.run()
		},
	}

	defaults := config.NewDefaultConfig()
	cmd.Flags().StringVarP(&cmder.target, "target", "t", defaults.Client.Target, "Spool gateway gRPC target (host:port)")
	cmd.Flags().Float64Var(&temperature, "temperature", defaults.Generate.Temperature, "Sampling temperature in [0, 2]")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", defaults.Generate.MaxTokens, "Maximum tokens to generate")
	cmd.Flags().Float64Var(&topP, "top-p", defaults.Generate.TopP, "Nucleus sampling cutoff in [0, 1]")

	return cmd
}

func (c *generateCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	conn, err := grpc.NewClient(c.target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("connecting to gateway: %w", err)
	}
	defer conn.Close()

	client := llmpb.NewLLMServiceClient(conn)

	// Generation can be slow; bound the call generously rather than per
	// fragment since the unary path has no incremental progress to watch.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	start := time.Now()
	resp, err := client.Generate(ctx, &llmpb.GenerateRequest{
		Prompt:     c.prompt,
		Parameters: c.parameters,
	})
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	c.logger.Debug("generation complete",
		zap.Int("chars", len(resp.GetText())),
		zap.Duration("duration", time.Since(start)),
	)

	fmt.Println(resp.GetText())
	return nil
}
