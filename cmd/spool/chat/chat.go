// Package chatcmder provides the chat command for interactive LLM chat
// against a running spool gateway.
package chatcmder

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/proto"

	"github.com/papercomputeco/spool/llmpb"
	"github.com/papercomputeco/spool/pkg/cliui"
	"github.com/papercomputeco/spool/pkg/config"
	"github.com/papercomputeco/spool/pkg/logger"
	"github.com/papercomputeco/spool/pkg/utils"
)

var (
	userPrompt      = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true).Render("you> ")
	assistantPrompt = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render("assistant> ")
)

type chatCommander struct {
	target string
	debug  bool

	parameters *llmpb.GenerateParameters
	logger     *zap.Logger
}

const chatLongDesc string = `Start an interactive chat session against a running spool gateway.

Each message is sent as a streaming generation request; tokens print as the
backend produces them. The gateway connection is plaintext gRPC.

Examples:
  spool chat
  spool chat --target localhost:50051 --temperature 1.2`

const chatShortDesc string = "Interactive streaming chat against a spool gateway"

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	var (
		temperature float64
		maxTokens   int
		topP        float64
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
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
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			// Only explicitly-set flags travel with the request; unset
			// parameters get the gateway's configured defaults.
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

func (c *chatCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	conn, err := grpc.NewClient(c.target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("connecting to gateway: %w", err)
	}
	defer conn.Close()

	client := llmpb.NewLLMServiceClient(conn)

	fmt.Println()
	fmt.Printf("  %s %s\n\n",
		cliui.KeyStyle.Render("Gateway:"),
		cliui.NameStyle.Render(c.target),
	)
	fmt.Printf("  %s\n\n", cliui.DimStyle.Render("Type your message and press Enter. /exit or Ctrl+D to quit."))

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(userPrompt)
		if !scanner.Scan() {
			// EOF or error
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "/exit" {
			break
		}

		start := time.Now()
		if err := c.sendAndStream(client, input); err != nil {
			fmt.Fprintf(os.Stderr, "  %s %v\n", cliui.FailMark, err)
			continue
		}

		fmt.Println()
		fmt.Printf("  %s\n\n", cliui.DimStyle.Render(cliui.FormatDuration(time.Since(start))))
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	fmt.Println()
	return nil
}

// sendAndStream sends one streaming generation request and prints tokens to
// stdout as they arrive.
func (c *chatCommander) sendAndStream(client llmpb.LLMServiceClient, prompt string) error {
	c.logger.Debug("sending generation request",
		zap.String("target", c.target),
		zap.String("prompt", utils.Truncate(prompt, 48)),
	)

	stream, err := client.GenerateStream(context.Background(), &llmpb.GenerateRequest{
		Prompt:     prompt,
		Parameters: c.parameters,
	})
	if err != nil {
		return fmt.Errorf("starting generation: %w", err)
	}

	fmt.Print(assistantPrompt)

	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading stream: %w", err)
		}

		if chunk.GetText() != "" {
			fmt.Print(chunk.GetText())
		}
		if chunk.GetIsComplete() {
			return nil
		}
	}
}
