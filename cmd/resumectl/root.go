package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/yourusername/resumeiq-api/internal/config"
	"github.com/yourusername/resumeiq-api/internal/section"
	"github.com/yourusername/resumeiq-api/internal/service"
)

const app = "resumectl"

// Actual version can be specified in build command.
var version = "dev"

// cliOptions are the flags shared by every command
type cliOptions struct {
	debug     bool
	assistant bool
	preamble  bool
	json      bool
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:           app,
		Short:         "resumectl segments, scores and improves résumés from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			zerolog.SetGlobalLevel(zerolog.WarnLevel)
			if opts.debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()})
		},
	}

	root.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", false, "verbose/debug output")
	root.PersistentFlags().BoolVar(&opts.assistant, "assistant", false, "use the Claude assistant when CLAUDE_API_KEY is set")
	root.PersistentFlags().BoolVar(&opts.preamble, "preamble", false, "keep text before the first header as a contact section")
	root.PersistentFlags().BoolVarP(&opts.json, "json", "j", false, "print results as JSON")

	root.AddCommand(
		newAnalyzeCmd(opts),
		newSectionsCmd(opts),
		newBatchCmd(opts),
		newMatchCmd(opts),
		newRewriteCmd(opts),
		newRolesCmd(opts),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version: %s\n", app, version)
			},
		},
	)
	return root
}

// newAnalyzer builds the pipeline from the environment and flags
func (o *cliOptions) newAnalyzer() *service.Analyzer {
	cfg := config.Load()

	var segOpts []section.Option
	if o.preamble || cfg.KeepPreamble {
		segOpts = append(segOpts, section.WithPreamble())
	}
	opts := []service.Option{
		service.WithSegmenter(section.New(segOpts...)),
		service.WithBatchLimit(cfg.BatchLimit),
	}
	if o.assistant {
		if cfg.AssistantEnabled() {
			opts = append(opts, service.WithAssistant(
				service.NewClaudeClient(cfg.ClaudeAPIKey, cfg.ClaudeBaseURL, cfg.ClaudeModel, cfg.LLMMinInterval)))
		} else {
			log.Warn().Msg("Assistant requested but CLAUDE_API_KEY is not set, using rule-based fallbacks")
		}
	}
	return service.NewAnalyzer(nil, nil, opts...)
}

// readInput loads résumé text from a file, a PDF or stdin ("-")
func readInput(cmd *cobra.Command, path string) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		text, err := service.ExtractPDFText(data)
		if err != nil {
			return "", fmt.Errorf("extracting text from %s: %w", path, err)
		}
		return text, nil
	}
	return string(data), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
