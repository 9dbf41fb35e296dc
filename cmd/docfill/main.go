// docfill fills bracket-marker legal documents conversationally.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
	"github.com/tbxark/docfill/clarify"
	"github.com/tbxark/docfill/conversation"
	"github.com/tbxark/docfill/detect"
	"github.com/tbxark/docfill/docpkg"
	"github.com/tbxark/docfill/extract"
	"github.com/tbxark/docfill/session"
	"github.com/tbxark/docfill/types"
)

var (
	configPath string
	outputPath string
	valuesPath string
	verbose    bool
)

func main() {
	root := &cobra.Command{
		Use:           "docfill",
		Short:         "Fill bracket-marker documents through conversation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
			}
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "yaml config file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	detectCmd := &cobra.Command{
		Use:   "detect <document.docx>",
		Short: "List the fillable fields of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := detectFields(args[0])
			if err != nil {
				return err
			}
			fmt.Print(types.FormatFieldInventory(fields))
			return nil
		},
	}

	fillCmd := &cobra.Command{
		Use:   "fill <document.docx>",
		Short: "Fill a document interactively and write the completed copy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFill(cmd.Context(), args[0])
		},
	}
	fillCmd.Flags().StringVarP(&outputPath, "output", "o", "filled.docx", "output path")

	renderCmd := &cobra.Command{
		Use:   "render <document.docx>",
		Short: "Substitute a values file into a document without a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(args[0])
		},
	}
	renderCmd.Flags().StringVar(&valuesPath, "values", "", "json file mapping field names to values")
	renderCmd.Flags().StringVarP(&outputPath, "output", "o", "filled.docx", "output path")
	_ = renderCmd.MarkFlagRequired("values")

	root.AddCommand(detectCmd, fillCmd, renderCmd)
	if err := root.Execute(); err != nil {
		slog.Error("docfill failed", "err", err)
		os.Exit(1)
	}
}

func detectFields(path string) ([]*types.Field, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	pkg, err := docpkg.Open(data)
	if err != nil {
		return nil, err
	}
	text, err := pkg.Text()
	if err != nil {
		return nil, err
	}
	fields := detect.Detect(text)
	if err := detect.Require(fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func buildManager(ctx context.Context) (*session.Manager, error) {
	conf, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	chatModel, err := conf.chatModel(ctx)
	if err != nil {
		return nil, err
	}

	tiers := []extract.Extractor{extract.NewPatternExtractor()}
	clarifier := clarify.Clarifier(clarify.NewLocalClarifier())
	if chatModel != nil {
		toolExtractor, err := extract.NewToolBasedExtractor(chatModel, conf.timeout())
		if err != nil {
			return nil, err
		}
		tiers = append(tiers, toolExtractor)
		clarifier = clarify.NewFailbackClarifier(
			clarify.NewToolBasedClarifier(chatModel, clarify.WithTimeout(conf.timeout())),
			clarify.NewLocalClarifier(),
		)
	}

	orchestrator := conversation.New(extract.NewTieredExtractor(tiers...), clarifier)
	return session.NewManager(orchestrator, nil), nil
}

func runFill(ctx context.Context, path string) error {
	original, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}
	fields, err := detectFields(path)
	if err != nil {
		return err
	}
	manager, err := buildManager(ctx)
	if err != nil {
		return err
	}
	sess, err := manager.Start(ctx, fields)
	if err != nil {
		return err
	}

	first := types.FirstUnfilled(fields)
	fmt.Printf("Found %d fields to fill. What is the %s? (%s)\n",
		len(fields), first.Description, types.TypeHint(first.Type))

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		result, err := manager.Turn(ctx, sess.ID, scanner.Text())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		if result.Completed {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	if !types.AllFilled(fields) {
		return fmt.Errorf("conversation ended before all fields were filled")
	}
	return writeFilled(original, fields)
}

func runRender(path string) error {
	original, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}
	fields, err := detectFields(path)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(valuesPath)
	if err != nil {
		return fmt.Errorf("read values: %w", err)
	}
	values := map[string]string{}
	if err := sonic.Unmarshal(raw, &values); err != nil {
		return fmt.Errorf("parse values: %w", err)
	}
	for _, f := range fields {
		if v, ok := values[f.Name]; ok {
			f.SetValue(v)
		}
	}
	return writeFilled(original, fields)
}

func writeFilled(original []byte, fields []*types.Field) error {
	out, err := docpkg.Regenerate(original, fields)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, out, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	slog.Info("document written", "path", outputPath)
	return nil
}
