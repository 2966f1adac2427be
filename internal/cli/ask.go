package cli

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-riskform/pkg/orchestrator"
	"github.com/goliatone/go-riskform/pkg/predict"
	"github.com/goliatone/go-riskform/pkg/render"
	"github.com/goliatone/go-riskform/pkg/renderers/tui"
)

func (a *app) newAskCommand() *cobra.Command {
	var (
		assumeYes bool
		dryRun    bool
		format    string
	)

	cmd := &cobra.Command{
		Use:   "ask",
		Short: "Fill the form in the terminal and print the prediction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			orch, err := a.open(ctx)
			if err != nil {
				return err
			}

			driver := a.driver
			if driver == nil {
				driver = tui.NewSurveyDriver(cmd.OutOrStdout())
			}
			renderer, err := tui.New(
				tui.WithPromptDriver(driver),
				tui.WithOutputFormat(tui.OutputFormat(format)),
			)
			if err != nil {
				return err
			}
			if dryRun {
				return a.printAnswers(cmd, orch, renderer)
			}
			fm, err := orch.Form(ctx)
			if err != nil {
				return err
			}

			opts := orch.RenderOptions(render.RenderOptions{}, nil)
			for {
				raw, err := renderer.Collect(ctx, fm, opts)
				if errors.Is(err, tui.ErrAborted) {
					return nil
				}
				if err != nil {
					return err
				}

				if !assumeYes {
					ok, err := renderer.ConfirmSubmit(ctx, opts)
					if errors.Is(err, tui.ErrAborted) || (err == nil && !ok) {
						return nil
					}
					if err != nil {
						return err
					}
				}

				sub, err := orch.Submit(ctx, raw)
				var inference *predict.InferenceError
				switch {
				case err == nil:
					return renderer.ShowResult(ctx, *sub.Result, opts)
				case errors.Is(err, orchestrator.ErrInvalidInput):
					if err := renderer.ShowErrors(ctx, sub.State, nil, opts); err != nil {
						return err
					}
					opts.State = sub.State
				case errors.As(err, &inference):
					return renderer.ShowErrors(ctx, nil, sub.Errors, opts)
				default:
					return fmt.Errorf("ask: %w", err)
				}
			}
		},
	}
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "submit without asking for confirmation")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the collected answers instead of predicting")
	cmd.Flags().StringVar(&format, "format", string(tui.OutputFormatJSON), "answer format for --dry-run (json, form, pretty)")
	return cmd
}

// printAnswers registers the terminal renderer with the orchestrator and
// writes its serialized answers to stdout without running the classifier.
func (a *app) printAnswers(cmd *cobra.Command, orch *orchestrator.Orchestrator, renderer *tui.Renderer) error {
	if !orch.Registry().Has(renderer.Name()) {
		if err := orch.Registry().Register(renderer); err != nil {
			return err
		}
	}

	out, err := orch.Render(cmd.Context(), orchestrator.Request{Renderer: renderer.Name()})
	if errors.Is(err, tui.ErrAborted) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("ask: %w", err)
	}

	a.logger.Debug("answers collected",
		zap.String("content_type", renderer.ContentType()),
		zap.Int("bytes", len(out)),
	)
	if !bytes.HasSuffix(out, []byte("\n")) {
		out = append(out, '\n')
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
