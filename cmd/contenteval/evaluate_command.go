package main

import (
	"contenteval/internal/cache"
	"contenteval/internal/model"
	"contenteval/internal/render"
	"contenteval/internal/service"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newEvaluateCommand(ctx *commandContext) *cobra.Command {
	var (
		description       string
		descriptionFile   string
		transcription     string
		transcriptionFile string
		apiURL            string
		token             string
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Score a transcription against an image description",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			if descriptionFile != "" {
				if description, err = readText(descriptionFile); err != nil {
					return err
				}
			}
			if transcriptionFile != "" {
				if transcription, err = readText(transcriptionFile); err != nil {
					return err
				}
			}

			sessions := service.NewSessionService(cache.NewMemorySessionCache(), &cfg.Scoring)
			session, err := sessions.Create(cmd.Context(), "cli")
			if err != nil {
				return err
			}
			if apiURL != "" || token != "" {
				settings := model.Settings{APIURL: apiURL, APIToken: token}
				if settings.APIURL == "" {
					settings.APIURL = session.Settings.APIURL
				}
				if err := sessions.UpdateSettings(cmd.Context(), session, settings); err != nil {
					return errors.New(service.UserMessage(err))
				}
			}

			evaluator := service.NewEvaluatorService(service.NewScoringClient(&cfg.Scoring), sessions)
			result, err := evaluator.Evaluate(cmd.Context(), session, model.EvaluateRequest{
				Description:   description,
				Transcription: transcription,
			})
			if err != nil {
				return errors.New(service.UserMessage(err))
			}

			out := cmd.OutOrStdout()
			if ctx.jsonOutput() {
				return render.JSON(out, result)
			}
			_, err = fmt.Fprint(out, render.Breakdown(result.Breakdown, render.ShouldColorize(out)))
			return err
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Reference image description")
	cmd.Flags().StringVar(&descriptionFile, "description-file", "", "Read the image description from a file")
	cmd.Flags().StringVarP(&transcription, "transcription", "t", "", "Student transcription")
	cmd.Flags().StringVar(&transcriptionFile, "transcription-file", "", "Read the transcription from a file")
	cmd.Flags().StringVar(&apiURL, "api-url", "", "Scoring API base URL (overrides configuration)")
	cmd.Flags().StringVar(&token, "token", "", "Scoring API token (overrides configuration)")

	return cmd
}

func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
