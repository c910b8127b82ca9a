package main

import (
	"contenteval/internal/cache"
	"contenteval/internal/model"
	"contenteval/internal/render"
	"contenteval/internal/service"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

func newRecordsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Browse stored evaluation records",
	}

	cmd.AddCommand(newRecordsListCommand(ctx))
	cmd.AddCommand(newRecordsShowCommand(ctx))
	cmd.AddCommand(newRecordsRefreshCommand(ctx))
	return cmd
}

func newRecordsListCommand(ctx *commandContext) *cobra.Command {
	var (
		diffMin     int
		diffMax     int
		template    string
		severities  []string
		groundedMin int
		groundedMax int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List records matching the filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			flags := cmd.Flags()
			setInt := func(flag, key string, v int) {
				if flags.Changed(flag) {
					q.Set(key, strconv.Itoa(v))
				}
			}
			setInt("diff-min", "diff_min", diffMin)
			setInt("diff-max", "diff_max", diffMax)
			setInt("grounded-min", "grounded_min", groundedMin)
			setInt("grounded-max", "grounded_max", groundedMax)
			q.Set("template", template)
			for _, s := range severities {
				q.Add("severity", s)
			}

			return ctx.withDashboard(cmd.Context(), func(dashboard *service.DashboardService) error {
				view, err := dashboard.View(cmd.Context(), q, nil)
				if err != nil {
					return errors.New(service.UserMessage(err))
				}
				if ctx.jsonOutput() {
					return render.JSON(cmd.OutOrStdout(), view)
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), render.Records(view))
				return err
			})
		},
	}

	cmd.Flags().IntVar(&diffMin, "diff-min", 0, "Minimum |score - expected| (0-90)")
	cmd.Flags().IntVar(&diffMax, "diff-max", model.ScoreDiffLimit, "Maximum |score - expected| (0-90, default widest)")
	cmd.Flags().StringVar(&template, "template", "all", "Template filter: all, true or false")
	cmd.Flags().StringSliceVar(&severities, "severity", nil, "Repetition severities to include (repeatable; default all)")
	cmd.Flags().IntVar(&groundedMin, "grounded-min", 0, "Minimum grounded elements (0-20)")
	cmd.Flags().IntVar(&groundedMax, "grounded-max", model.GroundedLimit, "Maximum grounded elements (0-20, default widest)")
	return cmd
}

func newRecordsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id> [group...]",
		Short: "Show detail groups of one record (transcription, grounded_elements, template_signals, full_document)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			groups := model.DetailGroups
			if len(args) > 1 {
				groups = groups[:0:0]
				for _, name := range args[1:] {
					g, ok := model.ParseDetailGroup(name)
					if !ok {
						return fmt.Errorf("unknown detail group %q", name)
					}
					groups = append(groups, g)
				}
			}

			return ctx.withDashboard(cmd.Context(), func(dashboard *service.DashboardService) error {
				payloads := make([]*model.DetailPayload, 0, len(groups))
				for _, g := range groups {
					payload, err := dashboard.FetchDetail(cmd.Context(), id, g)
					if err != nil {
						return err
					}
					if !payload.Found {
						return fmt.Errorf("%s: %s", id, payload.Message)
					}
					payloads = append(payloads, payload)
				}

				if ctx.jsonOutput() {
					return render.JSON(cmd.OutOrStdout(), payloads)
				}
				for _, p := range payloads {
					if _, err := fmt.Fprintln(cmd.OutOrStdout(), render.Detail(p)); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newRecordsRefreshCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Invalidate the shared record snapshot so every server reloads from MongoDB",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRecordCache(cmd.Context(), func(records cache.RecordCache) error {
				if err := records.Invalidate(cmd.Context()); err != nil {
					return err
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Shared record cache invalidated")
				return err
			})
		},
	}
}
