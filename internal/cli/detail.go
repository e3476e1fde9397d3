package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tnsystems-site/internal/tui"
)

func newPostCmd(a *app) *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "post <slug>",
		Short: "Show one blog post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := styles(plain)
			out := cmd.OutOrStdout()
			fmt.Fprintln(cmd.ErrOrStderr(), tui.DetailPlaceholder(st, tui.DetailLoading, tui.KindPost))

			p, err := a.client.PostBySlug(cmd.Context(), args[0])
			if state := tui.DetailStateFor(err); state != tui.DetailReady {
				a.logger.Debug("post unavailable", "slug", args[0], "error", err)
				fmt.Fprintln(out, tui.DetailPlaceholder(st, state, tui.KindPost))
				return ErrReported
			}
			fmt.Fprintln(out, tui.PostDetail(st, p, tui.DefaultWidth))
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "disable colors and styling")
	return cmd
}

func newJobCmd(a *app) *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "job <id>",
		Short: "Show one open position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseJobID(args[0])
			if err != nil {
				return err
			}
			st := styles(plain)
			out := cmd.OutOrStdout()
			fmt.Fprintln(cmd.ErrOrStderr(), tui.DetailPlaceholder(st, tui.DetailLoading, tui.KindJob))

			j, err := a.client.Job(cmd.Context(), id)
			if state := tui.DetailStateFor(err); state != tui.DetailReady {
				a.logger.Debug("job unavailable", "job_id", id, "error", err)
				fmt.Fprintln(out, tui.DetailPlaceholder(st, state, tui.KindJob))
				return ErrReported
			}
			fmt.Fprintln(out, tui.JobDetail(st, j, tui.DefaultWidth))
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "disable colors and styling")
	return cmd
}

func parseJobID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid job id %q", s)
	}
	return id, nil
}
