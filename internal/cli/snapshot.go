package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"TickerDash/internal/dashboard"
)

func newSnapshotCmd(opts *rootOptions) *cobra.Command {
	var (
		out     string
		window  string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Load once and write the dashboard to a static HTML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := dashboard.ParseWindow(window)
			if err != nil {
				return err
			}

			app := NewApp(opts.cfg, opts.log)
			defer app.Close()

			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, cancel := context.WithTimeout(parent, timeout)
			defer cancel()

			snap := app.Loader.Reload(ctx)
			view := app.Presenter.Render(snap, w)
			page, err := app.Presenter.HTML(view)
			if err != nil {
				return err
			}
			if dir := filepath.Dir(out); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create output dir: %w", err)
				}
			}
			if err := os.WriteFile(out, page, 0o644); err != nil {
				return fmt.Errorf("write snapshot: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), RenderSummary(view))
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "dashboard.html", "output HTML file")
	cmd.Flags().StringVarP(&window, "window", "w", string(dashboard.Window1Y), "chart window (1M, 3M, 6M, 1Y, 2Y, ALL)")
	cmd.Flags().DurationVar(&timeout, "timeout", 90*time.Second, "overall load timeout")
	return cmd
}
