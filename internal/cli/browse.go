package cli

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"tnsystems-site/internal/listing"
	"tnsystems-site/internal/tui"
)

func newBrowseCmd(a *app) *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the blog and careers interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sections := a.sections()
			if len(sections) == 0 {
				return errors.New("both blog and careers are disabled in the site configuration")
			}
			m := tui.NewModel(cmd.Context(), a.cfg.Company.Name, styles(plain), sections...)
			_, err := tea.NewProgram(m,
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
				tea.WithAltScreen(),
			).Run()
			return err
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "disable colors and styling")
	return cmd
}

// sections returns the browser tabs enabled by the feature flags.
func (a *app) sections() []tui.Section {
	var out []tui.Section
	if a.cfg.Features.Blog {
		src := a.client.PostsSource(a.cfg.Listing.FetchSize)
		out = append(out, tui.BlogSection(listing.NewBlog(src, a.cfg.Listing.PageSize, a.logger), src))
	}
	if a.cfg.Features.Careers {
		src := a.client.JobsSource(a.cfg.Listing.FetchSize)
		out = append(out, tui.CareersSection(listing.NewCareers(src, a.cfg.Listing.PageSize, a.logger), src))
	}
	return out
}
