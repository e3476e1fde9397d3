package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"tnsystems-site/internal/listing"
	"tnsystems-site/internal/tui"
)

type listFlags struct {
	search string
	page   int
	plain  bool
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.search, "search", "", "only show entries matching this text")
	cmd.Flags().IntVar(&f.page, "page", 1, "page number")
	cmd.Flags().BoolVar(&f.plain, "plain", false, "disable colors and styling")
}

func (f *listFlags) validate() error {
	if f.page < 1 {
		return errors.New("--page must be >= 1")
	}
	return nil
}

func newBlogCmd(a *app) *cobra.Command {
	var (
		flags    listFlags
		category string
	)
	cmd := &cobra.Command{
		Use:   "blog",
		Short: "List blog posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.cfg.Features.Blog {
				return errors.New("the blog is disabled in the site configuration")
			}
			if err := flags.validate(); err != nil {
				return err
			}
			coll := listing.NewBlog(a.client.PostsSource(a.cfg.Listing.FetchSize), a.cfg.Listing.PageSize, a.logger)
			coll.Load(cmd.Context())
			if category != "" {
				coll.SetCategory(category)
			}
			coll.SetQuery(flags.search)
			v := coll.GoToPage(flags.page)

			st := styles(flags.plain)
			out := cmd.OutOrStdout()
			if chips := tui.Categories(st, coll.Categories(), v.Category); chips != "" && v.State != listing.StateError {
				fmt.Fprintln(out, chips)
				fmt.Fprintln(out)
			}
			fmt.Fprintln(out, tui.RenderListing(v, tui.PostCard(st, tui.DefaultWidth), tui.ListOptions{Styles: st, Selected: -1}))
			return listResult(v.State)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&category, "category", "", "only show posts in this category (applied before --search)")
	return cmd
}

func newCareersCmd(a *app) *cobra.Command {
	var flags listFlags
	cmd := &cobra.Command{
		Use:   "careers",
		Short: "List open positions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.cfg.Features.Careers {
				return errors.New("careers are disabled in the site configuration")
			}
			if err := flags.validate(); err != nil {
				return err
			}
			coll := listing.NewCareers(a.client.JobsSource(a.cfg.Listing.FetchSize), a.cfg.Listing.PageSize, a.logger)
			coll.Load(cmd.Context())
			coll.SetQuery(flags.search)
			v := coll.GoToPage(flags.page)

			st := styles(flags.plain)
			fmt.Fprintln(cmd.OutOrStdout(), tui.RenderListing(v, tui.JobCard(st, tui.DefaultWidth), tui.ListOptions{Styles: st, Selected: -1}))
			return listResult(v.State)
		},
	}
	flags.register(cmd)
	return cmd
}

// listResult turns a failed load into a non-zero exit; empty results are fine.
func listResult(s listing.State) error {
	if s == listing.StateError {
		return ErrReported
	}
	return nil
}
