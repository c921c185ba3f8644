package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Sternrassler/pokeforge-client/pkg/pokeforge"
)

func formatDate(ts *pokeforge.Timestamp) string {
	if ts == nil {
		return ""
	}
	return ts.Format("2006-01-02")
}

func (a *App) newSetsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sets",
		Aliases: []string{"set"},
		Short:   "Browse card sets",
	}

	var (
		lf        listFlags
		opts      pokeforge.SetListOptions
		sortOrder string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if opts.SortOrder, err = parseSortOrder(sortOrder); err != nil {
				return err
			}
			opts.Page, opts.PageSize = lf.Page, lf.PageSize

			pf, err := a.client()
			if err != nil {
				return err
			}
			page, err := pf.Sets.List(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("failed to list sets: %w", err)
			}
			return renderPage(cmd.Context(), a, page, lf,
				[]any{"ID", "Name", "Series", "Released", "Cards"},
				func(s pokeforge.Set) []any {
					return []any{s.ID, s.Name, s.SeriesName, formatDate(s.ReleaseDate), strconv.Itoa(s.TotalCards)}
				})
		},
	}
	addListFlags(list, &lf, "page-size")
	list.Flags().StringVar(&opts.SeriesID, "series", "", "filter by series id")
	list.Flags().StringVar(&opts.Search, "search", "", "filter by name")
	list.Flags().StringVar(&sortOrder, "order", "", "sort order, asc or desc")

	var bySlug bool
	get := &cobra.Command{
		Use:   "get SET_ID",
		Short: "Show a set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pf, err := a.client()
			if err != nil {
				return err
			}
			var set *pokeforge.SetDetail
			if bySlug {
				set, err = pf.Sets.GetBySlug(cmd.Context(), args[0])
			} else {
				set, err = pf.Sets.Get(cmd.Context(), args[0])
			}
			if err != nil {
				return fmt.Errorf("failed to get set %s: %w", args[0], err)
			}

			seriesName := ""
			if set.Series != nil {
				seriesName = set.Series.Name
			}
			return a.renderFields(set, [][2]string{
				{"ID", set.ID},
				{"Name", set.Name},
				{"Slug", set.Slug},
				{"Series", seriesName},
				{"Released", formatDate(set.ReleaseDate)},
				{"Total Cards", strconv.Itoa(set.TotalCards)},
				{"Printed Total", optionalInt(set.PrintedTotal)},
				{"Logo", set.LogoURL},
			})
		},
	}
	get.Flags().BoolVar(&bySlug, "slug", false, "treat the argument as a URL slug")

	cmd.AddCommand(list, get)
	return cmd
}

func (a *App) newSeriesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "series",
		Short: "Browse set series",
	}

	seriesRow := func(s pokeforge.Series) []any {
		return []any{s.ID, s.Name, s.Slug, strconv.Itoa(s.TotalSets), strconv.Itoa(s.TotalCards)}
	}

	var (
		lf        listFlags
		opts      pokeforge.SeriesListOptions
		sortOrder string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List series",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if opts.SortOrder, err = parseSortOrder(sortOrder); err != nil {
				return err
			}
			opts.Page, opts.PageSize = lf.Page, lf.PageSize

			pf, err := a.client()
			if err != nil {
				return err
			}
			page, err := pf.Series.List(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("failed to list series: %w", err)
			}
			return renderPage(cmd.Context(), a, page, lf, []any{"ID", "Name", "Slug", "Sets", "Cards"}, seriesRow)
		},
	}
	addListFlags(list, &lf, "page-size")
	list.Flags().StringVar(&opts.Search, "search", "", "filter by name")
	list.Flags().StringVar(&sortOrder, "order", "", "sort order, asc or desc")

	var bySlug bool
	get := &cobra.Command{
		Use:   "get SERIES_ID",
		Short: "Show a series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pf, err := a.client()
			if err != nil {
				return err
			}
			var series *pokeforge.Series
			if bySlug {
				series, err = pf.Series.GetBySlug(cmd.Context(), args[0])
			} else {
				series, err = pf.Series.Get(cmd.Context(), args[0])
			}
			if err != nil {
				return fmt.Errorf("failed to get series %s: %w", args[0], err)
			}
			return a.renderFields(series, [][2]string{
				{"ID", series.ID},
				{"Name", series.Name},
				{"Slug", series.Slug},
				{"Total Sets", strconv.Itoa(series.TotalSets)},
				{"Total Cards", strconv.Itoa(series.TotalCards)},
			})
		},
	}
	get.Flags().BoolVar(&bySlug, "slug", false, "treat the argument as a URL slug")

	cmd.AddCommand(list, get)
	return cmd
}

func (a *App) newArtistsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "artists",
		Aliases: []string{"artist"},
		Short:   "Browse card illustrators",
	}

	var (
		lf   listFlags
		opts pokeforge.ArtistListOptions
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List artists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Page, opts.PageSize = lf.Page, lf.PageSize

			pf, err := a.client()
			if err != nil {
				return err
			}
			page, err := pf.Artists.List(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("failed to list artists: %w", err)
			}
			return renderPage(cmd.Context(), a, page, lf,
				[]any{"Name", "Cards", "Collected"},
				func(ar pokeforge.Artist) []any {
					return []any{ar.Name, strconv.Itoa(ar.TotalCards), strconv.Itoa(ar.CollectedCards)}
				})
		},
	}
	addListFlags(list, &lf, "page-size")
	list.Flags().StringVar(&opts.Search, "search", "", "filter by name")

	cmd.AddCommand(list)
	return cmd
}

func (a *App) newBlogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blog",
		Short: "Read the PokeForge blog",
	}

	var (
		lf   listFlags
		opts pokeforge.BlogListOptions
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Page, opts.Limit = lf.Page, lf.PageSize

			pf, err := a.client()
			if err != nil {
				return err
			}
			page, err := pf.Blog.List(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("failed to list blog posts: %w", err)
			}
			return renderPage(cmd.Context(), a, page, lf,
				[]any{"ID", "Title", "Category", "Published", "Likes"},
				func(p pokeforge.BlogPost) []any {
					return []any{p.ID, p.Title, p.Category, formatDate(p.PublishedAt), strconv.Itoa(p.LikesCount)}
				})
		},
	}
	addListFlags(list, &lf, "limit")
	list.Flags().StringVar(&opts.Category, "category", "", "filter by category")

	get := &cobra.Command{
		Use:   "get POST_ID",
		Short: "Show a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pf, err := a.client()
			if err != nil {
				return err
			}
			post, err := pf.Blog.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get post %s: %w", args[0], err)
			}

			author := ""
			if post.Author != nil {
				author = post.Author.Name
			}
			return a.renderFields(post, [][2]string{
				{"ID", post.ID},
				{"Title", post.Title},
				{"Author", author},
				{"Category", post.Category},
				{"Published", formatDate(post.PublishedAt)},
				{"Excerpt", post.Excerpt},
				{"Likes", strconv.Itoa(post.LikesCount)},
				{"Comments", strconv.Itoa(post.CommentsCount)},
			})
		},
	}

	cmd.AddCommand(list, get)
	return cmd
}
