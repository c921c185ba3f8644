package commands

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/Sternrassler/pokeforge-client/pkg/pokeforge"
)

func (a *App) newHealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the API is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pf, err := a.client()
			if err != nil {
				return err
			}
			if err := pf.Health(cmd.Context()); err != nil {
				return fmt.Errorf("health check failed: %w", err)
			}
			status := map[string]string{"status": "ok", "baseUrl": a.settings.BaseURL}
			return a.render(status, func(t *tablewriter.Table) {
				t.Header("Status", "Base URL")
				_ = t.Append("ok", a.settings.BaseURL)
			})
		},
	}
}

func parseCollectionType(value string) (pokeforge.CollectionType, error) {
	switch value {
	case "":
		return "", nil
	case "collection", "Collection":
		return pokeforge.TypeCollection, nil
	case "wishlist", "Wishlist":
		return pokeforge.TypeWishlist, nil
	case "favorites", "Favorites":
		return pokeforge.TypeFavorites, nil
	default:
		return "", fmt.Errorf("invalid collection type %q (want collection, wishlist or favorites)", value)
	}
}

func (a *App) newCollectionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "collections",
		Aliases: []string{"collection", "col"},
		Short:   "Inspect your collections (requires a token)",
	}

	var (
		lf       listFlags
		collType string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List collections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ct, err := parseCollectionType(collType)
			if err != nil {
				return err
			}
			pf, err := a.client()
			if err != nil {
				return err
			}
			page, err := pf.Collections.List(cmd.Context(), pokeforge.CollectionListOptions{
				Page:           lf.Page,
				PageSize:       lf.PageSize,
				CollectionType: ct,
			})
			if err != nil {
				return fmt.Errorf("failed to list collections: %w", err)
			}
			return renderPage(cmd.Context(), a, page, lf,
				[]any{"ID", "Name", "Type", "Visibility", "Items", "Value"},
				func(c pokeforge.Collection) []any {
					return []any{c.ID, c.Name, string(c.CollectionType), string(c.Visibility), strconv.Itoa(c.ItemCount), optionalFloat(c.TotalValue)}
				})
		},
	}
	addListFlags(list, &lf, "page-size")
	list.Flags().StringVar(&collType, "type", "", "filter by type (collection, wishlist, favorites)")

	get := &cobra.Command{
		Use:   "get COLLECTION_ID",
		Short: "Show a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pf, err := a.client()
			if err != nil {
				return err
			}
			c, err := pf.Collections.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get collection %s: %w", args[0], err)
			}
			return a.renderFields(c, [][2]string{
				{"ID", c.ID},
				{"Name", c.Name},
				{"Description", c.Description},
				{"Type", string(c.CollectionType)},
				{"Visibility", string(c.Visibility)},
				{"Items", strconv.Itoa(c.ItemCount)},
				{"Unique Cards", strconv.Itoa(c.UniqueCards)},
				{"Total Value", optionalFloat(c.TotalValue)},
			})
		},
	}

	var itemFlags listFlags
	items := &cobra.Command{
		Use:   "items COLLECTION_ID",
		Short: "List the cards in a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pf, err := a.client()
			if err != nil {
				return err
			}
			page, err := pf.Collections.ListItems(cmd.Context(), args[0], pokeforge.CollectionItemListOptions{
				Page:     itemFlags.Page,
				PageSize: itemFlags.PageSize,
			})
			if err != nil {
				return fmt.Errorf("failed to list items of %s: %w", args[0], err)
			}
			return renderPage(cmd.Context(), a, page, itemFlags,
				[]any{"ID", "Card", "Set", "Qty", "Condition", "Price"},
				func(it pokeforge.CollectionItem) []any {
					return []any{it.ID, it.Card.Name, it.Card.SetName, strconv.Itoa(it.Quantity), string(it.Condition), optionalFloat(it.PurchasePrice)}
				})
		},
	}
	addListFlags(items, &itemFlags, "page-size")

	cmd.AddCommand(list, get, items)
	return cmd
}

func (a *App) newFavoritesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"favorite", "fav"},
		Short:   "Inspect your favorite cards (requires a token)",
	}

	var lf listFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "List favorite cards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pf, err := a.client()
			if err != nil {
				return err
			}
			page, err := pf.Favorites.List(cmd.Context(), pokeforge.FavoriteListOptions{Page: lf.Page, PageSize: lf.PageSize})
			if err != nil {
				return fmt.Errorf("failed to list favorites: %w", err)
			}
			return renderPage(cmd.Context(), a, page, lf,
				[]any{"Card ID", "Name", "Set", "Rarity", "Added"},
				func(f pokeforge.FavoriteCard) []any {
					return []any{f.CardID, f.Name, f.SetName, f.Rarity, formatDate(f.AddedAt)}
				})
		},
	}
	addListFlags(list, &lf, "page-size")

	check := &cobra.Command{
		Use:   "check CARD_ID",
		Short: "Check whether a card is a favorite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pf, err := a.client()
			if err != nil {
				return err
			}
			favorited, err := pf.Favorites.Check(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to check favorite %s: %w", args[0], err)
			}
			result := map[string]any{"cardId": args[0], "isFavorited": favorited}
			return a.render(result, func(t *tablewriter.Table) {
				t.Header("Card ID", "Favorited")
				_ = t.Append(args[0], strconv.FormatBool(favorited))
			})
		},
	}

	cmd.AddCommand(list, check)
	return cmd
}
