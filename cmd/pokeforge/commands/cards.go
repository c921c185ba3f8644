package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/Sternrassler/pokeforge-client/pkg/pokeforge"
)

var cardListHeader = []any{"ID", "Name", "Number", "Set", "Rarity", "Types"}

func cardRow(c pokeforge.Card) []any {
	return []any{c.ID, c.Name, c.Number, c.SetName, c.Rarity, join(c.Types)}
}

func (a *App) newCardsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cards",
		Aliases: []string{"card"},
		Short:   "Browse cards",
	}

	cmd.AddCommand(a.newCardsListCommand())
	cmd.AddCommand(a.newCardsGetCommand())
	cmd.AddCommand(a.newCardsSearchCommand())
	cmd.AddCommand(a.newCardsVariantsCommand())
	cmd.AddCommand(a.newCardsFiltersCommand())

	return cmd
}

func parseSortField(value string) (pokeforge.CardSortField, error) {
	switch strings.ToLower(value) {
	case "":
		return "", nil
	case "name":
		return pokeforge.SortByName, nil
	case "number":
		return pokeforge.SortByNumber, nil
	case "rarity":
		return pokeforge.SortByRarity, nil
	case "set", "setname":
		return pokeforge.SortBySetName, nil
	default:
		return "", fmt.Errorf("invalid sort field %q (want name, number, rarity or set)", value)
	}
}

func parseSortOrder(value string) (pokeforge.SortOrder, error) {
	switch strings.ToLower(value) {
	case "":
		return "", nil
	case "asc":
		return pokeforge.Asc, nil
	case "desc":
		return pokeforge.Desc, nil
	default:
		return "", fmt.Errorf("invalid sort order %q (want asc or desc)", value)
	}
}

func (a *App) newCardsListCommand() *cobra.Command {
	var (
		lf        listFlags
		opts      pokeforge.CardListOptions
		sortBy    string
		sortOrder string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if opts.SortBy, err = parseSortField(sortBy); err != nil {
				return err
			}
			if opts.SortOrder, err = parseSortOrder(sortOrder); err != nil {
				return err
			}
			opts.Page, opts.PageSize = lf.Page, lf.PageSize

			pf, err := a.client()
			if err != nil {
				return err
			}
			page, err := pf.Cards.List(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("failed to list cards: %w", err)
			}
			return renderPage(cmd.Context(), a, page, lf, cardListHeader, cardRow)
		},
	}

	addListFlags(cmd, &lf, "page-size")
	cmd.Flags().StringVar(&opts.SetID, "set", "", "filter by set id")
	cmd.Flags().StringVar(&opts.SeriesID, "series", "", "filter by series id")
	cmd.Flags().StringVar(&opts.Rarity, "rarity", "", "filter by rarity")
	cmd.Flags().StringVar(&opts.Supertype, "supertype", "", "filter by supertype")
	cmd.Flags().StringVar(&opts.Subtype, "subtype", "", "filter by subtype")
	cmd.Flags().StringVar(&opts.PokemonType, "type", "", "filter by Pokemon type")
	cmd.Flags().StringVar(&opts.ArtistName, "artist", "", "filter by artist name")
	cmd.Flags().StringVar(&opts.Search, "search", "", "filter by name")
	cmd.Flags().StringVar(&sortBy, "sort", "", "sort by name, number, rarity or set")
	cmd.Flags().StringVar(&sortOrder, "order", "", "sort order, asc or desc")

	return cmd
}

func (a *App) newCardsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get CARD_ID",
		Short: "Show a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pf, err := a.client()
			if err != nil {
				return err
			}
			card, err := pf.Cards.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get card %s: %w", args[0], err)
			}

			setName := ""
			if card.Set != nil {
				setName = card.Set.Name
			}
			return a.renderFields(card, [][2]string{
				{"ID", card.ID},
				{"Name", card.Name},
				{"Number", card.Number},
				{"Set", setName},
				{"Supertype", card.Supertype},
				{"Subtypes", join(card.Subtypes)},
				{"Rarity", card.Rarity},
				{"Types", join(card.Types)},
				{"HP", optionalInt(card.HP)},
				{"Evolves From", card.EvolvesFrom},
				{"Artist", card.ArtistName},
				{"Retreat Cost", optionalInt(card.RetreatCost)},
				{"Variant", card.VariantTypeName},
				{"Image", card.ImageURLStandard},
			})
		},
	}
}

func (a *App) newCardsSearchCommand() *cobra.Command {
	var (
		lf    listFlags
		setID string
	)

	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Search cards by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pf, err := a.client()
			if err != nil {
				return err
			}
			page, err := pf.Cards.Search(cmd.Context(), args[0], pokeforge.CardSearchOptions{
				Page:     lf.Page,
				PageSize: lf.PageSize,
				SetID:    setID,
			})
			if err != nil {
				return fmt.Errorf("failed to search cards: %w", err)
			}
			return renderPage(cmd.Context(), a, page, lf, cardListHeader, cardRow)
		},
	}

	addListFlags(cmd, &lf, "page-size")
	cmd.Flags().StringVar(&setID, "set", "", "restrict to a set id")

	return cmd
}

func (a *App) newCardsVariantsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "variants CARD_ID",
		Short: "List the printings of a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pf, err := a.client()
			if err != nil {
				return err
			}
			variants, err := pf.Cards.Variants(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get variants of %s: %w", args[0], err)
			}
			return a.render(variants, func(t *tablewriter.Table) {
				t.Header("ID", "Name", "Number", "Rarity", "Variant")
				for _, v := range variants {
					_ = t.Append(v.ID, v.Name, v.Number, v.Rarity, v.VariantTypeName)
				}
			})
		},
	}
}

func (a *App) newCardsFiltersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "filters",
		Short: "Show accepted filter values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pf, err := a.client()
			if err != nil {
				return err
			}
			filters, err := pf.Cards.Filters(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get card filters: %w", err)
			}
			return a.render(filters, func(t *tablewriter.Table) {
				t.Header("Filter", "Count", "Values")
				for _, row := range []struct {
					name   string
					values []string
				}{
					{"rarity", filters.Rarities},
					{"supertype", filters.Supertypes},
					{"subtype", filters.Subtypes},
					{"type", filters.Types},
				} {
					_ = t.Append(row.name, strconv.Itoa(len(row.values)), join(row.values))
				}
			})
		},
	}
}
