// Package pagination models paged PokeForge list responses.
//
// A Page holds one batch of items, the server's metadata for it and a
// Fetcher that loads any other page of the same query. Pages are immutable;
// navigation returns new pages and every fetch is a fresh request.
//
// Example usage:
//
//	page, err := pf.Cards.List(ctx, pokeforge.CardListOptions{SetID: "base1"})
//	if err != nil {
//		return err
//	}
//
//	for card, err := range page.All(ctx) {
//		if err != nil {
//			return err
//		}
//		fmt.Println(card.Name)
//	}
//
// Pull-style iteration uses a Cursor, which returns Done when exhausted:
//
//	cursor := page.Cursor()
//	for {
//		card, err := cursor.Next(ctx)
//		if errors.Is(err, pagination.Done) {
//			break
//		}
//		...
//	}
//
// ToList walks the remaining pages one request at a time. BatchFetcher
// fetches them in parallel with a bounded number of workers when the server
// reports totalPages.
package pagination
