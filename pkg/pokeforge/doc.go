// Package pokeforge is the typed PokeForge API client.
//
// A Client groups one service per API resource. Every call goes through the
// request executor in pkg/client, so authentication, retries, error
// classification and optional caching apply uniformly.
//
//	pf, err := pokeforge.New(client.Config{
//		BaseURL:    client.DefaultBaseURL,
//		Credential: auth.Static(os.Getenv("POKEFORGE_TOKEN")),
//		Timeout:    30 * time.Second,
//		Retries:    3,
//	})
//	if err != nil {
//		return err
//	}
//	defer pf.Close()
//
//	page, err := pf.Cards.List(ctx, pokeforge.CardListOptions{SetID: "base1"})
//
// List calls return a *pagination.Page whose fetcher replays the same
// options for other pages. ListAll variants return an iterator over every
// item of every page.
package pokeforge
