// Package crawlerverse is a client library for the Crawler Agent API, a
// remote turn-based dungeon crawler played by programs.
//
// Client issues the HTTP calls (create, fetch, submit action) and maps
// failure responses onto a typed error taxonomy. RunGame drives a whole
// game: it creates or resumes a session, asks a caller-supplied decision
// function for one action per turn, submits it, and recovers from
// rejected actions and rate limits until the game reaches a terminal
// outcome.
//
//	client, err := crawlerverse.NewClient()
//	if err != nil {
//		log.Fatal(err)
//	}
//	result, err := crawlerverse.RunGame(ctx, client, decide, crawlerverse.RunConfig{})
package crawlerverse
