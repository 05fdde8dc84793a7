// Package cli provides the interactive vidgallery client.
//
// App wires configuration, the local session store, the catalog client and
// the media players, then runs a REPL over the gallery:
//
//   - list the catalog as a card grid
//   - add (upload), edit the title of and delete videos
//   - play a single video
//   - open the swipeable feed, optionally where it was left
//   - print client statistics
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
