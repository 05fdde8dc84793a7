package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/vidgallery/internal/client/theme"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

const helpText = `Available commands:
  (l)ist                 show the catalog
  add                    upload a video
  edit <n|id>            change a title
  delete <n|id>          delete a video
  play <n|id>            play a single video
  feed [resume]          open the feed, optionally where you left it
  stats                  client statistics
  exit | quit            leave the program`

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	List(ctx context.Context) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, ref string) error
	Delete(ctx context.Context, ref string) error
	Play(ctx context.Context, ref string) error
	Feed(ctx context.Context, resume bool) error
	Stats(ctx context.Context) error
}

// runREPL reads one command per line from reader and dispatches it to a.
// The loop exits on EOF, on "exit"/"quit" or when ctx is done. Command
// errors are reported and the loop carries on; nothing is fatal here.
func runREPL(ctx context.Context, a execIface, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(theme.TitleStyle.Render("vg>"))
		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, ref := parts[0], strings.Join(parts[1:], " ")

		var cmdErr error
		switch cmd {
		case "help":
			printlnFn(helpText)
		case "l", "list":
			cmdErr = a.List(ctx)
		case "add":
			cmdErr = a.Add(ctx)
		case "edit":
			cmdErr = a.Edit(ctx, ref)
		case "delete":
			cmdErr = a.Delete(ctx, ref)
		case "play":
			cmdErr = a.Play(ctx, ref)
		case "feed":
			cmdErr = a.Feed(ctx, ref == "resume")
		case "stats":
			cmdErr = a.Stats(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil && errors.Is(cmdErr, io.EOF) {
			return
		}
	}
}
