package processor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

const prompt = "English> "

const sessionHelp = `Type an English sentence and press Enter to translate it into Tamil.
Commands:
  :reload   reload the medical dictionary
  :help     show this help
  :quit     leave the session (also :q or Ctrl-D)`

// RunInteractive reads English sentences from in until EOF or :quit and
// writes the session to out.
func (p *Processor) RunInteractive(ctx context.Context, in io.Reader, out io.Writer) error {
	session := *p
	session.out = out

	fmt.Fprintln(out, "medtamil: English to Tamil medical translation. Type :help for commands.")

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case ":quit", ":q":
			return nil
		case ":help":
			fmt.Fprintln(out, sessionHelp)
			continue
		case ":reload":
			if session.deps.Dictionary == nil {
				fmt.Fprintln(out, "No dictionary configured.")
			} else {
				session.deps.Dictionary.Invalidate()
				fmt.Fprintln(out, "Dictionary will be reloaded on the next translation.")
			}
			continue
		}

		// Empty input is reported inside ProcessText, the session goes on.
		_, _ = session.ProcessText(ctx, line)
	}
}
