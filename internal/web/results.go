package web

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Results renders one player's chain, starting from the word they picked.
func Results(view ResultsView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, _ = io.WriteString(w, `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Telestrations results</title>
  </head>
  <body>
    <main class="shell" data-lobby-id="`)
		writeEscaped(w, view.LobbyID)
		_, _ = io.WriteString(w, `">
      <header class="hero">
        <h1>`)
		writeEscaped(w, view.PlayerName)
		_, _ = io.WriteString(w, `'s word: <em>`)
		writeEscaped(w, displayName(view.Word, "(not chosen)"))
		_, _ = io.WriteString(w, `</em></h1>
      </header>
      <ol class="chain">
`)
		for _, entry := range view.Entries {
			_, _ = io.WriteString(w, `        <li class="entry" data-round="`)
			_, _ = io.WriteString(w, itoa(entry.Round))
			_, _ = io.WriteString(w, `"><span class="who">`)
			writeEscaped(w, entry.Name)
			_, _ = io.WriteString(w, `</span> `)
			switch {
			case entry.Pending:
				_, _ = io.WriteString(w, `<span class="pending">still working</span>`)
			case entry.Kind == "DrawWord":
				_, _ = io.WriteString(w, `<img alt="drawing" src="`)
				writeEscaped(w, entry.Drawing)
				_, _ = io.WriteString(w, `"/>`)
			default:
				_, _ = io.WriteString(w, `<span class="guess">`)
				writeEscaped(w, entry.Word)
				_, _ = io.WriteString(w, `</span>`)
			}
			_, _ = io.WriteString(w, `</li>
`)
		}
		_, _ = io.WriteString(w, `      </ol>
    </main>
  </body>
</html>
`)
		return nil
	})
}
