package web

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

func Home(lobbies []LobbySummary) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, _ = io.WriteString(w, `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Telestrations</title>
  </head>
  <body>
    <main class="shell">
      <header class="hero">
        <span class="tag">Telestrations</span>
        <h1>Pass the picture. Keep the story.</h1>
        <p>Open a lobby, gather your players, and watch the word drift around the table.</p>
      </header>

      <section class="panel">
        <h2>Create a lobby</h2>
        <form id="createForm">
          <input name="name" placeholder="Lobby name" autocomplete="off"/>
          <button type="submit" class="primary">Create lobby</button>
        </form>
        <div id="createResult" class="result"></div>
      </section>

      <section class="panel">
        <h2>Open lobbies</h2>
`)
		if len(lobbies) == 0 {
			_, _ = io.WriteString(w, `        <p class="empty">No lobbies are waiting for players.</p>
`)
		} else {
			_, _ = io.WriteString(w, `        <ul class="lobbies">
`)
			for _, lobby := range lobbies {
				_, _ = io.WriteString(w, `          <li data-lobby-id="`)
				writeEscaped(w, lobby.ID)
				_, _ = io.WriteString(w, `"><strong>`)
				writeEscaped(w, displayName(lobby.Name, lobby.ID))
				_, _ = io.WriteString(w, `</strong> <span>`)
				_, _ = io.WriteString(w, itoa(lobby.Players))
				_, _ = io.WriteString(w, ` players</span> <time>`)
				writeEscaped(w, lobby.Created)
				_, _ = io.WriteString(w, `</time></li>
`)
			}
			_, _ = io.WriteString(w, `        </ul>
`)
		}
		_, _ = io.WriteString(w, `      </section>
    </main>

    <script>
      const createForm = document.getElementById("createForm");
      const createResult = document.getElementById("createResult");

      createForm.addEventListener("submit", async (event) => {
        event.preventDefault();
        createResult.textContent = "Creating lobby...";
        const name = createForm.elements.name.value.trim();
        const res = await fetch("/api/telestrations/lobby", {
          method: "POST",
          headers: { "Content-Type": "application/json" },
          body: JSON.stringify({ name })
        });
        const data = await res.json();
        if (!res.ok) {
          createResult.textContent = data.error || "Failed to create lobby.";
          return;
        }
        createResult.textContent = "Lobby created: " + data.id;
      });
    </script>
  </body>
</html>
`)
		return nil
	})
}
