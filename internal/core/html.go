package core

import (
	"fmt"
	"html"
	"strings"
)

const darkModeScript = `<script>
    (function() {
      try {
        var stored = localStorage.getItem('darkmode');
        var prefers = window.matchMedia && window.matchMedia('(prefers-color-scheme: dark)').matches;
        var isDark = stored === 'dark' || (stored === null && prefers);
        document.documentElement.classList.toggle('dark', isDark);
      } catch (e) {}
      document.addEventListener('DOMContentLoaded', function () {
        var btn = document.querySelector('button[aria-label="Toggle dark mode"]');
        if (!btn) return;
        btn.addEventListener('click', function () {
          var nowDark = document.documentElement.classList.toggle('dark');
          try { localStorage.setItem('darkmode', nowDark ? 'dark' : 'light'); } catch (e) {}
        });
      });
    })();
  </script>`

type DocumentData struct {
	Title          string
	Description    string
	Head           string
	Body           string
	StylesheetHref string
	BodyClass      string
	Theme          Theme
}

// RenderDocument wraps rendered body markup in a full HTML document.
func RenderDocument(data DocumentData) string {
	title := data.Title
	if title == "" {
		title = "App"
	}

	var head strings.Builder
	head.WriteString(`<meta charset="UTF-8">`)
	head.WriteString("\n  ")
	head.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1.0">`)
	fmt.Fprintf(&head, "\n  <title>%s</title>", html.EscapeString(title))
	if data.Description != "" {
		fmt.Fprintf(&head, "\n  <meta name=\"description\" content=\"%s\">", html.EscapeString(data.Description))
	}
	fmt.Fprintf(&head, "\n  <meta property=\"og:title\" content=\"%s\">", html.EscapeString(title))
	if data.Description != "" {
		fmt.Fprintf(&head, "\n  <meta property=\"og:description\" content=\"%s\">", html.EscapeString(data.Description))
	}
	if data.StylesheetHref != "" {
		fmt.Fprintf(&head, "\n  <link rel=\"stylesheet\" href=\"%s\">", html.EscapeString(data.StylesheetHref))
	}
	if data.Head != "" {
		head.WriteString("\n  ")
		head.WriteString(data.Head)
	}
	head.WriteString("\n  ")
	head.WriteString(darkModeScript)

	htmlAttrs := ` lang="en"`
	if data.Theme.Dark {
		htmlAttrs += ` class="dark"`
	}
	if data.Theme.Name != "" {
		htmlAttrs += fmt.Sprintf(` data-theme="%s"`, html.EscapeString(data.Theme.Name))
	}

	bodyAttrs := ""
	if data.BodyClass != "" {
		bodyAttrs = fmt.Sprintf(` class="%s"`, html.EscapeString(data.BodyClass))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html%s>
<head>
  %s
</head>
<body%s>
  %s
</body>
</html>
`, htmlAttrs, head.String(), bodyAttrs, data.Body)
}
