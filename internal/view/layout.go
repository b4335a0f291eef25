// Package view renders the browser client as templ components. Full pages
// are rendered directly by handlers; fragments are patched into live pages
// over datastar server-sent events.
package view

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

const datastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"

// markup writes HTML and remembers the first write error.
type markup struct {
	w   io.Writer
	err error
}

func (m *markup) raw(s string) {
	if m.err == nil {
		_, m.err = io.WriteString(m.w, s)
	}
}

// text writes s HTML-escaped. It is safe inside double-quoted attributes.
func (m *markup) text(s string) {
	m.raw(templ.EscapeString(s))
}

func (m *markup) num(n int64) {
	m.raw(strconv.FormatInt(n, 10))
}

func (m *markup) component(ctx context.Context, c templ.Component) {
	if m.err == nil {
		m.err = c.Render(ctx, m.w)
	}
}

// component adapts a markup writer function into a templ.Component.
func component(fn func(ctx context.Context, m *markup)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := &markup{w: w}
		fn(ctx, m)
		return m.err
	})
}

// Layout wraps body in the document shell and navigation bar. An empty
// username renders the signed-out navigation.
func Layout(title, username string, body templ.Component) templ.Component {
	return component(func(ctx context.Context, m *markup) {
		m.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		m.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		m.raw(`<title>`)
		m.text(title)
		m.raw(` | Microblog</title>`)
		m.raw(`<script type="module" src="` + datastarScript + `"></script>`)
		m.raw(`</head><body><nav class="navbar"><a class="brand" href="/">Microblog</a>`)
		m.raw(`<a href="/">Home</a><a href="/streams">Streams</a><span class="spacer"></span>`)
		if username == "" {
			m.raw(`<a href="/signin">Sign in</a><a href="/signup">Sign up</a>`)
		} else {
			m.raw(`<span class="whoami">@`)
			m.text(username)
			m.raw(`</span><form method="post" action="/signout"><button type="submit">Sign out</button></form>`)
		}
		m.raw(`</nav><main>`)
		m.component(ctx, body)
		m.raw(`</main></body></html>`)
	})
}

// ErrorPage renders a full page describing a failed request.
func ErrorPage(username string, status int, message string) templ.Component {
	title := strconv.Itoa(status)
	return Layout(title, username, component(func(_ context.Context, m *markup) {
		m.raw(`<section class="error-page"><h1>`)
		m.text(title)
		m.raw(`</h1><p>`)
		m.text(message)
		m.raw(`</p><a href="/">Back to all posts</a></section>`)
	}))
}

// alert renders the element a datastar patch targets with validation or
// service errors. An empty message renders an empty placeholder.
func alert(id, message string) templ.Component {
	return component(func(_ context.Context, m *markup) {
		m.raw(`<div id="` + id + `" class="alert" role="alert">`)
		m.text(message)
		m.raw(`</div>`)
	})
}