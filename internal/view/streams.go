package view

import (
	"context"
	"strconv"

	"github.com/a-h/templ"
	"github.com/msomdec/microblog/internal/domain"
)

const (
	StreamsID      = "streams"
	StreamsEmptyID = "streams-empty"
	StreamFormID   = "stream-form"
	StreamErrorID  = "stream-error"
)

// StreamsPage lists every stream. Signed-in users also get the create form.
func StreamsPage(username string, streams []domain.Stream) templ.Component {
	return Layout("Streams", username, component(func(ctx context.Context, m *markup) {
		m.raw(`<section class="streams"><h2>Streams</h2>`)
		if username != "" {
			m.component(ctx, StreamForm(""))
		}
		if len(streams) == 0 {
			m.raw(`<p id="` + StreamsEmptyID + `" class="empty">No streams yet. Create one!</p>`)
		}
		m.raw(`<div id="` + StreamsID + `" class="stream-grid">`)
		for _, s := range streams {
			m.component(ctx, StreamCard(s))
		}
		m.raw(`</div></section>`)
	}))
}

// StreamForm renders the create stream form with message in its error slot.
func StreamForm(message string) templ.Component {
	return component(func(ctx context.Context, m *markup) {
		m.raw(`<form id="` + StreamFormID + `" class="card" data-on:submit__prevent="@post('/ui/streams', {contentType: 'form'})">`)
		m.raw(`<input name="name" placeholder="Stream name" maxlength="` + strconv.Itoa(domain.MaxStreamNameLength) + `">`)
		m.raw(`<textarea name="description" rows="2" placeholder="Description" maxlength="` + strconv.Itoa(domain.MaxStreamDescriptionLength) + `"></textarea>`)
		m.raw(`<button type="submit">Create stream</button>`)
		m.component(ctx, StreamError(message))
		m.raw(`</form>`)
	})
}

// StreamError renders the stream form's error slot.
func StreamError(message string) templ.Component {
	return alert(StreamErrorID, message)
}

// StreamCard renders one stream with a link to its posts.
func StreamCard(s domain.Stream) templ.Component {
	return component(func(_ context.Context, m *markup) {
		m.raw(`<div class="card stream-card" id="stream-`)
		m.num(s.ID)
		m.raw(`"><h5 class="stream-name">`)
		m.text(s.Name)
		m.raw(`</h5><p>`)
		if s.Description == "" {
			m.raw(`No description`)
		} else {
			m.text(s.Description)
		}
		m.raw(`</p><p class="muted">Created: `)
		m.text(s.CreatedAt.UTC().Format("Jan 2, 2006"))
		m.raw(`</p><a href="/streams/`)
		m.num(s.ID)
		m.raw(`">View posts</a></div>`)
	})
}