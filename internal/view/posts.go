package view

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/a-h/templ"
	"github.com/msomdec/microblog/internal/domain"
)

// Element ids targeted by datastar patches.
const (
	PostsID      = "posts"
	PostsEmptyID = "posts-empty"
	LoadMoreID   = "load-more"
	PostErrorID  = "post-error"
	dateLayout   = "Jan 2, 2006 15:04"
)

// FeedPage is the data behind the home feed and the per-stream feed.
type FeedPage struct {
	Username string
	// Stream is nil on the home feed.
	Stream  *domain.Stream
	Posts   domain.Page[domain.Post]
	Streams []domain.Stream
}

// Feed renders a page of posts with the composer for signed-in users and
// the first five streams in a sidebar.
func Feed(p FeedPage) templ.Component {
	title := "Latest posts"
	var streamID int64
	if p.Stream != nil {
		title = `Posts in "` + p.Stream.Name + `"`
		streamID = p.Stream.ID
	}

	return Layout(title, p.Username, component(func(ctx context.Context, m *markup) {
		m.raw(`<div class="feed-layout"><section class="feed">`)
		if p.Username != "" {
			m.component(ctx, Composer(p.Streams, streamID))
		}

		m.raw(`<header class="feed-header"><h2>`)
		m.text(title)
		m.raw(`</h2>`)
		if p.Stream != nil {
			if p.Stream.Description != "" {
				m.raw(`<p class="muted">`)
				m.text(p.Stream.Description)
				m.raw(`</p>`)
			}
			m.raw(`<a href="/">Back to all posts</a>`)
		}
		m.raw(`</header>`)

		if len(p.Posts.Items) == 0 {
			m.raw(`<p id="` + PostsEmptyID + `" class="empty">`)
			if p.Stream != nil {
				m.raw(`No posts in this stream yet.`)
			} else {
				m.raw(`No posts yet. Be the first to post!`)
			}
			m.raw(`</p>`)
		}
		m.raw(`<div id="` + PostsID + `">`)
		m.component(ctx, PostCards(p.Posts.Items))
		m.raw(`</div>`)
		m.component(ctx, LoadMore(p.Posts, streamID))
		m.raw(`</section>`)

		m.raw(`<aside class="sidebar"><h3>Streams</h3>`)
		if len(p.Streams) == 0 {
			m.raw(`<p class="muted">No streams available</p>`)
		}
		for i, s := range p.Streams {
			if i == 5 {
				break
			}
			m.raw(`<div class="stream-link"><a href="/streams/`)
			m.num(s.ID)
			m.raw(`">`)
			m.text(s.Name)
			m.raw(`</a><p class="muted">`)
			m.text(s.Description)
			m.raw(`</p></div>`)
		}
		m.raw(`</aside></div>`)
	}))
}

// Composer renders the new post form. The stream whose id is selected is
// preselected; zero selects none. The character counter is driven by the
// content signal on the client.
func Composer(streams []domain.Stream, selected int64) templ.Component {
	return component(func(ctx context.Context, m *markup) {
		m.raw(`<form id="composer" class="card" data-signals="{content: ''}" data-on:submit__prevent="@post('/ui/posts', {contentType: 'form'})">`)
		m.raw(`<textarea name="content" data-bind:content rows="3" maxlength="` + strconv.Itoa(domain.MaxPostContentLength) + `" placeholder="What's happening?"></textarea>`)
		m.raw(`<div class="composer-footer"><span class="char-count"><span data-text="$content.length">0</span>/` + strconv.Itoa(domain.MaxPostContentLength) + `</span>`)
		if len(streams) == 0 {
			m.raw(`<span class="muted">Create a <a href="/streams">stream</a> before posting.</span>`)
		} else {
			m.raw(`<select name="streamId"><option value="">Select a stream</option>`)
			for _, s := range streams {
				m.raw(`<option value="`)
				m.num(s.ID)
				m.raw(`"`)
				if s.ID == selected {
					m.raw(` selected`)
				}
				m.raw(`>`)
				m.text(s.Name)
				m.raw(`</option>`)
			}
			m.raw(`</select><button type="submit">Post</button>`)
		}
		m.raw(`</div>`)
		m.component(ctx, PostError(""))
		m.raw(`</form>`)
	})
}

// PostError renders the composer's error slot.
func PostError(message string) templ.Component {
	return alert(PostErrorID, message)
}

// PostCard renders a single post.
func PostCard(p domain.Post) templ.Component {
	return component(func(_ context.Context, m *markup) {
		m.raw(`<article class="card post-card" id="post-`)
		m.num(p.ID)
		m.raw(`"><div class="post-header"><span class="post-username">@`)
		m.text(p.Username)
		m.raw(`</span><time datetime="`)
		m.text(p.CreatedAt.UTC().Format(time.RFC3339))
		m.raw(`">`)
		m.text(p.CreatedAt.UTC().Format(dateLayout))
		m.raw(`</time></div><p class="post-content">`)
		m.text(p.Content)
		m.raw(`</p><div class="post-footer">Stream: <a href="/streams/`)
		m.num(p.StreamID)
		m.raw(`">`)
		m.text(p.StreamName)
		m.raw(`</a></div></article>`)
	})
}

// PostCards renders posts in order, without a container.
func PostCards(posts []domain.Post) templ.Component {
	return component(func(ctx context.Context, m *markup) {
		for _, p := range posts {
			m.component(ctx, PostCard(p))
		}
	})
}

// LoadMore renders the button that appends the page after page. It renders
// an empty placeholder on the last page so the patch that delivered the last
// page also removes the button.
func LoadMore(page domain.Page[domain.Post], streamID int64) templ.Component {
	return component(func(_ context.Context, m *markup) {
		m.raw(`<div id="` + LoadMoreID + `">`)
		if page.Page+1 < page.TotalPages() {
			m.raw(`<button type="button" data-on:click="@get('`)
			m.text(MorePostsURL(page.Page+1, page.Size, streamID))
			m.raw(`')">Load more (`)
			m.num(int64(page.TotalElements - (page.Page+1)*page.Size))
			m.raw(` remaining)</button>`)
		}
		m.raw(`</div>`)
	})
}

// MorePostsURL is the fragment endpoint serving the given page of posts,
// optionally restricted to a stream.
func MorePostsURL(page, size int, streamID int64) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	if streamID > 0 {
		q.Set("stream", strconv.FormatInt(streamID, 10))
	}
	return "/ui/posts?" + q.Encode()
}