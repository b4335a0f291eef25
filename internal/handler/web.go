package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/msomdec/microblog/internal/domain"
	"github.com/msomdec/microblog/internal/service"
	"github.com/msomdec/microblog/internal/view"
	datastar "github.com/starfederation/datastar-go/datastar"
)

const sessionCookie = "auth_token"

// WebHandler serves the browser client. Pages are rendered in full; the
// composer, stream form and load more button talk to fragment endpoints
// under /ui that answer with datastar patches.
type WebHandler struct {
	auth    *service.AuthService
	users   *service.UserService
	streams *service.StreamService
	posts   *service.PostService
	tokens  *service.TokenService
}

// NewWebHandler creates a new WebHandler.
func NewWebHandler(auth *service.AuthService, users *service.UserService, streams *service.StreamService, posts *service.PostService, tokens *service.TokenService) *WebHandler {
	return &WebHandler{auth: auth, users: users, streams: streams, posts: posts, tokens: tokens}
}

// WithSession reads the auth_token cookie set by the web sign in and, when
// it verifies, stores its subject in the request context. Requests without
// a valid cookie pass through anonymously.
func WithSession(tokens *service.TokenService, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(sessionCookie); err == nil && tokens.Verify(c.Value) {
			if username, err := tokens.SubjectOf(c.Value); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), usernameContextKey, username))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// HandleHome renders the latest posts.
// GET /
func (h *WebHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.List(r.Context(), domain.PageRequest{})
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	streams, err := h.streams.List(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	renderPage(w, r, http.StatusOK, view.Feed(view.FeedPage{
		Username: UsernameFromContext(r.Context()),
		Posts:    posts,
		Streams:  streams,
	}))
}

// HandleStreamPosts renders the posts of one stream.
// GET /streams/{id}
func (h *WebHandler) HandleStreamPosts(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	stream, err := h.streams.GetByID(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	posts, err := h.posts.ListByStream(r.Context(), id, domain.PageRequest{})
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	streams, err := h.streams.List(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	renderPage(w, r, http.StatusOK, view.Feed(view.FeedPage{
		Username: UsernameFromContext(r.Context()),
		Stream:   stream,
		Posts:    posts,
		Streams:  streams,
	}))
}

// HandleStreams renders every stream.
// GET /streams
func (h *WebHandler) HandleStreams(w http.ResponseWriter, r *http.Request) {
	streams, err := h.streams.List(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	renderPage(w, r, http.StatusOK, view.StreamsPage(UsernameFromContext(r.Context()), streams))
}

// HandleSignInPage renders the sign in form.
// GET /signin
func (h *WebHandler) HandleSignInPage(w http.ResponseWriter, r *http.Request) {
	notice := ""
	if r.URL.Query().Get("registered") != "" {
		notice = "Registration successful! Please sign in."
	}
	renderPage(w, r, http.StatusOK, view.SignInPage(notice, "", ""))
}

// HandleSignIn processes the sign in form and sets the session cookie.
// POST /signin
func (h *WebHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	req := signInRequest{Username: r.FormValue("username"), Password: r.FormValue("password")}
	if err := req.validate(); err != nil {
		status, msg := describeError(err)
		renderPage(w, r, status, view.SignInPage("", msg, req.Username))
		return
	}

	token, err := h.auth.SignIn(r.Context(), req.Username, req.Password)
	if err != nil {
		status, msg := describeError(err)
		if status == http.StatusInternalServerError {
			slog.Error("web sign in", "error", err)
		}
		renderPage(w, r, status, view.SignInPage("", msg, req.Username))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.tokens.TTL().Seconds()),
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleSignUpPage renders the registration form.
// GET /signup
func (h *WebHandler) HandleSignUpPage(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, http.StatusOK, view.SignUpPage("", "", ""))
}

// HandleSignUp processes the registration form.
// POST /signup
func (h *WebHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	req := signUpRequest{
		Username: r.FormValue("username"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}
	err := req.validate()
	if err == nil {
		_, err = h.auth.SignUp(r.Context(), req.Username, req.Email, req.Password)
	}
	if err != nil {
		status, msg := describeError(err)
		if status == http.StatusInternalServerError {
			slog.Error("web sign up", "error", err)
		}
		renderPage(w, r, status, view.SignUpPage(msg, req.Username, req.Email))
		return
	}
	http.Redirect(w, r, "/signin?registered=1", http.StatusSeeOther)
}

// HandleSignOut clears the session cookie.
// POST /signout
func (h *WebHandler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleComposePost publishes a post from the composer form and prepends it
// to the feed.
// POST /ui/posts
func (h *WebHandler) HandleComposePost(w http.ResponseWriter, r *http.Request) {
	user, ok := h.sessionUser(w, r)
	if !ok {
		return
	}

	req := postRequest{Content: r.FormValue("content")}
	err := req.validate()
	var streamID int64
	if err == nil {
		streamID, err = strconv.ParseInt(r.FormValue("streamId"), 10, 64)
		if err != nil || streamID <= 0 {
			err = fmt.Errorf("%w: please select a stream", domain.ErrInvalidInput)
		}
	}
	var post *domain.Post
	if err == nil {
		post, err = h.posts.Create(r.Context(), req.Content, user.ID, streamID)
	}

	sse := datastar.NewSSE(w, r)
	if err != nil {
		sse.PatchElementTempl(view.PostError(fragmentMessage(r, err)))
		return
	}

	sse.RemoveElementByID(view.PostsEmptyID)
	sse.PatchElementTempl(
		view.PostCard(*post),
		datastar.WithSelectorID(view.PostsID),
		datastar.WithModePrepend(),
	)
	sse.PatchElementTempl(view.PostError(""))
	sse.MarshalAndPatchSignals(map[string]any{"content": ""})
}

// HandleCreateStream creates a stream from the stream form and appends its
// card to the list.
// POST /ui/streams
func (h *WebHandler) HandleCreateStream(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.sessionUser(w, r); !ok {
		return
	}

	req := streamRequest{Name: r.FormValue("name"), Description: r.FormValue("description")}
	err := req.validate()
	var stream *domain.Stream
	if err == nil {
		stream, err = h.streams.Create(r.Context(), service.StreamInput{Name: req.Name, Description: req.Description})
	}

	sse := datastar.NewSSE(w, r)
	if err != nil {
		sse.PatchElementTempl(view.StreamError(fragmentMessage(r, err)))
		return
	}

	sse.RemoveElementByID(view.StreamsEmptyID)
	sse.PatchElementTempl(
		view.StreamCard(*stream),
		datastar.WithSelectorID(view.StreamsID),
		datastar.WithModeAppend(),
	)
	// Replacing the form clears its inputs and error slot.
	sse.PatchElementTempl(view.StreamForm(""))
}

// HandleMorePosts appends the next page of posts to the feed and replaces
// the load more button.
// GET /ui/posts?page=1&size=10[&stream=3]
func (h *WebHandler) HandleMorePosts(w http.ResponseWriter, r *http.Request) {
	page, err := pageRequest(r)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	var streamID int64
	var result domain.Page[domain.Post]
	if raw := r.URL.Query().Get("stream"); raw != "" {
		streamID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil || streamID <= 0 {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		result, err = h.posts.ListByStream(r.Context(), streamID, page)
	} else {
		result, err = h.posts.List(r.Context(), page)
	}
	if err != nil {
		status, _ := describeError(err)
		if status == http.StatusInternalServerError {
			slog.Error("load more posts", "error", err)
		}
		http.Error(w, http.StatusText(status), status)
		return
	}

	sse := datastar.NewSSE(w, r)
	if len(result.Items) > 0 {
		sse.PatchElementTempl(
			view.PostCards(result.Items),
			datastar.WithSelectorID(view.PostsID),
			datastar.WithModeAppend(),
		)
	}
	// Replace the load-more button (updates count or removes it).
	sse.PatchElementTempl(view.LoadMore(result, streamID))
}

// sessionUser resolves the signed-in user of a fragment request. Anonymous
// or stale sessions are redirected to the sign in page.
func (h *WebHandler) sessionUser(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	username := UsernameFromContext(r.Context())
	if username != "" {
		user, err := h.users.GetByUsername(r.Context(), username)
		if err == nil {
			return user, true
		}
		if !errors.Is(err, domain.ErrNotFound) {
			slog.Error("resolve session user", "username", username, "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return nil, false
		}
	}
	datastar.NewSSE(w, r).Redirect("/signin")
	return nil, false
}

// fragmentMessage returns the text shown in a form's error slot.
func fragmentMessage(r *http.Request, err error) string {
	status, msg := describeError(err)
	if status == http.StatusInternalServerError {
		slog.Error("fragment request failed", "path", r.URL.Path, "error", err)
	}
	return msg
}

func (h *WebHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := describeError(err)
	if status == http.StatusInternalServerError {
		slog.Error("render page", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	renderPage(w, r, status, view.ErrorPage(UsernameFromContext(r.Context()), status, msg))
}

func renderPage(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		slog.Error("render page", "path", r.URL.Path, "error", err)
	}
}