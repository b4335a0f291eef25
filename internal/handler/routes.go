package handler

import (
	"net/http"

	"github.com/msomdec/microblog/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux. Writes on streams
// and posts require a bearer token. The browser client authenticates with
// the session cookie instead.
func RegisterRoutes(mux *http.ServeMux, auth *service.AuthService, users *service.UserService, streams *service.StreamService, posts *service.PostService, tokens *service.TokenService) {
	authH := NewAuthHandler(auth)
	userH := NewUserHandler(users)
	streamH := NewStreamHandler(streams)
	postH := NewPostHandler(posts)
	webH := NewWebHandler(auth, users, streams, posts, tokens)

	protect := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(tokens, h)
	}
	session := func(h http.HandlerFunc) http.Handler {
		return WithSession(tokens, h)
	}

	mux.HandleFunc("GET /healthz", HandleHealthz)

	mux.HandleFunc("POST /api/auth/signup", authH.HandleSignUp)
	mux.HandleFunc("POST /api/auth/signin", authH.HandleSignIn)

	mux.HandleFunc("GET /api/users", userH.HandleList)
	mux.HandleFunc("GET /api/users/{id}", userH.HandleGet)
	mux.HandleFunc("GET /api/users/username/{username}", userH.HandleGetByUsername)
	mux.HandleFunc("GET /api/users/username/{$}", userH.HandleGetByUsername)
	mux.HandleFunc("POST /api/users", userH.HandleCreate)
	mux.HandleFunc("PUT /api/users/{id}", userH.HandleUpdate)
	mux.HandleFunc("DELETE /api/users/{id}", userH.HandleDelete)

	mux.HandleFunc("GET /api/streams", streamH.HandleList)
	mux.HandleFunc("GET /api/streams/{id}", streamH.HandleGet)
	mux.HandleFunc("GET /api/streams/name/{name}", streamH.HandleGetByName)
	mux.HandleFunc("GET /api/streams/name/{$}", streamH.HandleGetByName)
	mux.Handle("POST /api/streams", protect(streamH.HandleCreate))
	mux.Handle("PUT /api/streams/{id}", protect(streamH.HandleUpdate))
	mux.Handle("DELETE /api/streams/{id}", protect(streamH.HandleDelete))

	mux.HandleFunc("GET /api/posts", postH.HandleList)
	mux.HandleFunc("GET /api/posts/{id}", postH.HandleGet)
	mux.HandleFunc("GET /api/posts/stream/{streamId}", postH.HandleListByStream)
	mux.HandleFunc("GET /api/posts/user/{userId}", postH.HandleListByUser)
	mux.Handle("POST /api/posts/user/{userId}/stream/{streamId}", protect(postH.HandleCreate))
	mux.Handle("PUT /api/posts/{id}", protect(postH.HandleUpdate))
	mux.Handle("DELETE /api/posts/{id}", protect(postH.HandleDelete))

	mux.Handle("GET /{$}", session(webH.HandleHome))
	mux.Handle("GET /streams", session(webH.HandleStreams))
	mux.Handle("GET /streams/{id}", session(webH.HandleStreamPosts))
	mux.HandleFunc("GET /signin", webH.HandleSignInPage)
	mux.HandleFunc("POST /signin", webH.HandleSignIn)
	mux.HandleFunc("GET /signup", webH.HandleSignUpPage)
	mux.HandleFunc("POST /signup", webH.HandleSignUp)
	mux.HandleFunc("POST /signout", webH.HandleSignOut)
	mux.Handle("POST /ui/posts", session(webH.HandleComposePost))
	mux.Handle("POST /ui/streams", session(webH.HandleCreateStream))
	mux.HandleFunc("GET /ui/posts", webH.HandleMorePosts)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "Path not found: "+r.URL.Path)
	})
}

// Chain wraps the mux with the request logging, CORS and security header
// middleware shared by every route.
func Chain(mux http.Handler) http.Handler {
	return RequestLogger(CORS(SecurityHeaders(mux)))
}
