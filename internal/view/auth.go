package view

import (
	"context"

	"github.com/a-h/templ"
)

// SignInPage renders the sign in form. notice is shown above the form, and
// message is shown as an error after a failed attempt.
func SignInPage(notice, message, username string) templ.Component {
	return Layout("Sign in", "", component(func(ctx context.Context, m *markup) {
		m.raw(`<section class="card auth"><h2>Sign in</h2>`)
		if notice != "" {
			m.raw(`<p class="notice">`)
			m.text(notice)
			m.raw(`</p>`)
		}
		m.raw(`<form method="post" action="/signin">`)
		m.raw(`<label>Username <input name="username" autocomplete="username" value="`)
		m.text(username)
		m.raw(`" required></label>`)
		m.raw(`<label>Password <input type="password" name="password" autocomplete="current-password" required></label>`)
		m.raw(`<button type="submit">Sign in</button></form>`)
		m.component(ctx, alert("signin-error", message))
		m.raw(`<p>No account? <a href="/signup">Sign up</a></p></section>`)
	}))
}

// SignUpPage renders the registration form, keeping the submitted username
// and email after a failed attempt.
func SignUpPage(message, username, email string) templ.Component {
	return Layout("Sign up", "", component(func(ctx context.Context, m *markup) {
		m.raw(`<section class="card auth"><h2>Sign up</h2><form method="post" action="/signup">`)
		m.raw(`<label>Username <input name="username" autocomplete="username" value="`)
		m.text(username)
		m.raw(`" required></label>`)
		m.raw(`<label>Email <input type="email" name="email" autocomplete="email" value="`)
		m.text(email)
		m.raw(`" required></label>`)
		m.raw(`<label>Password <input type="password" name="password" autocomplete="new-password" required></label>`)
		m.raw(`<button type="submit">Sign up</button></form>`)
		m.component(ctx, alert("signup-error", message))
		m.raw(`<p>Already registered? <a href="/signin">Sign in</a></p></section>`)
	}))
}