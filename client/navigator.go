package client

// Navigator is the side-effect port the pipeline uses for forced logout.
// A forced logout must land the user on the login entry point immediately,
// bypassing any soft routing; implementations decide what that means for
// their surface (a CLI prompt, a browser redirect, a test recorder).
type Navigator interface {
	RedirectToLogin()
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func()

func (f NavigatorFunc) RedirectToLogin() { f() }

// NopNavigator ignores forced-logout redirects.
type NopNavigator struct{}

func (NopNavigator) RedirectToLogin() {}
