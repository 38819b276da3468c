package service

import (
	"context"
	"log/slog"

	"github.com/AshimStha/FloraBase-Frontend/internal/model"
	"github.com/AshimStha/FloraBase-Frontend/internal/nav"
)

// Link is one navigation entry.
type Link struct {
	Label string
	To    nav.Route
}

// Navbar is the header every screen shows.
type Navbar struct {
	SignedIn bool
	Greeting string
	Avatar   string
	Links    []Link
}

var publicLinks = []Link{
	{Label: "Home", To: nav.Home},
	{Label: "Flowers", To: nav.Flowers},
}

// Navbar builds the header for the current session. A failed user fetch
// shows the signed-out header; it never surfaces an error.
func (s *AuthService) Navbar(ctx context.Context) Navbar {
	u, err := s.CurrentUser(ctx)
	if err != nil {
		s.logger.Debug("navbar: no user", slog.String("error", err.Error()))
	}
	return BuildNavbar(u)
}

// BuildNavbar lays out the header for u, or the signed-out header for nil.
// Admins get the dashboard link instead of the profile link.
func BuildNavbar(u *model.User) Navbar {
	links := append([]Link(nil), publicLinks...)
	if u == nil {
		return Navbar{Links: append(links,
			Link{Label: "Sign Up", To: nav.Register},
			Link{Label: "Log In", To: nav.Login},
		)}
	}

	n := Navbar{SignedIn: true, Greeting: "Hello, " + u.Firstname}
	if u.Firstname == "" {
		n.Greeting = "Hello"
	}
	n.Avatar = u.Avatar()
	if u.IsAdmin {
		links = append(links, Link{Label: "Dashboard", To: nav.AdminBoard})
	} else {
		links = append(links, Link{Label: "Profile", To: nav.Profile})
	}
	n.Links = append(links, Link{Label: "Logout", To: nav.Login})
	return n
}
