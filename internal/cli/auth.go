package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AshimStha/FloraBase-Frontend/internal/client"
	"github.com/AshimStha/FloraBase-Frontend/internal/form"
	"github.com/AshimStha/FloraBase-Frontend/internal/nav"
)

func (a *App) register(ctx context.Context, args []string) error {
	fs := a.flags("register")
	var (
		firstname   = fs.String("firstname", "", "first name")
		lastname    = fs.String("lastname", "", "last name")
		email       = fs.String("email", "", "email address")
		password    = fs.String("password", "", "password (read from stdin when empty)")
		phone       = fs.String("phone", "", "phone number")
		address     = fs.String("address", "", "postal address")
		dateOfBirth = fs.String("dob", "", "date of birth, YYYY-MM-DD")
		nationality = fs.String("nationality", "", "nationality")
		picture     = fs.String("picture", "", "profile picture file")
	)
	if err := parse(fs, args); err != nil {
		return err
	}

	fields := form.Fields{
		"firstname":   *firstname,
		"lastname":    *lastname,
		"email":       *email,
		"password":    a.secret(*password, "Password"),
		"phone":       *phone,
		"address":     *address,
		"dateOfBirth": *dateOfBirth,
		"nationality": *nationality,
	}
	if *picture != "" {
		f, err := client.OpenFile(*picture)
		if err != nil {
			return a.failed(fmt.Sprintf("cannot read picture: %v", err), nav.None)
		}
		fields["profilePicture"] = f
	}
	return a.outcome(a.auth.Register(ctx, fields), "Account created. Please log in.")
}

func (a *App) login(ctx context.Context, args []string) error {
	fs := a.flags("login")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password (read from stdin when empty)")
	from := fs.String("from", "", "screen to continue to, e.g. /create-post")
	if err := parse(fs, args); err != nil {
		return err
	}

	out := a.auth.Login(ctx, form.Fields{
		"email":    *email,
		"password": a.secret(*password, "Password"),
	}, nav.Route(*from))
	return a.outcome(out, "Logged in.")
}

func (a *App) logout(context.Context, []string) error {
	next := a.auth.Logout()
	a.printf("Logged out.\n")
	a.next(next)
	return nil
}

func (a *App) whoami(ctx context.Context, _ []string) error {
	n := a.auth.Navbar(ctx)
	if !n.SignedIn {
		a.printf("Not logged in.\n")
		a.next(nav.Login)
		return nil
	}
	expires := ""
	if exp, ok := a.session.TokenExpiry(); ok {
		expires = exp.Local().Format(time.RFC1123)
		if time.Until(exp) <= 0 {
			expires += " (expired)"
		}
	}
	a.details(
		"Greeting", n.Greeting,
		"Avatar", n.Avatar,
		"Session expires", expires,
	)
	links := make([]string, 0, len(n.Links))
	for _, l := range n.Links {
		links = append(links, l.Label)
	}
	a.printf("Menu: %s\n", strings.Join(links, " | "))
	return nil
}

// secret returns value, or one line read from the input when value is empty.
func (a *App) secret(value, prompt string) string {
	if value != "" || a.in == nil {
		return value
	}
	a.printf("%s: ", prompt)
	line, _ := bufio.NewReader(a.in).ReadString('\n')
	return strings.TrimRight(line, "\r\n")
}
