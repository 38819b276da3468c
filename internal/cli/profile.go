package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/AshimStha/FloraBase-Frontend/internal/client"
	"github.com/AshimStha/FloraBase-Frontend/internal/nav"
	"github.com/AshimStha/FloraBase-Frontend/internal/resource"
)

func (a *App) profileCmd(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "update" {
		return a.updateProfile(ctx, args[1:])
	}
	if len(args) > 0 {
		a.printf("usage: florabase profile [update [flags]]\n")
		return ErrUsage
	}

	snap := a.profile.Load().Load(ctx)
	if snap.Status != resource.Loaded {
		return a.failed(snap.Message, snap.Redirect)
	}
	u := snap.Value.User
	a.details(
		"Name", u.FullName(),
		"Email", u.Email,
		"Phone", u.Phone,
		"Address", u.Address,
		"Date of birth", u.DateOfBirth,
		"Nationality", u.Nationality,
		"Picture", u.Avatar(),
	)
	a.printf("\nYour posts:\n")
	a.renderPosts(snap.Value.Posts)
	return nil
}

var profileFlagNames = map[string]string{
	"firstname":   "firstname",
	"lastname":    "lastname",
	"email":       "email",
	"phone":       "phone",
	"address":     "address",
	"dob":         "dateOfBirth",
	"nationality": "nationality",
}

// updateProfile prefills the form from the current user and applies only
// the flags given.
func (a *App) updateProfile(ctx context.Context, args []string) error {
	fs := a.flags("profile update")
	values := map[string]*string{}
	for name := range profileFlagNames {
		values[name] = fs.String(name, "", "new "+name)
	}
	picture := fs.String("picture", "", "new profile picture file")
	if err := parse(fs, args); err != nil {
		return err
	}

	snap := a.profile.Edit().Load(ctx)
	if snap.Status != resource.Loaded {
		return a.failed(snap.Message, snap.Redirect)
	}
	fields := snap.Value

	var pictureErr error
	fs.Visit(func(f *flag.Flag) {
		if field, ok := profileFlagNames[f.Name]; ok {
			fields[field] = *values[f.Name]
			return
		}
		if f.Name == "picture" {
			var file *client.File
			if file, pictureErr = client.OpenFile(*picture); pictureErr == nil {
				fields["profilePicture"] = file
			}
		}
	})
	if pictureErr != nil {
		return a.failed(fmt.Sprintf("cannot read picture: %v", pictureErr), nav.None)
	}
	return a.outcome(a.profile.Update(ctx, fields), "Profile updated.")
}
