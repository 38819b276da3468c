package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/AshimStha/FloraBase-Frontend/internal/client"
	"github.com/AshimStha/FloraBase-Frontend/internal/form"
	"github.com/AshimStha/FloraBase-Frontend/internal/model"
	"github.com/AshimStha/FloraBase-Frontend/internal/nav"
	"github.com/AshimStha/FloraBase-Frontend/internal/resource"
)

const postsUsage = "usage: florabase posts feed | mine | get ID | create [flags] | update ID [flags] | delete ID"

func (a *App) postsCmd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.printf("%s\n", postsUsage)
		return ErrUsage
	}
	sub, rest := args[0], args[1:]
	switch sub {
	case "feed":
		return a.postList(ctx, a.posts.Feed())
	case "mine":
		return a.postList(ctx, a.posts.Mine())
	case "create":
		return a.createPost(ctx, rest)
	}

	if len(rest) == 0 {
		a.printf("%s\n", postsUsage)
		return ErrUsage
	}
	id := rest[0]
	switch sub {
	case "get":
		return a.showPost(ctx, id)
	case "update":
		return a.updatePost(ctx, id, rest[1:])
	case "delete":
		return a.outcome(a.posts.Delete(ctx, id), "Post deleted.")
	}
	a.printf("%s\n", postsUsage)
	return ErrUsage
}

func (a *App) postList(ctx context.Context, r *resource.Resource[[]model.FlowerPost]) error {
	snap := r.Load(ctx)
	if snap.Status != resource.Loaded {
		return a.failed(snap.Message, snap.Redirect)
	}
	a.renderPosts(snap.Value)
	return nil
}

func (a *App) renderPosts(posts []model.FlowerPost) {
	if len(posts) == 0 {
		a.printf("No posts yet.\n")
		return
	}
	rows := make([][]string, 0, len(posts))
	for _, p := range posts {
		rows = append(rows, []string{p.ID, p.CommonName, p.ScientificName, p.Location})
	}
	a.table([]string{"ID", "NAME", "SCIENTIFIC NAME", "LOCATION"}, rows)
}

func (a *App) showPost(ctx context.Context, id string) error {
	snap := a.posts.Detail(id).Load(ctx)
	if snap.Status != resource.Loaded {
		return a.failed(snap.Message, snap.Redirect)
	}
	p := snap.Value.Post
	location := p.Location
	mapLink := ""
	if ll := snap.Value.Location; ll != nil {
		location = ll.String()
		mapLink = MapsLink(*ll, a.mapsKey)
	} else if location != "" {
		location += " (not a valid lat,lng)"
	}
	a.details(
		"Name", p.CommonName,
		"Scientific name", p.ScientificName,
		"Family", p.Family,
		"Genus", p.Genus,
		"Observations", p.Observations,
		"Bibliography", p.Bibliography,
		"Synonyms", strings.Join(p.Synonyms, ", "),
		"Varieties", strings.Join(p.VarietyNames(), ", "),
		"Vegetable", yesNo(p.Vegetable),
		"Edible", yesNo(p.Edible),
		"Image", p.ImageURL,
		"Location", location,
		"Map", mapLink,
	)
	return nil
}

// postFlags registers the post form flags. The returned func reports the
// fields whose flags were set on the command line.
func postFlags(fs *flag.FlagSet) func() (form.Fields, error) {
	text := map[string]*string{
		"common_name":     fs.String("common-name", "", "common name"),
		"scientific_name": fs.String("scientific-name", "", "scientific name"),
		"family":          fs.String("family", "", "family"),
		"genus":           fs.String("genus", "", "genus"),
		"observations":    fs.String("observations", "", "field observations"),
		"bibliography":    fs.String("bibliography", "", "bibliography"),
		"synonyms":        fs.String("synonyms", "", "comma-separated synonyms"),
		"varieties":       fs.String("varieties", "", "comma-separated varieties"),
		"location":        fs.String("location", "", `"lat,lng"`),
	}
	vegetable := fs.Bool("vegetable", false, "is a vegetable")
	edible := fs.Bool("edible", false, "is edible")
	image := fs.String("image", "", "image file")

	byFlag := map[string]string{}
	for field := range text {
		byFlag[strings.ReplaceAll(field, "_", "-")] = field
	}

	return func() (form.Fields, error) {
		fields := form.Fields{}
		var err error
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "vegetable":
				fields["vegetable"] = *vegetable
			case "edible":
				fields["edible"] = *edible
			case "image":
				var file *client.File
				if file, err = client.OpenFile(*image); err == nil {
					fields["image"] = file
				}
			default:
				if field, ok := byFlag[f.Name]; ok {
					fields[field] = *text[field]
				}
			}
		})
		return fields, err
	}
}

func (a *App) createPost(ctx context.Context, args []string) error {
	fs := a.flags("posts create")
	collect := postFlags(fs)
	if err := parse(fs, args); err != nil {
		return err
	}
	fields, err := collect()
	if err != nil {
		return a.failed(fmt.Sprintf("cannot read image: %v", err), nav.None)
	}
	return a.outcome(a.posts.Create(ctx, fields), "Post created.")
}

// updatePost starts from the stored post and applies only the flags given.
func (a *App) updatePost(ctx context.Context, id string, args []string) error {
	fs := a.flags("posts update")
	collect := postFlags(fs)
	if err := parse(fs, args); err != nil {
		return err
	}
	changes, err := collect()
	if err != nil {
		return a.failed(fmt.Sprintf("cannot read image: %v", err), nav.None)
	}
	delete(changes, "image")

	snap := a.posts.Edit(id).Load(ctx)
	if snap.Status != resource.Loaded {
		return a.failed(snap.Message, snap.Redirect)
	}
	fields := snap.Value
	for k, v := range changes {
		fields[k] = v
	}
	return a.outcome(a.posts.Update(ctx, id, fields), "Post updated.")
}
