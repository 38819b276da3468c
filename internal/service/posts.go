package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/AshimStha/FloraBase-Frontend/internal/apperror"
	"github.com/AshimStha/FloraBase-Frontend/internal/form"
	"github.com/AshimStha/FloraBase-Frontend/internal/model"
	"github.com/AshimStha/FloraBase-Frontend/internal/nav"
	"github.com/AshimStha/FloraBase-Frontend/internal/resource"
	"github.com/AshimStha/FloraBase-Frontend/internal/session"
)

// PostService serves the community flower posts: the public feed, the
// signed-in user's own posts and the create/update/delete forms.
//
// DEPENDENCIES:
//   - api: the backend
//   - session: token presence and the auth-failure redirect
//   - logger
type PostService struct {
	api     Backend
	session *session.Store
	logger  *slog.Logger
	create  *form.Controller
}

func NewPostService(api Backend, sess *session.Store, logger *slog.Logger) *PostService {
	s := &PostService{api: api, session: sess, logger: logger}
	s.create = form.New(form.Definition{
		Name:        "create-post",
		Required:    PostCreateRequired,
		Check:       checkLocation,
		Send:        s.sendCreate,
		Fallback:    "Could not create the flower post.",
		OnAuthError: sess.Redirect,
	}, logger)
	return s
}

// PostDetail is a post with its location already parsed. Location is nil
// when the post has none or it does not parse.
type PostDetail struct {
	Post     model.FlowerPost
	Location *model.LatLng
}

func (s *PostService) Feed() *resource.Resource[[]model.FlowerPost] {
	return resource.New("feed", s.api.Posts, resource.Policy{
		Fallback: "Could not load flowers.",
	}, s.logger)
}

// Mine lists the signed-in user's posts.
func (s *PostService) Mine() *resource.Resource[[]model.FlowerPost] {
	return resource.New("my-posts", func(ctx context.Context) ([]model.FlowerPost, error) {
		if err := requireToken(s.session); err != nil {
			return nil, err
		}
		return s.api.MyPosts(ctx)
	}, resource.Policy{
		Fallback:    "Could not load your posts.",
		OnAuthError: s.session.Redirect,
	}, s.logger)
}

func (s *PostService) Detail(id string) *resource.Resource[PostDetail] {
	return resource.New("post", func(ctx context.Context) (PostDetail, error) {
		p, err := s.api.Post(ctx, id)
		if err != nil {
			return PostDetail{}, err
		}
		d := PostDetail{Post: *p}
		ll, ok, err := p.Coordinates()
		switch {
		case err != nil:
			s.logger.Warn("posts: unusable location",
				slog.String("post", p.ID),
				slog.String("location", p.Location),
			)
		case ok:
			d.Location = &ll
		}
		return d, nil
	}, resource.Policy{Fallback: "Could not load flower details"}, s.logger)
}

// Create submits a new post in two requests: the image upload, then the
// metadata with the hosted image_url. A failed upload stops there.
func (s *PostService) Create(ctx context.Context, fields form.Fields) form.Outcome {
	return s.create.Submit(ctx, fields)
}

func (s *PostService) sendCreate(ctx context.Context, fields form.Fields) (nav.Route, error) {
	imageURL, err := s.api.UploadImage(ctx, fields.File("image"))
	if err != nil {
		return nav.None, &form.StepError{
			Step:     "upload",
			Fallback: "Image upload failed. Please try again.",
			Err:      err,
		}
	}

	body := postBody(fields)
	body["image_url"] = imageURL
	p, err := s.api.CreatePost(ctx, body)
	if err != nil {
		return nav.None, err
	}
	s.logger.Info("posts: created", slog.String("post", p.ID))
	return nav.Profile, nil
}

// Edit loads a post as prefilled update-form fields.
func (s *PostService) Edit(id string) *resource.Resource[form.Fields] {
	return resource.New("edit-post", func(ctx context.Context) (form.Fields, error) {
		p, err := s.api.Post(ctx, id)
		if err != nil {
			return nil, err
		}
		return EditFields(*p), nil
	}, resource.Policy{
		Fallback:    "Could not load flower details",
		OnAuthError: s.session.Redirect,
	}, s.logger)
}

// EditFields turns a post into form fields. Synonyms and varieties become
// comma-separated text.
func EditFields(p model.FlowerPost) form.Fields {
	return form.Fields{
		"common_name":     p.CommonName,
		"scientific_name": p.ScientificName,
		"family":          p.Family,
		"genus":           p.Genus,
		"observations":    p.Observations,
		"bibliography":    p.Bibliography,
		"synonyms":        strings.Join(p.Synonyms, ", "),
		"varieties":       strings.Join(p.VarietyNames(), ", "),
		"vegetable":       p.Vegetable,
		"edible":          p.Edible,
		"location":        p.Location,
	}
}

// Update saves edited fields over post id and goes back on success.
func (s *PostService) Update(ctx context.Context, id string, fields form.Fields) form.Outcome {
	c := form.New(form.Definition{
		Name:     "update-post",
		Required: PostUpdateRequired,
		Check:    checkLocation,
		Send: func(ctx context.Context, f form.Fields) (nav.Route, error) {
			if err := s.api.UpdatePost(ctx, id, postBody(f)); err != nil {
				return nav.None, err
			}
			return nav.Back, nil
		},
		Fallback:    "Could not update the flower post.",
		OnAuthError: s.session.Redirect,
	}, s.logger)
	return c.Submit(ctx, fields)
}

// Delete removes post id.
func (s *PostService) Delete(ctx context.Context, id string) form.Outcome {
	return action(s.api.DeletePost(ctx, id), "Could not delete the flower post.", s.session.Redirect)
}

// action reports a one-shot request the way a form submission is reported.
func action(err error, fallback string, onAuth func(error) (nav.Route, bool)) form.Outcome {
	if err == nil {
		return form.Outcome{}
	}
	out := form.Outcome{Err: err, Message: apperror.UserMessage(err, fallback)}
	if route, ok := onAuth(err); ok {
		out.Next = route
	}
	return out
}

func checkLocation(f form.Fields) form.Errors {
	loc := f.String("location")
	if strings.TrimSpace(loc) == "" {
		return nil
	}
	if _, err := model.ParseLocation(loc); err != nil {
		return form.Errors{"location": err.Error()}
	}
	return nil
}

var postTextFields = []string{"common_name", "scientific_name", "family", "genus", "observations", "bibliography", "location"}

// postBody builds the JSON metadata of a post from form fields.
func postBody(f form.Fields) map[string]any {
	body := map[string]any{
		"vegetable": f.Bool("vegetable"),
		"edible":    f.Bool("edible"),
	}
	for _, k := range postTextFields {
		if v, ok := f[k].(string); ok {
			body[k] = strings.TrimSpace(v)
		}
	}
	if v, ok := f["synonyms"]; ok {
		body["synonyms"] = splitList(v)
	}
	if v, ok := f["varieties"]; ok {
		names := splitList(v)
		varieties := make([]model.Variety, 0, len(names))
		for _, n := range names {
			varieties = append(varieties, model.Variety{ScientificName: n})
		}
		body["varieties"] = varieties
	}
	return body
}

// splitList accepts comma-separated text or a []string and returns the
// trimmed, non-empty items.
func splitList(v any) []string {
	var parts []string
	switch x := v.(type) {
	case string:
		parts = strings.Split(x, ",")
	case []string:
		parts = x
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
