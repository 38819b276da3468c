package apitest

import (
	"sort"
	"strings"
	"sync"

	"github.com/rs/xid"

	"github.com/AshimStha/FloraBase-Frontend/internal/apperror"
	"github.com/AshimStha/FloraBase-Frontend/internal/model"
)

type account struct {
	user         model.User
	passwordHash string
}

type post struct {
	model.FlowerPost
	ownerID string
}

type image struct {
	contentType string
	data        []byte
}

// store is the in-memory state of the development backend. Everything is
// lost when the process exits.
type store struct {
	mu       sync.RWMutex
	accounts map[string]*account // by user ID
	posts    map[string]*post
	order    []string // post IDs in creation order
	images   map[string]image
	catalog  []model.ExternalFlower
}

func newStore(catalog []model.ExternalFlower) *store {
	return &store{
		accounts: make(map[string]*account),
		posts:    make(map[string]*post),
		images:   make(map[string]image),
		catalog:  catalog,
	}
}

func (s *store) addAccount(u model.User, hash string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(u.Email))
	for _, a := range s.accounts {
		if strings.ToLower(a.user.Email) == email {
			return model.User{}, apperror.ValidationFailed("email", "User already exists")
		}
	}
	u.ID = xid.New().String()
	s.accounts[u.ID] = &account{user: u, passwordHash: hash}
	return u, nil
}

func (s *store) accountByEmail(email string) (*account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, a := range s.accounts {
		if strings.ToLower(a.user.Email) == email {
			cp := *a
			return &cp, true
		}
	}
	return nil, false
}

func (s *store) user(id string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[id]
	if !ok {
		return model.User{}, apperror.NotFound("User", id)
	}
	return a.user, nil
}

func (s *store) updateUser(id string, apply func(*model.User)) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return model.User{}, apperror.NotFound("User", id)
	}
	apply(&a.user)
	return a.user, nil
}

func (s *store) users() []model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.User, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a.user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// deleteUser also removes the user's posts.
func (s *store) deleteUser(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[id]; !ok {
		return apperror.NotFound("User", id)
	}
	delete(s.accounts, id)
	kept := s.order[:0]
	for _, pid := range s.order {
		if s.posts[pid].ownerID == id {
			delete(s.posts, pid)
			continue
		}
		kept = append(kept, pid)
	}
	s.order = kept
	return nil
}

func (s *store) addPost(ownerID string, p model.FlowerPost) model.FlowerPost {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = xid.New().String()
	s.posts[p.ID] = &post{FlowerPost: p, ownerID: ownerID}
	s.order = append(s.order, p.ID)
	return p
}

func (s *store) post(id string) (*post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, apperror.NotFound("Flower", id)
	}
	cp := *p
	return &cp, nil
}

// listPosts returns posts in creation order; ownerID "" means all.
func (s *store) listPosts(ownerID string) []model.FlowerPost {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.FlowerPost{}
	for _, id := range s.order {
		p := s.posts[id]
		if ownerID == "" || p.ownerID == ownerID {
			out = append(out, p.FlowerPost)
		}
	}
	return out
}

func (s *store) replacePost(p model.FlowerPost) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.posts[p.ID]; ok {
		existing.FlowerPost = p
	}
}

func (s *store) deletePost(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.posts, id)
	for i, pid := range s.order {
		if pid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *store) putImage(ext string, img image) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	name := xid.New().String() + ext
	s.images[name] = img
	return name
}

func (s *store) image(name string) (image, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	img, ok := s.images[name]
	return img, ok
}

// searchCatalog filters by q (case-insensitive, common or scientific name)
// and returns page (1-based) of size pageSize.
func (s *store) searchCatalog(q string, page, pageSize int) []model.ExternalFlower {
	q = strings.ToLower(strings.TrimSpace(q))
	matched := []model.ExternalFlower{}
	for _, f := range s.catalog {
		if q == "" ||
			strings.Contains(strings.ToLower(f.CommonName), q) ||
			strings.Contains(strings.ToLower(f.ScientificName), q) {
			matched = append(matched, f)
		}
	}
	start := (page - 1) * pageSize
	if start >= len(matched) {
		return []model.ExternalFlower{}
	}
	end := min(start+pageSize, len(matched))
	return matched[start:end]
}

func (s *store) catalogFlower(id int) (model.ExternalFlower, bool) {
	for _, f := range s.catalog {
		if f.ID == id {
			return f, true
		}
	}
	return model.ExternalFlower{}, false
}
