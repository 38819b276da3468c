package apitest

import (
	"encoding/json"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/AshimStha/FloraBase-Frontend/internal/apperror"
	"github.com/AshimStha/FloraBase-Frontend/internal/auth"
	"github.com/AshimStha/FloraBase-Frontend/internal/model"
)

const maxUpload = 10 << 20

// profileFields are the text fields of registration and profile update.
var profileFields = []string{"firstname", "lastname", "email", "phone", "address", "dateOfBirth", "nationality"}

// form reads a JSON or multipart body into flat string values. Uploaded
// files are stored and their URL replaces the file under the same name.
func (s *Server) form(r *http.Request) (map[string]string, error) {
	values := map[string]string{}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		raw := map[string]any{}
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			return nil, apperror.ValidationFailed("", "Invalid JSON body")
		}
		for k, v := range raw {
			switch x := v.(type) {
			case string:
				values[k] = x
			case bool:
				values[k] = strconv.FormatBool(x)
			case float64:
				values[k] = strconv.FormatFloat(x, 'f', -1, 64)
			}
		}
		return values, nil
	}

	if err := r.ParseMultipartForm(maxUpload); err != nil {
		return nil, apperror.ValidationFailed("", "Invalid multipart body")
	}
	for k, vs := range r.MultipartForm.Value {
		if len(vs) > 0 {
			values[k] = vs[0]
		}
	}
	for k, files := range r.MultipartForm.File {
		if len(files) == 0 {
			continue
		}
		f, err := files[0].Open()
		if err != nil {
			return nil, apperror.ValidationFailed(k, "Unreadable file")
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, apperror.ValidationFailed(k, "Unreadable file")
		}
		name := s.store.putImage(filepath.Ext(files[0].Filename), image{
			contentType: files[0].Header.Get("Content-Type"),
			data:        data,
		})
		values[k] = imageURL(r, name)
	}
	return values, nil
}

func imageURL(r *http.Request, name string) string {
	return "http://" + r.Host + "/uploads/" + name
}

type authResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	values, err := s.form(r)
	if err != nil {
		writeError(w, err)
		return
	}
	for _, k := range append([]string{"password"}, profileFields...) {
		if strings.TrimSpace(values[k]) == "" {
			writeMessage(w, http.StatusBadRequest, "Please add all fields")
			return
		}
	}

	u, err := s.CreateUser(model.User{
		Firstname:      values["firstname"],
		Lastname:       values["lastname"],
		Email:          values["email"],
		Phone:          values["phone"],
		Address:        values["address"],
		DateOfBirth:    values["dateOfBirth"],
		Nationality:    values["nationality"],
		ProfilePicture: values["profilePicture"],
	}, values["password"])
	if err != nil {
		writeError(w, err)
		return
	}
	s.respondWithToken(w, http.StatusCreated, u)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	a, ok := s.store.accountByEmail(body.Email)
	if !ok || s.passwords.Verify(a.passwordHash, body.Password) != nil {
		writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	s.respondWithToken(w, http.StatusOK, a.user)
}

func (s *Server) respondWithToken(w http.ResponseWriter, status int, u model.User) {
	tok, err := s.tokens.Generate(u.ID)
	if err != nil {
		s.logger.Error("devapi: issuing token", slog.String("error", err.Error()))
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, status, authResponse{Token: tok, User: u})
}

// currentUser resolves the account behind the bearer token. A token for a
// deleted account is treated like an invalid one.
func (s *Server) currentUser(r *http.Request) (model.User, bool) {
	id, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return model.User{}, false
	}
	u, err := s.store.user(id)
	return u, err == nil
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	u, ok := s.currentUser(r)
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not authorized, user not found")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	u, ok := s.currentUser(r)
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not authorized, user not found")
		return
	}
	values, err := s.form(r)
	if err != nil {
		writeError(w, err)
		return
	}

	updated, err := s.store.updateUser(u.ID, func(u *model.User) {
		set := func(dst *string, key string) {
			if v, ok := values[key]; ok && v != "" {
				*dst = v
			}
		}
		set(&u.Firstname, "firstname")
		set(&u.Lastname, "lastname")
		set(&u.Email, "email")
		set(&u.Phone, "phone")
		set(&u.Address, "address")
		set(&u.DateOfBirth, "dateOfBirth")
		set(&u.Nationality, "nationality")
		set(&u.ProfilePicture, "profilePicture")
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := s.currentUser(r)
		if !ok || !u.IsAdmin {
			writeMessage(w, http.StatusForbidden, "Not authorized as an admin")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.users())
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.store.deleteUser(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "User removed")
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		writeMessage(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	file, hdr, err := r.FormFile("image")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "No file uploaded")
		return
	}

	name := s.store.putImage(filepath.Ext(hdr.Filename), image{
		contentType: hdr.Header.Get("Content-Type"),
		data:        data,
	})
	writeJSON(w, http.StatusOK, model.UploadResponse{ImageURL: imageURL(r, name)})
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	img, ok := s.store.image(chi.URLParam(r, "name"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	if img.contentType != "" {
		w.Header().Set("Content-Type", img.contentType)
	}
	w.Write(img.data)
}

func decodePost(r *http.Request, into *model.FlowerPost) error {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		return apperror.ValidationFailed("", "Invalid flower data")
	}
	if into.Location != "" {
		if _, err := model.ParseLocation(into.Location); err != nil {
			return apperror.ValidationFailed("location", err.Error())
		}
	}
	return nil
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	u, ok := s.currentUser(r)
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not authorized, user not found")
		return
	}
	var p model.FlowerPost
	if err := decodePost(r, &p); err != nil {
		writeError(w, err)
		return
	}
	if p.CommonName == "" || p.ScientificName == "" || p.Family == "" || p.Genus == "" {
		writeMessage(w, http.StatusBadRequest, "Please add all required fields")
		return
	}
	writeJSON(w, http.StatusCreated, s.AddPost(u.ID, p))
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.listPosts(""))
}

func (s *Server) handleMyPosts(w http.ResponseWriter, r *http.Request) {
	u, ok := s.currentUser(r)
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not authorized, user not found")
		return
	}
	writeJSON(w, http.StatusOK, s.store.listPosts(u.ID))
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.post(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusNotFound, "Flower not found")
		return
	}
	writeJSON(w, http.StatusOK, p.FlowerPost)
}

// ownedPost loads the post in the URL and checks the caller may change it.
func (s *Server) ownedPost(w http.ResponseWriter, r *http.Request) (*post, bool) {
	u, ok := s.currentUser(r)
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not authorized, user not found")
		return nil, false
	}
	p, err := s.store.post(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusNotFound, "Flower not found")
		return nil, false
	}
	if p.ownerID != u.ID && !u.IsAdmin {
		writeMessage(w, http.StatusForbidden, "Not authorized to modify this flower")
		return nil, false
	}
	return p, true
}

// handleUpdatePost applies the fields present in the body over the stored
// post; the ID never changes.
func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	p, ok := s.ownedPost(w, r)
	if !ok {
		return
	}
	updated := p.FlowerPost
	if err := decodePost(r, &updated); err != nil {
		writeError(w, err)
		return
	}
	updated.ID = p.ID
	s.store.replacePost(updated)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	p, ok := s.ownedPost(w, r)
	if !ok {
		return
	}
	s.store.deletePost(p.ID)
	writeMessage(w, http.StatusOK, "Flower removed")
}

type catalogPage struct {
	Data []listEntry `json:"data"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		writeMessage(w, http.StatusBadRequest, "page must be a positive integer")
		return
	}
	flowers := s.store.searchCatalog(q.Get("q"), page, s.cfg.PageSize)
	writeJSON(w, http.StatusOK, catalogPage{Data: toListEntries(flowers)})
}

func (s *Server) handleCatalogFlower(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperror.NotFound("Flower", chi.URLParam(r, "id")))
		return
	}
	f, ok := s.store.catalogFlower(id)
	if !ok {
		writeError(w, apperror.NotFound("Flower", strconv.Itoa(id)))
		return
	}
	writeJSON(w, http.StatusOK, model.CatalogEntry{Data: f})
}
