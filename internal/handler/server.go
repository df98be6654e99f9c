// Package handler implements the HTTP handlers for the Notekeeper API.
// All handlers are methods on Server; methods are split into entity-specific
// files (folder.go, note.go, etc.) but all share the same Server struct so
// they can access its dependencies.
package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mwhited/notekeeper/internal/auth"
	"github.com/mwhited/notekeeper/internal/domain"
	"github.com/mwhited/notekeeper/internal/service"
)

// FolderServicer defines the business operations the folder handlers depend
// on. Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type FolderServicer interface {
	List(ctx context.Context, userID uuid.UUID) ([]domain.Folder, error)
	Get(ctx context.Context, id, userID uuid.UUID) (domain.Folder, error)
	Create(ctx context.Context, userID uuid.UUID, name string) (domain.Folder, error)
	Update(ctx context.Context, id, userID uuid.UUID, name string) (domain.Folder, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// TagServicer defines the business operations the tag handlers depend on.
type TagServicer interface {
	List(ctx context.Context, userID uuid.UUID) ([]domain.Tag, error)
	Get(ctx context.Context, id, userID uuid.UUID) (domain.Tag, error)
	Create(ctx context.Context, userID uuid.UUID, name string) (domain.Tag, error)
	Update(ctx context.Context, id, userID uuid.UUID, name string) (domain.Tag, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// NoteServicer defines the business operations the note handlers depend on.
type NoteServicer interface {
	List(ctx context.Context, userID uuid.UUID, filter domain.NoteFilter) ([]domain.Note, error)
	Get(ctx context.Context, id, userID uuid.UUID) (domain.Note, error)
	Create(ctx context.Context, userID uuid.UUID, change domain.NoteChange) (domain.Note, error)
	Update(ctx context.Context, id, userID uuid.UUID, change domain.NoteChange) (domain.Note, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// UserServicer defines the registration and credential operations the user
// and auth handlers depend on.
type UserServicer interface {
	Register(ctx context.Context, in service.RegisterInput) (domain.User, error)
	Authenticate(ctx context.Context, username, password string) (domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)
}

// Server holds the dependencies of every API endpoint.
type Server struct {
	folders FolderServicer
	tags    TagServicer
	notes   NoteServicer
	users   UserServicer
	tokens  *auth.Tokens
}

// NewServer constructs the Server with all its dependencies.
func NewServer(folders FolderServicer, tags TagServicer, notes NoteServicer, users UserServicer, tokens *auth.Tokens) *Server {
	return &Server{folders: folders, tags: tags, notes: notes, users: users, tokens: tokens}
}

// Routes returns the API router, intended to be mounted at /api.
// Registration and login are the only endpoints outside the bearer wall;
// everything else runs behind the auth middleware, so each protected
// handler can assume a verified identity in its context.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/users", s.registerUser)
	r.Post("/login", s.login)

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(s.tokens))

		r.Post("/refresh", s.refresh)

		r.Route("/folders", func(r chi.Router) {
			r.Get("/", s.listFolders)
			r.Post("/", s.createFolder)
			r.Get("/{id}", s.getFolder)
			r.Put("/{id}", s.updateFolder)
			r.Delete("/{id}", s.deleteFolder)
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", s.listTags)
			r.Post("/", s.createTag)
			r.Get("/{id}", s.getTag)
			r.Put("/{id}", s.updateTag)
			r.Delete("/{id}", s.deleteTag)
		})

		r.Route("/notes", func(r chi.Router) {
			r.Get("/", s.listNotes)
			r.Post("/", s.createNote)
			r.Get("/{id}", s.getNote)
			r.Put("/{id}", s.updateNote)
			r.Delete("/{id}", s.deleteNote)
		})
	})

	return r
}

// identity returns the verified identity the auth middleware put in the
// context. Only callable from handlers registered behind the middleware.
func identity(ctx context.Context) auth.Identity {
	id, _ := auth.IdentityFromContext(ctx)
	return id
}

// pathID parses the {id} path parameter, returning domain.ErrInvalidID for
// anything that is not a well-formed UUID. Format validation happens here,
// before the id can reach the store.
func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("%w: The `id` is invalid", domain.ErrInvalidID)
	}
	return id, nil
}
