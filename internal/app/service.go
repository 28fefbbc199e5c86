package app

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"ahmo/internal/access"
	"ahmo/internal/attachment"
	"ahmo/internal/auth"
	"ahmo/internal/collection"
	"ahmo/internal/config"
	"ahmo/internal/export"
	"ahmo/internal/identity"
	"ahmo/internal/media"
	"ahmo/internal/moderation"
	"ahmo/internal/projection"
	"ahmo/internal/search"
	"ahmo/internal/store"
	"ahmo/internal/stream"
	"ahmo/internal/util"
)

type Session struct {
	Token        string
	RefreshToken string
	UserID       string
	UserName     string
	ExpiresAt    time.Time
}

var validate = validator.New()

type dataStore interface {
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, u store.User) error
	GetUserByEmail(ctx context.Context, email string) (store.User, error)
	GetUserByID(ctx context.Context, id string) (store.User, error)

	InsertBoard(ctx context.Context, b store.Board) error
	GetBoard(ctx context.Context, id string) (store.Board, error)
	ListBoardsByOwner(ctx context.Context, ownerID string) ([]store.Board, error)
	UpdateBoardSettings(ctx context.Context, id string, fields store.BoardSettings) error
	DeleteBoard(ctx context.Context, id string) error

	InsertSection(ctx context.Context, sec store.Section) (store.Section, error)
	GetSection(ctx context.Context, id string) (store.Section, error)
	ListSections(ctx context.Context, boardID string) ([]store.Section, error)
	UpdateSection(ctx context.Context, id string, title, color *string) error
	DeleteSection(ctx context.Context, id string) error

	InsertPost(ctx context.Context, p store.Post) (store.Post, error)
	GetPost(ctx context.Context, id string) (store.Post, error)
	ListPosts(ctx context.Context, sectionID string) ([]store.Post, error)
	UpdatePost(ctx context.Context, id string, title, content, color *string) error
	DeletePost(ctx context.Context, id string) error
	IncrementLikes(ctx context.Context, postID string) (int, error)
	UpdatePostStatus(ctx context.Context, postID, status string) error
	UpdatePostPoll(ctx context.Context, postID string, poll *store.Poll) error
	UpdatePostAttachments(ctx context.Context, postID string, attachments []attachment.Attachment) error
	ApproveAllPosts(ctx context.Context, boardID string) (int, error)
	ApproveAllComments(ctx context.Context, boardID string) (int, error)

	InsertComment(ctx context.Context, c store.Comment) (store.Comment, error)
	GetComment(ctx context.Context, id string) (store.Comment, error)
	ListComments(ctx context.Context, postID string) ([]store.Comment, error)
	UpdateCommentStatus(ctx context.Context, id, status string) error
	DeleteComment(ctx context.Context, id string) error

	collection.RankWriter
}

type sessionStore interface {
	GuestName(ctx context.Context, sessionID string) (string, error)
	SaveGuestName(ctx context.Context, sessionID, name string) error
	MarkBoardVerified(ctx context.Context, sessionID, boardID string) error
	BoardVerified(ctx context.Context, sessionID, boardID string) (bool, error)
	SaveRefreshSession(ctx context.Context, tokenHash, userID string, expiresAt time.Time) error
	LookupRefreshSession(ctx context.Context, tokenHash string) (string, error)
	RevokeRefreshSession(ctx context.Context, tokenHash string) error
	Ping(ctx context.Context) error
}

type searchIndex interface {
	Search(q search.Query) search.Response
	IndexPost(p search.PostRecord)
	DeletePost(id string)
	DeleteBoard(boardID string)
}

type mediaStore interface {
	Upload(ctx context.Context, boardID, fileName string, file io.Reader, size int64) (media.Descriptor, error)
	Delete(ctx context.Context, publicID string) error
}

type boardExporter interface {
	BoardPDF(b export.Board) (*export.Result, error)
}

type notifier interface {
	Publish(ev stream.Event)
}

type Service struct {
	cfg      config.Config
	store    dataStore
	sessions sessionStore
	resolver *identity.Resolver
	search   searchIndex
	media    mediaStore
	exporter boardExporter
	events   notifier

	engineMu sync.Mutex
	engines  map[string]*collection.Store
}

func New(cfg config.Config, st dataStore, sessions sessionStore, searchSvc searchIndex, mediaSvc mediaStore, exporter boardExporter, events notifier) *Service {
	return &Service{
		cfg:      cfg,
		store:    st,
		sessions: sessions,
		resolver: identity.NewResolver(sessions),
		search:   searchSvc,
		media:    mediaSvc,
		exporter: exporter,
		events:   events,
		engines:  make(map[string]*collection.Store),
	}
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *Service) PingSessions(ctx context.Context) error {
	return s.sessions.Ping(ctx)
}

// engine returns the board's in-memory collection, loading it from the
// database on first use. The engine is the single holder of canonical order
// for a running process.
func (s *Service) engine(ctx context.Context, board store.Board) (*collection.Store, error) {
	s.engineMu.Lock()
	eng, ok := s.engines[board.ID]
	s.engineMu.Unlock()
	if ok {
		return eng, nil
	}

	sections, err := s.store.ListSections(ctx, board.ID)
	if err != nil {
		return nil, err
	}
	posts := make(map[string][]store.Post, len(sections))
	for _, sec := range sections {
		list, err := s.store.ListPosts(ctx, sec.ID)
		if err != nil {
			return nil, err
		}
		posts[sec.ID] = list
	}

	eng = collection.NewStore(board.ID, s.store)
	eng.Load(sections, posts)
	if projection.Valid(projection.Mode(board.DefaultSort)) {
		_ = eng.SetSortMode(projection.Mode(board.DefaultSort))
	}

	s.engineMu.Lock()
	if existing, ok := s.engines[board.ID]; ok {
		eng = existing
	} else {
		s.engines[board.ID] = eng
	}
	s.engineMu.Unlock()
	return eng, nil
}

func (s *Service) dropEngine(boardID string) {
	s.engineMu.Lock()
	delete(s.engines, boardID)
	s.engineMu.Unlock()
}

func (s *Service) refreshSections(ctx context.Context, eng *collection.Store, boardID string) {
	sections, err := s.store.ListSections(ctx, boardID)
	if err != nil {
		log.Printf("refresh sections %s: %v", boardID, err)
		return
	}
	eng.ApplySectionSnapshot(sections)
}

func (s *Service) refreshPosts(ctx context.Context, eng *collection.Store, sectionID string) {
	posts, err := s.store.ListPosts(ctx, sectionID)
	if err != nil {
		log.Printf("refresh posts %s: %v", sectionID, err)
		return
	}
	eng.ApplyPostSnapshot(sectionID, posts)
}

// Accounts and sessions

type SignUpInput struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"displayName" validate:"required"`
	PhotoURL    string `json:"photoUrl"`
}

func (s *Service) SignUp(ctx context.Context, input SignUpInput) (Session, error) {
	if err := validate.Struct(input); err != nil {
		return Session{}, domainError(422, "VALIDATION_ERROR", err.Error(), nil)
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return Session{}, domainError(409, "EMAIL_EXISTS", "Email already registered", nil)
	} else if !errors.Is(err, store.ErrNotFound) {
		return Session{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return Session{}, err
	}
	user := store.User{
		ID:           util.NewID("usr"),
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  strings.TrimSpace(input.DisplayName),
		PhotoURL:     input.PhotoURL,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return Session{}, err
	}
	return s.issueSession(ctx, user)
}

func (s *Service) SignIn(ctx context.Context, email, password string) (Session, error) {
	user, err := s.store.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Session{}, domainError(401, "INVALID_CREDENTIALS", "Invalid email or password", nil)
		}
		return Session{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return Session{}, domainError(401, "INVALID_CREDENTIALS", "Invalid email or password", nil)
	}
	return s.issueSession(ctx, user)
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	tokenHash := auth.HashToken(refreshToken)
	userID, err := s.sessions.LookupRefreshSession(ctx, tokenHash)
	if err != nil {
		return Session{}, domainError(401, "UNAUTHORIZED", "Refresh token invalid", nil)
	}
	if err := s.sessions.RevokeRefreshSession(ctx, tokenHash); err != nil {
		return Session{}, err
	}
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return Session{}, domainError(401, "UNAUTHORIZED", "Refresh token invalid", nil)
	}
	return s.issueSession(ctx, user)
}

func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken != "" {
		return s.sessions.RevokeRefreshSession(ctx, auth.HashToken(refreshToken))
	}
	return nil
}

func (s *Service) issueSession(ctx context.Context, user store.User) (Session, error) {
	now := time.Now()
	expiresAt := now.Add(s.cfg.AccessTTL)

	token, err := auth.IssueToken([]byte(s.cfg.JWTSecret), user.ID, user.DisplayName, user.PhotoURL, s.cfg.AccessTTL)
	if err != nil {
		return Session{}, err
	}

	refresh := util.NewID("rft") + util.NewID("")
	if err := s.sessions.SaveRefreshSession(ctx, auth.HashToken(refresh), user.ID, now.Add(s.cfg.SessionTTL)); err != nil {
		return Session{}, err
	}

	return Session{
		Token:        token,
		RefreshToken: refresh,
		UserID:       user.ID,
		UserName:     user.DisplayName,
		ExpiresAt:    expiresAt,
	}, nil
}

func (s *Service) UserFromToken(ctx context.Context, token string) (store.User, error) {
	claims, err := auth.ParseToken([]byte(s.cfg.JWTSecret), token)
	if err != nil {
		return store.User{}, err
	}
	return s.store.GetUserByID(ctx, claims.Subject)
}

// Guest identity

// CaptureGuestName stores the session's guest name and replays the parked
// action, if any.
func (s *Service) CaptureGuestName(ctx context.Context, sessionID, name string) (map[string]any, error) {
	ident, err := s.resolver.CaptureGuestName(ctx, sessionID, name)
	if err != nil {
		if errors.Is(err, identity.ErrEmptyName) {
			return nil, domainError(422, "VALIDATION_ERROR", "Name must not be empty", nil)
		}
		return nil, err
	}
	return map[string]any{
		"token":       ident.Token,
		"displayName": ident.DisplayName,
	}, nil
}

// Identify resolves the acting identity for a request without deferring
// anything. ok is false when the session has no identity yet.
func (s *Service) Identify(ctx context.Context, sessionID string, user *store.User) (identity.Identity, bool, error) {
	return s.resolver.Resolve(ctx, sessionID, user)
}

func (s *Service) PendingIdentity(sessionID string) map[string]any {
	return map[string]any{"pending": s.resolver.HasPending(sessionID)}
}

// resolveOrDefer resolves the acting identity; when the session has no
// identity yet it parks the action and reports pending=true. The parked
// action re-resolves once a name arrives, so it runs under the captured
// guest identity.
func (s *Service) resolveOrDefer(ctx context.Context, sessionID string, user *store.User, action func(ctx context.Context, ident identity.Identity)) (identity.Identity, bool, error) {
	ident, ok, err := s.resolver.Resolve(ctx, sessionID, user)
	if err != nil {
		return identity.Identity{}, false, err
	}
	if ok {
		return ident, false, nil
	}
	s.resolver.Defer(sessionID, func() {
		ctx := context.Background()
		ident, ok, err := s.resolver.Resolve(ctx, sessionID, nil)
		if err != nil || !ok {
			log.Printf("replay deferred action: identity still unresolved: %v", err)
			return
		}
		action(ctx, ident)
	})
	return identity.Identity{}, true, nil
}

func pendingPayload() map[string]any {
	return map[string]any{"pendingIdentity": true}
}

// Boards

type CreateBoardInput struct {
	Title           string `json:"title" validate:"required"`
	Description     string `json:"description"`
	Privacy         string `json:"privacy"`
	Password        string `json:"password"`
	GuestPermission string `json:"guestPermission"`
	Moderation      bool   `json:"moderation"`
	Layout          string `json:"layout"`
	BackgroundImage string `json:"backgroundImage"`
}

func (s *Service) CreateBoard(ctx context.Context, actor identity.Identity, input CreateBoardInput) (map[string]any, error) {
	if !actor.Authenticated {
		return nil, domainError(401, "UNAUTHORIZED", "Only signed-in users can create boards", nil)
	}
	if err := validate.Struct(input); err != nil {
		return nil, domainError(422, "VALIDATION_ERROR", err.Error(), nil)
	}

	privacy := input.Privacy
	if privacy == "" {
		privacy = store.PrivacyPublic
	}
	if privacy != store.PrivacyPublic && privacy != store.PrivacyPassword && privacy != store.PrivacyPrivate {
		return nil, domainError(422, "VALIDATION_ERROR", "unknown privacy setting", nil)
	}
	passwordHash := ""
	if privacy == store.PrivacyPassword {
		if input.Password == "" {
			return nil, domainError(422, "VALIDATION_ERROR", "password boards require a password", nil)
		}
		hash, err := access.HashPassword(input.Password)
		if err != nil {
			return nil, err
		}
		passwordHash = hash
	}
	guestPermission := input.GuestPermission
	if guestPermission == "" {
		guestPermission = store.GuestEdit
	}
	if guestPermission != store.GuestEdit && guestPermission != store.GuestView {
		return nil, domainError(422, "VALIDATION_ERROR", "unknown guest permission", nil)
	}
	layout := input.Layout
	if layout == "" {
		layout = store.LayoutWall
	}
	if layout != store.LayoutShelf && layout != store.LayoutWall && layout != store.LayoutStream {
		return nil, domainError(422, "VALIDATION_ERROR", "unknown layout", nil)
	}

	board := store.Board{
		ID:                util.NewID("brd"),
		Title:             strings.TrimSpace(input.Title),
		Description:       input.Description,
		Privacy:           privacy,
		PasswordHash:      passwordHash,
		GuestPermission:   guestPermission,
		ModerationEnabled: input.Moderation,
		Layout:            layout,
		DefaultSort:       string(projection.Manual),
		BackgroundImage:   input.BackgroundImage,
		OwnerID:           actor.Token,
	}
	if err := s.store.InsertBoard(ctx, board); err != nil {
		return nil, err
	}
	return map[string]any{"board": boardPayload(board, true)}, nil
}

type UpdateBoardInput struct {
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	Privacy         *string `json:"privacy"`
	Password        *string `json:"password"`
	GuestPermission *string `json:"guestPermission"`
	Moderation      *bool   `json:"moderation"`
	Layout          *string `json:"layout"`
	BackgroundImage *string `json:"backgroundImage"`
}

func (s *Service) UpdateBoard(ctx context.Context, boardID string, actor identity.Identity, input UpdateBoardInput) (map[string]any, error) {
	board, err := s.store.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if !access.IsOwner(board, actor) {
		return nil, domainError(403, "FORBIDDEN", "Only the owner can change board settings", nil)
	}

	fields := store.BoardSettings{
		Title:             input.Title,
		Description:       input.Description,
		Privacy:           input.Privacy,
		GuestPermission:   input.GuestPermission,
		ModerationEnabled: input.Moderation,
		Layout:            input.Layout,
		BackgroundImage:   input.BackgroundImage,
	}
	if input.Password != nil {
		hash := ""
		if *input.Password != "" {
			hash, err = access.HashPassword(*input.Password)
			if err != nil {
				return nil, err
			}
		}
		fields.PasswordHash = &hash
	}
	if err := s.store.UpdateBoardSettings(ctx, boardID, fields); err != nil {
		return nil, err
	}

	updated, err := s.store.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	s.publish(stream.Event{Type: stream.EventBoardUpdated, BoardID: boardID})
	return map[string]any{"board": boardPayload(updated, true)}, nil
}

// SetSortMode switches the board's display projection. Non-manual modes arm
// the reorder guard; switching back to manual restores the canonical order
// untouched.
func (s *Service) SetSortMode(ctx context.Context, boardID string, actor identity.Identity, mode string) (map[string]any, error) {
	board, err := s.store.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if !access.IsOwner(board, actor) {
		return nil, domainError(403, "FORBIDDEN", "Only the owner can change the sort mode", nil)
	}
	eng, err := s.engine(ctx, board)
	if err != nil {
		return nil, err
	}
	if err := eng.SetSortMode(projection.Mode(mode)); err != nil {
		return nil, domainError(422, "VALIDATION_ERROR", "unknown sort mode", nil)
	}
	if err := s.store.UpdateBoardSettings(ctx, boardID, store.BoardSettings{DefaultSort: &mode}); err != nil {
		return nil, err
	}
	s.publish(stream.Event{Type: stream.EventBoardUpdated, BoardID: boardID})
	return map[string]any{"sort": mode}, nil
}

func (s *Service) DeleteBoard(ctx context.Context, boardID string, actor identity.Identity) error {
	board, err := s.store.GetBoard(ctx, boardID)
	if err != nil {
		return err
	}
	if !access.IsOwner(board, actor) {
		return domainError(403, "FORBIDDEN", "Only the owner can delete the board", nil)
	}
	if err := s.store.DeleteBoard(ctx, boardID); err != nil {
		return err
	}
	s.dropEngine(boardID)
	if s.search != nil {
		s.search.DeleteBoard(boardID)
	}
	s.publish(stream.Event{Type: stream.EventBoardDeleted, BoardID: boardID})
	return nil
}

func (s *Service) ListMyBoards(ctx context.Context, actor identity.Identity) (map[string]any, error) {
	if !actor.Authenticated {
		return nil, domainError(401, "UNAUTHORIZED", "Unauthorized", nil)
	}
	boards, err := s.store.ListBoardsByOwner(ctx, actor.Token)
	if err != nil {
		return nil, err
	}
	items := make([]map[string]any, 0, len(boards))
	for _, b := range boards {
		items = append(items, boardPayload(b, true))
	}
	return map[string]any{"boards": items}, nil
}

// VerifyBoardPassword checks the entered password and marks the session
// verified on success. Verification is per board and per session.
func (s *Service) VerifyBoardPassword(ctx context.Context, boardID, sessionID, entered string) (map[string]any, error) {
	board, err := s.store.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if !access.VerifyPassword(board, entered) {
		return nil, domainError(403, "INVALID_PASSWORD", "Wrong password", nil)
	}
	if err := s.sessions.MarkBoardVerified(ctx, sessionID, boardID); err != nil {
		return nil, err
	}
	return map[string]any{"ok": true}, nil
}

// BoardView assembles the full board payload for one viewer: access gates
// first, then moderation filtering, then the active sort projection.
func (s *Service) BoardView(ctx context.Context, boardID, sessionID string, user *store.User) (map[string]any, error) {
	board, err := s.store.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}

	viewer, _, err := s.resolver.Resolve(ctx, sessionID, user)
	if err != nil {
		return nil, err
	}
	verified, err := s.sessions.BoardVerified(ctx, sessionID, boardID)
	if err != nil {
		return nil, err
	}
	isOwner := access.IsOwner(board, viewer)

	if access.PasswordRequired(board, viewer, verified) {
		return nil, domainError(403, "PASSWORD_REQUIRED", "This board is password protected", nil)
	}
	if !access.CanView(board, viewer, verified) {
		// private boards do not reveal their existence
		return nil, domainError(404, "NOT_FOUND", "Not found", nil)
	}

	eng, err := s.engine(ctx, board)
	if err != nil {
		return nil, err
	}
	mode := eng.SortMode()

	sections := eng.Sections()
	sectionItems := make([]map[string]any, 0, len(sections))
	for _, sec := range sections {
		visible := moderation.FilterPosts(eng.Posts(sec.ID), viewer, isOwner)
		projected := projection.Project(visible, mode)

		postItems := make([]map[string]any, 0, len(projected))
		for _, p := range projected {
			comments, err := s.store.ListComments(ctx, p.ID)
			if err != nil {
				return nil, err
			}
			postItems = append(postItems, postPayload(board, p, moderation.FilterComments(comments, viewer, isOwner), viewer))
		}
		sectionItems = append(sectionItems, map[string]any{
			"id":    sec.ID,
			"title": sec.Title,
			"color": sec.Color,
			"rank":  sec.Rank,
			"posts": postItems,
		})
	}

	return map[string]any{
		"board":         boardPayload(board, isOwner),
		"sections":      sectionItems,
		"sort":          string(mode),
		"isOwner":       isOwner,
		"canContribute": access.CanContribute(board, viewer),
	}, nil
}

// Sections

type SectionInput struct {
	Title string `json:"title" validate:"required"`
	Color string `json:"color"`
}

func (s *Service) CreateSection(ctx context.Context, boardID string, actor identity.Identity, input SectionInput) (map[string]any, error) {
	board, err := s.store.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if !access.IsOwner(board, actor) {
		return nil, domainError(403, "FORBIDDEN", "Only the owner can manage sections", nil)
	}
	if err := validate.Struct(input); err != nil {
		return nil, domainError(422, "VALIDATION_ERROR", err.Error(), nil)
	}
	eng, err := s.engine(ctx, board)
	if err != nil {
		return nil, err
	}

	sec, err := s.store.InsertSection(ctx, store.Section{
		ID:      util.NewID("sec"),
		BoardID: boardID,
		Title:   strings.TrimSpace(input.Title),
		Color:   input.Color,
	})
	if err != nil {
		return nil, err
	}
	sec = eng.AppendSection(sec)
	s.publish(stream.Event{Type: stream.EventSectionsChanged, BoardID: boardID})
	return map[string]any{"section": sectionPayload(sec)}, nil
}

func (s *Service) UpdateSection(ctx context.Context, boardID, sectionID string, actor identity.Identity, title, color *string) (map[string]any, error) {
	board, err := s.store.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if !access.IsOwner(board, actor) {
		return nil, domainError(403, "FORBIDDEN", "Only the owner can manage sections", nil)
	}
	if err := s.store.UpdateSection(ctx, sectionID, title, color); err != nil {
		return nil, err
	}
	eng, err := s.engine(ctx, board)
	if err != nil {
		return nil, err
	}
	s.refreshSections(ctx, eng, boardID)
	s.publish(stream.Event{Type: stream.EventSectionsChanged, BoardID: boardID})
	sec, err := s.store.GetSection(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	return map[string]any{"section": sectionPayload(sec)}, nil
}

func (s *Service) DeleteSection(ctx context.Context, boardID, sectionID string, actor identity.Identity) error {
	board, err := s.store.GetBoard(ctx, boardID)
	if err != nil {
		return err
	}
	if !access.IsOwner(board, actor) {
		return domainError(403, "FORBIDDEN", "Only the owner can manage sections", nil)
	}
	if err := s.store.DeleteSection(ctx, sectionID); err != nil {
		return err
	}
	eng, err := s.engine(ctx, board)
	if err != nil {
		return err
	}
	s.refreshSections(ctx, eng, boardID)
	s.publish(stream.Event{Type: stream.EventSectionsChanged, BoardID: boardID})
	return nil
}

// ReorderSections applies a manual section reorder. Denied actors are a
// silent no-op: the canonical order is returned unchanged and the denial is
// only logged, never surfaced.
func (s *Service) ReorderSections(ctx context.Context, boardID string, actor identity.Identity, orderedIDs []string) (map[string]any, error) {
	board, err := s.store.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	eng, err := s.engine(ctx, board)
	if err != nil {
		return nil, err
	}
	if !access.IsOwner(board, actor) {
		log.Printf("reorder sections %s: denied for %q", boardID, actor.Token)
		return sectionOrderPayload(eng), nil
	}

	if err := eng.ReorderSections(ctx, orderedIDs); err != nil {
		if mapped := mapOrderError(err); mapped != nil {
			return nil, mapped
		}
		// write failure: optimistic state stands until the next snapshot
		log.Printf("reorder sections %s: write failed: %v", boardID, err)
	}
	s.publish(stream.Event{Type: stream.EventSectionsChanged, BoardID: boardID})
	return sectionOrderPayload(eng), nil
}

// Posts

type PollInput struct {
	Question string   `json:"question" validate:"required"`
	Options  []string `json:"options" validate:"required,min=2,dive,required"`
}

type CreatePostInput struct {
	SectionID string     `json:"sectionId" validate:"required"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Color     string     `json:"color"`
	EmbedURL  string     `json:"embedUrl"`
	Poll      *PollInput `json:"poll"`
}

func (s *Service) CreatePost(ctx context.Context, boardID, sessionID string, user *store.User, input CreatePostInput) (map[string]any, error) {
	ident, pending, err := s.resolveOrDefer(ctx, sessionID, user, func(ctx context.Context, ident identity.Identity) {
		if _, err := s.createPostAs(ctx, boardID, ident, input); err != nil {
			log.Printf("replay create post on %s: %v", boardID, err)
		}
	})
	if err != nil {
		return nil, err
	}
	if pending {
		return pendingPayload(), nil
	}
	return s.createPostAs(ctx, boardID, ident, input)
}

func (s *Service) createPostAs(ctx context.Context, boardID string, actor identity.Identity, input CreatePostInput) (map[string]any, error) {
	board, err := s.store.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if !access.CanContribute(board, actor) {
		return nil, domainError(403, "FORBIDDEN", "This board is view-only for guests", nil)
	}
	if err := validate.Struct(input); err != nil {
		return nil, domainError(422, "VALIDATION_ERROR", err.Error(), nil)
	}
	sec, err := s.store.GetSection(ctx, input.SectionID)
	if err != nil {
		return nil, err
	}
	if sec.BoardID != boardID {
		return nil, domainError(404, "NOT_FOUND", "Not found", nil)
	}

	var attachments []attachment.Attachment
	if input.EmbedURL != "" {
		att, err := attachment.ParseEmbed(input.EmbedURL)
		if err != nil {
			return nil, domainError(422, "VALIDATION_ERROR", "invalid embed url", nil)
		}
		attachments = append(attachments, att)
	}

	var poll *store.Poll
	if input.Poll != nil {
		if err := validate.Struct(input.Poll); err != nil {
			return nil, domainError(422, "VALIDATION_ERROR", err.Error(), nil)
		}
		poll = &store.Poll{Question: input.Poll.Question}
		for _, text := range input.Poll.Options {
			poll.Options = append(poll.Options, store.PollOption{ID: util.NewID("opt"), Text: text})
		}
	}

	eng, err := s.engine(ctx, board)
	if err != nil {
		return nil, err
	}

	post := store.Post{
		ID:          util.NewID("post"),
		SectionID:   input.SectionID,
		Title:       input.Title,
		Content:     input.Content,
		Color:       input.Color,
		Status:      moderation.StatusForNew(board),
		AuthorToken: actor.Token,
		AuthorName:  actor.DisplayName,
		AuthorPhoto: actor.PhotoURL,
		Attachments: attachments,
		Poll:        poll,
	}
	inserted, err := s.store.InsertPost(ctx, post)
	if err != nil {
		return nil, err
	}
	inserted = eng.AppendPost(inserted)
	s.indexPost(boardID, inserted)
	s.publish(stream.Event{Type: stream.EventPostsChanged, BoardID: boardID, SectionID: input.SectionID, PostID: inserted.ID})
	return map[string]any{"post": postPayload(board, inserted, nil, actor)}, nil
}

type UpdatePostInput struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Color   *string `json:"color"`
}

func (s *Service) UpdatePost(ctx context.Context, boardID, postID string, actor identity.Identity, input UpdatePostInput) (map[string]any, error) {
	board, post, err := s.boardPost(ctx, boardID, postID)
	if err != nil {
		return nil, err
	}
	if !access.CanModify(board, actor, post.AuthorToken) {
		return nil, domainError(403, "FORBIDDEN", "Forbidden", nil)
	}
	if err := s.store.UpdatePost(ctx, postID, input.Title, input.Content, input.Color); err != nil {
		return nil, err
	}
	eng, err := s.engine(ctx, board)
	if err != nil {
		return nil, err
	}
	s.refreshPosts(ctx, eng, post.SectionID)

	updated, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	s.indexPost(boardID, updated)
	s.publish(stream.Event{Type: stream.EventPostsChanged, BoardID: boardID, SectionID: post.SectionID, PostID: postID})
	return map[string]any{"post": postPayload(board, updated, nil, actor)}, nil
}

func (s *Service) DeletePost(ctx context.Context, boardID, postID string, actor identity.Identity) error {
	board, post, err := s.boardPost(ctx, boardID, postID)
	if err != nil {
		return err
	}
	if !access.CanModify(board, actor, post.AuthorToken) {
		return domainError(403, "FORBIDDEN", "Forbidden", nil)
	}
	if err := s.store.DeletePost(ctx, postID); err != nil {
		return err
	}
	if s.media != nil {
		for _, att := range post.Attachments {
			if att.PublicID != "" {
				if err := s.media.Delete(ctx, att.PublicID); err != nil {
					log.Printf("delete attachment %s: %v", att.PublicID, err)
				}
			}
		}
	}
	eng, err := s.engine(ctx, board)
	if err != nil {
		return err
	}
	s.refreshPosts(ctx, eng, post.SectionID)
	if s.search != nil {
		s.search.DeletePost(postID)
	}
	s.publish(stream.Event{Type: stream.EventPostsChanged, BoardID: boardID, SectionID: post.SectionID, PostID: postID})
	return nil
}

// LikePost increments the counter without prompting for a name, but the
// caller still has to clear the board's view and contribute gates first.
func (s *Service) LikePost(ctx context.Context, boardID, postID, sessionID string, user *store.User) (map[string]any, error) {
	board, post, err := s.boardPost(ctx, boardID, postID)
	if err != nil {
		return nil, err
	}
	viewer, _, err := s.resolver.Resolve(ctx, sessionID, user)
	if err != nil {
		return nil, err
	}
	verified, err := s.sessions.BoardVerified(ctx, sessionID, boardID)
	if err != nil {
		return nil, err
	}
	if access.PasswordRequired(board, viewer, verified) {
		return nil, domainError(403, "PASSWORD_REQUIRED", "This board is password protected", nil)
	}
	if !access.CanView(board, viewer, verified) {
		return nil, domainError(404, "NOT_FOUND", "Not found", nil)
	}
	if !access.CanContribute(board, viewer) {
		return nil, domainError(403, "FORBIDDEN", "This board is view-only for guests", nil)
	}
	likes, err := s.store.IncrementLikes(ctx, postID)
	if err != nil {
		return nil, err
	}
	s.publish(stream.Event{Type: stream.EventPostsChanged, BoardID: boardID, SectionID: post.SectionID, PostID: postID})
	return map[string]any{"likes": likes}, nil
}

// VotePoll applies a single-choice-with-retraction vote under the acting
// identity, deferring when the session has none yet.
func (s *Service) VotePoll(ctx context.Context, boardID, postID, optionID, sessionID string, user *store.User) (map[string]any, error) {
	ident, pending, err := s.resolveOrDefer(ctx, sessionID, user, func(ctx context.Context, ident identity.Identity) {
		if _, err := s.votePollAs(ctx, boardID, postID, optionID, ident); err != nil {
			log.Printf("replay poll vote on %s: %v", postID, err)
		}
	})
	if err != nil {
		return nil, err
	}
	if pending {
		return pendingPayload(), nil
	}
	return s.votePollAs(ctx, boardID, postID, optionID, ident)
}

func (s *Service) votePollAs(ctx context.Context, boardID, postID, optionID string, actor identity.Identity) (map[string]any, error) {
	board, post, err := s.boardPost(ctx, boardID, postID)
	if err != nil {
		return nil, err
	}
	if !access.CanContribute(board, actor) {
		return nil, domainError(403, "FORBIDDEN", "This board is view-only for guests", nil)
	}
	if post.Poll == nil {
		return nil, domainError(404, "NOT_FOUND", "This post has no poll", nil)
	}
	if !post.Poll.Toggle(optionID, actor.Token) {
		return nil, domainError(422, "VALIDATION_ERROR", "unknown poll option", nil)
	}
	if err := s.store.UpdatePostPoll(ctx, postID, post.Poll); err != nil {
		return nil, err
	}
	s.publish(stream.Event{Type: stream.EventPostsChanged, BoardID: boardID, SectionID: post.SectionID, PostID: postID})
	return map[string]any{"poll": pollPayload(post.Poll, actor.Token)}, nil
}

// Comments

func (s *Service) CreateComment(ctx context.Context, boardID, postID, content, sessionID string, user *store.User) (map[string]any, error) {
	ident, pending, err := s.resolveOrDefer(ctx, sessionID, user, func(ctx context.Context, ident identity.Identity) {
		if _, err := s.createCommentAs(ctx, boardID, postID, content, ident); err != nil {
			log.Printf("replay comment on %s: %v", postID, err)
		}
	})
	if err != nil {
		return nil, err
	}
	if pending {
		return pendingPayload(), nil
	}
	return s.createCommentAs(ctx, boardID, postID, content, ident)
}

func (s *Service) createCommentAs(ctx context.Context, boardID, postID, content string, actor identity.Identity) (map[string]any, error) {
	board, post, err := s.boardPost(ctx, boardID, postID)
	if err != nil {
		return nil, err
	}
	if !access.CanContribute(board, actor) {
		return nil, domainError(403, "FORBIDDEN", "This board is view-only for guests", nil)
	}
	if strings.TrimSpace(content) == "" {
		return nil, domainError(422, "VALIDATION_ERROR", "comment must not be empty", nil)
	}
	comment, err := s.store.InsertComment(ctx, store.Comment{
		ID:          util.NewID("cmt"),
		PostID:      postID,
		AuthorToken: actor.Token,
		AuthorName:  actor.DisplayName,
		Content:     content,
		Status:      moderation.StatusForNew(board),
	})
	if err != nil {
		return nil, err
	}
	s.publish(stream.Event{Type: stream.EventCommentsChanged, BoardID: boardID, SectionID: post.SectionID, PostID: postID})
	return map[string]any{"comment": commentPayload(comment)}, nil
}

func (s *Service) DeleteComment(ctx context.Context, boardID, commentID string, actor identity.Identity) error {
	board, err := s.store.GetBoard(ctx, boardID)
	if err != nil {
		return err
	}
	comment, err := s.store.GetComment(ctx, commentID)
	if err != nil {
		return err
	}
	if !access.CanModify(board, actor, comment.AuthorToken) {
		return domainError(403, "FORBIDDEN", "Forbidden", nil)
	}
	if err := s.store.DeleteComment(ctx, commentID); err != nil {
		return err
	}
	s.publish(stream.Event{Type: stream.EventCommentsChanged, BoardID: boardID, PostID: comment.PostID})
	return nil
}

// Moderation

func (s *Service) ApprovePost(ctx context.Context, boardID, postID string, actor identity.Identity) (map[string]any, error) {
	board, post, err := s.boardPost(ctx, boardID, postID)
	if err != nil {
		return nil, err
	}
	if !access.IsOwner(board, actor) {
		return nil, domainError(403, "FORBIDDEN", "Only the owner can approve posts", nil)
	}
	if err := s.store.UpdatePostStatus(ctx, postID, store.StatusApproved); err != nil {
		return nil, err
	}
	post.Status = store.StatusApproved
	eng, err := s.engine(ctx, board)
	if err != nil {
		return nil, err
	}
	s.refreshPosts(ctx, eng, post.SectionID)
	s.indexPost(boardID, post)
	s.publish(stream.Event{Type: stream.EventPostsChanged, BoardID: boardID, SectionID: post.SectionID, PostID: postID})
	return map[string]any{"post": postPayload(board, post, nil, actor)}, nil
}

func (s *Service) ApproveComment(ctx context.Context, boardID, commentID string, actor identity.Identity) (map[string]any, error) {
	board, err := s.store.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if !access.IsOwner(board, actor) {
		return nil, domainError(403, "FORBIDDEN", "Only the owner can approve comments", nil)
	}
	comment, err := s.store.GetComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateCommentStatus(ctx, commentID, store.StatusApproved); err != nil {
		return nil, err
	}
	comment.Status = store.StatusApproved
	s.publish(stream.Event{Type: stream.EventCommentsChanged, BoardID: boardID, PostID: comment.PostID})
	return map[string]any{"comment": commentPayload(comment)}, nil
}

// ApproveAll approves every pending post and comment on the board. Running
// it twice is a no-op: the second pass finds nothing pending.
func (s *Service) ApproveAll(ctx context.Context, boardID string, actor identity.Identity) (map[string]any, error) {
	board, err := s.store.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if !access.IsOwner(board, actor) {
		return nil, domainError(403, "FORBIDDEN", "Only the owner can approve posts", nil)
	}
	posts, err := s.store.ApproveAllPosts(ctx, boardID)
	if err != nil {
		return nil, err
	}
	comments, err := s.store.ApproveAllComments(ctx, boardID)
	if err != nil {
		return nil, err
	}

	eng, err := s.engine(ctx, board)
	if err != nil {
		return nil, err
	}
	for _, sec := range eng.Sections() {
		s.refreshPosts(ctx, eng, sec.ID)
		for _, p := range eng.Posts(sec.ID) {
			s.indexPost(boardID, p)
		}
	}
	s.publish(stream.Event{Type: stream.EventPostsChanged, BoardID: boardID})
	return map[string]any{"approvedPosts": posts, "approvedComments": comments}, nil
}

// Ordering

// ReorderPosts applies a manual reorder within one section. Denied actors
// are a silent no-op, same as ReorderSections.
func (s *Service) ReorderPosts(ctx context.Context, boardID, sectionID string, actor identity.Identity, orderedIDs []string) (map[string]any, error) {
	board, err := s.store.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	eng, err := s.engine(ctx, board)
	if err != nil {
		return nil, err
	}
	if !access.IsOwner(board, actor) {
		log.Printf("reorder posts %s/%s: denied for %q", boardID, sectionID, actor.Token)
		return postOrderPayload(eng, sectionID), nil
	}

	if err := eng.ReorderPosts(ctx, sectionID, orderedIDs); err != nil {
		if mapped := mapOrderError(err); mapped != nil {
			return nil, mapped
		}
		log.Printf("reorder posts %s/%s: write failed: %v", boardID, sectionID, err)
	}
	s.publish(stream.Event{Type: stream.EventPostsChanged, BoardID: boardID, SectionID: sectionID})
	return postOrderPayload(eng, sectionID), nil
}

// MovePost moves a post across sections. The move is two writes; a failure
// of the second leaves a divergence the next snapshot repairs, reported in
// the payload as reconciled=false.
func (s *Service) MovePost(ctx context.Context, boardID, postID, fromSectionID, toSectionID string, actor identity.Identity, orderedTargetIDs []string) (map[string]any, error) {
	board, err := s.store.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	eng, err := s.engine(ctx, board)
	if err != nil {
		return nil, err
	}
	if !access.IsOwner(board, actor) {
		log.Printf("move post %s on %s: denied for %q", postID, boardID, actor.Token)
		return map[string]any{"reconciled": true}, nil
	}

	reconciled := true
	if err := eng.MovePost(ctx, postID, fromSectionID, toSectionID, orderedTargetIDs); err != nil {
		if mapped := mapOrderError(err); mapped != nil {
			return nil, mapped
		}
		if errors.Is(err, collection.ErrPartialMove) {
			log.Printf("move post %s: partial move: %v", postID, err)
			reconciled = false
		} else {
			log.Printf("move post %s: write failed: %v", postID, err)
		}
	}
	s.publish(stream.Event{Type: stream.EventPostsChanged, BoardID: boardID, SectionID: fromSectionID, PostID: postID})
	s.publish(stream.Event{Type: stream.EventPostsChanged, BoardID: boardID, SectionID: toSectionID, PostID: postID})
	return map[string]any{"reconciled": reconciled}, nil
}

// Attachments

func (s *Service) UploadAttachment(ctx context.Context, boardID, postID string, actor identity.Identity, kind attachment.Type, fileName string, file io.Reader, size int64) (map[string]any, error) {
	if s.media == nil {
		return nil, domainError(503, "UPLOADS_UNAVAILABLE", "File uploads are not configured", nil)
	}
	board, post, err := s.boardPost(ctx, boardID, postID)
	if err != nil {
		return nil, err
	}
	if !access.CanModify(board, actor, post.AuthorToken) {
		return nil, domainError(403, "FORBIDDEN", "Forbidden", nil)
	}

	desc, err := s.media.Upload(ctx, boardID, fileName, file, size)
	if err != nil {
		return nil, err
	}
	att, err := attachment.FromUpload(kind, desc.URL, desc.PublicID, fileName, desc.ThumbnailURL)
	if err != nil {
		return nil, domainError(422, "VALIDATION_ERROR", err.Error(), nil)
	}

	attachments := append(post.Attachments, att)
	if err := s.store.UpdatePostAttachments(ctx, postID, attachments); err != nil {
		return nil, err
	}
	s.publish(stream.Event{Type: stream.EventPostsChanged, BoardID: boardID, SectionID: post.SectionID, PostID: postID})
	return map[string]any{"attachment": att}, nil
}

// Search

func (s *Service) SearchBoard(ctx context.Context, boardID, sessionID string, user *store.User, text string, limit, offset int) (map[string]any, error) {
	board, err := s.store.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	viewer, _, err := s.resolver.Resolve(ctx, sessionID, user)
	if err != nil {
		return nil, err
	}
	verified, err := s.sessions.BoardVerified(ctx, sessionID, boardID)
	if err != nil {
		return nil, err
	}
	if access.PasswordRequired(board, viewer, verified) {
		return nil, domainError(403, "PASSWORD_REQUIRED", "This board is password protected", nil)
	}
	if !access.CanView(board, viewer, verified) {
		return nil, domainError(404, "NOT_FOUND", "Not found", nil)
	}
	if s.search == nil {
		return map[string]any{"results": []search.Result{}, "total": 0, "query": text}, nil
	}
	resp := s.search.Search(search.Query{Text: text, BoardID: boardID, Limit: limit, Offset: offset})
	return map[string]any{"results": resp.Results, "total": resp.Total, "query": resp.Query}, nil
}

// CanViewBoard runs the view gates without assembling the payload, for
// callers that only need the yes/no (the event stream).
func (s *Service) CanViewBoard(ctx context.Context, boardID, sessionID string, user *store.User) error {
	board, err := s.store.GetBoard(ctx, boardID)
	if err != nil {
		return err
	}
	viewer, _, err := s.resolver.Resolve(ctx, sessionID, user)
	if err != nil {
		return err
	}
	verified, err := s.sessions.BoardVerified(ctx, sessionID, boardID)
	if err != nil {
		return err
	}
	if access.PasswordRequired(board, viewer, verified) {
		return domainError(403, "PASSWORD_REQUIRED", "This board is password protected", nil)
	}
	if !access.CanView(board, viewer, verified) {
		return domainError(404, "NOT_FOUND", "Not found", nil)
	}
	return nil
}

// Export

func (s *Service) ExportBoard(ctx context.Context, boardID, sessionID string, user *store.User, includeComments bool) (*export.Result, error) {
	if s.exporter == nil {
		return nil, domainError(503, "EXPORT_UNAVAILABLE", "Export is not configured", nil)
	}
	board, err := s.store.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	viewer, _, err := s.resolver.Resolve(ctx, sessionID, user)
	if err != nil {
		return nil, err
	}
	verified, err := s.sessions.BoardVerified(ctx, sessionID, boardID)
	if err != nil {
		return nil, err
	}
	isOwner := access.IsOwner(board, viewer)
	if access.PasswordRequired(board, viewer, verified) {
		return nil, domainError(403, "PASSWORD_REQUIRED", "This board is password protected", nil)
	}
	if !access.CanView(board, viewer, verified) {
		return nil, domainError(404, "NOT_FOUND", "Not found", nil)
	}

	eng, err := s.engine(ctx, board)
	if err != nil {
		return nil, err
	}
	mode := eng.SortMode()

	owner, err := s.store.GetUserByID(ctx, board.OwnerID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	doc := export.Board{
		Title:           board.Title,
		Description:     board.Description,
		OwnerName:       owner.DisplayName,
		Layout:          board.Layout,
		ExportedAt:      time.Now(),
		IncludeComments: includeComments,
	}
	for _, sec := range eng.Sections() {
		visible := projection.Project(moderation.FilterPosts(eng.Posts(sec.ID), viewer, isOwner), mode)
		outSec := export.Section{Title: sec.Title, Color: sec.Color}
		for _, p := range visible {
			outPost := export.Post{
				Title:      p.Title,
				Content:    p.Content,
				AuthorName: p.AuthorName,
				Likes:      p.Likes,
				CreatedAt:  p.CreatedAt,
			}
			if includeComments {
				comments, err := s.store.ListComments(ctx, p.ID)
				if err != nil {
					return nil, err
				}
				for _, c := range moderation.FilterComments(comments, viewer, isOwner) {
					outPost.Comments = append(outPost.Comments, export.Comment{
						AuthorName: c.AuthorName,
						Content:    c.Content,
					})
				}
			}
			outSec.Posts = append(outSec.Posts, outPost)
		}
		doc.Sections = append(doc.Sections, outSec)
	}

	result, err := s.exporter.BoardPDF(doc)
	if err != nil {
		if errors.Is(err, export.ErrPDFDependencyMissing) {
			return nil, domainError(503, "EXPORT_UNAVAILABLE", "PDF export is unavailable", nil)
		}
		return nil, err
	}
	return result, nil
}

// Helpers

func (s *Service) boardPost(ctx context.Context, boardID, postID string) (store.Board, store.Post, error) {
	board, err := s.store.GetBoard(ctx, boardID)
	if err != nil {
		return store.Board{}, store.Post{}, err
	}
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return store.Board{}, store.Post{}, err
	}
	sec, err := s.store.GetSection(ctx, post.SectionID)
	if err != nil {
		return store.Board{}, store.Post{}, err
	}
	if sec.BoardID != boardID {
		return store.Board{}, store.Post{}, store.ErrNotFound
	}
	return board, post, nil
}

func (s *Service) publish(ev stream.Event) {
	if s.events != nil {
		s.events.Publish(ev)
	}
}

func (s *Service) indexPost(boardID string, p store.Post) {
	if s.search == nil {
		return
	}
	s.search.IndexPost(search.PostRecord{
		ID:         p.ID,
		BoardID:    boardID,
		SectionID:  p.SectionID,
		Title:      p.Title,
		Content:    p.Content,
		AuthorName: p.AuthorName,
		Status:     p.Status,
	})
}

func mapOrderError(err error) *DomainError {
	switch {
	case errors.Is(err, collection.ErrSortModeActive):
		return domainError(409, "SORT_MODE_ACTIVE", "Manual reorder is disabled while a sort is active", nil)
	case errors.Is(err, collection.ErrBadOrder):
		return domainError(422, "VALIDATION_ERROR", "submitted order does not match the collection", nil)
	case errors.Is(err, collection.ErrUnknownScope):
		return domainError(404, "NOT_FOUND", "Not found", nil)
	}
	return nil
}

// Payload shapes

func boardPayload(b store.Board, includeSettings bool) map[string]any {
	payload := map[string]any{
		"id":              b.ID,
		"title":           b.Title,
		"description":     b.Description,
		"layout":          b.Layout,
		"backgroundImage": b.BackgroundImage,
		"createdAt":       b.CreatedAt,
	}
	if includeSettings {
		payload["privacy"] = b.Privacy
		payload["guestPermission"] = b.GuestPermission
		payload["moderation"] = b.ModerationEnabled
		payload["defaultSort"] = b.DefaultSort
	}
	return payload
}

func sectionPayload(sec store.Section) map[string]any {
	return map[string]any{
		"id":    sec.ID,
		"title": sec.Title,
		"color": sec.Color,
		"rank":  sec.Rank,
	}
}

func postPayload(b store.Board, p store.Post, comments []store.Comment, viewer identity.Identity) map[string]any {
	payload := map[string]any{
		"id":          p.ID,
		"sectionId":   p.SectionID,
		"title":       p.Title,
		"content":     p.Content,
		"color":       p.Color,
		"rank":        p.Rank,
		"status":      p.Status,
		"likes":       p.Likes,
		"authorName":  p.AuthorName,
		"authorPhoto": p.AuthorPhoto,
		"attachments": p.Attachments,
		"createdAt":   p.CreatedAt,
		"canModify":   access.CanModify(b, viewer, p.AuthorToken),
	}
	if p.Poll != nil {
		payload["poll"] = pollPayload(p.Poll, viewer.Token)
	}
	if comments != nil {
		items := make([]map[string]any, 0, len(comments))
		for _, c := range comments {
			items = append(items, commentPayload(c))
		}
		payload["comments"] = items
	}
	return payload
}

func pollPayload(p *store.Poll, viewerToken string) map[string]any {
	options := make([]map[string]any, 0, len(p.Options))
	for _, opt := range p.Options {
		options = append(options, map[string]any{
			"id":    opt.ID,
			"text":  opt.Text,
			"votes": len(opt.Voters),
		})
	}
	voted, _ := p.HasVoted(viewerToken)
	return map[string]any{
		"question":   p.Question,
		"options":    options,
		"totalVotes": p.TotalVotes(),
		"votedFor":   voted,
	}
}

func commentPayload(c store.Comment) map[string]any {
	return map[string]any{
		"id":         c.ID,
		"postId":     c.PostID,
		"authorName": c.AuthorName,
		"content":    c.Content,
		"status":     c.Status,
		"createdAt":  c.CreatedAt,
	}
}

func sectionOrderPayload(eng *collection.Store) map[string]any {
	sections := eng.Sections()
	ids := make([]string, len(sections))
	for i, sec := range sections {
		ids[i] = sec.ID
	}
	return map[string]any{"order": ids}
}

func postOrderPayload(eng *collection.Store, sectionID string) map[string]any {
	posts := eng.Posts(sectionID)
	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return map[string]any{"order": ids}
}
