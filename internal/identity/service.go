package identity

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/quickbite-app/quickbite-backend/pkg/auth"
	"github.com/quickbite-app/quickbite-backend/pkg/config"
	"github.com/quickbite-app/quickbite-backend/pkg/docdb"
	pkgerrors "github.com/quickbite-app/quickbite-backend/pkg/errors"
	"github.com/quickbite-app/quickbite-backend/pkg/logger"
	"github.com/quickbite-app/quickbite-backend/pkg/security"
)

type userStore interface {
	ListDocuments(ctx context.Context, collection string, queries ...docdb.Query) (docdb.DocumentList, error)
	GetDocument(ctx context.Context, collection, documentID string) (docdb.Document, error)
	CreateDocument(ctx context.Context, collection, documentID string, data map[string]any) (docdb.Document, error)
	UpdateDocument(ctx context.Context, collection, documentID string, data map[string]any) (docdb.Document, error)
}

type avatarSource interface {
	InitialsAvatarURL(name string) string
	FileViewURL(fileID string) string
}

type sessionStore interface {
	StoreRefreshToken(ctx context.Context, userID, token string, ttl time.Duration) error
	GetRefreshToken(ctx context.Context, userID string) (string, error)
	RevokeRefreshToken(ctx context.Context, userID string) error
}

// Service owns registration, sign-in, session refresh, and profile updates.
// Profiles live in the remote document service; refresh tokens live in Redis.
type Service interface {
	Register(ctx context.Context, params RegisterParams) (Session, error)
	SignIn(ctx context.Context, params SignInParams) (Session, error)
	Refresh(ctx context.Context, userID, refreshToken string) (Session, error)
	SignOut(ctx context.Context, userID string) error
	CurrentUser(ctx context.Context, userID string) (User, error)
	UpdateProfile(ctx context.Context, userID string, params UpdateProfileParams) (User, error)
}

type service struct {
	store      userStore
	avatars    avatarSource
	sessions   sessionStore
	collection string
	jwtCfg     config.JWTConfig
	pwCfg      config.PasswordConfig
	logg       *logger.Logger
}

func NewService(store userStore, avatars avatarSource, sessions sessionStore, docdbCfg config.DocdbConfig, jwtCfg config.JWTConfig, pwCfg config.PasswordConfig, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user store is required")
	}
	if sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session store is required")
	}
	collection := docdbCfg.UsersCollection
	if collection == "" {
		collection = "user"
	}
	return &service{
		store:      store,
		avatars:    avatars,
		sessions:   sessions,
		collection: collection,
		jwtCfg:     jwtCfg,
		pwCfg:      pwCfg,
		logg:       logg,
	}, nil
}

// Register creates the user document with a fresh Argon2id hash and an
// initials avatar, then opens a session.
func (s *service) Register(ctx context.Context, params RegisterParams) (Session, error) {
	email := normalizeEmail(params.Email)

	existing, err := s.findByEmail(ctx, email)
	if err != nil {
		return Session{}, err
	}
	if existing != nil {
		return Session{}, pkgerrors.New(pkgerrors.CodeValidation, "email already registered")
	}

	hash, err := security.HashPassword(params.Password, s.pwCfg)
	if err != nil {
		return Session{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	avatarURL := ""
	if s.avatars != nil {
		avatarURL = s.avatars.InitialsAvatarURL(params.Name)
	}

	doc, err := s.store.CreateDocument(ctx, s.collection, "", map[string]any{
		"name":          strings.TrimSpace(params.Name),
		"email":         email,
		"password_hash": hash,
		"avatar":        avatarURL,
	})
	if err != nil {
		return Session{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating user document")
	}

	user, _ := decodeUser(doc)
	return s.openSession(ctx, user)
}

// SignIn verifies the password against the stored hash and opens a session.
// Unknown email and wrong password return the same error.
func (s *service) SignIn(ctx context.Context, params SignInParams) (Session, error) {
	doc, err := s.findByEmail(ctx, normalizeEmail(params.Email))
	if err != nil {
		return Session{}, err
	}
	if doc == nil {
		return Session{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	user, hash := decodeUser(doc)
	ok, err := security.VerifyPassword(params.Password, hash)
	if err != nil || !ok {
		return Session{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	return s.openSession(ctx, user)
}

// Refresh rotates the token pair when the presented refresh token matches the
// one stored for the user.
func (s *service) Refresh(ctx context.Context, userID, refreshToken string) (Session, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(refreshToken) == "" {
		return Session{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
	}

	stored, err := s.sessions.GetRefreshToken(ctx, userID)
	if err != nil || stored == "" || stored != refreshToken {
		return Session{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
	}

	user, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return Session{}, err
	}
	return s.openSession(ctx, user)
}

// SignOut revokes the stored refresh token. Already-revoked sessions are not
// an error.
func (s *service) SignOut(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if err := s.sessions.RevokeRefreshToken(ctx, userID); err != nil && s.logg != nil {
		ctx = s.logg.WithUserID(ctx, userID)
		ctx = s.logg.WithField(ctx, "error", err.Error())
		s.logg.Warn(ctx, "revoking refresh token failed")
	}
	return nil
}

// CurrentUser loads the profile document for the authenticated user.
func (s *service) CurrentUser(ctx context.Context, userID string) (User, error) {
	doc, err := s.store.GetDocument(ctx, s.collection, userID)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return User{}, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return User{}, err
	}
	user, _ := decodeUser(doc)
	return user, nil
}

// UpdateProfile applies a partial update to the profile document. A supplied
// avatar file id is resolved to its storage view URL.
func (s *service) UpdateProfile(ctx context.Context, userID string, params UpdateProfileParams) (User, error) {
	data := map[string]any{}
	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return User{}, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		data["name"] = name
	}
	if params.AvatarFileID != nil && s.avatars != nil {
		data["avatar"] = s.avatars.FileViewURL(*params.AvatarFileID)
	}
	if len(data) == 0 {
		return s.CurrentUser(ctx, userID)
	}

	doc, err := s.store.UpdateDocument(ctx, s.collection, userID, data)
	if err != nil {
		return User{}, err
	}
	user, _ := decodeUser(doc)
	return user, nil
}

func (s *service) openSession(ctx context.Context, user User) (Session, error) {
	access, err := auth.MintAccessToken(s.jwtCfg, time.Now().UTC(), auth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
	})
	if err != nil {
		return Session{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token")
	}

	refresh := uuid.NewString()
	if err := s.sessions.StoreRefreshToken(ctx, user.ID, refresh, s.jwtCfg.RefreshTokenTTL()); err != nil {
		return Session{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storing refresh token")
	}

	return Session{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         user,
	}, nil
}

func (s *service) findByEmail(ctx context.Context, email string) (docdb.Document, error) {
	list, err := s.store.ListDocuments(ctx, s.collection,
		docdb.Equal("email", email),
		docdb.Limit(1),
	)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "looking up user by email")
	}
	if len(list.Documents) == 0 {
		return nil, nil
	}
	return list.Documents[0], nil
}

func decodeUser(doc docdb.Document) (User, string) {
	if doc == nil {
		return User{}, ""
	}
	user := User{
		ID:        doc.ID(),
		Name:      doc.String("name"),
		Email:     doc.String("email"),
		AvatarURL: doc.String("avatar"),
	}
	if created := doc.String("$createdAt"); created != "" {
		if ts, err := time.Parse(time.RFC3339, created); err == nil {
			user.CreatedAt = ts
		}
	}
	return user, doc.String("password_hash")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
