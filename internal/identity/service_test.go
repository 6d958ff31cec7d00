package identity

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/quickbite-app/quickbite-backend/pkg/config"
	"github.com/quickbite-app/quickbite-backend/pkg/docdb"
	pkgerrors "github.com/quickbite-app/quickbite-backend/pkg/errors"
	"github.com/quickbite-app/quickbite-backend/pkg/security"
)

type stubUserStore struct {
	byEmail map[string]docdb.Document
	byID    map[string]docdb.Document
	created map[string]any
	updated map[string]any
}

func (s *stubUserStore) ListDocuments(ctx context.Context, collection string, queries ...docdb.Query) (docdb.DocumentList, error) {
	for _, q := range queries {
		if q.Method == "equal" && q.Attribute == "email" && len(q.Values) == 1 {
			if doc, ok := s.byEmail[q.Values[0].(string)]; ok {
				return docdb.DocumentList{Total: 1, Documents: []docdb.Document{doc}}, nil
			}
		}
	}
	return docdb.DocumentList{}, nil
}

func (s *stubUserStore) GetDocument(ctx context.Context, collection, documentID string) (docdb.Document, error) {
	if doc, ok := s.byID[documentID]; ok {
		return doc, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "document not found")
}

func (s *stubUserStore) CreateDocument(ctx context.Context, collection, documentID string, data map[string]any) (docdb.Document, error) {
	s.created = data
	doc := docdb.Document{"$id": "u1"}
	for k, v := range data {
		doc[k] = v
	}
	return doc, nil
}

func (s *stubUserStore) UpdateDocument(ctx context.Context, collection, documentID string, data map[string]any) (docdb.Document, error) {
	s.updated = data
	doc := docdb.Document{"$id": documentID}
	if existing, ok := s.byID[documentID]; ok {
		for k, v := range existing {
			doc[k] = v
		}
	}
	for k, v := range data {
		doc[k] = v
	}
	return doc, nil
}

type stubAvatars struct{}

func (stubAvatars) InitialsAvatarURL(name string) string { return "https://files.test/initials/" + name }
func (stubAvatars) FileViewURL(fileID string) string     { return "https://files.test/view/" + fileID }

type stubSessions struct {
	tokens  map[string]string
	revoked []string
}

func (s *stubSessions) StoreRefreshToken(ctx context.Context, userID, token string, ttl time.Duration) error {
	if s.tokens == nil {
		s.tokens = map[string]string{}
	}
	s.tokens[userID] = token
	return nil
}

func (s *stubSessions) GetRefreshToken(ctx context.Context, userID string) (string, error) {
	return s.tokens[userID], nil
}

func (s *stubSessions) RevokeRefreshToken(ctx context.Context, userID string) error {
	s.revoked = append(s.revoked, userID)
	delete(s.tokens, userID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret",
		Issuer:                 "quickbite-test",
		ExpirationMinutes:      15,
		RefreshTokenTTLMinutes: 60,
	}
}

func newTestService(t *testing.T, store *stubUserStore, sessions *stubSessions) Service {
	t.Helper()
	svc, err := NewService(store, stubAvatars{}, sessions, config.DocdbConfig{UsersCollection: "user"}, testJWTConfig(), config.PasswordConfig{}, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestRegisterCreatesUserAndSession(t *testing.T) {
	t.Parallel()

	store := &stubUserStore{}
	sessions := &stubSessions{}
	svc := newTestService(t, store, sessions)

	session, err := svc.Register(context.Background(), RegisterParams{
		Name:     "Adrian Hajdin",
		Email:    "  Adrian@Example.COM ",
		Password: "hunter2hunter2",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if store.created["email"] != "adrian@example.com" {
		t.Fatalf("expected normalized email, got %v", store.created["email"])
	}
	hash, _ := store.created["password_hash"].(string)
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("expected argon2id hash, got %q", hash)
	}
	if store.created["avatar"] != "https://files.test/initials/Adrian Hajdin" {
		t.Fatalf("unexpected avatar: %v", store.created["avatar"])
	}
	if session.AccessToken == "" || session.RefreshToken == "" {
		t.Fatal("expected both tokens minted")
	}
	if sessions.tokens["u1"] != session.RefreshToken {
		t.Fatal("refresh token not stored for the user")
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	t.Parallel()

	store := &stubUserStore{byEmail: map[string]docdb.Document{
		"taken@example.com": {"$id": "u1", "email": "taken@example.com"},
	}}
	svc := newTestService(t, store, &stubSessions{})

	_, err := svc.Register(context.Background(), RegisterParams{
		Name:     "Someone",
		Email:    "taken@example.com",
		Password: "hunter2hunter2",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSignInVerifiesPassword(t *testing.T) {
	t.Parallel()

	hash, err := security.HashPassword("correct horse", config.PasswordConfig{})
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	store := &stubUserStore{byEmail: map[string]docdb.Document{
		"user@example.com": {"$id": "u1", "email": "user@example.com", "name": "User", "password_hash": hash},
	}}
	sessions := &stubSessions{}
	svc := newTestService(t, store, sessions)

	session, err := svc.SignIn(context.Background(), SignInParams{Email: "user@example.com", Password: "correct horse"})
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if session.User.ID != "u1" || session.AccessToken == "" {
		t.Fatalf("unexpected session: %+v", session)
	}

	_, err = svc.SignIn(context.Background(), SignInParams{Email: "user@example.com", Password: "wrong"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for wrong password, got %v", err)
	}
}

func TestSignInUnknownEmailLooksLikeWrongPassword(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubUserStore{}, &stubSessions{})

	_, err := svc.SignIn(context.Background(), SignInParams{Email: "ghost@example.com", Password: "anything"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if typed.Message() != "invalid credentials" {
		t.Fatalf("unknown email must not be distinguishable: %q", typed.Message())
	}
}

func TestRefreshRotatesTokenPair(t *testing.T) {
	t.Parallel()

	store := &stubUserStore{byID: map[string]docdb.Document{
		"u1": {"$id": "u1", "email": "user@example.com", "name": "User"},
	}}
	sessions := &stubSessions{tokens: map[string]string{"u1": "old-refresh"}}
	svc := newTestService(t, store, sessions)

	session, err := svc.Refresh(context.Background(), "u1", "old-refresh")
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if session.RefreshToken == "old-refresh" {
		t.Fatal("expected the refresh token to rotate")
	}
	if sessions.tokens["u1"] != session.RefreshToken {
		t.Fatal("rotated token not stored")
	}

	_, err = svc.Refresh(context.Background(), "u1", "old-refresh")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected stale token rejected, got %v", err)
	}
}

func TestSignOutRevokesSession(t *testing.T) {
	t.Parallel()

	sessions := &stubSessions{tokens: map[string]string{"u1": "refresh"}}
	svc := newTestService(t, &stubUserStore{}, sessions)

	if err := svc.SignOut(context.Background(), "u1"); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "u1" {
		t.Fatalf("expected u1 revoked, got %v", sessions.revoked)
	}

	// Signing out twice is fine.
	if err := svc.SignOut(context.Background(), "u1"); err != nil {
		t.Fatalf("second SignOut: %v", err)
	}
}

func TestCurrentUserNotFound(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubUserStore{}, &stubSessions{})

	_, err := svc.CurrentUser(context.Background(), "missing")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateProfileResolvesAvatarFile(t *testing.T) {
	t.Parallel()

	store := &stubUserStore{byID: map[string]docdb.Document{
		"u1": {"$id": "u1", "email": "user@example.com", "name": "Old Name"},
	}}
	svc := newTestService(t, store, &stubSessions{})

	name := "New Name"
	fileID := "f42"
	user, err := svc.UpdateProfile(context.Background(), "u1", UpdateProfileParams{Name: &name, AvatarFileID: &fileID})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if user.Name != "New Name" {
		t.Fatalf("name not updated: %q", user.Name)
	}
	if store.updated["avatar"] != "https://files.test/view/f42" {
		t.Fatalf("avatar file id not resolved: %v", store.updated["avatar"])
	}
}

func TestUpdateProfileEmptyPatchReturnsCurrent(t *testing.T) {
	t.Parallel()

	store := &stubUserStore{byID: map[string]docdb.Document{
		"u1": {"$id": "u1", "email": "user@example.com", "name": "User"},
	}}
	svc := newTestService(t, store, &stubSessions{})

	user, err := svc.UpdateProfile(context.Background(), "u1", UpdateProfileParams{})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if user.Name != "User" || store.updated != nil {
		t.Fatalf("expected read-only path, got user=%+v updated=%v", user, store.updated)
	}
}
