// Package identity owns the user collection: registration, credential checks
// and the current-session projection.
package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/barberbook/internal/audit"
	"github.com/BruksfildServices01/barberbook/internal/kv"
	"github.com/BruksfildServices01/barberbook/internal/models"
	"github.com/BruksfildServices01/barberbook/internal/store"
)

// PasswordCost is the bcrypt work factor for every stored password.
const PasswordCost = bcrypt.DefaultCost

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

const DefaultSessionKey = "session"

type Deps struct {
	SessionKey string
	Options    store.Options
	Logger     *zap.Logger
	Audit      *audit.Dispatcher
	Now        func() time.Time
	// EmailCheck, when set, must accept an address before it can register.
	EmailCheck func(email string) bool
}

type Store struct {
	kv         kv.Store
	users      *store.Collection[models.User]
	ids        *store.Counter
	sessionKey string
	log        *zap.Logger
	audit      *audit.Dispatcher
	now        func() time.Time
	emailCheck func(string) bool
}

func New(s kv.Store, d Deps) *Store {
	if d.SessionKey == "" {
		d.SessionKey = DefaultSessionKey
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Store{
		kv:         s,
		users:      store.NewCollection[models.User](s, store.KeyUsers, d.Options),
		ids:        store.NewCounter(s, store.KeyUserIDCounter, d.Options),
		sessionKey: d.SessionKey,
		log:        d.Logger,
		audit:      d.Audit,
		now:        d.Now,
		emailCheck: d.EmailCheck,
	}
}

// Initialize creates the empty user collection and resets the id counter, but
// only when the collection does not exist yet. The reset is skipped when
// another process allocated an id in the meantime.
func (s *Store) Initialize(ctx context.Context) error {
	rev, err := s.ids.Revision(ctx)
	if err != nil {
		return err
	}
	created, err := s.users.Ensure(ctx, nil)
	if err != nil {
		return err
	}
	if !created {
		return nil
	}
	reset, err := s.ids.ResetFrom(ctx, rev, 1)
	if err != nil {
		return err
	}
	if !reset {
		s.log.Info("user id counter advanced concurrently, left as is")
	}
	s.log.Info("user collection initialized")
	return nil
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Phone    string `json:"phone" validate:"max=20"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// Register appends a new user. It reports false, with a nil error, when the
// input is invalid or the email is already taken. Emails compare
// case-sensitively.
func (s *Store) Register(ctx context.Context, in RegisterInput) (bool, error) {
	if err := store.Validate(in); err != nil {
		s.log.Debug("registration rejected", zap.String("reason", "invalid_input"), zap.Error(err))
		return false, nil
	}
	if len(in.Password) > MaxPasswordBytes {
		s.log.Debug("registration rejected", zap.String("reason", "password_too_long"))
		return false, nil
	}
	if s.emailCheck != nil && !s.emailCheck(in.Email) {
		s.log.Debug("registration rejected", zap.String("reason", "invalid_email_domain"))
		return false, nil
	}

	users, err := s.users.Load(ctx)
	if err != nil {
		return false, err
	}
	if indexByEmail(users, in.Email) >= 0 {
		s.log.Debug("registration rejected", zap.String("reason", "email_taken"))
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), PasswordCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	id, err := s.ids.Next(ctx)
	if err != nil {
		return false, err
	}

	user := models.User{
		ID:           id,
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}

	var taken bool
	_, err = s.users.Update(ctx, func(users []models.User) ([]models.User, error) {
		taken = indexByEmail(users, in.Email) >= 0
		if taken {
			return nil, store.ErrSkipWrite
		}
		return append(users, user), nil
	})
	if err != nil {
		return false, err
	}
	if taken {
		// Lost a race with a concurrent registration of the same email.
		s.log.Warn("registration lost race, id discarded", zap.Int64("user_id", id))
		return false, nil
	}

	s.log.Info("user registered", zap.Int64("user_id", id))
	s.audit.Dispatch(audit.Event{
		UserID:   &user.ID,
		Action:   "user_registered",
		Entity:   "user",
		EntityID: fmt.Sprint(user.ID),
	})
	return true, nil
}

// Login verifies the credentials and stores the session projection. Unknown
// email and wrong password both yield nil, nil.
func (s *Store) Login(ctx context.Context, email, password string) (*models.User, error) {
	users, err := s.users.Load(ctx)
	if err != nil {
		return nil, err
	}

	i := indexByEmail(users, email)
	if i < 0 {
		// Same bcrypt work as a real mismatch so timing does not reveal
		// which emails exist.
		_ = bcrypt.CompareHashAndPassword(decoyHash(), []byte(password))
		s.log.Debug("login rejected")
		return nil, nil
	}

	user := users[i]
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.Debug("login rejected")
		return nil, nil
	}

	if err := store.SetJSON(ctx, s.kv, s.sessionKey, user.Session(s.now())); err != nil {
		return nil, err
	}

	s.log.Info("user logged in", zap.Int64("user_id", user.ID))
	s.audit.Dispatch(audit.Event{
		UserID:   &user.ID,
		Action:   "user_login",
		Entity:   "user",
		EntityID: fmt.Sprint(user.ID),
	})
	return &user, nil
}

// CurrentSession returns the logged-in projection, or nil when nobody is.
func (s *Store) CurrentSession(ctx context.Context) (*models.SessionUser, error) {
	return store.GetJSON[models.SessionUser](ctx, s.kv, s.sessionKey)
}

// Logout removes the session projection. The user collection is untouched.
func (s *Store) Logout(ctx context.Context) error {
	if err := s.kv.Delete(ctx, s.sessionKey); err != nil {
		return fmt.Errorf("delete %s: %w", s.sessionKey, err)
	}
	return nil
}

func (s *Store) FindByID(ctx context.Context, id int64) (*models.User, error) {
	users, err := s.users.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	users, err := s.users.Load(ctx)
	return len(users), err
}

func indexByEmail(users []models.User, email string) int {
	for i := range users {
		if users[i].Email == email {
			return i
		}
	}
	return -1
}

var (
	decoyOnce sync.Once
	decoy     []byte
)

func decoyHash() []byte {
	decoyOnce.Do(func() {
		decoy, _ = bcrypt.GenerateFromPassword([]byte("decoy-password"), PasswordCost)
	})
	return decoy
}
