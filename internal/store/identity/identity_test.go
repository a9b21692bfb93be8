package identity

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/barberbook/internal/kv"
	"github.com/BruksfildServices01/barberbook/internal/store"
)

func newStore(t *testing.T) (*Store, *kv.MemoryStore) {
	t.Helper()
	mem := kv.NewMemory()
	s := New(mem, Deps{SessionKey: "session:test", Logger: zaptest.NewLogger(t)})
	if err := s.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return s, mem
}

var ana = RegisterInput{Name: "Ana", Email: "ana@x.com", Phone: "111", Password: "secret1"}

func TestRegister_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	ok, err := s.Register(ctx, ana)
	if err != nil || !ok {
		t.Fatalf("first register: ok=%v err=%v", ok, err)
	}

	dup := ana
	dup.Name = "Another Ana"
	ok, err = s.Register(ctx, dup)
	if err != nil || ok {
		t.Fatalf("duplicate register: ok=%v err=%v", ok, err)
	}

	if n, _ := s.Count(ctx); n != 1 {
		t.Fatalf("collection length changed: %d", n)
	}
	if next, _ := s.ids.Peek(ctx); next != 2 {
		t.Fatalf("duplicate consumed an id: next=%d", next)
	}
}

func TestRegister_EmailIsCaseSensitive(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	_, _ = s.Register(ctx, ana)

	upper := ana
	upper.Email = "ANA@x.com"
	ok, err := s.Register(ctx, upper)
	if err != nil || !ok {
		t.Fatalf("differently cased email should register: ok=%v err=%v", ok, err)
	}
}

func TestRegister_StoresHashNotPlaintext(t *testing.T) {
	ctx := context.Background()
	s, mem := newStore(t)
	_, _ = s.Register(ctx, ana)

	e, _ := mem.Get(ctx, store.KeyUsers)
	if strings.Contains(string(e.Value), ana.Password) {
		t.Fatalf("plaintext password persisted")
	}
	u, _ := s.FindByID(ctx, 1)
	if u == nil {
		t.Fatalf("user 1 not found")
	}
	if cost, err := bcrypt.Cost([]byte(u.PasswordHash)); err != nil || cost != PasswordCost {
		t.Fatalf("unexpected hash cost %d err=%v", cost, err)
	}
}

func TestRegister_InvalidInput(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	for _, in := range []RegisterInput{
		{Name: "", Email: "a@x.com", Password: "secret1"},
		{Name: "A", Email: "not-an-email", Password: "secret1"},
		{Name: "A", Email: "a@x.com", Password: "123"},
	} {
		ok, err := s.Register(ctx, in)
		if err != nil || ok {
			t.Fatalf("%+v: ok=%v err=%v", in, ok, err)
		}
	}
	if next, _ := s.ids.Peek(ctx); next != 1 {
		t.Fatalf("invalid input consumed an id")
	}
}

func TestRegister_EmailCheck(t *testing.T) {
	ctx := context.Background()
	s := New(kv.NewMemory(), Deps{EmailCheck: func(string) bool { return false }})
	ok, err := s.Register(ctx, ana)
	if err != nil || ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
}

func TestRegister_AllocatesSequentialIDs(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	for i, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		in := ana
		in.Email = email
		if ok, err := s.Register(ctx, in); !ok || err != nil {
			t.Fatalf("register %s: ok=%v err=%v", email, ok, err)
		}
		u, _ := s.FindByID(ctx, int64(i+1))
		if u == nil || u.Email != email {
			t.Fatalf("expected id %d for %s, got %+v", i+1, email, u)
		}
	}
}

func TestLogin_NonDistinguishingFailures(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	_, _ = s.Register(ctx, ana)

	unknown, err1 := s.Login(ctx, "nobody@x.com", "secret1")
	wrong, err2 := s.Login(ctx, ana.Email, "wrong-password")
	if unknown != nil || wrong != nil || err1 != nil || err2 != nil {
		t.Fatalf("failures must be nil, nil: %v %v %v %v", unknown, wrong, err1, err2)
	}
	if sess, _ := s.CurrentSession(ctx); sess != nil {
		t.Fatalf("failed login created a session")
	}
}

func TestLoginSessionLogout(t *testing.T) {
	ctx := context.Background()
	s, mem := newStore(t)
	_, _ = s.Register(ctx, ana)

	u, err := s.Login(ctx, ana.Email, ana.Password)
	if err != nil || u == nil {
		t.Fatalf("login: u=%v err=%v", u, err)
	}
	if u.PasswordHash == "" {
		t.Fatalf("login returns the full record")
	}

	sess, err := s.CurrentSession(ctx)
	if err != nil || sess == nil || sess.Email != ana.Email || sess.ID != u.ID {
		t.Fatalf("session: %+v err=%v", sess, err)
	}
	raw, _ := mem.Get(ctx, "session:test")
	if strings.Contains(string(raw.Value), "passwordHash") {
		t.Fatalf("session projection leaked the hash: %s", raw.Value)
	}

	if err := s.Logout(ctx); err != nil {
		t.Fatal(err)
	}
	if sess, _ := s.CurrentSession(ctx); sess != nil {
		t.Fatalf("session survived logout")
	}
	if n, _ := s.Count(ctx); n != 1 {
		t.Fatalf("logout touched the user collection")
	}
	if err := s.Logout(ctx); err != nil {
		t.Fatalf("second logout: %v", err)
	}
}

func TestInitialize_NotDestructive(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	_, _ = s.Register(ctx, ana)

	if err := s.Initialize(ctx); err != nil {
		t.Fatal(err)
	}
	if n, _ := s.Count(ctx); n != 1 {
		t.Fatalf("initialize wiped users")
	}
	if next, _ := s.ids.Peek(ctx); next != 2 {
		t.Fatalf("initialize reset the counter: %d", next)
	}
}

func TestSessionsArePerInstance(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	client := New(mem, Deps{SessionKey: "session:client"})
	barber := New(mem, Deps{SessionKey: "session:barber"})
	_ = client.Initialize(ctx)
	_, _ = client.Register(ctx, ana)

	if u, _ := barber.Login(ctx, ana.Email, ana.Password); u == nil {
		t.Fatalf("shared user collection not visible to the other instance")
	}
	if sess, _ := client.CurrentSession(ctx); sess != nil {
		t.Fatalf("login on one instance leaked into the other")
	}
}

func TestRegister_PasswordOverByteLimit(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	// 40 runes, 80 bytes: short enough for a rune count, too long for bcrypt.
	long := RegisterInput{Name: "Ana", Email: "ana@x.com", Password: strings.Repeat("é", 40)}
	ok, err := s.Register(ctx, long)
	if err != nil || ok {
		t.Fatalf("multibyte password: ok=%v err=%v", ok, err)
	}
	if n, _ := s.Count(ctx); n != 0 {
		t.Fatalf("rejected registration wrote a record: %d", n)
	}
	if next, _ := s.ids.Peek(ctx); next != 1 {
		t.Fatalf("rejected registration consumed an id: next=%d", next)
	}

	edge := long
	edge.Password = strings.Repeat("a", MaxPasswordBytes)
	if ok, err := s.Register(ctx, edge); err != nil || !ok {
		t.Fatalf("72-byte password: ok=%v err=%v", ok, err)
	}
}

// allocateOnCreate runs a registration-style id allocation right after the
// user collection is created, before Initialize gets to the counter.
type allocateOnCreate struct {
	kv.Store
	ids *store.Counter
}

func (a *allocateOnCreate) CompareAndSwap(ctx context.Context, key, revision string, value []byte) (bool, error) {
	ok, err := a.Store.CompareAndSwap(ctx, key, revision, value)
	if ok && err == nil && key == store.KeyUsers && revision == "" {
		if _, err := a.ids.Next(ctx); err != nil {
			return false, err
		}
	}
	return ok, err
}

func TestInitialize_KeepsConcurrentAllocation(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	wrapped := &allocateOnCreate{Store: mem, ids: store.NewCounter(mem, store.KeyUserIDCounter, store.Options{})}
	s := New(wrapped, Deps{SessionKey: "session:test", Logger: zaptest.NewLogger(t)})

	if err := s.Initialize(ctx); err != nil {
		t.Fatal(err)
	}
	if next, _ := s.ids.Peek(ctx); next != 2 {
		t.Fatalf("initialize rolled the counter back: next=%d", next)
	}
}

func TestInitialize_ResetsStaleCounter(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	_ = mem.Set(ctx, store.KeyUserIDCounter, []byte("42"))
	s := New(mem, Deps{SessionKey: "session:test"})

	if err := s.Initialize(ctx); err != nil {
		t.Fatal(err)
	}
	if next, _ := s.ids.Peek(ctx); next != 1 {
		t.Fatalf("counter not reset for a fresh collection: next=%d", next)
	}
}
