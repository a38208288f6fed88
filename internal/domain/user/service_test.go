package user

import (
	"context"
	"errors"
	"testing"
)

type fakeUserRepo struct {
	users map[string]*User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*User)}
}

func (r *fakeUserRepo) List(ctx context.Context) ([]User, error) {
	result := make([]User, 0, len(r.users))
	for _, u := range r.users {
		result = append(result, *u)
	}
	return result, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *fakeUserRepo) Create(ctx context.Context, user *User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *User) error {
	if _, ok := r.users[user.ID]; !ok {
		return ErrUserNotFound
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := r.users[id]; !ok {
		return false, nil
	}
	delete(r.users, id)
	return true, nil
}

func TestCreateUserDefaults(t *testing.T) {
	svc := NewService(newFakeUserRepo())

	created, err := svc.Create(context.Background(), CreateUserInput{
		Email: "  Anna@Example.com ",
		Name:  "Anna",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created.Email != "anna@example.com" {
		t.Fatalf("expected normalized email, got %q", created.Email)
	}
	if created.Role != RoleUser {
		t.Fatalf("expected default role user, got %q", created.Role)
	}
	if created.HouseholdSize != 1 {
		t.Fatalf("expected default household size 1, got %d", created.HouseholdSize)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	svc := NewService(newFakeUserRepo())

	if _, err := svc.Create(context.Background(), CreateUserInput{Email: "a@b.de", Name: "A"}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	_, err := svc.Create(context.Background(), CreateUserInput{Email: "a@b.de", Name: "B"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestCreateUserHouseholdSizeBounds(t *testing.T) {
	svc := NewService(newFakeUserRepo())

	for _, size := range []int{0, -3, 21} {
		bad := size
		_, err := svc.Create(context.Background(), CreateUserInput{
			Email:         "x@y.de",
			Name:          "X",
			HouseholdSize: &bad,
		})
		if err == nil {
			t.Fatalf("expected error for household size %d", size)
		}
	}

	ok := 20
	if _, err := svc.Create(context.Background(), CreateUserInput{
		Email:         "x@y.de",
		Name:          "X",
		HouseholdSize: &ok,
	}); err != nil {
		t.Fatalf("expected household size 20 to be valid, got %v", err)
	}
}

func TestUpdateUserEmailCollision(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewService(repo)

	first, err := svc.Create(context.Background(), CreateUserInput{Email: "first@b.de", Name: "First"})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	if _, err := svc.Create(context.Background(), CreateUserInput{Email: "second@b.de", Name: "Second"}); err != nil {
		t.Fatalf("create second: %v", err)
	}

	taken := "second@b.de"
	_, err = svc.Update(context.Background(), first.ID, UpdateUserInput{Email: &taken})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	// Re-submitting the current email must not conflict with itself.
	same := "first@b.de"
	if _, err := svc.Update(context.Background(), first.ID, UpdateUserInput{Email: &same}); err != nil {
		t.Fatalf("expected self-update to pass, got %v", err)
	}
}

func TestDeleteUserNotFound(t *testing.T) {
	svc := NewService(newFakeUserRepo())

	err := svc.Delete(context.Background(), "missing")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"":        RoleUser,
		"user":    RoleUser,
		"premium": RolePremium,
		"admin":   RoleAdmin,
		"ADMIN":   RoleAdmin,
		"root":    RoleUser,
	}
	for value, want := range cases {
		if got := ParseRole(value); got != want {
			t.Fatalf("ParseRole(%q) = %q, want %q", value, got, want)
		}
	}
}
