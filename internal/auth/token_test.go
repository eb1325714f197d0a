package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/folio-erp/folio-erp/internal/companies"
	"github.com/folio-erp/folio-erp/internal/shared"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.Contains(t, hash, "$argon2id$")

	require.True(t, VerifyPassword("correct horse battery staple", hash))
	require.False(t, VerifyPassword("wrong password", hash))
	require.False(t, VerifyPassword("correct horse battery staple", "not-a-hash"))
}

func TestHashPasswordSaltsEachCall(t *testing.T) {
	first, err := HashPassword("secret-pw")
	require.NoError(t, err)
	second, err := HashPassword("secret-pw")
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	pair, err := issuer.Issue(User{ID: 3, CompanyID: 7, RoleID: 1, Email: "ana@example.cl"})
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)

	identity, err := issuer.Verify(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, shared.Identity{UserID: 3, CompanyID: 7, RoleID: 1}, identity)
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	pair, err := NewTokenIssuer("secret-a", time.Hour).Issue(User{ID: 1, CompanyID: 1})
	require.NoError(t, err)

	_, err = NewTokenIssuer("secret-b", time.Hour).Verify(pair.AccessToken)
	require.ErrorIs(t, err, shared.ErrTokenInvalid)
}

func TestTokenRejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	issued := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	issuer.WithNow(func() time.Time { return issued })
	pair, err := issuer.Issue(User{ID: 1, CompanyID: 1})
	require.NoError(t, err)

	issuer.WithNow(func() time.Time { return issued.Add(2 * time.Hour) })
	_, err = issuer.Verify(pair.AccessToken)
	require.ErrorIs(t, err, shared.ErrTokenInvalid)
}

type memoryUserRepo struct {
	byEmail map[string]User
	nextID  int64
}

func (r *memoryUserRepo) FindByEmail(ctx context.Context, email string) (User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return User{}, shared.ErrInvalidCredentials
	}
	return u, nil
}

func (r *memoryUserRepo) Create(ctx context.Context, user User) (User, error) {
	if _, ok := r.byEmail[user.Email]; ok {
		return User{}, ErrEmailTaken
	}
	r.nextID++
	user.ID = r.nextID
	user.IsActive = true
	r.byEmail[user.Email] = user
	return user, nil
}

// fakeTenants provisions tenants into the user repo, handing out fresh
// company ids the way real onboarding does.
type fakeTenants struct {
	repo        *memoryUserRepo
	nextCompany int64
}

func (f *fakeTenants) OnboardWithOwner(ctx context.Context, in companies.OnboardInput, owner companies.Owner) (companies.Company, int64, error) {
	if _, ok := f.repo.byEmail[owner.Email]; ok {
		return companies.Company{}, 0, shared.ErrEmailTaken
	}
	f.nextCompany++
	user, err := f.repo.Create(ctx, User{
		CompanyID:    f.nextCompany,
		RoleID:       shared.RoleAdmin,
		Email:        owner.Email,
		Name:         owner.Name,
		PasswordHash: owner.PasswordHash,
	})
	if err != nil {
		return companies.Company{}, 0, err
	}
	return companies.Company{ID: f.nextCompany, Name: in.Name, TaxID: in.TaxID}, user.ID, nil
}

func newAuthService() (*Service, *memoryUserRepo, *fakeTenants) {
	repo := &memoryUserRepo{byEmail: make(map[string]User)}
	tenants := &fakeTenants{repo: repo, nextCompany: 100}
	return NewService(repo, tenants, NewTokenIssuer("test-secret", time.Hour), nil), repo, tenants
}

func signupInput() RegisterInput {
	return RegisterInput{
		CompanyName:  "Comercial Andes",
		CompanyTaxID: "76.123.456-7",
		Email:        "Ana@Example.cl",
		Name:         "Ana",
		Password:     "hunter2hunter2",
	}
}

func TestRegisterOnboardsTenantWithAdmin(t *testing.T) {
	svc, _, _ := newAuthService()

	user, pair, err := svc.Register(context.Background(), signupInput())
	require.NoError(t, err)
	require.Equal(t, "ana@example.cl", user.Email, "emails are stored lowercase")
	require.Equal(t, int64(101), user.CompanyID, "company is freshly provisioned")
	require.Equal(t, shared.RoleAdmin, user.RoleID, "first user is the tenant admin")

	// The token scopes the caller to the new tenant, never to one the
	// caller named: RegisterInput carries no company id at all.
	identity, err := NewTokenIssuer("test-secret", time.Hour).Verify(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, int64(101), identity.CompanyID)
	require.Equal(t, shared.RoleAdmin, identity.RoleID)
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newAuthService()

	user, _, err := svc.Register(context.Background(), signupInput())
	require.NoError(t, err)

	logged, pair, err := svc.Login(context.Background(), "ana@example.cl", "hunter2hunter2")
	require.NoError(t, err)
	require.Equal(t, user.ID, logged.ID)
	require.NotEmpty(t, pair.AccessToken)
}

func TestRegisterRejectsTakenEmail(t *testing.T) {
	svc, _, _ := newAuthService()

	_, _, err := svc.Register(context.Background(), signupInput())
	require.NoError(t, err)

	second := signupInput()
	second.CompanyTaxID = "77.000.111-2"
	_, _, err = svc.Register(context.Background(), second)
	require.ErrorIs(t, err, shared.ErrEmailTaken)
}

func TestAddUserScopedToCallerCompany(t *testing.T) {
	svc, repo, _ := newAuthService()
	admin := shared.Identity{UserID: 1, CompanyID: 7, RoleID: shared.RoleAdmin}

	user, err := svc.AddUser(context.Background(), admin, AddUserInput{
		Email: "pedro@example.cl", Name: "Pedro", Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	require.Equal(t, int64(7), user.CompanyID, "company comes from the verified identity")
	require.Equal(t, shared.RoleMember, user.RoleID, "role defaults to member")
	require.Contains(t, repo.byEmail, "pedro@example.cl")
}

func TestAddUserRequiresAdmin(t *testing.T) {
	svc, repo, _ := newAuthService()
	member := shared.Identity{UserID: 2, CompanyID: 7, RoleID: shared.RoleMember}

	_, err := svc.AddUser(context.Background(), member, AddUserInput{
		Email: "pedro@example.cl", Name: "Pedro", Password: "hunter2hunter2",
	})
	var tagged *shared.Error
	require.ErrorAs(t, err, &tagged)
	require.Equal(t, shared.KindForbidden, tagged.Kind)
	require.Empty(t, repo.byEmail)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, _ := newAuthService()

	_, _, err := svc.Register(context.Background(), signupInput())
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "ana@example.cl", "wrong")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "nobody@example.cl", "hunter2hunter2")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	svc, repo, _ := newAuthService()

	user, _, err := svc.Register(context.Background(), signupInput())
	require.NoError(t, err)
	stored := repo.byEmail[user.Email]
	stored.IsActive = false
	repo.byEmail[user.Email] = stored

	_, _, err = svc.Login(context.Background(), "ana@example.cl", "hunter2hunter2")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}
