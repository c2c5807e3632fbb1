package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/VozDocs-api/internal/application/auth"
	"github.com/jhoicas/VozDocs-api/internal/application/dto"
	"github.com/jhoicas/VozDocs-api/internal/domain"
	"github.com/jhoicas/VozDocs-api/internal/domain/entity"
	"github.com/jhoicas/VozDocs-api/pkg/jwt"
)

type memUserRepo struct {
	byID map[string]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byID: make(map[string]*entity.User)}
}

func (r *memUserRepo) Create(u *entity.User) error { r.byID[u.ID] = u; return nil }
func (r *memUserRepo) Update(u *entity.User) error { r.byID[u.ID] = u; return nil }
func (r *memUserRepo) GetByID(id string) (*entity.User, error) {
	return r.byID[id], nil
}
func (r *memUserRepo) GetByEmail(email string) (*entity.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

var testJWT = auth.JWTConfig{Secret: "test-secret-0123456789", ExpMinutes: 60, Issuer: "vozdocs-api"}

func TestRegisterUser_CreaConContextoVacio(t *testing.T) {
	repo := newMemUserRepo()
	uc := auth.NewAuthUseCase(repo, testJWT)

	resp, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@vega.co", Password: "supersegura", Name: "Ana"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "Ana", resp.Name)

	stored, _ := repo.GetByID(resp.ID)
	require.NotNil(t, stored)
	assert.NotEqual(t, "supersegura", stored.PasswordHash, "el password jamás se guarda plano")
	assert.Equal(t, "USD", stored.BusinessContext.DefaultCurrency)
	assert.Empty(t, stored.BusinessContext.FrequentClients)
}

func TestRegisterUser_EmailDuplicado(t *testing.T) {
	uc := auth.NewAuthUseCase(newMemUserRepo(), testJWT)

	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@vega.co", Password: "supersegura"})
	require.NoError(t, err)

	_, err = uc.RegisterUser(dto.RegisterRequest{Email: "ana@vega.co", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLogin_TokenValido(t *testing.T) {
	uc := auth.NewAuthUseCase(newMemUserRepo(), testJWT)
	reg, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@vega.co", Password: "supersegura"})
	require.NoError(t, err)

	resp, err := uc.Login(dto.LoginRequest{Email: "ana@vega.co", Password: "supersegura"})
	require.NoError(t, err)

	userID, email, err := jwt.Parse(testJWT.Secret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, userID)
	assert.Equal(t, "ana@vega.co", email)
}

func TestLogin_PasswordIncorrecto(t *testing.T) {
	uc := auth.NewAuthUseCase(newMemUserRepo(), testJWT)
	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@vega.co", Password: "supersegura"})
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Email: "ana@vega.co", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInexistente(t *testing.T) {
	uc := auth.NewAuthUseCase(newMemUserRepo(), testJWT)

	_, err := uc.Login(dto.LoginRequest{Email: "nadie@vega.co", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestMe_SesionDelUsuario(t *testing.T) {
	uc := auth.NewAuthUseCase(newMemUserRepo(), testJWT)
	reg, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@vega.co", Password: "supersegura", Name: "Ana"})
	require.NoError(t, err)

	sess, err := uc.Me(reg.ID)
	require.NoError(t, err)
	assert.True(t, sess.Authenticated)
	assert.Equal(t, "Ana", sess.User.Name)

	_, err = uc.Me("nope")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
