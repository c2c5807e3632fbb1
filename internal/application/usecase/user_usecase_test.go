package usecase_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/VozDocs-api/internal/application/dto"
	"github.com/jhoicas/VozDocs-api/internal/application/usecase"
	"github.com/jhoicas/VozDocs-api/internal/domain"
	"github.com/jhoicas/VozDocs-api/internal/domain/entity"
)

type memUserRepo struct {
	byID map[string]*entity.User
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

func newUCWithUser(t *testing.T) (*usecase.UserUseCase, *memUserRepo) {
	t.Helper()
	repo := &memUserRepo{byID: map[string]*entity.User{
		"user-1": {
			ID:    "user-1",
			Email: "ana@vega.co",
			BusinessContext: entity.BusinessContext{
				DefaultCurrency: "USD",
			},
		},
	}}
	return usecase.NewUserUseCase(repo), repo
}

func TestUpdateBusinessContext_ActualizaPerfil(t *testing.T) {
	uc, repo := newUCWithUser(t)

	biz, err := uc.UpdateBusinessContext("user-1", dto.UpdateBusinessContextRequest{
		CompanyName:     "Vega Consulting",
		DefaultCurrency: "eur",
	})
	require.NoError(t, err)
	assert.Equal(t, "Vega Consulting", biz.CompanyName)
	assert.Equal(t, "EUR", biz.DefaultCurrency, "la moneda se normaliza a mayúsculas")

	stored, _ := repo.GetByID("user-1")
	assert.Equal(t, "Vega Consulting", stored.BusinessContext.CompanyName)
}

func TestAddFrequentClient_RefrescaYDedup(t *testing.T) {
	uc, _ := newUCWithUser(t)

	_, err := uc.AddFrequentClient("user-1", dto.FrequentClientRequest{Name: "Acme Corp"})
	require.NoError(t, err)
	biz, err := uc.AddFrequentClient("user-1", dto.FrequentClientRequest{Name: "acme corp", Email: "ap@acme.io"})
	require.NoError(t, err)

	require.Len(t, biz.FrequentClients, 1, "el match por nombre es case-insensitive")
	assert.Equal(t, "ap@acme.io", biz.FrequentClients[0].Email)
}

func TestAddFrequentClient_RespetaElTope(t *testing.T) {
	uc, _ := newUCWithUser(t)

	var biz *entity.BusinessContext
	var err error
	for i := 0; i < entity.MaxFrequentClients+5; i++ {
		biz, err = uc.AddFrequentClient("user-1", dto.FrequentClientRequest{Name: fmt.Sprintf("Client %02d", i)})
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
	}

	require.Len(t, biz.FrequentClients, entity.MaxFrequentClients)
	assert.Equal(t, fmt.Sprintf("Client %02d", entity.MaxFrequentClients+4), biz.FrequentClients[0].Name,
		"el más reciente queda primero")
}

func TestRemoveFrequentClient(t *testing.T) {
	uc, _ := newUCWithUser(t)

	_, err := uc.AddFrequentClient("user-1", dto.FrequentClientRequest{Name: "Acme Corp"})
	require.NoError(t, err)
	biz, err := uc.RemoveFrequentClient("user-1", "ACME CORP")
	require.NoError(t, err)
	assert.Empty(t, biz.FrequentClients)
}

func TestAddCommonService_RespetaElTope(t *testing.T) {
	uc, _ := newUCWithUser(t)

	var biz *entity.BusinessContext
	var err error
	for i := 0; i < entity.MaxCommonServices+3; i++ {
		biz, err = uc.AddCommonService("user-1", dto.CommonServiceRequest{
			Description: fmt.Sprintf("Service %02d", i),
			Rate:        decimal.NewFromInt(int64(100 + i)),
		})
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
	}

	require.Len(t, biz.CommonServices, entity.MaxCommonServices)
	assert.Equal(t, fmt.Sprintf("Service %02d", entity.MaxCommonServices+2), biz.CommonServices[0].Description)
}

func TestAddCommonService_SinDescription(t *testing.T) {
	uc, _ := newUCWithUser(t)

	_, err := uc.AddCommonService("user-1", dto.CommonServiceRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBusinessContext_UsuarioInexistente(t *testing.T) {
	uc, _ := newUCWithUser(t)

	_, err := uc.GetBusinessContext("nope")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
