package usecase

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/VozDocs-api/internal/application/dto"
	"github.com/jhoicas/VozDocs-api/internal/domain"
	"github.com/jhoicas/VozDocs-api/internal/domain/entity"
	"github.com/jhoicas/VozDocs-api/internal/domain/repository"
)

// UserUseCase gestiona el perfil y el contexto de negocio del usuario. Las
// listas de clientes frecuentes y servicios habituales se mantienen acotadas
// (MaxFrequentClients / MaxCommonServices) con los más recientes primero.
type UserUseCase struct {
	userRepo repository.UserRepository
}

// NewUserUseCase construye el caso de uso inyectando el repositorio.
func NewUserUseCase(userRepo repository.UserRepository) *UserUseCase {
	return &UserUseCase{userRepo: userRepo}
}

// GetBusinessContext devuelve el contexto de negocio del usuario.
func (uc *UserUseCase) GetBusinessContext(userID string) (*entity.BusinessContext, error) {
	user, err := uc.load(userID)
	if err != nil {
		return nil, err
	}
	return &user.BusinessContext, nil
}

// UpdateBusinessContext reemplaza los campos de perfil; las listas no se tocan.
func (uc *UserUseCase) UpdateBusinessContext(userID string, in dto.UpdateBusinessContextRequest) (*entity.BusinessContext, error) {
	user, err := uc.load(userID)
	if err != nil {
		return nil, err
	}

	biz := &user.BusinessContext
	biz.CompanyName = in.CompanyName
	biz.Address = in.Address
	biz.Phone = in.Phone
	biz.Email = in.Email
	biz.DefaultPaymentTerms = in.DefaultPaymentTerms
	if in.DefaultCurrency != "" {
		biz.DefaultCurrency = strings.ToUpper(in.DefaultCurrency)
	}
	user.UpdatedAt = time.Now()

	if err := uc.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("actualizar contexto de negocio: %w", err)
	}
	return biz, nil
}

// AddFrequentClient agrega o refresca un cliente frecuente. El match es por
// nombre (case-insensitive); el más reciente queda primero y la lista se
// recorta a MaxFrequentClients.
func (uc *UserUseCase) AddFrequentClient(userID string, in dto.FrequentClientRequest) (*entity.BusinessContext, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name es obligatorio", domain.ErrInvalidInput)
	}
	user, err := uc.load(userID)
	if err != nil {
		return nil, err
	}

	biz := &user.BusinessContext
	now := time.Now()
	client := entity.FrequentClient{Name: in.Name, Company: in.Company, Email: in.Email, LastUsed: now}

	kept := biz.FrequentClients[:0]
	for _, c := range biz.FrequentClients {
		if !strings.EqualFold(c.Name, in.Name) {
			kept = append(kept, c)
		}
	}
	biz.FrequentClients = append(kept, client)
	sortClientsByRecency(biz.FrequentClients)
	if len(biz.FrequentClients) > entity.MaxFrequentClients {
		biz.FrequentClients = biz.FrequentClients[:entity.MaxFrequentClients]
	}
	user.UpdatedAt = now

	if err := uc.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("guardar cliente frecuente: %w", err)
	}
	return biz, nil
}

// RemoveFrequentClient elimina un cliente frecuente por nombre.
func (uc *UserUseCase) RemoveFrequentClient(userID, name string) (*entity.BusinessContext, error) {
	user, err := uc.load(userID)
	if err != nil {
		return nil, err
	}

	biz := &user.BusinessContext
	kept := biz.FrequentClients[:0]
	for _, c := range biz.FrequentClients {
		if !strings.EqualFold(c.Name, name) {
			kept = append(kept, c)
		}
	}
	biz.FrequentClients = kept
	user.UpdatedAt = time.Now()

	if err := uc.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("eliminar cliente frecuente: %w", err)
	}
	return biz, nil
}

// AddCommonService agrega o refresca un servicio habitual. El match es por
// descripción (case-insensitive); la lista se recorta a MaxCommonServices.
func (uc *UserUseCase) AddCommonService(userID string, in dto.CommonServiceRequest) (*entity.BusinessContext, error) {
	if in.Description == "" {
		return nil, fmt.Errorf("%w: description es obligatorio", domain.ErrInvalidInput)
	}
	user, err := uc.load(userID)
	if err != nil {
		return nil, err
	}

	biz := &user.BusinessContext
	now := time.Now()
	svc := entity.CommonService{Description: in.Description, Rate: in.Rate, LastUsed: now}

	kept := biz.CommonServices[:0]
	for _, s := range biz.CommonServices {
		if !strings.EqualFold(s.Description, in.Description) {
			kept = append(kept, s)
		}
	}
	biz.CommonServices = append(kept, svc)
	sortServicesByRecency(biz.CommonServices)
	if len(biz.CommonServices) > entity.MaxCommonServices {
		biz.CommonServices = biz.CommonServices[:entity.MaxCommonServices]
	}
	user.UpdatedAt = now

	if err := uc.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("guardar servicio habitual: %w", err)
	}
	return biz, nil
}

// RemoveCommonService elimina un servicio habitual por descripción.
func (uc *UserUseCase) RemoveCommonService(userID, description string) (*entity.BusinessContext, error) {
	user, err := uc.load(userID)
	if err != nil {
		return nil, err
	}

	biz := &user.BusinessContext
	kept := biz.CommonServices[:0]
	for _, s := range biz.CommonServices {
		if !strings.EqualFold(s.Description, description) {
			kept = append(kept, s)
		}
	}
	biz.CommonServices = kept
	user.UpdatedAt = time.Now()

	if err := uc.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("eliminar servicio habitual: %w", err)
	}
	return biz, nil
}

func (uc *UserUseCase) load(userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("obtener usuario: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func sortClientsByRecency(cs []entity.FrequentClient) {
	sort.SliceStable(cs, func(i, j int) bool { return cs[i].LastUsed.After(cs[j].LastUsed) })
}

func sortServicesByRecency(ss []entity.CommonService) {
	sort.SliceStable(ss, func(i, j int) bool { return ss[i].LastUsed.After(ss[j].LastUsed) })
}
