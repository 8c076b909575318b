package service

import (
	"context"
	"fmt"
	"strings"

	"luxgrid-data/internal/domain"
	"luxgrid-data/internal/repository"

	"go.uber.org/zap"
)

// PersonService 人员管理服务接口
type PersonService interface {
	ListPeople(ctx context.Context, req ListPeopleRequest) (*ListPeopleResponse, error)
	GetPerson(ctx context.Context, siteID, personID string) (*domain.Person, error)
	CreatePerson(ctx context.Context, siteID string, person *domain.Person) (string, error)
	UpdatePerson(ctx context.Context, siteID, personID string, person *domain.Person) error
	DeletePerson(ctx context.Context, siteID, personID string) error
}

type personService struct {
	peopleRepo repository.PeopleRepository
	logger     *zap.Logger
}

// NewPersonService 创建 PersonService 实例
func NewPersonService(peopleRepo repository.PeopleRepository, logger *zap.Logger) PersonService {
	return &personService{peopleRepo: peopleRepo, logger: logger}
}

// ListPeopleRequest 查询人员列表请求
type ListPeopleRequest struct {
	SiteID string // 必填
	Role   string // 可选
	Status string // 可选
	Search string // 可选：模糊搜索 person_name, email
	Page   int
	Size   int
}

// ListPeopleResponse 查询人员列表响应
type ListPeopleResponse struct {
	Items []*domain.Person
	Total int
}

func (s *personService) ListPeople(ctx context.Context, req ListPeopleRequest) (*ListPeopleResponse, error) {
	if req.SiteID == "" {
		return nil, fmt.Errorf("site_id is required")
	}

	filters := repository.PersonFilters{
		Role:   strings.TrimSpace(req.Role),
		Status: strings.TrimSpace(req.Status),
		Search: strings.TrimSpace(req.Search),
	}

	page := req.Page
	if page <= 0 {
		page = 1
	}
	size := req.Size
	if size <= 0 {
		size = 20
	}

	items, total, err := s.peopleRepo.ListPeople(ctx, req.SiteID, filters, page, size)
	if err != nil {
		s.logger.Error("ListPeople failed", zap.String("site_id", req.SiteID), zap.Error(err))
		return nil, fmt.Errorf("failed to list people")
	}
	return &ListPeopleResponse{Items: items, Total: total}, nil
}

func (s *personService) GetPerson(ctx context.Context, siteID, personID string) (*domain.Person, error) {
	if siteID == "" || personID == "" {
		return nil, fmt.Errorf("site_id and person_id are required")
	}
	return s.peopleRepo.GetPerson(ctx, siteID, personID)
}

func (s *personService) CreatePerson(ctx context.Context, siteID string, person *domain.Person) (string, error) {
	if siteID == "" {
		return "", fmt.Errorf("site_id is required")
	}
	if person == nil || strings.TrimSpace(person.PersonName) == "" {
		return "", fmt.Errorf("person_name is required")
	}
	person.PersonName = strings.TrimSpace(person.PersonName)

	id, err := s.peopleRepo.CreatePerson(ctx, siteID, person)
	if err != nil {
		s.logger.Error("CreatePerson failed", zap.String("site_id", siteID), zap.Error(err))
		return "", fmt.Errorf("failed to create person")
	}
	return id, nil
}

func (s *personService) UpdatePerson(ctx context.Context, siteID, personID string, person *domain.Person) error {
	if siteID == "" || personID == "" {
		return fmt.Errorf("site_id and person_id are required")
	}
	if person == nil || strings.TrimSpace(person.PersonName) == "" {
		return fmt.Errorf("person_name is required")
	}
	return s.peopleRepo.UpdatePerson(ctx, siteID, personID, person)
}

func (s *personService) DeletePerson(ctx context.Context, siteID, personID string) error {
	if siteID == "" || personID == "" {
		return fmt.Errorf("site_id and person_id are required")
	}
	return s.peopleRepo.DeletePerson(ctx, siteID, personID)
}
