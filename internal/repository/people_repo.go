package repository

import (
	"context"

	"luxgrid-data/internal/domain"
)

// PeopleRepository 人员Repository接口
type PeopleRepository interface {
	ListPeople(ctx context.Context, siteID string, filters PersonFilters, page, size int) ([]*domain.Person, int, error)
	GetPerson(ctx context.Context, siteID, personID string) (*domain.Person, error)
	CreatePerson(ctx context.Context, siteID string, person *domain.Person) (string, error)
	UpdatePerson(ctx context.Context, siteID, personID string, person *domain.Person) error
	DeletePerson(ctx context.Context, siteID, personID string) error
}

// PersonFilters 人员查询过滤器
type PersonFilters struct {
	Role   string // 可选：admin / manager / staff
	Status string // 可选：active / inactive
	Search string // 可选：模糊搜索 person_name, email
}
