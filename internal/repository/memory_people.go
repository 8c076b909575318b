package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"luxgrid-data/internal/domain"

	"github.com/google/uuid"
)

// MemoryPeopleRepo: 用于 DB 未就绪时的联测
type MemoryPeopleRepo struct {
	mu     sync.RWMutex
	people map[string]map[string]domain.Person // siteID -> personID -> Person
}

func NewMemoryPeopleRepo() *MemoryPeopleRepo {
	return &MemoryPeopleRepo{people: map[string]map[string]domain.Person{}}
}

func (r *MemoryPeopleRepo) ListPeople(_ context.Context, siteID string, filters PersonFilters, page, size int) ([]*domain.Person, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := []*domain.Person{}
	for id := range r.people[siteID] {
		p := r.people[siteID][id]
		if filters.Role != "" && p.Role != filters.Role {
			continue
		}
		if filters.Status != "" && p.Status != filters.Status {
			continue
		}
		if filters.Search != "" {
			kw := strings.ToLower(filters.Search)
			if !strings.Contains(strings.ToLower(p.PersonName), kw) &&
				!(p.Email.Valid && strings.Contains(strings.ToLower(p.Email.String), kw)) {
				continue
			}
		}
		pc := p
		all = append(all, &pc)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].PersonName < all[j].PersonName })

	total := len(all)
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	start := (page - 1) * size
	if start >= total {
		return []*domain.Person{}, total, nil
	}
	end := start + size
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (r *MemoryPeopleRepo) GetPerson(_ context.Context, siteID, personID string) (*domain.Person, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.people[siteID][personID]
	if !ok {
		return nil, fmt.Errorf("person not found: person_id=%s", personID)
	}
	return &p, nil
}

func (r *MemoryPeopleRepo) CreatePerson(_ context.Context, siteID string, person *domain.Person) (string, error) {
	if siteID == "" {
		return "", fmt.Errorf("site_id is required")
	}
	if person == nil || person.PersonName == "" {
		return "", fmt.Errorf("person_name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.people[siteID] == nil {
		r.people[siteID] = map[string]domain.Person{}
	}
	id := uuid.NewString()
	p := *person
	p.PersonID = id
	p.SiteID = siteID
	if p.Role == "" {
		p.Role = domain.PersonRoleStaff
	}
	if p.Status == "" {
		p.Status = "active"
	}
	r.people[siteID][id] = p
	return id, nil
}

func (r *MemoryPeopleRepo) UpdatePerson(_ context.Context, siteID, personID string, person *domain.Person) error {
	if person == nil {
		return fmt.Errorf("person is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.people[siteID][personID]; !ok {
		return fmt.Errorf("person not found: person_id=%s", personID)
	}
	p := *person
	p.PersonID = personID
	p.SiteID = siteID
	r.people[siteID][personID] = p
	return nil
}

func (r *MemoryPeopleRepo) DeletePerson(_ context.Context, siteID, personID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.people[siteID][personID]; !ok {
		return fmt.Errorf("person not found: person_id=%s", personID)
	}
	delete(r.people[siteID], personID)
	return nil
}
