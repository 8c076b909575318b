package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"luxgrid-data/internal/domain"
)

type PostgresPeopleRepo struct {
	db *sql.DB
}

func NewPostgresPeopleRepo(db *sql.DB) *PostgresPeopleRepo {
	return &PostgresPeopleRepo{db: db}
}

const personColumns = `
	person_id::text,
	site_id::text,
	person_name,
	email,
	phone,
	role,
	status
`

func scanPerson(scanner interface{ Scan(...any) error }) (*domain.Person, error) {
	var p domain.Person
	if err := scanner.Scan(
		&p.PersonID,
		&p.SiteID,
		&p.PersonName,
		&p.Email,
		&p.Phone,
		&p.Role,
		&p.Status,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresPeopleRepo) ListPeople(ctx context.Context, siteID string, filters PersonFilters, page, size int) ([]*domain.Person, int, error) {
	if siteID == "" {
		return []*domain.Person{}, 0, nil
	}

	where := []string{"site_id = $1"}
	args := []any{siteID}
	argN := 2

	if filters.Role != "" {
		where = append(where, fmt.Sprintf("role = $%d", argN))
		args = append(args, filters.Role)
		argN++
	}
	if filters.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", argN))
		args = append(args, filters.Status)
		argN++
	}
	if filters.Search != "" {
		where = append(where, fmt.Sprintf("(person_name ILIKE $%d OR COALESCE(email, '') ILIKE $%d)", argN, argN))
		args = append(args, "%"+filters.Search+"%")
		argN++
	}

	queryCount := `SELECT COUNT(*) FROM people WHERE ` + strings.Join(where, " AND ")
	var total int
	if err := r.db.QueryRowContext(ctx, queryCount, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	offset := (page - 1) * size
	args = append(args, size, offset)

	q := `SELECT ` + personColumns + `
		FROM people
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY person_name
		LIMIT $` + fmt.Sprintf("%d", argN) + ` OFFSET $` + fmt.Sprintf("%d", argN+1)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []*domain.Person{}
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *PostgresPeopleRepo) GetPerson(ctx context.Context, siteID, personID string) (*domain.Person, error) {
	if siteID == "" || personID == "" {
		return nil, fmt.Errorf("site_id and person_id are required")
	}

	row := r.db.QueryRowContext(ctx,
		`SELECT `+personColumns+` FROM people WHERE site_id = $1 AND person_id = $2`,
		siteID, personID)
	p, err := scanPerson(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("person not found: person_id=%s", personID)
		}
		return nil, err
	}
	return p, nil
}

func (r *PostgresPeopleRepo) CreatePerson(ctx context.Context, siteID string, person *domain.Person) (string, error) {
	if siteID == "" {
		return "", fmt.Errorf("site_id is required")
	}
	if person == nil || person.PersonName == "" {
		return "", fmt.Errorf("person_name is required")
	}
	if person.Role == "" {
		person.Role = domain.PersonRoleStaff
	}
	if person.Status == "" {
		person.Status = "active"
	}

	var personID string
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO people (site_id, person_name, email, phone, role, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING person_id::text`,
		siteID,
		person.PersonName,
		person.Email,
		person.Phone,
		person.Role,
		person.Status,
	).Scan(&personID)
	if err != nil {
		return "", err
	}
	return personID, nil
}

func (r *PostgresPeopleRepo) UpdatePerson(ctx context.Context, siteID, personID string, person *domain.Person) error {
	if siteID == "" || personID == "" {
		return fmt.Errorf("site_id and person_id are required")
	}
	if person == nil {
		return fmt.Errorf("person is required")
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE people
		 SET person_name = $3,
		     email = $4,
		     phone = $5,
		     role = $6,
		     status = $7
		 WHERE site_id = $1 AND person_id = $2`,
		siteID,
		personID,
		person.PersonName,
		person.Email,
		person.Phone,
		person.Role,
		person.Status,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("person not found: person_id=%s", personID)
	}
	return nil
}

// DeletePerson group_people 由 DB 级联删除
func (r *PostgresPeopleRepo) DeletePerson(ctx context.Context, siteID, personID string) error {
	if siteID == "" || personID == "" {
		return fmt.Errorf("site_id and person_id are required")
	}

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM people WHERE site_id = $1 AND person_id = $2`,
		siteID, personID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("person not found: person_id=%s", personID)
	}
	return nil
}
