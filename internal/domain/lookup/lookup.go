// Package lookup manages the department and position name lists.
package lookup

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"timetrack/internal/apperror"
	"timetrack/internal/platform/jsonstore"
)

type Item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (i Item) RecordID() string { return i.ID }

func NewItem(id, name string) (Item, error) {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) < 2 {
		return Item{}, apperror.Validation("name too short")
	}
	return Item{ID: id, Name: trimmed}, nil
}

type Service struct {
	Departments *jsonstore.Collection[Item]
	Positions   *jsonstore.Collection[Item]
}

func NewService(departments, positions *jsonstore.Collection[Item]) *Service {
	return &Service{Departments: departments, Positions: positions}
}

type Lists struct {
	Departments []Item `json:"departments"`
	Positions   []Item `json:"positions"`
}

func (s *Service) List(ctx context.Context) (Lists, error) {
	departments, err := listSorted(ctx, s.Departments)
	if err != nil {
		return Lists{}, err
	}
	positions, err := listSorted(ctx, s.Positions)
	if err != nil {
		return Lists{}, err
	}
	return Lists{Departments: departments, Positions: positions}, nil
}

func (s *Service) AddDepartment(ctx context.Context, name string) (Item, error) {
	return add(ctx, s.Departments, name, "department already exists")
}

func (s *Service) AddPosition(ctx context.Context, name string) (Item, error) {
	return add(ctx, s.Positions, name, "position already exists")
}

func listSorted(ctx context.Context, col *jsonstore.Collection[Item]) ([]Item, error) {
	items, err := col.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Name < items[j].Name
	})
	if items == nil {
		items = []Item{}
	}
	return items, nil
}

// add inserts a name unless it already exists, case-insensitively. Check and
// insert share one locked store cycle.
func add(ctx context.Context, col *jsonstore.Collection[Item], name, duplicateMessage string) (Item, error) {
	item, err := NewItem(uuid.NewString(), name)
	if err != nil {
		return Item{}, err
	}

	normalized := strings.ToLower(item.Name)
	err = col.Mutate(ctx, func(items []Item) ([]Item, error) {
		for _, existing := range items {
			if strings.ToLower(strings.TrimSpace(existing.Name)) == normalized {
				return nil, apperror.Validation("%s", duplicateMessage)
			}
		}
		return append(items, item), nil
	})
	if err != nil {
		return Item{}, err
	}
	return item, nil
}
