// Package memory implementa los puertos de persistencia en memoria.
// Se usa en tests y en desarrollo sin base de datos.
package memory

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/jhoicas/jobhunter-api/internal/domain/entity"
)

type roleRow struct {
	role    entity.Role
	permIDs []int64
}

// Store contenedor compartido por todos los repositorios en memoria.
type Store struct {
	mu sync.RWMutex

	seq int64

	permissions   map[int64]*entity.Permission
	roles         map[int64]*roleRow
	users         map[int64]*entity.User
	companies     map[int64]*entity.Company
	registrations map[int64]*entity.CompanyRegistration

	catalogLookups atomic.Int64
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		permissions:   make(map[int64]*entity.Permission),
		roles:         make(map[int64]*roleRow),
		users:         make(map[int64]*entity.User),
		companies:     make(map[int64]*entity.Company),
		registrations: make(map[int64]*entity.CompanyRegistration),
	}
}

// CatalogLookups número de consultas hechas a los repositorios de permissions y roles.
func (s *Store) CatalogLookups() int64 {
	return s.catalogLookups.Load()
}

// ResetCatalogLookups pone a cero el contador de consultas.
func (s *Store) ResetCatalogLookups() {
	s.catalogLookups.Store(0)
}

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

func (s *Store) lookup() {
	s.catalogLookups.Add(1)
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

func clonePermission(p *entity.Permission) *entity.Permission {
	c := *p
	return &c
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	c.RoleID = cloneInt64(u.RoleID)
	c.CompanyID = cloneInt64(u.CompanyID)
	c.RefreshToken = cloneString(u.RefreshToken)
	c.VerificationToken = cloneString(u.VerificationToken)
	return &c
}

func cloneInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
