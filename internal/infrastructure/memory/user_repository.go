package memory

import (
	"context"

	"github.com/jhoicas/jobhunter-api/internal/domain"
	"github.com/jhoicas/jobhunter-api/internal/domain/entity"
	"github.com/jhoicas/jobhunter-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo usuarios en memoria.
type UserRepo struct {
	s *Store
}

// NewUserRepository construye el repositorio sobre el store.
func NewUserRepository(s *Store) *UserRepo {
	return &UserRepo{s: s}
}

// Create persiste un usuario; el email es único.
func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	user.ID = r.s.nextID()
	r.s.users[user.ID] = cloneUser(user)
	return nil
}

// GetByID obtiene un usuario; (nil, nil) si no existe.
func (r *UserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return cloneUser(u), nil
}

// GetByEmail obtiene un usuario por email.
func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Email == email }), nil
}

// GetByVerificationToken obtiene el usuario dueño del token de verificación.
func (r *UserRepo) GetByVerificationToken(_ context.Context, token string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool {
		return u.VerificationToken != nil && *u.VerificationToken == token
	}), nil
}

// ExistsByEmail comprueba si el email está registrado.
func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	u, _ := r.GetByEmail(ctx, email)
	return u != nil, nil
}

func (r *UserRepo) find(match func(*entity.User) bool) *entity.User {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, id := range sortedKeys(r.s.users) {
		if u := r.s.users[id]; match(u) {
			return cloneUser(u)
		}
	}
	return nil
}

// Update actualiza todo salvo el refresh token.
func (r *UserRepo) Update(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.users[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	next := cloneUser(user)
	next.RefreshToken = current.RefreshToken
	r.s.users[user.ID] = next
	return nil
}

// UpdateRefreshToken sobrescribe el refresh token vigente.
func (r *UserRepo) UpdateRefreshToken(_ context.Context, userID int64, token *string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.RefreshToken = cloneString(token)
	return nil
}

// Delete elimina el usuario y, como la FK en cascada, sus solicitudes de registro.
func (r *UserRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.users, id)
	for regID, reg := range r.s.registrations {
		if reg.UserID == id {
			delete(r.s.registrations, regID)
		}
	}
	return nil
}

// List pagina los usuarios por id.
func (r *UserRepo) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	all := make([]*entity.User, 0, len(r.s.users))
	for _, id := range sortedKeys(r.s.users) {
		all = append(all, cloneUser(r.s.users[id]))
	}
	return paginate(all, limit, offset), nil
}

// Count total de usuarios.
func (r *UserRepo) Count(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.users), nil
}
