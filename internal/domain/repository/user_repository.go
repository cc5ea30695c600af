package repository

import (
	"context"

	"github.com/jhoicas/jobhunter-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Las búsquedas devuelven (nil, nil) cuando no hay coincidencia.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByVerificationToken(ctx context.Context, token string) (*entity.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Update no toca refresh_token; ese campo solo se escribe con UpdateRefreshToken.
	Update(ctx context.Context, user *entity.User) error
	// Delete elimina el usuario y sus solicitudes de registro de empresa.
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]*entity.User, error)
	Count(ctx context.Context) (int, error)
	// UpdateRefreshToken sobrescribe el refresh token vigente (nil = revocar). Última escritura gana.
	UpdateRefreshToken(ctx context.Context, userID int64, token *string) error
}
