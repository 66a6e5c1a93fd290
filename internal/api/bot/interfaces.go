package bot

import (
	"context"

	"github.com/mwalczyk-dev/ragbot-backend/internal/entity"
)

type ChatUsecase interface {
	Authenticate(ctx context.Context, token string) bool
	Process(ctx context.Context, activity *entity.Activity) error
}
