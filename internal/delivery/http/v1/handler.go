package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"tugasbot/internal/services"
)

type Handler interface {
	HandleWebhook(c *gin.Context)
	HandleHealth(c *gin.Context)
}

type handlerImpl struct {
	logger     zerolog.Logger
	dispatcher services.IntentDispatcher
	// Only the health check touches the pool directly.
	pgPool *pgxpool.Pool
}

func New(
	logger zerolog.Logger,
	dispatcher services.IntentDispatcher,
	pgPool *pgxpool.Pool,
) Handler {
	return &handlerImpl{
		logger:     logger,
		dispatcher: dispatcher,
		pgPool:     pgPool,
	}
}
