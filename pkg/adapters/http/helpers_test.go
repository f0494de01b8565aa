package http

import (
	"log/slog"

	"github.com/aretw0/taskgate/internal/logging"
)

func slogDiscard() *slog.Logger { return logging.NewNop() }
