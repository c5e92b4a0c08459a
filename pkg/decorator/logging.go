package decorator

import (
	"context"
	"strings"

	"github.com/r-miyahara/devices-api/pkg/idempotency"
	"github.com/r-miyahara/devices-api/pkg/logger"
)

type (
	commandLoggingDecorator[C Command, R any] struct {
		base   CommandHandler[C, R]
		logger logger.Logger
	}

	queryLoggingDecorator[Q Query, R Result] struct {
		base   QueryHandler[Q, R]
		logger logger.Logger
	}
)

func (d commandLoggingDecorator[C, R]) Handle(ctx context.Context, cmd C) (result R, err error) {
	logCtx := d.logger.WithContext(ctx).With().
		Str("command", generateActionName(cmd))

	if key, ok := idempotency.FromContext(ctx); ok {
		logCtx = logCtx.Str("idempotency_key", key)
	}

	log := logCtx.Logger()

	log.Debug().Msg("executing command")

	defer func() {
		if err != nil {
			log.Error().Err(err).Msg("command failed")

			return
		}

		log.Debug().Msg("command executed successfully")
	}()

	return d.base.Handle(ctx, cmd)
}

func (d queryLoggingDecorator[Q, R]) Execute(ctx context.Context, query Q) (result R, err error) {
	log := d.logger.WithContext(ctx).With().
		Str("query", strings.ToLower(generateActionName(query))).
		Logger()

	log.Debug().Msg("executing query")

	defer func() {
		if err != nil {
			log.Error().Err(err).Msg("query failed")

			return
		}

		log.Debug().Msg("query executed successfully")
	}()

	return d.base.Execute(ctx, query)
}
