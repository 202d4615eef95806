package actorutil

import (
	"log/slog"
	"strings"
	"time"

	"pisignage2mqtt/internal/core/domain"
	"pisignage2mqtt/internal/core/events"
	"pisignage2mqtt/internal/mqtt"
	"pisignage2mqtt/pkg/pisignage"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/lmittmann/tint"
	"go.uber.org/zap"
)

func PipeToSelfWithRecover(ctx actor.Context, future *actor.Future, mapFn func(error) any) {
	ctx.ReenterAfter(future, func(msg any, err error) {
		if err != nil {
			ctx.Send(ctx.Self(), mapFn(err))
			return
		}
		ctx.Send(ctx.Self(), msg)
	})
}

func NewActorSystemWithZapLogger(logger *zap.Logger) *actor.ActorSystem {
	stdOutLogger := zap.NewStdLog(logger)

	var slogLevel slog.Level = slog.LevelInfo

	switch logger.Level() {
	case zap.DebugLevel:
		slogLevel = slog.LevelDebug
	case zap.InfoLevel:
		slogLevel = slog.LevelInfo
	case zap.WarnLevel:
		slogLevel = slog.LevelWarn
	case zap.ErrorLevel:
		slogLevel = slog.LevelError
	case zap.PanicLevel:
		slogLevel = slog.LevelError
	}

	return actor.NewActorSystem(actor.WithLoggerFactory(func(system *actor.ActorSystem) *slog.Logger {
		return slog.New(tint.NewHandler(stdOutLogger.Writer(), &tint.Options{
			Level:      slogLevel,
			TimeFormat: time.DateTime,
		}))
	}))
}

func ActorLogger(actorName string, logger *zap.Logger) *zap.Logger {
	return logger.With(zap.String("actor", actorName))
}

// ParsedMQTTCommandToCommand maps an incoming MQTT command onto a player
// command. Entity ids look like "<playerId>_<suffix>"; player ids carry no
// underscore, so the first one splits the two.
func ParsedMQTTCommandToCommand(cmd mqtt.ParsedMQTTCommand) (domain.PlayerCommand, error) {
	parts := strings.SplitN(cmd.DeviceId, "_", 2)
	if len(parts) != 2 {
		return nil, nil
	}
	playerID, suffix := parts[0], parts[1]

	switch cmd.Command {
	case "switch":
		if suffix == events.SWITCH_SUFFIX_TV_POWER {
			return domain.TVPowerCommand{
				PlayerID: playerID,
				On:       cmd.Payload == mqtt.MQTT_PAYLOAD_ON,
			}, nil
		}
	case "select":
		if suffix == events.SELECT_SUFFIX_PLAYLIST && cmd.Payload != "" {
			return domain.PlaylistSelectCommand{
				PlayerID: playerID,
				Playlist: cmd.Payload,
			}, nil
		}
	case "button":
		action, ok := buttonAction(suffix)
		if ok {
			return domain.TransportCommand{
				PlayerID: playerID,
				Action:   action,
			}, nil
		}
	}
	return nil, nil
}

func buttonAction(suffix string) (string, bool) {
	switch suffix {
	case events.BUTTON_SUFFIX_PLAY:
		return pisignage.MediaActionPlay, true
	case events.BUTTON_SUFFIX_PAUSE:
		return pisignage.MediaActionPause, true
	case events.BUTTON_SUFFIX_NEXT:
		return pisignage.MediaActionForward, true
	case events.BUTTON_SUFFIX_PREVIOUS:
		return pisignage.MediaActionBackward, true
	default:
		return "", false
	}
}
