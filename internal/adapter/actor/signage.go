package actor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pisignage2mqtt/internal/core/domain"
	"pisignage2mqtt/internal/util/actorutil"
	"pisignage2mqtt/pkg/pisignage"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

const (
	SIGNAGE_ACTOR_ID = "signage"

	signageRequestTimeout = 15 * time.Second
)

// SignageActor serializes access to the PiSignage server. Requests run as
// background tasks while the actor stashes everything else, so at most one
// API call is in flight.
type SignageActor struct {
	behavior actor.Behavior
	stash    *actorutil.Stash
	client   pisignage.API
	otp      string
	logger   *zap.Logger
}

type backgroundTaskResult struct {
	message any
	replyTo *actor.PID
}

func NewSignageActor(client pisignage.API, otp string, logger *zap.Logger) *SignageActor {
	act := &SignageActor{
		client:   client,
		otp:      otp,
		behavior: actor.NewBehavior(),
		stash:    &actorutil.Stash{},
		logger:   actorutil.ActorLogger("signage", logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *SignageActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *SignageActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("signage@starting started")
		if err := state.login(); err != nil {
			panic(err)
		}
		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	case *actor.Restarting:
	default:
		state.logger.Debug("signage@starting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *SignageActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("signage@default: ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      SIGNAGE_ACTOR_ID,
			Healthy: true,
			State:   "idle",
		})
	case domain.GetPlayersRequest:
		state.logger.Debug("signage@default: GetPlayersRequest")
		runSignageTask(state, ctx, state.getPlayers, func(err error) domain.GetPlayersResponse {
			return domain.GetPlayersResponse{ActorResponseMixIn: errResponse(err)}
		})
	case domain.GetPlaylistsRequest:
		state.logger.Debug("signage@default: GetPlaylistsRequest")
		runSignageTask(state, ctx, state.getPlaylists, func(err error) domain.GetPlaylistsResponse {
			return domain.GetPlaylistsResponse{ActorResponseMixIn: errResponse(err)}
		})
	case domain.GetGroupsRequest:
		state.logger.Debug("signage@default: GetGroupsRequest")
		runSignageTask(state, ctx, state.getGroups, func(err error) domain.GetGroupsResponse {
			return domain.GetGroupsResponse{ActorResponseMixIn: errResponse(err)}
		})
	case domain.GetLabelsRequest:
		state.logger.Debug("signage@default: GetLabelsRequest")
		runSignageTask(state, ctx, state.getLabels, func(err error) domain.GetLabelsResponse {
			return domain.GetLabelsResponse{ActorResponseMixIn: errResponse(err)}
		})
	case domain.SetGroupPlaylistRequest:
		state.logger.Debug("signage@default: SetGroupPlaylistRequest")
		runSignageTask(state, ctx, func() (*domain.SetGroupPlaylistResponse, error) {
			return state.setGroupPlaylist(msg)
		}, func(err error) domain.SetGroupPlaylistResponse {
			return domain.SetGroupPlaylistResponse{ActorResponseMixIn: errResponse(err)}
		})
	case domain.SelectPlaylistRequest:
		state.logger.Debug("signage@default: SelectPlaylistRequest")
		runSignageTask(state, ctx, func() (*domain.SelectPlaylistResponse, error) {
			return state.selectPlaylist(msg)
		}, func(err error) domain.SelectPlaylistResponse {
			return domain.SelectPlaylistResponse{ActorResponseMixIn: errResponse(err)}
		})
	case domain.SetTVPowerRequest:
		state.logger.Debug("signage@default: SetTVPowerRequest")
		runSignageTask(state, ctx, func() (*domain.SetTVPowerResponse, error) {
			return state.setTVPower(msg)
		}, func(err error) domain.SetTVPowerResponse {
			return domain.SetTVPowerResponse{ActorResponseMixIn: errResponse(err)}
		})
	case domain.MediaControlRequest:
		state.logger.Debug("signage@default: MediaControlRequest")
		runSignageTask(state, ctx, func() (*domain.MediaControlResponse, error) {
			return state.mediaControl(msg)
		}, func(err error) domain.MediaControlResponse {
			return domain.MediaControlResponse{ActorResponseMixIn: errResponse(err)}
		})
	case domain.PlayOnceRequest:
		state.logger.Debug("signage@default: PlayOnceRequest")
		runSignageTask(state, ctx, func() (*domain.PlayOnceResponse, error) {
			return state.playOnce(msg)
		}, func(err error) domain.PlayOnceResponse {
			return domain.PlayOnceResponse{ActorResponseMixIn: errResponse(err)}
		})
	case *actor.Stopping:
		state.logout()
	default:
		state.logger.Debug("signage@default default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *SignageActor) WaitingSignage(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case backgroundTaskResult:
		state.logger.Debug("signage@waiting backgroundTaskResult", zap.String("type", fmt.Sprintf("%T", msg.message)))
		if msg.replyTo != nil {
			ctx.Send(msg.replyTo, msg.message)
		} else if resp, ok := msg.message.(domain.ActorResponse); ok && resp.HasResponseError() {
			state.logger.Error("signage@waiting request failed", zap.Error(resp.GetResponseError()))
		}
		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	case *actor.Stopping:
		state.logout()
	default:
		state.logger.Debug("signage@waiting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *SignageActor) login() error {
	ctx, cancel := context.WithTimeout(context.Background(), signageRequestTimeout)
	defer cancel()
	var err error
	if state.otp != "" {
		err = state.client.LoginWithOTP(ctx, state.otp)
	} else {
		err = state.client.Login(ctx)
	}
	if err != nil && pisignage.IsOTPRequired(err) && state.otp == "" {
		return errors.New("server requires a one-time password, set signage.otp")
	}
	return err
}

func (state *SignageActor) logout() {
	ctx, cancel := context.WithTimeout(context.Background(), signageRequestTimeout)
	defer cancel()
	_ = state.client.Logout(ctx)
}

func (a *SignageActor) getPlayers() (*domain.GetPlayersResponse, error) {
	ctx, cancel := context.WithTimeout(context.Background(), signageRequestTimeout)
	defer cancel()
	players, err := a.client.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.GetPlayersResponse{Players: players}, nil
}

func (a *SignageActor) getPlaylists() (*domain.GetPlaylistsResponse, error) {
	ctx, cancel := context.WithTimeout(context.Background(), signageRequestTimeout)
	defer cancel()
	playlists, err := a.client.ListPlaylists(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.GetPlaylistsResponse{Playlists: playlists}, nil
}

func (a *SignageActor) getGroups() (*domain.GetGroupsResponse, error) {
	ctx, cancel := context.WithTimeout(context.Background(), signageRequestTimeout)
	defer cancel()
	groups, err := a.client.ListGroups(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.GetGroupsResponse{Groups: groups}, nil
}

func (a *SignageActor) getLabels() (*domain.GetLabelsResponse, error) {
	ctx, cancel := context.WithTimeout(context.Background(), signageRequestTimeout)
	defer cancel()
	labels, err := a.client.ListLabels(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.GetLabelsResponse{Labels: labels}, nil
}

func (a *SignageActor) setGroupPlaylist(req domain.SetGroupPlaylistRequest) (*domain.SetGroupPlaylistResponse, error) {
	ctx, cancel := context.WithTimeout(context.Background(), signageRequestTimeout)
	defer cancel()
	if err := a.client.SetGroupPlaylist(ctx, req.GroupID, req.Playlist, req.Deploy); err != nil {
		return nil, err
	}
	return &domain.SetGroupPlaylistResponse{}, nil
}

// selectPlaylist resolves the player's group and deploys the playlist there.
// PiSignage assigns playlists per group, so this is how a single player entity
// changes what it plays.
func (a *SignageActor) selectPlaylist(req domain.SelectPlaylistRequest) (*domain.SelectPlaylistResponse, error) {
	ctx, cancel := context.WithTimeout(context.Background(), signageRequestTimeout)
	defer cancel()
	player, err := a.client.GetPlayer(ctx, req.PlayerID)
	if err != nil {
		return nil, err
	}
	if player.Group == nil || player.Group.ID == "" {
		return nil, fmt.Errorf("player %s has no group", req.PlayerID)
	}
	if err := a.client.SetGroupPlaylist(ctx, player.Group.ID, req.Playlist, true); err != nil {
		return nil, err
	}
	return &domain.SelectPlaylistResponse{}, nil
}

func (a *SignageActor) setTVPower(req domain.SetTVPowerRequest) (*domain.SetTVPowerResponse, error) {
	ctx, cancel := context.WithTimeout(context.Background(), signageRequestTimeout)
	defer cancel()
	if err := a.client.SetTVPower(ctx, req.PlayerID, req.On); err != nil {
		return nil, err
	}
	return &domain.SetTVPowerResponse{}, nil
}

func (a *SignageActor) mediaControl(req domain.MediaControlRequest) (*domain.MediaControlResponse, error) {
	ctx, cancel := context.WithTimeout(context.Background(), signageRequestTimeout)
	defer cancel()
	if err := a.client.MediaControl(ctx, req.PlayerID, req.Action); err != nil {
		return nil, err
	}
	return &domain.MediaControlResponse{}, nil
}

func (a *SignageActor) playOnce(req domain.PlayOnceRequest) (*domain.PlayOnceResponse, error) {
	ctx, cancel := context.WithTimeout(context.Background(), signageRequestTimeout)
	defer cancel()
	if err := a.client.PlayPlaylistOnce(ctx, req.PlayerID, req.Playlist); err != nil {
		return nil, err
	}
	return &domain.PlayOnceResponse{}, nil
}

// runSignageTask runs fn off the actor goroutine, pipes the result (or the
// recovered error response) back to the original sender and parks the actor
// in WaitingSignage until the task lands.
func runSignageTask[T any](state *SignageActor, ctx actor.Context, fn func() (*T, error), onError func(error) T) {
	sender := ctx.Sender()
	actorutil.MapBackgroundTask(actorutil.NewBackgroundTask(ctx, fn),
		mapTaskResult[T](sender)).Recover(func(err error) backgroundTaskResult {
		return backgroundTaskResult{
			message: onError(err),
			replyTo: sender,
		}
	}).WithTimeout(signageRequestTimeout + time.Second).PipeTo(ctx.Self())
	state.behavior.BecomeStacked(state.WaitingSignage)
}

func errResponse(err error) domain.ActorResponseMixIn {
	return domain.ActorResponseMixIn{
		ResponseError: err,
	}
}

func mapTaskResult[T any](sender *actor.PID) func(t *T) *backgroundTaskResult {
	return func(t *T) *backgroundTaskResult {
		return &backgroundTaskResult{
			message: *t,
			replyTo: sender,
		}
	}
}
