package actor

import (
	"context"
	"testing"
	"time"

	"pisignage2mqtt/internal/core/domain"
	"pisignage2mqtt/internal/util/actorutil"
	"pisignage2mqtt/pkg/pisignage"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestGetPlayersSignageActor(t *testing.T) {

	assert := assert.New(t)

	logger := zap.Must(zap.NewDevelopment())

	as := actorutil.NewActorSystemWithZapLogger(logger)
	rootContext := as.Root

	props := actor.PropsFromProducer(func() actor.Actor { return NewSignageActor(pisignage.NewTestAPI(), "", logger) })
	pid := rootContext.Spawn(props)

	time.Sleep(1 * time.Second)

	msg := domain.GetPlayersRequest{}
	result, err := rootContext.RequestFuture(pid, msg, 15*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp := result.(domain.GetPlayersResponse)

	assert.False(resp.HasResponseError())
	assert.Len(resp.Players, 2)
	assert.Equal(resp.Players[0].ID, "pl1", "player id")
	assert.Equal(resp.Players[0].Name, "Lobby Screen", "player name")
	assert.Equal(resp.Players[1].ID, "pl2", "player id")

	rootContext.Stop(pid)

	as.Shutdown()
}

func TestSelectPlaylistSignageActor(t *testing.T) {

	assert := assert.New(t)

	logger := zap.Must(zap.NewDevelopment())

	client := pisignage.NewTestAPI()

	as := actorutil.NewActorSystemWithZapLogger(logger)
	rootContext := as.Root

	props := actor.PropsFromProducer(func() actor.Actor { return NewSignageActor(client, "", logger) })
	pid := rootContext.Spawn(props)

	time.Sleep(1 * time.Second)

	msg := domain.SelectPlaylistRequest{PlayerID: "pl1", Playlist: "promo"}
	result, err := rootContext.RequestFuture(pid, msg, 15*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp := result.(domain.SelectPlaylistResponse)
	assert.False(resp.HasResponseError())

	player, err := client.GetPlayer(context.Background(), "pl1")
	if err != nil {
		t.Error(err)
		return
	}
	assert.Equal(player.CurrentPlaylist, "promo", "deployed playlist")

	// the reserved playlist never deploys to a group
	msg = domain.SelectPlaylistRequest{PlayerID: "pl1", Playlist: pisignage.TVOffPlaylist}
	result, err = rootContext.RequestFuture(pid, msg, 15*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp = result.(domain.SelectPlaylistResponse)
	assert.True(resp.HasResponseError(), "reserved playlist rejected")

	rootContext.Stop(pid)

	as.Shutdown()
}

func TestSetTVPowerSignageActor(t *testing.T) {

	assert := assert.New(t)

	logger := zap.Must(zap.NewDevelopment())

	client := pisignage.NewTestAPI()

	as := actorutil.NewActorSystemWithZapLogger(logger)
	rootContext := as.Root

	props := actor.PropsFromProducer(func() actor.Actor { return NewSignageActor(client, "", logger) })
	pid := rootContext.Spawn(props)

	time.Sleep(1 * time.Second)

	msg := domain.SetTVPowerRequest{PlayerID: "pl2", On: true}
	result, err := rootContext.RequestFuture(pid, msg, 15*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp := result.(domain.SetTVPowerResponse)
	assert.False(resp.HasResponseError())

	player, err := client.GetPlayer(context.Background(), "pl2")
	if err != nil {
		t.Error(err)
		return
	}
	assert.True(player.TVStatus, "tv powered on")

	rootContext.Stop(pid)

	as.Shutdown()
}
