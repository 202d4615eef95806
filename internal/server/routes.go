package server

import (
	"net/http"
	"time"

	"pisignage2mqtt/internal/core/domain"
	"pisignage2mqtt/pkg/pisignage"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	if s.httpLog {
		e.Use(middleware.Logger())
	}
	e.Use(middleware.Recover())

	e.GET("/healthcheck", s.HealthCheckHandler)
	e.GET("/players", s.PlayersHandler)
	e.POST("/players/:id/playlist", s.PlayPlaylistHandler)
	e.POST("/players/:id/tv", s.TVPowerHandler)
	e.POST("/automations/:name/trigger", s.TriggerAutomationHandler)

	return e
}

type playerView struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	State           string `json:"state"`
	CurrentPlaylist string `json:"current_playlist,omitempty"`
	TVStatus        bool   `json:"tv_status"`
	Available       bool   `json:"available"`
}

type playPlaylistBody struct {
	Playlist string `json:"playlist"`
	Once     bool   `json:"once,omitempty"`
}

type tvPowerBody struct {
	On bool `json:"on"`
}

func (s *Server) HealthCheckHandler(c echo.Context) error {
	res, err := s.rootContext.RequestFuture(s.masterActor, domain.ActorHealthRequest{}, 10*time.Second).Result()
	if err != nil {
		return c.String(http.StatusServiceUnavailable, "health_check: FAIL")
	}
	if response, ok := res.(domain.ActorHealthResponse); ok && response.Healthy {
		return c.String(http.StatusOK, "health_check: OK")
	}
	return c.String(http.StatusServiceUnavailable, "health_check: FAIL")
}

// PlayersHandler returns the poller's cached snapshot, never hitting the
// signage server directly.
func (s *Server) PlayersHandler(c echo.Context) error {
	res, err := s.rootContext.RequestFuture(s.masterActor, domain.GetCachedPlayersRequest{}, 10*time.Second).Result()
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
	}
	response, ok := res.(domain.GetCachedPlayersResponse)
	if !ok || response.HasResponseError() {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "players unavailable"})
	}
	views := make([]playerView, 0, len(response.Players))
	for _, snapshot := range response.Players {
		views = append(views, playerView{
			ID:              snapshot.Player.ID,
			Name:            snapshot.Player.Name,
			State:           string(snapshot.State),
			CurrentPlaylist: snapshot.Player.CurrentPlaylist,
			TVStatus:        snapshot.Player.TVStatus,
			Available:       snapshot.Available,
		})
	}
	return c.JSON(http.StatusOK, views)
}

func (s *Server) PlayPlaylistHandler(c echo.Context) error {
	playerID := c.Param("id")
	var body playPlaylistBody
	if err := c.Bind(&body); err != nil || body.Playlist == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "playlist is required"})
	}
	if body.Playlist == pisignage.TVOffPlaylist {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "reserved playlist"})
	}
	var req any
	if body.Once {
		req = domain.PlayOnceRequest{PlayerID: playerID, Playlist: body.Playlist}
	} else {
		req = domain.SelectPlaylistRequest{PlayerID: playerID, Playlist: body.Playlist}
	}
	res, err := s.rootContext.RequestFuture(s.masterActor, req, 30*time.Second).Result()
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
	}
	if response, ok := res.(domain.ActorResponse); ok && response.HasResponseError() {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": response.GetResponseError().Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) TVPowerHandler(c echo.Context) error {
	playerID := c.Param("id")
	var body tvPowerBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid body"})
	}
	res, err := s.rootContext.RequestFuture(s.masterActor, domain.SetTVPowerRequest{
		PlayerID: playerID,
		On:       body.On,
	}, 30*time.Second).Result()
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
	}
	if response, ok := res.(domain.ActorResponse); ok && response.HasResponseError() {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": response.GetResponseError().Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) TriggerAutomationHandler(c echo.Context) error {
	name := c.Param("name")
	res, err := s.rootContext.RequestFuture(s.masterActor, domain.TriggerAutomationRequest{Name: name}, 10*time.Second).Result()
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
	}
	if response, ok := res.(domain.TriggerAutomationResponse); ok && response.HasResponseError() {
		return c.JSON(http.StatusNotFound, map[string]string{"error": response.GetResponseError().Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "triggered"})
}
