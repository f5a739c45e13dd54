package httpserver

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/pokeru-app/backend/internal/logging"
	"github.com/pokeru-app/backend/internal/service"
	"github.com/pokeru-app/backend/internal/transport"
	"github.com/pokeru-app/backend/internal/util"
)

type GameHTTP struct {
	Svc *service.GameService
}

func gameUID(c echo.Context) (uuid.UUID, error) {
	uid, err := uuid.Parse(c.Param("uid"))
	if err != nil {
		return uuid.Nil, detailError(http.StatusBadRequest, "invalid game uid")
	}
	return uid, nil
}

func (h *GameHTTP) List(c echo.Context) error {
	games, err := h.Svc.ListGames(c.Request().Context())
	if err != nil {
		return businessError(err)
	}
	return c.JSON(http.StatusOK, games)
}

func (h *GameHTTP) Get(c echo.Context) error {
	uid, err := gameUID(c)
	if err != nil {
		return err
	}

	game, err := h.Svc.GetGame(c.Request().Context(), uid)
	if err != nil {
		return businessError(err)
	}
	return c.JSON(http.StatusOK, game)
}

func (h *GameHTTP) Create(c echo.Context) error {
	var req transport.GameCreateRequest
	if err := c.Bind(&req); err != nil {
		return detailError(http.StatusBadRequest, "invalid body")
	}

	game, err := h.Svc.CreateGame(c.Request().Context(), req)
	if err != nil {
		return businessError(err)
	}
	return c.JSON(http.StatusCreated, game)
}

func (h *GameHTTP) Update(c echo.Context) error {
	uid, err := gameUID(c)
	if err != nil {
		return err
	}

	var req transport.GameUpdateRequest
	if err := c.Bind(&req); err != nil {
		return detailError(http.StatusBadRequest, "invalid body")
	}

	game, err := h.Svc.UpdateGame(c.Request().Context(), uid, req)
	if err != nil {
		return businessError(err)
	}
	return c.JSON(http.StatusOK, game)
}

func (h *GameHTTP) Delete(c echo.Context) error {
	uid, err := gameUID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.DeleteGame(c.Request().Context(), uid); err != nil {
		return businessError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *GameHTTP) Search(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return detailError(http.StatusBadRequest, "missing query")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	from, size := util.Calculate(page, size)

	ctx := c.Request().Context()
	total, games, err := h.Svc.SearchGames(ctx, q, from, size)
	if err != nil {
		logging.FromContext(ctx).Error("game search failed", "error", err)
		return detailError(http.StatusInternalServerError, "search failed")
	}

	return c.JSON(http.StatusOK, echo.Map{"total": total, "games": games})
}
