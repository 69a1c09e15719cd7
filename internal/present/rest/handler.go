package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/zeebo/xxh3"

	"github.com/ravenridge/questforge/internal/domain"
	"github.com/ravenridge/questforge/internal/present/rest/middleware"
	"github.com/ravenridge/questforge/internal/present/rest/presenter"
	"github.com/ravenridge/questforge/internal/service"
	"github.com/ravenridge/questforge/internal/usecase"
)

type Handler struct {
	character *usecase.CharacterUsecase
	item      *usecase.ItemUsecase
	signal    *service.SignalService
}

func NewHandler(
	character *usecase.CharacterUsecase,
	item *usecase.ItemUsecase,
	signal *service.SignalService,
) *Handler {
	return &Handler{
		character: character,
		item:      item,
		signal:    signal,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo, auth *middleware.AuthMiddleware) {
	e.GET("/health", h.handleHealth)

	e.POST("/characters", h.handleCharacterCreate, auth.RequireIdentity)
	e.DELETE("/characters/:characterId", h.handleCharacterDelete, auth.RequireIdentity)
	e.GET("/characters/:characterId", h.handleCharacterGet)

	e.POST("/items", h.handleItemCreate)
	e.PATCH("/items/:itemCode", h.handleItemUpdate)
	e.GET("/items", h.handleItemList)
	e.GET("/items/:itemCode", h.handleItemGet)

	e.GET("/realtime", h.handleRealtime)
}

func (h *Handler) handleHealth(c echo.Context) error {
	return presenter.OK(c, echo.Map{"status": "ok"})
}

type characterNameRequest struct {
	Name string `json:"name"`
}

type itemRequest struct {
	Name  string          `json:"item_name"`
	Price int             `json:"item_price"`
	Stat  domain.ItemStat `json:"item_stat"`
}

func requesterID(c echo.Context) (int64, bool) {
	id, ok := c.Request().Context().Value(domain.RequesterIdCtxKey).(int64)
	return id, ok
}

// mapCharacterError translates domain errors onto the character API's
// response contract: validation failures answer 401 and a credential whose
// account vanished additionally clears the client-held credential.
func mapCharacterError(c echo.Context, err error) error {
	var identityErr domain.IdentityError
	switch {
	case errors.As(err, &identityErr):
		if identityErr.ClearCredential {
			return presenter.UnauthorizedClearCredential(c, "credential account does not exist")
		}
		return presenter.Unauthorized(c, "credential account does not exist")
	case errors.Is(err, domain.ErrCredential):
		return presenter.Unauthorized(c, "invalid credential")
	case errors.Is(err, domain.ErrValidation):
		return presenter.Unauthorized(c, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return presenter.Conflict(c, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return presenter.NotFound(c, "character not found")
	default:
		return presenter.InternalError(c, err)
	}
}

func (h *Handler) handleCharacterCreate(c echo.Context) error {
	ctx := c.Request().Context()

	accountID, ok := requesterID(c)
	if !ok {
		return presenter.Unauthorized(c, "credential required")
	}

	var req characterNameRequest
	err := c.Bind(&req)
	if err != nil {
		return presenter.BadRequest(c, err)
	}

	ch, err := h.character.Create(ctx, accountID, req.Name)
	if err != nil {
		return mapCharacterError(c, err)
	}

	return presenter.Created(c, echo.Map{"data": ch})
}

func (h *Handler) handleCharacterDelete(c echo.Context) error {
	ctx := c.Request().Context()

	accountID, ok := requesterID(c)
	if !ok {
		return presenter.Unauthorized(c, "credential required")
	}

	characterID, err := strconv.ParseInt(c.Param("characterId"), 10, 64)
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid character id")
	}

	var req characterNameRequest
	err = c.Bind(&req)
	if err != nil {
		return presenter.BadRequest(c, err)
	}

	err = h.character.Delete(ctx, accountID, characterID, req.Name)
	if err != nil {
		return mapCharacterError(c, err)
	}

	return presenter.OK(c, echo.Map{"message": "character deleted"})
}

func (h *Handler) handleCharacterGet(c echo.Context) error {
	ctx := c.Request().Context()

	characterID, err := strconv.ParseInt(c.Param("characterId"), 10, 64)
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid character id")
	}

	var rawCredential *string
	if authHeader := c.Request().Header.Get("Authorization"); authHeader != "" {
		rawCredential = &authHeader
	}

	view, err := h.character.Retrieve(ctx, characterID, rawCredential)
	if err != nil {
		return mapCharacterError(c, err)
	}

	return presenter.OK(c, echo.Map{"data": view})
}

func mapItemError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return presenter.Unauthorized(c, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return presenter.Conflict(c, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return presenter.NotFound(c, "item not found")
	default:
		return presenter.InternalError(c, err)
	}
}

func (h *Handler) handleItemCreate(c echo.Context) error {
	ctx := c.Request().Context()

	var req itemRequest
	err := c.Bind(&req)
	if err != nil {
		return presenter.BadRequest(c, err)
	}

	item, err := h.item.Create(ctx, req.Name, req.Price, req.Stat)
	if err != nil {
		return mapItemError(c, err)
	}

	return presenter.OK(c, echo.Map{"data": item})
}

func (h *Handler) handleItemUpdate(c echo.Context) error {
	ctx := c.Request().Context()

	code, err := strconv.ParseInt(c.Param("itemCode"), 10, 64)
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid item code")
	}

	var req itemRequest
	err = c.Bind(&req)
	if err != nil {
		return presenter.BadRequest(c, err)
	}

	item, err := h.item.Update(ctx, code, req.Name, req.Stat)
	if err != nil {
		return mapItemError(c, err)
	}

	return presenter.OK(c, echo.Map{"data": item})
}

func (h *Handler) handleItemList(c echo.Context) error {
	ctx := c.Request().Context()

	items, err := h.item.List(ctx)
	if err != nil {
		return presenter.InternalError(c, err)
	}

	body, err := json.Marshal(echo.Map{"data": items})
	if err != nil {
		return presenter.InternalError(c, err)
	}

	etag := fmt.Sprintf("\"%x\"", xxh3.Hash(body))
	if c.Request().Header.Get("If-None-Match") == etag {
		return c.NoContent(http.StatusNotModified)
	}
	c.Response().Header().Set("ETag", etag)

	return c.JSONBlob(http.StatusOK, body)
}

func (h *Handler) handleItemGet(c echo.Context) error {
	ctx := c.Request().Context()

	code, err := strconv.ParseInt(c.Param("itemCode"), 10, 64)
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid item code")
	}

	item, err := h.item.Get(ctx, code)
	if err != nil {
		return mapItemError(c, err)
	}

	return presenter.OK(c, echo.Map{"data": item})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (h *Handler) handleRealtime(c echo.Context) error {
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error(
			"Failed to upgrade WebSocket",
			slog.String("error", err.Error()),
			slog.String("module", "socket"),
		)
		return err
	}
	defer func() {
		ws.Close()
	}()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	events, stop := h.signal.Subscribe(ctx, domain.CharacterEventChannel)
	defer stop()

	go func() {
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				wsErr, ok := err.(*websocket.CloseError)
				if ok {
					if !(wsErr.Code == websocket.CloseNormalClosure || wsErr.Code == websocket.CloseGoingAway) {
						slog.DebugContext(
							ctx, "WebSocket closed",
							slog.String("error", wsErr.Error()),
							slog.String("module", "socket"),
						)
					}
				} else {
					slog.ErrorContext(
						ctx, "Error reading message",
						slog.String("error", err.Error()),
						slog.String("module", "socket"),
					)
				}

				cancel()
				return
			}
		}
	}()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if err := ws.WriteJSON(event); err != nil {
				slog.ErrorContext(
					ctx, "Error writing event",
					slog.String("error", err.Error()),
					slog.String("module", "socket"),
				)
				return nil
			}
		case <-ctx.Done():
			return nil
		}
	}
}
