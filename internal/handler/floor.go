package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"github.com/danyluis/restaurant-seating/internal/floor"
	"github.com/danyluis/restaurant-seating/internal/model"
	"github.com/danyluis/restaurant-seating/internal/queue"
	"github.com/danyluis/restaurant-seating/internal/repository"
	queue_publisher "github.com/danyluis/restaurant-seating/internal/service"
)

// TableStore is the slice of the table repository the layout-admin
// endpoints need.  *repository.TableRepo satisfies it; tests use an
// in-memory fake.
type TableStore interface {
	ListActive(ctx context.Context) ([]model.DiningTable, error)
	Create(ctx context.Context, t *model.DiningTable) error
	GetByID(ctx context.Context, id uint64) (*model.DiningTable, error)
	SetActive(ctx context.Context, id uint64, active bool) error
}

// FloorHandler exposes the seating engine over HTTP: party arrivals,
// departures and lookups plus floor snapshots and layout admin.  All
// live state sits behind the Desk; the table store only serves the
// persisted inventory.  JWT and role checks happen in middleware.
type FloorHandler struct {
	Desk   *floor.Desk
	Tables TableStore // nil when the service runs without a database
	// PublishEvents controls whether seating events go to the broker.
	// Disabled in tests.
	PublishEvents bool
}

// NewFloorHandler constructs a FloorHandler.  The desk must be non-nil.
func NewFloorHandler(desk *floor.Desk, tables TableStore, publish bool) *FloorHandler {
	if desk == nil {
		panic("nil desk passed to NewFloorHandler")
	}
	return &FloorHandler{Desk: desk, Tables: tables, PublishEvents: publish}
}

// ----- DTOs -----

type arriveReq struct {
	Size int `json:"size"`
}

type tablePart struct {
	ID    uint64 `json:"id"`
	Seats int    `json:"seats"`
}

type partyResp struct {
	PartyID string     `json:"party_id"`
	Size    int        `json:"size"`
	Status  string     `json:"status"` // "seated" | "waiting"
	Table   *tablePart `json:"table,omitempty"`
}

type tableStatusResp struct {
	ID        uint64 `json:"id"`
	Seats     int    `json:"seats"`
	PartyID   string `json:"party_id,omitempty"`
	PartySize int    `json:"party_size,omitempty"`
}

func toPartyResp(st floor.PartyStatus) partyResp {
	resp := partyResp{PartyID: st.PartyID, Size: st.Size, Status: "waiting"}
	if st.Seated {
		resp.Status = "seated"
		resp.Table = &tablePart{ID: st.Table.ID, Seats: st.Table.Seats}
	}
	return resp
}

// Arrive handles POST /v1/parties.  The body carries the party size; the
// response reports whether the party was seated immediately or joined
// the waitlist, and under which id it can be located later.
func (h *FloorHandler) Arrive(c echo.Context) error {
	var req arriveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	st, err := h.Desk.Arrive(req.Size)
	if err != nil {
		if errors.Is(err, floor.ErrInvalidPartySize) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "size must be at least 1"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "seating failed"})
	}
	if st.Seated {
		h.publishSeated(c, floor.Seating{Group: &floor.Group{ID: st.PartyID, Size: st.Size}, Table: st.Table}, false)
	}
	return c.JSON(http.StatusCreated, toPartyResp(st))
}

// Leave handles DELETE /v1/parties/:id.  Only seated parties can leave:
// an unknown id is 404 and a party still on the waitlist is 409, since
// that is a contract violation rather than a departure.
func (h *FloorHandler) Leave(c echo.Context) error {
	id := c.Param("id")
	vacated, promoted, err := h.Desk.Leave(id)
	if err != nil {
		switch {
		case errors.Is(err, floor.ErrUnknownParty):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown party"})
		case errors.Is(err, floor.ErrNotSeated):
			return c.JSON(http.StatusConflict, echo.Map{"error": "party is still waiting"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "leave failed"})
		}
	}
	if h.PublishEvents {
		_ = queue_publisher.PublishPartyLeft(c.Request().Context(), queue.PartyLeftEvent{
			PartyID: vacated.Group.ID,
			TableID: vacated.Table.ID,
			LeftAt:  time.Now().UTC().Format(time.RFC3339),
		})
	}
	for _, s := range promoted {
		h.publishSeated(c, s, true)
	}
	return c.NoContent(http.StatusNoContent)
}

// Locate handles GET /v1/parties/:id.  It is a pure query: waiting,
// departed and unknown parties all yield the same "not seated" answer.
func (h *FloorHandler) Locate(c echo.Context) error {
	id := c.Param("id")
	t, ok := h.Desk.Locate(id)
	var tab *tablePart
	if ok {
		tab = &tablePart{ID: t.ID, Seats: t.Seats}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"party_id": id,
		"seated":   ok,
		"table":    tab,
	})
}

// Floor handles GET /v1/floor: every table with its occupant plus the
// waitlist in arrival order.
func (h *FloorHandler) Floor(c echo.Context) error {
	snap := h.Desk.Floor()
	tables := lo.Map(snap.Tables, func(ts floor.TableStatus, _ int) tableStatusResp {
		return tableStatusResp{
			ID:        ts.Table.ID,
			Seats:     ts.Table.Seats,
			PartyID:   ts.PartyID,
			PartySize: ts.PartySize,
		}
	})
	waitlist := lo.Map(snap.Waitlist, func(p floor.PartyStatus, _ int) partyResp {
		return partyResp{PartyID: p.PartyID, Size: p.Size, Status: "waiting"}
	})
	return c.JSON(http.StatusOK, echo.Map{
		"tables":      tables,
		"waitlist":    waitlist,
		"free_tables": snap.Free,
	})
}

// Waitlist handles GET /v1/waitlist: the waiting parties in arrival
// order, suitable for a lobby display.
func (h *FloorHandler) Waitlist(c echo.Context) error {
	waitlist := lo.Map(h.Desk.Waitlist(), func(p floor.PartyStatus, _ int) partyResp {
		return partyResp{PartyID: p.PartyID, Size: p.Size, Status: "waiting"}
	})
	return c.JSON(http.StatusOK, echo.Map{"waitlist": waitlist})
}

// ListTables handles GET /v1/floor/tables: the persisted inventory, not
// the live floor.
func (h *FloorHandler) ListTables(c echo.Context) error {
	if h.Tables == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "layout store unavailable"})
	}
	tables, err := h.Tables.ListActive(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"tables": tables})
}

// CreateTable handles POST /v1/floor/tables.  New tables join the
// persisted inventory only; the engine's table set is fixed for its
// lifetime, so the change takes effect on the next restart.
func (h *FloorHandler) CreateTable(c echo.Context) error {
	if h.Tables == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "layout store unavailable"})
	}
	var body struct {
		Label string `json:"label"`
		Seats int    `json:"seats"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if body.Seats < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seats must not be negative"})
	}
	if body.Label == "" {
		// Random suffix: a timestamp would collide for tables created
		// within the same second.
		body.Label = "table-" + uuid.NewString()[:8]
	}
	t := model.DiningTable{Label: body.Label, Seats: body.Seats, IsActive: true}
	if err := h.Tables.Create(c.Request().Context(), &t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create table failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"table": t,
		"note":  "floor plan changes take effect at next startup",
	})
}

// DecommissionTable handles DELETE /v1/floor/tables/:id.  The table is
// deactivated in the inventory, not removed from the running engine:
// the engine's table set is fixed for its lifetime, so the table
// disappears from the floor at the next restart.  Returns 404 when no
// such table exists.
func (h *FloorHandler) DecommissionTable(c echo.Context) error {
	if h.Tables == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "layout store unavailable"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	ctx := c.Request().Context()
	t, err := h.Tables.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := h.Tables.SetActive(ctx, t.ID, false); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "decommission failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"table": t,
		"note":  "floor plan changes take effect at next startup",
	})
}

func (h *FloorHandler) publishSeated(c echo.Context, s floor.Seating, promoted bool) {
	if !h.PublishEvents {
		return
	}
	_ = queue_publisher.PublishPartySeated(c.Request().Context(), queue.PartySeatedEvent{
		PartyID:    s.Group.ID,
		PartySize:  s.Group.Size,
		TableID:    s.Table.ID,
		TableSeats: s.Table.Seats,
		Promoted:   promoted,
		SeatedAt:   time.Now().UTC().Format(time.RFC3339),
	})
}
