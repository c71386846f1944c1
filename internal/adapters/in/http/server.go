// Package http exposes the order engine over a JSON REST API.
package http

import (
	"errors"
	"net/http"

	"oshxona/internal/core/application/usecases/commands"
	"oshxona/internal/core/application/usecases/queries"
	"oshxona/internal/core/domain/model/branch"
	"oshxona/internal/core/domain/model/inventory"
	"oshxona/internal/core/domain/model/kernel"
	"oshxona/internal/core/domain/model/order"
	"oshxona/internal/core/domain/services"
	"oshxona/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	placeOrderHandler      commands.PlaceOrderCommandHandler
	transitionOrderHandler commands.TransitionOrderCommandHandler
	checkInHandler         commands.CheckInCommandHandler
	createZoneHandler      commands.CreateZoneCommandHandler
	reserveHandler         commands.ReserveInventoryCommandHandler
	courierLocationHandler commands.ReportCourierLocationCommandHandler

	// Query handlers
	getOrderHandler        queries.GetOrderQueryHandler
	getBranchOrdersHandler queries.GetBranchOrdersQueryHandler
	resolveBranchHandler   queries.ResolveBranchQueryHandler
}

// NewServer creates an HTTP server with the required command and query handlers.
func NewServer(
	placeOrderHandler commands.PlaceOrderCommandHandler,
	transitionOrderHandler commands.TransitionOrderCommandHandler,
	checkInHandler commands.CheckInCommandHandler,
	createZoneHandler commands.CreateZoneCommandHandler,
	reserveHandler commands.ReserveInventoryCommandHandler,
	courierLocationHandler commands.ReportCourierLocationCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	getBranchOrdersHandler queries.GetBranchOrdersQueryHandler,
	resolveBranchHandler queries.ResolveBranchQueryHandler,
) *Server {
	return &Server{
		placeOrderHandler:      placeOrderHandler,
		transitionOrderHandler: transitionOrderHandler,
		checkInHandler:         checkInHandler,
		createZoneHandler:      createZoneHandler,
		reserveHandler:         reserveHandler,
		courierLocationHandler: courierLocationHandler,
		getOrderHandler:        getOrderHandler,
		getBranchOrdersHandler: getBranchOrdersHandler,
		resolveBranchHandler:   resolveBranchHandler,
	}
}

// RegisterRoutes attaches all REST routes under /api/v1.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.POST("/orders", s.PlaceOrder)
	api.GET("/orders/:code", s.GetOrder)
	api.POST("/orders/:code/status", s.UpdateOrderStatus)
	api.POST("/orders/:code/checkin", s.CheckIn)
	api.GET("/branches/:id/orders", s.GetBranchOrders)
	api.POST("/branches/:id/zones", s.CreateZone)
	api.POST("/branches/resolve", s.ResolveBranch)
	api.POST("/inventory/reserve", s.ReserveInventory)
	api.POST("/couriers/location", s.ReportCourierLocation)
}

// ErrorResponse is the JSON body returned for every failed request.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func errorJSON(ctx echo.Context, status int, err error) error {
	return ctx.JSON(status, ErrorResponse{Code: status, Message: err.Error()})
}

// statusFor maps domain errors onto HTTP status codes. Anything unrecognized
// is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrNotServiceable),
		errors.Is(err, commands.ErrBranchIsInactive):
		return http.StatusUnprocessableEntity
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrCheckInNotSupported),
		errors.Is(err, inventory.ErrReservationRejected):
		return http.StatusConflict
	case errors.Is(err, branch.ErrMalformedZone),
		errors.Is(err, commands.ErrCartIsEmpty),
		errors.Is(err, commands.ErrCoordinateRequired),
		errors.Is(err, commands.ErrBranchRequired),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// CartItemRequest is one line of a submitted cart.
type CartItemRequest struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

// PlaceOrderRequest is the body of POST /api/v1/orders.
type PlaceOrderRequest struct {
	CustomerID    string            `json:"customer_id"`
	OrderType     string            `json:"order_type"`
	PaymentMethod string            `json:"payment_method"`
	Items         []CartItemRequest `json:"items"`

	Address   string   `json:"address,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	BranchID  string   `json:"branch_id,omitempty"`

	TableNumber          string `json:"table_number,omitempty"`
	ArrivalOffsetMinutes int    `json:"arrival_offset_minutes,omitempty"`
}

// PlaceOrderResponse is the body returned for a placed order.
type PlaceOrderResponse struct {
	OrderID            string   `json:"order_id"`
	Code               string   `json:"code"`
	BranchID           string   `json:"branch_id"`
	Status             string   `json:"status"`
	Subtotal           int64    `json:"subtotal"`
	DeliveryFee        int64    `json:"delivery_fee"`
	Total              int64    `json:"total"`
	EtaMinutes         int      `json:"eta_minutes,omitempty"`
	FailedReservations []string `json:"failed_reservations,omitempty"`
}

// PlaceOrder handles POST /api/v1/orders.
func (s *Server) PlaceOrder(ctx echo.Context) error {
	var req PlaceOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, errors.New("invalid request body"))
	}

	customerID, err := kernel.UUIDFromString(req.CustomerID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err)
	}
	orderType, err := order.OrderTypeFromString(req.OrderType)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err)
	}

	items := make([]commands.CartItem, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := kernel.UUIDFromString(item.ProductID)
		if err != nil {
			return errorJSON(ctx, http.StatusBadRequest, err)
		}
		items = append(items, commands.CartItem{
			ProductID: productID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	params := commands.PlaceOrderCommandParams{
		Address:              req.Address,
		TableNumber:          req.TableNumber,
		ArrivalOffsetMinutes: req.ArrivalOffsetMinutes,
	}
	if req.Latitude != nil && req.Longitude != nil {
		location, err := kernel.NewLocation(*req.Latitude, *req.Longitude)
		if err != nil {
			return errorJSON(ctx, http.StatusBadRequest, err)
		}
		params.Location = &location
	}
	if req.BranchID != "" {
		branchID, err := kernel.UUIDFromString(req.BranchID)
		if err != nil {
			return errorJSON(ctx, http.StatusBadRequest, err)
		}
		params.BranchID = &branchID
	}

	cmd, err := commands.NewPlaceOrderCommand(
		kernel.NewUUID(),
		customerID,
		orderType,
		order.PaymentMethod(req.PaymentMethod),
		items,
		params,
	)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err)
	}

	result, err := s.placeOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return errorJSON(ctx, statusFor(err), err)
	}

	failed := make([]string, 0, len(result.FailedReservations))
	for _, productID := range result.FailedReservations {
		failed = append(failed, productID.String())
	}

	return ctx.JSON(http.StatusCreated, PlaceOrderResponse{
		OrderID:            result.OrderID.String(),
		Code:               result.Code,
		BranchID:           result.BranchID.String(),
		Status:             result.Status.String(),
		Subtotal:           result.Subtotal,
		DeliveryFee:        result.DeliveryFee,
		Total:              result.Total,
		EtaMinutes:         result.EtaMinutes,
		FailedReservations: failed,
	})
}

// UpdateOrderStatusRequest is the body of POST /api/v1/orders/:code/status.
type UpdateOrderStatusRequest struct {
	Status    string `json:"status"`
	ActorKind string `json:"actor_kind"`
	ActorID   string `json:"actor_id,omitempty"`
	Note      string `json:"note,omitempty"`
	CourierID string `json:"courier_id,omitempty"`
}

// UpdateOrderStatus handles POST /api/v1/orders/:code/status.
func (s *Server) UpdateOrderStatus(ctx echo.Context) error {
	var req UpdateOrderStatusRequest
	if err := ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, errors.New("invalid request body"))
	}

	target, err := order.StatusFromString(req.Status)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err)
	}

	var courierID *kernel.UUID
	if req.CourierID != "" {
		id, err := kernel.UUIDFromString(req.CourierID)
		if err != nil {
			return errorJSON(ctx, http.StatusBadRequest, err)
		}
		courierID = &id
	}

	cmd, err := commands.NewTransitionOrderCommand(
		ctx.Param("code"),
		target,
		order.Actor{Kind: order.ActorKind(req.ActorKind), ID: req.ActorID},
		req.Note,
		courierID,
	)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err)
	}

	if err := s.transitionOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorJSON(ctx, statusFor(err), err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CheckInRequest is the body of POST /api/v1/orders/:code/checkin.
type CheckInRequest struct {
	TableNumber string `json:"table_number"`
	CustomerID  string `json:"customer_id"`
}

// CheckIn handles POST /api/v1/orders/:code/checkin.
func (s *Server) CheckIn(ctx echo.Context) error {
	var req CheckInRequest
	if err := ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, errors.New("invalid request body"))
	}

	cmd, err := commands.NewCheckInCommand(
		ctx.Param("code"),
		req.TableNumber,
		order.Actor{Kind: order.ActorCustomer, ID: req.CustomerID},
	)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err)
	}

	if err := s.checkInHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorJSON(ctx, statusFor(err), err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetOrder handles GET /api/v1/orders/:code.
func (s *Server) GetOrder(ctx echo.Context) error {
	query, err := queries.NewGetOrderQuery(ctx.Param("code"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err)
	}

	response, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorJSON(ctx, statusFor(err), err)
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetBranchOrders handles GET /api/v1/branches/:id/orders.
func (s *Server) GetBranchOrders(ctx echo.Context) error {
	branchID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err)
	}

	query, err := queries.NewGetBranchOrdersQuery(branchID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err)
	}

	orders, err := s.getBranchOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorJSON(ctx, statusFor(err), err)
	}

	return ctx.JSON(http.StatusOK, orders)
}

// VertexRequest is one polygon vertex in zone creation requests.
type VertexRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CreateZoneRequest is the body of POST /api/v1/branches/:id/zones.
type CreateZoneRequest struct {
	Name               string          `json:"name"`
	Vertices           []VertexRequest `json:"vertices"`
	DeliveryFee        int64           `json:"delivery_fee"`
	FreeDeliveryAmount int64           `json:"free_delivery_amount"`
	MinOrderAmount     int64           `json:"min_order_amount"`
}

// CreateZone handles POST /api/v1/branches/:id/zones.
func (s *Server) CreateZone(ctx echo.Context) error {
	branchID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err)
	}

	var req CreateZoneRequest
	if err := ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, errors.New("invalid request body"))
	}

	vertices := make([]kernel.Location, 0, len(req.Vertices))
	for _, v := range req.Vertices {
		location, err := kernel.NewLocation(v.Latitude, v.Longitude)
		if err != nil {
			return errorJSON(ctx, http.StatusBadRequest, err)
		}
		vertices = append(vertices, location)
	}

	zoneID := kernel.NewUUID()
	cmd, err := commands.NewCreateZoneCommand(
		zoneID,
		branchID,
		req.Name,
		vertices,
		req.DeliveryFee,
		req.FreeDeliveryAmount,
		req.MinOrderAmount,
	)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err)
	}

	if err := s.createZoneHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorJSON(ctx, statusFor(err), err)
	}

	return ctx.JSON(http.StatusCreated, map[string]string{"zone_id": zoneID.String()})
}

// ResolveBranchRequest is the body of POST /api/v1/branches/resolve.
type ResolveBranchRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Subtotal  int64   `json:"subtotal,omitempty"`
}

// ResolveBranch handles POST /api/v1/branches/resolve.
func (s *Server) ResolveBranch(ctx echo.Context) error {
	var req ResolveBranchRequest
	if err := ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, errors.New("invalid request body"))
	}

	location, err := kernel.NewLocation(req.Latitude, req.Longitude)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err)
	}

	query, err := queries.NewResolveBranchQuery(location, req.Subtotal)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err)
	}

	response, err := s.resolveBranchHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorJSON(ctx, statusFor(err), err)
	}

	return ctx.JSON(http.StatusOK, response)
}

// ReserveInventoryRequest is the body of POST /api/v1/inventory/reserve.
type ReserveInventoryRequest struct {
	BranchID  string `json:"branch_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// ReserveInventoryResponse reports the counter state after a reservation.
type ReserveInventoryResponse struct {
	SoldToday int `json:"sold_today"`
}

// ReserveInventory handles POST /api/v1/inventory/reserve.
func (s *Server) ReserveInventory(ctx echo.Context) error {
	var req ReserveInventoryRequest
	if err := ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, errors.New("invalid request body"))
	}

	branchID, err := kernel.UUIDFromString(req.BranchID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err)
	}
	productID, err := kernel.UUIDFromString(req.ProductID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err)
	}

	cmd, err := commands.NewReserveInventoryCommand(branchID, productID, req.Quantity)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err)
	}

	reservation, err := s.reserveHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return errorJSON(ctx, statusFor(err), err)
	}

	return ctx.JSON(http.StatusOK, ReserveInventoryResponse{SoldToday: reservation.SoldToday})
}

// CourierLocationRequest is the body of POST /api/v1/couriers/location.
type CourierLocationRequest struct {
	CourierID string  `json:"courier_id"`
	BranchID  string  `json:"branch_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ReportCourierLocation handles POST /api/v1/couriers/location.
func (s *Server) ReportCourierLocation(ctx echo.Context) error {
	var req CourierLocationRequest
	if err := ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, errors.New("invalid request body"))
	}

	courierID, err := kernel.UUIDFromString(req.CourierID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err)
	}
	branchID, err := kernel.UUIDFromString(req.BranchID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err)
	}
	location, err := kernel.NewLocation(req.Latitude, req.Longitude)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err)
	}

	cmd, err := commands.NewReportCourierLocationCommand(courierID, branchID, location)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err)
	}

	if err := s.courierLocationHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorJSON(ctx, statusFor(err), err)
	}

	return ctx.NoContent(http.StatusAccepted)
}
