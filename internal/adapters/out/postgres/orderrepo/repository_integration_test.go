package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"oshxona/internal/adapters/out/postgres/orderrepo"
	"oshxona/internal/core/domain/model/kernel"
	"oshxona/internal/core/domain/model/order"
	"oshxona/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	m.Called(id, aggregate)
}

// OrderRepositoryIntegrationTestSuite provides integration tests for the
// order repository using PostgreSQL containers to verify persistence of the
// aggregate together with its line items and status history.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.ItemDTO{},
		&orderrepo.HistoryDTO{},
	))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec(
		"TRUNCATE TABLE orders, order_items, order_status_history").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) createTestOrder(orderType order.OrderType) *order.Order {
	id := kernel.NewUUID()

	plov, err := order.NewItem(kernel.NewUUID(), "Plov", 2, 40000)
	suite.Require().NoError(err)
	tea, err := order.NewItem(kernel.NewUUID(), "Green tea", 1, 10000)
	suite.Require().NoError(err)

	testOrder, err := order.NewOrder(
		id,
		order.CodeFromUUID(id),
		kernel.NewUUID(),
		orderType,
		order.PaymentCash,
		[]order.Item{plov, tea},
	)
	suite.Require().NoError(err)

	return testOrder
}

func (suite *OrderRepositoryIntegrationTestSuite) assertOrderCount(expected int64) {
	var count int64
	suite.Require().NoError(suite.db.Model(&orderrepo.OrderDTO{}).Count(&count).Error)
	suite.Equal(expected, count)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_ValidOrder_Success() {
	ctx := context.Background()

	testOrder := suite.createTestOrder(order.TypePickup)
	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()

	err := suite.repository.Add(ctx, testOrder)
	suite.Require().NoError(err)

	suite.assertOrderCount(1)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetByCode_RoundTripsItemsAndHistory() {
	ctx := context.Background()

	original := suite.createTestOrder(order.TypeDelivery)
	branchID := kernel.NewUUID()
	location, err := kernel.NewLocation(41.30, 69.25)
	suite.Require().NoError(err)
	suite.Require().NoError(original.SetDeliveryDetails("Amir Temur 12", &location))
	suite.Require().NoError(original.AssignBranch(branchID))
	eta := time.Now().UTC().Add(35 * time.Minute)
	suite.Require().NoError(original.SetDeliveryQuote(15000, 4.2, eta))

	suite.tracker.On("TrackAggregate", original.ID(), original).Once()
	suite.Require().NoError(suite.repository.Add(ctx, original))

	retrieved, err := suite.repository.GetByCode(ctx, original.Code())
	suite.Require().NoError(err)

	suite.Equal(original.ID(), retrieved.ID())
	suite.Equal(original.Code(), retrieved.Code())
	suite.Equal(order.TypeDelivery, retrieved.Type())
	suite.Equal(order.Pending, retrieved.Status())
	suite.Require().NotNil(retrieved.BranchID())
	suite.Equal(branchID, *retrieved.BranchID())
	suite.Equal(int64(90000), retrieved.Subtotal())
	suite.Equal(int64(15000), retrieved.DeliveryFee())
	suite.Equal(int64(105000), retrieved.Total())
	suite.Equal("Amir Temur 12", retrieved.Address())
	suite.InDelta(4.2, retrieved.DistanceKm(), 0.0001)
	suite.Require().NotNil(retrieved.EtaAt())

	suite.Require().Len(retrieved.Items(), 2)
	suite.Equal("Plov", retrieved.Items()[0].Name())
	suite.Equal(2, retrieved.Items()[0].Quantity())
	suite.Equal("Green tea", retrieved.Items()[1].Name())

	suite.Require().Len(retrieved.History(), 1)
	suite.Equal(order.Pending, retrieved.History()[0].Status)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_AppendsHistoryOnTransition() {
	ctx := context.Background()

	testOrder := suite.createTestOrder(order.TypePickup)
	suite.Require().NoError(testOrder.AssignBranch(kernel.NewUUID()))

	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	staff := order.Actor{Kind: order.ActorStaff, ID: "staff-1"}
	suite.Require().NoError(testOrder.TransitionTo(order.Confirmed, staff, "accepted"))
	suite.Require().NoError(testOrder.TransitionTo(order.Preparing, staff, ""))

	suite.Require().NoError(suite.repository.Update(ctx, testOrder))

	retrieved, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Preparing, retrieved.Status())
	suite.Require().Len(retrieved.History(), 3)
	suite.Equal(order.Pending, retrieved.History()[0].Status)
	suite.Equal(order.Confirmed, retrieved.History()[1].Status)
	suite.Equal(order.Preparing, retrieved.History()[2].Status)
	suite.Equal("accepted", retrieved.History()[1].Note)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_IsIdempotentOnHistory() {
	ctx := context.Background()

	testOrder := suite.createTestOrder(order.TypePickup)
	suite.Require().NoError(testOrder.AssignBranch(kernel.NewUUID()))

	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	staff := order.Actor{Kind: order.ActorStaff, ID: "staff-1"}
	suite.Require().NoError(testOrder.TransitionTo(order.Confirmed, staff, ""))

	suite.Require().NoError(suite.repository.Update(ctx, testOrder))
	suite.Require().NoError(suite.repository.Update(ctx, testOrder))

	retrieved, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Len(retrieved.History(), 2)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NonExistentOrder_ReturnsNotFoundError() {
	ctx := context.Background()

	retrieved, err := suite.repository.Get(ctx, kernel.NewUUID())

	suite.Require().Error(err)
	suite.Nil(retrieved)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetByCode_NonExistentOrder_ReturnsNotFoundError() {
	ctx := context.Background()

	retrieved, err := suite.repository.GetByCode(ctx, "ORD-DEADBEEF")

	suite.Require().Error(err)
	suite.Nil(retrieved)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetActiveByBranch_ExcludesTerminalOrders() {
	ctx := context.Background()
	branchID := kernel.NewUUID()
	staff := order.Actor{Kind: order.ActorStaff, ID: "staff-1"}

	active := suite.createTestOrder(order.TypePickup)
	suite.Require().NoError(active.AssignBranch(branchID))

	cancelled := suite.createTestOrder(order.TypePickup)
	suite.Require().NoError(cancelled.AssignBranch(branchID))
	suite.Require().NoError(cancelled.TransitionTo(order.Cancelled, staff, "customer call"))

	other := suite.createTestOrder(order.TypePickup)
	suite.Require().NoError(other.AssignBranch(kernel.NewUUID()))

	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	for _, o := range []*order.Order{active, cancelled, other} {
		suite.Require().NoError(suite.repository.Add(ctx, o))
	}
	suite.Require().NoError(suite.repository.Update(ctx, cancelled))

	orders, err := suite.repository.GetActiveByBranch(ctx, branchID)

	suite.Require().NoError(err)
	suite.Require().Len(orders, 1)
	suite.Equal(active.ID(), orders[0].ID())
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
