package cmd

import (
	"log/slog"

	"oshxona/internal/adapters/out/postgres"
	"oshxona/internal/adapters/out/postgres/branchrepo"
	"oshxona/internal/core/application/usecases/commands"
	"oshxona/internal/core/application/usecases/queries"
	"oshxona/internal/core/ports"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	ledger     ports.InventoryLedger
	bus        ports.NotificationBus
	logger     *slog.Logger
}

func NewCompositionRoot(
	_ Config,
	gormDB *gorm.DB,
	ledger ports.InventoryLedger,
	bus ports.NotificationBus,
	logger *slog.Logger,
) CompositionRoot {
	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		ledger:     ledger,
		bus:        bus,
		logger:     logger,
	}
}

func (c *CompositionRoot) CreatePlaceOrderCommandHandler() commands.PlaceOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewPlaceOrderCommandHandler(f, c.ledger, c.bus, c.logger)
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() commands.TransitionOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewTransitionOrderCommandHandler(f, c.ledger, c.bus, c.logger)
}

func (c *CompositionRoot) CreateCheckInCommandHandler() commands.CheckInCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCheckInCommandHandler(f, c.bus)
}

func (c *CompositionRoot) CreateCreateZoneCommandHandler() commands.CreateZoneCommandHandler {
	var f commands.BranchUoWFactory = FuncBranchUoWFactory(func() commands.BranchUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateZoneCommandHandler(f)
}

func (c *CompositionRoot) CreateReserveInventoryCommandHandler() commands.ReserveInventoryCommandHandler {
	return commands.NewReserveInventoryCommandHandler(c.ledger)
}

func (c *CompositionRoot) CreateReportCourierLocationCommandHandler() commands.ReportCourierLocationCommandHandler {
	return commands.NewReportCourierLocationCommandHandler(c.bus)
}

func (c *CompositionRoot) CreateRemindPendingOrdersCommandHandler() commands.RemindPendingOrdersCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRemindPendingOrdersCommandHandler(f, c.bus, c.logger)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetBranchOrdersQueryHandler() queries.GetBranchOrdersQueryHandler {
	return queries.NewGetBranchOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateResolveBranchQueryHandler() queries.ResolveBranchQueryHandler {
	return queries.NewResolveBranchQueryHandler(branchrepo.NewGormBranchRepository(c.gormDB))
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncBranchUoWFactory func() commands.BranchUoW

func (f FuncBranchUoWFactory) Create() commands.BranchUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
