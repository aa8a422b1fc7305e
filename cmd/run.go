package cmd

import (
	"context"
	"flag"
	"fmt"

	"bondpay/config"
	"bondpay/database"
	"bondpay/events"
	"bondpay/repository"
	"bondpay/service"

	"github.com/google/subcommands"
	log "github.com/sirupsen/logrus"
)

// Run wires the application together and dispatches the CLI subcommand
func Run(ctx context.Context) error {
	cfg := config.Get()

	log.WithField("environment", cfg.Environment).Info("Starting bondpay")

	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	eventBus := events.NewBus()

	// Downstream collaborators (notification delivery, voucher rendering)
	// subscribe here; the core only logs what it publishes
	eventBus.Subscribe(events.EventTypeDiscrepancyFound, func(ctx context.Context, e events.Event) {
		ev := e.(events.DiscrepancyFoundEvent)
		log.WithFields(log.Fields{
			"eventID":            ev.PaymentEventID,
			"maturityDifference": ev.MaturityDifference,
			"couponDifference":   ev.CouponDifference,
		}).Warn("Audit discrepancy")
	})

	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	paymentService := service.NewPaymentService(uowFactory)
	auditService := service.NewAuditService(uowFactory, cfg.AuditTolerance)
	statementService := service.NewStatementService(uowFactory)

	commander := subcommands.NewCommander(flag.CommandLine, "bondpay")
	commander.Register(commander.HelpCommand(), "")
	commander.Register(&previewCmd{payments: paymentService}, "payments")
	commander.Register(&generateCmd{payments: paymentService}, "payments")
	commander.Register(&recalculateCmd{payments: paymentService}, "payments")
	commander.Register(&auditCmd{audit: auditService}, "reconciliation")
	commander.Register(&importStatementCmd{statements: statementService}, "reconciliation")

	flag.Parse()

	if status := commander.Execute(ctx); status != subcommands.ExitSuccess {
		return fmt.Errorf("command exited with status %d", status)
	}

	return nil
}
