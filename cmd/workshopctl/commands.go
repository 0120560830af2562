package main

import (
	"context"
	"fmt"

	"workshop/internal/core/application/usecases/commands"
	"workshop/internal/core/application/usecases/queries"
	"workshop/internal/core/domain/model/kernel"

	"github.com/spf13/cobra"
)

func (c *cli) openCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "open <unit-id>",
		Short: "Open a work order for a unit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			unitID, err := kernel.UUIDFromString(args[0])
			if err != nil {
				return err
			}
			command, err := commands.NewOpenOrderCommand(unitID, c.actor)
			if err != nil {
				return err
			}

			var res commands.OpenOrderResult
			handler := c.app.CreateOpenOrderCommandHandler()
			err = c.app.CreateConflictRetrier().Do(cmd.Context(), "open", func(ctx context.Context) error {
				var handleErr error
				res, handleErr = handler.Handle(ctx, command)
				return handleErr
			})
			if err != nil {
				return err
			}
			return c.print(map[string]string{"id": res.OrderID.String(), "number": res.Number})
		},
	}
}

func (c *cli) advanceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "advance <order-id>",
		Short: "Move an order to the next stage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orderID, err := kernel.UUIDFromString(args[0])
			if err != nil {
				return err
			}
			command, err := commands.NewAdvanceStageCommand(orderID, c.actor)
			if err != nil {
				return err
			}
			handler := c.app.CreateAdvanceStageCommandHandler()
			return c.run(cmd.Context(), "advance", func(ctx context.Context) error {
				return handler.Handle(ctx, command)
			})
		},
	}
}

func (c *cli) delayCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delay <order-number> <reason-code> [note]",
		Short: "Register a delay on an order in SEMI_ARMADO",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			note := ""
			if len(args) == 3 {
				note = args[2]
			}
			command, err := commands.NewRegisterDelayCommand(args[0], args[1], note, c.actor)
			if err != nil {
				return err
			}
			handler := c.app.CreateRegisterDelayCommandHandler()
			return c.run(cmd.Context(), "delay", func(ctx context.Context) error {
				return handler.Handle(ctx, command)
			})
		},
	}
}

func (c *cli) irreparableCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "irreparable <order-number>",
		Short: "Declare the part of an order in DIAGNOSTICO irreparable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			command, err := commands.NewMarkIrreparableCommand(args[0], c.actor)
			if err != nil {
				return err
			}
			handler := c.app.CreateMarkIrreparableCommandHandler()
			return c.run(cmd.Context(), "irreparable", func(ctx context.Context) error {
				return handler.Handle(ctx, command)
			})
		},
	}
}

func (c *cli) stageCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stage <order-number>",
		Short: "Show the current stage of an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := queries.NewGetOrderStageQuery(args[0])
			if err != nil {
				return err
			}
			resp, err := c.app.CreateGetOrderStageQueryHandler().Handle(cmd.Context(), q)
			if err != nil {
				return err
			}
			return c.print(resp)
		},
	}
}

func (c *cli) historyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "history <order-number>",
		Short: "List the stage intervals of an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := queries.NewGetStageHistoryQuery(args[0])
			if err != nil {
				return err
			}
			rows, err := c.app.CreateGetStageHistoryQueryHandler().Handle(cmd.Context(), q)
			if err != nil {
				return err
			}
			return c.print(rows)
		},
	}
}

func (c *cli) auditCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "audit <order-number>",
		Short: "List the audit trail of an order, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := queries.NewGetAuditTrailQuery(args[0])
			if err != nil {
				return err
			}
			rows, err := c.app.CreateGetAuditTrailQueryHandler().Handle(cmd.Context(), q)
			if err != nil {
				return err
			}
			return c.print(rows)
		},
	}
}

func (c *cli) notificationsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "notifications <order-number>",
		Short: "List the unread in-app notifications of an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := queries.NewListUnreadNotificationsQuery(args[0])
			if err != nil {
				return err
			}
			rows, err := c.app.CreateListUnreadNotificationsQueryHandler().Handle(cmd.Context(), q)
			if err != nil {
				return err
			}
			return c.print(rows)
		},
	}
}

func (c *cli) readCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "read <notification-id>",
		Short: "Mark an in-app notification as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := kernel.UUIDFromString(args[0])
			if err != nil {
				return err
			}
			command, err := commands.NewMarkNotificationReadCommand(id)
			if err != nil {
				return err
			}
			handler := c.app.CreateMarkNotificationReadCommandHandler()
			return c.run(cmd.Context(), "mark_read", func(ctx context.Context) error {
				return handler.Handle(ctx, command)
			})
		},
	}
}

func (c *cli) relayCommand() *cobra.Command {
	var batch int
	command := &cobra.Command{
		Use:   "relay",
		Short: "Publish one batch of pending notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			relay, err := commands.NewRelayNotificationsCommand(batch)
			if err != nil {
				return err
			}
			handler, err := c.app.CreateRelayNotificationsCommandHandler()
			if err != nil {
				return err
			}
			sent, err := handler.Handle(cmd.Context(), relay)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(c.out, "%d notifications published\n", sent)
			return err
		},
	}
	command.Flags().IntVar(&batch, "batch", 50, "maximum notifications to publish")
	return command
}

// run executes a state-changing operation through the conflict retrier.
func (c *cli) run(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	if err := c.app.CreateConflictRetrier().Do(ctx, operation, fn); err != nil {
		return err
	}
	_, err := fmt.Fprintln(c.out, "ok")
	return err
}
