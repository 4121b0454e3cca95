package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/example/rocketshoes-cart/internal/view"
)

var errUsage = errors.New("usage: cart show | add <id> | remove <id> | set <id> <amount> | inc <id> | dec <id> | checkout")

// execute runs one subcommand and prints the resulting cart
func execute(ctx context.Context, ctrl *view.Controller, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	var err error
	switch cmd := args[0]; cmd {
	case "show":
		if len(args) != 1 {
			return errUsage
		}
	case "add", "remove", "inc", "dec":
		if len(args) != 2 {
			return errUsage
		}
		id, perr := strconv.Atoi(args[1])
		if perr != nil {
			return fmt.Errorf("invalid product id %q", args[1])
		}
		switch cmd {
		case "add":
			err = ctrl.Add(ctx, id)
		case "remove":
			err = ctrl.Remove(ctx, id)
		case "inc":
			err = ctrl.Increment(ctx, id)
		case "dec":
			err = ctrl.Decrement(ctx, id)
		}
	case "set":
		if len(args) != 3 {
			return errUsage
		}
		id, perr := strconv.Atoi(args[1])
		if perr != nil {
			return fmt.Errorf("invalid product id %q", args[1])
		}
		amount, perr := strconv.Atoi(args[2])
		if perr != nil {
			return fmt.Errorf("invalid amount %q", args[2])
		}
		err = ctrl.SetAmount(ctx, id, amount)
	case "checkout":
		return ctrl.Checkout(ctx)
	default:
		return errUsage
	}
	if err != nil {
		return err
	}

	return render(out, ctrl.Model())
}

func render(out io.Writer, m view.Model) error {
	if len(m.Rows) == 0 {
		_, err := fmt.Fprintln(out, "Carrinho vazio")
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPRODUTO\tPREÇO\tQTD\tSUBTOTAL")
	for _, r := range m.Rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", r.ID, r.Title, r.FormattedPrice, r.Amount, r.Subtotal)
	}
	fmt.Fprintf(tw, "\t\t\tTOTAL\t%s\n", m.Total)
	return tw.Flush()
}
