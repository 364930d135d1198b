package cli

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"storefront/internal/cart"
)

const shopHelp = "Available commands: list, add <id> [qty], set <id> <qty>, remove <id>, cart, help, exit"

// Shop runs the product/cart loop until EOF or exit. The cart lives only
// for the duration of the loop.
func (a *App) Shop(ctx context.Context, catalog *cart.Catalog) error {
	sess, err := a.requireSession()
	if err != nil {
		return err
	}

	c := cart.New(catalog)
	a.printf("Hi %s! Type 'help' for commands.\n", orNA(sess.User.Name))
	a.printProducts(catalog)

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		a.printf("shop (%d items)> ", c.ItemCount())
		line, err := a.reader.ReadString('\n')
		if errors.Is(err, io.EOF) && line == "" {
			a.println()
			return nil
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "help":
			a.println(shopHelp)
		case "list", "l":
			a.printProducts(catalog)
		case "add":
			if len(parts) < 2 {
				a.println("usage: add <id> [qty]")
				continue
			}
			qty := 1
			if len(parts) > 2 {
				if qty, err = strconv.Atoi(parts[2]); err != nil {
					a.println("quantity must be a number")
					continue
				}
			}
			a.report(c.Add(parts[1], qty), c)
		case "set":
			if len(parts) < 3 {
				a.println("usage: set <id> <qty>")
				continue
			}
			qty, err := strconv.Atoi(parts[2])
			if err != nil {
				a.println("quantity must be a number")
				continue
			}
			a.report(c.SetQuantity(parts[1], qty), c)
		case "remove", "rm":
			if len(parts) < 2 {
				a.println("usage: remove <id>")
				continue
			}
			c.Remove(parts[1])
			a.printCart(c)
		case "cart":
			a.printCart(c)
		case "exit", "quit":
			return nil
		default:
			a.printf("unknown command %q. %s\n", parts[0], shopHelp)
		}
	}
}

func (a *App) report(err error, c *cart.Cart) {
	if err != nil {
		a.println(err.Error())
		return
	}
	a.printCart(c)
}

func (a *App) printProducts(catalog *cart.Catalog) {
	a.println("Products:")
	for _, p := range catalog.Products() {
		a.printf("  %-8s %-20s %10s\n", p.ID, p.Name, cart.FormatCents(p.PriceCents))
	}
}

func (a *App) printCart(c *cart.Cart) {
	items := c.Items()
	if len(items) == 0 {
		a.println("Your cart is empty")
		return
	}
	for _, l := range items {
		a.printf("  %d x %-20s %10s\n", l.Quantity, l.Product.Name, cart.FormatCents(l.TotalCents()))
	}
	a.printf("  Items: %d  Subtotal: %s\n", c.ItemCount(), cart.FormatCents(c.Subtotal()))
}
