// Command cart manages a single local cart from the terminal, the way the
// storefront keeps one cart per browser.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"text/tabwriter"

	"rocketshoes-cart/internal/backend"
	"rocketshoes-cart/internal/config"
	"rocketshoes-cart/internal/domain"
	"rocketshoes-cart/internal/notify"
	cartsvc "rocketshoes-cart/internal/service/cart"
)

var errUsage = errors.New("usage: cart [flags] show | add <id> | remove <id> | set <id> <amount>")

func main() {
	cfg := config.FromEnv()
	if os.Getenv("CART_STORE") == "" {
		cfg.CartStore = backend.StoreFile
	}

	fs := flag.NewFlagSet("cart", flag.ExitOnError)
	fs.StringVar(&cfg.CartStore, "store", cfg.CartStore, "cart state backend: memory, file, postgres or redis")
	fs.StringVar(&cfg.CartDir, "dir", cfg.CartDir, "directory of the file backend")
	fs.StringVar(&cfg.InventoryURL, "inventory", cfg.InventoryURL, "base URL of the inventory API")
	fs.StringVar(&cfg.CartLocale, "locale", cfg.CartLocale, "language of notifications (en, pt-BR)")
	asJSON := fs.Bool("json", false, "print the cart as JSON")
	verbose := fs.Bool("v", false, "log backend activity to stderr")
	_ = fs.Parse(os.Args[1:])

	logger := log.New(io.Discard, "", 0)
	if *verbose {
		logger = log.New(os.Stderr, "[cart] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	}

	ctx := context.Background()
	backends, err := backend.Open(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cart: %v\n", err)
		os.Exit(1)
	}

	store := cartsvc.Open(ctx, cfg.CartNamespace, cartsvc.Deps{
		Inventory: backends.Inventory,
		Sink:      backends.CartState,
		Notifier: notify.Func(func(_ context.Context, msg string) {
			fmt.Fprintln(os.Stderr, msg)
		}),
		Messages: cartsvc.MessagesFor(cfg.CartLocale),
		Logger:   logger,
	})

	err = run(ctx, store, fs.Args(), os.Stdout, *asJSON)
	backends.Close()
	if err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, store *cartsvc.Store, args []string, out io.Writer, asJSON bool) error {
	if len(args) == 0 {
		args = []string{"show"}
	}

	var err error
	switch args[0] {
	case "show":
		if len(args) != 1 {
			return errUsage
		}
	case "add", "remove":
		if len(args) != 2 {
			return errUsage
		}
		id, convErr := strconv.Atoi(args[1])
		if convErr != nil {
			return errUsage
		}
		if args[0] == "add" {
			err = store.AddProduct(ctx, id)
		} else {
			err = store.RemoveProduct(ctx, id)
		}
	case "set":
		if len(args) != 3 {
			return errUsage
		}
		id, idErr := strconv.Atoi(args[1])
		amount, amountErr := strconv.Atoi(args[2])
		if idErr != nil || amountErr != nil {
			return errUsage
		}
		err = store.UpdateProductAmount(ctx, cartsvc.UpdateProductAmount{ProductID: id, Amount: amount})
	default:
		return errUsage
	}

	if printErr := printCart(out, store.Cart(), asJSON); printErr != nil {
		return printErr
	}
	return err
}

func printCart(out io.Writer, c domain.Cart, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(c)
	}

	if c.Size() == 0 {
		_, err := fmt.Fprintln(out, "cart is empty")
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPRODUCT\tPRICE\tAMOUNT\tSUBTOTAL")
	for _, item := range c {
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%d\t%.2f\n", item.ID, item.Title, item.Price, item.Amount, item.Price*float64(item.Amount))
	}
	fmt.Fprintf(tw, "\t\t\t%d\t%.2f\n", c.Units(), c.Subtotal())
	return tw.Flush()
}
