package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/santoshkumarshah266-jpg/storeadmin/internal/api"
	"github.com/santoshkumarshah266-jpg/storeadmin/internal/dashboard"
	"github.com/santoshkumarshah266-jpg/storeadmin/internal/models"
	"github.com/santoshkumarshah266-jpg/storeadmin/internal/orders"
	"github.com/santoshkumarshah266-jpg/storeadmin/internal/products"
)

// listFlag collects a repeatable string flag.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(v string) error {
	*l = append(*l, v)
	return nil
}

func (c *console) table() *tabwriter.Writer {
	return tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
}

func (c *console) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	password := fs.String("password", "", "Admin password")
	fs.Parse(args)
	if *password == "" {
		fmt.Fprintln(c.out, "password is required")
		fs.PrintDefaults()
		return errors.New("missing password")
	}
	_, err := c.holder.Login(ctx, *password)
	return err
}

func (c *console) logout() error {
	if err := c.holder.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Logged out.")
	return nil
}

func (c *console) status() error {
	s, err := c.holder.Restore()
	switch {
	case err != nil:
		fmt.Fprintln(c.out, "Not logged in (stored session expired).")
	case s.Authenticated():
		fmt.Fprintln(c.out, "Logged in.")
	default:
		fmt.Fprintln(c.out, "Not logged in.")
	}
	return nil
}

func (c *console) analytics(ctx context.Context, client *api.Client) error {
	view, err := dashboard.Load(ctx, client, c.notifier)
	if err != nil {
		return err
	}
	tw := c.table()
	fmt.Fprintln(tw, "PERIOD\tORDERS\tREVENUE")
	for _, p := range view.Periods {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", p.Label, p.Orders, p.Revenue)
	}
	tw.Flush()

	if len(view.RecentOrders) > 0 {
		fmt.Fprintln(c.out, "\nRecent orders:")
		c.printOrders(view.RecentOrders)
	}
	return nil
}

func (c *console) printOrders(list []models.Order) {
	tw := c.table()
	fmt.Fprintln(tw, "ID\tCUSTOMER\tPHONE\tTOTAL\tSTATUS\tPLACED")
	for _, o := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			o.OrderID, o.CustomerName, o.Phone, dashboard.FormatMoney(o.TotalAmount),
			o.Status, o.CreatedAt.Format("2006-01-02 15:04"))
	}
	tw.Flush()
}

func (c *console) orders(ctx context.Context, client *api.Client, args []string) error {
	fs := flag.NewFlagSet("orders", flag.ExitOnError)
	search := fs.String("q", "", "Search customer name, phone or order ID")
	status := fs.String("status", orders.FilterAll, "Status filter (all, pending, confirmed, shipped, delivered, cancelled)")
	fs.Parse(args)

	all, err := orders.NewManager(client, c.notifier).List(ctx)
	if err != nil {
		return err
	}
	shown := orders.Filter(all, *search, *status)
	c.printOrders(shown)
	fmt.Fprintf(c.out, "\n%d of %d orders\n", len(shown), len(all))
	return nil
}

func (c *console) advance(ctx context.Context, client *api.Client, args []string) error {
	fs := flag.NewFlagSet("advance", flag.ExitOnError)
	id := fs.String("id", "", "Order ID")
	to := fs.String("to", "", "Target status; defaults to the order's next status")
	fs.Parse(args)
	if *id == "" {
		fs.PrintDefaults()
		return errors.New("missing order id")
	}

	m := orders.NewManager(client, c.notifier)
	if _, err := m.List(ctx); err != nil {
		return err
	}
	next := models.OrderStatus(*to)
	if next == "" {
		o, err := m.Get(ctx, *id)
		if err != nil {
			return err
		}
		n, ok := models.NextStatus(o.Status)
		if !ok {
			fmt.Fprintf(c.out, "Order %s is %s and cannot be advanced.\n", *id, o.Status)
			return orders.ErrInvalidTransition
		}
		next = n
	}

	err := m.Advance(ctx, *id, next)
	if errors.Is(err, orders.ErrInvalidTransition) || errors.Is(err, orders.ErrUnknownOrder) {
		fmt.Fprintf(c.out, "Cannot move order %s to %s: %v\n", *id, next, err)
	}
	return err
}

func (c *console) products(ctx context.Context, client *api.Client) error {
	list, err := products.NewManager(client, c.notifier, nil).List(ctx)
	if err != nil {
		return err
	}
	tw := c.table()
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tSTOCK\tACTIVE\tIMAGES")
	for _, p := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%t\t%d\n",
			p.ProductID, p.Name, dashboard.FormatMoney(p.Price), p.Stock, p.Active, len(p.Images))
	}
	return tw.Flush()
}

func (c *console) saveProduct(ctx context.Context, client *api.Client, args []string) error {
	fs := flag.NewFlagSet("save-product", flag.ExitOnError)
	id := fs.String("id", "", "Product ID to update; omit to create")
	name := fs.String("name", "", "Name")
	price := fs.String("price", "", "Price")
	description := fs.String("description", "", "Description")
	colors := fs.String("colors", "", "Comma separated colors")
	sizes := fs.String("sizes", "", "Comma separated sizes")
	stock := fs.String("stock", "", "Stock")
	active := fs.Bool("active", true, "Whether the product is listed")
	var images, keep listFlag
	fs.Var(&images, "image", "Local image file to upload (repeatable)")
	fs.Var(&keep, "keep-image", "Existing image URL to keep (repeatable); replaces the stored list when given")
	fs.Parse(args)

	m := products.NewManager(client, c.notifier, nil)
	var d *products.Draft
	if *id == "" {
		d = m.OpenForCreate()
	} else {
		if _, err := m.List(ctx); err != nil {
			return err
		}
		p, ok := m.Find(*id)
		if !ok {
			fmt.Fprintf(c.out, "No product with ID %s\n", *id)
			return errors.New("unknown product")
		}
		d = m.OpenForEdit(p)
	}

	// Only flags given on the command line override the draft.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			d.Name = *name
		case "price":
			d.Price = *price
		case "description":
			d.Description = *description
		case "colors":
			d.Colors = *colors
		case "sizes":
			d.Sizes = *sizes
		case "stock":
			d.Stock = *stock
		case "active":
			d.Active = *active
		case "keep-image":
			d.ExistingImages = append([]string(nil), keep...)
		}
	})

	for _, path := range images {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read image %s: %w", path, err)
		}
		d.SelectFiles(products.LocalFile{Name: filepath.Base(path), Data: data})
	}

	res, err := m.Save(ctx, d)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Saved product %s with %d image(s).\n", res.Product.ProductID, len(res.Product.Images))
	return nil
}

func (c *console) deleteProduct(ctx context.Context, client *api.Client, args []string) error {
	fs := flag.NewFlagSet("delete-product", flag.ExitOnError)
	id := fs.String("id", "", "Product ID")
	yes := fs.Bool("yes", false, "Skip the confirmation prompt")
	fs.Parse(args)
	if *id == "" {
		fs.PrintDefaults()
		return errors.New("missing product id")
	}

	confirm := products.ConfirmFunc(c.confirm)
	if *yes {
		confirm = func(string) bool { return true }
	}
	deleted, err := products.NewManager(client, c.notifier, confirm).Delete(ctx, *id)
	if err != nil {
		return err
	}
	if !deleted {
		fmt.Fprintln(c.out, "Cancelled.")
	}
	return nil
}

func (c *console) exportProducts(ctx context.Context, client *api.Client, args []string) error {
	fs := flag.NewFlagSet("export-products", flag.ExitOnError)
	out := fs.String("o", "products.xlsx", "Output file")
	fs.Parse(args)

	list, err := products.NewManager(client, c.notifier, nil).List(ctx)
	if err != nil {
		return err
	}
	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	if err := products.ExportXLSX(f, list); err != nil {
		f.Close()
		return fmt.Errorf("export products: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Exported %d products to %s\n", len(list), *out)
	return nil
}
