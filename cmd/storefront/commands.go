package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"purefood/internal/domain"
	"purefood/internal/service"
	"purefood/internal/storefront"

	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
)

type cli struct {
	app    *storefront.App
	out    io.Writer
	errOut io.Writer
}

func (c *cli) flags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(c.errOut)
	return fs
}

func (c *cli) usageError(format string, args ...interface{}) error {
	fmt.Fprintf(c.errOut, format+"\n", args...)
	fmt.Fprint(c.errOut, usage)
	return errUsage
}

func (c *cli) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return c.usageError("missing command")
	}

	command, rest := args[0], args[1:]
	switch command {
	case "products":
		return c.products(ctx, rest)
	case "categories":
		return c.categories(ctx)
	case "product":
		return c.product(ctx, rest)
	case "cart":
		return c.cart(ctx, rest)
	case "checkout":
		return c.checkout(ctx, rest)
	case "track":
		return c.track(ctx, rest)
	case "order":
		return c.order(ctx, rest)
	case "admin":
		return c.admin(ctx, rest)
	}
	return c.usageError("unknown command %q", command)
}

func (c *cli) products(ctx context.Context, args []string) error {
	fs := c.flags("products")
	query := fs.String("q", "", "search name, description and category")
	category := fs.String("category", service.AllCategories, "category filter")
	if err := fs.Parse(args); err != nil {
		return err
	}

	products, err := c.app.Backend.ListProducts(ctx)
	if err != nil {
		return err
	}
	printProducts(c.out, service.FilterProducts(products, *query, *category))
	return nil
}

func (c *cli) categories(ctx context.Context) error {
	products, err := c.app.Backend.ListProducts(ctx)
	if err != nil {
		return err
	}
	for _, category := range service.Categories(products) {
		fmt.Fprintln(c.out, category)
	}
	return nil
}

func (c *cli) product(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return c.usageError("product takes one id")
	}
	product, err := c.app.Backend.GetProduct(ctx, args[0])
	if err != nil {
		return err
	}
	printProduct(c.out, product)
	return nil
}

func (c *cli) cart(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printCart(c.out, c.app.Cart)
		return nil
	}

	switch args[0] {
	case "add":
		fs := c.flags("cart add")
		qty := fs.Int("qty", 1, "units to add")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if fs.NArg() != 1 {
			return c.usageError("cart add takes one product id")
		}
		product, err := c.app.AddToCart(ctx, fs.Arg(0), *qty)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Added %d x %s to cart\n", *qty, product.Name)

	case "set":
		if len(args) != 3 {
			return c.usageError("cart set takes a product id and a quantity")
		}
		qty, err := strconv.Atoi(args[2])
		if err != nil {
			return c.usageError("invalid quantity %q", args[2])
		}
		if err := c.app.SetCartQuantity(ctx, args[1], qty); err != nil {
			return err
		}

	case "remove":
		if len(args) != 2 {
			return c.usageError("cart remove takes one product id")
		}
		c.app.Cart.Remove(ctx, args[1])

	case "clear":
		c.app.Cart.Clear(ctx)

	default:
		return c.usageError("unknown cart command %q", args[0])
	}

	printCart(c.out, c.app.Cart)
	return nil
}

func (c *cli) checkout(ctx context.Context, args []string) error {
	fs := c.flags("checkout")
	var details service.CheckoutDetails
	fs.StringVar(&details.CustomerName, "name", "", "customer name")
	fs.StringVar(&details.Phone, "phone", "", "phone number")
	fs.StringVar(&details.Address, "address", "", "delivery address")
	fs.StringVar(&details.Notes, "notes", "", "delivery notes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	order, err := c.app.PlaceOrder(ctx, details)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Order placed. Pay cash on delivery.")
	printOrder(c.out, order)
	return nil
}

func (c *cli) track(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return c.usageError("track takes one phone number")
	}
	orders, err := c.app.Backend.TrackOrders(ctx, args[0])
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		fmt.Fprintln(c.out, "No orders found for this phone number")
		return nil
	}
	printOrders(c.out, orders)
	return nil
}

func (c *cli) order(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return c.usageError("order takes one id")
	}
	order, err := c.app.Backend.GetOrder(ctx, args[0])
	if err != nil {
		return err
	}
	printOrder(c.out, order)
	return nil
}

func (c *cli) admin(ctx context.Context, args []string) error {
	fs := c.flags("admin")
	fs.SetInterspersed(false)
	username := fs.String("username", "", "admin username")
	password := fs.String("password", "", "admin password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return c.usageError("missing admin command")
	}

	command, rest := fs.Arg(0), fs.Args()[1:]
	if command == "logout" {
		c.app.Session.Logout(ctx)
		fmt.Fprintln(c.out, "Logged out")
		return nil
	}

	if !c.app.Session.IsAdmin(ctx) {
		if *username == "" || *password == "" {
			return c.usageError("admin commands need --username and --password")
		}
		if err := c.app.Session.Login(ctx, c.app.Backend, *username, *password); err != nil {
			return err
		}
	}

	switch command {
	case "orders":
		return c.adminOrders(ctx, rest)
	case "stats":
		stats, err := c.app.Backend.GetOrderStats(ctx)
		if err != nil {
			return err
		}
		printStats(c.out, stats)
	case "low-stock":
		products, err := c.app.Backend.ListProducts(ctx)
		if err != nil {
			return err
		}
		printProducts(c.out, service.LowStock(products))
	case "status":
		if len(rest) != 2 {
			return c.usageError("status takes an order id and a status")
		}
		status, err := domain.ParseOrderStatus(rest[1])
		if err != nil {
			return err
		}
		order, err := c.app.Backend.UpdateOrderStatus(ctx, rest[0], status)
		if err != nil {
			return err
		}
		printOrder(c.out, order)
	case "delete-order":
		if len(rest) != 1 {
			return c.usageError("delete-order takes one id")
		}
		return c.reportDelete(c.app.Backend.DeleteOrder(ctx, rest[0]))
	case "add-product":
		return c.addProduct(ctx, rest)
	case "update-product":
		return c.updateProduct(ctx, rest)
	case "delete-product":
		if len(rest) != 1 {
			return c.usageError("delete-product takes one id")
		}
		return c.reportDelete(c.app.Backend.DeleteProduct(ctx, rest[0]))
	default:
		return c.usageError("unknown admin command %q", command)
	}
	return nil
}

func (c *cli) adminOrders(ctx context.Context, args []string) error {
	fs := c.flags("orders")
	query := fs.String("q", "", "search customer name, order id or phone")
	rawStatus := fs.String("status", "all", "status filter")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var status domain.OrderStatus
	if *rawStatus != "all" {
		parsed, err := domain.ParseOrderStatus(*rawStatus)
		if err != nil {
			return err
		}
		status = parsed
	}

	orders, err := c.app.Backend.ListOrders(ctx)
	if err != nil {
		return err
	}
	printOrders(c.out, service.FilterOrders(orders, *query, status))
	return nil
}

func (c *cli) addProduct(ctx context.Context, args []string) error {
	fs := c.flags("add-product")
	var input domain.ProductInput
	fs.StringVar(&input.Name, "name", "", "product name")
	fs.StringVar(&input.Description, "description", "", "description")
	fs.StringVar(&input.Image, "image", "", "image URL")
	fs.StringVar(&input.Category, "category", "", "category")
	fs.IntVar(&input.Stock, "stock", 0, "units in stock")
	price := fs.String("price", "0", "unit price")
	if err := fs.Parse(args); err != nil {
		return err
	}

	parsed, err := decimal.NewFromString(*price)
	if err != nil {
		return c.usageError("invalid price %q", *price)
	}
	input.Price = parsed

	product, err := c.app.Backend.CreateProduct(ctx, input)
	if err != nil {
		return err
	}
	printProduct(c.out, product)
	return nil
}

func (c *cli) updateProduct(ctx context.Context, args []string) error {
	fs := c.flags("update-product")
	name := fs.String("name", "", "product name")
	description := fs.String("description", "", "description")
	image := fs.String("image", "", "image URL")
	category := fs.String("category", "", "category")
	stock := fs.Int("stock", 0, "units in stock")
	price := fs.String("price", "", "unit price")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return c.usageError("update-product takes one id")
	}

	var patch domain.ProductPatch
	if fs.Changed("name") {
		patch.Name = name
	}
	if fs.Changed("description") {
		patch.Description = description
	}
	if fs.Changed("image") {
		patch.Image = image
	}
	if fs.Changed("category") {
		patch.Category = category
	}
	if fs.Changed("stock") {
		patch.Stock = stock
	}
	if fs.Changed("price") {
		parsed, err := decimal.NewFromString(*price)
		if err != nil {
			return c.usageError("invalid price %q", *price)
		}
		patch.Price = &parsed
	}
	if patch.IsEmpty() {
		return c.usageError("update-product needs at least one field")
	}

	product, err := c.app.Backend.UpdateProduct(ctx, fs.Arg(0), patch)
	if err != nil {
		return err
	}
	printProduct(c.out, product)
	return nil
}

func (c *cli) reportDelete(deleted bool, err error) error {
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("nothing deleted: no record with that id")
	}
	fmt.Fprintln(c.out, "Deleted")
	return nil
}
