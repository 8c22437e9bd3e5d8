package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"purefood/internal/cart"
	"purefood/internal/domain"
)

const timeLayout = "2006-01-02 15:04"

func taka(amount fmt.Stringer) string {
	return "৳" + amount.String()
}

func printProducts(w io.Writer, products []*domain.Product) {
	if len(products) == 0 {
		fmt.Fprintln(w, "No products found")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", p.ID, p.Name, p.Category, taka(p.Price), p.Stock)
	}
	tw.Flush()
}

func printProduct(w io.Writer, p *domain.Product) {
	fmt.Fprintf(w, "%s (%s)\n", p.Name, p.ID)
	fmt.Fprintf(w, "  category: %s\n", p.Category)
	fmt.Fprintf(w, "  price:    %s\n", taka(p.Price))
	fmt.Fprintf(w, "  stock:    %d\n", p.Stock)
	if p.Description != "" {
		fmt.Fprintf(w, "  %s\n", p.Description)
	}
}

func printCart(w io.Writer, basket *cart.Manager) {
	items := basket.Items()
	if len(items) == 0 {
		fmt.Fprintln(w, "Your cart is empty")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tQTY\tPRICE\tSUBTOTAL")
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			item.Product.ID, item.Product.Name, item.Quantity, taka(item.Product.Price), taka(item.Subtotal()))
	}
	tw.Flush()
	fmt.Fprintf(w, "%d items, total %s\n", basket.ItemCount(), taka(basket.Total()))
}

func printOrders(w io.Writer, orders []*domain.Order) {
	if len(orders) == 0 {
		fmt.Fprintln(w, "No orders found")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCUSTOMER\tPHONE\tTOTAL\tSTATUS\tPLACED")
	for _, o := range orders {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			o.ID, o.CustomerName, o.Phone, taka(o.TotalAmount), o.Status, o.CreatedAt.Local().Format(timeLayout))
	}
	tw.Flush()
}

func printOrder(w io.Writer, o *domain.Order) {
	fmt.Fprintf(w, "Order %s [%s]\n", o.ID, o.Status)
	fmt.Fprintf(w, "  placed:   %s\n", o.CreatedAt.Local().Format(timeLayout))
	fmt.Fprintf(w, "  customer: %s, %s\n", o.CustomerName, o.Phone)
	fmt.Fprintf(w, "  address:  %s\n", o.Address)
	if o.Notes != "" {
		fmt.Fprintf(w, "  notes:    %s\n", o.Notes)
	}
	for _, item := range o.Items {
		fmt.Fprintf(w, "  %d x %s @ %s\n", item.Quantity, item.ProductName, taka(item.Price))
	}
	fmt.Fprintf(w, "  total:    %s\n", taka(o.TotalAmount))
}

func printStats(w io.Writer, s *domain.SalesStats) {
	fmt.Fprintf(w, "Total orders:     %d\n", s.TotalOrders)
	fmt.Fprintf(w, "Pending orders:   %d\n", s.PendingOrders)
	fmt.Fprintf(w, "Completed orders: %d\n", s.CompletedOrders)
	fmt.Fprintf(w, "Total sales:      %s\n", taka(s.TotalSales))
	if len(s.RecentOrders) > 0 {
		fmt.Fprintln(w, "Recent orders:")
		printOrders(w, s.RecentOrders)
	}
}
