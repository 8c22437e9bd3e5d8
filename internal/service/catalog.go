package service

import (
	"sort"
	"strings"

	"purefood/internal/domain"
)

const (
	// AllCategories disables the category filter
	AllCategories = "All"

	// LowStockThreshold marks products that need restocking
	LowStockThreshold = 10
)

// FilterProducts keeps products whose name or description contains query
// (case-insensitive) and whose category matches exactly. An empty query
// or category, or AllCategories, matches everything.
func FilterProducts(products []*domain.Product, query, category string) []*domain.Product {
	query = strings.ToLower(strings.TrimSpace(query))
	filtered := make([]*domain.Product, 0, len(products))
	for _, p := range products {
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(p.Description), query) {
			continue
		}
		if category != "" && category != AllCategories && p.Category != category {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

// Categories lists distinct categories in first-seen order
func Categories(products []*domain.Product) []string {
	seen := make(map[string]bool)
	categories := []string{}
	for _, p := range products {
		if !seen[p.Category] {
			seen[p.Category] = true
			categories = append(categories, p.Category)
		}
	}
	return categories
}

// LowStock returns products under LowStockThreshold, scarcest first
func LowStock(products []*domain.Product) []*domain.Product {
	low := []*domain.Product{}
	for _, p := range products {
		if p.Stock < LowStockThreshold {
			low = append(low, p)
		}
	}
	sort.SliceStable(low, func(i, j int) bool { return low[i].Stock < low[j].Stock })
	return low
}

// FilterOrders matches query against customer name and order id
// (case-insensitive) or phone (substring), then narrows by status.
// An empty status matches every order.
func FilterOrders(orders []*domain.Order, query string, status domain.OrderStatus) []*domain.Order {
	query = strings.TrimSpace(query)
	lower := strings.ToLower(query)
	filtered := make([]*domain.Order, 0, len(orders))
	for _, o := range orders {
		if query != "" &&
			!strings.Contains(strings.ToLower(o.CustomerName), lower) &&
			!strings.Contains(o.Phone, query) &&
			!strings.Contains(strings.ToLower(o.ID), lower) {
			continue
		}
		if status != "" && o.Status != status {
			continue
		}
		filtered = append(filtered, o)
	}
	return filtered
}
