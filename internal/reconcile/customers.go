// Package reconcile merges records observed via different platforms into
// one logical record per real-world entity.
package reconcile

import (
	"sort"
	"strings"

	"merchsync/internal/models"
)

// MergeCustomers folds orders from every platform into one customer per
// email. The join key is the lower-cased, trimmed email; orders without a
// resolvable email contribute nothing. Platforms are iterated
// in lexicographic order so the first-seen display name is deterministic
// for a given input multiset regardless of map iteration order.
func MergeCustomers(ordersByPlatform map[models.Platform][]models.Order) []models.Customer {
	platforms := make([]models.Platform, 0, len(ordersByPlatform))
	for p := range ordersByPlatform {
		platforms = append(platforms, p)
	}
	sort.Slice(platforms, func(i, j int) bool { return platforms[i] < platforms[j] })

	byEmail := make(map[string]*models.Customer)
	for _, platform := range platforms {
		for _, order := range ordersByPlatform[platform] {
			email := customerKey(order.Customer)
			if email == "" {
				continue
			}

			if existing, ok := byEmail[email]; ok {
				// First-seen name wins; later platforms only extend
				// the platform set.
				existing.AddPlatform(platform)
				continue
			}

			customer := &models.Customer{
				Email: email,
				Name:  displayName(order.Customer),
			}
			customer.AddPlatform(platform)
			byEmail[email] = customer
		}
	}

	merged := make([]models.Customer, 0, len(byEmail))
	for _, c := range byEmail {
		merged = append(merged, *c)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Email < merged[j].Email })
	return merged
}

func customerKey(c *models.OrderCustomer) string {
	if c == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(c.Email))
}

func displayName(c *models.OrderCustomer) string {
	first := strings.TrimSpace(c.FirstName)
	last := strings.TrimSpace(c.LastName)
	name := strings.TrimSpace(first + " " + last)
	if name == "" {
		return "N/A"
	}
	return name
}
