package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchsync/internal/models"
)

func orderFor(email, first, last string) models.Order {
	return models.Order{
		Customer: &models.OrderCustomer{Email: email, FirstName: first, LastName: last},
	}
}

func TestMergeCaseInsensitiveEmail(t *testing.T) {
	merged := MergeCustomers(map[models.Platform][]models.Order{
		models.PlatformShopify: {orderFor("a@x.com", "Ada", "Lovelace")},
		models.PlatformAmazon:  {orderFor("A@X.COM", "A.", "L.")},
	})

	require.Len(t, merged, 1)
	assert.Equal(t, "a@x.com", merged[0].Email)
	assert.ElementsMatch(t, []string{"shopify", "amazon"}, merged[0].Platforms)
}

func TestMergeSkipsOrdersWithoutEmail(t *testing.T) {
	merged := MergeCustomers(map[models.Platform][]models.Order{
		models.PlatformShopify: {
			{Customer: nil},
			orderFor("  ", "No", "Email"),
			orderFor("b@x.com", "Bo", "Burnham"),
		},
	})

	require.Len(t, merged, 1)
	assert.Equal(t, "b@x.com", merged[0].Email)
}

func TestMergeNameFallback(t *testing.T) {
	merged := MergeCustomers(map[models.Platform][]models.Order{
		models.PlatformShopify: {orderFor("c@x.com", "", "")},
	})

	require.Len(t, merged, 1)
	assert.Equal(t, "N/A", merged[0].Name)
}

func TestMergeFirstSeenNameIsDeterministic(t *testing.T) {
	// Platforms are iterated lexicographically, so "amazon" contributes
	// the display name no matter how the input map iterates.
	for i := 0; i < 20; i++ {
		merged := MergeCustomers(map[models.Platform][]models.Order{
			models.PlatformShopify: {orderFor("d@x.com", "Shopify", "Name")},
			models.PlatformAmazon:  {orderFor("d@x.com", "Amazon", "Name")},
			models.PlatformEtsy:    {orderFor("d@x.com", "Etsy", "Name")},
		})

		require.Len(t, merged, 1)
		assert.Equal(t, "Amazon Name", merged[0].Name)
		assert.ElementsMatch(t, []string{"amazon", "etsy", "shopify"}, merged[0].Platforms)
	}
}

func TestMergePlatformSetDeduplicates(t *testing.T) {
	merged := MergeCustomers(map[models.Platform][]models.Order{
		models.PlatformShopify: {
			orderFor("e@x.com", "Eve", ""),
			orderFor("e@x.com", "Evelyn", ""),
		},
	})

	require.Len(t, merged, 1)
	assert.Equal(t, []string{"shopify"}, merged[0].Platforms)
	// First-seen name wins within a platform too.
	assert.Equal(t, "Eve", merged[0].Name)
}

func TestMergeOutputSortedByEmail(t *testing.T) {
	merged := MergeCustomers(map[models.Platform][]models.Order{
		models.PlatformShopify: {
			orderFor("z@x.com", "Z", ""),
			orderFor("a@x.com", "A", ""),
			orderFor("m@x.com", "M", ""),
		},
	})

	require.Len(t, merged, 3)
	assert.Equal(t, "a@x.com", merged[0].Email)
	assert.Equal(t, "m@x.com", merged[1].Email)
	assert.Equal(t, "z@x.com", merged[2].Email)
}
