package folio

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemsBusinessLogicAndStorage(t *testing.T) {
	f := newFakeFolio(t)
	f.handle("/inventory/items", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[{"id":"i1","title":"Moby Dick","status":{"name":"Available"}}],"totalRecords":1}`))
	})
	f.handle("/item-storage/items", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[{"id":"i1","holdingsRecordId":"h1"}],"totalRecords":1}`))
	})
	client := f.open(t)
	ctx := context.Background()

	items, err := client.Items(ctx, "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Moby Dick", items[0].Title)
	assert.Equal(t, "Available", items[0].Status.Name)

	stored, err := client.StorageItems(ctx, "")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "h1", stored[0].HoldingsRecordID)
}

func TestItemByID(t *testing.T) {
	f := newFakeFolio(t)
	f.handle("/inventory/items/i1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"i1","barcode":"36000","title":"Moby Dick"}`))
	})
	client := f.open(t)

	item, err := client.ItemByID(context.Background(), "i1")
	require.NoError(t, err)
	assert.Equal(t, "36000", item.Barcode)
}
