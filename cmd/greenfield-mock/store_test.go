package main

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoiceStore_ReturnsCopies(t *testing.T) {
	store := newInvoiceStore("http://mock.local", time.Now)
	created := store.create(storeID, createBody{Amount: "1", Currency: "EUR"})

	fetched, ok := store.get(storeID, created.ID)
	require.True(t, ok)

	_, found, errs := store.markStatus(storeID, created.ID, "Settled")
	require.True(t, found)
	require.Empty(t, errs)

	assert.Equal(t, "New", created.Status)
	assert.Equal(t, "New", fetched.Status)

	again, ok := store.get(storeID, created.ID)
	require.True(t, ok)
	assert.Equal(t, "Settled", again.Status)
	assert.Equal(t, "Settled", store.list(storeID)[0].Status)
}

func TestInvoiceStore_ConcurrentMarkAndEncode(t *testing.T) {
	store := newInvoiceStore("http://mock.local", time.Now)
	created := store.create(storeID, createBody{Amount: "1", Currency: "EUR"})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			status := "Invalid"
			if i%2 == 0 {
				status = "Settled"
			}
			store.markStatus(storeID, created.ID, status)
		}()
		go func() {
			defer wg.Done()
			inv, ok := store.get(storeID, created.ID)
			if assert.True(t, ok) {
				_, err := json.Marshal(inv)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()
}
