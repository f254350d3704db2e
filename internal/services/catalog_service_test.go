package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoockh/adchat/internal/models"
	"github.com/yoockh/adchat/internal/utils"
)

func TestCatalogSyncUpsertsSourceRows(t *testing.T) {
	products := newFakeProducts()
	src := &fakeSource{rows: []models.Product{
		{Name: "Vitamin D", Link: "https://shop.example.com/d", IsActive: true},
		{Name: "Cane", Link: "https://shop.example.com/c"},
	}}
	svc := NewCatalogService(src, products, quietLogger())

	n, err := svc.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, products.upserted, 2)
}

func TestCatalogSyncErrors(t *testing.T) {
	_, err := NewCatalogService(nil, newFakeProducts(), quietLogger()).Sync(context.Background())
	assert.True(t, utils.IsCode(err, utils.CodeUnavailable))

	_, err = NewCatalogService(&fakeSource{err: errBoom}, newFakeProducts(), quietLogger()).Sync(context.Background())
	assert.True(t, utils.IsCode(err, utils.CodeUnavailable))
	assert.ErrorIs(t, err, errBoom)
}
