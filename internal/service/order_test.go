package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvoronov/storefront/internal/models"
)

func seedProduct(t *testing.T, env *testEnv, name string, price int64) *models.Product {
	t.Helper()

	product := &models.Product{Name: name, Price: price}
	require.NoError(t, env.Repo.CreateProduct(context.Background(), product))
	return product
}

func TestOrderService_CreateOrder_TotalsAndSnapshots(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	user := registerUser(t, env)
	orders := NewOrderService(env.Repo, nil)
	ctx := context.Background()

	book := seedProduct(t, env, "book", 1500)
	pen := seedProduct(t, env, "pen", 200)

	order, err := orders.CreateOrder(ctx, user.ID, []OrderItemInput{
		{ProductID: book.ID, Quantity: 2},
		{ProductID: pen.ID, Quantity: 3},
	})
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.EqualValues(t, 2*1500+3*200, order.Total)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "book", order.Items[0].ProductName)
	assert.EqualValues(t, 3000, order.Items[0].LineTotal)

	// Later catalog edits must not rewrite the snapshot.
	book.Price = 9900
	require.NoError(t, env.Repo.UpdateProduct(ctx, book))

	stored, err := orders.GetOrder(ctx, order.ID, user.ID, false)
	require.NoError(t, err)
	assert.EqualValues(t, 1500, stored.Items[0].UnitPrice)
}

func TestOrderService_CreateOrder_Validation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	user := registerUser(t, env)
	orders := NewOrderService(env.Repo, nil)
	ctx := context.Background()

	_, err := orders.CreateOrder(ctx, user.ID, nil)
	assert.ErrorIs(t, err, ErrValidation)

	product := seedProduct(t, env, "book", 1500)

	_, err = orders.CreateOrder(ctx, user.ID, []OrderItemInput{{ProductID: product.ID, Quantity: 0}})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = orders.CreateOrder(ctx, user.ID, []OrderItemInput{{ProductID: 9999, Quantity: 1}})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestOrderService_GetOrder_OwnershipEnforced(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	user := registerUser(t, env)
	orders := NewOrderService(env.Repo, nil)
	ctx := context.Background()

	product := seedProduct(t, env, "book", 1500)
	order, err := orders.CreateOrder(ctx, user.ID, []OrderItemInput{{ProductID: product.ID, Quantity: 1}})
	require.NoError(t, err)

	_, err = orders.GetOrder(ctx, order.ID, user.ID+1, false)
	assert.ErrorIs(t, err, ErrForbidden)

	// Admins can read any order.
	got, err := orders.GetOrder(ctx, order.ID, user.ID+1, true)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
}
