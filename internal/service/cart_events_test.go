package service_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vmkazarin/online_store/internal/models"
	"github.com/vmkazarin/online_store/internal/mykafka"
	"github.com/vmkazarin/online_store/internal/repo"
	"github.com/vmkazarin/online_store/internal/service"
	"github.com/vmkazarin/online_store/internal/transport"
)

type recordingWriter struct {
	msgs []kafka.Message
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func (w *recordingWriter) eventTypes(t *testing.T) []string {
	t.Helper()
	types := make([]string, 0, len(w.msgs))
	for _, m := range w.msgs {
		var payload map[string]any
		require.NoError(t, json.Unmarshal(m.Value, &payload))
		typ, _ := payload["type"].(string)
		types = append(types, typ)
	}
	return types
}

func newCartService(t *testing.T) (*service.CartService, *recordingWriter) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.CartItem{},
	))

	w := &recordingWriter{}
	return &service.CartService{
		Repo:     &repo.GormRepo{DB: db},
		Producer: mykafka.NewFromWriter(w),
	}, w
}

// Every cart mutation emits one event on the cart topic, keyed by user.
func TestCartMutationsPublishEvents(t *testing.T) {
	svc, w := newCartService(t)
	ctx := context.Background()
	const userID = uint(7)

	product := models.Product{Name: "widget", Price: decimal.RequireFromString("10.00"), Stock: 50}
	require.NoError(t, svc.Repo.DB.Create(&product).Error)

	_, err := svc.AddItem(ctx, userID, transport.AddCartItemRequest{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	_, err = svc.UpdateItem(ctx, userID, product.ID, 5)
	require.NoError(t, err)

	// zero quantity removes the line and reports it as a removal
	_, err = svc.UpdateItem(ctx, userID, product.ID, 0)
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, userID, transport.AddCartItemRequest{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)
	require.NoError(t, svc.RemoveItem(ctx, userID, product.ID))

	_, err = svc.AddItem(ctx, userID, transport.AddCartItemRequest{ProductID: product.ID, Quantity: 3})
	require.NoError(t, err)
	require.NoError(t, svc.Clear(ctx, userID))

	require.Equal(t, []string{
		"cart_item_added",
		"cart_item_updated",
		"cart_item_removed",
		"cart_item_added",
		"cart_item_removed",
		"cart_item_added",
		"cart_cleared",
	}, w.eventTypes(t))

	for _, m := range w.msgs {
		require.Equal(t, mykafka.TopicCartEvents, m.Topic)
		require.Equal(t, "7", string(m.Key))
	}

	var updated map[string]any
	require.NoError(t, json.Unmarshal(w.msgs[1].Value, &updated))
	require.EqualValues(t, 5, updated["quantity"])
}
