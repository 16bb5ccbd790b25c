package repository

import (
	"context"
	"errors"
	"time"

	"github.com/danuarta/shop-microservices/internal/cart/domain"
	"github.com/danuarta/shop-microservices/internal/platform/logger"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrCartNotFound = errors.New("cart not found")

const cartCollection = "carts"

type CartRepository interface {
	GetCartByUserID(ctx context.Context, userID string) (*domain.Cart, error)
	SaveCart(ctx context.Context, cart *domain.Cart) error
	DeleteCartByUserID(ctx context.Context, userID string) error
	DeleteCartsIdleSince(ctx context.Context, cutoff time.Time) (int64, error)
}

type mongoCartRepository struct {
	collection *mongo.Collection
}

func NewMongoCartRepository(db *mongo.Database) CartRepository {
	return &mongoCartRepository{collection: db.Collection(cartCollection)}
}

func (r *mongoCartRepository) GetCartByUserID(ctx context.Context, userID string) (*domain.Cart, error) {
	var cart domain.Cart
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		logger.Error("GetCartByUserID: find failed", err)
		return nil, err
	}
	return &cart, nil
}

// SaveCart melakukan upsert per user; dokumen baru dapat ID uuid.
func (r *mongoCartRepository) SaveCart(ctx context.Context, cart *domain.Cart) error {
	now := time.Now()
	if cart.ID == "" {
		cart.ID = uuid.NewString()
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now
	if cart.Items == nil {
		cart.Items = []domain.CartItem{}
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"user_id": cart.UserID}, cart, opts); err != nil {
		logger.Error("SaveCart: replace failed", err)
		return err
	}
	return nil
}

func (r *mongoCartRepository) DeleteCartByUserID(ctx context.Context, userID string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"user_id": userID})
	if err != nil {
		logger.Error("DeleteCartByUserID: delete failed", err)
		return err
	}
	if res.DeletedCount == 0 {
		return ErrCartNotFound
	}
	return nil
}

// DeleteCartsIdleSince dipakai sweeper untuk membuang cart yang sudah lama tidak disentuh.
func (r *mongoCartRepository) DeleteCartsIdleSince(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"updated_at": bson.M{"$lt": cutoff}})
	if err != nil {
		logger.Error("DeleteCartsIdleSince: delete failed", err)
		return 0, err
	}
	return res.DeletedCount, nil
}
