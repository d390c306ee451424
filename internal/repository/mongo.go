package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/laka02/quickcart/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Connect dials MongoDB and verifies the connection with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("unable to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		return nil, fmt.Errorf("MongoDB is not reachable: %w", err)
	}

	return client, nil
}

type mongoProductRepository struct {
	coll *mongo.Collection
}

func NewMongoProductRepository(db *mongo.Database) ProductRepository {
	return &mongoProductRepository{coll: db.Collection("products")}
}

func (r *mongoProductRepository) GetAll(ctx context.Context) ([]*domain.Product, error) {
	cursor, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("unable to list products: %w", err)
	}

	var products []*domain.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("unable to decode products: %w", err)
	}
	return products, nil
}

func (r *mongoProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("unable to get product %s: %w", id, err)
	}
	return &product, nil
}

func (r *mongoProductRepository) Add(ctx context.Context, product *domain.Product) error {
	product.ID = uuid.New().String()
	product.CreatedAt = time.Now().UTC()

	if _, err := r.coll.InsertOne(ctx, product); err != nil {
		return fmt.Errorf("unable to insert product: %w", err)
	}
	return nil
}

func (r *mongoProductRepository) Update(ctx context.Context, product *domain.Product) error {
	result, err := r.coll.ReplaceOne(ctx, bson.M{"_id": product.ID}, product)
	if err != nil {
		return fmt.Errorf("unable to update product %s: %w", product.ID, err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *mongoProductRepository) Delete(ctx context.Context, id string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("unable to delete product %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// AggregateInventory pushes the summary computation into the database: one
// $group pass over the collection, then a $project that rounds the money
// fields and counts the distinct categories. Empty categories are folded
// into the Uncategorized bucket inside the pipeline so the result matches
// the in-process aggregation engine.
func (r *mongoProductRepository) AggregateInventory(ctx context.Context) (domain.InventorySummary, error) {
	canonicalCategory := bson.D{{Key: "$cond", Value: bson.A{
		bson.D{{Key: "$in", Value: bson.A{"$category", bson.A{"", nil}}}},
		domain.Uncategorized,
		"$category",
	}}}

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "totalStock", Value: bson.D{{Key: "$sum", Value: "$stock"}}},
			{Key: "totalProducts", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "averagePrice", Value: bson.D{{Key: "$avg", Value: "$price"}}},
			{Key: "totalValue", Value: bson.D{{Key: "$sum", Value: bson.D{
				{Key: "$multiply", Value: bson.A{"$price", "$stock"}},
			}}}},
			{Key: "categories", Value: bson.D{{Key: "$addToSet", Value: canonicalCategory}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "totalStock", Value: 1},
			{Key: "totalProducts", Value: 1},
			{Key: "averagePrice", Value: bson.D{{Key: "$round", Value: bson.A{"$averagePrice", 2}}}},
			{Key: "totalValue", Value: bson.D{{Key: "$round", Value: bson.A{"$totalValue", 2}}}},
			{Key: "categoryCount", Value: bson.D{{Key: "$size", Value: "$categories"}}},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return domain.InventorySummary{}, fmt.Errorf("unable to aggregate inventory: %w", err)
	}

	var results []domain.InventorySummary
	if err := cursor.All(ctx, &results); err != nil {
		return domain.InventorySummary{}, fmt.Errorf("unable to decode inventory summary: %w", err)
	}

	// An empty collection produces no group document; that is the zero
	// summary, not an error.
	if len(results) == 0 {
		return domain.InventorySummary{}, nil
	}
	return results[0], nil
}

type mongoSupplierRepository struct {
	coll *mongo.Collection
}

func NewMongoSupplierRepository(db *mongo.Database) SupplierRepository {
	return &mongoSupplierRepository{coll: db.Collection("suppliers")}
}

func (r *mongoSupplierRepository) GetAll(ctx context.Context) ([]*domain.Supplier, error) {
	cursor, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("unable to list suppliers: %w", err)
	}

	var suppliers []*domain.Supplier
	if err := cursor.All(ctx, &suppliers); err != nil {
		return nil, fmt.Errorf("unable to decode suppliers: %w", err)
	}
	return suppliers, nil
}

func (r *mongoSupplierRepository) GetByID(ctx context.Context, id string) (*domain.Supplier, error) {
	var supplier domain.Supplier
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&supplier)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrSupplierNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("unable to get supplier %s: %w", id, err)
	}
	return &supplier, nil
}

func (r *mongoSupplierRepository) Add(ctx context.Context, supplier *domain.Supplier) error {
	now := time.Now().UTC()
	supplier.ID = uuid.New().String()
	supplier.CreatedAt = now
	supplier.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, supplier); err != nil {
		return fmt.Errorf("unable to insert supplier: %w", err)
	}
	return nil
}

func (r *mongoSupplierRepository) Update(ctx context.Context, supplier *domain.Supplier) error {
	supplier.UpdatedAt = time.Now().UTC()

	result, err := r.coll.ReplaceOne(ctx, bson.M{"_id": supplier.ID}, supplier)
	if err != nil {
		return fmt.Errorf("unable to update supplier %s: %w", supplier.ID, err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrSupplierNotFound
	}
	return nil
}

func (r *mongoSupplierRepository) Delete(ctx context.Context, id string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("unable to delete supplier %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrSupplierNotFound
	}
	return nil
}

type mongoUserRepository struct {
	coll *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) UserRepository {
	return &mongoUserRepository{coll: db.Collection("users")}
}

func (r *mongoUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.coll.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("unable to get user by email: %w", err)
	}
	return &user, nil
}

func (r *mongoUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("unable to get user %s: %w", id, err)
	}
	return &user, nil
}

func (r *mongoUserRepository) Add(ctx context.Context, user *domain.User) error {
	user.Email = strings.ToLower(user.Email)
	if _, err := r.GetByEmail(ctx, user.Email); err == nil {
		return domain.ErrEmailTaken
	}

	user.ID = uuid.New().String()
	user.CreatedAt = time.Now().UTC()

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("unable to insert user: %w", err)
	}
	return nil
}

func (r *mongoUserRepository) UpdatePassword(ctx context.Context, id string, hash []byte) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"password_hash": hash}})
	if err != nil {
		return fmt.Errorf("unable to update password for %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
