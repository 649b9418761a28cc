package mongo

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/luzdental/clinic-system/internal/core/domain"
)

const treatmentCollection = "treatments"

type TreatmentRepository struct {
	col *mongo.Collection
}

func NewTreatmentRepository(db *mongo.Database) *TreatmentRepository {
	return &TreatmentRepository{col: db.Collection(treatmentCollection)}
}

// Price is stored as its canonical decimal string so the 2dp fixed-point
// value round-trips exactly.
type mongoTreatment struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description,omitempty"`
	Price       string             `bson:"price"`
}

func (r *TreatmentRepository) Create(ctx context.Context, t *domain.Treatment) (*domain.Treatment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, mongoTreatment{
		Name:        t.Name,
		Description: t.Description,
		Price:       t.Price.String(),
	})
	if err != nil {
		return nil, err
	}

	created := *t
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *TreatmentRepository) GetByID(ctx context.Context, id string) (*domain.Treatment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTreatmentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoTreatment
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTreatmentNotFound
		}
		return nil, err
	}
	return doc.toDomain()
}

// FindByIDs resolves the given ids leniently: malformed or unknown ids are
// dropped from the result, never reported as an error.
func (r *TreatmentRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Treatment, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	return decodeTreatments(ctx, cur)
}

func (r *TreatmentRepository) List(ctx context.Context) ([]*domain.Treatment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	return decodeTreatments(ctx, cur)
}

func (r *TreatmentRepository) Update(ctx context.Context, t *domain.Treatment) error {
	oid, err := primitive.ObjectIDFromHex(t.ID)
	if err != nil {
		return domain.ErrTreatmentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"name":        t.Name,
		"description": t.Description,
		"price":       t.Price.String(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrTreatmentNotFound
	}
	return nil
}

func (r *TreatmentRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrTreatmentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrTreatmentNotFound
	}
	return nil
}

func (r *TreatmentRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.col.CountDocuments(ctx, bson.M{})
}

func decodeTreatments(ctx context.Context, cur *mongo.Cursor) ([]*domain.Treatment, error) {
	var out []*domain.Treatment
	for cur.Next(ctx) {
		var doc mongoTreatment
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		t, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, cur.Err()
}

func (d *mongoTreatment) toDomain() (*domain.Treatment, error) {
	price, err := decimal.NewFromString(d.Price)
	if err != nil {
		return nil, err
	}
	return &domain.Treatment{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Price:       price,
	}, nil
}
