package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/luzdental/clinic-system/internal/core/domain"
)

const reservationCollection = "reservations"

type ReservationRepository struct {
	col *mongo.Collection
}

func NewReservationRepository(db *mongo.Database) *ReservationRepository {
	return &ReservationRepository{col: db.Collection(reservationCollection)}
}

type mongoReservation struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Reference   string             `bson:"reference"`
	ClientName  string             `bson:"client_name"`
	ScheduledAt time.Time          `bson:"scheduled_at"`
	Phone       string             `bson:"phone,omitempty"`
	Email       string             `bson:"email,omitempty"`
	Attendees   int                `bson:"attendees"`
	Status      string             `bson:"status"`
	CreatedAt   time.Time          `bson:"created_at"`
}

func (r *ReservationRepository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	inserted, err := r.col.InsertOne(ctx, mongoReservation{
		Reference:   res.Reference,
		ClientName:  res.ClientName,
		ScheduledAt: res.ScheduledAt,
		Phone:       res.Phone,
		Email:       res.Email,
		Attendees:   res.Attendees,
		Status:      string(res.Status),
		CreatedAt:   res.CreatedAt,
	})
	if err != nil {
		return nil, err
	}

	created := *res
	created.ID = inserted.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrReservationNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoReservation
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrReservationNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// List returns all reservations, most recent schedule first.
func (r *ReservationRepository) List(ctx context.Context) ([]*domain.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "scheduled_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*domain.Reservation
	for cur.Next(ctx) {
		var doc mongoReservation
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toDomain())
	}
	return out, cur.Err()
}

func (r *ReservationRepository) Update(ctx context.Context, res *domain.Reservation) error {
	oid, err := primitive.ObjectIDFromHex(res.ID)
	if err != nil {
		return domain.ErrReservationNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	updated, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"client_name":  res.ClientName,
		"scheduled_at": res.ScheduledAt,
		"phone":        res.Phone,
		"email":        res.Email,
		"attendees":    res.Attendees,
		"status":       string(res.Status),
	}})
	if err != nil {
		return err
	}
	if updated.MatchedCount == 0 {
		return domain.ErrReservationNotFound
	}
	return nil
}

func (r *ReservationRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrReservationNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrReservationNotFound
	}
	return nil
}

func (d *mongoReservation) toDomain() *domain.Reservation {
	return &domain.Reservation{
		ID:          d.ID.Hex(),
		Reference:   d.Reference,
		ClientName:  d.ClientName,
		ScheduledAt: d.ScheduledAt,
		Phone:       d.Phone,
		Email:       d.Email,
		Attendees:   d.Attendees,
		Status:      domain.ReservationStatus(d.Status),
		CreatedAt:   d.CreatedAt,
	}
}
