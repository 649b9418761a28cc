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

const appointmentCollection = "appointments"

type AppointmentRepository struct {
	col *mongo.Collection
}

func NewAppointmentRepository(db *mongo.Database) *AppointmentRepository {
	return &AppointmentRepository{col: db.Collection(appointmentCollection)}
}

type mongoAppointment struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	PatientName  string             `bson:"patient_name"`
	ScheduledAt  time.Time          `bson:"scheduled_at"`
	Phone        string             `bson:"phone,omitempty"`
	Email        string             `bson:"email,omitempty"`
	Status       string             `bson:"status"`
	TreatmentIDs []string           `bson:"treatment_ids,omitempty"`
	SlotKey      string             `bson:"slot_key"`
	CreatedAt    time.Time          `bson:"created_at"`
}

// Create inserts a new appointment. A duplicate-key error on the unique
// slot_key index means another appointment won the slot.
func (r *AppointmentRepository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoAppointment{
		PatientName:  a.PatientName,
		ScheduledAt:  a.ScheduledAt,
		Phone:        a.Phone,
		Email:        a.Email,
		Status:       string(a.Status),
		TreatmentIDs: a.TreatmentIDs,
		SlotKey:      a.SlotKey,
		CreatedAt:    a.CreatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrSlotTaken
		}
		return nil, err
	}

	created := *a
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAppointmentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoAppointment
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAppointmentNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// List returns all appointments, most recent schedule first.
func (r *AppointmentRepository) List(ctx context.Context) ([]*domain.Appointment, error) {
	return r.find(ctx, 0)
}

// Recent returns the latest appointments by schedule, capped at limit.
func (r *AppointmentRepository) Recent(ctx context.Context, limit int) ([]*domain.Appointment, error) {
	return r.find(ctx, int64(limit))
}

func (r *AppointmentRepository) find(ctx context.Context, limit int64) ([]*domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "scheduled_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}

	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*domain.Appointment
	for cur.Next(ctx) {
		var doc mongoAppointment
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toDomain())
	}
	return out, cur.Err()
}

func (r *AppointmentRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.col.CountDocuments(ctx, bson.M{})
}

// CountInSlot counts appointments occupying the given hour slot, skipping
// excludeID when non-empty.
func (r *AppointmentRepository) CountInSlot(ctx context.Context, slotKey string, excludeID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"slot_key": slotKey}
	if excludeID != "" {
		oid, err := primitive.ObjectIDFromHex(excludeID)
		if err != nil {
			return 0, domain.ErrAppointmentNotFound
		}
		filter["_id"] = bson.M{"$ne": oid}
	}
	return r.col.CountDocuments(ctx, filter)
}

// UpdateSchedule persists a reschedule: the new timestamp and its slot key.
func (r *AppointmentRepository) UpdateSchedule(ctx context.Context, id string, a *domain.Appointment) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrAppointmentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"scheduled_at": a.ScheduledAt,
		"slot_key":     a.SlotKey,
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrSlotTaken
		}
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrAppointmentNotFound
	}
	return nil
}

func (r *AppointmentRepository) SetStatus(ctx context.Context, id string, status domain.AppointmentStatus) error {
	return r.setField(ctx, id, bson.M{"status": string(status)})
}

func (r *AppointmentRepository) SetTreatments(ctx context.Context, id string, treatmentIDs []string) error {
	return r.setField(ctx, id, bson.M{"treatment_ids": treatmentIDs})
}

func (r *AppointmentRepository) setField(ctx context.Context, id string, fields bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrAppointmentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrAppointmentNotFound
	}
	return nil
}

func (r *AppointmentRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrAppointmentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrAppointmentNotFound
	}
	return nil
}

// EnsureIndexes creates the unique slot index that closes the
// check-then-insert race between concurrent bookings.
func (r *AppointmentRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slot_key", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "scheduled_at", Value: -1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (d *mongoAppointment) toDomain() *domain.Appointment {
	return &domain.Appointment{
		ID:           d.ID.Hex(),
		PatientName:  d.PatientName,
		ScheduledAt:  d.ScheduledAt,
		Phone:        d.Phone,
		Email:        d.Email,
		Status:       domain.AppointmentStatus(d.Status),
		TreatmentIDs: d.TreatmentIDs,
		SlotKey:      d.SlotKey,
		CreatedAt:    d.CreatedAt,
	}
}
