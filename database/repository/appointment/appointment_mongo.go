package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"voicedesk/database"
	"voicedesk/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo returns a Repository backed by MongoDB. The
// unique partial index installed by EnsureIndexes is what closes the
// check-then-insert race for double-booking.
func NewMongoAppointmentRepo() Repository {
	db := database.MongoClient.Database("voicedesk")
	repo := &mongoAppointmentRepo{
		coll: db.Collection("appointments"),
	}
	if err := repo.EnsureIndexes(context.Background()); err != nil {
		panic(fmt.Sprintf("failed to ensure appointment indexes: %v", err))
	}
	return repo
}

func (r *mongoAppointmentRepo) Create(ctx context.Context, appt models.Appointment) (*models.Appointment, error) {
	if appt.ID == "" {
		appt.ID = uuid.New().String()
	}
	appt.Status = models.AppointmentBooked
	appt.CreatedAt = time.Now()

	// Best-effort pre-check for a friendly early failure; the unique
	// index is the authoritative guard.
	booked, err := r.IsSlotBooked(ctx, appt.Date, appt.Time)
	if err != nil {
		return nil, fmt.Errorf("slot pre-check failed: %w", err)
	}
	if booked {
		return nil, ErrSlotTaken
	}

	if _, err := r.coll.InsertOne(ctx, appt); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("failed to insert appointment: %w", err)
	}
	return &appt, nil
}

func (r *mongoAppointmentRepo) ListByPhone(ctx context.Context, phone string, status models.AppointmentStatus) ([]models.Appointment, error) {
	filter := bson.M{"user_phone": phone}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query appointments: %w", err)
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("failed to decode appointments: %w", err)
	}
	return appts, nil
}

func (r *mongoAppointmentRepo) Cancel(ctx context.Context, id, phone string) (*models.Appointment, error) {
	filter := bson.M{
		"id":         id,
		"user_phone": phone,
		"status":     models.AppointmentBooked,
	}
	update := bson.M{"$set": bson.M{
		"status":     models.AppointmentCancelled,
		"updated_at": time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var appt models.Appointment
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&appt)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to cancel appointment: %w", err)
	}
	return &appt, nil
}

func (r *mongoAppointmentRepo) Modify(ctx context.Context, id, phone string, fields ModifyFields) (*models.Appointment, error) {
	var current models.Appointment
	err := r.coll.FindOne(ctx, bson.M{
		"id":         id,
		"user_phone": phone,
		"status":     models.AppointmentBooked,
	}).Decode(&current)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load appointment: %w", err)
	}

	checkDate := current.Date
	if fields.NewDate != "" {
		checkDate = fields.NewDate
	}
	checkTime := current.Time
	if fields.NewTime != "" {
		checkTime = fields.NewTime
	}

	// Conflict check against the proposed slot, excluding this record.
	count, err := r.coll.CountDocuments(ctx, bson.M{
		"id":     bson.M{"$ne": id},
		"date":   checkDate,
		"time":   checkTime,
		"status": models.AppointmentBooked,
	})
	if err != nil {
		return nil, fmt.Errorf("conflict check failed: %w", err)
	}
	if count > 0 {
		return nil, ErrSlotTaken
	}

	set := bson.M{"updated_at": time.Now()}
	if fields.NewDate != "" {
		set["date"] = fields.NewDate
	}
	if fields.NewTime != "" {
		set["time"] = fields.NewTime
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Appointment
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("failed to modify appointment: %w", err)
	}
	return &updated, nil
}

func (r *mongoAppointmentRepo) IsSlotBooked(ctx context.Context, date, timeOfDay string) (bool, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{
		"date":   date,
		"time":   timeOfDay,
		"status": models.AppointmentBooked,
	})
	if err != nil {
		return false, fmt.Errorf("failed to check slot: %w", err)
	}
	return count > 0, nil
}
