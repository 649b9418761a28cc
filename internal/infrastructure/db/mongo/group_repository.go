package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/luzdental/clinic-system/internal/core/domain"
)

const groupCollection = "groups"

// GroupRepository persists the role directory: one document per canonical
// group, each holding its member usernames.
type GroupRepository struct {
	col *mongo.Collection
}

func NewGroupRepository(db *mongo.Database) *GroupRepository {
	return &GroupRepository{col: db.Collection(groupCollection)}
}

type mongoGroup struct {
	Name    string   `bson:"name"`
	Members []string `bson:"members"`
}

// EnsureDefaults upserts the four canonical groups. $setOnInsert keeps the
// operation idempotent: existing groups and their members are untouched.
func (r *GroupRepository) EnsureDefaults(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	for _, g := range domain.CanonicalGroups {
		_, err := r.col.UpdateOne(ctx,
			bson.M{"name": string(g)},
			bson.M{"$setOnInsert": bson.M{"name": string(g), "members": []string{}}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *GroupRepository) List(ctx context.Context) ([]domain.Group, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	names, err := r.col.Distinct(ctx, "name", bson.M{})
	if err != nil {
		return nil, err
	}

	groups := make([]domain.Group, 0, len(names))
	for _, n := range names {
		if s, ok := n.(string); ok {
			groups = append(groups, domain.Group(s))
		}
	}
	return groups, nil
}

// ReplaceMembership removes username from every group, then adds it to
// exactly the given set — clear-then-add, never a diff.
func (r *GroupRepository) ReplaceMembership(ctx context.Context, username string, groups []domain.Group) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.UpdateMany(ctx,
		bson.M{},
		bson.M{"$pull": bson.M{"members": username}},
	); err != nil {
		return err
	}
	if len(groups) == 0 {
		return nil
	}

	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = string(g)
	}
	_, err := r.col.UpdateMany(ctx,
		bson.M{"name": bson.M{"$in": names}},
		bson.M{"$addToSet": bson.M{"members": username}},
	)
	return err
}

func (r *GroupRepository) GroupsOf(ctx context.Context, username string) ([]domain.Group, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"members": username})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []domain.Group
	for cur.Next(ctx) {
		var doc mongoGroup
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, domain.Group(doc.Name))
	}
	return out, cur.Err()
}

func (r *GroupRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
