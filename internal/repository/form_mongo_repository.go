package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Saravana-31/Form-Builder/internal/model"
	"github.com/Saravana-31/Form-Builder/internal/util"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// formDocument is the stored shape of a form. The human slug lives in "id"
// and the generated identifier in "_id", matching documents written by the
// web client.
type formDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Slug        string             `bson:"id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Questions   model.Questions    `bson:"questions"`
	CreatedAt   docTime            `bson:"created_at"`
	UpdatedAt   docTime            `bson:"updated_at"`
}

// docTime writes native dates and also reads the ISO-8601 strings the web
// client stored.
type docTime time.Time

func (t docTime) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(time.Time(t))
}

func (t *docTime) UnmarshalBSONValue(bt bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: bt, Value: data}
	switch bt {
	case bsontype.DateTime:
		*t = docTime(rv.Time())
	case bsontype.String:
		parsed, err := time.Parse(time.RFC3339Nano, rv.StringValue())
		if err != nil {
			return fmt.Errorf("timestamp %q: %w", rv.StringValue(), err)
		}
		*t = docTime(parsed)
	case bsontype.Null, bsontype.Undefined:
		*t = docTime{}
	default:
		return fmt.Errorf("timestamp: unsupported bson type %s", bt)
	}
	return nil
}

func (d formDocument) toModel() model.Form {
	f := model.Form{
		Title:       d.Title,
		Description: d.Description,
		Questions:   d.Questions,
	}
	f.ID = d.ID.Hex()
	f.CreatedAt = time.Time(d.CreatedAt)
	f.UpdatedAt = time.Time(d.UpdatedAt)
	if d.Slug != "" {
		slug := d.Slug
		f.Slug = &slug
	}
	if f.Questions == nil {
		f.Questions = model.Questions{}
	}
	return f
}

type MongoFormRepository struct {
	coll *mongo.Collection
}

func NewMongoFormRepository(db *mongo.Database) *MongoFormRepository {
	return &MongoFormRepository{coll: db.Collection(util.CollectionForms)}
}

// refFilter builds the query for ref. ok is false when ref cannot name any
// stored document, e.g. a system id that is not a valid ObjectID.
func refFilter(ref model.FormRef) (filter bson.M, ok bool) {
	if ref.Kind == model.RefSlug {
		return bson.M{"id": ref.Value}, true
	}
	oid, err := primitive.ObjectIDFromHex(ref.Value)
	if err != nil {
		return nil, false
	}
	return bson.M{"_id": oid}, true
}

func (r *MongoFormRepository) Create(ctx context.Context, form *model.Form) error {
	now := time.Now()
	if form.CreatedAt.IsZero() {
		form.CreatedAt = now
	}
	if form.UpdatedAt.IsZero() {
		form.UpdatedAt = form.CreatedAt
	}
	if form.Questions == nil {
		form.Questions = model.Questions{}
	}

	oid, err := primitive.ObjectIDFromHex(form.ID)
	if err != nil {
		oid = primitive.NewObjectID()
	}
	doc := formDocument{
		ID:          oid,
		Title:       form.Title,
		Description: form.Description,
		Questions:   form.Questions,
		CreatedAt:   docTime(form.CreatedAt),
		UpdatedAt:   docTime(form.UpdatedAt),
	}
	if form.Slug != nil {
		doc.Slug = *form.Slug
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return util.ErrSlugTaken
		}
		return util.WrapStorage("insert form", err)
	}
	form.ID = oid.Hex()
	return nil
}

func (r *MongoFormRepository) Find(ctx context.Context, ref model.FormRef) (*model.Form, error) {
	filter, ok := refFilter(ref)
	if !ok {
		return nil, util.ErrFormNotFound
	}
	var doc formDocument
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, util.ErrFormNotFound
	}
	if err != nil {
		return nil, util.WrapStorage("find form", err)
	}
	f := doc.toModel()
	return &f, nil
}

func (r *MongoFormRepository) Update(ctx context.Context, ref model.FormRef, content model.FormContent, at time.Time) (*model.Form, error) {
	filter, ok := refFilter(ref)
	if !ok {
		return nil, util.ErrFormNotFound
	}
	questions := content.Questions
	if questions == nil {
		questions = model.Questions{}
	}
	update := bson.M{"$set": bson.M{
		"title":       content.Title,
		"description": content.Description,
		"questions":   questions,
		"updated_at":  at,
	}}

	var doc formDocument
	err := r.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, util.ErrFormNotFound
	}
	if err != nil {
		return nil, util.WrapStorage("update form", err)
	}
	f := doc.toModel()
	return &f, nil
}

func (r *MongoFormRepository) Delete(ctx context.Context, ref model.FormRef) error {
	filter, ok := refFilter(ref)
	if !ok {
		return util.ErrFormNotFound
	}
	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return util.WrapStorage("delete form", err)
	}
	if res.DeletedCount == 0 {
		return util.ErrFormNotFound
	}
	return nil
}

func (r *MongoFormRepository) List(ctx context.Context) ([]model.Form, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, util.WrapStorage("list forms", err)
	}
	var docs []formDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, util.WrapStorage("list forms", err)
	}
	forms := make([]model.Form, 0, len(docs))
	for _, d := range docs {
		forms = append(forms, d.toModel())
	}
	return forms, nil
}
