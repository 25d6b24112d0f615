package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Saravana-31/Form-Builder/internal/model"
	"github.com/Saravana-31/Form-Builder/internal/util"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// responseDocument keeps answers as a native sub-document so they stay
// queryable from the mongo shell.
type responseDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	FormID      string             `bson:"form_id"`
	Answers     bson.Raw           `bson:"answers"`
	SubmittedAt time.Time          `bson:"submitted_at"`
}

func answersToBSON(p model.AnswerPayload) (bson.Raw, error) {
	js, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	var doc bson.D
	if err := bson.UnmarshalExtJSON(js, false, &doc); err != nil {
		return nil, err
	}
	return bson.Marshal(doc)
}

func answersFromBSON(raw bson.Raw) (model.AnswerPayload, error) {
	var p model.AnswerPayload
	if len(raw) == 0 {
		return p, nil
	}
	js, err := bson.MarshalExtJSON(raw, false, false)
	if err != nil {
		return p, err
	}
	err = json.Unmarshal(js, &p)
	return p, err
}

type MongoResponseRepository struct {
	coll *mongo.Collection
}

func NewMongoResponseRepository(db *mongo.Database) *MongoResponseRepository {
	return &MongoResponseRepository{coll: db.Collection(util.CollectionResponses)}
}

func (r *MongoResponseRepository) Create(ctx context.Context, resp *model.FormResponse) error {
	answers, err := answersToBSON(resp.Answers)
	if err != nil {
		return util.WrapStorage("encode answers", err)
	}
	oid := primitive.NewObjectID()
	doc := responseDocument{
		ID:          oid,
		FormID:      resp.FormID,
		Answers:     answers,
		SubmittedAt: resp.SubmittedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return util.WrapStorage("insert response", err)
	}
	resp.ID = oid.Hex()
	return nil
}

func (r *MongoResponseRepository) List(ctx context.Context, formID string) ([]model.FormResponse, error) {
	filter := bson.M{}
	if formID != "" {
		filter["form_id"] = formID
	}
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "submitted_at", Value: -1}}))
	if err != nil {
		return nil, util.WrapStorage("list responses", err)
	}
	var docs []responseDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, util.WrapStorage("list responses", err)
	}

	out := make([]model.FormResponse, 0, len(docs))
	for _, d := range docs {
		answers, err := answersFromBSON(d.Answers)
		if err != nil {
			return nil, util.WrapStorage("decode answers", err)
		}
		out = append(out, model.FormResponse{
			ID:          d.ID.Hex(),
			FormID:      d.FormID,
			Answers:     answers,
			SubmittedAt: d.SubmittedAt,
		})
	}
	return out, nil
}
