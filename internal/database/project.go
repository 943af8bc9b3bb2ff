package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/holica49/led-rental-chatbot-sub000/entity"
)

// SaveProject persists a completed intake, keyed by its uuid.
func (m *MongoDB) SaveProject(ctx context.Context, project *entity.Project) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(projectsCollection)

	filter := bson.D{{Key: "uuid", Value: project.UUID}}
	update := bson.D{{Key: "$set", Value: project}}
	opts := options.Update().SetUpsert(true)

	_, err = collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// GetProject retrieves one completed intake by uuid.
func (m *MongoDB) GetProject(ctx context.Context, uuid string) (*entity.Project, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(projectsCollection)

	var project entity.Project
	err = collection.FindOne(ctx, bson.D{{Key: "uuid", Value: uuid}}).Decode(&project)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, m.findError(err)
	}

	return &project, nil
}

// ListRecentProjects returns intakes completed within the given window,
// newest first.
func (m *MongoDB) ListRecentProjects(ctx context.Context, since time.Time) ([]entity.Project, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(projectsCollection)

	filter := bson.D{{Key: "created_at", Value: bson.D{{Key: "$gte", Value: since}}}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, m.findError(err)
	}
	defer cursor.Close(ctx)

	var projects []entity.Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}
