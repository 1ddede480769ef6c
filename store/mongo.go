package store

import (
	"context"
	"log"

	"Aarogyam/util"

	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check that Mongo satisfies the full contract.
var _ Store = (*Mongo)(nil)

// Mongo implements Store over an explicit database handle constructed once at
// process start and passed in. No package-level connection state.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
	atomic bool
}

func NewMongo(client *mongo.Client, db *mongo.Database, atomic bool) *Mongo {
	return &Mongo{client: client, db: db, atomic: atomic}
}

func (m *Mongo) collection(name string) *mongo.Collection {
	return m.db.Collection(name)
}

/*
* Run fn inside a Mongo transaction when atomic fan-out is enabled
* Fall back to calling fn directly otherwise (standalone deployments)
 */
func (m *Mongo) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !m.atomic {
		return fn(ctx)
	}
	session, err := m.client.StartSession()
	if err != nil {
		log.Println("Error while starting mongo session: ", err)
		return util.ErrExternalService
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
