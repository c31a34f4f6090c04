/*
Package datastore defines the persistence boundary consumed by entityext.

An Engine supplies the three capabilities the extension attacher needs:

	type Engine interface {
	    Define(ctx context.Context, rt *storagemodels.RecordType) (Collection, error)
	    Resolve(ctx context.Context, model string, id string) (Owner, error)
	}

	type Collection interface {
	    Name() string
	    Create(ctx context.Context, rec *storagemodels.Record) (*storagemodels.Record, error)
	    Find(ctx context.Context, filter storagemodels.Filter) ([]*storagemodels.Record, error)
	    FindOne(ctx context.Context, filter storagemodels.Filter) (*storagemodels.Record, error)
	    Remove(ctx context.Context, filter storagemodels.Filter) (int64, error)
	}

Owning records are reached through typed DataStore[T] stores registered in an
Owners registry:

	owners := datastore.NewOwners()
	datastore.RegisterOwnerStore[User](owners, "User", userStore)

Implementations:
  - ddb: DynamoDB single-table engine
  - mongo: MongoDB engine, one collection per record type
  - mock: in-memory engine for testing
*/
package datastore
