/*
Package entityext attaches generated record extensions to model schemas.

Given a table name, Attach registers five methods on both the instance and
the static method tables of a Schema:

	create<Name>   persist a record owned by a model instance
	find<Name>     list records, scoped to the owner on instances
	remove<Name>   delete records, scoped to the owner on instances
	findBy<Name>   find one record and load the instance that owns it
	<name>         the auxiliary record collection itself

The auxiliary collection is defined lazily through the calling model's
datastore engine on first use and reused by every later call. Records carry
a type (the lowercased table name unless set), a modelId referencing their
owner, a createdAt timestamp and any caller-defined fields.

Basic Usage:

	schema := entityext.NewSchema("User")
	badges, err := entityext.Attach(schema, entityext.Config{TableName: "Badge"},
	    entityext.WithLogger(log.WithField("service", "profiles")),
	    entityext.WithMetricsScope(scope),
	)

	users := entityext.NewModel(schema, engine)

	// dispatch by generated name
	_, err = users.Invoke(ctx, user, "createBadge", entityext.Options{"code": "XYZ"})
	res, err := users.Call(ctx, "findByBadge", entityext.Options{"code": "XYZ"})

	// or call the typed methods
	recs, err := badges.Find(ctx, users, entityext.Options{"modelId": user.OwnerID()})

Engines live under datastore: an in-memory mock, MongoDB and a DynamoDB
single-table implementation. Manifests and environment settings are loaded by
the config package, and cmd/extgen generates method name constants from a
manifest.
*/
package entityext
