/*
Package mongo provides a MongoDB implementation of the datastore engine.

Each record type is stored in its own collection, named by lowercasing and
pluralizing the table name ("Badge" becomes "badges"), with an index on
modelId. Caller-defined fields are stored inline next to the fixed
attributes, so filters address them directly:

	engine, err := mongo.Connect(ctx, "mongodb://localhost:27017", "app")
	model := entityext.NewModel(schema, engine)
	model.Call(ctx, "findBadge", entityext.Options{"level": 3})

Owning records are read from the collection of their model, by ObjectID or by
plain string _id.
*/
package mongo
