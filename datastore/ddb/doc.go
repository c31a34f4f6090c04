/*
Package ddb provides a DynamoDB implementation of the datastore engine.

Every extension record type shares one table, laid out as a single-table
design:

	PK  = EXT#<Table>#<modelId>   base table, records of one owner
	SK  = REC#<id>
	PK1 = EXT#<Table>             GSI1, every record of the type
	SK1 = REC#<id>

Each item also carries an EntityType attribute naming its record type, which
the engine uses to restore typed field values on read. Caller fields live in
a nested Fields map.

Finds that constrain modelId query the base table; all others query GSI1.
Remaining constraints become a FilterExpression. Results are paged with
configurable page size and retry on throttling:

	engine := ddb.NewEngine(client, "entities",
	    ddb.WithPageOptions(
	        storagemodels.WithPageSize(50),
	        storagemodels.WithMaxRetries(5),
	    ),
	)

Owning records are loaded through typed DynamodbDataStore values registered
on the engine's owner registry, keyed by macro-expanded index maps:

	registry.RegisterIndexMap[User](map[string]string{
	    "PK": "USER#{Id}",
	    "SK": "USER#{Id}",
	})
	users := ddb.NewDynamodbDataStore[User](client, "entities")
	err := datastore.RegisterOwnerStore[User](engine.Owners, "User", users)
*/
package ddb
