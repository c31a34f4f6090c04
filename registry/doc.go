/*
Package registry holds the lookup tables the storage backends share.

Type Registry:
Maps the EntityType stored next to each item to its record type definition:

	types := registry.NewTypeRegistry()
	err := types.Register(storagemodels.NewRecordType("Badge", nil))

Index Map Registry:
Associates Go owner types with DynamoDB key patterns:

	registry.RegisterIndexMap[User](map[string]string{
	    "PK": "USER#{ID}",
	    "SK": "USER#{ID}",
	})

Both registries are safe for concurrent use. Index maps are normally
registered from init functions.
*/
package registry
