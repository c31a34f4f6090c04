/*
Package storagemodels defines the data structures shared by the extension
attacher and the storage engines.

Record:
An extension record, keyed to its owning record by ModelID:

	type Record struct {
	    ID        string
	    Type      string         // defaults to the lowercased table name
	    ModelID   string         // identity of the owning record
	    CreatedAt time.Time
	    Fields    map[string]any // caller-defined fields
	}

FieldSchema:
Caller-defined fields merged into the record type. Formats come from the
go-openapi/strfmt registry:

	fields := FieldSchema{
	    "level":   {Type: FieldNumber, Default: 1},
	    "email":   {Type: FieldString, Format: "email", Required: true},
	    "awarded": {Type: FieldDateTime},
	}

Filter:
Equality constraints over record attributes, used by every engine:

	Filter{"modelId": "abc123", "level": 3}

QueryParams and PageOptions configure the DynamoDB engine's paged reads.
*/
package storagemodels
