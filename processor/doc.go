/*
Package processor generates Go code from an extension manifest.

For every extension of every model the generated file declares the method
name constants and the entityext.Config value, plus one attach function per
model:

	models:
	  - name: User
	    extensions:
	      - tableName: Badge
	        schema:
	          level: {type: number, default: 1}

becomes

	const (
	    UserBadgeCreate   = "createBadge"
	    UserBadgeFind     = "findBadge"
	    UserBadgeRemove   = "removeBadge"
	    UserBadgeFindBy   = "findByBadge"
	    UserBadgeAccessor = "badge"
	)

	var UserBadgeConfig = entityext.Config{
	    TableName: "Badge",
	    Schema: storagemodels.FieldSchema{
	        "level": {Type: storagemodels.FieldNumber, Default: 1},
	    },
	}

	func AttachUserExtensions(schema *entityext.Schema, opts ...entityext.Option) ([]*entityext.Extension, error)

Callers then use the constants instead of spelling method names by hand:

	model.Call(ctx, gen.UserBadgeFind, entityext.Options{"level": 3})

The cmd/extgen command wraps GenerateFile for use with go:generate.
*/
package processor
