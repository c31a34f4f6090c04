/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

// GSIConfig holds the configuration for GSI key mappings
type GSIConfig struct {
	// IndexName is the actual GSI name in DynamoDB (e.g., "GSI1")
	IndexName string
	// PartitionKeyName is the actual partition key attribute name in the GSI (e.g., "PK1")
	PartitionKeyName string
	// SortKeyName is the actual sort key attribute name in the GSI (e.g., "SK1")
	SortKeyName string
}

// RecordIndex is the default index grouping every record of a type
const RecordIndex = "GSI1"

// DefaultGSIConfigs holds the default GSI configurations
var DefaultGSIConfigs = map[string]GSIConfig{
	"GSI1": {
		IndexName:        "GSI1",
		PartitionKeyName: "PK1",
		SortKeyName:      "SK1",
	},
	"GSI2": {
		IndexName:        "GSI2",
		PartitionKeyName: "PK2",
		SortKeyName:      "SK2",
	},
}

// GetGSIConfig returns the GSI configuration for a given index name
func GetGSIConfig(indexName string) (GSIConfig, bool) {
	config, ok := DefaultGSIConfigs[indexName]
	return config, ok
}

// recordKeyTemplates lays extension records out in the single table. The
// base table groups records per owner; the index groups every record of a type.
func recordKeyTemplates(index GSIConfig) map[string]string {
	return map[string]string{
		"PK":                   "EXT#{EntityType}#{ModelId}",
		"SK":                   "REC#{Id}",
		index.PartitionKeyName: "EXT#{EntityType}",
		index.SortKeyName:      "REC#{Id}",
	}
}
