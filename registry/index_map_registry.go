/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"reflect"
	"sync"
)

// indexMaps holds the DynamoDB key templates of owner types, keyed by the
// Go type they describe.
var (
	indexMaps   = make(map[reflect.Type]map[string]string)
	indexMapsMu sync.RWMutex
)

// RegisterIndexMap associates type T with its key templates (PK, SK and any
// GSI keys). The map is copied; registering T again replaces it.
func RegisterIndexMap[T any](idxMap map[string]string) {
	cp := make(map[string]string, len(idxMap))
	for k, v := range idxMap {
		cp[k] = v
	}

	indexMapsMu.Lock()
	defer indexMapsMu.Unlock()
	indexMaps[reflect.TypeOf((*T)(nil)).Elem()] = cp
}

// GetIndexMap returns the key templates registered for type T.
func GetIndexMap[T any]() (map[string]string, bool) {
	indexMapsMu.RLock()
	defer indexMapsMu.RUnlock()
	m, ok := indexMaps[reflect.TypeOf((*T)(nil)).Elem()]
	return m, ok
}
