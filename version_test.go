/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package entityext

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.NotEmpty(t, info.GitCommit)

	old := GoVersion
	GoVersion = "go-test"
	t.Cleanup(func() { GoVersion = old })
	assert.Equal(t, "go-test", GetVersionInfo().GoVersion)
}
