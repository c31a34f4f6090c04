/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/entityext/datastore/mock"
	"github.com/suparena/entityext/errors"
)

var envKeys = []string{
	"ENTITYEXT_ENGINE", "MONGO_URI", "MONGO_DATABASE",
	"AWS_ACCESS_KEY", "AWS_SECRET_KEY", "AWS_REGION", "AWS_DDB_TABLE", "AWS_DDB_ENDPOINT",
}

// clearEnv unsets the backend variables for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		if v, ok := os.LookupEnv(k); ok {
			t.Cleanup(func() { os.Setenv(k, v) })
		} else {
			t.Cleanup(func() { os.Unsetenv(k) })
		}
		os.Unsetenv(k)
	}
}

func TestLoadEnvFromFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("ENTITYEXT_ENGINE=DynamoDB\nAWS_REGION=us-east-1\nAWS_DDB_TABLE=entities\nAWS_DDB_ENDPOINT=http://localhost:8000\n"), 0o600))

	env := LoadEnv(path)
	assert.Equal(t, EngineDynamoDB, env.Engine)
	assert.Equal(t, "us-east-1", env.AWSRegion)
	assert.Equal(t, "entities", env.DDBTable)
	assert.Equal(t, "http://localhost:8000", env.DDBEndpoint)
	assert.NoError(t, env.Validate())
}

func TestLoadEnvProcessWins(t *testing.T) {
	clearEnv(t)
	os.Setenv("MONGO_DATABASE", "from-process")
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("MONGO_DATABASE=from-file\n"), 0o600))

	env := LoadEnv(path)
	assert.Equal(t, "from-process", env.MongoDatabase)
	assert.Equal(t, EngineMemory, env.Engine)
}

func TestLoadEnvMissingFile(t *testing.T) {
	clearEnv(t)
	env := LoadEnv(filepath.Join(t.TempDir(), "absent.env"))
	assert.Equal(t, EngineMemory, env.Engine)
}

func TestEnvValidate(t *testing.T) {
	tests := []struct {
		name    string
		env     Env
		wantErr bool
	}{
		{name: "memory", env: Env{Engine: EngineMemory}},
		{name: "mongo", env: Env{Engine: EngineMongo, MongoURI: "mongodb://localhost", MongoDatabase: "app"}},
		{name: "mongo without uri", env: Env{Engine: EngineMongo, MongoDatabase: "app"}, wantErr: true},
		{name: "mongo without database", env: Env{Engine: EngineMongo, MongoURI: "mongodb://localhost"}, wantErr: true},
		{name: "dynamodb without table", env: Env{Engine: EngineDynamoDB, AWSRegion: "us-east-1"}, wantErr: true},
		{name: "unknown", env: Env{Engine: "redis"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.env.Validate()
			if tt.wantErr {
				assert.True(t, errors.IsConfigError(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestOpenMemoryEngine(t *testing.T) {
	env := &Env{Engine: EngineMemory}
	engine, closeFn, err := env.OpenEngine(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &mock.Engine{}, engine)
	assert.NoError(t, closeFn(context.Background()))

	bad := &Env{Engine: EngineMongo}
	_, closeFn, err = bad.OpenEngine(context.Background())
	assert.True(t, errors.IsConfigError(err))
	assert.NotNil(t, closeFn)
}
