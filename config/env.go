/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/suparena/entityext/datastore"
	"github.com/suparena/entityext/datastore/ddb"
	"github.com/suparena/entityext/datastore/mock"
	"github.com/suparena/entityext/datastore/mongo"
	"github.com/suparena/entityext/errors"
)

// Engine kinds selectable through ENTITYEXT_ENGINE
const (
	EngineMemory   = "memory"
	EngineMongo    = "mongo"
	EngineDynamoDB = "dynamodb"
)

// Env holds the backend settings read from the environment.
type Env struct {
	Engine string // ENTITYEXT_ENGINE, defaults to memory

	MongoURI      string // MONGO_URI
	MongoDatabase string // MONGO_DATABASE

	AWSAccessKey string // AWS_ACCESS_KEY
	AWSSecretKey string // AWS_SECRET_KEY
	AWSRegion    string // AWS_REGION
	DDBTable     string // AWS_DDB_TABLE
	DDBEndpoint  string // AWS_DDB_ENDPOINT, optional
}

// LoadEnv loads the given .env files (".env" when none are named) into the
// process environment and reads the backend settings. Missing files are not
// an error; variables already set in the environment win.
func LoadEnv(files ...string) *Env {
	if err := godotenv.Load(files...); err != nil {
		log.WithError(err).Debug("No .env file loaded, proceeding with environment variables")
	}

	engine := strings.ToLower(os.Getenv("ENTITYEXT_ENGINE"))
	if engine == "" {
		engine = EngineMemory
	}
	return &Env{
		Engine:        engine,
		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDatabase: os.Getenv("MONGO_DATABASE"),
		AWSAccessKey:  os.Getenv("AWS_ACCESS_KEY"),
		AWSSecretKey:  os.Getenv("AWS_SECRET_KEY"),
		AWSRegion:     os.Getenv("AWS_REGION"),
		DDBTable:      os.Getenv("AWS_DDB_TABLE"),
		DDBEndpoint:   os.Getenv("AWS_DDB_ENDPOINT"),
	}
}

// Validate checks that the selected engine has the settings it needs.
func (e *Env) Validate() error {
	switch e.Engine {
	case EngineMemory:
	case EngineMongo:
		if e.MongoURI == "" {
			return errors.NewConfigError("MONGO_URI", "is required for the mongo engine")
		}
		if e.MongoDatabase == "" {
			return errors.NewConfigError("MONGO_DATABASE", "is required for the mongo engine")
		}
	case EngineDynamoDB:
		if e.AWSRegion == "" {
			return errors.NewConfigError("AWS_REGION", "is required for the dynamodb engine")
		}
		if e.DDBTable == "" {
			return errors.NewConfigError("AWS_DDB_TABLE", "is required for the dynamodb engine")
		}
	default:
		return errors.NewConfigError("ENTITYEXT_ENGINE", fmt.Sprintf("unknown engine %q", e.Engine))
	}
	return nil
}

// OpenEngine connects the selected engine. The returned close function
// releases its connections and is never nil.
func (e *Env) OpenEngine(ctx context.Context) (datastore.Engine, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }
	if err := e.Validate(); err != nil {
		return nil, noop, err
	}

	switch e.Engine {
	case EngineMongo:
		engine, err := mongo.Connect(ctx, e.MongoURI, e.MongoDatabase)
		if err != nil {
			return nil, noop, err
		}
		return engine, engine.Close, nil
	case EngineDynamoDB:
		client, err := ddb.NewDynamoDBClient(ctx, e.AWSAccessKey, e.AWSSecretKey, e.AWSRegion, e.DDBEndpoint)
		if err != nil {
			return nil, noop, err
		}
		return ddb.NewEngine(client, e.DDBTable), noop, nil
	default:
		return mock.NewEngine(), noop, nil
	}
}
