/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package testmodels

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/go-openapi/strfmt"
	"github.com/stretchr/testify/assert"

	"github.com/suparena/entityext/errors"
	"github.com/suparena/entityext/registry"
)

func TestPlayerValidate(t *testing.T) {
	p := &Player{ID: aws.String("p1"), Name: aws.String("Ada"), Email: "ada@example.com"}
	assert.NoError(t, p.Validate(strfmt.Default))
	assert.Equal(t, "p1", p.OwnerID())

	p.Email = "not-an-email"
	assert.True(t, errors.IsValidationError(p.Validate(strfmt.Default)))

	assert.True(t, errors.IsValidationError((&Player{Name: aws.String("Ada")}).Validate(strfmt.Default)))
	assert.Equal(t, "", (&Player{}).OwnerID())
}

func TestPlayerIndexMapRegistered(t *testing.T) {
	m, ok := registry.GetIndexMap[Player]()
	assert.True(t, ok)
	assert.Equal(t, PlayerIndexMap, m)
}
